package genexsc

import (
	"math"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec64"
)

func vecData(v anyvec.Vector) []float64 {
	return v.Data().([]float64)
}

func TestEmbeddingAverage(t *testing.T) {
	e := &Embedding{
		VocabSize: 3,
		Dim:       2,
		Vectors: anydiff.NewVar(anyvec64.MakeVectorData([]float64{
			1, 2,
			3, 4,
			5, 6,
		})),
	}

	out := e.Average([][]int{{0, 2}, {1, 1}})
	actual := vecData(out.Output())
	expected := []float64{3, 4, 3, 4}
	if len(actual) != len(expected) {
		t.Fatalf("expected %d outputs but got %d", len(expected), len(actual))
	}
	for i, x := range expected {
		if math.Abs(actual[i]-x) > 1e-8 {
			t.Errorf("output %d: expected %f but got %f", i, x, actual[i])
		}
	}
}

func TestEmbeddingSerialize(t *testing.T) {
	e := NewEmbedding(anyvec64.CurrentCreator(), 4, 3)
	data, err := e.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	e1, err := DeserializeEmbedding(data)
	if err != nil {
		t.Fatal(err)
	}
	if e1.VocabSize != 4 || e1.Dim != 3 {
		t.Errorf("expected 4x3 but got %dx%d", e1.VocabSize, e1.Dim)
	}

	orig := vecData(e.Vectors.Vector)
	loaded := vecData(e1.Vectors.Vector)
	for i, x := range orig {
		if math.Abs(loaded[i]-x) > 1e-8 {
			t.Errorf("vector %d: expected %f but got %f", i, x, loaded[i])
		}
	}
}
