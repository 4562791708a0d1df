package genex

import (
	"math"
	"math/rand"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec/anyvec64"
)

func testSession(seed int64) *Session {
	return &Session{
		Creator: anyvec64.CurrentCreator(),
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

func testProbsTensor(s *Session) *Tensor {
	data := []float64{
		0.1, 0.2, 0.3, 0.4,
		0.25, 0.25, 0.25, 0.25,
		0.7, 0.1, 0.1, 0.1,

		0.4, 0.3, 0.2, 0.1,
		0, 0, 1, 0,
		0.5, 0.5, 0, 0,
	}
	return &Tensor{
		Data:  s.constVec(data),
		Batch: 2,
		Len:   3,
		Vocab: 4,
	}
}

func TestSampleTokens(t *testing.T) {
	s := testSession(3)
	tensor := testProbsTensor(s)
	raw := vectorData(tensor.Data.Output())

	probs, idx := s.SampleTokens(tensor, 1)
	if len(idx) != 2 || len(idx[0]) != 3 {
		t.Fatalf("bad index shape: %d x %d", len(idx), len(idx[0]))
	}
	probVals := vectorData(probs.Output())
	if len(probVals) != 6 {
		t.Fatalf("expected 6 probabilities but got %d", len(probVals))
	}
	for i, row := range idx {
		for j, k := range row {
			if k < 0 || k >= 4 {
				t.Errorf("index %d,%d out of range: %d", i, j, k)
			}
			expected := raw[(i*3+j)*4+k]
			if math.Abs(probVals[i*3+j]-expected) > 1e-8 {
				t.Errorf("index %d,%d: expected probability %f but got %f",
					i, j, expected, probVals[i*3+j])
			}
		}
	}

	// The one-hot row must always sample the same index.
	for i := 0; i < 20; i++ {
		_, idx = s.SampleTokens(tensor, 1)
		if idx[1][1] != 2 {
			t.Errorf("expected index 2 but got %d", idx[1][1])
		}
	}
}

func TestSampleTokensTemperature(t *testing.T) {
	s := testSession(5)
	tensor := testProbsTensor(s)
	raw := vectorData(tensor.Data.Output())

	const temp = 0.5
	probs, idx := s.SampleTokens(tensor, temp)
	probVals := vectorData(probs.Output())
	for i, row := range idx {
		for j, k := range row {
			expected := math.Pow(raw[(i*3+j)*4+k]+sampleStabilizer, 1/temp)
			if math.Abs(probVals[i*3+j]-expected) > 1e-8 {
				t.Errorf("index %d,%d: expected probability %f but got %f",
					i, j, expected, probVals[i*3+j])
			}
		}
	}
}

func TestGreedyTokens(t *testing.T) {
	s := testSession(7)
	tensor := testProbsTensor(s)

	probs, idx := s.GreedyTokens(tensor)
	expected := [][]int{{3, 0, 0}, {0, 2, 0}}
	for i, row := range expected {
		for j, k := range row {
			if idx[i][j] != k {
				t.Errorf("index %d,%d: expected %d but got %d", i, j, k, idx[i][j])
			}
		}
	}
	probVals := vectorData(probs.Output())
	expectedProbs := []float64{0.4, 0.25, 0.7, 0.4, 1, 0.5}
	for i, x := range expectedProbs {
		if math.Abs(probVals[i]-x) > 1e-8 {
			t.Errorf("probability %d: expected %f but got %f", i, x, probVals[i])
		}
	}
}

func TestSampleGradient(t *testing.T) {
	s := testSession(11)
	v := anydiff.NewVar(s.Creator.MakeVectorData(s.Creator.MakeNumericList(
		[]float64{0.1, 0.2, 0.3, 0.4},
	)))
	tensor := &Tensor{Data: v, Batch: 1, Len: 1, Vocab: 4}

	probs, idx := s.SampleTokens(tensor, 1)
	grad := anydiff.NewGrad(v)
	c := probs.Output().Creator()
	upstream := c.MakeVectorData(c.MakeNumericList([]float64{1}))
	probs.Propagate(upstream, grad)

	gradVals := vectorData(grad[v])
	for i, x := range gradVals {
		expected := 0.0
		if i == idx[0][0] {
			expected = 1
		}
		if math.Abs(x-expected) > 1e-8 {
			t.Errorf("gradient %d: expected %f but got %f", i, expected, x)
		}
	}
}
