package genex

import (
	"math"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec/anyvec64"
)

func TestStep(t *testing.T) {
	c := anyvec64.CurrentCreator()
	v := anydiff.NewVar(c.MakeVectorData(c.MakeNumericList([]float64{1, -2})))

	loss := anydiff.Sum(anydiff.Square(v))
	Step(nil, 0.1, []*anydiff.Var{v}, loss)

	// One step against the gradient 2x scales x by 0.8.
	vals := vectorData(v.Vector)
	expected := []float64{0.8, -1.6}
	for i, x := range expected {
		if math.Abs(vals[i]-x) > 1e-8 {
			t.Errorf("component %d: expected %f but got %f", i, x, vals[i])
		}
	}
}

func TestStepTransformed(t *testing.T) {
	c := anyvec64.CurrentCreator()
	v := anydiff.NewVar(c.MakeVectorData(c.MakeNumericList([]float64{1})))

	adam := &anysgd.Adam{}
	for i := 0; i < 3; i++ {
		loss := anydiff.Sum(anydiff.Square(v))
		Step(adam, 0.1, []*anydiff.Var{v}, loss)
	}

	val := vectorData(v.Vector)[0]
	if val >= 1 {
		t.Errorf("expected the parameter to shrink but got %f", val)
	}
	if math.IsNaN(val) {
		t.Error("parameter became NaN")
	}
}

func TestStepSharedForward(t *testing.T) {
	c := anyvec64.CurrentCreator()
	v := anydiff.NewVar(c.MakeVectorData(c.MakeNumericList([]float64{3})))

	// Two losses over one shared computation, stepped
	// separately.
	shared := anydiff.Square(v)
	first := anydiff.Sum(shared)
	second := anydiff.Sum(anydiff.Scale(shared, c.MakeNumeric(2.0)))

	Step(nil, 0.1, []*anydiff.Var{v}, first)
	Step(nil, 0.1, []*anydiff.Var{v}, second)

	val := vectorData(v.Vector)[0]
	if math.IsNaN(val) || val >= 3 {
		t.Errorf("expected the parameter to shrink but got %f", val)
	}
}
