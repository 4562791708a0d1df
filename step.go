package genex

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet/anysgd"
)

// Step performs one optimization step for a scalar loss:
// it computes a fresh gradient for the parameters via
// back-propagation, transforms it (e.g. with
// anysgd.Adam), scales it by the negated learning rate,
// and adds it to the parameters.
//
// A nil transformer applies the raw gradient.
// The loss graph is left intact, so several losses
// sharing one forward pass may be stepped separately.
func Step(transformer anysgd.Transformer, rate float64,
	params []*anydiff.Var, loss anydiff.Res) {
	grad := anydiff.NewGrad(params...)

	c := loss.Output().Creator()
	upstream := c.MakeVectorData(c.MakeNumericList([]float64{1}))
	loss.Propagate(upstream, grad)

	if transformer != nil {
		grad = transformer.Transform(grad)
	}
	grad.Scale(c.MakeNumeric(-rate))
	grad.AddToVars()
}
