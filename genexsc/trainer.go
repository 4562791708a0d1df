package genexsc

import (
	"errors"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"

	genex "github.com/nike-2001/GenEx-Cyberbullying"
)

// A Batch stores a collated batch of sequences and their
// one-hot labels.
type Batch struct {
	IDs    [][]int
	Labels *anydiff.Const
	Num    int
}

// A Trainer creates batches, computes gradients, and adds
// up costs for a style classifier.
type Trainer struct {
	Classifier *Classifier

	// Cost scores the classifier's log-probabilities
	// against the one-hot labels, e.g. anynet.DotCost{}.
	Cost anynet.Cost

	Params []*anydiff.Var

	// PadID fills the short sequences of a batch.
	PadID int

	// Average indicates whether or not the total cost should
	// be averaged before computing gradients.
	// This affects gradients, LastCost, and the output of
	// TotalCost().
	Average bool

	// After every gradient computation, LastCost is set to
	// the cost from the batch.
	LastCost anyvec.Numeric
}

// Fetch produces a *Batch for the subset of samples.
// The s argument must implement SampleList.
// The batch may not be empty.
func (t *Trainer) Fetch(s anysgd.SampleList) (anysgd.Batch, error) {
	if s.Len() == 0 {
		return nil, errors.New("fetch batch: empty batch")
	}
	l := s.(SampleList)
	ids := make([][]int, l.Len())
	oneHot := make([]float64, 2*l.Len())
	for i := 0; i < l.Len(); i++ {
		sample, err := l.GetSample(i)
		if err != nil {
			return nil, essentials.AddCtx("fetch batch", err)
		}
		if len(sample.IDs) == 0 {
			return nil, errors.New("fetch batch: empty sequence")
		}
		ids[i] = sample.IDs
		oneHot[2*i+sample.Label] = 1
	}
	c := t.Classifier.Embed.Vectors.Vector.Creator()
	return &Batch{
		IDs:    genex.Collate(ids, t.PadID),
		Labels: anydiff.NewConst(c.MakeVectorData(c.MakeNumericList(oneHot))),
		Num:    l.Len(),
	}, nil
}

// TotalCost computes the total cost for the *Batch.
func (t *Trainer) TotalCost(batch anysgd.Batch) anydiff.Res {
	b := batch.(*Batch)
	logits := t.Classifier.Classify(b.IDs)
	logProbs := anydiff.LogSoftmax(logits, 2)
	cost := t.Cost.Cost(b.Labels, logProbs, b.Num)
	total := anydiff.Sum(cost)
	if t.Average {
		divisor := 1 / float64(cost.Output().Len())
		return anydiff.Scale(total, total.Output().Creator().MakeNumeric(divisor))
	} else {
		return total
	}
}

// Gradient computes the gradient for the batch's cost.
// It also sets t.LastCost to the numerical value of the
// total cost.
//
// The b argument must be a *Batch.
func (t *Trainer) Gradient(b anysgd.Batch) anydiff.Grad {
	grad, lc := anysgd.CosterGrad(t, b, t.Params)
	t.LastCost = lc
	return grad
}
