package genex

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
)

// A FineTuner drives reward-based fine-tuning of a
// generator: each training batch combines the shifted
// generation cost with the style-classifier and
// self-critical BLEU losses computed from one shared
// forward pass.
type FineTuner struct {
	Session    *Session
	Model      Model
	Classifier Classifier
	Tokenizer  Tokenizer

	// Cost scores the shifted logits against the target
	// tokens, e.g. anynet.DotCost{}.
	Cost anynet.Cost

	Params      []*anydiff.Var
	Transformer anysgd.Transformer
	Rate        float64

	// Style is the source style of the training data; the
	// style reward pushes toward its opposite.
	Style int

	// After every batch, LastCost holds the combined loss.
	LastCost float64
}

// TrainBatch runs one forward pass, sums the generation,
// style, and content losses, and applies one optimizer
// step to the parameters.
//
// It returns the combined loss value.
func (f *FineTuner) TrainBatch(src, tgt [][]int, lengths []int) float64 {
	mask := AttentionMask(MakePaddingMask(src, f.Tokenizer.PadID()))
	logits := f.Model.Forward(src, mask, tgt)

	ce := f.Session.shiftedCost(f.Cost, logits, tgt)
	sc := f.Session.StyleLoss(logits, lengths, f.Classifier, f.Tokenizer, f.Style)
	co := f.Session.ContentLoss(logits, tgt, lengths, f.Tokenizer)
	loss := anydiff.Add(anydiff.Add(ce, sc), co)

	Step(f.Transformer, f.Rate, f.Params, loss)
	f.LastCost = numberToFloat(anyvec.Sum(loss.Output()))
	return f.LastCost
}
