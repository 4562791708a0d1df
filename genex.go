// Package genex provides training utilities for a
// sequence-to-sequence style-transfer model trained with
// reward signals: a BLEU similarity reward against
// reference text and a style-classifier reward.
//
// The package does not implement the generator itself.
// It computes reward-weighted losses over the generator's
// output distributions and leaves the heavy lifting to
// the anydiff/anyvec runtime.
package genex

import (
	"fmt"

	"github.com/unixpickle/anydiff"
)

// A Tensor is a packed batch of per-position rows over a
// vocabulary, laid out as (batch, length, vocab) in
// row-major order.
type Tensor struct {
	Data  anydiff.Res
	Batch int
	Len   int
	Vocab int
}

// Softmax applies a softmax along the vocabulary axis and
// returns the resulting tensor.
func Softmax(t *Tensor) *Tensor {
	if t.Data.Output().Len() != t.Batch*t.Len*t.Vocab {
		panic(fmt.Sprintf("tensor length should be %d, but got %d",
			t.Batch*t.Len*t.Vocab, t.Data.Output().Len()))
	}
	sm := anydiff.Exp(anydiff.LogSoftmax(t.Data, t.Vocab))
	return &Tensor{Data: sm, Batch: t.Batch, Len: t.Len, Vocab: t.Vocab}
}

// A Model runs an encoder-decoder forward pass over a
// padded batch of source sequences and decoder inputs,
// producing one logit row per decoder position.
//
// The attention mask marks positions to attend to; a nil
// mask means every position is attended.
type Model interface {
	Forward(src [][]int, attentionMask [][]bool, decoderIDs [][]int) *Tensor
}

// A Classifier scores a padded batch of token sequences
// for membership in one of two style classes.
// The result is a packed (batch, 2) matrix of logits.
type Classifier interface {
	Classify(ids [][]int) anydiff.Res
}

// A Tokenizer exposes the vocabulary details needed to
// truncate, pad, and decode generated sequences.
type Tokenizer interface {
	PadID() int
	EOSID() int

	// Decode converts token ids back to text.
	// If skipSpecial is true, special tokens are omitted
	// and tokenization spacing is preserved as-is.
	Decode(ids []int, skipSpecial bool) string
}

// A ModeSwitcher is a model with distinct training and
// evaluation behavior, such as one containing dropout.
//
// Models and classifiers passed to the evaluation loops
// are switched to evaluation mode for the duration of the
// loop if they implement ModeSwitcher.
type ModeSwitcher interface {
	SetTraining(training bool)
}

// A Pair is one validation batch for the generator: a
// padded batch of source sequences and the corresponding
// reference targets.
type Pair struct {
	Src [][]int
	Tgt [][]int
}

// A ClassBatch is one validation batch for the style
// classifier: padded token sequences and their labels.
type ClassBatch struct {
	IDs    [][]int
	Labels []int
}
