package genex

import (
	"fmt"

	"github.com/unixpickle/anydiff"
)

// RewardLoss turns per-sequence rewards and per-step
// sampled probabilities into a single scalar loss by
// weighting the negative log of each sampled probability
// with its sequence's reward.
//
// The probabilities are packed as (batch, length) with
// batch = len(reward).
// If lengths is non-nil, positions at or beyond a
// sequence's length are masked out and each sequence's
// loss is averaged over its unmasked positions before
// taking the batch mean.
// Otherwise the loss is the mean over all positions.
//
// A sampled probability of exactly zero makes the log
// term infinite; the caller must rule that out.
func (s *Session) RewardLoss(sampleProbs anydiff.Res, reward []float64,
	lengths []int) anydiff.Res {
	batch := len(reward)
	if batch == 0 {
		panic("empty reward batch")
	}
	width := sampleProbs.Output().Len() / batch
	if width*batch != sampleProbs.Output().Len() {
		panic(fmt.Sprintf("probability count %d is not divisible by batch %d",
			sampleProbs.Output().Len(), batch))
	}

	weights := make([]float64, batch*width)
	if lengths != nil {
		if len(lengths) != batch {
			panic(fmt.Sprintf("got %d lengths for batch %d", len(lengths), batch))
		}
		for i, l := range lengths {
			if l > width {
				l = width
			}
			for j := 0; j < l; j++ {
				weights[i*width+j] = -reward[i] / float64(l*batch)
			}
		}
	} else {
		for i := 0; i < batch; i++ {
			for j := 0; j < width; j++ {
				weights[i*width+j] = -reward[i] / float64(batch*width)
			}
		}
	}

	logs := anydiff.Log(sampleProbs)
	return anydiff.Sum(anydiff.Mul(logs, s.constVec(weights)))
}
