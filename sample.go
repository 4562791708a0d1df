package genex

import (
	"github.com/unixpickle/anydiff"
)

const sampleStabilizer = 1e-20

// SampleTokens draws one token index per position from
// the categorical distribution defined by each position's
// probability row, independently for every batch row.
//
// If the temperature is not 1, the probabilities are
// raised to the power 1/temperature (stabilized with a
// small epsilon) before sampling, and the returned
// probabilities come from the rescaled distribution.
//
// It returns the probability of each sampled token as a
// differentiable (batch, length) result, along with the
// sampled indices.
// Rows of all-zero probability are the caller's problem.
func (s *Session) SampleTokens(t *Tensor, temperature float64) (anydiff.Res, [][]int) {
	probs := t.Data
	if temperature != 1 {
		c := probs.Output().Creator()
		probs = anydiff.Pow(
			anydiff.AddScalar(probs, c.MakeNumeric(sampleStabilizer)),
			c.MakeNumeric(1/temperature),
		)
	}
	vals := vectorData(probs.Output())
	idx := make([][]int, t.Batch)
	for i := range idx {
		idx[i] = make([]int, t.Len)
		for j := 0; j < t.Len; j++ {
			offset := (i*t.Len + j) * t.Vocab
			idx[i][j] = s.multinomial(vals[offset : offset+t.Vocab])
		}
	}
	return s.gather(probs, idx, t), idx
}

// GreedyTokens picks the highest-probability token at
// every position.
//
// Like SampleTokens, it returns the probability of each
// chosen token as a differentiable (batch, length) result
// together with the chosen indices.
func (s *Session) GreedyTokens(t *Tensor) (anydiff.Res, [][]int) {
	vals := vectorData(t.Data.Output())
	idx := make([][]int, t.Batch)
	for i := range idx {
		idx[i] = make([]int, t.Len)
		for j := 0; j < t.Len; j++ {
			offset := (i*t.Len + j) * t.Vocab
			row := vals[offset : offset+t.Vocab]
			best := 0
			for k, x := range row {
				if x > row[best] {
					best = k
				}
			}
			idx[i][j] = best
		}
	}
	return s.gather(t.Data, idx, t), idx
}

// gather selects one probability per position by dotting
// each vocabulary row with a one-hot constant, keeping
// the selection differentiable.
func (s *Session) gather(probs anydiff.Res, idx [][]int, t *Tensor) anydiff.Res {
	oneHot := make([]float64, t.Batch*t.Len*t.Vocab)
	for i, row := range idx {
		for j, k := range row {
			oneHot[(i*t.Len+j)*t.Vocab+k] = 1
		}
	}
	products := anydiff.Mul(probs, s.constVec(oneHot))
	return anydiff.SumCols(&anydiff.Matrix{
		Data: products,
		Rows: t.Batch * t.Len,
		Cols: t.Vocab,
	})
}

// multinomial draws an index proportionally to a row of
// non-negative weights, which need not be normalized.
func (s *Session) multinomial(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := s.randFloat() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}
