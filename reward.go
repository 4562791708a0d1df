package genex

import (
	"math"

	"github.com/unixpickle/anydiff"
)

// Scale applied to the self-critical BLEU reward.
const contentRewardScale = 0.2

// Minimum position for an end-of-sequence cut when
// truncating sampled sequences for the style classifier.
// Earlier stops are treated as degenerate and ignored.
const styleCutMin = 4

// StyleLoss computes a reward-weighted loss that pushes
// the generator's output toward the style opposite the
// given source style.
//
// The logits are softmaxed and sampled, each sampled
// sequence is truncated at its first end-of-sequence
// token when that token occurs after position 4 and
// before the sequence's target length (otherwise at
// length-1), and the truncated batch is scored by the
// classifier with no gradient flow.
// The reward for a row is the difference between the two
// class probabilities, signed so that the opposite style
// is rewarded.
func (s *Session) StyleLoss(out *Tensor, lengths []int, cls Classifier,
	tok Tokenizer, style int) anydiff.Res {
	probs := Softmax(out)
	sampleProbs, sampleIdx := s.SampleTokens(probs, 1)

	seqs := make([][]int, out.Batch)
	for i, seq := range sampleIdx {
		cut := lengths[i] - 1
		if e := firstIndex(seq, tok.EOSID()); e > styleCutMin && e < lengths[i] {
			cut = e
		}
		seqs[i] = seq[:cut]
	}

	scores := vectorData(cls.Classify(Collate(seqs, tok.PadID())).Output())
	reward := make([]float64, out.Batch)
	for i := range reward {
		p0, p1 := softmaxPair(scores[2*i], scores[2*i+1])
		if style == 0 {
			reward[i] = p1 - p0
		} else {
			reward[i] = p0 - p1
		}
	}

	return s.RewardLoss(sampleProbs, reward, lengths)
}

// ContentLoss computes a self-critical BLEU loss: the
// generator is rewarded for sampled sequences that beat
// its own greedy output's BLEU score against the
// reference.
//
// Sampled and greedy sequences are truncated at their
// first end-of-sequence token when it falls strictly
// inside (0, length), otherwise at length-1.
// References drop their leading start token and are cut
// at their target length.
func (s *Session) ContentLoss(out *Tensor, refs [][]int, lengths []int,
	tok Tokenizer) anydiff.Res {
	probs := Softmax(out)
	sampleProbs, sampleIdx := s.SampleTokens(probs, 1)
	_, greedyIdx := s.GreedyTokens(probs)

	sampled := make([][]int, out.Batch)
	greedy := make([][]int, out.Batch)
	targets := make([][]int, out.Batch)
	for i := 0; i < out.Batch; i++ {
		sampled[i] = truncateAtEOS(sampleIdx[i], tok.EOSID(), lengths[i])
		greedy[i] = truncateAtEOS(greedyIdx[i], tok.EOSID(), lengths[i])
		targets[i] = refs[i][1:lengths[i]]
	}

	sampledBLEU := BLEUReward(sampled, targets)
	greedyBLEU := BLEUReward(greedy, targets)
	reward := make([]float64, out.Batch)
	for i := range reward {
		reward[i] = (greedyBLEU[i] - sampledBLEU[i]) * contentRewardScale
	}

	return s.RewardLoss(sampleProbs, reward, lengths)
}

// truncateAtEOS cuts a sequence at its first
// end-of-sequence token if that token falls strictly
// inside (0, length), and at length-1 otherwise.
func truncateAtEOS(seq []int, eosID, length int) []int {
	cut := length - 1
	if e := firstIndex(seq, eosID); e > 0 && e < length {
		cut = e
	}
	return seq[:cut]
}

func firstIndex(seq []int, id int) int {
	for i, x := range seq {
		if x == id {
			return i
		}
	}
	return -1
}

// softmaxPair is a two-class softmax over raw scores.
func softmaxPair(a, b float64) (float64, float64) {
	m := math.Max(a, b)
	ea := math.Exp(a - m)
	eb := math.Exp(b - m)
	return ea / (ea + eb), eb / (ea + eb)
}
