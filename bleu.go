package genex

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	bleuMaxOrder = 4

	// Additive smoothing constant for n-gram orders with
	// no matches, so that scores never collapse to zero.
	bleuSmoothing = 0.1
)

// SentenceBLEU computes a smoothed BLEU score of a
// hypothesis against a single reference, using uniform
// weights over n-gram orders 1 through 4.
//
// Orders with zero matches receive an additive smoothing
// count, so the score is strictly positive for any
// non-empty hypothesis.
func SentenceBLEU(hyp, ref []int) float64 {
	if len(hyp) == 0 {
		return 0
	}
	var logSum float64
	for n := 1; n <= bleuMaxOrder; n++ {
		matches, total := modifiedPrecision(hyp, ref, n)
		var p float64
		if matches == 0 {
			p = bleuSmoothing / float64(total)
		} else {
			p = float64(matches) / float64(total)
		}
		logSum += math.Log(p) / bleuMaxOrder
	}
	penalty := 1.0
	if len(hyp) <= len(ref) {
		penalty = math.Exp(1 - float64(len(ref))/float64(len(hyp)))
	}
	return penalty * math.Exp(logSum)
}

// BLEUReward computes one smoothed BLEU score per
// hypothesis/reference pair.
//
// The two lists must have equal length.
func BLEUReward(hyps, refs [][]int) []float64 {
	if len(hyps) != len(refs) {
		panic(fmt.Sprintf("got %d hypotheses but %d references",
			len(hyps), len(refs)))
	}
	res := make([]float64, len(hyps))
	for i, hyp := range hyps {
		res[i] = SentenceBLEU(hyp, refs[i])
	}
	return res
}

// modifiedPrecision counts the hypothesis n-grams of the
// given order, clipping each n-gram's count by its count
// in the reference.
// The total is never less than 1.
func modifiedPrecision(hyp, ref []int, n int) (matches, total int) {
	refCounts := countNGrams(ref, n)
	for gram, count := range countNGrams(hyp, n) {
		if m := refCounts[gram]; m < count {
			matches += m
		} else {
			matches += count
		}
		total += count
	}
	if total < 1 {
		total = 1
	}
	return
}

func countNGrams(seq []int, n int) map[string]int {
	counts := map[string]int{}
	for i := 0; i+n <= len(seq); i++ {
		counts[ngramKey(seq[i:i+n])]++
	}
	return counts
}

func ngramKey(gram []int) string {
	var b strings.Builder
	for i, x := range gram {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(x))
	}
	return b.String()
}
