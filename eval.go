package genex

import (
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
)

// Greedy decoding in Evaluate stops after this many
// tokens when no end-of-sequence token comes first.
const evalDecodeCutoff = 30

// Evaluate runs the generator over a validation set and
// reports the mean generation loss together with the
// fraction of greedy decodes the classifier assigns to
// the style opposite the given source style.
//
// The model is switched to evaluation mode for the
// duration of the loop when it implements ModeSwitcher,
// and restored afterwards even if a batch panics.
// No gradients flow out of the loop.
//
// Each batch's decoded texts are printed, followed by a
// summary line.
func (s *Session) Evaluate(model Model, batches []Pair, cost anynet.Cost,
	tok Tokenizer, cls Classifier, style, step int) (float64, float64) {
	if m, ok := model.(ModeSwitcher); ok {
		m.SetTraining(false)
		defer m.SetTraining(true)
	}

	var totalLoss, totalAcc, totalNum float64
	for _, batch := range batches {
		mask := AttentionMask(MakePaddingMask(batch.Src, tok.PadID()))
		logits := model.Forward(batch.Src, mask, batch.Tgt)
		frozen := &Tensor{
			Data:  anydiff.NewConst(logits.Data.Output()),
			Batch: logits.Batch,
			Len:   logits.Len,
			Vocab: logits.Vocab,
		}

		loss := s.shiftedCost(cost, frozen, batch.Tgt)
		totalLoss += numberToFloat(anyvec.Sum(loss.Output()))

		_, idx := s.GreedyTokens(frozen)
		decoded := make([][]int, len(idx))
		texts := make([]string, len(idx))
		for i, seq := range idx {
			cut := evalDecodeCutoff
			if e := firstIndex(seq, tok.EOSID()); e >= 0 && e < evalDecodeCutoff {
				cut = e
			}
			if cut > len(seq) {
				cut = len(seq)
			}
			decoded[i] = seq[:cut]
			texts[i] = tok.Decode(decoded[i], true)
		}
		fmt.Println(texts)

		scores := vectorData(cls.Classify(Collate(decoded, tok.PadID())).Output())
		for i := range decoded {
			pred := 0
			if scores[2*i+1] > scores[2*i] {
				pred = 1
			}
			if (style == 0) == (pred == 1) {
				totalAcc++
			}
		}
		totalNum += float64(len(decoded))
	}

	loss := totalLoss / float64(len(batches))
	acc := totalAcc / totalNum
	fmt.Printf("[Info] valid %05d | loss %.4f | acc_sc %.4f\n", step, loss, acc)
	return loss, acc
}

// EvaluateSC runs the style classifier over a validation
// set and reports prediction-match accuracy and loss.
//
// The classifier is switched to evaluation mode for the
// duration of the loop when it implements ModeSwitcher,
// and restored afterwards even if a batch panics.
//
// Note the return order: accuracy first, then loss, the
// reverse of Evaluate.
func (s *Session) EvaluateSC(cls Classifier, batches []ClassBatch,
	cost anynet.Cost, epoch int) (float64, float64) {
	if m, ok := cls.(ModeSwitcher); ok {
		m.SetTraining(false)
		defer m.SetTraining(true)
	}

	var totalAcc, totalNum, totalLoss float64
	for _, batch := range batches {
		n := len(batch.Labels)
		logits := anydiff.NewConst(cls.Classify(batch.IDs).Output())

		oneHot := make([]float64, 2*n)
		for i, label := range batch.Labels {
			oneHot[2*i+label] = 1
		}
		costs := cost.Cost(s.constVec(oneHot), anydiff.LogSoftmax(logits, 2), n)
		totalLoss += numberToFloat(anyvec.Sum(costs.Output())) / float64(n)

		scores := vectorData(logits.Output())
		for i, label := range batch.Labels {
			pred := 0
			if scores[2*i+1] > scores[2*i] {
				pred = 1
			}
			if pred == label {
				totalAcc++
			}
		}
		totalNum += float64(n)
	}

	acc := totalAcc / totalNum
	loss := totalLoss / totalNum
	fmt.Printf("[Info] Epoch %02d-valid: acc %.4f%% | loss %.4f\n",
		epoch, acc*100, loss)
	return acc, loss
}

// shiftedCost computes the generation cost of a logits
// tensor against target sequences, where the logits at
// position i predict the target token at position i+1.
//
// The cost is averaged over all scored positions.
func (s *Session) shiftedCost(cost anynet.Cost, logits *Tensor,
	tgt [][]int) anydiff.Res {
	width := logits.Len - 1
	if width < 1 {
		panic("sequences too short to shift")
	}

	rows := make([]anydiff.Res, logits.Batch)
	oneHot := make([]float64, logits.Batch*width*logits.Vocab)
	for i := 0; i < logits.Batch; i++ {
		start := i * logits.Len * logits.Vocab
		rows[i] = anydiff.Slice(logits.Data, start, start+width*logits.Vocab)
		for j := 0; j < width; j++ {
			oneHot[(i*width+j)*logits.Vocab+tgt[i][j+1]] = 1
		}
	}

	n := logits.Batch * width
	logProbs := anydiff.LogSoftmax(anydiff.Concat(rows...), logits.Vocab)
	costs := cost.Cost(s.constVec(oneHot), logProbs, n)
	total := anydiff.Sum(costs)
	return anydiff.Scale(total, total.Output().Creator().MakeNumeric(1/float64(n)))
}
