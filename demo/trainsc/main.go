// Command trainsc trains the style classifier on a
// label<TAB>text dataset and evaluates it on a held-out
// split.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/rip"
	"github.com/unixpickle/serializer"

	genex "github.com/nike-2001/GenEx-Cyberbullying"
	"github.com/nike-2001/GenEx-Cyberbullying/genexsc"
	"github.com/nike-2001/GenEx-Cyberbullying/genextoken"
)

func main() {
	var trainPath, validPath, tokPath, outPath string
	var padID, eosID int
	var batchSize, embedDim, hiddenSize int
	var stepSize float64
	flag.StringVar(&trainPath, "data", "train.tsv", "training data (label<TAB>text)")
	flag.StringVar(&validPath, "valid", "valid.tsv", "validation data")
	flag.StringVar(&tokPath, "tokenizer", "tokenizer.json", "tokenizer file")
	flag.StringVar(&outPath, "out", "classifier_out", "output classifier file")
	flag.IntVar(&padID, "pad", 1, "pad token id")
	flag.IntVar(&eosID, "eos", 2, "end-of-sequence token id")
	flag.IntVar(&batchSize, "batch", 32, "batch size")
	flag.IntVar(&embedDim, "embedding", 128, "embedding dimension")
	flag.IntVar(&hiddenSize, "hidden", 256, "hidden layer size")
	flag.Float64Var(&stepSize, "step", 0.001, "step size")
	flag.Parse()

	log.Println("Setting up...")

	creator := anyvec32.CurrentCreator()

	tok, err := genextoken.Open(tokPath, padID, eosID)
	if err != nil {
		essentials.Die(err)
	}
	defer tok.Close()

	training, err := readSamples(trainPath, tok)
	if err != nil {
		essentials.Die(err)
	}
	validation, err := readSamples(validPath, tok)
	if err != nil {
		essentials.Die(err)
	}

	cls := genexsc.NewClassifier(creator, tok.VocabSize(), embedDim, hiddenSize)
	t := &genexsc.Trainer{
		Classifier: cls,
		Cost:       anynet.DotCost{},
		Params:     cls.Parameters(),
		PadID:      tok.PadID(),
		Average:    true,
	}

	var iterNum int
	s := &anysgd.SGD{
		Fetcher:     t,
		Gradienter:  t,
		Transformer: &anysgd.Adam{},
		Samples:     training,
		Rater:       anysgd.ConstRater(stepSize),
		StatusFunc: func(b anysgd.Batch) {
			log.Printf("iter %d: cost=%v", iterNum, t.LastCost)
			iterNum++
		},
		BatchSize: batchSize,
	}

	log.Println("Press ctrl+c once to stop...")
	s.Run(rip.NewRIP().Chan())

	log.Println("Validating...")
	session := genex.NewSession(creator)
	session.EvaluateSC(cls, classBatches(validation, tok.PadID(), batchSize),
		anynet.DotCost{}, 0)

	if err := serializer.SaveAny(outPath, cls); err != nil {
		essentials.Die(err)
	}
}

func readSamples(path string, tok *genextoken.HF) (genexsc.SliceSampleList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, essentials.AddCtx("read samples", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, essentials.AddCtx("read samples", err)
	}

	bar := progressbar.NewOptions(len(lines),
		progressbar.OptionSetDescription("Encoding "+path),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
	var samples genexsc.SliceSampleList
	for _, line := range lines {
		bar.Add(1)
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		label, err := strconv.Atoi(parts[0])
		if err != nil || label < 0 || label > 1 {
			continue
		}
		ids := tok.Encode(parts[1], false)
		if len(ids) == 0 {
			continue
		}
		samples = append(samples, &genexsc.Sample{IDs: ids, Label: label})
	}
	bar.Finish()
	return samples, nil
}

func classBatches(samples genexsc.SliceSampleList, padID,
	batchSize int) []genex.ClassBatch {
	var res []genex.ClassBatch
	for i := 0; i < len(samples); i += batchSize {
		j := essentials.MinInt(i+batchSize, len(samples))
		ids := make([][]int, 0, j-i)
		labels := make([]int, 0, j-i)
		for _, s := range samples[i:j] {
			ids = append(ids, s.IDs)
			labels = append(labels, s.Label)
		}
		res = append(res, genex.ClassBatch{
			IDs:    genex.Collate(ids, padID),
			Labels: labels,
		})
	}
	return res
}
