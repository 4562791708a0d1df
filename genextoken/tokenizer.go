// Package genextoken adapts HuggingFace tokenizers to
// the genex.Tokenizer interface.
package genextoken

import (
	"github.com/daulet/tokenizers"
	"github.com/unixpickle/essentials"
)

// An HF is a HuggingFace tokenizer loaded from a
// tokenizer.json file.
type HF struct {
	tok *tokenizers.Tokenizer
	pad int
	eos int
}

// Open loads a tokenizer file and records the pad and
// end-of-sequence ids, which the file format does not
// expose directly.
func Open(path string, padID, eosID int) (*HF, error) {
	tok, err := tokenizers.FromFile(path)
	if err != nil {
		return nil, essentials.AddCtx("open tokenizer", err)
	}
	return &HF{tok: tok, pad: padID, eos: eosID}, nil
}

// PadID returns the padding token id.
func (h *HF) PadID() int {
	return h.pad
}

// EOSID returns the end-of-sequence token id.
func (h *HF) EOSID() int {
	return h.eos
}

// Encode converts text to token ids.
func (h *HF) Encode(text string, addSpecial bool) []int {
	ids, _ := h.tok.Encode(text, addSpecial)
	res := make([]int, len(ids))
	for i, id := range ids {
		res[i] = int(id)
	}
	return res
}

// Decode converts token ids back to text.
// If skipSpecial is true, special tokens are omitted from
// the output.
func (h *HF) Decode(ids []int, skipSpecial bool) string {
	u := make([]uint32, len(ids))
	for i, id := range ids {
		u[i] = uint32(id)
	}
	return h.tok.Decode(u, skipSpecial)
}

// VocabSize returns the tokenizer's vocabulary size.
func (h *HF) VocabSize() int {
	return int(h.tok.VocabSize())
}

// Close releases the tokenizer's native resources.
func (h *HF) Close() error {
	return h.tok.Close()
}
