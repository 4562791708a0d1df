// Package genexsc implements a reference style
// classifier: a learned embedding, mean pooling over the
// sequence, and a small fully-connected head producing
// two class logits.
package genexsc

import (
	"errors"
	"fmt"
	"math"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var e Embedding
	serializer.RegisterTypedDeserializer(e.SerializerType(), DeserializeEmbedding)
}

// An Embedding maps token ids to learned vectors.
type Embedding struct {
	VocabSize int
	Dim       int
	Vectors   *anydiff.Var
}

// NewEmbedding creates a randomized Embedding.
// The randomization targets unit variance of the pooled
// output.
func NewEmbedding(c anyvec.Creator, vocab, dim int) *Embedding {
	data := c.MakeVector(vocab * dim)
	anyvec.Rand(data, anyvec.Normal, nil)
	data.Scale(c.MakeNumeric(1 / math.Sqrt(float64(dim))))
	return &Embedding{
		VocabSize: vocab,
		Dim:       dim,
		Vectors:   anydiff.NewVar(data),
	}
}

// DeserializeEmbedding attempts to deserialize an
// Embedding.
func DeserializeEmbedding(d []byte) (*Embedding, error) {
	var vectors *anyvecsave.S
	var dim serializer.Int
	if err := serializer.DeserializeAny(d, &vectors, &dim); err != nil {
		return nil, essentials.AddCtx("deserialize Embedding", err)
	}
	if dim == 0 || vectors.Vector.Len()%int(dim) != 0 {
		return nil, errors.New("deserialize Embedding: invalid dimensions")
	}
	return &Embedding{
		VocabSize: vectors.Vector.Len() / int(dim),
		Dim:       int(dim),
		Vectors:   anydiff.NewVar(vectors.Vector),
	}, nil
}

// Average embeds every sequence in the batch and averages
// each sequence's vectors, producing a packed
// (batch, dim) result.
//
// Sequences may have different lengths but none may be
// empty.
func (e *Embedding) Average(ids [][]int) anydiff.Res {
	c := e.Vectors.Vector.Creator()
	rows := make([]anydiff.Res, len(ids))
	for i, seq := range ids {
		if len(seq) == 0 {
			panic("empty sequence")
		}
		var sum anydiff.Res
		for _, id := range seq {
			if id < 0 || id >= e.VocabSize {
				panic(fmt.Sprintf("token id %d out of range [0, %d)", id, e.VocabSize))
			}
			row := anydiff.Slice(e.Vectors, id*e.Dim, (id+1)*e.Dim)
			if sum == nil {
				sum = row
			} else {
				sum = anydiff.Add(sum, row)
			}
		}
		rows[i] = anydiff.Scale(sum, c.MakeNumeric(1/float64(len(seq))))
	}
	return anydiff.Concat(rows...)
}

// Parameters returns the embedding matrix as the sole
// learnable variable.
func (e *Embedding) Parameters() []*anydiff.Var {
	return []*anydiff.Var{e.Vectors}
}

// SerializerType returns the unique ID used to serialize
// an Embedding with the serializer package.
func (e *Embedding) SerializerType() string {
	return "github.com/nike-2001/GenEx-Cyberbullying/genexsc.Embedding"
}

// Serialize serializes the Embedding.
func (e *Embedding) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		&anyvecsave.S{Vector: e.Vectors.Vector},
		serializer.Int(e.Dim),
	)
}
