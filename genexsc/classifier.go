package genexsc

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var c Classifier
	serializer.RegisterTypedDeserializer(c.SerializerType(), DeserializeClassifier)
}

// A Classifier scores padded batches of token sequences
// for membership in one of two style classes.
type Classifier struct {
	Embed *Embedding
	Net   anynet.Net
}

// NewClassifier creates a randomized Classifier with the
// given vocabulary size, embedding dimension, and hidden
// layer size.
func NewClassifier(c anyvec.Creator, vocab, dim, hidden int) *Classifier {
	return &Classifier{
		Embed: NewEmbedding(c, vocab, dim),
		Net: anynet.Net{
			anynet.NewFC(c, dim, hidden),
			anynet.Tanh,
			&anynet.Dropout{Enabled: true, KeepProb: 0.5},
			anynet.NewFC(c, hidden, 2),
		},
	}
}

// DeserializeClassifier attempts to deserialize a
// Classifier.
func DeserializeClassifier(d []byte) (*Classifier, error) {
	var embed *Embedding
	var net anynet.Net
	if err := serializer.DeserializeAny(d, &embed, &net); err != nil {
		return nil, essentials.AddCtx("deserialize Classifier", err)
	}
	return &Classifier{Embed: embed, Net: net}, nil
}

// Classify produces a packed (batch, 2) matrix of class
// logits for the batch.
func (c *Classifier) Classify(ids [][]int) anydiff.Res {
	pooled := c.Embed.Average(ids)
	return c.Net.Apply(pooled, len(ids))
}

// SetTraining toggles the dropout layers in the head.
func (c *Classifier) SetTraining(training bool) {
	for _, layer := range c.Net {
		if d, ok := layer.(*anynet.Dropout); ok {
			d.Enabled = training
		}
	}
}

// Parameters returns the embedding and head parameters.
func (c *Classifier) Parameters() []*anydiff.Var {
	return append(c.Embed.Parameters(), c.Net.Parameters()...)
}

// SerializerType returns the unique ID used to serialize
// a Classifier with the serializer package.
func (c *Classifier) SerializerType() string {
	return "github.com/nike-2001/GenEx-Cyberbullying/genexsc.Classifier"
}

// Serialize serializes the Classifier.
func (c *Classifier) Serialize() ([]byte, error) {
	return serializer.SerializeAny(c.Embed, c.Net)
}
