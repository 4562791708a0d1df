package genex

import (
	"fmt"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// A Session holds the execution state shared by the
// training utilities: the creator used to allocate new
// vectors and the source of randomness for sampling.
//
// A Session takes the place of any process-wide device
// selection; callers thread it through explicitly.
type Session struct {
	Creator anyvec.Creator

	// Rand is the source used for stochastic sampling.
	// If it is nil, the shared math/rand source is used.
	Rand *rand.Rand
}

// NewSession creates a Session with the given creator and
// the shared random source.
func NewSession(c anyvec.Creator) *Session {
	return &Session{Creator: c}
}

func (s *Session) randFloat() float64 {
	if s.Rand != nil {
		return s.Rand.Float64()
	}
	return rand.Float64()
}

// constVec packs a []float64 into a constant on the
// session's creator.
func (s *Session) constVec(data []float64) *anydiff.Const {
	c := s.Creator
	return anydiff.NewConst(c.MakeVectorData(c.MakeNumericList(data)))
}

// vectorData extracts the components of a vector as
// float64 values, regardless of the underlying numeric
// type.
func vectorData(v anyvec.Vector) []float64 {
	switch d := v.Data().(type) {
	case []float64:
		return d
	case []float32:
		s := make([]float64, len(d))
		for i, x := range d {
			s[i] = float64(x)
		}
		return s
	default:
		panic(fmt.Sprintf("unsupported numeric type: %T", d))
	}
}

// numberToFloat converts a scalar anyvec.Numeric to a
// float64.
func numberToFloat(n anyvec.Numeric) float64 {
	switch n := n.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		panic(fmt.Sprintf("unsupported numeric type: %T", n))
	}
}
