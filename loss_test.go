package genex

import (
	"math"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anydifftest"
	"github.com/unixpickle/anyvec"
)

func TestRewardLossUnmasked(t *testing.T) {
	s := testSession(1)
	probs := s.constVec([]float64{0.5, 0.25, 0.2, 0.4})
	reward := []float64{1, -2}

	loss := s.RewardLoss(probs, reward, nil)
	expected := (-math.Log(0.5)*1 + -math.Log(0.25)*1 +
		-math.Log(0.2)*-2 + -math.Log(0.4)*-2) / 4
	actual := numberToFloat(anyvec.Sum(loss.Output()))
	if math.Abs(actual-expected) > 1e-8 {
		t.Errorf("expected %f but got %f", expected, actual)
	}
}

func TestRewardLossFullMask(t *testing.T) {
	s := testSession(1)
	probs := s.constVec([]float64{0.5, 0.25, 0.2, 0.4})
	reward := []float64{1, -2}

	unmasked := numberToFloat(anyvec.Sum(s.RewardLoss(probs, reward, nil).Output()))
	masked := numberToFloat(anyvec.Sum(s.RewardLoss(probs, reward, []int{2, 2}).Output()))
	if math.Abs(unmasked-masked) > 1e-8 {
		t.Errorf("full mask gave %f but unmasked mean is %f", masked, unmasked)
	}
}

func TestRewardLossMasked(t *testing.T) {
	s := testSession(1)
	probs := s.constVec([]float64{0.5, 0.25, 0.2, 0.4})
	reward := []float64{1, -2}

	loss := s.RewardLoss(probs, reward, []int{1, 2})
	expected := (-math.Log(0.5)*1 +
		(-math.Log(0.2)*-2+-math.Log(0.4)*-2)/2) / 2
	actual := numberToFloat(anyvec.Sum(loss.Output()))
	if math.Abs(actual-expected) > 1e-8 {
		t.Errorf("expected %f but got %f", expected, actual)
	}
}

func TestRewardLossLinearity(t *testing.T) {
	s := testSession(1)
	probs := s.constVec([]float64{0.5, 0.25, 0.2, 0.4})
	reward := []float64{0.5, -1.5}
	scaled := []float64{1.5, -4.5}

	base := numberToFloat(anyvec.Sum(s.RewardLoss(probs, reward, []int{2, 1}).Output()))
	tripled := numberToFloat(anyvec.Sum(s.RewardLoss(probs, scaled, []int{2, 1}).Output()))
	if math.Abs(tripled-3*base) > 1e-8 {
		t.Errorf("expected %f but got %f", 3*base, tripled)
	}
}

func TestRewardLossProp(t *testing.T) {
	s := testSession(1)
	v := anydiff.NewVar(s.Creator.MakeVectorData(s.Creator.MakeNumericList(
		[]float64{0.5, 0.25, 0.2, 0.4},
	)))

	checker := &anydifftest.ResChecker{
		F: func() anydiff.Res {
			return s.RewardLoss(v, []float64{1, -2}, []int{2, 1})
		},
		V: []*anydiff.Var{v},
	}
	checker.FullCheck(t)
}
