package ifd

import (
	"math"
	"testing"

	"github.com/datar-psa/goifd/api"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		want  api.Tier
	}{
		{0.0, api.TierEasy},
		{0.2, api.TierEasy},
		{0.329, api.TierEasy},
		{0.33, api.TierMedium},
		{0.5, api.TierMedium},
		{0.669, api.TierMedium},
		{0.67, api.TierHard},
		{1.0, api.TierHard},
	}

	for _, tt := range tests {
		if got := TierFor(tt.score); got != tt.want {
			t.Errorf("TierFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		score          float64
		want           api.ValueCategory
		recommendation string
	}{
		{0.0, api.ValueLow, RecommendationLow},
		{0.4, api.ValueLow, RecommendationLow},
		{0.401, api.ValueMedium, RecommendationMedium},
		{0.7, api.ValueMedium, RecommendationMedium},
		{0.701, api.ValueHigh, RecommendationHigh},
		{1.0, api.ValueHigh, RecommendationHigh},
	}

	for _, tt := range tests {
		got := CategoryFor(tt.score)
		if got != tt.want {
			t.Errorf("CategoryFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
		if rec := RecommendationFor(got); rec != tt.recommendation {
			t.Errorf("RecommendationFor(%q) = %q, want %q", got, rec, tt.recommendation)
		}
	}
}

func TestSinglePairIFD(t *testing.T) {
	tests := []struct {
		name        string
		conditioned float64
		direct      float64
		want        float64
	}{
		{name: "equal difficulty is neutral", conditioned: 0.5, direct: 0.5, want: 1.0 / 3.0},
		{name: "ratio 2 saturates high", conditioned: 0.8, direct: 0.4, want: 1.0},
		{name: "ratio above 2 clamps", conditioned: 0.9, direct: 0.1, want: 1.0},
		{name: "ratio 0.5 is zero", conditioned: 0.3, direct: 0.6, want: 0.0},
		{name: "ratio below 0.5 clamps", conditioned: 0.1, direct: 1.0, want: 0.0},
		{name: "ratio 1.4", conditioned: 0.7, direct: 0.5, want: 0.6},
		{name: "zero direct uses conditioned", conditioned: 0.7, direct: 0, want: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SinglePairIFD(tt.conditioned, tt.direct)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SinglePairIFD(%v, %v) = %v, want %v", tt.conditioned, tt.direct, got, tt.want)
			}
		})
	}
}

func TestBatchIFD(t *testing.T) {
	tests := []struct {
		name        string
		conditioned float64
		direct      float64
		want        float64
	}{
		{name: "example pair one", conditioned: 0.3, direct: 0.5, want: 0.2},
		{name: "example pair two", conditioned: 0.8, direct: 0.5, want: 1.6 / 3.0},
		{name: "neutral ratio", conditioned: 0.5, direct: 0.5, want: 1.0 / 3.0},
		{name: "maximum ratio", conditioned: 1.0, direct: 0.1, want: 1.0},
		{name: "zero direct uses conditioned", conditioned: 0.4, direct: 0, want: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BatchIFD(tt.conditioned, tt.direct)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BatchIFD(%v, %v) = %v, want %v", tt.conditioned, tt.direct, got, tt.want)
			}
		})
	}
}

func TestNewScoredPair_RoundsOutputOnly(t *testing.T) {
	// 0.3296 rounds to 0.33 but is still easy
	sp := newScoredPair(api.Pair{Question: "q", Answer: "a"}, 0.3296, 0.12345, 0.6789, "")
	if sp.IFDScore != 0.33 {
		t.Errorf("IFDScore = %v, want 0.33", sp.IFDScore)
	}
	if sp.Tier != api.TierEasy {
		t.Errorf("Tier = %q, want easy (computed before rounding)", sp.Tier)
	}
	if sp.ConditionedScore != 0.123 || sp.DirectScore != 0.679 {
		t.Errorf("Conditioned/Direct = %v/%v", sp.ConditionedScore, sp.DirectScore)
	}
	if sp.Recommendation != RecommendationLow {
		t.Errorf("Recommendation = %q", sp.Recommendation)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		pair api.Pair
		want bool
	}{
		{api.Pair{Question: "Q", Answer: "A"}, true},
		{api.Pair{Question: "", Answer: "A"}, false},
		{api.Pair{Question: "Q", Answer: ""}, false},
		{api.Pair{Question: "  \t", Answer: "A"}, false},
		{api.Pair{Question: "Q", Answer: "\n "}, false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.pair); got != tt.want {
			t.Errorf("IsValid(%+v) = %v, want %v", tt.pair, got, tt.want)
		}
	}
}
