package ifd

import (
	"math"
	"strings"

	"github.com/datar-psa/goifd/api"
)

const (
	// NeutralScore replaces any batch rating that is missing, malformed or out of range
	NeutralScore = 0.5
	// DefaultDigit is used by the single-pair path when a reply contains no digit
	DefaultDigit = 5

	easyBelow   = 0.33
	mediumBelow = 0.67
	highAbove   = 0.7
	mediumAbove = 0.4
)

const (
	RecommendationHigh    = "High value - prioritize for training"
	RecommendationMedium  = "Medium value - useful data"
	RecommendationLow     = "Low value - less useful for training"
	RecommendationInvalid = "Invalid pair - missing question or answer"

	heuristicRecommendationPrefix = "Heuristic scoring: "
)

// SinglePairIFD is the shift-and-scale normalization of the single-pair path.
// A ratio of 1.0 maps to about 0.33; ratios outside [0.5, 2.0] saturate.
// When direct is 0 the conditioned score is used as is.
func SinglePairIFD(conditioned, direct float64) float64 {
	if direct > 0 {
		return clamp01((conditioned/direct - 0.5) / 1.5)
	}
	return conditioned
}

// BatchIFD is the divide-by-3 normalization of the batch path.
// It is intentionally different from SinglePairIFD; scored data depends on both.
func BatchIFD(conditioned, direct float64) float64 {
	if direct > 0 {
		return clamp01(conditioned / direct / 3.0)
	}
	return conditioned
}

// TierFor buckets an IFD score: <0.33 easy, <0.67 medium, otherwise hard
func TierFor(score float64) api.Tier {
	switch {
	case score < easyBelow:
		return api.TierEasy
	case score < mediumBelow:
		return api.TierMedium
	default:
		return api.TierHard
	}
}

// CategoryFor buckets an IFD score: >0.7 high, >0.4 medium, otherwise low
func CategoryFor(score float64) api.ValueCategory {
	switch {
	case score > highAbove:
		return api.ValueHigh
	case score > mediumAbove:
		return api.ValueMedium
	default:
		return api.ValueLow
	}
}

// RecommendationFor returns the fixed recommendation text of a value category
func RecommendationFor(c api.ValueCategory) string {
	switch c {
	case api.ValueHigh:
		return RecommendationHigh
	case api.ValueMedium:
		return RecommendationMedium
	default:
		return RecommendationLow
	}
}

// newScoredPair builds the output record; tier and category use the unrounded score
func newScoredPair(p api.Pair, score, conditioned, direct float64, recommendation string) api.ScoredPair {
	category := CategoryFor(score)
	if recommendation == "" {
		recommendation = RecommendationFor(category)
	}
	return api.ScoredPair{
		Pair:             p,
		IFDScore:         round3(score),
		ConditionedScore: round3(conditioned),
		DirectScore:      round3(direct),
		Tier:             TierFor(score),
		ValueCategory:    category,
		Recommendation:   recommendation,
	}
}

// invalidPair is the sentinel result for a pair with an empty question or answer
func invalidPair(p api.Pair) api.ScoredPair {
	return api.ScoredPair{
		Pair:           p,
		Tier:           api.TierMedium,
		ValueCategory:  api.ValueLow,
		Recommendation: RecommendationInvalid,
	}
}

// IsValid reports whether both question and answer are non-empty after trimming
func IsValid(p api.Pair) bool {
	return strings.TrimSpace(p.Question) != "" && strings.TrimSpace(p.Answer) != ""
}

func clamp01(v float64) float64 {
	return max(0.0, min(1.0, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
