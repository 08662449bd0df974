// Package curate selects training data from scored pairs: statistics, ranking,
// filtering, safety screening and deduplication.
package curate

import (
	"fmt"
	"math"

	"github.com/datar-psa/goifd/api"
)

// Summary describes the IFD distribution of a scored dataset
type Summary struct {
	Total      int                       `json:"total" yaml:"total"`
	AverageIFD float64                   `json:"avg_ifd" yaml:"avg_ifd"`
	MinIFD     float64                   `json:"min_ifd" yaml:"min_ifd"`
	MaxIFD     float64                   `json:"max_ifd" yaml:"max_ifd"`
	Tiers      map[api.Tier]int          `json:"distribution" yaml:"distribution"`
	Categories map[api.ValueCategory]int `json:"value_distribution" yaml:"value_distribution"`
	Insights   []string                  `json:"insights" yaml:"insights"`
}

// highAverageIFD is the average above which a dataset suits instruction tuning
const highAverageIFD = 0.6

// Summarize computes statistics and insights. An empty input yields a zero Summary.
func Summarize(pairs []api.ScoredPair) Summary {
	if len(pairs) == 0 {
		return Summary{}
	}

	s := Summary{
		Total:      len(pairs),
		MinIFD:     math.Inf(1),
		MaxIFD:     math.Inf(-1),
		Tiers:      map[api.Tier]int{api.TierEasy: 0, api.TierMedium: 0, api.TierHard: 0},
		Categories: map[api.ValueCategory]int{api.ValueLow: 0, api.ValueMedium: 0, api.ValueHigh: 0},
	}

	var sum float64
	for _, p := range pairs {
		sum += p.IFDScore
		s.MinIFD = math.Min(s.MinIFD, p.IFDScore)
		s.MaxIFD = math.Max(s.MaxIFD, p.IFDScore)
		s.Tiers[p.Tier]++
		s.Categories[p.ValueCategory]++
	}
	avg := sum / float64(len(pairs))

	s.AverageIFD = round3(avg)
	s.MinIFD = round3(s.MinIFD)
	s.MaxIFD = round3(s.MaxIFD)
	s.Insights = insights(s, avg)
	return s
}

func insights(s Summary, avg float64) []string {
	var out []string

	high, low := s.Categories[api.ValueHigh], s.Categories[api.ValueLow]
	if high > low {
		out = append(out, fmt.Sprintf("✓ Good dataset quality: %d high-value pairs", high))
	} else {
		out = append(out, fmt.Sprintf("⚠ Lower quality dataset: Only %d high-value pairs", high))
	}

	if float64(s.Tiers[api.TierMedium]) > float64(s.Total)*0.5 {
		out = append(out, "✓ Balanced difficulty distribution")
	} else {
		out = append(out, fmt.Sprintf("⚠ Unbalanced difficulty: %d easy, %d medium, %d hard",
			s.Tiers[api.TierEasy], s.Tiers[api.TierMedium], s.Tiers[api.TierHard]))
	}

	if avg > highAverageIFD {
		out = append(out, fmt.Sprintf("✓ High average IFD score (%.2f): Good for instruction tuning", avg))
	} else {
		out = append(out, fmt.Sprintf("⚠ Low average IFD score (%.2f): May need better data selection", avg))
	}

	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
