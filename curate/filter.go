package curate

import (
	"slices"
	"sort"

	"github.com/datar-psa/goifd/api"
)

// DefaultHighValueMin is the IFD floor used by HighValue when none is given
const DefaultHighValueMin = 0.6

// Rank returns a copy of pairs sorted by IFD score, highest first when
// descending is set. Pairs with equal scores keep their input order.
func Rank(pairs []api.ScoredPair, descending bool) []api.ScoredPair {
	out := slices.Clone(pairs)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].IFDScore > out[j].IFDScore
		}
		return out[i].IFDScore < out[j].IFDScore
	})
	return out
}

// Criteria selects scored pairs. Bounds are inclusive; empty Tiers or
// Categories accept every value.
type Criteria struct {
	MinIFD     float64
	MaxIFD     float64
	Tiers      []api.Tier
	Categories []api.ValueCategory
}

// AllPairs accepts every scored pair
func AllPairs() Criteria {
	return Criteria{MinIFD: 0, MaxIFD: 1}
}

// Match reports whether p satisfies c
func (c Criteria) Match(p api.ScoredPair) bool {
	if p.IFDScore < c.MinIFD || p.IFDScore > c.MaxIFD {
		return false
	}
	if len(c.Tiers) > 0 && !slices.Contains(c.Tiers, p.Tier) {
		return false
	}
	if len(c.Categories) > 0 && !slices.Contains(c.Categories, p.ValueCategory) {
		return false
	}
	return true
}

// Filter returns the pairs matching c, in input order
func Filter(pairs []api.ScoredPair, c Criteria) []api.ScoredPair {
	out := make([]api.ScoredPair, 0, len(pairs))
	for _, p := range pairs {
		if c.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// HighValue keeps pairs with an IFD score of at least floor
func HighValue(pairs []api.ScoredPair, floor float64) []api.ScoredPair {
	if floor <= 0 {
		floor = DefaultHighValueMin
	}
	return Filter(pairs, Criteria{MinIFD: floor, MaxIFD: 1})
}
