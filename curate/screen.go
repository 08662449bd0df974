package curate

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/datar-psa/goifd/api"
)

// DefaultScreenThreshold is the confidence above which a category flags an answer
const DefaultScreenThreshold = 0.5

// ErrNoModerator is returned when screening is requested without a moderation provider
var ErrNoModerator = errors.New("moderation provider is required")

// ScreenOptions configures answer safety screening
type ScreenOptions struct {
	// Threshold is the confidence threshold for flagging content (0.0-1.0)
	Threshold float64
	// Categories to check for moderation (empty = all categories)
	Categories []string
}

func (o ScreenOptions) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultScreenThreshold
	}
	return o.Threshold
}

// Flagged is a scored pair whose answer tripped at least one category
type Flagged struct {
	api.ScoredPair `yaml:",inline"`
	Categories     map[string]float64 `json:"flagged_categories" yaml:"flagged_categories"`
}

// Screen moderates every answer and splits pairs into safe and flagged,
// both in input order. A provider failure stops screening.
func Screen(ctx context.Context, provider api.ModerationProvider, pairs []api.ScoredPair, opts ScreenOptions) ([]api.ScoredPair, []Flagged, error) {
	if provider == nil {
		return nil, nil, ErrNoModerator
	}

	safe := make([]api.ScoredPair, 0, len(pairs))
	var flagged []Flagged
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		resp, err := provider.Moderate(ctx, p.Answer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to moderate pair %d: %w", i+1, err)
		}
		hits := flaggedCategories(resp, opts)
		if len(hits) == 0 {
			safe = append(safe, p)
			continue
		}
		flagged = append(flagged, Flagged{ScoredPair: p, Categories: hits})
	}
	return safe, flagged, nil
}

func flaggedCategories(resp *api.ModerationResult, opts ScreenOptions) map[string]float64 {
	hits := make(map[string]float64)
	if resp == nil {
		return hits
	}
	threshold := opts.threshold()
	for _, category := range resp.Categories {
		if len(opts.Categories) > 0 && !slices.Contains(opts.Categories, category.Name) {
			continue
		}
		if category.Confidence > threshold {
			hits[category.Name] = category.Confidence
		}
	}
	return hits
}

// Moderation returns a scorer that evaluates answer safety using a moderation provider.
// Returns 1.0 for safe content, 0.0 for unsafe content.
func Moderation(provider api.ModerationProvider, opts ScreenOptions) api.Scorer {
	return &moderationScorer{opts: opts, provider: provider}
}

type moderationScorer struct {
	opts     ScreenOptions
	provider api.ModerationProvider
}

func (s *moderationScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "Moderation",
		Metadata: make(map[string]any),
	}

	if s.provider == nil {
		result.Error = ErrNoModerator
		return result
	}

	resp, err := s.provider.Moderate(ctx, in.Output)
	if err != nil {
		result.Error = fmt.Errorf("failed to moderate content: %w", err)
		return result
	}

	hits := flaggedCategories(resp, s.opts)
	if len(hits) == 0 {
		result.Score = 1.0
	}
	result.Metadata["flagged_categories"] = hits
	result.Metadata["threshold"] = s.opts.threshold()
	if resp != nil {
		result.Metadata["all_categories"] = resp.Categories
	}
	result.Metadata["is_safe"] = len(hits) == 0

	return result
}
