package ifd

import (
	"context"

	"github.com/datar-psa/goifd/api"
)

// AsScorer exposes single-pair scoring as an api.Scorer.
// Input is the question and Output the answer. Score.Error is set when the
// heuristic fallback was used or the engine is not configured.
func AsScorer(e *Engine) api.Scorer {
	return &ifdScorer{engine: e}
}

type ifdScorer struct {
	engine *Engine
}

func (s *ifdScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "IFD",
		Metadata: make(map[string]any),
	}

	if s.engine == nil {
		result.Error = api.ErrNotConfigured
		return result
	}
	if err := s.engine.checkConfigured(); err != nil {
		result.Error = err
		return result
	}

	sp, cause := s.engine.scorePair(ctx, api.Pair{Question: in.Input, Answer: in.Output})
	result.Score = sp.IFDScore
	result.Error = cause
	result.Metadata["conditioned_score"] = sp.ConditionedScore
	result.Metadata["direct_score"] = sp.DirectScore
	result.Metadata["tier"] = string(sp.Tier)
	result.Metadata["value_category"] = string(sp.ValueCategory)
	result.Metadata["recommendation"] = sp.Recommendation

	return result
}
