package ifd

import (
	"context"
	"fmt"

	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/heuristic"
)

// ScorePair scores one pair with two scorer calls and the shift-and-scale
// normalization. Scorer failures degrade to the heuristic estimator; only a
// missing configuration or a done context is returned as an error.
//
// A heuristic result has zero conditioned and direct scores, and its tier and
// value category are bucketed from the heuristic score like any other score
// rather than pinned to medium.
func (e *Engine) ScorePair(ctx context.Context, p api.Pair) (api.ScoredPair, error) {
	if err := e.checkConfigured(); err != nil {
		return api.ScoredPair{}, err
	}
	if err := ctx.Err(); err != nil {
		return api.ScoredPair{}, err
	}
	sp, _ := e.scorePair(ctx, p)
	return sp, nil
}

// ScorePairs scores pairs one at a time with ScorePair semantics.
// A finalizing progress event is emitted before each pair.
func (e *Engine) ScorePairs(ctx context.Context, pairs []api.Pair, opts ...RunOption) ([]api.ScoredPair, error) {
	if err := e.checkConfigured(); err != nil {
		return nil, err
	}
	ro := e.runOptions(opts)
	start := e.now()

	results := make([]api.ScoredPair, len(pairs))
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ro.reporter.OnProgress(api.ProgressEvent{
			Phase:        api.PhaseFinalizing,
			Batch:        i + 1,
			TotalBatches: len(pairs),
			PairsDone:    i,
			TotalPairs:   len(pairs),
			Elapsed:      e.now().Sub(start),
			Status:       fmt.Sprintf("Scoring pair %d/%d...", i+1, len(pairs)),
		})
		results[i], _ = e.scorePair(ctx, p)
	}
	return results, nil
}

// scorePair returns the scored pair and the error that triggered the heuristic
// fallback, if any
func (e *Engine) scorePair(ctx context.Context, p api.Pair) (api.ScoredPair, error) {
	if !IsValid(p) {
		return invalidPair(p), nil
	}

	conditionedReply, err := e.complete(ctx, conditionedSystem, conditionedPrompt(p))
	if err != nil {
		return e.heuristicFallback(p, err), err
	}
	conditioned := float64(FirstDigit(conditionedReply, DefaultDigit)) / 10.0

	directReply, err := e.complete(ctx, directSystem, directPrompt(p))
	if err != nil {
		return e.heuristicFallback(p, err), err
	}
	direct := float64(FirstDigit(directReply, DefaultDigit)) / 10.0

	return newScoredPair(p, SinglePairIFD(conditioned, direct), conditioned, direct, ""), nil
}

func (e *Engine) heuristicFallback(p api.Pair, cause error) api.ScoredPair {
	e.opts.Logger.Warn("scoring pair failed, using heuristic estimate", "error", cause)
	score := heuristic.EstimateDifficulty(p.Answer)
	return newScoredPair(p, score, 0, 0, heuristicRecommendationPrefix+cause.Error())
}
