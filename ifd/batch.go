package ifd

import (
	"context"
	"fmt"
	"time"

	"github.com/datar-psa/goifd/api"
)

// batchPhase describes one rating pass over all batches
type batchPhase struct {
	phase  api.Phase
	system string
	prompt func(batch []api.Pair) string
	status string
}

var (
	conditionedPhase = batchPhase{
		phase:  api.PhaseConditioned,
		system: batchConditionedSystem,
		prompt: batchConditionedPrompt,
		status: "Phase 1: Scoring %d/%d...",
	}
	directPhase = batchPhase{
		phase:  api.PhaseDirect,
		system: directSystem,
		prompt: batchDirectPrompt,
		status: "Phase 2: Analyzing complexity %d/%d...",
	}
)

// span is a half-open index range of the input; batches never copy pairs
type span struct{ lo, hi int }

func partition(n, size int) []span {
	spans := make([]span, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		spans = append(spans, span{lo: lo, hi: min(lo+size, n)})
	}
	return spans
}

// ScoreBatch scores pairs with one conditioned and one direct scorer call per
// batch, then combines them with the divide-by-3 normalization.
//
// Phases run strictly in order: all conditioned batches, all direct batches,
// then finalize. A failed batch call gives NeutralScore to every pair of that
// batch; malformed replies never fail the run. The output has the same length
// and order as pairs. Only a missing configuration or a done context (checked
// between batches) is returned as an error.
func (e *Engine) ScoreBatch(ctx context.Context, pairs []api.Pair, opts ...RunOption) ([]api.ScoredPair, error) {
	if err := e.checkConfigured(); err != nil {
		return nil, err
	}
	ro := e.runOptions(opts)
	start := e.now()
	total := len(pairs)
	spans := partition(total, ro.batchSize)

	conditioned, err := e.ratePhase(ctx, conditionedPhase, pairs, spans, ro, start)
	if err != nil {
		return nil, err
	}
	direct, err := e.ratePhase(ctx, directPhase, pairs, spans, ro, start)
	if err != nil {
		return nil, err
	}

	results := make([]api.ScoredPair, total)
	for i, p := range pairs {
		if i%e.opts.FinalizeEvery == 0 {
			ro.reporter.OnProgress(api.ProgressEvent{
				Phase:      api.PhaseFinalizing,
				PairsDone:  i,
				TotalPairs: total,
				Elapsed:    e.now().Sub(start),
				Status:     fmt.Sprintf("Finalizing results %d/%d...", i, total),
			})
		}
		if !IsValid(p) {
			results[i] = invalidPair(p)
			continue
		}
		results[i] = newScoredPair(p, BatchIFD(conditioned[i], direct[i]), conditioned[i], direct[i], "")
	}

	e.opts.Logger.Debug("batch scoring finished", "pairs", total, "batches", len(spans), "elapsed", e.now().Sub(start))
	return results, nil
}

// ratePhase runs one phase over every batch and returns one score per pair
func (e *Engine) ratePhase(ctx context.Context, ph batchPhase, pairs []api.Pair, spans []span, ro runOptions, start time.Time) ([]float64, error) {
	total := len(pairs)
	scores := make([]float64, 0, total)

	for b, s := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		done := min((b+1)*ro.batchSize, total)
		if ph.phase == api.PhaseDirect {
			done = total/2 + done/2
		}
		ro.reporter.OnProgress(api.ProgressEvent{
			Phase:        ph.phase,
			Batch:        b + 1,
			TotalBatches: len(spans),
			PairsDone:    done,
			TotalPairs:   total,
			Elapsed:      e.now().Sub(start),
			Status:       fmt.Sprintf(ph.status, b+1, len(spans)),
		})

		batch := pairs[s.lo:s.hi]
		reply, err := e.complete(ctx, ph.system, ph.prompt(batch))
		if err != nil {
			e.opts.Logger.Warn("batch scoring failed, using neutral scores",
				"phase", ph.phase, "batch", b+1, "pairs", len(batch), "error", err)
			scores = append(scores, NeutralScores(len(batch))...)
			continue
		}
		scores = append(scores, ParseBatchScores(reply, len(batch))...)
	}
	return scores, nil
}
