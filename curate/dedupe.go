package curate

import (
	"context"

	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/embedding"
	"github.com/datar-psa/goifd/heuristic"
)

// DefaultDedupeThreshold is the answer cosine similarity at which two pairs are duplicates
const DefaultDedupeThreshold = 0.95

// DedupeOptions configures near-duplicate removal
type DedupeOptions struct {
	// Threshold is the minimum cosine similarity of two answer embeddings for
	// the later pair to be dropped
	Threshold float64
	// Exact compares trimmed, lower-cased answers instead of embeddings
	Exact bool
}

// Duplicate is a dropped pair and the input index of the pair it duplicates
type Duplicate struct {
	api.ScoredPair `yaml:",inline"`
	DuplicateOf    int     `json:"duplicate_of" yaml:"duplicate_of"`
	Similarity     float64 `json:"similarity" yaml:"similarity"`
}

// Dedupe keeps the first of every group of duplicate answers, in input order.
// With a nil embedder or opts.Exact it falls back to exact matching.
func Dedupe(ctx context.Context, embedder api.Embedder, pairs []api.ScoredPair, opts DedupeOptions) ([]api.ScoredPair, []Duplicate, error) {
	if embedder == nil || opts.Exact {
		kept, dropped := dedupeExact(pairs)
		return kept, dropped, nil
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultDedupeThreshold
	}

	answers := make([]string, len(pairs))
	for i, p := range pairs {
		answers[i] = p.Answer
	}
	vectors, err := embedding.EmbedAll(ctx, embedder, answers)
	if err != nil {
		return nil, nil, err
	}

	kept := make([]api.ScoredPair, 0, len(pairs))
	var keptIdx []int
	var dropped []Duplicate
	for i, p := range pairs {
		dup, best := -1, 0.0
		for _, k := range keptIdx {
			if sim := embedding.Cosine(vectors[i], vectors[k]); sim >= threshold && sim > best {
				dup, best = k, sim
			}
		}
		if dup >= 0 {
			dropped = append(dropped, Duplicate{ScoredPair: p, DuplicateOf: dup, Similarity: best})
			continue
		}
		kept = append(kept, p)
		keptIdx = append(keptIdx, i)
	}
	return kept, dropped, nil
}

func dedupeExact(pairs []api.ScoredPair) ([]api.ScoredPair, []Duplicate) {
	opts := heuristic.MatchOptions{CaseInsensitive: true, TrimWhitespace: true}
	first := make(map[string]int, len(pairs))
	kept := make([]api.ScoredPair, 0, len(pairs))
	var dropped []Duplicate
	for i, p := range pairs {
		key := heuristic.Normalize(p.Answer, opts)
		if k, ok := first[key]; ok {
			dropped = append(dropped, Duplicate{ScoredPair: p, DuplicateOf: k, Similarity: 1})
			continue
		}
		first[key] = i
		kept = append(kept, p)
	}
	return kept, dropped
}
