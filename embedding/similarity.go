package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/datar-psa/goifd/api"
)

// ErrNoEmbedder is returned when an operation needs an embedder and none was given
var ErrNoEmbedder = errors.New("embedder is required")

// RelevanceOptions configures the Relevance scorer
type RelevanceOptions struct {
	// Embedder is used to generate embeddings for text
	Embedder api.Embedder
}

// Relevance returns a scorer that measures how semantically close an answer
// (Output) is to its question (Input). The cosine similarity of the two
// embeddings is mapped from [-1, 1] to [0, 1].
func Relevance(opts RelevanceOptions) api.Scorer {
	return &relevanceScorer{opts: opts}
}

type relevanceScorer struct {
	opts RelevanceOptions
}

func (s *relevanceScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "EmbeddingRelevance",
		Metadata: make(map[string]any),
	}

	if s.opts.Embedder == nil {
		result.Error = ErrNoEmbedder
		return result
	}

	vectors, err := EmbedAll(ctx, s.opts.Embedder, []string{in.Input, in.Output})
	if err != nil {
		result.Error = err
		return result
	}

	similarity := Cosine(vectors[0], vectors[1])
	result.Score = Normalize(similarity)
	result.Metadata["cosine_similarity"] = similarity
	result.Metadata["embedding_dim"] = len(vectors[1])

	return result
}

// BatchEmbedder embeds many texts per call. gemini.Embedder implements it.
type BatchEmbedder interface {
	api.Embedder
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbedAll embeds every text in order, in batches when the embedder supports
// it. It stops at the first failure.
func EmbedAll(ctx context.Context, embedder api.Embedder, texts []string) ([][]float64, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}
	if be, ok := embedder.(BatchEmbedder); ok {
		vectors, err := be.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed texts: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedded %d of %d texts", len(vectors), len(texts))
		}
		return vectors, nil
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Normalize maps a cosine similarity from [-1, 1] to [0, 1]
func Normalize(similarity float64) float64 {
	return math.Max(0, math.Min(1, (similarity+1.0)/2.0))
}

// Cosine computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, or 0 for vectors of different length or zero norm.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (normA * normB)
}
