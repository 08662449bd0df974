package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/datar-psa/goifd/api"
)

const (
	// embedTaskType tunes vectors for comparing answers with each other
	embedTaskType = "SEMANTIC_SIMILARITY"
	// maxEmbedBatch is the number of texts sent per EmbedContent call
	maxEmbedBatch = 100
)

// Embedder implements api.Embedder with the genai embedding models.
// Used for answer dedupe and question/answer relevance.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates an embedder for model, e.g. "text-embedding-005"
func NewEmbedder(client *genai.Client, model string) *Embedder {
	return &Embedder{client: client, model: model}
}

// Embed returns the embedding of one text
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := e.embed(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in order, maxEmbedBatch texts per call
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for lo := 0; lo < len(texts); lo += maxEmbedBatch {
		hi := min(lo+maxEmbedBatch, len(texts))
		contents := make([]*genai.Content, 0, hi-lo)
		for _, t := range texts[lo:hi] {
			contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
		}
		vecs, err := e.embed(ctx, contents)
		if err != nil {
			return nil, fmt.Errorf("texts %d-%d: %w", lo, hi-1, err)
		}
		if len(vecs) != hi-lo {
			return nil, fmt.Errorf("texts %d-%d: got %d embeddings from model %s", lo, hi-1, len(vecs), e.model)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) embed(ctx context.Context, contents []*genai.Content) ([][]float64, error) {
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{TaskType: embedTaskType})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("failed to generate embedding: %w", &api.StatusError{Code: apiErr.Code, Message: apiErr.Message})
		}
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	vecs := make([][]float64, 0, len(result.Embeddings))
	for _, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("empty embedding returned for model %s", e.model)
		}
		v := make([]float64, len(emb.Values))
		for i, x := range emb.Values {
			v[i] = float64(x)
		}
		vecs = append(vecs, v)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("empty embedding returned for model %s", e.model)
	}
	return vecs, nil
}

var _ api.Embedder = (*Embedder)(nil)
