package goifd

import (
	"context"
	"fmt"
	"net/http"

	language "cloud.google.com/go/language/apiv1"
	"google.golang.org/genai"

	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/config"
	"github.com/datar-psa/goifd/curate"
	"github.com/datar-psa/goifd/embedding"
	"github.com/datar-psa/goifd/gemini"
	"github.com/datar-psa/goifd/heuristic"
	"github.com/datar-psa/goifd/ifd"
	"github.com/datar-psa/goifd/openai"
	"github.com/datar-psa/goifd/scorer"
)

type Score = api.Score
type ScoreInputs = api.ScoreInputs
type Scorer = api.Scorer

// IFD wraps a scoring engine and the optional curation providers.
// It exposes the engine operations without wiring the client each time.
type IFD struct {
	client     *scorer.Client
	engine     *ifd.Engine
	moderation api.ModerationProvider
	embedder   api.Embedder
}

// IFDOptions configures IFD creation
type IFDOptions struct {
	cfg        config.Config
	completer  api.Completer
	engine     ifd.Options
	moderation api.ModerationProvider
	embedder   api.Embedder
}

// WithConfig sets the scorer configuration; config.Default() is used otherwise
func WithConfig(cfg config.Config) func(*IFDOptions) {
	return func(opts *IFDOptions) {
		opts.cfg = cfg
	}
}

// WithCompleter sets the scorer backend
func WithCompleter(c api.Completer) func(*IFDOptions) {
	return func(opts *IFDOptions) {
		opts.completer = c
	}
}

// WithEngineOptions sets engine tuning. Model and Temperature default to the config values.
func WithEngineOptions(o ifd.Options) func(*IFDOptions) {
	return func(opts *IFDOptions) {
		opts.engine = o
	}
}

// WithModerationProvider sets the moderation provider used by Screen
func WithModerationProvider(provider api.ModerationProvider) func(*IFDOptions) {
	return func(opts *IFDOptions) {
		opts.moderation = provider
	}
}

// WithEmbedder sets the embedder used by Dedupe and Relevance
func WithEmbedder(embedder api.Embedder) func(*IFDOptions) {
	return func(opts *IFDOptions) {
		opts.embedder = embedder
	}
}

// NewIFD creates a new IFD wrapper using functional options.
func NewIFD(opts ...func(*IFDOptions)) *IFD {
	options := &IFDOptions{cfg: config.Default()}
	for _, opt := range opts {
		opt(options)
	}

	engineOpts := options.engine
	if engineOpts.Model == "" {
		engineOpts.Model = options.cfg.Model
	}
	if engineOpts.Temperature == 0 {
		engineOpts.Temperature = options.cfg.Temperature
	}

	client := scorer.New(options.cfg, options.completer)
	return &IFD{
		client:     client,
		engine:     ifd.New(client, engineOpts),
		moderation: options.moderation,
		embedder:   options.embedder,
	}
}

// NewBackend builds the scorer backend named by cfg.Backend.
// httpClient may be nil to use the backend default.
func NewBackend(ctx context.Context, cfg config.Config, httpClient *http.Client) (api.Completer, error) {
	switch cfg.Backend {
	case config.BackendOpenAI:
		return openai.NewCompleter(cfg, httpClient), nil
	case config.BackendGemini, config.BackendVertex:
		client, err := gemini.NewClient(ctx, cfg, httpClient)
		if err != nil {
			return nil, err
		}
		return gemini.NewCompleter(client), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// GeminiOptions configures Gemini IFD creation
type GeminiOptions struct {
	genaiClient    *genai.Client
	langClient     *language.Client
	embeddingModel string
}

// WithGenaiClient sets the Gemini client used for scoring and embeddings
func WithGenaiClient(client *genai.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.genaiClient = client
	}
}

// WithLanguageClient sets the Google Cloud Language client for moderation
func WithLanguageClient(langClient *language.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.langClient = langClient
	}
}

// WithEmbeddingModel sets the embedding model, e.g. "text-embedding-005"
func WithEmbeddingModel(model string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.embeddingModel = model
	}
}

// NewGeminiIFD creates an IFD backed by Gemini for scoring, and optionally
// Cloud Natural Language for moderation and Gemini embeddings for dedupe.
// Example model: "publishers/google/models/gemini-2.5-flash".
func NewGeminiIFD(cfg config.Config, opts ...func(*GeminiOptions)) *IFD {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	ifdOptions := []func(*IFDOptions){WithConfig(cfg)}

	// Only add the backend if genaiClient is provided
	if options.genaiClient != nil {
		ifdOptions = append(ifdOptions, WithCompleter(gemini.NewCompleter(options.genaiClient)))
		if options.embeddingModel != "" {
			ifdOptions = append(ifdOptions, WithEmbedder(gemini.NewEmbedder(options.genaiClient, options.embeddingModel)))
		}
	}

	// Only add moderation provider if langClient is provided
	if options.langClient != nil {
		ifdOptions = append(ifdOptions, WithModerationProvider(gemini.NewLanguageModerator(options.langClient)))
	}

	return NewIFD(ifdOptions...)
}

// Engine returns the underlying scoring engine
func (s *IFD) Engine() *ifd.Engine { return s.engine }

// Client returns the underlying scorer client
func (s *IFD) Client() *scorer.Client { return s.client }

// ScoreBatch scores pairs with the batch path
func (s *IFD) ScoreBatch(ctx context.Context, pairs []Pair, opts ...ifd.RunOption) ([]ScoredPair, error) {
	return s.engine.ScoreBatch(ctx, pairs, opts...)
}

// ScorePairs scores pairs one at a time with the single-pair path
func (s *IFD) ScorePairs(ctx context.Context, pairs []Pair, opts ...ifd.RunOption) ([]ScoredPair, error) {
	return s.engine.ScorePairs(ctx, pairs, opts...)
}

// ScorePair scores one pair with the single-pair path
func (s *IFD) ScorePair(ctx context.Context, p Pair) (ScoredPair, error) {
	return s.engine.ScorePair(ctx, p)
}

// Verify checks the scorer connection end to end
func (s *IFD) Verify(ctx context.Context) error {
	return s.client.Verify(ctx)
}

// Health reports configuration readiness without calling the scorer
type Health struct {
	Configured bool   `json:"configured" yaml:"configured"`
	Model      string `json:"model" yaml:"model"`
	Status     string `json:"status" yaml:"status"`
}

// Health returns the readiness of the scorer
func (s *IFD) Health() Health {
	return newHealth(s.engine.IsConfigured(), s.engine.Model())
}

// ConfigHealth reports readiness from cfg alone, before any backend is built
func ConfigHealth(cfg config.Config) Health {
	return newHealth(cfg.IsConfigured(), cfg.Model)
}

func newHealth(configured bool, model string) Health {
	h := Health{Configured: configured, Model: model, Status: "not_configured"}
	if configured {
		h.Status = "ready"
	}
	return h
}

// Scorer returns single-pair IFD as a generic scorer
func (s *IFD) Scorer() api.Scorer {
	return ifd.AsScorer(s.engine)
}

// Difficulty returns the heuristic difficulty scorer, which needs no service
func (s *IFD) Difficulty() api.Scorer {
	return heuristic.Difficulty()
}

type ScreenOptions = curate.ScreenOptions

// Moderation returns a scorer that evaluates answer safety using the moderation provider.
func (s *IFD) Moderation(opts ScreenOptions) api.Scorer {
	return curate.Moderation(s.moderation, opts)
}

// Relevance returns a scorer that measures question/answer semantic closeness.
func (s *IFD) Relevance() api.Scorer {
	return embedding.Relevance(embedding.RelevanceOptions{Embedder: s.embedder})
}

// Screen splits scored pairs into safe and flagged with the moderation provider
func (s *IFD) Screen(ctx context.Context, pairs []ScoredPair, opts ScreenOptions) ([]ScoredPair, []curate.Flagged, error) {
	return curate.Screen(ctx, s.moderation, pairs, opts)
}

type DedupeOptions = curate.DedupeOptions

// Dedupe drops near-duplicate answers, falling back to exact matching without an embedder
func (s *IFD) Dedupe(ctx context.Context, pairs []ScoredPair, opts DedupeOptions) ([]ScoredPair, []curate.Duplicate, error) {
	return curate.Dedupe(ctx, s.embedder, pairs, opts)
}
