package ifd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/config"
)

const (
	DefaultBatchSize        = 10
	DefaultFinalizeEvery    = 10
	DefaultRateLimitBackoff = 5 * time.Second
)

// Client is the scorer boundary the engine depends on.
// *scorer.Client implements it.
type Client interface {
	Complete(ctx context.Context, model, system, user string, temperature float64) (string, error)
	IsConfigured() bool
}

// Options configures an Engine
type Options struct {
	// Model is the scoring model; defaults to config.DefaultModel
	Model string
	// Temperature for every scorer call; 0 keeps replies near-deterministic
	Temperature float64
	// BatchSize is the default number of pairs rated per call in ScoreBatch
	BatchSize int
	// FinalizeEvery is the progress granularity of the finalize phase, in pairs
	FinalizeEvery int
	// RateLimitRetries is how many times a rate-limited call is retried
	// before the pair or batch degrades; 0 disables retries
	RateLimitRetries int
	// RateLimitBackoff is the wait before each retry
	RateLimitBackoff time.Duration
	// Logger receives batch failures and fallbacks; defaults to slog.Default()
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Model == "" {
		o.Model = config.DefaultModel
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.FinalizeEvery <= 0 {
		o.FinalizeEvery = DefaultFinalizeEvery
	}
	if o.RateLimitRetries < 0 {
		o.RateLimitRetries = 0
	}
	if o.RateLimitBackoff <= 0 {
		o.RateLimitBackoff = DefaultRateLimitBackoff
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Engine scores question/answer pairs for instruction following difficulty.
// It holds no per-run state and may be shared between goroutines.
type Engine struct {
	client Client
	opts   Options
	now    func() time.Time
}

// New creates an Engine over client
func New(client Client, opts Options) *Engine {
	opts.defaults()
	return &Engine{
		client: client,
		opts:   opts,
		now:    time.Now,
	}
}

// IsConfigured reports whether the underlying scorer client can be used
func (e *Engine) IsConfigured() bool {
	return e.client != nil && e.client.IsConfigured()
}

// Model returns the scoring model
func (e *Engine) Model() string {
	return e.opts.Model
}

// RunOption customizes one scoring run
type RunOption func(*runOptions)

type runOptions struct {
	batchSize int
	reporter  api.ProgressReporter
}

// WithBatchSize overrides the engine batch size for one run
func WithBatchSize(n int) RunOption {
	return func(o *runOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithReporter sets the progress reporter for one run.
// The reporter is called inline and may block the pipeline.
func WithReporter(r api.ProgressReporter) RunOption {
	return func(o *runOptions) {
		if r != nil {
			o.reporter = r
		}
	}
}

func (e *Engine) runOptions(opts []RunOption) runOptions {
	ro := runOptions{batchSize: e.opts.BatchSize, reporter: api.NopReporter{}}
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}

func (e *Engine) checkConfigured() error {
	if !e.IsConfigured() {
		return api.ErrNotConfigured
	}
	return nil
}

// complete calls the scorer, retrying rate-limited calls per Options
func (e *Engine) complete(ctx context.Context, system, user string) (string, error) {
	for attempt := 0; ; attempt++ {
		text, err := e.client.Complete(ctx, e.opts.Model, system, user, e.opts.Temperature)
		if err == nil || !errors.Is(err, api.ErrRateLimited) || attempt >= e.opts.RateLimitRetries {
			return text, err
		}

		e.opts.Logger.Debug("scorer rate limited, backing off", "attempt", attempt+1, "backoff", e.opts.RateLimitBackoff)
		timer := time.NewTimer(e.opts.RateLimitBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", err
		case <-timer.C:
		}
	}
}
