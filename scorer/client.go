package scorer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/config"
)

// Client performs one completion round trip per request and translates
// upstream failures into api.ScorerError. It never retries.
type Client struct {
	cfg     config.Config
	backend api.Completer
	limiter *rate.Limiter
}

// New creates a scorer client. backend may be nil when cfg is not configured;
// Complete then fails with api.ErrNotConfigured.
func New(cfg config.Config, backend api.Completer) *Client {
	c := &Client{cfg: cfg, backend: backend}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return c
}

// IsConfigured reports whether endpoint and credentials are present
func (c *Client) IsConfigured() bool {
	return c.backend != nil && c.cfg.IsConfigured()
}

// Model returns the configured scoring model
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete sends system and user text to model and returns the raw reply
func (c *Client) Complete(ctx context.Context, model, system, user string, temperature float64) (string, error) {
	if !c.IsConfigured() {
		if missing := c.cfg.Missing(); len(missing) > 0 {
			return "", fmt.Errorf("%w: missing %s", api.ErrNotConfigured, strings.Join(missing, ", "))
		}
		return "", api.ErrNotConfigured
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	text, err := c.backend.Complete(ctx, api.CompletionRequest{
		Model:       model,
		System:      system,
		User:        user,
		Temperature: temperature,
	})
	if err != nil {
		return "", Classify(err)
	}
	return text, nil
}

// Verify makes a trivial call to check the connection end to end
func (c *Client) Verify(ctx context.Context) error {
	text, err := c.Complete(ctx, c.cfg.Model, "You are a helpful assistant.", "Say 'OK' if you can read this.", 0.1)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return &api.ScorerError{Kind: api.ErrTransport, Message: "no response from API"}
	}
	return nil
}

// Classify maps a backend error onto the scorer error taxonomy.
// Context cancellation and configuration errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, api.ErrNotConfigured) {
		return err
	}
	var se *api.ScorerError
	if errors.As(err, &se) {
		return err
	}

	msg := err.Error()
	var status *api.StatusError
	if errors.As(err, &status) {
		switch status.Code {
		case http.StatusTooManyRequests:
			return &api.ScorerError{Kind: api.ErrRateLimited, Code: status.Code, Message: msg}
		case http.StatusUnauthorized:
			return &api.ScorerError{Kind: api.ErrUnauthorized, Code: status.Code, Message: msg}
		}
	}

	lower := strings.ToLower(msg)
	code := 0
	if status != nil {
		code = status.Code
	}
	switch {
	case strings.Contains(msg, "429") || strings.Contains(lower, "rate limit"):
		return &api.ScorerError{Kind: api.ErrRateLimited, Code: code, Message: msg}
	case strings.Contains(msg, "401") || strings.Contains(lower, "unauthorized"):
		return &api.ScorerError{Kind: api.ErrUnauthorized, Code: code, Message: msg}
	}
	return &api.ScorerError{Kind: api.ErrTransport, Code: code, Message: msg}
}
