package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/datar-psa/goifd/config"
)

// NewClient builds a genai.Client for the gemini or vertex backend.
// httpClient may be nil to use the library default.
func NewClient(ctx context.Context, cfg config.Config, httpClient *http.Client) (*genai.Client, error) {
	cc := &genai.ClientConfig{HTTPClient: httpClient}

	switch cfg.Backend {
	case config.BackendGemini:
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	case config.BackendVertex:
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	default:
		return nil, fmt.Errorf("backend %q is not served by genai", cfg.Backend)
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		cc.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client, nil
}
