package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/datar-psa/goifd/api"
)

// Completer wraps a genai.Client to implement api.Completer
type Completer struct {
	client *genai.Client
}

// NewCompleter creates a new Gemini completer
// client: genai.Client from google.golang.org/genai
func NewCompleter(client *genai.Client) *Completer {
	return &Completer{client: client}
}

// Complete implements api.Completer.Complete
func (c *Completer) Complete(ctx context.Context, req api.CompletionRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(
		ctx,
		req.Model,
		genai.Text(req.User),
		config,
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("failed to generate content: %w", &api.StatusError{Code: apiErr.Code, Message: apiErr.Message})
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	return resp.Text(), nil
}

// Verify that Completer implements api.Completer
var _ api.Completer = (*Completer)(nil)
