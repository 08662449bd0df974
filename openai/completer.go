package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/config"
)

// Completer calls an OpenAI-compatible chat completions endpoint
type Completer struct {
	client openaisdk.Client
}

// NewCompleter creates a completer from cfg.BaseURL and cfg.APIKey.
// httpClient may be nil; a client with cfg.Timeout is used then.
func NewCompleter(cfg config.Config, httpClient *http.Client) *Completer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Completer{
		client: openaisdk.NewClient(
			option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"),
			option.WithAPIKey(cfg.APIKey),
			option.WithHTTPClient(httpClient),
			// rate limits are retried by the engine, not the transport
			option.WithMaxRetries(0),
			option.WithMiddleware(statusMiddleware),
		),
	}
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// statusMiddleware turns non-2xx replies into *api.StatusError carrying the
// provider's error message, or the raw body when it is not an error envelope
func statusMiddleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	resp, err := next(req)
	if err != nil || resp.StatusCode/100 == 2 {
		return resp, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading error response: %w", err)
	}
	msg := strings.TrimSpace(string(raw))
	var env errorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
		msg = env.Error.Message
	}
	return nil, &api.StatusError{Code: resp.StatusCode, Message: msg}
}

// Complete implements api.Completer.Complete
func (c *Completer) Complete(ctx context.Context, req api.CompletionRequest) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openaisdk.SystemMessage(req.System))
	}
	messages = append(messages, openaisdk.UserMessage(req.User))

	completion, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openaisdk.Float(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

var _ api.Completer = (*Completer)(nil)
