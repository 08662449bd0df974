package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/config"
)

func newTestCompleter(t *testing.T, handler http.HandlerFunc) *Completer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL + "/v1/"
	cfg.APIKey = "test-key"
	cfg.Timeout = 5 * time.Second
	return NewCompleter(cfg, nil)
}

// sentRequest is the part of the chat request body the tests inspect
type sentRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestComplete_Success(t *testing.T) {
	var got sentRequest
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"3,8"}}]}`))
	})

	text, err := c.Complete(context.Background(), api.CompletionRequest{
		Model:  "scorer",
		System: "You are a text complexity analyzer.",
		User:   "1. A1",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "3,8" {
		t.Errorf("Complete() = %q, want %q", text, "3,8")
	}

	if got.Model != "scorer" || got.Temperature == nil || *got.Temperature != 0 {
		t.Errorf("request model/temperature = %q/%v", got.Model, got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" ||
		got.Messages[1].Content != "1. A1" {
		t.Errorf("request messages = %+v", got.Messages)
	}
}

func TestComplete_NullContent(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":null}}]}`))
	})

	text, err := c.Complete(context.Background(), api.CompletionRequest{Model: "m", User: "u"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "" {
		t.Errorf("Complete() = %q, want empty", text)
	}
}

func TestComplete_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantCode int
	}{
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"Rate limit reached"}}`,
			wantMsg:  "Rate limit reached",
			wantCode: 429,
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"Incorrect API key provided"}}`,
			wantMsg:  "Incorrect API key provided",
			wantCode: 401,
		},
		{
			name:     "plain text body",
			status:   http.StatusBadGateway,
			body:     "bad gateway",
			wantMsg:  "bad gateway",
			wantCode: 502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), api.CompletionRequest{Model: "m", User: "u"})
			var se *api.StatusError
			if !errors.As(err, &se) {
				t.Fatalf("Complete() error = %v, want *api.StatusError", err)
			}
			if se.Code != tt.wantCode || se.Message != tt.wantMsg {
				t.Errorf("StatusError = %+v, want code %d message %q", se, tt.wantCode, tt.wantMsg)
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("requests = %d, want 1 (no transport retries)", n)
			}
		})
	}
}

func TestComplete_MalformedBody(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`not json`))
	})

	if _, err := c.Complete(context.Background(), api.CompletionRequest{Model: "m", User: "u"}); err == nil {
		t.Error("Complete() expected decode error")
	}
}
