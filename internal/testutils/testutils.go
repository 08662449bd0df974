package testutils

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	language "cloud.google.com/go/language/apiv1"
	"github.com/areknoster/hypert"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"github.com/datar-psa/goifd/config"
	"github.com/datar-psa/goifd/gemini"
)

// Recording reports whether integration tests hit the live APIs and
// rewrite their recorded responses. Set UPDATE_TESTS=true to record.
func Recording() bool {
	return os.Getenv("UPDATE_TESTS") == "true"
}

// GoogleTestConfig names the Google Cloud project used when recording
// and the testdata subdirectory holding the recordings.
type GoogleTestConfig struct {
	Project  string
	Location string
	SubDir   string
}

// DefaultGoogleTestConfig reads the project and region from the environment
func DefaultGoogleTestConfig(subDir string) GoogleTestConfig {
	return GoogleTestConfig{
		Project:  os.Getenv("GOOGLE_PROJECT_ID"),
		Location: os.Getenv("GOOGLE_REGION"),
		SubDir:   subDir,
	}
}

// Config returns the vertex scorer config for tc
func (tc GoogleTestConfig) Config() config.Config {
	cfg := config.Default()
	cfg.Backend = config.BackendVertex
	cfg.Project = tc.Project
	cfg.Location = tc.Location
	return cfg
}

// NewRecordingClient replays HTTP exchanges from testdata/<SubDir>. In record
// mode requests go out with default Google credentials, and with the quota
// project header when quotaProject is set.
func NewRecordingClient(t *testing.T, tc GoogleTestConfig, quotaProject string) *http.Client {
	t.Helper()

	namingScheme, err := hypert.NewContentHashNamingScheme(filepath.Join("testdata", tc.SubDir))
	if err != nil {
		t.Fatalf("failed to create naming scheme: %v", err)
	}

	replay := hypert.TestClient(t, Recording(),
		hypert.WithNamingScheme(namingScheme),
		hypert.WithRequestValidator(hypert.ComposedRequestValidator(
			hypert.PathValidator(),
			hypert.QueryParamsValidator(),
			hypert.MethodValidator(),
		)),
	)
	if !Recording() {
		return replay
	}

	ctx := context.Background()
	creds, err := google.FindDefaultCredentials(ctx)
	if err != nil {
		t.Fatalf("failed to get default credentials: %v", err)
	}
	authed := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, replay), creds.TokenSource)
	if quotaProject == "" {
		return authed
	}
	return &http.Client{
		Transport: &quotaProjectTransport{base: authed.Transport, project: quotaProject},
		Timeout:   authed.Timeout,
	}
}

type quotaProjectTransport struct {
	base    http.RoundTripper
	project string
}

func (t *quotaProjectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Goog-User-Project", t.project)
	return t.base.RoundTrip(req)
}

// NewGenaiClient builds a vertex genai.Client over a recording client
func NewGenaiClient(t *testing.T, tc GoogleTestConfig) *genai.Client {
	t.Helper()
	client, err := gemini.NewClient(context.Background(), tc.Config(), NewRecordingClient(t, tc, ""))
	if err != nil {
		t.Fatalf("failed to create genai client: %v", err)
	}
	return client
}

// NewGeminiCompleter returns a recorded Gemini scorer backend
func NewGeminiCompleter(t *testing.T, tc GoogleTestConfig) *gemini.Completer {
	return gemini.NewCompleter(NewGenaiClient(t, tc))
}

// NewGeminiEmbedder returns a recorded Gemini embedder for modelName
func NewGeminiEmbedder(t *testing.T, tc GoogleTestConfig, modelName string) *gemini.Embedder {
	return gemini.NewEmbedder(NewGenaiClient(t, tc), modelName)
}

// NewLanguageModerator returns a recorded Cloud Natural Language moderator.
// The language API bills the quota project, so it is sent when recording.
func NewLanguageModerator(t *testing.T, tc GoogleTestConfig) *gemini.LanguageModerator {
	t.Helper()
	client, err := language.NewRESTClient(context.Background(), option.WithHTTPClient(NewRecordingClient(t, tc, tc.Project)))
	if err != nil {
		t.Fatalf("failed to create language client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return gemini.NewLanguageModerator(client)
}
