package api

import (
	"context"
	"time"
)

// CompletionRequest is a single system+user completion round trip
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
}

// Completer is a text-completion backend.
// Implementations are provided in the gemini and openai subpackages.
// HTTP failures should be reported as *StatusError so they can be classified.
type Completer interface {
	// Complete returns the raw response text, which may be empty
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Embedder generates vector embeddings for text
type Embedder interface {
	// Embed generates an embedding vector for the given text
	// Returns a normalized vector (length = 1) suitable for cosine similarity
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ModerationCategories contains all supported moderation category names
// These are developer-friendly names that map to Google Cloud Natural Language API categories
var ModerationCategories []string = []string{
	"Toxic",
	"Derogatory",
	"Violent",
	"Sexual",
	"Insult",
	"Profanity",
	"DeathHarmTragedy",
	"FirearmsWeapons",
	"PublicSafety",
	"Health",
	"ReligionBelief",
	"IllicitDrugs",
	"WarConflict",
	"Finance",
	"Politics",
	"Legal",
}

// ModerationCategory represents a safety category with confidence score
type ModerationCategory struct {
	Name       string  `json:"name" yaml:"name"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// ModerationResult represents the result of content moderation
type ModerationResult struct {
	Categories []ModerationCategory `json:"categories" yaml:"categories"`
}

// ModerationProvider is an interface for content moderation
// A Google Cloud Natural Language implementation is provided in the gemini subpackage
type ModerationProvider interface {
	// Moderate analyzes content for safety and returns moderation results
	Moderate(ctx context.Context, content string) (*ModerationResult, error)
}

// Pair is a question/answer training example
type Pair struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Source   string `json:"source" yaml:"source"`
}

// Tier is the coarse difficulty bucket derived from an IFD score
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// ValueCategory is the training-data usefulness bucket derived from an IFD score
type ValueCategory string

const (
	ValueLow    ValueCategory = "low"
	ValueMedium ValueCategory = "medium"
	ValueHigh   ValueCategory = "high"
)

// ScoredPair is a Pair enriched with its IFD metrics
type ScoredPair struct {
	Pair `yaml:",inline"`

	// IFDScore is the normalized difficulty in [0,1]; higher means more valuable
	IFDScore float64 `json:"ifd_score" yaml:"ifd_score"`
	// ConditionedScore is the rating of producing the answer given the question
	ConditionedScore float64 `json:"conditioned_score" yaml:"conditioned_score"`
	// DirectScore is the rating of producing the answer alone
	DirectScore float64 `json:"direct_score" yaml:"direct_score"`

	Tier           Tier          `json:"tier" yaml:"tier"`
	ValueCategory  ValueCategory `json:"value_category" yaml:"value_category"`
	Recommendation string        `json:"recommendation" yaml:"recommendation"`
}

// Phase identifies a stage of the batch scoring pipeline
type Phase string

const (
	PhaseConditioned Phase = "scoring_conditioned"
	PhaseDirect      Phase = "scoring_direct"
	PhaseFinalizing  Phase = "finalizing"
)

// ProgressEvent describes pipeline progress at a checkpoint
type ProgressEvent struct {
	Phase        Phase
	Batch        int // 1-based; 0 during finalizing
	TotalBatches int
	PairsDone    int
	TotalPairs   int
	Elapsed      time.Duration
	Status       string
}

// ProgressReporter receives progress events synchronously from the scoring pipeline
type ProgressReporter interface {
	OnProgress(ev ProgressEvent)
}

// ProgressFunc adapts a function to ProgressReporter
type ProgressFunc func(ev ProgressEvent)

func (f ProgressFunc) OnProgress(ev ProgressEvent) { f(ev) }

// NopReporter discards progress events
type NopReporter struct{}

func (NopReporter) OnProgress(ProgressEvent) {}

// Score represents the result of an evaluation
type Score struct {
	// Name identifies the scorer that produced this result
	Name string
	// Score is a value between 0 and 1
	Score float64
	// Metadata contains additional information about the scoring process
	Metadata map[string]any
	// Error contains any error that occurred during scoring
	Error error
}

// ScoreInputs carries inputs for scoring across different scorers.
//
// Fields usage conventions:
// - Input:  the question/instruction
// - Output: the answer being evaluated
type ScoreInputs struct {
	Output string
	Input  string
}

// Scorer evaluates a question/answer pair
type Scorer interface {
	// Score evaluates the output and returns a score
	Score(ctx context.Context, in ScoreInputs) Score
}
