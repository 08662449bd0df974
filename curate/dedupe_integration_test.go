package curate_test

import (
	"context"
	"testing"

	"github.com/datar-psa/goifd/api"
	"github.com/datar-psa/goifd/curate"
	"github.com/datar-psa/goifd/internal/testutils"
)

// TestDedupe_Integration drops a paraphrased answer using Vertex AI embeddings.
// Requests are replayed by hypert; set UPDATE_TESTS=true to record.
func TestDedupe_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	embedder := testutils.NewGeminiEmbedder(t, testutils.DefaultGoogleTestConfig("dedupe"), "text-embedding-005")
	pairs := []api.ScoredPair{
		{Pair: api.Pair{Question: "How many days of annual leave do I get?", Answer: "Employees are entitled to 14 days of annual leave per year."}},
		{Pair: api.Pair{Question: "What is the leave entitlement?", Answer: "Each employee is entitled to fourteen days of annual leave every year."}},
		{Pair: api.Pair{Question: "How do I claim travel expenses?", Answer: "Submit the travel claim form with receipts to finance within 30 days."}},
	}

	kept, dropped, err := curate.Dedupe(context.Background(), embedder, pairs, curate.DedupeOptions{Threshold: 0.9})
	if err != nil {
		t.Fatalf("Dedupe() error = %v", err)
	}
	if len(kept) != 2 || len(dropped) != 1 {
		t.Fatalf("Dedupe() kept=%d dropped=%d, want 2/1", len(kept), len(dropped))
	}
	if dropped[0].DuplicateOf != 0 || dropped[0].Question != pairs[1].Question {
		t.Errorf("dropped = %+v", dropped[0])
	}
}
