package heuristic

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/datar-psa/goifd/api"
)

func TestEstimateDifficulty(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   float64
	}{
		{
			name:   "empty answer",
			answer: "   ",
			want:   0,
		},
		{
			// 4 words, all unique: 0.3*1 + 0 + 0.4*(4/200)
			name:   "short unique answer",
			answer: "Paris is in France",
			want:   0.3 + 0.4*0.02,
		},
		{
			// 4 words, 2 unique: 0.3*0.5 + 0.4*0.02
			name:   "repeated words",
			answer: "yes yes no no",
			want:   0.15 + 0.008,
		},
		{
			// 3 words, all unique, 2 lexicon terms: 0.3 + 0.3*(2/3) + 0.4*(3/200)
			name:   "technical terms",
			answer: "Analisis kualitatif lengkap",
			want:   0.3 + 0.2 + 0.006,
		},
		{
			// 400 copies of one word: 0.3*(1/400) + 0.4*1
			name:   "long repetitive answer saturates length",
			answer: strings.Repeat("data ", 400),
			want:   0.3/400 + 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateDifficulty(tt.answer)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EstimateDifficulty() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("EstimateDifficulty() = %v out of [0,1]", got)
			}
		})
	}
}

func TestDifficultyScorer(t *testing.T) {
	scorer := Difficulty()
	result := scorer.Score(context.Background(), api.ScoreInputs{Input: "Q", Output: "Paris is in France"})

	if result.Name != "HeuristicDifficulty" {
		t.Errorf("Name = %q", result.Name)
	}
	if result.Error != nil {
		t.Errorf("Error = %v", result.Error)
	}
	if math.Abs(result.Score-0.308) > 1e-9 {
		t.Errorf("Score = %v, want 0.308", result.Score)
	}
	if words, ok := result.Metadata["words"].(int); !ok || words != 4 {
		t.Errorf("Metadata[words] = %v, want 4", result.Metadata["words"])
	}
}
