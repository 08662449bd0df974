package heuristic

import (
	"context"
	"strings"

	"github.com/datar-psa/goifd/api"
)

// TechnicalTerms is the jargon lexicon used for technical-term density.
// Matching is by substring on the lowercased answer.
var TechnicalTerms = []string{
	"arkeologi", "interpretasi", "analisis", "metodologi",
	"sinergis", "fenomenologi", "epistemologi", "ontologi",
	"deskriptif", "kualitatif", "kuantitatif", "empiris",
}

const (
	vocabularyWeight = 0.3
	technicalWeight  = 0.3
	lengthWeight     = 0.4

	// answers at or above this many words get the full length factor
	fullLengthWords = 200
)

// Factors are the components of the heuristic difficulty estimate
type Factors struct {
	Words               int
	VocabularyDiversity float64
	TechnicalDensity    float64
	LengthFactor        float64
}

// Analyze computes the heuristic factors for answer
func Analyze(answer string) Factors {
	lower := strings.ToLower(answer)
	words := strings.Fields(lower)
	if len(words) == 0 {
		return Factors{}
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}

	technical := 0
	for _, term := range TechnicalTerms {
		if strings.Contains(lower, term) {
			technical++
		}
	}

	return Factors{
		Words:               len(words),
		VocabularyDiversity: float64(len(unique)) / float64(len(words)),
		TechnicalDensity:    float64(technical) / float64(len(words)),
		LengthFactor:        min(float64(len(words))/fullLengthWords, 1.0),
	}
}

// EstimateDifficulty estimates an IFD-like score in [0,1] without a scoring model.
// It only looks at the answer; an empty answer scores 0.
func EstimateDifficulty(answer string) float64 {
	f := Analyze(answer)
	if f.Words == 0 {
		return 0
	}
	score := f.VocabularyDiversity*vocabularyWeight + f.TechnicalDensity*technicalWeight + f.LengthFactor*lengthWeight
	return max(0.0, min(1.0, score))
}

// Difficulty returns a scorer that rates the answer (Output) with EstimateDifficulty
func Difficulty() api.Scorer {
	return &difficultyScorer{}
}

type difficultyScorer struct{}

func (s *difficultyScorer) Score(ctx context.Context, in api.ScoreInputs) api.Score {
	result := api.Score{
		Name:     "HeuristicDifficulty",
		Metadata: make(map[string]any),
	}

	f := Analyze(in.Output)
	result.Score = EstimateDifficulty(in.Output)
	result.Metadata["words"] = f.Words
	result.Metadata["vocabulary_diversity"] = f.VocabularyDiversity
	result.Metadata["technical_density"] = f.TechnicalDensity
	result.Metadata["length_factor"] = f.LengthFactor

	return result
}
