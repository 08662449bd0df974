package ifd

import (
	"strconv"
	"strings"
)

// FirstDigit returns the first ASCII digit found anywhere in s, or def if there is none
func FirstDigit(s string, def int) int {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return int(r - '0')
		}
	}
	return def
}

// ParseBatchScores turns a comma-separated rating reply into exactly n scores.
// Each token keeps only its digits; a token with no digits or a value outside
// [1,10] becomes NeutralScore. Missing scores are padded with NeutralScore and
// excess scores are dropped. It never fails.
func ParseBatchScores(response string, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	scores := make([]float64, 0, n)
	for _, tok := range strings.Split(strings.ReplaceAll(response, " ", ""), ",") {
		if len(scores) == n {
			break
		}
		scores = append(scores, parseRating(tok))
	}
	for len(scores) < n {
		scores = append(scores, NeutralScore)
	}
	return scores
}

// NeutralScores returns n copies of NeutralScore
func NeutralScores(n int) []float64 {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = NeutralScore
	}
	return scores
}

func parseRating(tok string) float64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, tok)
	if digits == "" {
		return NeutralScore
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 10 {
		return NeutralScore
	}
	return float64(n) / 10.0
}
