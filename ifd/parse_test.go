package ifd

import (
	"math"
	"testing"
)

func TestFirstDigit(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"7", 7},
		{"The difficulty is 8/10", 8},
		{"10", 1},
		{"no digits here", DefaultDigit},
		{"", DefaultDigit},
		{"   3 ", 3},
	}

	for _, tt := range tests {
		if got := FirstDigit(tt.in, DefaultDigit); got != tt.want {
			t.Errorf("FirstDigit(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseBatchScores(t *testing.T) {
	tests := []struct {
		name     string
		response string
		n        int
		want     []float64
	}{
		{name: "clean list", response: "3,8", n: 2, want: []float64{0.3, 0.8}},
		{name: "spaces ignored", response: "7, 6 ,5", n: 3, want: []float64{0.7, 0.6, 0.5}},
		{name: "non-digit and out of range", response: "abc,11,-", n: 3, want: []float64{0.5, 0.5, 0.5}},
		{name: "ten is valid", response: "10,1", n: 2, want: []float64{1.0, 0.1}},
		{name: "zero is out of range", response: "0,4", n: 2, want: []float64{0.5, 0.4}},
		{name: "decimal tokens merge digits", response: "1.5,2", n: 2, want: []float64{0.5, 0.2}},
		{name: "labels stripped", response: "#1: 9, #2: 4", n: 2, want: []float64{0.5, 0.5}},
		{name: "too few padded", response: "9", n: 3, want: []float64{0.9, 0.5, 0.5}},
		{name: "too many truncated", response: "1,2,3,4,5", n: 2, want: []float64{0.1, 0.2}},
		{name: "empty response", response: "", n: 2, want: []float64{0.5, 0.5}},
		{name: "overflowing number", response: "99999999999999999999999,3", n: 2, want: []float64{0.5, 0.3}},
		{name: "zero pairs", response: "1,2", n: 0, want: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBatchScores(tt.response, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseBatchScores(%q, %d) = %v, want %v", tt.response, tt.n, got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("ParseBatchScores(%q, %d)[%d] = %v, want %v", tt.response, tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNeutralScores(t *testing.T) {
	got := NeutralScores(4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i, v := range got {
		if v != NeutralScore {
			t.Errorf("NeutralScores[%d] = %v", i, v)
		}
	}
}
