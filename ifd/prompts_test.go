package ifd

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/datar-psa/goifd/api"
)

func TestTruncateAnswer(t *testing.T) {
	short := "Jawapan ringkas"
	if got := truncateAnswer(short); got != short {
		t.Errorf("truncateAnswer(short) = %q", got)
	}

	exact := strings.Repeat("a", promptAnswerLimit)
	if got := truncateAnswer(exact); got != exact {
		t.Errorf("answer at the limit was truncated")
	}

	long := strings.Repeat("é", promptAnswerLimit+50)
	got := truncateAnswer(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated answer missing ellipsis: %q", got[len(got)-5:])
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != promptAnswerLimit {
		t.Errorf("truncated rune count = %d, want %d", n, promptAnswerLimit)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a multi-byte rune")
	}
}

func TestBatchPrompts_TruncateOnlyInPrompt(t *testing.T) {
	long := strings.Repeat("x", 500)
	batch := []api.Pair{{Question: "Q", Answer: long}}

	for name, prompt := range map[string]string{
		"conditioned": batchConditionedPrompt(batch),
		"direct":      batchDirectPrompt(batch),
	} {
		if strings.Contains(prompt, long) {
			t.Errorf("%s prompt carries the full answer", name)
		}
		if !strings.Contains(prompt, strings.Repeat("x", promptAnswerLimit)+"...") {
			t.Errorf("%s prompt missing truncated answer", name)
		}
	}

	if batch[0].Answer != long {
		t.Error("prompt building modified the input pair")
	}
}

func TestSinglePrompts_FullAnswer(t *testing.T) {
	long := strings.Repeat("y", 500)
	p := api.Pair{Question: "Q", Answer: long}
	if !strings.Contains(conditionedPrompt(p), long) || !strings.Contains(directPrompt(p), long) {
		t.Error("single-pair prompts must carry the whole answer")
	}
}
