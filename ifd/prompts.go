package ifd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/datar-psa/goifd/api"
)

// answers longer than this are cut in batch prompts; stored answers are untouched
const promptAnswerLimit = 200

const (
	conditionedSystem      = "You are an instruction difficulty analyzer."
	directSystem           = "You are a text complexity analyzer."
	batchConditionedSystem = "You are an instruction difficulty analyzer. Rate each Q&A pair."
)

const conditionedPromptTemplate = `
Analyze the difficulty of generating this answer given the question:

Question: %s
Answer: %s

Rate the difficulty on a scale 1-10:
1 = Very easy to generate (model can easily follow this instruction)
10 = Very hard to generate (model struggles to follow this instruction)

Provide only the number 1-10.
`

const directPromptTemplate = `
Analyze how difficult it is to generate this text independently:

Text: %s

Rate the intrinsic complexity on a scale 1-10:
1 = Very simple text
10 = Very complex text

Provide only the number 1-10.
`

const batchConditionedPromptTemplate = `Analyze the difficulty of generating each answer given its question.
Rate each on a scale 1-10 (1=easy, 10=hard).

%s

Return ONLY the scores separated by commas. Example: 7,6,8,9,5
`

const batchDirectPromptTemplate = `Analyze the intrinsic complexity of generating each text independently.
Rate each on a scale 1-10 (1=simple, 10=complex).

%s

Return ONLY the scores separated by commas. Example: 4,5,3,6,2
`

func conditionedPrompt(p api.Pair) string {
	return fmt.Sprintf(conditionedPromptTemplate, p.Question, p.Answer)
}

func directPrompt(p api.Pair) string {
	return fmt.Sprintf(directPromptTemplate, p.Answer)
}

func batchConditionedPrompt(batch []api.Pair) string {
	lines := make([]string, len(batch))
	for i, p := range batch {
		lines[i] = fmt.Sprintf("%d. Question: %s\n   Answer: %s", i+1, p.Question, truncateAnswer(p.Answer))
	}
	return fmt.Sprintf(batchConditionedPromptTemplate, strings.Join(lines, "\n"))
}

func batchDirectPrompt(batch []api.Pair) string {
	lines := make([]string, len(batch))
	for i, p := range batch {
		lines[i] = fmt.Sprintf("%d. %s", i+1, truncateAnswer(p.Answer))
	}
	return fmt.Sprintf(batchDirectPromptTemplate, strings.Join(lines, "\n"))
}

func truncateAnswer(answer string) string {
	if utf8.RuneCountInString(answer) <= promptAnswerLimit {
		return answer
	}
	return string([]rune(answer)[:promptAnswerLimit]) + "..."
}
