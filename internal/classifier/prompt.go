package classifier

import (
	_ "embed"
	"strings"
)

// SystemPrompt is the system-level instruction for the classifier.
// Loaded from prompts/system.md at compile time.
//
//go:embed prompts/system.md
var SystemPrompt string

// BuildPrompt renders the user message from the context paragraph (or
// combined evidence), question, and answer, and returns the full Prompt.
func BuildPrompt(contextText, question, answer string) Prompt {
	para := strings.TrimSpace(contextText)
	display := para
	if display == "" {
		display = "(No paragraph — use world knowledge)"
	}

	var b strings.Builder
	b.WriteString("PARAGRAPH:\n")
	b.WriteString(display)
	b.WriteString("\n\nQUESTION:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\nMODEL'S ANSWER:\n")
	b.WriteString(strings.TrimSpace(answer))
	b.WriteString("\n\nAnalyze and return JSON.")

	return Prompt{
		System:   SystemPrompt,
		User:     b.String(),
		Context:  para,
		Question: question,
		Answer:   answer,
	}
}
