// Package taxonomy defines the closed set of hallucination categories.
//
// The four codes are fixed reference data. Classifier output is filtered
// against this set so that invented categories never reach a caller.
package taxonomy

import "strings"

// Code identifies one hallucination category.
type Code string

const (
	// EntityOutOfContext: the answer introduces an entity that is not in
	// the paragraph and cannot be inferred from it.
	EntityOutOfContext Code = "1A"
	// TupleVerification: the entities are real but incorrectly paired or
	// linked together.
	TupleVerification Code = "1B"
	// IntentOutOfContext: the entities are correct but the verb, action,
	// or relationship is wrong or inverted.
	IntentOutOfContext Code = "2A"
	// SemanticTriple: the full subject-predicate-object triple is wrong at
	// every level.
	SemanticTriple Code = "3A"
)

// All returns the complete taxonomy in display order.
func All() []Code {
	return []Code{EntityOutOfContext, TupleVerification, IntentOutOfContext, SemanticTriple}
}

// Valid reports whether c is one of the four known codes.
func (c Code) Valid() bool {
	switch c {
	case EntityOutOfContext, TupleVerification, IntentOutOfContext, SemanticTriple:
		return true
	}
	return false
}

// Name returns the human-readable category name.
func (c Code) Name() string {
	switch c {
	case EntityOutOfContext:
		return "Entity – Out-of-Context Entity Hallucination"
	case TupleVerification:
		return "Entity – Tuple Verification Hallucination"
	case IntentOutOfContext:
		return "Intent – Out-of-Context Intent Hallucination"
	case SemanticTriple:
		return "Semantic – Triple Verification Hallucination"
	}
	return ""
}

// Description returns the one-line category definition.
func (c Code) Description() string {
	switch c {
	case EntityOutOfContext:
		return "Answer introduces an entity not present in / inferable from the paragraph"
	case TupleVerification:
		return "Real entities exist but are incorrectly paired or linked together"
	case IntentOutOfContext:
		return "Entities are correct but the verb / action / relationship is wrong or inverted"
	case SemanticTriple:
		return "The full subject–predicate–object triple is wrong at every structural level"
	}
	return ""
}

// Parse returns the code for s, or false if s is not a known code.
// Whitespace and case are normalized; LLM output is messy.
func Parse(s string) (Code, bool) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// Filter returns the valid codes from raw, in order, without duplicates.
// Unknown codes are dropped silently.
func Filter(raw []string) []Code {
	var out []Code
	seen := map[Code]bool{}
	for _, s := range raw {
		c, ok := Parse(s)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Strings converts codes back to their wire form.
func Strings(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
