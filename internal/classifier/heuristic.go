package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// HeuristicClassifier is the last-resort tier: a rule-based comparator that
// never calls out to a network service and never fails. It emits the same
// JSON verdict shape as the LLM tiers so the parser handles every tier
// uniformly.
//
// Signals, in priority order:
//  1. Capitalized entities in the answer absent from the context and
//     question, combined with low token overlap — out-of-context entity.
//  2. Predicate inversion between answer and context (e.g., "promotes" vs
//     "critiques") — out-of-context intent.
type HeuristicClassifier struct{}

// NewHeuristicClassifier creates the rule-based classifier.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{}
}

// Provider returns "heuristic".
func (c *HeuristicClassifier) Provider() string {
	return "heuristic"
}

// overlapThreshold is the token-overlap ratio below which novel entities
// in the answer are treated as ungrounded.
const overlapThreshold = 0.65

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "was": true, "are": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "shall": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "could": true, "to": true,
	"of": true, "in": true, "for": true, "on": true, "with": true, "at": true,
	"by": true, "from": true, "up": true, "about": true, "into": true,
	"through": true, "during": true, "it": true, "its": true, "this": true,
	"that": true, "these": true, "those": true, "and": true, "but": true,
	"or": true, "nor": true, "not": true, "so": true, "yet": true,
	"both": true, "either": true, "neither": true, "because": true,
	"as": true, "if": true, "then": true, "than": true, "when": true,
	"where": true, "who": true, "which": true, "what": true, "he": true,
	"she": true, "they": true, "we": true, "you": true, "i": true,
	"me": true, "him": true, "her": true, "us": true, "them": true,
	"also": true,
}

// inversionPairs are predicate word groups whose cross-occurrence between
// answer and context signals an inverted intent.
var inversionPairs = [][2][]string{
	{
		{"promotes", "supports", "endorses", "advocates", "favors"},
		{"critiques", "opposes", "criticizes", "condemns", "depicts", "warns"},
	},
	{
		{"won", "victory", "champion", "defeated", "beat"},
		{"lost", "surrendered", "conceded"},
	},
	{
		{"invented", "created", "founded", "built"},
		{"discovered", "found", "explored"},
	},
}

// heuristicVerdict mirrors the JSON shape the LLM tiers are prompted for.
type heuristicVerdict struct {
	IsHallucinated bool     `json:"is_hallucinated"`
	Confidence     int      `json:"confidence"`
	Types          []string `json:"hallucination_types"`
	Elements       []string `json:"hallucinated_elements"`
	Explanation    string   `json:"explanation"`
	CorrectAnswer  string   `json:"correct_answer"`
}

// Classify applies the rule-based comparison. It ignores the credential and
// never returns an error.
func (c *HeuristicClassifier) Classify(_ context.Context, p Prompt, _ string) (Output, error) {
	v := c.judge(p)
	raw, err := json.Marshal(v)
	if err != nil {
		return Output{}, err
	}
	return Output{Text: string(raw), Model: "rule-based"}, nil
}

func (c *HeuristicClassifier) judge(p Prompt) heuristicVerdict {
	if strings.TrimSpace(p.Context) == "" {
		return heuristicVerdict{
			Confidence: 40,
			Types:      []string{},
			Elements:   []string{},
			Explanation: "No context available and no language model reachable. " +
				"Configure an API key or run a local Ollama server for a grounded verdict.",
		}
	}

	ansTok := contentTokens(p.Answer)
	ctxTok := contentTokens(p.Context)

	shared := 0
	for t := range ansTok {
		if ctxTok[t] {
			shared++
		}
	}
	overlap := float64(shared) / float64(max(len(ansTok), 1))

	// Signal 1: novel capitalized entities with weak grounding.
	novel := novelEntities(p.Answer, p.Context, p.Question)
	if len(novel) > 0 && overlap < overlapThreshold {
		if len(novel) > 4 {
			novel = novel[:4]
		}
		return heuristicVerdict{
			IsHallucinated: true,
			Confidence:     72,
			Types:          []string{"1A"},
			Elements:       novel,
			Explanation: fmt.Sprintf(
				"Answer introduces named entities not found in the context: %s. Token overlap with the context is %.0f%%.",
				strings.Join(novel, ", "), overlap*100),
			CorrectAnswer: "The answer should be grounded in the provided paragraph.",
		}
	}

	// Signal 2: predicate inversion between answer and context.
	ansLower := strings.ToLower(p.Answer)
	ctxLower := strings.ToLower(p.Context)
	for _, pair := range inversionPairs {
		if (containsAny(ansLower, pair[0]) && containsAny(ctxLower, pair[1])) ||
			(containsAny(ansLower, pair[1]) && containsAny(ctxLower, pair[0])) {
			return heuristicVerdict{
				IsHallucinated: true,
				Confidence:     70,
				Types:          []string{"2A"},
				Elements:       []string{},
				Explanation:    "The answer's intent contradicts the context framing: predicate inversion detected.",
				CorrectAnswer:  "The answer's relationship should align with the context's intent.",
			}
		}
	}

	return heuristicVerdict{
		Confidence:  80,
		Types:       []string{},
		Elements:    []string{},
		Explanation: "No clear hallucination signals detected by rule-based analysis.",
	}
}

// contentTokens lowercases, strips punctuation, and drops stopwords.
func contentTokens(text string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if w != "" && !stopwords[w] {
			out[w] = true
		}
	}
	return out
}

// novelEntities returns runs of consecutive capitalized words from the
// answer that appear in neither the context nor the question. Runs are
// joined so multi-word names ("Steven Spielberg") surface as one element.
func novelEntities(answer, contextText, question string) []string {
	known := capitalizedWords(contextText)
	for w := range capitalizedWords(question) {
		known[w] = true
	}

	var entities []string
	var run []string
	flush := func() {
		if len(run) > 0 {
			entities = append(entities, strings.Join(run, " "))
			run = nil
		}
	}

	for _, raw := range strings.Fields(answer) {
		w := strings.TrimFunc(raw, unicode.IsPunct)
		if isEntityWord(w) && !known[w] {
			run = append(run, w)
			// Trailing punctuation ends a multi-word name.
			if strings.TrimRightFunc(raw, unicode.IsPunct) != raw {
				flush()
			}
		} else {
			flush()
		}
	}
	flush()
	return entities
}

// capitalizedWords collects candidate entity words from text.
func capitalizedWords(text string) map[string]bool {
	out := map[string]bool{}
	for _, raw := range strings.Fields(text) {
		w := strings.TrimFunc(raw, unicode.IsPunct)
		if isEntityWord(w) {
			out[w] = true
		}
	}
	return out
}

// isEntityWord reports whether w looks like part of a proper name:
// capitalized, longer than two runes, and not a sentence-starter stopword.
func isEntityWord(w string) bool {
	if len(w) <= 2 {
		return false
	}
	r := []rune(w)
	return unicode.IsUpper(r[0]) && !stopwords[strings.ToLower(w)]
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
