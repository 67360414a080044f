// Package verdict converts raw classifier output into a structured result.
//
// The classifier is asked for a fixed JSON shape, but model output drifts:
// markdown fences, prose around the JSON, numbers as strings. Parse first
// tries strict JSON (after fence stripping and brace extraction), then falls
// back to text-pattern recovery so that a degraded verdict is always
// produced from non-empty input.
package verdict

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/truthylabs/truthy/internal/model"
	"github.com/truthylabs/truthy/internal/taxonomy"
)

// wire is the JSON shape requested from the classifier.
type wire struct {
	IsHallucinated bool        `json:"is_hallucinated"`
	Confidence     json.Number `json:"confidence"`
	Types          []string    `json:"hallucination_types"`
	Elements       []string    `json:"hallucinated_elements"`
	Explanation    string      `json:"explanation"`
	CorrectAnswer  string      `json:"correct_answer"`
}

// Parse converts raw classifier text into a structured result. It never
// fails on non-empty input: unparseable text degrades to pattern recovery.
// Confidence is clamped to [0,100]; unknown taxonomy codes are dropped.
func Parse(raw string) model.Result {
	text := extractJSON(stripMarkdownFences(raw))

	var w wire
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return recoverText(raw)
	}

	conf, _ := w.Confidence.Float64()
	res := model.Result{
		IsHallucinated: w.IsHallucinated,
		Confidence:     clampConfidence(int(conf)),
		Types:          taxonomy.Filter(w.Types),
		Elements:       w.Elements,
		Explanation:    strings.TrimSpace(w.Explanation),
		CorrectAnswer:  strings.TrimSpace(w.CorrectAnswer),
	}
	if !res.IsHallucinated {
		res.Types = nil
		res.Elements = nil
	}
	return res
}

// stripMarkdownFences removes a surrounding ``` or ```json fence, if any.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// Drop the language tag line ("json", "" etc).
		s = s[idx+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSON returns the outermost {...} span of s, or s unchanged when
// no braces are present. Models often wrap the JSON in prose.
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

var (
	negativeRe   = regexp.MustCompile(`(?i)\b(no hallucination|not hallucinated|is_hallucinated"?\s*:\s*false|answer is (correct|clean|accurate))\b`)
	positiveRe   = regexp.MustCompile(`(?i)\b(hallucinat|is_hallucinated"?\s*:\s*true|fabricat|contradicts?)`)
	confidenceRe = regexp.MustCompile(`(?i)confidence\D{0,12}(\d{1,3})`)
	codeRe       = regexp.MustCompile(`\b(1A|1B|2A|3A)\b`)
)

// recoverText applies best-effort text-pattern extraction to classifier output
// that did not parse as JSON: boolean-like keywords for the verdict, the
// first plausible integer for confidence, taxonomy codes by substring.
func recoverText(raw string) model.Result {
	res := model.Result{
		Confidence:  30,
		Explanation: truncate(strings.TrimSpace(raw), 500),
	}

	switch {
	case negativeRe.MatchString(raw):
		res.IsHallucinated = false
	case positiveRe.MatchString(raw):
		res.IsHallucinated = true
	}

	if m := confidenceRe.FindStringSubmatch(raw); m != nil {
		n := 0
		for _, ch := range m[1] {
			n = n*10 + int(ch-'0')
		}
		res.Confidence = clampConfidence(n)
	}

	if res.IsHallucinated {
		res.Types = taxonomy.Filter(codeRe.FindAllString(raw, -1))
	}
	return res
}

func clampConfidence(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
