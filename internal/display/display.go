// Package display renders detection results for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/truthylabs/truthy/internal/model"
	"github.com/truthylabs/truthy/internal/taxonomy"
)

var (
	colorError   = lipgloss.Color("#e06c75")
	colorSuccess = lipgloss.Color("#7fd88f")
	colorWarning = lipgloss.Color("#f5a742")
	colorInfo    = lipgloss.Color("#56b6c2")
	colorMuted   = lipgloss.Color("#808080")
	colorText    = lipgloss.Color("#eeeeee")
)

var (
	bannerBad = lipgloss.NewStyle().Bold(true).Foreground(colorError).
			Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(0, 2)
	bannerOK = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess).
			Border(lipgloss.RoundedBorder()).BorderForeground(colorSuccess).Padding(0, 2)
	bannerUnknown = lipgloss.NewStyle().Bold(true).Foreground(colorWarning).
			Border(lipgloss.RoundedBorder()).BorderForeground(colorWarning).Padding(0, 2)

	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	dimStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	textStyle  = lipgloss.NewStyle().Foreground(colorText)
	codeStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
)

// Render formats a result as a styled multi-line block.
func Render(res model.Result) string {
	var b strings.Builder

	switch {
	case res.Undetermined:
		b.WriteString(bannerUnknown.Render("? UNDETERMINED"))
	case res.IsHallucinated:
		b.WriteString(bannerBad.Render("✗ HALLUCINATION DETECTED"))
	default:
		b.WriteString(bannerOK.Render("✓ ANSWER LOOKS FAITHFUL"))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Confidence") + " " + confidenceBar(res.Confidence) +
		dimStyle.Render(fmt.Sprintf(" %d%%", res.Confidence)) + "\n")

	if len(res.Types) > 0 {
		b.WriteString(labelStyle.Render("Types") + "\n")
		for _, code := range res.Types {
			b.WriteString("  " + codeStyle.Render(string(code)) + " " +
				textStyle.Render(code.Name()) + "\n")
			b.WriteString("     " + dimStyle.Render(code.Description()) + "\n")
		}
	}

	if len(res.Elements) > 0 {
		b.WriteString(labelStyle.Render("Hallucinated elements") + "\n")
		for _, el := range res.Elements {
			b.WriteString("  • " + textStyle.Render(el) + "\n")
		}
	}

	if res.Explanation != "" {
		b.WriteString(labelStyle.Render("Explanation") + "\n")
		b.WriteString("  " + textStyle.Render(res.Explanation) + "\n")
	}

	if res.CorrectAnswer != "" {
		b.WriteString(labelStyle.Render("Correct answer") + "\n")
		b.WriteString("  " + textStyle.Render(res.CorrectAnswer) + "\n")
	}

	if res.EvidenceUsed {
		b.WriteString(labelStyle.Render("Evidence") + " " +
			dimStyle.Render(fmt.Sprintf("%d snippet(s) from %s",
				len(res.Sources), strings.Join(snippetSources(res.Sources), ", "))) + "\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("provider=%s model=%s elapsed=%dms",
		res.Provider, res.Model, res.DurationMs)) + "\n")

	return b.String()
}

// RenderCompact yields a one-line summary, used by the samples runner.
func RenderCompact(name string, res model.Result, ok bool) string {
	mark := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓")
	if !ok {
		mark = lipgloss.NewStyle().Foreground(colorError).Render("✗")
	}
	codes := strings.Join(taxonomy.Strings(res.Types), ",")
	if codes == "" {
		codes = "-"
	}
	return fmt.Sprintf("%s %-28s %-14s types=%-6s conf=%3d%% provider=%s",
		mark, name, res.Verdict(), codes, res.Confidence, res.Provider)
}

// snippetSources returns the distinct provider names, in order.
func snippetSources(snippets []model.Snippet) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range snippets {
		if !seen[s.Source] {
			seen[s.Source] = true
			out = append(out, s.Source)
		}
	}
	return out
}

// confidenceBar draws a 20-cell bar colored by the level.
func confidenceBar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct / 5
	color := colorSuccess
	switch {
	case pct < 40:
		color = colorError
	case pct < 70:
		color = colorWarning
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}
