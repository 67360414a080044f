// Package evidence retrieves web context for answers that arrive without a
// paragraph to ground against.
//
// Sources are tried in a fixed priority order: Brave Search when a key is
// configured, then the free DuckDuckGo Instant Answer API, then Wikipedia.
// A source failure (network error, non-2xx, timeout, empty result) falls
// through to the next source; total failure yields an empty slice, never an
// error, so the detection pipeline degrades instead of breaking.
package evidence

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/truthylabs/truthy/internal/model"
)

const userAgent = "truthy-detector/1.0"

// enoughContextChars is the combined snippet length at which the chain
// stops consulting further sources.
const enoughContextChars = 200

// Source is one evidence provider.
type Source interface {
	// Search returns up to max ranked snippets for the query.
	Search(ctx context.Context, query string, max int) ([]model.Snippet, error)

	// Name returns the provider label attached to snippets.
	Name() string
}

// Chain queries sources in priority order, accumulating snippets until
// enough context is gathered or the sources are exhausted.
type Chain struct {
	sources []Source
	max     int
}

// NewChain builds an evidence chain. max bounds the total snippet count
// per lookup.
func NewChain(max int, sources ...Source) *Chain {
	if max <= 0 {
		max = 4
	}
	return &Chain{sources: sources, max: max}
}

// Search runs the chain. It never returns an error: provider failures are
// logged and skipped, and exhaustion yields an empty slice.
func (c *Chain) Search(ctx context.Context, query string) []model.Snippet {
	var out []model.Snippet
	total := 0
	for _, src := range c.sources {
		if ctx.Err() != nil {
			break
		}
		snippets, err := src.Search(ctx, query, c.max-len(out))
		if err != nil {
			slog.Debug("evidence source failed, falling through", "source", src.Name(), "error", err)
			continue
		}
		for _, s := range snippets {
			out = append(out, s)
			total += len(s.Text)
			if len(out) >= c.max {
				return out
			}
		}
		if total >= enoughContextChars {
			break
		}
	}
	return out
}

var interrogativeRe = regexp.MustCompile(`(?i)^(what|who|when|where|why|how|which|is|are|was|were|did|do|does)\s+`)

// DeriveQuery turns a question into a search query: the leading
// interrogative is stripped and the result truncated to 200 characters.
// Very short remainders fall back to the full question.
func DeriveQuery(question string) string {
	q := strings.TrimSpace(question)
	q = strings.TrimSuffix(q, "?")
	clean := interrogativeRe.ReplaceAllString(q, "")
	if len(clean) <= 10 {
		clean = q
	}
	if len(clean) > 200 {
		clean = clean[:200]
	}
	return strings.TrimSpace(clean)
}
