package evidence

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/truthylabs/truthy/internal/model"
)

// fakeSource is a scriptable evidence source for chain tests.
type fakeSource struct {
	name     string
	snippets []model.Snippet
	err      error
	calls    int
}

func (f *fakeSource) Search(_ context.Context, _ string, max int) ([]model.Snippet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.snippets) > max {
		return f.snippets[:max], nil
	}
	return f.snippets, nil
}

func (f *fakeSource) Name() string { return f.name }

func snippet(source, text string) model.Snippet {
	return model.Snippet{Source: source, Title: "t", Text: text}
}

func TestChain_StopsWhenEnoughContext(t *testing.T) {
	long := strings.Repeat("x", 300)
	first := &fakeSource{name: "brave", snippets: []model.Snippet{snippet("brave", long)}}
	second := &fakeSource{name: "wikipedia", snippets: []model.Snippet{snippet("wikipedia", "more")}}
	chain := NewChain(4, first, second)

	got := chain.Search(context.Background(), "q")
	if len(got) != 1 {
		t.Fatalf("snippets: got %d, want 1", len(got))
	}
	if second.calls != 0 {
		t.Errorf("second source consulted despite sufficient context")
	}
}

func TestChain_FallsThroughOnFailure(t *testing.T) {
	first := &fakeSource{name: "brave", err: errors.New("402 payment required")}
	second := &fakeSource{name: "duckduckgo", snippets: []model.Snippet{snippet("duckduckgo", strings.Repeat("y", 250))}}
	chain := NewChain(4, first, second)

	got := chain.Search(context.Background(), "q")
	if len(got) != 1 || got[0].Source != "duckduckgo" {
		t.Fatalf("expected duckduckgo snippet, got %v", got)
	}
}

func TestChain_TotalFailureYieldsEmptyNotError(t *testing.T) {
	chain := NewChain(4,
		&fakeSource{name: "a", err: errors.New("down")},
		&fakeSource{name: "b", err: errors.New("down")},
	)
	if got := chain.Search(context.Background(), "q"); len(got) != 0 {
		t.Errorf("expected no snippets, got %v", got)
	}
}

func TestChain_MaxSnippetsEnforced(t *testing.T) {
	many := []model.Snippet{
		snippet("s", "a"), snippet("s", "b"), snippet("s", "c"),
	}
	chain := NewChain(2, &fakeSource{name: "s", snippets: many})
	if got := chain.Search(context.Background(), "q"); len(got) != 2 {
		t.Errorf("max not enforced: got %d snippets", len(got))
	}
}

func TestChain_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeSource{name: "s", snippets: []model.Snippet{snippet("s", "x")}}
	chain := NewChain(4, src)
	if got := chain.Search(ctx, "q"); len(got) != 0 {
		t.Errorf("cancelled search returned snippets: %v", got)
	}
	if src.calls != 0 {
		t.Errorf("source consulted after cancellation")
	}
}

func TestDeriveQuery(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"Who directed the movie Inception?", "directed the movie Inception"},
		{"What is the capital of France?", "is the capital of France"},
		{"Who won?", "Who won"}, // short remainder falls back
		{"  When was Tesla Motors founded?  ", "was Tesla Motors founded"},
	}
	for _, tt := range tests {
		if got := DeriveQuery(tt.question); got != tt.want {
			t.Errorf("DeriveQuery(%q) = %q, want %q", tt.question, got, tt.want)
		}
	}
}

func TestDeriveQuery_TruncatesLongQuestions(t *testing.T) {
	long := "Who " + strings.Repeat("word ", 100)
	if got := DeriveQuery(long); len(got) > 200 {
		t.Errorf("query not truncated: len=%d", len(got))
	}
}
