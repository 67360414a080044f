package model

import (
	"testing"

	"github.com/truthylabs/truthy/internal/taxonomy"
)

func TestVerdictLabel(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want string
	}{
		{"undetermined wins", Result{Undetermined: true, IsHallucinated: true}, "UNDETERMINED"},
		{"hallucinated", Result{IsHallucinated: true}, "HALLUCINATED"},
		{"clean", Result{}, "CLEAN"},
	}
	for _, tt := range tests {
		if got := tt.res.Verdict(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFillTypeNames(t *testing.T) {
	res := Result{Types: []taxonomy.Code{taxonomy.EntityOutOfContext, taxonomy.SemanticTriple}}
	res.FillTypeNames()
	if len(res.TypeNames) != 2 {
		t.Fatalf("type names: got %v", res.TypeNames)
	}
	if res.TypeNames[0] != taxonomy.EntityOutOfContext.Name() {
		t.Errorf("first name: got %q", res.TypeNames[0])
	}

	res.Types = nil
	res.FillTypeNames()
	if len(res.TypeNames) != 0 {
		t.Errorf("names should clear with types: %v", res.TypeNames)
	}
}

func TestCombineEvidence(t *testing.T) {
	got := CombineEvidence([]Snippet{
		{Title: "Inception", Text: "A 2010 film."},
		{Text: "Directed by Christopher Nolan."},
	})
	want := "Inception: A 2010 film.\n\nDirected by Christopher Nolan."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if CombineEvidence(nil) != "" {
		t.Error("no snippets should combine to empty string")
	}
}
