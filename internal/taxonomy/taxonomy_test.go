package taxonomy

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		want  Code
		valid bool
	}{
		{"1A", EntityOutOfContext, true},
		{"1a", EntityOutOfContext, true},
		{" 1B ", TupleVerification, true},
		{"2A", IntentOutOfContext, true},
		{"3A", SemanticTriple, true},
		{"4C", "", false},
		{"", "", false},
		{"entity", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if ok != tt.valid {
			t.Errorf("Parse(%q): valid = %v, want %v", tt.in, ok, tt.valid)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilterDropsUnknownAndDuplicates(t *testing.T) {
	got := Filter([]string{"1A", "bogus", "2A", "1A", "", "3A"})
	want := []Code{EntityOutOfContext, IntentOutOfContext, SemanticTriple}
	if len(got) != len(want) {
		t.Fatalf("Filter: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Filter[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAllCodesHaveNamesAndDescriptions(t *testing.T) {
	for _, code := range All() {
		if !code.Valid() {
			t.Errorf("All() contains invalid code %q", code)
		}
		if code.Name() == "" {
			t.Errorf("code %q has no name", code)
		}
		if code.Description() == "" {
			t.Errorf("code %q has no description", code)
		}
	}
	if Code("9Z").Valid() {
		t.Error("Valid(9Z) = true, want false")
	}
}
