package detector

import (
	"testing"

	"github.com/truthylabs/truthy/internal/config"
)

func testFactory() *Factory {
	cfg := config.Defaults()
	cfg.LLMTimeoutDuration = 0
	cfg.SearchTimeoutDuration = 0
	return &Factory{Cfg: cfg}
}

func TestFactory_AutoChainOrder(t *testing.T) {
	d, err := testFactory().ForProvider("auto")
	if err != nil {
		t.Fatalf("ForProvider(auto): %v", err)
	}
	got := d.Chain.Tiers()
	want := []string{"openai", "ollama", "heuristic"}
	if len(got) != len(want) {
		t.Fatalf("tiers: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tier[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFactory_AutoRespectsConfiguredRemote(t *testing.T) {
	f := testFactory()
	f.Cfg.Provider = "anthropic"
	d, err := f.ForProvider("auto")
	if err != nil {
		t.Fatalf("ForProvider(auto): %v", err)
	}
	if got := d.Chain.Tiers()[0]; got != "anthropic" {
		t.Errorf("first tier: got %q, want anthropic", got)
	}
}

func TestFactory_ForcedRemoteStillDegradesToHeuristic(t *testing.T) {
	for _, name := range []string{"openai", "anthropic"} {
		d, err := testFactory().ForProvider(name)
		if err != nil {
			t.Fatalf("ForProvider(%s): %v", name, err)
		}
		tiers := d.Chain.Tiers()
		if tiers[0] != name {
			t.Errorf("%s: first tier = %q", name, tiers[0])
		}
		if tiers[len(tiers)-1] != "heuristic" {
			t.Errorf("%s: chain must end at the heuristic tier, got %v", name, tiers)
		}
	}
}

func TestFactory_HeuristicOnly(t *testing.T) {
	d, err := testFactory().ForProvider("heuristic")
	if err != nil {
		t.Fatalf("ForProvider(heuristic): %v", err)
	}
	tiers := d.Chain.Tiers()
	if len(tiers) != 1 || tiers[0] != "heuristic" {
		t.Errorf("tiers: got %v, want [heuristic]", tiers)
	}
}

func TestFactory_UnknownProviderIsError(t *testing.T) {
	if _, err := testFactory().ForProvider("bard"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestFactory_EvidenceChainAlwaysPresent(t *testing.T) {
	d, err := testFactory().ForProvider("auto")
	if err != nil {
		t.Fatalf("ForProvider(auto): %v", err)
	}
	if d.Evidence == nil {
		t.Fatal("evidence chain should be wired")
	}
	if d.MinParagraphChars != 64 {
		t.Errorf("min paragraph chars: got %d, want 64", d.MinParagraphChars)
	}
}
