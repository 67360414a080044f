package classifier

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeTier is a scriptable classifier for chain tests.
type fakeTier struct {
	name     string
	out      Output
	err      error
	calls    int
	lastCred string
}

func (f *fakeTier) Classify(_ context.Context, _ Prompt, credential string) (Output, error) {
	f.calls++
	f.lastCred = credential
	return f.out, f.err
}

func (f *fakeTier) Provider() string { return f.name }

func TestChain_FirstTierWins(t *testing.T) {
	first := &fakeTier{name: "openai", out: Output{Text: "{}", Model: "gpt-4o-mini"}}
	second := &fakeTier{name: "ollama"}
	chain := NewChain(time.Second, first, second)

	out, tier, err := chain.Classify(context.Background(), Prompt{}, "sk-test")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if tier.Provider() != "openai" {
		t.Errorf("winning tier: got %q, want openai", tier.Provider())
	}
	if out.Model != "gpt-4o-mini" {
		t.Errorf("model: got %q", out.Model)
	}
	if second.calls != 0 {
		t.Errorf("second tier should not be called, got %d calls", second.calls)
	}
	if first.lastCred != "sk-test" {
		t.Errorf("credential not forwarded: got %q", first.lastCred)
	}
}

func TestChain_FallsThroughOnFailure(t *testing.T) {
	first := &fakeTier{name: "openai", err: errors.New("connection refused")}
	second := &fakeTier{name: "ollama", err: errors.New("no models installed")}
	third := &fakeTier{name: "heuristic", out: Output{Text: "{}", Model: "rule-based"}}
	chain := NewChain(time.Second, first, second, third)

	var failures []string
	chain.OnFailure = func(provider string, _ error) {
		failures = append(failures, provider)
	}

	_, tier, err := chain.Classify(context.Background(), Prompt{}, "")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if tier.Provider() != "heuristic" {
		t.Errorf("winning tier: got %q, want heuristic", tier.Provider())
	}
	if len(failures) != 2 || failures[0] != "openai" || failures[1] != "ollama" {
		t.Errorf("failure hook: got %v, want [openai ollama]", failures)
	}
}

func TestChain_SkipsNoCredentialSilently(t *testing.T) {
	first := &fakeTier{name: "openai", err: ErrNoCredential}
	second := &fakeTier{name: "heuristic", out: Output{Text: "{}"}}
	chain := NewChain(0, first, second)

	var failures []string
	chain.OnFailure = func(provider string, _ error) {
		failures = append(failures, provider)
	}

	_, tier, err := chain.Classify(context.Background(), Prompt{}, "")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if tier.Provider() != "heuristic" {
		t.Errorf("winning tier: got %q", tier.Provider())
	}
	// Missing-credential skips are expected, not failures.
	if len(failures) != 0 {
		t.Errorf("failure hook fired for credential skip: %v", failures)
	}
}

func TestChain_ExhaustedWhenAllFail(t *testing.T) {
	tierErr := errors.New("boom")
	chain := NewChain(time.Second,
		&fakeTier{name: "a", err: tierErr},
		&fakeTier{name: "b", err: tierErr},
	)

	_, _, err := chain.Classify(context.Background(), Prompt{}, "")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
	if !errors.Is(err, tierErr) {
		t.Errorf("joined error should retain tier errors, got %v", err)
	}
}

func TestChain_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	second := &fakeTier{name: "b", out: Output{Text: "{}"}}
	chain := NewChain(0,
		&fakeTier{name: "a", err: errors.New("boom")},
		second,
	)

	_, _, err := chain.Classify(ctx, Prompt{}, "")
	if err == nil {
		t.Fatal("expected error from cancelled chain")
	}
	if second.calls != 0 {
		t.Errorf("chain should stop after parent cancellation, second tier called %d times", second.calls)
	}
}

func TestChain_Tiers(t *testing.T) {
	chain := NewChain(0, &fakeTier{name: "openai"}, &fakeTier{name: "heuristic"})
	got := chain.Tiers()
	if len(got) != 2 || got[0] != "openai" || got[1] != "heuristic" {
		t.Errorf("Tiers() = %v", got)
	}
}
