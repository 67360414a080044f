package classifier

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Chain walks an ordered list of classifier tiers until one succeeds.
// Tier failures (missing credential, connection refused, non-2xx, empty
// response) are absorbed: the next tier is tried. Only when every tier
// fails does Classify return ErrExhausted.
type Chain struct {
	tiers   []Classifier
	timeout time.Duration

	// OnFailure, when set, observes each tier failure (metrics). Skipped
	// tiers with no credential are not reported.
	OnFailure func(provider string, err error)
}

// NewChain builds a chain over the given tiers, in order. timeout bounds
// each tier attempt; zero disables the per-tier deadline.
func NewChain(timeout time.Duration, tiers ...Classifier) *Chain {
	return &Chain{tiers: tiers, timeout: timeout}
}

// Tiers returns the provider names in attempt order.
func (c *Chain) Tiers() []string {
	names := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		names[i] = t.Provider()
	}
	return names
}

// Classify tries each tier in order and returns the first successful
// output together with the tier that produced it. One attempt per tier,
// no retries. The credential is forwarded to each tier and not retained.
func (c *Chain) Classify(ctx context.Context, p Prompt, credential string) (Output, Classifier, error) {
	var errs []error
	for _, tier := range c.tiers {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if c.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		out, err := tier.Classify(attemptCtx, p, credential)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return out, tier, nil
		}
		if errors.Is(err, ErrNoCredential) {
			slog.Debug("classifier tier skipped", "provider", tier.Provider(), "reason", "no credential")
		} else {
			slog.Warn("classifier tier failed, falling through", "provider", tier.Provider(), "error", err)
			if c.OnFailure != nil {
				c.OnFailure(tier.Provider(), err)
			}
		}
		errs = append(errs, err)

		// A cancelled parent context stops the whole chain.
		if ctx.Err() != nil {
			break
		}
	}
	return Output{}, nil, errors.Join(ErrExhausted, errors.Join(errs...))
}
