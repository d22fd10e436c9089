package advisory

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/felixgeelhaar/flowplan/pkg/domain/advisory"
)

// ResilienceConfig bounds the network round-trip to an external advisor.
// Timeouts apply only at this boundary; the scheduling math itself is
// synchronous and bounded.
type ResilienceConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// DefaultResilienceConfig returns the standard advisor resilience settings.
func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		MaxRetries: 2,
		RetryDelay: time.Second,
		Timeout:    30 * time.Second,
	}
}

// ResilientProvider wraps an advisor with retry and timeout. A provider
// that still fails leaves the caller's previous schedule result intact.
type ResilientProvider struct {
	inner advisory.Provider
	cfg   ResilienceConfig
}

// NewResilientProvider wraps a provider with default resilience settings.
func NewResilientProvider(inner advisory.Provider) *ResilientProvider {
	return NewResilientProviderWithConfig(inner, DefaultResilienceConfig())
}

// NewResilientProviderWithConfig wraps a provider with explicit settings.
func NewResilientProviderWithConfig(inner advisory.Provider, cfg ResilienceConfig) *ResilientProvider {
	return &ResilientProvider{inner: inner, cfg: cfg}
}

func (p *ResilientProvider) ID() string {
	return p.inner.ID()
}

func (p *ResilientProvider) Suggest(ctx context.Context, req advisory.Request) (*advisory.Response, error) {
	r := retry.New[*advisory.Response](retry.Config{
		MaxAttempts:   p.cfg.MaxRetries,
		InitialDelay:  p.cfg.RetryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})

	t := timeout.New[*advisory.Response](timeout.Config{
		DefaultTimeout: p.cfg.Timeout,
	})

	return t.Execute(ctx, p.cfg.Timeout, func(ctx context.Context) (*advisory.Response, error) {
		return r.Do(ctx, func(ctx context.Context) (*advisory.Response, error) {
			return p.inner.Suggest(ctx, req)
		})
	})
}
