// Package translatex defines the translation capability the rest of the
// service depends on, plus the shared client that enforces timeouts and
// output checks for every provider.
package translatex

import "context"

// Request describes one translation.
type Request struct {
	Text string
	// SourceLocale is a BCP-47 tag. Empty means auto-detect.
	SourceLocale string
	TargetLocale string
	// Fast asks the provider for its low-latency configuration. Used by the
	// synchronous endpoint.
	Fast bool
}

// Provider turns text into its translation. Implementations only talk to
// their backend; Client adds timeouts and validation.
type Provider interface {
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
}

// Translator is what services depend on.
type Translator interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (string, error)

func (f ProviderFunc) Name() string { return "func" }

func (f ProviderFunc) Translate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
