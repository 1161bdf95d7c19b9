package translatex

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rohit9625/natively-backend/pkg/logx"
)

// Client wraps a Provider with a per-call timeout and output checks.
type Client struct {
	provider Provider
	timeout  time.Duration
}

// NewClient creates a client. A zero timeout disables the deadline.
func NewClient(provider Provider, timeout time.Duration) *Client {
	return &Client{provider: provider, timeout: timeout}
}

// Translate calls the provider and returns trimmed, non-empty text.
func (c *Client) Translate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", translateErrors.NewWithMessage(ErrInvalidRequest, "text is required")
	}
	if req.TargetLocale == "" {
		return "", translateErrors.NewWithMessage(ErrInvalidRequest, "target locale is required")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.provider.Translate(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", translateErrors.NewWithCause(ErrTimeout, err).
				WithDetail("provider", c.provider.Name()).
				WithDetail("timeout", c.timeout.String())
		}
		if errors.Is(err, ErrProviderFailed) || errors.Is(err, ErrInvalidResponse) {
			return "", err
		}
		return "", ProviderError(c.provider.Name(), err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", InvalidResponse(c.provider.Name(), "empty output")
	}

	logx.WithFields(logx.Fields{
		"provider": c.provider.Name(),
		"target":   req.TargetLocale,
		"chars":    len(req.Text),
		"took":     time.Since(start).String(),
	}).Debug("translatex: translated")

	return out, nil
}
