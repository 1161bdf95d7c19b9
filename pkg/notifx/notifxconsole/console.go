package notifxconsole

import (
	"context"

	"github.com/rohit9625/natively-backend/pkg/logx"
	"github.com/rohit9625/natively-backend/pkg/notifx"
)

// ConsoleProvider prints notifications to the terminal via logx. Intended for development and testing.
type ConsoleProvider struct{}

// NewConsoleProvider creates a new console notification provider.
func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

// Send logs the notification instead of delivering it.
func (p *ConsoleProvider) Send(_ context.Context, n notifx.Notification, opts ...notifx.Option) error {
	so := notifx.ApplySendOptions(opts)

	fields := logx.Fields{
		"token": n.Token,
		"title": n.Title,
	}
	for k, v := range so.Tags {
		fields["tag."+k] = v
	}
	logx.WithFields(fields).Info("notifx/console: notification sent (dev mode)")

	if n.Body != "" {
		logx.Debugf("notifx/console: body:\n%s", n.Body)
	}

	return nil
}
