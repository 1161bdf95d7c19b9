package notifx

import (
	"context"
	"strings"
)

// Sender delivers a single notification.
type Sender interface {
	Send(ctx context.Context, n Notification, opts ...Option) error
}

// Client is the main entry point for sending notifications.
type Client struct {
	provider  Sender
	templates *TemplateRegistry
}

// NewClient creates a new notification client.
func NewClient(provider Sender) *Client {
	return &Client{
		provider:  provider,
		templates: NewTemplateRegistry(),
	}
}

// Send validates the notification and hands it to the provider.
func (c *Client) Send(ctx context.Context, n Notification, opts ...Option) error {
	if c.provider == nil {
		return notifxErrors.New(ErrNoProvider)
	}
	if strings.TrimSpace(n.Token) == "" {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty token")
	}
	if n.Title == "" {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty title")
	}
	return c.provider.Send(ctx, n, opts...)
}

// RegisterTemplate parses and stores a named body template for later use.
func (c *Client) RegisterTemplate(name, tmplString string) error {
	return c.templates.Register(name, tmplString)
}

// SendTemplated renders a template into the body and sends the notification.
func (c *Client) SendTemplated(ctx context.Context, templateName string, data any, n Notification, opts ...Option) error {
	body, err := c.templates.Render(templateName, data)
	if err != nil {
		return err
	}

	n.Body = body
	return c.Send(ctx, n, opts...)
}
