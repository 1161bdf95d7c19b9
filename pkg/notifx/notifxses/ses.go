package notifxses

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/rohit9625/natively-backend/pkg/notifx"
)

// SendEmailAPI is the slice of the SES client the provider uses.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESProvider implements notifx.Sender using AWS SES. The delivery token is
// the recipient's email address.
type SESProvider struct {
	client      SendEmailAPI
	fromAddress string
}

// NewSESProvider creates a new SES notification provider.
func NewSESProvider(client SendEmailAPI, fromAddress string) *SESProvider {
	return &SESProvider{
		client:      client,
		fromAddress: fromAddress,
	}
}

// Send emails the notification to the address in n.Token.
func (p *SESProvider) Send(ctx context.Context, n notifx.Notification, opts ...notifx.Option) error {
	addr, err := mail.ParseAddress(n.Token)
	if err != nil {
		return sesErrors.NewWithCause(ErrBuildMessage, err).WithDetail("reason", "token is not an email address")
	}

	so := notifx.ApplySendOptions(opts)

	input := &ses.SendEmailInput{
		Source: aws.String(p.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{addr.Address},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(n.Title),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(textBody(n)),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if so.ConfigID != "" {
		input.ConfigurationSetName = aws.String(so.ConfigID)
	}
	for k, v := range so.Tags {
		input.Tags = append(input.Tags, types.MessageTag{Name: aws.String(k), Value: aws.String(v)})
	}

	if _, err := p.client.SendEmail(ctx, input); err != nil {
		return sesErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("to", addr.Address).
			WithDetail("subject", n.Title)
	}

	return nil
}

func textBody(n notifx.Notification) string {
	if len(n.Data) == 0 {
		return n.Body
	}

	keys := make([]string, 0, len(n.Data))
	for k := range n.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(n.Body)
	b.WriteString("\n\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, n.Data[k])
	}
	return b.String()
}
