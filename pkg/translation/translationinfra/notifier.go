package translationinfra

import (
	"context"

	"github.com/rohit9625/natively-backend/pkg/notifx"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/rohit9625/natively-backend/pkg/translation"
)

const (
	completedTemplate = "translation.completed"
	failedTemplate    = "translation.failed"
)

// NotifxNotifier renders completion notices through notifx templates.
type NotifxNotifier struct {
	client *notifx.Client
}

func NewNotifxNotifier(client *notifx.Client) (*NotifxNotifier, error) {
	if err := client.RegisterTemplate(completedTemplate,
		"Your translation to {{.LanguageName}} is ready.\n\n{{.TranslatedText}}"); err != nil {
		return nil, err
	}
	if err := client.RegisterTemplate(failedTemplate,
		"We could not translate your text to {{.LanguageName}}. Please try again."); err != nil {
		return nil, err
	}
	return &NotifxNotifier{client: client}, nil
}

func (n *NotifxNotifier) NotifyCompletion(ctx context.Context, token string, result *translation.Result) error {
	notice := translation.CompletionNotice{
		JobID:          result.JobID,
		Status:         result.Status,
		TargetLanguage: result.TargetLanguage,
		LanguageName:   translatex.LanguageName(result.TargetLanguage),
		TranslatedText: result.TranslatedText,
	}

	tmpl, title := completedTemplate, "Translation ready"
	if !result.IsCompleted() {
		tmpl, title = failedTemplate, "Translation failed"
	}

	return n.client.SendTemplated(ctx, tmpl, notice, notifx.Notification{
		Token: token,
		Title: title,
		Data: map[string]string{
			"jobId":  result.JobID,
			"status": string(result.Status),
		},
	}, notifx.WithTags(map[string]string{"kind": "translation"}))
}
