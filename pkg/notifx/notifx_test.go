package notifx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Notification
	opts []SendOptions
	err  error
}

func (r *recordingSender) Send(_ context.Context, n Notification, opts ...Option) error {
	r.sent = append(r.sent, n)
	r.opts = append(r.opts, ApplySendOptions(opts))
	return r.err
}

func TestClient_SendValidates(t *testing.T) {
	rec := &recordingSender{}
	c := NewClient(rec)

	err := c.Send(context.Background(), Notification{Title: "Done"})
	assert.True(t, errors.Is(err, ErrInvalidMessage))

	err = c.Send(context.Background(), Notification{Token: "device-1"})
	assert.True(t, errors.Is(err, ErrInvalidMessage))
	assert.Empty(t, rec.sent)
}

func TestClient_SendTemplated(t *testing.T) {
	rec := &recordingSender{}
	c := NewClient(rec)
	require.NoError(t, c.RegisterTemplate("done", `"{{.Original}}" is now "{{.Translated}}"`))

	err := c.SendTemplated(context.Background(), "done",
		map[string]string{"Original": "Hello", "Translated": "Hola"},
		Notification{Token: "device-1", Title: "Translation ready"},
		WithTags(map[string]string{"job_id": "42"}),
	)
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, `"Hello" is now "Hola"`, rec.sent[0].Body)
	assert.Equal(t, "42", rec.opts[0].Tags["job_id"])
}

func TestClient_UnknownTemplate(t *testing.T) {
	c := NewClient(&recordingSender{})
	err := c.SendTemplated(context.Background(), "missing", nil, Notification{Token: "t", Title: "x"})
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}

func TestTemplateRegistry_ParseError(t *testing.T) {
	err := NewTemplateRegistry().Register("bad", "{{.Unclosed")
	assert.True(t, errors.Is(err, ErrTemplateParse))
}

func TestTemplateRegistry_MissingKeyFails(t *testing.T) {
	r := NewTemplateRegistry()
	require.NoError(t, r.Register("done", "Hi {{.Name}}"))
	assert.True(t, r.Has("done"))

	_, err := r.Render("done", map[string]string{})
	assert.True(t, errors.Is(err, ErrTemplateRender))
}

func TestApplySendOptions_MergesTags(t *testing.T) {
	so := ApplySendOptions([]Option{
		WithTags(map[string]string{"kind": "translation", "env": "dev"}),
		WithTag("env", "prod"),
		WithConfigID("transactional"),
	})
	assert.Equal(t, map[string]string{"kind": "translation", "env": "prod"}, so.Tags)
	assert.Equal(t, "transactional", so.ConfigID)
}
