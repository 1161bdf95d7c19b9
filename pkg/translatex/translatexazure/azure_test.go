package translatexazure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAzureOpenAIProvider_Translate(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Api-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"gpt-4o",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hola"}}]}`))
	}))
	defer srv.Close()

	p := NewAzureOpenAIProvider(srv.URL, "azure-key", "translator", WithRequestOptions(option.WithMaxRetries(0)))

	out, err := p.Translate(context.Background(), translatex.Request{Text: "Hello", TargetLocale: "es"})
	require.NoError(t, err)
	assert.Equal(t, "Hola", out)
	assert.Equal(t, "/openai/deployments/translator/chat/completions", gotPath)
	assert.Equal(t, "azure-key", gotKey)
}

func TestAzureOpenAIProvider_MissingEndpoint(t *testing.T) {
	_, err := NewAzureOpenAIProvider("", "k", "d").Translate(context.Background(), translatex.Request{Text: "Hello", TargetLocale: "es"})
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestParseAzureError(t *testing.T) {
	err := ParseAzureError(assert.AnError)
	assert.ErrorIs(t, err, ErrAPIRequest)
}
