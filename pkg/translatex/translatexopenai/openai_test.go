package translatexopenai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider_Translate(t *testing.T) {
	var gotModel, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.Unmarshal(body, &req)
		gotModel = req.Model
		if len(req.Messages) == 2 {
			gotPrompt = req.Messages[1].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hola"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("test-key", WithRequestOptions(option.WithBaseURL(srv.URL), option.WithMaxRetries(0)))

	out, err := p.Translate(context.Background(), translatex.Request{Text: "Hello", SourceLocale: "en", TargetLocale: "es", Fast: true})
	require.NoError(t, err)
	assert.Equal(t, "Hola", out)
	assert.Equal(t, DefaultFastModel, gotModel)
	assert.True(t, strings.Contains(gotPrompt, "from English to Spanish"))
}

func TestOpenAIProvider_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("bad-key", WithRequestOptions(option.WithBaseURL(srv.URL), option.WithMaxRetries(0)))
	_, err := p.Translate(context.Background(), translatex.Request{Text: "Hello", TargetLocale: "es"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIUnauthorized)
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewOpenAIProvider("").Translate(context.Background(), translatex.Request{Text: "Hello", TargetLocale: "es"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
