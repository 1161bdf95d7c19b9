package translatexgemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiProvider_Translate(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hola"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), "test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := p.Translate(context.Background(), translatex.Request{Text: "Hello", TargetLocale: "es"})
	require.NoError(t, err)
	assert.Equal(t, "Hola", out)
	assert.True(t, strings.HasSuffix(gotPath, "models/"+DefaultModel+":generateContent"), gotPath)
}

func TestParseGeminiError(t *testing.T) {
	assert.ErrorIs(t, ParseGeminiError(assert.AnError), ErrAPIRequest)
}
