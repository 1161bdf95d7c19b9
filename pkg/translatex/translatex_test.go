package translatex

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_TrimsOutput(t *testing.T) {
	c := NewClient(ProviderFunc(func(ctx context.Context, req Request) (string, error) {
		return "  Hola \n", nil
	}), time.Second)

	out, err := c.Translate(context.Background(), Request{Text: "Hello", TargetLocale: "es"})
	require.NoError(t, err)
	assert.Equal(t, "Hola", out)
}

func TestClient_EmptyOutputIsInvalidResponse(t *testing.T) {
	c := NewClient(ProviderFunc(func(ctx context.Context, req Request) (string, error) {
		return "   ", nil
	}), time.Second)

	_, err := c.Translate(context.Background(), Request{Text: "Hello", TargetLocale: "es"})
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestClient_Timeout(t *testing.T) {
	c := NewClient(ProviderFunc(func(ctx context.Context, req Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 20*time.Millisecond)

	_, err := c.Translate(context.Background(), Request{Text: "Hello", TargetLocale: "es"})
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestClient_WrapsProviderErrors(t *testing.T) {
	c := NewClient(ProviderFunc(func(ctx context.Context, req Request) (string, error) {
		return "", errors.New("503 service unavailable")
	}), time.Second)

	_, err := c.Translate(context.Background(), Request{Text: "Hello", TargetLocale: "es"})
	assert.True(t, errors.Is(err, ErrProviderFailed))
}

func TestClient_RejectsEmptyInput(t *testing.T) {
	called := false
	c := NewClient(ProviderFunc(func(ctx context.Context, req Request) (string, error) {
		called = true
		return "x", nil
	}), time.Second)

	_, err := c.Translate(context.Background(), Request{Text: " ", TargetLocale: "es"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.False(t, called)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Spanish", LanguageName("es"))
	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "not a tag!", LanguageName("not a tag!"))
}

func TestUserPrompt(t *testing.T) {
	p := UserPrompt(Request{Text: "Hello", SourceLocale: "en", TargetLocale: "es"})
	assert.True(t, strings.HasPrefix(p, "Translate the following text from English to Spanish."))
	assert.True(t, strings.HasSuffix(p, "Hello"))
}

func TestDetectLocale(t *testing.T) {
	text := "El veloz murciélago hindú comía feliz cardillo y kiwi mientras la cigüeña tocaba el saxofón detrás del palenque de paja. " +
		"Por la mañana la ciudad despierta despacio y las calles se llenan de gente que camina hacia el trabajo."
	if got := DetectLocale(text); got != "" {
		assert.Equal(t, "es", got)
	}
	assert.Empty(t, DetectLocale("ok"))
}
