package translation_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rohit9625/natively-backend/pkg/errx"
	"github.com/rohit9625/natively-backend/pkg/translation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSubmitRequest_Validate(t *testing.T) {
	limits := translation.Limits{MaxTextLength: 10}

	tests := []struct {
		name    string
		req     translation.SubmitRequest
		limits  translation.Limits
		wantErr bool
	}{
		{name: "valid", req: translation.SubmitRequest{Text: "Hello", TargetLanguage: "es"}, limits: limits},
		{name: "region subtag", req: translation.SubmitRequest{Text: "Hello", TargetLanguage: "pt-BR", SourceLanguage: strPtr("en")}, limits: limits},
		{name: "empty text", req: translation.SubmitRequest{Text: "  ", TargetLanguage: "es"}, limits: limits, wantErr: true},
		{name: "missing target", req: translation.SubmitRequest{Text: "Hello"}, limits: limits, wantErr: true},
		{name: "malformed target", req: translation.SubmitRequest{Text: "Hello", TargetLanguage: "not a locale"}, limits: limits, wantErr: true},
		{name: "malformed source", req: translation.SubmitRequest{Text: "Hello", TargetLanguage: "es", SourceLanguage: strPtr("??")}, limits: limits, wantErr: true},
		{name: "too long", req: translation.SubmitRequest{Text: "Hello there world", TargetLanguage: "es"}, limits: limits, wantErr: true},
		{
			name:    "token required",
			req:     translation.SubmitRequest{Text: "Hello", TargetLanguage: "es"},
			limits:  translation.Limits{RequireDeliveryToken: true},
			wantErr: true,
		},
		{
			name:   "token present",
			req:    translation.SubmitRequest{Text: "Hello", TargetLanguage: "es", DeliveryToken: "tok"},
			limits: translation.Limits{RequireDeliveryToken: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(tt.limits)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errx.IsType(err, errx.TypeValidation))
			assert.ErrorIs(t, err, translation.CodeInvalidRequest)
		})
	}
}

func TestResult_JSON(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	job := translation.Job{OriginalText: "Hello", TargetLanguage: "es"}

	t.Run("failed result has no translation and null source", func(t *testing.T) {
		b, err := json.Marshal(translation.NewFailedResult("job-1", job, at))
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		assert.Equal(t, "FAILED", m["status"])
		assert.NotContains(t, m, "translatedText")
		assert.Contains(t, m, "sourceLanguage")
		assert.Nil(t, m["sourceLanguage"])
	})

	t.Run("completed result carries the translation", func(t *testing.T) {
		r := translation.NewCompletedResult("job-1", job, "Hola", at)
		assert.True(t, r.IsCompleted())
		b, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"translatedText":"Hola"`)
	})
}

func TestNormalizeSource(t *testing.T) {
	assert.Nil(t, translation.NormalizeSource(nil))
	assert.Nil(t, translation.NormalizeSource(strPtr(" ")))
	assert.Equal(t, "en", *translation.NormalizeSource(strPtr(" en ")))
}
