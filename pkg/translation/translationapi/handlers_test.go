package translationapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rohit9625/natively-backend/pkg/jobx"
	"github.com/rohit9625/natively-backend/pkg/jobx/jobxmemory"
	"github.com/rohit9625/natively-backend/pkg/storex/storexmemory"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/rohit9625/natively-backend/pkg/translation"
	"github.com/rohit9625/natively-backend/pkg/translation/translationapi"
	"github.com/rohit9625/natively-backend/pkg/translation/translationinfra"
	"github.com/rohit9625/natively-backend/pkg/translation/translationsrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testAPI struct {
	app     *fiber.App
	results translation.ResultRepository
	client  *jobx.Client
}

func newTestAPI(t *testing.T, provider translatex.ProviderFunc) *testAPI {
	t.Helper()

	results := translationinfra.NewStoreResultRepository(storexmemory.New(nil))
	client := jobx.NewClient(jobxmemory.New(), jobx.WithQueues("translations"))
	svc := translationsrv.NewTranslationService(
		client,
		translatex.NewClient(provider, time.Second),
		results,
		translationsrv.ServiceConfig{
			Queue:       "translations",
			JobType:     "translation.translate",
			MaxAttempts: 3,
			Limits:      translation.Limits{MaxTextLength: 100},
		},
	)

	app := fiber.New(fiber.Config{ErrorHandler: translationapi.ErrorHandler})
	translationapi.NewTranslationHandlers(svc).RegisterRoutes(app)
	return &testAPI{app: app, results: results, client: client}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func hola(context.Context, translatex.Request) (string, error) { return "Hola", nil }

func TestTrigger(t *testing.T) {
	api := newTestAPI(t, hola)

	status, env := api.do(t, fiber.MethodPost, "/api/v1/translation/trigger",
		`{"text":"Hello","targetLanguage":"es","deliveryToken":"device-1"}`)
	assert.Equal(t, fiber.StatusAccepted, status)
	require.True(t, env.Success)

	var data translation.SubmitResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "QUEUED", data.Status)
	assert.NotEmpty(t, data.JobID)

	stats, err := api.client.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats[0].Ready)
}

func TestTrigger_InvalidRequest(t *testing.T) {
	api := newTestAPI(t, hola)

	for _, body := range []string{
		`{"text":"","targetLanguage":"es"}`,
		`{"text":"Hello"}`,
		`not json`,
	} {
		status, env := api.do(t, fiber.MethodPost, "/api/v1/translation/trigger", body)
		assert.Equal(t, fiber.StatusBadRequest, status, body)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	}

	stats, err := api.client.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats[0].Ready)
}

func TestTranslate(t *testing.T) {
	api := newTestAPI(t, hola)

	status, env := api.do(t, fiber.MethodPost, "/api/v1/translate", `{"text":"Hello","targetLanguage":"es"}`)
	assert.Equal(t, fiber.StatusOK, status)
	require.True(t, env.Success)
	assert.JSONEq(t,
		`{"originalText":"Hello","translatedText":"Hola","sourceLanguage":null,"targetLanguage":"es"}`,
		string(env.Data))
}

func TestTranslate_ProviderFailureIsOpaque(t *testing.T) {
	api := newTestAPI(t, func(context.Context, translatex.Request) (string, error) {
		return "", errors.New("api key sk-secret rejected")
	})

	status, env := api.do(t, fiber.MethodPost, "/api/v1/translate", `{"text":"Hello","targetLanguage":"es"}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SERVER_ERROR", env.Error.Code)
	assert.Equal(t, "Internal server error", env.Error.Message)
}

func TestGetStatus(t *testing.T) {
	api := newTestAPI(t, hola)

	status, env := api.do(t, fiber.MethodGet, "/api/v1/translation/job-1", "")
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	job := translation.Job{OriginalText: "Hello", TargetLanguage: "es"}
	require.NoError(t, api.results.Save(context.Background(),
		translation.NewCompletedResult("job-1", job, "Hola", time.Now()), time.Hour))

	status, env = api.do(t, fiber.MethodGet, "/api/v1/translation/job-1", "")
	assert.Equal(t, fiber.StatusOK, status)
	require.True(t, env.Success)

	var result translation.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, translation.StatusCompleted, result.Status)
	assert.Equal(t, "Hola", result.TranslatedText)
}

func TestListFailedJobs(t *testing.T) {
	api := newTestAPI(t, hola)

	status, env := api.do(t, fiber.MethodGet, "/api/v1/jobs/dead", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	status, env = api.do(t, fiber.MethodGet, "/api/v1/jobs/dead?limit=0", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t, hola)

	status, env := api.do(t, fiber.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
