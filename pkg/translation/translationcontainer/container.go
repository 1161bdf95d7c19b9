package translationcontainer

import (
	"github.com/rohit9625/natively-backend/pkg/config"
	"github.com/rohit9625/natively-backend/pkg/jobx"
	"github.com/rohit9625/natively-backend/pkg/logx"
	"github.com/rohit9625/natively-backend/pkg/storex"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/rohit9625/natively-backend/pkg/translation"
	"github.com/rohit9625/natively-backend/pkg/translation/translationapi"
	"github.com/rohit9625/natively-backend/pkg/translation/translationinfra"
	"github.com/rohit9625/natively-backend/pkg/translation/translationsrv"
)

// ---------------------------------------------------------------------------
// Deps: everything the translation module needs from the outside.
// Backends are chosen by cmd/ and injected as interfaces.
// ---------------------------------------------------------------------------

type Deps struct {
	Cfg *config.Config

	Queue      jobx.Queue
	Store      storex.Store
	Translator translatex.Translator

	// Notifier is optional. Without it completion notices are skipped.
	Notifier translation.Notifier
}

// ---------------------------------------------------------------------------
// Container: the public surface of the translation module.
// ---------------------------------------------------------------------------

type Container struct {
	// Jobs is started by worker processes and used for enqueueing by API processes.
	Jobs *jobx.Client

	Results translation.ResultRepository

	TranslationService *translationsrv.TranslationService
	Processor          *translationsrv.Processor

	TranslationHandlers *translationapi.TranslationHandlers
}

// ---------------------------------------------------------------------------
// New: builds the translation dependency graph.
// Order: jobs client → repos → services → handlers.
// ---------------------------------------------------------------------------

func New(deps Deps) *Container {
	logx.Info("🔧 Initializing translation container...")

	c := &Container{}
	cfg := deps.Cfg

	// ── Job client ──────────────────────────────────────────────────────────
	queues := cfg.Jobx.Queues
	if len(queues) == 0 {
		queues = []string{cfg.Translation.Queue}
	}
	c.Jobs = jobx.NewClient(deps.Queue,
		jobx.WithQueues(queues...),
		jobx.WithConcurrency(cfg.Jobx.Concurrency),
		jobx.WithPollInterval(cfg.Jobx.PollInterval),
		jobx.WithShutdownTimeout(cfg.Jobx.ShutdownTimeout),
		jobx.WithDequeueTimeout(cfg.Jobx.DequeueTimeout),
		jobx.WithReclaimInterval(cfg.Jobx.ReclaimInterval),
		jobx.WithRetryBaseDelay(cfg.Jobx.RetryBaseDelay),
	)

	// ── Repositories ────────────────────────────────────────────────────────
	c.Results = translationinfra.NewStoreResultRepository(deps.Store)

	// ── Services ────────────────────────────────────────────────────────────
	c.TranslationService = translationsrv.NewTranslationService(c.Jobs, deps.Translator, c.Results, translationsrv.ServiceConfig{
		Queue:       cfg.Translation.Queue,
		JobType:     cfg.Translation.JobType,
		MaxAttempts: cfg.Jobx.MaxAttempts,
		Limits: translation.Limits{
			MaxTextLength:        cfg.Translation.MaxTextLength,
			RequireDeliveryToken: cfg.Translation.RequireDeliveryToken,
		},
	})

	c.Processor = translationsrv.NewProcessor(deps.Translator, c.Results, deps.Notifier, translationsrv.ProcessorConfig{
		ResultTTL:     cfg.Results.TTL,
		NotifyTimeout: cfg.Notifx.Timeout,
	})
	c.Processor.Register(c.Jobs, cfg.Translation.JobType)

	// ── Handlers ────────────────────────────────────────────────────────────
	c.TranslationHandlers = translationapi.NewTranslationHandlers(c.TranslationService)

	logx.Info("✅ Translation container initialized")
	return c
}
