// cmd/container.go
//
// Root composition root. Owns infrastructure (Redis, optional Postgres, AWS)
// and composes the translation container. This is the only place that knows
// which concrete backends and providers are in use.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rohit9625/natively-backend/pkg/config"
	"github.com/rohit9625/natively-backend/pkg/jobx/jobxredis"
	"github.com/rohit9625/natively-backend/pkg/logx"
	"github.com/rohit9625/natively-backend/pkg/notifx"
	"github.com/rohit9625/natively-backend/pkg/notifx/notifxconsole"
	"github.com/rohit9625/natively-backend/pkg/notifx/notifxses"
	"github.com/rohit9625/natively-backend/pkg/storex"
	"github.com/rohit9625/natively-backend/pkg/storex/storexmemory"
	"github.com/rohit9625/natively-backend/pkg/storex/storexpostgres"
	"github.com/rohit9625/natively-backend/pkg/storex/storexredis"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/rohit9625/natively-backend/pkg/translatex/translatexanthropic"
	"github.com/rohit9625/natively-backend/pkg/translatex/translatexazure"
	"github.com/rohit9625/natively-backend/pkg/translatex/translatexbedrock"
	"github.com/rohit9625/natively-backend/pkg/translatex/translatexgemini"
	"github.com/rohit9625/natively-backend/pkg/translatex/translatexopenai"
	"github.com/rohit9625/natively-backend/pkg/translation"
	"github.com/rohit9625/natively-backend/pkg/translation/translationcontainer"
	"github.com/rohit9625/natively-backend/pkg/translation/translationinfra"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	// Infrastructure (shared across all modules)
	Redis *redis.Client
	DB    *sqlx.DB
	Store storex.Store

	// Bounded-context containers
	Translation *translationcontainer.Container

	cron *cron.Cron
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure: Redis, result store
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Redis (queue, default result store)
	opts, err := redisOptions(c.Config.Redis)
	if err != nil {
		logx.Fatalf("Invalid Redis configuration: %v", err)
	}
	c.Redis = redis.NewClient(opts)
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required)", err)
	}
	logx.Info("  ✅ Redis connected")

	// 2. Result store
	c.initResultStore()

	logx.Info("✅ Infrastructure initialized")
}

func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if cfg.TLS && opts.TLSConfig == nil {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts, nil
}

func (c *Container) initResultStore() {
	switch c.Config.Results.Store {
	case "redis":
		c.Store = storexredis.NewRedisStore(c.Redis)
		logx.Info("  ✅ Result store: redis")

	case "postgres":
		db, err := sqlx.Connect("postgres", c.Config.Database.URL)
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
		db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
		db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
		c.DB = db

		store := storexpostgres.NewPostgresStore(db, storexpostgres.DefaultTable)
		if err := store.Migrate(context.Background()); err != nil {
			logx.Fatalf("Failed to prepare result table: %v", err)
		}
		c.Store = store
		logx.Info("  ✅ Result store: postgres")

	case "memory":
		c.Store = storexmemory.New(nil)
		logx.Warn("  ⚠️ Result store: memory (results are lost on restart and not shared between processes)")
	}
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	translator, err := newTranslator(context.Background(), c.Config.Translator)
	if err != nil {
		logx.Fatalf("Failed to initialize translation provider: %v", err)
	}

	notifier, err := newNotifier(context.Background(), c.Config.Notifx)
	if err != nil {
		logx.Fatalf("Failed to initialize notifier: %v", err)
	}

	queue := jobxredis.NewRedisQueue(c.Redis,
		jobxredis.WithLeaseTimeout(c.Config.Jobx.LeaseTimeout),
		jobxredis.WithDeadLetterMaxLen(c.Config.Jobx.DeadLetterMaxLen),
	)

	c.Translation = translationcontainer.New(translationcontainer.Deps{
		Cfg:        c.Config,
		Queue:      queue,
		Store:      c.Store,
		Translator: translator,
		Notifier:   notifier,
	})
}

func newTranslator(ctx context.Context, cfg config.TranslatorConfig) (*translatex.Client, error) {
	var provider translatex.Provider

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		var opts []translatexopenai.ProviderOption
		if cfg.Model != "" {
			opts = append(opts, translatexopenai.WithModel(cfg.Model))
		}
		provider = translatexopenai.NewOpenAIProvider(cfg.OpenAIAPIKey, opts...)

	case "azure":
		deployment := cfg.Model
		if deployment == "" {
			deployment = translatexopenai.DefaultModel
		}
		opts := []translatexazure.ProviderOption{translatexazure.WithAPIVersion(cfg.AzureAPIVersion)}
		if cfg.AzureUseAD {
			cred, err := azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				return nil, fmt.Errorf("azure credential: %w", err)
			}
			opts = append(opts, translatexazure.WithAzureADCredential(cred))
		}
		provider = translatexazure.NewAzureOpenAIProvider(cfg.AzureEndpoint, cfg.AzureAPIKey, deployment, opts...)

	case "anthropic":
		var opts []translatexanthropic.ProviderOption
		if cfg.Model != "" {
			opts = append(opts, translatexanthropic.WithModel(cfg.Model))
		}
		provider = translatexanthropic.NewAnthropicProvider(cfg.AnthropicAPIKey, opts...)

	case "gemini":
		var opts []translatexgemini.ProviderOption
		if cfg.GeminiProject != "" {
			opts = append(opts, translatexgemini.WithVertexAI(cfg.GeminiProject, cfg.GeminiLocation))
		}
		if cfg.Model != "" {
			opts = append(opts, translatexgemini.WithModel(cfg.Model))
		}
		p, err := translatexgemini.NewGeminiProvider(ctx, cfg.GeminiAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		provider = p

	case "bedrock":
		awsCfg, err := loadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		var opts []translatexbedrock.ProviderOption
		if cfg.Model != "" {
			opts = append(opts, translatexbedrock.WithDefaultModel(cfg.Model))
		}
		provider = translatexbedrock.NewBedrockProvider(awsCfg, opts...)

	default:
		return nil, translatex.UnknownProvider(cfg.Provider)
	}

	logx.Infof("  ✅ Translation provider: %s (timeout %s)", provider.Name(), cfg.Timeout)
	return translatex.NewClient(provider, cfg.Timeout), nil
}

func newNotifier(ctx context.Context, cfg config.NotifxConfig) (translation.Notifier, error) {
	var sender notifx.Sender

	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		logx.Info("  ⏭️ Notifications disabled")
		return nil, nil
	case "console":
		sender = notifxconsole.NewConsoleProvider()
	case "ses":
		awsCfg, err := loadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		sender = notifxses.NewSESProvider(ses.NewFromConfig(awsCfg), cfg.FromAddress)
	default:
		return nil, fmt.Errorf("unknown NOTIFX_PROVIDER %q (use console, ses or none)", cfg.Provider)
	}

	n, err := translationinfra.NewNotifxNotifier(notifx.NewClient(sender))
	if err != nil {
		return nil, err
	}
	logx.Infof("  ✅ Notifications: %s", cfg.Provider)
	return n, nil
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// StartBackgroundServices schedules store maintenance for backends that do
// not expire entries on their own.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")

	purger, ok := c.Store.(storex.Purger)
	if !ok || c.Config.Results.PurgeInterval <= 0 {
		return
	}

	c.cron = cron.New()
	spec := fmt.Sprintf("@every %s", c.Config.Results.PurgeInterval)
	if _, err := c.cron.AddFunc(spec, func() {
		n, err := purger.Purge(ctx)
		if err != nil {
			logx.WithError(err).Warn("result purge failed")
			return
		}
		if n > 0 {
			logx.Infof("🧹 Purged %d expired results", n)
		}
	}); err != nil {
		logx.Errorf("Failed to schedule result purge: %v", err)
		return
	}
	c.cron.Start()
	logx.Infof("  ✅ Result purge scheduled (%s)", spec)
}

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.cron != nil {
		<-c.cron.Stop().Done()
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
