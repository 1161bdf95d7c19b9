package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rohit9625/natively-backend/pkg/asyncx"
	"github.com/rohit9625/natively-backend/pkg/config"
	"github.com/rohit9625/natively-backend/pkg/jobx"
	"github.com/rohit9625/natively-backend/pkg/logx"
	"github.com/rohit9625/natively-backend/pkg/translation/translationapi"
	"golang.org/x/sync/errgroup"
)

const (
	modeAPI    = "api"
	modeWorker = "worker"
	modeAll    = "all"
)

func main() {
	// 1. Load Configuration (.env included)
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Initialize Logger from the loaded environment
	logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))

	mode := processMode()
	logx.Infof("🚀 Starting Natively translation service (mode: %s)...", mode)

	// 3. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Run the selected roles until a signal arrives
	g, ctx := errgroup.WithContext(ctx)

	if mode == modeAPI || mode == modeAll {
		app := newApp(container)
		g.Go(func() error { return serveAPI(ctx, app, cfg.Server) })
	}

	if mode == modeWorker || mode == modeAll {
		container.StartBackgroundServices(ctx)
		g.Go(func() error { return runWorkers(ctx, container) })
	}

	if err := g.Wait(); err != nil {
		logx.Errorf("Shutdown with error: %v", err)
		return
	}
	logx.Info("✅ Exited successfully")
}

// processMode reads the role from the first argument or APP_MODE.
func processMode() string {
	mode := getEnv("APP_MODE", modeAll)
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode = strings.ToLower(mode); mode {
	case modeAPI, modeWorker, modeAll:
		return mode
	default:
		logx.Fatalf("Unknown mode %q (use api, worker or all)", mode)
		return ""
	}
}

// ============================================================================
// API
// ============================================================================

func newApp(container *Container) *fiber.App {
	cfg := container.Config.Server

	app := fiber.New(fiber.Config{
		AppName:               "Natively Translation API",
		DisableStartupMessage: true,
		ErrorHandler:          translationapi.ErrorHandler,
		BodyLimit:             cfg.BodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	// Global Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.Debug,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	// Health Check
	app.Get("/health", healthCheckHandler(container))

	// ========================================================================
	// Translation Routes
	// ========================================================================
	// /api/v1/translate, /api/v1/translation/*, /api/v1/jobs/dead
	container.Translation.TranslationHandlers.RegisterRoutes(app)
	logx.Info("✓ Translation routes registered")

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	printRouteSummary()
	return app
}

func serveAPI(ctx context.Context, app *fiber.App, cfg config.ServerConfig) error {
	errCh := make(chan error, 1)
	go func() {
		logx.Info("=" + strings.Repeat("=", 60))
		logx.Infof("🚀 Server listening on port %s", cfg.Port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", cfg.Port)
		logx.Info("=" + strings.Repeat("=", 60))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info("🛑 Shutting down HTTP server...")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
		return err
	}
	return nil
}

// ============================================================================
// Worker
// ============================================================================

func runWorkers(ctx context.Context, container *Container) error {
	err := container.Translation.Jobs.Start(ctx)
	if errors.Is(err, jobx.ErrShutdownTimeout) {
		// Leases of unfinished jobs expire and the jobs are picked up again.
		logx.Warn("⚠️ Workers did not drain in time")
		return nil
	}
	return err
}

// ============================================================================
// Handler Functions
// ============================================================================

// healthCheckHandler checks every dependency concurrently.
func healthCheckHandler(container *Container) fiber.Handler {
	const checkTimeout = 2 * time.Second

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		checks := []func(context.Context) (any, error){
			asyncx.Bounded(checkTimeout, func(ctx context.Context) (any, error) {
				return container.Redis.Ping(ctx).Result()
			}),
			asyncx.Bounded(checkTimeout, func(ctx context.Context) (any, error) {
				return container.Translation.Jobs.Stats(ctx)
			}),
		}
		names := []string{"redis", "queues"}
		if container.DB != nil {
			checks = append(checks, asyncx.Bounded(checkTimeout, func(ctx context.Context) (any, error) {
				return "PONG", container.DB.PingContext(ctx)
			}))
			names = append(names, "db")
		}

		health := fiber.Map{
			"status":  "healthy",
			"service": "natively-translation",
			"version": getEnv("APP_VERSION", "1.0.0"),
		}

		for i, r := range asyncx.AllSettled(ctx, checks...) {
			name := names[i]
			if !r.OK() {
				health[name] = "unhealthy"
				health[name+"_error"] = r.Err.Error()
				health["status"] = "degraded"
				continue
			}
			if name == "queues" {
				health[name] = r.Value
				continue
			}
			health[name] = "healthy"
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

// ============================================================================
// Utility Functions
// ============================================================================

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// printRouteSummary prints a summary of registered routes
func printRouteSummary() {
	logx.Info("📋 Route Summary:")
	logx.Info("   ├─ Translate: POST /api/v1/translate")
	logx.Info("   ├─ Jobs: POST /api/v1/translation/trigger, GET /api/v1/translation/:jobId")
	logx.Info("   ├─ Dead letters: GET /api/v1/jobs/dead")
	logx.Info("   └─ Health: /health")
}
