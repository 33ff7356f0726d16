package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-manager-api/core/cache"
	"event-manager-api/core/config"
	"event-manager-api/core/constants"
	"event-manager-api/core/database"
	"event-manager-api/core/logger"
	"event-manager-api/core/mail"
	"event-manager-api/core/metrics"
	"event-manager-api/core/middleware"
	"event-manager-api/core/queue"
	"event-manager-api/core/storage"
	"event-manager-api/core/utils"
	"event-manager-api/modules/auth"
	"event-manager-api/modules/event"
	"event-manager-api/modules/notification"
	"event-manager-api/modules/user"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// Start loads configuration and serves until SIGINT or SIGTERM.
func Start(configFile string) error {
	cfg, err := config.Init(configFile)
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Supervise(ctx, func(ctx context.Context) error {
		return Run(ctx, cfg)
	}, cfg.Server.MaxRestarts, time.Second)
}

// Run builds every dependency, serves HTTP and blocks until ctx is done or
// the listener fails. All resources are released before it returns.
func Run(ctx context.Context, cfg *config.Config) error {
	db, err := database.InitDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer store.Close()

	transport, err := mail.NewTransport(cfg.Mail)
	if err != nil {
		return err
	}

	var uploader storage.Uploader
	if cfg.Storage.Enabled() {
		uploader = storage.NewS3Uploader(cfg.Storage)
	}

	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	hasher := utils.NewPasswordHasher(cfg.Security.BcryptCost)
	mw := middleware.NewMiddleware(tokens, store)

	e := NewEcho(cfg.Server.CORSAllowedOrigins)
	e.GET("/health", HealthHandler(map[string]Pinger{"database": db, "cache": store}))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")
	users := user.Init(api, db, mw, hasher, uploader)
	auth.Init(api, users, tokens, store, mw, middleware.RateLimit(cfg.Server.AuthRateLimit))
	_, dispatcher := notification.Init(api, db, mw, users, transport, cfg.Notification)
	event.Init(api, db, mw, dispatcher)

	if cfg.Notification.Driver == "asynq" {
		opt := queue.RedisOpt(cfg.Redis)

		client := queue.NewClient(opt, constants.QueueNotifications)
		defer client.Close()
		dispatcher.UseQueue(client)

		worker := queue.NewWorker(opt, constants.QueueNotifications, cfg.Notification.Concurrency)
		worker.Handle(constants.TaskTypeEventInvite, dispatcher.HandleInviteTask)
		if err := worker.Start(); err != nil {
			return fmt.Errorf("start notification worker: %w", err)
		}
		defer worker.Shutdown()
		logger.Info("Server:Run:WorkerStarted", "queue", constants.QueueNotifications)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Server:Run:Listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Server:Run:ShuttingDown")

		timeout := cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server:Run:Shutdown", "error", err)
		}
		if err := dispatcher.Wait(shutdownCtx); err != nil {
			logger.Warn("Server:Run:DrainNotifications", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server:Run:Stopped")
	return nil
}

// NewEcho returns an echo instance with the shared middleware chain.
// corsOrigins is passed to middleware.CORS.
func NewEcho(corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(middleware.CORS(corsOrigins))

	return e
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports 200 when every dependency answers a ping, 503 otherwise.
func HealthHandler(checks map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				logger.Warn("Server:Health", "dependency", name, "error", err)
				results[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}

		body := map[string]any{"status": "ok", "checks": results}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		return c.JSON(status, body)
	}
}
