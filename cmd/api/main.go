// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/angelamos/trailhead/internal/auth"
	"github.com/angelamos/trailhead/internal/config"
	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/health"
	"github.com/angelamos/trailhead/internal/mail"
	"github.com/angelamos/trailhead/internal/middleware"
	"github.com/angelamos/trailhead/internal/review"
	"github.com/angelamos/trailhead/internal/server"
	"github.com/angelamos/trailhead/internal/tour"
	"github.com/angelamos/trailhead/internal/user"
)

const drainDelay = 5 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("gen-keys", false, "generate a JWT signing key pair and exit")
	flag.Parse()

	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load() //nolint:errcheck // missing .env is fine

	if err := run(*configPath, *genKeys); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, genKeys bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if genKeys {
		return auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	core.SetVerboseErrors(cfg.IsDevelopment())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	validate := validator.New(validator.WithRequiredStructEnabled())

	var mailer auth.Mailer
	if cfg.Mail.Host != "" {
		smtpMailer, mailErr := mail.NewSMTPMailer(cfg.Mail)
		if mailErr != nil {
			return mailErr
		}
		mailer = smtpMailer
	} else {
		mailer = mail.NewLogMailer(logger)
		logger.Warn("no SMTP host configured, mail goes to the log")
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc, validate)

	authSvc := auth.NewService(userSvc, jwtManager, mailer, cfg.App.BaseURL, logger)
	authHandler := auth.NewHandler(
		authSvc,
		validate,
		cfg.JWT.CookieName,
		cfg.JWT.AccessTokenExpire,
		cfg.IsProduction(),
	)

	tourRepo := tour.NewRepository(db.DB)
	tourSvc := tour.NewService(tourRepo)

	reviewRepo := review.NewRepository(db.DB)
	reviewSvc := review.NewService(reviewRepo, tourRepo, logger)
	reviewHandler := review.NewHandler(reviewSvc, validate)

	tourHandler := tour.NewHandler(tourSvc, reviewSvc, validate)

	healthHandler := health.NewHandler(db, redis)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.MaxBody(cfg.Server.MaxBodyBytes))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	protect := middleware.Protect(jwtManager, userSvc)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			authHandler.RegisterPublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(protect)
				authHandler.RegisterProtectedRoutes(r)
				userHandler.RegisterSelfRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Use(middleware.RequireRole(user.RoleAdmin))
				userHandler.RegisterAdminRoutes(r)
			})
		})

		r.Route("/tours", func(r chi.Router) {
			tourHandler.RegisterPublicRoutes(r)
			reviewHandler.RegisterTourRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Use(middleware.RequireRole(
					user.RoleAdmin, user.RoleLeadGuide, user.RoleGuide,
				))
				tourHandler.RegisterPlanRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleLeadGuide))
				tourHandler.RegisterManageRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Use(middleware.RequireRole(user.RoleUser))
				reviewHandler.RegisterTourWriteRoutes(r)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			reviewHandler.RegisterPublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(protect)
				reviewHandler.RegisterProtectedRoutes(r)
			})
		})
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
