package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/app"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/auth"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/billing"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/concession"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/feestructure"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/payments"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/reports"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/roster"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
	"github.com/vidyakosh-erp/vidyakosh-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})

	audit := shared.NewAuditLogger(pool)

	tokens := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authService := auth.NewService(auth.NewRepository(pool), tokens)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.Middleware{Tokens: tokens, Logger: logger}

	rosterRepo := roster.NewRepository(pool)

	structureService := feestructure.NewService(feestructure.NewRepository(pool))
	structureHandler := feestructure.NewHandler(logger, structureService, authMiddleware)

	concessionService := concession.NewService(concession.NewRepository(pool))
	concessionHandler := concession.NewHandler(logger, concessionService, authMiddleware)

	notifier := jobs.ChargeNotifier{Client: jobClient}
	generator := billing.NewGenerator(logger, rosterRepo, structureService, concessionService,
		billing.NewRepository(pool), notifier, audit, cfg.FeeDueDay)
	billingHandler := billing.NewHandler(logger, generator, authMiddleware)

	paymentService := payments.NewService(logger, payments.PoolRunner(pool), payments.NewRepository(pool), audit)
	paymentHandler := payments.NewHandler(logger, paymentService, authMiddleware)

	reportService := reports.NewService(logger, reports.NewRepository(pool), redisClient, cfg.ReportCacheTTL)
	reportHandler := reports.NewHandler(logger, reportService, authMiddleware)

	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		StructureHandler:  structureHandler,
		ConcessionHandler: concessionHandler,
		BillingHandler:    billingHandler,
		PaymentHandler:    paymentHandler,
		ReportHandler:     reportHandler,
		JobHandler:        jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
