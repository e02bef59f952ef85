package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/app"
	"github.com/vidyakosh-erp/vidyakosh-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	sender := jobs.NewSMSSender(cfg.SMSGatewayURL, cfg.SMSSenderID, logger)

	notifyJob := jobs.NewFeeNotifyJob(logger, sender)
	reminderJob := jobs.NewFeeReminderJob(pool, logger, sender, jobs.ReminderConfig{
		DaysBefore:     cfg.ReminderDaysBefore,
		OverdueDays:    jobs.ParseOverdueDays(cfg.ReminderOverdueDays),
		MaxPerCharge:   cfg.ReminderMaxPerCharge,
		ThrottleWindow: cfg.ReminderThrottleWindow,
	})

	sweepTask, err := jobs.NewReminderSweepTask(jobs.ReminderSweepPayload{})
	if err != nil {
		logger.Error("build reminder sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskFeeChargeNotify, Handler: notifyJob.Handle},
			{Type: jobs.TaskFeeReminderSweep, Handler: reminderJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			// Morning sweep, after the school office opens.
			{Spec: "30 3 * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
