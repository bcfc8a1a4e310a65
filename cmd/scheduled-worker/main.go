// Command scheduled-worker books due scheduled actions on a fixed interval.
package main

import (
	"finanzas/internal/cli"
	applog "finanzas/internal/log"
	"finanzas/internal/services"
	"finanzas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentScheduler)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	res := cli.CreateBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	if cfg.DataBackend == "memory" {
		logger.Warn("The memory backend is private to this process; bookings will not reach the server")
	}

	executor := services.NewScheduledExecutor(res.Backend, res.Ledger)

	logger.Info("Starting scheduled-worker",
		"interval", cfg.SchedulerInterval,
		"backend", cfg.DataBackend)
	if err := worker.NewScheduler(executor, cfg.SchedulerInterval).Run(ctx); err != nil {
		logger.Error("Scheduler stopped with error", applog.FieldError, err)
	}
	logger.Info("scheduled-worker stopped")
}
