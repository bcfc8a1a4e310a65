// Command finanzas-worker consumes monthly report requests from AMQP and
// stores the reports in the SQLite ledger the server writes to.
package main

import (
	"os"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/cli"
	applog "finanzas/internal/log"
	"finanzas/internal/storage"
	"finanzas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required by the report worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	w := worker.NewReportWorker(repo, client)

	logger.Info("Performing startup report check...")
	if err := w.StartupReportCheck(ctx, time.Now()); err != nil {
		logger.Error("Startup report check failed", applog.FieldError, err)
	}

	logger.Info("Starting finanzas-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"sqlite_db", cfg.SQLiteDBPath)
	if err := w.Run(ctx); err != nil {
		logger.Error("Report worker stopped with error", applog.FieldError, err)
	}
	logger.Info("finanzas-worker stopped")
}
