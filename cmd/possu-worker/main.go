package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"possu/internal/amqp"
	"possu/internal/cli"
	"possu/internal/log"
	gsheet "possu/internal/sheets/google"
	"possu/internal/storage"
	"possu/internal/worker"
)

const categoryRefreshInterval = 24 * time.Hour

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker, os.Stdout)
	logger.Info("Starting possu-worker")
	cfg := cli.MustLoadConfig(logger)

	if !cfg.SheetsEnabled() {
		logger.Error("Nothing to sync: GOOGLE_SPREADSHEET_ID is not set", log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	sheetsClient, err := gsheet.New(ctx, gsheet.OptionsFromConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, sheetsClient, cfg.SyncBatchSize, logger)

	if err := syncWorker.SyncCategories(ctx); err != nil {
		logger.Error("Failed to sync categories", log.FieldError, err)
	}
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		g.Go(func() error {
			return amqpClient.ConsumeEntrySync(gctx, syncWorker.HandleEntrySync)
		})
	} else {
		logger.Info("AMQP_URL not set, relying on the periodic sync only")
	}

	g.Go(func() error {
		return syncWorker.RunBackstop(gctx, cfg.SyncInterval)
	})

	g.Go(func() error {
		ticker := time.NewTicker(categoryRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := syncWorker.SyncCategories(gctx); err != nil && gctx.Err() == nil {
					logger.Error("Periodic category refresh failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
