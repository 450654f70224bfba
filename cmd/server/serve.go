package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vytor/flashdeck/internal/activity"
	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/worker"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Info("===========================================")
	log.Info("Flashdeck Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("review_refresh_seconds=%d", cfg.ReviewRefreshSeconds)
	log.Debug("history_worker_count=%d", cfg.HistoryWorkerCount)
	log.Debug("history_queue_size=%d", cfg.HistoryQueueSize)
	log.Debug("request_timeout_seconds=%d", cfg.RequestTimeoutSeconds)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return err
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	learnerRepo := sqlite.NewLearnerRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	activityRepo := sqlite.NewActivityRepository(database.DB)
	historyRepo := sqlite.NewReviewHistoryRepository(database.DB)

	historyPool := worker.NewPool(cfg.HistoryWorkerCount, cfg.HistoryQueueSize)
	queue := jobs.NewWorkerQueue(historyPool, historyRepo)

	srv := &api.Server{
		DB:             database,
		LearnerService: services.NewLearnerService(learnerRepo),
		DeckService:    services.NewDeckService(deckRepo, learnerRepo),
		CardService:    services.NewCardService(cardRepo, deckRepo, historyRepo),
		ReviewService: services.NewReviewService(cardRepo, learnerRepo, activity.NewRecorder(activityRepo), queue,
			services.WithReviewRefreshWindow(cfg.ReviewRefreshWindow()),
		),
		StatsService:   services.NewStatsService(learnerRepo, deckRepo, cardRepo, activityRepo),
		RequestTimeout: cfg.RequestTimeout(),
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The pool outlives the signal so queued history rows are written before exit.
	historyPool.Start(context.WithoutCancel(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error: %v", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Debug("shutting down HTTP server")
		err := httpServer.Shutdown(shutdownCtx)
		if err != nil {
			log.Error("HTTP server shutdown error: %v", err)
		}

		log.Debug("stopping history pool")
		historyPool.Stop()
		return err
	})

	err = g.Wait()
	log.Info("===========================================")
	log.Info("Flashdeck Server Stopped")
	log.Info("===========================================")
	return err
}
