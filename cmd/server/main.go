package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/studystream/internal/api"
	"github.com/vytor/studystream/internal/catalog"
	"github.com/vytor/studystream/internal/config"
	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/jobs"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/navigation"
	"github.com/vytor/studystream/internal/progress"
	"github.com/vytor/studystream/internal/search"
	"github.com/vytor/studystream/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyStream Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("store_driver=%s", cfg.StoreDriver)
	log.Debug("content_path=%q", cfg.ContentPath)
	log.Debug("log_level=%s log_format=%s", cfg.LogLevel, cfg.LogFormat)
	log.Debug("search_enabled=%t", cfg.SearchEnabled())
	log.Debug("index_worker_count=%d index_queue_size=%d", cfg.IndexWorkerCount, cfg.IndexQueueSize)

	// Load content
	cat, err := content.Load(cfg.ContentPath)
	if err != nil {
		log.Error("failed to load content: %v", err)
		os.Exit(1)
	}
	log.Info("loaded %d topics in %d subjects", cat.Len(), len(cat.AllSubjects()))

	// Open progress store
	storeCtx, storeCancel := context.WithTimeout(context.Background(), cfg.StoreTimeout())
	kv, err := openStore(storeCtx, cfg)
	if err != nil {
		storeCancel()
		log.Error("failed to open %s progress store: %v", cfg.StoreDriver, err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing progress store")
		if err := kv.Close(); err != nil {
			log.Warn("failed to close progress store: %v", err)
		}
	}()
	store := progress.Load(storeCtx, kv, progress.WithTimeout(cfg.StoreTimeout()))
	storeCancel()
	log.Info("progress loaded: %d topics completed, %d correct answers",
		store.CompletedTopicCount(progress.CompletionThreshold), store.TotalCorrectAnswers())

	srv := &api.Server{
		Catalog:  cat,
		Progress: store,
	}

	// Remote search is optional; without it every search is answered locally.
	var searcher catalog.Searcher
	indexPool := worker.NewPool(cfg.IndexWorkerCount, cfg.IndexQueueSize)
	if cfg.SearchEnabled() {
		client, err := search.New(cfg.SearchAppID, cfg.SearchAPIKey,
			search.WithAdminKey(cfg.SearchAdminKey),
			search.WithIndexNames(cfg.SearchTopicsIndex, cfg.SearchQuestionsIndex),
			search.WithTimeout(cfg.SearchTimeout()),
		)
		if err != nil {
			log.Error("failed to create search client: %v", err)
			os.Exit(1)
		}
		searcher = client
		srv.Recommender = client
		if cfg.SearchAdminKey != "" {
			srv.JobQueue = jobs.NewWorkerQueue(indexPool, client, cat)
		}
		log.Info("remote search enabled (topics=%s, questions=%s)", cfg.SearchTopicsIndex, cfg.SearchQuestionsIndex)
	} else {
		log.Info("remote search disabled, using local catalog filter")
	}

	srv.Filter = catalog.NewFilter(cat, searcher)
	srv.Controller = navigation.New(cat, srv.Filter, store)

	ctx, cancel := context.WithCancel(context.Background())
	indexPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("saving progress")
	if err := store.Save(shutdownCtx); err != nil {
		log.Warn("final progress save failed: %v", err)
	}

	log.Debug("stopping index pool")
	cancel()
	indexPool.Stop()

	log.Info("===========================================")
	log.Info("StudyStream Server Stopped")
	log.Info("===========================================")
}
