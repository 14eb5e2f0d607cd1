// Command indexer pushes the topic dataset to the remote search indexes.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/studystream/internal/config"
	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/search"
)

func main() {
	cfg := config.Load()
	contentPath := flag.String("content", cfg.ContentPath, "dataset file (empty for the embedded dataset)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	dryRun := flag.Bool("dry-run", false, "validate the dataset and report record counts without pushing")
	flag.Parse()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithPrefix("indexer"),
	)
	logger.SetDefault(log)

	cat, err := content.Load(*contentPath)
	if err != nil {
		log.Error("failed to load content: %v", err)
		os.Exit(1)
	}
	topics := search.BuildTopicRecords(cat)
	questions := search.BuildQuestionRecords(cat)
	log.Info("dataset valid: %d topic records, %d question records", len(topics), len(questions))
	if *dryRun {
		return
	}

	if cfg.SearchAppID == "" || cfg.SearchAdminKey == "" {
		log.Error("SEARCH_APP_ID and SEARCH_ADMIN_KEY are required")
		os.Exit(1)
	}
	searchKey := cfg.SearchAPIKey
	if searchKey == "" {
		searchKey = cfg.SearchAdminKey
	}
	client, err := search.New(cfg.SearchAppID, searchKey,
		search.WithAdminKey(cfg.SearchAdminKey),
		search.WithIndexNames(cfg.SearchTopicsIndex, cfg.SearchQuestionsIndex),
		search.WithTimeout(cfg.SearchTimeout()),
	)
	if err != nil {
		log.Error("failed to create search client: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	ctx = logger.NewContext(ctx, log)

	start := time.Now()
	report, err := client.PushCatalog(ctx, cat)
	if err != nil {
		log.Error("indexing failed: %v", err)
		os.Exit(1)
	}
	log.Info("indexed %d topics and %d questions in %v", report.Topics, report.Questions, time.Since(start))
}
