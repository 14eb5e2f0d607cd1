package worker

import (
	"context"

	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/logger"
)

// ReindexJob replaces the remote search records with the current catalog.
type ReindexJob struct {
	Indexer CatalogIndexer
	Catalog *content.Catalog
}

func (j *ReindexJob) Name() string { return "reindex" }

func (j *ReindexJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("topics", j.Catalog.Len())
	log.Info("starting reindex")

	report, err := j.Indexer.PushCatalog(ctx, j.Catalog)
	if err != nil {
		log.Error("reindex failed: %v", err)
		return err
	}
	log.Info("reindexed %d topics and %d questions", report.Topics, report.Questions)
	return nil
}
