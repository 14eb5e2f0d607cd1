package jobs

import (
	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	indexPool *worker.Pool
	indexer   worker.CatalogIndexer
	catalog   *content.Catalog
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(indexPool *worker.Pool, indexer worker.CatalogIndexer, cat *content.Catalog) JobQueue {
	return &WorkerQueue{
		indexPool: indexPool,
		indexer:   indexer,
		catalog:   cat,
	}
}

func (q *WorkerQueue) EnqueueReindex() error {
	err := q.indexPool.Submit(&worker.ReindexJob{
		Indexer: q.indexer,
		Catalog: q.catalog,
	})
	if err != nil {
		return errors.NewQueueFullError("reindex", err)
	}
	return nil
}
