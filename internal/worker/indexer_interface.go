package worker

import (
	"context"

	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/search"
)

// CatalogIndexer pushes the catalog to the remote search index.
type CatalogIndexer interface {
	PushCatalog(ctx context.Context, cat *content.Catalog) (search.IndexReport, error)
}
