package catalog

import (
	"context"
	"strings"

	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/models"
)

// Searcher is the remote full-text search collaborator.
type Searcher interface {
	SearchTopics(ctx context.Context, query string, filter models.SearchFilter) ([]models.TopicSummary, error)
}

// Source reports where a result set came from.
type Source string

const (
	SourceLocal    Source = "local"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Filter narrows the catalog by subject and free-text query.
type Filter struct {
	catalog  *content.Catalog
	searcher Searcher
}

// NewFilter creates a Filter. searcher may be nil, in which case every search
// is answered locally.
func NewFilter(cat *content.Catalog, searcher Searcher) *Filter {
	return &Filter{catalog: cat, searcher: searcher}
}

// Filter applies the subject restriction, then a case-insensitive substring
// match on title or description. Dataset order is preserved.
func (f *Filter) Filter(subject, query string) []models.Topic {
	return f.local(models.SearchFilter{Subject: subject}, query)
}

// Search queries the remote searcher when one is configured and maps its hits
// back to catalog topics. On remote failure it falls back to the local filter.
// A successful remote response with no hits means no matches.
func (f *Filter) Search(ctx context.Context, query string, filter models.SearchFilter) ([]models.Topic, Source) {
	if f.searcher == nil {
		return f.local(filter, query), SourceLocal
	}

	log := logger.FromContext(ctx).WithPrefix("catalog")
	hits, err := f.searcher.SearchTopics(ctx, query, filter)
	if err != nil {
		log.Warn("remote search failed, using local filter: %v", err)
		return f.local(filter, query), SourceFallback
	}

	out := make([]models.Topic, 0, len(hits))
	for _, h := range hits {
		t, ok := f.catalog.TopicByID(h.ID)
		if !ok {
			log.Debug("dropping remote hit for unknown topic %s", h.ID)
			continue
		}
		out = append(out, t)
	}
	return out, SourceRemote
}

func (f *Filter) local(filter models.SearchFilter, query string) []models.Topic {
	q := content.Lower(query)
	var out []models.Topic
	for _, t := range f.catalog.TopicsBySubject(filter.Subject) {
		if filter.Difficulty.Valid() && t.Difficulty != filter.Difficulty {
			continue
		}
		if q != "" &&
			!strings.Contains(content.Lower(t.Title), q) &&
			!strings.Contains(content.Lower(t.Description), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}
