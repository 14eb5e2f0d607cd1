package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/logger"
)

// IndexSettings is the subset of index settings the indexer manages.
type IndexSettings struct {
	SearchableAttributes  []string `json:"searchableAttributes"`
	AttributesForFaceting []string `json:"attributesForFaceting"`
	CustomRanking         []string `json:"customRanking,omitempty"`
}

var topicSettings = IndexSettings{
	SearchableAttributes:  []string{"title", "description", "subject", "keyTerms", "learningOutcomes"},
	AttributesForFaceting: []string{"filterOnly(subject)", "filterOnly(difficulty)"},
	CustomRanking:         []string{"asc(difficultyRank)"},
}

var questionSettings = IndexSettings{
	SearchableAttributes:  []string{"question", "explanation", "topicTitle"},
	AttributesForFaceting: []string{"filterOnly(topicId)", "filterOnly(difficulty)", "filterOnly(subject)"},
}

// IndexReport summarises one push.
type IndexReport struct {
	Topics    int `json:"topics"`
	Questions int `json:"questions"`
}

type batchOperation struct {
	Action string `json:"action"`
	Body   any    `json:"body"`
}

type batchRequest struct {
	Requests []batchOperation `json:"requests"`
}

// PushCatalog configures both indexes and uploads every topic and question.
// The two indexes are written concurrently; the first failure cancels the other.
func (c *Client) PushCatalog(ctx context.Context, cat *content.Catalog) (IndexReport, error) {
	if c.adminKey == "" {
		return IndexReport{}, fmt.Errorf("search admin key is required for indexing")
	}
	log := logger.FromContext(ctx).WithPrefix("indexer")

	topics := BuildTopicRecords(cat)
	questions := BuildQuestionRecords(cat)
	log.Info("pushing %d topics to %s and %d questions to %s",
		len(topics), c.topicsIndex, len(questions), c.questionsIndex)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.pushIndex(gctx, c.topicsIndex, topicSettings, toAny(topics))
	})
	g.Go(func() error {
		return c.pushIndex(gctx, c.questionsIndex, questionSettings, toAny(questions))
	})
	if err := g.Wait(); err != nil {
		log.Error("index push failed: %v", err)
		return IndexReport{}, err
	}

	log.Info("index push complete")
	return IndexReport{Topics: len(topics), Questions: len(questions)}, nil
}

func (c *Client) pushIndex(ctx context.Context, index string, settings IndexSettings, records []any) error {
	base := "/indexes/" + url.PathEscape(index)
	if err := c.do(ctx, http.MethodPut, c.writeURL, base+"/settings", c.adminKey, settings, nil); err != nil {
		return fmt.Errorf("configuring %s: %w", index, err)
	}
	if len(records) == 0 {
		return nil
	}

	req := batchRequest{Requests: make([]batchOperation, 0, len(records))}
	for _, r := range records {
		req.Requests = append(req.Requests, batchOperation{Action: "updateObject", Body: r})
	}
	if err := c.do(ctx, http.MethodPost, c.writeURL, base+"/batch", c.adminKey, req, nil); err != nil {
		return fmt.Errorf("uploading %s: %w", index, err)
	}
	return nil
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
