package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/studystream/internal/models"
)

// MockSearcher is a mock implementation of catalog.Searcher
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchTopics(ctx context.Context, query string, filter models.SearchFilter) ([]models.TopicSummary, error) {
	args := m.Called(ctx, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TopicSummary), args.Error(1)
}
