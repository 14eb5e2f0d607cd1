package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/db"
	"github.com/vytor/studystream/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// DefaultCatalog loads the embedded dataset.
func DefaultCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	cat, err := content.LoadDefault()
	require.NoError(t, err)
	return cat
}

// SmallCatalog builds a catalog with three topics: "alpha" (two sections,
// questions with correct options 1 and 0), "beta" (one section, no questions)
// and "gamma" (no sections, one question with correct option 2).
func SmallCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	opts := []string{"w", "x", "y", "z"}
	cat, err := content.NewCatalog([]models.Topic{
		{
			ID: "alpha", Title: "Alpha Arrays", Description: "Arrays and loops", Subject: "Go",
			Difficulty: models.Beginner,
			Sections: []models.Section{
				{ID: "s1", Title: "One", Body: "first", KeyTerms: []string{"slice"}},
				{ID: "s2", Title: "Two", Body: "second"},
			},
			PracticeQuestions: []models.PracticeQuestion{
				{ID: "q1", Prompt: "p1", Options: opts, CorrectOption: 1, Difficulty: models.Beginner},
				{ID: "q2", Prompt: "p2", Options: opts, CorrectOption: 0, Difficulty: models.Intermediate},
			},
		},
		{
			ID: "beta", Title: "Beta Maps", Description: "Hash maps", Subject: "Go",
			Difficulty: models.Intermediate,
			Sections:   []models.Section{{ID: "s1", Title: "Only", Body: "only"}},
		},
		{
			ID: "gamma", Title: "Gamma Closures", Description: "Functions as values", Subject: "Rust",
			Difficulty: models.Advanced,
			PracticeQuestions: []models.PracticeQuestion{
				{ID: "q1", Prompt: "p", Options: opts, CorrectOption: 2, Difficulty: models.Advanced},
			},
		},
	})
	require.NoError(t, err)
	return cat
}
