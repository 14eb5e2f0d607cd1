package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "progress.json"))

	v, ok, err := s.Get(context.Background(), "studyProgress")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_SetManyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")
	ctx := context.Background()

	require.NoError(t, NewStore(path).SetMany(ctx, map[string]string{
		"correctAnswers": "7",
		"studyStreak":    "3",
	}))
	require.NoError(t, NewStore(path).Set(ctx, "correctAnswers", "8"))

	reopened := NewStore(path)
	v, ok, err := reopened.Get(ctx, "correctAnswers")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "8", v)

	v, _, err = reopened.Get(ctx, "studyStreak")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := NewStore(path).Get(context.Background(), "studyProgress")
	assert.Error(t, err)
}

func TestStore_SetManyReplacesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	ctx := context.Background()

	s := NewStore(path)
	require.NoError(t, s.SetMany(ctx, map[string]string{"studyProgress": `{"js-arrays":100}`}))

	v, ok, err := NewStore(path).Get(ctx, "studyProgress")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"js-arrays":100}`, v)

	kept, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(kept))
}
