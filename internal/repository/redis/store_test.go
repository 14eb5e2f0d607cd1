package redis

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"empty", "", true},
		{"wrong-scheme", "http://localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	_, err := New(t.Context(), "redis://localhost:59999", "test:")
	assert.Error(t, err)
}

// TestStore_RoundTrip runs against a real server when TEST_REDIS_URL is set.
func TestStore_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if testing.Short() || url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := t.Context()
	store, err := New(ctx, url, "studystream-test:")
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get(ctx, "missing-key")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetMany(ctx, map[string]string{"correctAnswers": "4", "studyStreak": "2"}))
	v, ok, err := store.Get(ctx, "correctAnswers")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4", v)
}
