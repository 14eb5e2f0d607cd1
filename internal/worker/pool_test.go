package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/search"
	"github.com/vytor/studystream/internal/testutil"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := NewPool(2, 4)
	p.Start(context.Background())

	var ran int32
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Submit(funcJob{name: "count", fn: func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			done <- struct{}{}
			return nil
		}}))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	p.Stop()

	assert.Equal(t, int32(3), atomic.LoadInt32(&ran))
}

func TestPool_SurvivesPanickingJob(t *testing.T) {
	p := NewPool(1, 2)
	p.Start(context.Background())
	defer p.Stop()

	done := make(chan struct{})
	require.NoError(t, p.Submit(funcJob{name: "panic", fn: func(context.Context) error { panic("boom") }}))
	require.NoError(t, p.Submit(funcJob{name: "after", fn: func(context.Context) error {
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive panic")
	}
}

func TestPool_SubmitRejectsWhenFull(t *testing.T) {
	p := NewPool(1, 1)
	noop := funcJob{name: "noop", fn: func(context.Context) error { return nil }}

	require.NoError(t, p.Submit(noop))
	assert.ErrorIs(t, p.Submit(noop), ErrQueueFull)
	assert.Equal(t, 1, p.QueueSize())

	p.Stop()
	assert.ErrorIs(t, p.Submit(noop), ErrPoolStopped)
	p.Stop()
}

type fakeIndexer struct {
	calls int
	err   error
}

func (f *fakeIndexer) PushCatalog(_ context.Context, cat *content.Catalog) (search.IndexReport, error) {
	f.calls++
	if f.err != nil {
		return search.IndexReport{}, f.err
	}
	return search.IndexReport{Topics: cat.Len()}, nil
}

func TestReindexJob(t *testing.T) {
	cat := testutil.SmallCatalog(t)

	idx := &fakeIndexer{}
	job := &ReindexJob{Indexer: idx, Catalog: cat}
	assert.Equal(t, "reindex", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, idx.calls)

	failing := &ReindexJob{Indexer: &fakeIndexer{err: assert.AnError}, Catalog: cat}
	assert.ErrorIs(t, failing.Run(context.Background()), assert.AnError)
}
