package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit/store/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	pending   []postgres.OutboxEntry
	published []uuid.UUID
}

func (f *fakeSource) FetchPending(_ context.Context, limit int) ([]postgres.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []postgres.OutboxEntry
	for _, e := range f.pending {
		if len(out) == limit {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeSource) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	done := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	remaining := f.pending[:0]
	for _, e := range f.pending {
		if !done[e.ID] {
			remaining = append(remaining, e)
		}
	}
	f.pending = remaining
	f.published = append(f.published, ids...)
	return nil
}

type fakeProducer struct {
	failAfter int
	keys      []string
}

func (f *fakeProducer) Publish(_ context.Context, key string, _ string, _ []byte) error {
	if f.failAfter >= 0 && len(f.keys) == f.failAfter {
		return errors.New("broker unavailable")
	}
	f.keys = append(f.keys, key)
	return nil
}

func entries(keys ...string) []postgres.OutboxEntry {
	out := make([]postgres.OutboxEntry, len(keys))
	for i, k := range keys {
		out[i] = postgres.OutboxEntry{ID: uuid.New(), Key: k, EventType: "item_filled"}
	}
	return out
}

func TestRelay_FlushPublishesInOrder(t *testing.T) {
	source := &fakeSource{pending: entries("a", "b", "c")}
	producer := &fakeProducer{failAfter: -1}

	n, err := NewRelay(source, producer, WithBatchSize(2)).Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, producer.keys)
	require.Len(t, source.pending, 1)
	assert.Equal(t, "c", source.pending[0].Key)
}

func TestRelay_FlushStopsAtFirstFailure(t *testing.T) {
	source := &fakeSource{pending: entries("a", "b", "c")}
	producer := &fakeProducer{failAfter: 1}

	n, err := NewRelay(source, producer).Flush(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, source.published, 1)
	assert.Len(t, source.pending, 2)
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRelay(&fakeSource{}, &fakeProducer{failAfter: -1}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
