package tx

import (
	"context"
	"sync"
)

// Snapshotter is an in-memory store that can roll back to a saved state.
// Snapshot returns the function restoring the state as of the call.
type Snapshotter interface {
	Snapshot() (restore func())
}

// MemoryTransactor serializes units of work over in-memory stores and
// restores every participant when the unit fails.
type MemoryTransactor struct {
	mu           sync.Mutex
	participants []Snapshotter
}

func NewMemoryTransactor(participants ...Snapshotter) *MemoryTransactor {
	return &MemoryTransactor{participants: participants}
}

func (t *MemoryTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), len(t.participants))
	for i, p := range t.participants {
		restores[i] = p.Snapshot()
	}
	if err := fn(ctx); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}
