package store

import (
	"context"
	"sync"

	"fjacquet/budget-dashboard/internal/models"
)

// RecordedChange is one notification captured by ChangeRecorder.
type RecordedChange struct {
	Kind    models.Kind
	Record  models.Record
	Deleted bool
}

// ChangeRecorder is a ChangeListener that keeps every notification, for
// tests.
type ChangeRecorder struct {
	mu      sync.Mutex
	Changes []RecordedChange
}

func (r *ChangeRecorder) RecordChanged(_ context.Context, kind models.Kind, rec models.Record, deleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Changes = append(r.Changes, RecordedChange{Kind: kind, Record: rec, Deleted: deleted})
}

// All returns a copy of the captured changes.
func (r *ChangeRecorder) All() []RecordedChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedChange(nil), r.Changes...)
}
