// Package store holds the three in-memory collections and persists the
// whole dataset to a kvstore.KV after every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"fjacquet/budget-dashboard/internal/kvstore"
	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/models"

	"github.com/google/uuid"
)

// DefaultKey is the storage key the dataset is written under.
const DefaultKey = "bd.state"

// StateVersion is written into every persisted blob.
const StateVersion = 1

// NotFoundError is returned when no record of Kind has ID.
type NotFoundError struct {
	Kind models.Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s record with id %q", e.Kind, e.ID)
}

// ChangeListener is told about single-record mutations (add, edit, delete).
// Bulk replacement from an import is not reported.
type ChangeListener interface {
	RecordChanged(ctx context.Context, kind models.Kind, rec models.Record, deleted bool)
}

// State is the persisted shape of the dataset. A nil slice means the
// collection was absent from the blob.
type State struct {
	Version    int                      `json:"version"`
	Categories []*models.CategoryRecord `json:"categories"`
	Income     []*models.IncomeRecord   `json:"income"`
	Bills      []*models.BillRecord     `json:"bills"`
}

// Store owns the collections. All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	kv        kvstore.KV
	key       string
	logger    logging.Logger
	newID     func() string
	data      map[models.Kind][]models.Record
	listeners []ChangeListener
}

// Option customizes a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New returns a store holding the seed data. Call Load to restore the
// persisted dataset.
func New(kv kvstore.KV, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: logger,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = seedData(s.newID)
	return s
}

// Subscribe registers l for change notifications.
func (s *Store) Subscribe(l ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Load restores the dataset from storage. A missing, unreadable or corrupt
// blob leaves the seeds in place; a collection missing from an otherwise
// valid blob is seeded individually.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seeds := seedData(s.newID)
	s.data = seeds

	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		s.logger.Info("No saved dataset, starting from seed data", logging.F(logging.FieldKey, s.key))
		return
	}
	if err != nil {
		s.logger.WithError(err).Warn("Could not read saved dataset, using seed data", logging.F(logging.FieldKey, s.key))
		return
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.WithError(err).Warn("Saved dataset is corrupt, using seed data", logging.F(logging.FieldKey, s.key))
		return
	}

	skipped := 0
	if state.Categories != nil {
		var n int
		s.data[models.KindCategories], n = toRecords(state.Categories)
		skipped += n
	}
	if state.Income != nil {
		var n int
		s.data[models.KindIncome], n = toRecords(state.Income)
		skipped += n
	}
	if state.Bills != nil {
		var n int
		s.data[models.KindBills], n = toRecords(state.Bills)
		skipped += n
	}
	if skipped > 0 {
		s.logger.Warn("Skipped null or id-less entries in saved dataset",
			logging.F(logging.FieldKey, s.key),
			logging.F(logging.FieldDropped, skipped))
	}
	s.logger.Debug("Loaded saved dataset",
		logging.F("categories", len(s.data[models.KindCategories])),
		logging.F("income", len(s.data[models.KindIncome])),
		logging.F("bills", len(s.data[models.KindBills])))
}

// GetAll returns copies of every record of kind.
func (s *Store) GetAll(kind models.Kind) []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.data[kind])
}

// Get returns a copy of one record.
func (s *Store) Get(kind models.Kind, id string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(kind, id)
	if i < 0 {
		return nil, &NotFoundError{Kind: kind, ID: id}
	}
	return s.data[kind][i].Clone(), nil
}

// ReplaceAll swaps the whole collection for records.
func (s *Store) ReplaceAll(ctx context.Context, kind models.Kind, records []models.Record) error {
	if err := checkKinds(kind, records...); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[kind] = cloneAll(records)
	s.persistLocked(ctx)
	return nil
}

// Add appends rec under a freshly generated id and returns the stored copy.
func (s *Store) Add(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error) {
	if err := checkKinds(kind, rec); err != nil {
		return nil, err
	}
	s.mu.Lock()
	stored := rec.Clone()
	stored.SetID(s.newID())
	s.data[kind] = append(s.data[kind], stored)
	s.persistLocked(ctx)
	out := stored.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(ctx, listeners, kind, out, false)
	return out, nil
}

// Update merges patch into the record with id. Fields not named in patch
// keep their values.
func (s *Store) Update(ctx context.Context, kind models.Kind, id string, patch models.Patch) (models.Record, error) {
	s.mu.Lock()
	i := s.indexOf(kind, id)
	if i < 0 {
		s.mu.Unlock()
		return nil, &NotFoundError{Kind: kind, ID: id}
	}
	updated := s.data[kind][i].Clone()
	if err := updated.Apply(patch); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.data[kind][i] = updated
	s.persistLocked(ctx)
	out := updated.Clone()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(ctx, listeners, kind, out, false)
	return out, nil
}

// Remove deletes the record with id.
func (s *Store) Remove(ctx context.Context, kind models.Kind, id string) error {
	s.mu.Lock()
	i := s.indexOf(kind, id)
	if i < 0 {
		s.mu.Unlock()
		return &NotFoundError{Kind: kind, ID: id}
	}
	removed := s.data[kind][i]
	s.data[kind] = append(s.data[kind][:i:i], s.data[kind][i+1:]...)
	s.persistLocked(ctx)
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(ctx, listeners, kind, removed, true)
	return nil
}

// Reset restores the seed data and persists it.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = seedData(s.newID)
	s.persistLocked(ctx)
}

// Snapshot returns a copy of the whole dataset in its persisted shape.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	state := State{
		Version:    StateVersion,
		Categories: []*models.CategoryRecord{},
		Income:     []*models.IncomeRecord{},
		Bills:      []*models.BillRecord{},
	}
	for _, r := range s.data[models.KindCategories] {
		state.Categories = append(state.Categories, r.Clone().(*models.CategoryRecord))
	}
	for _, r := range s.data[models.KindIncome] {
		state.Income = append(state.Income, r.Clone().(*models.IncomeRecord))
	}
	for _, r := range s.data[models.KindBills] {
		state.Bills = append(state.Bills, r.Clone().(*models.BillRecord))
	}
	return state
}

// persistLocked writes the dataset. Failures are logged and otherwise
// ignored; the in-memory state stays authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.stateLocked())
	if err != nil {
		s.logger.WithError(err).Error("Failed to encode dataset")
		return
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		s.logger.WithError(err).Warn("Failed to save dataset", logging.F(logging.FieldKey, s.key))
	}
}

func (s *Store) indexOf(kind models.Kind, id string) int {
	for i, r := range s.data[kind] {
		if r.GetID() == id {
			return i
		}
	}
	return -1
}

func (s *Store) listenersLocked() []ChangeListener {
	return append([]ChangeListener(nil), s.listeners...)
}

func notify(ctx context.Context, listeners []ChangeListener, kind models.Kind, rec models.Record, deleted bool) {
	for _, l := range listeners {
		l.RecordChanged(ctx, kind, rec, deleted)
	}
}

func checkKinds(kind models.Kind, records ...models.Record) error {
	for _, r := range records {
		if r == nil {
			return fmt.Errorf("nil %s record", kind)
		}
		if r.Kind() != kind {
			return fmt.Errorf("cannot store a %s record in %s", r.Kind(), kind)
		}
	}
	return nil
}

func cloneAll(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// toRecords drops null entries and entries without an id.
func toRecords[E any, P interface {
	*E
	models.Record
}](items []P) ([]models.Record, int) {
	out := make([]models.Record, 0, len(items))
	for _, item := range items {
		if item == nil || item.GetID() == "" {
			continue
		}
		out = append(out, item)
	}
	return out, len(items) - len(out)
}
