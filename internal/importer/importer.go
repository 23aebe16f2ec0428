// Package importer runs the CSV ingestion pipeline: fetch, detect the
// collection, map rows to records and replace the collection in the store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fjacquet/budget-dashboard/internal/csvsource"
	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/mapper"
	"fjacquet/budget-dashboard/internal/models"
	"fjacquet/budget-dashboard/internal/parsererror"
	"fjacquet/budget-dashboard/internal/schema"
	"fjacquet/budget-dashboard/internal/store"

	"golang.org/x/sync/errgroup"
)

// ErrStaleResponse is returned when a request issued later has already
// replaced the same collection; the older result is discarded.
var ErrStaleResponse = errors.New("importer: response superseded by a newer load")

// Result describes one applied import.
type Result struct {
	Kind         models.Kind
	Source       string
	Rows         int
	Imported     int
	Dropped      int
	Unnormalized int
}

// Status is the one-line message shown after a single import.
func (r Result) Status() string {
	return fmt.Sprintf("Loaded %d %s", r.Imported, r.Kind.RowsLabel())
}

// LoadAllResult holds the per-collection results of LoadAll.
type LoadAllResult map[models.Kind]Result

// Status summarizes a LoadAll in the same words as the single import.
func (r LoadAllResult) Status() string {
	return fmt.Sprintf("Loaded %d income, %d bills, %d categories",
		r[models.KindIncome].Imported, r[models.KindBills].Imported, r[models.KindCategories].Imported)
}

// StatusForError maps an import failure to the message shown to the user.
func StatusForError(err error) string {
	var unknown *parsererror.UnknownSchemaError
	if errors.As(err, &unknown) {
		return parsererror.MsgUnknownSchema
	}
	return parsererror.MsgLoadFailed
}

// Importer wires the pipeline stages together.
//
// Every request takes a sequence number before it fetches. A response is
// applied only when no request issued later has already been applied to
// the same collection, so a slow response never overwrites newer state.
type Importer struct {
	fetcher csvsource.Fetcher
	mapper  *mapper.Mapper
	store   *store.Store
	logger  logging.Logger

	mu      sync.Mutex
	seq     uint64
	applied map[models.Kind]uint64
}

// New returns an Importer reading through fetcher into st.
func New(fetcher csvsource.Fetcher, m *mapper.Mapper, st *store.Store, logger logging.Logger) *Importer {
	if m == nil {
		m = mapper.New()
	}
	return &Importer{
		fetcher: fetcher,
		mapper:  m,
		store:   st,
		logger:  logger,
		applied: make(map[models.Kind]uint64),
	}
}

// Import fetches location, detects its collection from the header row and
// replaces that collection. Nothing changes when the schema is unknown or
// the fetch fails.
func (im *Importer) Import(ctx context.Context, location string) (Result, error) {
	seq := im.nextSeq()
	table, err := im.fetcher.Fetch(ctx, location)
	if err != nil {
		im.logger.WithError(err).Warn("Import failed", logging.F(logging.FieldSource, location))
		return Result{}, err
	}
	kind := schema.Detect(table.Headers)
	if kind == models.KindUnknown {
		err := &parsererror.UnknownSchemaError{Source: location, Headers: table.Headers}
		im.logger.Warn("Unrecognized CSV headers",
			logging.F(logging.FieldSource, location),
			logging.F("headers", table.Headers))
		return Result{}, err
	}
	return im.applyOne(ctx, kind, location, table, seq)
}

// ImportAs imports location into kind without header detection, the way a
// configured per-collection source URL is loaded.
func (im *Importer) ImportAs(ctx context.Context, kind models.Kind, location string) (Result, error) {
	seq := im.nextSeq()
	table, err := im.fetcher.Fetch(ctx, location)
	if err != nil {
		im.logger.WithError(err).Warn("Load failed",
			logging.F(logging.FieldKind, kind),
			logging.F(logging.FieldSource, location))
		return Result{}, err
	}
	return im.applyOne(ctx, kind, location, table, seq)
}

// LoadAll fetches every configured source concurrently. If any fetch fails,
// or any collection was meanwhile replaced by a newer request, no
// collection is modified. Empty locations are skipped.
func (im *Importer) LoadAll(ctx context.Context, sources map[models.Kind]string) (LoadAllResult, error) {
	seq := im.nextSeq()
	tables := make(map[models.Kind]*csvsource.RawTable, len(sources))
	var tablesMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range models.Kinds {
		kind, location := kind, sources[kind]
		if location == "" {
			continue
		}
		g.Go(func() error {
			table, err := im.fetcher.Fetch(gctx, location)
			if err != nil {
				return fmt.Errorf("load %s: %w", kind, err)
			}
			tablesMu.Lock()
			tables[kind] = table
			tablesMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		im.logger.WithError(err).Warn("Load all failed, nothing applied")
		return nil, err
	}

	im.mu.Lock()
	defer im.mu.Unlock()
	for kind := range tables {
		if im.applied[kind] > seq {
			im.logger.Info("Discarding stale load all",
				logging.F(logging.FieldKind, kind),
				logging.F(logging.FieldToken, seq))
			return nil, ErrStaleResponse
		}
	}

	out := make(LoadAllResult, len(tables))
	for _, kind := range models.Kinds {
		table, ok := tables[kind]
		if !ok {
			continue
		}
		res, err := im.applyLocked(ctx, kind, sources[kind], table, seq)
		if err != nil {
			return out, err
		}
		out[kind] = res
	}
	return out, nil
}

func (im *Importer) nextSeq() uint64 {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.seq++
	return im.seq
}

func (im *Importer) applyOne(ctx context.Context, kind models.Kind, source string, table *csvsource.RawTable, seq uint64) (Result, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.applied[kind] > seq {
		im.logger.Info("Discarding stale response",
			logging.F(logging.FieldKind, kind),
			logging.F(logging.FieldToken, seq))
		return Result{}, ErrStaleResponse
	}
	return im.applyLocked(ctx, kind, source, table, seq)
}

// applyLocked maps table, replaces the collection and records seq as the
// last applied request for kind. im.mu must be held.
func (im *Importer) applyLocked(ctx context.Context, kind models.Kind, source string, table *csvsource.RawTable, seq uint64) (Result, error) {
	mapped := im.mapper.Map(kind, table.Rows)
	if err := im.store.ReplaceAll(ctx, kind, mapped.Records); err != nil {
		return Result{}, err
	}
	im.applied[kind] = seq

	res := Result{
		Kind:         kind,
		Source:       source,
		Rows:         table.Len(),
		Imported:     len(mapped.Records),
		Dropped:      mapped.Dropped,
		Unnormalized: mapped.Unnormalized,
	}
	im.logger.Info("Imported collection",
		logging.F(logging.FieldKind, kind),
		logging.F(logging.FieldSource, source),
		logging.F(logging.FieldCount, res.Imported),
		logging.F(logging.FieldDropped, res.Dropped))
	if res.Unnormalized > 0 {
		im.logger.Warn("Some dates were kept as typed",
			logging.F(logging.FieldKind, kind),
			logging.F(logging.FieldCount, res.Unnormalized))
	}
	return res, nil
}
