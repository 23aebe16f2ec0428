// Package tableview implements the sortable, filterable, paginated table
// pages used for each collection, including the staged add/edit draft.
package tableview

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fjacquet/budget-dashboard/internal/models"
	"fjacquet/budget-dashboard/internal/parsererror"

	"github.com/shopspring/decimal"
)

// RecordStore is the part of the dataset store a view needs.
type RecordStore interface {
	GetAll(kind models.Kind) []models.Record
	Add(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error)
	Update(ctx context.Context, kind models.Kind, id string, patch models.Patch) (models.Record, error)
	Remove(ctx context.Context, kind models.Kind, id string) error
}

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// ErrNoDraft is returned by Submit when neither StartAdd nor StartEdit was
// called.
var ErrNoDraft = fmt.Errorf("no add or edit in progress")

// View holds the UI state of one table page: sort, pill selection,
// pagination and the draft. Rows are always read from the store.
type View struct {
	cfg   Config
	store RecordStore

	sortKey string
	sortDir Direction

	single   string
	selected map[string]struct{}

	pageSize int
	page     int

	draft   models.Patch
	editID  string
	editing bool
}

// New returns a view sorted ascending on the first column, showing page 1
// with DefaultPageSize rows.
func New(cfg Config, store RecordStore) *View {
	v := &View{
		cfg:      cfg,
		store:    store,
		selected: make(map[string]struct{}),
		pageSize: DefaultPageSize,
		page:     1,
	}
	if len(cfg.Columns) > 0 {
		v.sortKey = cfg.Columns[0].Key
	}
	return v
}

// Config returns the page layout.
func (v *View) Config() Config { return v.cfg }

// Sort returns the active sort key and direction.
func (v *View) Sort() (string, Direction) { return v.sortKey, v.sortDir }

// ToggleSort flips the direction when key is already active and otherwise
// sorts ascending on key.
func (v *View) ToggleSort(key string) error {
	if _, ok := v.cfg.Column(key); !ok {
		return &parsererror.ValidationError{Field: "sort column", Reason: fmt.Sprintf("%q is not a column", key)}
	}
	if key == v.sortKey {
		if v.sortDir == Asc {
			v.sortDir = Desc
		} else {
			v.sortDir = Asc
		}
		return nil
	}
	v.sortKey = key
	v.sortDir = Asc
	return nil
}

// SetSort selects key and direction directly.
func (v *View) SetSort(key string, dir Direction) error {
	if _, ok := v.cfg.Column(key); !ok {
		return &parsererror.ValidationError{Field: "sort column", Reason: fmt.Sprintf("%q is not a column", key)}
	}
	v.sortKey = key
	v.sortDir = dir
	return nil
}

// PillValues lists the distinct values of the pill field, sorted. Tags are
// split into individual labels.
func (v *View) PillValues() []string {
	if v.cfg.PillField == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for _, rec := range v.store.GetAll(v.cfg.Kind) {
		for _, val := range pillTokens(rec, v.cfg.PillField) {
			seen[val] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for val := range seen {
		out = append(out, val)
	}
	sort.Strings(out)
	return out
}

// SelectPill sets the single-select filter. "all" or "" shows every row.
// On a multi-select view it replaces the selection with value.
func (v *View) SelectPill(value string) {
	v.page = 1
	if value == "" || strings.EqualFold(value, "all") {
		v.single = ""
		v.selected = make(map[string]struct{})
		return
	}
	if v.cfg.MultiSelect {
		v.selected = map[string]struct{}{value: {}}
		return
	}
	v.single = value
}

// TogglePill adds or removes value from a multi-select filter. On a
// single-select view it behaves like SelectPill.
func (v *View) TogglePill(value string) {
	if !v.cfg.MultiSelect {
		if v.single == value {
			v.SelectPill("all")
		} else {
			v.SelectPill(value)
		}
		return
	}
	v.page = 1
	if _, ok := v.selected[value]; ok {
		delete(v.selected, value)
		return
	}
	v.selected[value] = struct{}{}
}

// ClearPills removes every filter.
func (v *View) ClearPills() { v.SelectPill("all") }

// SelectedPills returns the active filter values, sorted. Empty means all.
func (v *View) SelectedPills() []string {
	if !v.cfg.MultiSelect {
		if v.single == "" {
			return nil
		}
		return []string{v.single}
	}
	out := make([]string, 0, len(v.selected))
	for val := range v.selected {
		out = append(out, val)
	}
	sort.Strings(out)
	return out
}

// Rows returns every record that passes the filter, in sort order.
func (v *View) Rows() []models.Record {
	all := v.store.GetAll(v.cfg.Kind)
	rows := make([]models.Record, 0, len(all))
	for _, rec := range all {
		if v.matches(rec) {
			rows = append(rows, rec)
		}
	}
	key, dir := v.sortKey, v.sortDir
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareField(rows[i], rows[j], key)
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return rows
}

// Total is the number of filtered rows.
func (v *View) Total() int { return len(v.Rows()) }

// PageSize returns the current page size; PageSizeAll means unlimited.
func (v *View) PageSize() int { return v.pageSize }

// SetPageSize changes the page size and returns to page 1.
func (v *View) SetPageSize(n int) error {
	if !validPageSize(n) {
		return &parsererror.ValidationError{Field: "page size", Reason: "must be one of 25, 50, 100 or all"}
	}
	v.pageSize = n
	v.page = 1
	return nil
}

// Page returns the current page, clamped to the available pages.
func (v *View) Page() int {
	if total := v.TotalPages(); v.page > total {
		return total
	}
	return v.page
}

// SetPage moves to page n, clamped into [1, TotalPages].
func (v *View) SetPage(n int) {
	total := v.TotalPages()
	switch {
	case n < 1:
		n = 1
	case n > total:
		n = total
	}
	v.page = n
}

// TotalPages is at least 1.
func (v *View) TotalPages() int {
	total := v.Total()
	if v.pageSize == PageSizeAll || total == 0 {
		return 1
	}
	return (total + v.pageSize - 1) / v.pageSize
}

// PageRows returns the rows of the current page.
func (v *View) PageRows() []models.Record {
	rows := v.Rows()
	if v.pageSize == PageSizeAll {
		return rows
	}
	start := (v.Page() - 1) * v.pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + v.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// StartAdd stages an empty draft for a new record, discarding any
// previous draft.
func (v *View) StartAdd() {
	v.draft = v.emptyDraft()
	v.editID = ""
	v.editing = true
}

// StartEdit stages a draft filled from the record with id.
func (v *View) StartEdit(id string) error {
	rec, err := v.find(id)
	if err != nil {
		return err
	}
	draft := v.emptyDraft()
	for _, col := range v.cfg.Columns {
		if val, ok := rec.Field(col.Key); ok {
			draft[col.Key] = models.FieldText(val)
		}
	}
	v.draft = draft
	v.editID = id
	v.editing = true
	return nil
}

// Editing reports whether a draft is staged and, for an edit, the id of
// the record it will be merged into.
func (v *View) Editing() (id string, ok bool) { return v.editID, v.editing }

// SetDraftField stages value for key. Columns with options only accept one
// of them (case-insensitive) or blank; suggestions only fix the spelling.
func (v *View) SetDraftField(key, value string) error {
	if !v.editing {
		return ErrNoDraft
	}
	col, ok := v.cfg.Column(key)
	if !ok {
		return &parsererror.ValidationError{Field: key, Reason: fmt.Sprintf("%s has no such column", v.cfg.Title)}
	}
	value = strings.TrimSpace(value)
	if value != "" {
		if len(col.Options) > 0 {
			matched, ok := matchFold(col.Options, value)
			if !ok {
				return &parsererror.ValidationError{Field: col.Label, Reason: fmt.Sprintf("must be one of %s", strings.Join(col.Options, ", "))}
			}
			value = matched
		} else if matched, ok := matchFold(col.Suggestions, value); ok {
			value = matched
		}
	}
	v.draft[key] = value
	return nil
}

// Draft returns a copy of the staged values.
func (v *View) Draft() models.Patch {
	out := make(models.Patch, len(v.draft))
	for k, val := range v.draft {
		out[k] = val
	}
	return out
}

// Submit stores the draft: a new record is added under a fresh id, an
// edit is merged into the existing record. The draft is cleared on
// success.
func (v *View) Submit(ctx context.Context) (models.Record, error) {
	if !v.editing {
		return nil, ErrNoDraft
	}
	var (
		saved models.Record
		err   error
	)
	if v.editID == "" {
		var rec models.Record
		rec, err = models.NewRecord(v.cfg.Kind)
		if err != nil {
			return nil, err
		}
		if err = rec.Apply(v.draft); err != nil {
			return nil, err
		}
		saved, err = v.store.Add(ctx, v.cfg.Kind, rec)
	} else {
		saved, err = v.store.Update(ctx, v.cfg.Kind, v.editID, v.draft)
	}
	if err != nil {
		return nil, err
	}
	v.Cancel()
	return saved, nil
}

// Cancel discards the draft.
func (v *View) Cancel() {
	v.draft = nil
	v.editID = ""
	v.editing = false
}

// Delete removes the record with id from the store.
func (v *View) Delete(ctx context.Context, id string) error {
	if err := v.store.Remove(ctx, v.cfg.Kind, id); err != nil {
		return err
	}
	if v.editID == id {
		v.Cancel()
	}
	return nil
}

// ResolveID expands an id prefix to the single record id it matches.
func (v *View) ResolveID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", &parsererror.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	var found []string
	for _, rec := range v.store.GetAll(v.cfg.Kind) {
		id := rec.GetID()
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", &parsererror.ValidationError{Field: "id", Reason: fmt.Sprintf("no %s record with id %q", v.cfg.Kind, prefix)}
	case 1:
		return found[0], nil
	}
	return "", &parsererror.ValidationError{Field: "id", Reason: fmt.Sprintf("%q matches %d %s records", prefix, len(found), v.cfg.Kind)}
}

func matchFold(values []string, value string) (string, bool) {
	for _, candidate := range values {
		if strings.EqualFold(candidate, value) {
			return candidate, true
		}
	}
	return "", false
}

func (v *View) emptyDraft() models.Patch {
	draft := make(models.Patch, len(v.cfg.Columns))
	for _, col := range v.cfg.Columns {
		if col.Kind == Number {
			draft[col.Key] = "0"
		} else {
			draft[col.Key] = ""
		}
	}
	return draft
}

func (v *View) find(id string) (models.Record, error) {
	for _, rec := range v.store.GetAll(v.cfg.Kind) {
		if rec.GetID() == id {
			return rec, nil
		}
	}
	return nil, &parsererror.ValidationError{Field: "id", Reason: fmt.Sprintf("no %s record with id %q", v.cfg.Kind, id)}
}

func (v *View) matches(rec models.Record) bool {
	if v.cfg.PillField == "" {
		return true
	}
	if v.cfg.MultiSelect {
		if len(v.selected) == 0 {
			return true
		}
		for _, tok := range pillTokens(rec, v.cfg.PillField) {
			if _, ok := v.selected[tok]; ok {
				return true
			}
		}
		return false
	}
	if v.single == "" {
		return true
	}
	for _, tok := range pillTokens(rec, v.cfg.PillField) {
		if tok == v.single {
			return true
		}
	}
	return false
}

func pillTokens(rec models.Record, field string) []string {
	val, ok := rec.Field(field)
	if !ok {
		return nil
	}
	if tags, isTags := val.(models.Tags); isTags {
		return tags
	}
	text := models.FieldText(val)
	if text == "" {
		return nil
	}
	return []string{text}
}

func compareField(a, b models.Record, key string) int {
	av, _ := a.Field(key)
	bv, _ := b.Field(key)
	ad, aNum := av.(decimal.Decimal)
	bd, bNum := bv.(decimal.Decimal)
	if aNum && bNum {
		return ad.Cmp(bd)
	}
	return strings.Compare(models.FieldText(av), models.FieldText(bv))
}
