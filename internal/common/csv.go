// Package common writes collections in the canonical CSV layout that the
// importer reads back, and the header-only templates users fill in.
package common

import (
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/models"

	"github.com/gocarina/gocsv"
)

// CategoryRow is the canonical categories layout.
type CategoryRow struct {
	Name string `csv:"Name"`
	Type string `csv:"Type"`
}

// IncomeRow is the canonical income layout.
type IncomeRow struct {
	Date   string `csv:"Date"`
	Source string `csv:"Source"`
	Amount string `csv:"Amount"`
	Tags   string `csv:"Tags"`
}

// BillRow is the canonical bills layout.
type BillRow struct {
	Due      string `csv:"Due Date"`
	Name     string `csv:"Bill"`
	Category string `csv:"Category"`
	Amount   string `csv:"Amount"`
	Status   string `csv:"Status"`
}

// Writer marshals collections with gocsv.
type Writer struct {
	Delimiter rune
	logger    logging.Logger
}

// NewWriter returns a Writer using delimiter (',' when zero).
func NewWriter(delimiter rune, logger logging.Logger) *Writer {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Writer{Delimiter: delimiter, logger: logger}
}

// WriteRecords writes records of kind in the canonical layout.
func (w *Writer) WriteRecords(out io.Writer, kind models.Kind, records []models.Record) error {
	rows, err := toRows(kind, records)
	if err != nil {
		return err
	}
	if err := w.marshal(out, rows); err != nil {
		w.logger.WithError(err).Error("Failed to write CSV data", logging.F(logging.FieldKind, kind))
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	w.logger.Debug("Wrote CSV data",
		logging.F(logging.FieldKind, kind),
		logging.F(logging.FieldCount, len(records)))
	return nil
}

// WriteTemplate writes only the header row for kind.
func (w *Writer) WriteTemplate(out io.Writer, kind models.Kind) error {
	var rows interface{}
	switch kind {
	case models.KindCategories:
		rows = []CategoryRow{}
	case models.KindIncome:
		rows = []IncomeRow{}
	case models.KindBills:
		rows = []BillRow{}
	default:
		return fmt.Errorf("no template for %q", kind)
	}
	return w.marshal(out, rows)
}

func (w *Writer) marshal(out io.Writer, rows interface{}) error {
	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = w.Delimiter
	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter))
}

func toRows(kind models.Kind, records []models.Record) (interface{}, error) {
	text := func(r models.Record, key string) string {
		v, _ := r.Field(key)
		return models.FieldText(v)
	}
	switch kind {
	case models.KindCategories:
		rows := make([]CategoryRow, len(records))
		for i, r := range records {
			rows[i] = CategoryRow{Name: text(r, "name"), Type: text(r, "type")}
		}
		return rows, nil
	case models.KindIncome:
		rows := make([]IncomeRow, len(records))
		for i, r := range records {
			rows[i] = IncomeRow{Date: text(r, "date"), Source: text(r, "source"), Amount: text(r, "amount"), Tags: text(r, "tags")}
		}
		return rows, nil
	case models.KindBills:
		rows := make([]BillRow, len(records))
		for i, r := range records {
			rows[i] = BillRow{Due: text(r, "due"), Name: text(r, "name"), Category: text(r, "category"), Amount: text(r, "amount"), Status: text(r, "status")}
		}
		return rows, nil
	}
	return nil, fmt.Errorf("cannot export records of kind %q", kind)
}
