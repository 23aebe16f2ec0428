package csvsource

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/parsererror"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsScheme prefixes locations read through the Sheets API, in the form
// sheets://<spreadsheet-id>/<A1 range>.
const SheetsScheme = "sheets"

// SheetsSource reads a range of a spreadsheet through the Sheets API. The
// first row of the range is the header row.
type SheetsSource struct {
	svc    *sheets.Service
	logger logging.Logger
}

// NewSheetsSource creates the API client. An API key is enough for
// spreadsheets shared by link.
func NewSheetsSource(ctx context.Context, apiKey string, logger logging.Logger, opts ...option.ClientOption) (*SheetsSource, error) {
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsSource{svc: svc, logger: logger}, nil
}

// ParseSheetsLocation splits sheets://<id>/<range>.
func ParseSheetsLocation(location string) (spreadsheetID, readRange string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != SheetsScheme || u.Host == "" {
		return "", "", fmt.Errorf("not a sheets location: %s", location)
	}
	readRange, err = url.PathUnescape(strings.TrimPrefix(u.EscapedPath(), "/"))
	if err != nil {
		return "", "", err
	}
	if readRange == "" {
		return "", "", fmt.Errorf("sheets location %s has no range", location)
	}
	return u.Host, readRange, nil
}

// Fetch reads the range named by location.
func (s *SheetsSource) Fetch(ctx context.Context, location string) (*RawTable, error) {
	id, rng, err := ParseSheetsLocation(location)
	if err != nil {
		return nil, &parsererror.FetchError{URL: location, Err: err}
	}

	resp, err := s.svc.Spreadsheets.Values.Get(id, rng).Context(ctx).Do()
	if err != nil {
		return nil, &parsererror.FetchError{URL: location, Err: err}
	}

	if len(resp.Values) == 0 {
		return &RawTable{}, nil
	}
	headers := rowText(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		rows = append(rows, rowText(row))
	}
	s.logger.Debug("Read spreadsheet range",
		logging.F(logging.FieldURL, location),
		logging.F(logging.FieldCount, len(rows)))
	return NewRawTable(headers, rows), nil
}

func rowText(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
