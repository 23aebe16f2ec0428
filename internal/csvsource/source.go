package csvsource

import (
	"context"
	"fmt"
	"strings"
)

// Fetcher retrieves a RawTable from a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*RawTable, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) (*RawTable, error)

func (f FetcherFunc) Fetch(ctx context.Context, location string) (*RawTable, error) {
	return f(ctx, location)
}

// LocalSource reads files from disk.
type LocalSource struct {
	Delimiter rune
}

func (l LocalSource) Fetch(_ context.Context, location string) (*RawTable, error) {
	return ParseLocalFile(strings.TrimPrefix(location, "file://"), l.Delimiter)
}

// Router dispatches a location to the fetcher for its scheme: http(s) to
// Remote, sheets:// to Sheets and anything else to Local.
type Router struct {
	Remote Fetcher
	Sheets Fetcher
	Local  Fetcher
}

func (r *Router) Fetch(ctx context.Context, location string) (*RawTable, error) {
	var f Fetcher
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		f = r.Remote
	case strings.HasPrefix(location, SheetsScheme+"://"):
		f = r.Sheets
	default:
		f = r.Local
	}
	if f == nil {
		return nil, fmt.Errorf("no source configured for %s", location)
	}
	return f.Fetch(ctx, location)
}
