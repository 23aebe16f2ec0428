package csvsource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/parsererror"
)

// RemoteSource downloads CSV from a published spreadsheet URL. Every
// request carries a fresh cache-busting query parameter and no-cache
// headers so the latest published revision is returned.
type RemoteSource struct {
	client    *http.Client
	logger    logging.Logger
	delimiter rune
	now       func() time.Time
}

// NewRemoteSource returns a RemoteSource using client, or a client with the
// given timeout when client is nil.
func NewRemoteSource(client *http.Client, timeout time.Duration, delimiter rune, logger logging.Logger) *RemoteSource {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &RemoteSource{client: client, logger: logger, delimiter: delimiter, now: time.Now}
}

// CacheBust appends `_=<unix millis>` to rawURL.
func CacheBust(rawURL string, at time.Time) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	bust := "_=" + strconv.FormatInt(at.UnixMilli(), 10)
	if u.RawQuery == "" {
		u.RawQuery = bust
	} else {
		u.RawQuery += "&" + bust
	}
	return u.String(), nil
}

// Fetch downloads and parses the CSV at rawURL. Any transport failure or
// non-2xx response is a *parsererror.FetchError.
func (s *RemoteSource) Fetch(ctx context.Context, rawURL string) (*RawTable, error) {
	target, err := CacheBust(rawURL, s.now())
	if err != nil {
		return nil, &parsererror.FetchError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &parsererror.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "text/csv")

	s.logger.Debug("Fetching remote CSV", logging.F(logging.FieldURL, rawURL))
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &parsererror.FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &parsererror.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", resp.Status),
		}
	}

	table, err := Parse(resp.Body, rawURL, s.delimiter)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Fetched remote CSV",
		logging.F(logging.FieldURL, rawURL),
		logging.F(logging.FieldCount, table.Len()))
	return table, nil
}
