package writeback

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// HTTPSink POSTs each payload as JSON to an endpoint.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSink returns a sink for endpoint. A nil client uses
// http.DefaultClient.
func NewHTTPSink(endpoint string, client *http.Client) *HTTPSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSink{endpoint: endpoint, client: client}
}

func (s *HTTPSink) Send(ctx context.Context, p Payload) error {
	body, err := p.Encode()
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", s.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post %s: unexpected status %d", s.endpoint, resp.StatusCode)
	}
	return nil
}

func (s *HTTPSink) Close() error { return nil }
