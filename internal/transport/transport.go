// Package transport carries signed batch payloads to the collector.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Transport is the external collaborator responsible for the actual network
// send. The core never interprets a response body; any error the transport
// returns is swallowed (and at most logged) by the dispatcher.
type Transport interface {
	Send(ctx context.Context, body []byte, headers map[string]string) error
}

// ingestPath is the collector's batch ingestion route.
const ingestPath = "/v1/ingest/batch"

// HTTPTransport posts batches to <endpoint>/v1/ingest/batch.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTP creates an HTTP transport for the given collector base URL.
// If client is nil, a default client with a 10-second timeout is used.
func NewHTTP(endpoint string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPTransport{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
	}
}

// Send posts the body with the given headers. Any non-2xx status is an error;
// the response body is drained and discarded so the connection can be reused.
func (t *HTTPTransport) Send(ctx context.Context, body []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+ingestPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("transport: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %s: %w", ingestPath, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("transport: %s: unexpected status %d", ingestPath, resp.StatusCode)
	}
	return nil
}
