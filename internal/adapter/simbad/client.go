// Package simbad resolves astronomical object identifiers through the SIMBAD
// sim-id service.
package simbad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client implements aggregate.IdentSource against SIMBAD sim-id.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a SIMBAD client. baseURL points at the /simbad/sim-id
// endpoint.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Lookup resolves an identifier to a SIMBAD object record. SIMBAD answers
// unknown identifiers with an HTML error page instead of a JSON body; that is
// reported as no match, not as an error. Returns (nil, nil) when the object
// is unknown.
func (c *Client) Lookup(ctx context.Context, ident string) (map[string]any, error) {
	params := url.Values{
		"Ident":         {ident},
		"output.format": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("simbad request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("simbad API error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '<' {
		c.logger.Debug("simbad returned no object", "ident", ident)
		return nil, nil
	}

	var record map[string]any
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return record, nil
}
