// Package nasa queries the NASA Exoplanet Archive over its TAP synchronous
// endpoint.
package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// planetColumns is the archive projection used for every lookup. The ps table
// holds one row per parameter set; default_flag=1 selects the adopted one.
const planetColumns = "pl_name,hostname,tic_id,pl_bmasse,pl_bmassj,pl_rade,pl_radj,pl_dens,pl_eqt," +
	"pl_orbper,pl_orbsmax,pl_orbeccen,pl_orbincl,pl_orblper," +
	"st_mass,st_rad,st_teff,st_lum,st_met,st_age,st_spectype,sy_dist,ra,dec," +
	"discoverymethod,disc_year,disc_facility,disc_telescope"

// Client implements aggregate.ArchiveSource against the TAP sync endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an archive client. baseURL points at the /TAP/sync
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

// LookupByName finds the adopted parameter set for a planet by name. The
// match is case-insensitive and tolerates a missing letter suffix. Returns
// (nil, nil) when there is no match.
func (c *Client) LookupByName(ctx context.Context, name string) (map[string]any, error) {
	pattern := escapeADQL(strings.ToLower(strings.TrimSpace(name)))
	query := fmt.Sprintf(
		"SELECT TOP 1 %s FROM ps WHERE default_flag=1 AND (LOWER(pl_name) LIKE '%%%s%%' OR LOWER(hostname) LIKE '%%%s%%') ORDER BY pl_name",
		planetColumns, pattern, pattern)
	return c.doQuery(ctx, query)
}

// LookupByTIC finds the adopted parameter set for a planet by its TESS Input
// Catalog number. ticID is the bare number without the "TIC" prefix.
func (c *Client) LookupByTIC(ctx context.Context, ticID string) (map[string]any, error) {
	ident := escapeADQL("TIC " + strings.TrimSpace(ticID))
	query := fmt.Sprintf(
		"SELECT TOP 1 %s FROM ps WHERE default_flag=1 AND tic_id='%s' ORDER BY pl_name",
		planetColumns, ident)
	return c.doQuery(ctx, query)
}

func (c *Client) doQuery(ctx context.Context, adql string) (map[string]any, error) {
	params := url.Values{
		"query":  {adql},
		"format": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("archive API error: status %d: %s", resp.StatusCode, body)
	}

	// TAP json format is an array of row objects.
	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// escapeADQL doubles single quotes, the only metacharacter inside an ADQL
// string literal.
func escapeADQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
