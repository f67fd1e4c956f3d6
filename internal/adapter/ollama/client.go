// Package ollama generates a narrative habitability assessment through a
// local Ollama instance. The model is optional infrastructure: when the
// daemon is down the adapter reports unavailability instead of failing.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

// Result is the outcome of one analysis request. Available is false when the
// daemon could not be reached or answered with an error; Error carries the
// reason.
type Result struct {
	Analysis  string `json:"analysis,omitempty"`
	Available bool   `json:"ollama_available"`
	Error     string `json:"error,omitempty"`
}

// Client talks to the Ollama HTTP API.
type Client struct {
	baseURL     string
	model       string
	httpClient  *http.Client
	probeClient *http.Client
	logger      *slog.Logger
}

// NewClient creates an Ollama client. Generation runs under timeout; the
// availability probe under probeTimeout, which should be much shorter so a
// dead daemon fails fast.
func NewClient(baseURL, model string, timeout, probeTimeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		httpClient:  &http.Client{Timeout: timeout},
		probeClient: &http.Client{Timeout: probeTimeout},
		logger:      logger,
	}
}

// Analyze produces an expert assessment of a scored planet record. Never
// returns an error: unavailability is part of the Result.
func (c *Client) Analyze(ctx context.Context, record domain.PlanetRecord) Result {
	if !c.probe(ctx) {
		return Result{Available: false, Error: "Ollama service not accessible"}
	}

	reqBody, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: buildPrompt(record),
		Stream: false,
		Options: generateOptions{
			Temperature: 0.7,
			TopP:        0.9,
		},
	})
	if err != nil {
		return Result{Available: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return Result{Available: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("ollama generate failed", "error", err)
		return Result{Available: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Available: false, Error: fmt.Sprintf("Ollama returned status %d", resp.StatusCode)}
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return Result{Available: false, Error: err.Error()}
	}

	return Result{Analysis: genResp.Response, Available: true}
}

// probe checks the daemon through its model listing endpoint.
func (c *Client) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// buildPrompt frames the record for an astrobiology assessment. Raw parameter
// structs go in as JSON so the model sees exactly the fields the scorer saw.
func buildPrompt(record domain.PlanetRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this exoplanet as an expert astrobiologist and planetary scientist.\n\n")
	fmt.Fprintf(&b, "PLANET: %s\n\n", record.Name)

	if h := record.Habitability; h != nil {
		fmt.Fprintf(&b, "HABITABILITY ASSESSMENT:\n")
		fmt.Fprintf(&b, "- Total score: %g/100\n", h.TotalScore)
		fmt.Fprintf(&b, "- Survival chance: %g%%\n", h.SurvivalChance)
		fmt.Fprintf(&b, "- Category: %s\n\n", h.Category)
		fmt.Fprintf(&b, "RISKS:\n%s\n\n", mustJSON(h.Risks))
	}

	fmt.Fprintf(&b, "PHYSICAL PARAMETERS:\n%s\n\n", mustJSON(record.PhysicalParams))
	fmt.Fprintf(&b, "ORBITAL PARAMETERS:\n%s\n\n", mustJSON(record.OrbitalParams))
	fmt.Fprintf(&b, "HOST STAR:\n%s\n\n", mustJSON(record.HostStar))
	fmt.Fprintf(&b, "DISCOVERY:\n%s\n\n", mustJSON(record.DiscoveryInfo))

	b.WriteString(`Provide a detailed analysis covering:

1. CLASSIFICATION
   - Planet type (rocky/gaseous/icy)
   - Comparison with Solar System planets

2. ENVIRONMENTAL CONDITIONS
   - Temperature regime
   - Gravity and its effects
   - Radiation environment

3. HABITABILITY POTENTIAL
   - Possibility of liquid water
   - Atmospheric conditions, if known
   - Tidal effects

4. COLONIZATION OUTLOOK
   - Required equipment
   - Main challenges
   - Long-term survivability

5. SCIENTIFIC VALUE
   - Unique features
   - Research significance

The response should be structured and scientific, yet accessible.`)

	return b.String()
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Ollama API request and response types.

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type generateResponse struct {
	Response string `json:"response"`
}
