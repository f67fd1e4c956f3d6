// Command score runs the habitability scorer offline against a raw NASA
// Exoplanet Archive row. It takes the same JSON shape the TAP service
// returns (one object or an array of objects) and prints the assessment,
// which makes it easy to sanity-check scoring changes without standing up
// the API.
//
// Usage:
//
//	go run ./cmd/score -input planet.json
//	curl -s '.../TAP/sync?query=...&format=json' | go run ./cmd/score
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

func main() {
	input := flag.String("input", "", "path to raw archive row JSON (default: stdin)")
	asJSON := flag.Bool("json", false, "emit the scored record as JSON instead of a report")
	flag.Parse()

	if code := run(*input, *asJSON); code != 0 {
		os.Exit(code)
	}
}

func run(inputPath string, asJSON bool) int {
	data, err := readInput(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		return 1
	}

	rows, err := parseRows(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse input: %v\n", err)
		return 1
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no rows in input")
		return 1
	}

	for i, row := range rows {
		record := buildRecord(row)
		score := domain.Score(record.PhysicalParams, record.OrbitalParams, record.HostStar)
		record.Habitability = &score

		if asJSON {
			out, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "marshal record: %v\n", err)
				return 1
			}
			fmt.Println(string(out))
			continue
		}

		if i > 0 {
			fmt.Println()
		}
		printReport(record)
	}
	return 0
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// parseRows accepts either a single archive row or an array of rows.
func parseRows(data []byte) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var rows []map[string]any
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	var row map[string]any
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return []map[string]any{row}, nil
}

func buildRecord(row map[string]any) domain.PlanetRecord {
	name := "Unknown"
	if v, ok := row["pl_name"].(string); ok && v != "" {
		name = v
	}
	return domain.PlanetRecord{
		Name:           name,
		PhysicalParams: domain.ExtractPhysicalParams(row),
		OrbitalParams:  domain.ExtractOrbitalParams(row),
		HostStar:       domain.ExtractHostStar(row, nil),
		DiscoveryInfo:  domain.ExtractDiscoveryInfo(row),
	}
}

func printReport(record domain.PlanetRecord) {
	h := record.Habitability

	fmt.Printf("=== %s ===\n", record.Name)
	fmt.Printf("Score:    %.1f/100 (%s)\n", h.TotalScore, h.Category)
	fmt.Printf("Survival: %.1f%%\n", h.SurvivalChance)

	fmt.Println("\nFactors:")
	for _, key := range []string{"temperature", "gravity", "radiation", "orbit", "type"} {
		f := h.Factors[key]
		fmt.Printf("  %-12s %5.1f  %s\n", key, f.Score, f.Status)
	}

	if len(h.Risks) > 0 {
		fmt.Println("\nRisks:")
		for _, r := range h.Risks {
			fmt.Printf("  - %s\n", r)
		}
	}
	if len(h.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range h.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
}
