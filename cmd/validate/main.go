// Command validate performs integrity checks across the snow, groundwater and
// AQI CSV datasets: each file loads with its schema, values fall in plausible
// ranges, key columns are populated, and the three datasets overlap on enough
// water years to correlate.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
//	go run ./cmd/validate -data-dir data/mock -snow snow.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/couchcryptid/envdata-hub/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory containing the dataset CSV files")
	snow := flag.String("snow", "reshaped_snow_depth.csv", "snow depth CSV, relative to -data-dir")
	groundwater := flag.String("groundwater", "fixed_ground_water_cleaned.csv", "groundwater CSV, relative to -data-dir")
	aqi := flag.String("aqi", "aqi_combined_1980_2024.csv", "AQI CSV, relative to -data-dir")
	flag.Parse()

	paths := map[string]string{
		domain.KindSnow:        filepath.Join(*dataDir, *snow),
		domain.KindGroundwater: filepath.Join(*dataDir, *groundwater),
		domain.KindAQI:         filepath.Join(*dataDir, *aqi),
	}
	if code := run(os.Stdout, paths); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, paths map[string]string) int {
	fmt.Fprintln(w, "=== Environmental Data Integrity Validation ===")
	fmt.Fprintln(w)

	loadPhase, sets := validateLoad(paths)
	phases := []*phase{
		loadPhase,
		validateRanges(sets),
		validateKeys(sets),
		validateJoinCoverage(sets),
	}

	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintfFunc()

	allPassed := true
	for _, p := range phases {
		status := pass("PASS")
		if !p.passed() {
			status = fail("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	for _, kind := range kinds {
		if ds := sets[kind]; ds != nil {
			fmt.Fprintf(w, "%s: %d rows\n", kind, ds.Len())
		}
	}

	for _, p := range phases {
		for _, n := range p.notes {
			fmt.Fprintf(w, "  Note: %s\n", n)
		}
	}
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}
