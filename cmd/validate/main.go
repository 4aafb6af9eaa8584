// Command validate performs integrity checks on a scored-habitat GeoJSON
// dataset before it is deployed with the service: parseability, required
// fields, score range sanity, coordinate bounds, and habitat coverage per
// species.
//
// Usage:
//
//	go run ./cmd/validate -dataset data/fish_hab_type_wgs84_scored.geojson
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/observability"
	"github.com/couchcryptid/bite-score-service/internal/store"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataset := flag.String("dataset", "", "path to the scored GeoJSON dataset")
	flag.Parse()

	if *dataset == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataset); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Spot Dataset Integrity Validation ===")
	fmt.Println()

	s := store.New(path, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	if err := s.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	spots, scoreRange, err := s.Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: empty dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRequiredFields(spots),
		validateScoreRange(spots, scoreRange),
		validateCoordinateBounds(spots),
		validateHabitatCoverage(spots),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Spots: %d total, score range [%.2f, %.2f]\n", len(spots), scoreRange.Min, scoreRange.Max)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateRequiredFields(spots []domain.Spot) *phase {
	p := &phase{name: "Required fields"}
	for i, s := range spots {
		if s.ID == "" {
			p.errorf("spot %d: missing UNIQID", i)
		}
		if s.Name == "" {
			p.errorf("spot %d (%s): empty name", i, s.ID)
		}
	}
	return p
}

func validateScoreRange(spots []domain.Spot, r domain.ScoreRange) *phase {
	p := &phase{name: "Score range sanity"}
	if r.Min > r.Max {
		p.errorf("inverted score range [%.2f, %.2f]", r.Min, r.Max)
	}

	positive := 0
	for i, s := range spots {
		if s.RawPotential < 0 {
			p.errorf("spot %d (%s): negative potential %.2f", i, s.ID, s.RawPotential)
		}
		if s.RawPotential > 0 {
			positive++
		}
	}
	if positive == 0 {
		p.errorf("no spot has a positive potential score")
	}
	return p
}

func validateCoordinateBounds(spots []domain.Spot) *phase {
	p := &phase{name: "Coordinate bounds"}
	withCoords := 0
	for i, s := range spots {
		if !s.HasCoordinates {
			continue
		}
		withCoords++
		if s.Latitude < -90 || s.Latitude > 90 {
			p.errorf("spot %d (%s): latitude %.5f out of range", i, s.ID, s.Latitude)
		}
		if s.Longitude < -180 || s.Longitude > 180 {
			p.errorf("spot %d (%s): longitude %.5f out of range", i, s.ID, s.Longitude)
		}
	}
	if withCoords == 0 {
		p.errorf("no spot has coordinates, nothing is rankable")
	}
	return p
}

// validateHabitatCoverage warns when a supported species has no
// species-specific habitat anywhere in the dataset. Such a species would
// rank purely on generic tiers.
func validateHabitatCoverage(spots []domain.Spot) *phase {
	p := &phase{name: "Habitat coverage per species"}
	for _, species := range domain.SupportedSpecies() {
		known := 0
		var sample string
		for _, s := range spots {
			match := domain.MatchHabitat(species, s.Habitat)
			if match.Multiplier >= 1.5 {
				known++
				sample = match.Reason
			}
		}
		if known == 0 {
			p.errorf("%s: no species-specific habitat in dataset", species)
			continue
		}
		fmt.Printf("  %-8s %d spots (%s)\n", species, known, sample)
	}
	return p
}
