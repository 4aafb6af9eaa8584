// Command genspots generates a synthetic scored-habitat GeoJSON dataset for
// local development and test fixtures. It uses the actual domain matcher to
// report how the generated habitat text distributes across match tiers.
//
// Usage:
//
//	go run ./cmd/genspots -out data/fish_hab_type_wgs84_scored.geojson -count 500 -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/couchcryptid/bite-score-service/internal/domain"
)

// Muskoka / Kawartha lakes region.
const (
	minLat = 44.0
	maxLat = 45.8
	minLon = -80.0
	maxLon = -77.5
)

var habitatTexts = []string{
	"Walleye spawning habitat",
	"Walleye / pickerel shoal",
	"Smallmouth bass nursery area",
	"Lake trout rearing habitat",
	"Northern pike feeding flats",
	"Yellow perch nursery",
	"Spawning habitat",
	"Nursery and rearing area",
	"Feeding habitat",
	"Open water",
	"Rocky shoreline",
	"Vegetated bay",
}

var lakeNames = []string{
	"Lake Muskoka", "Lake Rosseau", "Lake Joseph", "Stony Lake",
	"Pigeon Lake", "Buckhorn Lake", "Balsam Lake", "Sturgeon Lake",
}

type feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the GeoJSON dataset")
	count := flag.Int("count", 500, "number of spot features to generate")
	seed := flag.Int64("seed", 42, "random seed for reproducible output")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, *count)}

	for i := 0; i < *count; i++ {
		lat := minLat + rng.Float64()*(maxLat-minLat)
		lon := minLon + rng.Float64()*(maxLon-minLon)
		habitat := habitatTexts[rng.Intn(len(habitatTexts))]

		// Log-normal-ish potential so the normalizer's log scale has
		// something realistic to chew on.
		potential := math.Exp(rng.NormFloat64()*1.2 + 2.0)

		props := map[string]any{
			"UNIQID":          i + 1,
			"LAKE_NAME":       lakeNames[rng.Intn(len(lakeNames))],
			"HABITAT_FE":      habitat,
			"HABITAT_DE":      "",
			"AREA":            50 + rng.Float64()*900,
			"potential_score": round2(potential),
		}
		if potential > 30 {
			props["potential_score_capped"] = 30.0
		}

		// A few features carry no centroid, mirroring gaps in the survey
		// export.
		if rng.Float64() > 0.03 {
			props["centroid_lat_wgs84"] = round5(lat)
			props["centroid_lon_wgs84"] = round5(lon)
		}

		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			Properties: props,
			Geometry:   geometry{Type: "Point", Coordinates: []float64{round5(lon), round5(lat)}},
		})
	}

	if err := writeJSON(*out, fc); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote %d spots: %s", *count, *out)

	printTierStats(fc)
	return nil
}

// printTierStats reports, per species, how generated habitat text lands on
// the match tiers.
func printTierStats(fc featureCollection) {
	for _, species := range domain.SupportedSpecies() {
		tiers := map[float64]int{}
		for _, f := range fc.Features {
			text, _ := f.Properties["HABITAT_FE"].(string)
			match := domain.MatchHabitat(species, text)
			tiers[match.Multiplier]++
		}
		log.Printf("%-8s known=%d favorable=%d generic=%d",
			species, tiers[1.5], tiers[1.0], tiers[0.5])
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round5(v float64) float64 { return math.Round(v*100000) / 100000 }
