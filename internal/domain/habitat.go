package domain

import "strings"

// speciesSynonyms maps each supported species to the names it appears under
// in HABITAT_FE descriptors. Matching is case-insensitive substring lookup.
var speciesSynonyms = map[string][]string{
	"walleye": {"walleye", "pickerel", "yellow pickerel"},
	"bass":    {"bass", "smallmouth", "largemouth", "smallmouth bass", "largemouth bass"},
	"trout":   {"trout", "brook trout", "rainbow trout", "lake trout"},
	"pike":    {"pike", "northern pike", "muskellunge", "muskie", "gar pike"},
	"perch":   {"perch", "yellow perch"},
}

// favorableTerms are habitat functions worth a partial match even without a
// species-specific mention.
var favorableTerms = []string{"spawning", "nursery", "feeding", "rearing"}

// SupportedSpecies returns the species with dedicated synonym and rule
// tables, in a fixed order.
func SupportedSpecies() []string {
	return []string{"walleye", "bass", "trout", "pike", "perch"}
}

// SpeciesDescriptions summarizes each species' bite behaviour for API
// consumers.
func SpeciesDescriptions() map[string]string {
	return map[string]string{
		"walleye": "Best in low light, falling pressure",
		"bass":    "Active in warm water, dawn/dusk",
		"trout":   "Prefer cool water (8-16°C)",
		"pike":    "Ambush predators, active in moderate temps",
		"perch":   "Stable pressure, moderate temps",
	}
}

// MatchHabitat grades how well a habitat descriptor fits a species.
// First hit wins: empty text → 0.5 unknown; species synonym → 1.5;
// generic favorable term → 1.0; otherwise → 0.5. No partial tiers.
func MatchHabitat(species, habitatText string) HabitatMatch {
	if habitatText == "" {
		return HabitatMatch{Multiplier: 0.5, Reason: "Unknown habitat"}
	}

	habitatLower := strings.ToLower(habitatText)

	for _, kw := range speciesSynonyms[species] {
		if strings.Contains(habitatLower, kw) {
			return HabitatMatch{Multiplier: 1.5, Reason: "Known " + species + " habitat"}
		}
	}

	for _, term := range favorableTerms {
		if strings.Contains(habitatLower, term) {
			return HabitatMatch{Multiplier: 1.0, Reason: "Favorable habitat type"}
		}
	}

	return HabitatMatch{Multiplier: 0.5, Reason: "Generic habitat"}
}
