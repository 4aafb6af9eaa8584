// Package domain models scored fishing-spot candidates and the bite-score
// heuristics applied to them.
//
// # Data Source
//
// Candidates originate from the Ontario fish habitat GeoJSON dataset
// (fish_hab_type_wgs84_scored.geojson), one feature per mapped habitat
// polygon. Each feature's properties carry:
//
//	UNIQID                  unique feature identifier
//	LAKE_NAME               display name (may be absent → "Unknown")
//	centroid_lat_wgs84      WGS-84 latitude of the polygon centroid
//	centroid_lon_wgs84      WGS-84 longitude of the polygon centroid
//	potential_score         raw habitat potential, non-negative, spans
//	                        several orders of magnitude
//	potential_score_capped  outlier-capped variant, preferred when present
//	HABITAT_FE              free-text habitat descriptor, e.g.
//	                        "Walleye spawning area" or "Nursery habitat"
//	HABITAT_DE              free-text habitat detail
//	AREA                    surface area of the polygon
//
// A value of 0 in potential_score means "unscored". Features missing a
// centroid are kept at load time and silently dropped when ranking filters
// by coordinates.
//
// # Score Normalization
//
// Raw potential values are mapped onto [0,100] with a logarithmic transform
// anchored to the dataset-wide min/max of strictly-positive values
// ([ScoreRange], computed once at load). The log scale is deliberate: a
// linear scale would collapse nearly every candidate toward zero. See
// [NormalizeScore].
//
// # Habitat Matching
//
// Species are matched against HABITAT_FE by case-insensitive substring
// lookup in a fixed synonym table (e.g. walleye → "pickerel"). The match is
// intentionally coarse, three tiers only:
//
//	1.5  species or a synonym named in the descriptor
//	1.0  a generic favorable term (spawning/nursery/feeding/rearing)
//	0.5  empty, unknown, or generic habitat
//
// # Bite Score
//
// The final score combines three 0–100 sub-scores:
//
//	0.50 × habitat + 0.30 × weather + 0.20 × time-of-day
//
// clamped to [0,100] and floored to an integer. Status thresholds are fixed:
// ≥75 Great, ≥55 Good, ≥35 Fair, else Poor. Weather and time rules are
// per-species heuristics (cool-water species favor 8–16 °C, low-light
// ambush predators peak outside 07–19 local, and so on); species missing
// from the rule tables fall back to neutral baselines. See
// [CalculateBiteScore].
//
// # Region Clustering
//
// Live weather is fetched per 0.5° grid cell ([RegionKey]), not per
// candidate, to bound outbound call volume. All candidates sharing a cell
// receive the identical reading within one ranking request. This is a
// deliberate precision trade-off: Open-Meteo's forecast resolution is far
// coarser than the spacing of neighbouring lakes.
package domain
