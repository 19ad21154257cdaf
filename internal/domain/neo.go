package domain

// Approach is a single normalized close approach. Every field except the
// owning object is optional upstream, so every field is a pointer: nil means
// absent or unparseable, and survives JSON round-trips as null.
type Approach struct {
	// Datetime prefers the full timestamp ("2025-Aug-19 14:58") and falls
	// back to the date-only form ("2025-08-19").
	Datetime *string `json:"datetime"`
	// EpochMillis is the approach time in Unix milliseconds, the only
	// upstream encoding that sorts reliably.
	EpochMillis  *int64   `json:"epoch_millis"`
	VelocityKps  *float64 `json:"velocity_kps"`
	MissKm       *float64 `json:"miss_km"`
	OrbitingBody *string  `json:"orbiting_body,omitempty"`
}

// NEO is the normalized view of a near-earth object.
//
// Feed normalization fills the summary fields and NearestApproach only;
// detail normalization additionally fills Approaches (every approach, nearest
// first) and, on request, OrbitalParameters.
type NEO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Hazardous bool   `json:"hazardous"`

	// AvgDiameterKm is the mean of the estimated kilometer bounds, nil when
	// either bound is missing.
	AvgDiameterKm *float64 `json:"avg_diameter_km"`

	// NearestApproach is the approach with the smallest epoch, nil only when
	// the object has no approaches at all.
	NearestApproach *Approach `json:"nearest_approach"`

	// ApproachesCount counts upstream approaches, including ones whose
	// fields were unparseable.
	ApproachesCount int `json:"approaches_count"`

	ReferenceURL *string `json:"reference_url,omitempty"`

	Approaches        []Approach     `json:"approaches,omitempty"`
	OrbitalParameters map[string]any `json:"orbital_parameters,omitempty"`
}

// DateGroup is one approach date's worth of normalized objects, ordered by
// the sort policy that produced it.
type DateGroup struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Objects []NEO  `json:"objects"`
}

// TotalObjects sums the object counts across groups.
func TotalObjects(groups []DateGroup) int {
	total := 0
	for _, g := range groups {
		total += len(g.Objects)
	}
	return total
}
