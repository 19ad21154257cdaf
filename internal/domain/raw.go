package domain

// FeedPayload mirrors the NeoWs /feed response. The near_earth_objects map is
// keyed by ISO approach date; each key holds the raw objects approaching on
// that date.
type FeedPayload struct {
	ElementCount     int                    `json:"element_count"`
	NearEarthObjects map[string][]RawObject `json:"near_earth_objects"`
}

// RawObject mirrors one NeoWs object as received, from either the feed or the
// /neo/{id} lookup. Fields are pointers so that validation can distinguish an
// absent field from a zero value.
type RawObject struct {
	ID                *string        `json:"id"`
	Name              *string        `json:"name"`
	NasaJplURL        *string        `json:"nasa_jpl_url"`
	EstimatedDiameter *RawDiameter   `json:"estimated_diameter"`
	Hazardous         *bool          `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData []RawApproach  `json:"close_approach_data"`
	OrbitalData       map[string]any `json:"orbital_data"` // lookup responses only
}

// RawDiameter carries the kilometer bounds of the upstream estimate. NeoWs
// also reports meters, miles and feet; only kilometers are consumed here.
type RawDiameter struct {
	Kilometers *RawDiameterRange `json:"kilometers"`
}

// RawDiameterRange is an upstream min/max estimate pair.
type RawDiameterRange struct {
	Min *float64 `json:"estimated_diameter_min"`
	Max *float64 `json:"estimated_diameter_max"`
}

// RawApproach mirrors one close_approach_data entry. Velocity and distance
// are decimal strings upstream, not numbers.
type RawApproach struct {
	CloseApproachDate     *string      `json:"close_approach_date"`
	CloseApproachDateFull *string      `json:"close_approach_date_full"`
	EpochMillis           *int64       `json:"epoch_date_close_approach"`
	RelativeVelocity      *RawVelocity `json:"relative_velocity"`
	MissDistance          *RawDistance `json:"miss_distance"`
	OrbitingBody          *string      `json:"orbiting_body"`
}

// RawVelocity holds the string-encoded relative velocity readings.
type RawVelocity struct {
	KilometersPerSecond *string `json:"kilometers_per_second"`
}

// RawDistance holds the string-encoded miss distance readings.
type RawDistance struct {
	Kilometers *string `json:"kilometers"`
}
