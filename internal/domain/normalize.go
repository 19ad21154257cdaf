package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// NormalizeObject converts a validated raw object into its feed summary view:
// identity, hazard flag, mean diameter, nearest approach, and approach count.
// The full approach list is left out; feed consumers only need the nearest.
func NormalizeObject(raw RawObject) NEO {
	return normalizeRecord(raw, false, false)
}

// NormalizeDetail converts a validated raw lookup object into its detail
// view: everything the feed view has, plus every approach ordered nearest
// first and, when requested, the upstream orbital parameters verbatim.
func NormalizeDetail(raw RawObject, includeOrbital bool) NEO {
	return normalizeRecord(raw, true, includeOrbital)
}

func normalizeRecord(raw RawObject, fullApproaches, includeOrbital bool) NEO {
	approaches := make([]Approach, 0, len(raw.CloseApproachData))
	for _, a := range raw.CloseApproachData {
		approaches = append(approaches, NormalizeApproach(a))
	}
	sortApproachesByEpoch(approaches)

	obj := NEO{
		ID:              derefString(raw.ID),
		Name:            derefString(raw.Name),
		Hazardous:       raw.Hazardous != nil && *raw.Hazardous,
		AvgDiameterKm:   averageDiameterKm(raw.EstimatedDiameter),
		ApproachesCount: len(raw.CloseApproachData),
		ReferenceURL:    optString(raw.NasaJplURL),
	}
	if len(approaches) > 0 {
		nearest := approaches[0]
		obj.NearestApproach = &nearest
	}
	if fullApproaches {
		obj.Approaches = approaches
	}
	if includeOrbital && len(raw.OrbitalData) > 0 {
		obj.OrbitalParameters = raw.OrbitalData
	}
	return obj
}

// NormalizeApproach converts one raw close approach. Each field degrades
// independently: an unparseable velocity nulls only the velocity, leaving the
// rest of the approach intact.
func NormalizeApproach(raw RawApproach) Approach {
	a := Approach{
		EpochMillis:  copyInt64(raw.EpochMillis),
		OrbitingBody: optString(raw.OrbitingBody),
	}

	// Prefer the full timestamp, fall back to the date-only form.
	if dt := optString(raw.CloseApproachDateFull); dt != nil {
		a.Datetime = dt
	} else {
		a.Datetime = optString(raw.CloseApproachDate)
	}

	if raw.RelativeVelocity != nil {
		a.VelocityKps = parseDecimal(raw.RelativeVelocity.KilometersPerSecond)
	}
	if raw.MissDistance != nil {
		a.MissKm = parseDecimal(raw.MissDistance.Kilometers)
	}
	return a
}

// sortApproachesByEpoch orders approaches by epoch ascending, nil epochs
// after every dated one. The sort is stable so equal or missing epochs keep
// their upstream order.
func sortApproachesByEpoch(approaches []Approach) {
	sort.SliceStable(approaches, func(i, j int) bool {
		a, b := approaches[i].EpochMillis, approaches[j].EpochMillis
		if (a == nil) != (b == nil) {
			return a != nil
		}
		if a == nil {
			return false
		}
		return *a < *b
	})
}

// averageDiameterKm returns the mean of the estimated kilometer bounds, nil
// when either bound is absent.
func averageDiameterKm(d *RawDiameter) *float64 {
	if d == nil || d.Kilometers == nil || d.Kilometers.Min == nil || d.Kilometers.Max == nil {
		return nil
	}
	avg := (*d.Kilometers.Min + *d.Kilometers.Max) / 2
	return &avg
}

// parseDecimal parses a string-encoded decimal, returning nil on failure.
// NaN and the infinities count as failures: normalized numerics are null or
// finite, never a sentinel.
func parseDecimal(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// optString copies a string pointer, collapsing nil and blank to nil.
func optString(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
