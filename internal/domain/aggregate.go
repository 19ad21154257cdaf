package domain

import "sort"

// SortPolicy selects the ordering of objects within each date group.
type SortPolicy string

const (
	// SortApproachAsc orders by nearest-approach epoch, soonest first.
	SortApproachAsc SortPolicy = "approach_asc"
	// SortApproachDesc orders by nearest-approach epoch, latest first.
	SortApproachDesc SortPolicy = "approach_desc"
	// SortSizeAsc orders by mean diameter, smallest first.
	SortSizeAsc SortPolicy = "size_asc"
	// SortSizeDesc orders by mean diameter, largest first.
	SortSizeDesc SortPolicy = "size_desc"
)

// DefaultSortPolicy applies when a caller does not name one.
const DefaultSortPolicy = SortApproachAsc

// ParseSortPolicy resolves a raw sort parameter. Empty means the default;
// anything else must name a known policy exactly.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch SortPolicy(s) {
	case "":
		return DefaultSortPolicy, nil
	case SortApproachAsc, SortApproachDesc, SortSizeAsc, SortSizeDesc:
		return SortPolicy(s), nil
	default:
		return "", &ValidationError{Param: "sort", Reason: "must be one of approach_asc, approach_desc, size_asc, size_desc"}
	}
}

// FeedOptions selects and orders the objects of an aggregated feed.
type FeedOptions struct {
	HazardousOnly bool
	Sort          SortPolicy
}

// AggregateFeed normalizes a validated feed payload into date groups ordered
// by ascending date. Within each group, objects are filtered by the hazard
// option and ordered by the sort policy. A date key whose objects are all
// filtered out still yields a group, with a zero count.
func AggregateFeed(payload *FeedPayload, opts FeedOptions) []DateGroup {
	if opts.Sort == "" {
		opts.Sort = DefaultSortPolicy
	}

	dates := make([]string, 0, len(payload.NearEarthObjects))
	for date := range payload.NearEarthObjects {
		dates = append(dates, date)
	}
	// ISO dates sort chronologically as strings.
	sort.Strings(dates)

	groups := make([]DateGroup, 0, len(dates))
	for _, date := range dates {
		raws := payload.NearEarthObjects[date]
		objects := make([]NEO, 0, len(raws))
		for _, raw := range raws {
			obj := NormalizeObject(raw)
			if opts.HazardousOnly && !obj.Hazardous {
				continue
			}
			objects = append(objects, obj)
		}
		SortObjects(objects, opts.Sort)
		groups = append(groups, DateGroup{Date: date, Count: len(objects), Objects: objects})
	}
	return groups
}

// SortObjects orders objects in place by the policy, stable. Objects missing
// the policy's key (no approaches for the approach policies, no diameter for
// the size policies) go last regardless of direction.
func SortObjects(objects []NEO, policy SortPolicy) {
	desc := policy == SortApproachDesc || policy == SortSizeDesc
	sort.SliceStable(objects, func(i, j int) bool {
		ki, iok := sortKey(&objects[i], policy)
		kj, jok := sortKey(&objects[j], policy)
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		if desc {
			return ki > kj
		}
		return ki < kj
	})
}

// sortKey extracts the policy's ordering key. The second return is false when
// the object has no usable key.
func sortKey(obj *NEO, policy SortPolicy) (float64, bool) {
	switch policy {
	case SortSizeAsc, SortSizeDesc:
		if obj.AvgDiameterKm == nil {
			return 0, false
		}
		return *obj.AvgDiameterKm, true
	default:
		if obj.NearestApproach == nil || obj.NearestApproach.EpochMillis == nil {
			return 0, false
		}
		return float64(*obj.NearestApproach.EpochMillis), true
	}
}
