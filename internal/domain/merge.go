package domain

import "sort"

// MergeDateGroups folds freshly aggregated groups into previously held ones
// and returns a new slice; neither input is mutated. Held objects always
// survive, and win over incoming duplicates of the same ID on the same date.
// Dates the incoming groups touch are re-sorted under the active policy;
// untouched held dates keep their object order exactly. The result is
// ordered by ascending date.
func MergeDateGroups(held, incoming []DateGroup, policy SortPolicy) []DateGroup {
	byDate := make(map[string][]NEO, len(held)+len(incoming))
	touched := make(map[string]bool, len(incoming))

	for _, g := range held {
		objects := make([]NEO, len(g.Objects))
		copy(objects, g.Objects)
		byDate[g.Date] = objects
	}

	for _, g := range incoming {
		touched[g.Date] = true
		existing := byDate[g.Date]
		seen := make(map[string]bool, len(existing))
		for _, obj := range existing {
			seen[obj.ID] = true
		}
		for _, obj := range g.Objects {
			if seen[obj.ID] {
				continue
			}
			seen[obj.ID] = true
			existing = append(existing, obj)
		}
		byDate[g.Date] = existing
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	merged := make([]DateGroup, 0, len(dates))
	for _, date := range dates {
		objects := byDate[date]
		if touched[date] {
			SortObjects(objects, policy)
		}
		merged = append(merged, DateGroup{Date: date, Count: len(objects), Objects: objects})
	}
	return merged
}
