package arrivals

import (
	"sort"
)

// Merge concatenates per-source batches, keeping each source's order and the
// order of the sources themselves.
func Merge(batches ...Batch) Batch {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	merged := make(Batch, 0, total)
	for _, b := range batches {
		merged = append(merged, b...)
	}
	return merged
}

// SortByETA returns a copy of the batch sorted ascending by seconds to arrival.
// The sort is stable so equal ETAs keep their source order between refreshes.
func SortByETA(batch Batch) Batch {
	sorted := make(Batch, len(batch))
	copy(sorted, batch)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SecondsToArrival < sorted[j].SecondsToArrival
	})
	return sorted
}

// GroupByCategory splits the batch into per-category groups.
//
// With a non-empty order, exactly those categories are emitted in that order:
// categories missing from order are dropped, and listed categories with no
// arrivals still produce an empty group. With no order, every observed
// category is emitted in sorted order. Arrivals keep their batch order
// within a group.
func GroupByCategory(batch Batch, order []string) []Group {
	byCategory := make(map[string][]Arrival)
	for _, a := range batch {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	categories := order
	if len(categories) == 0 {
		categories = make([]string, 0, len(byCategory))
		for c := range byCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
	}

	groups := make([]Group, 0, len(categories))
	for _, c := range categories {
		groups = append(groups, Group{
			Category: c,
			Arrivals: byCategory[c],
		})
	}
	return groups
}
