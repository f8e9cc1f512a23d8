package normalizer

import (
	"math"
	"sort"

	"golisting/domain/tabular"
)

// finalize sorts records descending by the profile's sort key and truncates
// to maxRows when positive. The sort is stable so ties keep their original
// relative order; records without a usable sort key rank below every real
// number.
func finalize(records []tabular.Record, profile tabular.Profile, maxRows int) []tabular.Record {
	keys := make([]float64, len(records))
	for i, record := range records {
		if f, ok := tabular.SortKeyValue(record, profile.SortKey); ok {
			keys[i] = f
		} else {
			keys[i] = math.Inf(-1)
		}
	}

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] > keys[order[b]]
	})

	sorted := make([]tabular.Record, len(records))
	for i, j := range order {
		sorted[i] = records[j]
	}

	if maxRows > 0 && len(sorted) > maxRows {
		sorted = sorted[:maxRows]
	}
	return sorted
}
