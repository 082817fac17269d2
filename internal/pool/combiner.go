package pool

import (
	"github.com/ptengelmann/ProfilanIQ/domain/profile"
)

// combine merges chunk partials by the task's strategy. Partials arrive in
// chunk order regardless of completion order, so every strategy yields a
// deterministic result.
func combine(taskName string, partials []interface{}) interface{} {
	switch taskName {
	case TaskProfileColumns:
		return combineColumnMaps(partials)
	case TaskCalculateCorrelations:
		return combineCorrelations(partials)
	default:
		return combineDefault(partials)
	}
}

// combineColumnMaps unions per-chunk column→stats maps. Chunks cover
// disjoint columns, so no key collides.
func combineColumnMaps(partials []interface{}) map[string]*profile.ColumnStats {
	merged := make(map[string]*profile.ColumnStats)
	for _, partial := range partials {
		m, ok := partial.(map[string]*profile.ColumnStats)
		if !ok {
			continue
		}
		for column, stats := range m {
			merged[column] = stats
		}
	}
	return merged
}

// combineCorrelations concatenates partial pair lists and re-derives the
// strength partitions over the union.
func combineCorrelations(partials []interface{}) *profile.Correlations {
	var all []profile.CorrelationPair
	for _, partial := range partials {
		pairs, ok := partial.([]profile.CorrelationPair)
		if !ok {
			continue
		}
		all = append(all, pairs...)
	}
	return profile.PartitionCorrelations(all)
}

// combineDefault concatenates slices, unions maps, and otherwise keeps the
// last partial seen.
func combineDefault(partials []interface{}) interface{} {
	var lists [][]interface{}
	var maps []map[string]interface{}
	var last interface{}

	for _, partial := range partials {
		if partial == nil {
			continue
		}
		switch v := partial.(type) {
		case []interface{}:
			lists = append(lists, v)
		case map[string]interface{}:
			maps = append(maps, v)
		default:
			last = v
		}
	}

	if len(lists) > 0 {
		var merged []interface{}
		for _, l := range lists {
			merged = append(merged, l...)
		}
		return merged
	}
	if len(maps) > 0 {
		merged := make(map[string]interface{})
		for _, m := range maps {
			for k, v := range m {
				merged[k] = v
			}
		}
		return merged
	}
	return last
}
