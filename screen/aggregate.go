package screen

import (
	"fmt"
	"sort"
)

// AggregateReport records what the aggregator did with each input column, so
// sample loss is observable rather than silent.
type AggregateReport struct {
	// Groups maps each derived canonical key to the raw column labels summed
	// into it.
	Groups map[string][]string
	// Dropped lists columns whose identity could not be resolved to a valid
	// derived key and which therefore contributed to no group.
	Dropped []string
}

// Aggregate sums columns that share a derived canonical sample key, collapsing
// technical replicates and repeat sequencing runs into one column per true
// biological sample. derived[j] holds the canonical key for column j, or the
// empty string when the identity could not be resolved; unresolved columns are
// dropped and reported, never summed. Output columns are the distinct derived
// keys in sorted order, so the result is independent of input column order.
// The construct row set is unchanged.
func Aggregate(m *CountMatrix, derived []string) (*CountMatrix, *AggregateReport, error) {
	if len(derived) != len(m.Cols) {
		return nil, nil, fmt.Errorf("aggregate: %d derived keys for %d columns", len(derived), len(m.Cols))
	}

	report := &AggregateReport{Groups: make(map[string][]string)}

	groupCols := make(map[string][]int)
	for j, key := range derived {
		if key == "" {
			report.Dropped = append(report.Dropped, m.Cols[j])
			continue
		}
		groupCols[key] = append(groupCols[key], j)
		report.Groups[key] = append(report.Groups[key], m.Cols[j])
	}

	keys := make([]string, 0, len(groupCols))
	for key := range groupCols {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := NewCountMatrix(m.ConstructIDs, keys)
	for k, key := range keys {
		members := groupCols[key]
		if len(members) == 0 {
			return nil, nil, EmptyGroupError{Derived: key}
		}
		for i := range m.Counts {
			var sum int64
			for _, j := range members {
				sum += m.Counts[i][j]
			}
			out.Counts[i][k] = sum
		}
	}

	return out, report, nil
}
