package screen

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DefaultDepthThreshold is the empirically chosen minimum total read count a
// single sequencing-run column must exceed to be trusted. Runs at or below it
// are treated as failed.
const DefaultDepthThreshold = 100000

// FilterLowDepth drops columns whose total count does not exceed threshold.
// It must run on raw per-sequencing-run columns, before aggregation, so a
// failed run is discarded rather than summed into its sibling replicate.
// Retention is strict: a column totalling exactly threshold is dropped.
// Returns the filtered matrix and the labels of the dropped columns.
func FilterLowDepth(m *CountMatrix, threshold int64) (*CountMatrix, []string) {
	kept := make([]int, 0, len(m.Cols))
	dropped := make([]string, 0)
	for j := range m.Cols {
		if m.ColumnTotal(j) > threshold {
			kept = append(kept, j)
		} else {
			dropped = append(dropped, m.Cols[j])
		}
	}

	return m.SelectColumns(kept), dropped
}

// DepthSummary describes the distribution of per-column sequencing depths, so
// that filter decisions can be reviewed against the run as a whole.
type DepthSummary struct {
	Samples int
	Mean    float64
	SD      float64
	Median  float64
	Min     int64
	Max     int64
}

// SummarizeDepth computes the depth distribution over all columns of m.
func SummarizeDepth(m *CountMatrix) DepthSummary {
	totals := m.ColumnTotals()
	if len(totals) == 0 {
		return DepthSummary{}
	}

	asFloat := make([]float64, len(totals))
	min, max := totals[0], totals[0]
	for i, t := range totals {
		asFloat[i] = float64(t)
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}

	median, _ := stats.Median(asFloat)

	return DepthSummary{
		Samples: len(totals),
		Mean:    stat.Mean(asFloat, nil),
		SD:      stat.StdDev(asFloat, nil),
		Median:  median,
		Min:     min,
		Max:     max,
	}
}
