package annotate

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/leukomics/geckoclean/screen"
)

// DefaultHousekeepingThreshold is the mean in-vitro count below which a
// construct is considered depleted without any transplantation stress, and
// therefore suspected to target a gene required for baseline viability.
const DefaultHousekeepingThreshold = 10

// ErrNoVitroSamples means housekeeping status cannot be decided at all: with
// no in-vitro columns surviving the pipeline there is no baseline to compare
// against, and silently tagging everything "not housekeeping" would be wrong.
var ErrNoVitroSamples = errors.New("no in-vitro samples available for housekeeping tagging")

// TagHousekeeping flags each construct whose mean count across the aggregated
// in-vitro columns falls below threshold. vitroCols names the columns of m
// whose canonical samples carry vitro transplant status.
func TagHousekeeping(m *screen.CountMatrix, vitroCols []string, threshold float64) (map[string]bool, error) {
	if len(vitroCols) == 0 {
		return nil, ErrNoVitroSamples
	}

	colIdx := make(map[string]int, len(m.Cols))
	for j, col := range m.Cols {
		colIdx[col] = j
	}

	offsets := make([]int, 0, len(vitroCols))
	for _, col := range vitroCols {
		j, exists := colIdx[col]
		if !exists {
			return nil, fmt.Errorf("vitro column %q not present in the aggregated matrix", col)
		}
		offsets = append(offsets, j)
	}

	flags := make(map[string]bool, len(m.ConstructIDs))
	vitroCounts := make([]float64, len(offsets))
	for i, id := range m.ConstructIDs {
		for k, j := range offsets {
			vitroCounts[k] = float64(m.Counts[i][j])
		}

		mean, err := stats.Mean(vitroCounts)
		if err != nil {
			return nil, err
		}

		flags[id] = mean < threshold
	}

	return flags, nil
}

// ApplyHousekeeping copies the tag flags onto the construct records.
func ApplyHousekeeping(constructs []Construct, flags map[string]bool) []Construct {
	out := make([]Construct, len(constructs))
	copy(out, constructs)
	for i := range out {
		out[i].Housekeeping = flags[out[i].ConstructID]
	}

	return out
}
