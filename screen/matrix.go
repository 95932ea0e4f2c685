// Package screen implements the count-table cleaning pipeline for the
// transplantation screen: loading raw count exports, depth-based quality
// filtering of individual sequencing-run columns, and summing technical
// replicates into one column per canonical sample.
package screen

import "fmt"

// CountMatrix is a dense construct-by-sample count table. Rows are construct
// (guide) identifiers, unique within one Gecko library's namespace; columns
// are samples, labeled either with the raw sequencing-core label or, after
// aggregation, with the derived canonical sample key.
type CountMatrix struct {
	ConstructIDs []string
	Cols         []string
	Counts       [][]int64 // indexed [row][column]
}

// NewCountMatrix allocates a zero-filled matrix with the given row and column
// labels.
func NewCountMatrix(constructIDs, cols []string) *CountMatrix {
	m := &CountMatrix{
		ConstructIDs: constructIDs,
		Cols:         cols,
		Counts:       make([][]int64, len(constructIDs)),
	}
	for i := range m.Counts {
		m.Counts[i] = make([]int64, len(cols))
	}

	return m
}

// RowIndex maps each construct ID to its row offset.
func (m *CountMatrix) RowIndex() map[string]int {
	idx := make(map[string]int, len(m.ConstructIDs))
	for i, id := range m.ConstructIDs {
		idx[id] = i
	}

	return idx
}

// ColumnTotal sums all counts in column j.
func (m *CountMatrix) ColumnTotal(j int) int64 {
	var total int64
	for i := range m.Counts {
		total += m.Counts[i][j]
	}

	return total
}

// ColumnTotals returns the per-sample sequencing depth for every column.
func (m *CountMatrix) ColumnTotals() []int64 {
	totals := make([]int64, len(m.Cols))
	for j := range m.Cols {
		totals[j] = m.ColumnTotal(j)
	}

	return totals
}

// SelectColumns returns a new matrix holding only the columns at the given
// offsets, in the given order. The row set is unchanged.
func (m *CountMatrix) SelectColumns(offsets []int) *CountMatrix {
	cols := make([]string, 0, len(offsets))
	for _, j := range offsets {
		cols = append(cols, m.Cols[j])
	}

	out := NewCountMatrix(m.ConstructIDs, cols)
	for i := range m.Counts {
		for jj, j := range offsets {
			out.Counts[i][jj] = m.Counts[i][j]
		}
	}

	return out
}

// Concat appends b's columns after a's. Both matrices must describe the same
// construct rows; b's rows are reordered to a's order if needed. This is how
// the first run's pre- and post-transplant tables are combined, and how the
// second run's columns are appended before aggregation. Returns a
// RowMismatchError if the row sets differ.
func Concat(a, b *CountMatrix) (*CountMatrix, error) {
	if len(a.ConstructIDs) != len(b.ConstructIDs) {
		return nil, RowMismatchError{Detail: fmt.Sprintf("%d rows vs %d rows", len(a.ConstructIDs), len(b.ConstructIDs))}
	}

	bIdx := b.RowIndex()
	rowOf := make([]int, len(a.ConstructIDs))
	for i, id := range a.ConstructIDs {
		j, exists := bIdx[id]
		if !exists {
			return nil, RowMismatchError{Detail: fmt.Sprintf("construct %s present in only one table", id)}
		}
		rowOf[i] = j
	}

	cols := make([]string, 0, len(a.Cols)+len(b.Cols))
	cols = append(cols, a.Cols...)
	cols = append(cols, b.Cols...)

	out := NewCountMatrix(a.ConstructIDs, cols)
	for i := range a.Counts {
		copy(out.Counts[i], a.Counts[i])
		copy(out.Counts[i][len(a.Cols):], b.Counts[rowOf[i]])
	}

	return out, nil
}
