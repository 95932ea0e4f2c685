package screen

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leukomics/geckoclean"
)

// TotalRowLabel marks the artifact row the counting pipeline appends to every
// export; it is not a construct and is dropped on load.
const TotalRowLabel = "Total"

// excludedColumns are header names known to carry annotation rather than
// count data in the raw exports.
var excludedColumns = map[string]bool{
	"ID":        true,
	"Sequences": true,
	"Plate":     true,
	"UID":       true,
}

// LoadCounts reads one raw count export into a CountMatrix. The first column
// is promoted to the construct ID; the artifact "Total" row and the known
// non-count columns (ID, Sequences, Plate, UID) are stripped. The delimiter
// is sniffed because the two sequencing runs delivered differently formatted
// files. Returns a MalformedTableError if the table has no construct column
// or a count cell is not a non-negative integer.
func LoadCounts(r io.Reader) (*CountMatrix, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	delim := geckoclean.DetermineDelimiter(bytes.NewReader(raw))

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = delim
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 1 || len(records[0]) < 2 {
		return nil, MalformedTableError{Detail: "no construct-ID column or no count columns found in header"}
	}

	header := records[0]

	// Column 0 is the construct ID regardless of how (or whether) the export
	// names it. The remaining columns are counts unless excluded.
	keep := make([]int, 0, len(header)-1)
	cols := make([]string, 0, len(header)-1)
	for j := 1; j < len(header); j++ {
		name := strings.TrimSpace(header[j])
		if excludedColumns[name] {
			continue
		}
		keep = append(keep, j)
		cols = append(cols, name)
	}

	if len(keep) == 0 {
		return nil, MalformedTableError{Detail: "no count columns remain after exclusions"}
	}

	constructIDs := make([]string, 0, len(records)-1)
	counts := make([][]int64, 0, len(records)-1)
	for rowNum, record := range records[1:] {
		id := strings.TrimSpace(record[0])
		if id == TotalRowLabel {
			continue
		}
		if id == "" {
			return nil, MalformedTableError{Detail: fmt.Sprintf("row %d has an empty construct ID", rowNum+1)}
		}

		row := make([]int64, len(keep))
		for jj, j := range keep {
			if j >= len(record) {
				return nil, MalformedTableError{Detail: fmt.Sprintf("row %d (%s) is short: %d fields", rowNum+1, id, len(record))}
			}
			v, err := strconv.ParseInt(strings.TrimSpace(record[j]), 10, 64)
			if err != nil || v < 0 {
				return nil, MalformedTableError{Detail: fmt.Sprintf("row %d (%s) column %q is not a non-negative count: %q", rowNum+1, id, cols[jj], record[j])}
			}
			row[jj] = v
		}

		constructIDs = append(constructIDs, id)
		counts = append(counts, row)
	}

	return &CountMatrix{ConstructIDs: constructIDs, Cols: cols, Counts: counts}, nil
}
