// Package annotate ties constructs back to genes: it loads the Gecko library
// reference tables and flags constructs whose behavior in untreated in-vitro
// samples marks them as likely housekeeping hits.
package annotate

import (
	"bytes"
	"encoding/csv"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/leukomics/geckoclean"
)

// Construct is one reagent (guide) from a Gecko library reference table.
// Construct IDs are unique only within one library's namespace; many
// constructs map to the same gene.
type Construct struct {
	ConstructID  string `csv:"UID"`
	GeneID       string `csv:"gene_id"`
	Sequence     string `csv:"seq"`
	Housekeeping bool   `csv:"housekeeping"`
}

// LoadConstructs reads a Gecko library reference table and keeps only the
// constructs in validIDs, the IDs actually observed in the count tables, so
// the annotation never carries orphaned entries. Pure transform, no side
// effects.
func LoadConstructs(r io.Reader, validIDs map[string]bool) ([]Construct, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	delim := geckoclean.DetermineDelimiter(bytes.NewReader(raw))

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = delim
		cr.LazyQuotes = true
		return cr
	})

	records := []*Construct{}
	if err := gocsv.UnmarshalBytes(raw, &records); err != nil {
		return nil, err
	}

	out := make([]Construct, 0, len(records))
	for _, record := range records {
		if !validIDs[record.ConstructID] {
			continue
		}
		out = append(out, *record)
	}

	return out, nil
}

// GeneMap groups construct IDs by gene, sorted for stable iteration.
func GeneMap(constructs []Construct) map[string][]string {
	out := make(map[string][]string)
	for _, c := range constructs {
		out[c.GeneID] = append(out[c.GeneID], c.ConstructID)
	}
	for gene := range out {
		sort.Strings(out[gene])
	}

	return out
}

// ConstructGenes maps each construct ID to its gene.
func ConstructGenes(constructs []Construct) map[string]string {
	out := make(map[string]string, len(constructs))
	for _, c := range constructs {
		out[c.ConstructID] = c.GeneID
	}

	return out
}
