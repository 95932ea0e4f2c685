// Package bundle persists the cleaned dataset: per Gecko library, the
// aggregated count matrix, the canonical sample metadata, and the construct
// annotation. The written files are the sole handoff to the external
// differential-expression engine.
package bundle

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/leukomics/geckoclean/annotate"
	"github.com/leukomics/geckoclean/sampleid"
	"github.com/leukomics/geckoclean/screen"
)

// SampleMeta is one canonical sample's metadata row, keyed by its derived
// identity. The DE engine's design formula names these columns.
type SampleMeta struct {
	Derived    string `csv:"derived"`
	Transplant string `csv:"transplant"`
	Line       string `csv:"line"`
	Library    string `csv:"library"`
	Mouse      string `csv:"mouse"`
}

// MetaFromIdentity reduces a derived identity to its persisted metadata row.
func MetaFromIdentity(id sampleid.Identity) SampleMeta {
	return SampleMeta{
		Derived:    id.Derived,
		Transplant: string(id.Transplant),
		Line:       string(id.Line),
		Library:    string(id.Library),
		Mouse:      id.Mouse,
	}
}

// Cleaned is the terminal artifact of one library's pipeline.
type Cleaned struct {
	Library    sampleid.Library
	Counts     *screen.CountMatrix
	Samples    []SampleMeta
	Constructs []annotate.Construct
}

func countsPath(dir string, lib sampleid.Library) string {
	return filepath.Join(dir, fmt.Sprintf("counts.%s.csv", lib))
}

func samplesPath(dir string, lib sampleid.Library) string {
	return filepath.Join(dir, fmt.Sprintf("samples.%s.csv", lib))
}

func constructsPath(dir string, lib sampleid.Library) string {
	return filepath.Join(dir, fmt.Sprintf("constructs.%s.csv", lib))
}

// Write persists the cleaned dataset under dir, one file per table, suffixed
// with the library name so the A and B pipelines never collide.
func Write(dir string, c Cleaned) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeCounts(countsPath(dir, c.Library), c.Counts); err != nil {
		return err
	}

	if err := marshalCSV(samplesPath(dir, c.Library), c.Samples); err != nil {
		return err
	}

	return marshalCSV(constructsPath(dir, c.Library), c.Constructs)
}

func writeCounts(path string, m *screen.CountMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"UID"}, m.Cols...)
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(m.Cols)+1)
	for i, id := range m.ConstructIDs {
		row[0] = id
		for j := range m.Cols {
			row[j+1] = strconv.FormatInt(m.Counts[i][j], 10)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func marshalCSV(path string, records interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(records, f)
}

// resetCSVReader pins gocsv back to the default comma reader. Other loaders
// in this module set run-specific delimiters on the same global, and bundle
// files are always written comma-separated.
func resetCSVReader() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return csv.NewReader(in)
	})
}

// ReadConstructs loads a previously written construct annotation table, used
// by the post-DE tooling to recover the gene map and housekeeping flags.
func ReadConstructs(dir string, lib sampleid.Library) ([]annotate.Construct, error) {
	f, err := os.Open(constructsPath(dir, lib))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	resetCSVReader()

	records := []*annotate.Construct{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, err
	}

	out := make([]annotate.Construct, 0, len(records))
	for _, record := range records {
		out = append(out, *record)
	}

	return out, nil
}

// ReadSamples loads a previously written sample metadata table.
func ReadSamples(dir string, lib sampleid.Library) ([]SampleMeta, error) {
	f, err := os.Open(samplesPath(dir, lib))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	resetCSVReader()

	records := []*SampleMeta{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, err
	}

	out := make([]SampleMeta, 0, len(records))
	for _, record := range records {
		out = append(out, *record)
	}

	return out, nil
}
