// Package de is the boundary to the external differential-expression engine.
// The engine itself (negative-binomial GLM fitting, dispersion estimation,
// p-values) is not implemented here; this package documents the handoff
// shape, parses the engine's per-construct results, and applies the
// gene-level multiplicity rule to them.
package de

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/leukomics/geckoclean"
	"github.com/leukomics/geckoclean/bundle"
	"github.com/leukomics/geckoclean/screen"
)

// Engine fits a model to the cleaned counts. designFormula names sample
// metadata columns to control for; at minimum the total-depth covariate, the
// cell line, and the transplant status. Implementations are external; callers
// must not assume anything about the fitting internals.
type Engine interface {
	Fit(counts *screen.CountMatrix, samples []bundle.SampleMeta, designFormula string) ([]Result, error)
}

// Result is one construct's fitted statistics as reported by the engine.
type Result struct {
	ConstructID    string  `csv:"construct_id"`
	Log2FoldChange float64 `csv:"log2FoldChange"`
	AdjustedP      float64 `csv:"padj"`
}

// LoadResults parses an engine results table. Constructs the engine could
// not test (NA adjusted p) come back with AdjustedP = NaN and are never
// significant.
func LoadResults(r io.Reader) ([]Result, error) {
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

	type rawResult struct {
		ConstructID    string `csv:"construct_id"`
		Log2FoldChange string `csv:"log2FoldChange"`
		AdjustedP      string `csv:"padj"`
	}

	records := []*rawResult{}
	if err := gocsv.UnmarshalBytes(raw, &records); err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(records))
	for _, record := range records {
		out = append(out, Result{
			ConstructID:    record.ConstructID,
			Log2FoldChange: parseMaybeNA(record.Log2FoldChange),
			AdjustedP:      parseMaybeNA(record.AdjustedP),
		})
	}

	return out, nil
}

func parseMaybeNA(s string) float64 {
	if s == "" || s == "NA" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return v
}
