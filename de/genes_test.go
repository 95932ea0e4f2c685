package de

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

var testConstructGenes = map[string]string{
	"c1": "g1",
	"c2": "g1",
	"c3": "g1",
	"c4": "g2",
	"c5": "g2",
	"c6": "g3",
}

func TestRobustlyDepletedMultiplicity(t *testing.T) {
	results := []Result{
		// g1: two distinct significant constructs -> called, once.
		{ConstructID: "c1", Log2FoldChange: -2.1, AdjustedP: 0.001},
		{ConstructID: "c2", Log2FoldChange: -1.4, AdjustedP: 0.02},
		{ConstructID: "c3", Log2FoldChange: -0.2, AdjustedP: 0.9},
		// g2: only one significant construct -> not called.
		{ConstructID: "c4", Log2FoldChange: -3.0, AdjustedP: 0.0001},
		{ConstructID: "c5", Log2FoldChange: 0.1, AdjustedP: 0.7},
		// g3: significant but enriched, not depleted -> not called.
		{ConstructID: "c6", Log2FoldChange: 2.0, AdjustedP: 0.001},
	}

	got := RobustlyDepleted(results, testConstructGenes, DefaultAlpha, DefaultMinConstructs)
	if !reflect.DeepEqual(got, []string{"g1"}) {
		t.Errorf("got %v, want [g1]", got)
	}
}

func TestRobustlyDepletedRepeatedConstructNotDouble(t *testing.T) {
	// The same construct reported twice is still one construct: the
	// multiplicity rule needs distinct guides.
	results := []Result{
		{ConstructID: "c1", Log2FoldChange: -2.1, AdjustedP: 0.001},
		{ConstructID: "c1", Log2FoldChange: -2.2, AdjustedP: 0.002},
	}

	if got := RobustlyDepleted(results, testConstructGenes, DefaultAlpha, DefaultMinConstructs); len(got) != 0 {
		t.Errorf("duplicate construct rows called a gene: %v", got)
	}
}

func TestSignificantlyDepleted(t *testing.T) {
	for _, v := range []struct {
		Result Result
		Want   bool
	}{
		{Result{ConstructID: "c1", Log2FoldChange: -1, AdjustedP: 0.01}, true},
		{Result{ConstructID: "c1", Log2FoldChange: -1, AdjustedP: 0.05}, false},
		{Result{ConstructID: "c1", Log2FoldChange: 1, AdjustedP: 0.01}, false},
		{Result{ConstructID: "c1", Log2FoldChange: -1, AdjustedP: math.NaN()}, false},
	} {
		if got := SignificantlyDepleted(v.Result, DefaultAlpha); got != v.Want {
			t.Errorf("%+v: got %v, want %v", v.Result, got, v.Want)
		}
	}
}

func TestHousekeepingGenesAndExclude(t *testing.T) {
	geneMap := map[string][]string{
		"g1": {"c1", "c2", "c3"},
		"g2": {"c4", "c5"},
	}
	flags := map[string]bool{"c1": true, "c2": true, "c4": true}

	hk := HousekeepingGenes(geneMap, flags, DefaultMinConstructs)
	if !hk["g1"] || hk["g2"] {
		t.Errorf("housekeeping tagging wrong: %v", hk)
	}

	genes := []string{"g1", "g2"}
	if got := ExcludeGenes(genes, hk); !reflect.DeepEqual(got, []string{"g2"}) {
		t.Errorf("exclusion wrong: %v", got)
	}
}

func TestWriteGeneList(t *testing.T) {
	var b strings.Builder
	if err := WriteGeneList(&b, []string{"g1", "g2"}); err != nil {
		t.Fatal(err)
	}

	if b.String() != "g1\ng2\n" {
		t.Errorf("list format: %q", b.String())
	}
}

func TestLoadResults(t *testing.T) {
	in := strings.Join([]string{
		"construct_id,log2FoldChange,padj",
		"c1,-2.5,0.001",
		"c2,NA,NA",
	}, "\n")

	results, err := LoadResults(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Log2FoldChange != -2.5 || results[0].AdjustedP != 0.001 {
		t.Errorf("numeric result parsed wrong: %+v", results[0])
	}
	if !math.IsNaN(results[1].AdjustedP) || !math.IsNaN(results[1].Log2FoldChange) {
		t.Errorf("NA result should parse to NaN: %+v", results[1])
	}
}
