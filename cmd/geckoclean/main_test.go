package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/leukomics/geckoclean/sampleid"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRunPipeline(t *testing.T) {
	dir := t.TempDir()

	run1Pre := writeTestFile(t, dir, "run1pre.csv",
		"UID,HM.A1\n"+
			"c1,100\n"+
			"c2,200\n"+
			"c3,300\n"+
			"Total,600\n")

	// M.A12 is one of the bench-swapped tubes; HM.A9 is a failed run that
	// must fall to the depth filter before aggregation.
	run1Post := writeTestFile(t, dir, "run1post.csv",
		"UID,HM.A1,M.A12,HM.A9\n"+
			"c1,50,10,1\n"+
			"c2,60,20,0\n"+
			"c3,70,30,0\n")

	// Two technical replicates of the in-vitro culture, plus a re-sequenced
	// pre-transplant sample that merges with the first run's HM.A1 pre column.
	run2 := writeTestFile(t, dir, "run2.csv",
		"UID\tHM.A_vitro_1.1\tHM.A_vitro_1.2\tHM.A_Pre_1.1\n"+
			"c1\t0\t0\t5\n"+
			"c2\t30\t30\t5\n"+
			"c3\t12\t4\t5\n")

	constructs := writeTestFile(t, dir, "constructs.csv",
		"UID,gene_id,seq\n"+
			"c1,GENE1,AAAA\n"+
			"c2,GENE1,CCCC\n"+
			"c3,GENE2,GGGG\n"+
			"c9,GENE9,TTTT\n")

	cleaned, err := runPipeline(sampleid.LibraryA, run1Pre, run1Post, run2, constructs, 10, 10, false)
	if err != nil {
		t.Fatal(err)
	}

	wantCols := []string{"HM_A_post_1", "HM_A_pre_1", "HM_A_vitro_none", "MLLAF9_B_post_12"}
	if !reflect.DeepEqual(cleaned.Counts.Cols, wantCols) {
		t.Fatalf("canonical samples: got %v, want %v", cleaned.Counts.Cols, wantCols)
	}

	// The first run's pre column and the second run's re-sequenced pre
	// replicate are the same mouse and must be summed.
	if got := cleaned.Counts.Counts[0][1]; got != 105 {
		t.Errorf("c1 pre sum: got %d, want 105", got)
	}
	if got := cleaned.Counts.Counts[2][1]; got != 305 {
		t.Errorf("c3 pre sum: got %d, want 305", got)
	}

	// Both vitro technical replicates collapse into one canonical column.
	if got := cleaned.Counts.Counts[1][2]; got != 60 {
		t.Errorf("c2 vitro sum: got %d, want 60", got)
	}

	// The swapped tube carries its corrected identity.
	foundCorrected := false
	for _, s := range cleaned.Samples {
		if s.Derived == "MLLAF9_B_post_12" {
			foundCorrected = true
			// The corrected library assignment is B even though the column
			// arrived in library A's export.
			if s.Library != "B" {
				t.Errorf("corrected sample metadata: %+v", s)
			}
		}
	}
	if !foundCorrected {
		t.Error("corrected sample missing from metadata")
	}

	// Housekeeping is decided against the vitro baseline only: c1 is silent
	// in vitro, c2 and c3 are not.
	flags := make(map[string]bool)
	for _, c := range cleaned.Constructs {
		flags[c.ConstructID] = c.Housekeeping
	}
	if !flags["c1"] || flags["c2"] || flags["c3"] {
		t.Errorf("housekeeping flags wrong: %v", flags)
	}

	// The unseen reference entry c9 must not appear in the annotation.
	if len(cleaned.Constructs) != 3 {
		t.Errorf("expected 3 annotated constructs, got %d", len(cleaned.Constructs))
	}
}

func TestRunPipelineStrictRejectsFallback(t *testing.T) {
	dir := t.TempDir()

	run1Pre := writeTestFile(t, dir, "run1pre.csv", "UID,HM.A1\nc1,100\n")
	run1Post := writeTestFile(t, dir, "run1post.csv", "UID,HM.A1\nc1,100\n")
	// A second-run label only the post fallback can classify.
	run2 := writeTestFile(t, dir, "run2.csv", "UID,HM.A_odd_1\nc1,100\n")
	constructs := writeTestFile(t, dir, "constructs.csv", "UID,gene_id,seq\nc1,GENE1,AAAA\n")

	if _, err := runPipeline(sampleid.LibraryA, run1Pre, run1Post, run2, constructs, 10, 10, true); err == nil {
		t.Error("expected strict mode to reject the fallback-only label")
	}
}
