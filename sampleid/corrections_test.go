package sampleid

import "testing"

func TestApplyCorrections(t *testing.T) {
	ids := []Identity{
		Derive("M.A12", RunFirst, TransplantPost),
		Derive("M.A14", RunFirst, TransplantPost),
	}

	corrected := ApplyCorrections(ids, Corrections)

	if corrected[0].Library != LibraryB || corrected[0].Derived != "MLLAF9_B_post_12" {
		t.Errorf("M.A12 not corrected: %+v", corrected[0])
	}
	if corrected[1].Library != LibraryA || corrected[1].Derived != "MLLAF9_A_post_14" {
		t.Errorf("M.A14 should be untouched: %+v", corrected[1])
	}

	// The input is never mutated.
	if ids[0].Library != LibraryA || ids[0].Derived != "MLLAF9_A_post_12" {
		t.Errorf("input identity was mutated: %+v", ids[0])
	}
}

func TestApplyCorrectionsIdempotent(t *testing.T) {
	ids := []Identity{
		Derive("M.A12", RunFirst, TransplantPost),
		Derive("M.B13", RunFirst, TransplantPost),
		Derive("HM.A1", RunFirst, TransplantPost),
	}

	once := ApplyCorrections(ids, Corrections)
	twice := ApplyCorrections(once, Corrections)

	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("correction is not idempotent for %q: %+v vs %+v", ids[i].RawLabel, once[i], twice[i])
		}
	}
}
