package annotate

import (
	"errors"
	"testing"

	"github.com/leukomics/geckoclean/screen"
)

func TestTagHousekeeping(t *testing.T) {
	m := screen.NewCountMatrix(
		[]string{"zeroed", "borderline", "healthy"},
		[]string{"HM_A_vitro_none", "MLLAF9_A_vitro_none", "HM_A_post_1"},
	)
	// vitro counts per construct: zeroed {0,0}, borderline {9,10}, healthy {10,10}.
	// The post column is loud for every construct and must be ignored.
	m.Counts[0] = []int64{0, 0, 90000}
	m.Counts[1] = []int64{9, 10, 90000}
	m.Counts[2] = []int64{10, 10, 90000}

	flags, err := TagHousekeeping(m, []string{"HM_A_vitro_none", "MLLAF9_A_vitro_none"}, DefaultHousekeepingThreshold)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct {
		ConstructID  string
		Housekeeping bool
	}{
		{"zeroed", true},      // mean 0 < 10
		{"borderline", true},  // mean 9.5 < 10
		{"healthy", false},    // mean 10 is not < 10
	} {
		if flags[v.ConstructID] != v.Housekeeping {
			t.Errorf("%s: housekeeping = %v, want %v", v.ConstructID, flags[v.ConstructID], v.Housekeeping)
		}
	}
}

func TestTagHousekeepingNoVitro(t *testing.T) {
	m := screen.NewCountMatrix([]string{"c1"}, []string{"HM_A_post_1"})

	if _, err := TagHousekeeping(m, nil, DefaultHousekeepingThreshold); !errors.Is(err, ErrNoVitroSamples) {
		t.Errorf("expected ErrNoVitroSamples, got %v", err)
	}
}

func TestTagHousekeepingUnknownColumn(t *testing.T) {
	m := screen.NewCountMatrix([]string{"c1"}, []string{"HM_A_post_1"})

	if _, err := TagHousekeeping(m, []string{"HM_A_vitro_none"}, DefaultHousekeepingThreshold); err == nil {
		t.Error("expected an error for a vitro column missing from the matrix")
	}
}

func TestApplyHousekeeping(t *testing.T) {
	constructs := []Construct{
		{ConstructID: "c1", GeneID: "g1"},
		{ConstructID: "c2", GeneID: "g1"},
	}

	tagged := ApplyHousekeeping(constructs, map[string]bool{"c2": true})
	if tagged[0].Housekeeping || !tagged[1].Housekeeping {
		t.Errorf("flags applied wrong: %+v", tagged)
	}
	if constructs[1].Housekeeping {
		t.Error("input slice was mutated")
	}
}
