package sampleid

// Correction overrides the derived identity of one raw label. The list below
// is ground truth established by hand: in the first run's post-transplant
// prep, two MLL-AF9 tubes per library were swapped at the bench, so their
// labels carry the wrong Gecko library marker. The swap was confirmed by
// inspecting the read distributions of the affected samples against both
// libraries' construct sets. This is an auditable table of exceptions, not a
// correction mechanism; any newly discovered mislabeling gets its own entry.
type Correction struct {
	RawLabel string
	Library  Library
	Derived  string
	Note     string
}

var Corrections = []Correction{
	{
		RawLabel: "M.A12",
		Library:  LibraryB,
		Derived:  "MLLAF9_B_post_12",
		Note:     "bench swap with M.B12; reads map to Gecko B constructs",
	},
	{
		RawLabel: "M.A13",
		Library:  LibraryB,
		Derived:  "MLLAF9_B_post_13",
		Note:     "bench swap with M.B13; reads map to Gecko B constructs",
	},
	{
		RawLabel: "M.B12",
		Library:  LibraryA,
		Derived:  "MLLAF9_A_post_12",
		Note:     "bench swap with M.A12; reads map to Gecko A constructs",
	},
	{
		RawLabel: "M.B13",
		Library:  LibraryA,
		Derived:  "MLLAF9_A_post_13",
		Note:     "bench swap with M.A13; reads map to Gecko A constructs",
	},
}

// ApplyCorrections returns a copy of ids with every identity whose raw label
// appears in table overridden. It is a pure transform over the slice, applied
// exactly once between derivation and aggregation, and is idempotent: the
// override sets absolute values, so reapplying it changes nothing.
func ApplyCorrections(ids []Identity, table []Correction) []Identity {
	byLabel := make(map[string]Correction, len(table))
	for _, c := range table {
		byLabel[c.RawLabel] = c
	}

	out := make([]Identity, len(ids))
	copy(out, ids)
	for i := range out {
		c, exists := byLabel[out[i].RawLabel]
		if !exists {
			continue
		}
		out[i].Library = c.Library
		out[i].Derived = c.Derived
	}

	return out
}
