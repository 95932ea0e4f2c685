package sampleid

import "strings"

// labelRule matches a raw sequencing-core label by prefix, substring, or
// suffix (exactly one set per rule; none set means the rule always matches
// and acts as an explicit catch-all). Rules live in ordered tables; the first
// match decides the field, so precedence is visible in the table itself
// rather than buried in conditional chains.
type labelRule struct {
	Prefix string
	Substr string
	Suffix string
	Value  string
}

func (r labelRule) matches(label string) bool {
	switch {
	case r.Prefix != "":
		return strings.HasPrefix(label, r.Prefix)
	case r.Substr != "":
		return strings.Contains(label, r.Substr)
	case r.Suffix != "":
		return strings.HasSuffix(label, r.Suffix)
	}

	return true
}

func (r labelRule) catchAll() bool {
	return r.Prefix == "" && r.Substr == "" && r.Suffix == ""
}

// apply runs label through the table and returns the first matching rule's
// value. ok is false when only a catch-all matched (or nothing did), which is
// what strict derivation treats as unresolved.
func apply(table []labelRule, label string) (value string, ok bool) {
	for _, r := range table {
		if r.matches(label) {
			return r.Value, !r.catchAll()
		}
	}

	return "", false
}

// Cell-line rules. HM must precede the bare-M rule so HoxA9/Meis1 labels are
// not swallowed by the MLL-AF9 prefix.
var lineRules = []labelRule{
	{Prefix: "HM", Value: string(LineHM)},
	{Prefix: "M", Value: string(LineMLLAF9)},
	{Substr: "_plasmid", Value: string(LinePlasmid)},
	{Substr: "Water", Value: string(LineWater)},
	{Value: string(LineNA)},
}

// Transplant-status rules for second-run labels. First-run status comes from
// the table of origin (pre vs post export), not from the label. The final
// catch-all encodes the run's labeling convention: anything not claimed by a
// more specific pattern is a post-transplant sample.
var transplantSecondRules = []labelRule{
	{Substr: "_plasmid", Value: string(TransplantPlasmid)},
	{Substr: "Water", Value: string(TransplantWater)},
	{Substr: "_Pre_", Value: string(TransplantPre)},
	{Substr: "_vitro_", Value: string(TransplantVitro)},
	{Value: string(TransplantPost)},
}

// Gecko library marker rules. The first run fuses the marker into the mouse
// token ("HM.A12"); the second run writes it as its own dot-token
// ("HM.A_vitro_1.1"). A substring match covers both conventions.
var libraryRules = []labelRule{
	{Substr: ".A", Value: string(LibraryA)},
	{Substr: ".B", Value: string(LibraryB)},
	{Value: string(LibraryNA)},
}

// Technical-replicate rules, second run only: the core re-sequenced each
// sample and suffixed the first pass ".1". Everything else is the second
// pass. This is a binary scheme, not a general counter.
var replicateSecondRules = []labelRule{
	{Suffix: ".1", Value: "1"},
	{Value: "2"},
}
