// Package sampleid reconciles the free-text sample labels emitted by two
// sequencing runs into structured, canonical sample identities. Labels were
// hand-entered at the bench with two different conventions; everything here
// exists to turn that inconsistency into a deterministic derived key that the
// aggregator can group on.
package sampleid

import (
	"fmt"
	"regexp"
	"strings"
)

type Run string

const (
	RunFirst  Run = "first"
	RunSecond Run = "second"
)

type Transplant string

const (
	TransplantPre     Transplant = "pre"
	TransplantPost    Transplant = "post"
	TransplantVitro   Transplant = "vitro"
	TransplantPlasmid Transplant = "plasmid"
	TransplantWater   Transplant = "water"
)

type Line string

const (
	LineHM      Line = "HM"
	LineMLLAF9  Line = "MLLAF9"
	LinePlasmid Line = "plasmid"
	LineWater   Line = "water"
	LineNA      Line = "NA"
)

type Library string

const (
	LibraryA  Library = "A"
	LibraryB  Library = "B"
	LibraryNA Library = "NA"
)

// Mouse sentinels. The two cases are deliberately distinct: a control sample
// has no mouse by design, while a pre/post label with no trailing digits is a
// parse failure that should be surfaced, not quietly treated as a control.
const (
	MouseNotApplicable = "none"
	MouseUnknown       = "NA"
)

// Identity is the structured metadata derived from one raw sample label.
type Identity struct {
	RawLabel   string
	Run        Run
	Line       Line
	Library    Library
	Transplant Transplant
	Mouse      string
	Replicate  string

	// Derived is the canonical sample key: all raw samples sharing it are
	// measurements of the same biological sample and must be summed together.
	Derived string
}

// Valid reports whether the identity resolved completely enough to take part
// in aggregation. Invalid identities never match a derived group and are
// dropped (and reported) by the caller.
func (id Identity) Valid() bool {
	return id.Line != LineNA && id.Library != LibraryNA && id.Mouse != MouseUnknown
}

// DerivedKey joins the identity fields into the canonical aggregation key.
func DerivedKey(line Line, library Library, transplant Transplant, mouse string) string {
	return strings.Join([]string{string(line), string(library), string(transplant), mouse}, "_")
}

var trailingDigits = regexp.MustCompile(`[0-9]+$`)

// replicateSuffix strips the second run's technical-replicate token so it is
// not mistaken for a mouse number.
var replicateSuffix = regexp.MustCompile(`\.[12]$`)

// Derive computes the structured identity for one raw label. It is a pure
// function; every unmatched categorical field degrades to its NA sentinel
// rather than failing, and the caller decides what to do with incomplete
// identities. origin is the timepoint of the table the column came from and
// is only consulted for first-run labels, whose exports were split into
// separate pre and post files.
func Derive(rawLabel string, run Run, origin Transplant) Identity {
	id, _ := derive(rawLabel, run, origin)
	return id
}

// DeriveStrict is Derive with the default fallbacks disabled: any field that
// would have been decided by a catch-all rule (or an NA sentinel) is an
// UnresolvedIdentityError instead. Use it when a new label format showing up
// should stop the pipeline rather than be silently classified.
func DeriveStrict(rawLabel string, run Run, origin Transplant) (Identity, error) {
	return derive(rawLabel, run, origin)
}

func derive(rawLabel string, run Run, origin Transplant) (Identity, error) {
	id := Identity{RawLabel: rawLabel, Run: run}
	var firstErr error
	unresolved := func(field string) {
		if firstErr == nil {
			firstErr = UnresolvedIdentityError{RawLabel: rawLabel, Field: field}
		}
	}

	line, ok := apply(lineRules, rawLabel)
	id.Line = Line(line)
	if !ok {
		unresolved("line")
	}

	switch run {
	case RunSecond:
		transplant, ok := apply(transplantSecondRules, rawLabel)
		id.Transplant = Transplant(transplant)
		if !ok {
			unresolved("transplant")
		}

		library, ok := apply(libraryRules, rawLabel)
		id.Library = Library(library)
		if !ok {
			unresolved("library")
		}

		replicate, _ := apply(replicateSecondRules, rawLabel)
		id.Replicate = replicate
	default:
		id.Transplant = origin

		library, ok := apply(libraryRules, rawLabel)
		id.Library = Library(library)
		if !ok {
			unresolved("library")
		}

		id.Replicate = "1"
	}

	id.Mouse = deriveMouse(rawLabel, id.Transplant)
	if id.Mouse == MouseUnknown {
		unresolved("mouse")
	}

	id.Derived = DerivedKey(id.Line, id.Library, id.Transplant, id.Mouse)

	return id, firstErr
}

// deriveMouse extracts the mouse number from the label's trailing digits.
// Mouse numbers only exist for actual transplant timepoints; controls get the
// not-applicable sentinel, and a transplant label with no digits gets the
// distinct unknown sentinel.
func deriveMouse(rawLabel string, transplant Transplant) string {
	if transplant != TransplantPre && transplant != TransplantPost {
		return MouseNotApplicable
	}

	stripped := replicateSuffix.ReplaceAllString(rawLabel, "")
	mouse := trailingDigits.FindString(stripped)
	if mouse == "" {
		return MouseUnknown
	}

	return mouse
}

// UnresolvedIdentityError reports a raw label that no specific identity rule
// claimed, naming the first field that fell through.
type UnresolvedIdentityError struct {
	RawLabel string
	Field    string
}

func (e UnresolvedIdentityError) Error() string {
	return fmt.Sprintf("label %q: no identity rule resolves field %q", e.RawLabel, e.Field)
}
