package screen

import "fmt"

// MalformedTableError reports a raw count table missing its expected
// structure: no construct-ID column, or a declared count column holding
// non-numeric data. Fatal for the affected library's pipeline.
type MalformedTableError struct {
	Detail string
}

func (e MalformedTableError) Error() string {
	return fmt.Sprintf("malformed count table: %s", e.Detail)
}

// RowMismatchError reports two tables that should describe the same construct
// set but do not. Fatal.
type RowMismatchError struct {
	Detail string
}

func (e RowMismatchError) Error() string {
	return fmt.Sprintf("construct row sets disagree: %s", e.Detail)
}

// EmptyGroupError is defensive: an aggregation group ended up with no
// contributing columns, which the upstream identity rules should make
// impossible.
type EmptyGroupError struct {
	Derived string
}

func (e EmptyGroupError) Error() string {
	return fmt.Sprintf("aggregation group %q has no contributing columns", e.Derived)
}
