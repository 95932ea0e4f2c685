// Package geckoclean holds shared helpers for the screen-cleaning tools:
// table delimiter sniffing, transparent decompression of sequencing-core
// exports, and path expansion.
package geckoclean

import (
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune delimiting the values
// in the reader. The two sequencing runs delivered differently formatted count
// exports (comma-separated for the first run, tab-separated for the second),
// so the loader sniffs rather than assuming.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}
