package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty means the source has no header row.
	ErrEmpty = errors.New("no header row")
	// ErrMissingColumns means one or more required columns are absent from the header.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrMalformedRow means a data row does not match the schema.
	ErrMalformedRow = errors.New("malformed row")
)

// DataSourceError reports a dataset that cannot be read or does not match the
// expected schema. Nothing can be computed without the data, so callers treat
// it as fatal.
type DataSourceError struct {
	Source string
	Line   int    // 1-based line in the source; 0 when not tied to a row
	Column string // offending column, if any
	Err    error
}

func (e *DataSourceError) Error() string {
	var b strings.Builder
	b.WriteString("data source")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DataSourceError) Unwrap() error { return e.Err }
