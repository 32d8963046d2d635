package input

import (
	"context"
	"strings"
)

// RawRow is a single row read from tabular input. Only the first two fields
// are meaningful: [0] is the comment reference (watch URL or bare ID), [1] is
// the timestamp string that accompanied it. Rows are immutable once read.
type RawRow struct {
	Fields []string
}

// Malformed reports whether the row carries fewer than two fields. Malformed
// rows are dropped silently; they count as neither processed nor failed.
func (r RawRow) Malformed() bool {
	return len(r.Fields) < 2
}

// Reference returns the trimmed comment reference field.
func (r RawRow) Reference() string {
	if len(r.Fields) < 1 {
		return ""
	}
	return strings.TrimSpace(r.Fields[0])
}

// Timestamp returns the trimmed timestamp field.
func (r RawRow) Timestamp() string {
	if len(r.Fields) < 2 {
		return ""
	}
	return strings.TrimSpace(r.Fields[1])
}

// RowSource produces the ordered row sequence for a pipeline pass.
type RowSource interface {
	// Rows returns every non-empty row from the source, in input order.
	Rows(ctx context.Context) ([]RawRow, error)
}
