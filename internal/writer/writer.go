// Package writer renders decoded records as text, CSV, or JSON.
//
// Text prints one line per field, a blank line between records. CSV buffers
// the whole run so the header can carry the union of field names across all
// records, with empty cells where a record lacks a field. JSON is
// newline-delimited: exactly one JSON object per record.
package writer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cyberpython/klvprint/internal/decode"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Writer serializes a sequence of decoded records to an output.
type Writer interface {
	Begin() error
	WriteRecord(index int, rec *decode.Record) error
	// End flushes anything buffered. CSV emits all of its output here.
	End() error
}

// New returns a Writer for the named format writing to out.
func New(format string, out io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return &textWriter{out: out}, nil
	case FormatCSV:
		return newCSVWriter(out), nil
	case FormatJSON:
		return newJSONWriter(out), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// formatValue renders a decoded field value as display text.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", v)
	}
}

// flatten walks a record's fields in tag order, descending into nested sets
// with dot-joined names.
func flatten(rec *decode.Record, prefix string, put func(name string, value any)) {
	for _, f := range rec.Fields {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + name
		}
		if nested, ok := f.Value.(*decode.Record); ok {
			flatten(nested, name, put)
			continue
		}
		put(name, f.Value)
	}
}
