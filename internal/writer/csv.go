package writer

import (
	"encoding/csv"
	"io"

	"github.com/cyberpython/klvprint/internal/decode"
)

// csvWriter buffers every record so the header row can be the union of all
// field names, in first-seen order. Cells for fields a record lacks stay
// empty.
type csvWriter struct {
	out     io.Writer
	columns []string
	seen    map[string]bool
	rows    []map[string]string
}

func newCSVWriter(out io.Writer) *csvWriter {
	return &csvWriter{out: out, seen: map[string]bool{}}
}

func (w *csvWriter) Begin() error { return nil }

func (w *csvWriter) WriteRecord(_ int, rec *decode.Record) error {
	row := make(map[string]string)
	flatten(rec, "", func(name string, value any) {
		if !w.seen[name] {
			w.seen[name] = true
			w.columns = append(w.columns, name)
		}
		row[name] = formatValue(value)
	})
	w.rows = append(w.rows, row)
	return nil
}

func (w *csvWriter) End() error {
	cw := csv.NewWriter(w.out)
	if err := cw.Write(w.columns); err != nil {
		return err
	}
	cells := make([]string, len(w.columns))
	for _, row := range w.rows {
		for i, col := range w.columns {
			cells[i] = row[col]
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
