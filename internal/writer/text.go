package writer

import (
	"fmt"
	"io"

	"github.com/cyberpython/klvprint/internal/decode"
)

type textWriter struct {
	out io.Writer
	n   int
}

func (w *textWriter) Begin() error { return nil }

func (w *textWriter) WriteRecord(index int, rec *decode.Record) error {
	if w.n > 0 {
		if _, err := fmt.Fprintln(w.out); err != nil {
			return err
		}
	}
	w.n++
	if _, err := fmt.Fprintf(w.out, "> KLV Packet #%d\n", index); err != nil {
		return err
	}
	return w.writeFields(rec, "\t")
}

func (w *textWriter) writeFields(rec *decode.Record, indent string) error {
	for _, f := range rec.Fields {
		if nested, ok := f.Value.(*decode.Record); ok {
			if _, err := fmt.Fprintf(w.out, "%s[%d] %s:\n", indent, f.Tag, f.Name); err != nil {
				return err
			}
			if err := w.writeFields(nested, indent+"\t"); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w.out, "%s[%d] %s: %s\n", indent, f.Tag, f.Name, formatValue(f.Value)); err != nil {
			return err
		}
	}
	return nil
}

func (w *textWriter) End() error { return nil }
