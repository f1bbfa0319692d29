package writer

import (
	"encoding/json"
	"io"

	"github.com/cyberpython/klvprint/internal/decode"
)

// jsonWriter emits newline-delimited JSON: one object per record, fields as a
// nested mapping. Streams of any length serialize without buffering.
type jsonWriter struct {
	enc *json.Encoder
}

type jsonRecord struct {
	Packet int            `json:"packet"`
	Set    string         `json:"set"`
	Fields map[string]any `json:"fields"`
}

func newJSONWriter(out io.Writer) *jsonWriter {
	return &jsonWriter{enc: json.NewEncoder(out)}
}

func (w *jsonWriter) Begin() error { return nil }

func (w *jsonWriter) WriteRecord(index int, rec *decode.Record) error {
	return w.enc.Encode(jsonRecord{Packet: index, Set: rec.Set, Fields: rec.Map()})
}

func (w *jsonWriter) End() error { return nil }
