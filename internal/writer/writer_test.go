package writer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cyberpython/klvprint/internal/decode"
)

func record(fields ...decode.Field) *decode.Record {
	return &decode.Record{Set: "test_set", Fields: fields}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(FormatText, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	recs := []*decode.Record{
		record(
			decode.Field{Tag: 1, Name: "alpha", Value: uint64(42)},
			decode.Field{Tag: 2, Name: "beta", Value: "on"},
		),
		record(decode.Field{Tag: 3, Name: "gamma", Value: 1.5}),
	}
	if err := w.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for i, r := range recs {
		if err := w.WriteRecord(i+1, r); err != nil {
			t.Fatalf("WriteRecord: %v", err)
		}
	}
	if err := w.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	want := "> KLV Packet #1\n" +
		"\t[1] alpha: 42\n" +
		"\t[2] beta: on\n" +
		"\n" +
		"> KLV Packet #2\n" +
		"\t[3] gamma: 1.5\n"
	if got := buf.String(); got != want {
		t.Fatalf("output:\n%q\nwant:\n%q", got, want)
	}
}

func TestTextWriterNested(t *testing.T) {
	var buf bytes.Buffer
	w, _ := New(FormatText, &buf)
	nested := record(decode.Field{Tag: 1, Name: "inner", Value: "x"})
	rec := record(decode.Field{Tag: 48, Name: "outer", Value: nested})
	if err := w.WriteRecord(1, rec); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "\t[48] outer:\n\t\t[1] inner: x\n") {
		t.Fatalf("nested output:\n%q", got)
	}
}

func TestCSVWriterUnionHeader(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(FormatCSV, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	recs := []*decode.Record{
		record(
			decode.Field{Tag: 1, Name: "alpha", Value: uint64(1)},
			decode.Field{Tag: 2, Name: "beta", Value: "b"},
		),
		record(
			decode.Field{Tag: 2, Name: "beta", Value: "c"},
			decode.Field{Tag: 3, Name: "gamma", Value: uint64(3)},
		),
	}
	_ = w.Begin()
	for i, r := range recs {
		if err := w.WriteRecord(i+1, r); err != nil {
			t.Fatalf("WriteRecord: %v", err)
		}
	}
	if err := w.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	wantHeader := []string{"alpha", "beta", "gamma"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Fatalf("header = %v, want %v", rows[0], wantHeader)
		}
	}
	// Fields absent from a record render as empty cells.
	if rows[1][0] != "1" || rows[1][1] != "b" || rows[1][2] != "" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	if rows[2][0] != "" || rows[2][1] != "c" || rows[2][2] != "3" {
		t.Fatalf("row 2 = %v", rows[2])
	}
}

func TestCSVWriterFlattensNested(t *testing.T) {
	var buf bytes.Buffer
	w, _ := New(FormatCSV, &buf)
	nested := record(decode.Field{Tag: 1, Name: "inner", Value: "x"})
	_ = w.WriteRecord(1, record(decode.Field{Tag: 48, Name: "outer", Value: nested}))
	if err := w.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back CSV: %v", err)
	}
	if rows[0][0] != "outer.inner" || rows[1][0] != "x" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(FormatJSON, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nested := record(decode.Field{Tag: 1, Name: "inner", Value: uint64(5)})
	recs := []*decode.Record{
		record(decode.Field{Tag: 1, Name: "alpha", Value: uint64(42)}),
		record(decode.Field{Tag: 48, Name: "outer", Value: nested}),
	}
	_ = w.Begin()
	for i, r := range recs {
		if err := w.WriteRecord(i+1, r); err != nil {
			t.Fatalf("WriteRecord: %v", err)
		}
	}
	_ = w.End()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d JSON lines", len(lines))
	}
	var first struct {
		Packet int            `json:"packet"`
		Set    string         `json:"set"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1: %v", err)
	}
	if first.Packet != 1 || first.Set != "test_set" || first.Fields["alpha"] != float64(42) {
		t.Fatalf("line 1 = %+v", first)
	}
	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2: %v", err)
	}
	fields := second["fields"].(map[string]any)
	outer, ok := fields["outer"].(map[string]any)
	if !ok || outer["inner"] != float64(5) {
		t.Fatalf("nested fields = %v", fields)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := New("yaml", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
