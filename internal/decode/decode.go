// Package decode turns framed KLV packets into named, typed records using the
// registered tag dictionaries.
package decode

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cyberpython/klvprint/internal/dictionary"
	"github.com/cyberpython/klvprint/internal/klv"
)

// ErrorKind classifies decode failures.
type ErrorKind int

const (
	// UnknownKey means no dictionary is registered for the packet's
	// universal key.
	UnknownKey ErrorKind = iota
	// ChecksumMismatch means the recomputed packet checksum differs from
	// the one carried in the packet. The partially decoded record is still
	// returned alongside the error.
	ChecksumMismatch
	// MalformedTLV means an element's declared length overruns its
	// container.
	MalformedTLV
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownKey:
		return "unknown key"
	case ChecksumMismatch:
		return "checksum mismatch"
	case MalformedTLV:
		return "malformed TLV"
	default:
		return "decode error"
	}
}

// Error is a decode failure for one packet. Per-packet errors never abort the
// stream; callers inspect Kind to pick a policy.
type Error struct {
	Kind ErrorKind
	Key  klv.UniversalKey
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (key %s): %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s (key %s)", e.Kind, e.Key)
}

func (e *Error) Unwrap() error { return e.Err }

// Field is one decoded local set element.
type Field struct {
	Tag   uint64
	Name  string
	Value any
	Raw   []byte
	// Unrecognized marks values the dictionary could not interpret: tags
	// with no rule, enum values with no symbol, or integers of an
	// unexpected width. The raw value passes through instead of failing
	// the record.
	Unrecognized bool
}

// Record is one fully decoded packet: the originating key plus its fields in
// tag order as they appeared in the payload.
type Record struct {
	Key    klv.UniversalKey
	Set    string
	Fields []Field
}

// Map flattens the record to field name -> primitive value. Nested records
// become nested maps.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		if nested, ok := f.Value.(*Record); ok {
			m[f.Name] = nested.Map()
			continue
		}
		m[f.Name] = f.Value
	}
	return m
}

// Decode maps a raw packet through its dictionary. On ChecksumMismatch the
// partially decoded record is returned together with the error; every other
// failure returns a nil record.
func Decode(pkt klv.RawPacket) (*Record, error) {
	dict, err := dictionary.Lookup(pkt.Key)
	if err != nil {
		return nil, &Error{Kind: UnknownKey, Key: pkt.Key, Err: err}
	}
	elements, err := klv.ParseElements(pkt.Payload)
	if err != nil {
		return nil, &Error{Kind: MalformedTLV, Key: pkt.Key, Err: err}
	}

	rec := &Record{Key: pkt.Key, Set: dict.Name, Fields: make([]Field, 0, len(elements))}
	var checksum *klv.Element
	for i := range elements {
		el := elements[i]
		rule, ok := dict.Lookup(el.Tag)
		if !ok {
			rec.Fields = append(rec.Fields, Field{
				Tag:          el.Tag,
				Name:         fmt.Sprintf("tag_%d", el.Tag),
				Value:        hex.EncodeToString(el.Value),
				Raw:          el.Value,
				Unrecognized: true,
			})
			continue
		}
		if rule.Kind == dictionary.Checksum || el.Tag == dict.ChecksumTag {
			checksum = &elements[i]
		}
		field, err := decodeField(el, rule)
		if err != nil {
			return nil, &Error{Kind: MalformedTLV, Key: pkt.Key, Err: err}
		}
		rec.Fields = append(rec.Fields, field)
	}

	if dict.ChecksumTag != 0 && checksum != nil {
		if err := verifyChecksum(pkt, *checksum); err != nil {
			return rec, &Error{Kind: ChecksumMismatch, Key: pkt.Key, Err: err}
		}
	}
	return rec, nil
}

func decodeField(el klv.Element, rule dictionary.Rule) (Field, error) {
	field := Field{Tag: el.Tag, Name: rule.Name, Raw: el.Value}

	switch rule.Kind {
	case dictionary.Uint, dictionary.Checksum:
		raw, ok := uintBE(el.Value)
		if !ok {
			return passthrough(field), nil
		}
		field.Value = scaled(rule, float64(raw), raw)

	case dictionary.Int:
		raw, ok := intBE(el.Value)
		if !ok {
			return passthrough(field), nil
		}
		field.Value = scaled(rule, float64(raw), raw)

	case dictionary.Enum:
		raw, ok := uintBE(el.Value)
		if !ok {
			return passthrough(field), nil
		}
		if sym, ok := rule.Symbols[raw]; ok {
			field.Value = sym
		} else {
			field.Value = raw
			field.Unrecognized = true
		}

	case dictionary.String:
		field.Value = strings.TrimRight(string(el.Value), "\x00 ")

	case dictionary.Timestamp:
		raw, ok := uintBE(el.Value)
		if !ok || len(el.Value) != 8 {
			return passthrough(field), nil
		}
		micros := int64(raw)
		field.Value = time.Unix(micros/1e6, (micros%1e6)*1e3).UTC().Format(time.RFC3339Nano)

	case dictionary.Nested:
		nested, err := decodeSet(el.Value, rule.Set)
		if err != nil {
			return Field{}, fmt.Errorf("nested set %s: %w", rule.Set.Name, err)
		}
		field.Value = nested

	default:
		field.Value = hex.EncodeToString(el.Value)
	}
	return field, nil
}

// decodeSet decodes a nested local set blob against a sub-dictionary. Nested
// sets never carry their own checksum here, so any parse failure aborts the
// enclosing packet.
func decodeSet(payload []byte, dict *dictionary.Dictionary) (*Record, error) {
	elements, err := klv.ParseElements(payload)
	if err != nil {
		return nil, err
	}
	rec := &Record{Set: dict.Name, Fields: make([]Field, 0, len(elements))}
	for _, el := range elements {
		rule, ok := dict.Lookup(el.Tag)
		if !ok {
			rec.Fields = append(rec.Fields, Field{
				Tag:          el.Tag,
				Name:         fmt.Sprintf("tag_%d", el.Tag),
				Value:        hex.EncodeToString(el.Value),
				Raw:          el.Value,
				Unrecognized: true,
			})
			continue
		}
		field, err := decodeField(el, rule)
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, field)
	}
	return rec, nil
}

// verifyChecksum recomputes the ST 0601 running sum over the packet from the
// first key byte through the checksum element's length byte and compares it
// to the carried value.
func verifyChecksum(pkt klv.RawPacket, el klv.Element) error {
	if len(el.Value) != 2 {
		return fmt.Errorf("checksum field is %d bytes, want 2", len(el.Value))
	}
	want := binary.BigEndian.Uint16(el.Value)
	covered := len(pkt.Header) + el.ValueOffset
	got := klv.Checksum(pkt.Bytes()[:covered])
	if got != want {
		return fmt.Errorf("computed 0x%04X, packet carries 0x%04X", got, want)
	}
	return nil
}

func passthrough(field Field) Field {
	field.Value = hex.EncodeToString(field.Raw)
	field.Unrecognized = true
	return field
}

func scaled(rule dictionary.Rule, rawF float64, raw any) any {
	if rule.Scale == 0 {
		return raw
	}
	v := rawF*rule.Scale + rule.Offset
	if rule.Clamp {
		if v < rule.Min {
			v = rule.Min
		}
		if v > rule.Max {
			v = rule.Max
		}
	}
	return v
}

// uintBE reads a 1..8 byte big-endian unsigned integer.
func uintBE(b []byte) (uint64, bool) {
	if len(b) == 0 || len(b) > 8 {
		return 0, false
	}
	var v uint64
	for _, by := range b {
		v = v<<8 | uint64(by)
	}
	return v, true
}

// intBE reads a 1..8 byte big-endian two's-complement integer.
func intBE(b []byte) (int64, bool) {
	v, ok := uintBE(b)
	if !ok {
		return 0, false
	}
	shift := uint(64 - 8*len(b))
	return int64(v<<shift) >> shift, true
}
