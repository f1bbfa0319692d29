package decode

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/cyberpython/klvprint/internal/dictionary"
	"github.com/cyberpython/klvprint/internal/dictionary/st0601"
	"github.com/cyberpython/klvprint/internal/klv"
)

var (
	plainKey = klv.UniversalKey{
		0x06, 0x0E, 0x2B, 0x34, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xEE,
	}
	checkedKey = klv.UniversalKey{
		0x06, 0x0E, 0x2B, 0x34, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xEF,
	}
)

func init() {
	dictionary.Register(plainKey, &dictionary.Dictionary{
		Name: "plain_test_set",
		Fields: map[uint64]dictionary.Rule{
			1: {Name: "field_one", Kind: dictionary.Uint},
			2: {Name: "field_two", Kind: dictionary.Enum, Symbols: map[uint64]string{0: "off", 1: "on"}},
			4: {Name: "field_nested", Kind: dictionary.Nested, Set: &dictionary.Dictionary{
				Name: "inner_test_set",
				Fields: map[uint64]dictionary.Rule{
					1: {Name: "inner_one", Kind: dictionary.Uint},
				},
			}},
		},
	})
	dictionary.Register(checkedKey, &dictionary.Dictionary{
		Name:        "checked_test_set",
		ChecksumTag: 3,
		Fields: map[uint64]dictionary.Rule{
			1: {Name: "field_one", Kind: dictionary.Uint},
			3: {Name: "checksum", Kind: dictionary.Checksum},
		},
	})
}

func makePacket(key klv.UniversalKey, payload []byte) klv.RawPacket {
	header := append([]byte{}, key[:]...)
	header = klv.EncodeLength(header, uint64(len(payload)))
	return klv.RawPacket{Key: key, Header: header, Payload: payload}
}

func TestDecodeBasic(t *testing.T) {
	payload := klv.AppendElement(nil, 1, []byte{0x2A})
	payload = klv.AppendElement(payload, 2, []byte{0x01})

	rec, err := Decode(makePacket(plainKey, payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Set != "plain_test_set" {
		t.Fatalf("set = %s", rec.Set)
	}
	if len(rec.Fields) != 2 {
		t.Fatalf("got %d fields", len(rec.Fields))
	}
	m := rec.Map()
	if m["field_one"] != uint64(42) {
		t.Fatalf("field_one = %v", m["field_one"])
	}
	if m["field_two"] != "on" {
		t.Fatalf("field_two = %v", m["field_two"])
	}
}

func TestDecodeUnknownKey(t *testing.T) {
	pkt := makePacket(klv.UniversalKey{0xDE, 0xAD}, nil)
	rec, err := Decode(pkt)
	if rec != nil {
		t.Fatal("record returned for unknown key")
	}
	var derr *Error
	if !errors.As(err, &derr) || derr.Kind != UnknownKey {
		t.Fatalf("err = %v", err)
	}
}

func TestDecodeMalformedTLV(t *testing.T) {
	// Element declares more value bytes than the payload holds.
	rec, err := Decode(makePacket(plainKey, []byte{0x01, 0x09, 0xAA}))
	if rec != nil {
		t.Fatal("record returned for malformed payload")
	}
	var derr *Error
	if !errors.As(err, &derr) || derr.Kind != MalformedTLV {
		t.Fatalf("err = %v", err)
	}
}

func TestDecodeUnknownTagPassthrough(t *testing.T) {
	payload := klv.AppendElement(nil, 99, []byte{0xAB, 0xCD})
	rec, err := Decode(makePacket(plainKey, payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	f := rec.Fields[0]
	if f.Name != "tag_99" || !f.Unrecognized || f.Value != "abcd" {
		t.Fatalf("field = %+v", f)
	}
}

func TestDecodeUnknownEnumValue(t *testing.T) {
	payload := klv.AppendElement(nil, 2, []byte{0x07})
	rec, err := Decode(makePacket(plainKey, payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	f := rec.Fields[0]
	if !f.Unrecognized || f.Value != uint64(7) {
		t.Fatalf("field = %+v", f)
	}
}

func TestDecodeNestedSet(t *testing.T) {
	inner := klv.AppendElement(nil, 1, []byte{0x05})
	payload := klv.AppendElement(nil, 4, inner)
	rec, err := Decode(makePacket(plainKey, payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m := rec.Map()
	nested, ok := m["field_nested"].(map[string]any)
	if !ok {
		t.Fatalf("field_nested = %T", m["field_nested"])
	}
	if nested["inner_one"] != uint64(5) {
		t.Fatalf("inner_one = %v", nested["inner_one"])
	}
}

func TestDecodeMalformedNestedSet(t *testing.T) {
	payload := klv.AppendElement(nil, 4, []byte{0x01, 0x09, 0xAA})
	rec, err := Decode(makePacket(plainKey, payload))
	if rec != nil {
		t.Fatal("record returned for malformed nested set")
	}
	var derr *Error
	if !errors.As(err, &derr) || derr.Kind != MalformedTLV {
		t.Fatalf("err = %v", err)
	}
}

func checksummedPacket(t *testing.T, fields []byte) klv.RawPacket {
	t.Helper()
	payload := append([]byte{}, fields...)
	payload = klv.AppendElement(payload, 3, []byte{0x00, 0x00})
	pkt := makePacket(checkedKey, payload)
	raw := pkt.Bytes()
	sum := klv.Checksum(raw[:len(raw)-2])
	binary.BigEndian.PutUint16(pkt.Payload[len(pkt.Payload)-2:], sum)
	return pkt
}

func TestDecodeChecksumOK(t *testing.T) {
	fields := klv.AppendElement(nil, 1, []byte{0x2A})
	rec, err := Decode(checksummedPacket(t, fields))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Map()["field_one"] != uint64(42) {
		t.Fatalf("fields = %v", rec.Map())
	}
}

func TestDecodeChecksumMismatch(t *testing.T) {
	fields := klv.AppendElement(nil, 1, []byte{0x2A})
	pkt := checksummedPacket(t, fields)
	pkt.Payload[2] ^= 0xFF // corrupt field_one's value

	rec, err := Decode(pkt)
	var derr *Error
	if !errors.As(err, &derr) || derr.Kind != ChecksumMismatch {
		t.Fatalf("err = %v", err)
	}
	if rec == nil {
		t.Fatal("partially decoded record not returned")
	}
	if len(rec.Fields) != 2 {
		t.Fatalf("got %d fields", len(rec.Fields))
	}
}

func TestDecodeST0601Angles(t *testing.T) {
	// Heading, pitch (int16 -32767), and LDS version.
	payload := klv.AppendElement(nil, 5, []byte{0x40, 0x00})
	payload = klv.AppendElement(payload, 6, []byte{0x80, 0x01})
	payload = klv.AppendElement(payload, 65, []byte{0x0B})

	pkt := makePacket(st0601.UniversalKey, payload)
	rec, err := Decode(pkt)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m := rec.Map()
	heading, ok := m["platform_heading_angle"].(float64)
	if !ok || math.Abs(heading-90.001373) > 1e-5 {
		t.Fatalf("heading = %v", m["platform_heading_angle"])
	}
	pitch, ok := m["platform_pitch_angle"].(float64)
	if !ok || math.Abs(pitch+20) > 1e-9 {
		t.Fatalf("pitch = %v", m["platform_pitch_angle"])
	}
	if m["uas_ls_version_number"] != uint64(11) {
		t.Fatalf("version = %v", m["uas_ls_version_number"])
	}
}
