package klv

import (
	"encoding/hex"
	"fmt"
)

// KeySize is the size of a SMPTE 336M universal key.
const KeySize = 16

// SyncPattern is the 4-byte SMPTE 336M universal label prefix shared by all
// universal keys. The framer hunts for it when the stream loses alignment.
var SyncPattern = [4]byte{0x06, 0x0E, 0x2B, 0x34}

// UniversalKey is a 16-byte SMPTE 336M universal label. Keys are compared by
// exact byte equality.
type UniversalKey [KeySize]byte

// String returns the key as uppercase hex.
func (k UniversalKey) String() string {
	return fmt.Sprintf("%X", k[:])
}

// ParseKeyHex decodes a 32-hex-digit universal key string.
func ParseKeyHex(s string) (UniversalKey, error) {
	var k UniversalKey
	if len(s) != KeySize*2 {
		return k, fmt.Errorf("universal key must be %d hex digits, got %d", KeySize*2, len(s))
	}
	if _, err := hex.Decode(k[:], []byte(s)); err != nil {
		return k, fmt.Errorf("decode universal key: %w", err)
	}
	return k, nil
}

// RawPacket is one framed KLV packet: the universal key plus the payload the
// BER length field delimited. Header holds the exact key and length bytes as
// they appeared on the wire so the packet checksum can be recomputed.
type RawPacket struct {
	Key     UniversalKey
	Header  []byte
	Payload []byte
}

// Bytes reassembles the packet exactly as it appeared in the stream.
func (p RawPacket) Bytes() []byte {
	out := make([]byte, 0, len(p.Header)+len(p.Payload))
	out = append(out, p.Header...)
	return append(out, p.Payload...)
}

// Element is one tag-length-value item inside a local set payload. Offset and
// ValueOffset are byte positions within the payload of the element's tag and
// value; the checksum verifier needs them to know how much of the packet the
// checksum covers.
type Element struct {
	Tag         uint64
	Value       []byte
	Offset      int
	ValueOffset int
}

// ParseElements splits a local set payload into its TLV elements. An element
// whose declared length overruns the payload aborts the parse.
func ParseElements(payload []byte) ([]Element, error) {
	elements := make([]Element, 0, 16)
	i := 0
	for i < len(payload) {
		start := i
		tag, n, err := DecodeTag(payload[i:])
		if err != nil {
			return nil, fmt.Errorf("element at offset %d: %w", start, err)
		}
		i += n
		length, n, err := DecodeLength(payload[i:])
		if err != nil {
			return nil, fmt.Errorf("element tag %d at offset %d: %w", tag, start, err)
		}
		i += n
		if uint64(len(payload)-i) < length {
			return nil, fmt.Errorf("element tag %d at offset %d: declared length %d exceeds remaining %d bytes",
				tag, start, length, len(payload)-i)
		}
		elements = append(elements, Element{
			Tag:         tag,
			Value:       payload[i : i+int(length)],
			Offset:      start,
			ValueOffset: i,
		})
		i += int(length)
	}
	return elements, nil
}

// AppendElement appends the local-set TLV encoding of one element to dst.
func AppendElement(dst []byte, tag uint64, value []byte) []byte {
	dst = EncodeTag(dst, tag)
	dst = EncodeLength(dst, uint64(len(value)))
	return append(dst, value...)
}
