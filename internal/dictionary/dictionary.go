// Package dictionary maps universal keys to the decode rules for their local
// set payloads. Dictionaries are static: each standard registers its table
// once at startup and lookups afterwards are by-value reads.
package dictionary

// Kind selects how a field's raw bytes become a value.
type Kind int

const (
	// Bytes keeps the raw value and renders it as hex.
	Bytes Kind = iota
	// Uint reads a big-endian unsigned integer and applies Scale and Offset.
	Uint
	// Int reads a big-endian two's-complement integer and applies Scale and
	// Offset.
	Int
	// Enum reads an unsigned integer and maps it through Symbols.
	Enum
	// String decodes UTF-8 text, trimming trailing NUL and space padding.
	String
	// Timestamp reads a big-endian uint64 of microseconds since the Unix
	// epoch.
	Timestamp
	// Nested decodes the value as a local set of its own using Set.
	Nested
	// Checksum marks the packet checksum field; verification is handled by
	// the record decoder, the value decodes as a plain unsigned integer.
	Checksum
)

// Rule describes how one tag of a local set decodes.
type Rule struct {
	Name string
	Kind Kind

	// Scale and Offset linearly map the raw integer for Uint and Int
	// fields: value = raw*Scale + Offset. A zero Scale means the raw
	// integer passes through unscaled.
	Scale  float64
	Offset float64

	// Min and Max clamp the scaled value when Clamp is set.
	Clamp    bool
	Min, Max float64

	// Symbols maps raw values to names for Enum fields.
	Symbols map[uint64]string

	// Set is the sub-dictionary for Nested fields.
	Set *Dictionary
}

// Dictionary is the decode table for one universal key.
type Dictionary struct {
	Name   string
	Fields map[uint64]Rule

	// ChecksumTag names the tag carrying the packet checksum, or zero when
	// the set declares none.
	ChecksumTag uint64
}

// Lookup returns the rule for a tag.
func (d *Dictionary) Lookup(tag uint64) (Rule, bool) {
	r, ok := d.Fields[tag]
	return r, ok
}
