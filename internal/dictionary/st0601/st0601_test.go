package st0601

import (
	"math"
	"testing"

	"github.com/cyberpython/klvprint/internal/dictionary"
)

func TestRegistered(t *testing.T) {
	dict, err := dictionary.Lookup(UniversalKey)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if dict != Set {
		t.Fatal("registered dictionary is not the UAS set")
	}
	if dict.ChecksumTag != 1 {
		t.Fatalf("checksum tag = %d", dict.ChecksumTag)
	}
}

func TestFieldNamesUnique(t *testing.T) {
	seen := map[string]uint64{}
	for tag, rule := range Set.Fields {
		if rule.Name == "" {
			t.Fatalf("tag %d has no name", tag)
		}
		if prev, ok := seen[rule.Name]; ok {
			t.Fatalf("name %q used by tags %d and %d", rule.Name, prev, tag)
		}
		seen[rule.Name] = tag
	}
}

func TestHeadingScale(t *testing.T) {
	rule, ok := Set.Lookup(5)
	if !ok {
		t.Fatal("tag 5 missing")
	}
	// Full-scale raw value maps to exactly 360 degrees.
	if got := 65535 * rule.Scale; math.Abs(got-360) > 1e-9 {
		t.Fatalf("heading full scale = %v", got)
	}
}

func TestAltitudeOffset(t *testing.T) {
	rule, ok := Set.Lookup(15)
	if !ok {
		t.Fatal("tag 15 missing")
	}
	if got := 0*rule.Scale + rule.Offset; got != -900 {
		t.Fatalf("altitude at raw 0 = %v", got)
	}
	if got := 65535*rule.Scale + rule.Offset; math.Abs(got-19000) > 1e-9 {
		t.Fatalf("altitude at full scale = %v", got)
	}
}

func TestSecuritySetNested(t *testing.T) {
	rule, ok := Set.Lookup(48)
	if !ok {
		t.Fatal("tag 48 missing")
	}
	if rule.Kind != dictionary.Nested || rule.Set != SecuritySet {
		t.Fatalf("tag 48 is not the nested security set: %+v", rule)
	}
	class, ok := SecuritySet.Lookup(1)
	if !ok || class.Symbols[1] != "UNCLASSIFIED" {
		t.Fatalf("security classification rule wrong: %+v", class)
	}
}
