package st0601

import "github.com/cyberpython/klvprint/internal/dictionary"

// countryCodingMethods is the ST 0102 country coding method table, shared by
// the classifying-country and object-country method tags.
var countryCodingMethods = map[uint64]string{
	0x01: "iso_3166_two_letter",
	0x02: "iso_3166_three_letter",
	0x03: "fips_10_4_two_letter",
	0x04: "fips_10_4_four_letter",
	0x05: "iso_3166_numeric",
	0x06: "stanag_1059_two_letter",
	0x07: "stanag_1059_three_letter",
	0x0D: "genc_two_letter",
	0x0E: "genc_three_letter",
	0x0F: "genc_numeric",
}

// SecuritySet is the ST 0102 security local set carried nested inside the
// UAS datalink set under tag 48. It declares no checksum of its own.
var SecuritySet = &dictionary.Dictionary{
	Name: "security_local_set",
	Fields: map[uint64]dictionary.Rule{
		1: {Name: "security_classification", Kind: dictionary.Enum, Symbols: map[uint64]string{
			1: "UNCLASSIFIED",
			2: "RESTRICTED",
			3: "CONFIDENTIAL",
			4: "SECRET",
			5: "TOP_SECRET",
		}},
		2:  {Name: "classifying_country_coding_method", Kind: dictionary.Enum, Symbols: countryCodingMethods},
		3:  str("classifying_country"),
		4:  str("security_sci_shi_information"),
		5:  str("caveats"),
		6:  str("releasing_instructions"),
		12: {Name: "object_country_coding_method", Kind: dictionary.Enum, Symbols: countryCodingMethods},
		13: str("object_country_codes"),
		22: {Name: "security_version", Kind: dictionary.Uint},
	},
}
