// Package st0601 registers the MISB ST 0601 UAS Datalink Local Set
// dictionary, including its nested ST 0102 security local set.
package st0601

import (
	"github.com/cyberpython/klvprint/internal/dictionary"
	"github.com/cyberpython/klvprint/internal/klv"
)

// UniversalKey is the 16-byte label of the UAS Datalink Local Set.
var UniversalKey = klv.UniversalKey{
	0x06, 0x0E, 0x2B, 0x34, 0x02, 0x0B, 0x01, 0x01,
	0x0E, 0x01, 0x03, 0x01, 0x01, 0x00, 0x00, 0x00,
}

func init() {
	dictionary.Register(UniversalKey, Set)
}

// Set is the UAS Datalink Local Set dictionary, tags 1 through 65.
var Set = &dictionary.Dictionary{
	Name:        "uas_datalink_local_set",
	ChecksumTag: 1,
	Fields: map[uint64]dictionary.Rule{
		1:  {Name: "checksum", Kind: dictionary.Checksum},
		2:  {Name: "precision_time_stamp", Kind: dictionary.Timestamp},
		3:  str("mission_id"),
		4:  str("platform_tail_number"),
		5:  uscaled("platform_heading_angle", 360.0/65535, 0, 0, 360),
		6:  iscaled("platform_pitch_angle", 20.0/32767, 0, -20, 20),
		7:  iscaled("platform_roll_angle", 50.0/32767, 0, -50, 50),
		8:  uraw("platform_true_airspeed"),
		9:  uraw("platform_indicated_airspeed"),
		10: str("platform_designation"),
		11: str("image_source_sensor"),
		12: str("image_coordinate_system"),
		13: iscaled("sensor_latitude", 90.0/2147483647, 0, -90, 90),
		14: iscaled("sensor_longitude", 180.0/2147483647, 0, -180, 180),
		15: uscaled("sensor_true_altitude", 19900.0/65535, -900, -900, 19000),
		16: uscaled("sensor_horizontal_field_of_view", 180.0/65535, 0, 0, 180),
		17: uscaled("sensor_vertical_field_of_view", 180.0/65535, 0, 0, 180),
		18: uscaled("sensor_relative_azimuth_angle", 360.0/4294967295, 0, 0, 360),
		19: iscaled("sensor_relative_elevation_angle", 180.0/2147483647, 0, -180, 180),
		20: uscaled("sensor_relative_roll_angle", 360.0/4294967295, 0, 0, 360),
		21: uscaled("slant_range", 5000000.0/4294967295, 0, 0, 5000000),
		22: uscaled("target_width", 10000.0/65535, 0, 0, 10000),
		23: iscaled("frame_center_latitude", 90.0/2147483647, 0, -90, 90),
		24: iscaled("frame_center_longitude", 180.0/2147483647, 0, -180, 180),
		25: uscaled("frame_center_elevation", 19900.0/65535, -900, -900, 19000),
		26: corner("offset_corner_latitude_point_1"),
		27: corner("offset_corner_longitude_point_1"),
		28: corner("offset_corner_latitude_point_2"),
		29: corner("offset_corner_longitude_point_2"),
		30: corner("offset_corner_latitude_point_3"),
		31: corner("offset_corner_longitude_point_3"),
		32: corner("offset_corner_latitude_point_4"),
		33: corner("offset_corner_longitude_point_4"),
		34: {Name: "icing_detected", Kind: dictionary.Enum, Symbols: map[uint64]string{
			0: "detector_off",
			1: "no_icing_detected",
			2: "icing_detected",
		}},
		35: uscaled("wind_direction", 360.0/65535, 0, 0, 360),
		36: uscaled("wind_speed", 100.0/255, 0, 0, 100),
		37: uscaled("static_pressure", 5000.0/65535, 0, 0, 5000),
		38: uscaled("density_altitude", 19900.0/65535, -900, -900, 19000),
		39: {Name: "outside_air_temperature", Kind: dictionary.Int},
		40: iscaled("target_location_latitude", 90.0/2147483647, 0, -90, 90),
		41: iscaled("target_location_longitude", 180.0/2147483647, 0, -180, 180),
		42: uscaled("target_location_elevation", 19900.0/65535, -900, -900, 19000),
		43: {Name: "target_track_gate_width", Kind: dictionary.Uint, Scale: 2},
		44: {Name: "target_track_gate_height", Kind: dictionary.Uint, Scale: 2},
		45: uscaled("target_error_estimate_ce90", 4095.0/65535, 0, 0, 4095),
		46: uscaled("target_error_estimate_le90", 4095.0/65535, 0, 0, 4095),
		47: uraw("generic_flag_data_01"),
		48: {Name: "security_local_set", Kind: dictionary.Nested, Set: SecuritySet},
		49: uscaled("differential_pressure", 5000.0/65535, 0, 0, 5000),
		50: iscaled("platform_angle_of_attack", 20.0/32767, 0, -20, 20),
		51: iscaled("platform_vertical_speed", 180.0/32767, 0, -180, 180),
		52: iscaled("platform_sideslip_angle", 20.0/32767, 0, -20, 20),
		53: uscaled("airfield_barometric_pressure", 5000.0/65535, 0, 0, 5000),
		54: uscaled("airfield_elevation", 19900.0/65535, -900, -900, 19000),
		55: uscaled("relative_humidity", 100.0/255, 0, 0, 100),
		56: uraw("platform_ground_speed"),
		57: uscaled("ground_range", 5000000.0/4294967295, 0, 0, 5000000),
		58: uscaled("platform_fuel_remaining", 10000.0/65535, 0, 0, 10000),
		59: str("platform_call_sign"),
		60: uraw("weapon_load"),
		61: uraw("weapon_fired"),
		62: uraw("laser_prf_code"),
		63: {Name: "sensor_field_of_view_name", Kind: dictionary.Enum, Symbols: map[uint64]string{
			0: "ultranarrow",
			1: "narrow",
			2: "medium",
			3: "wide",
			4: "ultrawide",
			5: "narrow_medium",
			6: "2x_ultranarrow",
			7: "4x_ultranarrow",
		}},
		64: uscaled("platform_magnetic_heading", 360.0/65535, 0, 0, 360),
		65: uraw("uas_ls_version_number"),
	},
}

func str(name string) dictionary.Rule {
	return dictionary.Rule{Name: name, Kind: dictionary.String}
}

func uraw(name string) dictionary.Rule {
	return dictionary.Rule{Name: name, Kind: dictionary.Uint}
}

func uscaled(name string, scale, offset, min, max float64) dictionary.Rule {
	return dictionary.Rule{
		Name: name, Kind: dictionary.Uint,
		Scale: scale, Offset: offset,
		Clamp: true, Min: min, Max: max,
	}
}

func iscaled(name string, scale, offset, min, max float64) dictionary.Rule {
	return dictionary.Rule{
		Name: name, Kind: dictionary.Int,
		Scale: scale, Offset: offset,
		Clamp: true, Min: min, Max: max,
	}
}

func corner(name string) dictionary.Rule {
	return iscaled(name, 0.075/32767, 0, -0.075, 0.075)
}
