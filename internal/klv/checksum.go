package klv

// Checksum computes the MISB ST 0601 running 16-bit sum over data: bytes at
// even offsets are weighted into the high byte, odd offsets into the low byte.
// For packet verification, data spans from the first key byte through the
// checksum element's length byte (everything before the 2-byte checksum value).
func Checksum(data []byte) uint16 {
	var bcc uint16
	for i, b := range data {
		bcc += uint16(b) << (8 * (uint(i+1) % 2))
	}
	return bcc
}
