package klv

import "fmt"

// maxLengthOctets caps the long-form BER length at 8 subsequent bytes, enough
// for any 64-bit length. Anything larger is treated as stream corruption.
const maxLengthOctets = 8

// DecodeLength reads a BER length from the start of b. It returns the decoded
// length and the number of bytes the length field itself occupies.
func DecodeLength(b []byte) (length uint64, consumed int, err error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("BER length: empty input")
	}
	first := b[0]
	if first < 0x80 {
		return uint64(first), 1, nil
	}
	n := int(first & 0x7F)
	if n == 0 {
		return 0, 0, fmt.Errorf("BER length: indefinite form not allowed")
	}
	if n > maxLengthOctets {
		return 0, 0, fmt.Errorf("BER length: %d length octets exceeds maximum %d", n, maxLengthOctets)
	}
	if len(b) < 1+n {
		return 0, 0, fmt.Errorf("BER length: need %d length octets, have %d bytes", n, len(b)-1)
	}
	var v uint64
	for _, by := range b[1 : 1+n] {
		v = v<<8 | uint64(by)
	}
	return v, 1 + n, nil
}

// EncodeLength appends the BER encoding of length to dst. Short form is used
// for lengths below 128, otherwise the minimal long form.
func EncodeLength(dst []byte, length uint64) []byte {
	if length < 0x80 {
		return append(dst, byte(length))
	}
	n := 0
	for v := length; v > 0; v >>= 8 {
		n++
	}
	dst = append(dst, 0x80|byte(n))
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(length>>(8*i)))
	}
	return dst
}

// DecodeTag reads a local-set tag from the start of b. Tags below 128 occupy a
// single byte; larger tags use BER-OID encoding where the high bit of each
// byte marks a continuation.
func DecodeTag(b []byte) (tag uint64, consumed int, err error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("tag: empty input")
	}
	if b[0] < 0x80 {
		return uint64(b[0]), 1, nil
	}
	var v uint64
	for i, by := range b {
		if i == 8 {
			return 0, 0, fmt.Errorf("tag: BER-OID encoding longer than 8 bytes")
		}
		v = v<<7 | uint64(by&0x7F)
		if by&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("tag: BER-OID encoding truncated")
}

// EncodeTag appends the local-set encoding of tag to dst.
func EncodeTag(dst []byte, tag uint64) []byte {
	if tag < 0x80 {
		return append(dst, byte(tag))
	}
	var tmp [10]byte
	i := len(tmp)
	i--
	tmp[i] = byte(tag & 0x7F)
	for tag >>= 7; tag > 0; tag >>= 7 {
		i--
		tmp[i] = byte(tag&0x7F) | 0x80
	}
	return append(dst, tmp[i:]...)
}
