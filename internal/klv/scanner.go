package klv

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// DefaultMaxResync is how many bytes of garbage the scanner tolerates
	// between packets before declaring the stream unusable.
	DefaultMaxResync = 1 << 20

	// maxPacketLen rejects BER lengths that no real KLV packet reaches;
	// they are corruption and would otherwise make the scanner buffer the
	// whole stream waiting for a packet that never completes.
	maxPacketLen = 1 << 24

	readChunk = 4096
)

// FramingError reports that the scanner could not re-establish packet
// alignment within its resync budget.
type FramingError struct {
	Skipped int64
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("klv: no packet boundary found within %d bytes", e.Skipped)
}

// Scanner frames raw KLV packets out of a byte stream. It follows the
// bufio.Scanner pattern: Scan advances to the next packet, Packet returns it,
// Err reports the first error other than end of stream.
//
// The stream may start mid-packet and may carry garbage between packets; the
// scanner byte-shifts until it finds the SMPTE 336M sync pattern. A packet
// truncated by end of stream is discarded, never yielded.
type Scanner struct {
	r    io.Reader
	buf  []byte
	eof  bool
	done bool
	err  error
	pkt  RawPacket

	maxResync  int64
	garbageRun int64

	skipped int64
	dropped int
}

// NewScanner returns a Scanner framing packets from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: r, maxResync: DefaultMaxResync}
}

// SetMaxResync overrides the garbage budget between packets. Zero or negative
// restores the default.
func (s *Scanner) SetMaxResync(n int64) {
	if n <= 0 {
		n = DefaultMaxResync
	}
	s.maxResync = n
}

// Packet returns the packet framed by the last successful Scan. The returned
// slices are owned by the caller until the next Scan.
func (s *Scanner) Packet() RawPacket { return s.pkt }

// Err returns the error that stopped scanning, or nil if the stream simply
// ended.
func (s *Scanner) Err() error { return s.err }

// SkippedBytes reports how many garbage bytes were discarded during resync.
func (s *Scanner) SkippedBytes() int64 { return s.skipped }

// Dropped reports how many packet candidates were abandoned because of a
// malformed length field or stream truncation.
func (s *Scanner) Dropped() int { return s.dropped }

// Scan advances to the next packet. It returns false at end of stream or on
// an unrecoverable error; check Err to distinguish the two.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	for {
		if !s.sync() {
			return false
		}
		if ok, fatal := s.frame(); ok {
			return true
		} else if fatal {
			return false
		}
		// Malformed candidate: slide one byte past the sync match and
		// hunt again.
		s.discard(1)
		if s.garbageRun > s.maxResync {
			s.err = &FramingError{Skipped: s.garbageRun}
			s.done = true
			return false
		}
	}
}

// sync discards bytes until the buffer starts with the sync pattern. It
// returns false at end of stream, on I/O error, or when the garbage budget is
// exhausted.
func (s *Scanner) sync() bool {
	for {
		if !s.fill(len(SyncPattern)) {
			// Trailing bytes too short to hold a sync pattern are
			// garbage.
			s.countGarbage(int64(len(s.buf)))
			s.buf = s.buf[:0]
			s.done = true
			return false
		}
		if idx := bytes.Index(s.buf, SyncPattern[:]); idx >= 0 {
			s.discard(idx)
			return true
		}
		// No match anywhere in the window: everything except the last
		// three bytes (a possible pattern prefix) is garbage.
		s.discard(len(s.buf) - (len(SyncPattern) - 1))
		if s.garbageRun > s.maxResync {
			s.err = &FramingError{Skipped: s.garbageRun}
			s.done = true
			return false
		}
	}
}

// frame attempts to read one packet starting at the sync pattern at buf[0].
// ok means a packet was framed into s.pkt; fatal means scanning must stop.
func (s *Scanner) frame() (ok, fatal bool) {
	if !s.fill(KeySize + 1) {
		// Stream ended inside the key or before the length byte:
		// truncated trailing packet, discarded.
		s.dropped++
		s.done = true
		return false, true
	}
	first := s.buf[KeySize]
	headerLen := KeySize + 1
	if first >= 0x80 {
		n := int(first & 0x7F)
		if n == 0 || n > maxLengthOctets {
			s.dropped++
			return false, false
		}
		headerLen += n
		if !s.fill(headerLen) {
			s.dropped++
			s.done = true
			return false, true
		}
	}
	length, _, err := DecodeLength(s.buf[KeySize:headerLen])
	if err != nil || length > maxPacketLen {
		s.dropped++
		return false, false
	}
	total := headerLen + int(length)
	if !s.fill(total) {
		if s.err != nil {
			return false, true
		}
		// Truncated trailing packet: discard, end of stream.
		s.dropped++
		s.done = true
		return false, true
	}

	var key UniversalKey
	copy(key[:], s.buf[:KeySize])
	header := make([]byte, headerLen)
	copy(header, s.buf[:headerLen])
	payload := make([]byte, length)
	copy(payload, s.buf[headerLen:total])
	s.pkt = RawPacket{Key: key, Header: header, Payload: payload}

	s.buf = s.buf[total:]
	s.garbageRun = 0
	return true, false
}

// fill grows the buffer until it holds at least n bytes. It returns false if
// the stream ends (or fails) first; I/O errors other than EOF land in s.err.
func (s *Scanner) fill(n int) bool {
	for len(s.buf) < n {
		if s.eof {
			return false
		}
		chunk := make([]byte, readChunk)
		m, err := s.r.Read(chunk)
		if m > 0 {
			s.buf = append(s.buf, chunk[:m]...)
		}
		if err == io.EOF {
			s.eof = true
		} else if err != nil {
			s.err = fmt.Errorf("klv: read source: %w", err)
			s.done = true
			return false
		}
	}
	return true
}

func (s *Scanner) discard(n int) {
	if n <= 0 {
		return
	}
	if n > len(s.buf) {
		n = len(s.buf)
	}
	s.buf = s.buf[n:]
	s.countGarbage(int64(n))
}

func (s *Scanner) countGarbage(n int64) {
	s.skipped += n
	s.garbageRun += n
}
