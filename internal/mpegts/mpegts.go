// Package mpegts extracts the KLV elementary substream from an MPEG-TS
// container without shelling out to an external tool. The demuxing itself is
// go-astits; this package only picks the right PID from the PMT and
// concatenates the PES payloads carrying the local set packets.
package mpegts

import (
	"context"
	"errors"
	"io"

	"github.com/asticode/go-astits"
)

// formatIdentifierKLVA is the SMPTE RA registration descriptor value ("KLVA")
// marking a private data stream as KLV.
const formatIdentifierKLVA = 0x4B4C5641

// Reader demultiplexes an MPEG-TS stream and exposes the KLV substream's
// bytes as an io.Reader. The KLV PID is taken from the PMT on the fly unless
// pinned with SetPID.
type Reader struct {
	dmx      *astits.Demuxer
	pid      uint16
	explicit bool
	buf      []byte
}

// NewReader returns a Reader demuxing the transport stream r.
func NewReader(ctx context.Context, r io.Reader) *Reader {
	return &Reader{dmx: astits.NewDemuxer(ctx, r)}
}

// SetPID pins the elementary PID to extract, bypassing PMT detection.
func (r *Reader) SetPID(pid uint16) {
	r.pid = pid
	r.explicit = true
}

// PID reports the elementary PID being extracted; zero until the PMT has been
// seen.
func (r *Reader) PID() uint16 { return r.pid }

// Read implements io.Reader over the concatenated KLV PES payloads. It
// returns io.EOF when the transport stream ends.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		d, err := r.dmx.NextData()
		if err != nil {
			if errors.Is(err, astits.ErrNoMorePackets) {
				return 0, io.EOF
			}
			return 0, err
		}
		if d.PMT != nil && !r.explicit && r.pid == 0 {
			if pid, ok := PickKLVStream(d.PMT.ElementaryStreams); ok {
				r.pid = pid
			}
		}
		if d.PES != nil && r.pid != 0 && d.PID == r.pid {
			r.buf = d.PES.Data
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// PickKLVStream selects the KLV elementary stream from a PMT: a
// metadata-in-PES stream, or any stream carrying a KLVA registration
// descriptor.
func PickKLVStream(streams []*astits.PMTElementaryStream) (uint16, bool) {
	for _, es := range streams {
		if es.StreamType == astits.StreamTypeMetadata {
			return es.ElementaryPID, true
		}
	}
	for _, es := range streams {
		for _, d := range es.ElementaryStreamDescriptors {
			if d.Registration != nil && d.Registration.FormatIdentifier == formatIdentifierKLVA {
				return es.ElementaryPID, true
			}
		}
	}
	return 0, false
}
