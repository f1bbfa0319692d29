// Package klvprint wires the KLV framer, dictionary decoder, and record
// writers into a single pull-driven pipeline: one packet is framed, decoded,
// and serialized at a time, so memory stays bounded regardless of stream
// length.
package klvprint

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cyberpython/klvprint/internal/decode"
	_ "github.com/cyberpython/klvprint/internal/dictionary/st0601" // register dictionary
	"github.com/cyberpython/klvprint/internal/klv"
	"github.com/cyberpython/klvprint/internal/writer"
)

// ChecksumPolicy decides what happens to a record whose packet checksum does
// not verify.
type ChecksumPolicy string

const (
	// ChecksumPrint emits the best-effort decoded record anyway.
	ChecksumPrint ChecksumPolicy = "print"
	// ChecksumSkip drops the record.
	ChecksumSkip ChecksumPolicy = "skip"
)

// ExtractOptions configures an extraction run.
type ExtractOptions struct {
	// Format is text, csv, or json. Empty means text.
	Format string
	// OnChecksumError defaults to ChecksumPrint.
	OnChecksumError ChecksumPolicy
	// MaxResyncBytes bounds the garbage tolerated between packets before
	// the stream is declared unusable. Zero means the scanner default.
	MaxResyncBytes int64
}

// Stats summarizes what happened to every packet candidate in a run.
type Stats struct {
	Packets           int
	Decoded           int
	SkippedUnknownKey int
	SkippedMalformed  int
	ChecksumFailures  int
	DroppedFrames     int
	FramingErrors     int
	GarbageBytes      int64
}

// String renders the end-of-run summary line.
func (s Stats) String() string {
	return fmt.Sprintf("packets=%d decoded=%d unknown_key=%d malformed=%d checksum_failures=%d dropped_frames=%d framing_errors=%d garbage_bytes=%d",
		s.Packets, s.Decoded, s.SkippedUnknownKey, s.SkippedMalformed, s.ChecksumFailures, s.DroppedFrames, s.FramingErrors, s.GarbageBytes)
}

// Extract frames KLV packets out of r, decodes them against the registered
// dictionaries, and writes each record to out in the chosen format.
//
// Per-packet failures are counted and logged, never fatal: an unknown key or
// malformed payload skips that one packet and the stream continues. Only a
// source read error, a resync budget blowout, or context cancellation ends
// the run with an error.
func Extract(ctx context.Context, r io.Reader, out io.Writer, opts ExtractOptions) (Stats, error) {
	var stats Stats

	w, err := writer.New(opts.Format, out)
	if err != nil {
		return stats, err
	}
	policy := opts.OnChecksumError
	if policy == "" {
		policy = ChecksumPrint
	}
	if policy != ChecksumPrint && policy != ChecksumSkip {
		return stats, fmt.Errorf("unknown checksum policy %q", policy)
	}

	scanner := klv.NewScanner(r)
	scanner.SetMaxResync(opts.MaxResyncBytes)

	if err := w.Begin(); err != nil {
		return stats, err
	}
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return finish(stats, scanner), err
		}
		stats.Packets++
		pkt := scanner.Packet()

		rec, err := decode.Decode(pkt)
		if err != nil {
			var derr *decode.Error
			if !errors.As(err, &derr) {
				return finish(stats, scanner), err
			}
			switch derr.Kind {
			case decode.UnknownKey:
				stats.SkippedUnknownKey++
				logrus.WithField("key", pkt.Key.String()).Debug("skipping packet with unknown universal key")
				continue
			case decode.MalformedTLV:
				stats.SkippedMalformed++
				logrus.WithError(derr).Warn("skipping malformed packet")
				continue
			case decode.ChecksumMismatch:
				stats.ChecksumFailures++
				logrus.WithError(derr).Warn("packet checksum mismatch")
				if policy == ChecksumSkip || rec == nil {
					continue
				}
			}
		}

		stats.Decoded++
		if err := w.WriteRecord(stats.Decoded, rec); err != nil {
			return finish(stats, scanner), err
		}
	}
	if err := w.End(); err != nil {
		return finish(stats, scanner), err
	}
	return finish(stats, scanner), scanner.Err()
}

func finish(stats Stats, scanner *klv.Scanner) Stats {
	stats.DroppedFrames = scanner.Dropped()
	stats.GarbageBytes = scanner.SkippedBytes()
	var ferr *klv.FramingError
	if errors.As(scanner.Err(), &ferr) {
		stats.FramingErrors++
	}
	return stats
}
