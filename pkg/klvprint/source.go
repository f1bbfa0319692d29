package klvprint

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyberpython/klvprint/internal/ffmpeg"
	"github.com/cyberpython/klvprint/internal/mpegts"
)

// Demux front-ends for OpenSource.
const (
	// DemuxAuto picks a front-end from the input name.
	DemuxAuto = "auto"
	// DemuxRaw treats the input as an already-isolated KLV byte stream.
	DemuxRaw = "raw"
	// DemuxNative demultiplexes MPEG-TS in-process.
	DemuxNative = "native"
	// DemuxFFmpeg shells out to ffprobe/ffmpeg, as for URLs and container
	// formats the native demuxer does not handle.
	DemuxFFmpeg = "ffmpeg"
)

// SourceOptions selects how the raw KLV byte stream is obtained from an
// input.
type SourceOptions struct {
	Demux string
	// Map is the ffmpeg stream specifier (e.g. "0:1"). Empty means probe.
	Map string
	// PID pins the elementary PID for the native demuxer. Zero means
	// detect from the PMT.
	PID uint16
}

// OpenSource resolves an input (file path, URL, or "-" for stdin) into the
// raw KLV substream the extraction pipeline consumes.
func OpenSource(ctx context.Context, input string, opts SourceOptions) (io.ReadCloser, error) {
	demux := opts.Demux
	if demux == "" || demux == DemuxAuto {
		demux = autoDemux(input)
	}
	switch demux {
	case DemuxRaw:
		if input == "-" {
			return io.NopCloser(os.Stdin), nil
		}
		return os.Open(input)
	case DemuxNative:
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		r := mpegts.NewReader(ctx, f)
		if opts.PID != 0 {
			r.SetPID(opts.PID)
		}
		return &nativeSource{Reader: r, file: f}, nil
	case DemuxFFmpeg:
		mapSpec := opts.Map
		if mapSpec == "" {
			var err error
			if mapSpec, err = ffmpeg.Probe(ctx, input); err != nil {
				return nil, err
			}
		}
		return ffmpeg.Open(ctx, input, mapSpec)
	default:
		return nil, fmt.Errorf("unknown demux mode %q", opts.Demux)
	}
}

func autoDemux(input string) string {
	if input == "-" {
		return DemuxRaw
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".klv", ".bin", ".raw":
		return DemuxRaw
	case ".ts", ".m2ts", ".mts":
		return DemuxNative
	default:
		return DemuxFFmpeg
	}
}

type nativeSource struct {
	*mpegts.Reader
	file *os.File
}

func (s *nativeSource) Close() error { return s.file.Close() }
