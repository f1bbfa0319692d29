// Package ffmpeg drives the external ffmpeg/ffprobe tools to isolate the KLV
// data stream from containers and live URLs this tool does not demux natively.
package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
}

// DetectKLVStream parses ffprobe -show_streams JSON and returns the ffmpeg
// map specifier ("0:N") of the first data stream whose codec is KLV.
func DetectKLVStream(probeJSON []byte) (string, error) {
	var probe probeOutput
	if err := json.Unmarshal(probeJSON, &probe); err != nil {
		return "", fmt.Errorf("parse ffprobe output: %w", err)
	}
	for _, s := range probe.Streams {
		if s.CodecType == "data" && strings.Contains(s.CodecName, "klv") {
			return fmt.Sprintf("0:%d", s.Index), nil
		}
	}
	return "", fmt.Errorf("no KLV data stream found among %d streams", len(probe.Streams))
}

// Probe runs ffprobe against the input and returns the map specifier of its
// KLV stream.
func Probe(ctx context.Context, input string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-loglevel", "quiet",
		"-print_format", "json",
		"-show_streams",
		input,
	)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("ffprobe %s: %w", input, err)
	}
	return DetectKLVStream(out)
}

// Open starts an ffmpeg subprocess copying the mapped stream as raw data to a
// pipe and returns the pipe. Closing the returned reader terminates the
// subprocess.
func Open(ctx context.Context, input, mapSpec string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-loglevel", "quiet",
		"-i", input,
		"-map", mapSpec,
		"-codec", "copy",
		"-f", "data",
		"-flush_packets", "1",
		"pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return &pipe{ReadCloser: stdout, cmd: cmd}, nil
}

type pipe struct {
	io.ReadCloser
	cmd *exec.Cmd
}

// Close tears the subprocess down. The kill is deliberate: ffmpeg keeps
// running on live URLs until told to stop.
func (p *pipe) Close() error {
	_ = p.ReadCloser.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
	return nil
}
