package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cyberpython/klvprint/internal/config"
	"github.com/cyberpython/klvprint/pkg/klvprint"
)

var (
	rootCmd = &cobra.Command{
		Use:   "klvprint [flags] <input>",
		Short: "Extract KLV metadata from video files and streams",
		Long: "klvprint extracts MISB ST 0601 KLV metadata embedded in MPEG-TS files or live\n" +
			"streams and prints the decoded packets as text, CSV, or JSON. Pass - to read an\n" +
			"already-isolated raw KLV stream from stdin. JSON output is newline-delimited:\n" +
			"one object per packet.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	outputFormat    string
	mapSpec         string
	demuxMode       string
	pid             uint16
	onChecksumError string
	configPath      string
	maxResync       int64
	verbose         bool
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&outputFormat, "output", "o", "text", "output format: text, csv, or json")
	flags.StringVarP(&mapSpec, "map", "m", "", "ffmpeg stream specifier for the KLV stream (e.g. 0:1); probed when empty")
	flags.StringVar(&demuxMode, "demux", "auto", "demux front-end: auto, native, ffmpeg, or raw")
	flags.Uint16Var(&pid, "pid", 0, "elementary PID for the native demuxer; detected from the PMT when 0")
	flags.StringVar(&onChecksumError, "on-checksum-error", "print", "checksum mismatch policy: print or skip")
	flags.StringVar(&configPath, "config", "", "YAML file with flag defaults")
	flags.Int64Var(&maxResync, "max-resync", 0, "garbage bytes tolerated between packets (0 = default)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log skipped packets")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, input string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyConfig(cmd, cfg)
	}

	ctx := cmd.Context()
	src, err := klvprint.OpenSource(ctx, input, klvprint.SourceOptions{
		Demux: demuxMode,
		Map:   mapSpec,
		PID:   pid,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	stats, err := klvprint.Extract(ctx, src, cmd.OutOrStdout(), klvprint.ExtractOptions{
		Format:          outputFormat,
		OnChecksumError: klvprint.ChecksumPolicy(onChecksumError),
		MaxResyncBytes:  maxResync,
	})
	logrus.Info(stats.String())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// applyConfig fills in defaults from the config file for flags the user did
// not set explicitly.
func applyConfig(cmd *cobra.Command, cfg config.Config) {
	flags := cmd.Flags()
	if cfg.Output != "" && !flags.Changed("output") {
		outputFormat = cfg.Output
	}
	if cfg.OnChecksumError != "" && !flags.Changed("on-checksum-error") {
		onChecksumError = cfg.OnChecksumError
	}
	if cfg.Demux != "" && !flags.Changed("demux") {
		demuxMode = cfg.Demux
	}
	if cfg.Map != "" && !flags.Changed("map") {
		mapSpec = cfg.Map
	}
	if cfg.MaxResyncBytes > 0 && !flags.Changed("max-resync") {
		maxResync = cfg.MaxResyncBytes
	}
}
