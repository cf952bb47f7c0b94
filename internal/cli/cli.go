// Package cli parses and validates the command line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/cluster"
	"github.com/maax3v3/colormood/internal/logging"
)

// Well-known sources. Any other --source value is a file or directory path.
const (
	SourceCamera  = "camera"
	SourcePattern = "pattern"
)

// Sinks.
const (
	SinkWindow   = "window"
	SinkTerminal = "terminal"
	SinkHTTP     = "http"
	SinkPNG      = "png"
)

// Fonts.
const (
	FontFace   = "face"
	FontBitmap = "bitmap"
)

// Config holds the parsed CLI arguments.
type Config struct {
	Source string
	Device int
	Loop   bool

	Sink   string
	OutDir string
	Listen string

	Colors   int
	Method   cluster.Method
	Alpha    float64
	BlurSize int
	Step     float64
	Width    int
	Height   int
	Frames   int
	Font     string
	Seed     int64

	LogLevel logging.Level
	NoWait   bool
}

// Parse parses args (without the program name) and returns a validated Config.
// Usage and flag errors are written to output.
func Parse(args []string, output io.Writer) (Config, error) {
	fs := flag.NewFlagSet("colormood", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		cfg      Config
		method   string
		logLevel string
	)
	fs.StringVar(&cfg.Source, "source", SourceCamera, "Frame source: camera, pattern, or a path to an image file or directory (PNG, JPEG, WEBP)")
	fs.IntVar(&cfg.Device, "device", 0, "Camera index")
	fs.BoolVar(&cfg.Loop, "loop", false, "Loop image files forever")
	fs.StringVar(&cfg.Sink, "sink", SinkWindow, "Output: window, terminal, http or png")
	fs.StringVar(&cfg.OutDir, "out", "frames", "Directory for the png sink")
	fs.StringVar(&cfg.Listen, "listen", "localhost:8080", "Listen address for the http sink")
	fs.IntVar(&cfg.Colors, "colors", 3, "Number of dominant colors (>= 1)")
	fs.StringVar(&method, "method", string(cluster.MethodKMeans), "Palette extraction: kmeans, partition or dominant")
	fs.Float64Var(&cfg.Alpha, "alpha", 0.8, "Smoothing factor in [0,1); higher is smoother")
	fs.IntVar(&cfg.BlurSize, "blur", 15, "Gaussian blur kernel size (odd, >= 1)")
	fs.Float64Var(&cfg.Step, "step", 0.1, "Animation time added per frame (> 0)")
	fs.IntVar(&cfg.Width, "width", 0, "Output width (0 = frame width)")
	fs.IntVar(&cfg.Height, "height", 0, "Output height (0 = frame height)")
	fs.IntVar(&cfg.Frames, "frames", 0, "Stop after this many frames (0 = unlimited)")
	fs.StringVar(&cfg.Font, "font", FontFace, "Legend font: face or bitmap")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Random seed for k-means (0 = time based)")
	fs.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.NoWait, "no-wait", false, "Exit immediately after a failure instead of waiting for Enter")

	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: colormood [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n  colormood\n  colormood --source=pattern --sink=terminal\n  colormood --source=~/Pictures --loop --sink=http --listen=:8080\n")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, errors.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if cfg.Source == "" {
		return Config{}, errors.New("--source must not be empty")
	}
	if cfg.Device < 0 {
		return Config{}, errors.Errorf("--device must be >= 0, got %d", cfg.Device)
	}
	switch cfg.Sink {
	case SinkWindow, SinkTerminal, SinkHTTP, SinkPNG:
	default:
		return Config{}, errors.Errorf("--sink must be window, terminal, http or png, got %q", cfg.Sink)
	}
	if cfg.Sink == SinkPNG && cfg.OutDir == "" {
		return Config{}, errors.New("--out is required for the png sink")
	}
	if cfg.Sink == SinkHTTP && cfg.Listen == "" {
		return Config{}, errors.New("--listen is required for the http sink")
	}
	if cfg.Colors < 1 {
		return Config{}, errors.Errorf("--colors must be >= 1, got %d", cfg.Colors)
	}
	m, err := cluster.ParseMethod(method)
	if err != nil {
		return Config{}, errors.Wrap(err, "--method")
	}
	cfg.Method = m
	if cfg.Alpha < 0 || cfg.Alpha >= 1 {
		return Config{}, errors.Errorf("--alpha must be within [0,1), got %g", cfg.Alpha)
	}
	if cfg.BlurSize < 1 || cfg.BlurSize%2 == 0 {
		return Config{}, errors.Errorf("--blur must be an odd number >= 1, got %d", cfg.BlurSize)
	}
	if cfg.Step <= 0 {
		return Config{}, errors.Errorf("--step must be > 0, got %g", cfg.Step)
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return Config{}, errors.Errorf("--width and --height must be >= 0, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Frames < 0 {
		return Config{}, errors.Errorf("--frames must be >= 0, got %d", cfg.Frames)
	}
	if cfg.Font != FontFace && cfg.Font != FontBitmap {
		return Config{}, errors.Errorf("--font must be face or bitmap, got %q", cfg.Font)
	}
	lvl, err := logging.ParseLevel(logLevel)
	if err != nil {
		return Config{}, errors.Wrap(err, "--log-level")
	}
	cfg.LogLevel = lvl

	return cfg, nil
}
