package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/cli"
	"github.com/maax3v3/colormood/internal/cvio"
	"github.com/maax3v3/colormood/internal/display"
	"github.com/maax3v3/colormood/internal/logging"
	"github.com/maax3v3/colormood/internal/pipeline"
	"github.com/maax3v3/colormood/internal/preview"
	"github.com/maax3v3/colormood/internal/renderer"
	"github.com/maax3v3/colormood/internal/source"
)

const windowTitle = "Color Mood"

// Frame size of the built-in test pattern.
const (
	patternWidth  = 640
	patternHeight = 360
)

func main() {
	cfg, err := cli.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewDefaultLogger()
	logger.SetLevel(cfg.LogLevel)
	logging.SetGlobalLogger(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error(err, "colormood failed", logging.Fields{"trace": fmt.Sprintf("%+v", err)})
		if !cfg.NoWait {
			fmt.Fprint(os.Stderr, "Press Enter to exit...")
			bufio.NewReader(os.Stdin).ReadString('\n')
		}
		os.Exit(1)
	}
}

func run(cfg cli.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := pipeline.NewRunner(pipelineConfig(cfg), logger)
	if err != nil {
		return errors.Wrap(err, "configuring pipeline")
	}

	src, err := openSource(cfg)
	if err != nil {
		return err
	}

	sink, err := openSink(cfg, logger)
	if err != nil {
		src.Close()
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("closing output", logging.Fields{"error": err.Error()})
		}
	}()

	_, err = runner.Run(ctx, src, sink)
	return err
}

func pipelineConfig(cfg cli.Config) pipeline.Config {
	pc := pipeline.DefaultConfig()
	pc.Colors = cfg.Colors
	pc.Alpha = cfg.Alpha
	pc.TimeStep = cfg.Step
	pc.BlurSize = cfg.BlurSize
	pc.Width, pc.Height = cfg.Width, cfg.Height
	pc.MaxFrames = cfg.Frames
	pc.Cluster.Method = cfg.Method
	pc.Cluster.Seed = cfg.Seed
	if cfg.Font == cli.FontBitmap {
		pc.Font = renderer.NewBitmapFont()
	} else {
		pc.Font = renderer.NewFaceFont()
	}
	return pc
}

func openSource(cfg cli.Config) (source.FrameSource, error) {
	switch cfg.Source {
	case cli.SourceCamera:
		cam, err := cvio.OpenCamera(cfg.Device)
		if err != nil {
			return nil, errors.Wrap(err, "opening camera")
		}
		return cam, nil
	case cli.SourcePattern:
		return source.NewPattern(patternWidth, patternHeight, 0)
	default:
		files, err := source.NewFiles(cfg.Source, cfg.Loop)
		if err != nil {
			return nil, errors.Wrap(err, "opening images")
		}
		return files, nil
	}
}

func openSink(cfg cli.Config, logger logging.Logger) (display.Sink, error) {
	switch cfg.Sink {
	case cli.SinkTerminal:
		return display.NewTerminal()
	case cli.SinkHTTP:
		srv := preview.New(cfg.Listen, logger)
		if err := srv.Start(); err != nil {
			return nil, err
		}
		return srv, nil
	case cli.SinkPNG:
		return display.NewPNGDir(cfg.OutDir, 0)
	default:
		return cvio.NewWindow(windowTitle), nil
	}
}
