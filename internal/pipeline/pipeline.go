// Package pipeline runs the capture loop: extract the palette of each frame,
// smooth it, synthesize the animated field, blur it, add the legend and hand
// the result to a sink.
package pipeline

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/blur"
	"github.com/maax3v3/colormood/internal/cluster"
	"github.com/maax3v3/colormood/internal/color"
	"github.com/maax3v3/colormood/internal/display"
	"github.com/maax3v3/colormood/internal/field"
	"github.com/maax3v3/colormood/internal/logging"
	"github.com/maax3v3/colormood/internal/renderer"
	"github.com/maax3v3/colormood/internal/smooth"
	"github.com/maax3v3/colormood/internal/source"
)

// statsEvery is the number of frames between two debug statistics lines.
const statsEvery = 30

// Config holds the loop parameters.
type Config struct {
	Colors   int     // palette size k
	Alpha    float64 // smoothing factor
	TimeStep float64 // time advance per frame
	BlurSize int     // odd Gaussian kernel size

	// Width and Height of the synthesized field. 0 uses the frame size.
	Width, Height int

	// MaxFrames stops the loop after that many frames. 0 means no limit.
	MaxFrames int

	Cluster cluster.Options
	Legend  renderer.Config
	Font    renderer.FontRenderer
}

// DefaultConfig returns the parameters of the live capture loop.
func DefaultConfig() Config {
	return Config{
		Colors:   3,
		Alpha:    smooth.DefaultAlpha,
		TimeStep: 0.1,
		BlurSize: blur.DefaultSize,
		Cluster:  cluster.DefaultOptions(),
		Legend:   renderer.DefaultConfig(),
	}
}

// Validate checks the parameters the loop cannot run without.
func (c Config) Validate() error {
	if c.Colors < 1 {
		return errors.Errorf("color count must be >= 1, got %d", c.Colors)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return errors.Errorf("smoothing factor must be within [0,1], got %g", c.Alpha)
	}
	if c.TimeStep <= 0 {
		return errors.Errorf("time step must be > 0, got %g", c.TimeStep)
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.Errorf("output size must not be negative, got %dx%d", c.Width, c.Height)
	}
	if c.MaxFrames < 0 {
		return errors.Errorf("frame limit must be >= 0, got %d", c.MaxFrames)
	}
	return nil
}

// Session is the state carried from one frame to the next.
type Session struct {
	Smoothed smooth.State
	T        float64
	Frames   int
}

// NewSession returns the initial state for a k-color palette.
func NewSession(k int) Session {
	return Session{Smoothed: smooth.NewState(k)}
}

// Output is everything produced for one frame.
type Output struct {
	Palette  color.Palette // unsmoothed, most populous first
	Counts   []int
	Smoothed color.Palette
	Field    *image.RGBA // blurred field without legend
	Frame    *image.RGBA // field with the legend strip
}

// State of the loop.
type State int

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopReason tells why the loop ended.
type StopReason string

const (
	ReasonQuit            StopReason = "quit requested"
	ReasonSourceExhausted StopReason = "source exhausted"
	ReasonCancelled       StopReason = "cancelled"
	ReasonFrameLimit      StopReason = "frame limit reached"
	ReasonError           StopReason = "error"
)

// Stats summarizes a finished run.
type Stats struct {
	Frames  int
	Reason  StopReason
	Elapsed time.Duration
	Session Session
}

// Runner owns the processing stages. It is not safe for concurrent use.
type Runner struct {
	cfg       Config
	clusterer *cluster.Clusterer
	synth     *field.Synthesizer
	blur      *blur.Gaussian
	legend    *renderer.Legend
	logger    logging.Logger
	state     State
}

// NewRunner validates cfg and builds the stages. A nil logger discards output.
func NewRunner(cfg Config, logger logging.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := blur.NewGaussian(cfg.BlurSize, 0)
	if err != nil {
		return nil, errors.Wrap(err, "creating blur")
	}
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &Runner{
		cfg:       cfg,
		clusterer: cluster.New(cfg.Cluster),
		synth:     field.New(),
		blur:      g,
		legend:    renderer.NewLegend(cfg.Font, cfg.Legend),
		logger:    logger,
	}, nil
}

// State returns the current loop state.
func (r *Runner) State() State { return r.state }

// Step processes one frame and returns the advanced session.
// sess is left untouched.
func (r *Runner) Step(sess Session, frame image.Image) (Session, Output, error) {
	res, err := r.clusterer.Extract(frame, r.cfg.Colors)
	if err != nil {
		return sess, Output{}, errors.Wrap(err, "extracting palette")
	}
	smoothed, err := smooth.Blend(sess.Smoothed, res.Palette, r.cfg.Alpha)
	if err != nil {
		return sess, Output{}, errors.Wrap(err, "smoothing palette")
	}

	w, h := r.outputSize(frame.Bounds())
	raw := r.synth.Synthesize(smoothed, w, h, sess.T)
	final := r.blur.Apply(raw)

	next := Session{
		Smoothed: smoothed,
		T:        sess.T + r.cfg.TimeStep,
		Frames:   sess.Frames + 1,
	}
	out := Output{
		Palette:  res.Palette,
		Counts:   res.Counts,
		Smoothed: smoothed.Palette(),
		Field:    final,
		Frame:    r.legend.Render(final, res.Palette),
	}
	return next, out, nil
}

func (r *Runner) outputSize(b image.Rectangle) (int, int) {
	w, h := r.cfg.Width, r.cfg.Height
	if w == 0 {
		w = b.Dx()
	}
	if h == 0 {
		h = b.Dy()
	}
	return w, h
}

// Run reads frames from src until the sink asks to quit, the source runs
// dry, ctx is cancelled or the frame limit is hit. src is closed exactly once
// when Run returns, including on panic. A source that runs dry is a normal
// stop and returns a nil error.
func (r *Runner) Run(ctx context.Context, src source.FrameSource, sink display.Sink) (stats Stats, err error) {
	start := time.Now()
	r.state = Running
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing frame source")
		}
		r.state = Stopped
		stats.Elapsed = time.Since(start)
		r.logger.Info("session stopped", logging.Fields{
			"reason":  string(stats.Reason),
			"frames":  stats.Frames,
			"elapsed": stats.Elapsed.Round(time.Millisecond).String(),
		})
	}()

	r.logger.Info("session started", logging.Fields{
		"colors": r.cfg.Colors,
		"method": string(r.cfg.Cluster.Method),
		"alpha":  r.cfg.Alpha,
		"blur":   r.cfg.BlurSize,
	})

	sess := NewSession(r.cfg.Colors)
	observer, _ := sink.(display.PaletteObserver)
	var (
		prev      color.Palette
		lastStats = start
	)

	for r.state == Running {
		if ctx.Err() != nil {
			stats.Reason = ReasonCancelled
			r.state = Stopping
			break
		}

		frame, rerr := src.Read()
		if rerr != nil {
			if errors.Is(rerr, source.ErrNoFrame) {
				r.logger.Warn("no frame from source", logging.Fields{"cause": rerr.Error()})
				stats.Reason = ReasonSourceExhausted
			} else {
				stats.Reason = ReasonError
				err = errors.Wrap(rerr, "reading frame")
			}
			r.state = Stopping
			break
		}

		next, out, serr := r.Step(sess, frame)
		if serr != nil {
			stats.Reason = ReasonError
			err = errors.Wrapf(serr, "processing frame %d", sess.Frames+1)
			r.state = Stopping
			break
		}
		if observer != nil {
			observer.ObservePalette(out.Palette)
		}
		if showErr := sink.Show(out.Frame); showErr != nil {
			stats.Reason = ReasonError
			err = errors.Wrap(showErr, "presenting frame")
			r.state = Stopping
			break
		}
		sess = next
		stats.Frames = sess.Frames
		stats.Session = sess

		if sess.Frames%statsEvery == 0 {
			now := time.Now()
			r.logger.Debug("frame statistics", logging.Fields{
				"frames":  sess.Frames,
				"fps":     float64(statsEvery) / now.Sub(lastStats).Seconds(),
				"palette": out.Palette.String(),
				"drift":   color.Drift(prev, out.Palette),
			})
			lastStats = now
		}
		prev = out.Palette

		switch {
		case sink.QuitRequested():
			stats.Reason = ReasonQuit
			r.state = Stopping
		case r.cfg.MaxFrames > 0 && sess.Frames >= r.cfg.MaxFrames:
			stats.Reason = ReasonFrameLimit
			r.state = Stopping
		}
	}
	return stats, err
}
