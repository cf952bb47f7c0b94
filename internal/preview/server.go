// Package preview serves the rendered frames over HTTP so the output can be
// watched from a browser.
package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/color"
	"github.com/maax3v3/colormood/internal/imaging"
	"github.com/maax3v3/colormood/internal/logging"
)

const shutdownTimeout = 2 * time.Second

// Swatch is one palette entry as served by /palette.
type Swatch struct {
	R   uint8  `json:"r"`
	G   uint8  `json:"g"`
	B   uint8  `json:"b"`
	Hex string `json:"hex"`

	// Light tells the page to label the swatch in dark text.
	Light bool `json:"light"`
}

// PaletteResponse is the body of GET /palette.
type PaletteResponse struct {
	Frames int      `json:"frames"`
	Colors []Swatch `json:"colors"`
}

// Server keeps the latest frame and palette and exposes them over HTTP.
type Server struct {
	addr   string
	router chi.Router
	logger logging.Logger

	mu      sync.RWMutex
	frame   []byte
	palette color.Palette
	frames  int

	quit atomic.Bool

	srv       *http.Server
	ln        net.Listener
	closeOnce sync.Once
	closeErr  error
}

// New builds a server for addr. Call Start to begin listening.
func New(addr string, logger logging.Logger) *Server {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	s := &Server{addr: addr, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoCache)
		r.Get("/frame.png", s.handleFrame)
		r.Get("/palette", s.handlePalette)
	})
	r.Post("/quit", s.handleQuit)
	s.router = r
	return s
}

// Handler returns the router, for use without a listener.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.addr)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	s.logger.Info("preview listening", logging.Fields{"url": "http://" + ln.Addr().String()})
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(err, "preview server stopped")
		}
	}()
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Show encodes img and makes it the current frame.
func (s *Server) Show(img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, img); err != nil {
		return errors.Wrap(err, "encoding preview frame")
	}
	s.mu.Lock()
	s.frame = buf.Bytes()
	s.frames++
	s.mu.Unlock()
	return nil
}

// ObservePalette records the raw palette of the current frame.
func (s *Server) ObservePalette(p color.Palette) {
	cp := make(color.Palette, len(p))
	copy(cp, p)
	s.mu.Lock()
	s.palette = cp
	s.mu.Unlock()
}

func (s *Server) QuitRequested() bool {
	return s.quit.Load()
}

// Close shuts the HTTP server down if it was started.
func (s *Server) Close() error {
	if s.srv == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(ctx); err != nil {
			s.closeErr = errors.Wrap(err, "shutting down preview server")
		}
	})
	return s.closeErr
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	frame := s.frame
	s.mu.RUnlock()

	if frame == nil {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(frame)
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := PaletteResponse{Frames: s.frames, Colors: make([]Swatch, 0, len(s.palette))}
	for _, c := range s.palette {
		resp.Colors = append(resp.Colors, Swatch{R: c.R, G: c.G, B: c.B, Hex: c.Hex(), Light: c.IsLight()})
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error(err, "writing palette response", logging.Fields{
			"request_id": middleware.GetReqID(r.Context()),
		})
	}
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	s.quit.Store(true)
	s.logger.Info("quit requested over HTTP", logging.Fields{
		"request_id": middleware.GetReqID(r.Context()),
	})
	w.WriteHeader(http.StatusAccepted)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>colormood</title>
<style>
body { background: #111; color: #eee; font-family: monospace; margin: 2em; }
img { max-width: 100%; display: block; }
#palette span { display: inline-block; padding: 0.5em 1em; margin-right: 0.5em; }
</style>
</head>
<body>
<img id="frame" alt="waiting for the first frame">
<p id="palette"></p>
<form method="post" action="/quit"><button>Stop</button></form>
<script>
async function tick() {
  document.getElementById("frame").src = "/frame.png?" + Date.now();
  try {
    const res = await fetch("/palette");
    const data = await res.json();
    document.getElementById("palette").innerHTML = data.colors
      .map(c => '<span style="background:' + c.hex + ';color:' + (c.light ? '#000' : '#fff') + '">RGB: ' + c.r + ',' + c.g + ',' + c.b + '</span>')
      .join("");
  } catch (e) {}
}
setInterval(tick, 250);
tick();
</script>
</body>
</html>
`
