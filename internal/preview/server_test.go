package preview

import (
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maax3v3/colormood/internal/color"
	"github.com/maax3v3/colormood/internal/display"
)

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	s := New("localhost:0", nil)

	tests := []struct {
		method string
		path   string
		status int
		ctype  string
	}{
		{http.MethodGet, "/", http.StatusOK, "text/html"},
		{http.MethodGet, "/healthz", http.StatusOK, "text/plain"},
		{http.MethodGet, "/frame.png", http.StatusServiceUnavailable, "text/plain"},
		{http.MethodGet, "/palette", http.StatusOK, "application/json"},
		{http.MethodGet, "/quit", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/missing", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.ctype != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tt.ctype) {
				t.Errorf("Content-Type = %q, want prefix %q", rec.Header().Get("Content-Type"), tt.ctype)
			}
		})
	}
}

func TestServer_Frame(t *testing.T) {
	s := New("localhost:0", nil)
	img := image.NewRGBA(image.Rect(0, 0, 7, 5))
	if err := s.Show(img); err != nil {
		t.Fatal(err)
	}

	rec := do(t, s, http.MethodGet, "/frame.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	decoded, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decoding served frame: %v", err)
	}
	if decoded.Bounds().Dx() != 7 || decoded.Bounds().Dy() != 5 {
		t.Errorf("served frame size = %v", decoded.Bounds())
	}
}

func TestServer_Palette(t *testing.T) {
	s := New("localhost:0", nil)
	s.ObservePalette(color.Palette{{R: 255}, {G: 128}, {B: 1}})
	s.Show(image.NewRGBA(image.Rect(0, 0, 1, 1)))

	rec := do(t, s, http.MethodGet, "/palette")
	var resp PaletteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Frames != 1 {
		t.Errorf("Frames = %d, want 1", resp.Frames)
	}
	if len(resp.Colors) != 3 {
		t.Fatalf("got %d colors, want 3", len(resp.Colors))
	}
	if resp.Colors[0].R != 255 || resp.Colors[0].Hex != "#ff0000" {
		t.Errorf("first color = %+v", resp.Colors[0])
	}
	if resp.Colors[0].Light {
		t.Errorf("pure red should not be light")
	}
	if resp.Colors[1].G != 128 {
		t.Errorf("second color = %+v", resp.Colors[1])
	}
}

func TestServer_PaletteIsCopied(t *testing.T) {
	s := New("localhost:0", nil)
	p := color.Palette{{R: 1}}
	s.ObservePalette(p)
	p[0].R = 200

	rec := do(t, s, http.MethodGet, "/palette")
	var resp PaletteResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Colors[0].R != 1 {
		t.Errorf("palette changed after observe: %+v", resp.Colors[0])
	}
}

func TestServer_Quit(t *testing.T) {
	s := New("localhost:0", nil)
	if s.QuitRequested() {
		t.Fatal("quit requested before POST /quit")
	}
	rec := do(t, s, http.MethodPost, "/quit")
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if !s.QuitRequested() {
		t.Error("quit not requested after POST /quit")
	}
}

func TestServer_StartClose(t *testing.T) {
	s := New("127.0.0.1:0", nil)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	res, err := http.Get("http://" + s.Addr() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d", res.StatusCode)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestServer_CloseWithoutStart(t *testing.T) {
	if err := New("localhost:0", nil).Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestImplementations(t *testing.T) {
	var _ display.Sink = (*Server)(nil)
	var _ display.PaletteObserver = (*Server)(nil)
}
