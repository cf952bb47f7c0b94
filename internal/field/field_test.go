package field

import (
	"math"
	"testing"

	"github.com/maax3v3/colormood/internal/color"
)

var primaries = []color.Float{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255}}

func maxChannel(pix []uint8) uint8 {
	var m uint8
	for i, v := range pix {
		if i%4 == 3 {
			continue
		}
		if v > m {
			m = v
		}
	}
	return m
}

func TestSynthesize_FullyNormalized(t *testing.T) {
	palettes := [][]color.Float{
		primaries,
		{{R: 12, G: 40, B: 3}},
		{{R: 200, G: 180, B: 10}, {R: 5, G: 5, B: 5}},
		{{R: 0.4, G: 0.2, B: 0.1}, {R: 0, G: 0, B: 0}, {R: 0.3, G: 0, B: 0}},
	}
	s := New()
	for i, p := range palettes {
		for _, tm := range []float64{0, 0.1, 3.7, 100} {
			img := s.Synthesize(p, 64, 48, tm)
			if got := maxChannel(img.Pix); got != 255 {
				t.Errorf("palette %d t=%g: max channel %d, want 255", i, tm, got)
			}
		}
	}
}

func TestSynthesize_ZeroPaletteGivesZeroField(t *testing.T) {
	img := New().Synthesize(make([]color.Float, 3), 40, 30, 1.5)
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Fatalf("got bounds %v", img.Bounds())
	}
	for i, v := range img.Pix {
		if i%4 == 3 {
			if v != 255 {
				t.Fatalf("alpha at %d is %d, want opaque", i, v)
			}
			continue
		}
		if v != 0 {
			t.Fatalf("pixel byte %d is %d, want 0", i, v)
		}
	}
}

func TestSynthesize_PeriodicInTime(t *testing.T) {
	s := New()
	period := 2 * math.Pi / DefaultSpeed
	for _, t0 := range []float64{0, 0.3, 12.5} {
		a := s.accumulate(primaries, 50, 40, t0)
		b := s.accumulate(primaries, 50, 40, t0+period)
		for i := range a {
			if math.Abs(a[i]-b[i]) > 1e-6 {
				t.Fatalf("t=%g: sample %d differs: %f vs %f", t0, i, a[i], b[i])
			}
		}

		ia := s.Synthesize(primaries, 50, 40, t0)
		ib := s.Synthesize(primaries, 50, 40, t0+period)
		for i := range ia.Pix {
			d := int(ia.Pix[i]) - int(ib.Pix[i])
			if d < -1 || d > 1 {
				t.Fatalf("t=%g: byte %d differs by %d", t0, i, d)
			}
		}
	}
}

func TestSynthesize_PrimariesBoundedWithoutNaN(t *testing.T) {
	s := New()
	buf := s.accumulate(primaries, 100, 100, 0)
	for i, v := range buf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is %f", i, v)
		}
		// Each wave weight is within [0,1], so a channel never exceeds one color's value.
		if v < 0 || v > 255+1e-9 {
			t.Fatalf("sample %d = %f outside [0,255]", i, v)
		}
	}

	img := s.Synthesize(primaries, 100, 100, 0)
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("got bounds %v", img.Bounds())
	}
	if got := maxChannel(img.Pix); got != 255 {
		t.Errorf("max channel %d, want 255", got)
	}
}

func TestSynthesize_WorkerCountDoesNotChangeOutput(t *testing.T) {
	p := []color.Float{{R: 200, G: 100, B: 50}, {R: 10, G: 220, B: 90}, {R: 90, G: 90, B: 250}}
	one := &Synthesizer{Speed: DefaultSpeed, Gamma: DefaultGamma, Workers: 1}
	many := &Synthesizer{Speed: DefaultSpeed, Gamma: DefaultGamma, Workers: 7}

	a := one.Synthesize(p, 33, 21, 4.2)
	b := many.Synthesize(p, 33, 21, 4.2)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("byte %d: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestSynthesize_Dimensions(t *testing.T) {
	s := New()
	tests := []struct {
		name       string
		w, h       int
		wantW, wantH int
	}{
		{"single pixel", 1, 1, 1, 1},
		{"single row", 17, 1, 17, 1},
		{"zero width", 0, 10, 0, 0},
		{"negative height", 10, -1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := s.Synthesize(primaries, tt.w, tt.h, 0)
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Errorf("got %v, want %dx%d", img.Bounds(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestLinspace(t *testing.T) {
	got := linspace(5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("linspace(5)[%d] = %f, want %f", i, got[i], want[i])
		}
	}
	if one := linspace(1); len(one) != 1 || one[0] != 0 {
		t.Errorf("linspace(1) = %v, want [0]", one)
	}
}
