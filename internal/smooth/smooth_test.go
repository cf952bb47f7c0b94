package smooth

import (
	"math"
	"testing"

	"github.com/maax3v3/colormood/internal/color"
)

func TestBlend_IsLinearInterpolation(t *testing.T) {
	s := State{{R: 10, G: 20, B: 30}, {R: 200.5, G: 0, B: 99.25}, {R: 0, G: 0, B: 0}}
	p := color.Palette{{R: 255, G: 0, B: 0}, {R: 3, G: 4, B: 5}, {R: 128, G: 64, B: 32}}

	for _, alpha := range []float64{0, 0.25, DefaultAlpha, 1} {
		got, err := Blend(s, p, alpha)
		if err != nil {
			t.Fatal(err)
		}
		for i := range s {
			f := p[i].Float()
			want := color.Float{
				R: alpha*s[i].R + (1-alpha)*f.R,
				G: alpha*s[i].G + (1-alpha)*f.G,
				B: alpha*s[i].B + (1-alpha)*f.B,
			}
			if got[i] != want {
				t.Errorf("alpha=%g slot %d: got %+v, want %+v", alpha, i, got[i], want)
			}
		}
	}
}

func TestBlend_DoesNotMutateInput(t *testing.T) {
	s := State{{R: 1, G: 2, B: 3}}
	if _, err := Blend(s, color.Palette{{R: 255, G: 255, B: 255}}, 0.5); err != nil {
		t.Fatal(err)
	}
	if s[0] != (color.Float{R: 1, G: 2, B: 3}) {
		t.Errorf("input state changed to %+v", s[0])
	}
}

func TestBlend_ConvergesExponentially(t *testing.T) {
	p := color.Palette{{R: 255, G: 0, B: 0}, {R: 0, G: 200, B: 0}, {R: 17, G: 34, B: 51}}
	s := NewState(len(p))
	maxChannel := 255.0

	for n := 1; n <= 40; n++ {
		var err error
		s, err = Blend(s, p, DefaultAlpha)
		if err != nil {
			t.Fatal(err)
		}
		bound := math.Pow(DefaultAlpha, float64(n))*maxChannel + 1e-9
		for i, f := range s {
			want := p[i].Float()
			diffs := []float64{want.R - f.R, want.G - f.G, want.B - f.B}
			for _, d := range diffs {
				if math.Abs(d) > bound {
					t.Fatalf("n=%d slot %d: error %f exceeds %f", n, i, math.Abs(d), bound)
				}
			}
		}
	}
	if got := s.Palette(); got[0] != p[0] || got[1] != p[1] || got[2] != p[2] {
		t.Errorf("state did not converge: %v, want %v", got, p)
	}
}

func TestBlend_Errors(t *testing.T) {
	if _, err := Blend(NewState(2), color.Palette{{}}, 0.8); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := Blend(NewState(1), color.Palette{{}}, 1.5); err == nil {
		t.Error("expected error for alpha > 1")
	}
}

func TestNewState_IsBlack(t *testing.T) {
	s := NewState(3)
	if len(s) != 3 {
		t.Fatalf("len = %d, want 3", len(s))
	}
	for i, c := range s.Palette() {
		if c != (color.RGB{}) {
			t.Errorf("slot %d = %+v, want black", i, c)
		}
	}
}
