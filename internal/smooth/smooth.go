// Package smooth blends each new palette into a running per-slot state so the
// rendered colors do not flicker from frame to frame.
//
// Slots are matched by rank only: slot i of the state follows slot i of every
// palette, whatever color it holds.
package smooth

import (
	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/color"
)

// DefaultAlpha keeps 80% of the history and takes 20% from each new palette.
const DefaultAlpha = 0.8

// State is the smoothed palette, one floating-point color per slot.
type State []color.Float

// NewState returns an all-black state with k slots.
func NewState(k int) State {
	return make(State, k)
}

// Blend returns s*alpha + p*(1-alpha) slot by slot. s is not modified.
func Blend(s State, p color.Palette, alpha float64) (State, error) {
	if len(s) != len(p) {
		return nil, errors.Errorf("state has %d slots but palette has %d colors", len(s), len(p))
	}
	if alpha < 0 || alpha > 1 {
		return nil, errors.Errorf("smoothing factor must be within [0,1], got %g", alpha)
	}

	out := make(State, len(s))
	for i, c := range p {
		f := c.Float()
		out[i] = color.Float{
			R: s[i].R*alpha + f.R*(1-alpha),
			G: s[i].G*alpha + f.G*(1-alpha),
			B: s[i].B*alpha + f.B*(1-alpha),
		}
	}
	return out, nil
}

// Palette quantizes the state.
func (s State) Palette() color.Palette {
	p := make(color.Palette, len(s))
	for i, f := range s {
		p[i] = f.Quantize()
	}
	return p
}
