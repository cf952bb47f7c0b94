package cluster

import (
	"image"
	stdcolor "image/color"
	"math/rand"
	"testing"

	"github.com/maax3v3/colormood/internal/color"
)

func solid(w, h int, c stdcolor.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// halves paints the left split columns with left and the rest with right.
func halves(w, h, split int, left, right stdcolor.RGBA) *image.RGBA {
	img := solid(w, h, right)
	for y := 0; y < h; y++ {
		for x := 0; x < split; x++ {
			img.SetRGBA(x, y, left)
		}
	}
	return img
}

func noise(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

func assertRanked(t *testing.T, res Result, k int) {
	t.Helper()
	if len(res.Palette) != k {
		t.Fatalf("palette has %d entries, want %d", len(res.Palette), k)
	}
	if len(res.Counts) != k {
		t.Fatalf("counts has %d entries, want %d", len(res.Counts), k)
	}
	for i := 1; i < k; i++ {
		if res.Counts[i] > res.Counts[i-1] {
			t.Errorf("counts not sorted: %v", res.Counts)
		}
	}
}

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"kmeans", "PARTITION", "dominant"} {
		if _, err := ParseMethod(s); err != nil {
			t.Errorf("ParseMethod(%q): %v", s, err)
		}
	}
	if _, err := ParseMethod("median-cut"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestExtract_ExactlyKSortedByPopulation(t *testing.T) {
	c := New(Options{Seed: 7})
	for _, k := range []int{1, 2, 3, 5} {
		res, err := c.Extract(noise(320, 240, int64(k)), k)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		assertRanked(t, res, k)

		total := 0
		for _, n := range res.Counts {
			total += n
		}
		if total != 64*64 {
			t.Errorf("k=%d: counts sum to %d, want %d", k, total, 64*64)
		}
	}
}

func TestExtract_LargerHalfFirstForAnySeed(t *testing.T) {
	red := stdcolor.RGBA{220, 10, 10, 255}
	blue := stdcolor.RGBA{10, 10, 220, 255}
	img := halves(200, 100, 140, red, blue)

	for seed := int64(1); seed <= 25; seed++ {
		for _, k := range []int{2, 3} {
			res, err := New(Options{Seed: seed}).Extract(img, k)
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			assertRanked(t, res, k)
			if got := res.Palette[0]; got != (color.RGB{R: 220, G: 10, B: 10}) {
				t.Errorf("seed %d k=%d: first entry %+v, want the larger red half", seed, k, got)
			}
		}
	}
}

func TestExtract_FewerColorsThanK(t *testing.T) {
	img := solid(50, 50, stdcolor.RGBA{40, 80, 120, 255})
	res, err := New(Options{Seed: 3}).Extract(img, 4)
	if err != nil {
		t.Fatal(err)
	}
	assertRanked(t, res, 4)
	if res.Palette[0] != (color.RGB{R: 40, G: 80, B: 120}) {
		t.Errorf("dominant entry %+v, want the only color", res.Palette[0])
	}
	if res.Counts[0] != 64*64 {
		t.Errorf("dominant count %d, want every pixel", res.Counts[0])
	}
	if res.Distortion != 0 {
		t.Errorf("distortion %f, want 0 for a single color", res.Distortion)
	}
}

func TestExtract_InvalidInput(t *testing.T) {
	c := New(Options{Seed: 1})
	if _, err := c.Extract(nil, 3); err == nil {
		t.Error("expected error for nil frame")
	}
	if _, err := c.Extract(solid(4, 4, stdcolor.RGBA{A: 255}), 0); err == nil {
		t.Error("expected error for k=0")
	}
	if _, err := c.Extract(image.NewRGBA(image.Rectangle{}), 3); err == nil {
		t.Error("expected error for empty frame")
	}
}

func TestExtract_SameSeedSameResult(t *testing.T) {
	img := noise(128, 128, 99)
	a, err := New(Options{Seed: 11}).Extract(img, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(Options{Seed: 11}).Extract(img, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Palette {
		if a.Palette[i] != b.Palette[i] || a.Counts[i] != b.Counts[i] {
			t.Fatalf("runs differ: %v/%v vs %v/%v", a.Palette, a.Counts, b.Palette, b.Counts)
		}
	}
}

func TestExtract_AlternativeMethods(t *testing.T) {
	red := stdcolor.RGBA{200, 0, 0, 255}
	green := stdcolor.RGBA{0, 200, 0, 255}
	img := halves(100, 100, 75, red, green)

	for _, m := range []Method{MethodPartition, MethodDominant} {
		t.Run(string(m), func(t *testing.T) {
			res, err := New(Options{Method: m, Seed: 5}).Extract(img, 3)
			if err != nil {
				t.Fatal(err)
			}
			assertRanked(t, res, 3)
		})
	}
}

func TestDownsample_BoundedSize(t *testing.T) {
	img := noise(1920, 1080, 1)
	small := Downsample(img, 64)
	if small.Bounds().Dx() != 64 || small.Bounds().Dy() != 64 {
		t.Errorf("got %v, want 64x64", small.Bounds())
	}
	if n := len(Flatten(small)); n != 64*64 {
		t.Errorf("flattened %d points, want %d", n, 64*64)
	}
}

func TestPadTo(t *testing.T) {
	res := padTo(Result{Palette: color.Palette{{R: 1, G: 2, B: 3}}, Counts: []int{9}}, 3)
	if len(res.Palette) != 3 || res.Palette[2] != (color.RGB{R: 1, G: 2, B: 3}) || res.Counts[2] != 0 {
		t.Errorf("unexpected padding: %+v", res)
	}
	empty := padTo(Result{}, 2)
	if len(empty.Palette) != 2 {
		t.Errorf("empty result padded to %d entries, want 2", len(empty.Palette))
	}
}
