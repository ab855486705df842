package testsupport

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"kartoteka/internal/fingerprint"
)

// TwoToneCard renders a 64x64 white card with a centered black rectangle.
// The hard edges give every hash family stable, non-degenerate bits.
func TwoToneCard() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(16, 16, 48, 48), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}

// AlterPixels returns a copy of img with n pixels along the diagonal
// repainted red. Small n keeps the copy perceptually close to the original.
func AlterPixels(img image.Image, n int) image.Image {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)
	for i := 0; i < n; i++ {
		x := bounds.Min.X + i
		y := bounds.Min.Y + i
		if x >= bounds.Max.X || y >= bounds.Max.Y {
			break
		}
		out.Set(x, y, color.NRGBA{R: 255, A: 255})
	}
	return out
}

// NoiseCard renders a 64x64 card of seeded random color noise. Distinct
// seeds produce cards that no hash family confuses with each other.
func NoiseCard(seed int64) image.Image {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// WriteImage encodes img as PNG at path, creating parent directories.
func WriteImage(t testing.TB, path string, img image.Image) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create image directory: %v", err)
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image file: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
}

// MustFingerprint computes a fingerprint for img or fails the test.
func MustFingerprint(t testing.TB, img image.Image, opts ...fingerprint.Option) fingerprint.Fingerprint {
	t.Helper()

	fp, err := fingerprint.New(opts...).Compute(img)
	if err != nil {
		t.Fatalf("fingerprint.Compute: %v", err)
	}
	return fp
}
