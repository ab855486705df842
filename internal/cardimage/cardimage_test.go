package cardimage_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kartoteka/internal/cardimage"
	"kartoteka/internal/testsupport"
)

func TestDecodeSupportsCommonFormats(t *testing.T) {
	src := testsupport.TwoToneCard()

	encoders := []struct {
		name   string
		encode func(*bytes.Buffer) error
	}{
		{name: "png", encode: func(buf *bytes.Buffer) error { return png.Encode(buf, src) }},
		{name: "jpeg", encode: func(buf *bytes.Buffer) error { return jpeg.Encode(buf, src, nil) }},
	}

	for _, tc := range encoders {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tc.encode(&buf); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			img, err := cardimage.Decode(&buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
				t.Fatalf("unexpected bounds %v", img.Bounds())
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := cardimage.Decode(strings.NewReader("not an image at all"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !errors.Is(err, cardimage.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := cardimage.Open(filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, cardimage.ErrDecode) {
		t.Fatalf("missing file should not report ErrDecode, got %v", err)
	}
}

func TestOpenDecodesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.png")
	testsupport.WriteImage(t, path, testsupport.TwoToneCard())

	img, err := cardimage.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Fatalf("unexpected width %d", img.Bounds().Dx())
	}
}

func TestOpenGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.jpg")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02}, 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	_, err := cardimage.Open(path)
	if !errors.Is(err, cardimage.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestNormalizeDimensions(t *testing.T) {
	cases := []struct {
		name          string
		srcW, srcH    int
		width, height int
	}{
		{name: "landscape to square", srcW: 200, srcH: 100, width: 256, height: 256},
		{name: "portrait to square", srcW: 90, srcH: 300, width: 256, height: 256},
		{name: "upscale", srcW: 10, srcH: 10, width: 128, height: 128},
		{name: "non-square target", srcW: 64, srcH: 64, width: 120, height: 80},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, tc.srcW, tc.srcH))
			got := cardimage.Normalize(src, tc.width, tc.height)
			if got.Bounds().Dx() != tc.width || got.Bounds().Dy() != tc.height {
				t.Fatalf("normalized bounds = %v, want %dx%d", got.Bounds(), tc.width, tc.height)
			}
			if got.Bounds().Min != (image.Point{}) {
				t.Fatalf("normalized image should be zero-based, got %v", got.Bounds().Min)
			}
		})
	}
}

func TestNormalizePreservesUniformTone(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	gray := color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			src.SetNRGBA(x, y, gray)
		}
	}

	got := cardimage.Normalize(src, 64, 64)
	center := got.GrayAt(32, 32).Y
	if center < 95 || center > 105 {
		t.Fatalf("center tone = %d, want about 100", center)
	}
}

func TestGrayscaleKeepsResolution(t *testing.T) {
	src := testsupport.NoiseCard(3)
	got := cardimage.Grayscale(src)
	if got.Bounds() != src.Bounds() {
		t.Fatalf("grayscale bounds = %v, want %v", got.Bounds(), src.Bounds())
	}
}

func TestIsSupportedFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{name: "card.jpg", want: true},
		{name: "card.JPEG", want: true},
		{name: "card.png", want: true},
		{name: "card.webp", want: true},
		{name: "card.tiff", want: true},
		{name: "card.bmp", want: true},
		{name: "notes.txt", want: false},
		{name: "archive.zip", want: false},
		{name: "no-extension", want: false},
		{name: ".png", want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cardimage.IsSupportedFile(tc.name); got != tc.want {
				t.Fatalf("IsSupportedFile(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
