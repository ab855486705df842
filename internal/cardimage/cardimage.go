package cardimage

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// imaging registers jpeg/png/gif/bmp/tiff; webp is decode-only via x/image.
	_ "golang.org/x/image/webp"
)

// DefaultWidth and DefaultHeight define the canonical hashing grid.
const (
	DefaultWidth  = 256
	DefaultHeight = 256
)

// ErrDecode marks inputs that cannot be interpreted as a raster image.
var ErrDecode = errors.New("image cannot be decoded")

// Open reads and decodes an image file, honoring EXIF orientation.
func Open(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Decode decodes a raster image from r, honoring EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// Normalize converts img to the canonical grayscale grid: luminance
// conversion, then an aspect-preserving scale with center crop to exactly
// width x height. It never fails on a decoded image.
func Normalize(img image.Image, width, height int) *image.Gray {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	gray := imaging.Grayscale(img)
	fitted := imaging.Fill(gray, width, height, imaging.Center, imaging.Lanczos)
	return flatten(fitted)
}

// Grayscale converts img to a single-channel luminance image at its original
// size. Feature detectors consume this full-resolution form.
func Grayscale(img image.Image) *image.Gray {
	return flatten(imaging.Grayscale(img))
}

// flatten collapses a grayscale NRGBA into one channel. After
// imaging.Grayscale all channels carry the luminance, so the red channel is
// taken verbatim.
func flatten(src *image.NRGBA) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		srcRow := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		dstRow := dst.PixOffset(0, y)
		for x := 0; x < bounds.Dx(); x++ {
			dst.Pix[dstRow+x] = src.Pix[srcRow+x*4]
		}
	}
	return dst
}

var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// IsSupportedFile reports whether name carries a decodable raster extension.
func IsSupportedFile(name string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
