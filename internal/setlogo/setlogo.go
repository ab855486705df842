package setlogo

import (
	"fmt"
	"image"
	"log/slog"
	"math/bits"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corona10/goimagehash"

	"kartoteka/internal/cardimage"
	"kartoteka/internal/logging"
)

// Reference logos and probes are hashed on this grid.
const (
	symbolWidth  = 32
	symbolHeight = 32
)

// DefaultLimit is the shortlist size Identify falls back to.
const DefaultLimit = 4

// Match pairs a catalogued set code with its distance from the probe.
type Match struct {
	Code     string `json:"code"`
	Distance int    `json:"distance"`
}

type entry struct {
	code  string
	phash uint64
	dhash uint64
	ahash uint64
}

// Index holds preprocessed hashes for a directory of set logos. It is
// immutable after LoadIndex and safe for concurrent use.
type Index struct {
	entries []entry
}

// LoadIndex reads every .png logo in dir and hashes it under its file name
// stem. Unreadable logos are skipped with a warning; an index with no usable
// logos is an error. A nil logger disables diagnostics.
func LoadIndex(dir string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	log := logging.NewComponentLogger(logger, "setlogo")

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read logo directory: %w", err)
	}

	index := &Index{}
	for _, file := range files {
		if file.IsDir() || !strings.EqualFold(filepath.Ext(file.Name()), ".png") {
			continue
		}
		path := filepath.Join(dir, file.Name())
		img, err := cardimage.Open(path)
		if err != nil {
			log.Warn("skipping unreadable logo", logging.String("path", path), logging.Error(err))
			continue
		}
		code := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		catalogued, err := hashSymbol(code, img)
		if err != nil {
			log.Warn("skipping unhashable logo", logging.String("path", path), logging.Error(err))
			continue
		}
		index.entries = append(index.entries, catalogued)
	}

	if len(index.entries) == 0 {
		return nil, fmt.Errorf("no usable logos in %s", dir)
	}
	sort.Slice(index.entries, func(i, j int) bool {
		return index.entries[i].code < index.entries[j].code
	})
	log.Debug("logo index loaded", logging.String("dir", dir), logging.Int("logos", len(index.entries)))
	return index, nil
}

// Len reports the number of catalogued logos.
func (idx *Index) Len() int { return len(idx.entries) }

// Identify ranks the catalogued logos by ascending distance from the symbol
// crop and returns up to limit matches. Catalogue order breaks ties.
func (idx *Index) Identify(symbol image.Image, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	probe, err := hashSymbol("", symbol)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(idx.entries))
	for _, e := range idx.entries {
		distance := bits.OnesCount64(e.phash^probe.phash) +
			bits.OnesCount64(e.dhash^probe.dhash) +
			bits.OnesCount64(e.ahash^probe.ahash)
		matches = append(matches, Match{Code: e.code, Distance: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func hashSymbol(code string, img image.Image) (entry, error) {
	prepared := preprocessSymbol(img)

	phash, err := goimagehash.PerceptionHash(prepared)
	if err != nil {
		return entry{}, fmt.Errorf("symbol phash: %w", err)
	}
	dhash, err := goimagehash.DifferenceHash(prepared)
	if err != nil {
		return entry{}, fmt.Errorf("symbol dhash: %w", err)
	}
	ahash, err := goimagehash.AverageHash(prepared)
	if err != nil {
		return entry{}, fmt.Errorf("symbol ahash: %w", err)
	}

	return entry{
		code:  code,
		phash: phash.GetHash(),
		dhash: dhash.GetHash(),
		ahash: ahash.GetHash(),
	}, nil
}

// preprocessSymbol normalizes a symbol crop before hashing: fit to the 32x32
// grayscale grid, denoise, stretch contrast, then reduce to two levels.
func preprocessSymbol(img image.Image) *image.Gray {
	prepared := medianFilter(cardimage.Normalize(img, symbolWidth, symbolHeight))
	stretchContrast(prepared)
	threshold(prepared, 128)
	return prepared
}

// medianFilter applies a 3x3 median with edge pixels clamped to the border.
func medianFilter(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))

	var window [9]uint8
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				sy := clamp(y+dy, 0, height-1)
				for dx := -1; dx <= 1; dx++ {
					sx := clamp(x+dx, 0, width-1)
					window[n] = src.GrayAt(bounds.Min.X+sx, bounds.Min.Y+sy).Y
					n++
				}
			}
			dst.Pix[y*dst.Stride+x] = median9(window)
		}
	}
	return dst
}

// median9 sorts a copy of the window in place. Nine elements make insertion
// sort the cheapest option.
func median9(window [9]uint8) uint8 {
	for i := 1; i < len(window); i++ {
		for j := i; j > 0 && window[j-1] > window[j]; j-- {
			window[j], window[j-1] = window[j-1], window[j]
		}
	}
	return window[4]
}

// stretchContrast linearly maps the darkest pixel to 0 and the brightest to
// 255. Flat images are left untouched.
func stretchContrast(img *image.Gray) {
	lo, hi := uint8(255), uint8(0)
	for _, v := range img.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return
	}
	scale := 255.0 / float64(hi-lo)
	for i, v := range img.Pix {
		img.Pix[i] = uint8(float64(v-lo)*scale + 0.5)
	}
}

// threshold reduces the image to two levels around cut.
func threshold(img *image.Gray, cut uint8) {
	for i, v := range img.Pix {
		if v >= cut {
			img.Pix[i] = 255
		} else {
			img.Pix[i] = 0
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
