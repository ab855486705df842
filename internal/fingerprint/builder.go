package fingerprint

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"

	"kartoteka/internal/cardimage"
)

// DefaultMaxDescriptors bounds the descriptor set retained per fingerprint.
const DefaultMaxDescriptors = 500

// Option customizes a Builder.
type Option func(*Builder)

// WithGrid overrides the tile partition. Non-positive dimensions are
// ignored.
func WithGrid(grid Grid) Option {
	return func(b *Builder) {
		if grid.Rows > 0 && grid.Cols > 0 {
			b.grid = grid
		}
	}
}

// WithSize overrides the normalized grid dimensions. Non-positive values are
// ignored.
func WithSize(width, height int) Option {
	return func(b *Builder) {
		if width > 0 && height > 0 {
			b.width = width
			b.height = height
		}
	}
}

// WithFeatures toggles descriptor extraction. Enabling it selects the
// platform extractor; builds without one degrade to empty descriptor sets.
func WithFeatures(enabled bool) Option {
	return func(b *Builder) {
		b.features = enabled
	}
}

// WithMaxDescriptors bounds the retained descriptor count. Non-positive
// limits are ignored.
func WithMaxDescriptors(limit int) Option {
	return func(b *Builder) {
		if limit > 0 {
			b.maxDescriptors = limit
		}
	}
}

// WithExtractor injects a specific feature extractor, bypassing platform
// selection.
func WithExtractor(extractor FeatureExtractor) Option {
	return func(b *Builder) {
		b.extractor = extractor
	}
}

// Builder derives fingerprints from decoded images. It is immutable after
// construction and safe for concurrent use.
type Builder struct {
	grid           Grid
	width          int
	height         int
	features       bool
	maxDescriptors int
	extractor      FeatureExtractor
}

// New constructs a Builder with the default partition and grid size.
// Descriptor extraction is off unless requested.
func New(opts ...Option) *Builder {
	b := &Builder{
		grid:           DefaultGrid,
		width:          cardimage.DefaultWidth,
		height:         cardimage.DefaultHeight,
		maxDescriptors: DefaultMaxDescriptors,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.extractor == nil {
		if b.features {
			b.extractor = platformExtractor()
		} else {
			b.extractor = NoFeatures()
		}
	}
	return b
}

// Grid returns the tile partition this builder applies.
func (b *Builder) Grid() Grid { return b.grid }

// ExtractorName identifies the feature extractor in use.
func (b *Builder) ExtractorName() string { return b.extractor.Name() }

// Compute derives the fingerprint of img.
func (b *Builder) Compute(img image.Image) (Fingerprint, error) {
	grid := cardimage.Normalize(img, b.width, b.height)

	phash, err := perceptualHash(grid)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("global phash: %w", err)
	}
	dhash, err := differenceHash(grid)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("global dhash: %w", err)
	}
	tiles, err := b.tileHashes(grid)
	if err != nil {
		return Fingerprint{}, err
	}

	fp := Fingerprint{
		PHash:       phash,
		DHash:       dhash,
		Tiles:       tiles,
		Descriptors: []Descriptor{},
	}

	if _, disabled := b.extractor.(noFeatures); !disabled {
		// A failing detector degrades to hash-only matching.
		descs, err := b.extractor.Detect(cardimage.Grayscale(img))
		if err == nil && len(descs) > 0 {
			if len(descs) > b.maxDescriptors {
				descs = descs[:b.maxDescriptors]
			}
			fp.Descriptors = descs
		}
	}
	return fp, nil
}

// ComputeFile decodes the image at path and derives its fingerprint.
func (b *Builder) ComputeFile(path string) (Fingerprint, error) {
	img, err := cardimage.Open(path)
	if err != nil {
		return Fingerprint{}, err
	}
	return b.Compute(img)
}

// tileHashes hashes each cell of the row-major partition. Integer division
// keeps the full grid covered when dimensions do not divide evenly.
func (b *Builder) tileHashes(grid *image.Gray) ([]Hash64, error) {
	bounds := grid.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	tiles := make([]Hash64, 0, b.grid.Rows*b.grid.Cols)
	for row := 0; row < b.grid.Rows; row++ {
		top := bounds.Min.Y + row*height/b.grid.Rows
		bottom := bounds.Min.Y + (row+1)*height/b.grid.Rows
		for col := 0; col < b.grid.Cols; col++ {
			left := bounds.Min.X + col*width/b.grid.Cols
			right := bounds.Min.X + (col+1)*width/b.grid.Cols

			hash, err := perceptualHash(grid.SubImage(image.Rect(left, top, right, bottom)))
			if err != nil {
				return nil, fmt.Errorf("tile (%d,%d) phash: %w", row, col, err)
			}
			tiles = append(tiles, hash)
		}
	}
	return tiles, nil
}

func perceptualHash(img image.Image) (Hash64, error) {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return 0, err
	}
	return Hash64(hash.GetHash()), nil
}

func differenceHash(img image.Image) (Hash64, error) {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return 0, err
	}
	return Hash64(hash.GetHash()), nil
}
