package fingerprint

import "fmt"

// Hash64 is a 64-bit perceptual hash. Bit (r, c) of the 8x8 hash grid
// occupies position 63-(r*8+c), matching the row-major order of the array
// codec.
type Hash64 uint64

// String renders the hash as sixteen hex digits.
func (h Hash64) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// DescriptorSize is the byte width of one binary feature descriptor.
const DescriptorSize = 32

// Descriptor is a single 256-bit binary feature descriptor.
type Descriptor [DescriptorSize]byte

// Grid describes the tile partition applied to the normalized image.
type Grid struct {
	Rows int
	Cols int
}

// DefaultGrid is the 2x2 partition used when nothing else is configured.
var DefaultGrid = Grid{Rows: 2, Cols: 2}

// Fingerprint is the complete visual signature of one card image.
//
// Tiles are ordered row-major over the partition grid. Descriptors may be
// empty when the build lacks the detector or the image has no usable
// features; matching then runs on the hash signals alone.
type Fingerprint struct {
	PHash       Hash64
	DHash       Hash64
	Tiles       []Hash64
	Descriptors []Descriptor
}
