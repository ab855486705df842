// Package fingerprint builds, serializes, and scores the visual signatures
// used to recognize catalogued cards.
//
// A fingerprint combines four complementary signals. The global DCT
// perceptual hash and the global gradient hash come from one canonical
// grayscale grid; a row-major partition of that grid yields per-tile
// perceptual hashes that keep coarse spatial structure; an optional set of
// binary feature descriptors is extracted from the full-resolution capture
// when the build carries the detector. Distance sums the Hamming distances
// of the hash signals, subtracts the count of unambiguous descriptor
// matches, and floors at zero.
//
// Components serialize independently through a self-describing array codec
// so stored rows decode without guessing shapes or dtypes. Decoding is
// strict: malformed text fails with ErrMalformed and out-of-contract shapes
// with ErrShapeMismatch; nothing is coerced.
package fingerprint
