package fingerprint

import (
	"encoding/binary"
	"math/bits"
)

// DefaultRatio is the Lowe ratio used to accept descriptor matches: the
// nearest neighbor must beat the second nearest by this factor.
const DefaultRatio = 0.75

// maxDescriptorDistance is one past the largest possible Hamming distance
// between two descriptors.
const maxDescriptorDistance = DescriptorSize*8 + 1

// HammingDistance64 counts differing bits between two hashes.
func HammingDistance64(a, b Hash64) int {
	return bits.OnesCount64(uint64(a) ^ uint64(b))
}

// HammingDistance counts differing bits between two descriptors.
func (d Descriptor) HammingDistance(other Descriptor) int {
	count := 0
	for i := 0; i < DescriptorSize; i += 8 {
		count += bits.OnesCount64(binary.LittleEndian.Uint64(d[i:]) ^ binary.LittleEndian.Uint64(other[i:]))
	}
	return count
}

// Distance scores dissimilarity between two fingerprints: the summed Hamming
// distances of the global hashes and the paired tiles, reduced by the number
// of good descriptor matches and floored at zero. Tile lists of unequal
// length pair up to the shorter one.
func Distance(a, b Fingerprint) int {
	score := HammingDistance64(a.PHash, b.PHash)
	score += HammingDistance64(a.DHash, b.DHash)

	pairs := len(a.Tiles)
	if len(b.Tiles) < pairs {
		pairs = len(b.Tiles)
	}
	for i := 0; i < pairs; i++ {
		score += HammingDistance64(a.Tiles[i], b.Tiles[i])
	}

	score -= GoodMatches(a.Descriptors, b.Descriptors, DefaultRatio)
	if score < 0 {
		return 0
	}
	return score
}

// GoodMatches counts query descriptors whose nearest train descriptor beats
// the second nearest by the ratio test. Fewer than two train descriptors
// cannot be disambiguated, so the count is zero.
func GoodMatches(query, train []Descriptor, ratio float64) int {
	if len(query) == 0 || len(train) < 2 {
		return 0
	}
	good := 0
	for i := range query {
		best, second := maxDescriptorDistance, maxDescriptorDistance
		for j := range train {
			d := query[i].HammingDistance(train[j])
			switch {
			case d < best:
				second = best
				best = d
			case d < second:
				second = d
			}
		}
		if float64(best) < ratio*float64(second) {
			good++
		}
	}
	return good
}
