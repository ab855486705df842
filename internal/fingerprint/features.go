package fingerprint

import "image"

// FeatureExtractor derives binary feature descriptors from a
// full-resolution grayscale image.
type FeatureExtractor interface {
	// Name identifies the extractor in diagnostics.
	Name() string
	// Detect returns the descriptors found in img. Implementations return an
	// empty, non-nil slice when nothing usable is found.
	Detect(img *image.Gray) ([]Descriptor, error)
}

// NoFeatures returns the extractor used when descriptor support is absent.
// It always produces an empty descriptor set.
func NoFeatures() FeatureExtractor {
	return noFeatures{}
}

type noFeatures struct{}

func (noFeatures) Name() string { return "none" }

func (noFeatures) Detect(*image.Gray) ([]Descriptor, error) {
	return []Descriptor{}, nil
}
