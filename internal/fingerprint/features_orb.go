//go:build orb

package fingerprint

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// platformExtractor returns the ORB-backed extractor linked in by the orb
// build tag.
func platformExtractor() FeatureExtractor {
	return orbExtractor{}
}

type orbExtractor struct{}

func (orbExtractor) Name() string { return "orb" }

func (orbExtractor) Detect(img *image.Gray) ([]Descriptor, error) {
	mat, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	orb := gocv.NewORB()
	defer orb.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	_, desc := orb.DetectAndCompute(mat, mask)
	defer desc.Close()

	if desc.Empty() || desc.Cols() != DescriptorSize {
		return []Descriptor{}, nil
	}

	raw := desc.ToBytes()
	descs := make([]Descriptor, desc.Rows())
	for i := range descs {
		copy(descs[i][:], raw[i*DescriptorSize:])
	}
	return descs, nil
}
