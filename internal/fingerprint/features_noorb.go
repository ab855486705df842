//go:build !orb

package fingerprint

// platformExtractor reports the descriptor capability of this build. Without
// the orb tag there is no OpenCV linkage, so fingerprints carry empty
// descriptor sets and matching runs on the hash signals alone.
func platformExtractor() FeatureExtractor {
	return NoFeatures()
}
