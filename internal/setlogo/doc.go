// Package setlogo identifies the set a card belongs to by comparing a crop
// of its set symbol against a directory of reference logo images.
//
// Logos are keyed by file name stem, so BS.png catalogues the code "BS". Each
// logo and each probe goes through the same preprocessing (fit to 32x32
// grayscale, median denoise, contrast stretch, bilevel threshold) before
// hashing, which makes the comparison robust against scan exposure and
// anti-aliasing differences. A probe is scored against every catalogued logo
// by the sum of three Hamming distances (pHash, dHash, aHash).
//
// The index applies no acceptance threshold. Callers decide how large a
// distance still counts as a recognition.
package setlogo
