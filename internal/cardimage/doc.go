// Package cardimage decodes card photographs and canonicalizes them for
// fingerprinting.
//
// Decoding honors EXIF orientation so phone captures hash the same way
// regardless of how the camera was held. Normalization produces the fixed
// grayscale grid every hash in the engine is computed from: aspect-preserving
// scale followed by a center crop, so card borders land in comparable
// positions across captures.
//
// Normalized images are request-scoped values; nothing in the engine persists
// or caches them.
package cardimage
