package fingerprint

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrMalformed marks serialized array text that cannot be decoded.
var ErrMalformed = errors.New("malformed fingerprint encoding")

// ErrShapeMismatch marks a well-formed array whose shape does not fit the
// fingerprint component it was stored under.
var ErrShapeMismatch = errors.New("fingerprint shape mismatch")

// Array is a dense row-major uint8 tensor, the unit of fingerprint
// serialization.
type Array struct {
	Shape []int
	Data  []byte
}

// Wire layout: magic, dtype, rank, rank little-endian uint32 dims, then the
// raw samples. The whole frame travels as base64 text so it fits TEXT
// columns and JSON payloads unchanged.
const (
	packMagic  = "kta1"
	dtypeUint8 = 0x01
)

// Pack serializes a into self-describing text.
func Pack(a Array) (string, error) {
	size := 1
	for _, dim := range a.Shape {
		if dim < 0 {
			return "", fmt.Errorf("pack array: negative dimension %d in shape %v", dim, a.Shape)
		}
		if dim > 0 && size > math.MaxInt32/dim {
			return "", fmt.Errorf("pack array: shape %v overflows", a.Shape)
		}
		size *= dim
	}
	if size != len(a.Data) {
		return "", fmt.Errorf("pack array: shape %v wants %d samples, have %d", a.Shape, size, len(a.Data))
	}

	buf := make([]byte, 0, len(packMagic)+2+4*len(a.Shape)+len(a.Data))
	buf = append(buf, packMagic...)
	buf = append(buf, dtypeUint8, byte(len(a.Shape)))
	for _, dim := range a.Shape {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(dim))
	}
	buf = append(buf, a.Data...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Unpack reverses Pack. Every structural fault wraps ErrMalformed.
func Unpack(s string) (Array, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Array{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	header := len(packMagic) + 2
	if len(raw) < header {
		return Array{}, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	if string(raw[:len(packMagic)]) != packMagic {
		return Array{}, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	if raw[len(packMagic)] != dtypeUint8 {
		return Array{}, fmt.Errorf("%w: unsupported dtype 0x%02x", ErrMalformed, raw[len(packMagic)])
	}
	rank := int(raw[len(packMagic)+1])
	if len(raw) < header+4*rank {
		return Array{}, fmt.Errorf("%w: truncated shape", ErrMalformed)
	}

	shape := make([]int, rank)
	size := int64(1)
	for i := 0; i < rank; i++ {
		dim := int(binary.LittleEndian.Uint32(raw[header+4*i:]))
		shape[i] = dim
		size *= int64(dim)
		if size > math.MaxInt32 {
			return Array{}, fmt.Errorf("%w: implausible shape %v", ErrMalformed, shape)
		}
	}

	data := raw[header+4*rank:]
	if int64(len(data)) != size {
		return Array{}, fmt.Errorf("%w: shape %v wants %d samples, have %d", ErrMalformed, shape, size, len(data))
	}
	out := Array{Shape: shape, Data: make([]byte, len(data))}
	copy(out.Data, data)
	return out, nil
}

// Encoded is the persisted textual form of a fingerprint, one field per
// component.
type Encoded struct {
	PHash     string `json:"phash"`
	DHash     string `json:"dhash"`
	TilePHash string `json:"tile_phash"`
	ORB       string `json:"orb"`
}

// Encode serializes every component of the fingerprint.
func (fp Fingerprint) Encode() (Encoded, error) {
	phash, err := Pack(hashToArray(fp.PHash))
	if err != nil {
		return Encoded{}, fmt.Errorf("encode phash: %w", err)
	}
	dhash, err := Pack(hashToArray(fp.DHash))
	if err != nil {
		return Encoded{}, fmt.Errorf("encode dhash: %w", err)
	}
	tiles, err := Pack(tilesToArray(fp.Tiles))
	if err != nil {
		return Encoded{}, fmt.Errorf("encode tile phash: %w", err)
	}
	orb, err := Pack(descriptorsToArray(fp.Descriptors))
	if err != nil {
		return Encoded{}, fmt.Errorf("encode descriptors: %w", err)
	}
	return Encoded{PHash: phash, DHash: dhash, TilePHash: tiles, ORB: orb}, nil
}

// Decode reconstructs a fingerprint from its persisted form.
func Decode(enc Encoded) (Fingerprint, error) {
	var fp Fingerprint

	arr, err := Unpack(enc.PHash)
	if err == nil {
		fp.PHash, err = hashFromArray(arr)
	}
	if err != nil {
		return Fingerprint{}, fmt.Errorf("decode phash: %w", err)
	}

	arr, err = Unpack(enc.DHash)
	if err == nil {
		fp.DHash, err = hashFromArray(arr)
	}
	if err != nil {
		return Fingerprint{}, fmt.Errorf("decode dhash: %w", err)
	}

	arr, err = Unpack(enc.TilePHash)
	if err == nil {
		fp.Tiles, err = tilesFromArray(arr)
	}
	if err != nil {
		return Fingerprint{}, fmt.Errorf("decode tile phash: %w", err)
	}

	arr, err = Unpack(enc.ORB)
	if err == nil {
		fp.Descriptors, err = descriptorsFromArray(arr)
	}
	if err != nil {
		return Fingerprint{}, fmt.Errorf("decode descriptors: %w", err)
	}
	return fp, nil
}

func hashToArray(h Hash64) Array {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(uint64(h) >> (63 - i) & 1)
	}
	return Array{Shape: []int{8, 8}, Data: data}
}

func hashFromArray(a Array) (Hash64, error) {
	if len(a.Shape) != 2 || a.Shape[0] != 8 || a.Shape[1] != 8 {
		return 0, fmt.Errorf("%w: hash array has shape %v, want [8 8]", ErrShapeMismatch, a.Shape)
	}
	var h uint64
	for i, bit := range a.Data {
		if bit > 1 {
			return 0, fmt.Errorf("%w: hash sample %d is not a bit", ErrMalformed, bit)
		}
		h |= uint64(bit) << (63 - i)
	}
	return Hash64(h), nil
}

func tilesToArray(tiles []Hash64) Array {
	data := make([]byte, 0, len(tiles)*64)
	for _, tile := range tiles {
		data = append(data, hashToArray(tile).Data...)
	}
	return Array{Shape: []int{len(tiles), 8, 8}, Data: data}
}

func tilesFromArray(a Array) ([]Hash64, error) {
	if len(a.Shape) != 3 || a.Shape[1] != 8 || a.Shape[2] != 8 {
		return nil, fmt.Errorf("%w: tile array has shape %v, want [n 8 8]", ErrShapeMismatch, a.Shape)
	}
	tiles := make([]Hash64, a.Shape[0])
	for i := range tiles {
		tile, err := hashFromArray(Array{Shape: []int{8, 8}, Data: a.Data[i*64 : (i+1)*64]})
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		tiles[i] = tile
	}
	return tiles, nil
}

func descriptorsToArray(descs []Descriptor) Array {
	data := make([]byte, 0, len(descs)*DescriptorSize)
	for i := range descs {
		data = append(data, descs[i][:]...)
	}
	return Array{Shape: []int{len(descs), DescriptorSize}, Data: data}
}

func descriptorsFromArray(a Array) ([]Descriptor, error) {
	if len(a.Shape) != 2 || a.Shape[1] != DescriptorSize {
		return nil, fmt.Errorf("%w: descriptor array has shape %v, want [n %d]", ErrShapeMismatch, a.Shape, DescriptorSize)
	}
	descs := make([]Descriptor, a.Shape[0])
	for i := range descs {
		copy(descs[i][:], a.Data[i*DescriptorSize:])
	}
	return descs, nil
}
