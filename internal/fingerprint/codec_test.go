package fingerprint_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"kartoteka/internal/fingerprint"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		arr  fingerprint.Array
	}{
		{
			name: "hash grid",
			arr:  fingerprint.Array{Shape: []int{8, 8}, Data: bitPattern(64)},
		},
		{
			name: "tile stack",
			arr:  fingerprint.Array{Shape: []int{4, 8, 8}, Data: bitPattern(256)},
		},
		{
			name: "descriptor block",
			arr:  fingerprint.Array{Shape: []int{3, 32}, Data: bytePattern(96)},
		},
		{
			name: "empty descriptor block",
			arr:  fingerprint.Array{Shape: []int{0, 32}, Data: []byte{}},
		},
		{
			name: "empty tile stack",
			arr:  fingerprint.Array{Shape: []int{0, 8, 8}, Data: []byte{}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			packed, err := fingerprint.Pack(tc.arr)
			if err != nil {
				t.Fatalf("Pack failed: %v", err)
			}
			got, err := fingerprint.Unpack(packed)
			if err != nil {
				t.Fatalf("Unpack failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.arr) {
				t.Fatalf("round trip mismatch: got %+v want %+v", got, tc.arr)
			}
		})
	}
}

func TestPackRejectsInconsistentShape(t *testing.T) {
	_, err := fingerprint.Pack(fingerprint.Array{Shape: []int{2, 32}, Data: make([]byte, 63)})
	if err == nil {
		t.Fatal("expected error for shape and data length mismatch")
	}
	_, err = fingerprint.Pack(fingerprint.Array{Shape: []int{-1, 32}, Data: nil})
	if err == nil {
		t.Fatal("expected error for negative dimension")
	}
}

func TestUnpackRejectsMalformed(t *testing.T) {
	valid, err := fingerprint.Pack(fingerprint.Array{Shape: []int{8, 8}, Data: make([]byte, 64)})
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	cases := []struct {
		name  string
		input string
	}{
		{name: "not base64", input: "@@not-base64@@"},
		{name: "empty", input: ""},
		{name: "wrong magic", input: "WFhYWAEC" + valid[8:]},
		{name: "truncated", input: valid[:len(valid)-8]},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fingerprint.Unpack(tc.input)
			if err == nil {
				t.Fatal("expected decode error")
			}
			if !errors.Is(err, fingerprint.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestEncodeDecodeFingerprint(t *testing.T) {
	fp := fingerprint.Fingerprint{
		PHash: fingerprint.Hash64(0xC0FFEE1234567890),
		DHash: fingerprint.Hash64(0x0123456789ABCDEF),
		Tiles: []fingerprint.Hash64{0, 0xFFFFFFFFFFFFFFFF, 0xAAAA5555AAAA5555, 1},
		Descriptors: []fingerprint.Descriptor{
			descriptorOf(0x00),
			descriptorOf(0x7F),
			descriptorOf(0xFF),
		},
	}

	enc, err := fp.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := fingerprint.Decode(enc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, fp) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, fp)
	}
}

func TestEncodeDecodeEmptyDescriptors(t *testing.T) {
	fp := fingerprint.Fingerprint{
		PHash:       1,
		DHash:       2,
		Tiles:       []fingerprint.Hash64{3, 4, 5, 6},
		Descriptors: []fingerprint.Descriptor{},
	}

	enc, err := fp.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := fingerprint.Decode(enc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got.Descriptors) != 0 {
		t.Fatalf("expected empty descriptors, got %d", len(got.Descriptors))
	}
	if !reflect.DeepEqual(got, fp) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, fp)
	}
}

func TestDecodeRejectsShapeMismatch(t *testing.T) {
	valid, err := fingerprint.Fingerprint{
		PHash:       1,
		DHash:       2,
		Tiles:       []fingerprint.Hash64{3},
		Descriptors: []fingerprint.Descriptor{},
	}.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	wrongHash, err := fingerprint.Pack(fingerprint.Array{Shape: []int{4, 4}, Data: make([]byte, 16)})
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	wrongDescriptor, err := fingerprint.Pack(fingerprint.Array{Shape: []int{2, 16}, Data: make([]byte, 32)})
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	cases := []struct {
		name string
		enc  fingerprint.Encoded
	}{
		{
			name: "phash wrong shape",
			enc:  fingerprint.Encoded{PHash: wrongHash, DHash: valid.DHash, TilePHash: valid.TilePHash, ORB: valid.ORB},
		},
		{
			name: "tiles not three dimensional",
			enc:  fingerprint.Encoded{PHash: valid.PHash, DHash: valid.DHash, TilePHash: valid.PHash, ORB: valid.ORB},
		},
		{
			name: "descriptors wrong width",
			enc:  fingerprint.Encoded{PHash: valid.PHash, DHash: valid.DHash, TilePHash: valid.TilePHash, ORB: wrongDescriptor},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fingerprint.Decode(tc.enc)
			if err == nil {
				t.Fatal("expected decode error")
			}
			if !errors.Is(err, fingerprint.ErrShapeMismatch) {
				t.Fatalf("expected ErrShapeMismatch, got %v", err)
			}
		})
	}
}

func TestDecodeRejectsNonBitHashSamples(t *testing.T) {
	data := make([]byte, 64)
	data[10] = 7
	packed, err := fingerprint.Pack(fingerprint.Array{Shape: []int{8, 8}, Data: data})
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	valid, err := fingerprint.Fingerprint{Tiles: []fingerprint.Hash64{}, Descriptors: []fingerprint.Descriptor{}}.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	_, err = fingerprint.Decode(fingerprint.Encoded{
		PHash:     packed,
		DHash:     valid.DHash,
		TilePHash: valid.TilePHash,
		ORB:       valid.ORB,
	})
	if !errors.Is(err, fingerprint.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestHash64String(t *testing.T) {
	got := fingerprint.Hash64(0xAB).String()
	if got != "00000000000000ab" {
		t.Fatalf("unexpected hash text %q", got)
	}
	if strings.ToLower(got) != got {
		t.Fatalf("hash text should be lowercase, got %q", got)
	}
}

func bitPattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 2)
	}
	return data
}

func bytePattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func descriptorOf(fill byte) fingerprint.Descriptor {
	var d fingerprint.Descriptor
	for i := range d {
		d[i] = fill
	}
	return d
}
