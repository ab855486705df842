package main

import (
	"bytes"
	"image"
	"testing"

	"kartoteka/internal/hashdb"
)

func TestParseMetaFlags(t *testing.T) {
	meta, err := parseMetaFlags([]string{"name=Dark Magician", "set=LOB", "note=a=b"})
	if err != nil {
		t.Fatalf("parseMetaFlags failed: %v", err)
	}
	if meta["name"] != "Dark Magician" || meta["set"] != "LOB" {
		t.Fatalf("unexpected metadata: %#v", meta)
	}
	if meta["note"] != "a=b" {
		t.Fatalf("expected value to keep embedded separators, got %q", meta["note"])
	}

	for _, invalid := range []string{"plain", "=value", " =x"} {
		if _, err := parseMetaFlags([]string{invalid}); err == nil {
			t.Fatalf("expected error for %q", invalid)
		}
	}
}

func TestParseRect(t *testing.T) {
	rect, err := parseRect("10, 20, 110, 220")
	if err != nil {
		t.Fatalf("parseRect failed: %v", err)
	}
	if rect != image.Rect(10, 20, 110, 220) {
		t.Fatalf("unexpected rectangle: %v", rect)
	}

	cases := []struct {
		name  string
		value string
	}{
		{"too few coordinates", "1,2,3"},
		{"not a number", "a,b,c,d"},
		{"no width", "10,0,10,20"},
		{"no height", "0,10,20,10"},
	}
	for _, tc := range cases {
		if _, err := parseRect(tc.value); err == nil {
			t.Fatalf("%s: expected error for %q", tc.name, tc.value)
		}
	}
}

func TestFormatMeta(t *testing.T) {
	if got := formatMeta(nil); got != "-" {
		t.Fatalf("expected placeholder for empty metadata, got %q", got)
	}
	got := formatMeta(hashdb.Metadata{"set": "LOB", "name": "Kuriboh"})
	if got != "name=Kuriboh set=LOB" {
		t.Fatalf("expected sorted pairs, got %q", got)
	}
}

func TestWriteTableFallsBackToTSV(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"ID", "DISTANCE"}, [][]string{{"1", "0"}, {"2", "7"}}, []columnAlignment{alignRight, alignRight})

	want := "ID\tDISTANCE\n1\t0\n2\t7\n"
	if buf.String() != want {
		t.Fatalf("expected TSV output %q, got %q", want, buf.String())
	}
}
