package main

import (
	"fmt"
	"image"
	"io"
	"sort"
	"strconv"
	"strings"

	"kartoteka/internal/hashdb"
)

// parseMetaFlags converts repeated key=value flags into card metadata.
func parseMetaFlags(flags []string) (hashdb.Metadata, error) {
	meta := hashdb.Metadata{}
	for _, flag := range flags {
		key, value, found := strings.Cut(flag, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid metadata %q (expected key=value)", flag)
		}
		meta[key] = value
	}
	return meta, nil
}

// parseRect parses a crop rectangle given as "left,top,right,bottom".
func parseRect(value string) (image.Rectangle, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid rectangle %q (expected left,top,right,bottom)", value)
	}
	coords := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid rectangle coordinate %q: %w", part, err)
		}
		coords[i] = n
	}
	rect := image.Rect(coords[0], coords[1], coords[2], coords[3])
	if coords[2] <= coords[0] || coords[3] <= coords[1] {
		return image.Rectangle{}, fmt.Errorf("rectangle %q has no area", value)
	}
	return rect, nil
}

// formatMeta renders metadata as sorted key=value pairs on one line.
func formatMeta(meta hashdb.Metadata) string {
	if len(meta) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+meta[key])
	}
	return strings.Join(pairs, " ")
}

// printMeta writes metadata as indented key: value lines in key order.
func printMeta(out io.Writer, meta hashdb.Metadata) {
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "  %s: %s\n", key, meta[key])
	}
}
