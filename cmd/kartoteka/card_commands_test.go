package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"kartoteka/internal/hashdb"
	"kartoteka/internal/testsupport"
)

func TestAddAndMatchCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()

	basePath := filepath.Join(dir, "base.png")
	testsupport.WriteImage(t, basePath, testsupport.TwoToneCard())

	out, _, err := runCLI(t, []string{"add", basePath, "--meta", "name=Two Tone"}, env.configPath)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Stored card #1")

	out, _, err = runCLI(t, []string{"add", basePath}, env.configPath)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	requireContains(t, out, "Already catalogued as card #1")

	alteredPath := filepath.Join(dir, "altered.png")
	testsupport.WriteImage(t, alteredPath, testsupport.AlterPixels(testsupport.TwoToneCard(), 5))
	out, _, err = runCLI(t, []string{"match", alteredPath, "--max-distance", "10"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "matches at distance")
	requireContains(t, out, "name: Two Tone")

	noisePath := filepath.Join(dir, "noise.png")
	testsupport.WriteImage(t, noisePath, testsupport.NoiseCard(3))
	out, _, err = runCLI(t, []string{"match", noisePath, "--max-distance", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("match noise: %v", err)
	}
	requireContains(t, out, "No match within distance 5")
}

func TestCandidatesCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()

	basePath := filepath.Join(dir, "base.png")
	testsupport.WriteImage(t, basePath, testsupport.TwoToneCard())
	noisePath := filepath.Join(dir, "noise.png")
	testsupport.WriteImage(t, noisePath, testsupport.NoiseCard(11))

	if _, _, err := runCLI(t, []string{"add", basePath, "--meta", "name=Base"}, env.configPath); err != nil {
		t.Fatalf("add base: %v", err)
	}
	if _, _, err := runCLI(t, []string{"add", noisePath, "--meta", "name=Noise"}, env.configPath); err != nil {
		t.Fatalf("add noise: %v", err)
	}

	out, _, err := runCLI(t, []string{"candidates", basePath, "--json", "--limit", "5"}, env.configPath)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}

	var candidates []hashdb.Candidate
	if err := json.Unmarshal([]byte(out), &candidates); err != nil {
		t.Fatalf("parse candidates JSON: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Distance != 0 || candidates[0].Meta["name"] != "Base" {
		t.Fatalf("expected the exact match first, got %#v", candidates[0])
	}
	if candidates[1].Distance == 0 {
		t.Fatalf("expected the unrelated card at a positive distance, got %#v", candidates[1])
	}
}

func TestScanAndStatsCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()

	testsupport.WriteImage(t, filepath.Join(dir, "one.png"), testsupport.TwoToneCard())
	testsupport.WriteImage(t, filepath.Join(dir, "two.png"), testsupport.TwoToneCard())
	testsupport.WriteImage(t, filepath.Join(dir, "three.png"), testsupport.NoiseCard(5))

	out, _, err := runCLI(t, []string{"scan", dir, "--workers", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Scanned: 3")
	requireContains(t, out, "Added: 2")
	requireContains(t, out, "Duplicates: 1")

	out, _, err = runCLI(t, []string{"stats"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Total cards: 2")
	requireContains(t, out, "Integrity check: yes")
	requireContains(t, out, "cards table present: yes")
}

func TestFingerprintCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "card.png")
	testsupport.WriteImage(t, path, testsupport.TwoToneCard())

	out, _, err := runCLI(t, []string{"fingerprint", path}, env.configPath)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	requireContains(t, out, "pHash: ")
	requireContains(t, out, "dHash: ")
	requireContains(t, out, "Tiles (2x2):")
	requireContains(t, out, "Descriptors: 0 (none)")
}
