package main

import (
	"encoding/json"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"kartoteka/internal/setlogo"
	"kartoteka/internal/testsupport"
)

func testLogo(vertical bool) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			band := y / 8
			if vertical {
				band = x / 8
			}
			shade := color.NRGBA{A: 255}
			if band%2 == 0 {
				shade = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.Set(x, y, shade)
		}
	}
	return img
}

func TestIdentifySetCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteImage(t, filepath.Join(env.cfg.Paths.SetLogoDir, "BS.png"), testLogo(false))
	testsupport.WriteImage(t, filepath.Join(env.cfg.Paths.SetLogoDir, "NEO.png"), testLogo(true))

	probePath := filepath.Join(t.TempDir(), "symbol.png")
	testsupport.WriteImage(t, probePath, testLogo(false))

	out, _, err := runCLI(t, []string{"identify-set", probePath, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("identify-set: %v", err)
	}

	var matches []setlogo.Match
	if err := json.Unmarshal([]byte(out), &matches); err != nil {
		t.Fatalf("parse matches JSON: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Code != "BS" || matches[0].Distance != 0 {
		t.Fatalf("expected BS at distance 0, got %#v", matches[0])
	}

	out, _, err = runCLI(t, []string{"identify-set", probePath, "--logos", env.cfg.Paths.SetLogoDir}, env.configPath)
	if err != nil {
		t.Fatalf("identify-set table: %v", err)
	}
	requireContains(t, out, "BS")
	requireContains(t, out, "DISTANCE")
}

func TestIdentifySetCommandRejectsBadRect(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.WriteImage(t, filepath.Join(env.cfg.Paths.SetLogoDir, "BS.png"), testLogo(false))
	probePath := filepath.Join(t.TempDir(), "symbol.png")
	testsupport.WriteImage(t, probePath, testLogo(false))

	if _, _, err := runCLI(t, []string{"identify-set", probePath, "--rect", "0,0,10"}, env.configPath); err == nil {
		t.Fatal("expected error for malformed rectangle")
	}
	if _, _, err := runCLI(t, []string{"identify-set", probePath, "--rect", "0,0,500,500"}, env.configPath); err == nil {
		t.Fatal("expected error for out-of-bounds rectangle")
	}
}
