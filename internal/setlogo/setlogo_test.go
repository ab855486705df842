package setlogo_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"kartoteka/internal/setlogo"
	"kartoteka/internal/testsupport"
)

func stripeLogo(horizontal bool) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			band := x / 8
			if horizontal {
				band = y / 8
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

func checkerLogo() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			shade := color.NRGBA{A: 255}
			if (x/16+y/16)%2 == 0 {
				shade = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.Set(x, y, shade)
		}
	}
	return img
}

func writeLogoDir(t *testing.T) (string, map[string]image.Image) {
	t.Helper()

	dir := t.TempDir()
	logos := map[string]image.Image{
		"BS":   stripeLogo(true),
		"NEO":  stripeLogo(false),
		"HGSS": checkerLogo(),
	}
	for code, img := range logos {
		testsupport.WriteImage(t, filepath.Join(dir, code+".png"), img)
	}
	return dir, logos
}

func TestLoadIndexCountsLogos(t *testing.T) {
	dir, _ := writeLogoDir(t)

	index, err := setlogo.LoadIndex(dir, nil)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if index.Len() != 3 {
		t.Fatalf("expected 3 catalogued logos, got %d", index.Len())
	}
}

func TestIdentifyRecognizesEveryLogo(t *testing.T) {
	dir, logos := writeLogoDir(t)

	index, err := setlogo.LoadIndex(dir, nil)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	for code, img := range logos {
		matches, err := index.Identify(img, 1)
		if err != nil {
			t.Fatalf("Identify failed: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("%s: expected one match, got %d", code, len(matches))
		}
		if matches[0].Code != code {
			t.Fatalf("%s: expected best match %s, got %s", code, code, matches[0].Code)
		}
		if matches[0].Distance != 0 {
			t.Fatalf("%s: expected distance 0 for the catalogued logo, got %d", code, matches[0].Distance)
		}
	}
}

func TestIdentifyRanksAscending(t *testing.T) {
	dir, logos := writeLogoDir(t)

	index, err := setlogo.LoadIndex(dir, nil)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	matches, err := index.Identify(logos["BS"], 0)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected all 3 logos ranked, got %d", len(matches))
	}
	if matches[0].Code != "BS" || matches[0].Distance != 0 {
		t.Fatalf("expected BS at distance 0 first, got %#v", matches[0])
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Distance < matches[i-1].Distance {
			t.Fatalf("expected ascending distances, got %#v", matches)
		}
		if matches[i].Distance == 0 {
			t.Fatalf("expected other logos at a positive distance, got %#v", matches[i])
		}
	}

	limited, err := index.Identify(logos["BS"], 2)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit to cap matches at 2, got %d", len(limited))
	}
}

func TestLoadIndexSkipsCorruptLogo(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteImage(t, filepath.Join(dir, "BS.png"), stripeLogo(true))
	if err := os.WriteFile(filepath.Join(dir, "BAD.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatalf("write corrupt logo failed: %v", err)
	}

	index, err := setlogo.LoadIndex(dir, nil)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if index.Len() != 1 {
		t.Fatalf("expected the corrupt logo to be skipped, got %d entries", index.Len())
	}
}

func TestLoadIndexFailsWithoutUsableLogos(t *testing.T) {
	if _, err := setlogo.LoadIndex(t.TempDir(), nil); err == nil {
		t.Fatal("expected error for a directory without logos")
	}

	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := setlogo.LoadIndex(missing, nil); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}
