package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferClearAndPixels(t *testing.T) {
	fb := NewFramebuffer(7, 5)
	fb.Clear(ColorSky)
	for i, p := range fb.Pixels {
		if p != ColorSky {
			t.Fatalf("pixel %d = %v after Clear", i, p)
		}
	}

	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(7, 0, ColorRed)
	fb.SetPixel(3, 2, ColorRed)
	if got := fb.GetPixel(3, 2); got != ColorRed {
		t.Errorf("GetPixel(3, 2) = %v", got)
	}
	if got := fb.GetPixel(0, 9); got != (Color{}) {
		t.Errorf("out of range GetPixel = %v", got)
	}
}

func TestFramebufferClearGradient(t *testing.T) {
	fb := NewFramebuffer(4, 10)
	fb.ClearGradient(ColorBlack, ColorWhite, ColorGrass)

	if got := fb.GetPixel(0, 0); got != ColorBlack {
		t.Errorf("top row = %v, want %v", got, ColorBlack)
	}
	if got := fb.GetPixel(0, 4); got != ColorWhite {
		t.Errorf("horizon row = %v, want %v", got, ColorWhite)
	}
	if got := fb.GetPixel(3, 9); got != ColorGrass {
		t.Errorf("ground row = %v, want %v", got, ColorGrass)
	}
}

func TestFramebufferDrawing(t *testing.T) {
	fb := NewFramebuffer(9, 9)
	fb.Clear(ColorBlack)

	fb.DrawCrosshair(2, ColorWhite)
	for _, p := range [][2]int{{4, 4}, {2, 4}, {6, 4}, {4, 2}, {4, 6}} {
		if got := fb.GetPixel(p[0], p[1]); got != ColorWhite {
			t.Errorf("crosshair pixel %v = %v", p, got)
		}
	}
	if got := fb.GetPixel(1, 4); got != ColorBlack {
		t.Errorf("crosshair arm too long: %v", got)
	}

	fb.DrawRect(7, 7, 5, 5, ColorRed)
	if got := fb.GetPixel(8, 8); got != ColorRed {
		t.Errorf("rect pixel = %v", got)
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(ColorGreen)
	fb.SetPixel(2, 1, ColorRed)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v", b)
	}
	r, g, _, _ := img.At(2, 1).RGBA()
	if r>>8 != 255 || g != 0 {
		t.Errorf("pixel (2, 1) = %v, want red", img.At(2, 1))
	}

	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("expected error for missing directory")
	}
}
