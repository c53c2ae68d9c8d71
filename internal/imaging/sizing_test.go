package imaging

import (
	"image/color"
	"testing"
)

func TestParseFitMode(t *testing.T) {
	tests := []struct {
		in   string
		want FitMode
	}{
		{"fit", FitContain},
		{"crop", FitCrop},
		{"CROP", FitCrop},
		{" stretch ", FitStretch},
		{"", FitContain},
		{"zoom", FitContain},
	}

	for _, tt := range tests {
		if got := ParseFitMode(tt.in); got != tt.want {
			t.Errorf("ParseFitMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFitMode_TextRoundTrip(t *testing.T) {
	for _, m := range []FitMode{FitContain, FitCrop, FitStretch} {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText failed: %v", err)
		}
		var got FitMode
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText failed: %v", err)
		}
		if got != m {
			t.Errorf("round trip of %v gave %v", m, got)
		}
	}
}

func TestOptimizeSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide landscape capped", 3000, 1000, 2560, 853},
		{"landscape within cap", 2000, 1000, 2000, 1000},
		{"tall portrait capped", 1000, 3000, 853, 2560},
		{"portrait within cap", 600, 1000, 600, 1000},
		{"square capped", 2400, 2400, 1920, 1920},
		{"square-ish capped", 3840, 3000, 1920, 1500},
		{"small square untouched", 800, 600, 800, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(tt.w, tt.h, color.RGBA{10, 20, 30, 255})
			got := OptimizeSize(img)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("OptimizeSize(%dx%d) = %dx%d, want %dx%d",
					tt.w, tt.h, got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestOptimizeSize_NeverUpscales(t *testing.T) {
	sizes := [][2]int{{1, 1}, {100, 10}, {10, 100}, {1920, 1920}, {2560, 100}, {100, 2560}}
	for _, s := range sizes {
		got := OptimizeSize(createInMemoryImage(s[0], s[1], color.White))
		if got.Bounds().Dx() > s[0] || got.Bounds().Dy() > s[1] {
			t.Errorf("OptimizeSize(%dx%d) upscaled to %dx%d", s[0], s[1], got.Bounds().Dx(), got.Bounds().Dy())
		}
	}
}

func TestResizeToTarget_ExactSize(t *testing.T) {
	sources := [][2]int{{1000, 500}, {500, 1000}, {640, 480}, {300, 300}, {7, 3}}
	targets := [][2]int{{1920, 1080}, {1080, 1920}, {100, 100}, {33, 77}}
	modes := []FitMode{FitContain, FitCrop, FitStretch}

	for _, src := range sources {
		img := createInMemoryImage(src[0], src[1], color.RGBA{200, 100, 50, 255})
		for _, dst := range targets {
			for _, mode := range modes {
				got := ResizeToTarget(img, dst[0], dst[1], mode)
				if got.Bounds().Dx() != dst[0] || got.Bounds().Dy() != dst[1] {
					t.Errorf("%v %dx%d -> %dx%d gave %dx%d", mode, src[0], src[1], dst[0], dst[1],
						got.Bounds().Dx(), got.Bounds().Dy())
				}
			}
		}
	}
}

func TestResizeToTarget_CropHasNoPadding(t *testing.T) {
	img := createInMemoryImage(1000, 500, color.RGBA{40, 80, 120, 255})
	got := ResizeToTarget(img, 1920, 1080, FitCrop)

	for y := 0; y < 1080; y += 7 {
		for x := 0; x < 1920; x += 7 {
			if a := got.NRGBAAt(x, y).A; a != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, a)
			}
		}
	}
}

func TestResizeToTarget_CropKeepsCentre(t *testing.T) {
	// 200x100 quadrants cropped to a square keep the middle columns
	img := createPatternImage(200, 100)
	got := ResizeToTarget(img, 100, 100, FitCrop)

	left := got.NRGBAAt(10, 10)
	right := got.NRGBAAt(90, 10)
	if left.R < 200 || left.G > 50 {
		t.Errorf("top-left should stay red, got %+v", left)
	}
	if right.G < 200 || right.R > 50 {
		t.Errorf("top-right should stay green, got %+v", right)
	}
}

func TestResizeToTarget_ContainPadsTransparent(t *testing.T) {
	img := createInMemoryImage(200, 100, color.RGBA{255, 0, 0, 255})
	got := ResizeToTarget(img, 100, 100, FitContain)

	if a := got.NRGBAAt(50, 10).A; a != 0 {
		t.Errorf("padding alpha = %d, want 0", a)
	}
	if c := got.NRGBAAt(50, 50); c.A != 255 || c.R != 255 {
		t.Errorf("centre pixel = %+v, want opaque red", c)
	}
}

func TestResizeToTarget_ContainDoesNotUpscale(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{0, 0, 255, 255})
	got := ResizeToTarget(img, 100, 100, FitContain)

	if a := got.NRGBAAt(44, 44).A; a != 0 {
		t.Errorf("outside the pasted source alpha = %d, want 0", a)
	}
	if c := got.NRGBAAt(45, 45); c.A != 255 || c.B != 255 {
		t.Errorf("pasted corner = %+v, want opaque blue", c)
	}
	if c := got.NRGBAAt(54, 54); c.A != 255 {
		t.Errorf("pasted far corner alpha = %d, want 255", c.A)
	}
	if a := got.NRGBAAt(55, 55).A; a != 0 {
		t.Errorf("past the pasted source alpha = %d, want 0", a)
	}
}

func TestResizeToTarget_NonPositiveTarget(t *testing.T) {
	img := createInMemoryImage(30, 20, color.White)
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		got := ResizeToTarget(img, dims[0], dims[1], FitStretch)
		if got.Bounds().Dx() != 30 || got.Bounds().Dy() != 20 {
			t.Errorf("target %v changed size to %dx%d", dims, got.Bounds().Dx(), got.Bounds().Dy())
		}
	}
}
