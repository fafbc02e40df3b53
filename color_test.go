package opentui

import (
	"math"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Rgba
	}{
		{"#FF0000", Red},
		{"00FF00", Green},
		{"#00F", Blue},
		{"#000000FF", Black},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexInvalid(t *testing.T) {
	if _, err := ParseHex("#12345"); err == nil {
		t.Error("expected error for 5-digit hex")
	}
}

func TestBlendOver(t *testing.T) {
	if got := Red.BlendOver(Blue); got != Red {
		t.Errorf("opaque over anything = %+v, want Red", got)
	}
	if got := Transparent.BlendOver(Green); got != Green {
		t.Errorf("transparent over anything = %+v, want Green", got)
	}

	halfRed := Red.WithAlpha(0.5)
	got := halfRed.BlendOver(Blue)
	if math.Abs(float64(got.R-0.5)) > 0.01 {
		t.Errorf("half red over blue: R = %v, want ~0.5", got.R)
	}
	if math.Abs(float64(got.B-0.5)) > 0.01 {
		t.Errorf("half red over blue: B = %v, want ~0.5", got.B)
	}
}

func TestBlendOverBothTransparent(t *testing.T) {
	got := Transparent.BlendOver(Transparent)
	if got.A != 0 {
		t.Errorf("both transparent: A = %v, want 0", got.A)
	}
}

func TestBlendOverFormula(t *testing.T) {
	fg := NewRgba(1, 0, 0, 0.6)
	bg := NewRgba(0, 0, 1, 0.8)
	got := fg.BlendOver(bg)

	expectedA := float32(0.6 + 0.8*(1-0.6))
	expectedR := (1*0.6 + 0*0.8*0.4) / expectedA
	expectedB := (0*0.6 + 1*0.8*0.4) / expectedA

	if math.Abs(float64(got.A-expectedA)) > 1e-5 {
		t.Errorf("A = %v, want %v", got.A, expectedA)
	}
	if math.Abs(float64(got.R-expectedR)) > 1e-5 {
		t.Errorf("R = %v, want %v", got.R, expectedR)
	}
	if math.Abs(float64(got.B-expectedB)) > 1e-5 {
		t.Errorf("B = %v, want %v", got.B, expectedB)
	}
}

func TestToRGBu8(t *testing.T) {
	if r, g, b := Red.ToRGBu8(); r != 255 || g != 0 || b != 0 {
		t.Errorf("Red.ToRGBu8() = %d,%d,%d, want 255,0,0", r, g, b)
	}
	if r, g, b := White.ToRGBu8(); r != 255 || g != 255 || b != 255 {
		t.Errorf("White.ToRGBu8() = %d,%d,%d, want 255,255,255", r, g, b)
	}
}

func TestString(t *testing.T) {
	if got := Red.String(); got != "#FF0000" {
		t.Errorf("Red.String() = %q, want #FF0000", got)
	}
	if got := Black.WithAlpha(0.5).String(); got != "#00000080" {
		t.Errorf("Black.WithAlpha(0.5).String() = %q, want #00000080", got)
	}
}

func TestRgbaFromHSV(t *testing.T) {
	red := RgbaFromHSV(0, 1, 1)
	if math.Abs(float64(red.R-1)) > 0.01 || red.G > 0.01 || red.B > 0.01 {
		t.Errorf("RgbaFromHSV(0,1,1) = %+v, want pure red", red)
	}

	green := RgbaFromHSV(120, 1, 1)
	if green.R > 0.01 || math.Abs(float64(green.G-1)) > 0.01 || green.B > 0.01 {
		t.Errorf("RgbaFromHSV(120,1,1) = %+v, want pure green", green)
	}

	neg := RgbaFromHSV(-60, 1, 1)
	pos := RgbaFromHSV(300, 1, 1)
	if math.Abs(float64(neg.R-pos.R)) > 0.01 || math.Abs(float64(neg.G-pos.G)) > 0.01 || math.Abs(float64(neg.B-pos.B)) > 0.01 {
		t.Errorf("negative hue wrap mismatch: %+v vs %+v", neg, pos)
	}

	gray := RgbaFromHSV(0, 0, 0.5)
	if math.Abs(float64(gray.R-0.5)) > 0.01 || math.Abs(float64(gray.G-0.5)) > 0.01 || math.Abs(float64(gray.B-0.5)) > 0.01 {
		t.Errorf("zero saturation should be gray: %+v", gray)
	}
}

func TestTo256Color(t *testing.T) {
	redIdx := Red.To256Color()
	if redIdx < 16 || redIdx > 231 {
		t.Errorf("Red.To256Color() = %d, want in cube range [16,231]", redIdx)
	}

	gray := RgbaFromRGBu8(128, 128, 128)
	grayIdx := gray.To256Color()
	if grayIdx < 232 || grayIdx > 255 {
		t.Errorf("gray.To256Color() = %d, want in grayscale range [232,255]", grayIdx)
	}
}

func TestTo16Color(t *testing.T) {
	redIdx := Red.To16Color()
	if redIdx != 1 && redIdx != 9 {
		t.Errorf("Red.To16Color() = %d, want 1 or 9", redIdx)
	}
	if Black.To16Color() != 0 {
		t.Errorf("Black.To16Color() = %d, want 0", Black.To16Color())
	}
}

func TestFrom256ColorRoundtrip(t *testing.T) {
	red := RgbaFrom256Color(9)
	if r, g, b := red.ToRGBu8(); r != 255 || g != 0 || b != 0 {
		t.Errorf("RgbaFrom256Color(9) = %d,%d,%d, want 255,0,0", r, g, b)
	}

	gray := RgbaFrom256Color(240)
	r, g, b := gray.ToRGBu8()
	if r != g || g != b {
		t.Errorf("RgbaFrom256Color(240) = %d,%d,%d, want r==g==b", r, g, b)
	}
}

func TestBitsEq(t *testing.T) {
	a := NewRgba(0.1, 0.2, 0.3, 0.4)
	b := NewRgba(0.1, 0.2, 0.3, 0.4)
	c := NewRgba(0.1, 0.2, 0.3, 0.5)
	if !a.BitsEq(b) {
		t.Error("identical colors should be BitsEq")
	}
	if a.BitsEq(c) {
		t.Error("differing colors should not be BitsEq")
	}
}

func TestLerp(t *testing.T) {
	a := Black
	b := White
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %+v, want %+v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %+v, want %+v", got, b)
	}
	mid := a.Lerp(b, 0.5)
	if math.Abs(float64(mid.R-0.5)) > 1e-5 {
		t.Errorf("Lerp(0.5).R = %v, want 0.5", mid.R)
	}
}
