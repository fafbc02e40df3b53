package opentui

import "testing"

func TestPixelBufferCreation(t *testing.T) {
	buf := NewPixelBuffer(10, 10)
	if buf.Width != 10 || buf.Height != 10 {
		t.Errorf("dims = %dx%d, want 10x10", buf.Width, buf.Height)
	}
	if len(buf.Pixels) != 100 {
		t.Errorf("len(Pixels) = %d, want 100", len(buf.Pixels))
	}
}

func TestPixelBufferGetSet(t *testing.T) {
	buf := NewPixelBuffer(10, 10)
	buf.Set(5, 5, Red)
	got, ok := buf.Get(5, 5)
	if !ok || got != Red {
		t.Errorf("Get(5,5) = %+v, %v, want Red, true", got, ok)
	}
}

func TestGrayscaleBufferCreation(t *testing.T) {
	buf := NewGrayscaleBuffer(10, 10)
	if buf.Width != 10 || buf.Height != 10 {
		t.Errorf("dims = %dx%d, want 10x10", buf.Width, buf.Height)
	}
	if len(buf.Values) != 100 {
		t.Errorf("len(Values) = %d, want 100", len(buf.Values))
	}
}

func TestQuadrantChars(t *testing.T) {
	if quadrantChars[0b0000] != ' ' {
		t.Error("mask 0 should be space")
	}
	if quadrantChars[0b1111] != '█' {
		t.Error("mask 15 should be full block")
	}
	if quadrantChars[0b0011] != '▀' {
		t.Error("mask 0b0011 should be top row")
	}
	if quadrantChars[0b1100] != '▄' {
		t.Error("mask 0b1100 should be bottom row")
	}
}

func TestDrawSupersampleBuffer(t *testing.T) {
	dest := NewOptimizedBuffer(10, 10)
	src := NewPixelBuffer(4, 4)
	src.Set(0, 0, White)
	src.Set(1, 0, White)
	src.Set(0, 1, White)
	src.Set(1, 1, White)

	dest.DrawSupersampleBuffer(0, 0, src, 0.5)

	cell, _ := dest.Get(0, 0)
	if ch, _ := cell.Content.AsChar(); ch != '█' {
		t.Errorf("Get(0,0) = %v, want full block", cell.Content)
	}
}

func TestDrawGrayscaleBuffer(t *testing.T) {
	dest := NewOptimizedBuffer(10, 10)
	src := NewGrayscaleBuffer(5, 5)
	src.Set(0, 0, 0.0)
	src.Set(1, 0, 1.0)

	dest.DrawGrayscaleBuffer(0, 0, src, White, Black)

	cell0, _ := dest.Get(0, 0)
	cell1, _ := dest.Get(1, 0)
	if ch, _ := cell0.Content.AsChar(); ch != ' ' {
		t.Errorf("darkest cell = %v, want space", cell0.Content)
	}
	if ch, _ := cell1.Content.AsChar(); ch != '@' {
		t.Errorf("brightest cell = %v, want '@'", cell1.Content)
	}
}

func TestSrgbLinearRoundtrip(t *testing.T) {
	for i := 0; i <= 10; i++ {
		value := float32(i) / 10.0
		linear := srgbToLinear(value)
		back := linearToSrgb(linear)
		if diff := value - back; diff > 0.0001 || diff < -0.0001 {
			t.Errorf("roundtrip failed for %v: got %v", value, back)
		}
	}
}

func TestSrgbLinearBoundary(t *testing.T) {
	below := srgbToLinear(0.04)
	above := srgbToLinear(0.05)
	if below <= 0 {
		t.Error("srgbToLinear(0.04) should be positive")
	}
	if above <= below {
		t.Error("srgbToLinear should be monotonic across the boundary")
	}
}

func TestGammaCorrectAverageBrighterThanNaive(t *testing.T) {
	red := RGB(1.0, 0.0, 0.0)
	blue := RGB(0.0, 0.0, 1.0)

	fg, _ := averageColors([4]Rgba{red, blue, Transparent, Transparent}, [4]bool{true, true, false, false})

	const naiveAvg = 0.5
	if fg.R <= naiveAvg {
		t.Errorf("gamma-correct red %v should be brighter than naive %v", fg.R, naiveAvg)
	}
	if fg.B <= naiveAvg {
		t.Errorf("gamma-correct blue %v should be brighter than naive %v", fg.B, naiveAvg)
	}
}

func TestGammaCorrectAveragePreservesExtremes(t *testing.T) {
	fg, _ := averageColors([4]Rgba{White, White, Transparent, Transparent}, [4]bool{true, true, false, false})
	if diff := fg.R - 1.0; diff > 0.001 || diff < -0.001 {
		t.Errorf("averaging two whites should give white, got %+v", fg)
	}

	fg, _ = averageColors([4]Rgba{Black, Black, Transparent, Transparent}, [4]bool{true, true, false, false})
	if fg.R > 0.001 || fg.G > 0.001 || fg.B > 0.001 {
		t.Errorf("averaging two blacks should give black, got %+v", fg)
	}
}

func TestGammaCorrectFgBgSeparation(t *testing.T) {
	fg, bg := averageColors([4]Rgba{Red, Green, Blue, White}, [4]bool{true, true, false, false})

	if fg.R <= 0.5 {
		t.Error("fg should have a red component")
	}
	if fg.G <= 0.5 {
		t.Error("fg should have a green component")
	}
	if fg.B >= 0.3 {
		t.Error("fg should not have a blue component")
	}
	if bg.B <= 0.5 {
		t.Error("bg should have a blue component")
	}
}

func TestTryNewPixelBufferFromPixelsSuccess(t *testing.T) {
	pixels := make([]Rgba, 100)
	for i := range pixels {
		pixels[i] = Red
	}
	buf, err := TryNewPixelBufferFromPixels(10, 10, pixels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Width != 10 || buf.Height != 10 || len(buf.Pixels) != 100 {
		t.Errorf("buf = %+v", buf)
	}
}

func TestTryNewPixelBufferFromPixelsSizeMismatch(t *testing.T) {
	pixels := make([]Rgba, 50)
	_, err := TryNewPixelBufferFromPixels(10, 10, pixels)
	if err == nil {
		t.Fatal("expected size mismatch error")
	}
	mismatch, ok := err.(*SizeMismatchError)
	if !ok {
		t.Fatalf("expected *SizeMismatchError, got %T", err)
	}
	if mismatch.Expected != 100 || mismatch.Actual != 50 {
		t.Errorf("mismatch = %+v, want {100, 50}", mismatch)
	}
}

func TestDrawPackedBuffer(t *testing.T) {
	dest := NewOptimizedBuffer(5, 5)
	cells := []Cell{
		NewCell('a', Style{}), NewCell('b', Style{}),
		NewCell('c', Style{}), NewCell('d', Style{}),
	}
	dest.DrawPackedBuffer(0, 0, 2, 2, cells)

	cell, _ := dest.Get(1, 1)
	if ch, _ := cell.Content.AsChar(); ch != 'd' {
		t.Errorf("Get(1,1) = %v, want 'd'", cell.Content)
	}
}
