package opentui

import "math"

// quadrantChars maps a 4-bit "which corners are lit" mask to the Unicode
// quadrant block character representing it (bit 0=top-left, 1=top-right,
// 2=bottom-left, 3=bottom-right).
var quadrantChars = [16]rune{
	' ', '▘', '▝', '▀', '▖', '▌', '▞', '▛', '▗', '▚', '▐', '▜', '▄', '▙', '▟', '█',
}

var grayscaleASCII = []rune{' ', '.', ':', '-', '=', '+', '*', '#', '%', '@'}
var grayscaleUnicode = []rune{' ', '░', '▒', '▓', '█'}

// PixelBuffer is a 2-D grid of RGBA pixels, independent of terminal cell
// resolution, for rendering through quadrant-block or supersampling paths.
type PixelBuffer struct {
	Width, Height uint32
	Pixels        []Rgba
}

// NewPixelBuffer creates a pixel buffer filled with transparent black.
func NewPixelBuffer(width, height uint32) *PixelBuffer {
	pixels := make([]Rgba, int(width)*int(height))
	for i := range pixels {
		pixels[i] = Transparent
	}
	return &PixelBuffer{Width: width, Height: height, Pixels: pixels}
}

// TryNewPixelBufferFromPixels builds a PixelBuffer from existing pixel data,
// returning an error if the data's length doesn't match width*height or the
// dimensions overflow.
func TryNewPixelBufferFromPixels(width, height uint32, pixels []Rgba) (*PixelBuffer, error) {
	expected, ok := checkedMulU32(width, height)
	if !ok {
		return nil, &DimensionOverflowError{Width: width, Height: height}
	}
	if len(pixels) != expected {
		return nil, &SizeMismatchError{Expected: expected, Actual: len(pixels)}
	}
	return &PixelBuffer{Width: width, Height: height, Pixels: pixels}, nil
}

// MustNewPixelBufferFromPixels is TryNewPixelBufferFromPixels, panicking on
// invalid input.
func MustNewPixelBufferFromPixels(width, height uint32, pixels []Rgba) *PixelBuffer {
	buf, err := TryNewPixelBufferFromPixels(width, height, pixels)
	if err != nil {
		panic(err)
	}
	return buf
}

func checkedMulU32(a, b uint32) (int, bool) {
	product := int(a) * int(b)
	if a != 0 && product/int(a) != int(b) {
		return 0, false
	}
	return product, true
}

func (p *PixelBuffer) pixelIndex(x, y uint32) (int, bool) {
	if x >= p.Width || y >= p.Height {
		return 0, false
	}
	idx := int(y)*int(p.Width) + int(x)
	if idx >= len(p.Pixels) {
		return 0, false
	}
	return idx, true
}

// Get returns the pixel at (x,y), or Transparent and false if out of bounds.
func (p *PixelBuffer) Get(x, y uint32) (Rgba, bool) {
	idx, ok := p.pixelIndex(x, y)
	if !ok {
		return Transparent, false
	}
	return p.Pixels[idx], true
}

// Set writes the pixel at (x,y). A no-op if out of bounds.
func (p *PixelBuffer) Set(x, y uint32, color Rgba) {
	if idx, ok := p.pixelIndex(x, y); ok {
		p.Pixels[idx] = color
	}
}

// Fill overwrites every pixel with color.
func (p *PixelBuffer) Fill(color Rgba) {
	for i := range p.Pixels {
		p.Pixels[i] = color
	}
}

// GrayscaleBuffer is a 2-D grid of intensity values in [0,1], for ASCII/
// Unicode shade-character rendering.
type GrayscaleBuffer struct {
	Width, Height uint32
	Values        []float32
}

// NewGrayscaleBuffer creates a grayscale buffer filled with black (0.0).
func NewGrayscaleBuffer(width, height uint32) *GrayscaleBuffer {
	return &GrayscaleBuffer{Width: width, Height: height, Values: make([]float32, int(width)*int(height))}
}

func (g *GrayscaleBuffer) pixelIndex(x, y uint32) (int, bool) {
	if x >= g.Width || y >= g.Height {
		return 0, false
	}
	idx := int(y)*int(g.Width) + int(x)
	if idx >= len(g.Values) {
		return 0, false
	}
	return idx, true
}

// Get returns the intensity at (x,y), or 0 and false if out of bounds.
func (g *GrayscaleBuffer) Get(x, y uint32) (float32, bool) {
	idx, ok := g.pixelIndex(x, y)
	if !ok {
		return 0, false
	}
	return g.Values[idx], true
}

// Set writes the intensity at (x,y), clamped to [0,1]. A no-op if out of
// bounds.
func (g *GrayscaleBuffer) Set(x, y uint32, value float32) {
	if idx, ok := g.pixelIndex(x, y); ok {
		g.Values[idx] = clamp01(value)
	}
}

// DrawSupersampleBuffer draws src using 2x2 quadrant blocks: every terminal
// cell represents a 2x2 pixel block, with the block glyph chosen by which
// corners exceed threshold brightness and fg/bg averaged (gamma-correctly)
// over the lit/unlit corners.
func (b *OptimizedBuffer) DrawSupersampleBuffer(x, y uint32, src *PixelBuffer, threshold float32) {
	cellsW := src.Width / 2
	cellsH := src.Height / 2

	for cy := uint32(0); cy < cellsH; cy++ {
		for cx := uint32(0); cx < cellsW; cx++ {
			px, py := cx*2, cy*2
			tl, _ := src.Get(px, py)
			tr, _ := src.Get(px+1, py)
			bl, _ := src.Get(px, py+1)
			br, _ := src.Get(px+1, py+1)

			lit := [4]bool{
				tl.Luminance() >= threshold,
				tr.Luminance() >= threshold,
				bl.Luminance() >= threshold,
				br.Luminance() >= threshold,
			}
			var mask uint8
			if lit[0] {
				mask |= 0b0001
			}
			if lit[1] {
				mask |= 0b0010
			}
			if lit[2] {
				mask |= 0b0100
			}
			if lit[3] {
				mask |= 0b1000
			}

			fg, bg := averageColors([4]Rgba{tl, tr, bl, br}, lit)
			ch := quadrantChars[mask]
			style := Style{Fg: &fg, Bg: &bg}
			b.Set(x+cx, y+cy, NewCell(ch, style))
		}
	}
}

// DrawGrayscaleBuffer draws src using ASCII shade characters
// (' ' . : - = + * # % @), mapping each intensity value to a character.
func (b *OptimizedBuffer) DrawGrayscaleBuffer(x, y uint32, src *GrayscaleBuffer, fg, bg Rgba) {
	b.drawGrayscaleBufferWithChars(x, y, src, fg, bg, grayscaleASCII)
}

// DrawGrayscaleBufferUnicode draws src using Unicode shade blocks
// (' ' ░ ▒ ▓ █).
func (b *OptimizedBuffer) DrawGrayscaleBufferUnicode(x, y uint32, src *GrayscaleBuffer, fg, bg Rgba) {
	b.drawGrayscaleBufferWithChars(x, y, src, fg, bg, grayscaleUnicode)
}

func (b *OptimizedBuffer) drawGrayscaleBufferWithChars(x, y uint32, src *GrayscaleBuffer, fg, bg Rgba, chars []rune) {
	numChars := len(chars)
	style := Style{Fg: &fg, Bg: &bg}

	for py := uint32(0); py < src.Height; py++ {
		for px := uint32(0); px < src.Width; px++ {
			intensity, _ := src.Get(px, py)
			idx := intensityToIndex(intensity, numChars)
			b.Set(x+px, y+py, NewCell(chars[idx], style))
		}
	}
}

// DrawGrayscaleBufferSupersampled draws src using ASCII shade characters
// with 2x2 supersampling: each terminal cell averages a 2x2 intensity block.
func (b *OptimizedBuffer) DrawGrayscaleBufferSupersampled(x, y uint32, src *GrayscaleBuffer, fg, bg Rgba) {
	cellsW := src.Width / 2
	cellsH := src.Height / 2
	numChars := len(grayscaleASCII)
	style := Style{Fg: &fg, Bg: &bg}

	for cy := uint32(0); cy < cellsH; cy++ {
		for cx := uint32(0); cx < cellsW; cx++ {
			px, py := cx*2, cy*2
			tl, _ := src.Get(px, py)
			tr, _ := src.Get(px+1, py)
			bl, _ := src.Get(px, py+1)
			br, _ := src.Get(px+1, py+1)
			avg := (tl + tr + bl + br) / 4.0

			idx := intensityToIndex(avg, numChars)
			b.Set(x+cx, y+cy, NewCell(grayscaleASCII[idx], style))
		}
	}
}

func intensityToIndex(intensity float32, numChars int) int {
	idx := int(float32(math.Round(float64(intensity * float32(numChars-1)))))
	if idx > numChars-1 {
		idx = numChars - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// DrawPackedBuffer blits pre-computed cell data (e.g. from an offscreen
// compute pass) directly into the buffer at (x,y).
func (b *OptimizedBuffer) DrawPackedBuffer(x, y, width, height uint32, cells []Cell) {
	if len(cells) < int(width)*int(height) {
		return
	}
	for py := uint32(0); py < height; py++ {
		for px := uint32(0); px < width; px++ {
			idx := int(py)*int(width) + int(px)
			b.Set(x+px, y+py, cells[idx])
		}
	}
}

// srgbToLinear converts an sRGB gamma-encoded component to linear light.
func srgbToLinear(value float32) float32 {
	if value <= 0.04045 {
		return value / 12.92
	}
	return float32(math.Pow(float64((value+0.055)/1.055), 2.4))
}

// linearToSrgb converts a linear light component to sRGB gamma-encoded,
// inverting srgbToLinear.
func linearToSrgb(value float32) float32 {
	if value <= 0.0031308 {
		return value * 12.92
	}
	return 1.055*float32(math.Pow(float64(value), 1.0/2.4)) - 0.055
}

// averageColors averages colors in linear light space before converting
// back to sRGB, split into a foreground average (colors where mask is true)
// and background average (mask false). Gamma-correct averaging avoids the
// darkening bias of averaging sRGB components directly; an empty side
// defaults to White (fg) or Black (bg).
func averageColors(colors [4]Rgba, mask [4]bool) (fg, bg Rgba) {
	var fgR, fgG, fgB float32
	var fgCount int
	var bgR, bgG, bgB float32
	var bgCount int

	for i, c := range colors {
		linR, linG, linB := srgbToLinear(c.R), srgbToLinear(c.G), srgbToLinear(c.B)
		if mask[i] {
			fgR += linR
			fgG += linG
			fgB += linB
			fgCount++
		} else {
			bgR += linR
			bgG += linG
			bgB += linB
			bgCount++
		}
	}

	if fgCount > 0 {
		n := float32(fgCount)
		fg = RGB(linearToSrgb(fgR/n), linearToSrgb(fgG/n), linearToSrgb(fgB/n))
	} else {
		fg = White
	}
	if bgCount > 0 {
		n := float32(bgCount)
		bg = RGB(linearToSrgb(bgR/n), linearToSrgb(bgG/n), linearToSrgb(bgB/n))
	} else {
		bg = Black
	}
	return fg, bg
}
