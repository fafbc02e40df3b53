package opentui

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// alphaEpsilon is the threshold below which a blended alpha is treated as
// fully transparent, guarding the divide in blendOver from blowing up on
// near-zero denominators.
const alphaEpsilon = 1e-6

// Rgba is a color with floating point components in [0, 1]. Colors are kept
// as floats so repeated blending doesn't accumulate u8 rounding error; the
// terminal-facing paths quantize down to true color, 256-color or 16-color
// only at the point they're written out.
type Rgba struct {
	R, G, B, A float32
}

var (
	Transparent = Rgba{0, 0, 0, 0}
	Black       = Rgba{0, 0, 0, 1}
	White       = Rgba{1, 1, 1, 1}
	Red         = Rgba{1, 0, 0, 1}
	Green       = Rgba{0, 1, 0, 1}
	Blue        = Rgba{0, 0, 1, 1}
)

// NewRgba builds a color from raw float components.
func NewRgba(r, g, b, a float32) Rgba {
	return Rgba{R: r, G: g, B: b, A: a}
}

// RGB builds an opaque color from float components.
func RGB(r, g, b float32) Rgba {
	return Rgba{R: r, G: g, B: b, A: 1}
}

// RgbaFromRGBu8 builds an opaque color from u8 components.
func RgbaFromRGBu8(r, g, b uint8) Rgba {
	return Rgba{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: 1}
}

// RgbaFromRGBAu8 builds a color from u8 components including alpha.
func RgbaFromRGBAu8(r, g, b, a uint8) Rgba {
	return Rgba{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: float32(a) / 255}
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (leading '#' optional).
func ParseHex(hex string) (Rgba, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	hexPair := func(s string) (uint8, error) {
		var v uint8
		_, err := fmt.Sscanf(s, "%02x", &v)
		return v, err
	}
	hexNibble := func(c byte) (uint8, error) {
		var v uint8
		_, err := fmt.Sscanf(string(c), "%1x", &v)
		return v, err
	}
	switch len(hex) {
	case 3:
		r, err := hexNibble(hex[0])
		if err != nil {
			return Rgba{}, err
		}
		g, err := hexNibble(hex[1])
		if err != nil {
			return Rgba{}, err
		}
		b, err := hexNibble(hex[2])
		if err != nil {
			return Rgba{}, err
		}
		return RgbaFromRGBu8(r*17, g*17, b*17), nil
	case 6:
		r, err := hexPair(hex[0:2])
		if err != nil {
			return Rgba{}, err
		}
		g, err := hexPair(hex[2:4])
		if err != nil {
			return Rgba{}, err
		}
		b, err := hexPair(hex[4:6])
		if err != nil {
			return Rgba{}, err
		}
		return RgbaFromRGBu8(r, g, b), nil
	case 8:
		r, err := hexPair(hex[0:2])
		if err != nil {
			return Rgba{}, err
		}
		g, err := hexPair(hex[2:4])
		if err != nil {
			return Rgba{}, err
		}
		b, err := hexPair(hex[4:6])
		if err != nil {
			return Rgba{}, err
		}
		a, err := hexPair(hex[6:8])
		if err != nil {
			return Rgba{}, err
		}
		return RgbaFromRGBAu8(r, g, b, a), nil
	default:
		return Rgba{}, fmt.Errorf("color: invalid hex string %q", hex)
	}
}

// RgbaFromHSV builds a color from hue in degrees (wraps modulo 360),
// saturation and value in [0, 1]. Delegates the HSV->RGB math to go-colorful
// so the conversion matches its HSL/HSV family used elsewhere for color
// manipulation.
func RgbaFromHSV(h, s, v float32) Rgba {
	c := colorful.Hsv(math.Mod(math.Mod(float64(h), 360)+360, 360), float64(s), float64(v))
	r, g, b := c.R, c.G, c.B
	return Rgba{R: float32(r), G: float32(g), B: float32(b), A: 1}
}

// HSV returns the color's hue (degrees), saturation and value.
func (c Rgba) HSV() (h, s, v float64) {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}.Hsv()
}

// BlendOver composites c (foreground) over bg (background) using Porter-Duff
// "over". c.A >= 1 and c.A <= 0 take fast paths that skip the division.
func (c Rgba) BlendOver(bg Rgba) Rgba {
	if c.A >= 1 {
		return c
	}
	if c.A <= 0 {
		return bg
	}

	invAlpha := 1 - c.A
	outA := bg.A*invAlpha + c.A

	if outA <= alphaEpsilon {
		return Transparent
	}

	return Rgba{
		R: (bg.R*bg.A*invAlpha + c.R*c.A) / outA,
		G: (bg.G*bg.A*invAlpha + c.G*c.A) / outA,
		B: (bg.B*bg.A*invAlpha + c.B*c.A) / outA,
		A: outA,
	}
}

// WithAlpha returns a copy of c with its alpha replaced.
func (c Rgba) WithAlpha(a float32) Rgba {
	c.A = a
	return c
}

// MultiplyAlpha returns a copy of c with its alpha scaled by factor.
func (c Rgba) MultiplyAlpha(factor float32) Rgba {
	return c.WithAlpha(c.A * factor)
}

func clampToU8(v float32) uint8 {
	v = v*255 + 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// ToRGBu8 converts to clamped u8 RGB components.
func (c Rgba) ToRGBu8() (r, g, b uint8) {
	return clampToU8(c.R), clampToU8(c.G), clampToU8(c.B)
}

// ToRGBAu8 converts to clamped u8 RGBA components.
func (c Rgba) ToRGBAu8() (r, g, b, a uint8) {
	r, g, b = c.ToRGBu8()
	return r, g, b, clampToU8(c.A)
}

// IsTransparent reports whether c has zero or negative alpha.
func (c Rgba) IsTransparent() bool {
	return c.A <= 0
}

// IsOpaque reports whether c has alpha 1 or greater.
func (c Rgba) IsOpaque() bool {
	return c.A >= 1
}

// rgbaBits is a packed bit-for-bit representation of an Rgba's four float32
// components, used by BitsEq for integer equality instead of comparing
// floats directly (NaN-safe: two NaNs with the same bit pattern
// compare equal, matching to_bits/bits_eq semantics).
type rgbaBits struct {
	lo, hi uint64
}

// ToBits packs c's components into two u64s (r|g<<32 in lo, b|a<<32 in hi)
// for fast bitwise comparison.
func (c Rgba) ToBits() rgbaBits {
	r := uint64(math.Float32bits(c.R))
	g := uint64(math.Float32bits(c.G))
	b := uint64(math.Float32bits(c.B))
	a := uint64(math.Float32bits(c.A))
	return rgbaBits{lo: r | (g << 32), hi: b | (a << 32)}
}

// BitsEq reports whether c and other have bit-identical components.
func (c Rgba) BitsEq(other Rgba) bool {
	return c.ToBits() == other.ToBits()
}

// Luminance returns perceived brightness using the ITU-R BT.601 weights.
func (c Rgba) Luminance() float32 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// Lerp linearly interpolates between c and other; t is clamped to [0, 1].
func (c Rgba) Lerp(other Rgba, t float32) Rgba {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Rgba{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// cubeValues are the six component levels of the xterm 6x6x6 color cube.
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// nearestCubeIndex maps a u8 component to its nearest 6x6x6 cube level
// using the cube's midpoint boundaries (48, 115, 155, 195, 235).
func nearestCubeIndex(v uint8) uint8 {
	switch {
	case v < 48:
		return 0
	case v < 115:
		return 1
	case v < 155:
		return 2
	case v < 195:
		return 3
	case v < 235:
		return 4
	default:
		return 5
	}
}

// nearestGrayscaleIndex maps a gray level to the nearest 256-color grayscale
// ramp index (232-255), falling back to the cube's pure black/white when the
// value is closer to those than to any ramp level.
func nearestGrayscaleIndex(gray uint8) uint8 {
	if gray < 4 {
		return 16
	}
	if gray > 246 {
		return 231
	}
	idx := uint8(0)
	if gray > 3 {
		idx = (gray - 3) / 10
	}
	if idx > 23 {
		idx = 23
	}
	return 232 + idx
}

// To256Color converts to an xterm 256-color palette index. When every
// channel is within 10 of the channels' mean it uses the grayscale mapping;
// otherwise it uses the 6x6x6 cube entry built from each channel's nearest
// cube level. The two candidates are not compared by distance.
func (c Rgba) To256Color() uint8 {
	r, g, b := c.ToRGBu8()

	gray := uint8((uint16(r) + uint16(g) + uint16(b)) / 3)
	isGray := absDiffU8(r, gray) < 10 && absDiffU8(g, gray) < 10 && absDiffU8(b, gray) < 10
	if isGray {
		return nearestGrayscaleIndex(gray)
	}

	ri := nearestCubeIndex(r)
	gi := nearestCubeIndex(g)
	bi := nearestCubeIndex(b)
	return 16 + 36*ri + 6*gi + bi
}

func absDiffU8(a, b uint8) int16 {
	d := int16(a) - int16(b)
	if d < 0 {
		return -d
	}
	return d
}

// ansi16Palette are the approximate RGB values of the 16 standard ANSI colors.
var ansi16Palette = [16][3]int32{
	{0, 0, 0},
	{128, 0, 0},
	{0, 128, 0},
	{128, 128, 0},
	{0, 0, 128},
	{128, 0, 128},
	{0, 128, 128},
	{192, 192, 192},
	{128, 128, 128},
	{255, 0, 0},
	{0, 255, 0},
	{255, 255, 0},
	{0, 0, 255},
	{255, 0, 255},
	{0, 255, 255},
	{255, 255, 255},
}

// To16Color converts to the nearest standard ANSI 16-color palette index
// (0-15) by squared Euclidean distance.
func (c Rgba) To16Color() uint8 {
	r, g, b := c.ToRGBu8()
	rr, gg, bb := int32(r), int32(g), int32(b)

	bestIdx := 0
	minDist := int32(math.MaxInt32)
	for i, p := range ansi16Palette {
		dr := rr - p[0]
		dg := gg - p[1]
		db := bb - p[2]
		dist := dr*dr + dg*dg + db*db
		if dist < minDist {
			minDist = dist
			bestIdx = i
		}
	}
	return uint8(bestIdx)
}

// RgbaFrom256Color builds a color from an xterm 256-color palette index.
func RgbaFrom256Color(index uint8) Rgba {
	switch {
	case index < 16:
		p := ansi16Palette[index]
		return RgbaFromRGBu8(uint8(p[0]), uint8(p[1]), uint8(p[2]))
	case index <= 231:
		idx := index - 16
		r := (idx / 36) % 6
		g := (idx / 6) % 6
		b := idx % 6
		return RgbaFromRGBu8(cubeValues[r], cubeValues[g], cubeValues[b])
	default:
		gray := 8 + (index-232)*10
		return RgbaFromRGBu8(gray, gray, gray)
	}
}

// RgbaFrom16Color builds a color from a 4-bit ANSI color index, masking to
// the low nibble before delegating to RgbaFrom256Color.
func RgbaFrom16Color(index uint8) Rgba {
	return RgbaFrom256Color(index & 0x0F)
}

// String renders c as "#RRGGBB" when opaque, "#RRGGBBAA" otherwise.
func (c Rgba) String() string {
	r, g, b := c.ToRGBu8()
	if c.A >= 1 {
		return fmt.Sprintf("#%02X%02X%02X", r, g, b)
	}
	a := clampToU8(c.A)
	return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, a)
}
