package opentui

import "strconv"

// Constant escape sequences. CSI sequences start with ESC [, OSC sequences
// start with ESC ] and terminate with BEL or ST.
const (
	Esc = "\x1b"
	Csi = Esc + "["
	Osc = Esc + "]"
	St  = Esc + "\\"

	SeqReset = Csi + "0m"

	SeqClearScreen       = Csi + "2J"
	SeqEraseScrollback   = Csi + "3J"
	SeqClearScreenBelow  = Csi + "J"
	SeqClearScreenAbove  = Csi + "1J"
	SeqClearLine         = Csi + "2K"
	SeqClearLineRight    = Csi + "K"
	SeqClearLineLeft     = Csi + "1K"

	SeqCursorHide    = Csi + "?25l"
	SeqCursorShow    = Csi + "?25h"
	SeqCursorSave    = Esc + "7"
	SeqCursorRestore = Esc + "8"
	SeqCursorHome    = Csi + "H"

	SeqCursorColorReset = Osc + "112" + "\x07"

	SeqAltScreenOn  = Csi + "?1049h"
	SeqAltScreenOff = Csi + "?1049l"

	SeqMouseOn  = Csi + "?1003h" + Csi + "?1006h"
	SeqMouseOff = Csi + "?1003l" + Csi + "?1006l"

	SeqBracketedPasteOn  = Csi + "?2004h"
	SeqBracketedPasteOff = Csi + "?2004l"

	SeqFocusOn  = Csi + "?1004h"
	SeqFocusOff = Csi + "?1004l"

	SeqRequestSize = Csi + "18t"

	SeqTitlePrefix = Osc + "0;"
	SeqTitleSuffix = St

	SeqSoftReset = Esc + "c"

	// HyperlinkEnd is the OSC 8 sequence closing any open hyperlink.
	HyperlinkEnd = Osc + "8;;" + St
)

// Query holds terminal capability query sequences (XTWINOPS, DA1/DA2, etc).
var Query = struct {
	DeviceAttributes          string
	DeviceAttributesSecondary string
	XTVersion                 string
	PixelResolution           string
	KittyKeyboard             string
}{
	DeviceAttributes:          Csi + "c",
	DeviceAttributesSecondary: Csi + ">c",
	XTVersion:                 Csi + ">0q",
	PixelResolution:           Csi + "14t",
	KittyKeyboard:             Csi + "?u",
}

// CursorStyleSeq holds DECSCUSR cursor style sequences.
var CursorStyleSeq = struct {
	BlockBlink, BlockSteady         string
	UnderlineBlink, UnderlineSteady string
	BarBlink, BarSteady             string
	Default                         string
}{
	BlockBlink: Csi + "1 q", BlockSteady: Csi + "2 q",
	UnderlineBlink: Csi + "3 q", UnderlineSteady: Csi + "4 q",
	BarBlink: Csi + "5 q", BarSteady: Csi + "6 q",
	Default: Csi + "0 q",
}

// Sync holds synchronized-update sequences (DEC 2026) for flicker-free
// rendering: wrap a frame's writes between Begin and End.
var Sync = struct{ Begin, End string }{
	Begin: Csi + "?2026h",
	End:   Csi + "?2026l",
}

// ColorDefault holds SGR sequences resetting fg/bg to the terminal default.
var ColorDefault = struct{ Fg, Bg string }{
	Fg: Csi + "39m",
	Bg: Csi + "49m",
}

// AttrReset holds SGR sequences turning off individual text attributes.
var AttrReset = struct {
	Intensity, Italic, Underline, Blink, Inverse, Hidden, Strikethrough string
}{
	Intensity: Csi + "22m", Italic: Csi + "23m", Underline: Csi + "24m",
	Blink: Csi + "25m", Inverse: Csi + "27m", Hidden: Csi + "28m",
	Strikethrough: Csi + "29m",
}

// CursorColor returns the OSC 12 sequence setting the cursor color to an RGB
// value.
func CursorColor(r, g, b uint8) string {
	return Osc + "12;#" + hex2(r) + hex2(g) + hex2(b) + "\x07"
}

func hex2(n uint8) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[n>>4], digits[n&0xF]})
}

// ColorMode selects how RGB colors are downsampled for SGR output.
type ColorMode int

const (
	ColorModeTrueColor ColorMode = iota
	ColorModeColor256
	ColorModeColor16
	ColorModeNoColor
)

// FgColorWithMode returns the SGR sequence setting the foreground color
// under the given mode.
func FgColorWithMode(color Rgba, mode ColorMode) string {
	return sgrColorWithMode(color, mode, 38, 30, 90)
}

// BgColorWithMode returns the SGR sequence setting the background color
// under the given mode.
func BgColorWithMode(color Rgba, mode ColorMode) string {
	return sgrColorWithMode(color, mode, 48, 40, 100)
}

func sgrColorWithMode(color Rgba, mode ColorMode, extBase, base16, bright16Base int) string {
	switch mode {
	case ColorModeTrueColor:
		r, g, b := color.ToRGBu8()
		return Csi + strconv.Itoa(extBase) + ";2;" + strconv.Itoa(int(r)) + ";" +
			strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b)) + "m"
	case ColorModeColor256:
		idx := color.To256Color()
		return Csi + strconv.Itoa(extBase) + ";5;" + strconv.Itoa(int(idx)) + "m"
	case ColorModeColor16:
		idx := int(color.To16Color())
		code := base16 + idx
		if idx >= 8 {
			code = bright16Base + idx - 8
		}
		return Csi + strconv.Itoa(code) + "m"
	default:
		return ""
	}
}

// Attributes returns the SGR sequence applying attrs's style flags (link id
// bits, if any, are ignored).
func Attributes(attrs TextAttributes) string {
	var codes []string
	if attrs.Has(AttrBold) {
		codes = append(codes, "1")
	}
	if attrs.Has(AttrDim) {
		codes = append(codes, "2")
	}
	if attrs.Has(AttrItalic) {
		codes = append(codes, "3")
	}
	if attrs.Has(AttrUnderline) {
		codes = append(codes, "4")
	}
	if attrs.Has(AttrBlink) {
		codes = append(codes, "5")
	}
	if attrs.Has(AttrInverse) {
		codes = append(codes, "7")
	}
	if attrs.Has(AttrHidden) {
		codes = append(codes, "8")
	}
	if attrs.Has(AttrStrikethrough) {
		codes = append(codes, "9")
	}
	if len(codes) == 0 {
		return ""
	}
	seq := Csi
	for i, code := range codes {
		if i > 0 {
			seq += ";"
		}
		seq += code
	}
	return seq + "m"
}

// CursorPosition returns the absolute cursor positioning sequence (CUP) for
// 0-indexed row/col.
func CursorPosition(row, col uint32) string {
	return Csi + strconv.FormatUint(uint64(row)+1, 10) + ";" + strconv.FormatUint(uint64(col)+1, 10) + "H"
}

// CursorMove returns a relative cursor movement sequence: dx columns right
// (negative = left) and dy rows down (negative = up). Zero movement on an
// axis emits nothing for that axis.
func CursorMove(dx, dy int32) string {
	var seq string
	switch {
	case dy < 0:
		seq += Csi + strconv.Itoa(int(-dy)) + "A"
	case dy > 0:
		seq += Csi + strconv.Itoa(int(dy)) + "B"
	}
	switch {
	case dx > 0:
		seq += Csi + strconv.Itoa(int(dx)) + "C"
	case dx < 0:
		seq += Csi + strconv.Itoa(int(-dx)) + "D"
	}
	return seq
}

// EscapeURLForOSC8 percent-encodes control characters in url so it can't
// terminate or inject into an OSC 8 sequence early.
func EscapeURLForOSC8(url string) string {
	needsEscaping := false
	for _, r := range url {
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F) {
			needsEscaping = true
			break
		}
	}
	if !needsEscaping {
		return url
	}

	var out []byte
	for _, r := range url {
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F) {
			buf := make([]byte, 4)
			n := encodeRuneUTF8(buf, r)
			for _, b := range buf[:n] {
				out = append(out, '%', hexDigitUpper(b>>4), hexDigitUpper(b&0xF))
			}
		} else {
			buf := make([]byte, 4)
			n := encodeRuneUTF8(buf, r)
			out = append(out, buf[:n]...)
		}
	}
	return string(out)
}

func encodeRuneUTF8(buf []byte, r rune) int {
	n := 0
	for _, b := range []byte(string(r)) {
		buf[n] = b
		n++
	}
	return n
}

func hexDigitUpper(n byte) byte {
	const digits = "0123456789ABCDEF"
	return digits[n&0xF]
}

// HyperlinkStart returns the OSC 8 sequence opening a hyperlink with the
// given id, its URL escaped against control-character injection.
func HyperlinkStart(id uint32, url string) string {
	return Osc + "8;id=" + strconv.FormatUint(uint64(id), 10) + ";" + EscapeURLForOSC8(url) + St
}
