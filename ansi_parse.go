package opentui

import "strings"

// ContainsAnsi reports whether s contains a CSI escape sequence.
func ContainsAnsi(s string) bool {
	return strings.Contains(s, "\x1b[")
}

// StripAnsi removes ANSI escape sequences from s, returning only the
// visible text content.
func StripAnsi(s string) string {
	if !ContainsAnsi(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && !(s[i] >= 0x40 && s[i] <= 0x7E) {
				i++
			}
			if i < len(s) {
				i++
			}
		} else if s[i] == '\x1b' {
			i += 2
		} else {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// AnsiSegment is a run of text carrying the style produced by the SGR codes
// preceding it.
type AnsiSegment struct {
	Text  string
	Style Style
}

// ParseAnsiLine parses a line containing SGR escape codes into styled
// segments, merging them on top of baseStyle. SGR 0 restores baseStyle's
// colors and attributes, and 39/49 restore baseStyle's foreground/background,
// rather than the terminal default, so embedded ANSI composes with the
// caller's own styling. SGR 22-29 clear the matching attribute bits.
func ParseAnsiLine(line string, baseStyle Style) []AnsiSegment {
	if !ContainsAnsi(line) {
		return []AnsiSegment{{Text: line, Style: baseStyle}}
	}

	var segments []AnsiSegment
	current := baseStyle
	var text strings.Builder
	i := 0

	for i < len(line) {
		if line[i] == '\x1b' && i+1 < len(line) && line[i+1] == '[' {
			if text.Len() > 0 {
				segments = append(segments, AnsiSegment{Text: text.String(), Style: current})
				text.Reset()
			}

			i += 2
			paramStart := i
			for i < len(line) && !(line[i] >= 0x40 && line[i] <= 0x7E) {
				i++
			}
			if i < len(line) {
				if line[i] == 'm' {
					applySGR(line[paramStart:i], &current, baseStyle)
				}
				i++
			}
		} else if line[i] == '\x1b' {
			i += 2
		} else {
			text.WriteByte(line[i])
			i++
		}
	}

	if text.Len() > 0 {
		segments = append(segments, AnsiSegment{Text: text.String(), Style: current})
	}

	return segments
}

func applySGR(paramStr string, style *Style, baseStyle Style) {
	if paramStr == "" {
		*style = baseStyle
		return
	}

	params := parseSGRParams(paramStr)
	i := 0
	for i < len(params) {
		p := params[i]
		switch {
		case p == 0:
			*style = baseStyle
		case p == 1:
			style.Attributes |= AttrBold
		case p == 2:
			style.Attributes |= AttrDim
		case p == 3:
			style.Attributes |= AttrItalic
		case p == 4:
			style.Attributes |= AttrUnderline
		case p == 7:
			style.Attributes |= AttrInverse
		case p == 9:
			style.Attributes |= AttrStrikethrough
		case p == 22:
			style.Attributes &^= AttrBold | AttrDim
		case p == 23:
			style.Attributes &^= AttrItalic
		case p == 24:
			style.Attributes &^= AttrUnderline
		case p == 27:
			style.Attributes &^= AttrInverse
		case p == 29:
			style.Attributes &^= AttrStrikethrough

		// Standard foreground 30-37
		case p >= 30 && p <= 37:
			c := RgbaFrom16Color(uint8(p - 30))
			style.Fg = &c
		case p == 39:
			style.Fg = baseStyle.Fg

		// Standard background 40-47
		case p >= 40 && p <= 47:
			c := RgbaFrom16Color(uint8(p - 40))
			style.Bg = &c
		case p == 49:
			style.Bg = baseStyle.Bg

		// Bright foreground 90-97
		case p >= 90 && p <= 97:
			c := RgbaFrom16Color(uint8(p-90) + 8)
			style.Fg = &c

		// Bright background 100-107
		case p >= 100 && p <= 107:
			c := RgbaFrom16Color(uint8(p-100) + 8)
			style.Bg = &c

		// Extended foreground: 38;5;N or 38;2;R;G;B
		case p == 38:
			if i+1 < len(params) && params[i+1] == 5 && i+2 < len(params) {
				c := RgbaFrom256Color(uint8(params[i+2]))
				style.Fg = &c
				i += 2
			} else if i+1 < len(params) && params[i+1] == 2 && i+4 < len(params) {
				c := RgbaFromRGBu8(uint8(params[i+2]), uint8(params[i+3]), uint8(params[i+4]))
				style.Fg = &c
				i += 4
			}

		// Extended background: 48;5;N or 48;2;R;G;B
		case p == 48:
			if i+1 < len(params) && params[i+1] == 5 && i+2 < len(params) {
				c := RgbaFrom256Color(uint8(params[i+2]))
				style.Bg = &c
				i += 2
			} else if i+1 < len(params) && params[i+1] == 2 && i+4 < len(params) {
				c := RgbaFromRGBu8(uint8(params[i+2]), uint8(params[i+3]), uint8(params[i+4]))
				style.Bg = &c
				i += 4
			}
		}
		i++
	}
}

// parseSGRParams splits a semicolon-separated SGR parameter string into
// integers.
func parseSGRParams(s string) []int {
	var params []int
	n := 0
	hasDigit := false
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n = n*10 + int(s[i]-'0')
			hasDigit = true
		} else if s[i] == ';' {
			params = append(params, n)
			n = 0
			hasDigit = false
		}
	}
	if hasDigit {
		params = append(params, n)
	}
	return params
}
