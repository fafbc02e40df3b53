package opentui

import (
	"bufio"
	"io"
)

// AnsiWriter buffers ANSI output and tracks emitted state (cursor position,
// colors, attributes, hyperlink) so it only writes the sequences needed to
// move from the previous state to the next, rather than re-emitting
// everything per cell.
type AnsiWriter struct {
	w      *bufio.Writer
	mode   ColorMode
	hasFg  bool
	fg     Rgba
	hasBg  bool
	bg     Rgba
	attrs  TextAttributes
	linkID uint32
	hasLink bool

	cursorRow, cursorCol uint32
}

// NewAnsiWriter wraps w, defaulting to true-color output.
func NewAnsiWriter(w io.Writer) *AnsiWriter {
	return NewAnsiWriterWithColorMode(w, ColorModeTrueColor)
}

// NewAnsiWriterWithColorMode wraps w with the given color mode.
func NewAnsiWriterWithColorMode(w io.Writer, mode ColorMode) *AnsiWriter {
	return &AnsiWriter{w: bufio.NewWriterSize(w, 8192), mode: mode}
}

// SetColorMode changes the color output mode for subsequent writes.
func (a *AnsiWriter) SetColorMode(mode ColorMode) {
	a.mode = mode
}

// ColorMode returns the current color output mode.
func (a *AnsiWriter) ColorMode() ColorMode {
	return a.mode
}

// ResetState clears all tracked state (colors, attributes, link, cursor)
// without writing anything, for when the terminal's actual state is known
// to have reset out of band (e.g. after a screen clear).
func (a *AnsiWriter) ResetState() {
	a.hasFg, a.hasBg, a.hasLink = false, false, false
	a.attrs = 0
	a.cursorRow, a.cursorCol = 0, 0
}

// WriteRaw writes a pre-built escape sequence or text unconditionally.
func (a *AnsiWriter) WriteRaw(s string) {
	a.w.WriteString(s)
}

// MoveCursor moves the cursor to (row, col), choosing whichever of absolute
// positioning or relative movement emits fewer bytes. A no-op if the cursor
// is already there.
func (a *AnsiWriter) MoveCursor(row, col uint32) {
	if row == a.cursorRow && col == a.cursorCol {
		return
	}

	dy := int64(row) - int64(a.cursorRow)
	dx := int64(col) - int64(a.cursorCol)

	absCost := 4 + decimalDigits(row+1) + decimalDigits(col+1)
	relCost := 0
	if dy != 0 {
		relCost += 3 + decimalDigits(uint32(abs64(dy)))
	}
	if dx != 0 {
		relCost += 3 + decimalDigits(uint32(abs64(dx)))
	}

	if relCost < absCost && (dy != 0 || dx != 0) {
		a.WriteRaw(CursorMove(int32(dx), int32(dy)))
	} else {
		a.WriteRaw(CursorPosition(row, col))
	}

	a.cursorRow, a.cursorCol = row, col
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func decimalDigits(n uint32) int {
	digits := 1
	for n >= 10 {
		n /= 10
		digits++
	}
	return digits
}

// SetFg writes the foreground color SGR sequence if different from the
// last one written.
func (a *AnsiWriter) SetFg(color Rgba) {
	if a.hasFg && a.fg == color {
		return
	}
	a.WriteRaw(FgColorWithMode(color, a.mode))
	a.fg, a.hasFg = color, true
}

// SetBg writes the background color SGR sequence if different from the
// last one written.
func (a *AnsiWriter) SetBg(color Rgba) {
	if a.hasBg && a.bg == color {
		return
	}
	a.WriteRaw(BgColorWithMode(color, a.mode))
	a.bg, a.hasBg = color, true
}

// SetAttributes writes only the SGR codes needed to move from the
// previously written attribute set to attrs (its link-id bits are ignored).
func (a *AnsiWriter) SetAttributes(attrs TextAttributes) {
	attrs = attrs.FlagsOnly()
	if a.attrs == attrs {
		return
	}

	removed := a.attrs &^ attrs
	if removed != 0 {
		var codes []string
		if removed.Has(AttrBold) || removed.Has(AttrDim) {
			codes = append(codes, "22")
		}
		if removed.Has(AttrItalic) {
			codes = append(codes, "23")
		}
		if removed.Has(AttrUnderline) {
			codes = append(codes, "24")
		}
		if removed.Has(AttrBlink) {
			codes = append(codes, "25")
		}
		if removed.Has(AttrInverse) {
			codes = append(codes, "27")
		}
		if removed.Has(AttrHidden) {
			codes = append(codes, "28")
		}
		if removed.Has(AttrStrikethrough) {
			codes = append(codes, "29")
		}
		if len(codes) > 0 {
			seq := Csi
			for i, c := range codes {
				if i > 0 {
					seq += ";"
				}
				seq += c
			}
			a.WriteRaw(seq + "m")
		}
		a.attrs &^= removed
	}

	toAdd := attrs &^ a.attrs
	if toAdd != 0 {
		a.WriteRaw(Attributes(toAdd))
	}
	a.attrs = attrs
}

// SetLink writes the hyperlink start/end sequence if different from the
// currently open link. linkID 0 means no link.
func (a *AnsiWriter) SetLink(linkID uint32, url string) {
	if a.hasLink && a.linkID == linkID || !a.hasLink && linkID == 0 {
		return
	}
	if linkID != 0 && url != "" {
		a.WriteRaw(HyperlinkStart(linkID, url))
	} else {
		a.WriteRaw(HyperlinkEnd)
	}
	a.linkID, a.hasLink = linkID, linkID != 0
}

// WriteCell writes cell's content at the current cursor position, updating
// color/attribute/hyperlink state as needed. linkURL resolves cell's packed
// link id to a URL (pass "" if the cell carries no hyperlink).
func (a *AnsiWriter) WriteCell(cell Cell, linkURL string) {
	a.SetLink(cell.Attributes.LinkID(), linkURL)
	a.SetAttributes(cell.Attributes)
	a.SetFg(cell.Fg)
	a.SetBg(cell.Bg)

	cell.WriteContent(a.w)
	a.cursorCol += uint32(cell.DisplayWidth())
}

// WriteCellAt moves the cursor to (row, col) then writes cell.
func (a *AnsiWriter) WriteCellAt(row, col uint32, cell Cell, linkURL string) {
	a.MoveCursor(row, col)
	a.WriteCell(cell, linkURL)
}

// WriteCellWithPool writes cell like WriteCell, resolving grapheme content
// through pool instead of falling back to spaces.
func (a *AnsiWriter) WriteCellWithPool(cell Cell, pool *GraphemePool, linkURL string) {
	a.SetLink(cell.Attributes.LinkID(), linkURL)
	a.SetAttributes(cell.Attributes)
	a.SetFg(cell.Fg)
	a.SetBg(cell.Bg)

	cell.WriteContentWithPool(a.w, pool.Get)
	a.cursorCol += uint32(cell.DisplayWidth())
}

// Reset writes a full SGR reset and clears tracked color/attribute/link
// state to match.
func (a *AnsiWriter) Reset() {
	a.WriteRaw(SeqReset)
	a.hasFg, a.hasBg, a.hasLink = false, false, false
	a.attrs = 0
}

// Flush writes any buffered bytes to the underlying writer.
func (a *AnsiWriter) Flush() error {
	return a.w.Flush()
}
