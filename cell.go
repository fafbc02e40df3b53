package opentui

import (
	"fmt"
	"io"
)

// GraphemeId is an encoded reference into a GraphemePool with a cached
// display width, so the hot rendering path never needs a pool lookup just
// to know how many columns a cluster occupies.
//
// Encoding: [31: reserved][30-24: width (7 bits)][23-0: pool id (24 bits)]
type GraphemeId uint32

const (
	graphemeWidthShift = 24
	graphemeWidthMask  = 0x7F << graphemeWidthShift
	graphemeIDMask     = 0x00FF_FFFF
)

// NewGraphemeID packs poolID and width into a GraphemeId. poolID is masked
// to 24 bits and width to 7 bits; callers validate bounds at the pool level.
func NewGraphemeID(poolID uint32, width uint8) GraphemeId {
	return GraphemeId((poolID & graphemeIDMask) | (uint32(width) << graphemeWidthShift))
}

// PlaceholderGraphemeID returns a GraphemeId with pool id 0 and the given
// cached width, for use before a real pool slot has been assigned.
func PlaceholderGraphemeID(width uint8) GraphemeId {
	return NewGraphemeID(0, width)
}

// GraphemeIDFromRaw reinterprets a raw encoded value as a GraphemeId.
func GraphemeIDFromRaw(raw uint32) GraphemeId {
	return GraphemeId(raw)
}

// PoolID returns the pool slot index encoded in id.
func (id GraphemeId) PoolID() uint32 {
	return uint32(id) & graphemeIDMask
}

// Width returns the cached display width encoded in id.
func (id GraphemeId) Width() int {
	return int((uint32(id) & graphemeWidthMask) >> graphemeWidthShift)
}

// Raw returns the raw encoded uint32 value.
func (id GraphemeId) Raw() uint32 {
	return uint32(id)
}

// cellContentKind tags which field of CellContent is active. CellContent is
// a small value type rather than an interface so Cell stays Copy-able and
// allocation-free on the rendering hot path.
type cellContentKind uint8

const (
	contentChar cellContentKind = iota
	contentGrapheme
	contentEmpty
	contentContinuation
)

// CellContent is what is displayed in a single cell position: a plain
// character, a reference to a multi-codepoint grapheme cluster in a
// GraphemePool, an empty/cleared cell, or a continuation marker occupied by
// the previous wide character.
type CellContent struct {
	kind     cellContentKind
	char     rune
	grapheme GraphemeId
}

// CharContent returns cell content holding a single character.
func CharContent(c rune) CellContent {
	return CellContent{kind: contentChar, char: c}
}

// GraphemeContent returns cell content referencing a grapheme pool slot.
func GraphemeContent(id GraphemeId) CellContent {
	return CellContent{kind: contentGrapheme, grapheme: id}
}

// EmptyContent is a cleared cell's content.
var EmptyContent = CellContent{kind: contentEmpty}

// ContinuationContent marks a cell occupied by a preceding wide character.
var ContinuationContent = CellContent{kind: contentContinuation}

// DisplayWidth returns how many terminal columns this content occupies.
// Graphemes return their cached width without touching the pool.
func (c CellContent) DisplayWidth() int {
	switch c.kind {
	case contentChar:
		return RuneDisplayWidth(c.char, DefaultWidthMethod)
	case contentGrapheme:
		return c.grapheme.Width()
	case contentEmpty:
		return 1
	default: // contentContinuation
		return 0
	}
}

// IsContinuation reports whether c is a continuation cell.
func (c CellContent) IsContinuation() bool {
	return c.kind == contentContinuation
}

// IsEmpty reports whether c is a cleared/empty cell.
func (c CellContent) IsEmpty() bool {
	return c.kind == contentEmpty
}

// IsGrapheme reports whether c references a grapheme pool slot.
func (c CellContent) IsGrapheme() bool {
	return c.kind == contentGrapheme
}

// GraphemeID returns the referenced GraphemeId and true if c is a grapheme.
func (c CellContent) GraphemeID() (GraphemeId, bool) {
	if c.kind != contentGrapheme {
		return 0, false
	}
	return c.grapheme, true
}

// AsChar returns the rune and true if c is a single character.
func (c CellContent) AsChar() (rune, bool) {
	if c.kind != contentChar {
		return 0, false
	}
	return c.char, true
}

// AsStringWithoutPool returns c's string form for everything except
// graphemes, which require a pool lookup to resolve. The second return
// value is false only for graphemes.
func (c CellContent) AsStringWithoutPool() (string, bool) {
	switch c.kind {
	case contentChar:
		return string(c.char), true
	case contentEmpty:
		return " ", true
	case contentContinuation:
		return "", true
	default:
		return "", false
	}
}

// Cell is a single terminal cell: its content plus foreground/background
// color and text attributes (including a packed hyperlink id). Cells
// support alpha-composited blending via BlendOver so transparent overlays
// and layered UI elements can be flattened in a single pass.
type Cell struct {
	Content    CellContent
	Fg         Rgba
	Bg         Rgba
	Attributes TextAttributes
}

// NewCell creates a cell holding a single character styled with style.
func NewCell(ch rune, style Style) Cell {
	fg, bg := White, Transparent
	if style.Fg != nil {
		fg = *style.Fg
	}
	if style.Bg != nil {
		bg = *style.Bg
	}
	return Cell{Content: CharContent(ch), Fg: fg, Bg: bg, Attributes: style.Attributes}
}

// NewCellFromGrapheme creates a cell from a grapheme cluster string. A
// single-codepoint string collapses to the cheaper Char content; a
// multi-codepoint cluster becomes a placeholder Grapheme content (pool id
// 0) with its correct cached width — use GraphemePool.Intern to obtain a
// real id resolvable back to the string at render time.
func NewCellFromGrapheme(s string, style Style) Cell {
	runes := []rune(s)
	var content CellContent
	if len(runes) == 1 {
		content = CharContent(runes[0])
	} else {
		width := StringDisplayWidth(s, WidthMethodUniseg)
		content = GraphemeContent(PlaceholderGraphemeID(uint8(width)))
	}

	fg, bg := White, Transparent
	if style.Fg != nil {
		fg = *style.Fg
	}
	if style.Bg != nil {
		bg = *style.Bg
	}
	return Cell{Content: content, Fg: fg, Bg: bg, Attributes: style.Attributes}
}

// ClearCell returns an empty cell with the given background.
func ClearCell(bg Rgba) Cell {
	return Cell{Content: EmptyContent, Fg: White, Bg: bg}
}

// ContinuationCell returns a continuation placeholder for wide characters.
func ContinuationCell(bg Rgba) Cell {
	return Cell{Content: ContinuationContent, Fg: White, Bg: bg}
}

// DisplayWidth returns the number of terminal columns c occupies.
func (c Cell) DisplayWidth() int {
	return c.Content.DisplayWidth()
}

// IsContinuation reports whether c is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Content.IsContinuation()
}

// IsEmpty reports whether c is cleared/empty.
func (c Cell) IsEmpty() bool {
	return c.Content.IsEmpty()
}

// WriteContent writes c's content to w without resolving graphemes against
// a pool — grapheme content is written as spaces matching its cached width.
// Use WriteContentWithPool for correct grapheme rendering.
func (c Cell) WriteContent(w io.Writer) error {
	switch c.Content.kind {
	case contentChar:
		_, err := fmt.Fprintf(w, "%c", c.Content.char)
		return err
	case contentGrapheme:
		return writeSpaces(w, c.Content.grapheme.Width())
	case contentEmpty:
		_, err := io.WriteString(w, " ")
		return err
	default: // contentContinuation
		return nil
	}
}

// WriteContentWithPool writes c's content to w, resolving grapheme
// references via poolLookup. Falls back to spaces matching the cached
// width if the lookup returns false (e.g. a stale or placeholder id).
func (c Cell) WriteContentWithPool(w io.Writer, poolLookup func(GraphemeId) (string, bool)) error {
	switch c.Content.kind {
	case contentChar:
		_, err := fmt.Fprintf(w, "%c", c.Content.char)
		return err
	case contentGrapheme:
		if s, ok := poolLookup(c.Content.grapheme); ok {
			_, err := io.WriteString(w, s)
			return err
		}
		return writeSpaces(w, c.Content.grapheme.Width())
	case contentEmpty:
		_, err := io.WriteString(w, " ")
		return err
	default: // contentContinuation
		return nil
	}
}

func writeSpaces(w io.Writer, n int) error {
	for i := 0; i < n; i++ {
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
	}
	return nil
}

// ApplyStyle overlays style onto c in place: set colors replace, attributes merge.
func (c *Cell) ApplyStyle(style Style) {
	if style.Fg != nil {
		c.Fg = *style.Fg
	}
	if style.Bg != nil {
		c.Bg = *style.Bg
	}
	c.Attributes = c.Attributes.Merge(style.Attributes)
}

// BlendWithOpacity multiplies both colors' alpha by opacity in place.
func (c *Cell) BlendWithOpacity(opacity float32) {
	c.Fg = c.Fg.MultiplyAlpha(opacity)
	c.Bg = c.Bg.MultiplyAlpha(opacity)
}

// BlendOver composites c on top of background using Porter-Duff "over" for
// both colors independently. Content and attributes come as a pair from
// whichever side is non-empty: if c is empty, the result keeps background's
// content, attributes, and any hyperlink id; otherwise c's own content and
// attributes win.
func (c Cell) BlendOver(background Cell) Cell {
	content, attributes := c.Content, c.Attributes
	if c.Content.IsEmpty() {
		content, attributes = background.Content, background.Attributes
	}

	return Cell{
		Content:    content,
		Fg:         c.Fg.BlendOver(background.Fg),
		Bg:         c.Bg.BlendOver(background.Bg),
		Attributes: attributes,
	}
}
