package opentui

// BoxStyle names the corner/edge glyphs and style used to draw a box border.
type BoxStyle struct {
	TopLeft, TopRight       rune
	BottomLeft, BottomRight rune
	Horizontal, Vertical    rune
	Style                   Style
}

// SingleBoxStyle is a thin single-line border.
func SingleBoxStyle(style Style) BoxStyle {
	return BoxStyle{'┌', '┐', '└', '┘', '─', '│', style}
}

// DoubleBoxStyle is a double-line border.
func DoubleBoxStyle(style Style) BoxStyle {
	return BoxStyle{'╔', '╗', '╚', '╝', '═', '║', style}
}

// RoundedBoxStyle is a single-line border with rounded corners.
func RoundedBoxStyle(style Style) BoxStyle {
	return BoxStyle{'╭', '╮', '╰', '╯', '─', '│', style}
}

// HeavyBoxStyle is a bold single-line border.
func HeavyBoxStyle(style Style) BoxStyle {
	return BoxStyle{'┏', '┓', '┗', '┛', '━', '┃', style}
}

// ASCIIBoxStyle draws a border with plain ASCII characters, for terminals
// without box-drawing glyph support.
func ASCIIBoxStyle(style Style) BoxStyle {
	return BoxStyle{'+', '+', '+', '+', '-', '|', style}
}

// BoxSides selects which edges of a box are drawn.
type BoxSides struct {
	Top, Right, Bottom, Left bool
}

// AllBoxSides draws every edge.
func AllBoxSides() BoxSides { return BoxSides{true, true, true, true} }

// TitleAlign positions a box's title along its top edge.
type TitleAlign int

const (
	TitleAlignLeft TitleAlign = iota
	TitleAlignCenter
	TitleAlignRight
)

// BoxOptions extends BoxStyle with side visibility, an optional interior
// fill color, and an optional title drawn into the top edge.
type BoxOptions struct {
	Style      BoxStyle
	Sides      BoxSides
	Fill       *Rgba
	Title      string
	TitleAlign TitleAlign
}

// NewBoxOptions builds BoxOptions with all sides visible and no title.
func NewBoxOptions(style BoxStyle) BoxOptions {
	return BoxOptions{Style: style, Sides: AllBoxSides()}
}

// DrawText draws text at (x,y), handling grapheme clusters and wide
// characters by advancing one column per cluster width and filling
// continuation cells for wide glyphs. Multi-codepoint graphemes are stored
// with placeholder ids; use DrawTextWithPool to intern them for correct
// rendering.
func DrawText(buf *OptimizedBuffer, x, y uint32, text string, style Style) {
	col := x
	bg := Transparent
	if style.Bg != nil {
		bg = *style.Bg
	}

	for _, cluster := range SplitGraphemeClusters(text) {
		if cluster == "\n" || cluster == "\r" {
			continue
		}
		cell := NewCellFromGrapheme(cluster, style)
		width := cell.DisplayWidth()

		buf.SetBlended(col, y, cell)
		for i := 1; i < width; i++ {
			buf.SetBlended(col+uint32(i), y, ContinuationCell(bg))
		}
		col += uint32(width)
	}
}

// DrawTextWithPool draws text like DrawText, allocating pool ids for
// multi-codepoint graphemes (emoji ZWJ sequences, combining marks) so they
// can be resolved by the ANSI writer at render time.
func DrawTextWithPool(buf *OptimizedBuffer, pool *GraphemePool, x, y uint32, text string, style Style) {
	col := x
	bg := Transparent
	if style.Bg != nil {
		bg = *style.Bg
	}

	for _, cluster := range SplitGraphemeClusters(text) {
		if cluster == "\n" || cluster == "\r" {
			continue
		}
		cell := newPooledCell(pool, cluster, style)
		width := cell.DisplayWidth()

		buf.SetBlendedWithPool(pool, col, y, cell)
		for i := 1; i < width; i++ {
			buf.SetBlendedWithPool(pool, col+uint32(i), y, ContinuationCell(bg))
		}
		col += uint32(width)
	}
}

// DrawCharWithPool draws a single grapheme cluster at (x,y), interning it
// in pool if it's multi-codepoint.
func DrawCharWithPool(buf *OptimizedBuffer, pool *GraphemePool, x, y uint32, grapheme string, style Style) {
	bg := Transparent
	if style.Bg != nil {
		bg = *style.Bg
	}
	cell := newPooledCell(pool, grapheme, style)
	width := cell.DisplayWidth()

	buf.SetBlendedWithPool(pool, x, y, cell)
	for i := 1; i < width; i++ {
		buf.SetBlendedWithPool(pool, x+uint32(i), y, ContinuationCell(bg))
	}
}

func newPooledCell(pool *GraphemePool, cluster string, style Style) Cell {
	runes := []rune(cluster)
	fg, bg := White, Transparent
	if style.Fg != nil {
		fg = *style.Fg
	}
	if style.Bg != nil {
		bg = *style.Bg
	}
	if len(runes) == 1 {
		return Cell{Content: CharContent(runes[0]), Fg: fg, Bg: bg, Attributes: style.Attributes}
	}
	id := pool.Intern(cluster)
	return Cell{Content: GraphemeContent(id), Fg: fg, Bg: bg, Attributes: style.Attributes}
}

// DrawBox draws a box border using the default side set, with no fill or
// title.
func DrawBox(buf *OptimizedBuffer, x, y, w, h uint32, style BoxStyle) {
	DrawBoxWithOptions(buf, x, y, w, h, NewBoxOptions(style))
}

// DrawBoxWithOptions draws a box border with optional interior fill, side
// visibility, and a title embedded in the top edge.
func DrawBoxWithOptions(buf *OptimizedBuffer, x, y, w, h uint32, opts BoxOptions) {
	if w < 2 || h < 2 {
		return
	}
	style := opts.Style.Style

	if opts.Fill != nil && w > 2 && h > 2 {
		buf.FillRect(x+1, y+1, w-2, h-2, *opts.Fill)
	}

	if opts.Sides.Top && opts.Sides.Left {
		buf.SetBlended(x, y, NewCell(opts.Style.TopLeft, style))
	}
	if opts.Sides.Top && opts.Sides.Right {
		buf.SetBlended(x+w-1, y, NewCell(opts.Style.TopRight, style))
	}
	if opts.Sides.Bottom && opts.Sides.Left {
		buf.SetBlended(x, y+h-1, NewCell(opts.Style.BottomLeft, style))
	}
	if opts.Sides.Bottom && opts.Sides.Right {
		buf.SetBlended(x+w-1, y+h-1, NewCell(opts.Style.BottomRight, style))
	}

	if opts.Sides.Top {
		for col := x + 1; col < x+w-1; col++ {
			buf.SetBlended(col, y, NewCell(opts.Style.Horizontal, style))
		}
	}
	if opts.Sides.Bottom {
		for col := x + 1; col < x+w-1; col++ {
			buf.SetBlended(col, y+h-1, NewCell(opts.Style.Horizontal, style))
		}
	}
	if opts.Sides.Left {
		for row := y + 1; row < y+h-1; row++ {
			buf.SetBlended(x, row, NewCell(opts.Style.Vertical, style))
		}
	}
	if opts.Sides.Right {
		for row := y + 1; row < y+h-1; row++ {
			buf.SetBlended(x+w-1, row, NewCell(opts.Style.Vertical, style))
		}
	}

	if opts.Title != "" && opts.Sides.Top && w > 2 {
		drawBoxTitle(buf, x, y, w, opts.Title, opts.TitleAlign, style)
	}
}

const boxTitlePadding = 2
const boxTitleMinSpace = 4

func drawBoxTitle(buf *OptimizedBuffer, x, y, w uint32, title string, align TitleAlign, style Style) {
	titleWidth := int32(StringDisplayWidth(title, DefaultWidthMethod))
	boxWidth := int32(w)
	if titleWidth <= 0 || boxWidth < titleWidth+boxTitleMinSpace {
		return
	}

	startX := int32(x)
	endX := startX + boxWidth - 1

	var titleX int32
	switch align {
	case TitleAlignCenter:
		centered := (boxWidth - titleWidth) / 2
		titleX = startX + max32(boxTitlePadding, centered)
	case TitleAlignRight:
		titleX = startX + boxWidth - boxTitlePadding - titleWidth
	default:
		titleX = startX + boxTitlePadding
	}

	minX := startX + boxTitlePadding
	maxX := endX - boxTitlePadding - titleWidth + 1
	if titleX < minX {
		titleX = minX
	}
	if titleX > maxX {
		titleX = maxX
	}

	DrawText(buf, uint32(titleX), y, title, style)
}

// DrawHLine draws a horizontal line of len cells starting at (x,y).
func DrawHLine(buf *OptimizedBuffer, x, y, length uint32, ch rune, style Style) {
	for col := x; col < saturatingAddU32(x, length); col++ {
		buf.SetBlended(col, y, NewCell(ch, style))
	}
}

// DrawVLine draws a vertical line of len cells starting at (x,y).
func DrawVLine(buf *OptimizedBuffer, x, y, length uint32, ch rune, style Style) {
	for row := y; row < saturatingAddU32(y, length); row++ {
		buf.SetBlended(x, row, NewCell(ch, style))
	}
}
