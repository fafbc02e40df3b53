package opentui

import "strings"

// WrapMode selects how TextBufferView breaks long lines into virtual lines.
type WrapMode int

const (
	// WrapNone never breaks a line; renderVirtualLine truncates instead
	// when Truncate is set and the line is wider than the viewport.
	WrapNone WrapMode = iota
	// WrapChar breaks at the grapheme cluster boundary nearest the wrap
	// width, with no regard for word boundaries.
	WrapChar
	// WrapWord breaks at the last whitespace boundary before the wrap
	// width where one exists, falling back to a char-mode break otherwise.
	WrapWord
)

// Viewport is the screen rectangle a TextBufferView renders into.
type Viewport struct {
	X, Y, Width, Height uint32
}

// Selection is a byte-range selection into a TextBuffer's content, styled
// independently of the buffer's own segment overlays.
type Selection struct {
	Start, End int
	Style      Style
}

// NewSelection creates a selection covering [start, end) (order-independent;
// use Normalized to get it sorted).
func NewSelection(start, end int, style Style) Selection {
	return Selection{Start: start, End: end, Style: style}
}

// IsEmpty reports whether the selection covers zero bytes.
func (s Selection) IsEmpty() bool { return s.Start == s.End }

// Normalized returns the selection's bounds with start <= end.
func (s Selection) Normalized() (int, int) {
	if s.Start <= s.End {
		return s.Start, s.End
	}
	return s.End, s.Start
}

// Contains reports whether byte offset pos falls within the selection.
func (s Selection) Contains(pos int) bool {
	start, end := s.Normalized()
	return pos >= start && pos < end
}

// LocalSelection is a selection expressed in screen coordinates (anchor and
// focus cell positions) rather than buffer byte offsets, for drag-selection
// gestures that should survive content scrolling underneath them.
type LocalSelection struct {
	AnchorX, AnchorY uint32
	FocusX, FocusY   uint32
	Style            Style
}

// NewLocalSelection creates a local selection from anchor to focus.
func NewLocalSelection(anchorX, anchorY, focusX, focusY uint32, style Style) LocalSelection {
	return LocalSelection{AnchorX: anchorX, AnchorY: anchorY, FocusX: focusX, FocusY: focusY, Style: style}
}

// Normalized returns the selection's endpoints in reading order, start
// first, so callers can test containment without caring which end is the
// anchor and which is the focus. The start is whichever end has the smaller
// row (or, on the same row, the smaller column); X values are not sorted
// separately, so the first X can exceed the third on a multi-row selection.
func (s LocalSelection) Normalized() (minX, minY, maxX, maxY uint32) {
	x0, x1 := s.AnchorX, s.FocusX
	y0, y1 := s.AnchorY, s.FocusY
	if (y1 < y0) || (y1 == y0 && x1 < x0) {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	return x0, y0, x1, y1
}

// virtualLine is one rendered row: either a whole source line (no wrap) or a
// slice of one, produced by wrapping.
type virtualLine struct {
	sourceLine int
	byteStart  int
	byteEnd    int
	width      int
	isWrap     bool
}

// LineInfo describes the virtual-line layout derived from a TextBuffer's
// content under a particular wrap configuration.
type LineInfo struct {
	Starts   []int
	Ends     []int
	Widths   []int
	Sources  []int
	Wraps    []bool
	MaxWidth int
}

// VirtualLineCount returns the number of virtual lines.
func (li LineInfo) VirtualLineCount() int { return len(li.Starts) }

// SourceToVirtual returns the index of the first virtual line produced by
// sourceLine.
func (li LineInfo) SourceToVirtual(sourceLine int) (int, bool) {
	for i, s := range li.Sources {
		if s == sourceLine {
			return i, true
		}
	}
	return 0, false
}

// VirtualToSource returns the source line a virtual line came from.
func (li LineInfo) VirtualToSource(vidx int) (int, bool) {
	if vidx < 0 || vidx >= len(li.Sources) {
		return 0, false
	}
	return li.Sources[vidx], true
}

// VirtualLineByteRange returns the byte range [start, end) of a virtual
// line's content.
func (li LineInfo) VirtualLineByteRange(vidx int) (int, int, bool) {
	if vidx < 0 || vidx >= len(li.Starts) {
		return 0, 0, false
	}
	return li.Starts[vidx], li.Ends[vidx], true
}

// VirtualLineWidth returns a virtual line's display width in columns.
func (li LineInfo) VirtualLineWidth(vidx int) int {
	if vidx < 0 || vidx >= len(li.Widths) {
		return 0
	}
	return li.Widths[vidx]
}

// IsContinuation reports whether a virtual line is a wrap continuation of
// its source line rather than the source line's first row.
func (li LineInfo) IsContinuation(vidx int) bool {
	if vidx < 0 || vidx >= len(li.Wraps) {
		return false
	}
	return li.Wraps[vidx]
}

// VirtualLinesForSource returns the [first, last] inclusive virtual-line
// index range produced by sourceLine.
func (li LineInfo) VirtualLinesForSource(sourceLine int) (first, last int, ok bool) {
	for i, s := range li.Sources {
		if s == sourceLine {
			if !ok {
				first = i
				ok = true
			}
			last = i
		}
	}
	return first, last, ok
}

// MaxSourceLine returns the highest source line index represented.
func (li LineInfo) MaxSourceLine() int {
	max := 0
	for _, s := range li.Sources {
		if s > max {
			max = s
		}
	}
	return max
}

// TextMeasure summarizes a layout without retaining the full virtual-line
// list, for callers that only need sizing.
type TextMeasure struct {
	LineCount int
	MaxWidth  int
}

type lineCacheKey struct {
	wrapMode             WrapMode
	hasWrapWidthOverride bool
	wrapWidthOverride    uint32
	viewportWidth        uint32
	tabWidth             uint8
	widthMethod          WidthMethod
	bufferRevision       uint64
}

type lineCache struct {
	key          lineCacheKey
	virtualLines []virtualLine
	info         LineInfo
}

// TextBufferView renders a TextBuffer's content into a viewport, with
// optional wrapping, scrolling, and selection overlay. Go has no RefCell, so
// the lazy line-layout cache below is just a plain field refreshed in place
// on read, gated by lineCacheKey equality against the buffer's revision.
type TextBufferView struct {
	buffer *TextBuffer

	viewport Viewport

	wrapMode             WrapMode
	hasWrapWidthOverride bool
	wrapWidthOverride    uint32

	scrollX, scrollY uint32

	selection      *Selection
	localSelection *LocalSelection

	tabIndicator      rune
	tabIndicatorColor *Rgba
	truncate          bool

	cache *lineCache
}

// NewTextBufferView creates a view over buffer with no wrapping, a zero-size
// viewport, and no scroll or selection.
func NewTextBufferView(buffer *TextBuffer) *TextBufferView {
	return &TextBufferView{buffer: buffer, tabIndicator: ' '}
}

// WithViewport sets the render viewport.
func (v *TextBufferView) WithViewport(vp Viewport) *TextBufferView {
	v.viewport = vp
	return v
}

// WithWrapMode sets the wrap mode.
func (v *TextBufferView) WithWrapMode(mode WrapMode) *TextBufferView {
	v.wrapMode = mode
	return v
}

// WithWrapWidth overrides the wrap width; by default it's the viewport's
// width.
func (v *TextBufferView) WithWrapWidth(width uint32) *TextBufferView {
	v.hasWrapWidthOverride = true
	v.wrapWidthOverride = width
	return v
}

// WithScroll sets the scroll offset, in virtual lines (y) and columns (x).
func (v *TextBufferView) WithScroll(x, y uint32) *TextBufferView {
	v.scrollX, v.scrollY = x, y
	return v
}

// WithTabIndicator sets the glyph drawn in a tab's leading column, and the
// color it's drawn in (nil keeps the cell's own foreground).
func (v *TextBufferView) WithTabIndicator(ch rune, color *Rgba) *TextBufferView {
	v.tabIndicator, v.tabIndicatorColor = ch, color
	return v
}

// WithTruncate sets whether lines wider than the viewport are truncated
// with an ellipsis when WrapMode is WrapNone.
func (v *TextBufferView) WithTruncate(truncate bool) *TextBufferView {
	v.truncate = truncate
	return v
}

// SetSelection installs a byte-range selection, replacing any prior one.
func (v *TextBufferView) SetSelection(sel Selection) { v.selection = &sel }

// ClearSelection removes the byte-range selection.
func (v *TextBufferView) ClearSelection() { v.selection = nil }

// SetLocalSelection installs a screen-rect selection, replacing any prior
// one.
func (v *TextBufferView) SetLocalSelection(sel LocalSelection) { v.localSelection = &sel }

// ClearLocalSelection removes the screen-rect selection.
func (v *TextBufferView) ClearLocalSelection() { v.localSelection = nil }

// ClearLineCache forces the next layout read to rebuild from scratch, even
// if the cache key would otherwise still match.
func (v *TextBufferView) ClearLineCache() { v.cache = nil }

func (v *TextBufferView) effectiveWrapWidth() uint32 {
	if v.hasWrapWidthOverride {
		return v.wrapWidthOverride
	}
	return v.viewport.Width
}

func (v *TextBufferView) lineCacheKey() lineCacheKey {
	return lineCacheKey{
		wrapMode:             v.wrapMode,
		hasWrapWidthOverride: v.hasWrapWidthOverride,
		wrapWidthOverride:    v.wrapWidthOverride,
		viewportWidth:        v.viewport.Width,
		tabWidth:             v.buffer.TabWidth(),
		widthMethod:          v.buffer.WidthMethod(),
		bufferRevision:       v.buffer.Revision(),
	}
}

// layout returns the view's current virtual-line list and LineInfo,
// rebuilding them only when the buffer's content, the wrap configuration,
// or the viewport width has changed since the last build.
func (v *TextBufferView) layout() ([]virtualLine, LineInfo) {
	key := v.lineCacheKey()
	if v.cache != nil && v.cache.key == key {
		return v.cache.virtualLines, v.cache.info
	}

	width := v.effectiveWrapWidth()
	var lines []virtualLine
	for src := 0; src < v.buffer.LineCount(); src++ {
		raw, _ := v.buffer.Line(src)
		lineStart := v.buffer.LineStartByte(src)
		trimmed := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		lines = append(lines, buildVirtualLinesForLine(trimmed, lineStart, src, v.wrapMode, width, v.buffer.TabWidth(), v.buffer.WidthMethod())...)
	}

	info := lineInfoFromVirtualLines(lines)
	v.cache = &lineCache{key: key, virtualLines: lines, info: info}
	return lines, info
}

func clusterDisplayWidth(cluster string, method WidthMethod) int {
	runes := []rune(cluster)
	if len(runes) == 1 {
		return RuneDisplayWidth(runes[0], method)
	}
	return GraphemeClusterWidth(cluster)
}

func isWhitespaceCluster(cluster string) bool {
	return cluster == " " || cluster == "\t"
}

// buildVirtualLinesForLine wraps one logical line's content into one or
// more virtual lines. WrapNone emits the whole line unbroken (render-time
// truncation handles overflow); WrapChar breaks at the grapheme nearest the
// wrap width; WrapWord prefers the last whitespace boundary, falling back
// to a char-mode break when a line has none.
func buildVirtualLinesForLine(content string, lineStart, sourceLine int, mode WrapMode, width uint32, tabWidth uint8, widthMethod WidthMethod) []virtualLine {
	if content == "" {
		return []virtualLine{{sourceLine: sourceLine, byteStart: lineStart, byteEnd: lineStart, width: 0}}
	}

	clusters := SplitGraphemeClusters(content)
	if mode == WrapNone || width == 0 {
		w := 0
		col := 0
		for _, c := range clusters {
			cw := clusterWidthWithTabs(c, col, tabWidth, widthMethod)
			w += cw
			col += cw
		}
		return []virtualLine{{sourceLine: sourceLine, byteStart: lineStart, byteEnd: lineStart + len(content), width: w}}
	}

	var result []virtualLine
	segStart := 0
	currentWidth := 0
	byteOffset := 0
	lastBreak := -1
	lastBreakWidth := 0

	emit := func(end int, w int, isWrap bool) {
		result = append(result, virtualLine{
			sourceLine: sourceLine,
			byteStart:  lineStart + segStart,
			byteEnd:    lineStart + end,
			width:      w,
			isWrap:     isWrap,
		})
	}

	for _, c := range clusters {
		cw := clusterWidthWithTabs(c, currentWidth, tabWidth, widthMethod)

		if currentWidth > 0 && currentWidth+cw > int(width) {
			if mode == WrapWord && lastBreak > segStart {
				emit(lastBreak, lastBreakWidth, len(result) > 0)
				segStart = lastBreak
				for segStart < byteOffset && content[segStart] == ' ' {
					segStart++
				}
				currentWidth = 0
				for _, rc := range SplitGraphemeClusters(content[segStart:byteOffset]) {
					currentWidth += clusterWidthWithTabs(rc, currentWidth, tabWidth, widthMethod)
				}
				lastBreak = -1
			} else {
				emit(byteOffset, currentWidth, len(result) > 0)
				segStart = byteOffset
				currentWidth = 0
			}
		}

		currentWidth += cw
		if isWhitespaceCluster(c) {
			lastBreak = byteOffset
			lastBreakWidth = currentWidth - cw
		}
		byteOffset += len(c)
	}

	emit(byteOffset, currentWidth, len(result) > 0)
	return result
}

func clusterWidthWithTabs(cluster string, col int, tabWidth uint8, widthMethod WidthMethod) int {
	if cluster == "\t" {
		tw := int(tabWidth)
		if tw <= 0 {
			tw = 1
		}
		return tw - (col % tw)
	}
	return clusterDisplayWidth(cluster, widthMethod)
}

func lineInfoFromVirtualLines(lines []virtualLine) LineInfo {
	info := LineInfo{
		Starts:  make([]int, len(lines)),
		Ends:    make([]int, len(lines)),
		Widths:  make([]int, len(lines)),
		Sources: make([]int, len(lines)),
		Wraps:   make([]bool, len(lines)),
	}
	for i, l := range lines {
		info.Starts[i] = l.byteStart
		info.Ends[i] = l.byteEnd
		info.Widths[i] = l.width
		info.Sources[i] = l.sourceLine
		info.Wraps[i] = l.isWrap
		if l.width > info.MaxWidth {
			info.MaxWidth = l.width
		}
	}
	return info
}

// LineInfo returns the view's current virtual-line layout.
func (v *TextBufferView) LineInfo() LineInfo {
	_, info := v.layout()
	return info
}

// VirtualLineCount returns the number of virtual lines under the view's
// current wrap configuration.
func (v *TextBufferView) VirtualLineCount() int {
	lines, _ := v.layout()
	return len(lines)
}

// MeasureForDimensions returns the line count and maximum width the view's
// content would have if wrapped to width columns, without mutating the
// view's own cached layout.
func (v *TextBufferView) MeasureForDimensions(width uint32) TextMeasure {
	var lines []virtualLine
	for src := 0; src < v.buffer.LineCount(); src++ {
		raw, _ := v.buffer.Line(src)
		lineStart := v.buffer.LineStartByte(src)
		trimmed := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		lines = append(lines, buildVirtualLinesForLine(trimmed, lineStart, src, v.wrapMode, width, v.buffer.TabWidth(), v.buffer.WidthMethod())...)
	}
	info := lineInfoFromVirtualLines(lines)
	return TextMeasure{LineCount: len(lines), MaxWidth: info.MaxWidth}
}

// SelectedText returns the buffer content covered by the current
// byte-range selection, if any.
func (v *TextBufferView) SelectedText() (string, bool) {
	if v.selection == nil || v.selection.IsEmpty() {
		return "", false
	}
	start, end := v.selection.Normalized()
	start, end = clampRange(start, end, v.buffer.Len())
	return v.buffer.String()[start:end], true
}

// VisualPositionForOffset returns the (column, virtual line) position of a
// byte offset in the buffer, if it falls within a virtual line's range.
func (v *TextBufferView) VisualPositionForOffset(offset int) (col, vline int, ok bool) {
	lines, _ := v.layout()
	for i, l := range lines {
		if offset >= l.byteStart && offset <= l.byteEnd {
			width := 0
			content := v.buffer.String()[l.byteStart:offset]
			for _, c := range SplitGraphemeClusters(content) {
				width += clusterWidthWithTabs(c, width, v.buffer.TabWidth(), v.buffer.WidthMethod())
			}
			return width, i, true
		}
	}
	return 0, 0, false
}

// RenderTo draws the view's visible virtual lines (scrollY..scrollY+height)
// into buf at the view's viewport origin, applying tab expansion, selection
// overlay, and (when WrapMode is WrapNone and Truncate is set) line
// truncation with a trailing ellipsis.
func (v *TextBufferView) RenderTo(buf *OptimizedBuffer, pool *GraphemePool) {
	lines, _ := v.layout()
	for row := uint32(0); row < v.viewport.Height; row++ {
		vidx := int(v.scrollY + row)
		y := v.viewport.Y + row
		if vidx >= len(lines) {
			buf.FillRectWithPool(pool, v.viewport.X, y, v.viewport.Width, 1, Transparent)
			continue
		}
		v.renderVirtualLine(buf, pool, lines[vidx], y)
	}
}

func (v *TextBufferView) renderVirtualLine(buf *OptimizedBuffer, pool *GraphemePool, line virtualLine, y uint32) {
	content := v.buffer.String()[line.byteStart:line.byteEnd]
	clusters := SplitGraphemeClusters(content)

	col := uint32(0)
	byteOffset := line.byteStart
	tabWidth := v.buffer.TabWidth()

	fits := func(w int) bool { return v.viewport.Width == 0 || col+uint32(w) <= v.viewport.Width }

	truncated := false
	if v.wrapMode == WrapNone && v.truncate && line.width > int(v.viewport.Width) && v.viewport.Width > 0 {
		truncated = true
	}

	for _, cluster := range clusters {
		width := clusterWidthWithTabs(cluster, int(col), tabWidth, v.buffer.WidthMethod())

		if truncated && col+uint32(width) > v.viewport.Width-1 && v.viewport.Width > 0 {
			v.drawCell(buf, pool, v.viewport.X+col, y, "…", byteOffset)
			col++
			break
		}
		if !fits(width) {
			break
		}

		style := v.buffer.StyleAt(byteOffset)
		style = v.applySelectionStyle(style, byteOffset, col, y)

		if cluster == "\t" {
			tabStyle := style
			if v.tabIndicatorColor != nil {
				c := *v.tabIndicatorColor
				tabStyle = tabStyle.WithFg(c)
			}
			cell := newPooledCell(pool, string(v.tabIndicator), tabStyle)
			buf.SetBlendedWithPool(pool, v.viewport.X+col, y, cell)
			bg := Transparent
			if style.Bg != nil {
				bg = *style.Bg
			}
			for k := 1; k < width; k++ {
				buf.SetBlendedWithPool(pool, v.viewport.X+col+uint32(k), y, ContinuationCell(bg))
			}
		} else {
			cell := newPooledCell(pool, cluster, style)
			buf.SetBlendedWithPool(pool, v.viewport.X+col, y, cell)
			bg := Transparent
			if style.Bg != nil {
				bg = *style.Bg
			}
			for k := 1; k < width; k++ {
				buf.SetBlendedWithPool(pool, v.viewport.X+col+uint32(k), y, ContinuationCell(bg))
			}
		}

		col += uint32(width)
		byteOffset += len(cluster)
	}

	if v.viewport.Width > col {
		buf.FillRectWithPool(pool, v.viewport.X+col, y, v.viewport.Width-col, 1, Transparent)
	}
}

func (v *TextBufferView) drawCell(buf *OptimizedBuffer, pool *GraphemePool, x, y uint32, grapheme string, byteOffset int) {
	style := v.buffer.StyleAt(byteOffset)
	style = v.applySelectionStyle(style, byteOffset, x-v.viewport.X, y)
	cell := newPooledCell(pool, grapheme, style)
	buf.SetBlendedWithPool(pool, x, y, cell)
}

func (v *TextBufferView) applySelectionStyle(style Style, byteOffset int, col, y uint32) Style {
	if v.selection != nil && v.selection.Contains(byteOffset) {
		style = style.Merge(v.selection.Style)
	}
	if v.localSelection != nil {
		minX, minY, maxX, maxY := v.localSelection.Normalized()
		if y >= minY && y <= maxY {
			inRow := true
			if y == minY && col < minX {
				inRow = false
			}
			if y == maxY && col > maxX {
				inRow = false
			}
			if inRow {
				style = style.Merge(v.localSelection.Style)
			}
		}
	}
	return style
}
