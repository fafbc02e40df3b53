package opentui

import "sort"

// StyledSegment overlays a Style onto a byte range of a TextBuffer's
// content, independent of the buffer's default style — used for syntax
// highlighting and other rich-text markup.
type StyledSegment struct {
	Start, End int
	Style      Style
	Priority   uint8
	RefID      *uint16
	Line       *int
}

// NewStyledSegment creates a segment covering [start, end) with style and
// no priority, ref id, or source line.
func NewStyledSegment(start, end int, style Style) StyledSegment {
	return StyledSegment{Start: start, End: end, Style: style}
}

// WithPriority returns a copy of s with its priority set. Higher priority
// wins where segments overlap.
func (s StyledSegment) WithPriority(priority uint8) StyledSegment {
	s.Priority = priority
	return s
}

// WithRef returns a copy of s tagged with a highlight reference id, for
// later batch removal via TextBuffer.RemoveSegmentsByRef.
func (s StyledSegment) WithRef(refID uint16) StyledSegment {
	s.RefID = &refID
	return s
}

// WithLine returns a copy of s tagged with a source line, for line-based
// highlights.
func (s StyledSegment) WithLine(line int) StyledSegment {
	s.Line = &line
	return s
}

// Overlaps reports whether s and other cover any common byte.
func (s StyledSegment) Overlaps(other StyledSegment) bool {
	return s.Start < other.End && other.Start < s.End
}

// Contains reports whether pos falls within s's byte range.
func (s StyledSegment) Contains(pos int) bool { return pos >= s.Start && pos < s.End }

// Len returns the segment's length in bytes.
func (s StyledSegment) Len() int { return s.End - s.Start }

// IsEmpty reports whether the segment covers zero bytes.
func (s StyledSegment) IsEmpty() bool { return s.Start >= s.End }

// StyledChunk is a piece of text carrying its own style, for assembling a
// TextBuffer's initial content from several differently-styled pieces.
type StyledChunk struct {
	Text  string
	Style Style
}

// PlainChunk creates an unstyled chunk.
func PlainChunk(text string) StyledChunk { return StyledChunk{Text: text} }

// TextBuffer holds editable text content plus a set of styled-segment
// overlays, a default style, a tab width, and a width method. Content is
// indexed by byte offset throughout, matching how Go's own strings are
// addressed — there is no separate char/byte distinction to paper over the
// way there is in UTF-8-over-char-indexed rope implementations.
//
// Every mutation (Insert/Delete/Replace, segment add/remove, style/tab/
// width-method changes) bumps Revision by one; TextBufferView uses it as a
// cache key for derived line-layout data.
type TextBuffer struct {
	text         []byte
	segments     []StyledSegment
	defaultStyle Style
	tabWidth     uint8
	widthMethod  WidthMethod
	revision     uint64
}

// NewTextBuffer creates an empty text buffer with a tab width of 4 and the
// default width method.
func NewTextBuffer() *TextBuffer {
	return &TextBuffer{tabWidth: 4, widthMethod: DefaultWidthMethod}
}

// NewTextBufferWithText creates a text buffer preloaded with s.
func NewTextBufferWithText(s string) *TextBuffer {
	b := NewTextBuffer()
	b.text = []byte(s)
	return b
}

// NewTextBufferFromChunks concatenates chunks into one buffer, recording a
// styled segment for every chunk whose style is non-empty.
func NewTextBufferFromChunks(chunks []StyledChunk) *TextBuffer {
	b := NewTextBuffer()
	for _, c := range chunks {
		start := len(b.text)
		b.text = append(b.text, c.Text...)
		if !c.Style.IsEmpty() {
			b.segments = append(b.segments, NewStyledSegment(start, len(b.text), c.Style))
		}
	}
	return b
}

// String returns the buffer's full content.
func (b *TextBuffer) String() string { return string(b.text) }

// Len returns the content length in bytes.
func (b *TextBuffer) Len() int { return len(b.text) }

// Revision returns the mutation counter.
func (b *TextBuffer) Revision() uint64 { return b.revision }

// TabWidth returns the configured tab width in columns.
func (b *TextBuffer) TabWidth() uint8 { return b.tabWidth }

// SetTabWidth sets the tab width in columns.
func (b *TextBuffer) SetTabWidth(width uint8) {
	b.tabWidth = width
	b.revision++
}

// WidthMethod returns the configured display-width method.
func (b *TextBuffer) WidthMethod() WidthMethod { return b.widthMethod }

// SetWidthMethod sets the display-width method used for wrapping and
// measurement.
func (b *TextBuffer) SetWidthMethod(method WidthMethod) {
	b.widthMethod = method
	b.revision++
}

// DefaultStyle returns the style applied where no segment overlaps.
func (b *TextBuffer) DefaultStyle() Style { return b.defaultStyle }

// SetDefaultStyle sets the style applied where no segment overlaps.
func (b *TextBuffer) SetDefaultStyle(style Style) {
	b.defaultStyle = style
	b.revision++
}

// Insert inserts s at byte offset at, shifting every segment boundary at or
// after at forward by len(s).
func (b *TextBuffer) Insert(at int, s string) {
	if at < 0 {
		at = 0
	}
	if at > len(b.text) {
		at = len(b.text)
	}
	inserted := append([]byte(s), b.text[at:]...)
	b.text = append(b.text[:at:at], inserted...)

	n := len(s)
	for i := range b.segments {
		b.segments[i].Start = shiftForInsert(b.segments[i].Start, at, n)
		b.segments[i].End = shiftForInsert(b.segments[i].End, at, n)
	}
	b.revision++
}

func shiftForInsert(pos, at, n int) int {
	if pos >= at {
		return pos + n
	}
	return pos
}

// Delete removes the byte range [start, end), clamped to the buffer's
// bounds. Segments fully inside the deleted range are dropped; segments
// straddling it are shrunk to its edge.
func (b *TextBuffer) Delete(start, end int) {
	start, end = clampRange(start, end, len(b.text))
	if start >= end {
		return
	}
	b.text = append(b.text[:start:start], b.text[end:]...)

	n := end - start
	kept := b.segments[:0]
	for _, seg := range b.segments {
		seg.Start = shiftForDelete(seg.Start, start, end, n)
		seg.End = shiftForDelete(seg.End, start, end, n)
		if seg.Start < seg.End {
			kept = append(kept, seg)
		}
	}
	b.segments = kept
	b.revision++
}

func shiftForDelete(pos, start, end, n int) int {
	switch {
	case pos <= start:
		return pos
	case pos >= end:
		return pos - n
	default:
		return start
	}
}

func clampRange(start, end, max int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > max {
		start = max
	}
	if end > max {
		end = max
	}
	if end < start {
		end = start
	}
	return start, end
}

// Replace deletes [start, end) and inserts s in its place.
func (b *TextBuffer) Replace(start, end int, s string) {
	rev := b.revision
	b.Delete(start, end)
	b.Insert(start, s)
	b.revision = rev + 1
}

// AddSegment appends a styled segment overlay.
func (b *TextBuffer) AddSegment(seg StyledSegment) {
	b.segments = append(b.segments, seg)
	b.revision++
}

// RemoveSegmentsByRef removes every segment tagged with refID via
// StyledSegment.WithRef.
func (b *TextBuffer) RemoveSegmentsByRef(refID uint16) {
	kept := b.segments[:0]
	for _, seg := range b.segments {
		if seg.RefID == nil || *seg.RefID != refID {
			kept = append(kept, seg)
		}
	}
	b.segments = kept
	b.revision++
}

// ClearSegments removes every segment overlay.
func (b *TextBuffer) ClearSegments() {
	b.segments = nil
	b.revision++
}

// Segments returns the buffer's current segment overlays.
func (b *TextBuffer) Segments() []StyledSegment { return b.segments }

// StyleAt returns the default style merged with every segment overlapping
// byteOffset, applied in ascending priority order so higher-priority
// segments take precedence.
func (b *TextBuffer) StyleAt(byteOffset int) Style {
	style := b.defaultStyle
	if len(b.segments) == 0 {
		return style
	}

	matching := make([]StyledSegment, 0, 4)
	for _, seg := range b.segments {
		if seg.Contains(byteOffset) {
			matching = append(matching, seg)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Priority < matching[j].Priority
	})
	for _, seg := range matching {
		style = style.Merge(seg.Style)
	}
	return style
}

// LineCount returns the number of logical (newline-delimited) lines. An
// empty buffer has exactly one line.
func (b *TextBuffer) LineCount() int { return len(b.lineStarts()) }

// Line returns the raw bytes of logical line idx, including its trailing
// line terminator if one is present.
func (b *TextBuffer) Line(idx int) (string, bool) {
	starts := b.lineStarts()
	if idx < 0 || idx >= len(starts) {
		return "", false
	}
	start := starts[idx]
	end := len(b.text)
	if idx+1 < len(starts) {
		end = starts[idx+1]
	}
	return string(b.text[start:end]), true
}

// LineStartByte returns the byte offset where logical line idx begins.
func (b *TextBuffer) LineStartByte(idx int) int {
	starts := b.lineStarts()
	if idx < 0 || idx >= len(starts) {
		return len(b.text)
	}
	return starts[idx]
}

// lineStarts scans for line boundaries on every call rather than caching
// them incrementally; TextBuffer has no backing rope structure, so a
// boundary cache would need its own revision-gated invalidation for a
// linear scan that's already cheap relative to the view's own line-layout
// cache (see TextBufferView).
func (b *TextBuffer) lineStarts() []int {
	starts := []int{0}
	for i, c := range b.text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
