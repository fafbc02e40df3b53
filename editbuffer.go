package opentui

// EditBuffer pairs a TextBuffer with a cursor and an optional selection
// anchor, and provides the edit operations (insert, delete, cursor motion)
// an interactive text field or editor widget needs. There is no
// original_source file defining this type; it's grounded on spec.md's
// module-table description ("Cursor, selection, edit operations, viewport
// follow-cursor") and built as a thin wrapper over TextBuffer.
type EditBuffer struct {
	Buffer *TextBuffer

	cursor int
	anchor *int
}

// NewEditBuffer creates an edit buffer over an empty TextBuffer, cursor at
// offset 0.
func NewEditBuffer() *EditBuffer {
	return &EditBuffer{Buffer: NewTextBuffer()}
}

// NewEditBufferWithText creates an edit buffer preloaded with s, cursor at
// the end.
func NewEditBufferWithText(s string) *EditBuffer {
	b := NewTextBufferWithText(s)
	return &EditBuffer{Buffer: b, cursor: len(s)}
}

// Cursor returns the cursor's byte offset into the buffer.
func (e *EditBuffer) Cursor() int { return e.cursor }

// SetCursor moves the cursor to pos, clamped to the buffer's bounds. Any
// active selection is cleared.
func (e *EditBuffer) SetCursor(pos int) {
	e.cursor = clampOffset(pos, e.Buffer.Len())
	e.anchor = nil
}

func clampOffset(pos, max int) int {
	if pos < 0 {
		return 0
	}
	if pos > max {
		return max
	}
	return pos
}

// HasSelection reports whether a selection anchor is active and it differs
// from the cursor.
func (e *EditBuffer) HasSelection() bool { return e.anchor != nil && *e.anchor != e.cursor }

// StartSelection anchors a selection at the current cursor position, to be
// extended by subsequent cursor movement.
func (e *EditBuffer) StartSelection() {
	pos := e.cursor
	e.anchor = &pos
}

// ClearSelection drops the selection anchor without moving the cursor.
func (e *EditBuffer) ClearSelection() { e.anchor = nil }

// SelectionRange returns the selection's normalized byte range, if one is
// active.
func (e *EditBuffer) SelectionRange() (start, end int, ok bool) {
	if !e.HasSelection() {
		return 0, 0, false
	}
	a, c := *e.anchor, e.cursor
	if a > c {
		a, c = c, a
	}
	return a, c, true
}

// InsertAtCursor inserts s at the cursor and advances the cursor past it,
// replacing any active selection first.
func (e *EditBuffer) InsertAtCursor(s string) {
	if start, end, ok := e.SelectionRange(); ok {
		e.Buffer.Replace(start, end, s)
		e.cursor = start + len(s)
		e.anchor = nil
		return
	}
	e.Buffer.Insert(e.cursor, s)
	e.cursor += len(s)
}

// DeleteSelection removes the active selection's content, if any, and
// reports whether it did.
func (e *EditBuffer) DeleteSelection() bool {
	start, end, ok := e.SelectionRange()
	if !ok {
		return false
	}
	e.Buffer.Delete(start, end)
	e.cursor = start
	e.anchor = nil
	return true
}

// DeleteBackward deletes the selection if one is active, otherwise the
// grapheme cluster immediately before the cursor (backspace).
func (e *EditBuffer) DeleteBackward() {
	if e.DeleteSelection() {
		return
	}
	if e.cursor == 0 {
		return
	}
	before := e.Buffer.String()[:e.cursor]
	clusters := SplitGraphemeClusters(before)
	if len(clusters) == 0 {
		return
	}
	last := clusters[len(clusters)-1]
	e.Buffer.Delete(e.cursor-len(last), e.cursor)
	e.cursor -= len(last)
}

// DeleteForward deletes the selection if one is active, otherwise the
// grapheme cluster at the cursor (delete key).
func (e *EditBuffer) DeleteForward() {
	if e.DeleteSelection() {
		return
	}
	after := e.Buffer.String()[e.cursor:]
	clusters := SplitGraphemeClusters(after)
	if len(clusters) == 0 {
		return
	}
	first := clusters[0]
	e.Buffer.Delete(e.cursor, e.cursor+len(first))
}

// MoveLeft moves the cursor back one grapheme cluster. extend, when true,
// starts (or continues) a selection instead of collapsing it.
func (e *EditBuffer) MoveLeft(extend bool) {
	e.beginMove(extend)
	if e.cursor == 0 {
		return
	}
	before := e.Buffer.String()[:e.cursor]
	clusters := SplitGraphemeClusters(before)
	if len(clusters) == 0 {
		return
	}
	e.cursor -= len(clusters[len(clusters)-1])
}

// MoveRight moves the cursor forward one grapheme cluster.
func (e *EditBuffer) MoveRight(extend bool) {
	e.beginMove(extend)
	after := e.Buffer.String()[e.cursor:]
	clusters := SplitGraphemeClusters(after)
	if len(clusters) == 0 {
		return
	}
	e.cursor += len(clusters[0])
}

// MoveToLineStart moves the cursor to the byte offset of the start of its
// current logical line.
func (e *EditBuffer) MoveToLineStart(extend bool) {
	e.beginMove(extend)
	e.cursor = e.Buffer.LineStartByte(e.currentLine())
}

// MoveToLineEnd moves the cursor to the end of its current logical line
// (before the line terminator, if any).
func (e *EditBuffer) MoveToLineEnd(extend bool) {
	e.beginMove(extend)
	idx := e.currentLine()
	line, _ := e.Buffer.Line(idx)
	trimmed := trimLineTerminator(line)
	e.cursor = e.Buffer.LineStartByte(idx) + len(trimmed)
}

func (e *EditBuffer) beginMove(extend bool) {
	if extend {
		if e.anchor == nil {
			e.StartSelection()
		}
	} else {
		e.anchor = nil
	}
}

func (e *EditBuffer) currentLine() int {
	for i := 0; i < e.Buffer.LineCount(); i++ {
		start := e.Buffer.LineStartByte(i)
		end := e.Buffer.Len()
		if i+1 < e.Buffer.LineCount() {
			end = e.Buffer.LineStartByte(i + 1)
		}
		if e.cursor >= start && (e.cursor < end || i+1 == e.Buffer.LineCount()) {
			return i
		}
	}
	return 0
}

func trimLineTerminator(line string) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}
