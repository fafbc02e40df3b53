package opentui

// EditorView composes a TextBufferView with an EditBuffer, adding
// line-based vertical cursor motion (which needs the view's wrap layout)
// and viewport-follow-cursor scrolling. Like EditBuffer, it has no
// original_source grounding file — it's built from spec.md's module-table
// description as a thin wrapper over TextBufferView and EditBuffer.
type EditorView struct {
	*TextBufferView
	Edit *EditBuffer

	// preferredCol remembers the column MoveUp/MoveDown are tracking
	// across several vertical moves through lines of differing width,
	// the way most editors preserve "the column you started at" rather
	// than snapping to each line's natural end.
	preferredCol    int
	hasPreferredCol bool
}

// NewEditorView creates an editor view over edit's buffer.
func NewEditorView(edit *EditBuffer) *EditorView {
	return &EditorView{TextBufferView: NewTextBufferView(edit.Buffer), Edit: edit}
}

func (ev *EditorView) resetPreferredCol() { ev.hasPreferredCol = false }

// InsertAtCursor inserts s at the cursor, resetting the remembered column
// MoveUp/MoveDown track across vertical moves.
func (ev *EditorView) InsertAtCursor(s string) {
	ev.resetPreferredCol()
	ev.Edit.InsertAtCursor(s)
}

// DeleteBackward deletes the selection or the preceding grapheme cluster.
func (ev *EditorView) DeleteBackward() {
	ev.resetPreferredCol()
	ev.Edit.DeleteBackward()
}

// DeleteForward deletes the selection or the following grapheme cluster.
func (ev *EditorView) DeleteForward() {
	ev.resetPreferredCol()
	ev.Edit.DeleteForward()
}

// MoveLeft moves the cursor back one grapheme cluster.
func (ev *EditorView) MoveLeft(extend bool) {
	ev.resetPreferredCol()
	ev.Edit.MoveLeft(extend)
}

// MoveRight moves the cursor forward one grapheme cluster.
func (ev *EditorView) MoveRight(extend bool) {
	ev.resetPreferredCol()
	ev.Edit.MoveRight(extend)
}

// MoveUp moves the cursor to the corresponding column of the previous
// virtual line.
func (ev *EditorView) MoveUp(extend bool) {
	ev.moveVertical(-1, extend)
}

// MoveDown moves the cursor to the corresponding column of the next
// virtual line.
func (ev *EditorView) MoveDown(extend bool) {
	ev.moveVertical(1, extend)
}

func (ev *EditorView) moveVertical(delta int, extend bool) {
	col, vline, ok := ev.VisualPositionForOffset(ev.Edit.Cursor())
	if !ok {
		return
	}
	if !ev.hasPreferredCol {
		ev.preferredCol = col
		ev.hasPreferredCol = true
	} else {
		col = ev.preferredCol
	}

	target := vline + delta
	info := ev.LineInfo()
	if target < 0 || target >= info.VirtualLineCount() {
		return
	}

	ev.Edit.beginMove(extend)
	ev.Edit.cursor = ev.byteOffsetAtColumn(info, target, col)
}

// byteOffsetAtColumn walks virtual line vidx's graphemes to find the byte
// offset at or nearest to display column col, for vertical cursor motion
// across lines of differing width.
func (ev *EditorView) byteOffsetAtColumn(info LineInfo, vidx, col int) int {
	start, end, _ := info.VirtualLineByteRange(vidx)
	content := ev.Edit.Buffer.String()[start:end]
	width := 0
	offset := start
	for _, cluster := range SplitGraphemeClusters(content) {
		cw := clusterWidthWithTabs(cluster, width, ev.Edit.Buffer.TabWidth(), ev.Edit.Buffer.WidthMethod())
		if width+cw > col {
			break
		}
		width += cw
		offset += len(cluster)
	}
	return offset
}

// EnsureCursorVisible adjusts scroll so the cursor's virtual line and
// column fall within the viewport, scrolling the minimum amount needed.
func (ev *EditorView) EnsureCursorVisible() {
	col, vline, ok := ev.VisualPositionForOffset(ev.Edit.Cursor())
	if !ok {
		return
	}
	sx, sy := ev.scrollX, ev.scrollY

	if uint32(vline) < sy {
		sy = uint32(vline)
	} else if ev.viewport.Height > 0 && uint32(vline) >= sy+ev.viewport.Height {
		sy = uint32(vline) - ev.viewport.Height + 1
	}

	if uint32(col) < sx {
		sx = uint32(col)
	} else if ev.viewport.Width > 0 && uint32(col) >= sx+ev.viewport.Width {
		sx = uint32(col) - ev.viewport.Width + 1
	}

	if sx != ev.scrollX || sy != ev.scrollY {
		ev.WithScroll(sx, sy)
	}
}

// RenderTo scrolls the viewport to keep the cursor visible, syncs the
// view's selection from the edit buffer's active selection, and renders.
func (ev *EditorView) RenderTo(buf *OptimizedBuffer, pool *GraphemePool) {
	ev.EnsureCursorVisible()
	if start, end, ok := ev.Edit.SelectionRange(); ok {
		ev.SetSelection(NewSelection(start, end, StyleInverse()))
	} else {
		ev.ClearSelection()
	}
	ev.TextBufferView.RenderTo(buf, pool)
}
