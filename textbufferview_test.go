package opentui

import "testing"

func TestViewNoWrapSingleVirtualLinePerSourceLine(t *testing.T) {
	b := NewTextBufferWithText("one\ntwo\nthree")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 80, Height: 10})
	if got := v.VirtualLineCount(); got != 3 {
		t.Fatalf("VirtualLineCount() = %d, want 3", got)
	}
}

func TestViewCharWrapBreaksAtWidth(t *testing.T) {
	b := NewTextBufferWithText("abcdefgh")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 3, Height: 10}).WithWrapMode(WrapChar)
	info := v.LineInfo()
	if info.VirtualLineCount() != 3 {
		t.Fatalf("VirtualLineCount() = %d, want 3 (3+3+2)", info.VirtualLineCount())
	}
	start, end, _ := info.VirtualLineByteRange(0)
	if end-start != 3 {
		t.Errorf("first virtual line length = %d, want 3", end-start)
	}
}

func TestViewWordWrapBreaksAtWhitespace(t *testing.T) {
	b := NewTextBufferWithText("hello there world")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 8, Height: 10}).WithWrapMode(WrapWord)
	info := v.LineInfo()
	if info.VirtualLineCount() < 2 {
		t.Fatalf("expected content to wrap into multiple lines, got %d", info.VirtualLineCount())
	}
	start, end, _ := info.VirtualLineByteRange(0)
	first := b.String()[start:end]
	if first != "hello" {
		t.Errorf("first wrapped line = %q, want %q (break at whitespace, not mid-word)", first, "hello")
	}
}

func TestViewWordWrapFallsBackToCharBreakWithNoWhitespace(t *testing.T) {
	b := NewTextBufferWithText("abcdefghij")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 4, Height: 10}).WithWrapMode(WrapWord)
	info := v.LineInfo()
	if info.VirtualLineCount() < 2 {
		t.Fatalf("expected a char-mode fallback break, got %d virtual lines", info.VirtualLineCount())
	}
}

func TestViewEmptyLineProducesZeroWidthVirtualLine(t *testing.T) {
	b := NewTextBufferWithText("a\n\nb")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 80, Height: 10}).WithWrapMode(WrapWord)
	info := v.LineInfo()
	if info.VirtualLineCount() != 3 {
		t.Fatalf("VirtualLineCount() = %d, want 3", info.VirtualLineCount())
	}
	if w := info.VirtualLineWidth(1); w != 0 {
		t.Errorf("middle (empty) line width = %d, want 0", w)
	}
}

func TestViewLineCacheInvalidatesOnRevisionChange(t *testing.T) {
	b := NewTextBufferWithText("ab")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 80, Height: 10})
	_ = v.VirtualLineCount()
	b.Insert(2, "\ncd")
	if got := v.VirtualLineCount(); got != 2 {
		t.Errorf("VirtualLineCount() after insert = %d, want 2 (cache should have invalidated)", got)
	}
}

func TestViewSelectionNormalizedHandlesReversedRange(t *testing.T) {
	sel := NewSelection(5, 2, NoStyle)
	start, end := sel.Normalized()
	if start != 2 || end != 5 {
		t.Errorf("Normalized() = (%d,%d), want (2,5)", start, end)
	}
}

func TestViewSelectionContains(t *testing.T) {
	sel := NewSelection(2, 5, NoStyle)
	if !sel.Contains(3) || sel.Contains(5) || sel.Contains(1) {
		t.Errorf("Contains boundary behavior incorrect")
	}
}

func TestViewSelectedText(t *testing.T) {
	b := NewTextBufferWithText("hello world")
	v := NewTextBufferView(b)
	v.SetSelection(NewSelection(6, 11, NoStyle))
	text, ok := v.SelectedText()
	if !ok || text != "world" {
		t.Errorf("SelectedText() = %q, %v, want %q", text, ok, "world")
	}
}

func TestViewLocalSelectionNormalized(t *testing.T) {
	ls := NewLocalSelection(5, 2, 1, 0, NoStyle)
	minX, minY, maxX, maxY := ls.Normalized()
	if minX != 1 || minY != 0 || maxX != 5 || maxY != 2 {
		t.Errorf("Normalized() = (%d,%d,%d,%d), want (1,0,5,2)", minX, minY, maxX, maxY)
	}
}

func TestViewRenderToDrawsIntoBuffer(t *testing.T) {
	b := NewTextBufferWithText("hi")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 4, Height: 1})
	buf := NewOptimizedBuffer(4, 1)
	pool := NewGraphemePool()
	v.RenderTo(buf, pool)

	cell, _ := buf.Get(0, 0)
	r, ok := cell.Content.AsChar()
	if !ok || r != 'h' {
		t.Errorf("cell(0,0) = %+v, want 'h'", cell)
	}
	cell, _ = buf.Get(1, 0)
	r, ok = cell.Content.AsChar()
	if !ok || r != 'i' {
		t.Errorf("cell(1,0) = %+v, want 'i'", cell)
	}
}

func TestViewTabExpansionWidth(t *testing.T) {
	b := NewTextBufferWithText("a\tb")
	b.SetTabWidth(4)
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 10, Height: 1})
	buf := NewOptimizedBuffer(10, 1)
	pool := NewGraphemePool()
	v.RenderTo(buf, pool)

	cell, _ := buf.Get(4, 0)
	r, ok := cell.Content.AsChar()
	if !ok || r != 'b' {
		t.Errorf("cell(4,0) = %+v, want 'b' (tab expands 'a' at col 0 to width 4)", cell)
	}
}

func TestViewTruncateAddsEllipsis(t *testing.T) {
	b := NewTextBufferWithText("abcdefgh")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 4, Height: 1}).WithTruncate(true)
	buf := NewOptimizedBuffer(4, 1)
	pool := NewGraphemePool()
	v.RenderTo(buf, pool)

	cell, _ := buf.Get(3, 0)
	r, _ := cell.Content.AsChar()
	if r != '…' {
		t.Errorf("last cell = %q, want ellipsis", r)
	}
}

func TestViewMeasureForDimensionsDoesNotMutateCache(t *testing.T) {
	b := NewTextBufferWithText("abcdefgh")
	v := NewTextBufferView(b).WithViewport(Viewport{Width: 80, Height: 10})
	measure := v.MeasureForDimensions(4)
	if measure.LineCount != 1 {
		t.Errorf("MeasureForDimensions with WrapNone ignores width, LineCount = %d, want 1", measure.LineCount)
	}
	if got := v.VirtualLineCount(); got != 1 {
		t.Errorf("view's own layout should be unaffected by MeasureForDimensions, got %d", got)
	}
}
