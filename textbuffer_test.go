package opentui

import "testing"

func TestTextBufferInsertAndString(t *testing.T) {
	b := NewTextBuffer()
	b.Insert(0, "hello")
	b.Insert(5, " world")
	if got := b.String(); got != "hello world" {
		t.Errorf("String() = %q, want %q", got, "hello world")
	}
	if b.Revision() != 2 {
		t.Errorf("Revision() = %d, want 2", b.Revision())
	}
}

func TestTextBufferDeleteShrinksOverlappingSegment(t *testing.T) {
	b := NewTextBufferWithText("hello world")
	b.AddSegment(NewStyledSegment(0, 11, StyleBold()))
	b.Delete(5, 11)
	if b.String() != "hello" {
		t.Fatalf("String() = %q, want %q", b.String(), "hello")
	}
	segs := b.Segments()
	if len(segs) != 1 || segs[0].Start != 0 || segs[0].End != 5 {
		t.Errorf("segment not shrunk correctly: %+v", segs)
	}
}

func TestTextBufferDeleteDropsFullyCoveredSegment(t *testing.T) {
	b := NewTextBufferWithText("hello world")
	b.AddSegment(NewStyledSegment(0, 5, StyleBold()))
	b.Delete(0, 5)
	if len(b.Segments()) != 0 {
		t.Errorf("expected segment to be dropped, got %+v", b.Segments())
	}
}

func TestTextBufferInsertShiftsLaterSegments(t *testing.T) {
	b := NewTextBufferWithText("hello world")
	b.AddSegment(NewStyledSegment(6, 11, StyleBold()))
	b.Insert(0, "say ")
	segs := b.Segments()
	if segs[0].Start != 10 || segs[0].End != 15 {
		t.Errorf("segment not shifted: %+v", segs)
	}
}

func TestTextBufferReplace(t *testing.T) {
	b := NewTextBufferWithText("hello world")
	b.Replace(0, 5, "goodbye")
	if b.String() != "goodbye world" {
		t.Errorf("String() = %q", b.String())
	}
}

func TestTextBufferStyleAtMergesByPriority(t *testing.T) {
	b := NewTextBuffer()
	b.Insert(0, "hello")
	b.AddSegment(NewStyledSegment(0, 5, StyleFg(Red)).WithPriority(1))
	b.AddSegment(NewStyledSegment(0, 5, StyleFg(Blue)).WithPriority(2))

	style := b.StyleAt(2)
	if style.Fg == nil || *style.Fg != Blue {
		t.Errorf("StyleAt = %+v, want fg=blue (higher priority wins)", style)
	}
}

func TestTextBufferStyleAtDefaultWhenNoSegment(t *testing.T) {
	b := NewTextBuffer()
	b.Insert(0, "hi")
	b.SetDefaultStyle(StyleFg(Green))
	style := b.StyleAt(0)
	if style.Fg == nil || *style.Fg != Green {
		t.Errorf("StyleAt = %+v, want default fg=green", style)
	}
}

func TestTextBufferRemoveSegmentsByRef(t *testing.T) {
	b := NewTextBufferWithText("hello world")
	b.AddSegment(NewStyledSegment(0, 5, StyleBold()).WithRef(7))
	b.AddSegment(NewStyledSegment(6, 11, StyleItalic()).WithRef(9))
	b.RemoveSegmentsByRef(7)
	segs := b.Segments()
	if len(segs) != 1 || segs[0].Start != 6 {
		t.Errorf("expected only ref=9 segment left, got %+v", segs)
	}
}

func TestTextBufferLineCountAndLine(t *testing.T) {
	b := NewTextBufferWithText("one\ntwo\nthree")
	if b.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", b.LineCount())
	}
	line0, _ := b.Line(0)
	if line0 != "one\n" {
		t.Errorf("Line(0) = %q, want %q", line0, "one\n")
	}
	line2, _ := b.Line(2)
	if line2 != "three" {
		t.Errorf("Line(2) = %q, want %q", line2, "three")
	}
}

func TestTextBufferEmptyBufferHasOneLine(t *testing.T) {
	b := NewTextBuffer()
	if b.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", b.LineCount())
	}
	line, ok := b.Line(0)
	if !ok || line != "" {
		t.Errorf("Line(0) = %q, %v, want empty line", line, ok)
	}
}

func TestTextBufferLineStartByte(t *testing.T) {
	b := NewTextBufferWithText("ab\ncd\nef")
	if got := b.LineStartByte(1); got != 3 {
		t.Errorf("LineStartByte(1) = %d, want 3", got)
	}
	if got := b.LineStartByte(2); got != 6 {
		t.Errorf("LineStartByte(2) = %d, want 6", got)
	}
}

func TestNewTextBufferFromChunks(t *testing.T) {
	b := NewTextBufferFromChunks([]StyledChunk{
		PlainChunk("plain "),
		{Text: "bold", Style: StyleBold()},
	})
	if b.String() != "plain bold" {
		t.Fatalf("String() = %q", b.String())
	}
	segs := b.Segments()
	if len(segs) != 1 || segs[0].Start != 6 || segs[0].End != 10 {
		t.Errorf("segments = %+v, want one segment for the bold chunk", segs)
	}
}

func TestStyledSegmentOverlapAndContains(t *testing.T) {
	a := NewStyledSegment(0, 5, NoStyle)
	b := NewStyledSegment(3, 8, NoStyle)
	c := NewStyledSegment(5, 8, NoStyle)
	if !a.Overlaps(b) {
		t.Error("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Error("expected a and c not to overlap (adjacent, not overlapping)")
	}
	if !a.Contains(4) || a.Contains(5) {
		t.Errorf("Contains boundary check failed")
	}
}
