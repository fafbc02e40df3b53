package opentui

import "testing"

func TestEditBufferInsertAdvancesCursor(t *testing.T) {
	e := NewEditBuffer()
	e.InsertAtCursor("hi")
	if e.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", e.Cursor())
	}
	if e.Buffer.String() != "hi" {
		t.Errorf("String() = %q", e.Buffer.String())
	}
}

func TestEditBufferDeleteBackward(t *testing.T) {
	e := NewEditBufferWithText("hello")
	e.DeleteBackward()
	if e.Buffer.String() != "hell" || e.Cursor() != 4 {
		t.Errorf("got %q cursor=%d, want %q cursor=4", e.Buffer.String(), e.Cursor(), "hell")
	}
}

func TestEditBufferDeleteBackwardAtStartIsNoop(t *testing.T) {
	e := NewEditBufferWithText("hello")
	e.SetCursor(0)
	e.DeleteBackward()
	if e.Buffer.String() != "hello" || e.Cursor() != 0 {
		t.Errorf("expected no-op at start, got %q cursor=%d", e.Buffer.String(), e.Cursor())
	}
}

func TestEditBufferDeleteForward(t *testing.T) {
	e := NewEditBufferWithText("hello")
	e.SetCursor(0)
	e.DeleteForward()
	if e.Buffer.String() != "ello" {
		t.Errorf("got %q, want %q", e.Buffer.String(), "ello")
	}
}

func TestEditBufferMoveLeftRight(t *testing.T) {
	e := NewEditBufferWithText("abc")
	e.SetCursor(3)
	e.MoveLeft(false)
	if e.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2", e.Cursor())
	}
	e.MoveRight(false)
	if e.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3", e.Cursor())
	}
}

func TestEditBufferSelectionViaExtendMove(t *testing.T) {
	e := NewEditBufferWithText("abcdef")
	e.SetCursor(1)
	e.MoveRight(true)
	e.MoveRight(true)
	start, end, ok := e.SelectionRange()
	if !ok || start != 1 || end != 3 {
		t.Errorf("SelectionRange() = (%d,%d,%v), want (1,3,true)", start, end, ok)
	}
}

func TestEditBufferInsertReplacesSelection(t *testing.T) {
	e := NewEditBufferWithText("hello world")
	e.SetCursor(0)
	e.MoveRight(true)
	e.MoveRight(true)
	e.MoveRight(true)
	e.MoveRight(true)
	e.MoveRight(true)
	e.InsertAtCursor("HOWDY")
	if e.Buffer.String() != "HOWDY world" {
		t.Errorf("got %q, want %q", e.Buffer.String(), "HOWDY world")
	}
	if e.HasSelection() {
		t.Error("selection should be cleared after insert")
	}
}

func TestEditBufferMoveToLineStartAndEnd(t *testing.T) {
	e := NewEditBufferWithText("one\ntwo\nthree")
	e.SetCursor(5) // inside "two"
	e.MoveToLineStart(false)
	if e.Cursor() != 4 {
		t.Errorf("MoveToLineStart: cursor = %d, want 4", e.Cursor())
	}
	e.MoveToLineEnd(false)
	if e.Cursor() != 7 {
		t.Errorf("MoveToLineEnd: cursor = %d, want 7", e.Cursor())
	}
}

func TestEditBufferMoveRightAtEndIsNoop(t *testing.T) {
	e := NewEditBufferWithText("ab")
	e.SetCursor(2)
	e.MoveRight(false)
	if e.Cursor() != 2 {
		t.Errorf("Cursor() = %d, want 2 (no-op at end)", e.Cursor())
	}
}

func TestEditBufferSetCursorClearsSelection(t *testing.T) {
	e := NewEditBufferWithText("abcdef")
	e.StartSelection()
	e.SetCursor(3)
	if e.HasSelection() {
		t.Error("SetCursor should clear any active selection")
	}
}
