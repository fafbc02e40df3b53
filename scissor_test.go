package opentui

import "testing"

func TestClipRectContains(t *testing.T) {
	rect := NewClipRect(10, 10, 20, 20)
	if !rect.Contains(10, 10) {
		t.Error("expected (10,10) contained")
	}
	if !rect.Contains(29, 29) {
		t.Error("expected (29,29) contained")
	}
	if rect.Contains(30, 30) {
		t.Error("expected (30,30) not contained")
	}
	if rect.Contains(9, 10) {
		t.Error("expected (9,10) not contained")
	}
}

func TestClipRectIntersect(t *testing.T) {
	a := NewClipRect(0, 0, 20, 20)
	b := NewClipRect(10, 10, 20, 20)
	c, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected intersection")
	}
	if c.X != 10 || c.Y != 10 || c.Width != 10 || c.Height != 10 {
		t.Errorf("intersect = %+v, want {10,10,10,10}", c)
	}
}

func TestScissorStack(t *testing.T) {
	s := NewScissorStack()

	if !s.Contains(1000, 1000) {
		t.Error("default stack should contain everything")
	}

	s.Push(NewClipRect(0, 0, 100, 100))
	if !s.Contains(50, 50) {
		t.Error("expected (50,50) contained")
	}
	if s.Contains(150, 150) {
		t.Error("expected (150,150) not contained")
	}

	s.Push(NewClipRect(25, 25, 50, 50))
	if !s.Contains(50, 50) {
		t.Error("expected (50,50) contained after second push")
	}
	if s.Contains(10, 10) {
		t.Error("expected (10,10) not contained after second push")
	}

	s.Pop()
	if !s.Contains(10, 10) {
		t.Error("expected (10,10) contained after pop")
	}

	s.Pop()
	if !s.Contains(1000, 1000) {
		t.Error("expected everything contained after popping back to base")
	}
}
