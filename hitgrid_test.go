package opentui

import "testing"

func TestHitGridNew(t *testing.T) {
	g := NewHitGrid(80, 24)
	w, h := g.Size()
	if w != 80 || h != 24 {
		t.Errorf("size = %dx%d, want 80x24", w, h)
	}
}

func TestHitGridDefault(t *testing.T) {
	g := DefaultHitGrid()
	w, h := g.Size()
	if w != 80 || h != 24 {
		t.Errorf("size = %dx%d, want 80x24", w, h)
	}
}

func TestHitGridBasic(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(10, 10, 20, 10, 42)

	if id, ok := g.Test(15, 15); !ok || id != 42 {
		t.Errorf("Test(15,15) = %d,%v, want 42,true", id, ok)
	}
	if id, ok := g.Test(29, 19); !ok || id != 42 {
		t.Errorf("Test(29,19) = %d,%v, want 42,true", id, ok)
	}
	if _, ok := g.Test(30, 20); ok {
		t.Error("Test(30,20) should miss")
	}
	if _, ok := g.Test(5, 5); ok {
		t.Error("Test(5,5) should miss")
	}
}

func TestHitGridSingleCell(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(50, 25, 1, 1, 100)

	if id, ok := g.Test(50, 25); !ok || id != 100 {
		t.Errorf("Test(50,25) = %d,%v, want 100,true", id, ok)
	}
	for _, p := range [][2]uint32{{49, 25}, {51, 25}, {50, 24}, {50, 26}} {
		if _, ok := g.Test(p[0], p[1]); ok {
			t.Errorf("Test(%d,%d) should miss", p[0], p[1])
		}
	}
}

func TestHitGridOverlap(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(0, 0, 20, 20, 1)
	g.Register(10, 10, 20, 20, 2)

	if id, _ := g.Test(5, 5); id != 1 {
		t.Errorf("Test(5,5) = %d, want 1", id)
	}
	if id, _ := g.Test(15, 15); id != 2 {
		t.Errorf("Test(15,15) = %d, want 2", id)
	}
}

func TestHitGridNestedRegions(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(0, 0, 30, 30, 1)
	g.Register(10, 10, 10, 10, 2)

	if id, _ := g.Test(5, 5); id != 1 {
		t.Errorf("outer = %d, want 1", id)
	}
	if id, _ := g.Test(15, 15); id != 2 {
		t.Errorf("inner = %d, want 2", id)
	}
	if id, _ := g.Test(25, 25); id != 1 {
		t.Errorf("outer = %d, want 1", id)
	}
}

func TestHitGridClear(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(0, 0, 50, 50, 1)
	if id, _ := g.Test(25, 25); id != 1 {
		t.Fatal("expected registered before clear")
	}
	g.Clear()
	if _, ok := g.Test(25, 25); ok {
		t.Error("expected miss after clear")
	}
}

func TestHitGridBounds(t *testing.T) {
	g := NewHitGrid(100, 50)
	if _, ok := g.Test(100, 50); ok {
		t.Error("Test(100,50) should miss")
	}
	if _, ok := g.Test(1000, 1000); ok {
		t.Error("Test(1000,1000) should miss")
	}
}

func TestHitGridRegisterExtendsBeyond(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(90, 40, 20, 20, 1)

	if id, ok := g.Test(95, 45); !ok || id != 1 {
		t.Errorf("Test(95,45) = %d,%v, want 1,true", id, ok)
	}
	if id, ok := g.Test(99, 49); !ok || id != 1 {
		t.Errorf("Test(99,49) = %d,%v, want 1,true", id, ok)
	}
	if _, ok := g.Test(100, 50); ok {
		t.Error("Test(100,50) should miss")
	}
}

func TestHitGridRegisterCompletelyOutOfBounds(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(200, 200, 10, 10, 1)
	if _, ok := g.Test(200, 200); ok {
		t.Error("should not register anything")
	}
}

func TestHitGridResizeClears(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(0, 0, 50, 50, 1)
	g.Resize(80, 24)

	w, h := g.Size()
	if w != 80 || h != 24 {
		t.Errorf("size = %dx%d, want 80x24", w, h)
	}
	if _, ok := g.Test(25, 25); ok {
		t.Error("resize should clear")
	}
}

func TestHitGridResizeLarger(t *testing.T) {
	g := NewHitGrid(10, 10)
	g.Resize(100, 100)

	g.Register(50, 50, 10, 10, 1)
	if id, ok := g.Test(55, 55); !ok || id != 1 {
		t.Errorf("Test(55,55) = %d,%v, want 1,true", id, ok)
	}
}

func TestHitGridZeroSizeRegion(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(50, 25, 0, 0, 1)
	if _, ok := g.Test(50, 25); ok {
		t.Error("zero-size region should register nothing")
	}
}

func TestHitGridByteSize(t *testing.T) {
	g := NewHitGrid(100, 50)
	if g.ByteSize() <= 0 {
		t.Error("expected positive byte size")
	}
}

func TestHitGridBorderCells(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(10, 10, 20, 10, 1)

	for _, p := range [][2]uint32{{10, 10}, {29, 10}, {10, 19}, {29, 19}} {
		if id, ok := g.Test(p[0], p[1]); !ok || id != 1 {
			t.Errorf("Test(%d,%d) = %d,%v, want 1,true", p[0], p[1], id, ok)
		}
	}
	for _, p := range [][2]uint32{{9, 10}, {30, 10}, {10, 9}, {10, 20}} {
		if _, ok := g.Test(p[0], p[1]); ok {
			t.Errorf("Test(%d,%d) should miss", p[0], p[1])
		}
	}
}

func TestHitGridAdjacentRegions(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(0, 0, 10, 10, 1)
	g.Register(10, 0, 10, 10, 2)

	if id, _ := g.Test(9, 5); id != 1 {
		t.Errorf("Test(9,5) = %d, want 1", id)
	}
	if id, _ := g.Test(10, 5); id != 2 {
		t.Errorf("Test(10,5) = %d, want 2", id)
	}
}

func TestHitGridWidgetIDsArePreserved(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(0, 0, 5, 5, 0)
	g.Register(10, 0, 5, 5, 1)
	g.Register(20, 0, 5, 5, 4294967295)
	g.Register(30, 0, 5, 5, 12345)

	if id, ok := g.Test(2, 2); !ok || id != 0 {
		t.Errorf("Test(2,2) = %d,%v, want 0,true", id, ok)
	}
	if id, _ := g.Test(22, 2); id != 4294967295 {
		t.Errorf("Test(22,2) = %d, want max uint32", id)
	}
}

func TestHitGridRegistrationOrderMatters(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(10, 10, 20, 20, 100)
	g.Register(10, 10, 20, 20, 200)
	g.Register(10, 10, 20, 20, 300)

	if id, _ := g.Test(20, 20); id != 300 {
		t.Errorf("Test(20,20) = %d, want 300", id)
	}
}

func TestHitGridClone(t *testing.T) {
	g := NewHitGrid(100, 50)
	g.Register(10, 10, 20, 20, 42)

	clone := g.Clone()
	g.Clear()

	if _, ok := g.Test(15, 15); ok {
		t.Error("original should be cleared")
	}
	if id, ok := clone.Test(15, 15); !ok || id != 42 {
		t.Errorf("clone.Test(15,15) = %d,%v, want 42,true", id, ok)
	}
}

func TestHitGrid1x1Dimensions(t *testing.T) {
	g := NewHitGrid(1, 1)
	g.Register(0, 0, 1, 1, 99)

	if id, ok := g.Test(0, 0); !ok || id != 99 {
		t.Errorf("Test(0,0) = %d,%v, want 99,true", id, ok)
	}
	if _, ok := g.Test(1, 0); ok {
		t.Error("Test(1,0) should miss")
	}
}
