package opentui

// HitGrid maps screen positions to widget IDs for mouse hit testing. Later
// registrations overwrite earlier ones in overlapping areas.
type HitGrid struct {
	width, height uint32
	cells         []uint32
	set           []bool
}

// NewHitGrid creates a hit grid with the given dimensions. If width*height
// overflows uint32 the grid has no storage and every lookup misses.
func NewHitGrid(width, height uint32) *HitGrid {
	size, ok := checkedMulU32(width, height)
	if !ok {
		size = 0
	}
	return &HitGrid{
		width:  width,
		height: height,
		cells:  make([]uint32, size),
		set:    make([]bool, size),
	}
}

// DefaultHitGrid returns an 80x24 hit grid.
func DefaultHitGrid() *HitGrid {
	return NewHitGrid(80, 24)
}

func (g *HitGrid) cellIndex(x, y uint32) (int, bool) {
	if x >= g.width || y >= g.height {
		return 0, false
	}
	idx := int(y)*int(g.width) + int(x)
	if idx >= len(g.cells) {
		return 0, false
	}
	return idx, true
}

// Clear removes all registered hit areas.
func (g *HitGrid) Clear() {
	for i := range g.set {
		g.set[i] = false
	}
}

// Register marks the width x height rectangle at (x,y) as belonging to id,
// clipped to the grid's bounds. A zero-size rectangle registers nothing.
func (g *HitGrid) Register(x, y, width, height, id uint32) {
	rowEnd := minU32(saturatingAddU32(y, height), g.height)
	colEnd := minU32(saturatingAddU32(x, width), g.width)
	for row := y; row < rowEnd; row++ {
		for col := x; col < colEnd; col++ {
			if idx, ok := g.cellIndex(col, row); ok {
				g.cells[idx] = id
				g.set[idx] = true
			}
		}
	}
}

// Test returns the id registered at (x,y), if any.
func (g *HitGrid) Test(x, y uint32) (uint32, bool) {
	idx, ok := g.cellIndex(x, y)
	if !ok || !g.set[idx] {
		return 0, false
	}
	return g.cells[idx], true
}

// Resize changes the grid's dimensions, clearing all hit areas.
func (g *HitGrid) Resize(width, height uint32) {
	size, ok := checkedMulU32(width, height)
	if !ok {
		size = 0
	}
	g.width = width
	g.height = height
	g.cells = make([]uint32, size)
	g.set = make([]bool, size)
}

// Size returns the grid's dimensions.
func (g *HitGrid) Size() (uint32, uint32) {
	return g.width, g.height
}

// ByteSize estimates the grid's storage footprint in bytes.
func (g *HitGrid) ByteSize() int {
	return len(g.cells)*4 + len(g.set)
}

// Clone returns an independent copy of the grid.
func (g *HitGrid) Clone() *HitGrid {
	clone := &HitGrid{
		width:  g.width,
		height: g.height,
		cells:  make([]uint32, len(g.cells)),
		set:    make([]bool, len(g.set)),
	}
	copy(clone.cells, g.cells)
	copy(clone.set, g.set)
	return clone
}
