package opentui

import "sort"

// CellChange is a single cell that differs between two buffers.
type CellChange struct {
	X, Y uint32
	Cell Cell
}

// CellRun is a horizontal run of consecutive changed cells on one row,
// grouped so the ANSI writer can move the cursor once and stream the whole
// run instead of repositioning per cell.
type CellRun struct {
	X, Y  uint32
	Cells []Cell
}

// DirtyRegion is a rectangle of cells that changed between two frames.
type DirtyRegion struct {
	X, Y, Width, Height uint32
}

// NewDirtyRegion builds a DirtyRegion.
func NewDirtyRegion(x, y, width, height uint32) DirtyRegion {
	return DirtyRegion{X: x, Y: y, Width: width, Height: height}
}

// CellDirtyRegion builds a single-cell DirtyRegion at (x,y).
func CellDirtyRegion(x, y uint32) DirtyRegion {
	return NewDirtyRegion(x, y, 1, 1)
}

// Merge returns the smallest DirtyRegion covering both r and other.
func (r DirtyRegion) Merge(other DirtyRegion) DirtyRegion {
	x1 := minU32(r.X, other.X)
	y1 := minU32(r.Y, other.Y)
	x2 := maxU32(r.X+r.Width, other.X+other.Width)
	y2 := maxU32(r.Y+r.Height, other.Y+other.Height)
	return NewDirtyRegion(x1, y1, x2-x1, y2-y1)
}

// BufferDiff is the result of comparing two OptimizedBuffers cell by cell:
// every individual changed cell, those cells grouped into contiguous runs
// for streaming output, and the dirty regions that bound them.
type BufferDiff struct {
	ChangedCells []CellChange
	Runs         []CellRun
	DirtyRegions []DirtyRegion
	ChangeCount  int
}

// ComputeBufferDiff compares old and new over their overlapping region, plus
// any rows or columns new is larger by (which count entirely as changed),
// and returns every difference found.
func ComputeBufferDiff(old, new *OptimizedBuffer) BufferDiff {
	oldW, oldH := old.Size()
	newW, newH := new.Size()
	width := minU32(oldW, newW)
	height := minU32(oldH, newH)

	var changed []CellChange

	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			oldCell, _ := old.Get(x, y)
			newCell, _ := new.Get(x, y)
			if oldCell != newCell {
				changed = append(changed, CellChange{X: x, Y: y, Cell: newCell})
			}
		}
	}

	for y := height; y < newH; y++ {
		for x := uint32(0); x < newW; x++ {
			cell, _ := new.Get(x, y)
			changed = append(changed, CellChange{X: x, Y: y, Cell: cell})
		}
	}

	for y := uint32(0); y < height; y++ {
		for x := width; x < newW; x++ {
			cell, _ := new.Get(x, y)
			changed = append(changed, CellChange{X: x, Y: y, Cell: cell})
		}
	}

	return BufferDiff{
		ChangedCells: changed,
		Runs:         FindRuns(changed),
		DirtyRegions: mergeIntoRegions(changed),
		ChangeCount:  len(changed),
	}
}

// IsEmpty reports whether the diff found no changes.
func (d BufferDiff) IsEmpty() bool {
	return len(d.ChangedCells) == 0
}

// ShouldFullRedraw reports whether, given totalCells in the buffer, a full
// redraw would likely be cheaper than emitting this diff's changes
// individually — true once more than half the buffer changed.
func (d BufferDiff) ShouldFullRedraw(totalCells int) bool {
	return d.ChangeCount > totalCells/2
}

// GroupChangesByRow groups changes by row, each row's changes sorted by x.
func GroupChangesByRow(changes []CellChange) map[uint32][]CellChange {
	byRow := make(map[uint32][]CellChange)
	for _, change := range changes {
		byRow[change.Y] = append(byRow[change.Y], change)
	}
	for _, row := range byRow {
		sort.Slice(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})
	}
	return byRow
}

// FindRuns groups changes into CellRuns of consecutive x positions per row,
// in ascending row then column order.
func FindRuns(changes []CellChange) []CellRun {
	if len(changes) == 0 {
		return nil
	}

	byRow := GroupChangesByRow(changes)
	runs := make([]CellRun, 0, len(changes)/4+1)

	rows := make([]uint32, 0, len(byRow))
	for y := range byRow {
		rows = append(rows, y)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i] < rows[j] })

	for _, y := range rows {
		var current *CellRun
		for _, change := range byRow[y] {
			if current != nil && change.X == current.X+uint32(len(current.Cells)) {
				current.Cells = append(current.Cells, change.Cell)
			} else {
				if current != nil {
					runs = append(runs, *current)
				}
				current = &CellRun{X: change.X, Y: y, Cells: []Cell{change.Cell}}
			}
		}
		if current != nil {
			runs = append(runs, *current)
		}
	}

	return runs
}

// mergeIntoRegions groups changed cells into one DirtyRegion per contiguous
// run within a row. Cells must already be in row-major (y then x) order,
// which ComputeBufferDiff's scan order guarantees for the overlapping
// region (the appended taller/wider edges stay correctly grouped since each
// edge loop is itself row-major).
func mergeIntoRegions(cells []CellChange) []DirtyRegion {
	if len(cells) == 0 {
		return nil
	}

	var regions []DirtyRegion
	haveRow := false
	var currentRow, rowStart, rowEnd uint32

	for _, c := range cells {
		if haveRow && c.Y == currentRow && c.X == rowEnd+1 {
			rowEnd = c.X
		} else {
			if haveRow {
				regions = append(regions, NewDirtyRegion(rowStart, currentRow, rowEnd-rowStart+1, 1))
			}
			haveRow = true
			currentRow = c.Y
			rowStart = c.X
			rowEnd = c.X
		}
	}

	if haveRow {
		regions = append(regions, NewDirtyRegion(rowStart, currentRow, rowEnd-rowStart+1, 1))
	}
	return regions
}
