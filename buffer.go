package opentui

import "unsafe"

// OptimizedBuffer is a 2-D grid of Cells supporting scissor clipping,
// opacity stacking, and Porter-Duff alpha compositing. It is the primary
// drawing surface: everything the renderer diffs and emits to the terminal
// passes through one of these.
type OptimizedBuffer struct {
	width, height uint32
	cells         []Cell

	scissorStack *ScissorStack
	opacityStack *OpacityStack

	id           string
	respectAlpha bool
}

// NewOptimizedBuffer creates a buffer of the given dimensions, cleared to
// fully transparent.
func NewOptimizedBuffer(width, height uint32) *OptimizedBuffer {
	size := int(width) * int(height)
	cells := make([]Cell, size)
	clear := ClearCell(Transparent)
	for i := range cells {
		cells[i] = clear
	}
	return &OptimizedBuffer{
		width:        width,
		height:       height,
		cells:        cells,
		scissorStack: NewScissorStack(),
		opacityStack: NewOpacityStack(),
		respectAlpha: true,
	}
}

// WithID sets the buffer's debug/identification name and returns it.
func (b *OptimizedBuffer) WithID(id string) *OptimizedBuffer {
	b.id = id
	return b
}

// Size returns the buffer's width and height.
func (b *OptimizedBuffer) Size() (uint32, uint32) {
	return b.width, b.height
}

// Width returns the buffer width in cells.
func (b *OptimizedBuffer) Width() uint32 { return b.width }

// Height returns the buffer height in cells.
func (b *OptimizedBuffer) Height() uint32 { return b.height }

// ID returns the buffer's debug name.
func (b *OptimizedBuffer) ID() string { return b.id }

// ByteSize estimates the buffer's cell storage footprint in bytes.
func (b *OptimizedBuffer) ByteSize() int {
	return len(b.cells) * int(unsafe.Sizeof(Cell{}))
}

func (b *OptimizedBuffer) index(x, y uint32) int {
	return int(y*b.width + x)
}

// Get returns the cell at (x,y) and true, or the zero Cell and false if
// out of bounds.
func (b *OptimizedBuffer) Get(x, y uint32) (Cell, bool) {
	if x >= b.width || y >= b.height {
		return Cell{}, false
	}
	return b.cells[b.index(x, y)], true
}

func (b *OptimizedBuffer) isVisible(x, y uint32) bool {
	if x >= b.width || y >= b.height {
		return false
	}
	return b.scissorStack.Contains(int32(x), int32(y))
}

// Set overwrites the cell at (x,y), respecting the scissor and opacity
// stacks. Out-of-scissor or out-of-bounds writes are silently dropped.
func (b *OptimizedBuffer) Set(x, y uint32, cell Cell) {
	if !b.isVisible(x, y) {
		return
	}
	if opacity := b.opacityStack.Current(); opacity < 1.0 {
		cell.BlendWithOpacity(opacity)
	}
	b.cells[b.index(x, y)] = cell
}

// SetWithPool overwrites the cell at (x,y) like Set, additionally
// decref-ing the grapheme pool slot of whatever content is being replaced
// (and, for a same-id overwrite, canceling the extra incref the caller's
// intern/allocation path already applied).
func (b *OptimizedBuffer) SetWithPool(pool *GraphemePool, x, y uint32, cell Cell) {
	if !b.isVisible(x, y) {
		return
	}
	if opacity := b.opacityStack.Current(); opacity < 1.0 {
		cell.BlendWithOpacity(opacity)
	}

	idx := b.index(x, y)
	oldContent := b.cells[idx].Content
	newContent := cell.Content

	if oldContent != newContent {
		if id, ok := oldContent.GraphemeID(); ok && id.PoolID() != 0 {
			pool.Decref(id)
		}
	} else if id, ok := newContent.GraphemeID(); ok && id.PoolID() != 0 {
		pool.Decref(id)
	}

	b.cells[idx] = cell
}

// SetBlended composites cell over the existing cell at (x,y) using
// Porter-Duff "over" (or replaces it outright if RespectAlpha is false).
func (b *OptimizedBuffer) SetBlended(x, y uint32, cell Cell) {
	if !b.isVisible(x, y) {
		return
	}
	if opacity := b.opacityStack.Current(); opacity < 1.0 {
		cell.BlendWithOpacity(opacity)
	}

	idx := b.index(x, y)
	if b.respectAlpha {
		b.cells[idx] = cell.BlendOver(b.cells[idx])
	} else {
		b.cells[idx] = cell
	}
}

// SetBlendedWithPool composites like SetBlended while keeping grapheme
// pool refcounts consistent with the resulting (post-blend) content.
func (b *OptimizedBuffer) SetBlendedWithPool(pool *GraphemePool, x, y uint32, cell Cell) {
	if !b.isVisible(x, y) {
		return
	}
	if opacity := b.opacityStack.Current(); opacity < 1.0 {
		cell.BlendWithOpacity(opacity)
	}

	idx := b.index(x, y)
	oldContent := b.cells[idx].Content
	incomingContent := cell.Content

	newCell := cell
	if b.respectAlpha {
		newCell = cell.BlendOver(b.cells[idx])
	}
	newContent := newCell.Content
	newFromInput := !b.respectAlpha || !incomingContent.IsEmpty()

	if oldContent != newContent {
		if id, ok := oldContent.GraphemeID(); ok && id.PoolID() != 0 {
			pool.Decref(id)
		}
	} else if newFromInput {
		if id, ok := newContent.GraphemeID(); ok && id.PoolID() != 0 {
			pool.Decref(id)
		}
	}

	b.cells[idx] = newCell
}

// Clear unconditionally fills every cell with a cleared cell of the given
// background, bypassing the scissor stack — used for frame initialization.
func (b *OptimizedBuffer) Clear(bg Rgba) {
	clear := ClearCell(bg)
	for i := range b.cells {
		b.cells[i] = clear
	}
}

// ClearWithPool clears like Clear, decref-ing any grapheme content being
// overwritten first.
func (b *OptimizedBuffer) ClearWithPool(pool *GraphemePool, bg Rgba) {
	clear := ClearCell(bg)
	for i := range b.cells {
		if id, ok := b.cells[i].Content.GraphemeID(); ok && id.PoolID() != 0 {
			pool.Decref(id)
		}
		b.cells[i] = clear
	}
}

func (b *OptimizedBuffer) clippedFillBounds(x, y, w, h uint32) (x0, y0, x1, y1 uint32, ok bool) {
	if w == 0 || h == 0 || b.width == 0 || b.height == 0 {
		return 0, 0, 0, 0, false
	}

	x0 = minU32(x, b.width)
	y0 = minU32(y, b.height)
	x1 = minU32(saturatingAddU32(x, w), b.width)
	y1 = minU32(saturatingAddU32(y, h), b.height)
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0, 0, false
	}

	scissor := b.scissorStack.Current()
	if scissor.IsEmpty() {
		return 0, 0, 0, 0, false
	}

	scissorStartX := uint32(max32(scissor.X, 0))
	scissorStartY := uint32(max32(scissor.Y, 0))
	scissorEndX := uint32(max32(saturatingAddUnsigned(scissor.X, scissor.Width), 0))
	scissorEndY := uint32(max32(saturatingAddUnsigned(scissor.Y, scissor.Height), 0))

	x0 = maxU32(x0, scissorStartX)
	y0 = maxU32(y0, scissorStartY)
	x1 = minU32(x1, scissorEndX)
	y1 = minU32(y1, scissorEndY)
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func saturatingAddU32(a, b uint32) uint32 {
	sum := a + b
	if sum < a {
		return ^uint32(0)
	}
	return sum
}

// FillRect fills the rectangle [x,y,x+w,y+h), clipped by the buffer bounds
// and current scissor, with bg. Uses a fast per-row fill for opaque fills
// and a per-cell alpha-composite loop for transparent ones.
func (b *OptimizedBuffer) FillRect(x, y, w, h uint32, bg Rgba) {
	x0, y0, x1, y1, ok := b.clippedFillBounds(x, y, w, h)
	if !ok {
		return
	}

	opacity := b.opacityStack.Current()
	needsBlend := opacity < 1.0 || !bg.IsOpaque()
	cell := ClearCell(bg)
	if opacity < 1.0 {
		cell.BlendWithOpacity(opacity)
	}

	rowWidth := int(b.width)
	if !needsBlend || !b.respectAlpha {
		for row := y0; row < y1; row++ {
			rowStart := int(row) * rowWidth
			for col := x0; col < x1; col++ {
				b.cells[rowStart+int(col)] = cell
			}
		}
		return
	}

	for row := y0; row < y1; row++ {
		rowStart := int(row) * rowWidth
		for col := x0; col < x1; col++ {
			idx := rowStart + int(col)
			b.cells[idx] = cell.BlendOver(b.cells[idx])
		}
	}
}

// FillRectWithPool fills like FillRect while decref-ing any grapheme
// content overwritten along the way.
func (b *OptimizedBuffer) FillRectWithPool(pool *GraphemePool, x, y, w, h uint32, bg Rgba) {
	x0, y0, x1, y1, ok := b.clippedFillBounds(x, y, w, h)
	if !ok {
		return
	}

	opacity := b.opacityStack.Current()
	needsBlend := opacity < 1.0 || !bg.IsOpaque()
	cell := ClearCell(bg)
	if opacity < 1.0 {
		cell.BlendWithOpacity(opacity)
	}

	rowWidth := int(b.width)
	if !needsBlend || !b.respectAlpha {
		for row := y0; row < y1; row++ {
			rowStart := int(row) * rowWidth
			for col := x0; col < x1; col++ {
				idx := rowStart + int(col)
				if id, ok := b.cells[idx].Content.GraphemeID(); ok && id.PoolID() != 0 {
					pool.Decref(id)
				}
				b.cells[idx] = cell
			}
		}
		return
	}

	for row := y0; row < y1; row++ {
		rowStart := int(row) * rowWidth
		for col := x0; col < x1; col++ {
			idx := rowStart + int(col)
			oldContent := b.cells[idx].Content
			newCell := cell.BlendOver(b.cells[idx])
			if oldContent != newCell.Content {
				if id, ok := oldContent.GraphemeID(); ok && id.PoolID() != 0 {
					pool.Decref(id)
				}
			}
			b.cells[idx] = newCell
		}
	}
}

// PushScissor intersects rect with the current scissor region.
func (b *OptimizedBuffer) PushScissor(rect ClipRect) { b.scissorStack.Push(rect) }

// PopScissor restores the previous scissor region.
func (b *OptimizedBuffer) PopScissor() { b.scissorStack.Pop() }

// ClearScissors empties the scissor stack.
func (b *OptimizedBuffer) ClearScissors() { b.scissorStack.Clear() }

// PushOpacity multiplies opacity into the running product.
func (b *OptimizedBuffer) PushOpacity(opacity float32) { b.opacityStack.Push(opacity) }

// PopOpacity restores the previous opacity value.
func (b *OptimizedBuffer) PopOpacity() { b.opacityStack.Pop() }

// CurrentOpacity returns the current combined opacity.
func (b *OptimizedBuffer) CurrentOpacity() float32 { return b.opacityStack.Current() }

// DrawBuffer blits the entirety of src onto b at (x,y), respecting alpha.
func (b *OptimizedBuffer) DrawBuffer(x, y int32, src *OptimizedBuffer) {
	b.DrawBufferRegion(x, y, src, 0, 0, src.width, src.height, true)
}

// DrawBufferWithPool blits like DrawBuffer while incref/decref-ing
// grapheme references as described by DrawBufferRegionWithPool.
func (b *OptimizedBuffer) DrawBufferWithPool(pool *GraphemePool, x, y int32, src *OptimizedBuffer) {
	b.DrawBufferRegionWithPool(pool, x, y, src, 0, 0, src.width, src.height, true)
}

func satSubU32(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

// DrawBufferRegion blits the [srcX,srcY,srcX+srcW,srcY+srcH) region of src
// onto b at (x,y). respectAlpha controls whether the copy alpha-composites
// over existing destination content or replaces it outright.
func (b *OptimizedBuffer) DrawBufferRegion(x, y int32, src *OptimizedBuffer, srcX, srcY, srcW, srcH uint32, respectAlpha bool) {
	copyW := minU32(srcW, satSubU32(src.width, srcX))
	copyH := minU32(srcH, satSubU32(src.height, srcY))
	if copyW == 0 || copyH == 0 {
		return
	}

	destXStart := uint32(max32(x, 0))
	destYStart := uint32(max32(y, 0))
	destXEnd := uint32(min32(saturatingAddI32(x, int32(copyW)), int32(b.width)))
	destYEnd := uint32(min32(saturatingAddI32(y, int32(copyH)), int32(b.height)))
	if destXStart >= destXEnd || destYStart >= destYEnd {
		return
	}

	opacity := b.opacityStack.Current()
	useBlend := respectAlpha && b.respectAlpha

	for destY := destYStart; destY < destYEnd; destY++ {
		sy := srcY + uint32(int32(destY)-y)
		srcRow := int(sy * src.width)
		destRow := int(destY * b.width)

		for destX := destXStart; destX < destXEnd; destX++ {
			if !b.scissorStack.Contains(int32(destX), int32(destY)) {
				continue
			}
			sx := srcX + uint32(int32(destX)-x)
			srcIdx := srcRow + int(sx)
			destIdx := destRow + int(destX)
			srcCell := src.cells[srcIdx]

			if useBlend {
				if opacity < 1.0 {
					srcCell.BlendWithOpacity(opacity)
				}
				b.cells[destIdx] = srcCell.BlendOver(b.cells[destIdx])
			} else if opacity < 1.0 {
				srcCell.BlendWithOpacity(opacity)
				b.cells[destIdx] = srcCell
			} else {
				b.cells[destIdx] = srcCell
			}
		}
	}
}

func saturatingAddI32(x, w int32) int32 {
	const maxI32 = int32(1<<31 - 1)
	if w > 0 && x > maxI32-w {
		return maxI32
	}
	return x + w
}

// DrawBufferRegionWithPool blits like DrawBufferRegion, incref-ing the
// grapheme id of every cell copied in from src and decref-ing whatever
// grapheme content it replaces (canceling the incref again on a same-id
// overwrite, matching SetWithPool's discipline).
func (b *OptimizedBuffer) DrawBufferRegionWithPool(pool *GraphemePool, x, y int32, src *OptimizedBuffer, srcX, srcY, srcW, srcH uint32, respectAlpha bool) {
	copyW := minU32(srcW, satSubU32(src.width, srcX))
	copyH := minU32(srcH, satSubU32(src.height, srcY))
	if copyW == 0 || copyH == 0 {
		return
	}

	destXStart := uint32(max32(x, 0))
	destYStart := uint32(max32(y, 0))
	destXEnd := uint32(min32(saturatingAddI32(x, int32(copyW)), int32(b.width)))
	destYEnd := uint32(min32(saturatingAddI32(y, int32(copyH)), int32(b.height)))
	if destXStart >= destXEnd || destYStart >= destYEnd {
		return
	}

	opacity := b.opacityStack.Current()
	useBlend := respectAlpha && b.respectAlpha

	for destY := destYStart; destY < destYEnd; destY++ {
		sy := srcY + uint32(int32(destY)-y)
		srcRow := int(sy * src.width)
		destRow := int(destY * b.width)

		for destX := destXStart; destX < destXEnd; destX++ {
			if !b.scissorStack.Contains(int32(destX), int32(destY)) {
				continue
			}
			sx := srcX + uint32(int32(destX)-x)
			srcIdx := srcRow + int(sx)
			destIdx := destRow + int(destX)
			srcCell := src.cells[srcIdx]
			destCell := b.cells[destIdx]

			oldContent := destCell.Content
			newCell := srcCell
			if useBlend {
				if opacity < 1.0 {
					newCell.BlendWithOpacity(opacity)
				}
				newCell = newCell.BlendOver(destCell)
			} else if opacity < 1.0 {
				newCell.BlendWithOpacity(opacity)
			}

			newContent := newCell.Content
			newFromSrc := !useBlend || !srcCell.Content.IsEmpty()

			if newFromSrc {
				if id, ok := newContent.GraphemeID(); ok && id.PoolID() != 0 {
					pool.Incref(id)
				}
			}

			if oldContent != newContent {
				if id, ok := oldContent.GraphemeID(); ok && id.PoolID() != 0 {
					pool.Decref(id)
				}
			} else if newFromSrc {
				if id, ok := newContent.GraphemeID(); ok && id.PoolID() != 0 {
					pool.Decref(id)
				}
			}

			b.cells[destIdx] = newCell
		}
	}
}

// Resize replaces the buffer's contents with a fresh width*height grid of
// cleared cells, and resets the scissor/opacity stacks and RespectAlpha.
func (b *OptimizedBuffer) Resize(width, height uint32) {
	b.width = width
	b.height = height
	size := int(width) * int(height)
	cells := make([]Cell, size)
	clear := ClearCell(Transparent)
	for i := range cells {
		cells[i] = clear
	}
	b.cells = cells
	b.scissorStack.Clear()
	b.opacityStack.Clear()
	b.respectAlpha = true
}

// ReleaseGraphemes decref's every grapheme reference currently held by the
// buffer's cells, without otherwise modifying them.
func (b *OptimizedBuffer) ReleaseGraphemes(pool *GraphemePool) {
	for _, cell := range b.cells {
		if id, ok := cell.Content.GraphemeID(); ok && id.PoolID() != 0 {
			pool.Decref(id)
		}
	}
}

// ResizeWithPool releases all grapheme references before resizing, so the
// pool doesn't leak slots that the old grid was the last reference to.
func (b *OptimizedBuffer) ResizeWithPool(pool *GraphemePool, width, height uint32) {
	b.ReleaseGraphemes(pool)
	b.Resize(width, height)
}

// SetRespectAlpha enables or disables alpha compositing for SetBlended and
// the blended buffer-to-buffer copy paths.
func (b *OptimizedBuffer) SetRespectAlpha(enabled bool) { b.respectAlpha = enabled }

// RespectAlpha reports whether alpha compositing is currently enabled.
func (b *OptimizedBuffer) RespectAlpha() bool { return b.respectAlpha }

// Cells returns the buffer's row-major cell slice.
func (b *OptimizedBuffer) Cells() []Cell { return b.cells }

// CellAt returns the cell at row-major index i. Unlike Get it does no
// bounds check: an index outside the buffer panics.
func (b *OptimizedBuffer) CellAt(i int) Cell { return b.cells[i] }
