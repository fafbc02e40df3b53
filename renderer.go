package opentui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RendererOptions controls terminal setup behavior when creating a
// Renderer.
type RendererOptions struct {
	UseAltScreen      bool
	HideCursor        bool
	EnableMouse       bool
	QueryCapabilities bool
}

// DefaultRendererOptions returns the renderer's default terminal setup:
// alt screen, hidden cursor, mouse tracking, and a capability query all on.
func DefaultRendererOptions() RendererOptions {
	return RendererOptions{
		UseAltScreen:      true,
		HideCursor:        true,
		EnableMouse:       true,
		QueryCapabilities: true,
	}
}

// RenderStats tracks rolling statistics about recent frames.
type RenderStats struct {
	Frames         uint64
	LastFrameTime  time.Duration
	LastFrameCells int
	FPS            float32
	BufferBytes    int
	HitgridBytes   int
	TotalBytes     int
}

// Renderer is the main entry point for terminal rendering. It owns double
// buffered cell storage, diff-based output, terminal state (cursor, alt
// screen, mouse tracking), a hit-testing grid, and the link/grapheme pools
// cells reference into.
//
// Renderer is not safe for concurrent use: it holds the terminal writer
// directly. Use ThreadedRenderer to drive it from a dedicated goroutine and
// send drawing commands across a channel instead.
type Renderer struct {
	width, height uint32

	frontBuffer *OptimizedBuffer
	backBuffer  *OptimizedBuffer

	terminal     *Terminal
	out          io.Writer
	hitGrid      *HitGrid
	hitScissor   *ScissorStack
	linkPool     *LinkPool
	graphemePool *GraphemePool

	background       Rgba
	forceRedraw      bool
	stats            RenderStats
	lastPresentAt    time.Time
	showDebugOverlay bool
	logFn            LogFunc
}

// SetLogFunc installs the callback the renderer reports diagnostics
// through (present errors, cleanup failures). Pass nil to silence it.
func (r *Renderer) SetLogFunc(fn LogFunc) { r.logFn = fn }

// NewRenderer creates a renderer of the given dimensions with default
// options, writing to stdout.
func NewRenderer(width, height uint32) (*Renderer, error) {
	return NewRendererWithOptions(width, height, DefaultRendererOptions())
}

// NewRendererWithOptions creates a renderer with custom terminal setup
// options.
func NewRendererWithOptions(width, height uint32, options RendererOptions) (*Renderer, error) {
	terminal := NewTerminal(os.Stdout)

	if options.UseAltScreen {
		if err := terminal.EnterAltScreen(); err != nil {
			return nil, err
		}
	}
	if options.HideCursor {
		if err := terminal.HideCursor(); err != nil {
			return nil, err
		}
	}
	if options.EnableMouse {
		if err := terminal.EnableMouse(); err != nil {
			return nil, err
		}
	}
	if options.QueryCapabilities {
		if err := terminal.QueryCapabilities(); err != nil {
			return nil, err
		}
	}

	return &Renderer{
		width:         width,
		height:        height,
		frontBuffer:   NewOptimizedBuffer(width, height),
		backBuffer:    NewOptimizedBuffer(width, height),
		terminal:      terminal,
		out:           os.Stdout,
		hitGrid:       NewHitGrid(width, height),
		hitScissor:    NewScissorStack(),
		linkPool:      NewLinkPool(),
		graphemePool:  NewGraphemePool(),
		background:    Black,
		forceRedraw:   true,
		lastPresentAt: time.Now(),
	}, nil
}

// Size returns the renderer's buffer dimensions.
func (r *Renderer) Size() (uint32, uint32) { return r.width, r.height }

// Buffer returns the back buffer for drawing.
func (r *Renderer) Buffer() *OptimizedBuffer { return r.backBuffer }

// BufferWithPool returns the back buffer and the grapheme pool together,
// for pool-aware drawing helpers like DrawTextWithPool.
func (r *Renderer) BufferWithPool() (*OptimizedBuffer, *GraphemePool) {
	return r.backBuffer, r.graphemePool
}

// FrontBuffer returns the buffer holding the currently displayed frame.
func (r *Renderer) FrontBuffer() *OptimizedBuffer { return r.frontBuffer }

// Stats returns the most recent rendering statistics.
func (r *Renderer) Stats() RenderStats { return r.stats }

// SetDebugOverlay enables or disables the stats overlay drawn in the
// top-left corner on each present.
func (r *Renderer) SetDebugOverlay(enabled bool) { r.showDebugOverlay = enabled }

// LinkPool returns the hyperlink pool for OSC 8 link registration.
func (r *Renderer) LinkPool() *LinkPool { return r.linkPool }

// GraphemePool returns the grapheme pool backing multi-codepoint cell
// content.
func (r *Renderer) GraphemePool() *GraphemePool { return r.graphemePool }

// Capabilities returns the terminal's detected capability set.
func (r *Renderer) Capabilities() Capabilities { return r.terminal.Capabilities() }

// CapabilitiesMut returns a pointer to the live capability set, for callers
// overriding detected capabilities.
func (r *Renderer) CapabilitiesMut() *Capabilities { return r.terminal.CapabilitiesMut() }

// SetBackground sets the color Clear fills the back buffer with.
func (r *Renderer) SetBackground(color Rgba) { r.background = color }

// Clear clears the back buffer to the background color and empties the
// hit grid ahead of the next frame's drawing.
func (r *Renderer) Clear() {
	r.backBuffer.ClearWithPool(r.graphemePool, r.background)
	r.hitGrid.Clear()
}

// Present diffs the back buffer against the front buffer and writes only
// the cells that changed, falling back to a full redraw when forced or
// when the diff heuristic judges more than half the buffer changed. After
// writing, it swaps buffers and clears the new back buffer for the next
// frame.
func (r *Renderer) Present() error {
	if r.showDebugOverlay {
		r.drawDebugOverlay()
	}

	totalCells := int(r.width) * int(r.height)
	diff := ComputeBufferDiff(r.frontBuffer, r.backBuffer)

	if r.forceRedraw || diff.ShouldFullRedraw(totalCells) {
		if err := r.PresentForce(); err != nil {
			logf(r.logFn, LogError, "present force failed", "error", err)
			return err
		}
		r.updateStats(totalCells)
		r.forceRedraw = false
	} else {
		if err := r.presentDiff(diff); err != nil {
			logf(r.logFn, LogError, "present diff failed", "error", err)
			return err
		}
		r.updateStats(diff.ChangeCount)
	}

	r.frontBuffer, r.backBuffer = r.backBuffer, r.frontBuffer
	r.backBuffer.ClearWithPool(r.graphemePool, r.background)
	r.hitGrid.Clear()

	return nil
}

// PresentForce writes every non-continuation cell in the back buffer,
// ignoring the diff. Used for the first frame and whenever Invalidate was
// called or the diff covers more than half the buffer.
func (r *Renderer) PresentForce() error {
	return writeFullFrame(r.out, r.terminal, r.backBuffer, r.graphemePool, r.linkPool, r.width, r.height)
}

// presentDiff writes only the cells covered by diff's dirty regions.
func (r *Renderer) presentDiff(diff BufferDiff) error {
	return writeDiffFrame(r.out, r.terminal, r.backBuffer, r.graphemePool, r.linkPool, diff)
}

// Resize changes the renderer's buffer dimensions, reallocating both
// buffers and the hit grid, and forces the next Present to do a full
// redraw.
func (r *Renderer) Resize(width, height uint32) error {
	r.width, r.height = width, height
	r.frontBuffer.ResizeWithPool(r.graphemePool, width, height)
	r.backBuffer.ResizeWithPool(r.graphemePool, width, height)
	r.hitGrid = NewHitGrid(width, height)
	r.hitScissor.Clear()
	r.forceRedraw = true
	return r.terminal.Clear()
}

// SetCursor moves the cursor to (x, y) and shows or hides it.
func (r *Renderer) SetCursor(x, y uint32, visible bool) error {
	if visible {
		if err := r.terminal.ShowCursor(); err != nil {
			return err
		}
		return r.terminal.MoveCursor(x, y)
	}
	return r.terminal.HideCursor()
}

// SetCursorStyle sets the cursor's shape and blink behavior.
func (r *Renderer) SetCursorStyle(style CursorStyle, blinking bool) error {
	return r.terminal.SetCursorStyle(style, blinking)
}

// SetTitle sets the terminal window title.
func (r *Renderer) SetTitle(title string) error {
	return r.terminal.SetTitle(title)
}

// RegisterHitArea registers a clickable rectangle under the current hit
// scissor, clipped to it, associated with id.
func (r *Renderer) RegisterHitArea(x, y, width, height, id uint32) {
	rect := NewClipRect(int32(x), int32(y), width, height)
	current := r.hitScissor.Current()
	intersect, ok := current.Intersect(rect)
	if !ok || intersect.IsEmpty() {
		return
	}
	ix, iy := intersect.X, intersect.Y
	if ix < 0 {
		ix = 0
	}
	if iy < 0 {
		iy = 0
	}
	r.hitGrid.Register(uint32(ix), uint32(iy), intersect.Width, intersect.Height, id)
}

// HitTest returns the widget id registered at (x, y), if any.
func (r *Renderer) HitTest(x, y uint32) (uint32, bool) {
	return r.hitGrid.Test(x, y)
}

// PushHitScissor pushes a clip rectangle that subsequent RegisterHitArea
// calls are clipped to.
func (r *Renderer) PushHitScissor(rect ClipRect) { r.hitScissor.Push(rect) }

// PopHitScissor pops the most recently pushed hit scissor rectangle.
func (r *Renderer) PopHitScissor() { r.hitScissor.Pop() }

// ClearHitScissors removes every pushed hit scissor rectangle.
func (r *Renderer) ClearHitScissors() { r.hitScissor.Clear() }

// Invalidate forces the next Present to perform a full redraw instead of a
// diff, e.g. after external changes to the terminal the renderer isn't
// aware of.
func (r *Renderer) Invalidate() { r.forceRedraw = true }

// Cleanup restores terminal state (cursor, mouse, alt screen, raw mode,
// attributes). Call on every exit path.
func (r *Renderer) Cleanup() error {
	err := r.terminal.Cleanup()
	if err != nil {
		logf(r.logFn, LogWarn, "terminal cleanup failed", "error", err)
	}
	return err
}

func (r *Renderer) updateStats(cellsUpdated int) {
	now := time.Now()
	frameTime := now.Sub(r.lastPresentAt)
	r.lastPresentAt = now

	r.stats.Frames++
	r.stats.LastFrameTime = frameTime
	r.stats.LastFrameCells = cellsUpdated
	if frameTime.Seconds() > 0 {
		r.stats.FPS = float32(1.0 / frameTime.Seconds())
	} else {
		r.stats.FPS = 0
	}

	bufferBytes := r.frontBuffer.ByteSize() + r.backBuffer.ByteSize()
	hitgridBytes := r.hitGrid.ByteSize()
	r.stats.BufferBytes = bufferBytes
	r.stats.HitgridBytes = hitgridBytes
	r.stats.TotalBytes = bufferBytes + hitgridBytes
}

func (r *Renderer) drawDebugOverlay() {
	s := r.stats
	text := fmt.Sprintf("fps:%.1f frame:%s cells:%d mem:%dB",
		s.FPS, s.LastFrameTime, s.LastFrameCells, s.TotalBytes)
	DrawTextWithPool(r.backBuffer, r.graphemePool, 0, 0, text, StyleDim())
}
