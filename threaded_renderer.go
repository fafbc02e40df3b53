package opentui

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ThreadedRenderStats tracks rolling statistics reported back from the
// render goroutine.
type ThreadedRenderStats struct {
	Frames         uint64
	LastFrameTime  time.Duration
	LastFrameCells int
	FPS            float32
}

// renderCommand is the sealed set of messages the main goroutine can send
// to the render goroutine. Buffers and pools are moved across the channel,
// not shared, so no locking is needed on either side.
type renderCommand interface{ isRenderCommand() }

type presentCommand struct {
	buffer       *OptimizedBuffer
	graphemePool *GraphemePool
	linkPool     *LinkPool
}
type resizeCommand struct{ width, height uint32 }
type setCursorCommand struct {
	x, y    uint32
	visible bool
}
type setCursorStyleCommand struct {
	style    CursorStyle
	blinking bool
}
type setTitleCommand struct{ title string }
type invalidateCommand struct{}
type shutdownCommand struct{}

func (presentCommand) isRenderCommand()        {}
func (resizeCommand) isRenderCommand()         {}
func (setCursorCommand) isRenderCommand()      {}
func (setCursorStyleCommand) isRenderCommand() {}
func (setTitleCommand) isRenderCommand()       {}
func (invalidateCommand) isRenderCommand()     {}
func (shutdownCommand) isRenderCommand()       {}

// renderReply carries the result of a renderCommand back to the caller.
// For presentCommand, buffer/graphemePool/linkPool carry the buffer back
// for reuse; for every other command they're nil and err alone matters.
type renderReply struct {
	buffer       *OptimizedBuffer
	graphemePool *GraphemePool
	linkPool     *LinkPool
	err          error
}

// ThreadedRenderer offloads terminal I/O to a dedicated render goroutine.
// The main goroutine owns backBuffer between calls to Present; Present hands
// it to the render goroutine over a channel and blocks until the goroutine
// has written the frame and sent a buffer back for reuse.
//
// This mirrors Renderer's present/present-force/present-diff split but
// runs it behind tx/rx channels instead of inline, matching the
// command/reply channel pair germtb-goli's PipelineRenderer uses to
// connect its layout/buffer/diff/output goroutines.
type ThreadedRenderer struct {
	tx   chan renderCommand
	rx   chan renderReply
	done chan struct{}

	backBuffer   *OptimizedBuffer
	graphemePool *GraphemePool
	linkPool     *LinkPool

	width, height uint32
	background    Rgba

	stats         ThreadedRenderStats
	lastPresentAt time.Time
	logFn         LogFunc
}

// SetLogFunc installs the callback the threaded renderer reports
// diagnostics through (render errors surfaced from the goroutine).
func (t *ThreadedRenderer) SetLogFunc(fn LogFunc) { t.logFn = fn }

// NewThreadedRenderer creates a threaded renderer with default terminal
// setup options, spawning its render goroutine immediately.
func NewThreadedRenderer(width, height uint32) (*ThreadedRenderer, error) {
	return NewThreadedRendererWithOptions(width, height, DefaultRendererOptions())
}

// NewThreadedRendererWithOptions creates a threaded renderer with custom
// terminal setup options.
func NewThreadedRendererWithOptions(width, height uint32, options RendererOptions) (*ThreadedRenderer, error) {
	tx := make(chan renderCommand)
	rx := make(chan renderReply)
	done := make(chan struct{})

	go renderThreadMain(tx, rx, done, width, height, options)

	return &ThreadedRenderer{
		tx:            tx,
		rx:            rx,
		done:          done,
		backBuffer:    NewOptimizedBuffer(width, height),
		graphemePool:  NewGraphemePool(),
		linkPool:      NewLinkPool(),
		width:         width,
		height:        height,
		background:    Black,
		lastPresentAt: time.Now(),
	}, nil
}

// Size returns the renderer's buffer dimensions.
func (t *ThreadedRenderer) Size() (uint32, uint32) { return t.width, t.height }

// Buffer returns the back buffer currently owned by the caller for drawing.
func (t *ThreadedRenderer) Buffer() *OptimizedBuffer { return t.backBuffer }

// BufferWithPool returns the back buffer and its grapheme pool together.
func (t *ThreadedRenderer) BufferWithPool() (*OptimizedBuffer, *GraphemePool) {
	return t.backBuffer, t.graphemePool
}

// GraphemePool returns the grapheme pool backing the current back buffer.
func (t *ThreadedRenderer) GraphemePool() *GraphemePool { return t.graphemePool }

// LinkPool returns the hyperlink pool backing the current back buffer.
func (t *ThreadedRenderer) LinkPool() *LinkPool { return t.linkPool }

// SetBackground sets the color Clear fills the back buffer with.
func (t *ThreadedRenderer) SetBackground(color Rgba) { t.background = color }

// Clear clears the back buffer to the background color.
func (t *ThreadedRenderer) Clear() {
	t.backBuffer.ClearWithPool(t.graphemePool, t.background)
}

// Stats returns the most recently reported rendering statistics.
func (t *ThreadedRenderer) Stats() ThreadedRenderStats { return t.stats }

var errRenderThreadGone = errors.New("opentui: render goroutine disconnected")

// Present hands the back buffer to the render goroutine and blocks until a
// replacement buffer comes back, then updates stats. The render goroutine
// diffs against its own front buffer and writes ANSI output independently
// of the caller's next drawing pass.
func (t *ThreadedRenderer) Present() error {
	cmd := presentCommand{buffer: t.backBuffer, graphemePool: t.graphemePool, linkPool: t.linkPool}
	select {
	case t.tx <- cmd:
	case <-t.done:
		return errRenderThreadGone
	}

	reply, ok := <-t.rx
	if !ok {
		return errRenderThreadGone
	}
	if reply.err != nil {
		logf(t.logFn, LogError, "threaded present failed", "error", reply.err)
		return reply.err
	}

	t.backBuffer = reply.buffer
	t.graphemePool = reply.graphemePool
	t.linkPool = reply.linkPool
	t.updateStats()
	return nil
}

// Resize tells the render goroutine to reallocate its front buffer and
// forces a full redraw on the next Present.
func (t *ThreadedRenderer) Resize(width, height uint32) error {
	if err := t.send(resizeCommand{width: width, height: height}); err != nil {
		return err
	}
	t.width, t.height = width, height
	t.backBuffer = NewOptimizedBuffer(width, height)
	return nil
}

// SetCursor moves the cursor to (x, y) and shows or hides it.
func (t *ThreadedRenderer) SetCursor(x, y uint32, visible bool) error {
	return t.send(setCursorCommand{x: x, y: y, visible: visible})
}

// SetCursorStyle sets the cursor's shape and blink behavior.
func (t *ThreadedRenderer) SetCursorStyle(style CursorStyle, blinking bool) error {
	return t.send(setCursorStyleCommand{style: style, blinking: blinking})
}

// SetTitle sets the terminal window title.
func (t *ThreadedRenderer) SetTitle(title string) error {
	return t.send(setTitleCommand{title: title})
}

// Invalidate forces the render goroutine's next Present to do a full
// redraw instead of a diff.
func (t *ThreadedRenderer) Invalidate() error {
	return t.send(invalidateCommand{})
}

// Shutdown asks the render goroutine to restore terminal state and exit,
// waiting up to 5 seconds for acknowledgment before giving up.
func (t *ThreadedRenderer) Shutdown() error {
	select {
	case t.tx <- shutdownCommand{}:
	case <-t.done:
		return nil
	}

	select {
	case <-t.rx:
	case <-t.done:
		return nil
	case <-time.After(5 * time.Second):
		return nil
	}

	<-t.done
	return nil
}

// send submits cmd and waits for an acknowledgment reply carrying no buffer.
func (t *ThreadedRenderer) send(cmd renderCommand) error {
	select {
	case t.tx <- cmd:
	case <-t.done:
		return errRenderThreadGone
	}

	reply, ok := <-t.rx
	if !ok {
		return errRenderThreadGone
	}
	return reply.err
}

func (t *ThreadedRenderer) updateStats() {
	now := time.Now()
	frameTime := now.Sub(t.lastPresentAt)
	t.lastPresentAt = now

	t.stats.Frames++
	t.stats.LastFrameTime = frameTime
	if frameTime.Seconds() > 0 {
		t.stats.FPS = float32(1.0 / frameTime.Seconds())
	} else {
		t.stats.FPS = 0
	}
}

// renderThreadMain is the render goroutine's entry point. It recovers from
// panics the way the original's render thread wraps its loop in
// catch_unwind, attempting a best-effort terminal cleanup before
// re-signaling done so Present/Shutdown callers don't block forever.
func renderThreadMain(cmds <-chan renderCommand, replies chan<- renderReply, done chan<- struct{}, width, height uint32, options RendererOptions) {
	defer close(done)
	defer func() {
		if rec := recover(); rec != nil {
			terminal := NewTerminal(os.Stdout)
			_ = terminal.Cleanup()
		}
	}()
	renderThreadLoop(cmds, replies, width, height, options)
}

func renderThreadLoop(cmds <-chan renderCommand, replies chan<- renderReply, width, height uint32, options RendererOptions) {
	terminal := NewTerminal(os.Stdout)

	if options.UseAltScreen {
		if err := terminal.EnterAltScreen(); err != nil {
			replies <- renderReply{err: fmt.Errorf("enter alt screen: %w", err)}
			return
		}
	}
	if options.HideCursor {
		_ = terminal.HideCursor()
	}
	if options.EnableMouse {
		_ = terminal.EnableMouse()
	}
	if options.QueryCapabilities {
		_ = terminal.QueryCapabilities()
	}

	frontBuffer := NewOptimizedBuffer(width, height)
	forceRedraw := true
	currentWidth, currentHeight := width, height

	for cmd := range cmds {
		switch c := cmd.(type) {
		case presentCommand:
			totalCells := int(currentWidth) * int(currentHeight)
			diff := ComputeBufferDiff(frontBuffer, c.buffer)

			var err error
			if forceRedraw || diff.ShouldFullRedraw(totalCells) {
				err = writeFullFrame(os.Stdout, terminal, c.buffer, c.graphemePool, c.linkPool, currentWidth, currentHeight)
			} else {
				err = writeDiffFrame(os.Stdout, terminal, c.buffer, c.graphemePool, c.linkPool, diff)
			}
			forceRedraw = false
			returned := frontBuffer
			frontBuffer = c.buffer

			replies <- renderReply{buffer: returned, graphemePool: c.graphemePool, linkPool: c.linkPool, err: err}

		case resizeCommand:
			currentWidth, currentHeight = c.width, c.height
			frontBuffer = NewOptimizedBuffer(c.width, c.height)
			forceRedraw = true
			err := terminal.Clear()
			replies <- renderReply{err: err}

		case setCursorCommand:
			var err error
			if c.visible {
				if err = terminal.ShowCursor(); err == nil {
					err = terminal.MoveCursor(c.x, c.y)
				}
			} else {
				err = terminal.HideCursor()
			}
			replies <- renderReply{err: err}

		case setCursorStyleCommand:
			err := terminal.SetCursorStyle(c.style, c.blinking)
			replies <- renderReply{err: err}

		case setTitleCommand:
			err := terminal.SetTitle(c.title)
			replies <- renderReply{err: err}

		case invalidateCommand:
			forceRedraw = true
			replies <- renderReply{}

		case shutdownCommand:
			err := terminal.Cleanup()
			replies <- renderReply{err: err}
			return
		}
	}

	_ = terminal.Cleanup()
}
