package opentui

// CursorStyle selects the terminal cursor's visual shape.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// CursorState tracks the last cursor position/style/color the terminal was
// told to use, so Terminal can skip redundant writes.
type CursorState struct {
	X, Y     uint32
	Visible  bool
	Style    CursorStyle
	Blinking bool
	HasColor bool
	Color    Rgba
}

// NewCursorState returns a cursor state at the origin: visible, block,
// blinking, no explicit color.
func NewCursorState() CursorState {
	return CursorState{Visible: true, Style: CursorBlock, Blinking: true}
}

// CursorStateAt returns a cursor state at the given position with the same
// defaults as NewCursorState.
func CursorStateAt(x, y uint32) CursorState {
	s := NewCursorState()
	s.X, s.Y = x, y
	return s
}

func (c *CursorState) SetPosition(x, y uint32) { c.X, c.Y = x, y }
func (c CursorState) Position() (uint32, uint32) { return c.X, c.Y }
