package opentui

import (
	"fmt"
	"io"
)

// Terminal manages terminal state: raw mode, alternate screen, mouse
// tracking, cursor visibility/style/position, and capability detection. It
// sits below the renderer and above the OS/TTY boundary, and owns nothing
// but the escape sequences needed to express intent to whatever is on the
// other end of its writer.
type Terminal struct {
	w            io.Writer
	capabilities Capabilities
	cursor       CursorState
	altScreen    bool
	mouseEnabled bool
	rawMode      *RawModeGuard
}

// NewTerminal wraps w, detecting capabilities from the environment ahead of
// any capability query round-trip.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		w:            w,
		capabilities: DetectCapabilities(),
		cursor:       NewCursorState(),
	}
}

// IsRawMode reports whether the terminal currently holds a raw mode guard.
func (t *Terminal) IsRawMode() bool { return t.rawMode != nil }

// EnterRawMode disables line buffering, echo, and signal generation so
// input can be read byte by byte. A no-op if already in raw mode.
func (t *Terminal) EnterRawMode() error {
	if t.rawMode != nil {
		return nil
	}
	guard, err := EnableRawMode()
	if err != nil {
		return err
	}
	t.rawMode = guard
	return nil
}

// ExitRawMode restores the terminal to its state before EnterRawMode.
func (t *Terminal) ExitRawMode() error {
	if t.rawMode == nil {
		return nil
	}
	err := t.rawMode.Restore()
	t.rawMode = nil
	return err
}

// Capabilities returns the terminal's detected capability set.
func (t *Terminal) Capabilities() Capabilities { return t.capabilities }

// CapabilitiesMut returns a pointer to the live capability set, for callers
// that want to refine it (e.g. after ParseResponse) without a full replace.
func (t *Terminal) CapabilitiesMut() *Capabilities { return &t.capabilities }

// QueryCapabilities writes every capability query sequence and flushes.
// Replies arrive asynchronously on stdin and must be fed to ParseResponse.
func (t *Terminal) QueryCapabilities() error {
	if _, err := io.WriteString(t.w, AllQueries()); err != nil {
		return err
	}
	return t.Flush()
}

// ParseResponse parses a capability query reply and folds it into the
// terminal's capability set, returning the parsed response if recognized.
func (t *Terminal) ParseResponse(response []byte) (TerminalResponse, bool) {
	resp, ok := ParseTerminalResponse(response)
	if !ok {
		return TerminalResponse{}, false
	}
	t.capabilities.ApplyResponse(resp)
	return resp, true
}

// ApplyCapabilityResponse folds a raw, unparsed response string into the
// capability set (terminal-name hints only).
func (t *Terminal) ApplyCapabilityResponse(response string) {
	t.capabilities.ApplyQueryResponse(response)
}

// Cursor returns the terminal's last-known cursor state.
func (t *Terminal) Cursor() CursorState { return t.cursor }

// EnterAltScreen switches to the alternate screen buffer. A no-op if
// already active.
func (t *Terminal) EnterAltScreen() error {
	if t.altScreen {
		return nil
	}
	if _, err := io.WriteString(t.w, SeqAltScreenOn); err != nil {
		return err
	}
	t.altScreen = true
	return nil
}

// LeaveAltScreen restores the primary screen buffer.
func (t *Terminal) LeaveAltScreen() error {
	if !t.altScreen {
		return nil
	}
	if _, err := io.WriteString(t.w, SeqAltScreenOff); err != nil {
		return err
	}
	t.altScreen = false
	return nil
}

// EnableMouse turns on any-event mouse tracking (mode 1003, which also
// reports motion with no button held) with SGR extended coordinates (1006).
func (t *Terminal) EnableMouse() error {
	if t.mouseEnabled {
		return nil
	}
	if _, err := io.WriteString(t.w, SeqMouseOn); err != nil {
		return err
	}
	t.mouseEnabled = true
	return nil
}

// DisableMouse turns off mouse tracking.
func (t *Terminal) DisableMouse() error {
	if !t.mouseEnabled {
		return nil
	}
	if _, err := io.WriteString(t.w, SeqMouseOff); err != nil {
		return err
	}
	t.mouseEnabled = false
	return nil
}

// HideCursor hides the terminal cursor.
func (t *Terminal) HideCursor() error {
	if !t.cursor.Visible {
		return nil
	}
	if _, err := io.WriteString(t.w, SeqCursorHide); err != nil {
		return err
	}
	t.cursor.Visible = false
	return nil
}

// ShowCursor shows the terminal cursor.
func (t *Terminal) ShowCursor() error {
	if t.cursor.Visible {
		return nil
	}
	if _, err := io.WriteString(t.w, SeqCursorShow); err != nil {
		return err
	}
	t.cursor.Visible = true
	return nil
}

// SetCursorStyle sets the cursor's shape and blink behavior via DECSCUSR.
func (t *Terminal) SetCursorStyle(style CursorStyle, blinking bool) error {
	var seq string
	switch {
	case style == CursorBlock && blinking:
		seq = CursorStyleSeq.BlockBlink
	case style == CursorBlock && !blinking:
		seq = CursorStyleSeq.BlockSteady
	case style == CursorUnderline && blinking:
		seq = CursorStyleSeq.UnderlineBlink
	case style == CursorUnderline && !blinking:
		seq = CursorStyleSeq.UnderlineSteady
	case style == CursorBar && blinking:
		seq = CursorStyleSeq.BarBlink
	default:
		seq = CursorStyleSeq.BarSteady
	}
	if _, err := io.WriteString(t.w, seq); err != nil {
		return err
	}
	t.cursor.Style = style
	t.cursor.Blinking = blinking
	return nil
}

// MoveCursor moves the cursor to an absolute 0-indexed position.
func (t *Terminal) MoveCursor(x, y uint32) error {
	if _, err := io.WriteString(t.w, CursorPosition(y, x)); err != nil {
		return err
	}
	t.cursor.X, t.cursor.Y = x, y
	return nil
}

// SaveCursor saves the current cursor position (DEC sequence).
func (t *Terminal) SaveCursor() error {
	_, err := io.WriteString(t.w, SeqCursorSave)
	return err
}

// RestoreCursor restores a previously saved cursor position.
func (t *Terminal) RestoreCursor() error {
	_, err := io.WriteString(t.w, SeqCursorRestore)
	return err
}

// SetCursorColor sets the cursor color via OSC 12.
func (t *Terminal) SetCursorColor(color Rgba) error {
	r, g, b := color.ToRGBu8()
	_, err := io.WriteString(t.w, CursorColor(r, g, b))
	if err == nil {
		t.cursor.HasColor = true
		t.cursor.Color = color
	}
	return err
}

// ResetCursorColor resets the cursor color to the terminal default (OSC 112).
func (t *Terminal) ResetCursorColor() error {
	if _, err := io.WriteString(t.w, SeqCursorColorReset); err != nil {
		return err
	}
	t.cursor.HasColor = false
	return nil
}

// Clear clears the screen and homes the cursor.
func (t *Terminal) Clear() error {
	if _, err := io.WriteString(t.w, SeqClearScreen); err != nil {
		return err
	}
	_, err := io.WriteString(t.w, SeqCursorHome)
	return err
}

// SetTitle sets the window title via OSC 0. Control characters (C0, DEL,
// C1) are filtered out so a title string can't terminate the OSC sequence
// early and inject further escape codes.
func (t *Terminal) SetTitle(title string) error {
	if _, err := io.WriteString(t.w, SeqTitlePrefix); err != nil {
		return err
	}
	for _, r := range title {
		if isControlRune(r) {
			continue
		}
		if _, err := fmt.Fprintf(t.w, "%c", r); err != nil {
			return err
		}
	}
	_, err := io.WriteString(t.w, SeqTitleSuffix)
	return err
}

func isControlRune(r rune) bool {
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}

// Reset resets terminal attributes and cursor style to their defaults.
func (t *Terminal) Reset() error {
	if _, err := io.WriteString(t.w, SeqReset); err != nil {
		return err
	}
	_, err := io.WriteString(t.w, CursorStyleSeq.Default)
	return err
}

// Flush flushes the underlying writer, if it supports flushing.
func (t *Terminal) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// BeginSync starts a synchronized update (DEC 2026): terminals that
// support it hold the frame offscreen until EndSync, eliminating tearing.
func (t *Terminal) BeginSync() error {
	_, err := io.WriteString(t.w, Sync.Begin)
	return err
}

// EndSync ends a synchronized update.
func (t *Terminal) EndSync() error {
	_, err := io.WriteString(t.w, Sync.End)
	return err
}

// Cleanup restores the terminal to a usable state: shows the cursor,
// disables mouse tracking, leaves the alt screen, exits raw mode, resets
// attributes, and flushes. Call this on every exit path, including panics.
func (t *Terminal) Cleanup() error {
	if err := t.ShowCursor(); err != nil {
		return err
	}
	if err := t.DisableMouse(); err != nil {
		return err
	}
	if err := t.LeaveAltScreen(); err != nil {
		return err
	}
	if err := t.ExitRawMode(); err != nil {
		return err
	}
	if err := t.Reset(); err != nil {
		return err
	}
	return t.Flush()
}
