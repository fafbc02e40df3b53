package opentui

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// RawModeGuard restores a terminal's prior mode when Restore is called.
// Enabling raw mode disables line buffering, echo, and signal generation so
// input can be read byte by byte.
type RawModeGuard struct {
	fd    int
	state *term.State
}

// EnableRawMode puts stdin into raw mode, returning a guard that restores
// the previous terminal state.
func EnableRawMode() (*RawModeGuard, error) {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &RawModeGuard{fd: fd, state: state}, nil
}

// Restore puts the terminal back into the mode it was in before raw mode
// was enabled. Safe to call more than once; only the first call has effect.
func (g *RawModeGuard) Restore() error {
	if g == nil || g.state == nil {
		return nil
	}
	err := term.Restore(g.fd, g.state)
	g.state = nil
	return err
}

// IsTTY reports whether fd refers to a terminal.
func IsTTY(fd int) bool {
	return term.IsTerminal(fd)
}

// TerminalSize returns stdout's width and height in columns/rows.
// Zero dimensions are rejected since callers divide buffer allocations by
// them.
func TerminalSize() (width, height int, err error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New("opentui: terminal reported zero size")
	}
	return w, h, nil
}
