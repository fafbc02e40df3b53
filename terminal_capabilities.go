package opentui

import (
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
)

// ColorSupport describes the color depth a terminal can render.
type ColorSupport int

const (
	ColorSupportNone ColorSupport = iota
	ColorSupportAnsi16
	ColorSupportAnsi256
	ColorSupportTrueColor
)

// ToColorMode maps a ColorSupport to the ColorMode used when downsampling
// SGR output.
func (c ColorSupport) ToColorMode() ColorMode {
	switch c {
	case ColorSupportTrueColor:
		return ColorModeTrueColor
	case ColorSupportAnsi256:
		return ColorModeColor256
	case ColorSupportAnsi16:
		return ColorModeColor16
	default:
		return ColorModeNoColor
	}
}

// Capabilities records what a terminal has been detected (or told) to
// support. Initial values come from environment sniffing; query responses
// refine them as they arrive.
type Capabilities struct {
	Color ColorSupport

	Sixel          bool
	KittyKeyboard  bool
	KittyGraphics  bool
	SyncOutput     bool
	ExplicitWidth  bool
	SgrPixels      bool
	BracketedPaste bool
	FocusTracking  bool
}

// DetectCapabilities builds a best-effort Capabilities from the environment,
// ahead of any capability query round-trip. colorprofile inspects
// COLORTERM/TERM/terminfo the same way a well-behaved terminal client
// would, so Color starts out reasonable even if QueryCapabilities is
// never called.
func DetectCapabilities() Capabilities {
	profile := colorprofile.Detect(os.Stdout, os.Environ())

	var color ColorSupport
	switch profile {
	case colorprofile.TrueColor:
		color = ColorSupportTrueColor
	case colorprofile.ANSI256:
		color = ColorSupportAnsi256
	case colorprofile.ANSI:
		color = ColorSupportAnsi16
	default:
		color = ColorSupportNone
	}

	return Capabilities{
		Color:          color,
		BracketedPaste: true,
		FocusTracking:  true,
	}
}

// ApplyResponse folds a parsed TerminalResponse into the capability set:
// DA1 sixel param, XTVERSION terminal-name sniffing, pixel-size and kitty
// keyboard replies.
func (c *Capabilities) ApplyResponse(resp TerminalResponse) {
	switch resp.Kind {
	case RespDeviceAttributes:
		if resp.Primary && resp.HasSixel() {
			c.Sixel = true
		}
	case RespXtVersion:
		name := strings.ToLower(resp.Name)
		switch {
		case strings.Contains(name, "kitty"):
			c.KittyKeyboard = true
			c.KittyGraphics = true
			c.SyncOutput = true
		case strings.Contains(name, "foot"),
			strings.Contains(name, "alacritty"),
			strings.Contains(name, "wezterm"):
			c.SyncOutput = true
		}
	case RespPixelSize:
		if resp.Width > 0 && resp.Height > 0 {
			c.ExplicitWidth = true
			c.SgrPixels = true
		}
	case RespKittyKeyboard:
		c.KittyKeyboard = true
	}
}

// ApplyQueryResponse scans a raw, unparsed response string for terminal
// name hints, for callers that only have the text of a single reply rather
// than a structured TerminalResponse.
func (c *Capabilities) ApplyQueryResponse(response string) {
	lower := strings.ToLower(response)
	switch {
	case strings.Contains(lower, "kitty"):
		c.KittyKeyboard = true
		c.KittyGraphics = true
		c.SyncOutput = true
	case strings.Contains(lower, "foot"),
		strings.Contains(lower, "alacritty"),
		strings.Contains(lower, "wezterm"):
		c.SyncOutput = true
	}
}
