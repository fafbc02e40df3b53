package opentui

// KeyModifiers is a bitmask of keyboard modifier keys held during a KeyEvent.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
	ModHyper
	ModMeta
)

// Contains reports whether m includes every bit set in other.
func (m KeyModifiers) Contains(other KeyModifiers) bool { return m&other == other }

// KeyCodeKind identifies which key a KeyCode represents.
type KeyCodeKind int

const (
	KeyBackspace KeyCodeKind = iota
	KeyEnter
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyTab
	KeyBackTab
	KeyDelete
	KeyInsert
	KeyF
	KeyChar
	KeyEsc
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeyMenu
	KeyKeypadBegin
	KeyNull
)

// KeyCode identifies a keyboard key. Kind selects the variant; Func and Char
// carry the payload for KeyF and KeyChar respectively, mirroring the
// original's KeyCode::F(u8) and KeyCode::Char(char) variants.
type KeyCode struct {
	Kind KeyCodeKind
	Func uint8
	Char rune
}

// Key builds a plain KeyCode of kind (no F/Char payload).
func Key(kind KeyCodeKind) KeyCode { return KeyCode{Kind: kind} }

// FunctionKey builds a function key code, F(n).
func FunctionKey(n uint8) KeyCode { return KeyCode{Kind: KeyF, Func: n} }

// CharKey builds a character key code.
func CharKey(c rune) KeyCode { return KeyCode{Kind: KeyChar, Char: c} }

// IsFunctionKey reports whether this is a function key (F1-F24).
func (k KeyCode) IsFunctionKey() bool { return k.Kind == KeyF }

// IsChar reports whether this is a character key.
func (k KeyCode) IsChar() bool { return k.Kind == KeyChar }

// IsNavigation reports whether this is an arrow, home/end, or page up/down key.
func (k KeyCode) IsNavigation() bool {
	switch k.Kind {
	case KeyLeft, KeyRight, KeyUp, KeyDown, KeyHome, KeyEnd, KeyPageUp, KeyPageDown:
		return true
	default:
		return false
	}
}

// Rune returns the character and true if this is a character key.
func (k KeyCode) Rune() (rune, bool) {
	if k.Kind == KeyChar {
		return k.Char, true
	}
	return 0, false
}

// KeyEvent is a keyboard event: a key code plus the modifiers held.
type KeyEvent struct {
	Code      KeyCode
	Modifiers KeyModifiers
}

// NewKeyEvent builds a key event with explicit modifiers.
func NewKeyEvent(code KeyCode, modifiers KeyModifiers) KeyEvent {
	return KeyEvent{Code: code, Modifiers: modifiers}
}

// PlainKey builds a key event with no modifiers.
func PlainKey(code KeyCode) KeyEvent { return KeyEvent{Code: code} }

// CharKeyEvent builds a character key event with no modifiers.
func CharKeyEvent(c rune) KeyEvent { return PlainKey(CharKey(c)) }

// CtrlKey builds a Ctrl+key event.
func CtrlKey(code KeyCode) KeyEvent { return NewKeyEvent(code, ModCtrl) }

// AltKey builds an Alt+key event.
func AltKey(code KeyCode) KeyEvent { return NewKeyEvent(code, ModAlt) }

func (k KeyEvent) Shift() bool { return k.Modifiers.Contains(ModShift) }
func (k KeyEvent) Ctrl() bool  { return k.Modifiers.Contains(ModCtrl) }
func (k KeyEvent) Alt() bool   { return k.Modifiers.Contains(ModAlt) }

// Matches reports whether k is exactly code with exactly modifiers held.
func (k KeyEvent) Matches(code KeyCode, modifiers KeyModifiers) bool {
	return k.Code == code && k.Modifiers == modifiers
}

func (k KeyEvent) IsCtrlC() bool { return k.Matches(CharKey('c'), ModCtrl) }
func (k KeyEvent) IsCtrlD() bool { return k.Matches(CharKey('d'), ModCtrl) }
func (k KeyEvent) IsEsc() bool   { return k.Code.Kind == KeyEsc }
func (k KeyEvent) IsEnter() bool { return k.Code.Kind == KeyEnter }

func (KeyEvent) isEvent() {}

// MouseButton identifies which mouse button a MouseEvent involves.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonNone
)

// MouseEventKind identifies the kind of mouse action.
type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMove
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

// MouseEvent is a mouse action at a cell position, with modifiers held.
type MouseEvent struct {
	X, Y   uint32
	Button MouseButton
	Kind   MouseEventKind
	Shift  bool
	Ctrl   bool
	Alt    bool
}

func NewMouseEvent(x, y uint32, button MouseButton, kind MouseEventKind) MouseEvent {
	return MouseEvent{X: x, Y: y, Button: button, Kind: kind}
}

func MousePressEvent(x, y uint32, button MouseButton) MouseEvent {
	return NewMouseEvent(x, y, button, MousePress)
}

func MouseReleaseEvent(x, y uint32, button MouseButton) MouseEvent {
	return NewMouseEvent(x, y, button, MouseRelease)
}

func MouseMoveEvent(x, y uint32) MouseEvent {
	return NewMouseEvent(x, y, MouseButtonNone, MouseMove)
}

func MouseScrollUpEvent(x, y uint32) MouseEvent {
	return NewMouseEvent(x, y, MouseButtonNone, MouseScrollUp)
}

func MouseScrollDownEvent(x, y uint32) MouseEvent {
	return NewMouseEvent(x, y, MouseButtonNone, MouseScrollDown)
}

// WithModifiers returns a copy of m with the given modifier keys set.
func (m MouseEvent) WithModifiers(shift, ctrl, alt bool) MouseEvent {
	m.Shift, m.Ctrl, m.Alt = shift, ctrl, alt
	return m
}

func (m MouseEvent) IsPress() bool { return m.Kind == MousePress }

func (m MouseEvent) IsScroll() bool {
	switch m.Kind {
	case MouseScrollUp, MouseScrollDown, MouseScrollLeft, MouseScrollRight:
		return true
	default:
		return false
	}
}

func (MouseEvent) isEvent() {}

// ResizeEvent reports a terminal resize, in cells.
type ResizeEvent struct {
	Width, Height uint16
}

func NewResizeEvent(width, height uint16) ResizeEvent {
	return ResizeEvent{Width: width, Height: height}
}

func (ResizeEvent) isEvent() {}

// PasteEvent carries the text content of a bracketed paste.
type PasteEvent struct {
	Text string
}

func NewPasteEvent(text string) PasteEvent { return PasteEvent{Text: text} }

func (p PasteEvent) Content() string { return p.Text }
func (p PasteEvent) IsEmpty() bool   { return p.Text == "" }
func (p PasteEvent) Len() int        { return len(p.Text) }

func (PasteEvent) isEvent() {}

// FocusGainedEvent and FocusLostEvent report terminal focus changes. They
// carry no payload, unlike the other Event variants.
type FocusGainedEvent struct{}
type FocusLostEvent struct{}

func (FocusGainedEvent) isEvent() {}
func (FocusLostEvent) isEvent()   {}

// Event is the sealed set of terminal input events a parser can produce.
type Event interface{ isEvent() }

// AsKey returns e's KeyEvent and true if e is a keyboard event.
func AsKey(e Event) (KeyEvent, bool) {
	k, ok := e.(KeyEvent)
	return k, ok
}

// AsMouse returns e's MouseEvent and true if e is a mouse event.
func AsMouse(e Event) (MouseEvent, bool) {
	m, ok := e.(MouseEvent)
	return m, ok
}

// AsResize returns e's ResizeEvent and true if e is a resize event.
func AsResize(e Event) (ResizeEvent, bool) {
	r, ok := e.(ResizeEvent)
	return r, ok
}

// AsPaste returns e's PasteEvent and true if e is a paste event.
func AsPaste(e Event) (PasteEvent, bool) {
	p, ok := e.(PasteEvent)
	return p, ok
}
