package opentui

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxPasteBufferSize bounds how much bracketed-paste content the parser
// will accumulate before giving up, to protect against unbounded memory
// growth from malformed or malicious input.
const maxPasteBufferSize = 10 * 1024 * 1024

// Sentinel parse errors. ErrIncomplete means call Parse again once more
// bytes arrive; ErrEmpty means the input slice was empty.
var (
	ErrEmpty               = errors.New("opentui: empty input")
	ErrIncomplete          = errors.New("opentui: incomplete escape sequence")
	ErrInvalidUTF8         = errors.New("opentui: invalid utf-8 in input")
	ErrPasteBufferOverflow = errors.New("opentui: paste buffer exceeded maximum size")
	ErrInvalidResizeFormat = errors.New("opentui: invalid resize event format")
)

// UnrecognizedSequenceError reports an escape sequence the parser doesn't
// understand, carrying the raw bytes for diagnostics.
type UnrecognizedSequenceError struct {
	Bytes []byte
}

func (e *UnrecognizedSequenceError) Error() string {
	return fmt.Sprintf("opentui: unrecognized input sequence %q", e.Bytes)
}

// InputParser turns a rolling byte buffer from a terminal into Events. Call
// Parse repeatedly with the unconsumed remainder of the input until it
// returns ErrEmpty or ErrIncomplete (meaning: wait for more bytes).
//
// InputParser carries state across calls only for bracketed paste, where
// the start and end markers can arrive in separate reads.
type InputParser struct {
	inPaste     bool
	pasteBuffer []byte
}

// NewInputParser creates an input parser with no buffered state.
func NewInputParser() *InputParser { return &InputParser{} }

// Parse consumes a prefix of input and returns the event it decoded along
// with the number of bytes consumed. On error the caller should not advance
// its read cursor (for ErrIncomplete, wait for more input; for other
// errors, drop or log the malformed prefix per caller policy).
func (p *InputParser) Parse(input []byte) (Event, int, error) {
	if len(input) == 0 {
		return nil, 0, ErrEmpty
	}

	if p.inPaste {
		return p.parsePaste(input)
	}

	first := input[0]
	switch {
	case first == 0x1b:
		return p.parseEscape(input)
	case first == 0x00:
		return PlainKey(Key(KeyNull)), 1, nil
	case first >= 0x01 && first <= 0x1a:
		c := rune(first - 1 + 'a')
		return NewKeyEvent(CharKey(c), ModCtrl), 1, nil
	case first == 0x7f:
		return PlainKey(Key(KeyBackspace)), 1, nil
	case first >= 0x20 && first <= 0x7e:
		return CharKeyEvent(rune(first)), 1, nil
	case first >= 0x80:
		return p.parseUTF8(input)
	default:
		return CharKeyEvent(rune(first)), 1, nil
	}
}

// Clear discards any buffered bracketed-paste state.
func (p *InputParser) Clear() {
	p.inPaste = false
	p.pasteBuffer = nil
}

func (p *InputParser) parseEscape(input []byte) (Event, int, error) {
	if len(input) == 1 {
		return nil, 0, ErrIncomplete
	}

	switch input[1] {
	case '[':
		return p.parseCSI(input)
	case 'O':
		return p.parseSS3(input)
	case 'P':
		return p.parseDCS(input)
	case 0x1b:
		return PlainKey(Key(KeyEsc)), 1, nil
	default:
		if input[1] >= 0x20 && input[1] <= 0x7e {
			return NewKeyEvent(CharKey(rune(input[1])), ModAlt), 2, nil
		}
		return PlainKey(Key(KeyEsc)), 1, nil
	}
}

func (p *InputParser) parseCSI(input []byte) (Event, int, error) {
	if len(input) < 3 {
		return nil, 0, ErrIncomplete
	}

	end := 2
	for end < len(input) {
		b := input[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		end++
	}
	if end >= len(input) {
		return nil, 0, ErrIncomplete
	}

	final := input[end]
	params := input[2:end]

	switch final {
	case 'A':
		return p.parseModifiedKey(params, Key(KeyUp), end+1)
	case 'B':
		return p.parseModifiedKey(params, Key(KeyDown), end+1)
	case 'C':
		return p.parseModifiedKey(params, Key(KeyRight), end+1)
	case 'D':
		return p.parseModifiedKey(params, Key(KeyLeft), end+1)
	case 'H':
		return p.parseModifiedKey(params, Key(KeyHome), end+1)
	case 'F':
		return p.parseModifiedKey(params, Key(KeyEnd), end+1)
	case 'E':
		return p.parseModifiedKey(params, Key(KeyKeypadBegin), end+1)
	case '~':
		if bytes.HasPrefix(input, pasteStartSeq) {
			p.inPaste = true
			return p.parsePaste(input)
		}
		return p.parseTildeKey(params, end+1)
	case 'M':
		if len(params) > 0 && params[0] == '<' {
			return p.parseSGRMouse(input)
		}
		return p.parseX11Mouse(input, end+1)
	case 'm':
		return p.parseSGRMouse(input)
	case 'I':
		return FocusGainedEvent{}, end + 1, nil
	case 'O':
		return FocusLostEvent{}, end + 1, nil
	case 't':
		return p.parseResize(params, end+1)
	default:
		return nil, 0, &UnrecognizedSequenceError{Bytes: append([]byte(nil), input[:end+1]...)}
	}
}

func (p *InputParser) parseDCS(input []byte) (Event, int, error) {
	i := 2
	for i < len(input) {
		switch input[i] {
		case 0x1b:
			if i+1 < len(input) {
				if input[i+1] == '\\' {
					return nil, 0, &UnrecognizedSequenceError{Bytes: append([]byte(nil), input[:i+2]...)}
				}
			} else {
				return nil, 0, ErrIncomplete
			}
		case 0x9c:
			return nil, 0, &UnrecognizedSequenceError{Bytes: append([]byte(nil), input[:i+1]...)}
		}
		i++
	}
	return nil, 0, ErrIncomplete
}

func (p *InputParser) parseModifiedKey(params []byte, base KeyCode, consumed int) (Event, int, error) {
	if len(params) == 0 {
		return PlainKey(base), consumed, nil
	}
	mods, err := parseModifiers(params)
	if err != nil {
		return nil, 0, err
	}
	return NewKeyEvent(base, mods), consumed, nil
}

// parseModifiers decodes CSI modifier parameters of the form "1;N" where
// N = 1 + (shift?1:0) + (alt?2:0) + (ctrl?4:0).
func parseModifiers(params []byte) (KeyModifiers, error) {
	if !utf8.Valid(params) {
		return 0, ErrInvalidUTF8
	}
	parts := strings.Split(string(params), ";")
	if len(parts) < 2 {
		return 0, nil
	}
	n, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return 0, nil
	}
	if n > 0 {
		n--
	}
	var mods KeyModifiers
	if n&1 != 0 {
		mods |= ModShift
	}
	if n&2 != 0 {
		mods |= ModAlt
	}
	if n&4 != 0 {
		mods |= ModCtrl
	}
	return mods, nil
}

func (p *InputParser) parseTildeKey(params []byte, consumed int) (Event, int, error) {
	if !utf8.Valid(params) {
		return nil, 0, ErrInvalidUTF8
	}
	parts := strings.Split(string(params), ";")
	num, _ := strconv.ParseUint(parts[0], 10, 8)

	var mods KeyModifiers
	if len(parts) >= 2 {
		var err error
		mods, err = parseModifiers(params)
		if err != nil {
			return nil, 0, err
		}
	}

	var code KeyCode
	switch num {
	case 1, 7:
		code = Key(KeyHome)
	case 2:
		code = Key(KeyInsert)
	case 3:
		code = Key(KeyDelete)
	case 4, 8:
		code = Key(KeyEnd)
	case 5:
		code = Key(KeyPageUp)
	case 6:
		code = Key(KeyPageDown)
	case 11:
		code = FunctionKey(1)
	case 12:
		code = FunctionKey(2)
	case 13:
		code = FunctionKey(3)
	case 14:
		code = FunctionKey(4)
	case 15:
		code = FunctionKey(5)
	case 17:
		code = FunctionKey(6)
	case 18:
		code = FunctionKey(7)
	case 19:
		code = FunctionKey(8)
	case 20:
		code = FunctionKey(9)
	case 21:
		code = FunctionKey(10)
	case 23:
		code = FunctionKey(11)
	case 24:
		code = FunctionKey(12)
	case 25:
		code = FunctionKey(13)
	case 26:
		code = FunctionKey(14)
	case 28:
		code = FunctionKey(15)
	case 29:
		code = FunctionKey(16)
	case 31:
		code = FunctionKey(17)
	case 32:
		code = FunctionKey(18)
	case 33:
		code = FunctionKey(19)
	case 34:
		code = FunctionKey(20)
	case 200:
		p.inPaste = true
		return nil, 0, ErrIncomplete
	case 201:
		return nil, 0, &UnrecognizedSequenceError{Bytes: append([]byte(nil), params...)}
	default:
		return nil, 0, &UnrecognizedSequenceError{Bytes: append([]byte(nil), params...)}
	}

	return NewKeyEvent(code, mods), consumed, nil
}

func (p *InputParser) parseSS3(input []byte) (Event, int, error) {
	if len(input) < 3 {
		return nil, 0, ErrIncomplete
	}
	var code KeyCode
	switch input[2] {
	case 'P':
		code = FunctionKey(1)
	case 'Q':
		code = FunctionKey(2)
	case 'R':
		code = FunctionKey(3)
	case 'S':
		code = FunctionKey(4)
	case 'A':
		code = Key(KeyUp)
	case 'B':
		code = Key(KeyDown)
	case 'C':
		code = Key(KeyRight)
	case 'D':
		code = Key(KeyLeft)
	case 'H':
		code = Key(KeyHome)
	case 'F':
		code = Key(KeyEnd)
	case 'M':
		code = Key(KeyEnter)
	default:
		return nil, 0, &UnrecognizedSequenceError{Bytes: append([]byte(nil), input[:3]...)}
	}
	return PlainKey(code), 3, nil
}

// parseX11Mouse decodes legacy X10/X11 mouse reports: ESC [ M <btn> <x> <y>,
// each byte offset by +32 (+33 for 1-indexed coordinates) to avoid control
// characters.
func (p *InputParser) parseX11Mouse(input []byte, start int) (Event, int, error) {
	if len(input) < start+3 {
		return nil, 0, ErrIncomplete
	}
	cb := saturatingSub(input[start], 32)
	cx := saturatingSub(input[start+1], 33)
	cy := saturatingSub(input[start+2], 33)

	button, kind := decodeX11Button(cb)
	shift, alt, ctrl := decodeButtonModifiers(cb)

	event := NewMouseEvent(uint32(cx), uint32(cy), button, kind).WithModifiers(shift, ctrl, alt)
	return event, start + 3, nil
}

// parseSGRMouse decodes SGR extended mouse reports: ESC [ < Pb ; Px ; Py M/m.
func (p *InputParser) parseSGRMouse(input []byte) (Event, int, error) {
	termPos := bytes.IndexAny(input, "Mm")
	if termPos < 0 {
		return nil, 0, ErrIncomplete
	}
	isRelease := input[termPos] == 'm'

	paramsStart := 2
	if len(input) > 2 && input[2] == '<' {
		paramsStart = 3
	}
	params := input[paramsStart:termPos]
	if !utf8.Valid(params) {
		return nil, 0, ErrInvalidUTF8
	}
	parts := strings.Split(string(params), ";")
	if len(parts) < 3 {
		return nil, 0, &UnrecognizedSequenceError{Bytes: append([]byte(nil), input[:termPos+1]...)}
	}

	cb64, _ := strconv.ParseUint(parts[0], 10, 8)
	cb := uint8(cb64)
	cx64, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		cx64 = 1
	}
	cy64, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		cy64 = 1
	}
	cx := saturatingSubU32(uint32(cx64), 1)
	cy := saturatingSubU32(uint32(cy64), 1)

	button, kind := decodeSGRButton(cb)
	if isRelease {
		kind = MouseRelease
	}
	shift, alt, ctrl := decodeButtonModifiers(cb)

	event := NewMouseEvent(cx, cy, button, kind).WithModifiers(shift, ctrl, alt)
	return event, termPos + 1, nil
}

// parseResize decodes the XTWINOPS text-area-resize report: CSI 8 ; height
// ; width t. Other CSI...t formats (e.g. pixel size queries) are
// unrecognized.
func (p *InputParser) parseResize(params []byte, consumed int) (Event, int, error) {
	if !utf8.Valid(params) {
		return nil, 0, ErrInvalidUTF8
	}
	parts := strings.Split(string(params), ";")
	if len(parts) >= 3 && parts[0] == "8" {
		height, err := strconv.ParseUint(parts[1], 10, 16)
		if err != nil {
			return nil, 0, ErrInvalidResizeFormat
		}
		width, err := strconv.ParseUint(parts[2], 10, 16)
		if err != nil {
			return nil, 0, ErrInvalidResizeFormat
		}
		return NewResizeEvent(uint16(width), uint16(height)), consumed, nil
	}
	return nil, 0, &UnrecognizedSequenceError{Bytes: append([]byte(nil), params...)}
}

var (
	pasteStartSeq = []byte("\x1b[200~")
	pasteEndSeq   = []byte("\x1b[201~")
)

func (p *InputParser) parsePaste(input []byte) (Event, int, error) {
	contentStart := 0
	if bytes.HasPrefix(input, pasteStartSeq) {
		contentStart = len(pasteStartSeq)
	}
	effective := input[contentStart:]

	if pos := bytes.Index(effective, pasteEndSeq); pos >= 0 {
		available := maxPasteBufferSize - len(p.pasteBuffer)
		if pos > available {
			p.inPaste = false
			p.pasteBuffer = nil
			return nil, 0, ErrPasteBufferOverflow
		}
		p.pasteBuffer = append(p.pasteBuffer, effective[:pos]...)
		p.inPaste = false
		content := string(p.pasteBuffer)
		p.pasteBuffer = nil
		return NewPasteEvent(content), contentStart + pos + len(pasteEndSeq), nil
	}

	available := maxPasteBufferSize - len(p.pasteBuffer)
	if len(effective) > available {
		p.inPaste = false
		p.pasteBuffer = nil
		return nil, 0, ErrPasteBufferOverflow
	}
	p.pasteBuffer = append(p.pasteBuffer, effective...)
	return nil, 0, ErrIncomplete
}

func (p *InputParser) parseUTF8(input []byte) (Event, int, error) {
	first := input[0]
	var expected int
	switch {
	case first&0b1110_0000 == 0b1100_0000:
		expected = 2
	case first&0b1111_0000 == 0b1110_0000:
		expected = 3
	case first&0b1111_1000 == 0b1111_0000:
		expected = 4
	default:
		return nil, 0, ErrInvalidUTF8
	}
	if len(input) < expected {
		return nil, 0, ErrIncomplete
	}
	r, size := utf8.DecodeRune(input[:expected])
	if r == utf8.RuneError {
		return nil, 0, ErrInvalidUTF8
	}
	return CharKeyEvent(r), size, nil
}

func decodeX11Button(cb byte) (MouseButton, MouseEventKind) {
	low := cb & 0b0000_0011
	motion := cb&0b0010_0000 != 0
	scroll := cb&0b0100_0000 != 0

	switch {
	case scroll:
		switch low {
		case 0:
			return MouseButtonNone, MouseScrollUp
		case 1:
			return MouseButtonNone, MouseScrollDown
		case 2:
			return MouseButtonNone, MouseScrollLeft
		case 3:
			return MouseButtonNone, MouseScrollRight
		default:
			return MouseButtonNone, MouseScrollUp
		}
	case motion:
		return lowButton(low), MouseMove
	default:
		if low == 3 {
			return MouseButtonNone, MouseRelease
		}
		return lowButton(low), MousePress
	}
}

func decodeSGRButton(cb byte) (MouseButton, MouseEventKind) {
	low := cb & 0b0000_0011
	motion := cb&0b0010_0000 != 0
	scroll := cb&0b0100_0000 != 0

	switch {
	case scroll:
		switch low {
		case 0:
			return MouseButtonNone, MouseScrollUp
		case 1:
			return MouseButtonNone, MouseScrollDown
		case 2:
			return MouseButtonNone, MouseScrollLeft
		case 3:
			return MouseButtonNone, MouseScrollRight
		default:
			return MouseButtonNone, MouseScrollUp
		}
	case motion:
		return lowButton(low), MouseMove
	default:
		return lowButton(low), MousePress
	}
}

func lowButton(low byte) MouseButton {
	switch low {
	case 0:
		return MouseButtonLeft
	case 1:
		return MouseButtonMiddle
	case 2:
		return MouseButtonRight
	default:
		return MouseButtonNone
	}
}

func decodeButtonModifiers(cb byte) (shift, alt, ctrl bool) {
	shift = cb&0b0000_0100 != 0
	alt = cb&0b0000_1000 != 0
	ctrl = cb&0b0001_0000 != 0
	return
}

func saturatingSub(a, b byte) byte {
	if a < b {
		return 0
	}
	return a - b
}

func saturatingSubU32(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}
