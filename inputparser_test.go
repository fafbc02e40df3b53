package opentui

import (
	"errors"
	"testing"
)

func TestParserPlainChar(t *testing.T) {
	p := NewInputParser()
	ev, consumed, err := p.Parse([]byte("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != 1 {
		t.Errorf("consumed = %d, want 1", consumed)
	}
	key, ok := AsKey(ev)
	if !ok || key.Code != CharKey('a') {
		t.Errorf("got %#v, want char 'a'", ev)
	}
}

func TestParserCtrlC(t *testing.T) {
	p := NewInputParser()
	ev, consumed, err := p.Parse([]byte{0x03})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != 1 {
		t.Errorf("consumed = %d, want 1", consumed)
	}
	key, ok := AsKey(ev)
	if !ok || !key.IsCtrlC() {
		t.Errorf("got %#v, want ctrl-c", ev)
	}
}

func TestParserLoneEscapeIsIncomplete(t *testing.T) {
	p := NewInputParser()
	_, _, err := p.Parse([]byte{0x1b})
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("err = %v, want ErrIncomplete", err)
	}
}

func TestParserArrowUp(t *testing.T) {
	p := NewInputParser()
	ev, consumed, err := p.Parse([]byte("\x1b[A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != 3 {
		t.Errorf("consumed = %d, want 3", consumed)
	}
	key, ok := AsKey(ev)
	if !ok || key.Code.Kind != KeyUp {
		t.Errorf("got %#v, want Up", ev)
	}
}

func TestParserArrowWithShiftModifier(t *testing.T) {
	p := NewInputParser()
	ev, _, err := p.Parse([]byte("\x1b[1;2A"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key, ok := AsKey(ev)
	if !ok || key.Code.Kind != KeyUp || !key.Shift() {
		t.Errorf("got %#v, want shift+Up", ev)
	}
}

func TestParserF1ViaSS3(t *testing.T) {
	p := NewInputParser()
	ev, consumed, err := p.Parse([]byte("\x1bOP"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != 3 {
		t.Errorf("consumed = %d, want 3", consumed)
	}
	key, ok := AsKey(ev)
	if !ok || key.Code.Kind != KeyF || key.Code.Func != 1 {
		t.Errorf("got %#v, want F1", ev)
	}
}

func TestParserDeleteTilde(t *testing.T) {
	p := NewInputParser()
	ev, _, err := p.Parse([]byte("\x1b[3~"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key, ok := AsKey(ev)
	if !ok || key.Code.Kind != KeyDelete {
		t.Errorf("got %#v, want Delete", ev)
	}
}

func TestParserAltKey(t *testing.T) {
	p := NewInputParser()
	ev, consumed, err := p.Parse([]byte("\x1bx"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != 2 {
		t.Errorf("consumed = %d, want 2", consumed)
	}
	key, ok := AsKey(ev)
	if !ok || key.Code != CharKey('x') || !key.Alt() {
		t.Errorf("got %#v, want alt+x", ev)
	}
}

func TestParserSGRMousePress(t *testing.T) {
	p := NewInputParser()
	ev, _, err := p.Parse([]byte("\x1b[<0;11;6M"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := AsMouse(ev)
	if !ok {
		t.Fatalf("got %#v, want mouse event", ev)
	}
	if m.X != 10 || m.Y != 5 || m.Button != MouseButtonLeft || m.Kind != MousePress {
		t.Errorf("got %+v, want press at (10,5) left", m)
	}
}

func TestParserSGRMouseRelease(t *testing.T) {
	p := NewInputParser()
	ev, _, err := p.Parse([]byte("\x1b[<0;11;6m"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := AsMouse(ev)
	if !ok || m.Kind != MouseRelease {
		t.Errorf("got %#v, want release", ev)
	}
}

func TestParserX11Mouse(t *testing.T) {
	p := NewInputParser()
	// Left press at (10, 5): button byte 0x20 (0 + 32), x=10+33, y=5+33.
	seq := []byte{0x1b, '[', 'M', 0x20, 10 + 33, 5 + 33}
	ev, consumed, err := p.Parse(seq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != len(seq) {
		t.Errorf("consumed = %d, want %d", consumed, len(seq))
	}
	m, ok := AsMouse(ev)
	if !ok || m.X != 10 || m.Y != 5 || m.Button != MouseButtonLeft || m.Kind != MousePress {
		t.Errorf("got %+v, want press at (10,5) left", m)
	}
}

func TestParserUTF8Char(t *testing.T) {
	p := NewInputParser()
	ev, consumed, err := p.Parse([]byte("日"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != 3 {
		t.Errorf("consumed = %d, want 3", consumed)
	}
	key, ok := AsKey(ev)
	if !ok || key.Code != CharKey('日') {
		t.Errorf("got %#v, want '日'", ev)
	}
}

func TestParserFocusEvents(t *testing.T) {
	p := NewInputParser()
	ev, _, err := p.Parse([]byte("\x1b[I"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ev.(FocusGainedEvent); !ok {
		t.Errorf("got %#v, want FocusGainedEvent", ev)
	}

	ev, _, err = p.Parse([]byte("\x1b[O"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ev.(FocusLostEvent); !ok {
		t.Errorf("got %#v, want FocusLostEvent", ev)
	}
}

func TestParserBackspace(t *testing.T) {
	p := NewInputParser()
	ev, _, err := p.Parse([]byte{0x7f})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key, ok := AsKey(ev)
	if !ok || key.Code.Kind != KeyBackspace {
		t.Errorf("got %#v, want Backspace", ev)
	}
}

func TestParserBracketedPasteAcrossCalls(t *testing.T) {
	p := NewInputParser()

	_, _, err := p.Parse([]byte("\x1b[200~"))
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("after paste start, err = %v, want ErrIncomplete", err)
	}

	_, _, err = p.Parse([]byte("hello "))
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("mid-paste, err = %v, want ErrIncomplete", err)
	}

	ev, _, err := p.Parse([]byte("world\x1b[201~"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paste, ok := AsPaste(ev)
	if !ok || paste.Content() != "hello world" {
		t.Errorf("got %#v, want paste %q", ev, "hello world")
	}
}

func TestParserBracketedPasteSingleCall(t *testing.T) {
	p := NewInputParser()
	ev, consumed, err := p.Parse([]byte("\x1b[200~hi\x1b[201~"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	paste, ok := AsPaste(ev)
	if !ok || paste.Content() != "hi" {
		t.Errorf("got %#v, want paste %q", ev, "hi")
	}
	if consumed != len("\x1b[200~hi\x1b[201~") {
		t.Errorf("consumed = %d, want full sequence length", consumed)
	}
}

func TestParserPasteOverflowResetsState(t *testing.T) {
	p := NewInputParser()
	p.inPaste = true
	p.pasteBuffer = make([]byte, maxPasteBufferSize)

	_, _, err := p.Parse([]byte("more data without end marker"))
	if !errors.Is(err, ErrPasteBufferOverflow) {
		t.Fatalf("err = %v, want ErrPasteBufferOverflow", err)
	}
	if p.inPaste || p.pasteBuffer != nil {
		t.Error("parser should reset paste state after overflow")
	}
}

func TestParserResizeXTWINOPS(t *testing.T) {
	p := NewInputParser()
	ev, _, err := p.Parse([]byte("\x1b[8;24;80t"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resize, ok := AsResize(ev)
	if !ok || resize.Width != 80 || resize.Height != 24 {
		t.Errorf("got %+v, want 80x24", resize)
	}
}

func TestParserResizeInvalidFormat(t *testing.T) {
	p := NewInputParser()
	_, _, err := p.Parse([]byte("\x1b[8;xx;80t"))
	if !errors.Is(err, ErrInvalidResizeFormat) {
		t.Errorf("err = %v, want ErrInvalidResizeFormat", err)
	}
}

func TestParserEmptyInput(t *testing.T) {
	p := NewInputParser()
	_, _, err := p.Parse(nil)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestParserUnrecognizedCSISequence(t *testing.T) {
	p := NewInputParser()
	_, _, err := p.Parse([]byte("\x1b[9z"))
	var unrec *UnrecognizedSequenceError
	if !errors.As(err, &unrec) {
		t.Errorf("err = %v, want *UnrecognizedSequenceError", err)
	}
}

func TestParserClearResetsPasteState(t *testing.T) {
	p := NewInputParser()
	_, _, _ = p.Parse([]byte("\x1b[200~partial"))
	if !p.inPaste {
		t.Fatal("expected parser to be mid-paste")
	}
	p.Clear()
	if p.inPaste || p.pasteBuffer != nil {
		t.Error("Clear should reset paste state")
	}
}
