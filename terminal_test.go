package opentui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalBasicState(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if term.altScreen {
		t.Error("new terminal should not start in alt screen")
	}
	if term.mouseEnabled {
		t.Error("new terminal should not start with mouse enabled")
	}
	if term.IsRawMode() {
		t.Error("new terminal should not start in raw mode")
	}
}

func TestTerminalAltScreenToggle(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.EnterAltScreen(); err != nil {
		t.Fatal(err)
	}
	if !term.altScreen {
		t.Error("expected alt screen to be active")
	}
	if err := term.LeaveAltScreen(); err != nil {
		t.Fatal(err)
	}
	if term.altScreen {
		t.Error("expected alt screen to be inactive")
	}
}

func TestTerminalSaveCursorSequence(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.SaveCursor(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b7") {
		t.Errorf("expected save-cursor sequence, got %q", buf.String())
	}
}

func TestTerminalRestoreCursorSequence(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.RestoreCursor(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b8") {
		t.Errorf("expected restore-cursor sequence, got %q", buf.String())
	}
}

func TestTerminalSaveMoveRestore(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.SaveCursor(); err != nil {
		t.Fatal(err)
	}
	if err := term.MoveCursor(10, 5); err != nil {
		t.Fatal(err)
	}
	if err := term.RestoreCursor(); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.Contains(s, "\x1b7") || !strings.Contains(s, "\x1b8") {
		t.Errorf("expected save and restore sequences in order, got %q", s)
	}
}

func TestTerminalCursorColorSequence(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.SetCursorColor(RgbaFromRGBu8(255, 128, 0)); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b]12;#ff8000\x07") {
		t.Errorf("expected cursor color sequence, got %q", buf.String())
	}
}

func TestTerminalCursorColorReset(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.ResetCursorColor(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b]112\x07") {
		t.Errorf("expected cursor color reset sequence, got %q", buf.String())
	}
}

func TestTerminalSetTitleBasic(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.SetTitle("Hello World"); err != nil {
		t.Fatal(err)
	}
	want := SeqTitlePrefix + "Hello World" + SeqTitleSuffix
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTerminalSetTitleFiltersControlChars(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	malicious := "evil\x1b]0;pwned\x07title"
	if err := term.SetTitle(malicious); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if strings.Contains(s, "\x1b]0;pwned\x07") {
		t.Errorf("control characters should be stripped from title, got %q", s)
	}
	if !strings.Contains(s, "evil") || !strings.Contains(s, "title") {
		t.Errorf("visible text should survive filtering, got %q", s)
	}
}

func TestTerminalMouseToggle(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.EnableMouse(); err != nil {
		t.Fatal(err)
	}
	if !term.mouseEnabled {
		t.Error("expected mouse enabled")
	}
	buf.Reset()
	if err := term.EnableMouse(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Error("enabling mouse twice should be a no-op the second time")
	}
	if err := term.DisableMouse(); err != nil {
		t.Fatal(err)
	}
	if term.mouseEnabled {
		t.Error("expected mouse disabled")
	}
}

func TestTerminalCursorVisibility(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.HideCursor(); err != nil {
		t.Fatal(err)
	}
	if term.cursor.Visible {
		t.Error("expected cursor hidden")
	}
	if err := term.ShowCursor(); err != nil {
		t.Fatal(err)
	}
	if !term.cursor.Visible {
		t.Error("expected cursor visible")
	}
}

func TestTerminalCleanupOrder(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if err := term.EnterAltScreen(); err != nil {
		t.Fatal(err)
	}
	if err := term.EnableMouse(); err != nil {
		t.Fatal(err)
	}
	if err := term.HideCursor(); err != nil {
		t.Fatal(err)
	}
	if err := term.Cleanup(); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	showIdx := strings.Index(s, SeqCursorShow)
	mouseOffIdx := strings.Index(s, SeqMouseOff)
	altOffIdx := strings.Index(s, SeqAltScreenOff)
	if showIdx < 0 || mouseOffIdx < 0 || altOffIdx < 0 {
		t.Fatalf("cleanup should emit show-cursor, mouse-off, alt-screen-off: %q", s)
	}
	if !(showIdx < mouseOffIdx && mouseOffIdx < altOffIdx) {
		t.Errorf("cleanup should run show-cursor, then mouse-off, then alt-screen-off, got %q", s)
	}
}

func TestTerminalParseResponseUpdatesCapabilities(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	resp, ok := term.ParseResponse([]byte("\x1bP>|kitty(0.26.5)\x1b\\"))
	if !ok {
		t.Fatal("expected response to parse")
	}
	if resp.Kind != RespXtVersion {
		t.Fatalf("expected XtVersion, got %v", resp.Kind)
	}
	if !term.Capabilities().KittyKeyboard {
		t.Error("expected kitty keyboard capability to be set")
	}
	if !term.Capabilities().SyncOutput {
		t.Error("expected sync output capability to be set")
	}
}
