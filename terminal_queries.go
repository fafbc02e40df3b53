package opentui

import (
	"strconv"
	"strings"
)

// maxDCSResponseLength bounds XTVERSION DCS parsing so a malicious or
// confused terminal can't drive unbounded memory use with a reply that
// never terminates.
const maxDCSResponseLength = 64 * 1024

// TerminalResponseKind tags which capability query a TerminalResponse
// answers.
type TerminalResponseKind int

const (
	RespDeviceAttributes TerminalResponseKind = iota
	RespXtVersion
	RespPixelSize
	RespKittyKeyboard
	RespUnknown
)

// TerminalResponse is a parsed reply to one of the capability queries sent
// by AllQueries.
type TerminalResponse struct {
	Kind TerminalResponseKind

	// DeviceAttributes (DA1/DA2)
	Primary bool
	Params  []uint32

	// XtVersion
	Name    string
	Version string

	// PixelSize
	Width, Height uint16

	// KittyKeyboard
	Flags uint32

	// Unknown
	Raw []byte
}

// HasSixel reports whether a DA1 response advertises sixel graphics support
// (parameter 4).
func (r TerminalResponse) HasSixel() bool {
	if r.Kind != RespDeviceAttributes || !r.Primary {
		return false
	}
	for _, p := range r.Params {
		if p == 4 {
			return true
		}
	}
	return false
}

// TerminalName returns the terminal name reported by an XTVERSION response.
func (r TerminalResponse) TerminalName() (string, bool) {
	if r.Kind != RespXtVersion {
		return "", false
	}
	return r.Name, true
}

// ParseTerminalResponse parses a capability query reply from raw bytes,
// trying each known response shape in turn and falling back to Unknown.
func ParseTerminalResponse(input []byte) (TerminalResponse, bool) {
	if len(input) < 3 || input[0] != 0x1b {
		return TerminalResponse{}, false
	}

	if resp, ok := parseDA1(input); ok {
		return resp, true
	}
	if resp, ok := parseDA2(input); ok {
		return resp, true
	}
	if resp, ok := parseXtVersion(input); ok {
		return resp, true
	}
	if resp, ok := parsePixelSize(input); ok {
		return resp, true
	}
	if resp, ok := parseKittyKeyboard(input); ok {
		return resp, true
	}

	raw := make([]byte, len(input))
	copy(raw, input)
	return TerminalResponse{Kind: RespUnknown, Raw: raw}, true
}

func parseUintList(s string) []uint32 {
	var params []uint32
	for _, part := range strings.Split(s, ";") {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			continue
		}
		params = append(params, uint32(n))
	}
	return params
}

// parseDA1 parses "ESC [ ? Ps ; Ps ... c".
func parseDA1(input []byte) (TerminalResponse, bool) {
	if len(input) < 4 || input[1] != '[' || input[2] != '?' {
		return TerminalResponse{}, false
	}
	end := indexByte(input, 'c')
	if end < 3 {
		return TerminalResponse{}, false
	}
	return TerminalResponse{
		Kind:    RespDeviceAttributes,
		Primary: true,
		Params:  parseUintList(string(input[3:end])),
	}, true
}

// parseDA2 parses "ESC [ > Pp ; Pv ; Pc c".
func parseDA2(input []byte) (TerminalResponse, bool) {
	if len(input) < 4 || input[1] != '[' || input[2] != '>' {
		return TerminalResponse{}, false
	}
	end := indexByte(input, 'c')
	if end < 3 {
		return TerminalResponse{}, false
	}
	return TerminalResponse{
		Kind:    RespDeviceAttributes,
		Primary: false,
		Params:  parseUintList(string(input[3:end])),
	}, true
}

// parseXtVersion parses "ESC P > | name version ST" (ST is ESC \ or 0x9c).
func parseXtVersion(input []byte) (TerminalResponse, bool) {
	if len(input) < 5 || len(input) > maxDCSResponseLength {
		return TerminalResponse{}, false
	}

	var start int
	switch {
	case input[0] == 0x1b && input[1] == 'P':
		start = 2
	case input[0] == 0x90:
		start = 1
	default:
		return TerminalResponse{}, false
	}

	if start+1 >= len(input) || input[start] != '>' || input[start+1] != '|' {
		return TerminalResponse{}, false
	}
	contentStart := start + 2

	stPos := -1
	for i := contentStart; i+1 < len(input); i++ {
		if input[i] == 0x1b && input[i+1] == '\\' {
			stPos = i
			break
		}
	}
	if stPos < 0 {
		for i := contentStart; i < len(input); i++ {
			if input[i] == 0x9c {
				stPos = i
				break
			}
		}
	}
	if stPos < 0 {
		return TerminalResponse{}, false
	}

	content := string(input[contentStart:stPos])
	name, version := content, ""
	if spacePos := strings.IndexByte(content, ' '); spacePos >= 0 {
		name, version = content[:spacePos], content[spacePos+1:]
	}

	return TerminalResponse{Kind: RespXtVersion, Name: name, Version: version}, true
}

// parsePixelSize parses "ESC [ 4 ; height ; width t".
func parsePixelSize(input []byte) (TerminalResponse, bool) {
	if len(input) < 6 || input[1] != '[' || input[2] != '4' || input[3] != ';' {
		return TerminalResponse{}, false
	}
	end := indexByte(input, 't')
	if end < 5 {
		return TerminalResponse{}, false
	}
	parts := strings.SplitN(string(input[4:end]), ";", 2)
	if len(parts) != 2 {
		return TerminalResponse{}, false
	}
	height, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return TerminalResponse{}, false
	}
	width, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return TerminalResponse{}, false
	}
	return TerminalResponse{Kind: RespPixelSize, Width: uint16(width), Height: uint16(height)}, true
}

// parseKittyKeyboard parses "ESC [ ? flags u".
func parseKittyKeyboard(input []byte) (TerminalResponse, bool) {
	if len(input) < 4 || input[1] != '[' || input[2] != '?' {
		return TerminalResponse{}, false
	}
	end := indexByte(input, 'u')
	if end < 3 {
		return TerminalResponse{}, false
	}
	flags, err := strconv.ParseUint(string(input[3:end]), 10, 32)
	if err != nil {
		return TerminalResponse{}, false
	}
	return TerminalResponse{Kind: RespKittyKeyboard, Flags: uint32(flags)}, true
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// AllQueries returns every capability query sequence concatenated, ready to
// be written to the terminal in one shot.
func AllQueries() string {
	return Query.DeviceAttributes + Query.DeviceAttributesSecondary +
		Query.XTVersion + Query.PixelResolution + Query.KittyKeyboard
}
