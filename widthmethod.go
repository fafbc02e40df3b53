package opentui

import (
	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// WidthMethod selects which display-width algorithm to use when measuring
// text. Different terminals and fonts disagree on how wide certain
// characters (CJK ambiguous-width, emoji ZWJ sequences) render, so callers
// can pick the method that matches their target terminal.
type WidthMethod int

const (
	// WidthMethodRuneWidth uses go-runewidth's per-rune East Asian width
	// tables. This is the default: it's what the wrapping/measurement paths
	// used before this package needed grapheme-cluster awareness.
	WidthMethodRuneWidth WidthMethod = iota
	// WidthMethodUniseg uses rivo/uniseg's grapheme-cluster-aware width
	// calculation, which correctly measures ZWJ emoji sequences and other
	// multi-codepoint clusters as a single unit.
	WidthMethodUniseg
)

// DefaultWidthMethod is used by callers that don't have a per-view override.
const DefaultWidthMethod = WidthMethodRuneWidth

// RuneDisplayWidth returns the terminal column width of a single rune.
func RuneDisplayWidth(r rune, method WidthMethod) int {
	switch method {
	case WidthMethodUniseg:
		return uniseg.StringWidth(string(r))
	default:
		return runewidth.RuneWidth(r)
	}
}

// StringDisplayWidth returns the terminal column width of a string,
// accounting for wide and zero-width runes per method.
func StringDisplayWidth(s string, method WidthMethod) int {
	switch method {
	case WidthMethodUniseg:
		return uniseg.StringWidth(s)
	default:
		return runewidth.StringWidth(s)
	}
}

// GraphemeClusterWidth measures a single grapheme cluster (possibly
// multi-codepoint, e.g. a ZWJ emoji sequence) as one unit. Grapheme clusters
// always need uniseg's boundary-aware measurement regardless of the
// configured WidthMethod, since go-runewidth has no concept of clusters.
func GraphemeClusterWidth(cluster string) int {
	return uniseg.StringWidth(cluster)
}

// SplitGraphemeClusters segments s into user-perceived characters using
// uax29's UAX #29 grapheme cluster boundary algorithm. This is what
// GraphemePool.Intern expects to receive one cluster at a time when interning
// multi-codepoint content (emoji ZWJ sequences, combining marks) pulled from
// a styled text source.
func SplitGraphemeClusters(s string) []string {
	var clusters []string
	seg := graphemes.FromString(s)
	for seg.Next() {
		clusters = append(clusters, seg.Value())
	}
	return clusters
}
