package opentui

// TextAttributes packs style flags into the low 8 bits and an OSC 8
// hyperlink id into the upper 24 bits, mirroring the cell encoding used
// throughout the buffer and ANSI writer so a Cell stays a small, Copy-able
// value instead of carrying a pointer to style data.
type TextAttributes uint32

const (
	AttrBold TextAttributes = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrHidden
	AttrStrikethrough
)

const (
	attrFlagsMask   TextAttributes = 0x0000_00FF
	attrLinkIDMask  TextAttributes = 0xFFFF_FF00
	attrLinkIDShift              = 8
	// MaxLinkID is the largest hyperlink id that fits in the packed 24 bits.
	MaxLinkID uint32 = 0x00FF_FFFF
)

// LinkID extracts the packed hyperlink id, or 0 if none is set.
func (a TextAttributes) LinkID() uint32 {
	return uint32(a&attrLinkIDMask) >> attrLinkIDShift
}

// HasLink reports whether a carries a nonzero hyperlink id.
func (a TextAttributes) HasLink() bool {
	return a.LinkID() != 0
}

// WithLinkID returns a with the given hyperlink id packed in, masked to 24 bits.
func (a TextAttributes) WithLinkID(linkID uint32) TextAttributes {
	id := TextAttributes(linkID) & (attrLinkIDMask >> attrLinkIDShift)
	return (a & attrFlagsMask) | (id << attrLinkIDShift)
}

// ClearLinkID strips the hyperlink id, preserving style flags.
func (a TextAttributes) ClearLinkID() TextAttributes {
	return a & attrFlagsMask
}

// FlagsOnly returns a with its link id masked off.
func (a TextAttributes) FlagsOnly() TextAttributes {
	return a & attrFlagsMask
}

// Has reports whether all bits of flag are set.
func (a TextAttributes) Has(flag TextAttributes) bool {
	return a&flag == flag
}

// Merge ORs the style flags together and prefers other's link id when set.
func (a TextAttributes) Merge(other TextAttributes) TextAttributes {
	flags := (a | other) & attrFlagsMask
	linkBits := a & attrLinkIDMask
	if other&attrLinkIDMask != 0 {
		linkBits = other & attrLinkIDMask
	}
	return flags | linkBits
}

// Style is a complete, immutable text style: colors plus attributes. nil Fg
// or Bg means "use terminal default" rather than a specific color, so merged
// styles can fall back to whatever the terminal or parent element already
// has.
type Style struct {
	Fg         *Rgba
	Bg         *Rgba
	Attributes TextAttributes
}

// NoStyle has no colors or attributes set.
var NoStyle = Style{}

// StyleFg builds a style with only a foreground color.
func StyleFg(c Rgba) Style {
	return Style{Fg: &c}
}

// StyleBg builds a style with only a background color.
func StyleBg(c Rgba) Style {
	return Style{Bg: &c}
}

// StyleBold builds a bold-only style.
func StyleBold() Style {
	return Style{Attributes: AttrBold}
}

// StyleItalic builds an italic-only style.
func StyleItalic() Style {
	return Style{Attributes: AttrItalic}
}

// StyleUnderline builds an underline-only style.
func StyleUnderline() Style {
	return Style{Attributes: AttrUnderline}
}

// StyleDim builds a dim-only style.
func StyleDim() Style {
	return Style{Attributes: AttrDim}
}

// StyleInverse builds an inverse-only style.
func StyleInverse() Style {
	return Style{Attributes: AttrInverse}
}

// StyleStrikethrough builds a strikethrough-only style.
func StyleStrikethrough() Style {
	return Style{Attributes: AttrStrikethrough}
}

// WithFg returns a copy of s with the foreground color set.
func (s Style) WithFg(c Rgba) Style {
	s.Fg = &c
	return s
}

// WithBg returns a copy of s with the background color set.
func (s Style) WithBg(c Rgba) Style {
	s.Bg = &c
	return s
}

// WithAttributes returns a copy of s with attrs merged in.
func (s Style) WithAttributes(attrs TextAttributes) Style {
	s.Attributes = s.Attributes.Merge(attrs)
	return s
}

// WithBold returns a copy of s with the bold attribute added.
func (s Style) WithBold() Style {
	return s.WithAttributes(AttrBold)
}

// WithItalic returns a copy of s with the italic attribute added.
func (s Style) WithItalic() Style {
	return s.WithAttributes(AttrItalic)
}

// WithUnderline returns a copy of s with the underline attribute added.
func (s Style) WithUnderline() Style {
	return s.WithAttributes(AttrUnderline)
}

// WithLink returns a copy of s carrying the given hyperlink id.
func (s Style) WithLink(linkID uint32) Style {
	s.Attributes = s.Attributes.WithLinkID(linkID)
	return s
}

// IsEmpty reports whether s has no colors or attributes set.
func (s Style) IsEmpty() bool {
	return s.Fg == nil && s.Bg == nil && s.Attributes == 0
}

// Merge combines s with other, with other taking precedence for any value
// it sets explicitly.
func (s Style) Merge(other Style) Style {
	result := Style{Fg: s.Fg, Bg: s.Bg, Attributes: s.Attributes.Merge(other.Attributes)}
	if other.Fg != nil {
		result.Fg = other.Fg
	}
	if other.Bg != nil {
		result.Bg = other.Bg
	}
	return result
}

// StyleBuilder fluently constructs a Style.
type StyleBuilder struct {
	style Style
}

// NewStyleBuilder starts a new StyleBuilder.
func NewStyleBuilder() *StyleBuilder {
	return &StyleBuilder{}
}

func (b *StyleBuilder) Fg(c Rgba) *StyleBuilder {
	b.style.Fg = &c
	return b
}

func (b *StyleBuilder) Bg(c Rgba) *StyleBuilder {
	b.style.Bg = &c
	return b
}

func (b *StyleBuilder) Bold() *StyleBuilder {
	b.style.Attributes |= AttrBold
	return b
}

func (b *StyleBuilder) Dim() *StyleBuilder {
	b.style.Attributes |= AttrDim
	return b
}

func (b *StyleBuilder) Italic() *StyleBuilder {
	b.style.Attributes |= AttrItalic
	return b
}

func (b *StyleBuilder) Underline() *StyleBuilder {
	b.style.Attributes |= AttrUnderline
	return b
}

func (b *StyleBuilder) Blink() *StyleBuilder {
	b.style.Attributes |= AttrBlink
	return b
}

func (b *StyleBuilder) Inverse() *StyleBuilder {
	b.style.Attributes |= AttrInverse
	return b
}

func (b *StyleBuilder) Hidden() *StyleBuilder {
	b.style.Attributes |= AttrHidden
	return b
}

func (b *StyleBuilder) Strikethrough() *StyleBuilder {
	b.style.Attributes |= AttrStrikethrough
	return b
}

func (b *StyleBuilder) Link(linkID uint32) *StyleBuilder {
	b.style.Attributes = b.style.Attributes.WithLinkID(linkID)
	return b
}

func (b *StyleBuilder) Build() Style {
	return b.style
}
