// Package editor implements the rich-text editing core: a block-model
// document surface, a formatting command dispatcher, a debounced
// persistence scheduler, and the per-note session state machine that
// ties them together.
package editor

type InlineStyle int

const (
	StyleBold InlineStyle = iota
	StyleItalic
	StyleUnderline
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

type ListKind int

const (
	ListNone ListKind = iota
	ListUnordered
	ListOrdered
)

type FontSize int

const (
	SizeDefault FontSize = iota
	SizeSmall
	SizeMedium
	SizeLarge
)

// FormatState mirrors the formatting active at the current selection.
// Alignment flags are mutually exclusive with each other, as are the
// two list flags. It is recomputed from the surface after every
// command, input event and selection change; it is never persisted.
type FormatState struct {
	Bold      bool `json:"bold"`
	Italic    bool `json:"italic"`
	Underline bool `json:"underline"`

	AlignLeft   bool `json:"align_left"`
	AlignCenter bool `json:"align_center"`
	AlignRight  bool `json:"align_right"`

	UnorderedList bool `json:"unordered_list"`
	OrderedList   bool `json:"ordered_list"`
}

// Surface is the capability interface over a rich-text editing surface.
// The dispatcher and session depend only on this interface, never on a
// concrete document, so both can be exercised against fakes.
type Surface interface {
	// Content.
	SetHTML(fragment string) error
	HTML() string

	// Focus and selection. Select addresses a single block by index
	// with rune offsets into its text; a collapsed range is a caret.
	Focus()
	Blur()
	Focused() bool
	Select(block, start, end int) error
	HasSelection() bool

	// Text editing at the current selection.
	InsertText(s string)
	DeleteBackward()
	InsertParagraph()
	ForceParagraph()

	// List structure around the current block.
	IndentItem()
	OutdentItem()
	InList() bool
	BlockEmpty() bool
	AtBlockStart() bool

	// Formatting commands.
	ApplyInlineStyle(style InlineStyle)
	ApplyAlignment(align Alignment)
	ToggleList(kind ListKind)
	ApplyFontSize(size FontSize)

	// QueryState reports the true resulting state of the surface, so
	// callers never have to trust a predicted toggle.
	QueryState() FormatState
}
