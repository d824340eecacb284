package editor

import (
	"fmt"
	"log"
)

// Command names the closed vocabulary of toolbar formatting actions.
type Command string

const (
	CmdBold          Command = "bold"
	CmdItalic        Command = "italic"
	CmdUnderline     Command = "underline"
	CmdAlignLeft     Command = "align-left"
	CmdAlignCenter   Command = "align-center"
	CmdAlignRight    Command = "align-right"
	CmdUnorderedList Command = "unordered-list"
	CmdOrderedList   Command = "ordered-list"
	CmdFontSize      Command = "font-size"
)

// ParseFontSize maps the toolbar size names to surface font sizes.
func ParseFontSize(v string) (FontSize, error) {
	switch v {
	case "small":
		return SizeSmall, nil
	case "medium":
		return SizeMedium, nil
	case "large":
		return SizeLarge, nil
	}
	return SizeDefault, fmt.Errorf("editor: unknown font size %q", v)
}

// Dispatcher translates toolbar commands into surface operations and
// maintains the reflected FormatState. After every applied command it
// re-queries the surface for the true resulting state instead of
// trusting a predicted toggle, and notifies onChange so the content
// mutation gets scheduled for persistence.
type Dispatcher struct {
	surface  Surface
	onChange func()
	state    FormatState
}

func NewDispatcher(surface Surface, onChange func()) *Dispatcher {
	d := &Dispatcher{surface: surface, onChange: onChange}
	if surface != nil {
		d.state = surface.QueryState()
	}
	return d
}

// Exec runs one command. With no mounted surface it is a logged no-op;
// with an unfocused surface it leaves content untouched but restores
// focus so subsequent typing continues uninterrupted.
func (d *Dispatcher) Exec(cmd Command, value string) FormatState {
	if d.surface == nil {
		log.Printf("editor: format %q ignored, no surface mounted", cmd)
		return d.state
	}
	if !d.surface.Focused() {
		d.surface.Focus()
		return d.state
	}

	switch cmd {
	case CmdBold:
		d.surface.ApplyInlineStyle(StyleBold)
	case CmdItalic:
		d.surface.ApplyInlineStyle(StyleItalic)
	case CmdUnderline:
		d.surface.ApplyInlineStyle(StyleUnderline)
	case CmdAlignLeft:
		d.surface.ApplyAlignment(AlignLeft)
	case CmdAlignCenter:
		d.surface.ApplyAlignment(AlignCenter)
	case CmdAlignRight:
		d.surface.ApplyAlignment(AlignRight)
	case CmdUnorderedList:
		d.surface.ToggleList(ListUnordered)
	case CmdOrderedList:
		d.surface.ToggleList(ListOrdered)
	case CmdFontSize:
		size, err := ParseFontSize(value)
		if err != nil {
			log.Printf("editor: %v", err)
			return d.state
		}
		d.surface.ApplyFontSize(size)
	default:
		log.Printf("editor: unknown format command %q", cmd)
		return d.state
	}

	d.state = d.surface.QueryState()
	if d.onChange != nil {
		d.onChange()
	}
	return d.state
}

// Refresh recomputes the state from the surface. Called on every input
// and selection-change event while the surface has focus.
func (d *Dispatcher) Refresh() FormatState {
	if d.surface != nil {
		d.state = d.surface.QueryState()
	}
	return d.state
}

func (d *Dispatcher) State() FormatState {
	return d.state
}
