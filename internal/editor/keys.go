package editor

// Key is a keyboard event the session intercepts while the content
// surface has focus. All other keys reach the surface as plain text
// through InsertText.
type Key int

const (
	KeyTab Key = iota
	KeyShiftTab
	KeyEnter
	KeyBackspace
)

// PressKey wires the keyboard ergonomics:
//
//   - Tab / Shift+Tab indent or outdent the current list item instead
//     of moving focus.
//   - Enter on an empty node is held once; a second consecutive Enter
//     forces a paragraph break, which is how a list is exited.
//   - Backspace at the start of an empty list item outdents instead of
//     deleting, so the cursor cannot get trapped in the list.
//
// The held-Enter flag is an explicit field reset by every other event,
// keeping the exit gesture a small testable state machine.
func (s *Session) PressKey(k Key) FormatState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateNavigating || !s.surface.Focused() {
		return s.dispatcher.State()
	}

	held := s.enterHeld
	s.enterHeld = false

	switch k {
	case KeyTab:
		if s.surface.InList() {
			s.surface.IndentItem()
			s.dirtyLocked()
		}
	case KeyShiftTab:
		if s.surface.InList() {
			s.surface.OutdentItem()
			s.dirtyLocked()
		}
	case KeyEnter:
		if s.surface.BlockEmpty() {
			if held {
				s.surface.ForceParagraph()
				s.dirtyLocked()
			} else {
				s.enterHeld = true
			}
		} else {
			s.surface.InsertParagraph()
			s.dirtyLocked()
		}
	case KeyBackspace:
		if s.surface.InList() && s.surface.BlockEmpty() && s.surface.AtBlockStart() {
			s.surface.OutdentItem()
			s.dirtyLocked()
		} else {
			s.surface.DeleteBackward()
			s.dirtyLocked()
		}
	}

	return s.dispatcher.Refresh()
}
