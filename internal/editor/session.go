package editor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// State is the lifecycle state of an editing session.
type State int

const (
	// StateIdle: surface rendered, no pending save.
	StateIdle State = iota
	// StateDirty: a change occurred and the save timer is running.
	StateDirty
	// StateNavigating: back or delete was issued; terminal for the
	// session, which is expected to be torn down by navigation.
	StateNavigating
)

// ListRoute is the notes dashboard the session navigates back to.
const ListRoute = "/protected"

// DefaultDebounceWindow batches keystroke bursts while keeping
// perceived staleness low.
const DefaultDebounceWindow = time.Second

// Store is the data-store collaborator. All calls are scoped by the
// owning account.
type Store interface {
	UpdateNote(ctx context.Context, id, ownerID, title, content string) error
	DeleteNote(ctx context.Context, id, ownerID string) error
}

// Navigator is the routing collaborator.
type Navigator interface {
	NavigateTo(route string)
}

// Config seeds a session with a note's working copy and collaborators.
type Config struct {
	NoteID  string
	OwnerID string
	Title   string
	Content string

	Store     Store
	Navigator Navigator

	// Window overrides the debounce quiescence window; zero means
	// DefaultDebounceWindow. Surface overrides the default Document.
	Window  time.Duration
	Surface Surface
}

// Session binds a single note's title and content to an editing
// surface, keyboard ergonomics, and lifecycle actions. It owns the
// debounce timer; edits keep being accepted while saves are in flight,
// and the last save to complete wins at the store.
type Session struct {
	noteID  string
	ownerID string
	store   Store
	nav     Navigator

	surface    Surface
	dispatcher *Dispatcher
	debouncer  *Debouncer

	mu        sync.Mutex
	title     string
	state     State
	enterHeld bool
}

// NewSession seeds the surface from the note's persisted content
// exactly once; later external changes to the note are not reflected.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Store == nil || cfg.Navigator == nil {
		return nil, errors.New("editor: session requires a store and a navigator")
	}

	surface := cfg.Surface
	if surface == nil {
		surface = NewDocument()
	}
	if err := surface.SetHTML(cfg.Content); err != nil {
		return nil, err
	}

	window := cfg.Window
	if window <= 0 {
		window = DefaultDebounceWindow
	}

	s := &Session{
		noteID:  cfg.NoteID,
		ownerID: cfg.OwnerID,
		store:   cfg.Store,
		nav:     cfg.Navigator,
		surface: surface,
		title:   cfg.Title,
	}
	s.debouncer = NewDebouncer(window, s.save)
	s.dispatcher = NewDispatcher(surface, s.dirtyLocked)
	return s, nil
}

// dirtyLocked is only called with s.mu held (directly or through the
// dispatcher, whose Exec runs under the session lock).
func (s *Session) dirtyLocked() {
	s.state = StateDirty
	s.debouncer.Trigger()
}

// save snapshots the working copy and issues the update. The session
// returns to Idle as soon as the save is issued; failures are logged
// and the next debounce cycle will try again with then-current content.
func (s *Session) save() {
	s.mu.Lock()
	if s.state == StateNavigating {
		s.mu.Unlock()
		return
	}
	title := s.title
	content := s.surface.HTML()
	s.state = StateIdle
	s.mu.Unlock()

	if err := s.store.UpdateNote(context.Background(), s.noteID, s.ownerID, title, content); err != nil {
		log.Printf("editor: error saving note %s: %v", s.noteID, err)
	}
}

// SetTitle records a title keystroke.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateNavigating {
		return
	}
	s.title = title
	s.enterHeld = false
	s.dirtyLocked()
}

// InsertText records typing on the content surface and returns the
// recomputed format state.
func (s *Session) InsertText(text string) FormatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateNavigating {
		return s.dispatcher.State()
	}
	s.surface.Focus()
	s.surface.InsertText(text)
	s.enterHeld = false
	s.dirtyLocked()
	return s.dispatcher.Refresh()
}

// Format dispatches a toolbar command.
func (s *Session) Format(cmd Command, value string) FormatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateNavigating {
		return s.dispatcher.State()
	}
	s.enterHeld = false
	return s.dispatcher.Exec(cmd, value)
}

// Select moves the selection and, while the surface has focus, returns
// the state recomputed at the new selection.
func (s *Session) Select(blockIdx, start, end int) (FormatState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.surface.Select(blockIdx, start, end); err != nil {
		return s.dispatcher.State(), err
	}
	s.enterHeld = false
	if !s.surface.Focused() {
		return s.dispatcher.State(), nil
	}
	return s.dispatcher.Refresh(), nil
}

// Back cancels the pending save timer and navigates to the notes list
// without mutating the note.
func (s *Session) Back() {
	s.mu.Lock()
	if s.state == StateNavigating {
		s.mu.Unlock()
		return
	}
	s.state = StateNavigating
	s.mu.Unlock()

	s.debouncer.Stop()
	s.nav.NavigateTo(ListRoute)
}

// Delete issues the owner-scoped delete and navigates to the list once
// the call settles, regardless of its outcome. Failures are logged.
func (s *Session) Delete(ctx context.Context) {
	s.mu.Lock()
	if s.state == StateNavigating {
		s.mu.Unlock()
		return
	}
	s.state = StateNavigating
	s.mu.Unlock()

	s.debouncer.Stop()
	if err := s.store.DeleteNote(ctx, s.noteID, s.ownerID); err != nil {
		log.Printf("editor: error deleting note %s: %v", s.noteID, err)
	}
	s.nav.NavigateTo(ListRoute)
}

// Close cancels any pending save timer. It must be called when the
// session is unmounted; in-flight saves are allowed to finish.
func (s *Session) Close() {
	s.debouncer.Stop()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Navigating() bool {
	return s.State() == StateNavigating
}

func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.HTML()
}

func (s *Session) FormatState() FormatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatcher.State()
}
