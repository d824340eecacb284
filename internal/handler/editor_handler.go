package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"quillpad-server/internal/domain"
	"quillpad-server/internal/editor"
	"quillpad-server/internal/service"
	"quillpad-server/internal/websocket"
	"quillpad-server/pkg/jwt"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

// SignInRoute is where clients are sent when their token expires
// mid-session.
const SignInRoute = "/sign-in"

// EditorHandler owns the live editing surface: each websocket
// connection gets its own editor.Session seeded from the note it
// opened, and every inbound message is translated into a session
// operation. Saves flow through NoteService, so sanitization and
// ownership checks apply to live edits the same as to REST writes.
type EditorHandler struct {
	manager        *websocket.Manager
	noteService    *service.NoteService
	watcher        *service.SessionWatcher
	jwtSecret      string
	debounceWindow time.Duration
	upgrader       ws.Upgrader

	mu       sync.Mutex
	sessions map[string]*editor.Session
}

func NewEditorHandler(manager *websocket.Manager, noteService *service.NoteService, watcher *service.SessionWatcher, jwtSecret string, debounceWindow time.Duration) *EditorHandler {
	h := &EditorHandler{
		manager:        manager,
		noteService:    noteService,
		watcher:        watcher,
		jwtSecret:      jwtSecret,
		debounceWindow: debounceWindow,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: make(map[string]*editor.Session),
	}
	manager.SetMessageHandler(h)
	manager.SetCloseHandler(h.closeSession)
	return h
}

func (h *EditorHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
	}

	if token == "" {
		http.Error(w, "missing authorization token", http.StatusUnauthorized)
		return
	}

	claims, err := jwt.ValidateToken(token, h.jwtSecret)
	if err != nil {
		log.Printf("[Editor] Token validation failed: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	noteID := r.URL.Query().Get("note_id")
	if noteID == "" {
		http.Error(w, "missing note_id", http.StatusBadRequest)
		return
	}

	note, err := h.noteService.GetByID(userID, noteID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			http.Error(w, "note does not belong to user", http.StatusForbidden)
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, "note not found", http.StatusNotFound)
		default:
			http.Error(w, "failed to load note", http.StatusInternalServerError)
		}
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Editor] Failed to upgrade connection: %v", err)
		return
	}

	clientID := uuid.New().String()
	client := websocket.NewClient(clientID, userID, noteID, conn, h.manager)

	session, err := editor.NewSession(editor.Config{
		NoteID:  noteID,
		OwnerID: userID,
		Title:   note.Title,
		Content: note.Content,
		Store:   &sessionStore{notes: h.noteService, manager: h.manager, clientID: clientID, userID: userID},
		Navigator: &sessionNavigator{
			manager:  h.manager,
			clientID: clientID,
		},
		Window: h.debounceWindow,
	})
	if err != nil {
		log.Printf("[Editor] Failed to open session for note %s: %v", noteID, err)
		conn.Close()
		return
	}

	h.mu.Lock()
	h.sessions[clientID] = session
	h.mu.Unlock()

	if claims.ExpiresAt != nil {
		h.watcher.Subscribe(clientID, claims.ExpiresAt.Time, func() {
			h.expireSession(clientID)
		})
	}

	// Queue the opening format state before registration so it is the
	// first frame the client sees once the write pump starts.
	if msg, err := websocket.NewMessage(websocket.TypeFormatState, &websocket.FormatStatePayload{State: session.FormatState()}); err == nil {
		if raw, err := json.Marshal(msg); err == nil {
			client.Send <- raw
		}
	}

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()

	log.Printf("[Editor] Session opened: note %s, user %s", noteID, userID)
}

func (h *EditorHandler) HandleWebSocketMessage(client *websocket.Client, msg *websocket.Message) error {
	h.mu.Lock()
	session := h.sessions[client.ID]
	h.mu.Unlock()
	if session == nil {
		return errors.New("no editing session for client")
	}

	switch msg.Type {
	case websocket.TypeTitle:
		var p websocket.TitlePayload
		if err := msg.UnmarshalPayload(&p); err != nil {
			return err
		}
		session.SetTitle(p.Title)
		return nil

	case websocket.TypeInsert:
		var p websocket.InsertPayload
		if err := msg.UnmarshalPayload(&p); err != nil {
			return err
		}
		return h.sendState(client.ID, session.InsertText(p.Text))

	case websocket.TypeKey:
		var p websocket.KeyPayload
		if err := msg.UnmarshalPayload(&p); err != nil {
			return err
		}
		key, err := parseKey(p.Key)
		if err != nil {
			return h.sendError(client.ID, err)
		}
		return h.sendState(client.ID, session.PressKey(key))

	case websocket.TypeSelect:
		var p websocket.SelectPayload
		if err := msg.UnmarshalPayload(&p); err != nil {
			return err
		}
		state, err := session.Select(p.Block, p.Start, p.End)
		if err != nil {
			return h.sendError(client.ID, err)
		}
		return h.sendState(client.ID, state)

	case websocket.TypeFormat:
		var p websocket.FormatPayload
		if err := msg.UnmarshalPayload(&p); err != nil {
			return err
		}
		return h.sendState(client.ID, session.Format(editor.Command(p.Command), p.Value))

	case websocket.TypeBack:
		session.Back()
		return nil

	case websocket.TypeDelete:
		session.Delete(context.Background())
		return nil

	case websocket.TypePing:
		pong, err := websocket.NewMessage(websocket.TypePong, nil)
		if err != nil {
			return err
		}
		return h.manager.SendToClient(client.ID, pong)

	default:
		log.Printf("[Editor] unknown message type: %s", msg.Type)
	}

	return nil
}

func (h *EditorHandler) sendState(clientID string, state editor.FormatState) error {
	msg, err := websocket.NewMessage(websocket.TypeFormatState, &websocket.FormatStatePayload{State: state})
	if err != nil {
		return err
	}
	return h.manager.SendToClient(clientID, msg)
}

func (h *EditorHandler) sendError(clientID string, cause error) error {
	msg, err := websocket.NewMessage(websocket.TypeError, &websocket.ErrorPayload{Error: cause.Error()})
	if err != nil {
		return err
	}
	return h.manager.SendToClient(clientID, msg)
}

// expireSession tells the client to re-authenticate. The session stays
// open so an unsaved burst still gets flushed; the next upgrade attempt
// with the stale token is rejected anyway.
func (h *EditorHandler) expireSession(clientID string) {
	msg, err := websocket.NewMessage(websocket.TypeNavigate, &websocket.NavigatePayload{Route: SignInRoute})
	if err != nil {
		return
	}
	h.manager.SendToClient(clientID, msg)
}

func (h *EditorHandler) closeSession(client *websocket.Client) {
	h.mu.Lock()
	session := h.sessions[client.ID]
	delete(h.sessions, client.ID)
	h.mu.Unlock()

	h.watcher.Unsubscribe(client.ID)

	if session != nil {
		session.Close()
		log.Printf("[Editor] Session closed: note %s, user %s", client.NoteID, client.UserID)
	}
}

func parseKey(name string) (editor.Key, error) {
	switch name {
	case "tab":
		return editor.KeyTab, nil
	case "shift-tab":
		return editor.KeyShiftTab, nil
	case "enter":
		return editor.KeyEnter, nil
	case "backspace":
		return editor.KeyBackspace, nil
	}
	return 0, errors.New("unknown key: " + name)
}

// sessionStore adapts NoteService to the session's store contract and
// fans a save receipt out to the user's connections.
type sessionStore struct {
	notes    *service.NoteService
	manager  *websocket.Manager
	clientID string
	userID   string
}

func (st *sessionStore) UpdateNote(ctx context.Context, id, ownerID, title, content string) error {
	resp, err := st.notes.Update(ownerID, id, &domain.UpdateNoteRequest{
		Title:   &title,
		Content: &content,
	})
	if err != nil {
		return err
	}

	msg, err := websocket.NewMessage(websocket.TypeSaved, &websocket.SavedPayload{
		NoteID:    id,
		UpdatedAt: resp.UpdatedAt,
	})
	if err != nil {
		return err
	}

	st.manager.SendToClient(st.clientID, msg)
	st.manager.BroadcastToUser(st.userID, msg, st.clientID)
	return nil
}

func (st *sessionStore) DeleteNote(ctx context.Context, id, ownerID string) error {
	return st.notes.Delete(ownerID, id)
}

// sessionNavigator delivers navigation orders to the owning client.
type sessionNavigator struct {
	manager  *websocket.Manager
	clientID string
}

func (n *sessionNavigator) NavigateTo(route string) {
	msg, err := websocket.NewMessage(websocket.TypeNavigate, &websocket.NavigatePayload{Route: route})
	if err != nil {
		return
	}
	n.manager.SendToClient(n.clientID, msg)
}
