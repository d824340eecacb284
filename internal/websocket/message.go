package websocket

import (
	"encoding/json"
	"time"

	"quillpad-server/internal/editor"
)

type MessageType string

// Client-to-server types mirror the edit surface: text entry, keys,
// selection, formatting commands and the two exit paths. The server
// answers with format state, navigation orders and save receipts.
const (
	TypeTitle  MessageType = "title"
	TypeInsert MessageType = "insert"
	TypeKey    MessageType = "key"
	TypeSelect MessageType = "select"
	TypeFormat MessageType = "format"
	TypeBack   MessageType = "back"
	TypeDelete MessageType = "delete"

	TypeFormatState MessageType = "format_state"
	TypeNavigate    MessageType = "navigate"
	TypeSaved       MessageType = "saved"
	TypeError       MessageType = "error"

	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type TitlePayload struct {
	Title string `json:"title"`
}

type InsertPayload struct {
	Text string `json:"text"`
}

type KeyPayload struct {
	Key string `json:"key"`
}

type SelectPayload struct {
	Block int `json:"block"`
	Start int `json:"start"`
	End   int `json:"end"`
}

type FormatPayload struct {
	Command string `json:"command"`
	Value   string `json:"value,omitempty"`
}

type FormatStatePayload struct {
	State editor.FormatState `json:"state"`
}

type NavigatePayload struct {
	Route string `json:"route"`
}

type SavedPayload struct {
	NoteID    string    `json:"note_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
