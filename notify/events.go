package notify

import "github.com/fundwit/go-commons/types"

// wire event names emitted to connected clients
const (
	EventChatUpdated     = "chat-updated"
	EventUserChats       = "user-chats"
	EventEditUser        = "edit-user"
	EventSetStatusOnline = "set-status-online"
	EventTyping          = "typing"
	EventStopTyping      = "stop-typing"
)

const (
	ChangeAdd    = "add"
	ChangeEdit   = "edit"
	ChangeDelete = "delete"
)

// ChatUpdated is sent into an entity room when its content changes.
type ChatUpdated struct {
	Event      string   `json:"event"`
	MessageID  types.ID `json:"messageId,omitempty"`
	UserID     types.ID `json:"userId,omitempty"`
	NewContent string   `json:"newContent,omitempty"`
	SmthID     types.ID `json:"smthId"`
	Type       string   `json:"type"`
}

// UserChats is sent into a user's personal room when a conversation appears
// in or disappears from their chat list.
type UserChats struct {
	Event  string   `json:"event"`
	Type   string   `json:"type"`
	SmthID types.ID `json:"smthId"`
}

// StatusOnline is sent into a status room when the watched user's presence
// changes.
type StatusOnline struct {
	UserID types.ID `json:"userId"`
	Online bool     `json:"online"`
}

// Typing is relayed into an entity room while a member is composing.
type Typing struct {
	UserID types.ID `json:"userId"`
	SmthID types.ID `json:"smthId"`
	Type   string   `json:"type"`
}
