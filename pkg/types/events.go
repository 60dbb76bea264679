package types

import "encoding/json"

// Inbound event names, one per client action.
const (
	EventUserJoin         = "user_join"
	EventJoinRoom         = "join_room"
	EventSendMessage      = "send_message"
	EventTyping           = "typing"
	EventPrivateMessage   = "private_message"
	EventAddReaction      = "add_reaction"
	EventMarkRead         = "mark_read"
	EventSearchMessages   = "search_messages"
	EventGetOlderMessages = "get_older_messages"
)

// Outbound event names.
const (
	EventUserList        = "user_list"
	EventUserJoined      = "user_joined"
	EventUserJoinedRoom  = "user_joined_room"
	EventUserLeftRoom    = "user_left_room"
	EventUserLeft        = "user_left"
	EventMessageHistory  = "message_history"
	EventReceiveMessage  = "receive_message"
	EventTypingUsers     = "typing_users"
	EventUnreadUpdate    = "unread_update"
	EventMessageUpdated  = "message_updated"
	EventSearchResults   = "search_results"
	EventOlderMessages   = "older_messages"
	EventSystem          = "system"
)

// Envelope is the wire framing for both directions: a named event with a
// structured payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound payloads. Field names follow the client wire format.

type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type SwitchRoomPayload struct {
	Room string `json:"room"`
}

type SendMessagePayload struct {
	Message string `json:"message"`
	Room    string `json:"room"`
}

type TypingPayload struct {
	IsTyping bool   `json:"isTyping"`
	Room     string `json:"room"`
}

type PrivateMessagePayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type ReactionPayload struct {
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
	Room      string `json:"room"`
}

type MarkReadPayload struct {
	Room string `json:"room"`
}

type SearchPayload struct {
	Query string `json:"query"`
	Room  string `json:"room"`
}

type OlderMessagesPayload struct {
	Room     string `json:"room"`
	BeforeID string `json:"beforeId"`
	Limit    int    `json:"limit"`
}

// Outbound payloads that are not plain message or session lists.

type UserPresencePayload struct {
	Username string `json:"username"`
	ID       string `json:"id,omitempty"`
	Room     string `json:"room"`
}

type TypingUsersPayload struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

type SystemPayload struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}
