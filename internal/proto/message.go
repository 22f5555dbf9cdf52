// Package proto defines the JSON frames exchanged with clients.
package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin    = "join"
	InboundTypeLogin   = "login"
	InboundTypeChat    = "chat_message"
	InboundTypeWhisper = "whisper"
	InboundTypeBan     = "ban"
	InboundTypeUnban   = "unban"
	InboundTypeColor   = "color"

	OutboundTypeUserList    = "user_list"
	OutboundTypeChat        = "chat_message"
	OutboundTypeSystem      = "system"
	OutboundTypeBanned      = "banned"
	OutboundTypeLoginResult = "login_result"
)

// JoinData registers the connection under a display name (join-only mode).
type JoinData struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// LoginData registers the connection with credentials (credential mode).
type LoginData struct {
	Name       string `json:"name"`
	Password   string `json:"password"`
	Room       string `json:"room"`
	ProfilePic string `json:"profile_pic,omitempty"`
	Color      string `json:"color,omitempty"`
}

// ChatData is a chat message from the client. Image is a data-URI string.
type ChatData struct {
	User  string `json:"user,omitempty"`
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// WhisperData is the explicit-command form of a whisper.
type WhisperData struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// TargetData is the explicit-command form of ban/unban.
type TargetData struct {
	Target string `json:"target"`
}

// ColorData changes the sender's display color.
type ColorData struct {
	Color string `json:"color"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// UserEntry is one roster element.
type UserEntry struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profile_pic,omitempty"`
	Color      string `json:"color,omitempty"`
}

// UserListData is a roster snapshot for the client's room.
type UserListData struct {
	Users []UserEntry `json:"users"`
}

// ChatMessageData is an echoed/broadcast chat message, decorated with the
// sender's resolved profile and color. Whisper/To tag private messages.
type ChatMessageData struct {
	User       string `json:"user"`
	Text       string `json:"text,omitempty"`
	Image      string `json:"image,omitempty"`
	Color      string `json:"color,omitempty"`
	ProfilePic string `json:"profile_pic,omitempty"`
	Whisper    bool   `json:"whisper,omitempty"`
	To         string `json:"to,omitempty"`
}

// SystemData is a local system notice.
type SystemData struct {
	Text string `json:"text"`
}

// BannedData tells a connection it has been banned. IP is masked.
type BannedData struct {
	By string `json:"by"`
	IP string `json:"ip,omitempty"`
}

// LoginResultData reports the credential-mode login outcome.
type LoginResultData struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
