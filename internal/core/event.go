package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventChatMessage carries a public or whispered chat message.
	EventChatMessage EventKind = iota
	// EventUserList carries a roster snapshot for the client's room.
	EventUserList
	// EventSystem carries a local system notice (usage errors, admin feedback).
	EventSystem
	// EventBanned tells a connection it has been banned.
	EventBanned
	// EventLoginResult reports the outcome of a credential-mode login.
	EventLoginResult
)

// ChatPayload is a chat message decorated with the sender's resolved
// profile and color. Whisper marks a private message; To names its
// recipient.
type ChatPayload struct {
	User       string
	Text       string
	Image      string
	Color      string
	ProfilePic string
	Whisper    bool
	To         string
}

// BannedPayload tells a connection who banned it. IP is masked.
type BannedPayload struct {
	By string
	IP string
}

// LoginResult reports a credential-mode login outcome.
type LoginResult struct {
	Success bool
	Message string
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind   EventKind
	Chat   *ChatPayload
	Users  []Member
	Text   string // system notice text
	Banned *BannedPayload
	Login  *LoginResult
}

func systemEvent(text string) *Event {
	return &Event{Kind: EventSystem, Text: text}
}
