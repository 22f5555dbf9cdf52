package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin registers the connection under a display name (join-only mode).
	CommandJoin CommandKind = iota
	// CommandLogin registers the connection with credentials (credential mode).
	CommandLogin
	// CommandChat delivers a chat message to the sender's room.
	CommandChat
	// CommandWhisper delivers a private message to one named room member.
	CommandWhisper
	// CommandBan bans a user or IP (privileged).
	CommandBan
	// CommandUnban lifts an IP ban (privileged).
	CommandUnban
	// CommandSetColor changes the sender's display color.
	CommandSetColor
)

// JoinArgs carries join/login fields. Password, ProfilePic and Color are
// only meaningful in credential mode.
type JoinArgs struct {
	Name       string
	Password   string
	Room       string
	ProfilePic string
	Color      string
}

// ChatArgs carries a chat message payload. Text and Image are each
// optional; a frame with neither is ignored.
type ChatArgs struct {
	Text  string
	Image string
}

// Command represents an action requested by a client.
type Command struct {
	Kind   CommandKind
	Join   JoinArgs
	Chat   ChatArgs
	Target string // whisper/ban/unban target (name or IP literal)
	Text   string // whisper text
	Color  string // color change
}
