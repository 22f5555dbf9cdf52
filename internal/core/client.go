package core

// Client is one live connection as seen by the core layer. The transport
// writes inbound commands to Commands and drains Events back to the peer;
// the hub closes Events when the connection is terminated.
type Client struct {
	ID       string
	IP       string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels. ip must
// already be normalized by the connection gate.
func NewClient(id, ip string) *Client {
	return &Client{
		ID:       id,
		IP:       ip,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
	}
}
