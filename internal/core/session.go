package core

// Session is the authenticated state attached to a connection, owned
// exclusively by the hub. Display names are not unique among live
// sessions; the identity store is the only place a name is a key.
type Session struct {
	Name       string
	IP         string
	Room       string
	ProfilePic string
	Color      string
	Privileged bool
}

// Member is one roster entry as shown to room members.
type Member struct {
	Name       string
	ProfilePic string
	Color      string
}
