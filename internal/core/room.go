package core

// room groups the sessions sharing one room key. Rooms are created on
// first join and dropped once empty; only the hub goroutine touches them.
type room struct {
	key     string
	members map[*Client]struct{}
}

func newRoom(key string) *room {
	return &room{
		key:     key,
		members: make(map[*Client]struct{}),
	}
}

func (r *room) add(c *Client) {
	r.members[c] = struct{}{}
}

func (r *room) remove(c *Client) {
	delete(r.members, c)
}

// broadcast sends an event to every member of the room.
func (r *room) broadcast(ev *Event) {
	for c := range r.members {
		deliver(c, ev)
	}
}

func (r *room) empty() bool {
	return len(r.members) == 0
}

// deliver sends an event to one client without blocking the hub.
func deliver(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
