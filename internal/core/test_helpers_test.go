package core

import (
	"sync"
	"testing"
	"time"

	"github.com/Janikow/55Khat/internal/store"
)

// memStore is an in-memory store.Store for hub tests.
type memStore struct {
	mu         sync.Mutex
	bans       map[string]string
	identities map[string]*store.Identity
}

func newMemStore() *memStore {
	return &memStore{
		bans:       make(map[string]string),
		identities: make(map[string]*store.Identity),
	}
}

func (m *memStore) IsBanned(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.bans[ip]
	return ok
}

func (m *memStore) Ban(ip, by string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bans[ip] = by
	return nil
}

func (m *memStore) Unban(ip string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bans[ip]; !ok {
		return false, nil
	}
	delete(m.bans, ip)
	return true, nil
}

func (m *memStore) List() []store.BanRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.BanRecord, 0, len(m.bans))
	for ip, by := range m.bans {
		out = append(out, store.BanRecord{IP: ip, By: by})
	}
	return out
}

func (m *memStore) Lookup(name string) (*store.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.identities[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *id
	return &cp, nil
}

func (m *memStore) Save(id *store.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *id
	m.identities[id.Name] = &cp
	return nil
}

func (m *memStore) Close() error { return nil }

// mustEvent drains ch until an event of the wanted kind arrives.
func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("events channel closed while waiting for kind %v", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
		}
	}
}

// mustUserList drains ch until a roster with exactly want names arrives.
func mustUserList(t *testing.T, ch <-chan *Event, want ...string) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("events channel closed while waiting for roster %v", want)
			}
			if ev.Kind != EventUserList {
				continue
			}
			if len(ev.Users) != len(want) {
				continue
			}
			match := true
			for i, m := range ev.Users {
				if m.Name != want[i] {
					match = false
					break
				}
			}
			if match {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected roster %v not received", want)
		}
	}
}

// eventsUntilChat collects events from ch up to (and excluding) the chat
// message with the given text. Used to assert nothing unexpected arrived
// before a marker broadcast.
func eventsUntilChat(t *testing.T, ch <-chan *Event, marker string) []*Event {
	t.Helper()

	var seen []*Event
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("events channel closed while waiting for marker %q", marker)
			}
			if ev.Kind == EventChatMessage && ev.Chat.Text == marker {
				return seen
			}
			seen = append(seen, ev)
		case <-deadline:
			t.Fatalf("marker chat %q not received", marker)
		}
	}
}

// mustClosed waits for ch to be drained and closed.
func mustClosed(t *testing.T, ch <-chan *Event) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel was not closed")
		}
	}
}
