package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an identity lookup misses.
var ErrNotFound = errors.New("identity not found")

// BanRecord describes one banned IP address.
type BanRecord struct {
	IP        string
	By        string
	CreatedAt time.Time
}

// Identity is a registered display name with its credential hash and
// last-known profile image.
type Identity struct {
	Name           string
	CredentialHash string
	ProfilePic     string
}

// BanStore persists the set of banned IP addresses. Mutations must be
// durable before they return; implementations must be safe for
// concurrent use.
type BanStore interface {
	// IsBanned reports whether ip is currently banned.
	IsBanned(ip string) bool

	// Ban adds ip to the banned set, recording who issued it. The
	// in-memory set is updated even if persistence fails; the error
	// reports the persistence outcome.
	Ban(ip, by string) error

	// Unban removes ip from the banned set. Returns false if ip was
	// not banned.
	Unban(ip string) (bool, error)

	// List returns a snapshot of all ban records.
	List() []BanRecord
}

// IdentityStore persists registered identities for credential mode.
type IdentityStore interface {
	// Lookup returns the identity registered under name, or ErrNotFound.
	Lookup(name string) (*Identity, error)

	// Save creates or replaces the identity registered under id.Name.
	Save(id *Identity) error
}

// Store aggregates all persistence interfaces.
type Store interface {
	BanStore
	IdentityStore

	// Close releases the underlying storage.
	Close() error
}
