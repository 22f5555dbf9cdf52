// Package file implements store.Store on top of plain JSON files,
// rewritten wholesale on every mutation with a write-then-rename swap.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Janikow/55Khat/internal/store"
)

const (
	banFileName      = "ip_bans.json"
	identityFileName = "identities.json"
)

type banEntry struct {
	By string    `json:"by"`
	At time.Time `json:"at"`
}

type identityEntry struct {
	CredentialHash string `json:"credential_hash"`
	ProfilePic     string `json:"profile_pic,omitempty"`
}

// Store keeps bans and identities in memory and mirrors every mutation
// to JSON files under a data directory.
type Store struct {
	mu         sync.Mutex
	banPath    string
	identPath  string
	bans       map[string]banEntry
	identities map[string]identityEntry
	log        *zerolog.Logger
}

// New opens (or creates) the file store rooted at dataDir. A missing or
// unreadable file degrades to an empty set: availability over strictness.
func New(dataDir string, logger *zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		banPath:    filepath.Join(dataDir, banFileName),
		identPath:  filepath.Join(dataDir, identityFileName),
		bans:       make(map[string]banEntry),
		identities: make(map[string]identityEntry),
		log:        logger,
	}

	if err := loadJSON(s.banPath, &s.bans); err != nil {
		logger.Warn().Err(err).Str("path", s.banPath).Msg("ban list unreadable, starting empty")
		s.bans = make(map[string]banEntry)
	}
	if err := loadJSON(s.identPath, &s.identities); err != nil {
		logger.Warn().Err(err).Str("path", s.identPath).Msg("identity file unreadable, starting empty")
		s.identities = make(map[string]identityEntry)
	}

	return s, nil
}

// IsBanned reports whether ip is currently banned.
func (s *Store) IsBanned(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bans[ip]
	return ok
}

// Ban records ip as banned by the given issuer and persists the set.
func (s *Store) Ban(ip, by string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bans[ip] = banEntry{By: by, At: time.Now().UTC()}
	return s.persist(s.banPath, s.bans)
}

// Unban removes ip from the banned set. Returns false if it was not banned.
func (s *Store) Unban(ip string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bans[ip]; !ok {
		return false, nil
	}
	delete(s.bans, ip)
	return true, s.persist(s.banPath, s.bans)
}

// List returns a snapshot of all ban records.
func (s *Store) List() []store.BanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.BanRecord, 0, len(s.bans))
	for ip, e := range s.bans {
		out = append(out, store.BanRecord{IP: ip, By: e.By, CreatedAt: e.At})
	}
	return out
}

// Lookup returns the identity registered under name.
func (s *Store) Lookup(name string) (*store.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.identities[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Identity{Name: name, CredentialHash: e.CredentialHash, ProfilePic: e.ProfilePic}, nil
}

// Save creates or replaces the identity registered under id.Name.
func (s *Store) Save(id *store.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[id.Name] = identityEntry{CredentialHash: id.CredentialHash, ProfilePic: id.ProfilePic}
	return s.persist(s.identPath, s.identities)
}

// Close is a no-op for the file backend.
func (s *Store) Close() error { return nil }

// persist rewrites path with the JSON encoding of v, via a temp file and
// rename so a crash mid-write leaves the previous version intact.
func (s *Store) persist(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
