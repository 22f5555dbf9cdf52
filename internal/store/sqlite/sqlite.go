// Package sqlite implements store.Store on SQLite, for deployments that
// prefer a single database file over the JSON file pair.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Janikow/55Khat/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS bans (
	ip         TEXT PRIMARY KEY,
	banned_by  TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS identities (
	name            TEXT PRIMARY KEY,
	credential_hash TEXT NOT NULL,
	profile_pic     TEXT NOT NULL DEFAULT ''
);
`

// Store implements store.Store for SQLite.
type Store struct {
	db *sql.DB
}

// New opens the SQLite database at dbPath and applies the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// IsBanned reports whether ip is currently banned.
func (s *Store) IsBanned(ip string) bool {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM bans WHERE ip = ?`, ip).Scan(&one)
	return err == nil
}

// Ban records ip as banned by the given issuer.
func (s *Store) Ban(ip, by string) error {
	_, err := s.db.Exec(
		`INSERT INTO bans (ip, banned_by, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(ip) DO UPDATE SET banned_by = excluded.banned_by`,
		ip, by, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert ban: %w", err)
	}
	return nil
}

// Unban removes ip from the banned set. Returns false if it was not banned.
func (s *Store) Unban(ip string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM bans WHERE ip = ?`, ip)
	if err != nil {
		return false, fmt.Errorf("delete ban: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// List returns a snapshot of all ban records.
func (s *Store) List() []store.BanRecord {
	rows, err := s.db.Query(`SELECT ip, banned_by, created_at FROM bans`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []store.BanRecord
	for rows.Next() {
		var rec store.BanRecord
		if err := rows.Scan(&rec.IP, &rec.By, &rec.CreatedAt); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Lookup returns the identity registered under name.
func (s *Store) Lookup(name string) (*store.Identity, error) {
	id := &store.Identity{Name: name}
	err := s.db.QueryRow(
		`SELECT credential_hash, profile_pic FROM identities WHERE name = ?`, name,
	).Scan(&id.CredentialHash, &id.ProfilePic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select identity: %w", err)
	}
	return id, nil
}

// Save creates or replaces the identity registered under id.Name.
func (s *Store) Save(id *store.Identity) error {
	_, err := s.db.Exec(
		`INSERT INTO identities (name, credential_hash, profile_pic) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			credential_hash = excluded.credential_hash,
			profile_pic     = excluded.profile_pic`,
		id.Name, id.CredentialHash, id.ProfilePic,
	)
	if err != nil {
		return fmt.Errorf("upsert identity: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
