package session

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/vaultora-client/pkg/api"
)

// Durable key-value persistence surviving restarts: the session record,
// the admin session, and the document/referral caches. Read paths are
// defensive — a missing or corrupt value degrades to the empty default,
// never to an error the UI has to handle.

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

const (
	keySession      = "session"
	keyAdminSession = "admin_session"
	keyDocuments    = "documents"
	keyReferrals    = "referrals"
	keyReferrer     = "referrer"
)

// Session is the persisted auth record: token and user snapshot are written
// together and cleared together, never invalidated independently.
type Session struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// AdminSession mirrors Session for the admin panel.
type AdminSession struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(raw))
	return err
}

// get unmarshals the stored value into out. Returns false when the key is
// absent or the stored JSON is corrupt; out is left at its zero value.
func (s *Store) get(key string, out interface{}) bool {
	var raw string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&raw)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn().Str("key", key).Msg("corrupt stored value, using default")
		return false
	}
	return true
}

func (s *Store) delete(key string) error {
	_, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", key)
	return err
}

// Clear wipes every stored key in one statement.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM preferences")
	return err
}

// ---- Session ----

func (s *Store) SaveSession(sess Session) error {
	return s.set(keySession, sess)
}

func (s *Store) Session() *Session {
	var sess Session
	if !s.get(keySession, &sess) || sess.Token == "" {
		return nil
	}
	return &sess
}

func (s *Store) ClearSession() error {
	return s.delete(keySession)
}

// Token implements api.TokenSource: the investor session wins, then the
// admin session, else anonymous.
func (s *Store) Token() string {
	if sess := s.Session(); sess != nil {
		return sess.Token
	}
	if adm := s.AdminSession(); adm != nil {
		return adm.Token
	}
	return ""
}

func (s *Store) SaveAdminSession(sess AdminSession) error {
	return s.set(keyAdminSession, sess)
}

func (s *Store) AdminSession() *AdminSession {
	var sess AdminSession
	if !s.get(keyAdminSession, &sess) || sess.Token == "" {
		return nil
	}
	return &sess
}

// ---- Caches ----

func (s *Store) SetDocuments(docs []api.Document) error {
	return s.set(keyDocuments, docs)
}

// Documents returns the cached document list, or an empty list when none
// is cached or the cache is unreadable.
func (s *Store) Documents() []api.Document {
	var docs []api.Document
	if !s.get(keyDocuments, &docs) {
		return []api.Document{}
	}
	if docs == nil {
		docs = []api.Document{}
	}
	return docs
}

func (s *Store) SetReferrals(refs []api.Referral) error {
	return s.set(keyReferrals, refs)
}

func (s *Store) Referrals() []api.Referral {
	var refs []api.Referral
	if !s.get(keyReferrals, &refs) {
		return []api.Referral{}
	}
	if refs == nil {
		refs = []api.Referral{}
	}
	return refs
}

// ---- Referral capture ----

// SetReferrer remembers the referral code a visitor arrived with so the
// next registration can credit it.
func (s *Store) SetReferrer(code string) error {
	return s.set(keyReferrer, code)
}

func (s *Store) Referrer() string {
	var code string
	if !s.get(keyReferrer, &code) {
		return ""
	}
	return code
}
