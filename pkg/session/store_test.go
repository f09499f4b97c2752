package session

import (
	"path/filepath"
	"testing"

	"github.com/vaultora-client/pkg/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if s.Session() != nil {
		t.Fatal("fresh store should have no session")
	}
	if s.Token() != "" {
		t.Fatal("fresh store should be anonymous")
	}

	sess := Session{Token: "x", User: api.User{ID: "u_1", Email: "a@b.c"}}
	if err := s.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got := s.Session()
	if got == nil || got.Token != "x" || got.User.Email != "a@b.c" {
		t.Fatalf("Session = %+v", got)
	}
	if s.Token() != "x" {
		t.Errorf("Token = %q", s.Token())
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Session() != nil {
		t.Error("session survived Clear")
	}
	if s.Token() != "" {
		t.Error("token survived Clear")
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.SaveSession(Session{Token: "persist", User: api.User{ID: "u_2"}}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	s.Close()

	s2, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got := s2.Session()
	if got == nil || got.Token != "persist" {
		t.Fatalf("session after reopen = %+v", got)
	}
}

func TestAdminTokenFallback(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveAdminSession(AdminSession{Token: "adm", Role: "admin"}); err != nil {
		t.Fatalf("SaveAdminSession: %v", err)
	}
	if s.Token() != "adm" {
		t.Errorf("Token = %q, want admin token", s.Token())
	}

	// An investor session takes precedence.
	s.SaveSession(Session{Token: "usr", User: api.User{ID: "u"}})
	if s.Token() != "usr" {
		t.Errorf("Token = %q, want investor token", s.Token())
	}
}

func TestDocumentCacheDefaults(t *testing.T) {
	s := newTestStore(t)

	docs := s.Documents()
	if docs == nil || len(docs) != 0 {
		t.Fatalf("empty cache should be an empty list, got %#v", docs)
	}

	if err := s.SetDocuments([]api.Document{{ID: "d1", Kind: "front"}}); err != nil {
		t.Fatalf("SetDocuments: %v", err)
	}
	docs = s.Documents()
	if len(docs) != 1 || docs[0].ID != "d1" {
		t.Fatalf("Documents = %+v", docs)
	}
}

func corrupt(t *testing.T, s *Store, key string) {
	t.Helper()
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, '{not json!')
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key)
	if err != nil {
		t.Fatalf("corrupt %s: %v", key, err)
	}
}

func TestCorruptCacheDegradesToDefault(t *testing.T) {
	s := newTestStore(t)

	corrupt(t, s, keyDocuments)
	docs := s.Documents()
	if docs == nil || len(docs) != 0 {
		t.Fatalf("corrupt cache should yield empty list, got %#v", docs)
	}

	corrupt(t, s, keySession)
	if s.Session() != nil {
		t.Error("corrupt session should read as absent")
	}
}

func TestReferralCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if refs := s.Referrals(); len(refs) != 0 {
		t.Fatalf("fresh referral cache = %+v", refs)
	}
	s.SetReferrals([]api.Referral{{ID: "r1", Email: "x@y.z", Earned: 3}})
	refs := s.Referrals()
	if len(refs) != 1 || refs[0].Earned != 3 {
		t.Fatalf("Referrals = %+v", refs)
	}
}

func TestReferrerCapture(t *testing.T) {
	s := newTestStore(t)
	if s.Referrer() != "" {
		t.Fatal("fresh store should have no referrer")
	}
	s.SetReferrer("REF123")
	if s.Referrer() != "REF123" {
		t.Errorf("Referrer = %q", s.Referrer())
	}
}
