package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "cookies.json"), logrus.New())
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	future := float64(time.Now().Add(24 * time.Hour).Unix())

	err := store.Save([]Cookie{
		{Name: "li_at", Value: "auth-token", Domain: ".linkedin.com", Expires: future, Secure: true},
		{Name: "lang", Value: "en"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}

	cookies, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	if cookies[0].Name != "li_at" || cookies[0].Value != "auth-token" {
		t.Errorf("unexpected cookie %+v", cookies[0])
	}
	if cookies[0].Domain != "" || cookies[0].Expires != 0 {
		t.Errorf("replay attributes should be stripped, got %+v", cookies[0])
	}
}

func TestStoreSaveRejectsNonEssentialCapture(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	err := store.Save([]Cookie{{Name: "lang", Value: "en"}})
	if !errors.Is(err, ErrMissingEssential) {
		t.Fatalf("expected ErrMissingEssential, got %v", err)
	}
	if _, statErr := os.Stat(store.Path()); !os.IsNotExist(statErr) {
		t.Errorf("rejected capture should not create a file")
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestStoreLoadDropsExpiredCookies(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	past := float64(time.Now().Add(-time.Hour).Unix())
	future := float64(time.Now().Add(time.Hour).Unix())

	if err := store.Save([]Cookie{
		{Name: "JSESSIONID", Value: "stale", Expires: past},
		{Name: "li_at", Value: "fresh", Expires: future},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	cookies, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cookies) != 1 || cookies[0].Name != "li_at" {
		t.Fatalf("expected only the fresh cookie, got %+v", cookies)
	}
}

func TestStoreLoadAllExpired(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	past := float64(time.Now().Add(-time.Hour).Unix())

	if err := store.Save([]Cookie{{Name: "li_at", Value: "stale", Expires: past}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for fully expired capture, got %v", err)
	}
}

func TestStoreClear(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Clear(); err != nil {
		t.Fatalf("clear on missing file: %v", err)
	}

	future := float64(time.Now().Add(time.Hour).Unix())
	if err := store.Save([]Cookie{{Name: "li_at", Value: "v", Expires: future}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestHasEssential(t *testing.T) {
	t.Parallel()

	if HasEssential([]Cookie{{Name: "lang"}, {Name: "bcookie"}}) {
		t.Error("expected false without essential cookies")
	}
	if !HasEssential([]Cookie{{Name: "lang"}, {Name: "JSESSIONID"}}) {
		t.Error("expected true with JSESSIONID")
	}
}
