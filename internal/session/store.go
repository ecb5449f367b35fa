// Package session persists browser login cookies between runs so the poster
// can skip interactive login while the saved session is still valid.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"herald/internal/logging"
)

var (
	// ErrNoSession means there is nothing usable on disk: no cookie file,
	// or a file whose cookies have all expired.
	ErrNoSession = errors.New("no saved session")
	// ErrMissingEssential means the cookies on hand don't include the ones
	// LinkedIn requires to consider a browser logged in.
	ErrMissingEssential = errors.New("essential session cookies missing")
)

// The cookies LinkedIn authenticates with. A capture without at least one of
// these is not worth saving.
var essentialCookies = []string{"li_at", "JSESSIONID"}

// Cookie is the stored form of one browser cookie. Expires is unix seconds;
// zero means a session cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	HTTPOnly bool    `json:"http_only,omitempty"`
}

type envelope struct {
	CapturedAt time.Time `json:"captured_at"`
	Cookies    []Cookie  `json:"cookies"`
}

// Store reads and writes the cookie file.
type Store struct {
	path   string
	logger logging.Logger
}

func NewStore(path string, logger logging.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the cookie file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the capture to disk. Captures without an essential cookie are
// rejected so a logged-out session never overwrites a good one.
func (s *Store) Save(cookies []Cookie) error {
	if !HasEssential(cookies) {
		return ErrMissingEssential
	}

	data, err := json.MarshalIndent(envelope{
		CapturedAt: time.Now().UTC(),
		Cookies:    cookies,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}
	}
	// Cookies are credentials; keep the file owner-only.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	s.logger.WithField("cookies", len(cookies)).Info("Session cookies saved")
	return nil
}

// Load reads the cookie file, drops expired entries, and strips the
// attributes browsers reject on replay (domain, expiry). Both a missing file
// and a fully expired capture come back as ErrNoSession.
func (s *Store) Load() ([]Cookie, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}

	now := float64(time.Now().Unix())
	valid := make([]Cookie, 0, len(env.Cookies))
	for _, cookie := range env.Cookies {
		if cookie.Expires > 0 && cookie.Expires <= now {
			s.logger.WithField("cookie", cookie.Name).Debug("Skipping expired cookie")
			continue
		}
		cookie.Expires = 0
		cookie.Domain = ""
		valid = append(valid, cookie)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: all cookies expired", ErrNoSession)
	}
	return valid, nil
}

// Clear deletes the cookie file. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// HasEssential reports whether any cookie is one LinkedIn authenticates with.
func HasEssential(cookies []Cookie) bool {
	for _, cookie := range cookies {
		for _, name := range essentialCookies {
			if cookie.Name == name {
				return true
			}
		}
	}
	return false
}
