package linkedin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"

	"herald/internal/browser"
	"herald/internal/logging"
	"herald/internal/session"
)

const (
	homeURL  = "https://www.linkedin.com"
	feedURL  = "https://www.linkedin.com/feed/"
	loginURL = "https://www.linkedin.com/login"

	// Presence wait for each login indicator. The feed renders slowly on
	// cold sessions.
	loginIndicatorWait = 15 * time.Second
	pageSettle         = 500 * time.Millisecond
	postLoginWait      = 10 * time.Second
)

var (
	// ErrCredentialsRequired means no saved session worked and no
	// credentials are configured to establish a new one.
	ErrCredentialsRequired = errors.New("linkedin credentials required")
	// ErrLoginFailed means credentials were submitted but the feed never
	// showed a logged-in state, typically a checkpoint or bad password.
	ErrLoginFailed = errors.New("linkedin login failed")
)

// Authenticator gets a page into a logged-in state, preferring saved session
// cookies and falling back to credential login.
type Authenticator struct {
	sessions *session.Store
	email    string
	password string
	logger   logging.Logger
}

func NewAuthenticator(sessions *session.Store, email, password string, logger logging.Logger) *Authenticator {
	return &Authenticator{
		sessions: sessions,
		email:    email,
		password: password,
		logger:   logger,
	}
}

// EnsureLoggedIn leaves the page authenticated or returns an error saying
// why it could not. Cookie replay is always tried first; a cookie session
// that no longer works is cleared before credential login so a stale file
// can't shadow a fresh one.
func (a *Authenticator) EnsureLoggedIn(ctx context.Context, page *rod.Page) error {
	if err := navigate(page, homeURL); err != nil {
		return err
	}

	cookies, err := a.sessions.Load()
	switch {
	case err == nil:
		a.logger.WithField("cookies", len(cookies)).Info("Replaying saved session")
		if err := browser.SetCookies(page, homeURL, cookies); err != nil {
			return err
		}
		if err := page.Reload(); err != nil {
			return fmt.Errorf("reload after cookie replay: %w", err)
		}
		if a.IsLoggedIn(page) {
			loginTotal.WithLabelValues("cookie", "success").Inc()
			a.logger.Info("Logged in from saved session")
			return nil
		}
		loginTotal.WithLabelValues("cookie", "failure").Inc()
		a.logger.Warn("Saved session no longer valid - clearing it")
		if err := a.sessions.Clear(); err != nil {
			a.logger.WithError(err).Warn("Failed to clear session file")
		}
	case errors.Is(err, session.ErrNoSession):
		a.logger.Info("No saved session - trying credential login")
	default:
		return err
	}

	return a.credentialLogin(ctx, page)
}

func (a *Authenticator) credentialLogin(ctx context.Context, page *rod.Page) error {
	if a.email == "" || a.password == "" {
		return fmt.Errorf("%w: set LINKEDIN_EMAIL and LINKEDIN_PASSWORD", ErrCredentialsRequired)
	}

	a.logger.Info("Performing credential login")
	if err := navigate(page, loginURL); err != nil {
		return err
	}

	emailField, err := find(page, Locator{By: byCSS, Value: "#username", Desc: "email field"}, loginIndicatorWait)
	if err != nil {
		return fmt.Errorf("find email field: %w", err)
	}
	if err := emailField.Input(a.email); err != nil {
		return fmt.Errorf("enter email: %w", err)
	}

	passwordField, err := find(page, Locator{By: byCSS, Value: "#password", Desc: "password field"}, loginIndicatorWait)
	if err != nil {
		return fmt.Errorf("find password field: %w", err)
	}
	if err := passwordField.Input(a.password); err != nil {
		return fmt.Errorf("enter password: %w", err)
	}
	if err := passwordField.Type(input.Enter); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}

	// Login redirects through several pages; give it room before probing.
	if err := pace(ctx, postLoginWait); err != nil {
		return err
	}

	if !a.IsLoggedIn(page) {
		loginTotal.WithLabelValues("credentials", "failure").Inc()
		return ErrLoginFailed
	}
	loginTotal.WithLabelValues("credentials", "success").Inc()
	a.logger.Info("Credential login succeeded")

	// A failed save costs a future cookie replay, not this run.
	if err := a.CaptureSession(page); err != nil {
		a.logger.WithError(err).Warn("Failed to persist session cookies")
	}
	return nil
}

// OpenLogin brings the page to the LinkedIn login form, for flows where a
// human completes the login.
func (a *Authenticator) OpenLogin(page *rod.Page) error {
	return navigate(page, loginURL)
}

// CaptureSession saves the page's current session cookies for later replay.
func (a *Authenticator) CaptureSession(page *rod.Page) error {
	cookies, err := browser.CaptureCookies(page)
	if err != nil {
		return fmt.Errorf("capture session cookies: %w", err)
	}
	if err := a.sessions.Save(cookies); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	a.logger.Info("Session cookies saved")
	return nil
}

// IsLoggedIn navigates to the feed and probes for any logged-in indicator.
func (a *Authenticator) IsLoggedIn(page *rod.Page) bool {
	if err := navigate(page, feedURL); err != nil {
		a.logger.WithError(err).Warn("Feed navigation failed")
		return false
	}

	info, err := page.Info()
	if err != nil {
		a.logger.WithError(err).Warn("Failed to read page info")
		return false
	}
	if !strings.HasPrefix(info.URL, "https://www.linkedin.com/feed") {
		a.logger.WithField("url", info.URL).Info("Redirected away from feed - not logged in")
		return false
	}

	for _, loc := range loginIndicators {
		el, err := find(page, loc, loginIndicatorWait)
		if err != nil {
			continue
		}
		if visible, _ := el.Visible(); visible {
			a.logger.WithField("indicator", loc.Desc).Debug("Login verified")
			return true
		}
	}
	return false
}

func navigate(page *rod.Page, url string) error {
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s: %w", url, err)
	}
	// WaitStable absorbs the feed's late-loading widgets instead of a
	// blind sleep.
	_ = page.WaitStable(pageSettle)
	return nil
}

// pace is a context-aware sleep for the deliberate pauses the LinkedIn UI
// needs between interactions.
func pace(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
