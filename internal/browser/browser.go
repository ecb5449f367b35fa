// Package browser manages the headless Chromium instance that drives
// LinkedIn. Pages are created through the stealth wrapper so automation
// fingerprints (navigator.webdriver and friends) stay hidden.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"herald/internal/logging"
)

// Config controls how Chromium is launched.
type Config struct {
	// Headless is off during interactive login so a human can pass
	// checkpoint challenges.
	Headless  bool
	UserAgent string
}

// Browser wraps a launched Chromium process.
type Browser struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	userAgent string
	logger    logging.Logger
	closeOnce sync.Once
}

// Launch starts Chromium and connects to it.
func Launch(cfg Config, logger logging.Logger) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-notifications").
		Set("disable-blink-features", "AutomationControlled")
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	logger.WithField("headless", cfg.Headless).Debug("Browser launched")
	return &Browser{browser: b, launcher: l, userAgent: cfg.UserAgent, logger: logger}, nil
}

// NewPage opens a stealth tab bound to ctx.
func (b *Browser) NewPage(ctx context.Context) (*rod.Page, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("create tab: %w", err)
	}
	page = page.Context(ctx)

	if b.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			page.Close()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}
	return page, nil
}

// Close shuts down the browser process and the launcher behind it. Safe to
// defer on every exit path; repeat calls are no-ops.
func (b *Browser) Close() {
	b.closeOnce.Do(func() {
		if err := b.browser.Close(); err != nil {
			b.logger.WithError(err).Debug("Browser close failed")
		}
		b.launcher.Cleanup()
	})
}
