// Package linkedin drives the LinkedIn web UI: session login, share-box
// publishing, and the diagnostics captured when the UI stops cooperating.
//
// Every DOM interaction goes through ranked locator lists. LinkedIn ships
// markup changes constantly, so each step tries a specific selector first and
// falls back to looser ones before giving up.
package linkedin

import (
	"errors"
	"time"

	"github.com/go-rod/rod"
)

// ErrLocatorExhausted means every strategy for a UI element failed, which
// usually signals a LinkedIn markup change.
var ErrLocatorExhausted = errors.New("no locator strategy matched")

const (
	byCSS   = "css"
	byXPath = "xpath"
)

// Locator is one way of finding a UI element.
type Locator struct {
	By    string
	Value string
	Desc  string
}

// Class names whose presence on the feed page proves a logged-in session.
var loginIndicators = []Locator{
	{By: byCSS, Value: ".share-box-feed-entry__trigger", Desc: "share box trigger"},
	{By: byCSS, Value: ".global-nav__me-trigger", Desc: "nav me menu"},
	{By: byCSS, Value: ".feed-identity-module", Desc: "feed identity module"},
	{By: byCSS, Value: ".global-nav__primary-link", Desc: "nav primary link"},
}

// The "Start a post" control that opens the share box.
var postTriggerLocators = []Locator{
	{By: byCSS, Value: "button[data-control-name='share.sharebox_focus']", Desc: "share control button"},
	{By: byXPath, Value: "//button[contains(.,'Start a post')]", Desc: "start a post text"},
	{By: byXPath, Value: "//div[contains(@class, 'share-box-feed-entry__trigger')]", Desc: "share box trigger class"},
}

// The share box text editor.
var editorLocators = []Locator{
	{By: byCSS, Value: "div[data-placeholder='What do you want to talk about?']", Desc: "editor placeholder"},
	{By: byCSS, Value: "div.ql-editor", Desc: "quill editor"},
	{By: byXPath, Value: "//div[contains(@class, 'editor-content')]", Desc: "editor content class"},
}

// The button that submits the post.
var submitLocators = []Locator{
	{By: byCSS, Value: "button.share-actions__primary-action", Desc: "share primary action"},
	{By: byXPath, Value: "//button[contains(text(), 'Post')]", Desc: "post text button"},
	{By: byCSS, Value: "button[type='submit']", Desc: "submit button"},
}

// Elements whose appearance after submission confirms the post went through.
var successIndicators = []Locator{
	{By: byXPath, Value: "//div[contains(@class, 'share-box-feed-entry__trigger')]", Desc: "share box restored"},
	{By: byXPath, Value: "//div[contains(@class, 'feed-shared-update-v2')]", Desc: "new feed update"},
	{By: byXPath, Value: "//span[contains(text(), 'Post successful')]", Desc: "success toast"},
}

// find waits up to timeout for one locator to match.
func find(page *rod.Page, loc Locator, timeout time.Duration) (*rod.Element, error) {
	timed := page.Timeout(timeout)
	var el *rod.Element
	var err error
	if loc.By == byXPath {
		el, err = timed.ElementX(loc.Value)
	} else {
		el, err = timed.Element(loc.Value)
	}
	if err != nil {
		return nil, err
	}
	return el.CancelTimeout(), nil
}

// findFirst walks the locator list in order. The first locator gets the
// primary timeout; fallbacks get the shorter one since by then the page is
// loaded and a present element matches immediately.
func findFirst(page *rod.Page, locators []Locator, primary, fallback time.Duration) (*rod.Element, Locator, error) {
	timeout := primary
	for _, loc := range locators {
		el, err := find(page, loc, timeout)
		if err == nil {
			return el, loc, nil
		}
		timeout = fallback
	}
	return nil, Locator{}, ErrLocatorExhausted
}
