package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"herald/internal/session"
)

// SetCookies injects stored cookies into the page before navigation. Cookies
// are scoped by targetURL rather than their original domain attribute, which
// browsers reject on replay.
func SetCookies(page *rod.Page, targetURL string, cookies []session.Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, cookie := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     cookie.Name,
			Value:    cookie.Value,
			URL:      targetURL,
			Path:     cookie.Path,
			Secure:   cookie.Secure,
			HTTPOnly: cookie.HTTPOnly,
		})
	}
	if err := page.SetCookies(params); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	return nil
}

// CaptureCookies reads the page's current cookies into storable form.
func CaptureCookies(page *rod.Page) ([]session.Cookie, error) {
	browserCookies, err := page.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	cookies := make([]session.Cookie, 0, len(browserCookies))
	for _, c := range browserCookies {
		cookies = append(cookies, session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	return cookies, nil
}
