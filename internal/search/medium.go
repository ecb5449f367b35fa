package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MediumProvider scrapes the Medium search page. Medium has no public search
// API; the page structure is matched loosely so minor markup drift survives.
type MediumProvider struct {
	searchURL string
	client    *http.Client
}

// NewMediumProvider creates a Medium search provider.
func NewMediumProvider(searchURL string) *MediumProvider {
	searchURL = strings.TrimRight(searchURL, "/")
	if searchURL == "" {
		searchURL = "https://medium.com/search"
	}
	return &MediumProvider{
		searchURL: searchURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Search scrapes article cards from the Medium search results page.
func (p *MediumProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	endpoint := fmt.Sprintf("%s?q=%s", p.searchURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create medium request: %w", err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("medium request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("medium request failed with status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse medium response: %w", err)
	}

	limit := opts.limit()
	var results []Result
	doc.Find("article").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := strings.TrimSpace(card.Find("h2").First().Text())
		href, ok := card.Find(`a[href*="/p/"]`).First().Attr("href")
		if title == "" || !ok {
			return true
		}
		results = append(results, Result{
			Title:   title,
			URL:     absoluteMediumURL(href),
			Snippet: strings.TrimSpace(card.Find("p").First().Text()),
			Source:  "Medium",
		})
		return len(results) < limit
	})

	return results, nil
}

func absoluteMediumURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return "https://medium.com" + href
}
