package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
)

// GoogleNewsProvider reads the Google News RSS search feed. The feed needs no
// API key, which makes it the fallback source when SerpAPI is unavailable.
type GoogleNewsProvider struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewGoogleNewsProvider creates a Google News RSS provider.
func NewGoogleNewsProvider(feedURL string) *GoogleNewsProvider {
	feedURL = strings.TrimRight(feedURL, "/")
	if feedURL == "" {
		feedURL = "https://news.google.com/rss/search"
	}
	parser := gofeed.NewParser()
	parser.UserAgent = desktopUserAgent
	return &GoogleNewsProvider{
		feedURL: feedURL,
		parser:  parser,
	}
}

// Search fetches and parses the RSS feed for the query.
func (p *GoogleNewsProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	feedAddr := fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", p.feedURL, url.QueryEscape(query))

	feed, err := p.parser.ParseURLWithContext(feedAddr, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch google news feed: %w", err)
	}

	limit := opts.limit()
	results := make([]Result, 0, limit)
	for _, entry := range feed.Items {
		if len(results) >= limit {
			break
		}
		results = append(results, Result{
			Title:     entry.Title,
			URL:       unwrapGoogleNewsURL(entry.Link),
			Snippet:   strings.TrimSpace(entry.Description),
			Published: entry.Published,
		})
	}

	return results, nil
}

// unwrapGoogleNewsURL extracts the target address from a Google News redirect
// link. Links without a url parameter are returned unchanged.
func unwrapGoogleNewsURL(link string) string {
	if !strings.Contains(link, "news.google.com") {
		return link
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	if target := parsed.Query().Get("url"); target != "" {
		return target
	}
	return link
}
