package search

import "context"

// Provider defines the interface for news search providers.
type Provider interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error)
}

// Result represents a single news search result.
type Result struct {
	Title     string
	URL       string
	Snippet   string
	Source    string
	Published string
}

// SearchOptions controls search behavior across providers.
type SearchOptions struct {
	Limit int
}

const defaultLimit = 5

func (o SearchOptions) limit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return defaultLimit
}

// desktopUserAgent is sent to sources that reject obvious non-browser clients.
const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
