package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const mediumSearchPage = `<!DOCTYPE html>
<html><body>
<article>
  <h2>Why transformers won</h2>
  <p>A short history of attention.</p>
  <a href="/p/abc123">Read more</a>
</article>
<article>
  <h2>Promo card without article link</h2>
  <a href="/membership">Join</a>
</article>
<article>
  <h2>Serving LLMs on a budget</h2>
  <p>Quantization in practice.</p>
  <a href="https://medium.com/p/def456">Read more</a>
</article>
<article>
  <h2>Past the limit</h2>
  <p>Should be cut off.</p>
  <a href="/p/ghi789">Read more</a>
</article>
</body></html>`

func TestMediumSearch(t *testing.T) {
	t.Parallel()

	errCh := make(chan error, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "llm serving" {
			errCh <- fmt.Errorf("expected query llm serving, got %q", r.URL.Query().Get("q"))
			return
		}
		if r.Header.Get("User-Agent") != desktopUserAgent {
			errCh <- fmt.Errorf("expected desktop user agent, got %q", r.Header.Get("User-Agent"))
			return
		}
		fmt.Fprint(w, mediumSearchPage)
	}))
	defer server.Close()

	provider := NewMediumProvider(server.URL)
	results, err := provider.Search(context.Background(), "llm serving", SearchOptions{Limit: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	select {
	case err := <-errCh:
		t.Fatalf("handler error: %v", err)
	default:
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Why transformers won" {
		t.Errorf("unexpected first title %q", results[0].Title)
	}
	if results[0].URL != "https://medium.com/p/abc123" {
		t.Errorf("expected absolute URL, got %q", results[0].URL)
	}
	if results[0].Snippet != "A short history of attention." {
		t.Errorf("unexpected snippet %q", results[0].Snippet)
	}
	if results[0].Source != "Medium" {
		t.Errorf("expected Medium source, got %q", results[0].Source)
	}
	// The promo card has no /p/ link and must be skipped, not counted.
	if results[1].Title != "Serving LLMs on a budget" {
		t.Errorf("unexpected second title %q", results[1].Title)
	}
}

func TestAbsoluteMediumURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		href string
		want string
	}{
		{"/p/abc123", "https://medium.com/p/abc123"},
		{"p/abc123", "https://medium.com/p/abc123"},
		{"https://medium.com/p/def456", "https://medium.com/p/def456"},
		{"http://medium.com/p/def456", "http://medium.com/p/def456"},
	}

	for _, tt := range tests {
		if got := absoluteMediumURL(tt.href); got != tt.want {
			t.Errorf("absoluteMediumURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
