package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func articlePage(paragraphs int) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>Test Story</title>`)
	b.WriteString(`<script>var tracker = "should never appear";</script></head><body>`)
	b.WriteString(`<nav><a href="/">Home</a><a href="/about">About</a></nav>`)
	b.WriteString(`<article><h1>Test Story</h1>`)
	for i := 0; i < paragraphs; i++ {
		fmt.Fprintf(&b, `<p>Paragraph %d covers the state of model serving hardware and why capacity planning keeps getting harder for everyone this year.</p>`, i+1)
	}
	b.WriteString(`</article><footer>Copyright footer text</footer></body></html>`)
	return b.String()
}

func TestArticleFetcherExtract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, articlePage(8))
	}))
	defer server.Close()

	fetcher := NewArticleFetcher()
	text, err := fetcher.Extract(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "capacity planning") {
		t.Errorf("expected article body in output, got %q", text)
	}
	if strings.Contains(text, "should never appear") {
		t.Errorf("script content leaked into output: %q", text)
	}
}

func TestArticleFetcherExtractTruncates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, articlePage(200))
	}))
	defer server.Close()

	fetcher := NewArticleFetcher()
	text, err := fetcher.Extract(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.HasSuffix(text, "...") {
		t.Errorf("expected truncated text to end with ellipsis")
	}
	if got := utf8.RuneCountInString(text); got > articleMaxRunes+3 {
		t.Errorf("expected at most %d runes, got %d", articleMaxRunes+3, got)
	}
}

func TestArticleFetcherExtractErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewArticleFetcher()
	if _, err := fetcher.Extract(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestExtractArticleTextFallbackWalker(t *testing.T) {
	t.Parallel()

	// Too short for readability to accept, so the DOM walker takes over.
	page := `<html><body><header>Site chrome</header><div>Just a stub page.</div><aside>Related links</aside></body></html>`
	text := extractArticleText([]byte(page), "https://example.com/stub")
	if !strings.Contains(text, "Just a stub page.") {
		t.Errorf("expected walker text, got %q", text)
	}
	if strings.Contains(text, "Related links") {
		t.Errorf("aside content leaked into output: %q", text)
	}
}

func TestNormalizeTextCollapsesBlankRuns(t *testing.T) {
	t.Parallel()

	in := "First line\n\n\n\nSecond line\n   \nThird line\n\n"
	want := "First line\n\nSecond line\n\nThird line"
	if got := normalizeText(in); got != want {
		t.Errorf("normalizeText = %q, want %q", got, want)
	}
}
