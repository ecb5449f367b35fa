package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type stubProvider struct {
	results []Result
	err     error
}

func (s *stubProvider) Search(_ context.Context, _ string, _ SearchOptions) ([]Result, error) {
	return s.results, s.err
}

func TestAggregatorSearchNewsSoftFailsSources(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(logrus.New(), 5)
	agg.Register("serpapi", "SERP RESULTS", &stubProvider{err: errors.New("quota exhausted")})
	agg.Register("google_news", "GOOGLE NEWS", &stubProvider{results: []Result{
		{Title: "Working source", URL: "https://example.com/a"},
	}})

	digest := agg.SearchNews(context.Background(), "ai news")
	if digest.Empty() {
		t.Fatal("expected digest with results from the healthy source")
	}
	if len(digest.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(digest.Sections))
	}
	if len(digest.Sections[0].Results) != 0 {
		t.Errorf("expected failed source to contribute no results")
	}
	if len(digest.Sections[1].Results) != 1 {
		t.Errorf("expected healthy source results, got %d", len(digest.Sections[1].Results))
	}
}

func TestDigestRenderSections(t *testing.T) {
	t.Parallel()

	digest := &Digest{
		Query: "ai news",
		Sections: []DigestSection{
			{
				Name:    "serpapi",
				Heading: "SERP RESULTS",
				Results: []Result{
					{Title: "First", URL: "https://example.com/1", Snippet: "summary one", Source: "Wire", Published: "today"},
					{Title: "Second", URL: "https://example.com/2"},
				},
			},
			{Name: "google_news", Heading: "GOOGLE NEWS"},
			{
				Name:    "medium",
				Heading: "MEDIUM BLOGS",
				Results: []Result{
					{Title: "Deep dive", URL: "https://medium.com/p/x", Snippet: "long read", Source: "Medium"},
				},
			},
		},
	}

	rendered := digest.Render()
	if !strings.Contains(rendered, "=== SERP RESULTS ===") {
		t.Errorf("missing serp heading:\n%s", rendered)
	}
	if strings.Contains(rendered, "=== GOOGLE NEWS ===") {
		t.Errorf("empty section should be omitted:\n%s", rendered)
	}
	if !strings.Contains(rendered, "=== MEDIUM BLOGS ===") {
		t.Errorf("missing medium heading:\n%s", rendered)
	}
	if !strings.Contains(rendered, "1. First") || !strings.Contains(rendered, "2. Second") {
		t.Errorf("results should be numbered:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Source: Wire") || !strings.Contains(rendered, "Summary: summary one") {
		t.Errorf("missing result fields:\n%s", rendered)
	}
	serpIdx := strings.Index(rendered, "=== SERP RESULTS ===")
	mediumIdx := strings.Index(rendered, "=== MEDIUM BLOGS ===")
	if serpIdx > mediumIdx {
		t.Errorf("sections out of registration order:\n%s", rendered)
	}
}

func TestDigestTopURLs(t *testing.T) {
	t.Parallel()

	digest := &Digest{
		Sections: []DigestSection{
			{Results: []Result{
				{Title: "a", URL: "https://example.com/1"},
				{Title: "b", URL: ""},
				{Title: "c", URL: "https://example.com/2"},
			}},
			{Results: []Result{
				{Title: "d", URL: "https://example.com/1"},
				{Title: "e", URL: "https://example.com/3"},
			}},
		},
	}

	urls := digest.TopURLs(2)
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
	if urls[0] != "https://example.com/1" || urls[1] != "https://example.com/2" {
		t.Errorf("unexpected urls: %v", urls)
	}

	all := digest.TopURLs(10)
	if len(all) != 3 {
		t.Errorf("expected duplicates and blanks dropped, got %v", all)
	}
}

func TestInstagramQuery(t *testing.T) {
	t.Parallel()

	got := InstagramQuery("quantum computing")
	if got != "site:instagram.com quantum computing latest" {
		t.Errorf("InstagramQuery = %q", got)
	}
}
