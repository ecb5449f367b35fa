package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"herald/internal/logging"
)

// Aggregator fans a query out to every registered source and joins the
// results into a digest for the research prompt. A failing source degrades to
// an empty section so one outage never aborts the research step.
type Aggregator struct {
	logger  logging.Logger
	limit   int
	sources []namedSource
}

type namedSource struct {
	name     string
	heading  string
	provider Provider
}

// NewAggregator creates an empty aggregator.
func NewAggregator(logger logging.Logger, limit int) *Aggregator {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Aggregator{logger: logger, limit: limit}
}

// Register adds a source. Sources render in registration order.
func (a *Aggregator) Register(name, heading string, provider Provider) {
	a.sources = append(a.sources, namedSource{name: name, heading: heading, provider: provider})
}

// Sources returns the registered source names.
func (a *Aggregator) Sources() []string {
	names := make([]string, 0, len(a.sources))
	for _, s := range a.sources {
		names = append(names, s.name)
	}
	return names
}

// SearchNews queries all sources concurrently.
func (a *Aggregator) SearchNews(ctx context.Context, query string) *Digest {
	digest := &Digest{
		Query:    query,
		Sections: make([]DigestSection, len(a.sources)),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		g.Go(func() error {
			start := time.Now()
			results, err := src.provider.Search(ctx, query, SearchOptions{Limit: a.limit})
			sourceDuration.WithLabelValues(src.name).Observe(time.Since(start).Seconds())
			if err != nil {
				sourceQueriesTotal.WithLabelValues(src.name, "error").Inc()
				a.logger.WithError(err).WithField("source", src.name).Warn("Search source failed - continuing without it")
				results = nil
			} else {
				sourceQueriesTotal.WithLabelValues(src.name, "success").Inc()
				sourceResultsCount.WithLabelValues(src.name).Observe(float64(len(results)))
			}
			digest.Sections[i] = DigestSection{
				Name:    src.name,
				Heading: src.heading,
				Results: results,
			}
			return nil
		})
	}
	// Sources soft-fail individually; Wait only synchronizes.
	_ = g.Wait()

	return digest
}

// InstagramQuery shapes a topic into a site-scoped query for recent posts.
func InstagramQuery(topic string) string {
	return fmt.Sprintf("site:instagram.com %s latest", topic)
}

// Digest holds per-source results for one query.
type Digest struct {
	Query    string
	Sections []DigestSection
}

// DigestSection is the result set of one source.
type DigestSection struct {
	Name    string
	Heading string
	Results []Result
}

// Empty reports whether no source returned anything.
func (d *Digest) Empty() bool {
	for _, section := range d.Sections {
		if len(section.Results) > 0 {
			return false
		}
	}
	return true
}

// TopURLs returns up to n distinct result URLs in source order, for article
// content extraction.
func (d *Digest) TopURLs(n int) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, section := range d.Sections {
		for _, result := range section.Results {
			if len(urls) >= n {
				return urls
			}
			if result.URL == "" {
				continue
			}
			if _, ok := seen[result.URL]; ok {
				continue
			}
			seen[result.URL] = struct{}{}
			urls = append(urls, result.URL)
		}
	}
	return urls
}

// Render produces the sectioned text form consumed by the research prompt.
func (d *Digest) Render() string {
	var b strings.Builder
	for _, section := range d.Sections {
		if len(section.Results) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n=== %s ===\n", section.Heading)
		for i, result := range section.Results {
			fmt.Fprintf(&b, "\n%d. %s\n", i+1, result.Title)
			if result.Source != "" {
				fmt.Fprintf(&b, "Source: %s\n", result.Source)
			}
			if result.Published != "" {
				fmt.Fprintf(&b, "Published: %s\n", result.Published)
			}
			fmt.Fprintf(&b, "URL: %s\n", result.URL)
			if result.Snippet != "" {
				fmt.Fprintf(&b, "Summary: %s\n", result.Snippet)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
