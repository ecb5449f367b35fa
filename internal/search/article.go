package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/failsafe-go/failsafe-go"
	"golang.org/x/net/html"

	"herald/internal/clients"
)

const (
	articleMinWords    = 50
	articleMaxRunes    = 2000
	articleMaxBodySize = 2 << 20 // 2 MiB
)

// ArticleFetcher downloads a result URL and extracts readable article text
// for the research prompt.
type ArticleFetcher struct {
	client   *http.Client
	executor failsafe.Executor[*http.Response]
}

// NewArticleFetcher creates an article content fetcher.
func NewArticleFetcher() *ArticleFetcher {
	return &ArticleFetcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		executor: clients.NewHTTPExecutor(clients.DefaultHTTPExecutorConfig()),
	}
}

// Extract fetches the page and returns its main text, truncated for prompt
// use. Empty pages yield an error rather than an empty string.
func (f *ArticleFetcher) Extract(ctx context.Context, pageURL string) (string, error) {
	resp, err := clients.ExecuteHTTP(ctx, f.executor, func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if reqErr != nil {
			return nil, fmt.Errorf("create article request: %w", reqErr)
		}
		req.Header.Set("User-Agent", desktopUserAgent)
		return f.client.Do(req)
	})
	if err != nil {
		articleExtractionsTotal.WithLabelValues("fetch_error").Inc()
		return "", fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		articleExtractionsTotal.WithLabelValues("fetch_error").Inc()
		return "", fmt.Errorf("fetch article: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, articleMaxBodySize))
	if err != nil {
		articleExtractionsTotal.WithLabelValues("fetch_error").Inc()
		return "", fmt.Errorf("read article body: %w", err)
	}

	text := extractArticleText(data, pageURL)
	if text == "" {
		articleExtractionsTotal.WithLabelValues("empty").Inc()
		return "", fmt.Errorf("no readable content at %s", pageURL)
	}
	articleExtractionsTotal.WithLabelValues("success").Inc()
	return truncateRunes(text, articleMaxRunes), nil
}

// extractArticleText tries go-readability first (Mozilla's Readability
// algorithm), converts the article to markdown for LLM-ready output, and
// falls back to a DOM text walker when readability produces too little text.
func extractArticleText(data []byte, pageURL string) string {
	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err == nil && article.Node != nil {
		md, mdErr := htmltomarkdown.ConvertNode(article.Node)
		if mdErr == nil {
			text := normalizeText(string(md))
			if len(strings.Fields(text)) >= articleMinWords {
				return text
			}
		}
		var buf bytes.Buffer
		_ = article.RenderText(&buf)
		text := normalizeText(buf.String())
		if len(strings.Fields(text)) >= articleMinWords {
			return text
		}
	}

	node, parseErr := html.Parse(bytes.NewReader(data))
	if parseErr != nil {
		return ""
	}
	return walkReadableText(node)
}

// walkReadableText collects visible text, skipping chrome elements the way
// article scrapers conventionally do.
func walkReadableText(node *html.Node) string {
	var builder strings.Builder

	var walker func(*html.Node)
	walker = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "script", "style", "noscript", "nav", "footer", "header", "aside", "form", "template":
				return
			case "p", "div", "section", "article", "li", "pre", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
				builder.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				builder.WriteString(text)
				builder.WriteString(" ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walker(child)
		}
	}
	walker(node)

	return normalizeText(builder.String())
}

func normalizeText(content string) string {
	lines := strings.Split(content, "\n")
	var cleaned []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank {
				cleaned = append(cleaned, "")
				blank = true
			}
			continue
		}
		blank = false
		cleaned = append(cleaned, trimmed)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
