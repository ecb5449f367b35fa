package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"herald/internal/clients"
)

// SerpAPIProvider queries the SerpAPI Google News vertical.
type SerpAPIProvider struct {
	apiKey   string
	apiURL   string
	client   *http.Client
	executor failsafe.Executor[*http.Response]
}

// NewSerpAPIProvider creates a SerpAPI news provider. Rate-limit (429) and
// server errors are retried with backoff before the source is given up on.
func NewSerpAPIProvider(apiKey, apiURL string) (*SerpAPIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("serpapi api key is required")
	}
	apiURL = strings.TrimRight(apiURL, "/")
	if apiURL == "" {
		apiURL = "https://serpapi.com/search"
	}

	execCfg := clients.DefaultHTTPExecutorConfig()
	execCfg.CircuitBreaker = clients.NewCircuitBreaker(clients.CircuitBreakerConfig{Name: "serpapi"})

	return &SerpAPIProvider{
		apiKey:   apiKey,
		apiURL:   apiURL,
		client:   &http.Client{Timeout: 15 * time.Second},
		executor: clients.NewHTTPExecutor(execCfg),
	}, nil
}

type serpAPIResponse struct {
	NewsResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Source  string `json:"source"`
		Date    string `json:"date"`
	} `json:"news_results"`
}

// Search executes a news query.
func (p *SerpAPIProvider) Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	endpoint, err := url.Parse(p.apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse serpapi url: %w", err)
	}
	q := endpoint.Query()
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("api_key", p.apiKey)
	q.Set("num", fmt.Sprintf("%d", opts.limit()))
	q.Set("tbm", "nws")
	endpoint.RawQuery = q.Encode()

	resp, err := clients.ExecuteHTTP(ctx, p.executor, func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if reqErr != nil {
			return nil, fmt.Errorf("create serpapi request: %w", reqErr)
		}
		return p.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("serpapi request failed with status %d", resp.StatusCode)
	}

	var decoded serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}

	results := make([]Result, 0, len(decoded.NewsResults))
	for _, item := range decoded.NewsResults {
		results = append(results, Result{
			Title:     item.Title,
			URL:       item.Link,
			Snippet:   strings.TrimSpace(item.Snippet),
			Source:    item.Source,
			Published: item.Date,
		})
	}

	return results, nil
}
