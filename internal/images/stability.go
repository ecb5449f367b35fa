// Package images generates illustration images for posts through the
// Stability API.
package images

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"herald/internal/clients"
)

const defaultImageSize = "512x512"

// Generator calls the Stability image endpoint and downloads the result.
type Generator struct {
	apiKey   string
	apiURL   string
	client   *http.Client
	executor failsafe.Executor[*http.Response]
}

// NewGenerator creates an image generator. The API key is required.
// Rate-limit and server errors on the generate call are retried with
// backoff before the generator gives up.
func NewGenerator(apiKey, apiURL string) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("stability api key is required")
	}
	apiURL = strings.TrimRight(apiURL, "/")
	if apiURL == "" {
		apiURL = "https://api.stability.ai/v1/generate"
	}

	execCfg := clients.DefaultHTTPExecutorConfig()
	execCfg.CircuitBreaker = clients.NewCircuitBreaker(clients.CircuitBreakerConfig{Name: "stability"})

	return &Generator{
		apiKey:   apiKey,
		apiURL:   apiURL,
		client:   &http.Client{Timeout: 60 * time.Second},
		executor: clients.NewHTTPExecutor(execCfg),
	}, nil
}

type generateRequest struct {
	Prompt    string `json:"prompt"`
	NumImages int    `json:"num_images"`
	Size      string `json:"size"`
}

type generateResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// Generate requests one image for prompt and saves it to savePath.
func (g *Generator) Generate(ctx context.Context, prompt, savePath string) error {
	payload, err := json.Marshal(generateRequest{
		Prompt:    prompt,
		NumImages: 1,
		Size:      defaultImageSize,
	})
	if err != nil {
		return fmt.Errorf("marshal image request: %w", err)
	}

	resp, err := clients.ExecuteHTTP(ctx, g.executor, func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(payload))
		if reqErr != nil {
			return nil, fmt.Errorf("create image request: %w", reqErr)
		}
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return g.client.Do(req)
	})
	if err != nil {
		return fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("image generation failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode image response: %w", err)
	}
	if len(decoded.Images) == 0 || decoded.Images[0].URL == "" {
		return errors.New("image response contained no images")
	}

	return g.download(ctx, decoded.Images[0].URL, savePath)
}

func (g *Generator) download(ctx context.Context, imageURL, savePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read image body: %w", err)
	}

	if dir := filepath.Dir(savePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create image directory: %w", err)
		}
	}
	if err := os.WriteFile(savePath, data, 0o644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	return nil
}
