package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aretw0/elo/pkg/core"
)

// DefaultSearchURL is the Google Custom Search JSON API endpoint.
const DefaultSearchURL = "https://www.googleapis.com/customsearch/v1"

// maxSearchResults is the largest page the API returns.
const maxSearchResults = 10

// SearchConfig configures an ImageSearch.
type SearchConfig struct {
	APIKey   string
	EngineID string
	// BaseURL defaults to DefaultSearchURL.
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

// ImageSearch implements core.ImageSearcher over Google Custom Search.
type ImageSearch struct {
	config SearchConfig
	client *http.Client
	logger *slog.Logger
}

// NewImageSearch creates an ImageSearch.
func NewImageSearch(config SearchConfig) *ImageSearch {
	if config.BaseURL == "" {
		config.BaseURL = DefaultSearchURL
	}
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageSearch{config: config, client: client, logger: logger}
}

type searchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Search implements core.ImageSearcher. Without credentials it finds nothing.
func (s *ImageSearch) Search(ctx context.Context, query string, n int) ([]string, error) {
	if s.config.APIKey == "" || s.config.EngineID == "" {
		s.logger.Warn("image search disabled: missing API key or search engine id")
		return nil, nil
	}
	n = min(max(n, 1), maxSearchResults)

	q := url.Values{}
	q.Set("q", query)
	q.Set("cx", s.config.EngineID)
	q.Set("key", s.config.APIKey)
	q.Set("searchType", "image")
	q.Set("num", strconv.Itoa(n))

	ctx, cancel := context.WithTimeout(ctx, DefaultFetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}
	defer resp.Body.Close()

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode image search response (HTTP %d): %w", resp.StatusCode, err)
	}
	if data.Error != nil {
		return nil, fmt.Errorf("image search API error: %s", data.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search failed: HTTP %d", resp.StatusCode)
	}

	links := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	s.logger.Debug("image search finished", "query", query, "results", len(links))
	return links, nil
}

var _ core.ImageSearcher = (*ImageSearch)(nil)
