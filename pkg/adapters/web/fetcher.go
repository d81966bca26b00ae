// Package web fetches page text and searches images over HTTP.
package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mdombrov-33/go-promptguard/detector"

	"github.com/aretw0/elo/pkg/core"
)

const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultMaxBytes     = 2 << 20
	DefaultUserAgent    = "elo/1.0 (+https://github.com/aretw0/elo)"
)

// guardWindow is the longest text handed to the injection detector at once.
const guardWindow = 1000

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Timeout time.Duration
	// MaxBytes caps how much of a response is read; the rest is dropped.
	MaxBytes  int64
	UserAgent string
	// Guard rejects pages that look like prompt injections.
	Guard  bool
	Client *http.Client
	Logger *slog.Logger
}

// Fetcher implements core.Fetcher. HTML pages are reduced to their main
// content as Markdown.
type Fetcher struct {
	config    FetcherConfig
	client    *http.Client
	converter *converter
	safe      func(ctx context.Context, text string) bool
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(config FetcherConfig) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultFetchTimeout
	}
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultMaxBytes
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := &Fetcher{config: config, client: client, converter: newConverter(), logger: logger}
	if config.Guard {
		d := detector.New(
			detector.WithThreshold(0.6),
			detector.WithAllDetectors(),
			detector.WithMaxInputLength(guardWindow),
		)
		f.safe = func(ctx context.Context, text string) bool {
			return d.Detect(ctx, text).Safe
		}
	}
	return f
}

// GetText implements core.Fetcher.
func (f *Fetcher) GetText(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("unsupported url %q: %w", rawURL, core.ErrInvalidPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d %s", u, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", u, err)
	}

	text := string(trimPartialRune(body))
	if isHTML(resp.Header.Get("Content-Type"), text) {
		if text, err = f.converter.convert(text); err != nil {
			return "", fmt.Errorf("convert %s: %w", u, err)
		}
	}
	text = strings.TrimSpace(text)

	if f.safe != nil && !f.guarded(ctx, text) {
		f.logger.Warn("fetched content rejected", "url", u.String())
		return "", fmt.Errorf("content of %s looks like a prompt injection: %w", u, core.ErrDegradedFetch)
	}
	f.logger.Debug("fetched context", "url", u.String(), "bytes", len(text))
	return text, nil
}

// trimPartialRune drops an incomplete UTF-8 sequence left at the end of b
// by the size cap.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			break
		}
	}
	return b
}

// guarded checks text window by window.
func (f *Fetcher) guarded(ctx context.Context, text string) bool {
	runes := []rune(text)
	for start := 0; start < len(runes); start += guardWindow {
		end := min(start+guardWindow, len(runes))
		if !f.safe(ctx, string(runes[start:end])) {
			return false
		}
	}
	return true
}

func isHTML(contentType, body string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt == "text/html" || mt == "application/xhtml+xml"
	}
	return strings.HasPrefix(strings.TrimSpace(body), "<")
}

var _ core.Fetcher = (*Fetcher)(nil)
