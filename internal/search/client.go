// Package search finds live scholarship links on a restricted set of government and university
// sites through a Custom Search style JSON API.
package search

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/utils"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	DefaultNum     = 8
	maxNum         = 10
	userAgent      = "spigell/scholarscout"

	contentType     = "application/json"
	contentEncoding = "gzip, br"
	maxDetailLength = 250
)

// DefaultAllowedSuffixes is the verified source set: government and university hosts.
var DefaultAllowedSuffixes = []string{".gov", ".edu", ".gc.ca", ".gov.uk", ".ac.uk", ".edu.au", ".gov.au"}

var ErrNotConfigured = errors.New("search api key and engine id are required")

// Link is one search hit.
type Link struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type Config struct {
	BaseURL         string
	APIKey          string
	EngineID        string
	AllowedSuffixes []string
	Timeout         time.Duration
}

type Client struct {
	config     Config
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Status string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("search failed: %s", e.Status)
	}
	return fmt.Sprintf("search failed: %s • %s", e.Status, e.Detail)
}

type apiResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.AllowedSuffixes) == 0 {
		cfg.AllowedSuffixes = DefaultAllowedSuffixes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config:     cfg,
		logger:     logger,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		UserAgent:  userAgent,
	}
}

// Search returns up to num links from allowed hosts, deduplicated, in API order.
func (c *Client) Search(ctx context.Context, query string, num int) ([]Link, error) {
	if strings.TrimSpace(c.config.APIKey) == "" || strings.TrimSpace(c.config.EngineID) == "" {
		return nil, ErrNotConfigured
	}

	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return nil, errors.New("search query must not be empty")
	}

	num = clampNum(num)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL, nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("key", c.config.APIKey)
	q.Set("cx", c.config.EngineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("Accept", contentType)

	c.logger.Debug("make search request", zap.String("query", query), zap.Int("num", num))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Status: resp.Status,
			Code:   resp.StatusCode,
			Detail: utils.TruncateForLog(string(body), maxDetailLength),
		}
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	links := make([]Link, 0, len(parsed.Items))
	seen := make(map[string]struct{}, len(parsed.Items))
	dropped := 0
	for _, item := range parsed.Items {
		link := strings.TrimSpace(item.Link)
		if _, ok := seen[link]; ok || link == "" {
			continue
		}
		seen[link] = struct{}{}

		if !c.Allowed(link) {
			dropped++
			continue
		}

		links = append(links, Link{Title: strings.TrimSpace(item.Title), Link: link})
		if len(links) == num {
			break
		}
	}

	c.logger.Debug("got search response",
		zap.Int("items", len(parsed.Items)),
		zap.Int("links", len(links)),
		zap.Int("dropped_by_source", dropped),
	)

	return links, nil
}

// Allowed reports whether the link's host belongs to the verified source set.
func (c *Client) Allowed(link string) bool {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, suffix := range c.config.AllowedSuffixes {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		if strings.HasSuffix(host, suffix) || host == strings.TrimPrefix(suffix, ".") {
			return true
		}
	}
	return false
}

func decodeBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	return io.ReadAll(reader)
}

func clampNum(num int) int {
	if num <= 0 {
		return DefaultNum
	}
	if num > maxNum {
		return maxNum
	}
	return num
}
