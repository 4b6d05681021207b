// Package ingest turns a scholarship page URL into a record for the scoring engine.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/scholarscout/internal/scholarship"
)

const UnknownTitle = "Unknown scholarship"

var ErrInvalidURL = errors.New("invalid scholarship url")

// RecordIngestor produces a well-shaped record for a scholarship page.
type RecordIngestor interface {
	Fetch(ctx context.Context, rawURL string) (*scholarship.Record, error)
}

// StubIngestor does not fetch anything. It synthesizes an empty record so callers can rely on the
// record shape until page extraction exists.
type StubIngestor struct {
	newID func() string
}

func NewStub() *StubIngestor {
	return &StubIngestor{newID: uuid.NewString}
}

func (s *StubIngestor) Fetch(ctx context.Context, rawURL string) (*scholarship.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	newID := s.newID
	if newID == nil {
		newID = uuid.NewString
	}

	return &scholarship.Record{
		ID:             newID(),
		Title:          UnknownTitle,
		URL:            normalized,
		Provider:       scholarship.ProviderOther,
		Eligibility:    &scholarship.Eligibility{},
		Requirements:   &scholarship.Requirements{Docs: []string{}, Essays: []string{}},
		RawTextSnippet: "",
	}, nil
}

func normalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: url is empty", ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: host is missing", ErrInvalidURL)
	}

	return rawURL, nil
}
