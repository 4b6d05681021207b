package scholarship

import (
	"errors"
	"fmt"
	"strings"
)

// Provider is the coarse category of the issuing organization.
type Provider string

const (
	ProviderUniversity   Provider = "university"
	ProviderGovernment   Provider = "government"
	ProviderOrganization Provider = "organization"
	ProviderOther        Provider = "other"
)

// ErrMalformedRecord marks a record that breaks the shape contract: a missing eligibility or
// requirements sub-record, or a raw record that does not decode.
var ErrMalformedRecord = errors.New("malformed scholarship record")

// Record is a single scholarship opportunity. Eligibility and Requirements must always be set,
// possibly empty. An empty structured field means "unknown", not "ineligible".
type Record struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	URL            string        `json:"url"`
	Provider       Provider      `json:"provider"`
	Country        string        `json:"country,omitempty"`
	Deadline       string        `json:"deadline,omitempty"`
	Amount         string        `json:"amount,omitempty"`
	Eligibility    *Eligibility  `json:"eligibility"`
	Requirements   *Requirements `json:"requirements"`
	RawTextSnippet string        `json:"rawTextSnippet,omitempty"`
}

type Eligibility struct {
	GPAMin          *float64 `json:"gpaMin,omitempty"`
	ProgramKeywords []string `json:"programKeywords,omitempty"`
	Demographics    []string `json:"demographics,omitempty"`
	Citizenship     []string `json:"citizenship,omitempty"`
	Year            []string `json:"year,omitempty"`
}

type Requirements struct {
	Docs   []string `json:"docs"`
	Essays []string `json:"essays"`
}

// ParseProvider maps a provider label, including the short "gov" and "org" forms, to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "university", "uni":
		return ProviderUniversity, nil
	case "government", "gov":
		return ProviderGovernment, nil
	case "organization", "organisation", "org":
		return ProviderOrganization, nil
	case "other", "":
		return ProviderOther, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}

// Validate checks the shape contract consumed by the scoring engine.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: record is nil", ErrMalformedRecord)
	}
	if r.Eligibility == nil {
		return fmt.Errorf("%w: %s: eligibility is missing", ErrMalformedRecord, r.label())
	}
	if r.Requirements == nil {
		return fmt.Errorf("%w: %s: requirements are missing", ErrMalformedRecord, r.label())
	}
	return nil
}

// Docs returns a copy of the required documents, never nil.
func (r *Record) Docs() []string {
	if r == nil || r.Requirements == nil {
		return []string{}
	}
	docs := make([]string, len(r.Requirements.Docs))
	copy(docs, r.Requirements.Docs)
	return docs
}

func (r *Record) label() string {
	if r.ID != "" {
		return r.ID
	}
	if r.Title != "" {
		return fmt.Sprintf("%q", r.Title)
	}
	return "<unnamed>"
}
