// Package matching scores scholarship records against a student profile and explains the score.
package matching

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/scholarscout/internal/profile"
	"github.com/spigell/scholarscout/internal/scholarship"
)

const (
	BaselineScore = 50
	KeywordBonus  = 20
	CountryBonus  = 10

	MinScore = 0
	MaxScore = 100

	ReasonKeywordAlignment = "Keyword alignment detected"
	ReasonCountryMatch     = "Country match"
	ReasonGeneral          = "General eligibility likely"

	gpaGapFormat = "Check GPA requirement: minimum %s"
)

// ErrNilInput is returned when the profile or record is nil.
var ErrNilInput = errors.New("profile and scholarship are required")

// Engine holds the scoring policy. It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	keywords KeywordMatcher
}

type Option func(*Engine)

// WithKeywordMatcher swaps the keyword matching policy.
func WithKeywordMatcher(m KeywordMatcher) Option {
	return func(e *Engine) {
		if m != nil {
			e.keywords = m
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{keywords: SubstringMatcher{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Score evaluates a record with the default policy.
func Score(p *profile.Profile, s *scholarship.Record) (*Result, error) {
	return defaultEngine.Score(p, s)
}

// Score evaluates one record for the profile. Reasons and gaps follow the rule order. Only a record
// without its eligibility or requirements sub-record is an error.
func (e *Engine) Score(p *profile.Profile, s *scholarship.Record) (*Result, error) {
	if p == nil || s == nil {
		return nil, ErrNilInput
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	reasons := make([]string, 0, 2)
	gaps := make([]string, 0, 1)
	score := BaselineScore

	haystack := s.Title + " " + s.RawTextSnippet
	needles := Tokenize(p.Program + " " + p.Interests)
	if e.keywords.Match(needles, haystack) {
		score += KeywordBonus
		reasons = append(reasons, ReasonKeywordAlignment)
	}

	if p.Country != "" && s.Country != "" && strings.EqualFold(p.Country, s.Country) {
		score += CountryBonus
		reasons = append(reasons, ReasonCountryMatch)
	}

	if s.Eligibility.GPAMin != nil {
		gaps = append(gaps, GPAGap(*s.Eligibility.GPAMin))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneral)
	}

	return &Result{
		Scholarship: s,
		Score:       clamp(score),
		Reasons:     reasons,
		Gaps:        gaps,
		Docs:        s.Docs(),
	}, nil
}

// GPAGap renders the manual-review gap for a minimum GPA with the shortest decimal form.
func GPAGap(min float64) string {
	return fmt.Sprintf(gpaGapFormat, strconv.FormatFloat(min, 'f', -1, 64))
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
