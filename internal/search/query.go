package search

import (
	"strconv"
	"strings"

	"github.com/spigell/scholarscout/internal/profile"
)

const (
	defaultProgram = "computer science"
	defaultCountry = "Canada"
)

// BuildQuery derives an explainable query from the profile. Missing program or country fall back
// to defaults so the search still returns something useful.
func BuildQuery(p *profile.Profile, year int) string {
	program, country, interests := defaultProgram, defaultCountry, ""
	if p != nil {
		if v := strings.TrimSpace(p.Program); v != "" {
			program = v
		}
		if v := strings.TrimSpace(p.Country); v != "" {
			country = v
		}
		interests = strings.TrimSpace(p.Interests)
	}

	parts := []string{"scholarship", program, country, strconv.Itoa(year)}
	if interests != "" {
		parts = append(parts, interests)
	}

	return strings.Join(parts, " ")
}
