package profile

import (
	"errors"
	"fmt"
	"strings"
)

// GPARange is one of the fixed GPA bands a student can pick.
type GPARange string

const (
	GPABelow25 GPARange = "Below 2.5"
	GPA25To29  GPARange = "2.5–2.9"
	GPA30To34  GPARange = "3.0–3.4"
	GPA35To40  GPARange = "3.5–4.0"
)

// GPARanges lists the bands from lowest to highest.
var GPARanges = []GPARange{GPABelow25, GPA25To29, GPA30To34, GPA35To40}

// Year is an academic-year label.
type Year string

const (
	YearFirst    Year = "1st"
	YearSecond   Year = "2nd"
	YearThird    Year = "3rd"
	YearFourth   Year = "4th"
	YearGraduate Year = "Graduate"
)

var Years = []Year{YearFirst, YearSecond, YearThird, YearFourth, YearGraduate}

var (
	ErrUnknownGPARange = errors.New("unknown gpa range")
	ErrUnknownYear     = errors.New("unknown academic year")
)

// Profile holds the student facts used for matching. It is never mutated while matching.
type Profile struct {
	Name                string   `mapstructure:"name" json:"name"`
	Program             string   `mapstructure:"program" json:"program"`
	GPARange            GPARange `mapstructure:"gpa-range" json:"gpaRange"`
	Country             string   `mapstructure:"country" json:"country"`
	Year                Year     `mapstructure:"year" json:"year"`
	DemographicsEnabled bool     `mapstructure:"demographics-enabled" json:"demographicsEnabled"`
	Demographics        string   `mapstructure:"demographics" json:"demographics"`
	Interests           string   `mapstructure:"interests" json:"interests"`
}

// Validate checks the enumerated fields. Empty values are allowed.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.New("profile is required")
	}

	var errs []error
	if p.GPARange != "" && !p.GPARange.Known() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownGPARange, p.GPARange))
	}
	if p.Year != "" && !p.Year.Known() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownYear, p.Year))
	}

	return errors.Join(errs...)
}

// HasProgram reports whether keyword matching has something to work with.
func (p *Profile) HasProgram() bool {
	return p != nil && strings.TrimSpace(p.Program) != ""
}

// EffectiveDemographics returns the demographics text only when the gate is on.
func (p *Profile) EffectiveDemographics() string {
	if p == nil || !p.DemographicsEnabled {
		return ""
	}
	return strings.TrimSpace(p.Demographics)
}

func (g GPARange) Known() bool {
	for _, known := range GPARanges {
		if g == known {
			return true
		}
	}
	return false
}

func (y Year) Known() bool {
	for _, known := range Years {
		if y == known {
			return true
		}
	}
	return false
}
