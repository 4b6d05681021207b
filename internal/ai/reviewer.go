package ai

import (
	"context"

	"github.com/spigell/scholarscout/internal/matching"
	"github.com/spigell/scholarscout/internal/profile"
)

// FitAssessment is a provider's opinion about a scored scholarship.
type FitAssessment struct {
	Fit     bool
	Score   float64
	Reason  string
	Message string
	Raw     string
}

// Reviewer gives an advisory second opinion on an engine result.
type Reviewer interface {
	Evaluate(ctx context.Context, p *profile.Profile, result *matching.Result) (*FitAssessment, error)
}

// ToAnnotation converts an assessment into the form attached to a result.
func (a *FitAssessment) ToAnnotation() *matching.AIAssessment {
	if a == nil {
		return nil
	}
	return &matching.AIAssessment{
		Fit:     a.Fit,
		Score:   a.Score,
		Reason:  a.Reason,
		Message: a.Message,
		Raw:     a.Raw,
	}
}
