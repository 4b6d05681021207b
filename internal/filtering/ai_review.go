package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/ai"
	"github.com/spigell/scholarscout/internal/logger"
	"github.com/spigell/scholarscout/internal/matching"
	"github.com/spigell/scholarscout/internal/profile"
)

// ProviderGemini is the only AI provider wired into the review step.
const ProviderGemini = "gemini"

type aiReviewFilter struct {
	disabled bool
	reason   string
	config   *AIConfig
}

// NewAIReview creates the AI review step. It annotates results and drops only when configured to.
func NewAIReview() Filter {
	return &aiReviewFilter{}
}

func (f *aiReviewFilter) Name() string { return "ai_review" }

func (f *aiReviewFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *aiReviewFilter) IsEnabled() bool { return !f.disabled }

func (f *aiReviewFilter) Validate(cfg *Config) error {
	f.config = nil
	if cfg != nil {
		f.config = cfg.AI
	}
	if !f.IsEnabled() {
		return nil
	}
	if cfg == nil || cfg.AI == nil {
		return fmt.Errorf("ai configuration is required when ai review is enabled")
	}
	if provider := strings.ToLower(strings.TrimSpace(cfg.AI.Provider)); provider != "" && provider != ProviderGemini {
		return fmt.Errorf("unsupported ai provider %q", cfg.AI.Provider)
	}
	if cfg.AI.MinimumFitScore < 0 || cfg.AI.MinimumFitScore > 1 {
		return fmt.Errorf("minimum fit score must be between 0 and 1, got %v", cfg.AI.MinimumFitScore)
	}
	if cfg.AI.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when ai review is enabled")
	}
	if strings.TrimSpace(cfg.AI.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when ai review is enabled")
	}
	return nil
}

func (f *aiReviewFilter) Apply(ctx context.Context, deps Deps, r *matching.Results) (*matching.Results, Step, error) {
	initial := r.Len()
	if deps.Reviewer == nil {
		if deps.Logger != nil {
			deps.Logger.Info("ai reviewer is not configured; skipping ai_review filter")
		}
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}
	if deps.Profile == nil {
		return r, Step{}, fmt.Errorf("profile is required for AI review")
	}

	dropUnfit := f.config != nil && f.config.DropUnfit
	if err := reviewResults(ctx, deps.Logger, deps.Reviewer, deps.Profile, r); err != nil {
		return r, Step{}, err
	}

	if dropUnfit {
		excluded := r.Keep(func(result *matching.Result) bool {
			return result.AI == nil || result.AI.Error != "" || result.AI.Fit
		})
		if deps.Logger != nil && len(excluded) > 0 {
			deps.Logger.Info("excluding scholarships rejected by AI provider",
				zap.Strings("excluded_scholarships", excluded),
				zap.Int("scholarships_left", r.Len()),
			)
		}
	}

	left := r.Len()
	return r, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *aiReviewFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_fit_score"] = fmt.Sprintf("%.2f", f.config.MinimumFitScore)
		details["drop_unfit"] = strconv.FormatBool(f.config.DropUnfit)
		if f.config.Gemini != nil {
			details["model"] = f.config.Gemini.Model
			details["max_retries"] = strconv.Itoa(f.config.Gemini.MaxRetries)
			details["max_log_length"] = strconv.Itoa(f.config.Gemini.MaxLogLength)
		}
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// reviewResults attaches an assessment to every result. Reviewer failures are recorded on the
// result and never abort the step unless the context is done.
func reviewResults(ctx context.Context, log *zap.Logger, reviewer ai.Reviewer, p *profile.Profile, r *matching.Results) error {
	if log == nil {
		log = zap.NewNop()
	}

	for _, result := range r.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		title := ""
		if result.Scholarship != nil {
			title = result.Scholarship.Title
		}
		fields := logger.ScholarshipFields(result.ID(), title)

		assessment, err := reviewer.Evaluate(ctx, p, result)
		if err != nil {
			log.Warn("AI review failed", append(fields, zap.Error(err))...)
			result.AI = &matching.AIAssessment{Error: err.Error()}
			continue
		}

		result.AI = assessment.ToAnnotation()
		if assessment.Fit {
			log.Info("scholarship approved by AI", append(fields, zap.Float64("ai_score", assessment.Score))...)
		} else {
			log.Info("scholarship rejected by AI provider", append(fields,
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)...)
		}
	}

	return nil
}
