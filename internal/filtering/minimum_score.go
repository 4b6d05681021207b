package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/matching"
)

type minimumScoreFilter struct {
	disabled bool
	reason   string
	minimum  int
}

// NewMinimumScore creates a filter that removes results scored below the configured minimum.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumScore
	}
	if f.minimum < matching.MinScore || f.minimum > matching.MaxScore {
		return fmt.Errorf("minimum score must be between %d and %d, got %d", matching.MinScore, matching.MaxScore, f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, r *matching.Results) (*matching.Results, Step, error) {
	initial := r.Len()
	if f.minimum == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded := r.Keep(func(result *matching.Result) bool {
		return result.Score >= f.minimum
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding scholarships below minimum score",
			zap.Int("minimum_score", f.minimum),
			zap.Strings("excluded_scholarships", excluded),
			zap.Int("scholarships_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(excluded), Left: r.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.Itoa(f.minimum)},
	}
}
