package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/matching"
	"github.com/spigell/scholarscout/internal/scholarship"
)

type providersFilter struct {
	providers []string
}

// NewProviders creates a filter that removes results by provider categories configured in the config.
func NewProviders() Filter {
	return &providersFilter{}
}

func (f *providersFilter) Name() string { return "providers" }

func (f *providersFilter) Disable(string) {}

func (f *providersFilter) IsEnabled() bool { return true }

func (f *providersFilter) Validate(cfg *Config) error {
	f.providers = nil
	if cfg == nil {
		return nil
	}
	for _, raw := range cfg.ExcludeProviders {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		provider, err := scholarship.ParseProvider(raw)
		if err != nil {
			return fmt.Errorf("exclude providers: %w", err)
		}
		f.providers = append(f.providers, string(provider))
	}
	return nil
}

func (f *providersFilter) Apply(_ context.Context, deps Deps, r *matching.Results) (*matching.Results, Step, error) {
	initial := r.Len()
	if len(f.providers) == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded := r.Exclude(matching.ResultProviderField, f.providers)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding scholarships by providers",
			zap.Strings("excluded_providers", f.providers),
			zap.Strings("excluded_scholarships", excluded),
			zap.Int("scholarships_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(excluded), Left: r.Len()}, nil
}

func (f *providersFilter) Status() Status {
	details := map[string]string{}
	if len(f.providers) > 0 {
		details["providers"] = strings.Join(f.providers, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
