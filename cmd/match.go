package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/ai"
	"github.com/spigell/scholarscout/internal/ai/gemini"
	"github.com/spigell/scholarscout/internal/filtering"
	"github.com/spigell/scholarscout/internal/logger"
	"github.com/spigell/scholarscout/internal/matching"
	"github.com/spigell/scholarscout/internal/secrets"
	"github.com/spigell/scholarscout/internal/scholarship"
)

const (
	PromptDetails            = "Show details of a scholarship"
	PromptReportByProviders  = "Report by providers"
	PromptScholarshipsToFile = "Dump scholarships to file"
	PromptExit               = "Exit"
	PromptBack               = "back"

	keywordMatchSubstring = "substring"
	keywordMatchWord      = "word"

	noMatchesMessage = "No matches yet. Try broadening your program keywords or country."
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptDetails, PromptReportByProviders, PromptScholarshipsToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the configured profile against the scholarship records",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("yes", "y", false, "print the report and exit without prompting")
	matchCmd.Flags().StringP("scholarships", "s", "", "a YAML or JSON file with scholarship records")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with scholarships to exclude. Default is unset.")
	matchCmd.Flags().IntP("minimum-score", "m", 0, "drop results scored below this value")

	viper.BindPFlag("scholarships", matchCmd.Flags().Lookup("scholarships"))
	viper.BindPFlag("filters.exclude-file", matchCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.minimum-score", matchCmd.Flags().Lookup("minimum-score"))
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the scholarscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	results, err := runMatch(ctx, config, logger)
	if err != nil {
		logger.Fatal("matching scholarships", zap.Error(err))
	}

	if !present(os.Stdout, logger, results) {
		logger.Info("exiting", zap.String("reason", "no scholarships left after filters"))
		return
	}

	if cmd.Flag("yes").Value.String() == "true" {
		if err := handleAction(PromptReportByProviders, logger, results); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of scholarships", zap.Int("count", results.Len()))

		if err := handleAction(action, logger, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// runMatch loads the records, scores them for the profile, sorts by score and applies the filters.
func runMatch(ctx context.Context, config *Config, logger *zap.Logger) (*matching.Results, error) {
	if config == nil || config.Profile == nil {
		return nil, errors.New("profile section is required in the config")
	}

	if err := config.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	if strings.TrimSpace(config.Scholarships) == "" {
		return nil, errors.New("scholarships file is required: set the 'scholarships' key in the config or pass --scholarships")
	}

	records, err := scholarship.LoadFile(config.Scholarships)
	if err != nil {
		return nil, fmt.Errorf("loading scholarships: %w", err)
	}

	logger.Info("loaded scholarships", zap.Int("count", records.Len()))

	engine, err := newEngine(config.KeywordMatch)
	if err != nil {
		return nil, fmt.Errorf("building the engine: %w", err)
	}

	results, err := matching.ScoreAll(ctx, engine, config.Profile, records.Items, config.Workers)
	if err != nil {
		return nil, fmt.Errorf("scoring scholarships: %w", err)
	}
	results.SortByScore()

	results, err = runFilters(ctx, config, logger, results)
	if err != nil {
		return nil, fmt.Errorf("filtering failed: %w", err)
	}

	return results, nil
}

// present writes one line per result in order, or the empty state. It reports whether anything matched.
func present(w io.Writer, logger *zap.Logger, results *matching.Results) bool {
	if results == nil || results.Len() == 0 {
		fmt.Fprintln(w, noMatchesMessage)
		return false
	}

	for _, result := range results.Items {
		logger.Info("match",
			zap.String("scholarship_id", result.ID()),
			zap.String("title", result.Scholarship.Title),
			zap.Int("score", result.Score),
			zap.String("tier", string(result.Tier())),
			zap.Strings("why", result.Reasons),
			zap.Strings("gaps", result.Gaps),
		)
		fmt.Fprintln(w, result.Label())
	}

	return true
}

func handleAction(action string, logger *zap.Logger, results *matching.Results) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptDetails:
		return showDetails(logger, results)
	case PromptReportByProviders:
		pretty, _ := json.MarshalIndent(results.ReportByProvider(), "", "  ")
		logger.Info(string(pretty), zap.Int("scholarships count", results.Len()))
		return nil
	case PromptScholarshipsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showDetails(logger *zap.Logger, results *matching.Results) error {
	for {
		items := make([]string, 0, results.Len()+1)
		for _, result := range results.Items {
			items = append(items, result.Label())
		}

		resultPrompt := promptui.Select{
			Label: "Choose a scholarship and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, choice, err := resultPrompt.Run()
		if err != nil {
			return err
		}
		if choice == PromptBack {
			return nil
		}

		pretty, err := json.MarshalIndent(results.Items[idx], "", "  ")
		if err != nil {
			return fmt.Errorf("render scholarship: %w", err)
		}
		logger.Info(string(pretty), zap.String("scholarship_id", results.Items[idx].ID()))
	}
}

func newEngine(mode string) (*matching.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", keywordMatchSubstring:
		return matching.NewEngine(), nil
	case keywordMatchWord:
		return matching.NewEngine(matching.WithKeywordMatcher(matching.WordMatcher{})), nil
	default:
		return nil, fmt.Errorf("unknown keyword-match mode %q (use %q or %q)", mode, keywordMatchSubstring, keywordMatchWord)
	}
}

func runFilters(ctx context.Context, config *Config, logger *zap.Logger, results *matching.Results) (*matching.Results, error) {
	cfg := filterConfig(config)
	steps := filtering.Default()
	deps := filtering.Deps{Logger: logger, Profile: config.Profile}

	if config.AI == nil || !config.AI.Enabled {
		filtering.DisableByName(steps, "ai_review", "ai is disabled in the config")
	} else {
		reviewer, err := newAIReviewer(ctx, config.AI, logger)
		if err != nil {
			return nil, fmt.Errorf("building ai reviewer: %w", err)
		}
		deps.Reviewer = reviewer
	}

	filtered, err := filtering.Run(ctx, cfg, deps, steps, results)
	if err != nil {
		return nil, err
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filtered, nil
}

func filterConfig(config *Config) *filtering.Config {
	cfg := &filtering.Config{}
	if f := config.Filters; f != nil {
		cfg.MinimumScore = f.MinimumScore
		cfg.ExcludeProviders = f.ExcludeProviders
		cfg.ExcludeFile = f.ExcludeFile
	}

	if a := config.AI; a != nil {
		cfg.AI = &filtering.AIConfig{
			Enabled:         a.Enabled,
			Provider:        a.Provider,
			MinimumFitScore: a.MinimumFitScore,
			DropUnfit:       a.DropUnfit,
		}
		if a.Gemini != nil {
			model := strings.TrimSpace(a.Gemini.Model)
			if model == "" {
				model = gemini.DefaultModel
			}
			cfg.AI.Gemini = &filtering.GeminiConfig{
				Model:        model,
				MaxRetries:   a.Gemini.MaxRetries,
				MaxLogLength: a.Gemini.MaxLogLength,
			}
		}
	}

	return cfg
}

func newAIReviewer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Reviewer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != filtering.ProviderGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithAIFields(log, filtering.ProviderGemini, cfg.Gemini.Model).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	reviewerLogger := logger.WithAIFields(log, filtering.ProviderGemini, generator.Model()).With(
		zap.Float64("minimum_fit_score", minScore),
	)

	return gemini.NewReviewer(generator, minScore, cfg.Gemini.MaxLogLength, reviewerLogger), nil
}
