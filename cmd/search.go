package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/logger"
	"github.com/spigell/scholarscout/internal/profile"
	"github.com/spigell/scholarscout/internal/search"
	"github.com/spigell/scholarscout/internal/secrets"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Look up scholarship pages on government and university sites for the configured profile",
	Run: func(cmd *cobra.Command, _ []string) {
		runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "use this query instead of the one built from the profile")
	searchCmd.Flags().IntP("num", "n", search.DefaultNum, "number of results to request (1-10)")

	viper.BindPFlag("search.num", searchCmd.Flags().Lookup("num"))
}

func runSearch(cmd *cobra.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	sc := &SearchConfig{}
	if config != nil && config.Search != nil {
		sc = config.Search
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "search api key",
		File:  sc.APIKeyFile,
		Value: sc.APIKey,
		Env:   "GOOGLE_CSE_API_KEY",
	})
	if err != nil {
		logger.Fatal("loading search api key", zap.Error(err),
			zap.String("hint", "set search.api-key-file, search.api-key or GOOGLE_CSE_API_KEY"),
		)
	}

	client := search.New(search.Config{
		BaseURL:         sc.BaseURL,
		APIKey:          apiKey,
		EngineID:        sc.EngineID,
		AllowedSuffixes: sc.AllowedSuffixes,
	}, logger)
	if sc.UserAgent != "" {
		client.UserAgent = sc.UserAgent
	}

	query := strings.TrimSpace(cmd.Flag("query").Value.String())
	if query == "" {
		year := sc.Year
		if year == 0 {
			year = time.Now().Year()
		}
		var p *profile.Profile
		if config != nil {
			p = config.Profile
		}
		query = search.BuildQuery(p, year)
	}

	logger.Info("starting the search", zap.String("query", query))

	links, err := client.Search(ctx, query, sc.Num)
	if err != nil {
		if errors.Is(err, search.ErrNotConfigured) {
			logger.Fatal("search is not configured",
				zap.String("hint", "set search.engine-id and the search api key"),
			)
		}
		logger.Fatal("search failed", zap.Error(err))
	}

	logger.Info("search finished", zap.Int("count", len(links)))

	if len(links) == 0 {
		fmt.Println("No verified sources found for this query.")
		return
	}

	pretty, _ := json.MarshalIndent(links, "", "  ")
	fmt.Println(string(pretty))
}
