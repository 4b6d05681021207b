package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/ingest"
	"github.com/spigell/scholarscout/internal/logger"
	"github.com/spigell/scholarscout/internal/scholarship"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch URL...",
	Short: "Turn scholarship page URLs into placeholder records",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		fetch(args)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func fetch(urls []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	var ingestor ingest.RecordIngestor = ingest.NewStub()

	records := make([]*scholarship.Record, 0, len(urls))
	for _, u := range urls {
		record, err := ingestor.Fetch(ctx, u)
		if err != nil {
			logger.Fatal("fetching scholarship", zap.String("url", u), zap.Error(err))
		}
		logger.Debug("fetched scholarship", zap.String("scholarship_id", record.ID), zap.String("url", record.URL))
		records = append(records, record)
	}

	pretty, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		logger.Fatal("rendering records", zap.Error(err))
	}
	fmt.Println(string(pretty))
}
