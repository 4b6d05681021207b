package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/scholarscout/internal/profile"
)

const (
	app       = "scholarscout"
	envPrefix = "SCHOLARSCOUT"
)

type Config struct {
	Profile      *profile.Profile `mapstructure:"profile"`
	Scholarships string           `mapstructure:"scholarships"`
	Workers      int              `mapstructure:"workers"`
	KeywordMatch string           `mapstructure:"keyword-match"`
	Filters      *FiltersConfig   `mapstructure:"filters"`
	Search       *SearchConfig    `mapstructure:"search"`
	AI           *AIConfig        `mapstructure:"ai"`
}

type FiltersConfig struct {
	MinimumScore     int      `mapstructure:"minimum-score"`
	ExcludeProviders []string `mapstructure:"exclude-providers"`
	ExcludeFile      string   `mapstructure:"exclude-file"`
}

type SearchConfig struct {
	BaseURL         string   `mapstructure:"base-url"`
	APIKey          string   `mapstructure:"api-key"`
	APIKeyFile      string   `mapstructure:"api-key-file"`
	EngineID        string   `mapstructure:"engine-id"`
	Num             int      `mapstructure:"num"`
	AllowedSuffixes []string `mapstructure:"allowed-suffixes"`
	Year            int      `mapstructure:"year"`
	UserAgent       string   `mapstructure:"user-agent"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	DropUnfit       bool          `mapstructure:"drop-unfit"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "scholarscout matches a student profile against scholarship records and explains every score",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is scholarscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env file is fine; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Only commands working on a profile need the config file.
	if matchCmd.CalledAs() == "" && searchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
