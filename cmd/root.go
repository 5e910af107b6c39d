package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "careermatch"
)

type Config struct {
	// Seeker is the path to the seeker profile file. Optional when the
	// pool file already contains a seeker.
	Seeker string `mapstructure:"seeker"`
	// SeekerID fetches the seeker from the profile store by id. Requires
	// a store to be configured.
	SeekerID string `mapstructure:"seeker-id"`
	// Candidates is the path to the YAML pool file with candidates.
	Candidates  string            `mapstructure:"candidates"`
	Store       *StoreConfig      `mapstructure:"store"`
	Criteria    []CriterionConfig `mapstructure:"criteria"`
	Embedding   *EmbeddingConfig  `mapstructure:"embedding"`
	Limit       int               `mapstructure:"limit"`
	Peer        bool              `mapstructure:"peer"`
	MentorsOnly bool              `mapstructure:"mentors-only"`
	Exclude     []string          `mapstructure:"exclude"`
}

type StoreConfig struct {
	URL       string `mapstructure:"url"`
	TokenFile string `mapstructure:"token-file"`
}

type CriterionConfig struct {
	Kind   string  `mapstructure:"kind"`
	Weight float64 `mapstructure:"weight"`
}

type EmbeddingConfig struct {
	// Provider is "gemini" or "deterministic".
	Provider          string `mapstructure:"provider"`
	Model             string `mapstructure:"model"`
	Dimension         int    `mapstructure:"dimension"`
	APIKey            string `mapstructure:"api-key"`
	APIKeyFile        string `mapstructure:"api-key-file"`
	TimeoutSeconds    int    `mapstructure:"timeout-seconds"`
	MaxRetries        int    `mapstructure:"max-retries"`
	RequestsPerMinute int    `mapstructure:"requests-per-minute"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "careermatch ranks candidate profiles against a seeker and explains every match",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("embedding.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is careermatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	return config, nil
}
