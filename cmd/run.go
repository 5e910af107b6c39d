package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/careerverse/careermatch/internal/embedding"
	"github.com/careerverse/careermatch/internal/embedding/gemini"
	"github.com/careerverse/careermatch/internal/logger"
	"github.com/careerverse/careermatch/internal/matching"
	"github.com/careerverse/careermatch/internal/profile"
	"github.com/careerverse/careermatch/internal/secrets"
)

const (
	PromptShowReasons = "Show reasons"
	PromptDumpToFile  = "Dump results to file"
	PromptExit        = "Exit"

	providerGemini        = "gemini"
	providerDeterministic = "deterministic"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the matching engine against a candidate pool",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("limit", "l", 0, "maximum number of matches to return (default 10)")
	runCmd.Flags().BoolP("auto-approve", "y", false, "print results and exit without the interactive prompt")
	runCmd.Flags().Bool("mentors-only", false, "rank only mentorship-available candidates")

	viper.BindPFlag("limit", runCmd.Flags().Lookup("limit"))
	viper.BindPFlag("mentors-only", runCmd.Flags().Lookup("mentors-only"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting careermatch", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	mentorsOnly := viper.GetBool("mentors-only") || config.MentorsOnly

	seeker, candidates := loadProfiles(config, mentorsOnly, logger)

	criteria := make([]matching.Criterion, 0, len(config.Criteria))
	for _, c := range config.Criteria {
		kind, err := matching.ParseKind(c.Kind)
		if err != nil {
			logger.Fatal("parsing criteria", zap.Error(err))
		}
		criteria = append(criteria, matching.Criterion{Kind: kind, Weight: c.Weight})
	}

	provider := buildProvider(ctx, config.Embedding, logger)

	engine := matching.New(provider, matching.WithLogger(logger))

	var filters []matching.Filter
	if len(config.Exclude) > 0 {
		filters = append(filters, matching.NewExcludeIDs(config.Exclude))
	}
	if mentorsOnly {
		filters = append(filters, matching.NewMentorsOnly())
	}

	results, err := engine.Rank(ctx, &matching.Request{
		Seeker:     seeker,
		Candidates: candidates,
		Criteria:   criteria,
		Limit:      viper.GetInt("limit"),
		Peer:       config.Peer,
		Filters:    filters,
	})
	if err != nil {
		logger.Fatal("ranking candidates", zap.Error(err))
	}

	if len(results) == 0 {
		logger.Info("no candidates cleared the admission threshold")
		return
	}

	printResults(seeker, results)

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if autoApprove {
		return
	}

	if err := interact(results, logger); err != nil {
		logger.Fatal("interactive prompt", zap.Error(err))
	}
}

func loadProfiles(config *Config, mentorsOnly bool, logger *zap.Logger) (*profile.Profile, []*profile.Profile) {
	var seeker *profile.Profile
	var candidates []*profile.Profile

	if config.Candidates != "" {
		pool, err := profile.LoadPool(config.Candidates)
		if err != nil {
			logger.Fatal("loading candidate pool", zap.Error(err))
		}
		seeker = pool.Seeker
		candidates = pool.Candidates
	}

	if config.Store != nil && config.Store.URL != "" {
		token := ""
		if config.Store.TokenFile != "" {
			var err error
			token, err = secrets.Load(secrets.Source{Name: "profile store token", File: config.Store.TokenFile})
			if err != nil {
				logger.Fatal("loading profile store token", zap.Error(err))
			}
		}

		store := profile.NewStoreClient(config.Store.URL, token, logger)

		var fetched *profile.Profiles
		var err error
		if mentorsOnly {
			fetched, err = store.GetMentors()
		} else {
			fetched, err = store.GetProfiles(nil)
		}
		if err != nil {
			logger.Fatal("fetching profiles from store", zap.Error(err))
		}

		logger.Info("fetched profiles from store", zap.Int("count", fetched.Len()))
		candidates = append(candidates, fetched.Items...)

		if config.SeekerID != "" {
			seeker, err = store.GetProfile(config.SeekerID)
			if err != nil {
				logger.Fatal("fetching seeker from store", zap.Error(err))
			}
		}
	}

	if config.Seeker != "" {
		var err error
		seeker, err = profile.LoadProfile(config.Seeker)
		if err != nil {
			logger.Fatal("loading seeker profile", zap.Error(err))
		}
	}

	if seeker == nil {
		logger.Fatal("a seeker profile is required, either in the pool file or via the seeker setting")
	}

	// The seeker may also appear in the fetched pool. Never rank them
	// against themselves.
	pool := &profile.Profiles{Items: candidates}
	if pool.FindByID(seeker.ID) != nil {
		pool.Exclude(profile.ProfileIDField, []string{seeker.ID})
		logger.Debug("removed seeker from candidate pool", zap.Strings("candidates", pool.IDs()))
	}
	candidates = pool.Items

	if len(candidates) == 0 {
		logger.Fatal("no candidates to rank")
	}

	return seeker, candidates
}

// buildProvider constructs the embedding provider from the config. A missing
// or unusable Gemini key is not fatal: the deterministic provider takes over
// so matching keeps working offline.
func buildProvider(ctx context.Context, cfg *EmbeddingConfig, lg *zap.Logger) embedding.Provider {
	if cfg == nil {
		cfg = &EmbeddingConfig{Provider: providerDeterministic}
	}

	deterministic := embedding.NewDeterministic(cfg.Dimension)

	if !strings.EqualFold(cfg.Provider, providerGemini) {
		return deterministic
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		lg.Warn("gemini api key is not configured, falling back to deterministic embeddings", zap.Error(err))
		return deterministic
	}

	remote, err := gemini.New(ctx, gemini.Config{
		APIKey:            apiKey,
		Model:             cfg.Model,
		Dimension:         cfg.Dimension,
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.MaxRetries,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	if err != nil {
		lg.Warn("creating gemini provider failed, falling back to deterministic embeddings", zap.Error(err))
		return deterministic
	}

	providerLogger := logger.WithCommonFields(lg, providerGemini, remote.Model())
	remote.WithLogger(providerLogger)

	wrapped, err := embedding.NewWithFallback(remote, deterministic, providerLogger)
	if err != nil {
		lg.Warn("wrapping gemini provider failed, falling back to deterministic embeddings", zap.Error(err))
		return deterministic
	}

	providerLogger.Info("using gemini embedding provider")

	return wrapped
}

func printResults(seeker *profile.Profile, results []*matching.MatchResult) {
	fmt.Printf("\nTop matches for %s:\n\n", seeker.ID)
	for i, r := range results {
		name := r.CandidateID
		if r.Candidate != nil && r.Candidate.Name != "" {
			name = fmt.Sprintf("%s (%s)", r.Candidate.Name, r.CandidateID)
		}
		fmt.Printf("%2d. %-40s %.3f\n", i+1, name, r.Score)
	}
	fmt.Println()
}

func interact(results []*matching.MatchResult, logger *zap.Logger) error {
	for {
		prompt := promptui.Select{
			Label: "Proceed?",
			Items: []string{PromptShowReasons, PromptDumpToFile, PromptExit},
		}

		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptShowReasons:
			for _, r := range results {
				fmt.Printf("%s (%.3f)\n", r.CandidateID, r.Score)
				for _, reason := range r.Reasons {
					fmt.Printf("  - %s\n", reason)
				}
				if r.Insight != "" {
					fmt.Printf("  %s\n", r.Insight)
				}
				fmt.Println()
			}
		case PromptDumpToFile:
			path, err := dumpResults(results)
			if err != nil {
				return err
			}
			logger.Info("results dumped", zap.String("path", path))
		case PromptExit:
			return nil
		}
	}
}

func dumpResults(results []*matching.MatchResult) (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return "", err
	}

	return file.Name(), nil
}
