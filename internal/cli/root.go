package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/db/mongodb"
	"github.com/brandlens/brandlens/internal/db/sqlite"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/overflow"
	"github.com/brandlens/brandlens/internal/providers"
	"github.com/brandlens/brandlens/internal/providers/chatgpt"
	"github.com/brandlens/brandlens/internal/providers/googleai"
	"github.com/brandlens/brandlens/internal/providers/perplexity"
	"github.com/brandlens/brandlens/internal/scheduler"
	"github.com/brandlens/brandlens/internal/services"
)

var (
	cfgFile         string
	cfg             *config.Config
	brandStore      *sqlite.SQLite
	recordDB        *mongodb.MongoDB
	registry        *providers.Registry
	sessionService  *services.SessionService
	lifetimeService *services.LifetimeService
	sched           *scheduler.Scheduler
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "brandlens",
	Short: "Brand-visibility tracker for AI answer engines",
	Long: `Brandlens monitors how visible a brand is inside AI-generated answers.
It sends tracked search queries to ChatGPT, Google AI Overview and Perplexity,
extracts every citation from the answers, and measures whether the brand and
its competitors are mentioned or linked.

Results roll up into per-session and lifetime analytics: visibility scores,
domain citation counts, and a top-performing-provider ranking.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip init for the init command itself
		if cmd.Name() == "init" {
			return nil
		}

		// Load configuration
		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}

		if !config.Exists(cfgFile) {
			return fmt.Errorf("configuration file not found. Run 'brandlens init' to create one")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.Init(logger.ParseLogLevel(cfg.LogLevel), os.Stdout)

		ctx := context.Background()

		// Brand registry (SQLite)
		brandStore, err = sqlite.New(&db.Config{
			Provider: cfg.SQLDatabase.Provider,
			URI:      cfg.SQLDatabase.URI,
			Database: cfg.SQLDatabase.Database,
			Options:  cfg.SQLDatabase.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create brand store: %w", err)
		}
		if err := brandStore.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to brand store: %w", err)
		}

		// Record store (MongoDB)
		recordDB, err = mongodb.New(&db.Config{
			Provider: cfg.NoSQLDatabase.Provider,
			URI:      cfg.NoSQLDatabase.URI,
			Database: cfg.NoSQLDatabase.Database,
			Options:  cfg.NoSQLDatabase.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create record store: %w", err)
		}
		if err := recordDB.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to record store: %w", err)
		}

		blobs, err := recordDB.Blobs(cfg.Storage.BlobBucket)
		if err != nil {
			return fmt.Errorf("failed to create blob store: %w", err)
		}

		overflowCfg := overflow.Config{
			MaxRecordBytes: cfg.Storage.MaxRecordBytes,
			SafetyMargin:   cfg.Storage.SafetyMargin,
		}
		historyStore := overflow.New(recordDB.Records(mongodb.CollHistories), blobs, overflowCfg)
		sessionStore := overflow.New(recordDB.Records(mongodb.CollSessions), blobs, overflowCfg)
		lifetimeStore := overflow.New(recordDB.Records(mongodb.CollLifetime), blobs, overflowCfg)

		// Answer-engine registry
		registry = providers.NewRegistry()
		register := func(client providers.Client) {
			if err := client.Validate(); err != nil {
				logger.Warning("Skipping provider %s: %v", client.Provider(), err)
				return
			}
			registry.Register(client)
		}
		if cfg.Providers.ChatGPT.Enabled {
			register(chatgpt.New(cfg.Providers.ChatGPT.APIKey, cfg.Providers.ChatGPT.Model, cfg.Providers.ChatGPT.BaseURL))
		}
		if cfg.Providers.GoogleAI.Enabled {
			register(googleai.New(cfg.Providers.GoogleAI.APIKey, cfg.Providers.GoogleAI.Model))
		}
		if cfg.Providers.Perplexity.Enabled {
			register(perplexity.New(cfg.Providers.Perplexity.APIKey, cfg.Providers.Perplexity.Model))
		}

		sessionService = services.NewSessionService(brandStore, historyStore, sessionStore, recordDB, registry, cfg.Providers.RateLimitPerSecond)
		lifetimeService = services.NewLifetimeService(brandStore, historyStore, lifetimeStore, recordDB)
		sched = scheduler.New(brandStore, sessionService)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if brandStore != nil {
			brandStore.Disconnect(ctx)
		}
		if recordDB != nil {
			return recordDB.Disconnect(ctx)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.brandlens/config.yaml)")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(brandCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(schedulerCmd)
	rootCmd.AddCommand(migrateCmd)
}
