package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/db/mongodb"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize brandlens configuration",
	Long:  `Interactive wizard to set up brandlens configuration including databases and answer-engine API keys.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🚀 Welcome to Brandlens Setup")
	fmt.Println("=============================")
	fmt.Println()

	// Check if config already exists
	configPath := config.GetConfigPath()
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	// Database configuration
	fmt.Println("\n📊 Database Configuration")
	fmt.Println("--------------------------")

	sqlPath, err := promptOptional(reader, "Brand registry path (SQLite) [brandlens.db]: ", "brandlens.db")
	if err != nil {
		return err
	}
	cfg.SQLDatabase.URI = sqlPath

	uri, err := promptOptional(reader, "Record store URI (MongoDB) [mongodb://localhost:27017]: ", "mongodb://localhost:27017")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.URI = uri

	dbName, err := promptOptional(reader, "Record store database name [brandlens]: ", "brandlens")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.Database = dbName

	// Provider configuration
	fmt.Println("\n🤖 Answer Engine Configuration")
	fmt.Println("-------------------------------")
	fmt.Println("Leave an API key empty to disable that engine.")

	chatgptKey, err := promptOptional(reader, "OpenAI API key []: ", "")
	if err != nil {
		return err
	}
	cfg.Providers.ChatGPT.APIKey = chatgptKey
	cfg.Providers.ChatGPT.Enabled = chatgptKey != ""

	googleKey, err := promptOptional(reader, "Google AI API key []: ", "")
	if err != nil {
		return err
	}
	cfg.Providers.GoogleAI.APIKey = googleKey
	cfg.Providers.GoogleAI.Enabled = googleKey != ""

	perplexityKey, err := promptOptional(reader, "Perplexity API key []: ", "")
	if err != nil {
		return err
	}
	cfg.Providers.Perplexity.APIKey = perplexityKey
	cfg.Providers.Perplexity.Enabled = perplexityKey != ""

	// Test record store connection
	fmt.Println("\n🔌 Testing record store connection...")
	testDB, dbErr := mongodb.New(&db.Config{
		Provider: cfg.NoSQLDatabase.Provider,
		URI:      cfg.NoSQLDatabase.URI,
		Database: cfg.NoSQLDatabase.Database,
	})
	if dbErr != nil {
		return fmt.Errorf("failed to create record store: %w", dbErr)
	}

	ctx := context.Background()
	if err := testDB.Connect(ctx); err != nil {
		fmt.Printf("❌ Failed to connect to record store: %v\n", err)
		fmt.Println("\nPlease check your database configuration and try again.")
		return err
	}
	defer testDB.Disconnect(ctx)

	fmt.Println("✅ Record store connection successful!")

	// Save configuration
	fmt.Println("\n💾 Saving configuration...")
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Configuration saved to: %s\n", configPath)

	fmt.Println("\n🎉 Setup complete! You can now use brandlens.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Add a brand: brandlens brand add")
	fmt.Println("  2. Add tracked queries: brandlens query add")
	fmt.Println("  3. Run a session: brandlens run <brand-id>")
	fmt.Println("  4. View analytics: brandlens analytics lifetime <brand-id>")

	return nil
}
