package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandlens/brandlens/internal/db"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long:  `Run schema migrations for the brand registry.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	Long:  `Apply all pending database migrations.`,
	RunE:  runMigrateUp,
}

func init() {
	migrateUpCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (default internal/db/migrations)")
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	fmt.Println("🔄 Running database migrations...")

	if err := db.RunMigrations(context.Background(), brandStore.DB(), migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("✅ Migrations completed successfully!")
	return nil
}
