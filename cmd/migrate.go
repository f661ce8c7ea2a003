package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lingloop/player-api/internal/database"
	"github.com/lingloop/player-api/internal/models"
	"github.com/lingloop/player-api/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema for the Lingloop Player API.

The schema consists of the metadata key-value table and the media payload
index. Migrations are additive GORM auto-migrations.

Available subcommands:
  up      - Apply the schema
  down    - Drop the schema
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the schema",
	Long: `Create or update the metadata and media index tables.

Auto-migration is additive: it creates missing tables and columns and never
drops existing data.`,
	RunE: runMigrateUp,
}

// migrateDownCmd drops the schema
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop the schema",
	Long: `Drop the metadata and media index tables.

This removes all persisted projects, groups and playback settings. Media
blobs on disk are not touched.`,
	RunE: runMigrateDown,
}

// migrateStatusCmd shows schema status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema status",
	Long:  `Display which of the persistence tables currently exist.`,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

// migrationModels lists every persisted model, in creation order.
func migrationModels() []any {
	return []any{&models.MetaRecord{}, &models.MediaObject{}}
}

func openDatabase() (*database.DB, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		fmt.Println("Dry run mode - no changes will be made")
		for _, model := range migrationModels() {
			fmt.Printf("Would migrate %T\n", model)
		}
		return nil
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(migrationModels()...); err != nil {
		return err
	}

	fmt.Println("Schema is up to date")
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		fmt.Println("Dry run mode - no changes will be made")
		for _, model := range migrationModels() {
			fmt.Printf("Would drop %T\n", model)
		}
		return nil
	}

	// Confirmation prompt for destructive action
	fmt.Print("WARNING: This will drop all persistence tables. Continue? (y/N): ")
	var response string
	_, _ = fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		fmt.Println("Migration rollback cancelled")
		return nil
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrator().DropTable(migrationModels()...); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	fmt.Println("Schema dropped")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Database Migration Status")
	fmt.Println(strings.Repeat("=", 50))

	for _, model := range migrationModels() {
		state := "missing"
		if db.Migrator().HasTable(model) {
			state = "present"
		}
		fmt.Printf("  %-40T %s\n", model, state)
	}

	return nil
}
