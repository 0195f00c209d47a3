package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/axellelanca/happythoughts/cmd"
	"github.com/axellelanca/happythoughts/internal/repository"
	"github.com/spf13/cobra"
)

// MigrateCmd represents the 'migrate' command
// This command handles database schema creation and updates
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured database and executes GORM automatic
migrations to create the 'thoughts' table from the Go model.
Redis stores have no schema; the command only checks the connection for them.`,
	Run: func(c *cobra.Command, args []string) {
		cfg := cmd.MustConfig()

		thoughtRepo, err := repository.Open(context.Background(), cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer closeStore(thoughtRepo)

		migrator, ok := thoughtRepo.(repository.Migrator)
		if !ok {
			fmt.Printf("The %s store has no schema, nothing to migrate.\n", cfg.Database.Driver)
			return
		}
		if err := migrator.Migrate(); err != nil {
			log.Printf("Failed to migrate database: %v", err)
			exitWithFailure(thoughtRepo)
			return
		}

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
