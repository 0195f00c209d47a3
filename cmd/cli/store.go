package cli

import (
	"context"
	"log"
	"os"

	"github.com/axellelanca/happythoughts/internal/config"
	"github.com/axellelanca/happythoughts/internal/repository"
	"github.com/axellelanca/happythoughts/internal/services"
)

// openThoughtService connects to the configured store and builds the service on top of it.
// The caller closes the returned repository.
func openThoughtService(ctx context.Context, cfg *config.Config) (*services.ThoughtService, repository.ThoughtRepository) {
	thoughtRepo, err := repository.OpenAndMigrate(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	return services.NewThoughtService(thoughtRepo, services.WithFeedLimit(cfg.Feed.Limit)), thoughtRepo
}

// exit is os.Exit, replaced in tests.
var exit = os.Exit

// closeStore releases the store and logs a failure to do so.
func closeStore(thoughtRepo repository.ThoughtRepository) {
	if err := thoughtRepo.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}
}

// exitWithFailure closes the store, then exits with status 1.
// Deferred calls do not run on os.Exit, so the store is closed here.
func exitWithFailure(thoughtRepo repository.ThoughtRepository) {
	closeStore(thoughtRepo)
	exit(1)
}
