package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/axellelanca/happythoughts/cmd"
	customerrors "github.com/axellelanca/happythoughts/internal/errors"
	"github.com/spf13/cobra"
)

// LikeCmd représente la commande 'like'
var LikeCmd = &cobra.Command{
	Use:   "like [thought-id]",
	Short: "Adds a heart to a thought",
	Args:  cobra.ExactArgs(1),
	Run:   runLike,
}

func init() {
	cmd.RootCmd.AddCommand(LikeCmd)
}

// runLike exécute la logique pour la commande like
func runLike(c *cobra.Command, args []string) {
	thoughtID := args[0]

	cfg := cmd.MustConfig()
	ctx := context.Background()

	thoughtService, thoughtRepo := openThoughtService(ctx, cfg)
	defer closeStore(thoughtRepo)

	thought, err := thoughtService.LikeThought(ctx, thoughtID)
	if err != nil {
		switch {
		case errors.Is(err, customerrors.ErrInvalidThoughtID):
			fmt.Printf("Error: '%s' is not a valid thought id\n", thoughtID)
		case errors.Is(err, customerrors.ErrThoughtNotFound):
			fmt.Printf("Error: thought '%s' not found\n", thoughtID)
		default:
			fmt.Printf("Error liking thought: %v\n", err)
		}
		exitWithFailure(thoughtRepo)
		return
	}

	fmt.Printf("Thought %s now has %d heart(s)\n", thought.ID, thought.Hearts)
}
