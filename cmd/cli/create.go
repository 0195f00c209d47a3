package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/axellelanca/happythoughts/cmd"
	customerrors "github.com/axellelanca/happythoughts/internal/errors"
	"github.com/spf13/cobra"
)

var messageFlag string

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Posts a new happy thought.",
	Long: `This command posts a thought to the feed and prints its identifier.

Example:
  happythoughts create --message="Sunny day, happy day"`,
	Run: func(c *cobra.Command, args []string) {
		cfg := cmd.MustConfig()
		ctx := context.Background()

		thoughtService, thoughtRepo := openThoughtService(ctx, cfg)
		defer closeStore(thoughtRepo)

		thought, err := thoughtService.CreateThought(ctx, messageFlag)
		if err != nil {
			var verr customerrors.ValidationError
			if errors.As(err, &verr) {
				fmt.Printf("Error: invalid %s\n", verr.Error())
			} else {
				fmt.Printf("Error: could not create thought: %v\n", err)
			}
			exitWithFailure(thoughtRepo)
			return
		}

		fmt.Printf("Thought created:\n")
		fmt.Printf("ID: %s\n", thought.ID)
		fmt.Printf("Message: %s\n", thought.Message)
		fmt.Printf("Created at: %s\n", thought.CreatedAt.Format("2006-01-02 15:04:05"))
	},
}

func init() {
	CreateCmd.Flags().StringVar(&messageFlag, "message", "", "The message to post (5 to 140 characters)")
	CreateCmd.MarkFlagRequired("message")

	cmd.RootCmd.AddCommand(CreateCmd)
}
