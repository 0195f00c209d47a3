package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/axellelanca/happythoughts/cmd"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// FeedCmd represents the 'feed' command
var FeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Prints the most recent thoughts",
	Long:  `Prints the recent feed, newest first, exactly as GET /thoughts returns it.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		cfg := cmd.MustConfig()
		ctx := context.Background()

		thoughtService, thoughtRepo := openThoughtService(ctx, cfg)
		defer closeStore(thoughtRepo)

		thoughts, err := thoughtService.ListRecentThoughts(ctx)
		if err != nil {
			fmt.Printf("Error retrieving feed: %v\n", err)
			exitWithFailure(thoughtRepo)
			return
		}
		if len(thoughts) == 0 {
			fmt.Println("No thoughts yet.")
			return
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Created at", "Hearts", "Message"})
		table.SetAutoWrapText(false)
		for _, t := range thoughts {
			table.Append([]string{
				t.ID,
				t.CreatedAt.Format("2006-01-02 15:04:05"),
				strconv.FormatInt(t.Hearts, 10),
				t.Message,
			})
		}
		table.Render()
	},
}

// StatsCmd represents the 'stats' command
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints how many thoughts and hearts the store holds",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		cfg := cmd.MustConfig()
		ctx := context.Background()

		thoughtService, thoughtRepo := openThoughtService(ctx, cfg)
		defer closeStore(thoughtRepo)

		stats, err := thoughtService.GetFeedStats(ctx)
		if err != nil {
			fmt.Printf("Error retrieving statistics: %v\n", err)
			exitWithFailure(thoughtRepo)
			return
		}

		fmt.Printf("Store: %s\n", cfg.Database.Driver)
		fmt.Printf("Thoughts: %d\n", stats.Thoughts)
		fmt.Printf("Total hearts: %d\n", stats.TotalHearts)
	},
}

func init() {
	cmd.RootCmd.AddCommand(FeedCmd)
	cmd.RootCmd.AddCommand(StatsCmd)
}
