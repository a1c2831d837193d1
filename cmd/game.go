package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netprtony/KoyaOracle-sub001/internal/persistence"
)

// gameCmd groups the commands working on stored games.
var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Create, list and inspect stored games",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the games in the games directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := persistence.NewGameManager(appConfig.GamesDir).List()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Printf("No games in %s\n", appConfig.GamesDir)
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gameCmd)
	gameCmd.AddCommand(listCmd)
}
