package cmd

import (
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl <id>",
	Short: "Moderate a stored game interactively",
	Long: `Opens the interactive moderator shell on a game created with
'game create'. Every accepted command is appended to the game's log.
Usage:
	> night
	> act by: p1 kill to: p3
	> resolve`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openSession(args[0])
		if err != nil {
			return err
		}
		defer app.Close()

		return RunTUI(app, args[0])
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
