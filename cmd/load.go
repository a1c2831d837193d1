package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <id>",
	Short: "Replay a game and print where it stands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		evt, err := s.Execute("status")
		if err != nil {
			return err
		}
		fmt.Println(evt.Message())
		return nil
	},
}

func init() {
	gameCmd.AddCommand(loadCmd)
}
