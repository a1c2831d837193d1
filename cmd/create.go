package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/persistence"
	"github.com/netprtony/KoyaOracle-sub001/internal/session"
)

var createCmd = &cobra.Command{
	Use:   "create <setup>",
	Short: "Create a new game from a setup file",
	Long: `Seats the players listed in a setup YAML (a path, or a name looked up
as setups/<name>.yaml in the data dirs) and starts an empty event log under
<games_dir>/<id>. The id defaults to a random UUID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if id == "" {
			id = uuid.NewString()
		}

		loader, cat, reg, err := loadRules()
		if err != nil {
			return err
		}
		setup, err := loader.LoadSetup(args[0])
		if err != nil {
			return err
		}
		if err := data.ValidateSetup(setup, cat); err != nil {
			return err
		}

		manager := persistence.NewGameManager(appConfig.GamesDir)
		store, err := manager.Create(id, *setup)
		if err != nil {
			return err
		}
		s, err := session.NewSession(cat, reg, store)
		if err != nil {
			_ = store.Close()
			return err
		}
		defer s.Close()

		evt, err := s.Start(id, setup.Players)
		if err != nil {
			return err
		}
		fmt.Println(evt.Message())
		fmt.Printf("Log file stored at: %s/log.jsonl\n", manager.GetGamePath(id))
		return nil
	},
}

func init() {
	gameCmd.AddCommand(createCmd)
	createCmd.Flags().String("id", "", "game id (default: random UUID)")
}
