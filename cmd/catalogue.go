package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/netprtony/KoyaOracle-sub001/internal/command"
	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
)

var rolesCmd = &cobra.Command{
	Use:   "roles [team]",
	Short: "List the role catalogue",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cat, _, err := loadRules()
		if err != nil {
			return err
		}
		roles := &parser.RolesCmd{}
		if len(args) == 1 {
			roles.Team = args[0]
		}
		events, err := command.ExecuteRoles(roles, cat)
		if err != nil {
			return err
		}
		fmt.Println(events[0].Message())
		return nil
	},
}

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Work with the role catalogue",
}

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write every role of the catalogue to its own YAML file",
	Long: `Exports the active catalogue (roles.yaml from the data dirs, or the
built-in one) into <dir>/<role>.yaml, one file per role, plus a combined
<dir>/roles.yaml that can be used directly as a data dir.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cat, _, err := loadRules()
		if err != nil {
			return err
		}
		dir := args[0]
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		bar := progressbar.Default(int64(cat.Len()), "Exporting roles")
		var all []data.Role
		for _, id := range cat.IDs() {
			role, _ := cat.Role(id)
			all = append(all, role)
			raw, err := yaml.Marshal(role)
			if err != nil {
				return fmt.Errorf("encode %s: %w", id, err)
			}
			if err := os.WriteFile(filepath.Join(dir, id+".yaml"), raw, 0644); err != nil {
				return err
			}
			_ = bar.Add(1)
		}

		raw, err := yaml.Marshal(map[string][]data.Role{"roles": all})
		if err != nil {
			return fmt.Errorf("encode catalogue: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "roles.yaml"), raw, 0644); err != nil {
			return err
		}
		fmt.Printf("\nExported %d roles to %s\n", cat.Len(), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(catalogueCmd)
	catalogueCmd.AddCommand(exportCmd)
}
