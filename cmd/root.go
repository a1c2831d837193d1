package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/netprtony/KoyaOracle-sub001/internal/config"
	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/logger"
	"github.com/netprtony/KoyaOracle-sub001/internal/persistence"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
	"github.com/netprtony/KoyaOracle-sub001/internal/session"
)

var (
	cfgFile   string
	appConfig *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "koyaoracle",
	Short: "Moderator engine for werewolf-style social deduction games",
	Long: `koyaoracle keeps the books for a werewolf game: it validates night
actions, resolves them in a fixed priority order, cascades deaths through
passive abilities and announces the winner.

Every moderator command is stored as an event in games/<id>/log.jsonl,
so a game can be closed and resumed at any point.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		appConfig = cfg
		return logger.Init(cfg.LogLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.koyaoracle.yaml)")
	rootCmd.PersistentFlags().String("games_dir", "", "directory holding one folder per game")
	rootCmd.PersistentFlags().StringSlice("data_dirs", nil, "directories searched for roles.yaml and setups/")
	rootCmd.PersistentFlags().String("log_level", "", "debug, info, warn or error")

	for _, key := range []string{"games_dir", "data_dirs", "log_level"} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".koyaoracle")
	}

	viper.SetEnvPrefix("koyaoracle")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadRules loads the catalogue from the configured data dirs and builds the trigger registry.
func loadRules() (*data.Loader, *data.Catalogue, *rules.Registry, error) {
	loader := data.NewLoader(appConfig.DataDirs)
	cat, err := loader.LoadCatalogue()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load catalogue: %w", err)
	}
	reg, err := rules.NewRegistry()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build trigger registry: %w", err)
	}
	return loader, cat, reg, nil
}

// openSession replays an existing game into a session.
func openSession(gameID string) (*session.Session, error) {
	_, cat, reg, err := loadRules()
	if err != nil {
		return nil, err
	}
	store, err := persistence.NewGameManager(appConfig.GamesDir).Load(gameID)
	if err != nil {
		return nil, err
	}
	s, err := session.NewSession(cat, reg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return s, nil
}
