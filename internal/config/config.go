package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// AppConfig is the resolved configuration of the moderator tool.
type AppConfig struct {
	GamesDir string   `mapstructure:"games_dir"`
	DataDirs []string `mapstructure:"data_dirs"`
	LogLevel string   `mapstructure:"log_level"`
}

// SetDefaults registers the fallback values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("games_dir", "./games")
	v.SetDefault("data_dirs", []string{"./data"})
	v.SetDefault("log_level", "info")
}

// Load unmarshals the settings already read into v.
func Load(v *viper.Viper) (*AppConfig, error) {
	SetDefaults(v)
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
