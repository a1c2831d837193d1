package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, &AppConfig{GamesDir: "./games", DataDirs: []string{"./data"}, LogLevel: "info"}, cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "koyaoracle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("games_dir: /tmp/games\ndata_dirs: [a, b]\nlog_level: debug\n"), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/games", cfg.GamesDir)
	assert.Equal(t, []string{"a", "b"}, cfg.DataDirs)
	assert.Equal(t, "debug", cfg.LogLevel)
}
