package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
)

const (
	logFile   = "log.jsonl"
	setupFile = "setup.yaml"
)

// ErrGameNotFound is returned when a game directory does not exist.
var ErrGameNotFound = errors.New("game not found")

// GameManager lays out one directory per game under GamesDir.
type GameManager struct {
	GamesDir string
}

// NewGameManager returns a manager rooted at gamesDir.
func NewGameManager(gamesDir string) *GameManager {
	return &GameManager{GamesDir: gamesDir}
}

// GetGamePath joins the game id onto the games directory.
func (m *GameManager) GetGamePath(id string) string {
	return filepath.Join(m.GamesDir, id)
}

// Create makes the game directory, records the setup next to the log and
// opens an empty event store. An existing game is never overwritten.
func (m *GameManager) Create(id string, setup data.Setup) (*Store, error) {
	path := m.GetGamePath(id)
	if _, err := os.Stat(filepath.Join(path, logFile)); err == nil {
		return nil, fmt.Errorf("game %s already exists at %s", id, path)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	raw, err := yaml.Marshal(setup)
	if err != nil {
		return nil, fmt.Errorf("encode setup: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, setupFile), raw, 0644); err != nil {
		return nil, fmt.Errorf("write setup: %w", err)
	}

	return NewStore(filepath.Join(path, logFile))
}

// Load opens the event store of an existing game.
func (m *GameManager) Load(id string) (*Store, error) {
	path := m.GetGamePath(id)
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrGameNotFound)
	}
	return NewStore(filepath.Join(path, logFile))
}

// List returns the ids of every game directory holding an event log.
func (m *GameManager) List() ([]string, error) {
	entries, err := os.ReadDir(m.GamesDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(m.GamesDir, e.Name(), logFile)); err == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
