package command

import (
	"fmt"

	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
)

// ExecuteNight opens the next night.
func ExecuteNight(cmd *parser.NightCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	if g.Phase() == engine.PhaseNight {
		return nil, fmt.Errorf("night %d is already running: %w", g.Night(), engine.ErrWrongPhase)
	}
	return []engine.Event{&engine.NightStartedEvent{}}, nil
}

// ExecuteResolve resolves the queued night actions.
func ExecuteResolve(cmd *parser.ResolveCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	if g.Phase() != engine.PhaseNight || g.Resolved() {
		return nil, fmt.Errorf("nothing to resolve: %w", engine.ErrWrongPhase)
	}
	return []engine.Event{&engine.NightResolvedEvent{}}, nil
}

// ExecuteDay opens the day after a resolved night.
func ExecuteDay(cmd *parser.DayCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	if g.Phase() == engine.PhaseNight && !g.Resolved() {
		return nil, fmt.Errorf("night %d: %w", g.Night(), engine.ErrNightUnresolved)
	}
	return []engine.Event{&engine.DayStartedEvent{}}, nil
}
