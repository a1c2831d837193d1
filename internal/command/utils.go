package command

import (
	"fmt"
	"strings"

	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
)

// requireGame returns the game folded into state, or engine.ErrNoGame.
func requireGame(state *engine.GameState) (*engine.Game, error) {
	if state == nil || state.Game == nil {
		return nil, engine.ErrNoGame
	}
	return state.Game, nil
}

// requirePlayer resolves a player id against the game.
func requirePlayer(g *engine.Game, id string) (engine.Player, error) {
	p, ok := g.Player(id)
	if !ok {
		return engine.Player{}, fmt.Errorf("%s: %w", id, engine.ErrUnknownPlayer)
	}
	return p, nil
}

func hint(format string, args ...any) []engine.Event {
	return []engine.Event{&engine.HintEvent{MessageStr: fmt.Sprintf(format, args...)}}
}

// describe renders a player as "Name (id)" when the two differ.
func describe(p engine.Player) string {
	if p.Name == "" || strings.EqualFold(p.Name, p.ID) {
		return p.ID
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.ID)
}
