package engine

import (
	"fmt"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
)

// Projector computes GameState from the Event sequence
type Projector struct {
	catalogue *data.Catalogue
	rules     *rules.Registry
}

// NewProjector creates a projector for games played with the given catalogue.
func NewProjector(cat *data.Catalogue, reg *rules.Registry) *Projector {
	return &Projector{catalogue: cat, rules: reg}
}

// Build folds the events in order. Replaying the same log always yields the same game.
func (p *Projector) Build(events []Event) (*GameState, error) {
	state := NewGameState(p.catalogue, p.rules)

	for i, evt := range events {
		if err := evt.Apply(state); err != nil {
			return nil, fmt.Errorf("replay event %d (%s): %w", i, evt.Type(), err)
		}
	}

	return state, nil
}
