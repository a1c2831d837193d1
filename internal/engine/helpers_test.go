package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
)

// seatsOf seats players p1..pn with the given roles.
func seatsOf(roles ...string) []data.SeatAssignment {
	seats := make([]data.SeatAssignment, len(roles))
	for i, r := range roles {
		id := fmt.Sprintf("p%d", i+1)
		seats[i] = data.SeatAssignment{ID: id, Name: id, Role: r}
	}
	return seats
}

func testCatalogue(t *testing.T) *data.Catalogue {
	t.Helper()
	cat, err := data.DefaultCatalogue()
	require.NoError(t, err)
	return cat
}

func testRegistry(t *testing.T) *rules.Registry {
	t.Helper()
	reg, err := rules.NewRegistry()
	require.NoError(t, err)
	return reg
}

// newTestGame builds a game seated p1..pn with the given roles.
func newTestGame(t *testing.T, roles ...string) *Game {
	t.Helper()
	g, err := NewGame("test", testCatalogue(t), testRegistry(t), seatsOf(roles...))
	require.NoError(t, err)
	return g
}

// startNight begins a night and fails the test on error.
func startNight(t *testing.T, g *Game) *PhaseStart {
	t.Helper()
	s, err := g.StartNightPhase()
	require.NoError(t, err)
	return s
}

func resolve(t *testing.T, g *Game) *NightResult {
	t.Helper()
	r, err := g.ResolveNightPhase()
	require.NoError(t, err)
	return r
}

func startDay(t *testing.T, g *Game) *PhaseStart {
	t.Helper()
	s, err := g.StartDayPhase()
	require.NoError(t, err)
	return s
}

func submit(t *testing.T, g *Game, actor string, kind data.ActionKind, targets ...string) {
	t.Helper()
	v := g.SubmitAction(Action{ActorID: actor, Kind: kind, Targets: targets})
	require.True(t, v.Allowed, "%s %s %v rejected: %s (%s)", actor, kind, targets, v.Reason, v.Code)
}

func alive(t *testing.T, g *Game, id string) bool {
	t.Helper()
	p, ok := g.Player(id)
	require.True(t, ok, "unknown player %s", id)
	return p.Alive()
}

// newTestStore builds a bare store for the given roles.
func newTestStore(t *testing.T, roles ...string) *Store {
	t.Helper()
	s := NewStore(testCatalogue(t))
	s.Initialize(seatsOf(roles...))
	return s
}
