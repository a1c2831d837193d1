package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
)

func newState(t *testing.T, roles ...string) *engine.GameState {
	t.Helper()
	cat, err := data.DefaultCatalogue()
	require.NoError(t, err)
	reg, err := rules.NewRegistry()
	require.NoError(t, err)

	seats := make([]data.SeatAssignment, len(roles))
	for i, r := range roles {
		id := string(rune('a' + i))
		seats[i] = data.SeatAssignment{ID: id, Name: id, Role: r}
	}
	state := engine.NewGameState(cat, reg)
	require.NoError(t, (&engine.GameCreatedEvent{GameID: "g", Seats: seats}).Apply(state))
	return state
}

func parse(t *testing.T, input string) *parser.Command {
	t.Helper()
	cmd, err := parser.Build().ParseString("", input)
	require.NoError(t, err)
	return cmd
}

func apply(t *testing.T, state *engine.GameState, events []engine.Event) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, e.Apply(state))
	}
}

func message(t *testing.T, events []engine.Event) string {
	t.Helper()
	require.Len(t, events, 1)
	return events[0].Message()
}

func TestCommandsNeedAGame(t *testing.T) {
	cat, err := data.DefaultCatalogue()
	require.NoError(t, err)
	empty := engine.NewGameState(cat, nil)

	_, err = ExecuteNight(parse(t, "night").Night, empty)
	assert.ErrorIs(t, err, engine.ErrNoGame)
	_, err = ExecuteStatus(parse(t, "status").Status, empty)
	assert.ErrorIs(t, err, engine.ErrNoGame)
}

func TestPhaseCommands(t *testing.T) {
	state := newState(t, "werewolf", "villager", "villager", "villager")

	_, err := ExecuteDay(parse(t, "day").Day, state)
	require.NoError(t, err) // setup -> day is rejected by the engine, not here

	events, err := ExecuteNight(parse(t, "night").Night, state)
	require.NoError(t, err)
	apply(t, state, events)

	_, err = ExecuteNight(parse(t, "night").Night, state)
	assert.ErrorIs(t, err, engine.ErrWrongPhase)
	_, err = ExecuteDay(parse(t, "day").Day, state)
	assert.ErrorIs(t, err, engine.ErrNightUnresolved)

	events, err = ExecuteResolve(parse(t, "resolve").Resolve, state)
	require.NoError(t, err)
	apply(t, state, events)

	_, err = ExecuteResolve(parse(t, "resolve").Resolve, state)
	assert.ErrorIs(t, err, engine.ErrWrongPhase)
}

func TestActAndCan(t *testing.T) {
	state := newState(t, "werewolf", "witch", "villager", "villager")
	apply(t, state, []engine.Event{&engine.NightStartedEvent{}})

	events, err := ExecuteCan(parse(t, "can by: c kill to: b").Can, state)
	require.NoError(t, err)
	assert.Contains(t, message(t, events), "denied [ACTION_NOT_DEFINED]")

	events, err = ExecuteCan(parse(t, "can by: a kill to: c").Can, state)
	require.NoError(t, err)
	assert.Contains(t, message(t, events), "allowed")

	_, err = ExecuteAct(parse(t, "act by: a fly to: c").Act, state)
	assert.ErrorContains(t, err, `unknown action kind "fly"`)

	_, err = ExecuteAct(parse(t, "act by: a kill to: a").Act, state)
	assert.ErrorContains(t, err, "rejected")

	events, err = ExecuteAct(parse(t, "act by: a kill to: c").Act, state)
	require.NoError(t, err)
	apply(t, state, events)

	events, err = ExecuteAct(parse(t, "act by: b dual heal to: c").Act, state)
	require.NoError(t, err)
	apply(t, state, events)

	queued := state.Game.PendingActions()
	require.Len(t, queued, 2)
	assert.Equal(t, data.ActionDual, queued[1].Kind)
	assert.Equal(t, data.ActionHeal, queued[1].SubKind)

	apply(t, state, []engine.Event{&engine.NightResolvedEvent{}})
	c, _ := state.Game.Player("c")
	assert.True(t, c.Alive())
}

func TestVotingAndExecution(t *testing.T) {
	state := newState(t, "werewolf", "mayor", "villager", "villager", "villager")
	ballot := Ballot{}

	_, err := ExecuteVote(parse(t, "vote by: b to: a").Vote, state, ballot)
	assert.ErrorIs(t, err, engine.ErrWrongPhase)

	apply(t, state, []engine.Event{&engine.NightStartedEvent{}, &engine.NightResolvedEvent{}, &engine.DayStartedEvent{}})

	events, err := ExecuteTally(parse(t, "tally").Tally, state, ballot)
	require.NoError(t, err)
	assert.Equal(t, "No votes recorded.", message(t, events))

	for _, v := range []string{"vote by: b to: a", "vote by: c to: d", "vote by: d to: a", "vote by: e to: d"} {
		_, err := ExecuteVote(parse(t, v).Vote, state, ballot)
		require.NoError(t, err)
	}
	_, err = ExecuteVote(parse(t, "vote by: zz to: a").Vote, state, ballot)
	assert.ErrorIs(t, err, engine.ErrUnknownPlayer)

	events, err = ExecuteTally(parse(t, "tally").Tally, state, ballot)
	require.NoError(t, err)
	assert.Equal(t, "Vote tally:\n├─ a: 3\n├─ d: 2\n└─ Execute a.", message(t, events))

	events, err = ExecuteExecute(parse(t, "execute a").Execute, state)
	require.NoError(t, err)
	apply(t, state, events)
	assert.Equal(t, engine.PhaseOver, state.Game.Phase())

	_, err = ExecuteExecute(parse(t, "execute a").Execute, state)
	assert.ErrorIs(t, err, engine.ErrPlayerDead)
}

func TestShootAndSuccessor(t *testing.T) {
	state := newState(t, "hunter", "werewolf", "mayor", "villager", "villager", "villager")
	apply(t, state, []engine.Event{&engine.NightStartedEvent{}})

	_, err := ExecuteShoot(parse(t, "shoot by: a sky").Shoot, state)
	assert.ErrorIs(t, err, engine.ErrNoPendingShot)

	events, err := ExecuteAct(parse(t, "act by: b kill to: c").Act, state)
	require.NoError(t, err)
	apply(t, state, events)
	apply(t, state, []engine.Event{&engine.NightResolvedEvent{}, &engine.DayStartedEvent{}})

	_, err = ExecuteSuccessor(parse(t, "successor by: d to: e").Successor, state)
	assert.ErrorIs(t, err, engine.ErrNoSuccession)
	events, err = ExecuteSuccessor(parse(t, "successor by: c to: e").Successor, state)
	require.NoError(t, err)
	apply(t, state, events)
	e, _ := state.Game.Player("e")
	assert.Equal(t, 2, e.VoteWeight)

	apply(t, state, []engine.Event{&engine.PlayerExecutedEvent{PlayerID: "a"}})
	events, err = ExecuteShoot(parse(t, "shoot by: a to: b").Shoot, state)
	require.NoError(t, err)
	apply(t, state, events)
	assert.Equal(t, string(data.TeamVillager), state.Game.Winner().Winner)
}

func TestQueries(t *testing.T) {
	state := newState(t, "werewolf", "seer", "villager")

	events, err := ExecuteStatus(parse(t, "status").Status, state)
	require.NoError(t, err)
	assert.Contains(t, message(t, events), "Setup. Start the first night with: night")

	events, err = ExecuteStatus(parse(t, "status b").Status, state)
	require.NoError(t, err)
	assert.Equal(t, "b: seer (villager), alive", message(t, events))

	_, err = ExecuteStatus(parse(t, "status zz").Status, state)
	assert.ErrorIs(t, err, engine.ErrUnknownPlayer)

	events, err = ExecuteWin(parse(t, "win").Win, state)
	require.NoError(t, err)
	assert.Equal(t, "no winner yet", message(t, events))

	events, err = ExecuteRoles(parse(t, "roles vampire").Roles, state.Catalogue)
	require.NoError(t, err)
	assert.Contains(t, message(t, events), "vampire_sire")
	_, err = ExecuteRoles(parse(t, "roles pirates").Roles, state.Catalogue)
	assert.ErrorContains(t, err, "unknown team")

	events, err = ExecuteHelp(parse(t, "help act").Help)
	require.NoError(t, err)
	assert.Contains(t, message(t, events), "act by: Player <kind>")
	events, err = ExecuteHelp(parse(t, "help").Help)
	require.NoError(t, err)
	assert.Contains(t, message(t, events), "successor")
}
