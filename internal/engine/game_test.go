package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
)

func TestNewGameValidation(t *testing.T) {
	cat, reg := testCatalogue(t), testRegistry(t)

	_, err := NewGame("g", cat, reg, seatsOf("villager", "pirate"))
	assert.ErrorIs(t, err, ErrUnknownRole)

	seats := seatsOf("villager", "werewolf")
	seats[1].ID = "p1"
	_, err = NewGame("g", cat, reg, seats)
	assert.ErrorIs(t, err, ErrDuplicatePlayerID)
}

func TestPhaseGuards(t *testing.T) {
	g := newTestGame(t, "werewolf", "villager", "villager", "villager")
	assert.Equal(t, PhaseSetup, g.Phase())

	_, err := g.StartDayPhase()
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = g.ResolveNightPhase()
	assert.ErrorIs(t, err, ErrWrongPhase)

	startNight(t, g)
	_, err = g.StartNightPhase()
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = g.StartDayPhase()
	assert.ErrorIs(t, err, ErrNightUnresolved)
	_, err = g.ExecutePlayer("p2")
	assert.ErrorIs(t, err, ErrWrongPhase)

	resolve(t, g)
	v := g.SubmitAction(Action{ActorID: "p1", Kind: data.ActionKill, Targets: []string{"p2"}})
	assert.Equal(t, CodeWrongPhase, v.Code)

	startDay(t, g)
	assert.Equal(t, 1, g.Day())
	_, err = g.ExecutePlayer("nobody")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = g.ExecutePlayer("p2")
	require.NoError(t, err)
	_, err = g.ExecutePlayer("p3")
	assert.ErrorIs(t, err, ErrAlreadyExecuted)

	startNight(t, g)
	assert.Equal(t, 2, g.Night())
}

func TestGameOverBlocksEverything(t *testing.T) {
	g := newTestGame(t, "tanner", "werewolf", "villager", "villager")
	startNight(t, g)
	resolve(t, g)
	startDay(t, g)

	res, err := g.ExecutePlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, "tanner", res.Win.Winner)
	assert.Equal(t, PhaseOver, g.Phase())
	assert.Equal(t, res.Win, g.Winner())

	_, err = g.StartNightPhase()
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, CodeGameOver, g.SubmitAction(Action{ActorID: "p2", Kind: data.ActionKill, Targets: []string{"p3"}}).Code)
	_, err = g.HunterShoot("p2", "")
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestDeferredDeathAppearsOneTransitionLater(t *testing.T) {
	g := newTestGame(t, "werewolf", "tough_guy", "villager", "villager", "villager")
	startNight(t, g)
	submit(t, g, "p1", data.ActionKill, "p2")
	res := resolve(t, g)
	assert.Empty(t, res.Deaths)
	assert.True(t, alive(t, g, "p2"))

	day := startDay(t, g)
	assert.Equal(t, []string{"p2"}, day.Deaths)
	p2, _ := g.Player("p2")
	assert.Equal(t, CauseWerewolf, p2.KilledBy)
}

func TestTransformationInsteadOfDeath(t *testing.T) {
	g := newTestGame(t, "werewolf", "cursed", "villager", "villager", "villager", "villager")
	startNight(t, g)
	submit(t, g, "p1", data.ActionKill, "p2")
	res := resolve(t, g)

	assert.Empty(t, res.Deaths)
	assert.Equal(t, []string{"p2"}, res.Transformed)
	p2, _ := g.Player("p2")
	assert.Equal(t, data.TeamWerewolf, p2.Team)
	assert.Equal(t, "werewolf", p2.RoleID)
}

func TestGhostDiesOnFirstNight(t *testing.T) {
	g := newTestGame(t, "ghost", "werewolf", "villager", "villager", "villager")
	start := startNight(t, g)
	assert.Equal(t, []string{"p1"}, start.Deaths)
	assert.False(t, alive(t, g, "p1"))
}

func TestElderRevealedOnNightThree(t *testing.T) {
	g := newTestGame(t, "elder", "werewolf", "villager", "villager", "villager", "villager", "villager")
	for i := 0; i < 2; i++ {
		startNight(t, g)
		resolve(t, g)
		startDay(t, g)
	}
	start := startNight(t, g)
	assert.Equal(t, []Effect{{Kind: EffectReveal, PlayerID: "p1", RoleID: "elder", Team: data.TeamVillager}}, start.Effects)
}

func TestDoppelgangerTakesOverRole(t *testing.T) {
	g := newTestGame(t, "doppelganger", "seer", "werewolf", "villager", "villager", "villager")
	startNight(t, g)
	submit(t, g, "p1", data.ActionCopyRole, "p2")
	submit(t, g, "p3", data.ActionKill, "p2")
	res := resolve(t, g)

	assert.Equal(t, []string{"p2"}, res.Deaths)
	p1, _ := g.Player("p1")
	assert.Equal(t, "seer", p1.RoleID)
	assert.Equal(t, data.TeamVillager, p1.Team)
	assert.Empty(t, p1.CopyTarget)
}

func TestHunterShootsAfterExecution(t *testing.T) {
	g := newTestGame(t, "hunter", "werewolf", "villager", "villager", "villager")
	startNight(t, g)
	resolve(t, g)
	startDay(t, g)

	exec, err := g.ExecutePlayer("p1")
	require.NoError(t, err)
	assert.Contains(t, exec.Effects, Effect{Kind: EffectRevengeShot, PlayerID: "p1"})

	shot, err := g.HunterShoot("p1", "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, shot.Deaths)
	assert.Equal(t, string(data.TeamVillager), shot.Win.Winner)
}

func TestTallyVotes(t *testing.T) {
	g := newTestGame(t, "mayor", "old_hag", "werewolf", "villager", "villager", "villager")
	startNight(t, g)
	submit(t, g, "p2", data.ActionSilence, "p4")
	resolve(t, g)
	startDay(t, g)

	res := g.TallyVotes(map[string]string{
		"p1": "p3", // mayor counts twice
		"p3": "p5",
		"p4": "p5", // silenced
		"p5": "p3",
		"p6": "p5",
	})
	assert.Equal(t, map[string]int{"p3": 3, "p5": 2}, res.Counts)
	assert.Equal(t, "p3", res.TargetID)
	assert.False(t, res.Tie)

	tie := g.TallyVotes(map[string]string{"p3": "p5", "p5": "p3", "p6": "nobody"})
	assert.True(t, tie.Tie)
	assert.Empty(t, tie.TargetID)
}

func TestAppointSuccessor(t *testing.T) {
	g := newTestGame(t, "mayor", "werewolf", "villager", "villager", "villager", "villager")
	startNight(t, g)
	submit(t, g, "p2", data.ActionKill, "p1")
	resolve(t, g)
	assert.Equal(t, []string{"p1"}, g.PendingSuccessions())

	assert.ErrorIs(t, g.AppointSuccessor("p3", "p4"), ErrNoSuccession)
	assert.ErrorIs(t, g.AppointSuccessor("p1", "p1"), ErrPlayerDead)
	require.NoError(t, g.AppointSuccessor("p1", "p4"))

	p4, _ := g.Player("p4")
	assert.Equal(t, 2, p4.VoteWeight)
	assert.Empty(t, g.PendingSuccessions())
	assert.ErrorIs(t, g.AppointSuccessor("p1", "p5"), ErrNoSuccession)
}

func TestLoversCascadeThroughNight(t *testing.T) {
	g := newTestGame(t, "cupid", "werewolf", "villager", "villager", "villager", "villager", "villager")
	startNight(t, g)
	submit(t, g, "p1", data.ActionCreateLovers, "p3", "p4")
	resolve(t, g)
	startDay(t, g)

	startNight(t, g)
	submit(t, g, "p2", data.ActionKill, "p3")
	res := resolve(t, g)
	assert.Equal(t, []string{"p3", "p4"}, res.Deaths)
	p4, _ := g.Player("p4")
	assert.Equal(t, CauseLover, p4.KilledBy)
}
