package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
)

func TestStoreInitialize(t *testing.T) {
	s := newTestStore(t, "mayor", "twin", "cult_leader", "twin", "werewolf")

	p1, ok := s.Player("p1")
	require.True(t, ok)
	assert.True(t, p1.Alive())
	assert.Equal(t, 2, p1.VoteWeight)
	assert.Equal(t, data.TeamVillager, p1.Team)

	p2, _ := s.Player("p2")
	assert.Equal(t, "p4", p2.TwinID)
	p4, _ := s.Player("p4")
	assert.Equal(t, "p2", p4.TwinID)

	p3, _ := s.Player("p3")
	assert.True(t, p3.InCult)
	assert.Equal(t, 1, p3.VoteWeight)

	assert.Len(t, s.Players(), 5)
}

func TestStoreUnknownIDsAreNoops(t *testing.T) {
	s := newTestStore(t, "villager", "werewolf")
	before := s.Players()

	s.SetProtected("ghost")
	s.MarkForDeath("ghost", CauseWerewolf, 0)
	assert.False(t, s.KillPlayer("ghost", CauseWerewolf))
	s.UseAbility("ghost", "x")
	s.TransformPlayer("ghost", "werewolf", data.TeamWerewolf)
	s.SwapRoles("ghost", "p1")
	assert.False(t, s.CreateLovers("ghost", "p1"))

	assert.Equal(t, before, s.Players())
}

func TestStorePlayerIsACopy(t *testing.T) {
	s := newTestStore(t, "villager")
	p, _ := s.Player("p1")
	p.Used["x"] = true
	p.Status = 0

	fresh, _ := s.Player("p1")
	assert.False(t, fresh.HasUsed("x"))
	assert.True(t, fresh.Alive())
}

func TestMarkForDeathKeepsShorterDelay(t *testing.T) {
	s := newTestStore(t, "villager")

	s.MarkForDeath("p1", "vampire", 1)
	s.MarkForDeath("p1", CauseWerewolf, 0)
	p, _ := s.Player("p1")
	assert.Equal(t, 0, p.DeathDelay)
	assert.Equal(t, CauseWerewolf, p.MarkCause)

	s.MarkForDeath("p1", "vampire", 1)
	p, _ = s.Player("p1")
	assert.Equal(t, 0, p.DeathDelay)
	assert.Equal(t, CauseWerewolf, p.MarkCause)
}

func TestProcessDelayedDeaths(t *testing.T) {
	s := newTestStore(t, "villager", "villager", "villager")
	s.MarkForDeath("p1", "vampire", 2)
	s.MarkForDeath("p2", "vampire", 1)
	s.MarkForDeath("p3", CauseWerewolf, 0)

	first := s.ProcessDelayedDeaths()
	assert.Equal(t, []Death{{PlayerID: "p2", Cause: "vampire"}}, first)
	assert.True(t, s.IsAlive("p1"))
	assert.True(t, s.IsAlive("p3"), "zero delay marks are left to finalisation")

	second := s.ProcessDelayedDeaths()
	assert.Equal(t, []Death{{PlayerID: "p1", Cause: "vampire"}}, second)

	finalized := s.FinalizeMarked()
	assert.Equal(t, []Death{{PlayerID: "p3", Cause: CauseWerewolf}}, finalized)
	assert.Empty(t, s.FinalizeMarked())
}

func TestKillIsMonotonic(t *testing.T) {
	s := newTestStore(t, "villager")
	assert.True(t, s.KillPlayer("p1", CauseWerewolf))
	assert.False(t, s.KillPlayer("p1", CauseExecution))

	p, _ := s.Player("p1")
	assert.Equal(t, CauseWerewolf, p.KilledBy)

	s.MarkForDeath("p1", CauseWerewolf, 0)
	p, _ = s.Player("p1")
	assert.False(t, p.Marked)
}

func TestSaveFromDeath(t *testing.T) {
	s := newTestStore(t, "villager")
	assert.False(t, s.SaveFromDeath("p1"))

	s.MarkForDeath("p1", CauseWerewolf, 0)
	assert.True(t, s.SaveFromDeath("p1"))
	p, _ := s.Player("p1")
	assert.False(t, p.Marked)
	assert.True(t, p.Status.Has(StatusHealed))
}

func TestResetStatuses(t *testing.T) {
	s := newTestStore(t, "villager")
	s.SetProtected("p1")
	s.SetBlessed("p1")
	s.SetSilenced("p1")
	s.SetExiled("p1")
	s.SetBitten("p1")

	s.ResetNightStatuses()
	p, _ := s.Player("p1")
	assert.False(t, p.Status.Has(StatusProtected))
	assert.False(t, p.Status.Has(StatusBitten))
	assert.True(t, p.Status.Has(StatusBlessed))
	assert.True(t, p.Status.Has(StatusSilenced))

	s.ResetDayStatuses()
	p, _ = s.Player("p1")
	assert.False(t, p.Status.Has(StatusSilenced))
	assert.False(t, p.Status.Has(StatusExiled))
	assert.True(t, p.Status.Has(StatusBlessed|StatusAlive))
}

func TestAdjacentPlayers(t *testing.T) {
	s := newTestStore(t, "villager", "villager", "villager", "villager", "villager")

	assert.Equal(t, []string{"p5", "p2"}, s.AdjacentPlayers("p1"))
	assert.Equal(t, []string{"p4", "p1"}, s.AdjacentPlayers("p5"))

	s.KillPlayer("p2", CauseWerewolf)
	s.KillPlayer("p5", CauseWerewolf)
	assert.Equal(t, []string{"p4", "p3"}, s.AdjacentPlayers("p1"))

	s.KillPlayer("p4", CauseWerewolf)
	assert.Equal(t, []string{"p3"}, s.AdjacentPlayers("p1"))

	s.KillPlayer("p3", CauseWerewolf)
	assert.Empty(t, s.AdjacentPlayers("p1"))
	assert.Nil(t, s.AdjacentPlayers("nobody"))
}

func TestLinksAreSetOnce(t *testing.T) {
	s := newTestStore(t, "villager", "villager", "villager")
	assert.True(t, s.CreateLovers("p1", "p2"))
	assert.False(t, s.CreateLovers("p1", "p3"))
	assert.False(t, s.CreateLovers("p3", "p3"))

	p1, _ := s.Player("p1")
	p3, _ := s.Player("p3")
	assert.Equal(t, "p2", p1.LoverID)
	assert.Empty(t, p3.LoverID)
}

func TestSwapRolesAndTransform(t *testing.T) {
	s := newTestStore(t, "seer", "werewolf")
	s.SwapRoles("p1", "p2")

	p1, _ := s.Player("p1")
	p2, _ := s.Player("p2")
	assert.Equal(t, "werewolf", p1.RoleID)
	assert.Equal(t, data.TeamWerewolf, p1.Team)
	assert.Equal(t, "seer", p2.RoleID)
	assert.Equal(t, data.TeamVillager, p2.Team)

	s.TransformPlayer("p2", "vampire", data.TeamVampire)
	p2, _ = s.Player("p2")
	assert.Equal(t, data.TeamVampire, p2.Team)
}

func TestWerewolfInfection(t *testing.T) {
	s := newTestStore(t, "werewolf", "wolf_cub", "villager")
	s.KillPlayer("p2", CauseExecution)

	assert.Equal(t, []string{"p1"}, s.InfectWerewolves())
	p1, _ := s.Player("p1")
	assert.True(t, p1.Infected)

	s.CureInfection("p1")
	p1, _ = s.Player("p1")
	assert.False(t, p1.Infected)
}
