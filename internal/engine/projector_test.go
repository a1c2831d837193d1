package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
)

func TestProjectorBuild(t *testing.T) {
	events := []Event{
		&GameCreatedEvent{GameID: "g1", Seats: seatsOf("werewolf", "doctor", "villager", "villager", "villager")},
		&NightStartedEvent{},
		&ActionSubmittedEvent{Action: Action{ActorID: "p1", Kind: data.ActionKill, Targets: []string{"p3"}}},
		&ActionSubmittedEvent{Action: Action{ActorID: "p2", Kind: data.ActionHeal, Targets: []string{"p4"}}},
		&NightResolvedEvent{},
		&DayStartedEvent{},
		&PlayerExecutedEvent{PlayerID: "p4"},
	}

	projector := NewProjector(testCatalogue(t), testRegistry(t))
	state, err := projector.Build(events)
	require.NoError(t, err)

	g := state.Game
	require.NotNil(t, g)
	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, PhaseDay, g.Phase())
	assert.False(t, alive(t, g, "p3"))
	assert.False(t, alive(t, g, "p4"))
	assert.True(t, alive(t, g, "p5"))

	night := events[4].(*NightResolvedEvent)
	require.NotNil(t, night.Result)
	assert.Equal(t, []string{"p3"}, night.Result.Deaths)
	assert.Contains(t, night.Message(), "Deaths: p3")
}

func TestProjectorRejectsBadLogs(t *testing.T) {
	projector := NewProjector(testCatalogue(t), testRegistry(t))

	_, err := projector.Build([]Event{&NightStartedEvent{}})
	assert.ErrorIs(t, err, ErrNoGame)

	_, err = projector.Build([]Event{
		&GameCreatedEvent{GameID: "g1", Seats: seatsOf("werewolf", "villager", "villager")},
		&NightStartedEvent{},
		&ActionSubmittedEvent{Action: Action{ActorID: "p2", Kind: data.ActionKill, Targets: []string{"p1"}}},
	})
	assert.Error(t, err)
}

func TestEventMessages(t *testing.T) {
	assert.Equal(t, "p1 shoots at the sky.", (&HunterShotEvent{HunterID: "p1"}).Message())
	assert.Equal(t, "p2 succeeds p1.", (&SuccessorAppointedEvent{DeadID: "p1", SuccessorID: "p2"}).Message())
	assert.Equal(t, "Game g created with 2 players.", (&GameCreatedEvent{GameID: "g", Seats: seatsOf("a", "b")}).Message())
	assert.Equal(t, "hello", (&HintEvent{MessageStr: "hello"}).Message())
}

func TestNightMessageReportsDetection(t *testing.T) {
	g := newTestGame(t, "seer", "wolf_seer", "villager", "villager", "villager", "werewolf")
	startNight(t, g)
	submit(t, g, "p2", data.ActionDetectRole, "p1")
	res := resolve(t, g)

	msg := (&NightResolvedEvent{Result: res}).Message()
	assert.Contains(t, msg, "p2 learns: p1 is one of the sought roles")
	assert.NotContains(t, msg, "is the \n")
}
