package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
)

func seats() []data.SeatAssignment {
	return []data.SeatAssignment{
		{ID: "ana", Name: "Ana", Role: "werewolf"},
		{ID: "bo", Name: "Bo", Role: "seer"},
		{ID: "cy", Name: "Cy", Role: "villager"},
		{ID: "di", Name: "Di", Role: "villager"},
	}
}

func TestStoreAppendLoad(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "log.jsonl"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(&engine.GameCreatedEvent{GameID: "g1", Seats: seats()}))
	require.NoError(t, store.Append(&engine.NightStartedEvent{}))
	require.NoError(t, store.Append(&engine.ActionSubmittedEvent{
		Action: engine.Action{ActorID: "ana", Kind: data.ActionKill, Targets: []string{"cy"}},
	}))
	require.NoError(t, store.Append(&engine.HintEvent{MessageStr: "not persisted"}))
	require.NoError(t, store.Append(&engine.NightResolvedEvent{}))
	require.NoError(t, store.Append(&engine.HunterShotEvent{HunterID: "bo"}))

	events, err := store.Load()
	require.NoError(t, err)
	require.Len(t, events, 5)

	created, ok := events[0].(*engine.GameCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "g1", created.GameID)
	assert.Equal(t, seats(), created.Seats)

	submitted, ok := events[2].(*engine.ActionSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, data.ActionKill, submitted.Action.Kind)
	assert.Equal(t, []string{"cy"}, submitted.Action.Targets)

	shot, ok := events[4].(*engine.HunterShotEvent)
	require.True(t, ok)
	assert.Empty(t, shot.TargetID)
}

func TestReplayRebuildsGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	store, err := NewStore(path)
	require.NoError(t, err)

	for _, evt := range []engine.Event{
		&engine.GameCreatedEvent{GameID: "g1", Seats: seats()},
		&engine.NightStartedEvent{},
		&engine.ActionSubmittedEvent{Action: engine.Action{ActorID: "ana", Kind: data.ActionKill, Targets: []string{"cy"}}},
		&engine.NightResolvedEvent{},
		&engine.DayStartedEvent{},
	} {
		require.NoError(t, store.Append(evt))
	}
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	events, err := reopened.Load()
	require.NoError(t, err)

	cat, err := data.DefaultCatalogue()
	require.NoError(t, err)
	reg, err := rules.NewRegistry()
	require.NoError(t, err)
	state, err := engine.NewProjector(cat, reg).Build(events)
	require.NoError(t, err)

	g := state.Game
	assert.Equal(t, engine.PhaseDay, g.Phase())
	cy, ok := g.Player("cy")
	require.True(t, ok)
	assert.False(t, cy.Alive())
	assert.Equal(t, engine.CauseWerewolf, cy.KilledBy)
}

func TestLoadRejectsUnknownEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"Teleport","data":{}}`+"\n"), 0644))

	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load()
	assert.ErrorContains(t, err, "unknown event type in log: Teleport")
}

func TestGameManager(t *testing.T) {
	m := NewGameManager(t.TempDir())
	setup := data.Setup{Name: "classic", Players: seats()}

	ids, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, ids)

	store, err := m.Create("g1", setup)
	require.NoError(t, err)
	require.NoError(t, store.Append(&engine.GameCreatedEvent{GameID: "g1", Seats: setup.Players}))
	require.NoError(t, store.Close())

	assert.FileExists(t, filepath.Join(m.GetGamePath("g1"), "setup.yaml"))

	_, err = m.Create("g1", setup)
	assert.ErrorContains(t, err, "already exists")

	loaded, err := m.Load("g1")
	require.NoError(t, err)
	events, err := loaded.Load()
	require.NoError(t, err)
	assert.Len(t, events, 1)
	require.NoError(t, loaded.Close())

	_, err = m.Load("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)

	ids, err = m.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, ids)
}
