package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCELRegistry(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	tc := TriggerContext{
		Night:      3,
		AliveRoles: []string{"werewolf", "werewolf", "apprentice_seer", "villager"},
		DeadRoles:  []string{"seer"},
		Actor:      ActorContext{ID: "p3", Role: "apprentice_seer", Team: "villager", Used: []string{"dual:heal"}},
	}

	t.Run("Empty Expression Holds", func(t *testing.T) {
		ok, err := registry.Eval("", tc)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Dead Role Membership", func(t *testing.T) {
		ok, err := registry.Eval(`"seer" in dead_roles`, tc)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = registry.Eval(`"mayor" in dead_roles`, tc)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Night And Count", func(t *testing.T) {
		ok, err := registry.Eval(`night >= 2 && count(alive_roles, "werewolf") == 2 && alive_count == 4`, tc)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Actor Fields", func(t *testing.T) {
		ok, err := registry.Eval(`actor.team == "villager" && "dual:heal" in actor.used`, tc)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Non Boolean Rejected", func(t *testing.T) {
		_, err := registry.Eval(`night + 1`, tc)
		assert.Error(t, err)
	})

	t.Run("Compile Error", func(t *testing.T) {
		_, err := registry.Eval(`night >`, tc)
		assert.Error(t, err)
	})

	t.Run("Programs Are Cached", func(t *testing.T) {
		before := len(registry.progs)
		_, err := registry.Compile(`night == 1`)
		require.NoError(t, err)
		_, err = registry.Compile(`night == 1`)
		require.NoError(t, err)
		assert.Equal(t, before+1, len(registry.progs))
	})
}
