package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
)

func TestParsePhaseCommands(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "night")
	require.NoError(t, err)
	assert.NotNil(t, cmd.Night)

	cmd, err = p.ParseString("", "RESOLVE")
	require.NoError(t, err)
	assert.NotNil(t, cmd.Resolve)

	cmd, err = p.ParseString("", "Day")
	require.NoError(t, err)
	assert.NotNil(t, cmd.Day)
}

func TestParseAct(t *testing.T) {
	p := parser.Build()

	t.Run("single target", func(t *testing.T) {
		cmd, err := p.ParseString("", "act by: wolf1 kill to: p3")
		require.NoError(t, err)
		require.NotNil(t, cmd.Act)
		a := cmd.Act.Action
		assert.Equal(t, "wolf1", a.Actor.Name)
		assert.Equal(t, "kill", a.Kind)
		assert.Empty(t, a.SubKind)
		assert.Equal(t, []string{"p3"}, a.TargetIDs())
	})

	t.Run("dual with sub kind", func(t *testing.T) {
		cmd, err := p.ParseString("", "act by: witch dual heal to: p2")
		require.NoError(t, err)
		a := cmd.Act.Action
		assert.Equal(t, "dual", a.Kind)
		assert.Equal(t, "heal", a.SubKind)
		assert.Equal(t, []string{"p2"}, a.TargetIDs())
	})

	t.Run("two targets", func(t *testing.T) {
		cmd, err := p.ParseString("", "act by: cupid create_lovers to: 3 and: 7")
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "7"}, cmd.Act.Action.TargetIDs())
	})

	t.Run("no targets", func(t *testing.T) {
		cmd, err := p.ParseString("", "can by: p1 protect")
		require.NoError(t, err)
		require.NotNil(t, cmd.Can)
		assert.Nil(t, cmd.Can.Action.TargetIDs())
	})
}

func TestParseDayCommands(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "execute p4")
	require.NoError(t, err)
	assert.Equal(t, "p4", cmd.Execute.Target)

	cmd, err = p.ParseString("", "shoot by: hunter to: p2")
	require.NoError(t, err)
	assert.False(t, cmd.Shoot.Sky)
	assert.Equal(t, []string{"p2"}, cmd.Shoot.Target.IDs)

	cmd, err = p.ParseString("", "shoot by: hunter sky")
	require.NoError(t, err)
	assert.True(t, cmd.Shoot.Sky)
	assert.Nil(t, cmd.Shoot.Target)

	cmd, err = p.ParseString("", "vote by: p1 to: p2")
	require.NoError(t, err)
	assert.Equal(t, "p1", cmd.Vote.Actor.Name)
	assert.Equal(t, []string{"p2"}, cmd.Vote.Target.IDs)

	cmd, err = p.ParseString("", "successor by: mayor to: p5")
	require.NoError(t, err)
	assert.Equal(t, "mayor", cmd.Successor.Actor.Name)
	assert.Equal(t, []string{"p5"}, cmd.Successor.Target.IDs)

	cmd, err = p.ParseString("", "tally")
	require.NoError(t, err)
	assert.NotNil(t, cmd.Tally)
}

func TestParseQueries(t *testing.T) {
	p := parser.Build()

	cmd, err := p.ParseString("", "status")
	require.NoError(t, err)
	assert.Empty(t, cmd.Status.Player)

	cmd, err = p.ParseString("", "status p2")
	require.NoError(t, err)
	assert.Equal(t, "p2", cmd.Status.Player)

	cmd, err = p.ParseString("", "roles werewolf")
	require.NoError(t, err)
	assert.Equal(t, "werewolf", cmd.Roles.Team)

	cmd, err = p.ParseString("", "help act")
	require.NoError(t, err)
	assert.Equal(t, "act", cmd.Help.Command)

	cmd, err = p.ParseString("", "win")
	require.NoError(t, err)
	assert.NotNil(t, cmd.Win)
}

func TestMapError(t *testing.T) {
	p := parser.Build()

	_, err := p.ParseString("", "vote by: p1")
	require.Error(t, err)
	assert.EqualError(t, parser.MapError("vote by: p1", err), "The command vote must be: vote by: Voter to: Target")

	raw := errors.New("boom")
	assert.ErrorIs(t, parser.MapError("dance", raw), raw)
	assert.EqualError(t, parser.MapError("  ", raw), "I wasn't able to understand your command")
}
