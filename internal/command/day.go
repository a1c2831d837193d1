package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
)

// Ballot holds the day's votes, voter to target. Votes are moderator
// bookkeeping and never reach the event log.
type Ballot map[string]string

// ExecuteExecute builds the day's execution.
func ExecuteExecute(cmd *parser.ExecuteCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	p, err := requirePlayer(g, cmd.Target)
	if err != nil {
		return nil, err
	}
	if !p.Alive() {
		return nil, fmt.Errorf("execute %s: %w", p.ID, engine.ErrPlayerDead)
	}
	return []engine.Event{&engine.PlayerExecutedEvent{PlayerID: p.ID}}, nil
}

// ExecuteShoot spends a pending revenge shot.
func ExecuteShoot(cmd *parser.ShootCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	hunter, err := requirePlayer(g, cmd.Actor.Name)
	if err != nil {
		return nil, err
	}
	if !hunter.PendingShot {
		return nil, fmt.Errorf("%s: %w", hunter.ID, engine.ErrNoPendingShot)
	}
	evt := &engine.HunterShotEvent{HunterID: hunter.ID}
	if !cmd.Sky {
		evt.TargetID = cmd.Target.IDs[0]
		if _, err := requirePlayer(g, evt.TargetID); err != nil {
			return nil, err
		}
	}
	return []engine.Event{evt}, nil
}

// ExecuteVote records one vote on the ballot. A later vote replaces an earlier one.
func ExecuteVote(cmd *parser.VoteCmd, state *engine.GameState, ballot Ballot) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	if g.Phase() != engine.PhaseDay {
		return nil, fmt.Errorf("vote: %w", engine.ErrWrongPhase)
	}
	voter, err := requirePlayer(g, cmd.Actor.Name)
	if err != nil {
		return nil, err
	}
	if !voter.Alive() {
		return nil, fmt.Errorf("voter %s: %w", voter.ID, engine.ErrPlayerDead)
	}
	target, err := requirePlayer(g, cmd.Target.IDs[0])
	if err != nil {
		return nil, err
	}
	if !target.Alive() {
		return nil, fmt.Errorf("target %s: %w", target.ID, engine.ErrPlayerDead)
	}
	ballot[voter.ID] = target.ID
	return hint("%s votes for %s.", describe(voter), describe(target)), nil
}

// ExecuteTally counts the ballot and names the player to execute, if any.
func ExecuteTally(cmd *parser.TallyCmd, state *engine.GameState, ballot Ballot) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	if len(ballot) == 0 {
		return hint("No votes recorded."), nil
	}
	res := g.TallyVotes(ballot)

	targets := make([]string, 0, len(res.Counts))
	for t := range res.Counts {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool {
		if res.Counts[targets[i]] != res.Counts[targets[j]] {
			return res.Counts[targets[i]] > res.Counts[targets[j]]
		}
		return targets[i] < targets[j]
	})

	var sb strings.Builder
	sb.WriteString("Vote tally:")
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("\n├─ %s: %d", t, res.Counts[t]))
	}
	switch {
	case res.Tie:
		sb.WriteString("\n└─ Tie: no execution.")
	case res.TargetID != "":
		sb.WriteString(fmt.Sprintf("\n└─ Execute %s.", res.TargetID))
	default:
		sb.WriteString("\n└─ No valid votes.")
	}
	return hint("%s", sb.String()), nil
}

// ExecuteSuccessor hands a dead player's vote weight to a living successor.
func ExecuteSuccessor(cmd *parser.SuccessorCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	dead := cmd.Actor.Name
	pending := false
	for _, id := range g.PendingSuccessions() {
		if id == dead {
			pending = true
		}
	}
	if !pending {
		return nil, fmt.Errorf("successor for %s: %w", dead, engine.ErrNoSuccession)
	}
	return []engine.Event{&engine.SuccessorAppointedEvent{DeadID: dead, SuccessorID: cmd.Target.IDs[0]}}, nil
}
