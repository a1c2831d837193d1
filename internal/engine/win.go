package engine

import (
	"github.com/netprtony/KoyaOracle-sub001/internal/data"
)

// Win condition tags.
const (
	ConditionExecuted    = "executed"
	ConditionTargetsDead = "targets_dead"
	ConditionLoneWolf    = "lone_wolf"
	ConditionLovers      = "lovers"
	ConditionTwins       = "twins"
	ConditionCult        = "cult"
	ConditionNoWerewolf  = "no_werewolves"
	ConditionParity      = "parity"
	ConditionElimination = "elimination"
)

// WinEvaluator checks win conditions against the current store. It holds no
// state of its own so repeated checks without mutation agree.
type WinEvaluator struct {
	store     *Store
	catalogue *data.Catalogue
}

// NewWinEvaluator binds an evaluator to a store and a catalogue.
func NewWinEvaluator(store *Store, cat *data.Catalogue) *WinEvaluator {
	return &WinEvaluator{store: store, catalogue: cat}
}

func (w *WinEvaluator) role(p Player) data.Role {
	r, _ := w.catalogue.Role(p.RoleID)
	return r
}

// Check evaluates every condition in priority order; the first match wins.
func (w *WinEvaluator) Check() WinResult {
	all := w.store.Players()
	living := w.store.Living()

	// 1. individual wins bound to the cause of death
	for _, p := range all {
		if !p.Alive() && w.role(p).WinCondition == data.WinExecuted && p.KilledBy == CauseExecution {
			return WinResult{HasWinner: true, Winner: p.RoleID, Condition: ConditionExecuted, Players: []string{p.ID}}
		}
	}

	// 2. survival with an exhausted target list
	for _, p := range living {
		if w.role(p).WinCondition != data.WinTargetsDead || len(p.MarkedTargets) == 0 {
			continue
		}
		done := true
		for _, t := range p.MarkedTargets {
			if w.store.IsAlive(t) {
				done = false
				break
			}
		}
		if done {
			return WinResult{HasWinner: true, Winner: p.RoleID, Condition: ConditionTargetsDead, Players: []string{p.ID}}
		}
	}

	if len(living) == 0 {
		return WinResult{}
	}

	// 3. last member of its team standing
	for _, p := range living {
		if w.role(p).WinCondition != data.WinLoneWolf {
			continue
		}
		mates := 0
		for _, o := range living {
			if o.ID != p.ID && o.Team == p.Team {
				mates++
			}
		}
		if mates == 0 {
			return WinResult{HasWinner: true, Winner: p.RoleID, Condition: ConditionLoneWolf, Players: []string{p.ID}}
		}
	}

	// 4. groups
	if len(living) == 2 {
		a, b := living[0], living[1]
		if a.LoverID == b.ID {
			return WinResult{HasWinner: true, Winner: WinnerLovers, Condition: ConditionLovers, Players: []string{a.ID, b.ID}}
		}
		if a.TwinID == b.ID {
			return WinResult{HasWinner: true, Winner: WinnerTwins, Condition: ConditionTwins, Players: []string{a.ID, b.ID}}
		}
	}
	cult := true
	for _, p := range living {
		if !p.InCult {
			cult = false
			break
		}
	}
	if cult {
		var members []string
		for _, p := range all {
			if p.InCult {
				members = append(members, p.ID)
			}
		}
		return WinResult{HasWinner: true, Winner: WinnerCult, Condition: ConditionCult, Players: members}
	}

	// 5. teams
	counts := map[data.Team]int{}
	for _, p := range living {
		counts[p.Team]++
	}
	wolves := counts[data.TeamWerewolf]
	switch {
	case wolves > 0 && wolves >= len(living)-wolves:
		return w.teamWin(data.TeamWerewolf, ConditionParity)
	case wolves == 0 && counts[data.TeamVillager] > 0:
		return w.teamWin(data.TeamVillager, ConditionNoWerewolf)
	}
	for _, t := range data.Teams() {
		if t == data.TeamVillager || t == data.TeamWerewolf {
			continue
		}
		if counts[t] > 0 && counts[t] == len(living) {
			return w.teamWin(t, ConditionElimination)
		}
	}
	return WinResult{}
}

// teamWin lists every player, living or dead, of team t who wins with the team.
func (w *WinEvaluator) teamWin(t data.Team, condition string) WinResult {
	res := WinResult{HasWinner: true, Winner: string(t), Condition: condition}
	for _, p := range w.store.Players() {
		if p.Team == t && !w.role(p).WinCondition.Individual() {
			res.Players = append(res.Players, p.ID)
		}
	}
	return res
}

// CheckPlayerWin reports whether the player is on the winning side.
func (w *WinEvaluator) CheckPlayerWin(id string) bool {
	res := w.Check()
	return res.HasWinner && containsString(res.Players, id)
}
