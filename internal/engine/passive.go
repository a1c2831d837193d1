package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
)

// Causes of death recorded on players.
const (
	CauseWerewolf  = "werewolf"
	CauseExecution = "execution"
	CauseHunter    = "hunter"
	CauseExplosion = "explosion"
	CauseLover     = "heartbreak"
	CauseTwin      = "twin"
	CauseGhost     = "ghost"
	CauseGamble    = "gamble"
)

const (
	scriptFirstNight = "first_night"
	scriptNightThree = "night_three"
	survivalKey      = "survive_execution"
)

// passiveStage is the trigger point a passive kind is resolved at.
type passiveStage int

const (
	stageDeath passiveStage = iota
	stageAttack
	stageExecution
	stageScripted
	stageIdentity
)

// stageOf maps every passive kind to the stage that handles it.
// It must list every data.PassiveKind.
func stageOf(k data.PassiveKind) (passiveStage, error) {
	switch k {
	case data.PassiveRevengeShot, data.PassiveExplosion, data.PassivePackRevenge, data.PassivePowerUnlock:
		return stageDeath, nil
	case data.PassiveTransform, data.PassiveDelayedDeath, data.PassiveDisease:
		return stageAttack, nil
	case data.PassiveSurviveExecution:
		return stageExecution, nil
	case data.PassiveGhost, data.PassiveReveal:
		return stageScripted, nil
	case data.PassiveFalseIdentity:
		return stageIdentity, nil
	}
	return 0, fmt.Errorf("no handler for passive kind %q", k)
}

// PassiveHandler resolves reactions to deaths, attacks and executions.
type PassiveHandler struct {
	store     *Store
	catalogue *data.Catalogue
}

// NewPassiveHandler binds a handler to a store and a catalogue.
func NewPassiveHandler(store *Store, cat *data.Catalogue) *PassiveHandler {
	return &PassiveHandler{store: store, catalogue: cat}
}

// ProcessPlayerDeath runs the on-death cascade for a player whose death was
// just finalised. Cascaded deaths are processed through a worklist; each
// player is processed at most once.
func (h *PassiveHandler) ProcessPlayerDeath(id, cause string) DeathResult {
	var res DeathResult
	processed := map[string]bool{}
	work := []Death{{PlayerID: id, Cause: cause}}

	enqueue := func(target, why, source string) {
		if processed[target] || !h.store.KillPlayer(target, why) {
			return
		}
		res.AdditionalDeaths = append(res.AdditionalDeaths, target)
		res.Effects = append(res.Effects, Effect{Kind: EffectLinkedDeath, PlayerID: target, SourceID: source})
		work = append(work, Death{PlayerID: target, Cause: why})
	}

	for len(work) > 0 {
		d := work[0]
		work = work[1:]
		if processed[d.PlayerID] {
			continue
		}
		processed[d.PlayerID] = true

		p, ok := h.store.Player(d.PlayerID)
		if !ok {
			continue
		}
		role, _ := h.catalogue.Role(p.RoleID)
		zap.L().Info("processing death",
			zap.String("player_id", p.ID), zap.String("role", p.RoleID), zap.String("cause", d.Cause))

		// (a) on-death passive
		if ps, ok := role.PassiveOn(data.TriggerOnDeath); ok {
			switch ps.Kind {
			case data.PassiveRevengeShot:
				h.store.SetPendingShot(p.ID, true)
				res.Effects = append(res.Effects, Effect{Kind: EffectRevengeShot, PlayerID: p.ID})
			case data.PassiveExplosion:
				res.Effects = append(res.Effects, Effect{Kind: EffectExplosion, PlayerID: p.ID})
				for _, n := range h.store.AdjacentPlayers(p.ID) {
					enqueue(n, CauseExplosion, p.ID)
				}
			case data.PassivePackRevenge:
				h.store.SetWerewolfKillBonus(1)
				res.Effects = append(res.Effects, Effect{Kind: EffectPackRevenge, PlayerID: p.ID, Team: data.TeamWerewolf})
			case data.PassivePowerUnlock:
				if ps.Cause == "" || ps.Cause == d.Cause {
					res.Effects = append(res.Effects, Effect{Kind: EffectPowerUnlock, PlayerID: p.ID, SourceID: p.ID, RoleID: ps.Beneficiary})
				}
			case data.PassiveTransform, data.PassiveDelayedDeath, data.PassiveDisease,
				data.PassiveSurviveExecution, data.PassiveFalseIdentity, data.PassiveGhost, data.PassiveReveal:
				// not death reactions
			}
		}

		// (b) on-death skill
		if role.OnDeath == data.OnDeathSuccession {
			res.Effects = append(res.Effects, Effect{Kind: EffectSuccession, PlayerID: p.ID})
		}

		// (c) linked fate
		if p.LoverID != "" && h.store.IsAlive(p.LoverID) {
			enqueue(p.LoverID, CauseLover, p.ID)
		}
		if p.TwinID != "" && h.store.IsAlive(p.TwinID) {
			enqueue(p.TwinID, CauseTwin, p.ID)
		}

		// (d) copy trigger
		for _, other := range h.store.Living() {
			if other.CopyTarget == p.ID {
				res.Effects = append(res.Effects, Effect{Kind: EffectCopyRole, PlayerID: other.ID, SourceID: p.ID, RoleID: p.RoleID, Team: p.Team})
			}
		}
	}
	return res
}

// ProcessAttack decides whether a kill attempt lands.
func (h *PassiveHandler) ProcessAttack(targetID string, attackerTeam data.Team, attackerRole string) AttackResult {
	p, ok := h.store.Player(targetID)
	if !ok || !p.Alive() {
		return AttackResult{}
	}
	if p.Status.Has(StatusProtected) || p.Status.Has(StatusBlessed) {
		return AttackResult{Saved: true}
	}
	if attackerTeam != data.TeamWerewolf {
		return AttackResult{ShouldDie: true}
	}
	role, _ := h.catalogue.Role(p.RoleID)
	ps, ok := role.PassiveOn(data.TriggerOnWerewolfAttack)
	if !ok {
		return AttackResult{ShouldDie: true}
	}
	switch ps.Kind {
	case data.PassiveTransform:
		h.store.TransformPlayer(p.ID, transformRole(h.catalogue), data.TeamWerewolf)
		return AttackResult{Transformed: true, Effects: []Effect{{Kind: EffectTransform, PlayerID: p.ID, SourceID: attackerRole, Team: data.TeamWerewolf}}}
	case data.PassiveDelayedDeath:
		h.store.MarkForDeath(p.ID, CauseWerewolf, 1)
		return AttackResult{Delayed: true, Effects: []Effect{{Kind: EffectDelayedDeath, PlayerID: p.ID, SourceID: attackerRole}}}
	case data.PassiveDisease:
		var effects []Effect
		for _, w := range h.store.InfectWerewolves() {
			effects = append(effects, Effect{Kind: EffectInfection, PlayerID: w, SourceID: p.ID})
		}
		return AttackResult{ShouldDie: true, Effects: effects}
	case data.PassiveRevengeShot, data.PassiveExplosion, data.PassivePackRevenge, data.PassivePowerUnlock,
		data.PassiveSurviveExecution, data.PassiveFalseIdentity, data.PassiveGhost, data.PassiveReveal:
	}
	return AttackResult{ShouldDie: true}
}

// transformRole is the role a transformed player receives.
func transformRole(cat *data.Catalogue) string {
	if _, ok := cat.Role("werewolf"); ok {
		return "werewolf"
	}
	if ids := cat.ByTeam(data.TeamWerewolf); len(ids) > 0 {
		return ids[0]
	}
	return "werewolf"
}

// ProcessExecution executes a player by day. A survive_execution role
// survives its first execution and is revealed instead.
func (h *PassiveHandler) ProcessExecution(targetID string) ExecutionResult {
	res := ExecutionResult{TargetID: targetID}
	p, ok := h.store.Player(targetID)
	if !ok || !p.Alive() {
		return res
	}
	role, _ := h.catalogue.Role(p.RoleID)
	if ps, ok := role.PassiveOn(data.TriggerOnExecution); ok && ps.Kind == data.PassiveSurviveExecution && !p.HasUsed(survivalKey) {
		h.store.UseAbility(p.ID, survivalKey)
		res.Survived = true
		res.Effects = append(res.Effects, Effect{Kind: EffectReveal, PlayerID: p.ID, RoleID: p.RoleID, Team: p.Team})
		return res
	}
	if !h.store.KillPlayer(p.ID, CauseExecution) {
		return res
	}
	res.Deaths = append(res.Deaths, p.ID)
	cascade := h.ProcessPlayerDeath(p.ID, CauseExecution)
	res.Deaths = append(res.Deaths, cascade.AdditionalDeaths...)
	res.Effects = append(res.Effects, cascade.Effects...)
	return res
}

// ExecuteHunterShot spends a pending revenge shot. An empty target shoots the
// sky. The shot ignores protection.
func (h *PassiveHandler) ExecuteHunterShot(hunterID, targetID string) (ShotResult, error) {
	res := ShotResult{HunterID: hunterID, TargetID: targetID}
	hunter, ok := h.store.Player(hunterID)
	if !ok {
		return res, fmt.Errorf("hunter %s: %w", hunterID, ErrUnknownPlayer)
	}
	if !hunter.PendingShot {
		return res, fmt.Errorf("hunter %s: %w", hunterID, ErrNoPendingShot)
	}
	if targetID != "" {
		if !h.store.Exists(targetID) {
			return res, fmt.Errorf("target %s: %w", targetID, ErrUnknownPlayer)
		}
		if !h.store.IsAlive(targetID) {
			return res, fmt.Errorf("target %s: %w", targetID, ErrPlayerDead)
		}
	}
	h.store.SetPendingShot(hunterID, false)
	if targetID == "" {
		return res, nil
	}
	h.store.KillPlayer(targetID, CauseHunter)
	res.Deaths = append(res.Deaths, targetID)
	cascade := h.ProcessPlayerDeath(targetID, CauseHunter)
	res.Deaths = append(res.Deaths, cascade.AdditionalDeaths...)
	res.Effects = append(res.Effects, cascade.Effects...)
	return res, nil
}

// ProcessFirstNight fires the night-one scripted passives once per game.
func (h *PassiveHandler) ProcessFirstNight() DeathResult {
	var res DeathResult
	if h.store.scriptedFired(scriptFirstNight) {
		return res
	}
	h.store.markScripted(scriptFirstNight)
	for _, p := range h.store.Living() {
		role, _ := h.catalogue.Role(p.RoleID)
		ps, ok := role.PassiveOn(data.TriggerFirstNight)
		if !ok || ps.Kind != data.PassiveGhost {
			continue
		}
		if !h.store.KillPlayer(p.ID, CauseGhost) {
			continue
		}
		res.AdditionalDeaths = append(res.AdditionalDeaths, p.ID)
		res.Effects = append(res.Effects, Effect{Kind: EffectGhost, PlayerID: p.ID})
		res.merge(h.ProcessPlayerDeath(p.ID, CauseGhost))
	}
	return res
}

// ProcessNightThree fires the night-three reveal once per game.
func (h *PassiveHandler) ProcessNightThree() DeathResult {
	var res DeathResult
	if h.store.scriptedFired(scriptNightThree) {
		return res
	}
	h.store.markScripted(scriptNightThree)
	for _, p := range h.store.Players() {
		role, _ := h.catalogue.Role(p.RoleID)
		ps, ok := role.PassiveOn(data.TriggerNightThree)
		if !ok || ps.Kind != data.PassiveReveal {
			continue
		}
		res.Effects = append(res.Effects, Effect{Kind: EffectReveal, PlayerID: p.ID, RoleID: p.RoleID, Team: p.Team})
	}
	return res
}
