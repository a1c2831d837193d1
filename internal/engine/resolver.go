package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
)

// Resolution passes, in the order they run.
const (
	passProtect = iota + 1
	passKill
	passHeal
	passInformation
	passStatus
	passRecruit
	passOther
	passFinalize
)

// Resolver validates night actions and applies the queue in fixed passes.
type Resolver struct {
	store     *Store
	catalogue *data.Catalogue
	rules     *rules.Registry
	passives  *PassiveHandler

	queue     []Action
	nextOrder int
}

// NewResolver binds a resolver to its store, catalogue and trigger registry.
func NewResolver(store *Store, cat *data.Catalogue, reg *rules.Registry, passives *PassiveHandler) *Resolver {
	return &Resolver{store: store, catalogue: cat, rules: reg, passives: passives}
}

// Queue returns a copy of the pending actions.
func (r *Resolver) Queue() []Action {
	return append([]Action(nil), r.queue...)
}

// normalize rewrites a bare sub kind into the dual form when the role acts through a dual action.
func (r *Resolver) normalize(a Action) Action {
	role, ok := r.store.Role(a.ActorID)
	if !ok || role.NightAction == nil || role.NightAction.Kind != data.ActionDual || a.Kind == data.ActionDual {
		return a
	}
	for _, sub := range role.NightAction.SubKinds {
		if sub == a.Kind {
			a.SubKind = a.Kind
			a.Kind = data.ActionDual
			return a
		}
	}
	return a
}

// CanPerformAction checks whether the actor may perform an action of kind
// against targets on the given night. Checks short-circuit in a fixed order.
// For dual roles kind may be either dual or one of its sub kinds.
func (r *Resolver) CanPerformAction(actorID string, kind data.ActionKind, targets []string, night int) Verdict {
	return r.check(r.normalize(Action{ActorID: actorID, Kind: kind, Targets: targets}), night)
}

func (r *Resolver) check(a Action, night int) Verdict {
	actor, ok := r.store.Player(a.ActorID)
	if !ok {
		return deny(CodeActorUnknown, "unknown actor %s", a.ActorID)
	}
	if !actor.Alive() {
		return deny(CodeActorDead, "%s is dead", actor.ID)
	}
	if actor.Status.Has(StatusExiled) {
		return deny(CodeActorExiled, "%s is exiled", actor.ID)
	}

	role, _ := r.catalogue.Role(actor.RoleID)
	na := role.NightAction
	if na == nil || na.Kind == data.ActionNone {
		return deny(CodeActionNotDefined, "%s has no night action", actor.RoleID)
	}
	if a.Kind == data.ActionDual && a.SubKind == "" {
		return deny(CodeActionMalformed, "dual action without a sub action")
	}
	if a.Kind != na.Kind || (a.Kind == data.ActionDual && !na.Allows(a.SubKind)) {
		return deny(CodeActionNotDefined, "%s cannot %s", actor.RoleID, a.Effective())
	}

	switch na.Frequency {
	case data.FrequencyFirstNight:
		if night != 1 {
			return deny(CodeFirstNightOnly, "%s may only act on the first night", actor.RoleID)
		}
	case data.FrequencyOncePerGame:
		if actor.HasUsed(a.usageKey()) {
			return deny(CodeAbilityUsed, "%s already used %s", actor.ID, a.usageKey())
		}
	case data.FrequencyEveryNight, data.FrequencyConditional:
	}
	if na.ExcludeFirstNight && night == 1 {
		return deny(CodeNotOnFirstNight, "%s cannot act on the first night", actor.RoleID)
	}

	if na.Trigger != "" {
		holds, err := r.rules.Eval(na.Trigger, r.triggerContext(actor, night))
		if err != nil {
			zap.L().Warn("trigger evaluation failed", zap.String("role", role.ID), zap.Error(err))
			return deny(CodeTriggerNotMet, "trigger for %s failed: %v", role.ID, err)
		}
		if !holds {
			return deny(CodeTriggerNotMet, "trigger for %s does not hold", role.ID)
		}
	}

	if na.HasRestriction(data.RestrictionNoConsecutiveTarget) {
		last := ""
		switch a.Effective() {
		case data.ActionProtect:
			last = actor.LastProtected
		case data.ActionSilence, data.ActionExile:
			last = actor.LastSilenced
		}
		for _, t := range a.Targets {
			if last != "" && t == last {
				return deny(CodeConsecutiveTarget, "%s targeted %s last time", actor.ID, t)
			}
		}
	}
	if na.HasRestriction(data.RestrictionNotOwnTeam) {
		for _, t := range a.Targets {
			target, ok := r.store.Player(t)
			if !ok || t == actor.ID || target.Team != actor.Team {
				continue
			}
			if tr, _ := r.catalogue.Role(target.RoleID); tr.TargetableByOwnTeam {
				continue
			}
			return deny(CodeOwnTeam, "%s cannot target own team member %s", actor.ID, t)
		}
	}

	if len(a.Targets) != na.TargetCount {
		return deny(CodeTargetCount, "%s needs %d target(s), got %d", a.Effective(), na.TargetCount, len(a.Targets))
	}
	seen := map[string]bool{}
	for _, t := range a.Targets {
		if seen[t] {
			return deny(CodeTargetCount, "target %s given twice", t)
		}
		seen[t] = true
		target, ok := r.store.Player(t)
		if !ok {
			return deny(CodeTargetUnknown, "unknown target %s", t)
		}
		if !target.Alive() && !a.Effective().IsInformation() {
			return deny(CodeTargetDead, "target %s is dead", t)
		}
	}
	if !na.CanTargetSelf && seen[actor.ID] {
		return deny(CodeSelfTarget, "%s cannot target themselves", actor.RoleID)
	}
	return allow()
}

func (r *Resolver) triggerContext(actor Player, night int) rules.TriggerContext {
	alive, dead := r.store.roleLists()
	used := make([]string, 0, len(actor.Used))
	for k := range actor.Used {
		used = append(used, k)
	}
	return rules.TriggerContext{
		Night:      night,
		AliveRoles: alive,
		DeadRoles:  dead,
		Actor: rules.ActorContext{
			ID:   actor.ID,
			Role: actor.RoleID,
			Team: string(actor.Team),
			Used: used,
		},
	}
}

// Submit validates the action and queues it. A rejected action changes nothing.
func (r *Resolver) Submit(a Action, night int) Verdict {
	a = r.normalize(a)
	if v := r.check(a, night); !v.Allowed {
		return v
	}
	for _, q := range r.queue {
		if q.ActorID == a.ActorID && q.Effective() == a.Effective() {
			return deny(CodeDuplicateAction, "%s already queued %s tonight", a.ActorID, a.Effective())
		}
	}
	actor, _ := r.store.Player(a.ActorID)
	if a.Effective() == data.ActionKill && actor.Team == data.TeamWerewolf {
		if v := r.checkPackLimit(a); !v.Allowed {
			return v
		}
	}
	if a.RoleID == "" {
		a.RoleID = actor.RoleID
	}
	a.Order = r.nextOrder
	r.nextOrder++
	r.queue = append(r.queue, a)
	zap.L().Debug("action queued", zap.String("action", a.String()), zap.Int("order", a.Order))
	return allow()
}

// checkPackLimit bounds the werewolf team to one victim per night plus any bonus.
func (r *Resolver) checkPackLimit(a Action) Verdict {
	victims := map[string]bool{}
	for _, q := range r.queue {
		if q.Effective() != data.ActionKill {
			continue
		}
		if p, ok := r.store.Player(q.ActorID); ok && p.Team == data.TeamWerewolf {
			victims[q.Targets[0]] = true
		}
	}
	if victims[a.Targets[0]] {
		return allow()
	}
	if limit := 1 + r.store.WerewolfKillBonus(); len(victims) >= limit {
		return deny(CodeKillLimit, "the pack already chose %d victim(s) tonight", limit)
	}
	return allow()
}

// Resolve drains the queue and applies it in eight fixed passes.
// The queue is cleared whatever happens.
func (r *Resolver) Resolve(night int) *NightResult {
	res := newNightResult(night)
	queue := r.queue
	defer func() { r.queue = nil }()

	infected := map[string]bool{}
	for _, p := range r.store.Players() {
		if p.Infected {
			infected[p.ID] = true
		}
	}
	bonusAtStart := r.store.WerewolfKillBonus() > 0

	r.eachOf(res, queue, passProtect, r.applyProtect, data.ActionProtect, data.ActionBless)
	r.eachOf(res, queue, passKill, func(res *NightResult, a Action, role data.Role) {
		r.applyKill(res, a, role, infected)
	}, data.ActionKill)
	if bonusAtStart {
		r.store.SetWerewolfKillBonus(0)
	}
	r.eachOf(res, queue, passHeal, r.applyHeal, data.ActionHeal)
	r.eachOf(res, queue, passInformation, r.applyInformation, data.ActionInvestigate, data.ActionDetectRole)
	r.eachOf(res, queue, passStatus, r.applyStatus, data.ActionSilence, data.ActionExile)
	r.eachOf(res, queue, passRecruit, r.applyRecruit, data.ActionRecruit)
	r.eachOf(res, queue, passOther, r.applyOther,
		data.ActionCreateLovers, data.ActionMarkTargets, data.ActionCopyRole, data.ActionSwapRoles, data.ActionGamble)

	for _, d := range r.store.FinalizeMarked() {
		res.Deaths = append(res.Deaths, d.PlayerID)
		zap.L().Info("player died", zap.Int("night", night), zap.String("player_id", d.PlayerID), zap.String("cause", d.Cause))
		cascade := r.passives.ProcessPlayerDeath(d.PlayerID, d.Cause)
		res.Deaths = append(res.Deaths, cascade.AdditionalDeaths...)
		res.Effects = append(res.Effects, cascade.Effects...)
	}
	return res
}

type applyFunc func(res *NightResult, a Action, role data.Role)

// eachOf runs fn over the queued actions of the given kinds in submission
// order, skipping structurally broken ones.
func (r *Resolver) eachOf(res *NightResult, queue []Action, pass int, fn applyFunc, kinds ...data.ActionKind) {
	for _, a := range queue {
		if !containsKind(kinds, a.Effective()) {
			if a.Kind == data.ActionDual && a.SubKind == "" && pass == passProtect {
				res.log(pass, a, OutcomeSkipped, "dual action without a sub action")
			}
			continue
		}
		role, ok := r.store.Role(a.ActorID)
		if !ok || role.NightAction == nil {
			res.log(pass, a, OutcomeSkipped, "actor has no night action")
			continue
		}
		if !r.store.IsAlive(a.ActorID) {
			res.log(pass, a, OutcomeSkipped, "actor died before acting")
			continue
		}
		if len(a.Targets) != role.NightAction.TargetCount {
			res.log(pass, a, OutcomeSkipped, "wrong number of targets")
			continue
		}
		fn(res, a, role)
	}
}

func containsKind(kinds []data.ActionKind, k data.ActionKind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// consume records usage for once-per-game actions.
func (r *Resolver) consume(a Action, role data.Role) {
	if role.NightAction.Frequency == data.FrequencyOncePerGame {
		r.store.UseAbility(a.ActorID, a.usageKey())
	}
}

func (r *Resolver) applyProtect(res *NightResult, a Action, role data.Role) {
	t := a.Targets[0]
	if a.Effective() == data.ActionBless {
		r.store.SetBlessed(t)
	} else {
		r.store.SetProtected(t)
		r.store.SetLastProtected(a.ActorID, t)
	}
	r.consume(a, role)
	res.log(passProtect, a, OutcomeApplied, "")
}

func (r *Resolver) applyKill(res *NightResult, a Action, role data.Role, infected map[string]bool) {
	if infected[a.ActorID] {
		zap.L().Info("kill blocked by infection", zap.String("actor_id", a.ActorID))
		res.log(passKill, a, OutcomeBlocked, "attacker is infected")
		r.store.CureInfection(a.ActorID)
		return
	}
	actor, _ := r.store.Player(a.ActorID)
	t := a.Targets[0]
	r.consume(a, role)
	if !r.store.IsAlive(t) {
		res.log(passKill, a, OutcomeNoop, "target already dead")
		return
	}

	out := r.passives.ProcessAttack(t, actor.Team, actor.RoleID)
	res.Effects = append(res.Effects, out.Effects...)
	switch {
	case out.Saved:
		res.Saved = appendUnique(res.Saved, t)
		res.log(passKill, a, OutcomeSaved, "target protected")
	case out.Transformed:
		res.Transformed = appendUnique(res.Transformed, t)
		res.log(passKill, a, OutcomeApplied, "target transformed")
	case out.Delayed:
		res.log(passKill, a, OutcomeApplied, "death delayed")
	case out.ShouldDie:
		cause := role.NightAction.KillCause
		if cause == "" {
			cause = string(actor.Team)
		}
		r.store.MarkForDeath(t, cause, role.NightAction.KillDelay)
		if actor.Team == data.TeamVampire {
			r.store.SetBitten(t)
		}
		if a.Kind == data.ActionDual {
			r.store.SetPoisoned(t)
		}
		res.log(passKill, a, OutcomeApplied, "target marked")
	default:
		res.log(passKill, a, OutcomeNoop, "")
	}
}

func (r *Resolver) applyHeal(res *NightResult, a Action, role data.Role) {
	t := a.Targets[0]
	r.consume(a, role)
	if r.store.SaveFromDeath(t) {
		res.Saved = appendUnique(res.Saved, t)
		res.log(passHeal, a, OutcomeSaved, "")
		return
	}
	res.log(passHeal, a, OutcomeNoop, "target was not in danger")
}

func (r *Resolver) applyInformation(res *NightResult, a Action, role data.Role) {
	na := role.NightAction
	inv := Investigation{Info: na.Information, Targets: append([]string(nil), a.Targets...)}
	target, ok := r.store.Player(a.Targets[0])
	if !ok {
		res.log(passInformation, a, OutcomeSkipped, "unknown target")
		return
	}
	targetRole, _ := r.catalogue.Role(target.RoleID)

	if a.Effective() == data.ActionDetectRole {
		inv.Info = data.InfoDetect
		if na.Detect != nil {
			inv.Result = containsString(na.Detect.Roles, target.RoleID) ||
				(na.Detect.Team != data.TeamUnknown && na.Detect.Team == target.Team)
		}
	} else {
		switch na.Information {
		case data.InfoTeam, "":
			inv.Info = data.InfoTeam
			inv.Team = targetRole.ApparentTeam(target.Team)
		case data.InfoRole:
			inv.RoleID = target.RoleID
			inv.Team = target.Team
		case data.InfoHasAbility:
			inv.Result = targetRole.HasAbility()
		case data.InfoSameTeam:
			other, ok := r.store.Player(a.Targets[1])
			if !ok {
				res.log(passInformation, a, OutcomeSkipped, "unknown second target")
				return
			}
			otherRole, _ := r.catalogue.Role(other.RoleID)
			inv.Result = targetRole.ApparentTeam(target.Team) == otherRole.ApparentTeam(other.Team)
		case data.InfoNeighborWerewolf:
			inv.Result = r.appearsWerewolf(target)
			for _, n := range r.store.AdjacentPlayers(target.ID) {
				if p, ok := r.store.Player(n); ok && r.appearsWerewolf(p) {
					inv.Result = true
				}
			}
		}
	}
	r.consume(a, role)
	res.Investigations[InvestigationKey{ActorID: a.ActorID, TargetID: strings.Join(a.Targets, ",")}] = inv
	res.log(passInformation, a, OutcomeApplied, inv.String())
}

func (r *Resolver) appearsWerewolf(p Player) bool {
	role, _ := r.catalogue.Role(p.RoleID)
	return role.ApparentTeam(p.Team) == data.TeamWerewolf
}

func (r *Resolver) applyStatus(res *NightResult, a Action, role data.Role) {
	t := a.Targets[0]
	if a.Effective() == data.ActionExile {
		r.store.SetExiled(t)
	} else {
		r.store.SetSilenced(t)
	}
	r.store.SetLastSilenced(a.ActorID, t)
	r.consume(a, role)
	res.log(passStatus, a, OutcomeApplied, "")
}

func (r *Resolver) applyRecruit(res *NightResult, a Action, role data.Role) {
	t := a.Targets[0]
	if !r.store.IsAlive(t) {
		res.log(passRecruit, a, OutcomeNoop, "target is dead")
		return
	}
	switch role.NightAction.RecruitMode {
	case data.RecruitAlly:
		// team change is applied by the game once resolution is over
		r.store.UseAbility(a.ActorID, a.usageKey())
		res.Effects = append(res.Effects, Effect{Kind: EffectConvert, PlayerID: t, SourceID: a.ActorID, Team: role.Team})
	default:
		r.store.AddToCult(t)
		r.consume(a, role)
	}
	res.log(passRecruit, a, OutcomeApplied, string(role.NightAction.RecruitMode))
}

func (r *Resolver) applyOther(res *NightResult, a Action, role data.Role) {
	switch a.Effective() {
	case data.ActionCreateLovers:
		if !r.store.CreateLovers(a.Targets[0], a.Targets[1]) {
			res.log(passOther, a, OutcomeNoop, "already linked")
			return
		}
	case data.ActionMarkTargets:
		r.store.SetMarkedTargets(a.ActorID, a.Targets)
	case data.ActionCopyRole:
		r.store.SetCopyTarget(a.ActorID, a.Targets[0])
	case data.ActionSwapRoles:
		r.store.SwapRoles(a.Targets[0], a.Targets[1])
	case data.ActionGamble:
		target, _ := r.store.Player(a.Targets[0])
		if target.Team == data.TeamWerewolf {
			r.store.MarkForDeath(a.ActorID, CauseGamble, 0)
		} else {
			r.store.MarkForDeath(target.ID, CauseGamble, 0)
		}
	}
	r.consume(a, role)
	res.log(passOther, a, OutcomeApplied, "")
}

func appendUnique(list []string, id string) []string {
	if containsString(list, id) {
		return list
	}
	return append(list, id)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
