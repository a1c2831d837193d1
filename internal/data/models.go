package data

import "fmt"

// ActionKind is the kind of night action a role may submit.
type ActionKind string

const (
	ActionNone         ActionKind = "none"
	ActionProtect      ActionKind = "protect"
	ActionBless        ActionKind = "bless"
	ActionKill         ActionKind = "kill"
	ActionHeal         ActionKind = "heal"
	ActionInvestigate  ActionKind = "investigate"
	ActionDetectRole   ActionKind = "detect_role"
	ActionSilence      ActionKind = "silence"
	ActionExile        ActionKind = "exile"
	ActionRecruit      ActionKind = "recruit"
	ActionSwapRoles    ActionKind = "swap_roles"
	ActionGamble       ActionKind = "gamble"
	ActionCreateLovers ActionKind = "create_lovers"
	ActionMarkTargets  ActionKind = "mark_targets"
	ActionCopyRole     ActionKind = "copy_role"
	ActionDual         ActionKind = "dual"
)

var actionKinds = map[ActionKind]bool{
	ActionNone: true, ActionProtect: true, ActionBless: true, ActionKill: true,
	ActionHeal: true, ActionInvestigate: true, ActionDetectRole: true,
	ActionSilence: true, ActionExile: true, ActionRecruit: true,
	ActionSwapRoles: true, ActionGamble: true, ActionCreateLovers: true,
	ActionMarkTargets: true, ActionCopyRole: true, ActionDual: true,
}

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool { return actionKinds[k] }

// IsInformation reports whether the action only gathers information.
// Information actions may target dead players.
func (k ActionKind) IsInformation() bool {
	return k == ActionInvestigate || k == ActionDetectRole
}

// Frequency controls how often a night action may be used.
type Frequency string

const (
	FrequencyEveryNight  Frequency = "every_night"
	FrequencyFirstNight  Frequency = "first_night"
	FrequencyOncePerGame Frequency = "once_per_game"
	FrequencyConditional Frequency = "conditional"
)

// Restriction is a targeting rule declared on a night action.
type Restriction string

const (
	RestrictionNoConsecutiveTarget Restriction = "no_consecutive_target"
	RestrictionNotOwnTeam          Restriction = "not_own_team"
)

// InformationType selects the payload an investigation returns.
type InformationType string

const (
	InfoTeam             InformationType = "team"
	InfoRole             InformationType = "role"
	InfoHasAbility       InformationType = "has_ability"
	InfoSameTeam         InformationType = "same_team"
	InfoNeighborWerewolf InformationType = "neighbor_werewolf"
	// InfoDetect is set by detect_role actions; it is never configured on a role.
	InfoDetect           InformationType = "detect"
)

// RecruitMode distinguishes cult recruitment from a one-time ally conversion.
type RecruitMode string

const (
	RecruitCult RecruitMode = "cult"
	RecruitAlly RecruitMode = "ally"
)

// DetectTarget is the closed set a detect_role action checks against.
// A match on either Roles or Team counts.
type DetectTarget struct {
	Roles []string `yaml:"roles" json:"roles,omitempty"`
	Team  Team     `yaml:"team" json:"team,omitempty"`
}

// NightAction describes what a role may do at night.
type NightAction struct {
	Kind              ActionKind      `yaml:"kind" json:"kind"`
	SubKinds          []ActionKind    `yaml:"sub_kinds" json:"sub_kinds,omitempty"`
	Frequency         Frequency       `yaml:"frequency" json:"frequency"`
	TargetCount       int             `yaml:"target_count" json:"target_count"`
	Restrictions      []Restriction   `yaml:"restrictions" json:"restrictions,omitempty"`
	Trigger           string          `yaml:"trigger" json:"trigger,omitempty"` // CEL expression
	CanTargetSelf     bool            `yaml:"can_target_self" json:"can_target_self"`
	Detect            *DetectTarget   `yaml:"detect" json:"detect,omitempty"`
	Information       InformationType `yaml:"information" json:"information,omitempty"`
	ExcludeFirstNight bool            `yaml:"exclude_first_night" json:"exclude_first_night"`
	KillDelay         int             `yaml:"kill_delay" json:"kill_delay"`
	KillCause         string          `yaml:"kill_cause" json:"kill_cause,omitempty"`
	RecruitMode       RecruitMode     `yaml:"recruit_mode" json:"recruit_mode,omitempty"`
}

// HasRestriction reports whether the action declares r.
func (a *NightAction) HasRestriction(r Restriction) bool {
	for _, have := range a.Restrictions {
		if have == r {
			return true
		}
	}
	return false
}

// Allows reports whether the role may submit an action of kind k,
// including the sub kinds of a dual action.
func (a *NightAction) Allows(k ActionKind) bool {
	if a.Kind == k {
		return true
	}
	if a.Kind != ActionDual {
		return false
	}
	for _, sub := range a.SubKinds {
		if sub == k {
			return true
		}
	}
	return false
}

// PassiveTrigger is the event that fires a passive.
type PassiveTrigger string

const (
	TriggerOnDeath          PassiveTrigger = "on_death"
	TriggerOnWerewolfAttack PassiveTrigger = "on_werewolf_attack"
	TriggerOnExecution      PassiveTrigger = "on_execution"
	TriggerFirstNight       PassiveTrigger = "first_night"
	TriggerNightThree       PassiveTrigger = "night_three"
	TriggerAlways           PassiveTrigger = "always"
)

// PassiveKind enumerates every passive the engine knows how to resolve.
type PassiveKind string

const (
	PassiveRevengeShot      PassiveKind = "revenge_shot"
	PassiveExplosion        PassiveKind = "explosion"
	PassivePackRevenge      PassiveKind = "pack_revenge"
	PassivePowerUnlock      PassiveKind = "power_unlock"
	PassiveTransform        PassiveKind = "transform"
	PassiveDelayedDeath     PassiveKind = "delayed_death"
	PassiveDisease          PassiveKind = "disease"
	PassiveSurviveExecution PassiveKind = "survive_execution"
	PassiveFalseIdentity    PassiveKind = "false_identity"
	PassiveGhost            PassiveKind = "ghost"
	PassiveReveal           PassiveKind = "reveal"
)

// PassiveKinds lists every passive kind. The engine must handle each one.
func PassiveKinds() []PassiveKind {
	return []PassiveKind{
		PassiveRevengeShot, PassiveExplosion, PassivePackRevenge, PassivePowerUnlock,
		PassiveTransform, PassiveDelayedDeath, PassiveDisease, PassiveSurviveExecution,
		PassiveFalseIdentity, PassiveGhost, PassiveReveal,
	}
}

// Valid reports whether k is a known passive kind.
func (k PassiveKind) Valid() bool {
	for _, known := range PassiveKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Passive is a reactive skill fired by an external event.
type Passive struct {
	Kind        PassiveKind    `yaml:"kind" json:"kind"`
	Trigger     PassiveTrigger `yaml:"trigger" json:"trigger"`
	Beneficiary string         `yaml:"beneficiary" json:"beneficiary,omitempty"` // role unlocked by power_unlock
	Cause       string         `yaml:"cause" json:"cause,omitempty"`             // death cause required by power_unlock
	AppearsAs   Team           `yaml:"appears_as" json:"appears_as,omitempty"`
}

// OnDeathSkill is a generic skill consumed by the caller when its holder dies.
type OnDeathSkill string

const (
	OnDeathNone       OnDeathSkill = ""
	OnDeathSuccession OnDeathSkill = "succession"
)

// WinCondition selects how a role wins.
type WinCondition string

const (
	WinTeam        WinCondition = "team"
	WinExecuted    WinCondition = "executed"
	WinTargetsDead WinCondition = "targets_dead"
	WinLoneWolf    WinCondition = "lone_wolf"
	WinCult        WinCondition = "cult"
)

// Individual reports whether the condition is evaluated per player rather than per team.
func (w WinCondition) Individual() bool {
	return w != WinTeam && w != ""
}

// Role is a single catalogue entry.
type Role struct {
	ID                  string       `yaml:"id" json:"id"`
	Name                string       `yaml:"name" json:"name"`
	Team                Team         `yaml:"team" json:"team"`
	Description         string       `yaml:"description" json:"description,omitempty"`
	NightAction         *NightAction `yaml:"night_action" json:"night_action,omitempty"`
	Passive             *Passive     `yaml:"passive" json:"passive,omitempty"`
	OnDeath             OnDeathSkill `yaml:"on_death" json:"on_death,omitempty"`
	WinCondition        WinCondition `yaml:"win_condition" json:"win_condition"`
	DoubleVote          bool         `yaml:"double_vote" json:"double_vote"`
	CultLeader          bool         `yaml:"cult_leader" json:"cult_leader"`
	Twin                bool         `yaml:"twin" json:"twin"`
	TargetableByOwnTeam bool         `yaml:"targetable_by_own_team" json:"targetable_by_own_team"`
}

// HasAbility reports whether the role has any active or passive skill.
func (r Role) HasAbility() bool {
	return r.NightAction != nil && r.NightAction.Kind != ActionNone || r.Passive != nil || r.OnDeath != OnDeathNone
}

// PassiveOn returns the role's passive if it fires on trigger t.
func (r Role) PassiveOn(t PassiveTrigger) (*Passive, bool) {
	if r.Passive == nil || r.Passive.Trigger != t {
		return nil, false
	}
	return r.Passive, true
}

// ApparentTeam is the team an investigation reports for the role.
func (r Role) ApparentTeam(actual Team) Team {
	if p, ok := r.PassiveOn(TriggerAlways); ok && p.Kind == PassiveFalseIdentity && p.AppearsAs != TeamUnknown {
		return p.AppearsAs
	}
	return actual
}

// validate checks a role for structural problems and fills defaults.
func (r *Role) validate() error {
	if r.ID == "" {
		return fmt.Errorf("role without id")
	}
	if r.Name == "" {
		r.Name = r.ID
	}
	if r.Team == TeamUnknown || ParseTeam(string(r.Team)) == TeamUnknown {
		return fmt.Errorf("role %s: unknown team %q", r.ID, r.Team)
	}
	if r.WinCondition == "" {
		r.WinCondition = WinTeam
	}
	if a := r.NightAction; a != nil {
		if !a.Kind.Valid() {
			return fmt.Errorf("role %s: unknown action kind %q", r.ID, a.Kind)
		}
		if a.Kind == ActionDual && len(a.SubKinds) == 0 {
			return fmt.Errorf("role %s: dual action without sub kinds", r.ID)
		}
		for _, sub := range a.SubKinds {
			if !sub.Valid() || sub == ActionDual {
				return fmt.Errorf("role %s: invalid sub kind %q", r.ID, sub)
			}
		}
		if a.Frequency == "" {
			a.Frequency = FrequencyEveryNight
		}
		if a.TargetCount == 0 && a.Kind != ActionNone {
			a.TargetCount = 1
		}
		if a.Kind == ActionRecruit && a.RecruitMode == "" {
			a.RecruitMode = RecruitCult
		}
	}
	if p := r.Passive; p != nil && !p.Kind.Valid() {
		return fmt.Errorf("role %s: unknown passive kind %q", r.ID, p.Kind)
	}
	return nil
}

// SeatAssignment binds a player to a role in seating order.
type SeatAssignment struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Role string `yaml:"role" json:"role"`
}

// Setup is a game setup file: the seating ring and the role dealt to each seat.
type Setup struct {
	Name    string           `yaml:"name" json:"name"`
	Players []SeatAssignment `yaml:"players" json:"players"`
}
