// Package engine implements the night-action resolution engine: the player
// state store, the ordered action resolver, the passive reaction handler and
// the win condition evaluator, behind the Game facade.
package engine

import (
	"fmt"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
)

// --- Actions ---

// Action is a night intent submitted by a player. Actions are queued for one
// night and discarded once the night is resolved.
type Action struct {
	ActorID string          `json:"actor_id"`
	RoleID  string          `json:"role_id"`
	Kind    data.ActionKind `json:"kind"`
	SubKind data.ActionKind `json:"sub_kind,omitempty"` // set when Kind is dual
	Targets []string        `json:"targets"`
	Order   int             `json:"order"`
}

// Effective is the kind the action resolves as. For a dual action this is its sub kind.
func (a Action) Effective() data.ActionKind {
	if a.Kind == data.ActionDual {
		return a.SubKind
	}
	return a.Kind
}

// usageKey identifies the ability consumed by a once-per-game action.
func (a Action) usageKey() string {
	if a.Kind == data.ActionDual {
		return "dual:" + string(a.SubKind)
	}
	return string(a.Kind)
}

func (a Action) String() string {
	k := string(a.Kind)
	if a.Kind == data.ActionDual {
		k = fmt.Sprintf("%s(%s)", a.Kind, a.SubKind)
	}
	return fmt.Sprintf("%s %s -> %v", a.ActorID, k, a.Targets)
}

// Verdict is the answer to whether an action may be performed.
type Verdict struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Code    Code   `json:"code,omitempty"`
}

func allow() Verdict { return Verdict{Allowed: true} }

func deny(code Code, format string, args ...any) Verdict {
	return Verdict{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// --- Resolution ---

// OutcomeStatus classifies what happened to a queued action during resolution.
type OutcomeStatus string

const (
	OutcomeApplied OutcomeStatus = "applied"
	OutcomeSaved   OutcomeStatus = "saved"
	OutcomeBlocked OutcomeStatus = "blocked"
	OutcomeNoop    OutcomeStatus = "no_effect"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome is one entry of the per-action audit log.
type Outcome struct {
	Pass   int           `json:"pass"`
	Action Action        `json:"action"`
	Status OutcomeStatus `json:"status"`
	Detail string        `json:"detail,omitempty"`
}

// InvestigationKey addresses an investigation result. For two-target
// investigations the target is the comma-joined pair.
type InvestigationKey struct {
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id"`
}

// Investigation is the payload delivered to an investigator.
type Investigation struct {
	Info    data.InformationType `json:"info"`
	Targets []string             `json:"targets"`
	Team    data.Team            `json:"team,omitempty"`
	RoleID  string               `json:"role_id,omitempty"`
	Result  bool                 `json:"result"`
}

func (i Investigation) String() string {
	switch i.Info {
	case data.InfoTeam:
		return fmt.Sprintf("%s is on team %s", i.Targets[0], i.Team)
	case data.InfoRole:
		return fmt.Sprintf("%s is the %s", i.Targets[0], i.RoleID)
	case data.InfoDetect:
		if i.Result {
			return fmt.Sprintf("%s is one of the sought roles", i.Targets[0])
		}
		return fmt.Sprintf("%s is not one of the sought roles", i.Targets[0])
	default:
		return fmt.Sprintf("%s %v: %t", i.Info, i.Targets, i.Result)
	}
}

// EffectKind enumerates signals emitted by the passive handler and resolver.
type EffectKind string

const (
	EffectRevengeShot  EffectKind = "revenge_shot"
	EffectExplosion    EffectKind = "explosion"
	EffectPackRevenge  EffectKind = "pack_revenge"
	EffectPowerUnlock  EffectKind = "power_unlock"
	EffectSuccession   EffectKind = "succession"
	EffectLinkedDeath  EffectKind = "linked_death"
	EffectCopyRole     EffectKind = "copy_role"
	EffectTransform    EffectKind = "transform"
	EffectInfection    EffectKind = "infection"
	EffectDelayedDeath EffectKind = "delayed_death"
	EffectReveal       EffectKind = "reveal"
	EffectConvert      EffectKind = "convert"
	EffectGhost        EffectKind = "ghost"
)

// Effect is a signal raised while resolving. Some are applied by the Game
// facade after a cascade completes (copy_role, convert, succession).
type Effect struct {
	Kind     EffectKind `json:"kind"`
	PlayerID string     `json:"player_id"`
	SourceID string     `json:"source_id,omitempty"`
	RoleID   string     `json:"role_id,omitempty"`
	Team     data.Team  `json:"team,omitempty"`
}

func (e Effect) String() string {
	switch e.Kind {
	case EffectCopyRole:
		return fmt.Sprintf("%s copies %s (%s)", e.PlayerID, e.RoleID, e.Team)
	case EffectConvert:
		return fmt.Sprintf("%s joins team %s", e.PlayerID, e.Team)
	case EffectPowerUnlock:
		return fmt.Sprintf("power of %s unlocked by death of %s", e.RoleID, e.SourceID)
	case EffectReveal:
		return fmt.Sprintf("%s is revealed as %s", e.PlayerID, e.RoleID)
	default:
		if e.SourceID != "" {
			return fmt.Sprintf("%s on %s (from %s)", e.Kind, e.PlayerID, e.SourceID)
		}
		return fmt.Sprintf("%s on %s", e.Kind, e.PlayerID)
	}
}

// NightResult is the output of resolving one night.
type NightResult struct {
	Night          int                                `json:"night"`
	Deaths         []string                           `json:"deaths"`
	Saved          []string                           `json:"saved"`
	Transformed    []string                           `json:"transformed"`
	Investigations map[InvestigationKey]Investigation `json:"-"`
	Outcomes       []Outcome                          `json:"outcomes"`
	Effects        []Effect                           `json:"effects"`
	Win            WinResult                          `json:"win"`
}

func newNightResult(night int) *NightResult {
	return &NightResult{
		Night:          night,
		Investigations: make(map[InvestigationKey]Investigation),
	}
}

func (r *NightResult) log(pass int, a Action, status OutcomeStatus, detail string) {
	r.Outcomes = append(r.Outcomes, Outcome{Pass: pass, Action: a, Status: status, Detail: detail})
}

// DeathResult is the output of a death cascade.
type DeathResult struct {
	AdditionalDeaths []string `json:"additional_deaths"`
	Effects          []Effect `json:"effects"`
}

func (d *DeathResult) merge(o DeathResult) {
	d.AdditionalDeaths = append(d.AdditionalDeaths, o.AdditionalDeaths...)
	d.Effects = append(d.Effects, o.Effects...)
}

// AttackResult is the output of resolving a single kill attempt.
type AttackResult struct {
	ShouldDie   bool     `json:"should_die"`
	Saved       bool     `json:"saved"`
	Transformed bool     `json:"transformed"`
	Delayed     bool     `json:"delayed"`
	Effects     []Effect `json:"effects"`
}

// ExecutionResult is the output of a day execution.
type ExecutionResult struct {
	TargetID string    `json:"target_id"`
	Survived bool      `json:"survived"`
	Deaths   []string  `json:"deaths"`
	Effects  []Effect  `json:"effects"`
	Win      WinResult `json:"win"`
}

// ShotResult is the output of a revenge shot.
type ShotResult struct {
	HunterID string    `json:"hunter_id"`
	TargetID string    `json:"target_id"` // empty when shooting at the sky
	Deaths   []string  `json:"deaths"`
	Effects  []Effect  `json:"effects"`
	Win      WinResult `json:"win"`
}

// PhaseStart reports what happened when a phase began.
type PhaseStart struct {
	Phase   Phase     `json:"phase"`
	Number  int       `json:"number"`
	Deaths  []string  `json:"deaths"`
	Effects []Effect  `json:"effects"`
	Win     WinResult `json:"win"`
}

// TallyResult is the outcome of a day vote.
type TallyResult struct {
	Counts   map[string]int `json:"counts"`
	TargetID string         `json:"target_id"` // empty on a tie or no valid votes
	Tie      bool           `json:"tie"`
}

// --- Win ---

// Special winner groups that are not teams.
const (
	WinnerLovers = "lovers"
	WinnerTwins  = "twins"
	WinnerCult   = "cult"
)

// WinResult is computed fresh on every query.
type WinResult struct {
	HasWinner bool     `json:"has_winner"`
	Winner    string   `json:"winner,omitempty"`    // team, role id or special group
	Condition string   `json:"condition,omitempty"` // tag of the matching condition
	Players   []string `json:"players,omitempty"`
}

func (w WinResult) String() string {
	if !w.HasWinner {
		return "no winner yet"
	}
	return fmt.Sprintf("%s wins (%s)", w.Winner, w.Condition)
}
