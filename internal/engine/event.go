package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
)

// ErrNoGame is returned when an event other than GameCreated is applied before a game exists.
var ErrNoGame = errors.New("no game has been created")

type EventType string

const (
	EventGameCreated        EventType = "GameCreated"
	EventNightStarted       EventType = "NightStarted"
	EventActionSubmitted    EventType = "ActionSubmitted"
	EventNightResolved      EventType = "NightResolved"
	EventDayStarted         EventType = "DayStarted"
	EventPlayerExecuted     EventType = "PlayerExecuted"
	EventHunterShot         EventType = "HunterShot"
	EventSuccessorAppointed EventType = "SuccessorAppointed"
	EventHint               EventType = "Hint"
)

// GameState is what events are folded into: the catalogue and trigger
// registry every game needs, plus the game once it has been created.
type GameState struct {
	Catalogue *data.Catalogue
	Rules     *rules.Registry
	Game      *Game
}

// NewGameState creates an empty state bound to a catalogue and registry.
func NewGameState(cat *data.Catalogue, reg *rules.Registry) *GameState {
	return &GameState{Catalogue: cat, Rules: reg}
}

func (s *GameState) game() (*Game, error) {
	if s.Game == nil {
		return nil, ErrNoGame
	}
	return s.Game, nil
}

// Event is the building block of the event sourced game log. Every moderator
// operation is an event; replaying the log rebuilds the game.
type Event interface {
	Type() EventType
	Apply(state *GameState) error
	Message() string
}

// GameCreatedEvent seats the players and opens the setup phase.
type GameCreatedEvent struct {
	GameID string                `json:"game_id"`
	Seats  []data.SeatAssignment `json:"seats"`
}

func (e *GameCreatedEvent) Type() EventType { return EventGameCreated }
func (e *GameCreatedEvent) Apply(state *GameState) error {
	if state.Game != nil {
		return fmt.Errorf("game %s already created", state.Game.ID)
	}
	g, err := NewGame(e.GameID, state.Catalogue, state.Rules, e.Seats)
	if err != nil {
		return err
	}
	state.Game = g
	return nil
}
func (e *GameCreatedEvent) Message() string {
	return fmt.Sprintf("Game %s created with %d players.", e.GameID, len(e.Seats))
}

// NightStartedEvent begins the next night.
type NightStartedEvent struct {
	Result *PhaseStart `json:"-"`
}

func (e *NightStartedEvent) Type() EventType { return EventNightStarted }
func (e *NightStartedEvent) Apply(state *GameState) error {
	g, err := state.game()
	if err != nil {
		return err
	}
	e.Result, err = g.StartNightPhase()
	return err
}
func (e *NightStartedEvent) Message() string { return phaseMessage("Night", e.Result) }

// DayStartedEvent begins the day after a resolved night.
type DayStartedEvent struct {
	Result *PhaseStart `json:"-"`
}

func (e *DayStartedEvent) Type() EventType { return EventDayStarted }
func (e *DayStartedEvent) Apply(state *GameState) error {
	g, err := state.game()
	if err != nil {
		return err
	}
	e.Result, err = g.StartDayPhase()
	return err
}
func (e *DayStartedEvent) Message() string { return phaseMessage("Day", e.Result) }

func phaseMessage(name string, r *PhaseStart) string {
	if r == nil {
		return name + " started."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %d begins.", name, r.Number))
	writeDeaths(&sb, r.Deaths)
	writeEffects(&sb, r.Effects)
	writeWin(&sb, r.Win)
	return sb.String()
}

// ActionSubmittedEvent queues a night action. A rejected action fails to apply.
type ActionSubmittedEvent struct {
	Action  Action  `json:"action"`
	Verdict Verdict `json:"-"`
}

func (e *ActionSubmittedEvent) Type() EventType { return EventActionSubmitted }
func (e *ActionSubmittedEvent) Apply(state *GameState) error {
	g, err := state.game()
	if err != nil {
		return err
	}
	e.Verdict = g.SubmitAction(e.Action)
	if !e.Verdict.Allowed {
		return fmt.Errorf("action rejected [%s]: %s", e.Verdict.Code, e.Verdict.Reason)
	}
	// keep the stored action identical to the queued one
	if q := g.PendingActions(); len(q) > 0 {
		e.Action = q[len(q)-1]
	}
	return nil
}
func (e *ActionSubmittedEvent) Message() string {
	return fmt.Sprintf("Queued: %s", e.Action)
}

// NightResolvedEvent runs the resolution passes over the queued actions.
type NightResolvedEvent struct {
	Result *NightResult `json:"-"`
}

func (e *NightResolvedEvent) Type() EventType { return EventNightResolved }
func (e *NightResolvedEvent) Apply(state *GameState) error {
	g, err := state.game()
	if err != nil {
		return err
	}
	e.Result, err = g.ResolveNightPhase()
	return err
}
func (e *NightResolvedEvent) Message() string {
	if e.Result == nil {
		return "Night resolved."
	}
	r := e.Result
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Night %d resolved.", r.Night))
	writeDeaths(&sb, r.Deaths)
	if len(r.Saved) > 0 {
		sb.WriteString(fmt.Sprintf("\n├─ Saved: %s", strings.Join(r.Saved, ", ")))
	}
	if len(r.Transformed) > 0 {
		sb.WriteString(fmt.Sprintf("\n├─ Transformed: %s", strings.Join(r.Transformed, ", ")))
	}
	keys := make([]InvestigationKey, 0, len(r.Investigations))
	for k := range r.Investigations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ActorID != keys[j].ActorID {
			return keys[i].ActorID < keys[j].ActorID
		}
		return keys[i].TargetID < keys[j].TargetID
	})
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("\n├─ %s learns: %s", k.ActorID, r.Investigations[k]))
	}
	for _, o := range r.Outcomes {
		if o.Status == OutcomeSkipped || o.Status == OutcomeBlocked {
			sb.WriteString(fmt.Sprintf("\n├─ %s %s: %s", o.Action, o.Status, o.Detail))
		}
	}
	writeEffects(&sb, r.Effects)
	writeWin(&sb, r.Win)
	return sb.String()
}

// PlayerExecutedEvent carries out the day's execution.
type PlayerExecutedEvent struct {
	PlayerID string           `json:"player_id"`
	Result   *ExecutionResult `json:"-"`
}

func (e *PlayerExecutedEvent) Type() EventType { return EventPlayerExecuted }
func (e *PlayerExecutedEvent) Apply(state *GameState) error {
	g, err := state.game()
	if err != nil {
		return err
	}
	e.Result, err = g.ExecutePlayer(e.PlayerID)
	return err
}
func (e *PlayerExecutedEvent) Message() string {
	if e.Result == nil {
		return fmt.Sprintf("%s executed.", e.PlayerID)
	}
	var sb strings.Builder
	if e.Result.Survived {
		sb.WriteString(fmt.Sprintf("%s survives the execution.", e.PlayerID))
	} else {
		sb.WriteString(fmt.Sprintf("%s is executed.", e.PlayerID))
	}
	writeDeaths(&sb, e.Result.Deaths)
	writeEffects(&sb, e.Result.Effects)
	writeWin(&sb, e.Result.Win)
	return sb.String()
}

// HunterShotEvent spends a revenge shot. An empty target shoots the sky.
type HunterShotEvent struct {
	HunterID string      `json:"hunter_id"`
	TargetID string      `json:"target_id,omitempty"`
	Result   *ShotResult `json:"-"`
}

func (e *HunterShotEvent) Type() EventType { return EventHunterShot }
func (e *HunterShotEvent) Apply(state *GameState) error {
	g, err := state.game()
	if err != nil {
		return err
	}
	e.Result, err = g.HunterShoot(e.HunterID, e.TargetID)
	return err
}
func (e *HunterShotEvent) Message() string {
	if e.TargetID == "" {
		return fmt.Sprintf("%s shoots at the sky.", e.HunterID)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s shoots %s.", e.HunterID, e.TargetID))
	if e.Result != nil {
		writeDeaths(&sb, e.Result.Deaths)
		writeEffects(&sb, e.Result.Effects)
		writeWin(&sb, e.Result.Win)
	}
	return sb.String()
}

// SuccessorAppointedEvent hands a dead player's vote weight to a successor.
type SuccessorAppointedEvent struct {
	DeadID      string `json:"dead_id"`
	SuccessorID string `json:"successor_id"`
}

func (e *SuccessorAppointedEvent) Type() EventType { return EventSuccessorAppointed }
func (e *SuccessorAppointedEvent) Apply(state *GameState) error {
	g, err := state.game()
	if err != nil {
		return err
	}
	return g.AppointSuccessor(e.DeadID, e.SuccessorID)
}
func (e *SuccessorAppointedEvent) Message() string {
	return fmt.Sprintf("%s succeeds %s.", e.SuccessorID, e.DeadID)
}

// HintEvent is purely for querying the current state, and won't be saved to the store
type HintEvent struct {
	MessageStr string
}

func (e *HintEvent) Type() EventType              { return EventHint }
func (e *HintEvent) Apply(state *GameState) error { return nil }
func (e *HintEvent) Message() string              { return e.MessageStr }

func writeDeaths(sb *strings.Builder, deaths []string) {
	if len(deaths) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n├─ Deaths: %s", strings.Join(deaths, ", ")))
}

func writeEffects(sb *strings.Builder, effects []Effect) {
	for _, e := range effects {
		sb.WriteString(fmt.Sprintf("\n├─ %s", e))
	}
}

func writeWin(sb *strings.Builder, w WinResult) {
	if w.HasWinner {
		sb.WriteString(fmt.Sprintf("\n└─ GAME OVER: %s", w))
	}
}
