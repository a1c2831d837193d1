package engine

import "errors"

var (
	ErrWrongPhase        = errors.New("operation not allowed in the current phase")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrPlayerDead        = errors.New("player is dead")
	ErrNoPendingShot     = errors.New("player has no pending revenge shot")
	ErrNoSuccession      = errors.New("player has no pending succession")
	ErrNightUnresolved   = errors.New("night has not been resolved")
	ErrAlreadyExecuted   = errors.New("an execution already took place today")
	ErrGameOver          = errors.New("game is over")
	ErrUnknownRole       = errors.New("unknown role")
	ErrDuplicatePlayerID = errors.New("duplicate player id")
)

// Code is a machine-readable reason attached to a rejected action.
type Code string

const (
	CodeOK Code = ""

	// Actor checks
	CodeActorUnknown Code = "ACTOR_UNKNOWN"
	CodeActorDead    Code = "ACTOR_DEAD"
	CodeActorExiled  Code = "ACTOR_EXILED"

	// Ability checks
	CodeActionNotDefined  Code = "ACTION_NOT_DEFINED"
	CodeActionMalformed   Code = "ACTION_MALFORMED"
	CodeFirstNightOnly    Code = "FREQUENCY_FIRST_NIGHT_ONLY"
	CodeNotOnFirstNight   Code = "FREQUENCY_NOT_ON_FIRST_NIGHT"
	CodeAbilityUsed       Code = "FREQUENCY_ABILITY_USED"
	CodeTriggerNotMet     Code = "TRIGGER_NOT_MET"
	CodeConsecutiveTarget Code = "RESTRICTION_CONSECUTIVE_TARGET"
	CodeOwnTeam           Code = "RESTRICTION_OWN_TEAM"

	// Target checks
	CodeTargetCount   Code = "TARGET_COUNT"
	CodeTargetUnknown Code = "TARGET_UNKNOWN"
	CodeTargetDead    Code = "TARGET_DEAD"
	CodeSelfTarget    Code = "TARGET_SELF"

	// Queue checks
	CodeWrongPhase      Code = "WRONG_PHASE"
	CodeDuplicateAction Code = "ACTION_DUPLICATE"
	CodeKillLimit       Code = "KILL_LIMIT"
	CodeGameOver        Code = "GAME_OVER"
)
