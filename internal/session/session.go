package session

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"go.uber.org/zap"

	"github.com/netprtony/KoyaOracle-sub001/internal/command"
	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
	"github.com/netprtony/KoyaOracle-sub001/internal/rules"
)

// Store defines the dependency required by Session to persist events
type Store interface {
	Append(evt engine.Event) error
	Load() ([]engine.Event, error)
	Close() error
}

// Session manages the cohesive loop of taking commands, executing them, persisting events, and projecting GameState
type Session struct {
	catalogue *data.Catalogue
	registry  *rules.Registry
	store     Store
	state     *engine.GameState
	parser    *participle.Parser[parser.Command]
	ballot    command.Ballot
}

// NewSession replays the store into a fresh game state.
func NewSession(cat *data.Catalogue, reg *rules.Registry, store Store) (*Session, error) {
	s := &Session{
		catalogue: cat,
		registry:  reg,
		store:     store,
		parser:    parser.Build(),
		ballot:    command.Ballot{},
	}
	if err := s.RebuildState(); err != nil {
		return nil, err
	}
	return s, nil
}

// RebuildState reads the entire event log from the store and projects the latest GameState
func (s *Session) RebuildState() error {
	events, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load event log: %w", err)
	}

	state, err := engine.NewProjector(s.catalogue, s.registry).Build(events)
	if err != nil {
		return fmt.Errorf("failed to project game state: %w", err)
	}

	s.state = state
	return nil
}

// State returns the current projected GameState
func (s *Session) State() *engine.GameState {
	return s.state
}

// Catalogue returns the role table the session plays with.
func (s *Session) Catalogue() *data.Catalogue {
	return s.catalogue
}

// Start appends the creation event for a fresh log.
func (s *Session) Start(gameID string, seats []data.SeatAssignment) (engine.Event, error) {
	evt := &engine.GameCreatedEvent{GameID: gameID, Seats: seats}
	if err := s.ApplyAndAppend(evt); err != nil {
		return nil, err
	}
	return evt, nil
}

// Execute parses one line of moderator input, runs the command and returns
// the event that describes the outcome. Queries return hint events that are
// never persisted.
func (s *Session) Execute(input string) (engine.Event, error) {
	cmd, err := s.parser.ParseString("", input)
	if err != nil {
		return nil, parser.MapError(input, err)
	}

	var events []engine.Event
	switch {
	case cmd.Night != nil:
		events, err = command.ExecuteNight(cmd.Night, s.state)
	case cmd.Resolve != nil:
		events, err = command.ExecuteResolve(cmd.Resolve, s.state)
	case cmd.Day != nil:
		events, err = command.ExecuteDay(cmd.Day, s.state)
	case cmd.Act != nil:
		events, err = command.ExecuteAct(cmd.Act, s.state)
	case cmd.Can != nil:
		events, err = command.ExecuteCan(cmd.Can, s.state)
	case cmd.Execute != nil:
		events, err = command.ExecuteExecute(cmd.Execute, s.state)
	case cmd.Shoot != nil:
		events, err = command.ExecuteShoot(cmd.Shoot, s.state)
	case cmd.Vote != nil:
		events, err = command.ExecuteVote(cmd.Vote, s.state, s.ballot)
	case cmd.Tally != nil:
		events, err = command.ExecuteTally(cmd.Tally, s.state, s.ballot)
	case cmd.Successor != nil:
		events, err = command.ExecuteSuccessor(cmd.Successor, s.state)
	case cmd.Status != nil:
		events, err = command.ExecuteStatus(cmd.Status, s.state)
	case cmd.Win != nil:
		events, err = command.ExecuteWin(cmd.Win, s.state)
	case cmd.Roles != nil:
		events, err = command.ExecuteRoles(cmd.Roles, s.catalogue)
	case cmd.Help != nil:
		events, err = command.ExecuteHelp(cmd.Help)
	default:
		return nil, parser.MapError(input, fmt.Errorf("empty command"))
	}
	if err != nil {
		return nil, err
	}

	for _, evt := range events {
		if err := s.ApplyAndAppend(evt); err != nil {
			return nil, err
		}
	}
	return events[0], nil
}

// ApplyAndAppend folds the event into the state and only then persists it,
// so a rejected event never reaches the log. Hints are applied but not stored.
func (s *Session) ApplyAndAppend(evt engine.Event) error {
	if err := evt.Apply(s.state); err != nil {
		return err
	}
	switch evt.Type() {
	case engine.EventHint:
		return nil
	case engine.EventDayStarted, engine.EventPlayerExecuted:
		// a new day or its execution closes the vote
		clear(s.ballot)
	}
	if err := s.store.Append(evt); err != nil {
		return fmt.Errorf("failed to persist %s: %w", evt.Type(), err)
	}
	zap.L().Debug("event appended", zap.String("type", string(evt.Type())))
	return nil
}

// Close releases the underlying store.
func (s *Session) Close() error {
	return s.store.Close()
}
