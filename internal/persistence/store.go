package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
)

// EventWrapper tags each serialized event with its type so the log can be decoded.
type EventWrapper struct {
	Type  engine.EventType `json:"type"`
	Event json.RawMessage  `json:"data"`
}

// Store is an append-only JSONL log of game events.
type Store struct {
	file *os.File
}

// NewStore opens or creates the file at path for appending lines
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return &Store{file: file}, nil
}

// Append marshals one event as a wrapped JSON line and syncs the file.
// Hint events are queries and are never written.
func (s *Store) Append(evt engine.Event) error {
	if evt.Type() == engine.EventHint {
		return nil
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	wrapperData, err := json.Marshal(EventWrapper{Type: evt.Type(), Event: data})
	if err != nil {
		return err
	}

	if _, err := s.file.Write(append(wrapperData, '\n')); err != nil {
		return err
	}
	return s.file.Sync()
}

// newEvent returns an empty event of the given type for decoding.
func newEvent(t engine.EventType) (engine.Event, error) {
	switch t {
	case engine.EventGameCreated:
		return &engine.GameCreatedEvent{}, nil
	case engine.EventNightStarted:
		return &engine.NightStartedEvent{}, nil
	case engine.EventActionSubmitted:
		return &engine.ActionSubmittedEvent{}, nil
	case engine.EventNightResolved:
		return &engine.NightResolvedEvent{}, nil
	case engine.EventDayStarted:
		return &engine.DayStartedEvent{}, nil
	case engine.EventPlayerExecuted:
		return &engine.PlayerExecutedEvent{}, nil
	case engine.EventHunterShot:
		return &engine.HunterShotEvent{}, nil
	case engine.EventSuccessorAppointed:
		return &engine.SuccessorAppointedEvent{}, nil
	default:
		return nil, fmt.Errorf("unknown event type in log: %s", t)
	}
}

// Load reads the whole log back into events in the order they were appended.
func (s *Store) Load() ([]engine.Event, error) {
	var events []engine.Event

	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(s.file)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var wrapper EventWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode wrapper: %w", line, err)
		}

		evt, err := newEvent(wrapper.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := json.Unmarshal(wrapper.Event, evt); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse %s: %w", line, wrapper.Type, err)
		}

		events = append(events, evt)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	zap.L().Debug("event log loaded", zap.String("path", s.file.Name()), zap.Int("events", len(events)))
	return events, nil
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}
