package command

import (
	"fmt"
	"strings"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
)

// buildAction converts the parsed tail of act/can into an engine action.
func buildAction(expr *parser.ActionExpr) (engine.Action, error) {
	a := engine.Action{
		ActorID: expr.Actor.Name,
		Kind:    data.ActionKind(strings.ToLower(expr.Kind)),
		Targets: expr.TargetIDs(),
	}
	if !a.Kind.Valid() {
		return a, fmt.Errorf("unknown action kind %q", expr.Kind)
	}
	if expr.SubKind != "" {
		a.SubKind = data.ActionKind(strings.ToLower(expr.SubKind))
		if !a.SubKind.Valid() {
			return a, fmt.Errorf("unknown action kind %q", expr.SubKind)
		}
	}
	return a, nil
}

// ExecuteAct queues a night action after checking it would be accepted.
func ExecuteAct(cmd *parser.ActCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	a, err := buildAction(cmd.Action)
	if err != nil {
		return nil, err
	}
	if v := check(g, a); !v.Allowed {
		return nil, fmt.Errorf("rejected [%s]: %s", v.Code, v.Reason)
	}
	return []engine.Event{&engine.ActionSubmittedEvent{Action: a}}, nil
}

// ExecuteCan reports whether a night action would be accepted without queueing it.
func ExecuteCan(cmd *parser.CanCmd, state *engine.GameState) ([]engine.Event, error) {
	g, err := requireGame(state)
	if err != nil {
		return nil, err
	}
	a, err := buildAction(cmd.Action)
	if err != nil {
		return nil, err
	}
	v := check(g, a)
	if v.Allowed {
		return hint("%s: allowed", a), nil
	}
	return hint("%s: denied [%s] %s", a, v.Code, v.Reason), nil
}

// check validates a against the game. A bare sub kind such as "dual heal"
// carries its sub kind through to the validator.
func check(g *engine.Game, a engine.Action) engine.Verdict {
	kind := a.Kind
	if a.Kind == data.ActionDual && a.SubKind != "" {
		kind = a.SubKind
	}
	return g.CanPerformAction(a.ActorID, kind, a.Targets)
}
