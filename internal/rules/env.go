package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"
)

// Registry manages the CEL environment used for catalogue trigger conditions
// and caches compiled programs by expression.
type Registry struct {
	env *cel.Env

	mu    sync.Mutex
	progs map[string]cel.Program
}

// NewRegistry initializes the CEL environment with the game-state variables and helper functions.
func NewRegistry() (*Registry, error) {
	env, err := cel.NewEnv(
		ext.Strings(),
		ext.Lists(),

		// Variable declarations
		cel.Variable("night", cel.IntType),
		cel.Variable("alive_count", cel.IntType),
		cel.Variable("alive_roles", cel.ListType(cel.StringType)),
		cel.Variable("dead_roles", cel.ListType(cel.StringType)),
		cel.Variable("actor", cel.MapType(cel.StringType, cel.DynType)),

		// count(list, value) is the number of occurrences of value in list.
		cel.Function("count",
			cel.Overload("count_list_string",
				[]*cel.Type{cel.ListType(cel.StringType), cel.StringType},
				cel.IntType,
				cel.BinaryBinding(func(lst ref.Val, val ref.Val) ref.Val {
					l, ok := lst.(traits.Lister)
					if !ok {
						return types.NewErr("count: not a list")
					}
					n := 0
					it := l.Iterator()
					for it.HasNext() == types.True {
						if it.Next().Equal(val) == types.True {
							n++
						}
					}
					return types.Int(n)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Registry{env: env, progs: make(map[string]cel.Program)}, nil
}

// Compile checks an expression and caches its program. The expression must evaluate to a bool.
func (r *Registry) Compile(expression string) (cel.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prg, ok := r.progs[expression]; ok {
		return prg, nil
	}
	ast, iss := r.env.Compile(expression)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("CEL expression %q must be boolean, got %s", expression, ast.OutputType())
	}
	prg, err := r.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	r.progs[expression] = prg
	return prg, nil
}

// Eval executes a trigger expression against the provided game snapshot.
// An empty expression always holds.
func (r *Registry) Eval(expression string, tc TriggerContext) (bool, error) {
	if expression == "" {
		return true, nil
	}
	prg, err := r.Compile(expression)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(tc.Vars())
	if err != nil {
		return false, fmt.Errorf("CEL eval error: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression %q did not yield a bool", expression)
	}
	return b, nil
}
