package engine

import (
	"fmt"

	"github.com/web-algebra/webalgebra/dsl"
	"github.com/web-algebra/webalgebra/walerr"
)

// VariableStack implements dsl.VarStack: a stack of name->value frames,
// inner frames shadowing outer ones (spec.md §4.2 "Variable stack
// semantics", GLOSSARY "Variable stack").
type VariableStack struct {
	frames []map[string]dsl.Value
}

// NewVariableStack returns a stack with a single root frame, matching
// the top-level evaluation's implicit outermost scope.
func NewVariableStack() *VariableStack {
	return &VariableStack{frames: []map[string]dsl.Value{{}}}
}

// Push opens a new scope, entered by ForEach (spec.md §4.2); Variable
// writes into the current top frame without pushing.
func (s *VariableStack) Push() {
	s.frames = append(s.frames, map[string]dsl.Value{})
}

// Pop closes the innermost scope. Guaranteed to be called on every exit
// path (including failure) by scoped operators (spec.md §3 Lifecycles).
func (s *VariableStack) Pop() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Set writes into the top frame.
func (s *VariableStack) Set(name string, v dsl.Value) {
	if len(s.frames) == 0 {
		s.Push()
	}
	s.frames[len(s.frames)-1][name] = v
}

// Get searches from innermost to outermost frame, reporting ok=false if
// name is not bound anywhere (MustGet turns that into an error).
func (s *VariableStack) Get(name string) (dsl.Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// MustGet is a convenience wrapper returning a walerr ProgramError of
// kind UnboundVariable-equivalent when the variable is absent.
func (s *VariableStack) MustGet(op, name string) (dsl.Value, error) {
	v, ok := s.Get(name)
	if !ok {
		return nil, walerr.Program(op, name, fmt.Errorf("unbound variable %q", name))
	}
	return v, nil
}
