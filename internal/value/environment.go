package value

// Environment is a flat mapping from identifier to Value (spec.md §3).
// Unlike go-dws's chained, case-insensitive Environment
// (_examples/CWBudde-go-dws/internal/interp/runtime/environment.go),
// StepScript environments never chain to an enclosing scope: a function
// call gets a fresh environment containing only its argument bindings, and
// a block (if/while/for body) runs against a clone that is reconciled back
// into the caller's map afterward (spec.md §5) rather than looked up
// through a parent link. Identifiers are case-sensitive (spec.md §3).
type Environment struct {
	vars map[string]Value
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

// Get looks up name, returning ok=false if unbound (spec.md §4.4: "a
// missing binding reads as Null" — callers substitute NullValue themselves).
func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v, creating or overwriting the binding.
func (e *Environment) Set(name string, v Value) {
	e.vars[name] = v
}

// Clone returns a shallow copy of e for a block (if/while/for body) to
// mutate independently (spec.md §5: "A block receives a copy of the
// enclosing environment").
func (e *Environment) Clone() *Environment {
	cp := make(map[string]Value, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return &Environment{vars: cp}
}

// ReconcileFrom writes back every binding in inner that already existed in
// e before the block ran, per spec.md §5's resolved propagation policy:
// "after the block completes, the interpreter re-reads any name bound in
// both maps from the inner map back into the outer map ... Names created
// inside the block but not present outside are not propagated." Because e
// itself was never mutated while inner ran (inner is a clone), checking
// e.vars for prior existence here is equivalent to checking it "before the
// block ran".
func (e *Environment) ReconcileFrom(inner *Environment) {
	for k, v := range inner.vars {
		if _, existed := e.vars[k]; existed {
			e.vars[k] = v
		}
	}
}

// Snapshot returns a read-only copy of the environment's bindings, used by
// the observer callback (spec.md §4.3/§4.6: "(line_number, environment
// snapshot)").
func (e *Environment) Snapshot() map[string]Value {
	cp := make(map[string]Value, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return cp
}
