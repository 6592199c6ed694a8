// Package stepscript is the public API for embedding the StepScript
// interpreter (spec.md §6): Run a script against host-supplied functions
// and a per-line observer, the same shape go-dws exposes through
// pkg/dwscript and wires up from internal/interp.Options
// (_examples/CWBudde-go-dws/internal/interp/options.go) — generalized here
// to a concrete Interpreter type since, unlike go-dws, StepScript has no
// semantic/compile stage to share the Options interface with.
package stepscript

import (
	"io"

	scripterr "github.com/cwbudde/stepscript/internal/errors"
	"github.com/cwbudde/stepscript/internal/interp"
	"github.com/cwbudde/stepscript/internal/numeric"
	"github.com/cwbudde/stepscript/internal/value"
)

// Value is a StepScript runtime value (spec.md §3): Number, String, Bool,
// Null, Array or FuncRef. Host functions receive and return Values.
type Value = value.Value

// HostFunction is a capability the embedding application supplies under a
// name the script can call (spec.md §6).
type HostFunction = interp.HostFunction

// Observer is the per-line callback through which a host steps, debugs and
// cancels a running script (spec.md §5, §6). Returning Stop's result (or
// any non-nil error) cancels the run.
type Observer = interp.Observer

// Null is the shared absent-value singleton.
var Null = value.NullValue

// NewString, NewBool and NewInt construct Values for a HostFunction to
// return or an Observer to inspect.
func NewString(s string) Value { return &value.Str{S: s} }
func NewBool(b bool) Value     { return &value.Bool{B: b} }
func NewInt(n int64) Value     { return &value.Num{N: numeric.IntFromInt64(n)} }

// Option configures an Interpreter at construction time.
type Option = interp.Option

// WithTrace makes the interpreter write one line per statement executed to
// w (spec.md §2.2's ambient tracing, mirroring go-dws's --trace flag).
func WithTrace(w io.Writer) Option { return interp.WithTrace(w) }

// Interpreter runs StepScript source against a fixed set of host functions.
// It is not safe for concurrent use (spec.md §5: single-threaded
// cooperative scheduling).
type Interpreter struct {
	inner *interp.Interpreter
}

// New returns an Interpreter with hostFuncs registered as callable
// functions.
func New(hostFuncs map[string]HostFunction, opts ...Option) *Interpreter {
	return &Interpreter{inner: interp.New(hostFuncs, opts...)}
}

// Run executes script, invoking observer once per statement and once more
// with line 0 and the final environment when the run completes. The
// result is the value of the script's last executed `return`, or Null.
// Cancellation (via Stop) and every evaluation failure surface as err.
func (in *Interpreter) Run(script string, observer Observer) (Value, error) {
	return in.inner.Run(script, observer)
}

// Run is the one-shot convenience form of Interpreter.Run (spec.md §6:
// "Run(script, host_funcs, observer) -> Value | Stopped | Error").
func Run(script string, hostFuncs map[string]HostFunction, observer Observer) (Value, error) {
	return New(hostFuncs).Run(script, observer)
}

// Stop builds the cooperative-cancellation error an Observer returns to
// halt a run (spec.md §5, §7).
func Stop(reason string) error { return scripterr.Stop(reason) }

// IsStopped reports whether err is the Stop cancellation signal, as
// opposed to a genuine evaluation failure.
func IsStopped(err error) bool { return scripterr.IsStopped(err) }

// ScriptError is the concrete error type every StepScript stage returns;
// callers type-assert to it to inspect Kind, Line and Expr.
type ScriptError = scripterr.ScriptError

// Kind classifies a ScriptError (spec.md §7).
type Kind = scripterr.Kind

// Error kind constants, re-exported for callers that want to switch on
// ScriptError.Kind without importing internal/errors.
const (
	SyntaxError   = scripterr.SyntaxError
	TypeError     = scripterr.TypeError
	TypeMismatch  = scripterr.TypeMismatch
	NameError     = scripterr.NameError
	InternalError = scripterr.InternalError
	Stopped       = scripterr.Stopped
)
