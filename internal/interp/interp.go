// Package interp implements the statement interpreter (spec.md §4.6): it
// walks the indentation tree produced by internal/block, recognising
// if/elif/else, while, for, function, return and end, driving
// internal/eval for every expression it meets along the way. It owns the
// user-function table and implements internal/eval.FunctionCaller so an
// expression can call back into a user-defined or host-supplied function.
package interp

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cwbudde/stepscript/internal/block"
	"github.com/cwbudde/stepscript/internal/builtins"
	scripterr "github.com/cwbudde/stepscript/internal/errors"
	"github.com/cwbudde/stepscript/internal/eval"
	"github.com/cwbudde/stepscript/internal/lexer"
	"github.com/cwbudde/stepscript/internal/parser"
	"github.com/cwbudde/stepscript/internal/value"
)

// HostFunction is a capability supplied by the embedding host (spec.md §6):
// it consumes a fixed number of already-evaluated arguments and returns a
// single result.
type HostFunction func(args []value.Value) (value.Value, error)

// Observer is the per-line callback through which a host steps, debugs and
// cancels execution (spec.md §5, §6). Line 0 signals the end of a
// statement-interpreter run. Returning a non-nil error — typically built
// with scripterr.Stop — cancels execution; the error propagates out of Run
// unchanged.
type Observer func(line int, env map[string]value.Value) error

// userFunction is a registered `function name(args)` declaration: its
// captured body subtree and ordered parameter names (spec.md §3).
type userFunction struct {
	params []string
	body   []*block.Node
}

// Interpreter owns the user-function table and the host function set for a
// single script. It is not safe for concurrent use — spec.md §5 specifies
// single-threaded cooperative scheduling.
type Interpreter struct {
	host     map[string]HostFunction
	user     map[string]*userFunction
	observer Observer
	traceOut io.Writer
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithTrace makes the interpreter write one line per statement executed
// (line number and leading keyword) to w, mirroring go-dws's --trace CLI
// flag (cmd/dwscript/cmd/run.go).
func WithTrace(w io.Writer) Option {
	return func(i *Interpreter) { i.traceOut = w }
}

// New returns an Interpreter with hostFuncs registered as host-callable
// functions. Host names, like built-in and user-function names, are
// resolved case-insensitively (spec.md §4.4).
func New(hostFuncs map[string]HostFunction, opts ...Option) *Interpreter {
	i := &Interpreter{
		host: make(map[string]HostFunction, len(hostFuncs)),
		user: make(map[string]*userFunction),
	}
	for name, fn := range hostFuncs {
		i.host[strings.ToLower(name)] = fn
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run executes script from a fresh environment, invoking observer once per
// statement and once more with line 0 and the final environment when the
// run completes normally. The result is the value of the script's last
// `return`, or Null if none executed (spec.md §4.6).
func (i *Interpreter) Run(script string, observer Observer) (value.Value, error) {
	i.observer = observer
	defer func() { i.observer = nil }()

	nodes := block.Parse(script)
	env := value.NewEnvironment()
	return i.runBody(nodes, env)
}

// runBody executes nodes to completion, then performs the statement
// interpreter's end-of-run observer call (spec.md §4.6), used both for a
// top-level Run and for a user function's body.
func (i *Interpreter) runBody(nodes []*block.Node, env *value.Environment) (value.Value, error) {
	rv, _, err := i.exec(nodes, env)
	if err != nil {
		return nil, err
	}
	if err := i.emit(0, env); err != nil {
		return nil, err
	}
	if rv == nil {
		return value.NullValue, nil
	}
	return rv, nil
}

// CallFunction implements eval.FunctionCaller: resolve name against the
// user-function table, then the host table, then the built-ins, in that
// order, all case-insensitively (spec.md §4.4).
func (i *Interpreter) CallFunction(name string, args []value.Value) (value.Value, error) {
	key := strings.ToLower(name)
	if fn, ok := i.user[key]; ok {
		return i.invokeUser(fn, args)
	}
	if fn, ok := i.host[key]; ok {
		return fn(args)
	}
	if fn, ok := builtins.Lookup(key); ok {
		return fn(args)
	}
	return nil, scripterr.New(scripterr.NameError, "unknown function %q", name)
}

// invokeUser binds args to fn's parameters in a fresh environment (no
// chain back to the caller, spec.md §3) and runs its body.
func (i *Interpreter) invokeUser(fn *userFunction, args []value.Value) (value.Value, error) {
	if len(args) != len(fn.params) {
		return nil, scripterr.New(scripterr.TypeError, "function expects %d argument(s), got %d", len(fn.params), len(args))
	}
	env := value.NewEnvironment()
	for idx, p := range fn.params {
		env.Set(p, args[idx])
	}
	return i.runBody(fn.body, env)
}

// registerFunction parses a "name(a, b)" declaration header and records it
// in the user-function table (spec.md §4.6).
func (i *Interpreter) registerFunction(header string, body []*block.Node) error {
	open := strings.IndexByte(header, '(')
	closeIdx := strings.LastIndexByte(header, ')')
	if open < 0 || closeIdx < open {
		return scripterr.New(scripterr.SyntaxError, "malformed function declaration %q", header)
	}
	name := strings.TrimSpace(header[:open])
	if name == "" {
		return scripterr.New(scripterr.SyntaxError, "function declaration missing a name")
	}
	var params []string
	paramStr := strings.TrimSpace(header[open+1 : closeIdx])
	if paramStr != "" {
		for _, p := range strings.Split(paramStr, ",") {
			params = append(params, strings.TrimSpace(p))
		}
	}
	i.user[strings.ToLower(name)] = &userFunction{params: params, body: body}
	return nil
}

// evalExpr tokenizes, parses and evaluates text against env, attaching
// line/expr location to any error that doesn't already carry one.
func (i *Interpreter) evalExpr(text string, env *value.Environment, line int) (value.Value, error) {
	toks, err := lexer.Tokenize(text)
	if err != nil {
		return nil, attachLocation(err, line, text)
	}
	postfix, err := parser.ToPostfix(toks)
	if err != nil {
		return nil, attachLocation(err, line, text)
	}
	return eval.New(env, i).Eval(postfix, line)
}

func attachLocation(err error, line int, expr string) error {
	if se, ok := err.(*scripterr.ScriptError); ok {
		return se.WithLocation(line, expr)
	}
	return err
}

// requireCond evaluates an if/while/for condition and requires it Bool,
// attaching location to a TypeError (spec.md §4.6: "must be Bool; else
// TypeError").
func requireCond(v value.Value, line int, expr string) (bool, error) {
	b, err := value.RequireBool(v)
	if err != nil {
		return false, attachLocation(err, line, expr)
	}
	return b, nil
}

// emit invokes the current observer, a no-op when none is set (e.g. while
// an Interpreter built only to register functions ahead of use).
// emit calls the observer and, per spec.md §5, yields for a sub-millisecond
// sleep afterward — the observer is the interpreter's only suspension
// point, so without this an infinite script loop could starve the host's
// control thread on platforms where the interpreter shares one.
func (i *Interpreter) emit(line int, env *value.Environment) error {
	if i.observer == nil {
		return nil
	}
	err := i.observer(line, env.Snapshot())
	time.Sleep(time.Microsecond)
	return err
}

func (i *Interpreter) traceLine(line int, keyword string) {
	if i.traceOut == nil {
		return
	}
	fmt.Fprintf(i.traceOut, "%d: %s\n", line, keyword)
}
