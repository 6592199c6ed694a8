// Package errors defines the error taxonomy shared by every stage of the
// StepScript pipeline: tokenizer, parser, evaluator, and statement
// interpreter. It formats errors with source context the way the original
// go-dws CompilerError does, adapted to a line-oriented (rather than
// column-oriented) diagnostic since StepScript re-derives the offending
// expression text from the tokenizer rather than tracking per-token columns.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies a ScriptError per spec.md §7.
type Kind int

const (
	// SyntaxError covers unbalanced groupings, unknown operators, malformed
	// for-headers, and bad function declarations.
	SyntaxError Kind = iota
	// TypeError covers non-Boolean conditions, Null under ordering
	// operators, and string-vs-number ordering comparisons.
	TypeError
	// TypeMismatch covers non-integer operands to bitwise/shift/mod.
	TypeMismatch
	// NameError covers calls to unknown functions.
	NameError
	// InternalError covers postfix stack imbalance and similar evaluator
	// invariant violations.
	InternalError
	// Stopped is the cooperative-cancellation signal raised by an observer.
	Stopped
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case TypeError:
		return "TypeError"
	case TypeMismatch:
		return "TypeMismatch"
	case NameError:
		return "NameError"
	case InternalError:
		return "InternalError"
	case Stopped:
		return "Stopped"
	default:
		return "UnknownError"
	}
}

// ScriptError is the single error type returned by every StepScript stage.
// Hosts distinguish cancellation from failure by checking Kind == Stopped
// (or calling IsStopped).
type ScriptError struct {
	Kind    Kind
	Message string
	// Expr is the offending expression's original source text, when known
	// (the tokenizer retains it in the expression-tag token for exactly
	// this purpose; see internal/lexer).
	Expr string
	// Line is the 1-based source line the error occurred on, 0 if unknown.
	Line int
}

func (e *ScriptError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Expr != "" {
		fmt.Fprintf(&sb, " (in %q)", e.Expr)
	}
	return sb.String()
}

// New builds a ScriptError with no location information attached yet; the
// block/interp layer fills in Line and Expr as the error propagates out of
// an expression evaluation (see interp.attachLocation).
func New(kind Kind, format string, args ...any) *ScriptError {
	return &ScriptError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithLocation returns a copy of e with Line and Expr set, unless they are
// already set (innermost failure wins).
func (e *ScriptError) WithLocation(line int, expr string) *ScriptError {
	cp := *e
	if cp.Line == 0 {
		cp.Line = line
	}
	if cp.Expr == "" {
		cp.Expr = expr
	}
	return &cp
}

// Stop is the sentinel error an observer implementation returns to request
// cooperative cancellation (spec.md §5).
func Stop(reason string) *ScriptError {
	return &ScriptError{Kind: Stopped, Message: reason}
}

// IsStopped reports whether err is a ScriptError carrying the Stopped kind.
func IsStopped(err error) bool {
	se, ok := err.(*ScriptError)
	return ok && se.Kind == Stopped
}

// Format renders the error with a source-line diagnostic, modeled on
// go-dws's CompilerError.Format: a header, the offending source line when
// it can be recovered from src, and the message. No column caret is drawn.
func (e *ScriptError) Format(src string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s", e.Kind)
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	sb.WriteString("\n")

	if e.Line > 0 && src != "" {
		lines := strings.Split(src, "\n")
		if e.Line-1 < len(lines) {
			fmt.Fprintf(&sb, "%4d | %s\n", e.Line, lines[e.Line-1])
		}
	}

	sb.WriteString(e.Message)
	if e.Expr != "" {
		fmt.Fprintf(&sb, " (in %q)", e.Expr)
	}
	return sb.String()
}
