// Package eval walks a postfix token vector (as produced by internal/parser)
// against an environment, implementing spec.md §4.4's expression semantics:
// arithmetic with automatic Int→Dec promotion, string concatenation, the
// short-circuit gate protocol, pre/post ±, array indexing via transient
// LValues, and assignment-target recovery.
package eval

import (
	"strings"

	"github.com/cwbudde/stepscript/internal/lexer"
	"github.com/cwbudde/stepscript/internal/numeric"
	"github.com/cwbudde/stepscript/internal/value"

	scripterr "github.com/cwbudde/stepscript/internal/errors"
)

// FunctionCaller dispatches a function-head's realized call to either a
// user-defined function or a host/builtin function. Implemented by
// internal/interp.Interpreter; declared here (rather than imported from
// there) so internal/eval never imports internal/interp.
type FunctionCaller interface {
	CallFunction(name string, args []value.Value) (value.Value, error)
}

// Evaluator evaluates postfix vectors against a single environment.
type Evaluator struct {
	Env    *value.Environment
	Caller FunctionCaller
}

// New returns an Evaluator bound to env and caller.
func New(env *value.Environment, caller FunctionCaller) *Evaluator {
	return &Evaluator{Env: env, Caller: caller}
}

// Eval walks postfix (including its leading ExprTag) and returns the single
// resulting value. line is attached to any error raised during evaluation.
func (e *Evaluator) Eval(postfix []lexer.Token, line int) (value.Value, error) {
	if len(postfix) == 0 {
		return value.NullValue, nil
	}
	exprText := postfix[0].Text

	fail := func(kind scripterr.Kind, format string, args ...any) error {
		return scripterr.New(kind, format, args...).WithLocation(line, exprText)
	}

	var stack []value.Value
	pop := func() value.Value {
		n := len(stack)
		v := stack[n-1]
		stack = stack[:n-1]
		return v
	}
	push := func(v value.Value) { stack = append(stack, v) }

	i := 1
	for i < len(postfix) {
		t := postfix[i]

		switch t.Kind {
		case lexer.Literal:
			nv, err := numeric.Parse(t.Text)
			if err != nil {
				return nil, wrapErr(err, line, exprText)
			}
			push(&value.Num{N: nv})
			i++

		case lexer.StringLit:
			push(&value.Str{S: t.Text})
			i++

		case lexer.Variable:
			cur, ok := e.Env.Get(t.Text)
			if !ok {
				cur = value.NullValue
			}
			if t.Marker != lexer.NoMarker {
				newVal, oldVal, err := applyDelta(cur, t.Delta)
				if err != nil {
					return nil, wrapErr(err, line, exprText)
				}
				e.Env.Set(t.Text, newVal)
				if t.Marker == lexer.PreMarker {
					push(newVal)
				} else {
					push(oldVal)
				}
			} else {
				push(cur)
			}
			i++

		case lexer.ArrayHead:
			idx, err := requireIndex(pop())
			if err != nil {
				return nil, wrapErr(err, line, exprText)
			}
			arr, err := e.arrayFor(t.Text)
			if err != nil {
				return nil, wrapErr(err, line, exprText)
			}
			if t.Marker != lexer.NoMarker {
				old := arr.Get(idx)
				newVal, oldVal, derr := applyDelta(old, t.Delta)
				if derr != nil {
					return nil, wrapErr(derr, line, exprText)
				}
				arr.Set(idx, newVal)
				if t.Marker == lexer.PreMarker {
					push(newVal)
				} else {
					push(oldVal)
				}
			} else {
				push(value.NewArrayLValue(arr, idx))
			}
			i++

		case lexer.FuncHead:
			if len(stack) < t.ArgCount {
				return nil, fail(scripterr.InternalError, "stack underflow calling %s", t.Text)
			}
			args := make([]value.Value, t.ArgCount)
			for k := t.ArgCount - 1; k >= 0; k-- {
				args[k] = value.Deref(pop())
			}
			if e.Caller == nil {
				return nil, fail(scripterr.NameError, "unknown function %q", t.Text)
			}
			result, err := e.Caller.CallFunction(t.Text, args)
			if err != nil {
				return nil, wrapErr(err, line, exprText)
			}
			push(result)
			i++

		case lexer.Operator:
			if t.IsGate() {
				if len(stack) == 0 {
					return nil, fail(scripterr.InternalError, "short-circuit gate with no left operand")
				}
				leftVal := stack[len(stack)-1]
				leftBool, err := value.RequireBool(leftVal)
				if err != nil {
					return nil, wrapErr(err, line, exprText)
				}
				shortCircuit := (t.GateIsAnd() && !leftBool) || (!t.GateIsAnd() && leftBool)
				if shortCircuit {
					pop()
					push(&value.Bool{B: leftBool})
					j := i + 1
					for j < len(postfix) && postfix[j].GateID != t.GateID {
						j++
					}
					if j >= len(postfix) {
						return nil, fail(scripterr.InternalError, "unmatched short-circuit gate")
					}
					i = j + 1
					continue
				}
				i++
				continue
			}

			if err := e.applyOperator(t, postfix, line, exprText, &stack); err != nil {
				return nil, err
			}
			i++

		default:
			return nil, fail(scripterr.InternalError, "unexpected token kind %v in postfix vector", t.Kind)
		}
	}

	if len(stack) != 1 {
		return nil, fail(scripterr.InternalError, "postfix evaluation left %d values on the stack, want 1", len(stack))
	}
	return value.Deref(stack[0]), nil
}

// applyOperator handles every Operator-kind token except the short-circuit
// gate sentinels, which Eval handles inline (they need to peek the stack
// without popping and may jump the cursor).
func (e *Evaluator) applyOperator(t lexer.Token, postfix []lexer.Token, line int, exprText string, stackPtr *[]value.Value) error {
	stack := *stackPtr
	defer func() { *stackPtr = stack }()

	pop := func() value.Value {
		n := len(stack)
		v := stack[n-1]
		stack = stack[:n-1]
		return v
	}
	push := func(v value.Value) { stack = append(stack, v) }
	fail := func(kind scripterr.Kind, format string, args ...any) error {
		return scripterr.New(kind, format, args...).WithLocation(line, exprText)
	}

	switch t.Text {
	case "!":
		v := value.Deref(pop())
		if b, ok := value.AsBool(v); ok {
			push(&value.Bool{B: !b})
			return nil
		}
		n, ok := value.AsNum(v)
		if !ok {
			return fail(scripterr.TypeError, "! requires a boolean or integer operand, got %s", v.Type())
		}
		nn, err := numeric.Not(n)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		push(&value.Num{N: nn})
		return nil

	case "unary-":
		v := value.Deref(pop())
		n, ok := value.AsNum(v)
		if !ok {
			return fail(scripterr.TypeError, "unary - requires a numeric operand, got %s", v.Type())
		}
		push(&value.Num{N: numeric.Neg(n)})
		return nil

	case "&&", "||":
		right := value.Deref(pop())
		left := value.Deref(pop())
		lb, err := value.RequireBool(left)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		rb, err := value.RequireBool(right)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		if t.Text == "&&" {
			push(&value.Bool{B: lb && rb})
		} else {
			push(&value.Bool{B: lb || rb})
		}
		return nil

	case "=", "+=", "-=", "*=", "/=", "%=":
		rhs := value.Deref(pop())
		leftRaw := pop()

		if lv, ok := leftRaw.(*value.LValue); ok {
			result, err := computeAssignment(t.Text, lv.Get(), rhs)
			if err != nil {
				return wrapErr(err, line, exprText)
			}
			lv.Set(result)
			push(result)
			return nil
		}

		name, err := scalarTarget(postfix)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		result, err := computeAssignment(t.Text, value.Deref(leftRaw), rhs)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		e.Env.Set(name, result)
		push(result)
		return nil

	case "+":
		right := value.Deref(pop())
		left := value.Deref(pop())
		result, err := addValues(left, right)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		push(result)
		return nil

	case "-", "*", "/", "%":
		right := value.Deref(pop())
		left := value.Deref(pop())
		result, err := numericBinary(t.Text, left, right)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		push(result)
		return nil

	case "&", "|", "^", "<<", ">>", ">>>":
		right := value.Deref(pop())
		left := value.Deref(pop())
		result, err := bitwiseOrLogical(t.Text, left, right)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		push(result)
		return nil

	case "==", "!=", "<", "<=", ">", ">=":
		right := value.Deref(pop())
		left := value.Deref(pop())
		result, err := compareValues(t.Text, left, right)
		if err != nil {
			return wrapErr(err, line, exprText)
		}
		push(result)
		return nil

	default:
		return fail(scripterr.InternalError, "unknown operator %q", t.Text)
	}
}

// computeAssignment resolves "=" to rhs directly, or a compound form to
// old <op> rhs using the same semantics as the matching binary operator.
func computeAssignment(opText string, old, rhs value.Value) (value.Value, error) {
	if opText == "=" {
		return rhs, nil
	}
	base := opText[:len(opText)-1] // "+=" -> "+"
	if base == "+" {
		return addValues(old, rhs)
	}
	return numericBinary(base, old, rhs)
}

// scalarTarget recovers the assignment target name for a simple "name =
// expr" (or compound-assign) statement, per spec.md §4.4/§9: the variable
// token sits at postfix position 1 when the whole statement is exactly that
// shape (array targets instead retain an *value.LValue, handled separately).
func scalarTarget(postfix []lexer.Token) (string, error) {
	if len(postfix) < 2 || postfix[1].Kind != lexer.Variable {
		return "", scripterr.New(scripterr.SyntaxError, "assignment to a non-assignable left-hand side")
	}
	return postfix[1].Text, nil
}

func addValues(a, b value.Value) (value.Value, error) {
	if _, ok := value.AsStr(a); ok {
		return &value.Str{S: value.Stringify(a) + value.Stringify(b)}, nil
	}
	if _, ok := value.AsStr(b); ok {
		return &value.Str{S: value.Stringify(a) + value.Stringify(b)}, nil
	}
	na, ok1 := value.AsNum(a)
	nb, ok2 := value.AsNum(b)
	if !ok1 || !ok2 {
		return nil, scripterr.New(scripterr.TypeError, "+ requires two numbers or a string operand, got %s and %s", a.Type(), b.Type())
	}
	return &value.Num{N: numeric.Add(na, nb)}, nil
}

func numericBinary(op string, a, b value.Value) (value.Value, error) {
	na, ok1 := value.AsNum(a)
	nb, ok2 := value.AsNum(b)
	if !ok1 || !ok2 {
		return nil, scripterr.New(scripterr.TypeError, "%s requires two numeric operands, got %s and %s", op, a.Type(), b.Type())
	}
	switch op {
	case "-":
		return &value.Num{N: numeric.Sub(na, nb)}, nil
	case "*":
		return &value.Num{N: numeric.Mul(na, nb)}, nil
	case "/":
		r, err := numeric.Div(na, nb)
		if err != nil {
			return nil, err
		}
		return &value.Num{N: r}, nil
	case "%":
		r, err := numeric.Mod(na, nb)
		if err != nil {
			return nil, err
		}
		return &value.Num{N: r}, nil
	default:
		return nil, scripterr.New(scripterr.InternalError, "unknown numeric operator %q", op)
	}
}

func bitwiseOrLogical(op string, a, b value.Value) (value.Value, error) {
	if ba, oka := value.AsBool(a); oka {
		if bb, okb := value.AsBool(b); okb {
			switch op {
			case "&":
				return &value.Bool{B: ba && bb}, nil
			case "|":
				return &value.Bool{B: ba || bb}, nil
			case "^":
				return &value.Bool{B: ba != bb}, nil
			}
		}
	}
	na, ok1 := value.AsNum(a)
	nb, ok2 := value.AsNum(b)
	if !ok1 || !ok2 {
		return nil, scripterr.New(scripterr.TypeMismatch, "%s requires two integers or two booleans, got %s and %s", op, a.Type(), b.Type())
	}
	var r numeric.NumVal
	var err error
	switch op {
	case "&":
		r, err = numeric.And(na, nb)
	case "|":
		r, err = numeric.Or(na, nb)
	case "^":
		r, err = numeric.Xor(na, nb)
	case "<<":
		r, err = numeric.Shl(na, nb)
	case ">>":
		r, err = numeric.Shr(na, nb)
	case ">>>":
		r, err = numeric.ShrArithmetic(na, nb)
	}
	if err != nil {
		return nil, err
	}
	return &value.Num{N: r}, nil
}

func compareValues(op string, a, b value.Value) (value.Value, error) {
	if op == "==" || op == "!=" {
		eq := valuesEqual(a, b)
		if op == "!=" {
			eq = !eq
		}
		return &value.Bool{B: eq}, nil
	}
	if na, ok1 := value.AsNum(a); ok1 {
		if nb, ok2 := value.AsNum(b); ok2 {
			return &value.Bool{B: orderBool(op, numeric.Compare(na, nb))}, nil
		}
	}
	if sa, ok1 := value.AsStr(a); ok1 {
		if sb, ok2 := value.AsStr(b); ok2 {
			return &value.Bool{B: orderBool(op, strings.Compare(sa, sb))}, nil
		}
	}
	return nil, scripterr.New(scripterr.TypeError, "%s requires two numbers or two strings, got %s and %s", op, a.Type(), b.Type())
}

func orderBool(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	default:
		return false
	}
}

func valuesEqual(a, b value.Value) bool {
	switch av := a.(type) {
	case *value.Num:
		bv, ok := b.(*value.Num)
		return ok && numeric.Compare(av.N, bv.N) == 0
	case *value.Str:
		bv, ok := b.(*value.Str)
		return ok && av.S == bv.S
	case *value.Bool:
		bv, ok := b.(*value.Bool)
		return ok && av.B == bv.B
	case *value.Null:
		_, ok := b.(*value.Null)
		return ok
	default:
		return false
	}
}

// applyDelta applies a pre/post ± step to cur (an unbound or Null slot reads
// as 0), returning (newValue, oldValue).
func applyDelta(cur value.Value, delta int) (value.Value, value.Value, error) {
	cur = value.Deref(cur)
	var n numeric.NumVal
	switch v := cur.(type) {
	case *value.Num:
		n = v.N
	case *value.Null:
		n = numeric.IntFromInt64(0)
	default:
		return nil, nil, scripterr.New(scripterr.TypeError, "++/-- requires a numeric operand, got %s", cur.Type())
	}
	newN := numeric.Add(n, numeric.IntFromInt64(int64(delta)))
	return &value.Num{N: newN}, &value.Num{N: n}, nil
}

func requireIndex(v value.Value) (int64, error) {
	v = value.Deref(v)
	n, ok := value.AsNum(v)
	if !ok || !n.IsInt() {
		return 0, scripterr.New(scripterr.TypeError, "array index must be an integer, got %s", v.Type())
	}
	bi := n.BigInt()
	if !bi.IsInt64() {
		return 0, scripterr.New(scripterr.TypeError, "array index %s out of range", bi.String())
	}
	return bi.Int64(), nil
}

func (e *Evaluator) arrayFor(name string) (*value.Array, error) {
	v, ok := e.Env.Get(name)
	if !ok || value.IsNull(v) {
		arr := value.NewArray()
		e.Env.Set(name, arr)
		return arr, nil
	}
	arr, ok := v.(*value.Array)
	if !ok {
		return nil, scripterr.New(scripterr.TypeError, "%s is not an array", name)
	}
	return arr, nil
}

func wrapErr(err error, line int, expr string) error {
	if se, ok := err.(*scripterr.ScriptError); ok {
		return se.WithLocation(line, expr)
	}
	return scripterr.New(scripterr.InternalError, "%v", err).WithLocation(line, expr)
}
