// Package builtins implements StepScript's built-in functions (spec.md
// §4.7): max, min, abs, pow, trunc, radix, bit, set, clr, flip, millis.
// Each is a thin wrapper over internal/numeric's arithmetic, following
// go-dws's one-function-per-builtin style
// (_examples/CWBudde-go-dws/internal/interp/builtins_math_basic.go) but
// returning (value.Value, error) instead of folding the error into the
// return value.
package builtins

import (
	"time"

	scripterr "github.com/cwbudde/stepscript/internal/errors"
	"github.com/cwbudde/stepscript/internal/numeric"
	"github.com/cwbudde/stepscript/internal/value"
)

// Func is the signature every built-in function implements.
type Func func(args []value.Value) (value.Value, error)

// Table maps a built-in's lowercase name to its implementation.
var Table = map[string]Func{
	"max":    builtinMax,
	"min":    builtinMin,
	"abs":    builtinAbs,
	"pow":    builtinPow,
	"trunc":  builtinTrunc,
	"radix":  builtinRadix,
	"bit":    builtinBit,
	"set":    builtinSet,
	"clr":    builtinClr,
	"flip":   builtinFlip,
	"millis": builtinMillis,
}

// Lookup reports whether name is a known built-in and returns its Func.
func Lookup(name string) (Func, bool) {
	fn, ok := Table[name]
	return fn, ok
}

func requireArgCount(name string, args []value.Value, n int) error {
	if len(args) != n {
		return scripterr.New(scripterr.TypeError, "%s() expects exactly %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func requireNum(name string, args []value.Value, i int) (numeric.NumVal, error) {
	n, ok := value.AsNum(args[i])
	if !ok {
		return numeric.NumVal{}, scripterr.New(scripterr.TypeError, "%s() expects a numeric argument, got %s", name, value.Deref(args[i]).Type())
	}
	return n, nil
}

func requireInt(name string, args []value.Value, i int) (int, error) {
	n, err := requireNum(name, args, i)
	if err != nil {
		return 0, err
	}
	if !n.IsInt() {
		return 0, scripterr.New(scripterr.TypeMismatch, "%s() expects an integer argument, got a decimal", name)
	}
	if !n.BigInt().IsInt64() {
		return 0, scripterr.New(scripterr.TypeError, "%s() argument %s out of range", name, n.String())
	}
	return int(n.BigInt().Int64()), nil
}

// builtinMax implements max(a, b): the larger of two numbers, auto-promoting
// Int/Dec per numeric.Compare.
func builtinMax(args []value.Value) (value.Value, error) {
	if err := requireArgCount("max", args, 2); err != nil {
		return nil, err
	}
	a, err := requireNum("max", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := requireNum("max", args, 1)
	if err != nil {
		return nil, err
	}
	if numeric.Compare(a, b) >= 0 {
		return &value.Num{N: a}, nil
	}
	return &value.Num{N: b}, nil
}

// builtinMin implements min(a, b): the smaller of two numbers.
func builtinMin(args []value.Value) (value.Value, error) {
	if err := requireArgCount("min", args, 2); err != nil {
		return nil, err
	}
	a, err := requireNum("min", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := requireNum("min", args, 1)
	if err != nil {
		return nil, err
	}
	if numeric.Compare(a, b) <= 0 {
		return &value.Num{N: a}, nil
	}
	return &value.Num{N: b}, nil
}

// builtinAbs implements abs(v): the absolute value, Int stays Int, Dec
// stays Dec.
func builtinAbs(args []value.Value) (value.Value, error) {
	if err := requireArgCount("abs", args, 1); err != nil {
		return nil, err
	}
	n, err := requireNum("abs", args, 0)
	if err != nil {
		return nil, err
	}
	if numeric.Compare(n, numeric.IntFromInt64(0)) < 0 {
		return &value.Num{N: numeric.Neg(n)}, nil
	}
	return &value.Num{N: n}, nil
}

// builtinPow implements pow(base, exp): exp must be an integer.
func builtinPow(args []value.Value) (value.Value, error) {
	if err := requireArgCount("pow", args, 2); err != nil {
		return nil, err
	}
	base, err := requireNum("pow", args, 0)
	if err != nil {
		return nil, err
	}
	exp, err := requireNum("pow", args, 1)
	if err != nil {
		return nil, err
	}
	result, err := numeric.Pow(base, exp)
	if err != nil {
		return nil, err
	}
	return &value.Num{N: result}, nil
}

// builtinTrunc implements trunc(v, n): n==0 floors to Int, n>0 rounds
// half-up to n decimal places and returns Dec.
func builtinTrunc(args []value.Value) (value.Value, error) {
	if err := requireArgCount("trunc", args, 2); err != nil {
		return nil, err
	}
	v, err := requireNum("trunc", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := requireInt("trunc", args, 1)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, scripterr.New(scripterr.TypeError, "trunc() decimal-place count must be non-negative, got %d", n)
	}
	return &value.Num{N: numeric.Trunc(v, n)}, nil
}

// builtinRadix implements radix(v, r): renders integer v in uppercase
// base r.
func builtinRadix(args []value.Value) (value.Value, error) {
	if err := requireArgCount("radix", args, 2); err != nil {
		return nil, err
	}
	v, err := requireNum("radix", args, 0)
	if err != nil {
		return nil, err
	}
	r, err := requireInt("radix", args, 1)
	if err != nil {
		return nil, err
	}
	s, err := numeric.Radix(v, r)
	if err != nil {
		return nil, err
	}
	return &value.Str{S: s}, nil
}

// builtinBit implements bit(v, b): tests bit b of integer v.
func builtinBit(args []value.Value) (value.Value, error) {
	if err := requireArgCount("bit", args, 2); err != nil {
		return nil, err
	}
	v, err := requireNum("bit", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := requireNum("bit", args, 1)
	if err != nil {
		return nil, err
	}
	set, err := numeric.Bit(v, b)
	if err != nil {
		return nil, err
	}
	return &value.Bool{B: set}, nil
}

// builtinSet implements set(v, b): sets bit b of integer v.
func builtinSet(args []value.Value) (value.Value, error) {
	if err := requireArgCount("set", args, 2); err != nil {
		return nil, err
	}
	v, err := requireNum("set", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := requireNum("set", args, 1)
	if err != nil {
		return nil, err
	}
	result, err := numeric.SetBit(v, b)
	if err != nil {
		return nil, err
	}
	return &value.Num{N: result}, nil
}

// builtinClr implements clr(v, b): clears bit b of integer v.
func builtinClr(args []value.Value) (value.Value, error) {
	if err := requireArgCount("clr", args, 2); err != nil {
		return nil, err
	}
	v, err := requireNum("clr", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := requireNum("clr", args, 1)
	if err != nil {
		return nil, err
	}
	result, err := numeric.ClrBit(v, b)
	if err != nil {
		return nil, err
	}
	return &value.Num{N: result}, nil
}

// builtinFlip implements flip(v, b): toggles bit b of integer v.
func builtinFlip(args []value.Value) (value.Value, error) {
	if err := requireArgCount("flip", args, 2); err != nil {
		return nil, err
	}
	v, err := requireNum("flip", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := requireNum("flip", args, 1)
	if err != nil {
		return nil, err
	}
	result, err := numeric.FlipBit(v, b)
	if err != nil {
		return nil, err
	}
	return &value.Num{N: result}, nil
}

// builtinMillis implements millis(): the current wall-clock time in
// milliseconds since the Unix epoch, as Int.
func builtinMillis(args []value.Value) (value.Value, error) {
	if err := requireArgCount("millis", args, 0); err != nil {
		return nil, err
	}
	return &value.Num{N: numeric.IntFromInt64(time.Now().UnixMilli())}, nil
}
