// Package numeric implements NumVal, StepScript's unified arbitrary-precision
// number (spec.md §3, §4.1). A NumVal is either an Int, backed by
// math/big.Int the way robpike.io/ivy's value.BigInt wraps *big.Int for
// exact-precision APL arithmetic, or a Dec, backed by
// github.com/shopspring/decimal the way the gval decimal-arithmetic language
// (other_examples/8099c542_Nandagopi-gval__gval.go.go) wires that library
// into an infix evaluator's decimal mode.
package numeric

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	scripterr "github.com/cwbudde/stepscript/internal/errors"
)

// decimalPrecision is the division/power precision used for Dec arithmetic,
// matching spec.md's "34-digit decimal context" (decimal128-equivalent).
const decimalPrecision = 34

func init() {
	decimal.DivisionPrecision = decimalPrecision
}

// Kind distinguishes the two NumVal variants.
type Kind int

const (
	// KindInt is an arbitrary-precision integer.
	KindInt Kind = iota
	// KindDec is an arbitrary-precision decimal.
	KindDec
)

// NumVal is StepScript's unified number type. Exactly one of i/d is
// meaningful, selected by Kind; this mirrors the BigFloat-wraps-big.Float
// pattern in robpike-ivy/value/bigfloat.go, generalized to a two-variant sum.
type NumVal struct {
	kind Kind
	i    *big.Int
	d    decimal.Decimal
}

// Int builds an integer NumVal from a *big.Int.
func Int(v *big.Int) NumVal { return NumVal{kind: KindInt, i: v} }

// IntFromInt64 builds an integer NumVal from a native int64.
func IntFromInt64(v int64) NumVal { return NumVal{kind: KindInt, i: big.NewInt(v)} }

// Dec builds a decimal NumVal from a decimal.Decimal.
func Dec(v decimal.Decimal) NumVal { return NumVal{kind: KindDec, d: v} }

// IsInt reports whether n holds the Int variant.
func (n NumVal) IsInt() bool { return n.kind == KindInt }

// IsDec reports whether n holds the Dec variant.
func (n NumVal) IsDec() bool { return n.kind == KindDec }

// BigInt returns the underlying *big.Int; only valid when IsInt().
func (n NumVal) BigInt() *big.Int { return n.i }

// AsDecimal returns n promoted to decimal.Decimal regardless of variant,
// used internally whenever a binary op needs both operands in the same
// representation.
func (n NumVal) AsDecimal() decimal.Decimal {
	if n.kind == KindDec {
		return n.d
	}
	return decimal.NewFromBigInt(n.i, 0)
}

// Parse constructs a NumVal from a numeric literal per spec.md §4.1/§4.2:
// a "."-containing literal is Dec; a "0x"-prefixed literal is hex Int;
// anything else is decimal Int.
func Parse(literal string) (NumVal, error) {
	lit := strings.TrimSpace(literal)
	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		v, ok := new(big.Int).SetString(lit[2:], 16)
		if !ok {
			return NumVal{}, scripterr.New(scripterr.SyntaxError, "malformed hex literal %q", literal)
		}
		return Int(v), nil
	case strings.Contains(lit, "."):
		d, err := decimal.NewFromString(lit)
		if err != nil {
			return NumVal{}, scripterr.New(scripterr.SyntaxError, "malformed decimal literal %q", literal)
		}
		return Dec(d), nil
	default:
		v, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return NumVal{}, scripterr.New(scripterr.SyntaxError, "malformed integer literal %q", literal)
		}
		return Int(v), nil
	}
}

// String renders n in its canonical exact decimal form (spec.md §4.4: used
// when a number is coerced into a string for concatenation).
func (n NumVal) String() string {
	if n.kind == KindInt {
		return n.i.String()
	}
	return n.d.String()
}

// promoteDec returns a and b both as decimal.Decimal, whatever their
// variants; callers use it only after bothInt has ruled out the Int-Int case.
func promoteDec(a, b NumVal) (decimal.Decimal, decimal.Decimal) {
	return a.AsDecimal(), b.AsDecimal()
}

func bothInt(a, b NumVal) bool { return a.kind == KindInt && b.kind == KindInt }

// Add implements + (spec.md §4.1: Int+Int stays Int; any Dec operand lifts
// the result to Dec).
func Add(a, b NumVal) NumVal {
	if bothInt(a, b) {
		return Int(new(big.Int).Add(a.i, b.i))
	}
	x, y := promoteDec(a, b)
	return Dec(x.Add(y))
}

// Sub implements -.
func Sub(a, b NumVal) NumVal {
	if bothInt(a, b) {
		return Int(new(big.Int).Sub(a.i, b.i))
	}
	x, y := promoteDec(a, b)
	return Dec(x.Sub(y))
}

// Mul implements *.
func Mul(a, b NumVal) NumVal {
	if bothInt(a, b) {
		return Int(new(big.Int).Mul(a.i, b.i))
	}
	x, y := promoteDec(a, b)
	return Dec(x.Mul(y))
}

// Div implements / (spec.md §4.1: integer÷integer truncates toward zero and
// stays Int; any Dec operand uses the 34-digit decimal context and returns
// Dec).
func Div(a, b NumVal) (NumVal, error) {
	if bothInt(a, b) {
		if b.i.Sign() == 0 {
			return NumVal{}, scripterr.New(scripterr.InternalError, "division by zero")
		}
		return Int(new(big.Int).Quo(a.i, b.i)), nil
	}
	x, y := promoteDec(a, b)
	if y.IsZero() {
		return NumVal{}, scripterr.New(scripterr.InternalError, "division by zero")
	}
	return Dec(x.DivRound(y, decimalPrecision)), nil
}

// Mod implements % (spec.md §4.4: integer-only).
func Mod(a, b NumVal) (NumVal, error) {
	if !bothInt(a, b) {
		return NumVal{}, scripterr.New(scripterr.TypeMismatch, "%% requires two integer operands")
	}
	if b.i.Sign() == 0 {
		return NumVal{}, scripterr.New(scripterr.InternalError, "modulo by zero")
	}
	return Int(new(big.Int).Rem(a.i, b.i)), nil
}

// Pow implements pow(base, exp): exp must be Int; the result is Dec iff
// base is Dec (spec.md §4.1).
func Pow(base, exp NumVal) (NumVal, error) {
	if !exp.IsInt() {
		return NumVal{}, scripterr.New(scripterr.TypeError, "pow exponent must be an integer")
	}
	if base.IsInt() {
		if exp.i.Sign() < 0 {
			return NumVal{}, scripterr.New(scripterr.TypeError, "pow with negative exponent requires a decimal base")
		}
		return Int(new(big.Int).Exp(base.i, exp.i, nil)), nil
	}
	if !exp.i.IsInt64() {
		return NumVal{}, scripterr.New(scripterr.TypeError, "pow exponent out of range")
	}
	return Dec(base.d.Pow(decimal.NewFromInt(exp.i.Int64()))), nil
}

// Neg implements unary -.
func Neg(a NumVal) NumVal {
	if a.IsInt() {
		return Int(new(big.Int).Neg(a.i))
	}
	return Dec(a.d.Neg())
}

// bitwise requires both operands Int, per spec.md §4.1.
func bitwise(op string, a, b NumVal) error {
	if !bothInt(a, b) {
		return scripterr.New(scripterr.TypeMismatch, "%s requires two integer operands", op)
	}
	return nil
}

// And implements bitwise &.
func And(a, b NumVal) (NumVal, error) {
	if err := bitwise("&", a, b); err != nil {
		return NumVal{}, err
	}
	return Int(new(big.Int).And(a.i, b.i)), nil
}

// Or implements bitwise |.
func Or(a, b NumVal) (NumVal, error) {
	if err := bitwise("|", a, b); err != nil {
		return NumVal{}, err
	}
	return Int(new(big.Int).Or(a.i, b.i)), nil
}

// Xor implements bitwise ^.
func Xor(a, b NumVal) (NumVal, error) {
	if err := bitwise("^", a, b); err != nil {
		return NumVal{}, err
	}
	return Int(new(big.Int).Xor(a.i, b.i)), nil
}

// Not implements bitwise ~ (unary).
func Not(a NumVal) (NumVal, error) {
	if !a.IsInt() {
		return NumVal{}, scripterr.New(scripterr.TypeMismatch, "~ requires an integer operand")
	}
	return Int(new(big.Int).Not(a.i)), nil
}

// Shl implements <<.
func Shl(a, b NumVal) (NumVal, error) {
	if err := bitwise("<<", a, b); err != nil {
		return NumVal{}, err
	}
	return Int(new(big.Int).Lsh(a.i, uint(b.i.Uint64()))), nil
}

// Shr implements >>: divide-by-power-of-two with truncation toward zero
// (spec.md §4.1), so it diverges from ShrArithmetic for negative operands,
// e.g. -7 >> 1 == -3.
func Shr(a, b NumVal) (NumVal, error) {
	if err := bitwise(">>", a, b); err != nil {
		return NumVal{}, err
	}
	divisor := new(big.Int).Lsh(big.NewInt(1), uint(b.i.Uint64()))
	return Int(new(big.Int).Quo(a.i, divisor)), nil
}

// ShrArithmetic implements >>>. spec.md §9 documents this as a quirk: the
// "unsigned right shift" spelling is actually a floor/arithmetic shift
// (big.Int.Rsh is already arithmetic for its two's complement
// representation), which diverges from Shr for negative operands, e.g.
// -7 >>> 1 == -4.
func ShrArithmetic(a, b NumVal) (NumVal, error) {
	if err := bitwise(">>>", a, b); err != nil {
		return NumVal{}, err
	}
	return Int(new(big.Int).Rsh(a.i, uint(b.i.Uint64()))), nil
}

// Compare implements scale-invariant, cross-variant-aware ordering
// (spec.md §3, §4.1): 2.000 compares equal to 2 and to 2.0.
func Compare(a, b NumVal) int {
	if bothInt(a, b) {
		return a.i.Cmp(b.i)
	}
	x, y := promoteDec(a, b)
	return x.Cmp(y)
}

// Trunc implements trunc(v, n) (spec.md §4.7): n==0 floors to Int; n>0
// rounds half-up to n decimal places and returns Dec.
func Trunc(v NumVal, n int) NumVal {
	d := v.AsDecimal()
	if n == 0 {
		return Int(d.Floor().BigInt())
	}
	return Dec(d.Round(int32(n)))
}

// Radix implements radix(v, r) (spec.md §4.7): v must be Int; renders in
// uppercase base r.
func Radix(v NumVal, r int) (string, error) {
	if !v.IsInt() {
		return "", scripterr.New(scripterr.TypeMismatch, "radix requires an integer value")
	}
	if r < 2 || r > 36 {
		return "", scripterr.New(scripterr.TypeError, "radix base must be between 2 and 36, got %d", r)
	}
	return strings.ToUpper(v.i.Text(r)), nil
}

// fmtInt64 is a small helper used by the bit-manipulation builtins, which
// operate on machine-width bit positions even though the underlying value
// is arbitrary precision.
func fmtInt64(n NumVal) (int64, error) {
	if !n.IsInt() {
		return 0, scripterr.New(scripterr.TypeMismatch, "expected an integer operand")
	}
	if !n.i.IsInt64() {
		return 0, scripterr.New(scripterr.TypeError, "integer value %s out of 64-bit range for this operation", n.i.String())
	}
	return n.i.Int64(), nil
}

// Bit implements bit(v, b): tests bit b of integer v.
func Bit(v NumVal, b NumVal) (bool, error) {
	vi, err := fmtInt64(v)
	if err != nil {
		return false, err
	}
	bi, err := fmtInt64(b)
	if err != nil {
		return false, err
	}
	if bi < 0 || bi > 63 {
		return false, scripterr.New(scripterr.TypeError, "bit index %d out of range", bi)
	}
	return vi&(1<<uint(bi)) != 0, nil
}

// SetBit implements set(v, b): sets bit b of integer v.
func SetBit(v, b NumVal) (NumVal, error) {
	vi, err := fmtInt64(v)
	if err != nil {
		return NumVal{}, err
	}
	bi, err := fmtInt64(b)
	if err != nil {
		return NumVal{}, err
	}
	return IntFromInt64(vi | (1 << uint(bi))), nil
}

// ClrBit implements clr(v, b): clears bit b of integer v.
func ClrBit(v, b NumVal) (NumVal, error) {
	vi, err := fmtInt64(v)
	if err != nil {
		return NumVal{}, err
	}
	bi, err := fmtInt64(b)
	if err != nil {
		return NumVal{}, err
	}
	return IntFromInt64(vi &^ (1 << uint(bi))), nil
}

// FlipBit implements flip(v, b): toggles bit b of integer v.
func FlipBit(v, b NumVal) (NumVal, error) {
	vi, err := fmtInt64(v)
	if err != nil {
		return NumVal{}, err
	}
	bi, err := fmtInt64(b)
	if err != nil {
		return NumVal{}, err
	}
	return IntFromInt64(vi ^ (1 << uint(bi))), nil
}

