package builtins

import (
	"testing"

	"github.com/cwbudde/stepscript/internal/numeric"
	"github.com/cwbudde/stepscript/internal/value"
)

func num(n int64) value.Value { return &value.Num{N: numeric.IntFromInt64(n)} }

func mustNum(t *testing.T, v value.Value, err error) numeric.NumVal {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := value.AsNum(v)
	if !ok {
		t.Fatalf("result %v is not a number", v)
	}
	return n
}

func TestMaxMin(t *testing.T) {
	fn, _ := Lookup("max")
	n := mustNum(t, fn([]value.Value{num(3), num(7)}))
	if n.String() != "7" {
		t.Errorf("max(3,7) = %s, want 7", n.String())
	}

	fn, _ = Lookup("min")
	n = mustNum(t, fn([]value.Value{num(3), num(7)}))
	if n.String() != "3" {
		t.Errorf("min(3,7) = %s, want 3", n.String())
	}
}

func TestAbs(t *testing.T) {
	fn, _ := Lookup("abs")
	n := mustNum(t, fn([]value.Value{num(-5)}))
	if n.String() != "5" {
		t.Errorf("abs(-5) = %s, want 5", n.String())
	}
	n = mustNum(t, fn([]value.Value{num(5)}))
	if n.String() != "5" {
		t.Errorf("abs(5) = %s, want 5", n.String())
	}
}

func TestPow(t *testing.T) {
	fn, _ := Lookup("pow")
	n := mustNum(t, fn([]value.Value{num(2), num(10)}))
	if n.String() != "1024" {
		t.Errorf("pow(2,10) = %s, want 1024", n.String())
	}
}

func TestPowRejectsNonIntegerExponent(t *testing.T) {
	fn, _ := Lookup("pow")
	_, err := fn([]value.Value{num(2), &value.Num{N: mustDec("1.5")}})
	if err == nil {
		t.Fatal("expected error for decimal exponent")
	}
}

func mustDec(s string) numeric.NumVal {
	n, err := numeric.Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

func TestTrunc(t *testing.T) {
	fn, _ := Lookup("trunc")
	v := &value.Num{N: mustDec("3.456")}
	n := mustNum(t, fn([]value.Value{v, num(0)}))
	if n.String() != "3" {
		t.Errorf("trunc(3.456,0) = %s, want 3", n.String())
	}
	n = mustNum(t, fn([]value.Value{v, num(2)}))
	if n.String() != "3.46" {
		t.Errorf("trunc(3.456,2) = %s, want 3.46", n.String())
	}
}

func TestRadix(t *testing.T) {
	fn, _ := Lookup("radix")
	result, err := fn([]value.Value{num(255), num(16)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := value.AsStr(result)
	if !ok || s != "FF" {
		t.Errorf("radix(255,16) = %v, want FF", result)
	}
}

func TestBitSetClrFlip(t *testing.T) {
	bit, _ := Lookup("bit")
	set, _ := Lookup("set")
	clr, _ := Lookup("clr")
	flip, _ := Lookup("flip")

	result, err := bit([]value.Value{num(0), num(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, ok := value.AsBool(result); !ok || b {
		t.Errorf("bit(0,0) = %v, want false", result)
	}

	n := mustNum(t, set([]value.Value{num(0), num(0)}))
	if n.String() != "1" {
		t.Errorf("set(0,0) = %s, want 1", n.String())
	}

	n = mustNum(t, clr([]value.Value{num(3), num(0)}))
	if n.String() != "2" {
		t.Errorf("clr(3,0) = %s, want 2", n.String())
	}

	n = mustNum(t, flip([]value.Value{num(2), num(0)}))
	if n.String() != "3" {
		t.Errorf("flip(2,0) = %s, want 3", n.String())
	}
}

func TestMillisReturnsInt(t *testing.T) {
	fn, _ := Lookup("millis")
	n := mustNum(t, fn(nil))
	if !n.IsInt() {
		t.Errorf("millis() did not return an Int")
	}
}

func TestArgCountErrors(t *testing.T) {
	fn, _ := Lookup("max")
	if _, err := fn([]value.Value{num(1)}); err == nil {
		t.Fatal("expected error for wrong argument count")
	}
}

func TestUnknownBuiltin(t *testing.T) {
	if _, ok := Lookup("nope"); ok {
		t.Fatal("expected Lookup to report unknown builtin as not found")
	}
}
