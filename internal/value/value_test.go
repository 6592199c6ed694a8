package value

import (
	"testing"

	"github.com/cwbudde/stepscript/internal/numeric"
)

func TestArrayAbsentIndexReadsNull(t *testing.T) {
	a := NewArray()
	if !IsNull(a.Get(7)) {
		t.Errorf("absent array index should read Null")
	}
	a.Set(7, &Str{S: "seven"})
	if got, ok := AsStr(a.Get(7)); !ok || got != "seven" {
		t.Errorf("a[7] = %v, want Str(seven)", a.Get(7))
	}
}

func TestLValueArraySlotWriteBack(t *testing.T) {
	arr := NewArray()
	n, _ := numeric.Parse("1")
	arr.Set(1, &Num{N: n})

	lv := NewArrayLValue(arr, 1)
	got, _ := AsNum(lv.Get())
	if got.String() != "1" {
		t.Fatalf("lv.Get() = %v, want 1", got)
	}

	two, _ := numeric.Parse("2")
	lv.Set(&Num{N: two})
	if got := arr.Get(1); got.String() != "2" {
		t.Errorf("after lv.Set, arr[1] = %v, want 2", got)
	}
}

func TestDerefCollapsesLValue(t *testing.T) {
	env := NewEnvironment()
	env.Set("x", &Bool{B: true})
	lv := NewScalarLValue(env, "x")

	deref := Deref(lv)
	if b, ok := deref.(*Bool); !ok || !b.B {
		t.Errorf("Deref(lv) = %v, want Bool(true)", deref)
	}
}

func TestEnvironmentBlockPropagation(t *testing.T) {
	outer := NewEnvironment()
	outer.Set("ii", &Str{S: "outer"})

	inner := outer.Clone()
	inner.Set("ii", &Str{S: "mutated"})
	inner.Set("onlyInner", &Str{S: "leaked?"})

	outer.ReconcileFrom(inner)

	if v, _ := outer.Get("ii"); v.String() != "mutated" {
		t.Errorf("ii should propagate out of the block, got %v", v)
	}
	if _, ok := outer.Get("onlyInner"); ok {
		t.Errorf("onlyInner should not leak out of the block")
	}
}

func TestRequireBoolRejectsNonBool(t *testing.T) {
	if _, err := RequireBool(&Str{S: "x"}); err == nil {
		t.Errorf("expected TypeError for non-bool condition")
	}
}
