package parser

import (
	"testing"

	"github.com/cwbudde/stepscript/internal/lexer"
)

func texts(toks []lexer.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

func mustPostfix(t *testing.T, expr string) []lexer.Token {
	t.Helper()
	toks, err := lexer.Tokenize(expr)
	if err != nil {
		t.Fatalf("tokenize(%q): %v", expr, err)
	}
	out, err := ToPostfix(toks)
	if err != nil {
		t.Fatalf("ToPostfix(%q): %v", expr, err)
	}
	return out
}

func assertTexts(t *testing.T, got []lexer.Token, want []string) {
	t.Helper()
	gs := texts(got)
	if len(gs) != len(want) {
		t.Fatalf("got %v, want %v", gs, want)
	}
	for i := range want {
		if gs[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q (full: %v)", i, gs[i], want[i], gs)
		}
	}
}

func TestToPostfixBasicPrecedence(t *testing.T) {
	out := mustPostfix(t, "1 + 2 * 3")
	// ExprTag, 1, 2, 3, *, +
	assertTexts(t, out, []string{"1 + 2 * 3", "1", "2", "3", "*", "+"})
}

func TestToPostfixLeftAssociativeChain(t *testing.T) {
	out := mustPostfix(t, "10 - 5 - 2")
	assertTexts(t, out, []string{"10 - 5 - 2", "10", "5", "-", "2", "-"})
}

func TestToPostfixGrouping(t *testing.T) {
	out := mustPostfix(t, "(1 + 2) * (3 + 4)")
	assertTexts(t, out, []string{"(1 + 2) * (3 + 4)", "1", "2", "+", "3", "4", "+", "*"})
}

func TestToPostfixFunctionCall(t *testing.T) {
	out := mustPostfix(t, "max(1, 2)")
	if out[1].Kind != lexer.Literal || out[1].Text != "1" {
		t.Errorf("out[1] = %+v", out[1])
	}
	if out[3].Kind != lexer.FuncHead || out[3].Text != "max" {
		t.Fatalf("last token should be FuncHead(max), got %+v", out[3])
	}
}

func TestToPostfixArrayIndex(t *testing.T) {
	out := mustPostfix(t, "a[1]")
	if out[1].Text != "1" {
		t.Errorf("out[1] = %+v, want index literal 1", out[1])
	}
	if out[2].Kind != lexer.ArrayHead || out[2].Text != "a" {
		t.Fatalf("out[2] should be ArrayHead(a), got %+v", out[2])
	}
}

func TestToPostfixAssignmentTargetAtPositionOne(t *testing.T) {
	out := mustPostfix(t, "x = 1 + 2")
	if out[1].Kind != lexer.Variable || out[1].Text != "x" {
		t.Fatalf("out[1] should be the assignment target variable, got %+v", out[1])
	}
	if out[len(out)-1].Text != "=" {
		t.Fatalf("last token should be '=', got %+v", out[len(out)-1])
	}
}

func TestToPostfixUnaryMinusOnVariable(t *testing.T) {
	out := mustPostfix(t, "-ii + 1")
	assertTexts(t, out, []string{"-ii + 1", "ii", "unary-", "1", "+"})
}

func TestToPostfixUnaryPlusIsDropped(t *testing.T) {
	out := mustPostfix(t, "+ii")
	assertTexts(t, out, []string{"+ii", "ii"})
}

func TestToPostfixPostIncrementOnVariable(t *testing.T) {
	out := mustPostfix(t, "ii++ + 1")
	if out[1].Kind != lexer.Variable || out[1].Marker != lexer.PostMarker || out[1].Delta != 1 {
		t.Fatalf("out[1] should be post-incremented ii, got %+v", out[1])
	}
}

func TestToPostfixPostIncrementOnArraySlot(t *testing.T) {
	out := mustPostfix(t, "a[1]++ + 1")
	if out[2].Kind != lexer.ArrayHead || out[2].Marker != lexer.PostMarker || out[2].Delta != 1 {
		t.Fatalf("out[2] should be post-incremented array-head a, got %+v", out[2])
	}
}

func TestToPostfixUnbalancedParenIsError(t *testing.T) {
	toks, err := lexer.Tokenize("(1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ToPostfix(toks); err == nil {
		t.Fatal("expected unbalanced grouping error, got nil")
	}
}

func TestToPostfixFunctionArgCount(t *testing.T) {
	out := mustPostfix(t, "max(1, 2, 3)")
	last := out[len(out)-1]
	if last.Kind != lexer.FuncHead || last.ArgCount != 3 {
		t.Fatalf("last token = %+v, want FuncHead(max) with ArgCount 3", last)
	}
}

func TestToPostfixZeroArgFunctionCall(t *testing.T) {
	out := mustPostfix(t, "now()")
	last := out[len(out)-1]
	if last.Kind != lexer.FuncHead || last.ArgCount != 0 {
		t.Fatalf("last token = %+v, want FuncHead(now) with ArgCount 0", last)
	}
}

func TestToPostfixCommaInsideCall(t *testing.T) {
	out := mustPostfix(t, "max(a, b, c)")
	want := []string{"max(a, b, c)", "a", "b", "c", "max"}
	assertTexts(t, out, want)
}
