package lexer

import "testing"

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeBasicArithmetic(t *testing.T) {
	toks, err := Tokenize("1 + 2 * 3")
	if err != nil {
		t.Fatal(err)
	}
	want := []Kind{ExprTag, Literal, Operator, Literal, Operator, Literal}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), toks)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d].Kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeFunctionAndArrayHeads(t *testing.T) {
	toks, err := Tokenize("max(a[1], 2)")
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Kind != FuncHead || toks[1].Text != "max" {
		t.Errorf("toks[1] = %+v, want FuncHead(max)", toks[1])
	}
	// toks[2] is the "(" that follows the function head.
	if toks[3].Kind != ArrayHead || toks[3].Text != "a" {
		t.Errorf("toks[3] = %+v, want ArrayHead(a)", toks[3])
	}
}

func TestTokenizeHexAndDecimalLiterals(t *testing.T) {
	toks, err := Tokenize("0x1A + 3.5")
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Text != "0x1A" {
		t.Errorf("toks[1].Text = %q, want 0x1A", toks[1].Text)
	}
	if toks[3].Text != "3.5" {
		t.Errorf("toks[3].Text = %q, want 3.5", toks[3].Text)
	}
}

func TestTokenizeStringLiteralEitherQuote(t *testing.T) {
	toks, err := Tokenize(`"hello" + 'world'`)
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Kind != StringLit || toks[1].Text != "hello" {
		t.Errorf("toks[1] = %+v, want StringLit(hello)", toks[1])
	}
	if toks[3].Kind != StringLit || toks[3].Text != "world" {
		t.Errorf("toks[3] = %+v, want StringLit(world)", toks[3])
	}
}

func TestTokenizeShortCircuitGatesAreInserted(t *testing.T) {
	toks, err := Tokenize("a && b")
	if err != nil {
		t.Fatal(err)
	}
	// ExprTag, a, gate-sentinel, &&, b
	if len(toks) != 5 {
		t.Fatalf("got %d tokens, want 5: %+v", len(toks), toks)
	}
	if !toks[2].IsGate() || !toks[2].GateIsAnd() {
		t.Errorf("toks[2] = %+v, want && gate sentinel", toks[2])
	}
	if toks[2].GateID != toks[3].GateID || toks[3].Text != "&&" {
		t.Errorf("gate sentinel and && operator must share a GateID: %+v, %+v", toks[2], toks[3])
	}
}

func TestTokenizeSignFoldingAfterOperator(t *testing.T) {
	toks, err := Tokenize("2+-3")
	if err != nil {
		t.Fatal(err)
	}
	// ExprTag, 2, +, -3 (folded)
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(toks), toks)
	}
	if toks[3].Kind != Literal || toks[3].Text != "-3" {
		t.Errorf("toks[3] = %+v, want folded literal -3", toks[3])
	}
}

func TestTokenizeSignNotFoldedAfterValue(t *testing.T) {
	toks, err := Tokenize("5-3")
	if err != nil {
		t.Fatal(err)
	}
	// ExprTag, 5, -, 3 (binary, not folded, since '-' directly follows a value)
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(toks), toks)
	}
	if toks[2].Kind != Operator || toks[2].Text != "-" {
		t.Errorf("toks[2] = %+v, want binary - operator", toks[2])
	}
	if toks[3].Text != "3" {
		t.Errorf("toks[3] = %+v, want literal 3", toks[3])
	}
}

func TestTokenizePreIncrementMarksVariable(t *testing.T) {
	toks, err := Tokenize("++ii + 1")
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Kind != Variable || toks[1].Marker != PreMarker || toks[1].Delta != 1 {
		t.Errorf("toks[1] = %+v, want pre-incremented variable ii", toks[1])
	}
}

func TestTokenizeGreedyMultiCharOperators(t *testing.T) {
	toks, err := Tokenize("a >>> b >= c")
	if err != nil {
		t.Fatal(err)
	}
	if toks[2].Text != ">>>" {
		t.Errorf("toks[2].Text = %q, want >>>", toks[2].Text)
	}
	if toks[4].Text != ">=" {
		t.Errorf("toks[4].Text = %q, want >=", toks[4].Text)
	}
}
