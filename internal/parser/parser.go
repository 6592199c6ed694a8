// Package parser implements StepScript's shunting-yard infix-to-postfix
// conversion (spec.md §4.3): grouping, indexing, function calls, comma
// argument separators, left-associative operator precedence, and the
// post-pass that fuses a trailing "++"/"--" onto the lvalue token it
// follows.
package parser

import (
	"github.com/cwbudde/stepscript/internal/lexer"

	scripterr "github.com/cwbudde/stepscript/internal/errors"
)

// ToPostfix converts a tokenized expression (as produced by lexer.Tokenize,
// including its leading ExprTag) into postfix order. The ExprTag is carried
// through unchanged as output[0], so for a simple "name = expr" statement,
// output[1] is the assignment target token (spec.md §4.4, §9 — scalar
// assignment-target recovery). For "name[idx] = expr" the index operand
// comes before the ArrayHead, so output[1] is not the target; the evaluator
// writes through the LValue the ArrayHead produces instead.
func ToPostfix(toks []lexer.Token) ([]lexer.Token, error) {
	if len(toks) == 0 || toks[0].Kind != lexer.ExprTag {
		return nil, scripterr.New(scripterr.InternalError, "token stream missing expression tag")
	}
	exprText := toks[0].Text

	out := []lexer.Token{toks[0]}
	var opStack []lexer.Token

	// expectOperand tracks whether the next "-"/"+"/"!" should be read as a
	// unary prefix operator (true) or a binary operator (false); mirrors
	// the lexer's own value-like lookback used for numeric sign folding,
	// generalized here to non-literal operands (e.g. "-ii").
	expectOperand := true

	fail := func(format string, args ...any) error {
		return scripterr.New(scripterr.SyntaxError, format, args...).WithLocation(0, exprText)
	}

	popToOutput := func() {
		n := len(opStack)
		out = append(out, opStack[n-1])
		opStack = opStack[:n-1]
	}

	isIncDec := func(t lexer.Token) bool {
		return t.Kind == lexer.Operator && (t.Text == "++" || t.Text == "--")
	}
	deltaOf := func(t lexer.Token) int {
		if t.Text == "++" {
			return 1
		}
		return -1
	}

	// argFrames tracks, per open call/index bracket, how many commas were
	// seen and whether any argument token appeared at all, so a FuncHead's
	// argument count can be recovered when its ")" closes (spec.md §4.4
	// leaves function dispatch arity to the parser, since the postfix
	// vector alone carries no argument-count marker).
	type argFrame struct {
		commas int
		saw    bool
	}
	var argFrames []*argFrame

	i := 1
	for i < len(toks) {
		t := toks[i]

		if len(argFrames) > 0 && t.Kind != lexer.Comma && !(t.Kind == lexer.Operator && t.Text == ")") {
			argFrames[len(argFrames)-1].saw = true
		}

		switch t.Kind {
		case lexer.Literal, lexer.StringLit:
			out = append(out, t)
			expectOperand = false
			i++

		case lexer.Variable:
			if i+1 < len(toks) && isIncDec(toks[i+1]) {
				t.Marker = lexer.PostMarker
				t.Delta = deltaOf(toks[i+1])
				i++ // consume the ++/-- as well
			}
			out = append(out, t)
			expectOperand = false
			i++

		case lexer.FuncHead, lexer.ArrayHead:
			opStack = append(opStack, t)
			expectOperand = true
			i++

		case lexer.Comma:
			for len(opStack) > 0 && !isOpener(opStack[len(opStack)-1]) {
				popToOutput()
			}
			if len(opStack) == 0 {
				return nil, fail("comma outside any grouping, call, or index")
			}
			if len(argFrames) > 0 {
				argFrames[len(argFrames)-1].commas++
			}
			expectOperand = true
			i++

		case lexer.Operator:
			switch t.Text {
			case "(":
				opStack = append(opStack, t)
				argFrames = append(argFrames, &argFrame{})
				expectOperand = true
				i++

			case ")":
				for len(opStack) > 0 && opStack[len(opStack)-1].Text != "(" {
					popToOutput()
				}
				if len(opStack) == 0 {
					return nil, fail("unbalanced ')'")
				}
				opStack = opStack[:len(opStack)-1] // discard "("
				argCount := 0
				if len(argFrames) > 0 {
					f := argFrames[len(argFrames)-1]
					argFrames = argFrames[:len(argFrames)-1]
					if f.saw {
						argCount = f.commas + 1
					}
				}
				if len(opStack) > 0 && opStack[len(opStack)-1].Kind == lexer.FuncHead {
					opStack[len(opStack)-1].ArgCount = argCount
					popToOutput() // realize the call
				}
				expectOperand = false
				i++

			case "[":
				opStack = append(opStack, t)
				argFrames = append(argFrames, &argFrame{})
				expectOperand = true
				i++

			case "]":
				for len(opStack) > 0 && opStack[len(opStack)-1].Text != "[" {
					popToOutput()
				}
				if len(opStack) == 0 {
					return nil, fail("unbalanced ']'")
				}
				opStack = opStack[:len(opStack)-1] // discard "["
				if len(argFrames) > 0 {
					argFrames = argFrames[:len(argFrames)-1]
				}
				if len(opStack) == 0 || opStack[len(opStack)-1].Kind != lexer.ArrayHead {
					return nil, fail("']' without a preceding array-head")
				}
				head := opStack[len(opStack)-1]
				opStack = opStack[:len(opStack)-1]
				if i+1 < len(toks) && isIncDec(toks[i+1]) {
					head.Marker = lexer.PostMarker
					head.Delta = deltaOf(toks[i+1])
					i++
				}
				out = append(out, head)
				expectOperand = false
				i++

			case "!":
				pushOperatorWithPrecedence(&opStack, &out, lexer.Token{Kind: lexer.Operator, Text: "!", Precedence: 8})
				expectOperand = true
				i++

			case "-", "+":
				if expectOperand {
					if t.Text == "-" {
						pushOperatorWithPrecedence(&opStack, &out, lexer.Token{Kind: lexer.Operator, Text: "unary-", Precedence: 8})
					}
					// unary "+" is a no-op: "+x" == "x".
					expectOperand = true
					i++
					continue
				}
				pushOperatorWithPrecedence(&opStack, &out, t)
				expectOperand = true
				i++

			default:
				pushOperatorWithPrecedence(&opStack, &out, t)
				expectOperand = true
				i++
			}

		default:
			return nil, fail("unexpected token %q", t.Text)
		}
	}

	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		if top.Text == "(" || top.Text == "[" {
			return nil, fail("unbalanced %q", top.Text)
		}
		out = append(out, top)
	}

	return out, nil
}

func isOpener(t lexer.Token) bool {
	return t.Kind == lexer.Operator && (t.Text == "(" || t.Text == "[")
}

// pushOperatorWithPrecedence implements the precedence-popping rule from
// spec.md §4.3, resolved to use ">=" rather than the spec's literal
// "strictly greater" (see DESIGN.md): popping only on strictly-greater
// precedence would make chains of equal-precedence left-associative
// operators (e.g. "1 - 2 - 3") associate to the right, contradicting the
// same section's explicit "All binary operators are left-associative".
func pushOperatorWithPrecedence(opStack *[]lexer.Token, out *[]lexer.Token, t lexer.Token) {
	stack := *opStack
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.Kind != lexer.Operator || isOpener(top) {
			break
		}
		if top.Precedence < t.Precedence {
			break
		}
		*out = append(*out, top)
		stack = stack[:len(stack)-1]
	}
	stack = append(stack, t)
	*opStack = stack
}
