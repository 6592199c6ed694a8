package lexer

import (
	"strings"

	scripterr "github.com/cwbudde/stepscript/internal/errors"
)

// valueLike reports whether a previously emitted token could itself stand
// as a complete value, for the sign-folding rule in spec.md §4.2: a sign
// character directly prefixing digits folds into the literal unless the
// preceding token is a value or variable. Grouping closers additionally
// count as value-like here (the result of "(expr)" or "a[i]" is itself a
// value) so that e.g. "(1+2) - 3" still parses 3 as a binary subtraction.
func valueLike(t Token) bool {
	switch t.Kind {
	case Literal, StringLit, Variable:
		return true
	case Operator:
		return t.Text == ")" || t.Text == "]"
	default:
		return false
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9') || ch == '.' || ch == ':'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// Tokenize converts one source line's expression text into a token
// sequence, scanning left to right through the four informal states named
// in spec.md §4.2 (idle between tokens, reading a variable/identifier,
// reading a number, reading a string) without needing to thread an
// explicit state value through the loop below. The returned slice's first
// element is always the ExprTag token carrying the original
// (pre-normalization) text.
func Tokenize(line string) ([]Token, error) {
	original := line
	// Pre-step: both quoting styles open/close strings (spec.md §4.2).
	norm := strings.ReplaceAll(line, `"`, `'`)

	toks := []Token{{Kind: ExprTag, Text: original, Precedence: -1}}

	gateCounter := 0
	i := 0
	n := len(norm)

	last := func() (Token, bool) {
		if len(toks) <= 1 {
			return Token{}, false
		}
		return toks[len(toks)-1], true
	}

	emit := func(t Token) { toks = append(toks, t) }

	emitOperator := func(text string) {
		if text == "&&" || text == "||" {
			gateCounter++
			emit(Token{Kind: Operator, Text: gateSentinelText(text), Precedence: precedence(gateSentinelText(text)), GateID: gateCounter})
			emit(Token{Kind: Operator, Text: text, Precedence: precedence(text), GateID: gateCounter})
			return
		}
		emit(Token{Kind: Operator, Text: text, Precedence: precedence(text)})
	}

	for i < n {
		ch := norm[i]

		switch {
		case ch == ' ' || ch == '\t':
			i++

		case ch == '\'':
			j := i + 1
			for j < n && norm[j] != '\'' {
				j++
			}
			if j >= n {
				return nil, scripterr.New(scripterr.SyntaxError, "unterminated string literal").WithLocation(0, original)
			}
			emit(Token{Kind: StringLit, Text: norm[i+1 : j], Precedence: -1})
			i = j + 1

		case isDigit(ch):
			j := i
			isHex := ch == '0' && j+1 < n && (norm[j+1] == 'x' || norm[j+1] == 'X')
			if isHex {
				j += 2
				for j < n && isHexDigit(norm[j]) {
					j++
				}
			} else {
				for j < n && (isDigit(norm[j]) || norm[j] == '.') {
					j++
				}
			}
			emit(Token{Kind: Literal, Text: norm[i:j], Precedence: -1})
			i = j

		case (ch == '+' || ch == '-') && i+1 < n && isDigit(norm[i+1]) && !foldSuppressed(last):
			sign := string(ch)
			j := i + 1
			for j < n && (isDigit(norm[j]) || norm[j] == '.') {
				j++
			}
			emit(Token{Kind: Literal, Text: sign + norm[i+1:j], Precedence: -1})
			i = j

		case isIdentStart(ch):
			j := i
			for j < n && isIdentCont(norm[j]) {
				j++
			}
			name := norm[i:j]
			switch {
			case j < n && norm[j] == '(':
				emit(Token{Kind: FuncHead, Text: name, Precedence: -1})
			case j < n && norm[j] == '[':
				emit(Token{Kind: ArrayHead, Text: name, Precedence: -1})
			default:
				emit(Token{Kind: Variable, Text: name, Precedence: -1})
			}
			i = j

		case ch == ',':
			emit(Token{Kind: Comma, Text: ",", Precedence: -1})
			i++

		default:
			op, width, err := readOperator(norm[i:])
			if err != nil {
				return nil, err.WithLocation(0, original)
			}
			emitOperator(op)
			i += width
		}
	}

	toks = applyPreMarkers(toks)

	return toks, nil
}

// foldSuppressed reports whether the sign-folding rule should NOT apply,
// i.e. the previous token is value-like so a following "+"/"-" must stay a
// binary operator.
func foldSuppressed(last func() (Token, bool)) bool {
	t, ok := last()
	if !ok {
		return false
	}
	return valueLike(t)
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// multiCharOperators lists recognised multi-character operators, longest
// first within each starting character so greedy matching (spec.md §4.2)
// picks the longest valid token.
var multiCharOperators = []string{
	">>>", "==", "!=", "<=", ">=", "<<", ">>", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&&", "||",
}

var singleCharOperators = "+-*/%=<>!&|^~()[]"

// readOperator greedily matches the longest operator at the start of s.
func readOperator(s string) (string, int, *scripterr.ScriptError) {
	for _, op := range multiCharOperators {
		if strings.HasPrefix(s, op) {
			return op, len(op), nil
		}
	}
	if len(s) > 0 && strings.IndexByte(singleCharOperators, s[0]) >= 0 {
		return string(s[0]), 1, nil
	}
	ch := rune(0)
	if len(s) > 0 {
		ch = rune(s[0])
	}
	return "", 0, scripterr.New(scripterr.SyntaxError, "unexpected character %q", ch)
}

// applyPreMarkers implements the tokenizer pre-pass from spec.md §4.2: scan
// for "++"/"--" directly preceding a Variable or ArrayHead token, attach a
// pre-± marker to that lvalue token, and remove the operator token. The
// compaction happens in place (out's backing array is toks's own, and out
// never outruns the read cursor i), then the result is returned truncated.
func applyPreMarkers(toks []Token) []Token {
	out := toks[:1] // toks[0] is always the ExprTag
	for i := 1; i < len(toks); i++ {
		t := toks[i]
		if t.Kind == Operator && (t.Text == "++" || t.Text == "--") && i+1 < len(toks) {
			next := toks[i+1]
			if next.Kind == Variable || next.Kind == ArrayHead {
				delta := 1
				if t.Text == "--" {
					delta = -1
				}
				next.Marker = PreMarker
				next.Delta = delta
				out = append(out, next)
				i++ // consumed the lvalue token too
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
