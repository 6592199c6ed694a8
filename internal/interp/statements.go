package interp

import (
	"strings"

	"github.com/cwbudde/stepscript/internal/block"
	scripterr "github.com/cwbudde/stepscript/internal/errors"
	"github.com/cwbudde/stepscript/internal/value"
)

// exec walks nodes sequentially against env (spec.md §4.6). It returns
// (value, true, nil) the moment a `return` is reached, so a caller that is
// itself a block body (if/while/for) can stop early and propagate the
// return upward without finishing its own remaining statements.
func (i *Interpreter) exec(nodes []*block.Node, env *value.Environment) (value.Value, bool, error) {
	idx := 0
	for idx < len(nodes) {
		node := nodes[idx]
		kw, rest := splitKeyword(node.Text)

		switch kw {
		case "if":
			rv, ret, consumed, err := i.execIf(nodes, idx, rest, env)
			if err != nil {
				return nil, false, err
			}
			if ret {
				return rv, true, nil
			}
			idx += consumed

		case "while":
			if err := i.emit(node.Line, env); err != nil {
				return nil, false, err
			}
			rv, ret, err := i.execWhile(node.Line, rest, node.Children, env)
			if err != nil {
				return nil, false, err
			}
			if ret {
				return rv, true, nil
			}
			idx++

		case "for":
			if err := i.emit(node.Line, env); err != nil {
				return nil, false, err
			}
			rv, ret, err := i.execFor(node.Line, rest, node.Children, env)
			if err != nil {
				return nil, false, err
			}
			if ret {
				return rv, true, nil
			}
			idx++

		case "function":
			if err := i.emit(node.Line, env); err != nil {
				return nil, false, err
			}
			i.traceLine(node.Line, "function")
			if err := i.registerFunction(rest, node.Children); err != nil {
				return nil, false, attachLocation(err, node.Line, node.Text)
			}
			idx++

		case "return":
			if err := i.emit(node.Line, env); err != nil {
				return nil, false, err
			}
			i.traceLine(node.Line, "return")
			if rest == "" {
				return value.NullValue, true, nil
			}
			v, err := i.evalExpr(rest, env, node.Line)
			if err != nil {
				return nil, false, err
			}
			return v, true, nil

		case "end":
			if err := i.emit(node.Line, env); err != nil {
				return nil, false, err
			}
			idx++

		case "elif", "else":
			return nil, false, scripterr.New(scripterr.SyntaxError, "%q without a preceding if", kw).WithLocation(node.Line, node.Text)

		default:
			if err := i.emit(node.Line, env); err != nil {
				return nil, false, err
			}
			i.traceLine(node.Line, firstWord(node.Text))
			if _, err := i.evalExpr(node.Text, env, node.Line); err != nil {
				return nil, false, err
			}
			if len(node.Children) > 0 {
				// A bare indented block attached to a non-control line runs
				// directly in the current environment (spec.md §4.6.3).
				rv, ret, err := i.exec(node.Children, env)
				if err != nil {
					return nil, false, err
				}
				if ret {
					return rv, true, nil
				}
			}
			idx++
		}
	}
	return value.NullValue, false, nil
}

// execIf evaluates an if/elif.../else chain starting at nodes[idx], which
// must be the "if" line. It returns how many sibling nodes (the if line
// plus any elif/else lines) it consumed, so the caller's index can skip
// past the whole chain.
func (i *Interpreter) execIf(nodes []*block.Node, idx int, condExpr string, env *value.Environment) (value.Value, bool, int, error) {
	node := nodes[idx]
	if err := i.emit(node.Line, env); err != nil {
		return nil, false, 0, err
	}
	i.traceLine(node.Line, "if")

	condVal, err := i.evalExpr(condExpr, env, node.Line)
	if err != nil {
		return nil, false, 0, err
	}
	taken, err := requireCond(condVal, node.Line, condExpr)
	if err != nil {
		return nil, false, 0, err
	}

	consumed := 1
	if taken {
		rv, ret, err := runBlock(i, node.Children, env)
		if err != nil {
			return nil, false, 0, err
		}
		if ret {
			return rv, true, consumed, nil
		}
	}

	for idx+consumed < len(nodes) {
		next := nodes[idx+consumed]
		kw, rest := splitKeyword(next.Text)

		switch kw {
		case "elif":
			consumed++
			if taken {
				continue
			}
			if err := i.emit(next.Line, env); err != nil {
				return nil, false, 0, err
			}
			i.traceLine(next.Line, "elif")
			condVal, err := i.evalExpr(rest, env, next.Line)
			if err != nil {
				return nil, false, 0, err
			}
			branchTaken, err := requireCond(condVal, next.Line, rest)
			if err != nil {
				return nil, false, 0, err
			}
			if branchTaken {
				taken = true
				rv, ret, err := runBlock(i, next.Children, env)
				if err != nil {
					return nil, false, 0, err
				}
				if ret {
					return rv, true, consumed, nil
				}
			}

		case "else":
			consumed++
			if !taken {
				if err := i.emit(next.Line, env); err != nil {
					return nil, false, 0, err
				}
				i.traceLine(next.Line, "else")
				rv, ret, err := runBlock(i, next.Children, env)
				if err != nil {
					return nil, false, 0, err
				}
				if ret {
					return rv, true, consumed, nil
				}
			}
			return nil, false, consumed, nil

		default:
			return nil, false, consumed, nil
		}
	}

	return nil, false, consumed, nil
}

// execWhile implements `while <expr>` (spec.md §4.6): the whole statement
// — condition re-tests and body — runs against one environment clone,
// reconciled back into outer once the loop exits.
func (i *Interpreter) execWhile(line int, condExpr string, body []*block.Node, outer *value.Environment) (value.Value, bool, error) {
	inner := outer.Clone()
	defer outer.ReconcileFrom(inner)

	for {
		i.traceLine(line, "while")
		condVal, err := i.evalExpr(condExpr, inner, line)
		if err != nil {
			return nil, false, err
		}
		cond, err := requireCond(condVal, line, condExpr)
		if err != nil {
			return nil, false, err
		}
		if !cond {
			return nil, false, nil
		}

		rv, ret, err := i.exec(body, inner)
		if err != nil {
			return nil, false, err
		}
		if ret {
			return rv, true, nil
		}

		if err := i.emit(line, inner); err != nil {
			return nil, false, err
		}
	}
}

// execFor implements `for (init; cond; step)` (spec.md §4.6): parenthesis
// wrapping is optional and stripped; init/cond/step are separated by the
// first two semicolons in the header, including any inside string literals
// or parentheses.
func (i *Interpreter) execFor(line int, header string, body []*block.Node, outer *value.Environment) (value.Value, bool, error) {
	header = strings.TrimSpace(header)
	if strings.HasPrefix(header, "(") && strings.HasSuffix(header, ")") {
		header = strings.TrimSpace(header[1 : len(header)-1])
	}
	parts := strings.SplitN(header, ";", 3)
	if len(parts) != 3 {
		return nil, false, scripterr.New(scripterr.SyntaxError, "malformed for header %q", header).WithLocation(line, header)
	}
	initExpr := strings.TrimSpace(parts[0])
	condExpr := strings.TrimSpace(parts[1])
	stepExpr := strings.TrimSpace(parts[2])

	inner := outer.Clone()
	defer outer.ReconcileFrom(inner)

	if _, err := i.evalExpr(initExpr, inner, line); err != nil {
		return nil, false, err
	}

	for {
		i.traceLine(line, "for")
		condVal, err := i.evalExpr(condExpr, inner, line)
		if err != nil {
			return nil, false, err
		}
		cond, err := requireCond(condVal, line, condExpr)
		if err != nil {
			return nil, false, err
		}
		if !cond {
			return nil, false, nil
		}

		rv, ret, err := i.exec(body, inner)
		if err != nil {
			return nil, false, err
		}
		if ret {
			return rv, true, nil
		}

		if _, err := i.evalExpr(stepExpr, inner, line); err != nil {
			return nil, false, err
		}

		if err := i.emit(line, inner); err != nil {
			return nil, false, err
		}
	}
}

// runBlock executes an if/elif/else body against a clone of outer,
// reconciling common keys back afterward (spec.md §5's "copy, mutate,
// reconcile-common-keys" rule).
func runBlock(i *Interpreter, children []*block.Node, outer *value.Environment) (value.Value, bool, error) {
	inner := outer.Clone()
	rv, ret, err := i.exec(children, inner)
	outer.ReconcileFrom(inner)
	return rv, ret, err
}

// splitKeyword splits a statement line's leading keyword from the rest of
// the text (spec.md §6: "Keywords ... recognised only as first token of a
// statement line").
func splitKeyword(text string) (string, string) {
	trimmed := strings.TrimSpace(text)
	idx := strings.IndexAny(trimmed, " \t")
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], strings.TrimSpace(trimmed[idx+1:])
}

func firstWord(text string) string {
	kw, _ := splitKeyword(text)
	return kw
}
