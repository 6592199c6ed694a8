package block

import "testing"

func TestPreprocessStripsCommentsAndNormalisesQuotes(t *testing.T) {
	out := Preprocess("x = 1 // set x\ny = \"hi\" // trailing")
	want := []string{"x = 1 ", "y = 'hi' "}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, out[i], want[i])
		}
	}
}

func TestPreprocessIgnoresSlashSlashInsideString(t *testing.T) {
	out := Preprocess("x = 'http://example.com'")
	if out[0] != "x = 'http://example.com'" {
		t.Fatalf("got %q, want comment marker preserved inside string", out[0])
	}
}

func TestPreprocessRetainsBlankLineIndices(t *testing.T) {
	out := Preprocess("x = 1\n\ny = 2")
	if len(out) != 3 {
		t.Fatalf("got %d lines, want 3 (blank line retained)", len(out))
	}
	if out[1] != "" {
		t.Fatalf("blank line should preprocess to empty, got %q", out[1])
	}
}

func TestBuildFlatSiblings(t *testing.T) {
	nodes := Build([]string{"x = 1", "y = 2", "z = 3"})
	if len(nodes) != 3 {
		t.Fatalf("got %d top-level nodes, want 3", len(nodes))
	}
	for i, want := range []string{"x = 1", "y = 2", "z = 3"} {
		if nodes[i].Text != want || nodes[i].Line != i+1 {
			t.Errorf("node[%d] = %+v, want Text=%q Line=%d", i, nodes[i], want, i+1)
		}
		if len(nodes[i].Children) != 0 {
			t.Errorf("node[%d] should have no children, got %v", i, nodes[i].Children)
		}
	}
}

func TestBuildNestedBlock(t *testing.T) {
	nodes := Build([]string{
		"if x > 0",
		"  y = 1",
		"  z = 2",
		"end",
	})
	if len(nodes) != 2 {
		t.Fatalf("got %d top-level nodes, want 2 (if-line, end-line)", len(nodes))
	}
	ifNode := nodes[0]
	if ifNode.Text != "if x > 0" {
		t.Fatalf("nodes[0] = %+v, want the if line", ifNode)
	}
	if len(ifNode.Children) != 2 {
		t.Fatalf("if node has %d children, want 2", len(ifNode.Children))
	}
	if ifNode.Children[0].Text != "y = 1" || ifNode.Children[0].Line != 2 {
		t.Errorf("child[0] = %+v", ifNode.Children[0])
	}
	if ifNode.Children[1].Text != "z = 2" || ifNode.Children[1].Line != 3 {
		t.Errorf("child[1] = %+v", ifNode.Children[1])
	}
	if nodes[1].Text != "end" || nodes[1].Line != 4 {
		t.Errorf("nodes[1] = %+v, want the end line", nodes[1])
	}
}

func TestBuildDeeplyNestedBlocks(t *testing.T) {
	nodes := Build([]string{
		"while x < 10",
		"  if x > 5",
		"    y = 1",
		"  x = x + 1",
	})
	whileNode := nodes[0]
	if len(whileNode.Children) != 2 {
		t.Fatalf("while node has %d children, want 2 (if-line, x=x+1-line)", len(whileNode.Children))
	}
	ifNode := whileNode.Children[0]
	if len(ifNode.Children) != 1 || ifNode.Children[0].Text != "y = 1" {
		t.Fatalf("if node children = %+v, want [y = 1]", ifNode.Children)
	}
	if whileNode.Children[1].Text != "x = x + 1" {
		t.Fatalf("while node's second child = %+v, want x = x + 1", whileNode.Children[1])
	}
}

func TestBuildToleratesMismatchedDedent(t *testing.T) {
	// The "  z = 2" dedents to an indent width (2) that never appeared on
	// the stack (levels are 0 and 4); spec.md §9 says tolerate by popping
	// to the nearest lesser-or-equal level rather than erroring.
	nodes := Build([]string{
		"if x > 0",
		"    y = 1",
		"  z = 2",
	})
	if len(nodes) != 2 {
		t.Fatalf("got %d top-level nodes, want 2 (if-line, z=2-line attached at top level)", len(nodes))
	}
	ifNode := nodes[0]
	if len(ifNode.Children) != 1 || ifNode.Children[0].Text != "y = 1" {
		t.Fatalf("if node children = %+v, want [y = 1]", ifNode.Children)
	}
	if nodes[1].Text != "z = 2" {
		t.Fatalf("nodes[1] = %+v, want z = 2 tolerated at top level", nodes[1])
	}
}

func TestParseEndToEnd(t *testing.T) {
	nodes := Parse("x = 1 // comment\nif x > 0\n  y = \"hi\"\n")
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].Text != "x = 1" {
		t.Errorf("nodes[0].Text = %q, want %q", nodes[0].Text, "x = 1")
	}
	if len(nodes[1].Children) != 1 || nodes[1].Children[0].Text != "y = 'hi'" {
		t.Errorf("nodes[1].Children = %+v", nodes[1].Children)
	}
}
