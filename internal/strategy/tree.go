package strategy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	dErrors "caguard/pkg/domain-errors"
)

// Limits keep compiled trees small enough that evaluation is bounded.
const (
	MaxNodes = 256
	MaxDepth = 32
)

// ErrUnboundVariable is returned (wrapped) when a variable leaf has no value.
var ErrUnboundVariable = errors.New("unbound variable")

type arenaNode struct {
	kind     Kind
	typ      ValueKind
	children []int
	name     string
	value    int64
}

// Tree is a compiled, immutable strategy. Nodes live in a flat arena and refer
// to their children by index; the root is the last node appended.
type Tree struct {
	nodes []arenaNode
	root  int
	vars  []string
}

// Compile validates n and builds its arena form. Structural problems (wrong
// arity, empty variable names, operand type mismatches) are reported here so
// evaluation never sees a malformed tree.
func Compile(n Node) (*Tree, error) {
	t := &Tree{}
	seen := make(map[string]struct{})
	root, err := t.add(n, 0, seen)
	if err != nil {
		return nil, err
	}
	t.root = root
	for name := range seen {
		t.vars = append(t.vars, name)
	}
	sort.Strings(t.vars)
	return t, nil
}

// MustCompile is Compile for trees known to be valid at init time.
func MustCompile(n Node) *Tree {
	t, err := Compile(n)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tree) add(n Node, depth int, seen map[string]struct{}) (int, error) {
	if depth >= MaxDepth {
		return 0, dErrors.Newf(dErrors.CodeInvariantViolation, "strategy deeper than %d levels", MaxDepth)
	}
	want, ok := arity[n.Kind]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown strategy node kind %d", uint8(n.Kind))
	}
	if len(n.Children) != want {
		return 0, dErrors.Newf(dErrors.CodeInvariantViolation, "%s takes %d operands, got %d", n.Kind, want, len(n.Children))
	}

	children := make([]int, 0, len(n.Children))
	for _, c := range n.Children {
		idx, err := t.add(c, depth+1, seen)
		if err != nil {
			return 0, err
		}
		children = append(children, idx)
	}

	node := arenaNode{kind: n.Kind, children: children}
	switch n.Kind {
	case KindVariable:
		if strings.TrimSpace(n.Name) == "" {
			return 0, dErrors.New(dErrors.CodeInvariantViolation, "variable node without a name")
		}
		node.name = n.Name
		node.typ = ValueInt
		seen[n.Name] = struct{}{}
	case KindConstant:
		node.value = n.Value
		node.typ = ValueInt
	case KindAnd, KindOr, KindNot:
		if err := t.expect(children, ValueBool, n.Kind); err != nil {
			return 0, err
		}
		node.typ = ValueBool
	case KindLargerThan, KindNotLargerThan, KindLessThan, KindNotLessThan, KindEqual, KindNotEqual:
		if err := t.expect(children, ValueInt, n.Kind); err != nil {
			return 0, err
		}
		node.typ = ValueBool
	case KindRatioByTenThousand:
		if err := t.expect(children, ValueInt, n.Kind); err != nil {
			return 0, err
		}
		node.typ = ValueInt
	case KindIfElse:
		if err := t.expect(children[:1], ValueBool, n.Kind); err != nil {
			return 0, err
		}
		a, b := t.nodes[children[1]].typ, t.nodes[children[2]].typ
		if a != b {
			return 0, dErrors.Newf(dErrors.CodeInvariantViolation, "ifElse branches differ in type: %s and %s", a, b)
		}
		node.typ = a
	}

	if len(t.nodes) >= MaxNodes {
		return 0, dErrors.Newf(dErrors.CodeInvariantViolation, "strategy larger than %d nodes", MaxNodes)
	}
	t.nodes = append(t.nodes, node)
	return len(t.nodes) - 1, nil
}

func (t *Tree) expect(children []int, typ ValueKind, parent Kind) error {
	for _, c := range children {
		if got := t.nodes[c].typ; got != typ {
			return dErrors.Newf(dErrors.CodeInvariantViolation, "%s operand must be %s, got %s", parent, typ, got)
		}
	}
	return nil
}

// ResultKind is the static type of the root expression.
func (t *Tree) ResultKind() ValueKind {
	return t.nodes[t.root].typ
}

// Variables lists the distinct variable names the tree reads, sorted.
func (t *Tree) Variables() []string {
	return append([]string(nil), t.vars...)
}

// CheckBound reports the first referenced variable vars cannot resolve.
func (t *Tree) CheckBound(vars Variables) error {
	for _, name := range t.vars {
		if _, ok := vars.Lookup(name); !ok {
			return dErrors.Wrap(ErrUnboundVariable, dErrors.CodeInvariantViolation, fmt.Sprintf("variable %q", name))
		}
	}
	return nil
}

// Node rebuilds the authored form from the arena.
func (t *Tree) Node() Node {
	return t.node(t.root)
}

func (t *Tree) node(idx int) Node {
	an := t.nodes[idx]
	n := Node{Kind: an.kind, Name: an.name, Value: an.value}
	for _, c := range an.children {
		n.Children = append(n.Children, t.node(c))
	}
	return n
}

func (t *Tree) String() string {
	return t.Node().String()
}
