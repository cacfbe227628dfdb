// Package strategy implements judgement strategies: small expression trees
// over boolean and integer operators that decide whether enough guardians
// approved an action.
//
// A strategy is authored as a Node (the serializable form), compiled once into
// an arena-backed Tree, and evaluated against named integer variables.
package strategy

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags a strategy node.
type Kind uint8

const (
	KindAnd Kind = iota + 1
	KindOr
	KindNot
	KindIfElse
	KindLargerThan
	KindNotLargerThan
	KindLessThan
	KindNotLessThan
	KindEqual
	KindNotEqual
	KindRatioByTenThousand
	KindVariable
	KindConstant
)

// Variable names bound by the approval tally.
const (
	VarGuardianCount         = "guardianCount"
	VarGuardianApprovedCount = "guardianApprovedCount"
)

var kindNames = map[Kind]string{
	KindAnd:                "and",
	KindOr:                 "or",
	KindNot:                "not",
	KindIfElse:             "ifElse",
	KindLargerThan:         "largerThan",
	KindNotLargerThan:      "notLargerThan",
	KindLessThan:           "lessThan",
	KindNotLessThan:        "notLessThan",
	KindEqual:              "equal",
	KindNotEqual:           "notEqual",
	KindRatioByTenThousand: "ratioByTenThousand",
	KindVariable:           "variable",
	KindConstant:           "constant",
}

// arity is the exact number of children each kind takes.
var arity = map[Kind]int{
	KindAnd:                2,
	KindOr:                 2,
	KindNot:                1,
	KindIfElse:             3,
	KindLargerThan:         2,
	KindNotLargerThan:      2,
	KindLessThan:           2,
	KindNotLessThan:        2,
	KindEqual:              2,
	KindNotEqual:           2,
	KindRatioByTenThousand: 2,
	KindVariable:           0,
	KindConstant:           0,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind resolves a kind by name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy node kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown strategy node kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Node is the authored form of a strategy. Name is only meaningful for
// variables and Value only for constants.
type Node struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Value    int64  `json:"value,omitempty" yaml:"value,omitempty"`
}

func And(a, b Node) Node { return Node{Kind: KindAnd, Children: []Node{a, b}} }
func Or(a, b Node) Node { return Node{Kind: KindOr, Children: []Node{a, b}} }
func Not(a Node) Node { return Node{Kind: KindNot, Children: []Node{a}} }
func IfElse(cond, a, b Node) Node { return Node{Kind: KindIfElse, Children: []Node{cond, a, b}} }
func LargerThan(a, b Node) Node { return Node{Kind: KindLargerThan, Children: []Node{a, b}} }
func NotLargerThan(a, b Node) Node { return Node{Kind: KindNotLargerThan, Children: []Node{a, b}} }
func LessThan(a, b Node) Node { return Node{Kind: KindLessThan, Children: []Node{a, b}} }
func NotLessThan(a, b Node) Node { return Node{Kind: KindNotLessThan, Children: []Node{a, b}} }
func Equal(a, b Node) Node { return Node{Kind: KindEqual, Children: []Node{a, b}} }
func NotEqual(a, b Node) Node { return Node{Kind: KindNotEqual, Children: []Node{a, b}} }
func Var(name string) Node { return Node{Kind: KindVariable, Name: name} }
func Const(v int64) Node { return Node{Kind: KindConstant, Value: v} }

// RatioByTenThousand computes a*b/10000 + 1.
func RatioByTenThousand(a, b Node) Node {
	return Node{Kind: KindRatioByTenThousand, Children: []Node{a, b}}
}

// String renders the node in the text form accepted by Parse.
func (n Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	switch n.Kind {
	case KindVariable:
		b.WriteString(n.Name)
	case KindConstant:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	default:
		b.WriteString(n.Kind.String())
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b)
		}
		b.WriteByte(')')
	}
}

// Default is the strategy applied to holders that never configured one.
func Default() Node {
	return NotLessThan(Var(VarGuardianApprovedCount), Const(1))
}

// True and False are boolean literals expressed with comparator nodes, which
// keeps the node kinds closed.
func True() Node { return Equal(Const(0), Const(0)) }
func False() Node { return NotEqual(Const(0), Const(0)) }
