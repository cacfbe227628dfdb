package strategy

import (
	"fmt"

	dErrors "caguard/pkg/domain-errors"
)

// Variables resolves variable leaves during evaluation.
type Variables interface {
	Lookup(name string) (int64, bool)
}

// Vars is the map-backed Variables used by the approval tally.
type Vars map[string]int64

func (v Vars) Lookup(name string) (int64, bool) {
	val, ok := v[name]
	return val, ok
}

// Evaluate runs the compiled tree against vars. And and Or evaluate both
// operands; IfElse evaluates its condition and exactly one branch. Any unbound
// variable or type mismatch aborts the evaluation with an invariant violation.
func Evaluate(t *Tree, vars Variables) (Value, error) {
	if t == nil || len(t.nodes) == 0 {
		return Value{}, dErrors.New(dErrors.CodeInvariantViolation, "strategy is empty")
	}
	if vars == nil {
		vars = Vars{}
	}
	return t.eval(t.root, vars)
}

// EvaluateBool evaluates a tree whose root must produce a Bool.
func EvaluateBool(t *Tree, vars Variables) (bool, error) {
	v, err := Evaluate(t, vars)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func (t *Tree) eval(idx int, vars Variables) (Value, error) {
	n := t.nodes[idx]
	switch n.kind {
	case KindConstant:
		return Int(n.value), nil

	case KindVariable:
		val, ok := vars.Lookup(n.name)
		if !ok {
			return Value{}, dErrors.Wrap(ErrUnboundVariable, dErrors.CodeInvariantViolation, fmt.Sprintf("variable %q", n.name))
		}
		return Int(val), nil

	case KindNot:
		a, err := t.evalBool(n.children[0], vars)
		if err != nil {
			return Value{}, err
		}
		return Bool(!a), nil

	case KindAnd, KindOr:
		a, err := t.evalBool(n.children[0], vars)
		if err != nil {
			return Value{}, err
		}
		b, err := t.evalBool(n.children[1], vars)
		if err != nil {
			return Value{}, err
		}
		if n.kind == KindAnd {
			return Bool(a && b), nil
		}
		return Bool(a || b), nil

	case KindIfElse:
		cond, err := t.evalBool(n.children[0], vars)
		if err != nil {
			return Value{}, err
		}
		if cond {
			return t.eval(n.children[1], vars)
		}
		return t.eval(n.children[2], vars)

	case KindRatioByTenThousand:
		a, b, err := t.evalInts(n.children, vars)
		if err != nil {
			return Value{}, err
		}
		return Int(a*b/10000 + 1), nil

	case KindLargerThan, KindNotLargerThan, KindLessThan, KindNotLessThan, KindEqual, KindNotEqual:
		a, b, err := t.evalInts(n.children, vars)
		if err != nil {
			return Value{}, err
		}
		return Bool(compare(n.kind, a, b)), nil
	}
	return Value{}, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown strategy node kind %d", uint8(n.kind))
}

func compare(k Kind, a, b int64) bool {
	switch k {
	case KindLargerThan:
		return a > b
	case KindNotLargerThan:
		return a <= b
	case KindLessThan:
		return a < b
	case KindNotLessThan:
		return a >= b
	case KindEqual:
		return a == b
	default:
		return a != b
	}
}

func (t *Tree) evalBool(idx int, vars Variables) (bool, error) {
	v, err := t.eval(idx, vars)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func (t *Tree) evalInts(children []int, vars Variables) (int64, int64, error) {
	av, err := t.eval(children[0], vars)
	if err != nil {
		return 0, 0, err
	}
	a, err := av.AsInt()
	if err != nil {
		return 0, 0, err
	}
	bv, err := t.eval(children[1], vars)
	if err != nil {
		return 0, 0, err
	}
	b, err := bv.AsInt()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
