package strategy

import (
	"strconv"

	dErrors "caguard/pkg/domain-errors"
)

// ValueKind distinguishes the two result types an expression can produce.
type ValueKind uint8

const (
	ValueBool ValueKind = iota + 1
	ValueInt
)

func (k ValueKind) String() string {
	switch k {
	case ValueBool:
		return "bool"
	case ValueInt:
		return "int"
	default:
		return "invalid"
	}
}

// Value is the result of evaluating a node: either a Bool or an Int.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
}

func Bool(b bool) Value { return Value{kind: ValueBool, b: b} }
func Int(i int64) Value { return Value{kind: ValueInt, i: i} }

func (v Value) Kind() ValueKind { return v.kind }

// AsBool returns the boolean payload or an invariant violation for Int values.
func (v Value) AsBool() (bool, error) {
	if v.kind != ValueBool {
		return false, dErrors.Newf(dErrors.CodeInvariantViolation, "expected bool value, got %s", v.kind)
	}
	return v.b, nil
}

// AsInt returns the integer payload or an invariant violation for Bool values.
func (v Value) AsInt() (int64, error) {
	if v.kind != ValueInt {
		return 0, dErrors.Newf(dErrors.CodeInvariantViolation, "expected int value, got %s", v.kind)
	}
	return v.i, nil
}

func (v Value) String() string {
	switch v.kind {
	case ValueBool:
		return strconv.FormatBool(v.b)
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return "<invalid>"
	}
}
