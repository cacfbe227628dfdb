package strategy

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	dErrors "caguard/pkg/domain-errors"
)

// recordingVars is a side-effecting Variables stub: it remembers every lookup.
type recordingVars struct {
	values  Vars
	lookups []string
}

func (r *recordingVars) Lookup(name string) (int64, bool) {
	r.lookups = append(r.lookups, name)
	return r.values.Lookup(name)
}

type EvaluateSuite struct {
	suite.Suite
}

func TestEvaluateSuite(t *testing.T) {
	suite.Run(t, new(EvaluateSuite))
}

func (s *EvaluateSuite) eval(n Node, vars Variables) Value {
	tree, err := Compile(n)
	s.Require().NoError(err)
	v, err := Evaluate(tree, vars)
	s.Require().NoError(err)
	return v
}

func (s *EvaluateSuite) evalBool(n Node) bool {
	b, err := s.eval(n, nil).AsBool()
	s.Require().NoError(err)
	return b
}

func (s *EvaluateSuite) evalInt(n Node) int64 {
	i, err := s.eval(n, nil).AsInt()
	s.Require().NoError(err)
	return i
}

func (s *EvaluateSuite) TestBooleanCombinators() {
	s.False(s.evalBool(And(True(), False())))
	s.True(s.evalBool(And(True(), True())))
	s.True(s.evalBool(Or(False(), True())))
	s.False(s.evalBool(Or(False(), False())))
	s.False(s.evalBool(Not(True())))
	s.True(s.evalBool(Not(False())))
}

func (s *EvaluateSuite) TestAndOrEvaluateBothOperands() {
	vars := &recordingVars{values: Vars{"a": 0, "b": 0}}
	n := And(
		LargerThan(Var("a"), Const(1)),
		LargerThan(Var("b"), Const(1)),
	)
	tree, err := Compile(n)
	s.Require().NoError(err)

	ok, err := EvaluateBool(tree, vars)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal([]string{"a", "b"}, vars.lookups, "no short-circuit on a false left operand")

	vars.lookups = nil
	ok, err = EvaluateBool(MustCompile(Or(Equal(Var("a"), Const(0)), Equal(Var("b"), Const(0)))), vars)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]string{"a", "b"}, vars.lookups, "no short-circuit on a true left operand")
}

func (s *EvaluateSuite) TestIfElseEvaluatesOnlyChosenBranch() {
	s.Run("true condition reads only the first branch", func() {
		vars := &recordingVars{values: Vars{"a": 10, "b": 20}}
		v := s.eval(IfElse(True(), Var("a"), Var("b")), vars)
		i, err := v.AsInt()
		s.Require().NoError(err)
		s.Equal(int64(10), i)
		s.Equal([]string{"a"}, vars.lookups)
	})

	s.Run("false condition reads only the second branch", func() {
		vars := &recordingVars{values: Vars{"a": 10, "b": 20}}
		v := s.eval(IfElse(False(), Var("a"), Var("b")), vars)
		i, err := v.AsInt()
		s.Require().NoError(err)
		s.Equal(int64(20), i)
		s.Equal([]string{"b"}, vars.lookups)
	})

	s.Run("unbound variable in the skipped branch is never touched", func() {
		tree := MustCompile(IfElse(True(), Const(1), Var("missing")))
		v, err := Evaluate(tree, Vars{})
		s.Require().NoError(err)
		s.Equal(Int(1), v)
	})
}

func (s *EvaluateSuite) TestComparators() {
	cases := []struct {
		name string
		node Node
		want bool
	}{
		{"largerThan", LargerThan(Const(3), Const(2)), true},
		{"largerThan equal", LargerThan(Const(2), Const(2)), false},
		{"notLargerThan", NotLargerThan(Const(2), Const(2)), true},
		{"lessThan", LessThan(Const(1), Const(2)), true},
		{"notLessThan", NotLessThan(Const(2), Const(2)), true},
		{"notLessThan smaller", NotLessThan(Const(1), Const(2)), false},
		{"equal", Equal(Const(7), Const(7)), true},
		{"notEqual", NotEqual(Const(7), Const(7)), false},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, s.evalBool(tc.node))
		})
	}
}

func (s *EvaluateSuite) TestRatioByTenThousand() {
	s.Equal(int64(6668), s.evalInt(RatioByTenThousand(Const(6667), Const(10000))))
	s.Equal(int64(1), s.evalInt(RatioByTenThousand(Const(0), Const(100))))
	s.Equal(int64(4), s.evalInt(RatioByTenThousand(Const(5), Const(6000))), "5*6000/10000 truncates to 3, plus one")
}

func (s *EvaluateSuite) TestUnboundVariableIsFatal() {
	tree := MustCompile(NotLessThan(Var(VarGuardianApprovedCount), Const(1)))
	_, err := Evaluate(tree, Vars{VarGuardianCount: 3})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrUnboundVariable))
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	s.Error(tree.CheckBound(Vars{VarGuardianCount: 3}))
	s.NoError(tree.CheckBound(Vars{VarGuardianApprovedCount: 0}))
}

func (s *EvaluateSuite) TestEvaluateBoolRejectsIntRoot() {
	_, err := EvaluateBool(MustCompile(Const(1)), nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *EvaluateSuite) TestEmptyTree() {
	_, err := Evaluate(nil, nil)
	s.Error(err)
}

func TestCompileRejectsMalformedTrees(t *testing.T) {
	cases := []struct {
		name string
		node Node
	}{
		{"unknown kind", Node{Kind: 99}},
		{"wrong arity", Node{Kind: KindAnd, Children: []Node{True()}}},
		{"leaf with children", Node{Kind: KindConstant, Children: []Node{Const(1)}}},
		{"nameless variable", Var(" ")},
		{"int operand to and", And(Const(1), True())},
		{"bool operand to comparator", LargerThan(True(), Const(1))},
		{"bool operand to ratio", RatioByTenThousand(True(), Const(1))},
		{"int condition", IfElse(Const(1), Const(1), Const(2))},
		{"mixed branches", IfElse(True(), Const(1), True())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.node)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}

	t.Run("depth limit", func(t *testing.T) {
		n := True()
		for i := 0; i < MaxDepth; i++ {
			n = Not(n)
		}
		_, err := Compile(n)
		assert.Error(t, err)
	})
}

func TestTreeMetadata(t *testing.T) {
	tree := MustCompile(And(
		NotLessThan(Var(VarGuardianApprovedCount), RatioByTenThousand(Var(VarGuardianCount), Const(6000))),
		LargerThan(Var(VarGuardianCount), Const(0)),
	))
	assert.Equal(t, []string{VarGuardianApprovedCount, VarGuardianCount}, tree.Variables())
	assert.Equal(t, ValueBool, tree.ResultKind())
	assert.Equal(t,
		"and(notLessThan(guardianApprovedCount, ratioByTenThousand(guardianCount, 6000)), largerThan(guardianCount, 0))",
		tree.String())
}

func TestParse(t *testing.T) {
	t.Run("round trips the rendered form", func(t *testing.T) {
		src := "ifElse(notLargerThan(guardianCount, 3), equal(guardianApprovedCount, guardianCount), notLessThan(guardianApprovedCount, ratioByTenThousand(guardianCount, 6000)))"
		n, err := Parse(src)
		require.NoError(t, err)
		assert.Equal(t, src, n.String())

		tree, err := Compile(n)
		require.NoError(t, err)
		ok, err := EvaluateBool(tree, Vars{VarGuardianCount: 5, VarGuardianApprovedCount: 4})
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = EvaluateBool(tree, Vars{VarGuardianCount: 2, VarGuardianApprovedCount: 1})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("operator names are case-insensitive and literals work", func(t *testing.T) {
		n, err := Parse(" AND( true , LargerThan(x, -2) ) ")
		require.NoError(t, err)
		assert.Equal(t, And(True(), LargerThan(Var("x"), Const(-2))), n)
	})

	t.Run("syntax errors", func(t *testing.T) {
		for _, src := range []string{"", "and(", "and(a b)", "frobnicate(1)", "variable(1)", "1 2", "-", "equal(1,2))"} {
			_, err := Parse(src)
			assert.Error(t, err, src)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), src)
		}
	})
}

func TestNodeEncoding(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		raw := `{"kind":"notLessThan","children":[{"kind":"variable","name":"guardianApprovedCount"},{"kind":"constant","value":2}]}`
		var n Node
		require.NoError(t, json.Unmarshal([]byte(raw), &n))
		assert.Equal(t, NotLessThan(Var(VarGuardianApprovedCount), Const(2)), n)

		out, err := json.Marshal(n)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	})

	t.Run("yaml definition with tree", func(t *testing.T) {
		raw := `
tree:
  kind: largerThan
  children:
    - kind: variable
      name: guardianApprovedCount
    - kind: constant
      value: 1
`
		var d Definition
		require.NoError(t, yaml.Unmarshal([]byte(raw), &d))
		tree, err := d.Compile()
		require.NoError(t, err)
		assert.Equal(t, "largerThan(guardianApprovedCount, 1)", tree.String())
	})

	t.Run("yaml definition with expr", func(t *testing.T) {
		var d Definition
		require.NoError(t, yaml.Unmarshal([]byte(`expr: "equal(guardianApprovedCount, guardianCount)"`), &d))
		tree, err := d.Compile()
		require.NoError(t, err)
		assert.Equal(t, ValueBool, tree.ResultKind())
	})

	t.Run("zero and ambiguous definitions", func(t *testing.T) {
		tree, err := Definition{}.Compile()
		assert.NoError(t, err)
		assert.Nil(t, tree)

		n := True()
		_, err = Definition{Expr: "true", Tree: &n}.Compile()
		assert.Error(t, err)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		var n Node
		assert.Error(t, json.Unmarshal([]byte(`{"kind":"xor"}`), &n))
	})
}

func TestDefault(t *testing.T) {
	tree := MustCompile(Default())
	ok, err := EvaluateBool(tree, Vars{VarGuardianCount: 3, VarGuardianApprovedCount: 1})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = EvaluateBool(tree, Vars{VarGuardianCount: 3, VarGuardianApprovedCount: 0})
	require.NoError(t, err)
	assert.False(t, ok)
}
