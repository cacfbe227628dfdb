package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	evalExpr, evalVars = "", nil
	nonceTimestamp, nonceManager = 0, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStrategyEval(t *testing.T) {
	t.Run("default strategy", func(t *testing.T) {
		out, err := execute(t, "strategy", "eval", "--var", "guardianApprovedCount=1")
		require.NoError(t, err)
		assert.Contains(t, out, "result: true (bool)")
	})

	t.Run("integer expression", func(t *testing.T) {
		out, err := execute(t, "strategy", "eval",
			"--expr", "ratioByTenThousand(guardianCount, 6000)",
			"--var", "guardianCount=5")
		require.NoError(t, err)
		assert.Contains(t, out, "guardianCount = 5")
		assert.Contains(t, out, "result: 4 (int)")
	})

	t.Run("unbound variable names what the strategy reads", func(t *testing.T) {
		_, err := execute(t, "strategy", "eval", "--expr", "largerThan(guardianCount, 2)")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "guardianCount")
	})

	t.Run("bad binding", func(t *testing.T) {
		_, err := execute(t, "strategy", "eval", "--var", "guardianCount")
		require.Error(t, err)
		_, err = execute(t, "strategy", "eval", "--var", "guardianCount=many")
		require.Error(t, err)
	})
}

func TestNonce(t *testing.T) {
	out, err := execute(t, "nonce", "--timestamp", "1717243200", "--manager", "2tk8R1CdAGarEEmAzvKBrp7r4V8H9AaEgpAhecCnpoYxkUzT8W")
	require.NoError(t, err)
	assert.Equal(t, "50e77ee22ea91f5b91eec70b5e2e4aaaeff2b272b06f75510cc2a69db2927826", strings.TrimSpace(out))

	_, err = execute(t, "nonce", "--timestamp", "1717243200", "--manager", "not-an-address")
	require.Error(t, err)
}
