package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"caguard/internal/strategy"
)

var (
	evalExpr string
	evalVars []string
)

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyEvalCmd)
	strategyEvalCmd.Flags().StringVar(&evalExpr, "expr", "", "Strategy expression; empty evaluates the default strategy")
	strategyEvalCmd.Flags().StringArrayVar(&evalVars, "var", nil, "Variable binding name=value (repeatable)")
}

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Work with judgement strategies",
}

var strategyEvalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a strategy expression against variable bindings",
	Example: `  caguard strategy eval --var guardianCount=5 --var guardianApprovedCount=4
  caguard strategy eval --expr 'ratioByTenThousand(guardianCount, 6000)' --var guardianCount=5`,
	RunE: runStrategyEval,
}

func runStrategyEval(cmd *cobra.Command, _ []string) error {
	vars, err := parseBindings(evalVars)
	if err != nil {
		return err
	}

	var tree *strategy.Tree
	if strings.TrimSpace(evalExpr) == "" {
		tree = strategy.MustCompile(strategy.Default())
	} else if tree, err = strategy.ParseAndCompile(evalExpr); err != nil {
		return err
	}

	if err := tree.CheckBound(vars); err != nil {
		return fmt.Errorf("%w (bind with --var; strategy reads %s)", err, strings.Join(tree.Variables(), ", "))
	}
	value, err := strategy.Evaluate(tree, vars)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "strategy: %s\n", tree)
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s = %d\n", name, vars[name])
	}
	fmt.Fprintf(out, "result: %s (%s)\n", value, value.Kind())
	return nil
}

func parseBindings(raw []string) (strategy.Vars, error) {
	vars := strategy.Vars{}
	for _, b := range raw {
		name, value, ok := strings.Cut(b, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid binding %q, want name=value", b)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
		vars[name] = n
	}
	return vars, nil
}
