package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retain-io/retain/internal/planner"
	"github.com/retain-io/retain/internal/tree"
)

var (
	planTreePath    string
	planMapPath     string
	planStack       string
	planEnvironment string
	planNoValidate  bool
	planNoDrift     bool
	planOutPath     string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Apply identifier preservation to a synthesized tree",
	Long: `Runs one planning cycle over a synthesized resource tree:

  1. Load (or generate) the identifier map and validate it
  2. Rewrite mapped resources back to their original identifiers
  3. Repair every cross-resource reference
  4. Analyze the remaining resources for replacement risk

The command prints a report and exits non-zero when the cycle fails,
so it can gate a deployment pipeline.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planTreePath, "tree", "t", "", "Synthesized resource tree (JSON, YAML, or PKL)")
	planCmd.Flags().StringVarP(&planMapPath, "map", "m", defaultMapPath, "Identifier map file")
	planCmd.Flags().StringVar(&planStack, "stack", "", "Stack name (used when generating a fresh map)")
	planCmd.Flags().StringVar(&planEnvironment, "environment", "", "Environment name")
	planCmd.Flags().BoolVar(&planNoValidate, "no-validate", false, "Skip map validation before rewriting (risky)")
	planCmd.Flags().BoolVar(&planNoDrift, "no-drift", false, "Skip drift analysis")
	planCmd.Flags().StringVarP(&planOutPath, "out", "o", "", "Write the rewritten tree to this file")
	planCmd.MarkFlagRequired("tree")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	t, err := loadTree(ctx, planTreePath)
	if err != nil {
		return err
	}

	integrator := planner.New(logger)
	result := integrator.ApplyPreservationToPlan(ctx, t, planner.Context{
		StackName:            planStack,
		Environment:          planEnvironment,
		IdentifierMapPath:    planMapPath,
		EnableDriftAvoidance: !planNoDrift,
		ValidateBeforePlan:   !planNoValidate,
	})

	fmt.Print(planner.GenerateReport(result))

	if result.Success && planOutPath != "" {
		if err := tree.WriteJSON(result.Tree, planOutPath); err != nil {
			return err
		}
		fmt.Printf("\nRewritten tree written to %s\n", planOutPath)
	}

	if !result.Success {
		return fmt.Errorf("planning failed with %d error(s)", len(result.Errors))
	}
	return nil
}
