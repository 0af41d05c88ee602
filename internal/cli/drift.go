package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retain-io/retain/internal/drift"
	"github.com/retain-io/retain/internal/identmap"
	"github.com/retain-io/retain/internal/ir"
	"github.com/retain-io/retain/internal/rewrite"
)

var (
	driftTreePath string
	driftMapPath  string
)

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Analyze a synthesized tree for replacement risk",
	Long: `Classifies every resource not protected by an identifier mapping by the
risk of letting its synthesized identifier stand. Stateful resources
(databases, buckets, queues) rank high or critical: replacing them
destroys data.`,
	RunE: runDrift,
}

func init() {
	driftCmd.Flags().StringVarP(&driftTreePath, "tree", "t", "", "Synthesized resource tree (JSON, YAML, or PKL)")
	driftCmd.Flags().StringVarP(&driftMapPath, "map", "m", defaultMapPath, "Identifier map file")
	driftCmd.MarkFlagRequired("tree")
}

func runDrift(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	t, err := loadTree(ctx, driftTreePath)
	if err != nil {
		return err
	}

	m := identmap.NewManager(driftMapPath, logger).Load(ctx)
	if m == nil {
		fmt.Printf("No identifier map at %s; analyzing with no mappings applied.\n\n", driftMapPath)
	}

	rewritten, stats := rewrite.New(logger).Apply(t, m)
	report := drift.NewAnalyzer(logger).Analyze(rewritten, stats.OriginalIDs())
	renderDriftReport(report)

	if report.RiskLevel.AtLeast(ir.SeverityHigh) {
		return fmt.Errorf("unresolved %s drift: add identifier mappings before deploying", report.RiskLevel)
	}
	return nil
}
