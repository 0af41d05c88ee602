package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retain-io/retain/internal/eval"
	"github.com/retain-io/retain/internal/ir"
	"github.com/retain-io/retain/internal/tree"
)

// defaultMapPath is where the identifier map lives relative to the project.
const defaultMapPath = ".retain/idmap.json"

// loadTree reads a synthesized resource tree, dispatching on file extension:
// PKL manifests go through the evaluator, everything else through the
// JSON/YAML reader.
func loadTree(ctx context.Context, path string) (*ir.ResourceTree, error) {
	if strings.EqualFold(filepath.Ext(path), ".pkl") {
		evaluator := eval.NewEvaluator(filepath.Dir(path))
		return evaluator.LoadTree(ctx, path)
	}
	return tree.Load(path)
}

// renderDriftReport prints a drift report in the same shape the planning
// report uses.
func renderDriftReport(report *ir.DriftReport) {
	fmt.Println("Drift avoidance:")
	fmt.Printf("  Total resources:    %d\n", report.Summary.TotalResources)
	fmt.Printf("  Mapped resources:   %d\n", report.Summary.MappedResources)
	fmt.Printf("  Unmapped resources: %d\n", report.Summary.UnmappedResources)
	fmt.Printf("  Risk level:         %s\n", report.RiskLevel)

	if len(report.DetectedDrifts) > 0 {
		fmt.Println("\n  Detected drift:")
		for _, entry := range report.DetectedDrifts {
			fmt.Printf("    [%s] %s (%s)\n", entry.Severity, entry.ResourceID, entry.ResourceType)
			fmt.Printf("        %s\n", entry.Reason)
		}
	}

	if len(report.RecommendedActions) > 0 {
		fmt.Println("\nRecommendations:")
		for _, action := range report.RecommendedActions {
			fmt.Printf("  - %s %s: %s\n", action.ActionType, action.Target, action.Detail)
		}
	}
}
