package planner

import (
	"fmt"
	"strings"

	"github.com/retain-io/retain/internal/ir"
)

// GenerateReport renders a planning result as a deterministic, human-readable
// report. Formatting is stable so the output is snapshot-testable: no
// timestamps, no map-iteration ordering.
func GenerateReport(result *ir.PlanningResult) string {
	var b strings.Builder

	b.WriteString("==============================================\n")
	b.WriteString(" Identifier Preservation Report\n")
	b.WriteString("==============================================\n")

	if result.Success {
		b.WriteString("Status: SUCCESS\n")
	} else {
		b.WriteString("Status: FAILED\n")
	}

	if m := result.IdentifierMap; m != nil {
		fmt.Fprintf(&b, "Stack:  %s", m.StackName)
		if m.Environment != "" {
			fmt.Fprintf(&b, " (%s)", m.Environment)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nApplied mappings: %d\n", len(result.AppliedMappings))
	for _, newID := range result.AppliedMappings {
		if m := result.IdentifierMap; m != nil {
			if mp, ok := m.Mappings[newID]; ok && mp != nil {
				fmt.Fprintf(&b, "  %s -> %s\n", newID, mp.OriginalID)
				continue
			}
		}
		fmt.Fprintf(&b, "  %s\n", newID)
	}

	if report := result.DriftReport; report != nil {
		b.WriteString("\nDrift avoidance:\n")
		fmt.Fprintf(&b, "  Total resources:    %d\n", report.Summary.TotalResources)
		fmt.Fprintf(&b, "  Mapped resources:   %d\n", report.Summary.MappedResources)
		fmt.Fprintf(&b, "  Unmapped resources: %d\n", report.Summary.UnmappedResources)
		fmt.Fprintf(&b, "  Risk level:         %s\n", report.RiskLevel)

		if len(report.DetectedDrifts) > 0 {
			b.WriteString("\n  Detected drift:\n")
			for _, entry := range report.DetectedDrifts {
				fmt.Fprintf(&b, "    [%s] %s (%s)\n", entry.Severity, entry.ResourceID, entry.ResourceType)
			}
		}

		if len(report.RecommendedActions) > 0 {
			b.WriteString("\nRecommendations:\n")
			for _, action := range report.RecommendedActions {
				fmt.Fprintf(&b, "  - %s %s: %s\n", action.ActionType, action.Target, action.Detail)
			}
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, msg := range result.Errors {
			fmt.Fprintf(&b, "  - %s\n", msg)
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, msg := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", msg)
		}
	}

	return b.String()
}
