package drift

import (
	"fmt"
	"log/slog"

	"github.com/retain-io/retain/internal/ir"
)

// Analyzer flags every resource left with a synthesizer-generated identifier
// and ranks the risk of letting it stand.
type Analyzer struct {
	logger *slog.Logger
}

func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze walks the rewritten tree once. coveredIDs are the identifiers of
// resources already protected by an applied mapping; every other resource
// yields a drift entry, severity per its type classification. High and
// critical entries carry a concrete preserve recommendation.
func (a *Analyzer) Analyze(tree *ir.ResourceTree, coveredIDs []string) *ir.DriftReport {
	covered := make(map[string]bool, len(coveredIDs))
	for _, id := range coveredIDs {
		covered[id] = true
	}

	report := &ir.DriftReport{
		RiskLevel: ir.SeverityLow,
		Summary: ir.DriftSummary{
			TotalResources: tree.Len(),
		},
	}

	for _, id := range tree.IDs() {
		if covered[id] {
			report.Summary.MappedResources++
			continue
		}
		report.Summary.UnmappedResources++

		rec, _ := tree.Get(id)
		sev := Classify(rec.Type)

		entry := ir.DriftEntry{
			ResourceID:   id,
			ResourceType: rec.Type,
			Severity:     sev,
			Reason:       driftReason(rec.Type, sev),
		}
		report.DetectedDrifts = append(report.DetectedDrifts, entry)
		report.RiskLevel = ir.MaxSeverity(report.RiskLevel, sev)

		if sev.AtLeast(ir.SeverityHigh) {
			report.RecommendedActions = append(report.RecommendedActions, ir.RecommendedAction{
				ActionType: "preserve",
				Target:     id,
				Detail: fmt.Sprintf("add an identifier mapping for %s (%s) before deploying",
					id, rec.Type),
			})
		}
	}

	a.logger.Debug("drift analysis complete",
		"total", report.Summary.TotalResources,
		"unmapped", report.Summary.UnmappedResources,
		"risk", report.RiskLevel)
	return report
}

func driftReason(resourceType string, sev ir.Severity) string {
	if sev.AtLeast(ir.SeverityHigh) {
		return fmt.Sprintf("stateful resource of type %s carries a synthesized identifier; "+
			"an identifier change forces destroy-and-recreate and destroys its data", resourceType)
	}
	return fmt.Sprintf("resource of type %s carries a synthesized identifier and may be "+
		"replaced on the next synthesis", resourceType)
}
