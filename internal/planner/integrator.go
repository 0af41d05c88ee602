package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/retain-io/retain/internal/drift"
	"github.com/retain-io/retain/internal/identmap"
	"github.com/retain-io/retain/internal/ir"
	"github.com/retain-io/retain/internal/rewrite"
)

// Context carries the settings for one planning cycle.
type Context struct {
	StackName            string
	Environment          string
	IdentifierMapPath    string
	EnableDriftAvoidance bool
	ValidateBeforePlan   bool
}

// Integrator orchestrates one planning cycle:
// validate -> rewrite -> analyze -> package. All collaborators take the
// logger explicitly; there is no process-wide state.
type Integrator struct {
	logger   *slog.Logger
	rewriter *rewrite.Rewriter
	analyzer *drift.Analyzer
}

func New(logger *slog.Logger) *Integrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Integrator{
		logger:   logger,
		rewriter: rewrite.New(logger),
		analyzer: drift.NewAnalyzer(logger),
	}
}

// Rewriter exposes the underlying rewriter so callers can register
// additional reference shapes before planning.
func (i *Integrator) Rewriter() *rewrite.Rewriter {
	return i.rewriter
}

// ApplyPreservationToPlan runs one cycle over a synthesized tree. Data
// quality problems (invalid or conflicted map) surface as Success=false with
// Errors populated and the tree returned unchanged; they are never Go errors.
// With validation disabled the rewrite proceeds even on an invalid map; that
// is the documented, if risky, contract.
func (i *Integrator) ApplyPreservationToPlan(ctx context.Context, tree *ir.ResourceTree, pctx Context) *ir.PlanningResult {
	r := newRun()
	result := &ir.PlanningResult{Tree: tree}

	m := i.loadOrGenerate(ctx, pctx, result)
	result.IdentifierMap = m

	r.advance(PhaseValidating)
	if pctx.ValidateBeforePlan {
		if v := identmap.Validate(m); !v.Valid {
			r.advance(PhaseFailed)
			result.Success = false
			result.Errors = append(result.Errors, v.Errors...)
			i.logger.Warn("identifier map failed validation, plan aborted",
				"stack", pctx.StackName, "errors", len(v.Errors))
			return result
		}
	} else {
		if conflicts := identmap.DetectConflicts(m); len(conflicts) > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("validation is disabled but the identifier map has %d conflict(s); proceeding anyway", len(conflicts)))
			result.Warnings = append(result.Warnings, conflicts...)
		} else if m.DriftAvoidance.ValidateBeforeApply {
			result.Warnings = append(result.Warnings,
				"identifier map requests validateBeforeApply but validation was disabled for this plan")
		}
	}

	r.advance(PhaseRewriting)
	rewritten, stats := i.rewriter.Apply(tree, m)
	result.Tree = rewritten
	result.AppliedMappings = stats.NewIDs()
	for _, skip := range stats.Skipped {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("mapping %q skipped: %s", skip.NewID, skip.Reason))
	}

	if pctx.EnableDriftAvoidance {
		r.advance(PhaseAnalyzingDrift)
		result.DriftReport = i.analyzer.Analyze(rewritten, stats.OriginalIDs())
	}

	r.advance(PhaseCompleted)
	result.Success = true
	i.logger.Info("planning cycle complete",
		"stack", pctx.StackName,
		"applied", stats.AppliedCount(),
		"skipped", stats.SkippedCount())
	return result
}

// loadOrGenerate loads the persisted map, falling back to a fresh empty map
// when the file is missing or unreadable.
func (i *Integrator) loadOrGenerate(ctx context.Context, pctx Context, result *ir.PlanningResult) *ir.IdentifierMap {
	if pctx.IdentifierMapPath != "" {
		mgr := identmap.NewManager(pctx.IdentifierMapPath, i.logger)
		if m := mgr.Load(ctx); m != nil {
			return m
		}
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no usable identifier map at %s; starting from an empty map", pctx.IdentifierMapPath))
	}
	return identmap.Generate(pctx.StackName, pctx.Environment)
}
