package ir

// PlanningResult is the single outcome object of one planning cycle.
// Data-quality failures surface here as Success=false with Errors populated;
// they are never returned as Go errors.
type PlanningResult struct {
	Success         bool           `json:"success"`
	AppliedMappings []string       `json:"appliedMappings"`
	Tree            *ResourceTree  `json:"-"`
	IdentifierMap   *IdentifierMap `json:"identifierMap"`
	DriftReport     *DriftReport   `json:"driftAvoidanceReport"`
	Errors          []string       `json:"errors"`
	Warnings        []string       `json:"warnings"`
}
