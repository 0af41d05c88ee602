package ir

// PreservationStrategy selects how an original identifier is matched to a
// synthesized one. Only exact-match has semantics today; the other values are
// accepted on load but never applied.
type PreservationStrategy string

const (
	StrategyExactMatch   PreservationStrategy = "exact-match"
	StrategyPatternBased PreservationStrategy = "pattern-based"
	StrategyHashBased    PreservationStrategy = "hash-based"
)

// Known reports whether the strategy is a recognized enum value.
func (s PreservationStrategy) Known() bool {
	switch s {
	case StrategyExactMatch, StrategyPatternBased, StrategyHashBased:
		return true
	default:
		return false
	}
}

// Implemented reports whether the strategy has apply-time behavior.
func (s PreservationStrategy) Implemented() bool {
	return s == StrategyExactMatch
}

type MappingMetadata struct {
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// IdentifierMapping is one renaming rule: restore OriginalID wherever the
// synthesizer produced NewID, provided the tree node's type matches
// ResourceType.
type IdentifierMapping struct {
	OriginalID    string               `json:"originalId"`
	NewID         string               `json:"newId"`
	ResourceType  string               `json:"resourceType"`
	ComponentName string               `json:"componentName"`
	ComponentType string               `json:"componentType"`
	Strategy      PreservationStrategy `json:"preservationStrategy"`
	Metadata      MappingMetadata      `json:"metadata"`
}

type DriftAvoidanceConfig struct {
	EnableDeterministicNaming bool `json:"enableDeterministicNaming"`
	PreserveResourceOrder     bool `json:"preserveResourceOrder"`
	ValidateBeforeApply       bool `json:"validateBeforeApply"`
}

// IdentifierMap is the persisted mapping document for one stack. Mappings is
// keyed by NewID, so newId uniqueness holds by construction; originalId
// uniqueness is a validation invariant.
type IdentifierMap struct {
	Version        int                           `json:"version"`
	StackName      string                        `json:"stackName"`
	Environment    string                        `json:"environment"`
	CreatedAt      string                        `json:"createdAt"`
	UpdatedAt      string                        `json:"updatedAt"`
	Mappings       map[string]*IdentifierMapping `json:"mappings"`
	DriftAvoidance DriftAvoidanceConfig          `json:"driftAvoidanceConfig"`
}

// ValidationResult is the non-throwing outcome of a map validation.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
