package identmap

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/retain-io/retain/internal/ir"
)

// CurrentVersion is the identifier-map document version this build writes.
const CurrentVersion = 1

// Generate returns a fresh, empty identifier map for a stack. Drift-avoidance
// options default to enabled.
func Generate(stackName, environment string) *ir.IdentifierMap {
	now := time.Now().UTC().Format(time.RFC3339)
	return &ir.IdentifierMap{
		Version:     CurrentVersion,
		StackName:   stackName,
		Environment: environment,
		CreatedAt:   now,
		UpdatedAt:   now,
		Mappings:    map[string]*ir.IdentifierMapping{},
		DriftAvoidance: ir.DriftAvoidanceConfig{
			EnableDeterministicNaming: true,
			PreserveResourceOrder:     true,
			ValidateBeforeApply:       true,
		},
	}
}

// Validate performs a structural check plus duplicate-originalId detection.
// It never panics and never returns a Go error; callers inspect the result.
func Validate(m *ir.IdentifierMap) ir.ValidationResult {
	var errs []string

	if m == nil {
		return ir.ValidationResult{Valid: false, Errors: []string{"identifier map is nil"}}
	}
	if m.Version < 1 {
		errs = append(errs, fmt.Sprintf("unsupported document version %d", m.Version))
	}
	if m.StackName == "" {
		errs = append(errs, "stackName must not be empty")
	}

	for _, key := range sortedKeys(m.Mappings) {
		mp := m.Mappings[key]
		if mp == nil {
			errs = append(errs, fmt.Sprintf("mapping %q is null", key))
			continue
		}
		if mp.NewID == "" {
			errs = append(errs, fmt.Sprintf("mapping %q has no newId", key))
		} else if mp.NewID != key {
			errs = append(errs, fmt.Sprintf("mapping key %q disagrees with its newId %q", key, mp.NewID))
		}
		if mp.OriginalID == "" {
			errs = append(errs, fmt.Sprintf("mapping %q has no originalId", key))
		}
		if mp.ResourceType == "" {
			errs = append(errs, fmt.Sprintf("mapping %q has no resourceType", key))
		}
		if mp.Strategy != "" && !mp.Strategy.Known() {
			errs = append(errs, fmt.Sprintf("mapping %q has unknown preservationStrategy %q", key, mp.Strategy))
		}
	}

	errs = append(errs, DetectConflicts(m)...)

	return ir.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// DetectConflicts returns one human-readable line per originalId claimed by
// more than one mapping. Output order is deterministic.
func DetectConflicts(m *ir.IdentifierMap) []string {
	if m == nil || len(m.Mappings) == 0 {
		return nil
	}

	claims := make(map[string][]string)
	for key, mp := range m.Mappings {
		if mp == nil || mp.OriginalID == "" {
			continue
		}
		claims[mp.OriginalID] = append(claims[mp.OriginalID], key)
	}

	var conflicts []string
	for _, orig := range sortedKeys(claims) {
		keys := claims[orig]
		if len(keys) < 2 {
			continue
		}
		sort.Strings(keys)
		conflicts = append(conflicts,
			fmt.Sprintf("originalId %q is claimed by multiple mappings: %s", orig, strings.Join(keys, ", ")))
	}
	return conflicts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
