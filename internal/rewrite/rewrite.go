package rewrite

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/retain-io/retain/internal/ir"
)

// Rewriter renames mapped resources back to their original identifiers and
// repairs every reference to them. It is a pure tree transform: inputs are
// never mutated, and re-running it on its own output is a no-op because the
// substitution table only matches synthesized identifiers, which no longer
// occur after the first pass.
type Rewriter struct {
	logger    *slog.Logger
	rewriters []RefRewriter
}

func New(logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{
		logger:    logger,
		rewriters: defaultRefRewriters(),
	}
}

// Register adds a reference rewriter for an additional reference shape.
// Registered shapes take precedence over the built-in ones.
func (r *Rewriter) Register(rw RefRewriter) {
	r.rewriters = append([]RefRewriter{rw}, r.rewriters...)
}

// Applied records one substitution that was actually performed.
type Applied struct {
	NewID      string
	OriginalID string
}

// Skip records one mapping that was not applied, and why.
type Skip struct {
	NewID  string
	Reason string
}

// Stats summarizes one rewrite pass.
type Stats struct {
	Applied []Applied
	Skipped []Skip
}

func (s Stats) AppliedCount() int { return len(s.Applied) }
func (s Stats) SkippedCount() int { return len(s.Skipped) }

// OriginalIDs returns the post-rewrite identifiers of all applied mappings.
func (s Stats) OriginalIDs() []string {
	out := make([]string, len(s.Applied))
	for i, a := range s.Applied {
		out[i] = a.OriginalID
	}
	return out
}

// NewIDs returns the synthesized identifiers of all applied mappings.
func (s Stats) NewIDs() []string {
	out := make([]string, len(s.Applied))
	for i, a := range s.Applied {
		out[i] = a.NewID
	}
	return out
}

// BuildSubstitutions derives the newId->originalId table from the mappings
// that can actually be applied to this tree. A mapping is skipped when its
// newId is absent from the tree, when its recorded resourceType disagrees
// with the actual node type (surfaced, never coerced into a rename), when its
// strategy has no implemented semantics, or when its originalId would collide
// with an identifier already present in the tree.
func BuildSubstitutions(tree *ir.ResourceTree, m *ir.IdentifierMap) (map[string]string, []Skip) {
	subs := make(map[string]string)
	var skipped []Skip

	if m == nil || len(m.Mappings) == 0 {
		return subs, skipped
	}

	keys := make([]string, 0, len(m.Mappings))
	for k := range m.Mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, newID := range keys {
		mp := m.Mappings[newID]
		if mp == nil {
			skipped = append(skipped, Skip{NewID: newID, Reason: "mapping entry is null"})
			continue
		}
		if mp.Strategy != "" && !mp.Strategy.Implemented() {
			skipped = append(skipped, Skip{
				NewID:  newID,
				Reason: fmt.Sprintf("preservation strategy %q is not implemented", mp.Strategy),
			})
			continue
		}
		rec, ok := tree.Get(newID)
		if !ok {
			skipped = append(skipped, Skip{NewID: newID, Reason: "identifier not present in tree"})
			continue
		}
		if rec.Type != mp.ResourceType {
			skipped = append(skipped, Skip{
				NewID: newID,
				Reason: fmt.Sprintf("resource type mismatch: mapping declares %q but tree node is %q",
					mp.ResourceType, rec.Type),
			})
			continue
		}
		if mp.OriginalID != newID && tree.Has(mp.OriginalID) {
			skipped = append(skipped, Skip{
				NewID:  newID,
				Reason: fmt.Sprintf("original identifier %q already exists in tree", mp.OriginalID),
			})
			continue
		}
		subs[newID] = mp.OriginalID
	}

	return subs, skipped
}

// Apply returns a new tree in which every applicable mapping has been
// substituted: mapped entries are re-keyed to their original identifiers and
// all references to them are repaired. The output is identical to the input
// except for identifier substitutions.
func (r *Rewriter) Apply(tree *ir.ResourceTree, m *ir.IdentifierMap) (*ir.ResourceTree, Stats) {
	subs, skipped := BuildSubstitutions(tree, m)
	stats := Stats{Skipped: skipped}

	out := ir.NewResourceTree()

	// Pass 1: rename. Relative sibling positions are preserved.
	for _, id := range tree.IDs() {
		rec, _ := tree.Get(id)
		key := id
		if orig, ok := subs[id]; ok {
			key = orig
			stats.Applied = append(stats.Applied, Applied{NewID: id, OriginalID: orig})
			r.logger.Debug("preserving identifier", "synthesized", id, "original", orig, "type", rec.Type)
		}
		out.Put(key, &ir.ResourceRecord{
			Type:       rec.Type,
			Properties: ir.CopyValue(rec.Properties).(map[string]any),
		})
	}

	if m != nil && !m.DriftAvoidance.PreserveResourceOrder {
		out.SortIDs()
	}

	// Pass 2: reference repair, at every nesting depth.
	if len(subs) > 0 {
		for _, id := range out.IDs() {
			rec, _ := out.Get(id)
			rec.Properties = r.rewriteValue(rec.Properties, subs).(map[string]any)
		}
	}

	r.logger.Debug("rewrite complete",
		"applied", stats.AppliedCount(), "skipped", stats.SkippedCount(), "resources", out.Len())
	return out, stats
}

// rewriteValue walks a property value depth-first. The first registered
// rewriter that recognizes the node's shape handles it; unrecognized maps and
// slices are recursed into, scalars pass through untouched.
func (r *Rewriter) rewriteValue(v any, subs map[string]string) any {
	for _, rw := range r.rewriters {
		if out, ok := rw.Rewrite(v, subs); ok {
			return out
		}
	}

	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = r.rewriteValue(item, subs)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.rewriteValue(item, subs)
		}
		return out
	default:
		return val
	}
}
