package ir

import (
	"fmt"
	"sort"
)

// ResourceRecord is a single synthesized resource: its type plus a nested,
// JSON-like property bag. Properties may embed references to other
// identifiers in the same tree.
type ResourceRecord struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// ResourceTree is an ordered mapping from synthesized identifier to resource
// record. Sibling order is significant and survives cloning and rewriting.
type ResourceTree struct {
	order   []string
	records map[string]*ResourceRecord
}

func NewResourceTree() *ResourceTree {
	return &ResourceTree{
		records: make(map[string]*ResourceRecord),
	}
}

// Put inserts or replaces a record. A new identifier is appended to the
// sibling order; an existing one keeps its position.
func (t *ResourceTree) Put(id string, rec *ResourceRecord) {
	if _, ok := t.records[id]; !ok {
		t.order = append(t.order, id)
	}
	t.records[id] = rec
}

func (t *ResourceTree) Get(id string) (*ResourceRecord, bool) {
	rec, ok := t.records[id]
	return rec, ok
}

func (t *ResourceTree) Has(id string) bool {
	_, ok := t.records[id]
	return ok
}

func (t *ResourceTree) Len() int {
	return len(t.records)
}

// IDs returns the identifiers in sibling order. The slice is a copy.
func (t *ResourceTree) IDs() []string {
	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}

// Clone returns a deep copy; mutating the copy never touches the original.
func (t *ResourceTree) Clone() *ResourceTree {
	out := NewResourceTree()
	for _, id := range t.order {
		rec := t.records[id]
		out.Put(id, &ResourceRecord{
			Type:       rec.Type,
			Properties: CopyValue(rec.Properties).(map[string]any),
		})
	}
	return out
}

// SortIDs rewrites the sibling order to be lexicographic.
func (t *ResourceTree) SortIDs() {
	sort.Strings(t.order)
}

// CopyValue deep-copies a JSON-like value (maps, slices, scalars).
func CopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[k] = CopyValue(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[fmt.Sprintf("%v", k)] = CopyValue(v)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = CopyValue(v)
		}
		return out
	default:
		return val
	}
}
