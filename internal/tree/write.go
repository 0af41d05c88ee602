package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retain-io/retain/internal/ir"
)

// MarshalJSON renders the tree in the flat JSON form, keeping sibling order.
// Property maps are emitted with sorted keys, so the output is deterministic.
func MarshalJSON(t *ir.ResourceTree) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	for i, id := range t.IDs() {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")

		key, err := json.Marshal(id)
		if err != nil {
			return nil, fmt.Errorf("failed to encode identifier %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteString(": ")

		rec, _ := t.Get(id)
		val, err := json.MarshalIndent(rec, "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode resource %q: %w", id, err)
		}
		buf.Write(val)
	}

	if t.Len() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// WriteJSON persists the tree to path in the flat JSON form.
func WriteJSON(t *ir.ResourceTree, path string) error {
	data, err := MarshalJSON(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write resource tree %s: %w", path, err)
	}
	return nil
}
