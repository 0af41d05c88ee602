package tree

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/retain-io/retain/internal/ir"
)

// Load reads a synthesized resource tree from disk. Both JSON and YAML
// documents are accepted (JSON is parsed through the YAML reader so that
// sibling order survives), in either the flat form
//
//	{"<id>": {"type": "...", "properties": {...}}, ...}
//
// or the template form
//
//	{"Resources": {"<id>": {"Type": "...", "Properties": {...}}, ...}}
func Load(path string) (*ir.ResourceTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource tree %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resource tree %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a resource tree document, preserving top-level sibling order.
func Parse(data []byte) (*ir.ResourceTree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root must be a mapping")
	}

	// Template form nests the resources under a "Resources" section.
	if section := mappingValue(root, "Resources"); section != nil {
		if section.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("Resources section must be a mapping")
		}
		return parseEntries(section, "Type", "Properties")
	}

	return parseEntries(root, "type", "properties")
}

func parseEntries(node *yaml.Node, typeKey, propsKey string) (*ir.ResourceTree, error) {
	t := ir.NewResourceTree()

	for i := 0; i+1 < len(node.Content); i += 2 {
		id := node.Content[i].Value
		entry := node.Content[i+1]
		if entry.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("resource %q must be a mapping", id)
		}

		rec := &ir.ResourceRecord{Properties: map[string]any{}}

		typeNode := mappingValue(entry, typeKey)
		if typeNode == nil {
			return nil, fmt.Errorf("resource %q has no %s field", id, typeKey)
		}
		rec.Type = typeNode.Value

		if propsNode := mappingValue(entry, propsKey); propsNode != nil {
			var props map[string]any
			if err := propsNode.Decode(&props); err != nil {
				return nil, fmt.Errorf("resource %q has invalid %s: %w", id, propsKey, err)
			}
			if props != nil {
				rec.Properties = props
			}
		}

		t.Put(id, rec)
	}

	return t, nil
}

// mappingValue returns the value node for a key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
