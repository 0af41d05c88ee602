package eval

import (
	"context"
	"fmt"

	"github.com/apple/pkl-go/pkl"

	"github.com/retain-io/retain/internal/ir"
)

// Evaluator loads PKL resource manifests into a resource tree. It is the
// alternative input path for platforms that author their synthesized trees as
// PKL modules instead of JSON/YAML documents.
type Evaluator struct {
	projectDir string
}

func NewEvaluator(projectDir string) *Evaluator {
	return &Evaluator{projectDir: projectDir}
}

// manifest mirrors the PKL module shape: an ordered listing of resources.
type manifest struct {
	Resources []*manifestResource `pkl:"resources"`
}

type manifestResource struct {
	ID         string         `pkl:"id"`
	Type       string         `pkl:"type"`
	Properties map[string]any `pkl:"properties"`
}

// LoadTree evaluates the manifest module and returns its resource tree.
// Listing order becomes sibling order.
func (e *Evaluator) LoadTree(ctx context.Context, entryPoint string) (*ir.ResourceTree, error) {
	evaluator, err := pkl.NewEvaluator(ctx, pkl.PreconfiguredOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create PKL evaluator: %w", err)
	}
	defer evaluator.Close()

	var doc manifest
	if err := evaluator.EvaluateModule(ctx, pkl.FileSource(entryPoint), &doc); err != nil {
		return nil, fmt.Errorf("failed to evaluate manifest: %w", err)
	}

	t := ir.NewResourceTree()
	for _, res := range doc.Resources {
		if res == nil || res.ID == "" {
			return nil, fmt.Errorf("manifest contains a resource without an id")
		}
		if t.Has(res.ID) {
			return nil, fmt.Errorf("manifest declares identifier %q twice", res.ID)
		}
		props := res.Properties
		if props == nil {
			props = map[string]any{}
		}
		t.Put(res.ID, &ir.ResourceRecord{
			Type:       res.Type,
			Properties: ir.CopyValue(props).(map[string]any),
		})
	}

	return t, nil
}
