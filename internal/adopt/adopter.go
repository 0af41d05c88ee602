package adopt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/retain-io/retain/internal/identmap"
	"github.com/retain-io/retain/internal/ir"
)

// StackResourcesAPI is the slice of the CloudFormation client the adopter
// needs; tests substitute a fake.
type StackResourcesAPI interface {
	DescribeStackResources(ctx context.Context, params *cloudformation.DescribeStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackResourcesOutput, error)
}

// Adopter builds an identifier map from a deployed CloudFormation stack so
// that an existing deployment can be brought under management without
// destructive replacement. This is adoption tooling only; the planning core
// never talks to a cloud API.
type Adopter struct {
	client StackResourcesAPI
	logger *slog.Logger
}

func NewAdopter(client StackResourcesAPI, logger *slog.Logger) *Adopter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adopter{client: client, logger: logger}
}

// NewDefaultAdopter wires the adopter to the ambient AWS configuration.
func NewDefaultAdopter(ctx context.Context, logger *slog.Logger) (*Adopter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewAdopter(cloudformation.NewFromConfig(cfg), logger), nil
}

// AdoptStack reads the deployed stack's resources and returns an identifier
// map whose originalIds are the deployed logical IDs.
//
// When a synthesized tree is supplied, deployed resources are matched to
// synthesized ones by resource type where the match is unambiguous (exactly
// one resource of that type on each side); ambiguous resources are returned
// as unmatched so an operator can map them by hand. Without a tree, each
// mapping is keyed by the deployed logical ID itself, to be re-keyed once the
// first synthesis exists.
func (a *Adopter) AdoptStack(ctx context.Context, stackName, environment string, synthesized *ir.ResourceTree) (*ir.IdentifierMap, []string, error) {
	out, err := a.client.DescribeStackResources(ctx, &cloudformation.DescribeStackResourcesInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}

	m := identmap.Generate(stackName, environment)
	now := time.Now().UTC().Format(time.RFC3339)

	var unmatched []string
	for _, res := range out.StackResources {
		logicalID := aws.ToString(res.LogicalResourceId)
		resourceType := aws.ToString(res.ResourceType)
		if logicalID == "" {
			continue
		}

		newID := logicalID
		if synthesized != nil {
			matched, ok := matchByType(synthesized, resourceType)
			if !ok {
				unmatched = append(unmatched, fmt.Sprintf("%s (%s)", logicalID, resourceType))
				a.logger.Warn("no unambiguous synthesized match for deployed resource",
					"logicalId", logicalID, "type", resourceType)
				continue
			}
			newID = matched
		}

		m.Mappings[newID] = &ir.IdentifierMapping{
			OriginalID:   logicalID,
			NewID:        newID,
			ResourceType: resourceType,
			Strategy:     ir.StrategyExactMatch,
			Metadata:     ir.MappingMetadata{CreatedAt: now, UpdatedAt: now},
		}
	}

	a.logger.Info("stack adoption complete",
		"stack", stackName, "mapped", len(m.Mappings), "unmatched", len(unmatched))
	return m, unmatched, nil
}

// matchByType finds the synthesized identifier for a deployed resource type,
// but only when exactly one synthesized resource has that type.
func matchByType(tree *ir.ResourceTree, resourceType string) (string, bool) {
	var match string
	count := 0
	for _, id := range tree.IDs() {
		rec, _ := tree.Get(id)
		if rec.Type == resourceType {
			match = id
			count++
		}
	}
	return match, count == 1
}
