package adopt

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retain-io/retain/internal/identmap"
	"github.com/retain-io/retain/internal/ir"
)

type fakeStackResources struct {
	resources []cfntypes.StackResource
	err       error
}

func (f *fakeStackResources) DescribeStackResources(ctx context.Context, params *cloudformation.DescribeStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackResourcesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &cloudformation.DescribeStackResourcesOutput{StackResources: f.resources}, nil
}

func deployed(logicalID, resourceType string) cfntypes.StackResource {
	return cfntypes.StackResource{
		LogicalResourceId: aws.String(logicalID),
		ResourceType:      aws.String(resourceType),
	}
}

func TestAdoptStack_WithoutTree(t *testing.T) {
	client := &fakeStackResources{resources: []cfntypes.StackResource{
		deployed("ProdOrdersTable", "AWS::DynamoDB::Table"),
		deployed("ProdApiFn", "AWS::Lambda::Function"),
	}}

	m, unmatched, err := NewAdopter(client, nil).AdoptStack(context.Background(), "orders-prod", "prod", nil)
	require.NoError(t, err)
	assert.Empty(t, unmatched)

	assert.Equal(t, "orders-prod", m.StackName)
	assert.Equal(t, "prod", m.Environment)
	require.Len(t, m.Mappings, 2)

	// Without a synthesized tree the mapping is keyed by the deployed
	// logical ID, to be re-keyed once the first synthesis exists.
	mp := m.Mappings["ProdOrdersTable"]
	require.NotNil(t, mp)
	assert.Equal(t, "ProdOrdersTable", mp.OriginalID)
	assert.Equal(t, "AWS::DynamoDB::Table", mp.ResourceType)
	assert.Equal(t, ir.StrategyExactMatch, mp.Strategy)

	assert.True(t, identmap.Validate(m).Valid)
}

func TestAdoptStack_MatchesByType(t *testing.T) {
	client := &fakeStackResources{resources: []cfntypes.StackResource{
		deployed("ProdOrdersTable", "AWS::DynamoDB::Table"),
		deployed("ProdApiFn", "AWS::Lambda::Function"),
	}}

	synth := ir.NewResourceTree()
	synth.Put("OrdersDb1", &ir.ResourceRecord{Type: "AWS::DynamoDB::Table", Properties: map[string]any{}})
	synth.Put("ApiFn1", &ir.ResourceRecord{Type: "AWS::Lambda::Function", Properties: map[string]any{}})

	m, unmatched, err := NewAdopter(client, nil).AdoptStack(context.Background(), "orders-prod", "prod", synth)
	require.NoError(t, err)
	assert.Empty(t, unmatched)

	mp := m.Mappings["OrdersDb1"]
	require.NotNil(t, mp)
	assert.Equal(t, "ProdOrdersTable", mp.OriginalID)
	assert.Equal(t, "OrdersDb1", mp.NewID)

	mp = m.Mappings["ApiFn1"]
	require.NotNil(t, mp)
	assert.Equal(t, "ProdApiFn", mp.OriginalID)
}

func TestAdoptStack_AmbiguousTypesAreUnmatched(t *testing.T) {
	client := &fakeStackResources{resources: []cfntypes.StackResource{
		deployed("ProdFnA", "AWS::Lambda::Function"),
		deployed("ProdTable", "AWS::DynamoDB::Table"),
	}}

	// Two synthesized functions: no unambiguous match for ProdFnA.
	synth := ir.NewResourceTree()
	synth.Put("FnA1", &ir.ResourceRecord{Type: "AWS::Lambda::Function", Properties: map[string]any{}})
	synth.Put("FnB1", &ir.ResourceRecord{Type: "AWS::Lambda::Function", Properties: map[string]any{}})
	synth.Put("Db1", &ir.ResourceRecord{Type: "AWS::DynamoDB::Table", Properties: map[string]any{}})

	m, unmatched, err := NewAdopter(client, nil).AdoptStack(context.Background(), "orders-prod", "", synth)
	require.NoError(t, err)

	require.Len(t, unmatched, 1)
	assert.Contains(t, unmatched[0], "ProdFnA")
	assert.Contains(t, unmatched[0], "AWS::Lambda::Function")

	require.Len(t, m.Mappings, 1)
	assert.NotNil(t, m.Mappings["Db1"])
}

func TestAdoptStack_DescribeFails(t *testing.T) {
	client := &fakeStackResources{err: fmt.Errorf("stack not found")}

	_, _, err := NewAdopter(client, nil).AdoptStack(context.Background(), "missing", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
