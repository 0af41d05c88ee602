package drift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retain-io/retain/internal/ir"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		resourceType string
		want         ir.Severity
	}{
		{"AWS::DynamoDB::Table", ir.SeverityCritical},
		{"AWS::RDS::DBInstance", ir.SeverityCritical},
		{"Database", ir.SeverityCritical},
		{"AWS::S3::Bucket", ir.SeverityHigh},
		{"AWS::SQS::Queue", ir.SeverityHigh},
		{"AWS::Kinesis::Stream", ir.SeverityHigh},
		{"AWS::Lambda::Function", ir.SeverityMedium},
		{"Function", ir.SeverityMedium},
		{"AWS::IAM::Role", ir.SeverityLow},
		{"Custom::Widget", ir.SeverityLow},
		// Unknown types fall back to name hints.
		{"MyCo::Storage::PostgresDatabase", ir.SeverityCritical},
		{"MyCo::Messaging::WorkQueue", ir.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.resourceType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.resourceType))
		})
	}
}

func TestStateful(t *testing.T) {
	assert.True(t, Stateful("AWS::DynamoDB::Table"))
	assert.True(t, Stateful("AWS::S3::Bucket"))
	assert.False(t, Stateful("AWS::Lambda::Function"))
	assert.False(t, Stateful("AWS::IAM::Role"))
}

func TestAnalyze_EmptyMapFlagsEverything(t *testing.T) {
	tree := ir.NewResourceTree()
	tree.Put("OrdersDb", &ir.ResourceRecord{Type: "AWS::DynamoDB::Table", Properties: map[string]any{}})
	tree.Put("ApiFn", &ir.ResourceRecord{Type: "AWS::Lambda::Function", Properties: map[string]any{}})
	tree.Put("ApiRole", &ir.ResourceRecord{Type: "AWS::IAM::Role", Properties: map[string]any{}})

	report := NewAnalyzer(nil).Analyze(tree, nil)

	require.Len(t, report.DetectedDrifts, 3)
	assert.Equal(t, 3, report.Summary.TotalResources)
	assert.Equal(t, 0, report.Summary.MappedResources)
	assert.Equal(t, 3, report.Summary.UnmappedResources)

	byID := map[string]ir.DriftEntry{}
	for _, entry := range report.DetectedDrifts {
		byID[entry.ResourceID] = entry
	}

	dbSev := byID["OrdersDb"].Severity
	assert.True(t, dbSev == ir.SeverityHigh || dbSev == ir.SeverityCritical,
		"stateful resource must rank high or critical")
	assert.Equal(t, dbSev, report.RiskLevel, "risk level is the maximum observed severity")
	assert.Contains(t, byID["OrdersDb"].Reason, "stateful")
}

func TestAnalyze_CoveredResourcesAreSkipped(t *testing.T) {
	tree := ir.NewResourceTree()
	tree.Put("ProdOrdersTable", &ir.ResourceRecord{Type: "AWS::DynamoDB::Table", Properties: map[string]any{}})
	tree.Put("ApiFn", &ir.ResourceRecord{Type: "AWS::Lambda::Function", Properties: map[string]any{}})

	report := NewAnalyzer(nil).Analyze(tree, []string{"ProdOrdersTable"})

	require.Len(t, report.DetectedDrifts, 1)
	assert.Equal(t, "ApiFn", report.DetectedDrifts[0].ResourceID)
	assert.Equal(t, 1, report.Summary.MappedResources)
	assert.Equal(t, 1, report.Summary.UnmappedResources)
	assert.Equal(t, ir.SeverityMedium, report.RiskLevel)
}

func TestAnalyze_RecommendationsForStatefulOnly(t *testing.T) {
	tree := ir.NewResourceTree()
	tree.Put("OrdersDb", &ir.ResourceRecord{Type: "AWS::DynamoDB::Table", Properties: map[string]any{}})
	tree.Put("Assets", &ir.ResourceRecord{Type: "AWS::S3::Bucket", Properties: map[string]any{}})
	tree.Put("ApiFn", &ir.ResourceRecord{Type: "AWS::Lambda::Function", Properties: map[string]any{}})

	report := NewAnalyzer(nil).Analyze(tree, nil)

	require.Len(t, report.RecommendedActions, 2)
	targets := []string{report.RecommendedActions[0].Target, report.RecommendedActions[1].Target}
	assert.Contains(t, targets, "OrdersDb")
	assert.Contains(t, targets, "Assets")

	for _, action := range report.RecommendedActions {
		assert.Equal(t, "preserve", action.ActionType)
		assert.Contains(t, action.Detail, "add an identifier mapping")
	}
}

func TestAnalyze_AllMapped(t *testing.T) {
	tree := ir.NewResourceTree()
	tree.Put("ProdDb", &ir.ResourceRecord{Type: "AWS::DynamoDB::Table", Properties: map[string]any{}})

	report := NewAnalyzer(nil).Analyze(tree, []string{"ProdDb"})

	assert.Empty(t, report.DetectedDrifts)
	assert.Empty(t, report.RecommendedActions)
	assert.Equal(t, ir.SeverityLow, report.RiskLevel)
	assert.Equal(t, 1, report.Summary.MappedResources)
	assert.Equal(t, 0, report.Summary.UnmappedResources)
}

func TestAnalyze_EmptyTree(t *testing.T) {
	report := NewAnalyzer(nil).Analyze(ir.NewResourceTree(), nil)
	assert.Empty(t, report.DetectedDrifts)
	assert.Equal(t, 0, report.Summary.TotalResources)
	assert.Equal(t, ir.SeverityLow, report.RiskLevel)
}
