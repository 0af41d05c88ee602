package drift

import (
	"strings"

	"github.com/retain-io/retain/internal/ir"
)

// severityByType ranks the replacement risk for known resource types, both
// CloudFormation-style names and the platform's short names. Stateful types
// (replacement destroys data) rank high or critical; compute and routing rank
// medium; identity and plumbing rank low.
var severityByType = map[string]ir.Severity{
	// Databases and tabular stores: replacement is unrecoverable data loss.
	"AWS::RDS::DBInstance":                ir.SeverityCritical,
	"AWS::RDS::DBCluster":                 ir.SeverityCritical,
	"AWS::DynamoDB::Table":                ir.SeverityCritical,
	"AWS::DynamoDB::GlobalTable":          ir.SeverityCritical,
	"AWS::Redshift::Cluster":              ir.SeverityCritical,
	"AWS::DocDB::DBCluster":               ir.SeverityCritical,
	"AWS::Neptune::DBCluster":             ir.SeverityCritical,
	"AWS::Timestream::Table":              ir.SeverityCritical,
	"Database":                            ir.SeverityCritical,
	"Table":                               ir.SeverityCritical,

	// Object/file storage, durable queues and streams, secrets.
	"AWS::S3::Bucket":                     ir.SeverityHigh,
	"AWS::EFS::FileSystem":                ir.SeverityHigh,
	"AWS::SQS::Queue":                     ir.SeverityHigh,
	"AWS::Kinesis::Stream":                ir.SeverityHigh,
	"AWS::MSK::Cluster":                   ir.SeverityHigh,
	"AWS::ElastiCache::ReplicationGroup":  ir.SeverityHigh,
	"AWS::SecretsManager::Secret":         ir.SeverityHigh,
	"AWS::Backup::BackupVault":            ir.SeverityHigh,
	"AWS::ECR::Repository":                ir.SeverityHigh,
	"Bucket":                              ir.SeverityHigh,
	"FileSystem":                          ir.SeverityHigh,
	"Queue":                               ir.SeverityHigh,
	"Stream":                              ir.SeverityHigh,

	// Compute and routing: replacement is disruptive but reconstructible.
	"AWS::Lambda::Function":               ir.SeverityMedium,
	"AWS::ECS::Service":                   ir.SeverityMedium,
	"AWS::ApiGateway::RestApi":            ir.SeverityMedium,
	"AWS::ApiGatewayV2::Api":              ir.SeverityMedium,
	"AWS::CloudFront::Distribution":       ir.SeverityMedium,
	"AWS::ElasticLoadBalancingV2::LoadBalancer": ir.SeverityMedium,
	"AWS::Route53::RecordSet":             ir.SeverityMedium,
	"AWS::SNS::Topic":                     ir.SeverityMedium,
	"AWS::Events::Rule":                   ir.SeverityMedium,
	"AWS::StepFunctions::StateMachine":    ir.SeverityMedium,
	"Function":                            ir.SeverityMedium,
	"Api":                                 ir.SeverityMedium,
	"Service":                             ir.SeverityMedium,

	// Identity and plumbing.
	"AWS::IAM::Role":                      ir.SeverityLow,
	"AWS::IAM::Policy":                    ir.SeverityLow,
	"AWS::EC2::SecurityGroup":             ir.SeverityLow,
	"AWS::Logs::LogGroup":                 ir.SeverityLow,
	"AWS::SSM::Parameter":                 ir.SeverityLow,
	"Role":                                ir.SeverityLow,
	"Policy":                              ir.SeverityLow,
}

// statefulHints classify unknown types by name when no table entry matches.
var statefulHints = []struct {
	substr   string
	severity ir.Severity
}{
	{"database", ir.SeverityCritical},
	{"table", ir.SeverityCritical},
	{"cluster", ir.SeverityHigh},
	{"bucket", ir.SeverityHigh},
	{"filesystem", ir.SeverityHigh},
	{"queue", ir.SeverityHigh},
	{"stream", ir.SeverityHigh},
	{"volume", ir.SeverityHigh},
	{"secret", ir.SeverityHigh},
}

// Classify returns the replacement-risk severity for a resource type.
// Unknown types without a stateful hint default to low.
func Classify(resourceType string) ir.Severity {
	if sev, ok := severityByType[resourceType]; ok {
		return sev
	}
	lower := strings.ToLower(resourceType)
	for _, hint := range statefulHints {
		if strings.Contains(lower, hint.substr) {
			return hint.severity
		}
	}
	return ir.SeverityLow
}

// Stateful reports whether replacing a resource of this type destroys data.
func Stateful(resourceType string) bool {
	return Classify(resourceType).AtLeast(ir.SeverityHigh)
}
