package ir

// Severity ranks the replacement risk of an unmapped resource.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the ordering of a severity; unknown values rank lowest.
func (s Severity) Rank() int {
	return severityRank[s]
}

// AtLeast reports whether s is as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// DriftEntry flags one resource that would be replaced on the next
// deployment because its identifier is synthesizer-generated.
type DriftEntry struct {
	ResourceID   string   `json:"resourceId"`
	ResourceType string   `json:"resourceType"`
	Severity     Severity `json:"severity"`
	Reason       string   `json:"reason"`
}

type DriftSummary struct {
	TotalResources    int `json:"totalResources"`
	MappedResources   int `json:"mappedResources"`
	UnmappedResources int `json:"unmappedResources"`
}

type RecommendedAction struct {
	ActionType string `json:"actionType"`
	Target     string `json:"target"`
	Detail     string `json:"detail"`
}

type DriftReport struct {
	DetectedDrifts     []DriftEntry        `json:"detectedDrifts"`
	RiskLevel          Severity            `json:"riskLevel"`
	Summary            DriftSummary        `json:"summary"`
	RecommendedActions []RecommendedAction `json:"recommendedActions"`
}
