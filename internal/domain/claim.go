package domain

// ClaimType classifies a factual claim for verification priority.
type ClaimType string

const (
	ClaimTypeStatistic    ClaimType = "statistic"
	ClaimTypeDefinition   ClaimType = "definition"
	ClaimTypeRelationship ClaimType = "relationship"
	ClaimTypeGeneralFact  ClaimType = "general_fact"
)

// FactualClaim is an independently verifiable statement extracted from
// generated prose. Claims never outlive a single validation pass.
type FactualClaim struct {
	Text       string
	Type       ClaimType
	Confidence float64 // prior confidence assigned by the extractor
	Section    string  // which part of the document the claim came from
}

// FactCheckResult is the outcome of verifying a single claim against
// search evidence.
type FactCheckResult struct {
	Claim               FactualClaim
	IsValid             bool
	Confidence          float64
	SupportingEvidence  []SearchResult
	ConflictingEvidence []SearchResult
	Explanation         string
}

// IssueSeverity grades validation issues.
type IssueSeverity string

const (
	SeverityHigh   IssueSeverity = "high"
	SeverityMedium IssueSeverity = "medium"
	SeverityLow    IssueSeverity = "low"
)

// ValidationIssue flags one problem found during a validation pass.
type ValidationIssue struct {
	Type     string // e.g. "hallucination", "low_confidence"
	Severity IssueSeverity
	Claim    string
	Section  string
	Detail   string
}

// ValidationReport summarizes a full grounding pass over a document.
// It is a pure function of the claims and the evidence fetched at the
// time of the pass, immutable once returned.
type ValidationReport struct {
	IsValid           bool
	OverallConfidence float64
	Issues            []ValidationIssue
	Suggestions       []string
	ClaimsChecked     int
	ClaimsSkipped     int // claims not verified because the search cap was hit
}
