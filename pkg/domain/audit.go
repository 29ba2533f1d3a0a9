package domain

import "time"

// Domain identifies the topical classification of a question.
type Domain string

const (
	DomainMedical   Domain = "MEDICAL"
	DomainLegal     Domain = "LEGAL"
	DomainFinancial Domain = "FINANCIAL"
	DomainCode      Domain = "CODE"
	DomainMath      Domain = "MATH"
	DomainGeneral   Domain = "GENERAL"
)

// RiskLevel describes how much harm a wrong answer can cause in a domain.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// DomainTag is the result of classifying a question.
type DomainTag struct {
	Domain Domain    `json:"domain"`
	Risk   RiskLevel `json:"risk"`
}

// AuditVerdict is the structured self-audit a provider returns for its
// own answer. Confidence is a percentage in [0, 100].
type AuditVerdict struct {
	Confidence  float64 `json:"confidence_percentage"`
	Critique    string  `json:"what_might_be_wrong"`
	Uncertainty string  `json:"uncertainty_areas"`
	Risk        string  `json:"risk_if_incorrect"`
	Alternative string  `json:"alternative_interpretation"`
}

// ProviderResult holds the outcome of one provider's answer+audit cycle.
// Exactly one of (Answer, Verdict) or (ErrorKind, Error) is meaningful,
// selected by Success.
type ProviderResult struct {
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	Answer    string            `json:"answer,omitempty"`
	Verdict   AuditVerdict      `json:"verdict,omitempty"`
	Success   bool              `json:"success"`
	ErrorKind ProviderErrorKind `json:"error_kind,omitempty"`
	Error     string            `json:"error,omitempty"`
	Latency   time.Duration     `json:"latency_ms"`
}

// AgreementTier buckets how tightly provider confidences cluster.
type AgreementTier string

const (
	AgreementHigh     AgreementTier = "HIGH"
	AgreementModerate AgreementTier = "MODERATE"
	AgreementLow      AgreementTier = "LOW"
)

// ConsensusSummary aggregates the confidence scores of the successful
// provider results for one question. It is undefined when no provider
// succeeded; callers must check for ErrAllProvidersFailed instead of
// reading zero values.
type ConsensusSummary struct {
	Average float64       `json:"average"`
	Min     float64       `json:"min"`
	Max     float64       `json:"max"`
	Spread  float64       `json:"spread"`
	Tier    AgreementTier `json:"tier"`

	// BestIndex points into the original result slice at the success
	// with the highest confidence (first wins on ties).
	BestIndex int `json:"best_index"`
}

// Report is the full outcome of one audit request.
type Report struct {
	ID        string            `json:"id"`
	Question  string            `json:"question"`
	Tag       DomainTag         `json:"tag"`
	Results   []ProviderResult  `json:"results"`
	Summary   *ConsensusSummary `json:"summary,omitempty"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"created_at"`
}
