package classify

import (
	"strings"

	"github.com/audittrail/audittrail/pkg/domain"
)

// domainKeywords pairs a domain with the keyword set that selects it.
// Order matters: the first domain with a matching keyword wins.
type domainKeywords struct {
	domain   domain.Domain
	risk     domain.RiskLevel
	keywords []string
}

var priority = []domainKeywords{
	{
		domain: domain.DomainMedical,
		risk:   domain.RiskHigh,
		keywords: []string{
			"medical", "medicine", "symptom", "diagnosis", "disease",
			"treatment", "dosage", "drug", "prescription", "vaccine",
			"cancer", "surgery", "doctor", "patient", "health",
		},
	},
	{
		domain: domain.DomainLegal,
		risk:   domain.RiskHigh,
		keywords: []string{
			"legal", "law", "lawsuit", "contract", "liability",
			"copyright", "patent", "regulation", "compliance", "court",
			"attorney", "statute", "gdpr",
		},
	},
	{
		domain: domain.DomainFinancial,
		risk:   domain.RiskHigh,
		keywords: []string{
			"invest", "stock", "portfolio", "mortgage", "loan",
			"interest rate", "tax", "crypto", "financial", "retirement",
		},
	},
	{
		domain: domain.DomainCode,
		risk:   domain.RiskMedium,
		keywords: []string{
			"code", "function", "bug", "compile", "variable", "api",
			"sql", "regex", "thread", "pointer", "golang", "python",
			"javascript", "algorithm", "buffer overflow", "injection",
		},
	},
	{
		domain: domain.DomainMath,
		risk:   domain.RiskLow,
		keywords: []string{
			"math", "equation", "calculate", "integral", "derivative",
			"probability", "theorem", "sum", "average", "percentage",
			"+", "-", "*", "/", "=",
		},
	},
}

// Classifier tags questions with a topical domain and risk level.
type Classifier struct{}

// NewClassifier creates a new domain classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify inspects the question text for keyword membership and returns
// the first matching domain in priority order. It never fails: questions
// matching nothing are tagged GENERAL with low risk.
func (c *Classifier) Classify(question string) domain.DomainTag {
	lower := strings.ToLower(question)

	for _, dk := range priority {
		for _, kw := range dk.keywords {
			if strings.Contains(lower, kw) {
				return domain.DomainTag{Domain: dk.domain, Risk: dk.risk}
			}
		}
	}

	return domain.DomainTag{Domain: domain.DomainGeneral, Risk: domain.RiskLow}
}
