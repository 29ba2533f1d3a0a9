package report

import (
	"fmt"
	"strings"

	"github.com/audittrail/audittrail/pkg/domain"
)

// SectionKind identifies a logical report section.
type SectionKind string

const (
	SectionHeader     SectionKind = "header"
	SectionDomain     SectionKind = "domain"
	SectionAnswers    SectionKind = "answers"
	SectionConsensus  SectionKind = "consensus"
	SectionTable      SectionKind = "table"
	SectionCritique   SectionKind = "critique"
	SectionDisclaimer SectionKind = "disclaimer"
	SectionClosing    SectionKind = "closing"
)

// Section is one logical block of the report, rendered in order.
type Section struct {
	Kind  SectionKind
	Title string
	Body  string
}

const (
	banner       = "============================================================"
	divider      = "------------------------------------------------------------"
	questionCut  = 200
	answerCut    = 280
	closingText  = "AuditTrail reports reflect model self-assessment, not ground truth.\nVerify critical answers independently."
)

var domainDisclaimers = map[domain.Domain]string{
	domain.DomainMedical:   "This is not medical advice. Consult a licensed healthcare professional before acting on any of the above.",
	domain.DomainLegal:     "This is not legal advice. Consult a qualified attorney for guidance on your specific situation.",
	domain.DomainFinancial: "This is not financial advice. Consult a licensed financial advisor before making investment decisions.",
}

// Build assembles the ordered section list for a report. It is a pure
// function of its input and always produces a complete section list,
// labelling failed providers distinctly rather than hiding them.
func Build(rep *domain.Report) []Section {
	sections := []Section{
		{
			Kind:  SectionHeader,
			Title: "AUDITTRAIL TRANSPARENCY REPORT",
			Body:  fmt.Sprintf(">>> QUESTION:\n%s", truncate(rep.Question, questionCut)),
		},
		{
			Kind:  SectionDomain,
			Title: "DOMAIN",
			Body:  fmt.Sprintf("Domain: %s | Risk level: %s", rep.Tag.Domain, rep.Tag.Risk),
		},
		{
			Kind:  SectionAnswers,
			Title: "PROVIDER ANSWERS",
			Body:  renderAnswers(rep.Results),
		},
	}

	if rep.Summary != nil {
		sections = append(sections, Section{
			Kind:  SectionConsensus,
			Title: "CONSENSUS METRICS",
			Body: fmt.Sprintf(
				"Average confidence: %s%%\nMin: %s%%  Max: %s%%  Spread: %s\nAgreement: %s",
				formatConfidence(rep.Summary.Average),
				formatConfidence(rep.Summary.Min),
				formatConfidence(rep.Summary.Max),
				formatConfidence(rep.Summary.Spread),
				rep.Summary.Tier),
		})
	} else {
		sections = append(sections, Section{
			Kind:  SectionConsensus,
			Title: "CONSENSUS METRICS",
			Body:  "No consensus available: every provider failed.",
		})
	}

	sections = append(sections, Section{
		Kind:  SectionTable,
		Title: "CONFIDENCE TABLE",
		Body:  ConfidenceTable(rep.Results),
	})

	if rep.Summary != nil {
		best := rep.Results[rep.Summary.BestIndex]
		sections = append(sections, Section{
			Kind:  SectionCritique,
			Title: fmt.Sprintf("AUDIT DETAIL (%s)", best.Provider),
			Body: fmt.Sprintf(
				"[ Analysis Logic ]\n%s\n\n[ Uncertainty Areas ]\n%s\n\n[ Risks If Incorrect ]\n%s\n\n[ Alternative Interpretation ]\n%s",
				orNone(best.Verdict.Critique),
				orNone(best.Verdict.Uncertainty),
				orNone(best.Verdict.Risk),
				orNone(best.Verdict.Alternative)),
		})
	}

	if disclaimer, ok := domainDisclaimers[rep.Tag.Domain]; ok {
		sections = append(sections, Section{
			Kind:  SectionDisclaimer,
			Title: "DISCLAIMER",
			Body:  disclaimer,
		})
	}

	sections = append(sections, Section{
		Kind:  SectionClosing,
		Title: "ABOUT THIS REPORT",
		Body:  closingText,
	})

	return sections
}

// Render builds the report sections and serializes them as plain text.
func Render(rep *domain.Report) string {
	return RenderText(Build(rep))
}

// RenderText serializes an ordered section list into the plain-text
// report format.
func RenderText(sections []Section) string {
	var b strings.Builder

	for i, s := range sections {
		if i == 0 {
			b.WriteString(banner + "\n")
			b.WriteString(centerTitle(s.Title) + "\n")
			b.WriteString(banner + "\n\n")
		} else {
			b.WriteString(divider + "\n")
			b.WriteString(">>> " + s.Title + "\n\n")
		}
		b.WriteString(s.Body)
		b.WriteString("\n\n")
	}

	b.WriteString(banner + "\n")
	return b.String()
}

func renderAnswers(results []domain.ProviderResult) string {
	var parts []string
	for _, r := range results {
		if r.Success {
			parts = append(parts, fmt.Sprintf("[%s / %s]\n%s",
				r.Provider, r.Model, truncate(r.Answer, answerCut)))
		} else {
			parts = append(parts, fmt.Sprintf("[%s / %s]\nFAILED (%s): %s",
				r.Provider, r.Model, r.ErrorKind, r.Error))
		}
	}
	return strings.Join(parts, "\n\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "... (truncated)"
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none reported)"
	}
	return s
}

func centerTitle(title string) string {
	pad := (len(banner) - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + title
}
