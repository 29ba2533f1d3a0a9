package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/audittrail/audittrail/pkg/domain"
)

// ConfidencePair is one row of the per-provider confidence table.
type ConfidencePair struct {
	Provider   string
	Confidence float64
}

// tableRow matches "provider   95%" with optional fractional digits.
var tableRow = regexp.MustCompile(`^\s*(\S+)\s+(\d+(?:\.\d+)?)%`)

// ConfidenceTable renders the per-provider confidence rows. Successful
// providers show their confidence percentage; failed ones a distinct
// FAILED marker so parsing recovers exactly the successful set.
func ConfidenceTable(results []domain.ProviderResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.Success {
			fmt.Fprintf(&b, "%-16s %s%%\n", r.Provider, formatConfidence(r.Verdict.Confidence))
		} else {
			fmt.Fprintf(&b, "%-16s FAILED (%s)\n", r.Provider, r.ErrorKind)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ParseConfidenceTable recovers the (provider, confidence) pairs from a
// rendered confidence table. Failed-provider rows carry no percentage
// and are skipped.
func ParseConfidenceTable(table string) []ConfidencePair {
	var pairs []ConfidencePair
	for _, line := range strings.Split(table, "\n") {
		m := tableRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		conf, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		pairs = append(pairs, ConfidencePair{Provider: m[1], Confidence: conf})
	}
	return pairs
}

// formatConfidence renders a confidence without a trailing ".0" so the
// table round-trips cleanly.
func formatConfidence(conf float64) string {
	return strconv.FormatFloat(conf, 'f', -1, 64)
}
