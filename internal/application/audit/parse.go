package audit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/audittrail/audittrail/pkg/domain"
)

// rawVerdict mirrors domain.AuditVerdict but tolerates the confidence
// field arriving as a number, a quoted number, or "85%".
type rawVerdict struct {
	Confidence  json.RawMessage `json:"confidence_percentage"`
	Critique    string          `json:"what_might_be_wrong"`
	Uncertainty string          `json:"uncertainty_areas"`
	Risk        string          `json:"risk_if_incorrect"`
	Alternative string          `json:"alternative_interpretation"`
}

// ParseVerdict decodes a model reply into an AuditVerdict. It tries, in
// order: a strict decode of the whole reply, a decode after stripping
// markdown code fences, and a decode of the first balanced brace block
// found in the text. Anything beyond that is a malformed response.
func ParseVerdict(reply string) (domain.AuditVerdict, error) {
	candidates := []string{strings.TrimSpace(reply)}

	if stripped := stripFences(reply); stripped != "" {
		candidates = append(candidates, stripped)
	}
	if block := firstBraceBlock(reply); block != "" {
		candidates = append(candidates, block)
	}

	var lastErr error
	for _, candidate := range candidates {
		verdict, err := decodeVerdict(candidate)
		if err == nil {
			return verdict, nil
		}
		lastErr = err
	}

	return domain.AuditVerdict{}, fmt.Errorf("no parseable verdict in reply: %w", lastErr)
}

func decodeVerdict(s string) (domain.AuditVerdict, error) {
	var raw rawVerdict
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return domain.AuditVerdict{}, err
	}
	if len(raw.Confidence) == 0 {
		return domain.AuditVerdict{}, fmt.Errorf("missing confidence_percentage")
	}

	conf, err := parseConfidence(raw.Confidence)
	if err != nil {
		return domain.AuditVerdict{}, err
	}

	return domain.AuditVerdict{
		Confidence:  clampConfidence(conf),
		Critique:    raw.Critique,
		Uncertainty: raw.Uncertainty,
		Risk:        raw.Risk,
		Alternative: raw.Alternative,
	}, nil
}

// parseConfidence accepts 85, "85", or "85%".
func parseConfidence(raw json.RawMessage) (float64, error) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, fmt.Errorf("confidence_percentage is neither number nor string")
	}

	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable confidence_percentage %q", str)
	}
	return num, nil
}

func clampConfidence(conf float64) float64 {
	if conf < 0 {
		return 0
	}
	if conf > 100 {
		return 100
	}
	return conf
}

// stripFences removes a leading ```json (or bare ```) fence and its
// closing fence, returning the inner text.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return ""
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// firstBraceBlock returns the first balanced {...} block in the text,
// skipping braces inside JSON string literals.
func firstBraceBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
