package consensus

import (
	"github.com/audittrail/audittrail/pkg/domain"
)

// Agreement tier thresholds on the confidence spread (max - min).
const (
	spreadHighMax     = 20.0
	spreadModerateMax = 40.0
)

// Reduce aggregates the successful results into a consensus summary.
// Failed results are excluded from the statistics but remain visible to
// the caller for reporting. Returns domain.ErrAllProvidersFailed when no
// result succeeded; a zero-valued summary is never emitted.
func Reduce(results []domain.ProviderResult) (*domain.ConsensusSummary, error) {
	var (
		count     int
		sum       float64
		min, max  float64
		bestIndex = -1
	)

	for i, r := range results {
		if !r.Success {
			continue
		}

		conf := r.Verdict.Confidence
		if count == 0 {
			min, max = conf, conf
		} else {
			if conf < min {
				min = conf
			}
			if conf > max {
				max = conf
			}
		}

		// Best result: maximum confidence, first in input order on ties.
		if bestIndex < 0 || conf > results[bestIndex].Verdict.Confidence {
			bestIndex = i
		}

		sum += conf
		count++
	}

	if count == 0 {
		return nil, domain.ErrAllProvidersFailed
	}

	spread := max - min

	return &domain.ConsensusSummary{
		Average:   sum / float64(count),
		Min:       min,
		Max:       max,
		Spread:    spread,
		Tier:      tierForSpread(spread),
		BestIndex: bestIndex,
	}, nil
}

// tierForSpread maps a confidence spread to an agreement tier.
func tierForSpread(spread float64) domain.AgreementTier {
	switch {
	case spread < spreadHighMax:
		return domain.AgreementHigh
	case spread < spreadModerateMax:
		return domain.AgreementModerate
	default:
		return domain.AgreementLow
	}
}
