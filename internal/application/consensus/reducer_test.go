package consensus

import (
	"testing"

	"github.com/audittrail/audittrail/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func success(provider string, confidence float64) domain.ProviderResult {
	return domain.ProviderResult{
		Provider: provider,
		Success:  true,
		Verdict:  domain.AuditVerdict{Confidence: confidence},
	}
}

func failure(provider string) domain.ProviderResult {
	return domain.ProviderResult{
		Provider:  provider,
		Success:   false,
		ErrorKind: domain.ErrKindUpstream,
		Error:     "boom",
	}
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name        string
		results     []domain.ProviderResult
		wantAverage float64
		wantMin     float64
		wantMax     float64
		wantSpread  float64
		wantTier    domain.AgreementTier
		wantBest    int
	}{
		{
			name:        "tight cluster is high agreement",
			results:     []domain.ProviderResult{success("a", 80), success("b", 95), success("c", 85)},
			wantAverage: (80.0 + 95.0 + 85.0) / 3,
			wantMin:     80,
			wantMax:     95,
			wantSpread:  15,
			wantTier:    domain.AgreementHigh,
			wantBest:    1,
		},
		{
			name:        "moderate spread",
			results:     []domain.ProviderResult{success("a", 60), success("b", 85)},
			wantAverage: 72.5,
			wantMin:     60,
			wantMax:     85,
			wantSpread:  25,
			wantTier:    domain.AgreementModerate,
			wantBest:    1,
		},
		{
			name:        "wide spread is low agreement",
			results:     []domain.ProviderResult{success("a", 40), success("b", 85)},
			wantAverage: 62.5,
			wantMin:     40,
			wantMax:     85,
			wantSpread:  45,
			wantTier:    domain.AgreementLow,
			wantBest:    1,
		},
		{
			name:        "failures excluded from statistics",
			results:     []domain.ProviderResult{failure("a"), success("b", 90), failure("c")},
			wantAverage: 90,
			wantMin:     90,
			wantMax:     90,
			wantSpread:  0,
			wantTier:    domain.AgreementHigh,
			wantBest:    1,
		},
		{
			name:        "single success collapses to that confidence",
			results:     []domain.ProviderResult{success("only", 77)},
			wantAverage: 77,
			wantMin:     77,
			wantMax:     77,
			wantSpread:  0,
			wantTier:    domain.AgreementHigh,
			wantBest:    0,
		},
		{
			name:        "best tie-break prefers first in input order",
			results:     []domain.ProviderResult{success("a", 90), success("b", 90), success("c", 70)},
			wantAverage: (90.0 + 90.0 + 70.0) / 3,
			wantMin:     70,
			wantMax:     90,
			wantSpread:  20,
			wantTier:    domain.AgreementModerate,
			wantBest:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Reduce(tt.results)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantAverage, summary.Average, 1e-9)
			assert.Equal(t, tt.wantMin, summary.Min)
			assert.Equal(t, tt.wantMax, summary.Max)
			assert.Equal(t, tt.wantSpread, summary.Spread)
			assert.Equal(t, tt.wantTier, summary.Tier)
			assert.Equal(t, tt.wantBest, summary.BestIndex)

			// Structural invariants hold for every input.
			assert.LessOrEqual(t, summary.Min, summary.Average)
			assert.LessOrEqual(t, summary.Average, summary.Max)
			assert.Equal(t, summary.Max-summary.Min, summary.Spread)
		})
	}
}

func TestReduceAllFailed(t *testing.T) {
	_, err := Reduce([]domain.ProviderResult{failure("a"), failure("b")})
	require.ErrorIs(t, err, domain.ErrAllProvidersFailed)

	_, err = Reduce(nil)
	require.ErrorIs(t, err, domain.ErrAllProvidersFailed)
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		spread float64
		want   domain.AgreementTier
	}{
		{0, domain.AgreementHigh},
		{15, domain.AgreementHigh},
		{19.99, domain.AgreementHigh},
		{20, domain.AgreementModerate},
		{25, domain.AgreementModerate},
		{39.99, domain.AgreementModerate},
		{40, domain.AgreementLow},
		{45, domain.AgreementLow},
		{100, domain.AgreementLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tierForSpread(tt.spread), "spread=%v", tt.spread)
	}
}
