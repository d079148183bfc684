package mocks

import (
	"context"
	"dogwalking/internal/domains/referral/model"
	"dogwalking/internal/domains/referral/repository"
	repoMocks "dogwalking/shared/repository/mocks"
)

var _ repository.Referral = (*MemoryReferral)(nil)

// MemoryReferral keeps grants in memory and enforces the same unique
// constraints as the referral_grants indexes.
type MemoryReferral struct {
	*repoMocks.Table[model.ReferralGrant]
}

func NewMemoryReferral() *MemoryReferral {
	return &MemoryReferral{Table: repoMocks.NewTable[model.ReferralGrant](model.FieldID)}
}

func (m *MemoryReferral) Insert(ctx context.Context, grant model.ReferralGrant) error {
	for _, row := range m.Rows() {
		switch {
		case grant.IsAnchor() && row.IsAnchor() && row.ReferrerID == grant.ReferrerID:
			return repoMocks.UniqueViolation("referral_grants_anchor_referrer_key")
		case grant.IsAnchor() && row.IsAnchor() && row.ReferralCode == grant.ReferralCode:
			return repoMocks.UniqueViolation("referral_grants_anchor_code_key")
		case !grant.IsAnchor() && !row.IsAnchor() && *row.ReferredID == *grant.ReferredID:
			return repoMocks.UniqueViolation("referral_grants_referred_id_key")
		}
	}

	return m.Table.Insert(ctx, grant)
}

func (m *MemoryReferral) Stats(_ context.Context, referrerID string) (model.Stats, error) {
	var stats model.Stats

	for _, row := range m.Rows() {
		if row.ReferrerID != referrerID || row.IsAnchor() {
			continue
		}

		stats.Total++

		switch row.Status {
		case model.StatusCompleted:
			stats.Completed++
			stats.TotalReward += row.ReferrerReward
		case model.StatusPending:
			stats.Pending++
		}
	}

	return stats, nil
}
