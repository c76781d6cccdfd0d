package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/repositories"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

// PayoutService owns what subs are owed: listing, the pending/paid rollup,
// and the one-way PENDING → PAID flip that feeds the sub's lifetime counters.
type PayoutService struct {
	payoutRepo repositories.PayoutRepository
	subRepo    repositories.SubcontractorRepository
}

func NewPayoutService(
	payoutRepo repositories.PayoutRepository,
	subRepo repositories.SubcontractorRepository,
) *PayoutService {
	return &PayoutService{payoutRepo: payoutRepo, subRepo: subRepo}
}

// ComputeStats partitions payouts by status and sums each side. Pure; order
// of the input never changes the result.
func ComputeStats(payouts []*models.Payout) dtos.PayoutStatsResponse {
	var stats dtos.PayoutStatsResponse
	for _, p := range payouts {
		switch p.Status {
		case models.PayoutStatusPending:
			stats.PendingTotalCents += p.TotalAmountCents
			stats.PendingCount++
		case models.PayoutStatusPaid:
			stats.PaidTotalCents += p.TotalAmountCents
			stats.PaidCount++
		}
	}
	return stats
}

func (s *PayoutService) List(ctx context.Context, accountID uuid.UUID, status *models.PayoutStatusType) ([]*models.Payout, error) {
	return s.payoutRepo.ListByAccount(ctx, accountID, status)
}

func (s *PayoutService) Stats(ctx context.Context, accountID uuid.UUID) (dtos.PayoutStatsResponse, error) {
	payouts, err := s.payoutRepo.ListByAccount(ctx, accountID, nil)
	if err != nil {
		return dtos.PayoutStatsResponse{}, err
	}
	return ComputeStats(payouts), nil
}

/*
MarkPaid flips a pending payout to PAID, stamps paid_at, and rolls the
amount into the sub's lifetime earnings and completed-jobs counters. A
payout can only be paid once.
*/
func (s *PayoutService) MarkPaid(
	ctx context.Context,
	accountID uuid.UUID,
	payoutID uuid.UUID,
	rowVersion int64,
) (*models.Payout, error) {
	payout, err := s.payoutRepo.GetByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if payout == nil || payout.AccountID != accountID {
		return nil, pgx.ErrNoRows
	}
	if payout.Status != models.PayoutStatusPending {
		return nil, utils.ErrInvalidState
	}

	updated, err := s.payoutRepo.MarkPaidAtomic(ctx, payoutID, time.Now().UTC(), rowVersion)
	if err != nil {
		if updated != nil && errors.Is(err, utils.ErrRowVersionConflict) {
			return nil, &utils.RowVersionConflictError{Current: updated}
		}
		return nil, err
	}

	if err := s.subRepo.AddEarningsAtomic(ctx, updated.SubID, updated.BaseAmountCents, updated.BonusAmountCents); err != nil {
		utils.Logger.WithError(err).Errorf("Paid payout %s but failed to roll up sub %s counters", payoutID, updated.SubID)
	}

	utils.Logger.Infof("Payout %s marked PAID (%d cents to sub %s)", payoutID, updated.TotalAmountCents, updated.SubID)
	return updated, nil
}
