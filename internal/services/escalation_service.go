package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wey-codes/haulpro-crm/internal/constants"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/repositories"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

/*
EscalationService is the cron sweep behind the "unclaimed jobs" safety net:
any job dispatched more than StaleClaimThreshold ago with no sub on it gets
rolled up into an email to its account owner.
*/
type EscalationService struct {
	jobRepo     repositories.JobRepository
	accountRepo repositories.AccountRepository
	notifier    *NotificationService
}

func NewEscalationService(
	jobRepo repositories.JobRepository,
	accountRepo repositories.AccountRepository,
	notifier *NotificationService,
) *EscalationService {
	return &EscalationService{
		jobRepo:     jobRepo,
		accountRepo: accountRepo,
		notifier:    notifier,
	}
}

// SweepUnclaimedJobs runs one pass. Called from cron; safe to run repeatedly.
func (s *EscalationService) SweepUnclaimedJobs(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-constants.StaleClaimThreshold)
	stale, err := s.jobRepo.ListStalePendingClaim(ctx, cutoff)
	if err != nil {
		utils.Logger.WithError(err).Error("Escalation sweep failed to list stale jobs")
		return
	}
	if len(stale) == 0 {
		utils.Logger.Debug("Escalation sweep: no unclaimed jobs past threshold")
		return
	}

	byAccount := make(map[uuid.UUID][]*models.Job)
	for _, j := range stale {
		byAccount[j.AccountID] = append(byAccount[j.AccountID], j)
	}

	for accountID, jobs := range byAccount {
		account, err := s.accountRepo.GetByID(ctx, accountID)
		if err != nil || account == nil {
			utils.Logger.WithError(err).Errorf("Escalation sweep: could not load account %s", accountID)
			continue
		}
		s.notifier.EscalateUnclaimedJobs(account, jobs)
		utils.Logger.Warnf("Escalated %d unclaimed job(s) for account %s", len(jobs), accountID)
	}
}
