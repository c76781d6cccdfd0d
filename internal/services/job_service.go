package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/repositories"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

/*
JobService owns the job lifecycle: booking, dispatch, sub assignment, and
the BOOKED → … → COMPLETED/CANCELLED status machine with its side effects
(payout creation, card capture, notifications).
*/
type JobService struct {
	jobRepo    repositories.JobRepository
	leadRepo   repositories.LeadRepository
	pkgRepo    repositories.PackageRepository
	subRepo    repositories.SubcontractorRepository
	payoutRepo repositories.PayoutRepository
	notifier   *NotificationService
	charger    CardCharger
}

func NewJobService(
	jobRepo repositories.JobRepository,
	leadRepo repositories.LeadRepository,
	pkgRepo repositories.PackageRepository,
	subRepo repositories.SubcontractorRepository,
	payoutRepo repositories.PayoutRepository,
	notifier *NotificationService,
	charger CardCharger,
) *JobService {
	return &JobService{
		jobRepo:    jobRepo,
		leadRepo:   leadRepo,
		pkgRepo:    pkgRepo,
		subRepo:    subRepo,
		payoutRepo: payoutRepo,
		notifier:   notifier,
		charger:    charger,
	}
}

// Create books a job directly (walk-in / phone booking). Returns a warning
// string when the scheduled date lands on a US federal holiday.
func (s *JobService) Create(ctx context.Context, accountID uuid.UUID, req dtos.CreateJobRequest) (*models.Job, *string, error) {
	pkg, err := s.pkgRepo.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, nil, err
	}
	if pkg == nil || pkg.AccountID != accountID {
		return nil, nil, pgx.ErrNoRows
	}

	priceCents := pkg.PriceCents
	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			return nil, nil, utils.ErrInvalidPrice
		}
		priceCents = *req.PriceCents
	}

	paymentStatus := models.PaymentStatusPending
	if req.IsPrepaid {
		paymentStatus = models.PaymentStatusPrepaid
	}

	var timeWindow *models.TimeWindowType
	if req.TimeWindow != nil {
		tw := models.TimeWindowType(*req.TimeWindow)
		timeWindow = &tw
	}

	job := &models.Job{
		ID:            uuid.New(),
		AccountID:     accountID,
		LeadID:        req.LeadID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CustomerEmail: req.CustomerEmail,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		State:         req.State,
		Zip:           req.Zip,
		PackageID:     pkg.ID,
		PriceCents:    priceCents,
		ScheduledDate: req.ScheduledDate,
		TimeWindow:    timeWindow,
		Status:        models.JobStatusBooked,
		PaymentStatus: paymentStatus,
		IsPrepaid:     req.IsPrepaid,
		Notes:         req.Notes,
	}
	job.RowVersion = 1

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, nil, err
	}
	utils.Logger.Infof("Booked job %s for account %s on %s", job.ID, accountID, job.ScheduledDate.Format("2006-01-02"))

	var warning *string
	if utils.IsUSFedHoliday(req.ScheduledDate) {
		warning = utils.StrPtr("Scheduled date is a US federal holiday")
	}
	return job, warning, nil
}

/*
CreateFromLead books a job off a WON lead, snapshotting the customer and
address fields and pulling price from the saved quote.
*/
func (s *JobService) CreateFromLead(
	ctx context.Context,
	accountID uuid.UUID,
	leadID uuid.UUID,
	req dtos.BookFromLeadRequest,
) (*models.Job, *string, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		return nil, nil, err
	}
	if lead == nil || lead.AccountID != accountID {
		return nil, nil, pgx.ErrNoRows
	}
	if lead.Status != models.LeadStatusWon {
		return nil, nil, utils.ErrInvalidState
	}
	if !lead.HasQuote() {
		return nil, nil, utils.ErrQuoteRequired
	}

	addressLine1 := ""
	if lead.AddressLine1 != nil {
		addressLine1 = *lead.AddressLine1
	}

	createReq := dtos.CreateJobRequest{
		LeadID:        &lead.ID,
		CustomerName:  lead.CustomerName,
		CustomerPhone: lead.Phone,
		CustomerEmail: lead.Email,
		AddressLine1:  addressLine1,
		AddressLine2:  lead.AddressLine2,
		City:          lead.City,
		State:         lead.State,
		Zip:           lead.Zip,
		PackageID:     *lead.QuotedPackageID,
		PriceCents:    lead.QuotedPriceCents,
		ScheduledDate: req.ScheduledDate,
		TimeWindow:    req.TimeWindow,
	}
	return s.Create(ctx, accountID, createReq)
}

func (s *JobService) Get(ctx context.Context, accountID uuid.UUID, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.AccountID != accountID {
		return nil, pgx.ErrNoRows
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, accountID uuid.UUID, status *models.JobStatusType) ([]*models.Job, error) {
	return s.jobRepo.ListByAccount(ctx, accountID, status)
}

/*
Transition moves a job through the lifecycle table and runs the side effects
for the target state:

	PENDING_CLAIM  stamp dispatch_sent_at, broadcast to active subs
	ASSIGNED       requires a sub already on the job
	IN_PROGRESS    requires a sub, stamps started_at
	COMPLETED      stamps completed_at, creates the pending payout,
	               captures payment unless prepaid
	CANCELLED      requires a reason, stamps cancelled_at
*/
func (s *JobService) Transition(
	ctx context.Context,
	accountID uuid.UUID,
	jobID uuid.UUID,
	target models.JobStatusType,
	reason *string,
	rowVersion int64,
) (*models.Job, error) {
	job, err := s.Get(ctx, accountID, jobID)
	if err != nil {
		return nil, err
	}

	if !job.Status.CanTransitionTo(target) {
		return nil, utils.ErrInvalidTransition
	}

	switch target {
	case models.JobStatusPendingClaim:
		return s.dispatch(ctx, job, rowVersion)

	case models.JobStatusAssigned:
		if job.AssignedSubID == nil {
			return nil, utils.ErrSubRequired
		}
		updated, err := s.jobRepo.AssignSubAtomic(ctx, jobID, *job.AssignedSubID, target, rowVersion)
		return s.resolveConflict(updated, err)

	case models.JobStatusInProgress:
		if job.AssignedSubID == nil {
			return nil, utils.ErrSubRequired
		}
		updated, err := s.jobRepo.UpdateStatusToInProgress(ctx, jobID, rowVersion)
		return s.resolveConflict(updated, err)

	case models.JobStatusCompleted:
		updated, err := s.jobRepo.UpdateStatusToCompleted(ctx, jobID, rowVersion)
		updated, err = s.resolveConflict(updated, err)
		if err != nil {
			return nil, err
		}
		s.runCompletionEffects(ctx, updated)
		return s.jobRepo.GetByID(ctx, jobID)

	case models.JobStatusCancelled:
		if reason == nil || strings.TrimSpace(*reason) == "" {
			return nil, utils.ErrReasonRequired
		}
		updated, err := s.jobRepo.UpdateStatusToCancelled(ctx, jobID, strings.TrimSpace(*reason), rowVersion)
		return s.resolveConflict(updated, err)
	}

	return nil, utils.ErrInvalidTransition
}

// Dispatch is the explicit BOOKED → PENDING_CLAIM action.
func (s *JobService) Dispatch(ctx context.Context, accountID uuid.UUID, jobID uuid.UUID, rowVersion int64) (*models.Job, error) {
	job, err := s.Get(ctx, accountID, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.CanTransitionTo(models.JobStatusPendingClaim) {
		return nil, utils.ErrInvalidTransition
	}
	return s.dispatch(ctx, job, rowVersion)
}

func (s *JobService) dispatch(ctx context.Context, job *models.Job, rowVersion int64) (*models.Job, error) {
	updated, err := s.jobRepo.MarkDispatchedAtomic(ctx, job.ID, rowVersion)
	updated, err = s.resolveConflict(updated, err)
	if err != nil {
		return nil, err
	}

	pkg, err := s.pkgRepo.GetByID(ctx, updated.PackageID)
	if err != nil || pkg == nil {
		utils.Logger.WithError(err).Warnf("Dispatched job %s but could not load package for broadcast", job.ID)
		return updated, nil
	}
	active := models.SubStatusActive
	subs, err := s.subRepo.ListByAccount(ctx, job.AccountID, &active)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Dispatched job %s but could not list subs for broadcast", job.ID)
		return updated, nil
	}
	s.notifier.BroadcastJobToSubs(updated, pkg, subs)

	utils.Logger.Infof("Dispatched job %s to %d active subs", job.ID, len(subs))
	return updated, nil
}

/*
AssignSub puts a sub on the job. Valid while the job is BOOKED,
PENDING_CLAIM, or ASSIGNED (reassignment); PENDING_CLAIM promotes to
ASSIGNED. The sub must be ACTIVE and belong to the same account.
*/
func (s *JobService) AssignSub(
	ctx context.Context,
	accountID uuid.UUID,
	jobID uuid.UUID,
	subID uuid.UUID,
	rowVersion int64,
) (*models.Job, error) {
	job, err := s.Get(ctx, accountID, jobID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case models.JobStatusBooked, models.JobStatusPendingClaim, models.JobStatusAssigned:
	default:
		return nil, utils.ErrInvalidState
	}

	sub, err := s.subRepo.GetByID(ctx, subID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.AccountID != accountID {
		return nil, pgx.ErrNoRows
	}
	if sub.Status != models.SubStatusActive {
		return nil, utils.ErrSubNotActive
	}

	newStatus := job.Status
	if job.Status == models.JobStatusPendingClaim {
		newStatus = models.JobStatusAssigned
	}

	updated, err := s.jobRepo.AssignSubAtomic(ctx, jobID, subID, newStatus, rowVersion)
	updated, err = s.resolveConflict(updated, err)
	if err != nil {
		return nil, err
	}

	s.notifier.ConfirmAssignment(updated, sub)
	utils.Logger.Infof("Assigned sub %s to job %s (%s)", subID, jobID, newStatus)
	return updated, nil
}

/*
UnassignSub takes the sub off the job. Valid any time before the job is
terminal, including mid-work: the job returns to PENDING_CLAIM (with
claimed_at/started_at cleared) so it shows up as needing dispatch attention
again.
*/
func (s *JobService) UnassignSub(
	ctx context.Context,
	accountID uuid.UUID,
	jobID uuid.UUID,
	rowVersion int64,
) (*models.Job, error) {
	job, err := s.Get(ctx, accountID, jobID)
	if err != nil {
		return nil, err
	}
	if job.AssignedSubID == nil {
		return nil, utils.ErrInvalidState
	}
	if job.Status.IsTerminal() {
		return nil, utils.ErrInvalidState
	}

	updated, err := s.jobRepo.UnassignSubAtomic(ctx, jobID, models.JobStatusPendingClaim, rowVersion)
	updated, err = s.resolveConflict(updated, err)
	if err != nil {
		return nil, err
	}

	utils.Logger.Infof("Unassigned sub from job %s, back to PENDING_CLAIM", jobID)
	return updated, nil
}

// runCompletionEffects creates the sub's pending payout and captures payment.
// Failures here are logged, not fatal: the completion itself already stands.
func (s *JobService) runCompletionEffects(ctx context.Context, job *models.Job) {
	if job.AssignedSubID != nil {
		pkg, err := s.pkgRepo.GetByID(ctx, job.PackageID)
		if err != nil || pkg == nil {
			utils.Logger.WithError(err).Errorf("Completed job %s but could not load package for payout", job.ID)
		} else {
			payout := &models.Payout{
				ID:               uuid.New(),
				AccountID:        job.AccountID,
				SubID:            *job.AssignedSubID,
				JobID:            job.ID,
				BaseAmountCents:  pkg.SubPayoutCents,
				BonusAmountCents: 0,
				TotalAmountCents: pkg.SubPayoutCents,
				Status:           models.PayoutStatusPending,
			}
			payout.RowVersion = 1
			if err := s.payoutRepo.Create(ctx, payout); err != nil {
				utils.Logger.WithError(err).Errorf("Failed to create payout for job %s", job.ID)
			} else {
				utils.Logger.Infof("Created pending payout %s (%d cents) for sub %s", payout.ID, payout.TotalAmountCents, payout.SubID)
			}
		}
	}

	if job.IsPrepaid || job.PaymentStatus != models.PaymentStatusPending {
		return
	}
	if s.charger == nil {
		utils.Logger.Warnf("No card charger configured, leaving job %s payment PENDING", job.ID)
		return
	}
	if _, err := s.charger.ChargeJob(ctx, job); err != nil {
		if setErr := s.jobRepo.SetPaymentStatus(ctx, job.ID, models.PaymentStatusFailed); setErr != nil {
			utils.Logger.WithError(setErr).Errorf("Failed to mark job %s payment FAILED", job.ID)
		}
		return
	}
	if err := s.jobRepo.SetPaymentStatus(ctx, job.ID, models.PaymentStatusCharged); err != nil {
		utils.Logger.WithError(err).Errorf("Charged job %s but failed to mark payment CHARGED", job.ID)
	}
}

// resolveConflict converts the repo's version-mismatch error into the typed
// conflict carrying the latest row.
func (s *JobService) resolveConflict(latest *models.Job, err error) (*models.Job, error) {
	if err != nil {
		if latest != nil && errors.Is(err, utils.ErrRowVersionConflict) {
			return nil, utils.NewJobConflictError(latest)
		}
		return nil, err
	}
	return latest, nil
}

// ListNeedingAttention backs the dashboard "needs sub" panel: dispatched
// jobs nobody has claimed since before the cutoff.
func (s *JobService) ListNeedingAttention(ctx context.Context, cutoff time.Time) ([]*models.Job, error) {
	return s.jobRepo.ListStalePendingClaim(ctx, cutoff)
}
