package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/wey-codes/haulpro-crm/internal/config"
	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type jobTestEnv struct {
	svc        *JobService
	jobRepo    *fakeJobRepo
	leadRepo   *fakeLeadRepo
	pkgRepo    *fakePackageRepo
	subRepo    *fakeSubRepo
	payoutRepo *fakePayoutRepo
	charger    *fakeCharger
	accountID  uuid.UUID
	pkg        *models.Package
	sub        *models.Subcontractor
}

func newJobTestEnv(t *testing.T) *jobTestEnv {
	t.Helper()
	env := &jobTestEnv{
		jobRepo:    newFakeJobRepo(),
		leadRepo:   newFakeLeadRepo(),
		pkgRepo:    newFakePackageRepo(),
		subRepo:    newFakeSubRepo(),
		payoutRepo: newFakePayoutRepo(),
		charger:    &fakeCharger{},
		accountID:  uuid.New(),
	}

	env.pkg = &models.Package{
		ID:             uuid.New(),
		AccountID:      env.accountID,
		Name:           "Standard Rehab",
		PriceCents:     99700,
		LimitType:      models.LimitTypeTime,
		SubPayoutCents: 40000,
		IsActive:       true,
	}
	require.NoError(t, env.pkgRepo.Create(context.Background(), env.pkg))

	env.sub = &models.Subcontractor{
		ID:        uuid.New(),
		AccountID: env.accountID,
		Name:      "Mike Johnson",
		Phone:     "+15125559001",
		Status:    models.SubStatusActive,
	}
	require.NoError(t, env.subRepo.Create(context.Background(), env.sub))

	notifier := NewNotificationService(&config.Config{}, nil, nil)
	env.svc = NewJobService(env.jobRepo, env.leadRepo, env.pkgRepo, env.subRepo, env.payoutRepo, notifier, env.charger)
	return env
}

func (e *jobTestEnv) newJob(t *testing.T, status models.JobStatusType) *models.Job {
	t.Helper()
	job := &models.Job{
		ID:            uuid.New(),
		AccountID:     e.accountID,
		CustomerName:  "Robert Davis",
		CustomerPhone: "+15125558004",
		AddressLine1:  "321 Pine Road",
		PackageID:     e.pkg.ID,
		PriceCents:    e.pkg.PriceCents,
		ScheduledDate: time.Now().UTC().AddDate(0, 0, 7),
		Status:        status,
		PaymentStatus: models.PaymentStatusPending,
	}
	job.RowVersion = 1
	require.NoError(t, e.jobRepo.Create(context.Background(), job))
	return job
}

func (e *jobTestEnv) assignSub(t *testing.T, job *models.Job) *models.Job {
	t.Helper()
	updated, err := e.svc.AssignSub(context.Background(), e.accountID, job.ID, e.sub.ID, job.RowVersion)
	require.NoError(t, err)
	return updated
}

func TestJobCreateUsesPackagePrice(t *testing.T) {
	env := newJobTestEnv(t)

	job, warning, err := env.svc.Create(context.Background(), env.accountID, dtos.CreateJobRequest{
		CustomerName:  "Robert Davis",
		CustomerPhone: "+15125558004",
		AddressLine1:  "321 Pine Road",
		PackageID:     env.pkg.ID,
		ScheduledDate: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Nil(t, warning)
	require.Equal(t, models.JobStatusBooked, job.Status)
	require.Equal(t, int64(99700), job.PriceCents)
	require.Equal(t, models.PaymentStatusPending, job.PaymentStatus)
}

func TestJobCreateHolidayWarning(t *testing.T) {
	env := newJobTestEnv(t)

	_, warning, err := env.svc.Create(context.Background(), env.accountID, dtos.CreateJobRequest{
		CustomerName:  "Robert Davis",
		CustomerPhone: "+15125558004",
		AddressLine1:  "321 Pine Road",
		PackageID:     env.pkg.ID,
		ScheduledDate: time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, warning)
}

func TestJobCreateRejectsNonPositivePriceOverride(t *testing.T) {
	env := newJobTestEnv(t)

	bad := int64(0)
	_, _, err := env.svc.Create(context.Background(), env.accountID, dtos.CreateJobRequest{
		CustomerName:  "Robert Davis",
		CustomerPhone: "+15125558004",
		AddressLine1:  "321 Pine Road",
		PackageID:     env.pkg.ID,
		PriceCents:    &bad,
		ScheduledDate: time.Now().UTC(),
	})
	require.ErrorIs(t, err, utils.ErrInvalidPrice)
}

func TestCreateFromLeadSnapshotsCustomer(t *testing.T) {
	env := newJobTestEnv(t)

	lead := &models.Lead{
		ID:           uuid.New(),
		AccountID:    env.accountID,
		Source:       models.LeadSourceGMB,
		CustomerName: "Robert Davis",
		Phone:        "+15125558004",
		AddressLine1: utils.StrPtr("321 Pine Road"),
		City:         utils.StrPtr("Austin"),
		Status:       models.LeadStatusWon,
	}
	lead.RowVersion = 1
	pkgID := env.pkg.ID
	price := int64(85000)
	lead.QuotedPackageID = &pkgID
	lead.QuotedPriceCents = &price
	require.NoError(t, env.leadRepo.Create(context.Background(), lead))

	job, _, err := env.svc.CreateFromLead(context.Background(), env.accountID, lead.ID, dtos.BookFromLeadRequest{
		ScheduledDate: time.Now().UTC().AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	require.Equal(t, "Robert Davis", job.CustomerName)
	require.Equal(t, "+15125558004", job.CustomerPhone)
	require.Equal(t, "321 Pine Road", job.AddressLine1)
	require.Equal(t, price, job.PriceCents, "quoted price wins over package price")
	require.Equal(t, lead.ID, *job.LeadID)
}

func TestCreateFromLeadRequiresWonStatus(t *testing.T) {
	env := newJobTestEnv(t)

	lead := &models.Lead{
		ID:           uuid.New(),
		AccountID:    env.accountID,
		CustomerName: "Jane Smith",
		Phone:        "+15125550001",
		Status:       models.LeadStatusQuoted,
	}
	lead.RowVersion = 1
	require.NoError(t, env.leadRepo.Create(context.Background(), lead))

	_, _, err := env.svc.CreateFromLead(context.Background(), env.accountID, lead.ID, dtos.BookFromLeadRequest{
		ScheduledDate: time.Now().UTC(),
	})
	require.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestDispatchStampsDispatchSentAt(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusBooked)

	updated, err := env.svc.Dispatch(context.Background(), env.accountID, job.ID, job.RowVersion)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusPendingClaim, updated.Status)
	require.NotNil(t, updated.DispatchSentAt)
}

func TestTransitionToInProgressRequiresSub(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusAssigned)

	_, err := env.svc.Transition(context.Background(), env.accountID, job.ID, models.JobStatusInProgress, nil, job.RowVersion)
	require.ErrorIs(t, err, utils.ErrSubRequired)
}

func TestTransitionToCancelledRequiresReason(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusBooked)

	_, err := env.svc.Transition(context.Background(), env.accountID, job.ID, models.JobStatusCancelled, nil, job.RowVersion)
	require.ErrorIs(t, err, utils.ErrReasonRequired)

	empty := "   "
	_, err = env.svc.Transition(context.Background(), env.accountID, job.ID, models.JobStatusCancelled, &empty, job.RowVersion)
	require.ErrorIs(t, err, utils.ErrReasonRequired)

	reason := "Customer rescheduled indefinitely"
	updated, err := env.svc.Transition(context.Background(), env.accountID, job.ID, models.JobStatusCancelled, &reason, job.RowVersion)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelledAt)
	require.Equal(t, "Customer rescheduled indefinitely", *updated.CancellationReason)
}

func TestTransitionTableEnforced(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusBooked)

	_, err := env.svc.Transition(context.Background(), env.accountID, job.ID, models.JobStatusCompleted, nil, job.RowVersion)
	require.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestAssignSubPromotesPendingClaim(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusPendingClaim)

	updated := env.assignSub(t, job)
	require.Equal(t, models.JobStatusAssigned, updated.Status)
	require.Equal(t, env.sub.ID, *updated.AssignedSubID)
	require.NotNil(t, updated.ClaimedAt)
}

func TestAssignSubKeepsBookedStatus(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusBooked)

	updated := env.assignSub(t, job)
	require.Equal(t, models.JobStatusBooked, updated.Status, "pre-assignment does not skip dispatch")
	require.Equal(t, env.sub.ID, *updated.AssignedSubID)
}

func TestAssignSubRejectsInactiveSub(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusPendingClaim)

	env.sub.Status = models.SubStatusInactive
	_, err := env.svc.AssignSub(context.Background(), env.accountID, job.ID, env.sub.ID, job.RowVersion)
	require.ErrorIs(t, err, utils.ErrSubNotActive)
}

func TestUnassignSubReturnsToPendingClaimNeverBooked(t *testing.T) {
	env := newJobTestEnv(t)

	// From ASSIGNED.
	job := env.newJob(t, models.JobStatusPendingClaim)
	assigned := env.assignSub(t, job)
	updated, err := env.svc.UnassignSub(context.Background(), env.accountID, job.ID, assigned.RowVersion)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusPendingClaim, updated.Status)
	require.Nil(t, updated.AssignedSubID)
	require.Nil(t, updated.ClaimedAt)

	// From BOOKED with a pre-assigned sub: still PENDING_CLAIM, not BOOKED.
	booked := env.newJob(t, models.JobStatusBooked)
	assigned = env.assignSub(t, booked)
	updated, err = env.svc.UnassignSub(context.Background(), env.accountID, booked.ID, assigned.RowVersion)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusPendingClaim, updated.Status)
}

func TestUnassignSubFromInProgress(t *testing.T) {
	env := newJobTestEnv(t)
	inProgress := completionFixture(t, env)

	updated, err := env.svc.UnassignSub(context.Background(), env.accountID, inProgress.ID, inProgress.RowVersion)
	require.NoError(t, err, "unassign stays valid until the job is terminal")
	require.Equal(t, models.JobStatusPendingClaim, updated.Status)
	require.Nil(t, updated.AssignedSubID)
	require.Nil(t, updated.StartedAt)
}

func TestUnassignSubRejectedOnTerminalJob(t *testing.T) {
	env := newJobTestEnv(t)
	inProgress := completionFixture(t, env)

	completed, err := env.svc.Transition(context.Background(), env.accountID, inProgress.ID, models.JobStatusCompleted, nil, inProgress.RowVersion)
	require.NoError(t, err)

	_, err = env.svc.UnassignSub(context.Background(), env.accountID, completed.ID, completed.RowVersion)
	require.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestUnassignSubWithoutSubIsInvalid(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusPendingClaim)

	_, err := env.svc.UnassignSub(context.Background(), env.accountID, job.ID, job.RowVersion)
	require.ErrorIs(t, err, utils.ErrInvalidState)
}

func completionFixture(t *testing.T, env *jobTestEnv) *models.Job {
	t.Helper()
	job := env.newJob(t, models.JobStatusPendingClaim)
	assigned := env.assignSub(t, job)
	inProgress, err := env.svc.Transition(context.Background(), env.accountID, job.ID, models.JobStatusInProgress, nil, assigned.RowVersion)
	require.NoError(t, err)
	return inProgress
}

func TestCompletionCreatesPayoutAndCharges(t *testing.T) {
	env := newJobTestEnv(t)
	inProgress := completionFixture(t, env)

	completed, err := env.svc.Transition(context.Background(), env.accountID, inProgress.ID, models.JobStatusCompleted, nil, inProgress.RowVersion)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	payouts, err := env.payoutRepo.ListBySub(context.Background(), env.sub.ID)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	require.Equal(t, env.pkg.SubPayoutCents, payouts[0].TotalAmountCents, "payout total equals the package sub payout")
	require.Equal(t, models.PayoutStatusPending, payouts[0].Status)

	require.Len(t, env.charger.charged, 1)
	require.Equal(t, models.PaymentStatusCharged, completed.PaymentStatus)
}

func TestCompletionSkipsChargeWhenPrepaid(t *testing.T) {
	env := newJobTestEnv(t)
	inProgress := completionFixture(t, env)
	inProgress.IsPrepaid = true
	inProgress.PaymentStatus = models.PaymentStatusPrepaid

	completed, err := env.svc.Transition(context.Background(), env.accountID, inProgress.ID, models.JobStatusCompleted, nil, inProgress.RowVersion)
	require.NoError(t, err)
	require.Empty(t, env.charger.charged)
	require.Equal(t, models.PaymentStatusPrepaid, completed.PaymentStatus)
}

func TestCompletionMarksPaymentFailedOnDecline(t *testing.T) {
	env := newJobTestEnv(t)
	inProgress := completionFixture(t, env)
	env.charger.fail = true

	completed, err := env.svc.Transition(context.Background(), env.accountID, inProgress.ID, models.JobStatusCompleted, nil, inProgress.RowVersion)
	require.NoError(t, err, "a declined card does not undo the completion")
	require.Equal(t, models.JobStatusCompleted, completed.Status)
	require.Equal(t, models.PaymentStatusFailed, completed.PaymentStatus)
}

func TestJobTransitionStaleVersionConflict(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusBooked)

	reason := "duplicate booking"
	_, err := env.svc.Transition(context.Background(), env.accountID, job.ID, models.JobStatusCancelled, &reason, 42)
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
	var conflict *utils.RowVersionConflictError
	require.ErrorAs(t, err, &conflict)

	latest, ok := conflict.Current.(*models.Job)
	require.True(t, ok)
	require.Equal(t, models.JobStatusBooked, latest.Status)
}

func TestJobTenantIsolation(t *testing.T) {
	env := newJobTestEnv(t)
	job := env.newJob(t, models.JobStatusBooked)

	_, err := env.svc.Get(context.Background(), uuid.New(), job.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestListNeedingAttention(t *testing.T) {
	env := newJobTestEnv(t)

	stale := env.newJob(t, models.JobStatusPendingClaim)
	old := time.Now().UTC().Add(-3 * time.Hour)
	stale.DispatchSentAt = &old

	fresh := env.newJob(t, models.JobStatusPendingClaim)
	recent := time.Now().UTC().Add(-10 * time.Minute)
	fresh.DispatchSentAt = &recent

	jobs, err := env.svc.ListNeedingAttention(context.Background(), time.Now().UTC().Add(-2*time.Hour))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, stale.ID, jobs[0].ID)
}
