package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

// In-memory repositories so the workflow logic can be exercised without a
// database. Version checks mirror the real repos: a mismatch returns the
// stored row alongside utils.ErrRowVersionConflict.

type fakeLeadRepo struct {
	leads map[uuid.UUID]*models.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[uuid.UUID]*models.Lead)}
}

func (r *fakeLeadRepo) Create(_ context.Context, lead *models.Lead) error {
	lead.CreatedAt = time.Now().UTC()
	lead.UpdatedAt = lead.CreatedAt
	r.leads[lead.ID] = lead
	return nil
}

func (r *fakeLeadRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Lead, error) {
	return r.leads[id], nil
}

func (r *fakeLeadRepo) ListByAccount(_ context.Context, accountID uuid.UUID, status *models.LeadStatusType) ([]*models.Lead, error) {
	var out []*models.Lead
	for _, l := range r.leads {
		if l.AccountID != accountID {
			continue
		}
		if status != nil && l.Status != *status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLeadRepo) UpdateStatusAtomic(_ context.Context, leadID uuid.UUID, newStatus models.LeadStatusType, expectedVersion int64) (*models.Lead, error) {
	lead, ok := r.leads[leadID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if lead.RowVersion != expectedVersion {
		return lead, utils.ErrRowVersionConflict
	}
	lead.Status = newStatus
	lead.RowVersion++
	lead.UpdatedAt = time.Now().UTC()
	return lead, nil
}

func (r *fakeLeadRepo) SetQuoteAtomic(_ context.Context, leadID uuid.UUID, packageID uuid.UUID, priceCents int64, quotedAt time.Time, expectedVersion int64) (*models.Lead, error) {
	lead, ok := r.leads[leadID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if lead.RowVersion != expectedVersion {
		return lead, utils.ErrRowVersionConflict
	}
	lead.QuotedPackageID = &packageID
	lead.QuotedPriceCents = &priceCents
	lead.QuotedAt = &quotedAt
	lead.RowVersion++
	lead.UpdatedAt = time.Now().UTC()
	return lead, nil
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]*models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*models.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *models.Job) error {
	job.CreatedAt = time.Now().UTC()
	job.UpdatedAt = job.CreatedAt
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	return r.jobs[id], nil
}

func (r *fakeJobRepo) ListByAccount(_ context.Context, accountID uuid.UUID, status *models.JobStatusType) ([]*models.Job, error) {
	var out []*models.Job
	for _, j := range r.jobs {
		if j.AccountID != accountID {
			continue
		}
		if status != nil && j.Status != *status {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *fakeJobRepo) ListStalePendingClaim(_ context.Context, cutoff time.Time) ([]*models.Job, error) {
	var out []*models.Job
	for _, j := range r.jobs {
		if j.Status != models.JobStatusPendingClaim || j.AssignedSubID != nil {
			continue
		}
		if j.DispatchSentAt == nil || j.DispatchSentAt.After(cutoff) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *fakeJobRepo) locked(jobID uuid.UUID, expectedVersion int64) (*models.Job, error) {
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if job.RowVersion != expectedVersion {
		return job, utils.ErrRowVersionConflict
	}
	return job, nil
}

func (r *fakeJobRepo) MarkDispatchedAtomic(_ context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error) {
	job, err := r.locked(jobID, expectedVersion)
	if err != nil {
		return job, err
	}
	now := time.Now().UTC()
	job.Status = models.JobStatusPendingClaim
	job.DispatchSentAt = &now
	job.RowVersion++
	job.UpdatedAt = now
	return job, nil
}

func (r *fakeJobRepo) AssignSubAtomic(_ context.Context, jobID uuid.UUID, subID uuid.UUID, newStatus models.JobStatusType, expectedVersion int64) (*models.Job, error) {
	job, err := r.locked(jobID, expectedVersion)
	if err != nil {
		return job, err
	}
	now := time.Now().UTC()
	job.AssignedSubID = &subID
	job.ClaimedAt = &now
	job.Status = newStatus
	job.RowVersion++
	job.UpdatedAt = now
	return job, nil
}

func (r *fakeJobRepo) UnassignSubAtomic(_ context.Context, jobID uuid.UUID, newStatus models.JobStatusType, expectedVersion int64) (*models.Job, error) {
	job, err := r.locked(jobID, expectedVersion)
	if err != nil {
		return job, err
	}
	job.AssignedSubID = nil
	job.ClaimedAt = nil
	job.StartedAt = nil
	job.Status = newStatus
	job.RowVersion++
	job.UpdatedAt = time.Now().UTC()
	return job, nil
}

func (r *fakeJobRepo) UpdateStatusToInProgress(_ context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error) {
	job, err := r.locked(jobID, expectedVersion)
	if err != nil {
		return job, err
	}
	now := time.Now().UTC()
	job.Status = models.JobStatusInProgress
	job.StartedAt = &now
	job.RowVersion++
	job.UpdatedAt = now
	return job, nil
}

func (r *fakeJobRepo) UpdateStatusToCompleted(_ context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error) {
	job, err := r.locked(jobID, expectedVersion)
	if err != nil {
		return job, err
	}
	now := time.Now().UTC()
	job.Status = models.JobStatusCompleted
	job.CompletedAt = &now
	job.RowVersion++
	job.UpdatedAt = now
	return job, nil
}

func (r *fakeJobRepo) UpdateStatusToCancelled(_ context.Context, jobID uuid.UUID, reason string, expectedVersion int64) (*models.Job, error) {
	job, err := r.locked(jobID, expectedVersion)
	if err != nil {
		return job, err
	}
	now := time.Now().UTC()
	job.Status = models.JobStatusCancelled
	job.CancelledAt = &now
	job.CancellationReason = &reason
	job.RowVersion++
	job.UpdatedAt = now
	return job, nil
}

func (r *fakeJobRepo) SetPaymentStatus(_ context.Context, jobID uuid.UUID, status models.PaymentStatusType) error {
	job, ok := r.jobs[jobID]
	if !ok {
		return pgx.ErrNoRows
	}
	job.PaymentStatus = status
	job.RowVersion++
	return nil
}

type fakePackageRepo struct {
	pkgs map[uuid.UUID]*models.Package
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{pkgs: make(map[uuid.UUID]*models.Package)}
}

func (r *fakePackageRepo) Create(_ context.Context, pkg *models.Package) error {
	r.pkgs[pkg.ID] = pkg
	return nil
}

func (r *fakePackageRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Package, error) {
	return r.pkgs[id], nil
}

func (r *fakePackageRepo) ListByAccount(_ context.Context, accountID uuid.UUID, includeHidden bool) ([]*models.Package, error) {
	var out []*models.Package
	for _, p := range r.pkgs {
		if p.AccountID != accountID || !p.IsActive {
			continue
		}
		if p.IsHidden && !includeHidden {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeSubRepo struct {
	subs map[uuid.UUID]*models.Subcontractor
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{subs: make(map[uuid.UUID]*models.Subcontractor)}
}

func (r *fakeSubRepo) Create(_ context.Context, sub *models.Subcontractor) error {
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeSubRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Subcontractor, error) {
	return r.subs[id], nil
}

func (r *fakeSubRepo) ListByAccount(_ context.Context, accountID uuid.UUID, status *models.SubStatusType) ([]*models.Subcontractor, error) {
	var out []*models.Subcontractor
	for _, s := range r.subs {
		if s.AccountID != accountID {
			continue
		}
		if status != nil && s.Status != *status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSubRepo) SetStatus(_ context.Context, subID uuid.UUID, status models.SubStatusType) error {
	sub, ok := r.subs[subID]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.Status = status
	sub.RowVersion++
	return nil
}

func (r *fakeSubRepo) AddEarningsAtomic(_ context.Context, subID uuid.UUID, baseCents int64, bonusCents int64) error {
	sub, ok := r.subs[subID]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.JobsCompleted++
	sub.TotalEarningsCents += baseCents + bonusCents
	sub.ReviewBonusesEarnedCents += bonusCents
	sub.RowVersion++
	return nil
}

type fakePayoutRepo struct {
	payouts map[uuid.UUID]*models.Payout
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{payouts: make(map[uuid.UUID]*models.Payout)}
}

func (r *fakePayoutRepo) Create(_ context.Context, payout *models.Payout) error {
	payout.CreatedAt = time.Now().UTC()
	payout.UpdatedAt = payout.CreatedAt
	r.payouts[payout.ID] = payout
	return nil
}

func (r *fakePayoutRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Payout, error) {
	return r.payouts[id], nil
}

func (r *fakePayoutRepo) ListByAccount(_ context.Context, accountID uuid.UUID, status *models.PayoutStatusType) ([]*models.Payout, error) {
	var out []*models.Payout
	for _, p := range r.payouts {
		if p.AccountID != accountID {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePayoutRepo) ListBySub(_ context.Context, subID uuid.UUID) ([]*models.Payout, error) {
	var out []*models.Payout
	for _, p := range r.payouts {
		if p.SubID == subID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePayoutRepo) MarkPaidAtomic(_ context.Context, payoutID uuid.UUID, paidAt time.Time, expectedVersion int64) (*models.Payout, error) {
	payout, ok := r.payouts[payoutID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if payout.RowVersion != expectedVersion {
		return payout, utils.ErrRowVersionConflict
	}
	payout.Status = models.PayoutStatusPaid
	payout.PaidAt = &paidAt
	payout.RowVersion++
	payout.UpdatedAt = time.Now().UTC()
	return payout, nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*models.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, acct *models.Account) error {
	r.accounts[acct.ID] = acct
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) GetBySlug(_ context.Context, slug string) (*models.Account, error) {
	for _, a := range r.accounts {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, nil
}

// fakeCharger records charge attempts and can be told to fail.
type fakeCharger struct {
	charged []uuid.UUID
	fail    bool
}

func (c *fakeCharger) ChargeJob(_ context.Context, job *models.Job) (string, error) {
	if c.fail {
		return "", fmt.Errorf("card_declined")
	}
	c.charged = append(c.charged, job.ID)
	return "pi_" + job.ID.String(), nil
}
