package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/constants"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, status *models.JobStatusType) ([]*models.Job, error)

	// Stale dispatches: PENDING_CLAIM with no sub, dispatched before cutoff.
	ListStalePendingClaim(ctx context.Context, cutoff time.Time) ([]*models.Job, error)

	// Compare-and-set lifecycle updates. Each returns the stored row; a
	// version mismatch yields utils.ErrRowVersionConflict.
	MarkDispatchedAtomic(ctx context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error)
	AssignSubAtomic(ctx context.Context, jobID uuid.UUID, subID uuid.UUID, newStatus models.JobStatusType, expectedVersion int64) (*models.Job, error)
	UnassignSubAtomic(ctx context.Context, jobID uuid.UUID, newStatus models.JobStatusType, expectedVersion int64) (*models.Job, error)
	UpdateStatusToInProgress(ctx context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error)
	UpdateStatusToCompleted(ctx context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error)
	UpdateStatusToCancelled(ctx context.Context, jobID uuid.UUID, reason string, expectedVersion int64) (*models.Job, error)

	SetPaymentStatus(ctx context.Context, jobID uuid.UUID, status models.PaymentStatusType) error
}

type jobRepo struct {
	db DB
}

func NewJobRepository(db DB) JobRepository {
	return &jobRepo{db: db}
}

func baseSelectJob() string {
	return `
        SELECT
            id, account_id, lead_id,
            customer_name, customer_phone, customer_email,
            address_line1, address_line2, city, state, zip,
            package_id, price_cents, scheduled_date, time_window,
            assigned_sub_id, dispatch_sent_at, claimed_at, status,
            stripe_customer_id, stripe_payment_method_id, card_last_four,
            payment_status, is_prepaid,
            agreement_signed, agreement_signed_at,
            dump_receipt_url, completion_video_url,
            started_at, completed_at, cancelled_at, cancellation_reason,
            notes, internal_notes,
            row_version, created_at, updated_at
        FROM jobs
    `
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID,
		&j.AccountID,
		&j.LeadID,
		&j.CustomerName,
		&j.CustomerPhone,
		&j.CustomerEmail,
		&j.AddressLine1,
		&j.AddressLine2,
		&j.City,
		&j.State,
		&j.Zip,
		&j.PackageID,
		&j.PriceCents,
		&j.ScheduledDate,
		&j.TimeWindow,
		&j.AssignedSubID,
		&j.DispatchSentAt,
		&j.ClaimedAt,
		&j.Status,
		&j.StripeCustomerID,
		&j.StripePaymentMethodID,
		&j.CardLastFour,
		&j.PaymentStatus,
		&j.IsPrepaid,
		&j.AgreementSigned,
		&j.AgreementSignedAt,
		&j.DumpReceiptURL,
		&j.CompletionVideoURL,
		&j.StartedAt,
		&j.CompletedAt,
		&j.CancelledAt,
		&j.CancellationReason,
		&j.Notes,
		&j.InternalNotes,
		&j.RowVersion,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO jobs (
            id, account_id, lead_id,
            customer_name, customer_phone, customer_email,
            address_line1, address_line2, city, state, zip,
            package_id, price_cents, scheduled_date, time_window,
            assigned_sub_id, status,
            stripe_customer_id, stripe_payment_method_id, card_last_four,
            payment_status, is_prepaid, notes, internal_notes,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
            $18,$19,$20,$21,$22,$23,$24,NOW(),NOW(),1
        )
    `,
		job.ID,
		job.AccountID,
		job.LeadID,
		job.CustomerName,
		job.CustomerPhone,
		job.CustomerEmail,
		job.AddressLine1,
		job.AddressLine2,
		job.City,
		job.State,
		job.Zip,
		job.PackageID,
		job.PriceCents,
		job.ScheduledDate,
		job.TimeWindow,
		job.AssignedSubID,
		job.Status,
		job.StripeCustomerID,
		job.StripePaymentMethodID,
		job.CardLastFour,
		job.PaymentStatus,
		job.IsPrepaid,
		job.Notes,
		job.InternalNotes,
	)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	row := r.db.QueryRow(ctx, baseSelectJob()+" WHERE id=$1", id)
	return scanJob(row)
}

func (r *jobRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, status *models.JobStatusType) ([]*models.Job, error) {
	q := baseSelectJob() + " WHERE account_id=$1"
	args := []interface{}{accountID}
	if status != nil {
		q += " AND status=$2"
		args = append(args, *status)
	}
	q += " ORDER BY scheduled_date, created_at"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectJobs(rows)
}

func (r *jobRepo) ListStalePendingClaim(ctx context.Context, cutoff time.Time) ([]*models.Job, error) {
	q := baseSelectJob() + `
        WHERE status='PENDING_CLAIM'
          AND assigned_sub_id IS NULL
          AND dispatch_sent_at IS NOT NULL
          AND dispatch_sent_at <= $1
        ORDER BY dispatch_sent_at
    `
	rows, err := r.db.Query(ctx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectJobs(rows)
}

func collectJobs(rows pgx.Rows) ([]*models.Job, error) {
	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// updateAtomic runs the shared lock-check-update-reselect dance inside a tx.
func (r *jobRepo) updateAtomic(
	ctx context.Context,
	jobID uuid.UUID,
	expectedVersion int64,
	update func(tx pgx.Tx) error,
) (*models.Job, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectJob()+" WHERE id=$1 FOR UPDATE", jobID)
	job, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, pgx.ErrNoRows
	}
	if job.RowVersion != expectedVersion {
		return job, utils.ErrRowVersionConflict
	}

	if err = update(tx); err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectJob()+" WHERE id=$1", jobID)
	return scanJob(newRow)
}

func (r *jobRepo) MarkDispatchedAtomic(ctx context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error) {
	return r.updateAtomic(ctx, jobID, expectedVersion, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            UPDATE jobs
            SET status='PENDING_CLAIM',
                dispatch_sent_at=NOW(),
                row_version=row_version+1, updated_at=NOW()
            WHERE id=$1
        `, jobID)
		return err
	})
}

func (r *jobRepo) AssignSubAtomic(
	ctx context.Context,
	jobID uuid.UUID,
	subID uuid.UUID,
	newStatus models.JobStatusType,
	expectedVersion int64,
) (*models.Job, error) {
	return r.updateAtomic(ctx, jobID, expectedVersion, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            UPDATE jobs
            SET assigned_sub_id=$1,
                claimed_at=NOW(),
                status=$2,
                row_version=row_version+1, updated_at=NOW()
            WHERE id=$3
        `, subID, newStatus, jobID)
		return err
	})
}

func (r *jobRepo) UnassignSubAtomic(
	ctx context.Context,
	jobID uuid.UUID,
	newStatus models.JobStatusType,
	expectedVersion int64,
) (*models.Job, error) {
	return r.updateAtomic(ctx, jobID, expectedVersion, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            UPDATE jobs
            SET assigned_sub_id=NULL,
                claimed_at=NULL,
                started_at=NULL,
                status=$1,
                row_version=row_version+1, updated_at=NOW()
            WHERE id=$2
        `, newStatus, jobID)
		return err
	})
}

func (r *jobRepo) UpdateStatusToInProgress(ctx context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error) {
	return r.updateAtomic(ctx, jobID, expectedVersion, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            UPDATE jobs
            SET status='IN_PROGRESS',
                started_at=NOW(),
                row_version=row_version+1, updated_at=NOW()
            WHERE id=$1
        `, jobID)
		return err
	})
}

func (r *jobRepo) UpdateStatusToCompleted(ctx context.Context, jobID uuid.UUID, expectedVersion int64) (*models.Job, error) {
	return r.updateAtomic(ctx, jobID, expectedVersion, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            UPDATE jobs
            SET status='COMPLETED',
                completed_at=NOW(),
                row_version=row_version+1, updated_at=NOW()
            WHERE id=$1
        `, jobID)
		return err
	})
}

func (r *jobRepo) UpdateStatusToCancelled(ctx context.Context, jobID uuid.UUID, reason string, expectedVersion int64) (*models.Job, error) {
	return r.updateAtomic(ctx, jobID, expectedVersion, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            UPDATE jobs
            SET status='CANCELLED',
                cancelled_at=NOW(),
                cancellation_reason=$1,
                row_version=row_version+1, updated_at=NOW()
            WHERE id=$2
        `, reason, jobID)
		return err
	})
}

// SetPaymentStatus is server-driven (no client row_version), so it retries
// through the optimistic-lock loop instead of surfacing a conflict.
func (r *jobRepo) SetPaymentStatus(ctx context.Context, jobID uuid.UUID, status models.PaymentStatusType) error {
	return WithRetry(
		ctx,
		constants.MaxUpdateRetries,
		jobID.String(),
		func(ctx context.Context, id string) (*models.Job, error) {
			uid, err := uuid.Parse(id)
			if err != nil {
				return nil, err
			}
			return r.GetByID(ctx, uid)
		},
		func(ctx context.Context, j *models.Job, expectedVersion int64) (pgconn.CommandTag, error) {
			return r.db.Exec(ctx, `
                UPDATE jobs
                SET payment_status=$1,
                    row_version=row_version+1, updated_at=NOW()
                WHERE id=$2 AND row_version=$3
            `, j.PaymentStatus, j.ID, expectedVersion)
		},
		func(j *models.Job) error {
			j.PaymentStatus = status
			return nil
		},
	)
}
