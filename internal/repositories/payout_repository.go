package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type PayoutRepository interface {
	Create(ctx context.Context, payout *models.Payout) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payout, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, status *models.PayoutStatusType) ([]*models.Payout, error)
	ListBySub(ctx context.Context, subID uuid.UUID) ([]*models.Payout, error)

	// MarkPaidAtomic flips PENDING to PAID under the row version check and
	// stamps paid_at. Returns the stored row; a version mismatch yields
	// utils.ErrRowVersionConflict.
	MarkPaidAtomic(ctx context.Context, payoutID uuid.UUID, paidAt time.Time, expectedVersion int64) (*models.Payout, error)
}

type payoutRepo struct {
	db DB
}

func NewPayoutRepository(db DB) PayoutRepository {
	return &payoutRepo{db: db}
}

func baseSelectPayout() string {
	return `
        SELECT
            id, account_id, sub_id, job_id,
            base_amount_cents, bonus_amount_cents, total_amount_cents,
            status, paid_at, notes,
            row_version, created_at, updated_at
        FROM payouts
    `
}

func scanPayout(row pgx.Row) (*models.Payout, error) {
	var p models.Payout
	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.SubID,
		&p.JobID,
		&p.BaseAmountCents,
		&p.BonusAmountCents,
		&p.TotalAmountCents,
		&p.Status,
		&p.PaidAt,
		&p.Notes,
		&p.RowVersion,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *payoutRepo) Create(ctx context.Context, payout *models.Payout) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO payouts (
            id, account_id, sub_id, job_id,
            base_amount_cents, bonus_amount_cents, total_amount_cents,
            status, paid_at, notes,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW(),1
        )
    `,
		payout.ID,
		payout.AccountID,
		payout.SubID,
		payout.JobID,
		payout.BaseAmountCents,
		payout.BonusAmountCents,
		payout.TotalAmountCents,
		payout.Status,
		payout.PaidAt,
		payout.Notes,
	)
	return err
}

func (r *payoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	row := r.db.QueryRow(ctx, baseSelectPayout()+" WHERE id=$1", id)
	return scanPayout(row)
}

func (r *payoutRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, status *models.PayoutStatusType) ([]*models.Payout, error) {
	q := baseSelectPayout() + " WHERE account_id=$1"
	args := []interface{}{accountID}
	if status != nil {
		q += " AND status=$2"
		args = append(args, *status)
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayouts(rows)
}

func (r *payoutRepo) ListBySub(ctx context.Context, subID uuid.UUID) ([]*models.Payout, error) {
	rows, err := r.db.Query(ctx, baseSelectPayout()+" WHERE sub_id=$1 ORDER BY created_at DESC", subID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayouts(rows)
}

func collectPayouts(rows pgx.Rows) ([]*models.Payout, error) {
	var payouts []*models.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func (r *payoutRepo) MarkPaidAtomic(ctx context.Context, payoutID uuid.UUID, paidAt time.Time, expectedVersion int64) (*models.Payout, error) {
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

	row := tx.QueryRow(ctx, baseSelectPayout()+" WHERE id=$1 FOR UPDATE", payoutID)
	payout, err := scanPayout(row)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, pgx.ErrNoRows
	}
	if payout.RowVersion != expectedVersion {
		return payout, utils.ErrRowVersionConflict
	}

	_, err = tx.Exec(ctx, `
        UPDATE payouts
        SET status='PAID',
            paid_at=$1,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, paidAt, payoutID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectPayout()+" WHERE id=$1", payoutID)
	return scanPayout(newRow)
}
