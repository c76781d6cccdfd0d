package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/models"
)

type SubcontractorRepository interface {
	Create(ctx context.Context, sub *models.Subcontractor) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subcontractor, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, status *models.SubStatusType) ([]*models.Subcontractor, error)
	SetStatus(ctx context.Context, subID uuid.UUID, status models.SubStatusType) error

	// AddEarningsAtomic increments the cumulative counters in one statement so
	// concurrent MarkPaid calls never lose an increment.
	AddEarningsAtomic(ctx context.Context, subID uuid.UUID, baseCents int64, bonusCents int64) error
}

type subcontractorRepo struct {
	db   DB
	base *BaseVersionedRepo[*models.Subcontractor]
}

func NewSubcontractorRepository(db DB) SubcontractorRepository {
	return &subcontractorRepo{
		db:   db,
		base: NewBaseRepo(db, baseSelectSubcontractor()+" WHERE id=$1", scanSubcontractor),
	}
}

func baseSelectSubcontractor() string {
	return `
        SELECT
            id, account_id, name, phone, email, status,
            w9_on_file, insurance_on_file, insurance_expiry,
            jobs_completed, total_earnings_cents, review_bonuses_earned_cents, rating,
            notes, row_version, created_at, updated_at
        FROM subcontractors
    `
}

func scanSubcontractor(row pgx.Row) (*models.Subcontractor, error) {
	var s models.Subcontractor
	err := row.Scan(
		&s.ID,
		&s.AccountID,
		&s.Name,
		&s.Phone,
		&s.Email,
		&s.Status,
		&s.W9OnFile,
		&s.InsuranceOnFile,
		&s.InsuranceExpiry,
		&s.JobsCompleted,
		&s.TotalEarningsCents,
		&s.ReviewBonusesEarnedCents,
		&s.Rating,
		&s.Notes,
		&s.RowVersion,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subcontractorRepo) Create(ctx context.Context, sub *models.Subcontractor) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO subcontractors (
            id, account_id, name, phone, email, status,
            w9_on_file, insurance_on_file, insurance_expiry,
            jobs_completed, total_earnings_cents, review_bonuses_earned_cents, rating,
            notes, created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW(),NOW(),1
        )
    `,
		sub.ID,
		sub.AccountID,
		sub.Name,
		sub.Phone,
		sub.Email,
		sub.Status,
		sub.W9OnFile,
		sub.InsuranceOnFile,
		sub.InsuranceExpiry,
		sub.JobsCompleted,
		sub.TotalEarningsCents,
		sub.ReviewBonusesEarnedCents,
		sub.Rating,
		sub.Notes,
	)
	return err
}

func (r *subcontractorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subcontractor, error) {
	row := r.db.QueryRow(ctx, baseSelectSubcontractor()+" WHERE id=$1", id)
	return scanSubcontractor(row)
}

func (r *subcontractorRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, status *models.SubStatusType) ([]*models.Subcontractor, error) {
	q := baseSelectSubcontractor() + " WHERE account_id=$1"
	args := []interface{}{accountID}
	if status != nil {
		q += " AND status=$2"
		args = append(args, *status)
	}
	q += " ORDER BY name"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subcontractor
	for rows.Next() {
		s, err := scanSubcontractor(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *subcontractorRepo) SetStatus(ctx context.Context, subID uuid.UUID, status models.SubStatusType) error {
	return r.base.UpdateWithRetry(
		ctx,
		subID.String(),
		func(s *models.Subcontractor) error {
			s.Status = status
			return nil
		},
		func(ctx context.Context, s *models.Subcontractor, expectedVersion int64) (pgconn.CommandTag, error) {
			return r.db.Exec(ctx, `
                UPDATE subcontractors
                SET status=$1,
                    row_version=row_version+1, updated_at=NOW()
                WHERE id=$2 AND row_version=$3
            `, s.Status, s.ID, expectedVersion)
		},
	)
}

func (r *subcontractorRepo) AddEarningsAtomic(ctx context.Context, subID uuid.UUID, baseCents int64, bonusCents int64) error {
	_, err := r.db.Exec(ctx, `
        UPDATE subcontractors
        SET jobs_completed=jobs_completed+1,
            total_earnings_cents=total_earnings_cents+$1,
            review_bonuses_earned_cents=review_bonuses_earned_cents+$2,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$3
    `, baseCents+bonusCents, bonusCents, subID)
	return err
}
