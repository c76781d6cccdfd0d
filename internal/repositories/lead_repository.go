package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, status *models.LeadStatusType) ([]*models.Lead, error)

	// Compare-and-set updates. Both return the stored row; a version
	// mismatch yields utils.ErrRowVersionConflict.
	UpdateStatusAtomic(ctx context.Context, leadID uuid.UUID, newStatus models.LeadStatusType, expectedVersion int64) (*models.Lead, error)
	SetQuoteAtomic(ctx context.Context, leadID uuid.UUID, packageID uuid.UUID, priceCents int64, quotedAt time.Time, expectedVersion int64) (*models.Lead, error)
}

type leadRepo struct {
	db DB
}

func NewLeadRepository(db DB) LeadRepository {
	return &leadRepo{db: db}
}

func baseSelectLead() string {
	return `
        SELECT
            id, account_id, source, source_detail, customer_name, phone, email,
            address_line1, address_line2, city, state, zip,
            photos, notes, status,
            quoted_package_id, quoted_price_cents, quoted_at, assigned_user_id,
            row_version, created_at, updated_at
        FROM leads
    `
}

func scanLead(row pgx.Row) (*models.Lead, error) {
	var l models.Lead
	var photos []string
	err := row.Scan(
		&l.ID,
		&l.AccountID,
		&l.Source,
		&l.SourceDetail,
		&l.CustomerName,
		&l.Phone,
		&l.Email,
		&l.AddressLine1,
		&l.AddressLine2,
		&l.City,
		&l.State,
		&l.Zip,
		&photos,
		&l.Notes,
		&l.Status,
		&l.QuotedPackageID,
		&l.QuotedPriceCents,
		&l.QuotedAt,
		&l.AssignedUserID,
		&l.RowVersion,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l.Photos = photos
	return &l, nil
}

func (r *leadRepo) Create(ctx context.Context, lead *models.Lead) error {
	photos := lead.Photos
	if photos == nil {
		photos = []string{}
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO leads (
            id, account_id, source, source_detail, customer_name, phone, email,
            address_line1, address_line2, city, state, zip,
            photos, notes, status,
            quoted_package_id, quoted_price_cents, quoted_at, assigned_user_id,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,NOW(),NOW(),1
        )
    `,
		lead.ID,
		lead.AccountID,
		lead.Source,
		lead.SourceDetail,
		lead.CustomerName,
		lead.Phone,
		lead.Email,
		lead.AddressLine1,
		lead.AddressLine2,
		lead.City,
		lead.State,
		lead.Zip,
		photos,
		lead.Notes,
		lead.Status,
		lead.QuotedPackageID,
		lead.QuotedPriceCents,
		lead.QuotedAt,
		lead.AssignedUserID,
	)
	return err
}

func (r *leadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	row := r.db.QueryRow(ctx, baseSelectLead()+" WHERE id=$1", id)
	return scanLead(row)
}

func (r *leadRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, status *models.LeadStatusType) ([]*models.Lead, error) {
	q := baseSelectLead() + " WHERE account_id=$1"
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

	var leads []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *leadRepo) UpdateStatusAtomic(
	ctx context.Context,
	leadID uuid.UUID,
	newStatus models.LeadStatusType,
	expectedVersion int64,
) (*models.Lead, error) {
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

	row := tx.QueryRow(ctx, baseSelectLead()+" WHERE id=$1 FOR UPDATE", leadID)
	lead, err := scanLead(row)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, pgx.ErrNoRows
	}
	if lead.RowVersion != expectedVersion {
		return lead, utils.ErrRowVersionConflict
	}

	_, err = tx.Exec(ctx, `
        UPDATE leads
        SET status=$1,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, newStatus, leadID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectLead()+" WHERE id=$1", leadID)
	return scanLead(newRow)
}

func (r *leadRepo) SetQuoteAtomic(
	ctx context.Context,
	leadID uuid.UUID,
	packageID uuid.UUID,
	priceCents int64,
	quotedAt time.Time,
	expectedVersion int64,
) (*models.Lead, error) {
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

	row := tx.QueryRow(ctx, baseSelectLead()+" WHERE id=$1 FOR UPDATE", leadID)
	lead, err := scanLead(row)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, pgx.ErrNoRows
	}
	if lead.RowVersion != expectedVersion {
		return lead, utils.ErrRowVersionConflict
	}

	_, err = tx.Exec(ctx, `
        UPDATE leads
        SET quoted_package_id=$1,
            quoted_price_cents=$2,
            quoted_at=$3,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$4
    `, packageID, priceCents, quotedAt, leadID)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectLead()+" WHERE id=$1", leadID)
	return scanLead(newRow)
}
