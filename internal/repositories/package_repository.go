package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/models"
)

type PackageRepository interface {
	Create(ctx context.Context, pkg *models.Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, includeHidden bool) ([]*models.Package, error)
}

type packageRepo struct {
	db DB
}

func NewPackageRepository(db DB) PackageRepository {
	return &packageRepo{db: db}
}

func baseSelectPackage() string {
	return `
        SELECT
            id, account_id, name, description, price_cents,
            limit_type, limit_value, sub_payout_cents,
            requires_prepay, is_hidden, upsell_target_id, sort_order, is_active,
            row_version, created_at, updated_at
        FROM packages
    `
}

func scanPackage(row pgx.Row) (*models.Package, error) {
	var p models.Package
	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.LimitType,
		&p.LimitValue,
		&p.SubPayoutCents,
		&p.RequiresPrepay,
		&p.IsHidden,
		&p.UpsellTargetID,
		&p.SortOrder,
		&p.IsActive,
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

func (r *packageRepo) Create(ctx context.Context, pkg *models.Package) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO packages (
            id, account_id, name, description, price_cents,
            limit_type, limit_value, sub_payout_cents,
            requires_prepay, is_hidden, upsell_target_id, sort_order, is_active,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW(),1
        )
    `,
		pkg.ID,
		pkg.AccountID,
		pkg.Name,
		pkg.Description,
		pkg.PriceCents,
		pkg.LimitType,
		pkg.LimitValue,
		pkg.SubPayoutCents,
		pkg.RequiresPrepay,
		pkg.IsHidden,
		pkg.UpsellTargetID,
		pkg.SortOrder,
		pkg.IsActive,
	)
	return err
}

func (r *packageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	row := r.db.QueryRow(ctx, baseSelectPackage()+" WHERE id=$1", id)
	return scanPackage(row)
}

func (r *packageRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, includeHidden bool) ([]*models.Package, error) {
	q := baseSelectPackage() + " WHERE account_id=$1 AND is_active"
	if !includeHidden {
		q += " AND NOT is_hidden"
	}
	q += " ORDER BY sort_order"

	rows, err := r.db.Query(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkgs []*models.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, rows.Err()
}
