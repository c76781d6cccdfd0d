package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, acct *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetBySlug(ctx context.Context, slug string) (*models.Account, error)
}

type accountRepo struct {
	db DB
}

func NewAccountRepository(db DB) AccountRepository {
	return &accountRepo{db: db}
}

func baseSelectAccount() string {
	return `
        SELECT
            id, company_name, slug, logo_url, phone, email, website,
            google_review_url, stripe_account_id, twilio_phone,
            subscription_status, subscription_plan, trial_ends_at, settings,
            row_version, created_at, updated_at
        FROM accounts
    `
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	var settings []byte
	err := row.Scan(
		&a.ID,
		&a.CompanyName,
		&a.Slug,
		&a.LogoURL,
		&a.Phone,
		&a.Email,
		&a.Website,
		&a.GoogleReviewURL,
		&a.StripeAccountID,
		&a.TwilioPhone,
		&a.SubscriptionStatus,
		&a.SubscriptionPlan,
		&a.TrialEndsAt,
		&settings,
		&a.RowVersion,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &a.Settings); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, acct *models.Account) error {
	settings, err := json.Marshal(acct.Settings)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO accounts (
            id, company_name, slug, logo_url, phone, email, website,
            google_review_url, stripe_account_id, twilio_phone,
            subscription_status, subscription_plan, trial_ends_at, settings,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW(),NOW(),1
        )
    `,
		acct.ID,
		acct.CompanyName,
		acct.Slug,
		acct.LogoURL,
		acct.Phone,
		acct.Email,
		acct.Website,
		acct.GoogleReviewURL,
		acct.StripeAccountID,
		acct.TwilioPhone,
		acct.SubscriptionStatus,
		acct.SubscriptionPlan,
		acct.TrialEndsAt,
		settings,
	)
	return err
}

func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	row := r.db.QueryRow(ctx, baseSelectAccount()+" WHERE id=$1", id)
	return scanAccount(row)
}

func (r *accountRepo) GetBySlug(ctx context.Context, slug string) (*models.Account, error) {
	row := r.db.QueryRow(ctx, baseSelectAccount()+" WHERE slug=$1", slug)
	return scanAccount(row)
}
