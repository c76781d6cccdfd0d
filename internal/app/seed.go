package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/repositories"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

// Fixed IDs so seeding is idempotent and test clients can hardcode them.
const (
	SeedAccountID = "11111111-1111-1111-1111-111111111111"

	SeedPackageCurbsideID = "22222222-2222-4222-a222-222222222201"
	SeedPackageMiniID     = "22222222-2222-4222-a222-222222222202"
	SeedPackageStandardID = "22222222-2222-4222-a222-222222222203"
	SeedPackageFullDayID  = "22222222-2222-4222-a222-222222222204"

	SeedSubMikeID   = "33333333-3333-4333-a333-333333333301"
	SeedSubCarlosID = "33333333-3333-4333-a333-333333333302"
)

/*
SeedAllTestData loads the demo tenant: one account, its four-package price
sheet, and two active subs. The account row is the sentinel; if it already
exists the whole seed is skipped.
*/
func SeedAllTestData(
	ctx context.Context,
	accountRepo repositories.AccountRepository,
	pkgRepo repositories.PackageRepository,
	subRepo repositories.SubcontractorRepository,
) error {
	accountID := uuid.MustParse(SeedAccountID)

	existing, err := accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check for seed account: %w", err)
	}
	if existing != nil {
		utils.Logger.Info("Seed data already present; skipping seeding.")
		return nil
	}

	account := &models.Account{
		ID:                 accountID,
		CompanyName:        "Austin Cleanouts",
		Slug:               "austin-cleanouts",
		Phone:              utils.StrPtr("+15125551234"),
		Email:              utils.StrPtr("hello@austincleanouts.com"),
		Website:            utils.StrPtr("https://austincleanouts.com"),
		GoogleReviewURL:    utils.StrPtr("https://g.page/r/example"),
		SubscriptionStatus: models.SubscriptionStatusActive,
		SubscriptionPlan:   "standard",
		Settings: map[string]any{
			"timezone":               "America/Chicago",
			"close_rate_threshold":   80,
			"close_rate_window_days": 14,
		},
	}
	account.RowVersion = 1
	if err := accountRepo.Create(ctx, account); err != nil {
		return fmt.Errorf("seed account: %w", err)
	}

	packages := []*models.Package{
		{
			ID:             uuid.MustParse(SeedPackageCurbsideID),
			Name:           "Curbside Pickup",
			Description:    utils.StrPtr("Quick pickup of items already at the curb. No entry into property."),
			PriceCents:     29700,
			LimitType:      models.LimitTypeFlat,
			SubPayoutCents: 7500,
			RequiresPrepay: true,
			IsHidden:       true,
			SortOrder:      0,
		},
		{
			ID:             uuid.MustParse(SeedPackageMiniID),
			Name:           "Mini Rehab",
			Description:    utils.StrPtr("Perfect for partial garage clear-outs or quick organization. 2-hour time block with 2 professional organizers."),
			PriceCents:     49700,
			LimitType:      models.LimitTypeTime,
			LimitValue:     utils.Ptr(2),
			SubPayoutCents: 16000,
			UpsellTargetID: utils.Ptr(uuid.MustParse(SeedPackageStandardID)),
			SortOrder:      1,
		},
		{
			ID:             uuid.MustParse(SeedPackageStandardID),
			Name:           "Standard Rehab",
			Description:    utils.StrPtr("Our most popular package. Full garage transformation with deep organization. 5-hour time block with 2 professional organizers."),
			PriceCents:     99700,
			LimitType:      models.LimitTypeTime,
			LimitValue:     utils.Ptr(5),
			SubPayoutCents: 40000,
			UpsellTargetID: utils.Ptr(uuid.MustParse(SeedPackageFullDayID)),
			SortOrder:      2,
		},
		{
			ID:             uuid.MustParse(SeedPackageFullDayID),
			Name:           "Full Day Rehab",
			Description:    utils.StrPtr("For major projects, hoarding situations, or estate cleanouts. 8-hour time block with 2 professional organizers."),
			PriceCents:     149700,
			LimitType:      models.LimitTypeTime,
			LimitValue:     utils.Ptr(8),
			SubPayoutCents: 64000,
			SortOrder:      3,
		},
	}
	for _, pkg := range packages {
		pkg.AccountID = accountID
		pkg.IsActive = true
		pkg.RowVersion = 1
		if err := pkgRepo.Create(ctx, pkg); err != nil {
			return fmt.Errorf("seed package %s: %w", pkg.Name, err)
		}
	}

	subs := []*models.Subcontractor{
		{
			ID:              uuid.MustParse(SeedSubMikeID),
			Name:            "Mike Johnson",
			Phone:           "+15125559001",
			Email:           utils.StrPtr("mike@example.com"),
			W9OnFile:        true,
			InsuranceOnFile: true,
			InsuranceExpiry: utils.Ptr(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)),
			Rating:          utils.Ptr(4.8),
			Notes:           utils.StrPtr("Reliable, great with customers"),
		},
		{
			ID:              uuid.MustParse(SeedSubCarlosID),
			Name:            "Carlos Rivera",
			Phone:           "+15125559002",
			Email:           utils.StrPtr("carlos@example.com"),
			W9OnFile:        true,
			InsuranceOnFile: true,
			InsuranceExpiry: utils.Ptr(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)),
			Rating:          utils.Ptr(4.6),
		},
	}
	for _, sub := range subs {
		sub.AccountID = accountID
		sub.Status = models.SubStatusActive
		sub.RowVersion = 1
		if err := subRepo.Create(ctx, sub); err != nil {
			return fmt.Errorf("seed sub %s: %w", sub.Name, err)
		}
	}

	utils.Logger.Info("Seeding completed successfully.")
	return nil
}
