package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

type leadTestEnv struct {
	svc       *LeadService
	leadRepo  *fakeLeadRepo
	pkgRepo   *fakePackageRepo
	accountID uuid.UUID
	pkg       *models.Package
}

func newLeadTestEnv(t *testing.T) *leadTestEnv {
	t.Helper()
	leadRepo := newFakeLeadRepo()
	pkgRepo := newFakePackageRepo()
	accountID := uuid.New()

	pkg := &models.Package{
		ID:             uuid.New(),
		AccountID:      accountID,
		Name:           "Standard Rehab",
		PriceCents:     99700,
		LimitType:      models.LimitTypeTime,
		SubPayoutCents: 40000,
		IsActive:       true,
	}
	require.NoError(t, pkgRepo.Create(context.Background(), pkg))

	return &leadTestEnv{
		svc:       NewLeadService(leadRepo, pkgRepo),
		leadRepo:  leadRepo,
		pkgRepo:   pkgRepo,
		accountID: accountID,
		pkg:       pkg,
	}
}

func (e *leadTestEnv) newLead(t *testing.T, status models.LeadStatusType) *models.Lead {
	t.Helper()
	lead := &models.Lead{
		ID:           uuid.New(),
		AccountID:    e.accountID,
		Source:       models.LeadSourceWebsite,
		CustomerName: "Jane Smith",
		Phone:        "+15125550001",
		Status:       status,
	}
	lead.RowVersion = 1
	require.NoError(t, e.leadRepo.Create(context.Background(), lead))
	return lead
}

func TestLeadTransitionQuotedRequiresSavedQuote(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusNew)

	_, err := env.svc.Transition(context.Background(), env.accountID, lead.ID, models.LeadStatusQuoted, lead.RowVersion)
	require.ErrorIs(t, err, utils.ErrQuoteRequired)

	// Save a quote, then the same transition goes through.
	updated, err := env.svc.SaveQuote(context.Background(), env.accountID, lead.ID, dtos.SaveQuoteRequest{
		PackageID:  env.pkg.ID,
		RowVersion: lead.RowVersion,
	})
	require.NoError(t, err)

	updated, err = env.svc.Transition(context.Background(), env.accountID, lead.ID, models.LeadStatusQuoted, updated.RowVersion)
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusQuoted, updated.Status)
}

func TestLeadTransitionTableEnforced(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusNew)

	_, err := env.svc.Transition(context.Background(), env.accountID, lead.ID, models.LeadStatusWon, lead.RowVersion)
	require.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestLeadTerminalStatusRejectsAllTransitions(t *testing.T) {
	env := newLeadTestEnv(t)

	for _, terminal := range []models.LeadStatusType{models.LeadStatusWon, models.LeadStatusLost} {
		lead := env.newLead(t, terminal)
		for _, target := range []models.LeadStatusType{
			models.LeadStatusNew,
			models.LeadStatusPhotoRequested,
			models.LeadStatusQuoted,
			models.LeadStatusWon,
			models.LeadStatusLost,
		} {
			_, err := env.svc.Transition(context.Background(), env.accountID, lead.ID, target, lead.RowVersion)
			require.ErrorIs(t, err, utils.ErrInvalidTransition, "%s -> %s", terminal, target)
		}
	}
}

func TestLeadQuotedToWon(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusNew)

	quoted, err := env.svc.SaveQuote(context.Background(), env.accountID, lead.ID, dtos.SaveQuoteRequest{
		PackageID:  env.pkg.ID,
		RowVersion: 1,
	})
	require.NoError(t, err)

	quoted, err = env.svc.Transition(context.Background(), env.accountID, lead.ID, models.LeadStatusQuoted, quoted.RowVersion)
	require.NoError(t, err)

	won, err := env.svc.Transition(context.Background(), env.accountID, lead.ID, models.LeadStatusWon, quoted.RowVersion)
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusWon, won.Status)
}

func TestSaveQuoteDefaultsToPackagePrice(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusNew)

	updated, err := env.svc.SaveQuote(context.Background(), env.accountID, lead.ID, dtos.SaveQuoteRequest{
		PackageID:  env.pkg.ID,
		RowVersion: 1,
	})
	require.NoError(t, err)
	require.Equal(t, env.pkg.PriceCents, *updated.QuotedPriceCents)
	require.Equal(t, env.pkg.ID, *updated.QuotedPackageID)
	require.NotNil(t, updated.QuotedAt)
}

func TestSaveQuoteOverridePrice(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusNew)

	override := int64(85000)
	updated, err := env.svc.SaveQuote(context.Background(), env.accountID, lead.ID, dtos.SaveQuoteRequest{
		PackageID:  env.pkg.ID,
		PriceCents: &override,
		RowVersion: 1,
	})
	require.NoError(t, err)
	require.Equal(t, override, *updated.QuotedPriceCents)
}

func TestSaveQuoteRejectsNonPositivePrice(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusNew)

	for _, bad := range []int64{0, -100} {
		price := bad
		_, err := env.svc.SaveQuote(context.Background(), env.accountID, lead.ID, dtos.SaveQuoteRequest{
			PackageID:  env.pkg.ID,
			PriceCents: &price,
			RowVersion: 1,
		})
		require.ErrorIs(t, err, utils.ErrInvalidPrice)
	}
}

func TestSaveQuoteRejectedOnTerminalLead(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusLost)

	_, err := env.svc.SaveQuote(context.Background(), env.accountID, lead.ID, dtos.SaveQuoteRequest{
		PackageID:  env.pkg.ID,
		RowVersion: 1,
	})
	require.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestLeadTransitionStaleVersionConflict(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusNew)

	_, err := env.svc.Transition(context.Background(), env.accountID, lead.ID, models.LeadStatusPhotoRequested, 99)
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)
	var conflict *utils.RowVersionConflictError
	require.ErrorAs(t, err, &conflict)

	latest, ok := conflict.Current.(*models.Lead)
	require.True(t, ok)
	require.Equal(t, lead.ID, latest.ID)
	require.Equal(t, models.LeadStatusNew, latest.Status, "conflict carries the stored row, unmodified")
}

func TestLeadTenantIsolation(t *testing.T) {
	env := newLeadTestEnv(t)
	lead := env.newLead(t, models.LeadStatusNew)

	otherAccount := uuid.New()
	_, err := env.svc.Get(context.Background(), otherAccount, lead.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = env.svc.Transition(context.Background(), otherAccount, lead.ID, models.LeadStatusPhotoRequested, 1)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestSuggestPrice(t *testing.T) {
	env := newLeadTestEnv(t)

	suggestion, err := env.svc.SuggestPrice(context.Background(), env.accountID, env.pkg.ID)
	require.NoError(t, err)
	require.Equal(t, int64(99700), suggestion.ListPriceCents)
	require.Equal(t, int64(40000), suggestion.SubPayoutCents)
	require.Equal(t, int64(59700), suggestion.MarginCents)
}
