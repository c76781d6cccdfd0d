package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/repositories"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

/*
LeadService owns the lead pipeline: intake, the NEW → … → WON/LOST status
machine, and the quote that gates entry into QUOTED.
*/
type LeadService struct {
	leadRepo repositories.LeadRepository
	pkgRepo  repositories.PackageRepository
}

func NewLeadService(
	leadRepo repositories.LeadRepository,
	pkgRepo repositories.PackageRepository,
) *LeadService {
	return &LeadService{leadRepo: leadRepo, pkgRepo: pkgRepo}
}

func (s *LeadService) Create(ctx context.Context, accountID uuid.UUID, req dtos.CreateLeadRequest) (*models.Lead, error) {
	lead := &models.Lead{
		ID:           uuid.New(),
		AccountID:    accountID,
		Source:       models.LeadSourceType(req.Source),
		SourceDetail: req.SourceDetail,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        req.Email,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Zip:          req.Zip,
		Photos:       req.Photos,
		Notes:        req.Notes,
		Status:       models.LeadStatusNew,
	}
	lead.RowVersion = 1

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	utils.Logger.Infof("Created lead %s (source %s) for account %s", lead.ID, lead.Source, accountID)
	return lead, nil
}

// Get fetches a lead scoped to the tenant. Leads of other accounts are
// indistinguishable from missing ones.
func (s *LeadService) Get(ctx context.Context, accountID uuid.UUID, leadID uuid.UUID) (*models.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil || lead.AccountID != accountID {
		return nil, pgx.ErrNoRows
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context, accountID uuid.UUID, status *models.LeadStatusType) ([]*models.Lead, error) {
	return s.leadRepo.ListByAccount(ctx, accountID, status)
}

/*
Transition moves a lead through the pipeline table. Entering QUOTED requires
a saved quote; WON and LOST are terminal. The caller's row_version guards
against concurrent edits.
*/
func (s *LeadService) Transition(
	ctx context.Context,
	accountID uuid.UUID,
	leadID uuid.UUID,
	target models.LeadStatusType,
	rowVersion int64,
) (*models.Lead, error) {
	lead, err := s.Get(ctx, accountID, leadID)
	if err != nil {
		return nil, err
	}

	if !lead.Status.CanTransitionTo(target) {
		return nil, utils.ErrInvalidTransition
	}
	if target == models.LeadStatusQuoted && !lead.HasQuote() {
		return nil, utils.ErrQuoteRequired
	}

	updated, err := s.leadRepo.UpdateStatusAtomic(ctx, leadID, target, rowVersion)
	if err != nil {
		if updated != nil && errors.Is(err, utils.ErrRowVersionConflict) {
			return nil, utils.NewLeadConflictError(updated)
		}
		return nil, err
	}

	utils.Logger.Infof("Lead %s: %s -> %s", leadID, lead.Status, target)
	return updated, nil
}

// SuggestPrice surfaces the package price card the quote builder autofills
// from.
func (s *LeadService) SuggestPrice(ctx context.Context, accountID uuid.UUID, packageID uuid.UUID) (*dtos.SuggestPriceResponse, error) {
	pkg, err := s.pkgRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.AccountID != accountID {
		return nil, pgx.ErrNoRows
	}

	return &dtos.SuggestPriceResponse{
		PackageID:      pkg.ID,
		PackageName:    pkg.Name,
		ListPriceCents: pkg.PriceCents,
		SubPayoutCents: pkg.SubPayoutCents,
		MarginCents:    pkg.PriceCents - pkg.SubPayoutCents,
		RequiresPrepay: pkg.RequiresPrepay,
		UpsellTargetID: pkg.UpsellTargetID,
	}, nil
}

/*
SaveQuote stores the quote pair on the lead. A nil price takes the package
base price; an explicit price must be positive. Quotes cannot be edited once
the lead is terminal.
*/
func (s *LeadService) SaveQuote(
	ctx context.Context,
	accountID uuid.UUID,
	leadID uuid.UUID,
	req dtos.SaveQuoteRequest,
) (*models.Lead, error) {
	lead, err := s.Get(ctx, accountID, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status.IsTerminal() {
		return nil, utils.ErrInvalidState
	}

	pkg, err := s.pkgRepo.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.AccountID != accountID {
		return nil, pgx.ErrNoRows
	}

	priceCents := pkg.PriceCents
	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			return nil, utils.ErrInvalidPrice
		}
		priceCents = *req.PriceCents
	}

	updated, err := s.leadRepo.SetQuoteAtomic(ctx, leadID, pkg.ID, priceCents, time.Now().UTC(), req.RowVersion)
	if err != nil {
		if updated != nil && errors.Is(err, utils.ErrRowVersionConflict) {
			return nil, utils.NewLeadConflictError(updated)
		}
		return nil, err
	}

	utils.Logger.Infof("Lead %s quoted: package %s at %d cents", leadID, pkg.ID, priceCents)
	return updated, nil
}
