package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/wey-codes/haulpro-crm/internal/dtos"
	"github.com/wey-codes/haulpro-crm/internal/models"
	"github.com/wey-codes/haulpro-crm/internal/repositories"
	"github.com/wey-codes/haulpro-crm/internal/utils"
)

// PackageService manages the account's price sheet.
type PackageService struct {
	pkgRepo repositories.PackageRepository
}

func NewPackageService(pkgRepo repositories.PackageRepository) *PackageService {
	return &PackageService{pkgRepo: pkgRepo}
}

func (s *PackageService) Create(ctx context.Context, accountID uuid.UUID, req dtos.CreatePackageRequest) (*models.Package, error) {
	if req.SubPayoutCents > req.PriceCents {
		return nil, utils.ErrInvalidPrice
	}

	pkg := &models.Package{
		ID:             uuid.New(),
		AccountID:      accountID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		PriceCents:     req.PriceCents,
		LimitType:      models.LimitType(req.LimitType),
		LimitValue:     req.LimitValue,
		SubPayoutCents: req.SubPayoutCents,
		RequiresPrepay: req.RequiresPrepay,
		IsHidden:       req.IsHidden,
		UpsellTargetID: req.UpsellTargetID,
		SortOrder:      req.SortOrder,
		IsActive:       true,
	}
	pkg.RowVersion = 1

	if err := s.pkgRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	utils.Logger.Infof("Created package %s (%s) for account %s", pkg.ID, pkg.Name, accountID)
	return pkg, nil
}

func (s *PackageService) Get(ctx context.Context, accountID uuid.UUID, pkgID uuid.UUID) (*models.Package, error) {
	pkg, err := s.pkgRepo.GetByID(ctx, pkgID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || pkg.AccountID != accountID {
		return nil, pgx.ErrNoRows
	}
	return pkg, nil
}

func (s *PackageService) List(ctx context.Context, accountID uuid.UUID, includeHidden bool) ([]*models.Package, error) {
	return s.pkgRepo.ListByAccount(ctx, accountID, includeHidden)
}
