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

// SubService manages the subcontractor roster.
type SubService struct {
	subRepo repositories.SubcontractorRepository
}

func NewSubService(subRepo repositories.SubcontractorRepository) *SubService {
	return &SubService{subRepo: subRepo}
}

func (s *SubService) Create(ctx context.Context, accountID uuid.UUID, req dtos.CreateSubRequest) (*models.Subcontractor, error) {
	sub := &models.Subcontractor{
		ID:              uuid.New(),
		AccountID:       accountID,
		Name:            strings.TrimSpace(req.Name),
		Phone:           strings.TrimSpace(req.Phone),
		Email:           req.Email,
		Status:          models.SubStatusActive,
		W9OnFile:        req.W9OnFile,
		InsuranceOnFile: req.InsuranceOnFile,
		InsuranceExpiry: req.InsuranceExpiry,
		Notes:           req.Notes,
	}
	sub.RowVersion = 1

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	utils.Logger.Infof("Added sub %s to account %s", sub.ID, accountID)
	return sub, nil
}

func (s *SubService) Get(ctx context.Context, accountID uuid.UUID, subID uuid.UUID) (*models.Subcontractor, error) {
	sub, err := s.subRepo.GetByID(ctx, subID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.AccountID != accountID {
		return nil, pgx.ErrNoRows
	}
	return sub, nil
}

func (s *SubService) List(ctx context.Context, accountID uuid.UUID, status *models.SubStatusType) ([]*models.Subcontractor, error) {
	return s.subRepo.ListByAccount(ctx, accountID, status)
}

func (s *SubService) SetStatus(ctx context.Context, accountID uuid.UUID, subID uuid.UUID, status models.SubStatusType) (*models.Subcontractor, error) {
	if _, err := s.Get(ctx, accountID, subID); err != nil {
		return nil, err
	}
	if err := s.subRepo.SetStatus(ctx, subID, status); err != nil {
		return nil, err
	}
	return s.subRepo.GetByID(ctx, subID)
}
