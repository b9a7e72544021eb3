package services

import (
	"context"

	"unimarket/internal/domain/catalog"
	"unimarket/internal/domain/user"
	"unimarket/internal/repository"

	"github.com/google/uuid"
)

// LookupService serves the read-only universities and categories tables.
type LookupService struct {
	lookupRepo repository.LookupRepository
}

func NewLookupService(lookupRepo repository.LookupRepository) *LookupService {
	return &LookupService{lookupRepo: lookupRepo}
}

func (s *LookupService) Universities(ctx context.Context) ([]user.University, error) {
	return s.lookupRepo.Universities(ctx)
}

func (s *LookupService) UniversityByID(ctx context.Context, id uuid.UUID) (user.University, error) {
	return s.lookupRepo.UniversityByID(ctx, id)
}

func (s *LookupService) Categories(ctx context.Context) ([]catalog.Category, error) {
	return s.lookupRepo.Categories(ctx)
}
