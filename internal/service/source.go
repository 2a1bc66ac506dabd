package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/finrasyo/finrasyo-server/internal/fetch"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/repository"
)

// RepositorySource serves analyses from the financial data a user has
// entered for their own companies.
type RepositorySource struct {
	repo   repository.Repository
	userID string
}

// NewRepositorySource returns a fetch.Source over userID's companies.
func NewRepositorySource(repo repository.Repository, userID string) *RepositorySource {
	return &RepositorySource{repo: repo, userID: userID}
}

// FetchFinancials implements fetch.Source. Database failures are reported as
// fetch.ErrUnavailable since no other pair can succeed either.
func (s *RepositorySource) FetchFinancials(ctx context.Context, code string, year int) (*models.FinancialData, error) {
	company, err := s.repo.GetCompanyByCode(ctx, s.userID, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fetch.ErrUnavailable, err)
	}
	if company == nil {
		return nil, fmt.Errorf("company %s %w", strings.ToUpper(code), ErrNotFound)
	}

	data, err := s.repo.GetFinancialDataByYear(ctx, company.ID, year)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fetch.ErrUnavailable, err)
	}
	if data == nil {
		return nil, fmt.Errorf("financial data for %s in %d %w", company.Code, year, ErrNotFound)
	}

	return data, nil
}
