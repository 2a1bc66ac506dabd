package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/ratio"
)

const maxCodeLength = 16

func (s *DefaultService) CreateCompany(
	ctx context.Context,
	userID string,
	req models.CreateCompanyRequest,
) (*models.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "company name is required")
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if len(code) > maxCodeLength {
		return nil, models.NewValidationError("code", "company code must be at most %d characters", maxCodeLength)
	}

	company := &models.Company{
		UserID: userID,
		Name:   name,
		Code:   code,
	}

	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("error creating company: %w", err)
	}

	return company, nil
}

func (s *DefaultService) ListCompanies(ctx context.Context, userID string) (*models.CompanyListResponse, error) {
	companies, err := s.repo.ListCompanies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing companies: %w", err)
	}

	return &models.CompanyListResponse{Status: "success", Companies: companies}, nil
}

func (s *DefaultService) GetCompany(ctx context.Context, userID, companyID string) (*models.Company, error) {
	return s.ownedCompany(ctx, userID, companyID)
}

func (s *DefaultService) DeleteCompany(ctx context.Context, userID, companyID string) error {
	if _, err := s.ownedCompany(ctx, userID, companyID); err != nil {
		return err
	}

	if err := s.repo.DeleteCompany(ctx, companyID); err != nil {
		return fmt.Errorf("error deleting company: %w", err)
	}

	return nil
}

// SubmitFinancials validates the balance sheet, derives its ratios and stores
// it as the company's record for the year.
func (s *DefaultService) SubmitFinancials(
	ctx context.Context,
	userID string,
	companyID string,
	req models.SubmitFinancialsRequest,
) (*models.FinancialData, error) {
	data := &models.FinancialData{
		CompanyID:    companyID,
		Year:         req.Year,
		BalanceSheet: req.BalanceSheet,
	}
	if err := ratio.Apply(data); err != nil {
		return nil, ratioValidationError(err)
	}

	if _, err := s.ownedCompany(ctx, userID, companyID); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertFinancialData(ctx, data); err != nil {
		return nil, fmt.Errorf("error saving financial data: %w", err)
	}

	return data, nil
}

func (s *DefaultService) ListFinancials(ctx context.Context, userID, companyID string) (*models.FinancialsResponse, error) {
	if _, err := s.ownedCompany(ctx, userID, companyID); err != nil {
		return nil, err
	}

	data, err := s.repo.ListFinancialData(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("error listing financial data: %w", err)
	}

	return &models.FinancialsResponse{Status: "success", Data: data}, nil
}

// GetCompanyFinancials returns the stored record of the user's company with
// the given ticker code for year.
func (s *DefaultService) GetCompanyFinancials(ctx context.Context, userID, code string, year int) (*models.FinancialData, error) {
	if strings.TrimSpace(code) == "" {
		return nil, models.NewValidationError("code", "company code is required")
	}

	company, err := s.repo.GetCompanyByCode(ctx, userID, code)
	if err != nil {
		return nil, fmt.Errorf("error getting company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("company %s %w", strings.ToUpper(code), ErrNotFound)
	}

	data, err := s.repo.GetFinancialDataByYear(ctx, company.ID, year)
	if err != nil {
		return nil, fmt.Errorf("error getting financial data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("financial data for %s in %d %w", company.Code, year, ErrNotFound)
	}

	return data, nil
}

func (s *DefaultService) ownedCompany(ctx context.Context, userID, companyID string) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("error getting company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("company %w", ErrNotFound)
	}
	if company.UserID != userID {
		return nil, fmt.Errorf("%w: company belongs to another user", ErrForbidden)
	}
	return company, nil
}

func ratioValidationError(err error) error {
	switch {
	case errors.Is(err, ratio.ErrZeroLiabilities):
		return models.NewValidationError("totalCurrentLiabilities", "%s", err.Error())
	case errors.Is(err, ratio.ErrNegativeInput):
		return models.NewValidationError("balanceSheet", "%s", err.Error())
	}
	return err
}
