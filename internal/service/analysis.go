package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/finrasyo/finrasyo-server/internal/fetch"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/ratio"
	"github.com/finrasyo/finrasyo-server/internal/selection"
	"github.com/sirupsen/logrus"
)

// Accepted fiscal years, matching the bounds on submitted financials.
const (
	minYear = 1900
	maxYear = 2100
)

// RunAnalysis prices the selection, checks the user's balance, fetches every
// (company, year) pair and charges the quote once the run has completed with
// at least one usable pair. A failed run costs nothing.
func (s *DefaultService) RunAnalysis(
	ctx context.Context,
	userID string,
	req models.AnalysisRequest,
) (*models.AnalysisResponse, error) {
	kinds, err := ratio.ParseKinds(req.Ratios)
	if err != nil {
		return nil, err
	}

	for _, year := range req.Years {
		if year < minYear || year > maxYear {
			return nil, models.NewValidationError("years", "year %d is outside %d-%d", year, minYear, maxYear)
		}
	}

	years := selection.NewYearSelection(s.maxYears).SelectAll(req.Years).Years

	companies, err := s.companyRefs(ctx, userID, req.Companies)
	if err != nil {
		return nil, err
	}

	fetchReq := fetch.Request{Companies: companies, Years: years, Ratios: kinds}
	if err := fetchReq.Validate(); err != nil {
		return nil, err
	}

	quote := s.pricing.Quote(len(companies), len(years), len(kinds))

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	if user.Credits < quote.CreditsRequired {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCredits, quote.CreditsRequired, user.Credits)
	}

	log := s.log.ForUser(userID)
	source := s.source
	if source == nil {
		source = NewRepositorySource(s.repo, userID)
	}

	result, err := fetch.NewOrchestrator(source, log).Run(ctx, fetchReq, func(fraction float64) {
		log.WithField("progress", fraction).Debug("analysis progress")
	})
	if err != nil {
		return nil, err
	}

	response := &models.AnalysisResponse{
		Status:           "success",
		Quote:            quoteResponse(quote),
		RemainingCredits: user.Credits,
		Years:            years,
		Results:          result,
	}

	if !anySucceeded(result) {
		log.Warn("analysis produced no data, nothing charged")
		return response, nil
	}

	remaining, err := s.repo.DeductCredits(ctx, userID, quote.CreditsRequired)
	if err != nil {
		return nil, fmt.Errorf("error charging analysis: %w", err)
	}
	response.CreditsCharged = quote.CreditsRequired
	response.RemainingCredits = remaining

	log.WithFields(logrus.Fields{
		"credits":   quote.CreditsRequired,
		"companies": len(companies),
		"years":     len(years),
		"ratios":    len(kinds),
	}).Info("analysis charged")

	return response, nil
}

// companyRefs resolves ticker codes to display names, preferring the user's
// own company name, then the BIST directory. Duplicates are dropped.
func (s *DefaultService) companyRefs(ctx context.Context, userID string, codes []string) ([]fetch.CompanyRef, error) {
	seen := make(map[string]bool, len(codes))
	refs := make([]fetch.CompanyRef, 0, len(codes))

	for _, raw := range codes {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" {
			return nil, models.NewValidationError("companies", "company code is required")
		}
		if seen[code] {
			continue
		}
		seen[code] = true

		name := code
		if listed, ok := s.directory.Lookup(code); ok {
			name = listed.Name
		}
		company, err := s.repo.GetCompanyByCode(ctx, userID, code)
		if err != nil {
			return nil, fmt.Errorf("error getting company: %w", err)
		}
		if company != nil {
			name = company.Name
		}

		refs = append(refs, fetch.CompanyRef{Code: code, Name: name})
	}

	return refs, nil
}

func anySucceeded(result models.AnalysisResult) bool {
	for _, company := range result {
		for _, outcome := range company.Years {
			if outcome.OK() {
				return true
			}
		}
	}
	return false
}
