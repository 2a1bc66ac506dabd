package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/finrasyo/finrasyo-server/internal/export"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/ratio"
	"github.com/sirupsen/logrus"
)

const defaultReportType = "liquidity"

// Download is a rendered report ready to be sent to the client
type Download struct {
	FileName    string
	ContentType string
	Content     []byte
}

// CreateReport records a report over one financial data record and charges
// the price of a single company-year with every ratio.
func (s *DefaultService) CreateReport(
	ctx context.Context,
	userID string,
	req models.CreateReportRequest,
) (*models.ReportResponse, error) {
	format, err := models.ParseExportFormat(req.Format)
	if err != nil {
		return nil, err
	}

	data, err := s.repo.GetFinancialData(ctx, req.FinancialDataID)
	if err != nil {
		return nil, fmt.Errorf("error getting financial data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("financial data %w", ErrNotFound)
	}

	company, err := s.ownedCompany(ctx, userID, data.CompanyID)
	if err != nil {
		return nil, err
	}

	reportType := strings.TrimSpace(req.Type)
	if reportType == "" {
		reportType = defaultReportType
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = export.Document{CompanyName: company.Name, Data: *data}.Title()
	}

	quote := s.pricing.Quote(1, 1, len(ratio.AllKinds))
	report := &models.Report{
		Name:            name,
		Type:            reportType,
		Format:          format,
		CompanyName:     company.Name,
		UserID:          userID,
		CompanyID:       company.ID,
		FinancialDataID: data.ID,
		CreditsCharged:  quote.CreditsRequired,
	}

	remaining, err := s.repo.CreateReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("error creating report: %w", err)
	}

	s.log.ForUser(userID).WithFields(logrus.Fields{
		"report":  report.ID,
		"format":  report.Format,
		"credits": report.CreditsCharged,
	}).Info("report charged")

	return &models.ReportResponse{
		Status:           "success",
		Report:           report,
		RemainingCredits: remaining,
	}, nil
}

func (s *DefaultService) ListReports(ctx context.Context, userID string) (*models.ReportListResponse, error) {
	reports, err := s.repo.ListReports(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}

	return &models.ReportListResponse{Status: "success", Reports: reports}, nil
}

// DownloadReport renders a stored report. Rendering is free; the report was
// paid for when it was created.
func (s *DefaultService) DownloadReport(ctx context.Context, userID, reportID string) (*Download, error) {
	report, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("error getting report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("report %w", ErrNotFound)
	}
	if report.UserID != userID {
		return nil, fmt.Errorf("%w: report belongs to another user", ErrForbidden)
	}

	data, err := s.repo.GetFinancialData(ctx, report.FinancialDataID)
	if err != nil {
		return nil, fmt.Errorf("error getting financial data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("financial data %w", ErrNotFound)
	}

	company, err := s.repo.GetCompany(ctx, report.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("error getting company: %w", err)
	}
	doc := export.Document{
		ReportName:  report.Name,
		CompanyName: report.CompanyName,
		Data:        *data,
		GeneratedAt: report.CreatedAt,
	}
	if company != nil {
		doc.CompanyCode = company.Code
	}

	content, err := export.Render(report.Format, doc)
	if err != nil {
		return nil, fmt.Errorf("error rendering report: %w", err)
	}

	info, _ := report.Format.Info()
	return &Download{
		FileName:    export.FileName(report.CompanyName, data.Year, report.Format),
		ContentType: info.ContentType,
		Content:     content,
	}, nil
}

// ExportFormats lists the formats a report can be created in.
func (s *DefaultService) ExportFormats() []models.FormatInfo {
	return models.ExportFormats
}
