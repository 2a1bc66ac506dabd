package repository

import (
	"context"
	"errors"

	"github.com/finrasyo/finrasyo-server/internal/models"
)

var (
	// ErrInsufficientCredits is returned when a charge exceeds the user's balance
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrPaymentNotPending is returned when a payment has already left the pending state
	ErrPaymentNotPending = errors.New("payment is not pending")
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	DeductCredits(ctx context.Context, userID string, credits int64) (int64, error)

	// Company operations
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, companyID string) (*models.Company, error)
	GetCompanyByCode(ctx context.Context, userID, code string) (*models.Company, error)
	ListCompanies(ctx context.Context, userID string) ([]models.Company, error)
	DeleteCompany(ctx context.Context, companyID string) error

	// Financial data operations
	UpsertFinancialData(ctx context.Context, data *models.FinancialData) error
	GetFinancialData(ctx context.Context, id string) (*models.FinancialData, error)
	GetFinancialDataByYear(ctx context.Context, companyID string, year int) (*models.FinancialData, error)
	ListFinancialData(ctx context.Context, companyID string) ([]models.FinancialData, error)

	// Report operations
	CreateReport(ctx context.Context, report *models.Report) (int64, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context, userID string) ([]models.Report, error)

	// Payment operations
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	ListPayments(ctx context.Context, userID string) ([]models.Payment, error)
	CompletePayment(ctx context.Context, id, providerPaymentID string) (*models.Payment, error)
	FailPayment(ctx context.Context, id string) (*models.Payment, error)
}
