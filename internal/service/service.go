package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finrasyo/finrasyo-server/internal/fetch"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/pricing"
	"github.com/finrasyo/finrasyo-server/internal/repository"
	"github.com/finrasyo/finrasyo-server/internal/selection"
	"github.com/finrasyo/finrasyo-server/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	// ErrInsufficientCredits is returned when the user cannot pay for an operation
	ErrInsufficientCredits = repository.ErrInsufficientCredits
	// ErrInvalidPaymentState is returned when a payment is no longer pending
	ErrInvalidPaymentState = repository.ErrPaymentNotPending
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetMe(ctx context.Context, userID string) (*models.UserResponse, error)

	// Companies
	CreateCompany(ctx context.Context, userID string, req models.CreateCompanyRequest) (*models.Company, error)
	ListCompanies(ctx context.Context, userID string) (*models.CompanyListResponse, error)
	GetCompany(ctx context.Context, userID, companyID string) (*models.Company, error)
	DeleteCompany(ctx context.Context, userID, companyID string) error

	// Financial data
	SubmitFinancials(ctx context.Context, userID, companyID string, req models.SubmitFinancialsRequest) (*models.FinancialData, error)
	ListFinancials(ctx context.Context, userID, companyID string) (*models.FinancialsResponse, error)
	GetCompanyFinancials(ctx context.Context, userID, code string, year int) (*models.FinancialData, error)

	// Selection and pricing
	SearchCompanies(query string) []selection.ListedCompany
	Quote(companies, years, ratios int) models.QuoteResponse

	// Analysis
	RunAnalysis(ctx context.Context, userID string, req models.AnalysisRequest) (*models.AnalysisResponse, error)

	// Reports
	CreateReport(ctx context.Context, userID string, req models.CreateReportRequest) (*models.ReportResponse, error)
	ListReports(ctx context.Context, userID string) (*models.ReportListResponse, error)
	DownloadReport(ctx context.Context, userID, reportID string) (*Download, error)
	ExportFormats() []models.FormatInfo

	// Payments
	PurchaseCredits(ctx context.Context, userID string, req models.PurchaseCreditsRequest) (*models.PaymentResponse, error)
	ListPayments(ctx context.Context, userID string) (*models.PaymentListResponse, error)
	CompletePayment(ctx context.Context, paymentID string, req models.CompletePaymentRequest) (*models.PaymentResponse, error)
	FailPayment(ctx context.Context, paymentID string) (*models.PaymentResponse, error)
}

// Options configures a DefaultService. Zero values fall back to defaults.
type Options struct {
	JWTSecret     string
	TokenDuration time.Duration
	UnitPrice     decimal.Decimal
	CreditPrice   decimal.Decimal
	MaxYears      int
	Directory     *selection.Directory
	// Source, when set, replaces the user's stored financial data as the
	// input of analyses.
	Source fetch.Source
	Logger *utils.Logger
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	pricing       *pricing.Calculator
	creditPrice   decimal.Decimal
	maxYears      int
	directory     *selection.Directory
	source        fetch.Source
	log           *utils.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, opts Options) Service {
	return newDefaultService(repo, opts)
}

func newDefaultService(repo repository.Repository, opts Options) *DefaultService {
	if opts.Logger == nil {
		opts.Logger = utils.NewLogger("info", "")
	}
	if opts.TokenDuration <= 0 {
		opts.TokenDuration = 24 * time.Hour
	}
	if !opts.CreditPrice.IsPositive() {
		opts.CreditPrice = decimal.NewFromInt(1)
	}
	if opts.MaxYears <= 0 {
		opts.MaxYears = selection.DefaultMaxYears
	}
	if opts.Directory == nil {
		companies, err := selection.DefaultCompanies()
		if err != nil {
			opts.Logger.WithError(err).Warn("embedded BIST company list unreadable")
		}
		opts.Directory = selection.NewDirectory(companies, selection.DefaultMaxResults)
	}

	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(opts.JWTSecret),
		tokenDuration: opts.TokenDuration,
		pricing:       pricing.New(opts.UnitPrice),
		creditPrice:   opts.CreditPrice,
		maxYears:      opts.MaxYears,
		directory:     opts.Directory,
		source:        opts.Source,
		log:           opts.Logger,
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, models.NewValidationError("username", "username is required")
	}

	// Check if user already exists
	existingUser, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, ErrUserExists
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.ForUser(user.ID).Info("user signed up")

	return &models.AuthResponse{
		Status:   "success",
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Username:  user.Username,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

func (s *DefaultService) GetMe(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}

	return &models.UserResponse{Status: "success", User: user}, nil
}

// SearchCompanies filters the BIST directory.
func (s *DefaultService) SearchCompanies(query string) []selection.ListedCompany {
	return s.directory.Search(query)
}

// Quote prices a selection without touching the user's balance.
func (s *DefaultService) Quote(companies, years, ratios int) models.QuoteResponse {
	return quoteResponse(s.pricing.Quote(companies, years, ratios))
}

func quoteResponse(q pricing.Quote) models.QuoteResponse {
	return models.QuoteResponse{
		Companies:       q.Companies,
		Years:           q.Years,
		Ratios:          q.Ratios,
		UnitPrice:       q.UnitPrice.String(),
		Price:           q.Price.StringFixed(2),
		CreditsRequired: q.CreditsRequired,
	}
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
