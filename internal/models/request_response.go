package models

// Request models
type SignUpRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code"`
}

type SubmitFinancialsRequest struct {
	Year int `json:"year" binding:"required,gte=1900,lte=2100"`
	BalanceSheet
}

type AnalysisRequest struct {
	Companies []string `json:"companies"`
	Years     []int    `json:"years"`
	Ratios    []string `json:"ratios"`
}

type CreateReportRequest struct {
	FinancialDataID string `json:"financialDataId" binding:"required"`
	Format          string `json:"format" binding:"required"`
	Name            string `json:"name"`
	Type            string `json:"type"`
}

type PurchaseCreditsRequest struct {
	Credits int64 `json:"credits" binding:"required,gte=1"`
}

type CompletePaymentRequest struct {
	ProviderPaymentID string `json:"providerPaymentId"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type UserResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user"`
}

type CompanyListResponse struct {
	Status    string    `json:"status"`
	Companies []Company `json:"companies"`
}

type FinancialsResponse struct {
	Status string          `json:"status"`
	Data   []FinancialData `json:"data"`
}

type QuoteResponse struct {
	Companies       int    `json:"companies"`
	Years           int    `json:"years"`
	Ratios          int    `json:"ratios"`
	UnitPrice       string `json:"unitPrice"`
	Price           string `json:"price"`
	CreditsRequired int64  `json:"creditsRequired"`
}

// AnalysisOutcome is the result of one (company, year) retrieval. Exactly one
// of Data or Error is set.
type AnalysisOutcome struct {
	Data   *FinancialData     `json:"data,omitempty"`
	Ratios map[string]float64 `json:"ratios,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// OK reports whether the retrieval succeeded.
func (o AnalysisOutcome) OK() bool {
	return o.Error == ""
}

type CompanyAnalysis struct {
	Name  string                  `json:"name"`
	Years map[int]AnalysisOutcome `json:"years"`
}

// AnalysisResult maps company code to the per-year outcomes of that company
type AnalysisResult map[string]CompanyAnalysis

type AnalysisResponse struct {
	Status           string         `json:"status"`
	Quote            QuoteResponse  `json:"quote"`
	CreditsCharged   int64          `json:"creditsCharged"`
	RemainingCredits int64          `json:"remainingCredits"`
	Years            []int          `json:"years"`
	Results          AnalysisResult `json:"results"`
}

type ReportResponse struct {
	Status           string  `json:"status"`
	Report           *Report `json:"report"`
	RemainingCredits int64   `json:"remainingCredits"`
}

type ReportListResponse struct {
	Status  string   `json:"status"`
	Reports []Report `json:"reports"`
}

type PaymentResponse struct {
	Status  string   `json:"status"`
	Payment *Payment `json:"payment"`
}

type PaymentListResponse struct {
	Status   string    `json:"status"`
	Payments []Payment `json:"payments"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
