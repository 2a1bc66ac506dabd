package models

import (
	"database/sql"
	"time"
)

// User represents a FinRasyo account
type User struct {
	ID               string         `db:"id" json:"id"`
	Username         string         `db:"username" json:"username"`
	Email            string         `db:"email" json:"email"`
	Password         string         `db:"password" json:"-"` // Password hash, not returned in JSON
	Credits          int64          `db:"credits" json:"credits"`
	StripeCustomerID sql.NullString `db:"stripe_customer_id" json:"-"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updatedAt"`
}

// Company is a business registered by a user for analysis
type Company struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code,omitempty"` // Ticker code, empty for unlisted companies
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// BalanceSheet holds the raw current asset and liability line items of one fiscal year
type BalanceSheet struct {
	CashAndEquivalents      float64 `db:"cash_and_equivalents" json:"cashAndEquivalents"`
	AccountsReceivable      float64 `db:"accounts_receivable" json:"accountsReceivable"`
	Inventory               float64 `db:"inventory" json:"inventory"`
	OtherCurrentAssets      float64 `db:"other_current_assets" json:"otherCurrentAssets"`
	TotalCurrentAssets      float64 `db:"total_current_assets" json:"totalCurrentAssets"`
	ShortTermDebt           float64 `db:"short_term_debt" json:"shortTermDebt"`
	AccountsPayable         float64 `db:"accounts_payable" json:"accountsPayable"`
	TotalCurrentLiabilities float64 `db:"total_current_liabilities" json:"totalCurrentLiabilities"`
}

// FinancialData is the balance sheet of a company for a year together with
// the ratios derived from it at submission time.
type FinancialData struct {
	ID        string `db:"id" json:"id"`
	CompanyID string `db:"company_id" json:"companyId"`
	Year      int    `db:"year" json:"year"`
	BalanceSheet
	CurrentRatio   float64   `db:"current_ratio" json:"currentRatio"`
	LiquidityRatio float64   `db:"liquidity_ratio" json:"liquidityRatio"`
	AcidTestRatio  float64   `db:"acid_test_ratio" json:"acidTestRatio"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// Report records an export requested by a user
type Report struct {
	ID              string       `db:"id" json:"id"`
	Name            string       `db:"name" json:"name"`
	Type            string       `db:"type" json:"type"`
	Format          ExportFormat `db:"format" json:"format"`
	CompanyName     string       `db:"company_name" json:"companyName"`
	UserID          string       `db:"user_id" json:"userId"`
	CompanyID       string       `db:"company_id" json:"companyId"`
	FinancialDataID string       `db:"financial_data_id" json:"financialDataId"`
	CreditsCharged  int64        `db:"credits_charged" json:"creditsCharged"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
}

// PaymentStatus is the lifecycle state of a credit purchase
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is a credit purchase. Amount is stored as a decimal string.
type Payment struct {
	ID                string        `db:"id" json:"id"`
	UserID            string        `db:"user_id" json:"userId"`
	Amount            string        `db:"amount" json:"amount"`
	Credits           int64         `db:"credits" json:"credits"`
	ProviderPaymentID string        `db:"provider_payment_id" json:"providerPaymentId"`
	Status            PaymentStatus `db:"status" json:"status"`
	CreatedAt         time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updatedAt"`
}
