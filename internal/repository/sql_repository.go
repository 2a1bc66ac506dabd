package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLRepository implements the Repository interface on PostgreSQL or SQLite.
// Queries use ? placeholders and are rebound for the active driver.
type SQLRepository struct {
	db *sqlx.DB
}

// NewSQLRepository creates a new SQL repository
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *SQLRepository) GetDB() *sqlx.DB {
	return r.db
}

func (r *SQLRepository) get(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := r.db.GetContext(ctx, dest, r.db.Rebind(query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// User repository methods
func (r *SQLRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password, credits, stripe_customer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		user.ID, user.Username, user.Email, user.Password, user.Credits,
		user.StripeCustomerID, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *SQLRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	found, err := r.get(ctx, &user, `SELECT * FROM users WHERE username = ?`, username)
	if err != nil || !found {
		return nil, err // nil, nil when the user does not exist
	}
	return &user, nil
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := r.get(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// DeductCredits removes credits from the user's balance and returns what is left.
func (r *SQLRepository) DeductCredits(ctx context.Context, userID string, credits int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	remaining, err := deductCreditsTx(ctx, tx, userID, credits)
	if err != nil {
		return 0, err
	}

	return remaining, tx.Commit()
}

// deductCreditsTx charges credits inside tx. The balance check and the update
// are one statement, so concurrent charges cannot overdraw.
func deductCreditsTx(ctx context.Context, tx *sqlx.Tx, userID string, credits int64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE users SET credits = credits - ?, updated_at = ? WHERE id = ? AND credits >= ?`),
		credits, time.Now().UTC(), userID, credits)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrInsufficientCredits
	}

	var remaining int64
	if err := tx.GetContext(ctx, &remaining, tx.Rebind(`SELECT credits FROM users WHERE id = ?`), userID); err != nil {
		return 0, err
	}
	return remaining, nil
}

// Company repository methods
func (r *SQLRepository) CreateCompany(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, user_id, name, code, last_updated, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if company.ID == "" {
		company.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	company.CreatedAt = now
	company.LastUpdated = now
	company.Code = strings.ToUpper(strings.TrimSpace(company.Code))

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		company.ID, company.UserID, company.Name, company.Code, company.LastUpdated, company.CreatedAt)

	return err
}

func (r *SQLRepository) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	var company models.Company
	found, err := r.get(ctx, &company, `SELECT * FROM companies WHERE id = ?`, companyID)
	if err != nil || !found {
		return nil, err
	}
	return &company, nil
}

func (r *SQLRepository) GetCompanyByCode(ctx context.Context, userID, code string) (*models.Company, error) {
	var company models.Company
	found, err := r.get(ctx, &company,
		`SELECT * FROM companies WHERE user_id = ? AND code = ? ORDER BY created_at ASC LIMIT 1`,
		userID, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil || !found {
		return nil, err
	}
	return &company, nil
}

func (r *SQLRepository) ListCompanies(ctx context.Context, userID string) ([]models.Company, error) {
	companies := []models.Company{}
	err := r.db.SelectContext(ctx, &companies,
		r.db.Rebind(`SELECT * FROM companies WHERE user_id = ? ORDER BY name ASC`), userID)
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *SQLRepository) DeleteCompany(ctx context.Context, companyID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Children before the company row
	for _, stmt := range []string{
		`DELETE FROM reports WHERE company_id = ?`,
		`DELETE FROM financial_data WHERE company_id = ?`,
		`DELETE FROM companies WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), companyID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Financial data repository methods

// UpsertFinancialData stores data as the record of its company and year,
// replacing an earlier submission, and refreshes the company's last update.
func (r *SQLRepository) UpsertFinancialData(ctx context.Context, data *models.FinancialData) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if data.ID == "" {
		data.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	data.CreatedAt = now

	query := `
		INSERT INTO financial_data (
			id, company_id, year,
			cash_and_equivalents, accounts_receivable, inventory, other_current_assets,
			total_current_assets, short_term_debt, accounts_payable, total_current_liabilities,
			current_ratio, liquidity_ratio, acid_test_ratio, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_id, year) DO UPDATE SET
			cash_and_equivalents = excluded.cash_and_equivalents,
			accounts_receivable = excluded.accounts_receivable,
			inventory = excluded.inventory,
			other_current_assets = excluded.other_current_assets,
			total_current_assets = excluded.total_current_assets,
			short_term_debt = excluded.short_term_debt,
			accounts_payable = excluded.accounts_payable,
			total_current_liabilities = excluded.total_current_liabilities,
			current_ratio = excluded.current_ratio,
			liquidity_ratio = excluded.liquidity_ratio,
			acid_test_ratio = excluded.acid_test_ratio,
			created_at = excluded.created_at
	`

	bs := data.BalanceSheet
	_, err = tx.ExecContext(ctx, tx.Rebind(query),
		data.ID, data.CompanyID, data.Year,
		bs.CashAndEquivalents, bs.AccountsReceivable, bs.Inventory, bs.OtherCurrentAssets,
		bs.TotalCurrentAssets, bs.ShortTermDebt, bs.AccountsPayable, bs.TotalCurrentLiabilities,
		data.CurrentRatio, data.LiquidityRatio, data.AcidTestRatio, data.CreatedAt)
	if err != nil {
		return err
	}

	// On conflict the row keeps its original id.
	err = tx.GetContext(ctx, &data.ID,
		tx.Rebind(`SELECT id FROM financial_data WHERE company_id = ? AND year = ?`),
		data.CompanyID, data.Year)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind(`UPDATE companies SET last_updated = ? WHERE id = ?`), now, data.CompanyID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLRepository) GetFinancialData(ctx context.Context, id string) (*models.FinancialData, error) {
	var data models.FinancialData
	found, err := r.get(ctx, &data, `SELECT * FROM financial_data WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &data, nil
}

func (r *SQLRepository) GetFinancialDataByYear(ctx context.Context, companyID string, year int) (*models.FinancialData, error) {
	var data models.FinancialData
	found, err := r.get(ctx, &data,
		`SELECT * FROM financial_data WHERE company_id = ? AND year = ?`, companyID, year)
	if err != nil || !found {
		return nil, err
	}
	return &data, nil
}

func (r *SQLRepository) ListFinancialData(ctx context.Context, companyID string) ([]models.FinancialData, error) {
	data := []models.FinancialData{}
	err := r.db.SelectContext(ctx, &data,
		r.db.Rebind(`SELECT * FROM financial_data WHERE company_id = ? ORDER BY year DESC`), companyID)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Report repository methods

// CreateReport charges report.CreditsCharged to the owner and stores the
// report in one transaction. It returns the remaining balance.
func (r *SQLRepository) CreateReport(ctx context.Context, report *models.Report) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	remaining, err := deductCreditsTx(ctx, tx, report.UserID, report.CreditsCharged)
	if err != nil {
		return 0, err
	}

	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO reports (id, name, type, format, company_name, user_id, company_id, financial_data_id, credits_charged, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, tx.Rebind(query),
		report.ID, report.Name, report.Type, report.Format, report.CompanyName,
		report.UserID, report.CompanyID, report.FinancialDataID, report.CreditsCharged, report.CreatedAt)
	if err != nil {
		return 0, err
	}

	return remaining, tx.Commit()
}

func (r *SQLRepository) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	found, err := r.get(ctx, &report, `SELECT * FROM reports WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &report, nil
}

func (r *SQLRepository) ListReports(ctx context.Context, userID string) ([]models.Report, error) {
	reports := []models.Report{}
	err := r.db.SelectContext(ctx, &reports,
		r.db.Rebind(`SELECT * FROM reports WHERE user_id = ? ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// Payment repository methods
func (r *SQLRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, amount, credits, provider_payment_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}

	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		payment.ID, payment.UserID, payment.Amount, payment.Credits,
		payment.ProviderPaymentID, payment.Status, payment.CreatedAt, payment.UpdatedAt)

	return err
}

func (r *SQLRepository) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	found, err := r.get(ctx, &payment, `SELECT * FROM payments WHERE id = ?`, id)
	if err != nil || !found {
		return nil, err
	}
	return &payment, nil
}

func (r *SQLRepository) ListPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.db.SelectContext(ctx, &payments,
		r.db.Rebind(`SELECT * FROM payments WHERE user_id = ? ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// CompletePayment moves a pending payment to completed and credits the buyer.
func (r *SQLRepository) CompletePayment(ctx context.Context, id, providerPaymentID string) (*models.Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	payment, err := transitionPaymentTx(ctx, tx, id, models.PaymentCompleted, providerPaymentID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind(`UPDATE users SET credits = credits + ?, updated_at = ? WHERE id = ?`),
		payment.Credits, payment.UpdatedAt, payment.UserID)
	if err != nil {
		return nil, err
	}

	return payment, tx.Commit()
}

// FailPayment moves a pending payment to failed.
func (r *SQLRepository) FailPayment(ctx context.Context, id string) (*models.Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	payment, err := transitionPaymentTx(ctx, tx, id, models.PaymentFailed, "")
	if err != nil {
		return nil, err
	}

	return payment, tx.Commit()
}

func transitionPaymentTx(
	ctx context.Context,
	tx *sqlx.Tx,
	id string,
	status models.PaymentStatus,
	providerPaymentID string,
) (*models.Payment, error) {
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE payments
		SET status = ?, updated_at = ?,
			provider_payment_id = CASE WHEN ? = '' THEN provider_payment_id ELSE ? END
		WHERE id = ? AND status = ?`),
		status, now, providerPaymentID, providerPaymentID, id, models.PaymentPending)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPaymentNotPending
	}

	var payment models.Payment
	if err := tx.GetContext(ctx, &payment, tx.Rebind(`SELECT * FROM payments WHERE id = ?`), id); err != nil {
		return nil, err
	}
	return &payment, nil
}
