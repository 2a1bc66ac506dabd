package config

import (
	"fmt"

	_ "github.com/glebarez/go-sqlite" // SQLite driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	log "github.com/sirupsen/logrus"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect(cfg.Database.Driver, cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.Driver == DriverSQLite {
		// One connection keeps ":memory:" databases alive and serializes writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		username VARCHAR(64) UNIQUE NOT NULL,
		email VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		credits BIGINT NOT NULL DEFAULT 0 CHECK (credits >= 0),
		stripe_customer_id VARCHAR(255),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(16) NOT NULL DEFAULT '',
		last_updated TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS financial_data (
		id VARCHAR(36) PRIMARY KEY,
		company_id VARCHAR(36) NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		cash_and_equivalents DOUBLE PRECISION NOT NULL,
		accounts_receivable DOUBLE PRECISION NOT NULL,
		inventory DOUBLE PRECISION NOT NULL,
		other_current_assets DOUBLE PRECISION NOT NULL,
		total_current_assets DOUBLE PRECISION NOT NULL,
		short_term_debt DOUBLE PRECISION NOT NULL,
		accounts_payable DOUBLE PRECISION NOT NULL,
		total_current_liabilities DOUBLE PRECISION NOT NULL,
		current_ratio DOUBLE PRECISION NOT NULL,
		liquidity_ratio DOUBLE PRECISION NOT NULL,
		acid_test_ratio DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (company_id, year)
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(32) NOT NULL,
		format VARCHAR(8) NOT NULL,
		company_name VARCHAR(255) NOT NULL,
		user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		company_id VARCHAR(36) NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		financial_data_id VARCHAR(36) NOT NULL REFERENCES financial_data(id) ON DELETE CASCADE,
		credits_charged BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount VARCHAR(32) NOT NULL,
		credits BIGINT NOT NULL CHECK (credits > 0),
		provider_payment_id VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_companies_user_id ON companies(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_companies_code ON companies(code)",
		"CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments(user_id)",
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			log.WithError(err).Warn("failed to create index")
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
