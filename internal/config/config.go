package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultConfigPath    = "./config.yaml"
	defaultTokenDuration = 24 * time.Hour
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Selection  SelectionConfig  `yaml:"selection"`
	Directory  DirectoryConfig  `yaml:"directory"`
	Financials FinancialsConfig `yaml:"financials"`
	Payments   PaymentsConfig   `yaml:"payments"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"` // SQLite file, or ":memory:"
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// PricingConfig holds prices as decimal strings
type PricingConfig struct {
	UnitPrice   string `yaml:"unit_price"`
	CreditPrice string `yaml:"credit_price"`
}

// SelectionConfig bounds the company and year pickers
type SelectionConfig struct {
	MaxYears   int `yaml:"max_years"`
	MaxResults int `yaml:"max_results"`
}

// DirectoryConfig controls the BIST company directory
type DirectoryConfig struct {
	KAPURL         string `yaml:"kap_url"`
	RefreshOnStart bool   `yaml:"refresh_on_start"`
}

// FinancialsConfig selects where analyses read financial data from. An
// empty BaseURL reads the local database.
type FinancialsConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// PaymentsConfig holds the secret the payment provider sends with status
// callbacks. Callbacks are refused while it is empty.
type PaymentsConfig struct {
	WebhookSecret string `yaml:"webhook_secret"`
}

// LogConfig holds the logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// UnitPriceDecimal parses the unit price, returning zero when it is unset or invalid.
func (c PricingConfig) UnitPriceDecimal() decimal.Decimal {
	return parseDecimal(c.UnitPrice, decimal.Zero)
}

// CreditPriceDecimal parses the price of one credit, defaulting to 1.
func (c PricingConfig) CreditPriceDecimal() decimal.Decimal {
	price := parseDecimal(c.CreditPrice, decimal.NewFromInt(1))
	if !price.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return price
}

func parseDecimal(s string, fallback decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return d
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "password",
			DBName:   "finrasyo",
			SSLMode:  "disable",
			Path:     "finrasyo.db",
		},
		Auth: AuthConfig{
			JWTSecret:     "your-secret-key-here",
			TokenDuration: defaultTokenDuration,
		},
		Pricing: PricingConfig{
			UnitPrice:   "0.25",
			CreditPrice: "1.00",
		},
		Selection: SelectionConfig{MaxYears: 5, MaxResults: 15},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads the configuration. Values come from, in increasing
// precedence: built-in defaults, the YAML file at CONFIG_PATH, a .env file,
// and the process environment.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()

	path := getEnv("CONFIG_PATH", defaultConfigPath)
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if cfg.Auth.TokenDuration <= 0 {
		cfg.Auth.TokenDuration = defaultTokenDuration
	}
	switch cfg.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnvAsInt("SERVER_PORT", cfg.Server.Port)

	cfg.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", cfg.Database.Driver))
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvAsInt("DB_PORT", cfg.Database.Port)
	cfg.Database.Username = getEnv("DB_USERNAME", cfg.Database.Username)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenDuration = getEnvAsDuration("TOKEN_DURATION", cfg.Auth.TokenDuration)

	cfg.Pricing.UnitPrice = getEnv("PRICING_UNIT_PRICE", cfg.Pricing.UnitPrice)
	cfg.Pricing.CreditPrice = getEnv("PRICING_CREDIT_PRICE", cfg.Pricing.CreditPrice)

	cfg.Selection.MaxYears = getEnvAsInt("SELECTION_MAX_YEARS", cfg.Selection.MaxYears)
	cfg.Selection.MaxResults = getEnvAsInt("SELECTION_MAX_RESULTS", cfg.Selection.MaxResults)

	cfg.Directory.KAPURL = getEnv("KAP_URL", cfg.Directory.KAPURL)
	cfg.Directory.RefreshOnStart = getEnvAsBool("DIRECTORY_REFRESH_ON_START", cfg.Directory.RefreshOnStart)

	cfg.Financials.BaseURL = getEnv("FINANCIALS_BASE_URL", cfg.Financials.BaseURL)
	cfg.Financials.Token = getEnv("FINANCIALS_TOKEN", cfg.Financials.Token)

	cfg.Payments.WebhookSecret = getEnv("PAYMENTS_WEBHOOK_SECRET", cfg.Payments.WebhookSecret)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
