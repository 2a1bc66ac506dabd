package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finrasyo/finrasyo-server/internal/api"
	"github.com/finrasyo/finrasyo-server/internal/config"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/repository"
	"github.com/finrasyo/finrasyo-server/internal/service"
	"github.com/finrasyo/finrasyo-server/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	TestUsername = "testuser"
	TestPassword = "testpassword"
	testSecret   = "test-secret-key"

	// TestWebhookSecret is the payment provider secret the test router accepts
	TestWebhookSecret = "test-webhook-secret"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  repository.Repository
	Service     service.Service
	JWTSecret   []byte
	DB          *sqlx.DB
	TestUserID  string
	TestUserJWT string
}

// SetupTestContext builds the full router on a fresh in-memory database
// with one registered user holding no credits.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = ":memory:"
	cfg.Auth.JWTSecret = testSecret

	db, err := config.SetupDatabase(cfg)
	require.NoError(t, err, "Failed to set up test database")

	repo := repository.NewSQLRepository(db)

	svc := service.NewDefaultService(repo, service.Options{
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenDuration: cfg.Auth.TokenDuration,
		UnitPrice:     cfg.Pricing.UnitPriceDecimal(),
		CreditPrice:   cfg.Pricing.CreditPriceDecimal(),
		MaxYears:      cfg.Selection.MaxYears,
		Logger:        utils.NewLogger("error", ""),
	})

	handler := api.NewHandler(svc, TestWebhookSecret)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.JWTSecretMiddleware(cfg.Auth.JWTSecret))
	handler.SetupRoutes(router)

	testUserID, token := createTestUser(t, repo, cfg.Auth.JWTSecret)

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		DB:          db,
		TestUserID:  testUserID,
		TestUserJWT: token,
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	if t.DB != nil {
		t.DB.Close()
	}
}

// SetCredits overwrites a user's balance
func (tc *TestContext) SetCredits(t *testing.T, userID string, credits int64) {
	t.Helper()
	_, err := tc.DB.Exec(tc.DB.Rebind(`UPDATE users SET credits = ? WHERE id = ?`), credits, userID)
	require.NoError(t, err, "Failed to set credits")
}

// Credits reads a user's balance
func (tc *TestContext) Credits(t *testing.T, userID string) int64 {
	t.Helper()
	user, err := tc.Repository.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user.Credits
}

// CreateUser registers another user and returns its id and token
func (tc *TestContext) CreateUser(t *testing.T, username string) (string, string) {
	t.Helper()
	return newUser(t, tc.Repository, string(tc.JWTSecret), username)
}

// Helper functions
func createTestUser(t *testing.T, repo repository.Repository, jwtSecret string) (string, string) {
	return newUser(t, repo, jwtSecret, TestUsername)
}

func newUser(t *testing.T, repo repository.Repository, jwtSecret, username string) (string, string) {
	t.Helper()

	// MinCost: bcrypt at DefaultCost dominates suite time
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashedPassword),
	}

	err = repo.CreateUser(context.Background(), user)
	require.NoError(t, err, "Failed to create test user")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(jwtSecret))
	require.NoError(t, err, "Failed to generate JWT token")

	return user.ID, tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// WebhookHeaders returns headers carrying the payment provider secret
func WebhookHeaders(secret string) map[string]string {
	return map[string]string{
		api.WebhookSecretHeader: secret,
	}
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
