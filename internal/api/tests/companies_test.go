package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/finrasyo/finrasyo-server/internal/api/testutils"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateCompany(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: Successful creation, code is upper-cased
	company := createCompany(t, testCtx, "Garanti Bankası", "garan")
	assert.NotEmpty(t, company.ID)
	assert.Equal(t, "GARAN", company.Code)
	assert.Equal(t, testCtx.TestUserID, company.UserID)

	// Test case 2: Missing name
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/companies",
		models.CreateCompanyRequest{Code: "THYAO"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 3: Blank name passes binding but not the service
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/companies",
		models.CreateCompanyRequest{Name: "   "},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 4: Unauthorized request (no token)
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/companies",
		models.CreateCompanyRequest{Name: "Aselsan"},
		nil,
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The list only holds the one valid company
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/companies", nil, testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var list models.CompanyListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Companies, 1)
}

func TestDeleteCompany(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	company := createCompany(t, testCtx, "Aselsan", "ASELS")
	submitFinancials(t, testCtx, company.ID, 2023, sampleSheet())

	// Another user may not delete it
	_, otherToken := testCtx.CreateUser(t, "intruder")
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		fmt.Sprintf("/api/companies/%s", company.ID),
		nil,
		testutils.AuthHeaders(otherToken),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner may
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		fmt.Sprintf("/api/companies/%s", company.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/companies/%s", company.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Its financial data went with it
	var count int
	assert.NoError(t, testCtx.DB.Get(&count, testCtx.DB.Rebind(`SELECT COUNT(*) FROM financial_data WHERE company_id = ?`), company.ID))
	assert.Equal(t, 0, count)
}

func TestSubmitFinancials(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	company := createCompany(t, testCtx, "Garanti Bankası", "GARAN")

	// Test case 1: Ratios are derived on submission
	data := submitFinancials(t, testCtx, company.ID, 2023, sampleSheet())
	assert.InDelta(t, 2.0, data.CurrentRatio, 1e-9)
	assert.InDelta(t, 1.6, data.LiquidityRatio, 1e-9)
	assert.InDelta(t, 0.8, data.AcidTestRatio, 1e-9)

	// Test case 2: Zero liabilities are rejected
	bs := sampleSheet()
	bs.TotalCurrentLiabilities = 0
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/companies/%s/financials", company.ID),
		models.SubmitFinancialsRequest{Year: 2022, BalanceSheet: bs},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)

	// Test case 3: Negative values are rejected
	bs = sampleSheet()
	bs.Inventory = -1
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/companies/%s/financials", company.ID),
		models.SubmitFinancialsRequest{Year: 2022, BalanceSheet: bs},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 4: Year is required
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/companies/%s/financials", company.ID),
		models.SubmitFinancialsRequest{BalanceSheet: sampleSheet()},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 5: Unknown company
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/companies/does-not-exist/financials",
		models.SubmitFinancialsRequest{Year: 2022, BalanceSheet: sampleSheet()},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Only the valid submission was stored, and lastUpdated moved
	submitFinancials(t, testCtx, company.ID, 2021, sampleSheet())
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/companies/%s/financials", company.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var list models.FinancialsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	if assert.Len(t, list.Data, 2) {
		assert.Equal(t, 2023, list.Data[0].Year)
		assert.Equal(t, 2021, list.Data[1].Year)
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/companies/%s", company.ID),
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	var updated companyResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.False(t, updated.Company.LastUpdated.Before(company.LastUpdated))
}

func TestGetCompanyFinancialsByCode(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	company := createCompany(t, testCtx, "Garanti Bankası", "GARAN")
	submitFinancials(t, testCtx, company.ID, 2023, sampleSheet())

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/company-financials/garan?year=2023", nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var data models.FinancialData
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, 2023, data.Year)
	assert.Equal(t, 100.0, data.TotalCurrentLiabilities)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/company-financials/GARAN?year=2019", nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/company-financials/GARAN?year=last", nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/company-financials/THYAO?year=2023", nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
