package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/finrasyo/finrasyo-server/internal/api/testutils"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/stretchr/testify/require"
)

type companyResponse struct {
	Status  string         `json:"status"`
	Company models.Company `json:"company"`
}

type financialsResponse struct {
	Status string               `json:"status"`
	Data   models.FinancialData `json:"data"`
}

func sampleSheet() models.BalanceSheet {
	return models.BalanceSheet{
		CashAndEquivalents:      50,
		AccountsReceivable:      30,
		Inventory:               40,
		OtherCurrentAssets:      80,
		TotalCurrentAssets:      200,
		ShortTermDebt:           60,
		AccountsPayable:         40,
		TotalCurrentLiabilities: 100,
	}
}

func createCompany(t *testing.T, testCtx *testutils.TestContext, name, code string) models.Company {
	t.Helper()

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/companies",
		models.CreateCompanyRequest{Name: name, Code: code},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp companyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Company
}

func submitFinancials(t *testing.T, testCtx *testutils.TestContext, companyID string, year int, bs models.BalanceSheet) models.FinancialData {
	t.Helper()

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		fmt.Sprintf("/api/companies/%s/financials", companyID),
		models.SubmitFinancialsRequest{Year: year, BalanceSheet: bs},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp financialsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}
