package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/finrasyo/finrasyo-server/internal/api/testutils"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFormats(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/export-formats", nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Formats []models.FormatInfo `json:"formats"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Formats, 4)
}

func TestCreateAndDownloadReport(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	company := createCompany(t, testCtx, "Garanti Bankası", "GARAN")
	data := submitFinancials(t, testCtx, company.ID, 2023, sampleSheet())

	// Test case 1: No credits
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/reports",
		models.CreateReportRequest{FinancialDataID: data.ID, Format: "csv"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	testCtx.SetCredits(t, testCtx.TestUserID, 4)

	// Test case 2: Unknown format
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/reports",
		models.CreateReportRequest{FinancialDataID: data.ID, Format: "odt"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 3: Unknown financial data
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/reports",
		models.CreateReportRequest{FinancialDataID: "missing", Format: "csv"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Test case 4: One report per format, one credit each
	contentTypes := map[string]string{
		"pdf":   "application/pdf",
		"word":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"excel": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"csv":   "text/csv",
	}
	extensions := map[string]string{"pdf": ".pdf", "word": ".docx", "excel": ".xlsx", "csv": ".csv"}

	remaining := int64(4)
	for _, format := range []string{"pdf", "word", "excel", "csv"} {
		w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/reports",
			models.CreateReportRequest{FinancialDataID: data.ID, Format: format},
			testutils.AuthHeaders(testCtx.TestUserJWT))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp models.ReportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		remaining--
		assert.Equal(t, remaining, resp.RemainingCredits)
		assert.Equal(t, models.ExportFormat(format), resp.Report.Format)

		w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
			fmt.Sprintf("/api/reports/%s/download", resp.Report.ID), nil,
			testutils.AuthHeaders(testCtx.TestUserJWT))
		require.Equal(t, http.StatusOK, w.Code, format)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), contentTypes[format]), format)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "garanti-bankasi-2023"+extensions[format])
		assert.NotZero(t, w.Body.Len())
	}

	// Test case 5: Balance exhausted
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/reports",
		models.CreateReportRequest{FinancialDataID: data.ID, Format: "csv"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/reports", nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	var list models.ReportListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Reports, 4)
}

func TestReportsArePrivate(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	company := createCompany(t, testCtx, "Aselsan", "ASELS")
	data := submitFinancials(t, testCtx, company.ID, 2023, sampleSheet())
	testCtx.SetCredits(t, testCtx.TestUserID, 1)

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/reports",
		models.CreateReportRequest{FinancialDataID: data.ID, Format: "pdf", Name: "Aselsan Raporu"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.ReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Aselsan Raporu", resp.Report.Name)

	otherID, otherToken := testCtx.CreateUser(t, "intruder")
	testCtx.SetCredits(t, otherID, 5)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		fmt.Sprintf("/api/reports/%s/download", resp.Report.ID), nil, testutils.AuthHeaders(otherToken))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Reporting on someone else's data is refused and costs nothing
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/reports",
		models.CreateReportRequest{FinancialDataID: data.ID, Format: "csv"}, testutils.AuthHeaders(otherToken))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(5), testCtx.Credits(t, otherID))
}
