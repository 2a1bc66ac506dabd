package api_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/finrasyo/finrasyo-server/internal/api/testutils"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestConcurrentReportCharges(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	company := createCompany(t, testCtx, "Garanti Bankası", "GARAN")
	data := submitFinancials(t, testCtx, company.ID, 2023, sampleSheet())

	const balance = 5
	const attempts = 12
	testCtx.SetCredits(t, testCtx.TestUserID, balance)

	codes := make(chan int, attempts)
	var wg sync.WaitGroup

	// Start multiple goroutines to buy reports simultaneously
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := testutils.PerformRequest(
				testCtx.Router,
				http.MethodPost,
				"/api/reports",
				models.CreateReportRequest{FinancialDataID: data.ID, Format: "csv"},
				testutils.AuthHeaders(testCtx.TestUserJWT),
			)
			codes <- w.Code
		}()
	}

	wg.Wait()
	close(codes)

	created, refused := 0, 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusPaymentRequired:
			refused++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}

	// Every credit is spent exactly once and the balance never goes negative
	assert.Equal(t, balance, created)
	assert.Equal(t, attempts-balance, refused)
	assert.Equal(t, int64(0), testCtx.Credits(t, testCtx.TestUserID))
}
