package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/finrasyo/finrasyo-server/internal/fetch"
	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/finrasyo/finrasyo-server/internal/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Handler exposes the service over HTTP
type Handler struct {
	svc           service.Service
	webhookSecret string
}

// NewHandler creates a new Handler. webhookSecret guards the payment
// provider callbacks.
func NewHandler(svc service.Service, webhookSecret string) *Handler {
	return &Handler{svc: svc, webhookSecret: webhookSecret}
}

// SetupRoutes registers every route under /api
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", h.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
	}

	protected := api.Group("")
	protected.Use(AuthMiddleware())
	{
		protected.GET("/me", h.GetMe)

		protected.GET("/companies", h.ListCompanies)
		protected.POST("/companies", h.CreateCompany)
		protected.GET("/companies/:id", h.GetCompany)
		protected.DELETE("/companies/:id", h.DeleteCompany)
		protected.POST("/companies/:id/financials", h.SubmitFinancials)
		protected.GET("/companies/:id/financials", h.ListFinancials)
		protected.GET("/company-financials/:code", h.GetCompanyFinancials)

		protected.GET("/bist/companies", h.SearchCompanies)
		protected.GET("/pricing/quote", h.Quote)
		protected.POST("/analysis", h.RunAnalysis)

		protected.GET("/export-formats", h.ExportFormats)
		protected.POST("/reports", h.CreateReport)
		protected.GET("/reports", h.ListReports)
		protected.GET("/reports/:id/download", h.DownloadReport)

		protected.POST("/payments", h.PurchaseCredits)
		protected.GET("/payments", h.ListPayments)
	}

	webhooks := api.Group("/webhooks")
	webhooks.Use(WebhookAuthMiddleware(h.webhookSecret))
	{
		webhooks.POST("/payments/:id/complete", h.CompletePayment)
		webhooks.POST("/payments/:id/fail", h.FailPayment)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Authentication handlers
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetMe(c *gin.Context) {
	resp, err := h.svc.GetMe(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Company handlers
func (h *Handler) ListCompanies(c *gin.Context) {
	resp, err := h.svc.ListCompanies(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateCompany(c *gin.Context) {
	var req models.CreateCompanyRequest
	if !bindJSON(c, &req) {
		return
	}

	company, err := h.svc.CreateCompany(c.Request.Context(), c.GetString(userIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "company": company})
}

func (h *Handler) GetCompany(c *gin.Context) {
	company, err := h.svc.GetCompany(c.Request.Context(), c.GetString(userIDKey), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "company": company})
}

func (h *Handler) DeleteCompany(c *gin.Context) {
	if err := h.svc.DeleteCompany(c.Request.Context(), c.GetString(userIDKey), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Company deleted successfully"})
}

func (h *Handler) SubmitFinancials(c *gin.Context) {
	var req models.SubmitFinancialsRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.svc.SubmitFinancials(c.Request.Context(), c.GetString(userIDKey), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": data})
}

func (h *Handler) ListFinancials(c *gin.Context) {
	resp, err := h.svc.ListFinancials(c.Request.Context(), c.GetString(userIDKey), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCompanyFinancials serves the raw FinancialData record, the shape the
// remote fetch source decodes.
func (h *Handler) GetCompanyFinancials(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondError(c, models.NewValidationError("year", "year must be an integer"))
		return
	}

	data, err := h.svc.GetCompanyFinancials(c.Request.Context(), c.GetString(userIDKey), c.Param("code"), year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// Selection and pricing handlers
func (h *Handler) SearchCompanies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "companies": h.svc.SearchCompanies(c.Query("q"))})
}

func (h *Handler) Quote(c *gin.Context) {
	counts := make([]int, 0, 3)
	for _, key := range []string{"companies", "years", "ratios"} {
		n, err := queryInt(c, key)
		if err != nil {
			respondError(c, err)
			return
		}
		counts = append(counts, n)
	}

	c.JSON(http.StatusOK, h.svc.Quote(counts[0], counts[1], counts[2]))
}

func (h *Handler) RunAnalysis(c *gin.Context) {
	var req models.AnalysisRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.RunAnalysis(c.Request.Context(), c.GetString(userIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Report handlers
func (h *Handler) ExportFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "formats": h.svc.ExportFormats()})
}

func (h *Handler) CreateReport(c *gin.Context) {
	var req models.CreateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.CreateReport(c.Request.Context(), c.GetString(userIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListReports(c *gin.Context) {
	resp, err := h.svc.ListReports(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) DownloadReport(c *gin.Context) {
	download, err := h.svc.DownloadReport(c.Request.Context(), c.GetString(userIDKey), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, download.FileName))
	c.Data(http.StatusOK, download.ContentType, download.Content)
}

// Payment handlers
func (h *Handler) PurchaseCredits(c *gin.Context) {
	var req models.PurchaseCreditsRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.PurchaseCredits(c.Request.Context(), c.GetString(userIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListPayments(c *gin.Context) {
	resp, err := h.svc.ListPayments(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) CompletePayment(c *gin.Context) {
	var req models.CompletePaymentRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := h.svc.CompletePayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) FailPayment(c *gin.Context) {
	resp, err := h.svc.FailPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Helpers
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// bindOptionalJSON binds the body when there is one. An empty body, chunked
// or not, leaves req at its zero value.
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		})
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(key, "%s must be an integer", key)
	}
	return n, nil
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"

	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, service.ErrInsufficientCredits):
		status, code = http.StatusPaymentRequired, "INSUFFICIENT_CREDITS"
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrUserExists):
		status, code = http.StatusConflict, "USER_EXISTS"
	case errors.Is(err, service.ErrInvalidPaymentState):
		status, code = http.StatusConflict, "INVALID_PAYMENT_STATE"
	case errors.Is(err, fetch.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE"
	}

	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: err.Error(),
	})
}
