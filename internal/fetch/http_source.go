package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/finrasyo/finrasyo-server/internal/models"
)

// HTTPSource reads financial data from a remote /api/company-financials endpoint
type HTTPSource struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPSource creates a source against baseURL. token, if set, is sent as a
// bearer token.
func NewHTTPSource(baseURL, token string, httpClient *http.Client) *HTTPSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// FetchFinancials implements Source.
func (s *HTTPSource) FetchFinancials(ctx context.Context, code string, year int) (*models.FinancialData, error) {
	endpoint := fmt.Sprintf("%s/api/company-financials/%s?year=%s",
		s.baseURL, url.PathEscape(code), strconv.Itoa(year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%s %d: %s", code, year, errResp.Message)
		}
		return nil, fmt.Errorf("%s %d: status %d", code, year, resp.StatusCode)
	}

	var data models.FinancialData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%s %d: decode response: %w", code, year, err)
	}
	return &data, nil
}
