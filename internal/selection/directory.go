package selection

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// DefaultMaxResults caps the number of companies a search returns.
const DefaultMaxResults = 15

// ListedCompany is a company traded on Borsa İstanbul
type ListedCompany struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

//go:embed bist_companies.json
var bistCompaniesJSON []byte

// DefaultCompanies returns the bundled BIST company list.
func DefaultCompanies() ([]ListedCompany, error) {
	var list []ListedCompany
	if err := json.Unmarshal(bistCompaniesJSON, &list); err != nil {
		return nil, fmt.Errorf("decode bundled company list: %w", err)
	}
	return list, nil
}

// Directory is an in-memory company list searched by the company picker
type Directory struct {
	mu         sync.RWMutex
	companies  []ListedCompany
	maxResults int
}

// NewDirectory returns a Directory over companies.
func NewDirectory(companies []ListedCompany, maxResults int) *Directory {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Directory{companies: companies, maxResults: maxResults}
}

// Replace swaps the company list, e.g. after a fresh scrape.
func (d *Directory) Replace(companies []ListedCompany) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.companies = companies
}

// Len returns the number of companies in the directory.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.companies)
}

// Lookup finds a company by exact code.
func (d *Directory) Lookup(code string) (ListedCompany, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.companies {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return ListedCompany{}, false
}

// Search returns companies whose code, name or sector contains query,
// ignoring case. At most maxResults entries are returned, in list order.
func (d *Directory) Search(query string) []ListedCompany {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Filter(d.companies, query, d.maxResults)
}

// Filter is the search behind Directory.Search.
func Filter(companies []ListedCompany, query string, limit int) []ListedCompany {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	needle := fold(strings.TrimSpace(query))

	out := make([]ListedCompany, 0, limit)
	for _, c := range companies {
		if len(out) == limit {
			break
		}
		if needle == "" ||
			strings.Contains(fold(c.Code), needle) ||
			strings.Contains(fold(c.Name), needle) ||
			strings.Contains(fold(c.Sector), needle) {
			out = append(out, c)
		}
	}
	return out
}

// Dotted and dotless i fold to plain i, so "iş" matches "İŞ BANKASI".
var turkishI = strings.NewReplacer("i\u0307", "i", "ı", "i")

func fold(s string) string {
	return turkishI.Replace(strings.ToLower(s))
}
