// Package kap scrapes the list of Borsa İstanbul companies from the KAP
// public disclosure platform.
package kap

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/finrasyo/finrasyo-server/internal/selection"
)

// DefaultURL is the KAP page listing BIST companies.
const DefaultURL = "https://www.kap.org.tr/tr/bist-sirketler"

const userAgent = "FinRasyo/1.0 (+https://finrasyo.com)"

var codePattern = regexp.MustCompile(`^[A-Z0-9]{3,6}$`)

// Client downloads and parses the company list
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a Client for url, or DefaultURL when url is empty.
func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{url: url, httpClient: httpClient}
}

// FetchCompanies downloads the listing page and returns every company in it.
func (c *Client) FetchCompanies(ctx context.Context) ([]selection.ListedCompany, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch company list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("KAP returned status %d for %s", resp.StatusCode, c.url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse company list: %w", err)
	}

	companies := ParseCompanies(doc)
	if len(companies) == 0 {
		return nil, fmt.Errorf("no companies found at %s", c.url)
	}
	return companies, nil
}

// ParseCompanies reads company rows from every table in doc. A row is
// code(s), name and an optional third column kept as the sector. Cells listing
// several codes ("ISCTR, ISATR") yield one entry per code.
func ParseCompanies(doc *goquery.Document) []selection.ListedCompany {
	var companies []selection.ListedCompany
	seen := make(map[string]bool)

	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}

		name := cleanText(cells.Eq(1).Text())
		if name == "" {
			return
		}
		sector := ""
		if cells.Length() > 2 {
			sector = cleanText(cells.Eq(2).Text())
		}

		for _, code := range strings.Split(cells.Eq(0).Text(), ",") {
			code = strings.ToUpper(strings.TrimSpace(code))
			if !codePattern.MatchString(code) || seen[code] {
				continue
			}
			seen[code] = true
			companies = append(companies, selection.ListedCompany{Code: code, Name: name, Sector: sector})
		}
	})

	return companies
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
