// Package export renders a financial data record as a downloadable report.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finrasyo/finrasyo-server/internal/models"
)

// Document is everything a rendered report shows
type Document struct {
	ReportName  string
	CompanyName string
	CompanyCode string
	Data        models.FinancialData
	GeneratedAt time.Time
}

// Row is one label/value line of the report body
type Row struct {
	Label string
	Value string
}

// Title returns the report heading.
func (d Document) Title() string {
	if d.ReportName != "" {
		return d.ReportName
	}
	return fmt.Sprintf("%s Likidite Analizi %d", d.CompanyName, d.Data.Year)
}

// Subtitle returns the company line under the heading.
func (d Document) Subtitle() string {
	if d.CompanyCode == "" {
		return d.CompanyName
	}
	return fmt.Sprintf("%s (%s)", d.CompanyName, d.CompanyCode)
}

// BalanceSheetRows lists the raw line items.
func (d Document) BalanceSheetRows() []Row {
	bs := d.Data.BalanceSheet
	return []Row{
		{"Nakit ve Nakit Benzerleri", amount(bs.CashAndEquivalents)},
		{"Ticari Alacaklar", amount(bs.AccountsReceivable)},
		{"Stoklar", amount(bs.Inventory)},
		{"Diğer Dönen Varlıklar", amount(bs.OtherCurrentAssets)},
		{"Toplam Dönen Varlıklar", amount(bs.TotalCurrentAssets)},
		{"Kısa Vadeli Borçlanmalar", amount(bs.ShortTermDebt)},
		{"Ticari Borçlar", amount(bs.AccountsPayable)},
		{"Toplam Kısa Vadeli Yükümlülükler", amount(bs.TotalCurrentLiabilities)},
	}
}

// RatioRows lists the derived ratios.
func (d Document) RatioRows() []Row {
	return []Row{
		{"Cari Oran", ratioValue(d.Data.CurrentRatio)},
		{"Likidite Oranı", ratioValue(d.Data.LiquidityRatio)},
		{"Asit-Test Oranı", ratioValue(d.Data.AcidTestRatio)},
	}
}

func (d Document) generatedAt() time.Time {
	if d.GeneratedAt.IsZero() {
		return time.Now().UTC()
	}
	return d.GeneratedAt
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func ratioValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Render produces the report in the given format.
func Render(format models.ExportFormat, doc Document) ([]byte, error) {
	switch format {
	case models.FormatPDF:
		return renderPDF(doc)
	case models.FormatWord:
		return renderWord(doc)
	case models.FormatExcel:
		return renderExcel(doc)
	case models.FormatCSV:
		return renderCSV(doc)
	}
	return nil, models.NewValidationError("format", "unsupported export format %q", format)
}

var asciiTurkish = strings.NewReplacer(
	"ç", "c", "Ç", "C",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ü", "u", "Ü", "U",
)

// FileName builds the download name of a report, e.g. "garanti-bankasi-2023.xlsx".
func FileName(companyName string, year int, format models.ExportFormat) string {
	info, ok := format.Info()
	ext := ""
	if ok {
		ext = info.Extension
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(asciiTurkish.Replace(companyName)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "rapor"
	}
	return fmt.Sprintf("%s-%d%s", slug, year, ext)
}
