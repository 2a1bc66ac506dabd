// Package pricing derives the credit cost of an analysis or report.
package pricing

import (
	"github.com/shopspring/decimal"
)

// DefaultUnitPrice is the price of one ratio for one company-year.
var DefaultUnitPrice = decimal.RequireFromString("0.25")

// Selection is the set of counts a quote is computed from
type Selection struct {
	Companies int
	Years     int
	Ratios    int
}

// Quote is the priced form of a Selection. Counts are already clamped.
type Quote struct {
	Companies       int             `json:"companies"`
	Years           int             `json:"years"`
	Ratios          int             `json:"ratios"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Price           decimal.Decimal `json:"price"`
	CreditsRequired int64           `json:"creditsRequired"`
}

// Calculator prices selections at a fixed unit price
type Calculator struct {
	UnitPrice decimal.Decimal
}

// New returns a Calculator. A non-positive unit price falls back to DefaultUnitPrice.
func New(unitPrice decimal.Decimal) *Calculator {
	if !unitPrice.IsPositive() {
		unitPrice = DefaultUnitPrice
	}
	return &Calculator{UnitPrice: unitPrice}
}

// Quote prices companies × years × ratios. Counts below one are treated as one
// so that no selection is ever free.
func (c *Calculator) Quote(companies, years, ratios int) Quote {
	companies = atLeastOne(companies)
	years = atLeastOne(years)
	ratios = atLeastOne(ratios)

	price := decimal.NewFromInt(int64(companies)).
		Mul(decimal.NewFromInt(int64(years))).
		Mul(decimal.NewFromInt(int64(ratios))).
		Mul(c.UnitPrice)

	return Quote{
		Companies:       companies,
		Years:           years,
		Ratios:          ratios,
		UnitPrice:       c.UnitPrice,
		Price:           price,
		CreditsRequired: price.Ceil().IntPart(),
	}
}

// QuoteSelection is Quote for a Selection.
func (c *Calculator) QuoteSelection(sel Selection) Quote {
	return c.Quote(sel.Companies, sel.Years, sel.Ratios)
}

// Recalculate prices sel and passes the result to onChange, if set.
func (c *Calculator) Recalculate(sel Selection, onChange func(Quote)) Quote {
	q := c.QuoteSelection(sel)
	if onChange != nil {
		onChange(q)
	}
	return q
}

// CreditsCost returns the amount charged for buying credits at creditPrice each.
func CreditsCost(credits int64, creditPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(credits).Mul(creditPrice).Round(2)
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
