// Package ratio computes the liquidity ratios of a balance sheet.
package ratio

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/finrasyo/finrasyo-server/internal/models"
)

var (
	// ErrZeroLiabilities is returned when total current liabilities are zero,
	// which would make every ratio undefined.
	ErrZeroLiabilities = errors.New("total current liabilities must be greater than zero")
	ErrNegativeInput   = errors.New("balance sheet values must be finite and non-negative")
)

// Kind identifies one of the supported ratios
type Kind string

const (
	Current   Kind = "current"
	Liquidity Kind = "liquidity"
	AcidTest  Kind = "acidTest"
)

// AllKinds lists the ratios in display order.
var AllKinds = []Kind{Current, Liquidity, AcidTest}

// ParseKind accepts the canonical name of a ratio, case-insensitively.
func ParseKind(name string) (Kind, error) {
	trimmed := strings.TrimSpace(name)
	for _, kind := range AllKinds {
		if strings.EqualFold(string(kind), trimmed) {
			return kind, nil
		}
	}
	return "", models.NewValidationError("ratios", "unknown ratio %q", name)
}

// ParseKinds parses a list of ratio names, dropping duplicates.
func ParseKinds(names []string) ([]Kind, error) {
	seen := make(map[Kind]bool, len(names))
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Ratios holds the three computed ratios
type Ratios struct {
	Current   float64 `json:"currentRatio"`
	Liquidity float64 `json:"liquidityRatio"`
	AcidTest  float64 `json:"acidTestRatio"`
}

// Value returns the ratio of the given kind.
func (r Ratios) Value(kind Kind) float64 {
	switch kind {
	case Current:
		return r.Current
	case Liquidity:
		return r.Liquidity
	case AcidTest:
		return r.AcidTest
	}
	panic(fmt.Sprintf("ratio: unknown kind %q", kind))
}

// Select projects the requested ratios into a name-keyed map.
func (r Ratios) Select(kinds []Kind) map[string]float64 {
	out := make(map[string]float64, len(kinds))
	for _, kind := range kinds {
		out[string(kind)] = r.Value(kind)
	}
	return out
}

// Validate checks that the balance sheet can be used to compute ratios.
func Validate(bs models.BalanceSheet) error {
	values := []float64{
		bs.CashAndEquivalents,
		bs.AccountsReceivable,
		bs.Inventory,
		bs.OtherCurrentAssets,
		bs.TotalCurrentAssets,
		bs.ShortTermDebt,
		bs.AccountsPayable,
		bs.TotalCurrentLiabilities,
	}
	for _, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNegativeInput
		}
	}
	if bs.TotalCurrentLiabilities == 0 {
		return ErrZeroLiabilities
	}
	return nil
}

// Compute applies the ratio formulas to bs.
func Compute(bs models.BalanceSheet) (Ratios, error) {
	if err := Validate(bs); err != nil {
		return Ratios{}, err
	}

	liabilities := bs.TotalCurrentLiabilities
	return Ratios{
		Current:   bs.TotalCurrentAssets / liabilities,
		Liquidity: (bs.TotalCurrentAssets - bs.Inventory) / liabilities,
		AcidTest:  (bs.CashAndEquivalents + bs.AccountsReceivable) / liabilities,
	}, nil
}

// Apply computes the ratios of data's balance sheet and stores them on data.
func Apply(data *models.FinancialData) error {
	r, err := Compute(data.BalanceSheet)
	if err != nil {
		return err
	}
	data.CurrentRatio = r.Current
	data.LiquidityRatio = r.Liquidity
	data.AcidTestRatio = r.AcidTest
	return nil
}

// FromData reads the stored ratios of data.
func FromData(data *models.FinancialData) Ratios {
	return Ratios{
		Current:   data.CurrentRatio,
		Liquidity: data.LiquidityRatio,
		AcidTest:  data.AcidTestRatio,
	}
}
