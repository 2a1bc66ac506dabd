package ratio

import (
	"math"
	"testing"

	"github.com/finrasyo/finrasyo-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeExample(t *testing.T) {
	r, err := Compute(models.BalanceSheet{
		TotalCurrentAssets:      200,
		TotalCurrentLiabilities: 100,
		CashAndEquivalents:      50,
		AccountsReceivable:      30,
		Inventory:               40,
	})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, r.Current, 1e-9)
	assert.InDelta(t, 1.6, r.Liquidity, 1e-9)
	assert.InDelta(t, 0.8, r.AcidTest, 1e-9)
}

func TestComputeRejectsZeroLiabilities(t *testing.T) {
	_, err := Compute(models.BalanceSheet{TotalCurrentAssets: 10})
	assert.ErrorIs(t, err, ErrZeroLiabilities)
}

func TestComputeRejectsNegativeAndNonFinite(t *testing.T) {
	_, err := Compute(models.BalanceSheet{TotalCurrentAssets: -1, TotalCurrentLiabilities: 1})
	assert.ErrorIs(t, err, ErrNegativeInput)

	_, err = Compute(models.BalanceSheet{TotalCurrentAssets: math.NaN(), TotalCurrentLiabilities: 1})
	assert.ErrorIs(t, err, ErrNegativeInput)

	_, err = Compute(models.BalanceSheet{TotalCurrentAssets: 1, TotalCurrentLiabilities: math.Inf(1)})
	assert.ErrorIs(t, err, ErrNegativeInput)
}

func TestCurrentRatioNeverBelowLiquidityRatio(t *testing.T) {
	sheets := []models.BalanceSheet{
		{TotalCurrentAssets: 0, Inventory: 0, TotalCurrentLiabilities: 1},
		{TotalCurrentAssets: 10, Inventory: 10, TotalCurrentLiabilities: 3},
		{TotalCurrentAssets: 1e9, Inventory: 5e8, TotalCurrentLiabilities: 0.01},
		{TotalCurrentAssets: 7.5, Inventory: 0.25, TotalCurrentLiabilities: 1234},
	}
	for _, bs := range sheets {
		r, err := Compute(bs)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Current, r.Liquidity)
	}
}

func TestApplyStoresRatios(t *testing.T) {
	data := &models.FinancialData{BalanceSheet: models.BalanceSheet{
		TotalCurrentAssets:      300,
		TotalCurrentLiabilities: 150,
		Inventory:               60,
		CashAndEquivalents:      45,
	}}
	require.NoError(t, Apply(data))

	assert.InDelta(t, 2.0, data.CurrentRatio, 1e-9)
	assert.InDelta(t, 1.6, data.LiquidityRatio, 1e-9)
	assert.InDelta(t, 0.3, data.AcidTestRatio, 1e-9)
	assert.Equal(t, Ratios{Current: data.CurrentRatio, Liquidity: data.LiquidityRatio, AcidTest: data.AcidTestRatio}, FromData(data))
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"current", "ACIDTEST", "current"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Current, AcidTest}, kinds)

	_, err = ParseKinds([]string{"quick"})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSelect(t *testing.T) {
	r := Ratios{Current: 2, Liquidity: 1.5, AcidTest: 0.5}
	assert.Equal(t, map[string]float64{"liquidity": 1.5}, r.Select([]Kind{Liquidity}))
	assert.Len(t, r.Select(AllKinds), 3)
}
