package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validDetails() TradeDetails {
	return TradeDetails{
		TradingEntity:    "Acme Bank",
		Counterparty:     "Globex Corp",
		Direction:        DirectionBuy,
		NotionalCurrency: CurrencyUSD,
		NotionalAmount:   decimal.NewFromInt(1_000_000),
		Underlying:       []Currency{CurrencyUSD, CurrencyEUR},
		TradeDate:        date(2026, time.January, 10),
		ValueDate:        date(2026, time.January, 12),
		DeliveryDate:     date(2026, time.January, 14),
	}
}

func TestValidateAcceptsValidDetails(t *testing.T) {
	require.NoError(t, validDetails().Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*TradeDetails)
		wantCode string
	}{
		{
			name:     "negative notional",
			mutate:   func(d *TradeDetails) { d.NotionalAmount = decimal.NewFromInt(-1) },
			wantCode: CodeNegativeAmount,
		},
		{
			name:     "zero notional",
			mutate:   func(d *TradeDetails) { d.NotionalAmount = decimal.Zero },
			wantCode: CodeZeroAmount,
		},
		{
			name:     "empty underlying",
			mutate:   func(d *TradeDetails) { d.Underlying = nil },
			wantCode: CodeEmptyUnderlying,
		},
		{
			name:     "notional currency not in underlying",
			mutate:   func(d *TradeDetails) { d.Underlying = []Currency{CurrencyEUR, CurrencyGBP} },
			wantCode: CodeNotionalNotInUnder,
		},
		{
			name:     "trade date after value date",
			mutate:   func(d *TradeDetails) { d.TradeDate = date(2026, time.January, 13) },
			wantCode: CodeTradeDateAfterValue,
		},
		{
			name:     "value date after delivery date",
			mutate:   func(d *TradeDetails) { d.ValueDate = date(2026, time.January, 15) },
			wantCode: CodeValueDateAfterDelivery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := validDetails()
			tt.mutate(&details)

			err := details.Validate()
			require.Error(t, err)
			de := AsDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, tt.wantCode, de.Code)
			assert.Equal(t, KindValidation, de.Kind)
		})
	}
}

func TestValidateNegativeBeforeZeroOrdering(t *testing.T) {
	// 负金额同时也非正数，负数检查优先
	details := validDetails()
	details.NotionalAmount = decimal.NewFromFloat(-0.5)
	details.Underlying = nil

	err := details.Validate()
	de := AsDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, CodeNegativeAmount, de.Code)
}

func TestDetailsEqual(t *testing.T) {
	a := validDetails()
	b := validDetails()
	assert.True(t, a.Equal(b))

	b.Counterparty = "Initech"
	assert.False(t, a.Equal(b))

	b = validDetails()
	b.NotionalAmount = decimal.RequireFromString("1000000.00")
	// 数值相等但表示不同，仍视为相等
	assert.True(t, a.Equal(b))

	b = validDetails()
	b.Underlying = []Currency{CurrencyEUR, CurrencyUSD}
	// 顺序敏感
	assert.False(t, a.Equal(b))

	strike := decimal.NewFromFloat(1.0852)
	a.Strike = &strike
	b = validDetails()
	assert.False(t, a.Equal(b))

	other := decimal.NewFromFloat(1.0852)
	b.Strike = &other
	assert.True(t, a.Equal(b))
}

func TestDetailsClone(t *testing.T) {
	strike := decimal.NewFromFloat(1.1)
	original := validDetails()
	original.Strike = &strike

	cloned := original.Clone()
	require.True(t, original.Equal(cloned))

	cloned.Underlying[0] = CurrencyJPY
	*cloned.Strike = decimal.NewFromFloat(2.2)

	assert.Equal(t, CurrencyUSD, original.Underlying[0])
	assert.True(t, original.Strike.Equal(decimal.NewFromFloat(1.1)))
}
