package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffDetailsIdentical(t *testing.T) {
	changes := DiffDetails(validDetails(), validDetails())
	assert.Empty(t, changes)
}

func TestDiffDetailsChangedFields(t *testing.T) {
	from := validDetails()
	to := validDetails()
	to.Counterparty = "Initech"
	to.NotionalAmount = decimal.NewFromInt(2_000_000)
	to.ValueDate = date(2026, time.January, 13)

	changes := DiffDetails(from, to)
	require.Len(t, changes, 3)

	assert.Equal(t, FieldChange{From: "Globex Corp", To: "Initech"}, changes["counterparty"])
	assert.Equal(t, FieldChange{From: "1000000", To: "2000000"}, changes["notional_amount"])
	assert.Equal(t, FieldChange{From: "2026-01-12", To: "2026-01-13"}, changes["value_date"])
}

func TestDiffDetailsUnderlying(t *testing.T) {
	from := validDetails()
	to := validDetails()
	to.Underlying = []Currency{CurrencyUSD, CurrencyEUR, CurrencyJPY}

	changes := DiffDetails(from, to)
	require.Contains(t, changes, "underlying")
	assert.Equal(t, "USD,EUR", changes["underlying"].From)
	assert.Equal(t, "USD,EUR,JPY", changes["underlying"].To)
}

func TestDiffDetailsStrike(t *testing.T) {
	from := validDetails()
	to := validDetails()
	strike := decimal.NewFromFloat(1.0852)
	to.Strike = &strike

	changes := DiffDetails(from, to)
	require.Contains(t, changes, "strike")
	assert.Equal(t, "", changes["strike"].From)
	assert.Equal(t, "1.0852", changes["strike"].To)

	// 两侧相同的执行价不产生差异
	fromStrike := decimal.NewFromFloat(1.0852)
	from.Strike = &fromStrike
	assert.NotContains(t, DiffDetails(from, to), "strike")
}

func TestDiffDetailsDirection(t *testing.T) {
	from := validDetails()
	to := validDetails()
	to.Direction = DirectionSell

	changes := DiffDetails(from, to)
	require.Contains(t, changes, "direction")
	assert.Equal(t, FieldChange{From: "BUY", To: "SELL"}, changes["direction"])
}
