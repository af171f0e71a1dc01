package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldChange 单个字段在两个快照之间的取值变化
type FieldChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TradeDiff 两个历史快照间的字段级差异报告
type TradeDiff struct {
	TradeID       TradeID                `json:"trade_id"`
	FromVersion   int                    `json:"from_version"`
	ToVersion     int                    `json:"to_version"`
	FromUser      string                 `json:"from_user"`
	ToUser        string                 `json:"to_user"`
	FromTimestamp time.Time              `json:"from_timestamp"`
	ToTimestamp   time.Time              `json:"to_timestamp"`
	Changes       map[string]FieldChange `json:"changes"`
}

// DiffDetails 逐字段比较两份明细，仅返回有差异的字段
func DiffDetails(from, to TradeDetails) map[string]FieldChange {
	changes := make(map[string]FieldChange)

	if from.TradingEntity != to.TradingEntity {
		changes["trading_entity"] = FieldChange{From: from.TradingEntity, To: to.TradingEntity}
	}
	if from.Counterparty != to.Counterparty {
		changes["counterparty"] = FieldChange{From: from.Counterparty, To: to.Counterparty}
	}
	if from.Direction != to.Direction {
		changes["direction"] = FieldChange{From: from.Direction.String(), To: to.Direction.String()}
	}
	if from.NotionalCurrency != to.NotionalCurrency {
		changes["notional_currency"] = FieldChange{From: from.NotionalCurrency.String(), To: to.NotionalCurrency.String()}
	}
	if !from.NotionalAmount.Equal(to.NotionalAmount) {
		changes["notional_amount"] = FieldChange{From: from.NotionalAmount.String(), To: to.NotionalAmount.String()}
	}
	if !equalCurrencyList(from.Underlying, to.Underlying) {
		changes["underlying"] = FieldChange{From: formatCurrencyList(from.Underlying), To: formatCurrencyList(to.Underlying)}
	}
	if !from.TradeDate.Equal(to.TradeDate) {
		changes["trade_date"] = FieldChange{From: formatDate(from.TradeDate), To: formatDate(to.TradeDate)}
	}
	if !from.ValueDate.Equal(to.ValueDate) {
		changes["value_date"] = FieldChange{From: formatDate(from.ValueDate), To: formatDate(to.ValueDate)}
	}
	if !from.DeliveryDate.Equal(to.DeliveryDate) {
		changes["delivery_date"] = FieldChange{From: formatDate(from.DeliveryDate), To: formatDate(to.DeliveryDate)}
	}
	if !equalStrike(from.Strike, to.Strike) {
		changes["strike"] = FieldChange{From: formatStrike(from.Strike), To: formatStrike(to.Strike)}
	}

	return changes
}

func equalCurrencyList(a, b []Currency) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatCurrencyList(list []Currency) string {
	parts := make([]string, len(list))
	for i, c := range list {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func equalStrike(a, b *decimal.Decimal) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}

func formatStrike(s *decimal.Decimal) string {
	if s == nil {
		return ""
	}
	return s.String()
}
