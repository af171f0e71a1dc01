package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeDetails 交易明细值对象，构造后不可变；修改时以新值整体替换
type TradeDetails struct {
	// 交易主体名称
	TradingEntity string `json:"trading_entity"`
	// 对手方名称
	Counterparty string `json:"counterparty"`
	// 买卖方向
	Direction Direction `json:"direction"`
	// 名义货币
	NotionalCurrency Currency `json:"notional_currency"`
	// 名义金额，精确小数
	NotionalAmount decimal.Decimal `json:"notional_amount"`
	// 标的货币列表，至少一个
	Underlying []Currency `json:"underlying"`
	// 交易日
	TradeDate time.Time `json:"trade_date"`
	// 起息日
	ValueDate time.Time `json:"value_date"`
	// 交割日
	DeliveryDate time.Time `json:"delivery_date"`
	// 执行价，可选
	Strike *decimal.Decimal `json:"strike,omitempty"`
}

// Validate 校验明细不变量，每条违规对应独立错误码
func (d TradeDetails) Validate() error {
	if d.NotionalAmount.IsNegative() {
		return NewValidation(CodeNegativeAmount, "notional_amount", "notional amount must not be negative")
	}
	if d.NotionalAmount.IsZero() {
		return NewValidation(CodeZeroAmount, "notional_amount", "notional amount is required")
	}
	if len(d.Underlying) == 0 {
		return NewValidation(CodeEmptyUnderlying, "underlying", "underlying currency must be present")
	}
	if !d.containsUnderlying(d.NotionalCurrency) {
		return NewValidation(CodeNotionalNotInUnder, "notional_currency", "notional currency must appear in the underlying list")
	}
	if d.TradeDate.After(d.ValueDate) {
		return NewValidation(CodeTradeDateAfterValue, "trade_date", "trade date must be on or before value date")
	}
	if d.ValueDate.After(d.DeliveryDate) {
		return NewValidation(CodeValueDateAfterDelivery, "value_date", "value date must be on or before delivery date")
	}
	return nil
}

func (d TradeDetails) containsUnderlying(c Currency) bool {
	for _, u := range d.Underlying {
		if u == c {
			return true
		}
	}
	return false
}

// Equal 结构化相等比较，用于识别无变化的修改请求
func (d TradeDetails) Equal(other TradeDetails) bool {
	if d.TradingEntity != other.TradingEntity ||
		d.Counterparty != other.Counterparty ||
		d.Direction != other.Direction ||
		d.NotionalCurrency != other.NotionalCurrency {
		return false
	}
	if !d.NotionalAmount.Equal(other.NotionalAmount) {
		return false
	}
	if len(d.Underlying) != len(other.Underlying) {
		return false
	}
	for i := range d.Underlying {
		if d.Underlying[i] != other.Underlying[i] {
			return false
		}
	}
	if !d.TradeDate.Equal(other.TradeDate) ||
		!d.ValueDate.Equal(other.ValueDate) ||
		!d.DeliveryDate.Equal(other.DeliveryDate) {
		return false
	}
	if (d.Strike == nil) != (other.Strike == nil) {
		return false
	}
	if d.Strike != nil && !d.Strike.Equal(*other.Strike) {
		return false
	}
	return true
}

// Clone 深拷贝明细，切片与指针字段独立
func (d TradeDetails) Clone() TradeDetails {
	cloned := d
	cloned.Underlying = make([]Currency, len(d.Underlying))
	copy(cloned.Underlying, d.Underlying)
	if d.Strike != nil {
		strike := *d.Strike
		cloned.Strike = &strike
	}
	return cloned
}
