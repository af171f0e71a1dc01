// Package mysql 提供交易存储的 GORM 实现，可替换内存后端
package mysql

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
)

// TradeModel 交易主表
type TradeModel struct {
	ID        uint64    `gorm:"column:id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName 返回表名
func (TradeModel) TableName() string {
	return "trades"
}

// TradeSnapshotModel 交易快照表，每行对应历史中的一条快照
type TradeSnapshotModel struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	TradeID    uint64    `gorm:"column:trade_id;uniqueIndex:idx_trade_snapshot;not null"`
	SnapshotID int       `gorm:"column:snapshot_id;uniqueIndex:idx_trade_snapshot;not null"`
	UserID     string    `gorm:"column:user_id;type:varchar(64);not null"`
	Timestamp  time.Time `gorm:"column:timestamp;not null"`
	FromState  string    `gorm:"column:from_state;type:varchar(32);not null"`
	ToState    string    `gorm:"column:to_state;type:varchar(32);not null"`

	TradingEntity    string              `gorm:"column:trading_entity;type:varchar(128);not null"`
	Counterparty     string              `gorm:"column:counterparty;type:varchar(128);not null"`
	Direction        string              `gorm:"column:direction;type:varchar(8);not null"`
	NotionalCurrency string              `gorm:"column:notional_currency;type:varchar(8);not null"`
	NotionalAmount   decimal.Decimal     `gorm:"column:notional_amount;type:decimal(32,10);not null"`
	Underlying       string              `gorm:"column:underlying;type:varchar(256);not null"`
	TradeDate        time.Time           `gorm:"column:trade_date;not null"`
	ValueDate        time.Time           `gorm:"column:value_date;not null"`
	DeliveryDate     time.Time           `gorm:"column:delivery_date;not null"`
	Strike           decimal.NullDecimal `gorm:"column:strike;type:decimal(32,10)"`
}

// TableName 返回表名
func (TradeSnapshotModel) TableName() string {
	return "trade_snapshots"
}

func toSnapshotModel(tradeID domain.TradeID, s domain.TradeEventSnapshot) TradeSnapshotModel {
	m := TradeSnapshotModel{
		TradeID:          uint64(tradeID),
		SnapshotID:       s.SnapshotID,
		UserID:           s.UserID,
		Timestamp:        s.Timestamp,
		FromState:        string(s.FromState),
		ToState:          string(s.ToState),
		TradingEntity:    s.Details.TradingEntity,
		Counterparty:     s.Details.Counterparty,
		Direction:        string(s.Details.Direction),
		NotionalCurrency: string(s.Details.NotionalCurrency),
		NotionalAmount:   s.Details.NotionalAmount,
		Underlying:       joinCurrencies(s.Details.Underlying),
		TradeDate:        s.Details.TradeDate,
		ValueDate:        s.Details.ValueDate,
		DeliveryDate:     s.Details.DeliveryDate,
	}
	if s.Details.Strike != nil {
		m.Strike = decimal.NewNullDecimal(*s.Details.Strike)
	}
	return m
}

func toDomainSnapshot(m TradeSnapshotModel) domain.TradeEventSnapshot {
	details := domain.TradeDetails{
		TradingEntity:    m.TradingEntity,
		Counterparty:     m.Counterparty,
		Direction:        domain.Direction(m.Direction),
		NotionalCurrency: domain.Currency(m.NotionalCurrency),
		NotionalAmount:   m.NotionalAmount,
		Underlying:       splitCurrencies(m.Underlying),
		TradeDate:        m.TradeDate,
		ValueDate:        m.ValueDate,
		DeliveryDate:     m.DeliveryDate,
	}
	if m.Strike.Valid {
		strike := m.Strike.Decimal
		details.Strike = &strike
	}
	return domain.TradeEventSnapshot{
		SnapshotID: m.SnapshotID,
		UserID:     m.UserID,
		Timestamp:  m.Timestamp,
		FromState:  domain.TradeState(m.FromState),
		ToState:    domain.TradeState(m.ToState),
		Details:    details,
	}
}

func joinCurrencies(list []domain.Currency) string {
	parts := make([]string, len(list))
	for i, c := range list {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func splitCurrencies(s string) []domain.Currency {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	list := make([]domain.Currency, len(parts))
	for i, p := range parts {
		list[i] = domain.Currency(p)
	}
	return list
}
