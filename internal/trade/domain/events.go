package domain

import "time"

// TradeCreatedEvent 交易创建事件
type TradeCreatedEvent struct {
	TradeID   TradeID    `json:"trade_id"`
	UserID    string     `json:"user_id"`
	State     TradeState `json:"state"`
	Timestamp time.Time  `json:"timestamp"`
}

// TradeStateChangedEvent 交易状态迁移事件
type TradeStateChangedEvent struct {
	TradeID   TradeID     `json:"trade_id"`
	UserID    string      `json:"user_id"`
	Action    TradeAction `json:"action"`
	FromState TradeState  `json:"from_state"`
	ToState   TradeState  `json:"to_state"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventPublisher 生命周期事件发布端口
type EventPublisher interface {
	PublishTradeCreated(event TradeCreatedEvent) error
	PublishTradeStateChanged(event TradeStateChangedEvent) error
}
