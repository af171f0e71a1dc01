// Package messaging 提供交易生命周期事件的 Kafka 发布实现
package messaging

import (
	"context"
	"strconv"

	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
	"github.com/wyfcoding/tradelifecycle/pkg/mq"
)

// KafkaEventPublisher 将生命周期事件发布到 Kafka 主题
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布者
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
	}
}

type eventEnvelope struct {
	EventType string `json:"event_type"`
	Payload   any    `json:"payload"`
}

// PublishTradeCreated 发布交易创建事件
func (p *KafkaEventPublisher) PublishTradeCreated(event domain.TradeCreatedEvent) error {
	return p.producer.SendMessage(context.Background(), p.topic,
		strconv.FormatUint(uint64(event.TradeID), 10),
		eventEnvelope{EventType: "trade.created", Payload: event},
	)
}

// PublishTradeStateChanged 发布状态迁移事件
func (p *KafkaEventPublisher) PublishTradeStateChanged(event domain.TradeStateChangedEvent) error {
	return p.producer.SendMessage(context.Background(), p.topic,
		strconv.FormatUint(uint64(event.TradeID), 10),
		eventEnvelope{EventType: "trade.state_changed", Payload: event},
	)
}

var _ domain.EventPublisher = (*KafkaEventPublisher)(nil)
