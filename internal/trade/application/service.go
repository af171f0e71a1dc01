package application

import (
	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
	"github.com/wyfcoding/tradelifecycle/pkg/idgen"
)

// TradeService 交易生命周期应用服务门面，聚合命令与查询两侧
type TradeService struct {
	*TradeCommandService
	*TradeQueryService
}

// NewTradeService 构造函数
//
// nodeID 用于雪花 ID 生成器，取值范围 [0, 1023]；
// publisher 为 nil 时使用不发布任何事件的空实现。
func NewTradeService(nodeID int64, repo domain.TradeRepository, publisher domain.EventPublisher) (*TradeService, error) {
	idGen, err := idgen.NewSnowflake(nodeID)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		publisher = noopEventPublisher{}
	}
	return &TradeService{
		TradeCommandService: NewTradeCommandService(repo, idGen, publisher),
		TradeQueryService:   NewTradeQueryService(repo),
	}, nil
}

// noopEventPublisher 空事件发布器，未配置消息队列时使用
type noopEventPublisher struct{}

func (noopEventPublisher) PublishTradeCreated(domain.TradeCreatedEvent) error { return nil }

func (noopEventPublisher) PublishTradeStateChanged(domain.TradeStateChangedEvent) error { return nil }
