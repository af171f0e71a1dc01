// Package memory 提供交易存储的内存实现，作为参考部署的默认后端
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
)

// TradeStore 并发安全的内存交易存储
//
// 所有读写均以深拷贝进出，聚合在存储内部不被外部引用持有；
// 同一键的并发写为 last-write-wins。
type TradeStore struct {
	mu     sync.RWMutex
	trades map[domain.TradeID]*domain.Trade
}

// NewTradeStore 创建内存交易存储
func NewTradeStore() *TradeStore {
	return &TradeStore{
		trades: make(map[domain.TradeID]*domain.Trade),
	}
}

// Save 写入新交易；键已存在时静默覆盖，调用方使用新生成的雪花 ID，冲突不在预期内
func (s *TradeStore) Save(ctx context.Context, trade *domain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades[trade.ID] = trade.Clone()
	return nil
}

// Get 按 ID 获取交易拷贝，不存在时返回 (nil, nil)
func (s *TradeStore) Get(ctx context.Context, id domain.TradeID) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trade, ok := s.trades[id]
	if !ok {
		return nil, nil
	}
	return trade.Clone(), nil
}

// Update 整体替换已有交易，不存在时返回 not-found 错误
func (s *TradeStore) Update(ctx context.Context, trade *domain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trades[trade.ID]; !ok {
		return domain.NewTradeNotFound(trade.ID)
	}
	s.trades[trade.ID] = trade.Clone()
	return nil
}

// ListIDs 枚举全部交易 ID，sorted 为真时升序返回
func (s *TradeStore) ListIDs(ctx context.Context, sorted bool) ([]domain.TradeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.TradeID, 0, len(s.trades))
	for id := range s.trades {
		ids = append(ids, id)
	}

	if sorted {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return ids, nil
}
