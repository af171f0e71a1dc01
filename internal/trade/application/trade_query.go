package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
)

// TradeQueryService 交易生命周期读操作，不修改任何状态
type TradeQueryService struct {
	repo domain.TradeRepository
}

// NewTradeQueryService 构造函数
func NewTradeQueryService(repo domain.TradeRepository) *TradeQueryService {
	return &TradeQueryService{repo: repo}
}

// GetDetails 获取交易当前明细
func (s *TradeQueryService) GetDetails(ctx context.Context, id domain.TradeID) (*TradeDetailsDTO, error) {
	trade, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	details, ok := trade.LatestDetails()
	if !ok {
		return nil, domain.NewInternal(fmt.Sprintf("trade %d has empty history", id))
	}
	dto := toDetailsDTO(details)
	return &dto, nil
}

// GetStatus 获取交易当前状态
func (s *TradeQueryService) GetStatus(ctx context.Context, id domain.TradeID) (string, error) {
	trade, err := s.fetch(ctx, id)
	if err != nil {
		return "", err
	}
	return trade.CurrentState().String(), nil
}

// GetHistory 获取交易的完整快照历史
func (s *TradeQueryService) GetHistory(ctx context.Context, id domain.TradeID) ([]SnapshotDTO, error) {
	trade, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	history := make([]SnapshotDTO, len(trade.History))
	for i, snap := range trade.History {
		history[i] = toSnapshotDTO(snap)
	}
	return history, nil
}

// ListTradeIDs 列出全部交易 ID
func (s *TradeQueryService) ListTradeIDs(ctx context.Context, sorted bool) ([]domain.TradeID, error) {
	ids, err := s.repo.ListIDs(ctx, sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return ids, nil
}

// Diff 比较同一交易的两个历史快照，版本号即快照序号
func (s *TradeQueryService) Diff(ctx context.Context, id domain.TradeID, fromVersion, toVersion int) (*domain.TradeDiff, error) {
	trade, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	from, ok := trade.Snapshot(fromVersion)
	if !ok {
		return nil, domain.NewSnapshotNotFound(id, fromVersion)
	}
	to, ok := trade.Snapshot(toVersion)
	if !ok {
		return nil, domain.NewSnapshotNotFound(id, toVersion)
	}

	return &domain.TradeDiff{
		TradeID:       id,
		FromVersion:   fromVersion,
		ToVersion:     toVersion,
		FromUser:      from.UserID,
		ToUser:        to.UserID,
		FromTimestamp: from.Timestamp,
		ToTimestamp:   to.Timestamp,
		Changes:       domain.DiffDetails(from.Details, to.Details),
	}, nil
}

func (s *TradeQueryService) fetch(ctx context.Context, id domain.TradeID) (*domain.Trade, error) {
	trade, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trade: %w", err)
	}
	if trade == nil {
		return nil, domain.NewTradeNotFound(id)
	}
	return trade, nil
}
