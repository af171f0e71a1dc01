package mysql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
)

// TradeStore 基于 GORM 的交易存储实现
type TradeStore struct {
	db *gorm.DB
}

// NewTradeStore 创建 GORM 交易存储
func NewTradeStore(db *gorm.DB) *TradeStore {
	return &TradeStore{db: db}
}

// AutoMigrate 建表
func (s *TradeStore) AutoMigrate() error {
	return s.db.AutoMigrate(&TradeModel{}, &TradeSnapshotModel{})
}

// Save 写入新交易及其初始快照
func (s *TradeStore) Save(ctx context.Context, trade *domain.Trade) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := TradeModel{ID: uint64(trade.ID), CreatedAt: trade.CreatedAt}
		if err := tx.Create(&header).Error; err != nil {
			return fmt.Errorf("failed to save trade: %w", err)
		}
		for _, snap := range trade.History {
			model := toSnapshotModel(trade.ID, snap)
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
		}
		return nil
	})
}

// Get 按 ID 加载交易全史，不存在时返回 (nil, nil)
func (s *TradeStore) Get(ctx context.Context, id domain.TradeID) (*domain.Trade, error) {
	var header TradeModel
	err := s.db.WithContext(ctx).First(&header, "id = ?", uint64(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trade: %w", err)
	}

	var snapshots []TradeSnapshotModel
	err = s.db.WithContext(ctx).
		Where("trade_id = ?", uint64(id)).
		Order("snapshot_id ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	trade := &domain.Trade{
		ID:        domain.TradeID(header.ID),
		CreatedAt: header.CreatedAt,
		History:   make([]domain.TradeEventSnapshot, len(snapshots)),
	}
	for i, m := range snapshots {
		trade.History[i] = toDomainSnapshot(m)
	}
	return trade, nil
}

// Update 整体替换已有交易；历史只追加，仅写入数据库中尚不存在的快照
func (s *TradeStore) Update(ctx context.Context, trade *domain.Trade) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&TradeModel{}).Where("id = ?", uint64(trade.ID)).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check trade existence: %w", err)
		}
		if count == 0 {
			return domain.NewTradeNotFound(trade.ID)
		}

		var persisted int64
		if err := tx.Model(&TradeSnapshotModel{}).Where("trade_id = ?", uint64(trade.ID)).Count(&persisted).Error; err != nil {
			return fmt.Errorf("failed to count snapshots: %w", err)
		}

		for _, snap := range trade.History {
			if int64(snap.SnapshotID) < persisted {
				continue
			}
			model := toSnapshotModel(trade.ID, snap)
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
		}
		return nil
	})
}

// ListIDs 枚举全部交易 ID，sorted 为真时升序返回
func (s *TradeStore) ListIDs(ctx context.Context, sorted bool) ([]domain.TradeID, error) {
	var raw []uint64
	if err := s.db.WithContext(ctx).Model(&TradeModel{}).Pluck("id", &raw).Error; err != nil {
		return nil, fmt.Errorf("failed to list trade ids: %w", err)
	}

	ids := make([]domain.TradeID, len(raw))
	for i, id := range raw {
		ids[i] = domain.TradeID(id)
	}
	if sorted {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return ids, nil
}

var _ domain.TradeRepository = (*TradeStore)(nil)
