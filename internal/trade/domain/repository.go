package domain

import "context"

// TradeRepository 交易存储端口
//
// 实现必须保证：Get 返回某一时点的完整拷贝；Update 对同一键相对其他
// Update/Get 原子；不同键的并发写互不丢失。对同一键的并发写采用
// last-write-wins，存储层不做版本校验。
type TradeRepository interface {
	// Save 写入新交易；由于键来自雪花 ID，调用方不预期键冲突
	Save(ctx context.Context, trade *Trade) error
	// Get 按 ID 获取交易拷贝，不存在时返回 (nil, nil)
	Get(ctx context.Context, id TradeID) (*Trade, error)
	// Update 整体替换已有交易，不存在时返回 not-found 错误，
	// 以避免通过 Update 静默创建记录
	Update(ctx context.Context, trade *Trade) error
	// ListIDs 枚举全部交易 ID；sorted 为真时按升序返回，
	// 因 ID 按时间排序，升序即创建顺序
	ListIDs(ctx context.Context, sorted bool) ([]TradeID, error)
}
