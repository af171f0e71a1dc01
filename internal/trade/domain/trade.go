// Package domain 包含交易生命周期服务的领域模型
package domain

import "time"

// TradeID 全局唯一、按时间粗排序的交易标识
type TradeID uint64

// TradeEventSnapshot 只追加的历史条目，记录一次被接受的状态迁移
type TradeEventSnapshot struct {
	// 序号，等于其在历史中的位置，从 0 开始
	SnapshotID int `json:"snapshot_id"`
	// 操作用户
	UserID string `json:"user_id"`
	// 记录时间
	Timestamp time.Time `json:"timestamp"`
	// 迁移前状态
	FromState TradeState `json:"from_state"`
	// 迁移后状态
	ToState TradeState `json:"to_state"`
	// 该时点的完整交易明细
	Details TradeDetails `json:"details"`
}

// Trade 聚合根：交易标识加完整快照历史，当前状态与明细始终取自最后一条快照
type Trade struct {
	ID        TradeID              `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	History   []TradeEventSnapshot `json:"history"`
}

// NewTrade 创建 DRAFT 状态的交易，快照 0 记录创建人
func NewTrade(id TradeID, details TradeDetails, userID string) *Trade {
	now := time.Now()
	return &Trade{
		ID:        id,
		CreatedAt: now,
		History: []TradeEventSnapshot{
			{
				SnapshotID: 0,
				UserID:     userID,
				Timestamp:  now,
				FromState:  StateDraft,
				ToState:    StateDraft,
				Details:    details.Clone(),
			},
		},
	}
}

// CurrentState 当前状态，取最后一条快照的目标状态
func (t *Trade) CurrentState() TradeState {
	if len(t.History) == 0 {
		return StateDraft
	}
	return t.History[len(t.History)-1].ToState
}

// LatestDetails 当前明细，取最后一条快照
func (t *Trade) LatestDetails() (TradeDetails, bool) {
	if len(t.History) == 0 {
		return TradeDetails{}, false
	}
	return t.History[len(t.History)-1].Details, true
}

// AddSnapshot 追加快照；源状态取追加前的当前状态，序号等于追加前的历史长度
func (t *Trade) AddSnapshot(userID string, toState TradeState, details TradeDetails) *TradeEventSnapshot {
	t.History = append(t.History, TradeEventSnapshot{
		SnapshotID: len(t.History),
		UserID:     userID,
		Timestamp:  time.Now(),
		FromState:  t.CurrentState(),
		ToState:    toState,
		Details:    details.Clone(),
	})
	return &t.History[len(t.History)-1]
}

// Snapshot 按序号获取快照
func (t *Trade) Snapshot(version int) (*TradeEventSnapshot, bool) {
	if version < 0 || version >= len(t.History) {
		return nil, false
	}
	return &t.History[version], true
}

// Requester 交易的原始发起人（快照 0 的用户），勿与首个审批人混淆
func (t *Trade) Requester() string {
	if len(t.History) == 0 {
		return ""
	}
	return t.History[0].UserID
}

// FirstApprover 首个将交易置入待审批状态的用户，勿与发起人混淆
func (t *Trade) FirstApprover() (string, bool) {
	for _, s := range t.History {
		if s.ToState == StatePendingApproval {
			return s.UserID, true
		}
	}
	return "", false
}

// NeedsReapproval 判断当前是否处于待复审批状态
func (t *Trade) NeedsReapproval() bool {
	return t.CurrentState() == StateNeedsReapproval
}

// Clone 深拷贝聚合，存储层以拷贝进出保证一致性
func (t *Trade) Clone() *Trade {
	cloned := &Trade{
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		History:   make([]TradeEventSnapshot, len(t.History)),
	}
	for i, s := range t.History {
		s.Details = s.Details.Clone()
		cloned.History[i] = s
	}
	return cloned
}

// HistoryEntry 历史的表格化视图条目
type HistoryEntry struct {
	SnapshotID int        `json:"snapshot_id"`
	UserID     string     `json:"user_id"`
	FromState  TradeState `json:"from_state"`
	ToState    TradeState `json:"to_state"`
	Timestamp  time.Time  `json:"timestamp"`
}

// HistoryTable 返回表格化的历史视图
func (t *Trade) HistoryTable() []HistoryEntry {
	entries := make([]HistoryEntry, len(t.History))
	for i, s := range t.History {
		entries[i] = HistoryEntry{
			SnapshotID: s.SnapshotID,
			UserID:     s.UserID,
			FromState:  s.FromState,
			ToState:    s.ToState,
			Timestamp:  s.Timestamp,
		}
	}
	return entries
}
