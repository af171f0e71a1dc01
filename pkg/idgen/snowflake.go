// Package idgen 提供雪花算法交易 ID 生成器
//
// ID 由三部分组成：自定义纪元以来的毫秒时间戳、节点编号、同一毫秒内的序列号。
// 同一实例生成的 ID 严格递增，并发调用下全局唯一。
package idgen

import (
	"fmt"
	"sync"
	"time"
)

const (
	// Epoch 自定义纪元（毫秒），用于压缩时间戳位宽
	Epoch int64 = 1_700_000_000_000

	// NodeIDBits 节点编号位数
	NodeIDBits uint8 = 10
	// SequenceBits 同一毫秒内序列号位数
	SequenceBits uint8 = 12

	// MaxNodeID 节点编号上限
	MaxNodeID int64 = (1 << NodeIDBits) - 1
	// MaxSequence 序列号上限
	MaxSequence int64 = (1 << SequenceBits) - 1
)

// Snowflake 线程安全的雪花 ID 生成器
type Snowflake struct {
	mu            sync.Mutex
	nodeID        int64
	lastTimestamp int64
	sequence      int64
}

// NewSnowflake 创建生成器实例，节点编号超出位宽时返回错误
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, fmt.Errorf("node id %d out of range [0, %d]", nodeID, MaxNodeID)
	}
	return &Snowflake{nodeID: nodeID}, nil
}

// NodeID 返回配置的节点编号
func (s *Snowflake) NodeID() int64 {
	return s.nodeID
}

// Generate 生成唯一 ID
func (s *Snowflake) Generate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()

	// 时钟回拨：沿用上次发号时间戳
	if now < s.lastTimestamp {
		now = s.lastTimestamp
	}

	if now == s.lastTimestamp {
		s.sequence = (s.sequence + 1) & MaxSequence
		// 序列号用尽，自旋等待下一毫秒
		if s.sequence == 0 {
			for now <= s.lastTimestamp {
				now = time.Now().UnixMilli()
			}
			s.lastTimestamp = now
		}
	} else {
		s.sequence = 0
		s.lastTimestamp = now
	}

	timePart := uint64(now-Epoch) << (NodeIDBits + SequenceBits)
	nodePart := uint64(s.nodeID) << SequenceBits
	seqPart := uint64(s.sequence)

	return timePart | nodePart | seqPart
}

// Decompose 拆解 ID，返回时间戳（毫秒）、节点编号与序列号
func Decompose(id uint64) (timestamp int64, nodeID int64, sequence int64) {
	timestamp = int64(id>>(NodeIDBits+SequenceBits)) + Epoch
	nodeID = int64(id>>SequenceBits) & MaxNodeID
	sequence = int64(id) & MaxSequence
	return
}
