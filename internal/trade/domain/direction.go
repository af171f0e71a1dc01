package domain

import "strings"

// Direction 交易方向
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// ParseDirection 解析交易方向，忽略大小写
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return DirectionBuy, true
	case "SELL":
		return DirectionSell, true
	default:
		return "", false
	}
}

// DirectionFromInt 从整数解析方向：+1 买入，-1 卖出
func DirectionFromInt(i int) (Direction, bool) {
	switch i {
	case 1:
		return DirectionBuy, true
	case -1:
		return DirectionSell, true
	default:
		return "", false
	}
}

// IsValid 判断方向是否有效
func (d Direction) IsValid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// String 实现 fmt.Stringer
func (d Direction) String() string {
	return string(d)
}
