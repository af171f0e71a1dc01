package application

// TradeDetailsInput 交易明细的原始输入，字段在应用层解析为领域类型
type TradeDetailsInput struct {
	TradingEntity    string   `json:"trading_entity"`
	Counterparty     string   `json:"counterparty"`
	Direction        string   `json:"direction"`
	NotionalCurrency string   `json:"notional_currency"`
	NotionalAmount   string   `json:"notional_amount"`
	Underlying       []string `json:"underlying"`
	TradeDate        string   `json:"trade_date"`
	ValueDate        string   `json:"value_date"`
	DeliveryDate     string   `json:"delivery_date"`
	Strike           string   `json:"strike"`
}

// CreateTradeCommand 创建交易命令
type CreateTradeCommand struct {
	UserID  string
	Details TradeDetailsInput
}

// UpdateTradeCommand 修改交易命令
type UpdateTradeCommand struct {
	UserID  string
	TradeID uint64
	Details TradeDetailsInput
}

// TradeActionCommand 无明细变更的生命周期动作命令
type TradeActionCommand struct {
	UserID  string
	TradeID uint64
}
