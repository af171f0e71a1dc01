package domain

// TradeState 交易状态
type TradeState string

const (
	StateDraft              TradeState = "DRAFT"
	StatePendingApproval    TradeState = "PENDING_APPROVAL"
	StateNeedsReapproval    TradeState = "NEEDS_REAPPROVAL"
	StateApproved           TradeState = "APPROVED"
	StateSentToCounterparty TradeState = "SENT_TO_COUNTERPARTY"
	StateExecuted           TradeState = "EXECUTED"
	StateCancelled          TradeState = "CANCELLED"
)

// IsFinal 判断是否为终态，终态交易不允许任何后续操作
func (s TradeState) IsFinal() bool {
	return s == StateExecuted || s == StateCancelled
}

// String 实现 fmt.Stringer
func (s TradeState) String() string {
	return string(s)
}

// TradeAction 生命周期动作
type TradeAction string

const (
	ActionSubmit        TradeAction = "SUBMIT"
	ActionApprove       TradeAction = "APPROVE"
	ActionCancel        TradeAction = "CANCEL"
	ActionUpdate        TradeAction = "UPDATE"
	ActionSendToExecute TradeAction = "SEND_TO_EXECUTE"
	ActionBook          TradeAction = "BOOK"
)

// IsIrreversible 标记不可逆动作，仅作提示用途，不参与状态机判定
func (a TradeAction) IsIrreversible() bool {
	return a == ActionSendToExecute || a == ActionBook
}

// String 实现 fmt.Stringer
func (a TradeAction) String() string {
	return string(a)
}
