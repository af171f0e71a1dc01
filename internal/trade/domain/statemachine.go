package domain

// StateMachine 交易状态机，仅含两个无副作用的查询
//
// CanTransition 是状态对的权威白名单，NextState 把动作映射为目标状态。
// 引擎只有在 NextState 给出目标状态且 CanTransition 对该状态对放行时才接受操作。
type StateMachine struct{}

// 状态对白名单。Draft 与 PendingApproval 允许同态迁移（原地编辑），终态无出边
var allowedTransitions = map[TradeState]map[TradeState]bool{
	StateDraft: {
		StateDraft:           true,
		StatePendingApproval: true,
		StateNeedsReapproval: true,
		StateCancelled:       true,
	},
	StatePendingApproval: {
		StatePendingApproval: true,
		StateApproved:        true,
		StateNeedsReapproval: true,
		StateCancelled:       true,
	},
	StateNeedsReapproval: {
		StateNeedsReapproval: true,
		StateApproved:        true,
		StateCancelled:       true,
	},
	StateApproved: {
		StateSentToCounterparty: true,
		StateCancelled:          true,
	},
	StateSentToCounterparty: {
		StateExecuted:  true,
		StateCancelled: true,
	},
}

// CanTransition 判断状态对是否在白名单内，勿与 NextState 混淆
func (StateMachine) CanTransition(from, to TradeState) bool {
	return allowedTransitions[from][to]
}

// NextState 返回给定动作在当前状态下的目标状态
//
// 终态上的任何动作返回 already-final 错误，其余不支持的组合返回 invalid-transition。
// tradeID 仅用于填充错误上下文。
func (StateMachine) NextState(action TradeAction, from TradeState, tradeID TradeID) (TradeState, error) {
	if from.IsFinal() {
		return "", NewAlreadyFinal(tradeID, from)
	}

	switch action {
	case ActionSubmit:
		if from == StateDraft {
			return StatePendingApproval, nil
		}
	case ActionApprove:
		if from == StatePendingApproval || from == StateNeedsReapproval {
			return StateApproved, nil
		}
	case ActionUpdate:
		if from == StateDraft || from == StatePendingApproval || from == StateNeedsReapproval {
			return StateNeedsReapproval, nil
		}
	case ActionSendToExecute:
		if from == StateApproved {
			return StateSentToCounterparty, nil
		}
	case ActionBook:
		if from == StateSentToCounterparty {
			return StateExecuted, nil
		}
	case ActionCancel:
		// SentToCounterparty 的撤销按尽力而为处理
		switch from {
		case StateDraft, StatePendingApproval, StateNeedsReapproval, StateApproved, StateSentToCounterparty:
			return StateCancelled, nil
		}
	}

	return "", NewActionNotAllowed(tradeID, action, from)
}
