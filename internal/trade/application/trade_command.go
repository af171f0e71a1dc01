package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
	"github.com/wyfcoding/tradelifecycle/pkg/idgen"
	"github.com/wyfcoding/tradelifecycle/pkg/logger"
)

// TradeCommandService 交易生命周期写操作
//
// 每个操作按同一流程执行：取出聚合、状态机判定、业务规则校验、
// 追加快照、写回存储、发布事件。领域错误原样向上传播。
type TradeCommandService struct {
	repo      domain.TradeRepository
	idGen     *idgen.Snowflake
	sm        domain.StateMachine
	publisher domain.EventPublisher
}

// NewTradeCommandService 构造函数
func NewTradeCommandService(repo domain.TradeRepository, idGen *idgen.Snowflake, publisher domain.EventPublisher) *TradeCommandService {
	return &TradeCommandService{
		repo:      repo,
		idGen:     idGen,
		publisher: publisher,
	}
}

// CreateTrade 创建 DRAFT 状态的交易并返回交易 ID
func (s *TradeCommandService) CreateTrade(ctx context.Context, cmd CreateTradeCommand) (domain.TradeID, error) {
	details, err := parseDetails(cmd.Details)
	if err != nil {
		return 0, err
	}
	if err := details.Validate(); err != nil {
		return 0, err
	}

	tradeID := domain.TradeID(s.idGen.Generate())
	trade := domain.NewTrade(tradeID, details, cmd.UserID)

	if err := s.repo.Save(ctx, trade); err != nil {
		return 0, fmt.Errorf("failed to save trade: %w", err)
	}

	logger.Info(ctx, "Trade created",
		"trade_id", uint64(tradeID),
		"user_id", cmd.UserID,
	)

	if err := s.publisher.PublishTradeCreated(domain.TradeCreatedEvent{
		TradeID:   tradeID,
		UserID:    cmd.UserID,
		State:     domain.StateDraft,
		Timestamp: time.Now(),
	}); err != nil {
		logger.Warn(ctx, "Failed to publish trade created event", "trade_id", uint64(tradeID), "error", err)
	}

	return tradeID, nil
}

// Submit 将 DRAFT 交易提交审批
func (s *TradeCommandService) Submit(ctx context.Context, cmd TradeActionCommand) error {
	return s.transition(ctx, cmd.UserID, domain.TradeID(cmd.TradeID), domain.ActionSubmit, nil, nil)
}

// Approve 审批交易，适用于待审批与待复审批两种状态
//
// 业务规则：首次审批（自待审批状态）不允许原始发起人执行；
// 复审批（自待复审批状态）只允许原始发起人执行。
func (s *TradeCommandService) Approve(ctx context.Context, cmd TradeActionCommand) error {
	tradeID := domain.TradeID(cmd.TradeID)
	check := func(trade *domain.Trade) error {
		switch trade.CurrentState() {
		case domain.StatePendingApproval:
			if trade.Requester() == cmd.UserID {
				return domain.NewRequesterCannotFirstApprove(tradeID, cmd.UserID)
			}
		case domain.StateNeedsReapproval:
			if trade.Requester() != cmd.UserID {
				return domain.NewMustBeRequester(tradeID, cmd.UserID)
			}
		}
		return nil
	}
	return s.transition(ctx, cmd.UserID, tradeID, domain.ActionApprove, check, nil)
}

// Cancel 撤销交易，终态交易不可撤销
func (s *TradeCommandService) Cancel(ctx context.Context, cmd TradeActionCommand) error {
	return s.transition(ctx, cmd.UserID, domain.TradeID(cmd.TradeID), domain.ActionCancel, nil, nil)
}

// Update 修改交易明细，修改后的交易需要重新审批
func (s *TradeCommandService) Update(ctx context.Context, cmd UpdateTradeCommand) error {
	details, err := parseDetails(cmd.Details)
	if err != nil {
		return err
	}
	if err := details.Validate(); err != nil {
		return err
	}

	tradeID := domain.TradeID(cmd.TradeID)
	check := func(trade *domain.Trade) error {
		current, ok := trade.LatestDetails()
		if !ok {
			return domain.NewInternal("trade has empty history")
		}
		if details.Equal(current) {
			return domain.NewNoOpUpdate(tradeID)
		}
		return nil
	}
	return s.transition(ctx, cmd.UserID, tradeID, domain.ActionUpdate, check, &details)
}

// SendToExecute 将已审批交易发送给对手方执行，不可逆
func (s *TradeCommandService) SendToExecute(ctx context.Context, cmd TradeActionCommand) error {
	return s.transition(ctx, cmd.UserID, domain.TradeID(cmd.TradeID), domain.ActionSendToExecute, nil, nil)
}

// Book 确认执行完成并落账，交易进入终态
func (s *TradeCommandService) Book(ctx context.Context, cmd TradeActionCommand) error {
	return s.transition(ctx, cmd.UserID, domain.TradeID(cmd.TradeID), domain.ActionBook, nil, nil)
}

// fetch 按 ID 取出交易，不存在时返回 not-found 领域错误
func (s *TradeCommandService) fetch(ctx context.Context, id domain.TradeID) (*domain.Trade, error) {
	trade, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trade: %w", err)
	}
	if trade == nil {
		return nil, domain.NewTradeNotFound(id)
	}
	return trade, nil
}

// transition 生命周期操作的统一流程
//
// newDetails 为 nil 时沿用当前明细；check 在状态机判定通过后执行业务规则。
// 快照携带的目标状态同时经 NextState 与 CanTransition 双重确认。
func (s *TradeCommandService) transition(
	ctx context.Context,
	userID string,
	tradeID domain.TradeID,
	action domain.TradeAction,
	check func(*domain.Trade) error,
	newDetails *domain.TradeDetails,
) error {
	trade, err := s.fetch(ctx, tradeID)
	if err != nil {
		return err
	}

	stateNow := trade.CurrentState()
	stateNext, err := s.sm.NextState(action, stateNow, tradeID)
	if err != nil {
		return err
	}
	if !s.sm.CanTransition(stateNow, stateNext) {
		return domain.NewInvalidTransition(tradeID, stateNow, stateNext)
	}

	if check != nil {
		if err := check(trade); err != nil {
			return err
		}
	}

	var details domain.TradeDetails
	if newDetails != nil {
		details = *newDetails
	} else {
		current, ok := trade.LatestDetails()
		if !ok {
			return domain.NewInternal(fmt.Sprintf("trade %d has empty history", tradeID))
		}
		details = current
	}

	trade.AddSnapshot(userID, stateNext, details)

	if err := s.repo.Update(ctx, trade); err != nil {
		return fmt.Errorf("failed to persist trade: %w", err)
	}

	logger.Info(ctx, "Trade state changed",
		"trade_id", uint64(tradeID),
		"user_id", userID,
		"action", action.String(),
		"from_state", stateNow.String(),
		"to_state", stateNext.String(),
	)

	if err := s.publisher.PublishTradeStateChanged(domain.TradeStateChangedEvent{
		TradeID:   tradeID,
		UserID:    userID,
		Action:    action,
		FromState: stateNow,
		ToState:   stateNext,
		Timestamp: time.Now(),
	}); err != nil {
		logger.Warn(ctx, "Failed to publish trade state changed event", "trade_id", uint64(tradeID), "error", err)
	}

	return nil
}
