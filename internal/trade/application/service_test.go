package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
	"github.com/wyfcoding/tradelifecycle/internal/trade/infrastructure/persistence/memory"
)

// recordingEventPublisher 测试用事件发布器，记录所有发布的事件
type recordingEventPublisher struct {
	mu      sync.Mutex
	created []domain.TradeCreatedEvent
	changed []domain.TradeStateChangedEvent
}

func (p *recordingEventPublisher) PublishTradeCreated(event domain.TradeCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, event)
	return nil
}

func (p *recordingEventPublisher) PublishTradeStateChanged(event domain.TradeStateChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, event)
	return nil
}

func newTestService(t *testing.T) (*TradeService, *recordingEventPublisher) {
	t.Helper()
	publisher := &recordingEventPublisher{}
	svc, err := NewTradeService(1, memory.NewTradeStore(), publisher)
	require.NoError(t, err)
	return svc, publisher
}

func validInput() TradeDetailsInput {
	return TradeDetailsInput{
		TradingEntity:    "Acme Bank",
		Counterparty:     "Globex Corp",
		Direction:        "BUY",
		NotionalCurrency: "USD",
		NotionalAmount:   "1000000",
		Underlying:       []string{"USD", "EUR"},
		TradeDate:        "2026-01-10",
		ValueDate:        "2026-01-12",
		DeliveryDate:     "2026-01-14",
	}
}

func createTrade(t *testing.T, svc *TradeService, user string) domain.TradeID {
	t.Helper()
	id, err := svc.CreateTrade(context.Background(), CreateTradeCommand{UserID: user, Details: validInput()})
	require.NoError(t, err)
	return id
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de := domain.AsDomainError(err)
	require.NotNil(t, de, "expected domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestCreateTrade(t *testing.T) {
	svc, publisher := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")
	assert.NotZero(t, id)

	status, err := svc.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", status)

	require.Len(t, publisher.created, 1)
	assert.Equal(t, id, publisher.created[0].TradeID)
	assert.Equal(t, "alice", publisher.created[0].UserID)
}

func TestCreateTradeRejectsInvalidDetails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validInput()
	input.NotionalAmount = "0"
	_, err := svc.CreateTrade(ctx, CreateTradeCommand{UserID: "alice", Details: input})
	requireCode(t, err, domain.CodeZeroAmount)

	input = validInput()
	input.NotionalCurrency = "XXX"
	_, err = svc.CreateTrade(ctx, CreateTradeCommand{UserID: "alice", Details: input})
	requireCode(t, err, domain.CodeUnparsableField)

	input = validInput()
	input.TradeDate = "not-a-date"
	_, err = svc.CreateTrade(ctx, CreateTradeCommand{UserID: "alice", Details: input})
	requireCode(t, err, domain.CodeUnparsableField)
}

func TestFullLifecycle(t *testing.T) {
	svc, publisher := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")

	require.NoError(t, svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))
	require.NoError(t, svc.Approve(ctx, TradeActionCommand{UserID: "bob", TradeID: uint64(id)}))
	require.NoError(t, svc.SendToExecute(ctx, TradeActionCommand{UserID: "bob", TradeID: uint64(id)}))
	require.NoError(t, svc.Book(ctx, TradeActionCommand{UserID: "carol", TradeID: uint64(id)}))

	status, err := svc.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "EXECUTED", status)

	history, err := svc.GetHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, "DRAFT", history[0].ToState)
	assert.Equal(t, "PENDING_APPROVAL", history[1].ToState)
	assert.Equal(t, "APPROVED", history[2].ToState)
	assert.Equal(t, "SENT_TO_COUNTERPARTY", history[3].ToState)
	assert.Equal(t, "EXECUTED", history[4].ToState)

	assert.Len(t, publisher.changed, 4)
}

func TestSubmitTwiceFails(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")
	require.NoError(t, svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))

	err := svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)})
	requireCode(t, err, domain.CodeInvalidTransition)
}

func TestRequesterCannotFirstApprove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")
	require.NoError(t, svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))

	err := svc.Approve(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)})
	requireCode(t, err, domain.CodeRequesterFirstAppr)

	// 其他用户可以完成首次审批
	require.NoError(t, svc.Approve(ctx, TradeActionCommand{UserID: "bob", TradeID: uint64(id)}))
}

func TestOnlyRequesterReapproves(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")
	require.NoError(t, svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))

	input := validInput()
	input.NotionalAmount = "2000000"
	require.NoError(t, svc.Update(ctx, UpdateTradeCommand{UserID: "bob", TradeID: uint64(id), Details: input}))

	status, err := svc.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "NEEDS_REAPPROVAL", status)

	err = svc.Approve(ctx, TradeActionCommand{UserID: "bob", TradeID: uint64(id)})
	requireCode(t, err, domain.CodeMustBeRequester)

	require.NoError(t, svc.Approve(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))

	status, err = svc.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", status)
}

func TestUpdateFromDraft(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")

	input := validInput()
	input.Counterparty = "Initech"
	require.NoError(t, svc.Update(ctx, UpdateTradeCommand{UserID: "alice", TradeID: uint64(id), Details: input}))

	status, err := svc.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "NEEDS_REAPPROVAL", status)

	details, err := svc.GetDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Initech", details.Counterparty)
}

func TestNoOpUpdateRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")

	err := svc.Update(ctx, UpdateTradeCommand{UserID: "alice", TradeID: uint64(id), Details: validInput()})
	requireCode(t, err, domain.CodeNoOpUpdate)
}

func TestUpdateAfterApprovalRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")
	require.NoError(t, svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))
	require.NoError(t, svc.Approve(ctx, TradeActionCommand{UserID: "bob", TradeID: uint64(id)}))

	input := validInput()
	input.NotionalAmount = "42"
	err := svc.Update(ctx, UpdateTradeCommand{UserID: "alice", TradeID: uint64(id), Details: input})
	requireCode(t, err, domain.CodeInvalidTransition)
}

func TestCancelFromEveryNonFinalState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	advance := map[string]func(id domain.TradeID){
		"DRAFT": func(id domain.TradeID) {},
		"PENDING_APPROVAL": func(id domain.TradeID) {
			require.NoError(t, svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))
		},
		"NEEDS_REAPPROVAL": func(id domain.TradeID) {
			input := validInput()
			input.NotionalAmount = "77"
			require.NoError(t, svc.Update(ctx, UpdateTradeCommand{UserID: "alice", TradeID: uint64(id), Details: input}))
		},
		"APPROVED": func(id domain.TradeID) {
			require.NoError(t, svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))
			require.NoError(t, svc.Approve(ctx, TradeActionCommand{UserID: "bob", TradeID: uint64(id)}))
		},
		"SENT_TO_COUNTERPARTY": func(id domain.TradeID) {
			require.NoError(t, svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))
			require.NoError(t, svc.Approve(ctx, TradeActionCommand{UserID: "bob", TradeID: uint64(id)}))
			require.NoError(t, svc.SendToExecute(ctx, TradeActionCommand{UserID: "bob", TradeID: uint64(id)}))
		},
	}

	for state, setup := range advance {
		t.Run(state, func(t *testing.T) {
			id := createTrade(t, svc, "alice")
			setup(id)

			status, err := svc.GetStatus(ctx, id)
			require.NoError(t, err)
			require.Equal(t, state, status)

			require.NoError(t, svc.Cancel(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))

			status, err = svc.GetStatus(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "CANCELLED", status)
		})
	}
}

func TestActionsOnFinalTrade(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")
	require.NoError(t, svc.Cancel(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)}))

	err := svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)})
	requireCode(t, err, domain.CodeAlreadyFinal)

	err = svc.Cancel(ctx, TradeActionCommand{UserID: "alice", TradeID: uint64(id)})
	requireCode(t, err, domain.CodeAlreadyFinal)

	input := validInput()
	input.NotionalAmount = "9"
	err = svc.Update(ctx, UpdateTradeCommand{UserID: "alice", TradeID: uint64(id), Details: input})
	requireCode(t, err, domain.CodeAlreadyFinal)
}

func TestActionsOnMissingTrade(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Submit(ctx, TradeActionCommand{UserID: "alice", TradeID: 12345})
	requireCode(t, err, domain.CodeTradeNotFound)

	_, err = svc.GetStatus(ctx, 12345)
	requireCode(t, err, domain.CodeTradeNotFound)

	_, err = svc.GetDetails(ctx, 12345)
	requireCode(t, err, domain.CodeTradeNotFound)
}

func TestListTradeIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := createTrade(t, svc, "alice")
	second := createTrade(t, svc, "bob")
	third := createTrade(t, svc, "carol")

	ids, err := svc.ListTradeIDs(ctx, true)
	require.NoError(t, err)
	// 雪花 ID 按生成顺序递增
	assert.Equal(t, []domain.TradeID{first, second, third}, ids)
}

func TestDiff(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")

	input := validInput()
	input.NotionalAmount = "2500000"
	input.Counterparty = "Initech"
	require.NoError(t, svc.Update(ctx, UpdateTradeCommand{UserID: "bob", TradeID: uint64(id), Details: input}))

	diff, err := svc.Diff(ctx, id, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, id, diff.TradeID)
	assert.Equal(t, 0, diff.FromVersion)
	assert.Equal(t, 1, diff.ToVersion)
	assert.Equal(t, "alice", diff.FromUser)
	assert.Equal(t, "bob", diff.ToUser)
	require.Len(t, diff.Changes, 2)
	assert.Equal(t, domain.FieldChange{From: "1000000", To: "2500000"}, diff.Changes["notional_amount"])
	assert.Equal(t, domain.FieldChange{From: "Globex Corp", To: "Initech"}, diff.Changes["counterparty"])
}

func TestDiffMissingSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id := createTrade(t, svc, "alice")

	_, err := svc.Diff(ctx, id, 0, 5)
	requireCode(t, err, domain.CodeSnapshotNotFound)

	_, err = svc.Diff(ctx, 999, 0, 1)
	requireCode(t, err, domain.CodeTradeNotFound)
}

func TestNewTradeServiceRejectsBadNodeID(t *testing.T) {
	_, err := NewTradeService(-1, memory.NewTradeStore(), nil)
	assert.Error(t, err)

	_, err = NewTradeService(1024, memory.NewTradeStore(), nil)
	assert.Error(t, err)

	svc, err := NewTradeService(0, memory.NewTradeStore(), nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
