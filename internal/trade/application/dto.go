package application

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradelifecycle/internal/trade/domain"
)

const dateLayout = "2006-01-02"

// TradeDetailsDTO 交易明细的对外视图
type TradeDetailsDTO struct {
	TradingEntity    string   `json:"trading_entity"`
	Counterparty     string   `json:"counterparty"`
	Direction        string   `json:"direction"`
	NotionalCurrency string   `json:"notional_currency"`
	NotionalAmount   string   `json:"notional_amount"`
	Underlying       []string `json:"underlying"`
	TradeDate        string   `json:"trade_date"`
	ValueDate        string   `json:"value_date"`
	DeliveryDate     string   `json:"delivery_date"`
	Strike           string   `json:"strike,omitempty"`
}

// SnapshotDTO 历史快照的对外视图
type SnapshotDTO struct {
	SnapshotID int             `json:"snapshot_id"`
	UserID     string          `json:"user_id"`
	Timestamp  time.Time       `json:"timestamp"`
	FromState  string          `json:"from_state"`
	ToState    string          `json:"to_state"`
	Details    TradeDetailsDTO `json:"details"`
}

// parseDetails 将原始输入解析为领域明细，解析失败返回 validation 错误
func parseDetails(in TradeDetailsInput) (domain.TradeDetails, error) {
	var details domain.TradeDetails

	direction, ok := domain.ParseDirection(in.Direction)
	if !ok {
		return details, domain.NewValidation(domain.CodeUnparsableField, "direction",
			fmt.Sprintf("unknown direction %q", in.Direction))
	}

	notionalCcy, ok := domain.ParseCurrency(in.NotionalCurrency)
	if !ok {
		return details, domain.NewValidation(domain.CodeUnparsableField, "notional_currency",
			fmt.Sprintf("unsupported currency %q", in.NotionalCurrency))
	}

	amount, err := decimal.NewFromString(in.NotionalAmount)
	if err != nil {
		return details, domain.NewValidation(domain.CodeUnparsableField, "notional_amount",
			fmt.Sprintf("invalid decimal %q", in.NotionalAmount))
	}

	underlying := make([]domain.Currency, 0, len(in.Underlying))
	for _, raw := range in.Underlying {
		ccy, ok := domain.ParseCurrency(raw)
		if !ok {
			return details, domain.NewValidation(domain.CodeUnparsableField, "underlying",
				fmt.Sprintf("unsupported currency %q", raw))
		}
		underlying = append(underlying, ccy)
	}

	tradeDate, err := time.Parse(dateLayout, in.TradeDate)
	if err != nil {
		return details, domain.NewValidation(domain.CodeUnparsableField, "trade_date",
			fmt.Sprintf("invalid date %q", in.TradeDate))
	}
	valueDate, err := time.Parse(dateLayout, in.ValueDate)
	if err != nil {
		return details, domain.NewValidation(domain.CodeUnparsableField, "value_date",
			fmt.Sprintf("invalid date %q", in.ValueDate))
	}
	deliveryDate, err := time.Parse(dateLayout, in.DeliveryDate)
	if err != nil {
		return details, domain.NewValidation(domain.CodeUnparsableField, "delivery_date",
			fmt.Sprintf("invalid date %q", in.DeliveryDate))
	}

	details = domain.TradeDetails{
		TradingEntity:    in.TradingEntity,
		Counterparty:     in.Counterparty,
		Direction:        direction,
		NotionalCurrency: notionalCcy,
		NotionalAmount:   amount,
		Underlying:       underlying,
		TradeDate:        tradeDate,
		ValueDate:        valueDate,
		DeliveryDate:     deliveryDate,
	}

	if in.Strike != "" {
		strike, err := decimal.NewFromString(in.Strike)
		if err != nil {
			return details, domain.NewValidation(domain.CodeUnparsableField, "strike",
				fmt.Sprintf("invalid decimal %q", in.Strike))
		}
		details.Strike = &strike
	}

	return details, nil
}

func toDetailsDTO(d domain.TradeDetails) TradeDetailsDTO {
	underlying := make([]string, len(d.Underlying))
	for i, c := range d.Underlying {
		underlying[i] = c.String()
	}

	dto := TradeDetailsDTO{
		TradingEntity:    d.TradingEntity,
		Counterparty:     d.Counterparty,
		Direction:        d.Direction.String(),
		NotionalCurrency: d.NotionalCurrency.String(),
		NotionalAmount:   d.NotionalAmount.String(),
		Underlying:       underlying,
		TradeDate:        d.TradeDate.Format(dateLayout),
		ValueDate:        d.ValueDate.Format(dateLayout),
		DeliveryDate:     d.DeliveryDate.Format(dateLayout),
	}
	if d.Strike != nil {
		dto.Strike = d.Strike.String()
	}
	return dto
}

func toSnapshotDTO(s domain.TradeEventSnapshot) SnapshotDTO {
	return SnapshotDTO{
		SnapshotID: s.SnapshotID,
		UserID:     s.UserID,
		Timestamp:  s.Timestamp,
		FromState:  s.FromState.String(),
		ToState:    s.ToState.String(),
		Details:    toDetailsDTO(s.Details),
	}
}
