package venue

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"matchcore/internal/engine"
)

// WorkingOrder is the concrete order type the venue hands to a
// MatchingCore. It carries everything engine.Order requires plus the
// account/quantity/timestamp bookkeeping the matching core itself never
// touches, leaving those to the order's owner — expressed as an
// interface implementation rather than a bare struct so the core can
// depend on the interface instead of this type.
type WorkingOrder struct {
	id            string
	AssetType     engine.AssetType
	Ticker        string
	side          engine.Side
	orderType     engine.OrderType
	price         *engine.Price
	triggerPrice  *engine.Price
	triggeredAt   *engine.Price
	isTriggered   bool
	liquiditySide engine.LiquiditySide
	Quantity      uint64
	TotalQuantity uint64
	Owner         string
	Timestamp     time.Time
	ExchTimestamp time.Time
	closed        bool
}

// NewWorkingOrder mints a client order id and stamps the arrival
// timestamp.
func NewWorkingOrder(
	asset engine.AssetType,
	ticker string,
	side engine.Side,
	orderType engine.OrderType,
	price, triggerPrice *engine.Price,
	quantity uint64,
	owner string,
) *WorkingOrder {
	return &WorkingOrder{
		id:            uuid.NewString(),
		AssetType:     asset,
		Ticker:        ticker,
		side:          side,
		orderType:     orderType,
		price:         price,
		triggerPrice:  triggerPrice,
		Quantity:      quantity,
		TotalQuantity: quantity,
		Owner:         owner,
		Timestamp:     time.Now(),
	}
}

func (o *WorkingOrder) ClientOrderID() string       { return o.id }
func (o *WorkingOrder) Side() engine.Side           { return o.side }
func (o *WorkingOrder) OrderType() engine.OrderType { return o.orderType }

func (o *WorkingOrder) Price() (engine.Price, bool) {
	if o.price == nil {
		return engine.Price{}, false
	}
	return *o.price, true
}

func (o *WorkingOrder) TriggerPrice() (engine.Price, bool) {
	if o.triggerPrice == nil {
		return engine.Price{}, false
	}
	return *o.triggerPrice, true
}

func (o *WorkingOrder) IsTriggered() bool { return o.isTriggered }

// SetTriggeredPrice is called by the core on activation. The venue's
// trigger-stop callback (see venue.go) is the one that flips isTriggered
// to true, per the contract documented on engine.Order.
func (o *WorkingOrder) SetTriggeredPrice(p engine.Price) { o.triggeredAt = &p }

func (o *WorkingOrder) LiquiditySide() engine.LiquiditySide     { return o.liquiditySide }
func (o *WorkingOrder) SetLiquiditySide(l engine.LiquiditySide) { o.liquiditySide = l }

func (o *WorkingOrder) IsClosed() bool { return o.closed }

// Close marks the order terminal so Iterate skips it on any later sweep.
func (o *WorkingOrder) Close() { o.closed = true }

func (o *WorkingOrder) String() string {
	return fmt.Sprintf(
		"WorkingOrder{id=%s ticker=%s side=%s type=%s qty=%d/%d owner=%s closed=%t}",
		o.id, o.Ticker, o.side, o.orderType, o.Quantity, o.TotalQuantity, o.Owner, o.closed,
	)
}
