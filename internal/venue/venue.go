package venue

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"matchcore/internal/common"
	"matchcore/internal/engine"
)

// Venue owns one MatchingCore per ticker — the exchange simulator or live
// execution adapter the core delegates its effects to. It is the minimal
// harness around the core: admitting orders, cancelling them, feeding
// market ticks, and turning the core's trigger/fill callbacks into Trade
// reports.
//
// It deliberately does not implement price-time-priority matching against
// resting counter-orders on the opposite side — that is out of scope for
// this harness. A fill is reported against a synthetic "MARKET"
// counterparty at whatever price the core decided the order crossed at.
type Venue struct {
	mu     sync.RWMutex
	actors map[string]*instrumentActor

	reportTrade func(common.Trade)
	reportError func(owner string, err error)
}

func New(reportTrade func(common.Trade), reportError func(string, error)) *Venue {
	return &Venue{
		actors:      make(map[string]*instrumentActor),
		reportTrade: reportTrade,
		reportError: reportError,
	}
}

// SetReporters wires the trade/error callbacks after construction — used
// when the reporting sink (e.g. a net.Server) itself needs a constructed
// Venue to dispatch against, breaking the otherwise-circular dependency.
func (v *Venue) SetReporters(reportTrade func(common.Trade), reportError func(string, error)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reportTrade = reportTrade
	v.reportError = reportError
}

// Register starts a MatchingCore for ticker, wiring its three callbacks
// to this venue's fill/trigger handling.
func (v *Venue) Register(assetType engine.AssetType, ticker string, instrument engine.Instrument) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.actors[ticker]; exists {
		return ErrAlreadyRegistered
	}

	core := engine.New(
		instrument,
		v.onTrigger(ticker),
		v.onFillMarket(ticker, assetType),
		v.onFillLimit(ticker, assetType),
	)
	v.actors[ticker] = newInstrumentActor(ticker, core)
	log.Info().Str("ticker", ticker).Msg("instrument registered")
	return nil
}

// Shutdown stops every instrument actor.
func (v *Venue) Shutdown() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ticker, a := range v.actors {
		a.stop()
		log.Info().Str("ticker", ticker).Msg("instrument actor stopped")
	}
}

func (v *Venue) actor(ticker string) (*instrumentActor, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	a, ok := v.actors[ticker]
	return a, ok
}

// PlaceOrder admits a working order: it is registered with the core and
// immediately checked against the current market (initial=true) on
// arrival.
func (v *Venue) PlaceOrder(order *WorkingOrder) error {
	a, ok := v.actor(order.Ticker)
	if !ok {
		return ErrUnknownTicker
	}

	var addErr, matchErr error
	a.submit(func() {
		if addErr = a.core.AddOrder(order); addErr != nil {
			return
		}
		a.orders[order.ClientOrderID()] = order
		matchErr = a.core.MatchOrder(order, true)
	})
	if addErr != nil {
		return addErr
	}
	return matchErr
}

// CancelOrder closes and removes a working order. Idempotent: cancelling
// an order twice is a no-op with ErrUnknownOrder returned on the second
// call. A filled order is closed but stays tracked until it is cancelled,
// so cancelling it removes it and returns nil.
func (v *Venue) CancelOrder(ticker, orderID string) error {
	a, ok := v.actor(ticker)
	if !ok {
		return ErrUnknownTicker
	}

	var err error
	a.submit(func() {
		order, tracked := a.orders[orderID]
		if !tracked {
			err = ErrUnknownOrder
			return
		}
		order.Close()
		a.core.DeleteOrder(order)
		delete(a.orders, orderID)
	})
	return err
}

// Tick publishes a bid/ask/last update for ticker and sweeps its working
// orders. Any of bid, ask, last may be nil to leave that slot unpublished.
func (v *Venue) Tick(ticker string, bid, ask, last *engine.Price) error {
	a, ok := v.actor(ticker)
	if !ok {
		return ErrUnknownTicker
	}

	var err error
	a.submit(func() {
		if bid != nil {
			a.core.SetBidRaw(bid.Raw)
		}
		if ask != nil {
			a.core.SetAskRaw(ask.Raw)
		}
		if last != nil {
			a.core.SetLastRaw(last.Raw)
		}
		err = a.core.Iterate(time.Now().UnixNano())
	})
	return err
}

// LogBook writes a one-line summary of every registered instrument's
// working set.
func (v *Venue) LogBook() {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for ticker, a := range v.actors {
		a.submit(func() {
			log.Info().
				Str("ticker", ticker).
				Int("bids", len(a.core.GetOrdersBid())).
				Int("asks", len(a.core.GetOrdersAsk())).
				Msg("book snapshot")
		})
	}
}

// onTrigger returns the trigger_stop_order callback for ticker: it flips
// the order's triggered flag, per the contract documented on
// engine.Order, and logs the activation.
func (v *Venue) onTrigger(ticker string) func(engine.Order) {
	return func(o engine.Order) {
		wo, ok := o.(*WorkingOrder)
		if !ok {
			v.reportUnexpectedOrderType(o)
			return
		}
		wo.isTriggered = true
		log.Info().
			Str("ticker", ticker).
			Str("orderID", wo.ClientOrderID()).
			Str("owner", wo.Owner).
			Str("side", wo.side.String()).
			Str("type", wo.orderType.String()).
			Msg("order triggered")
	}
}

// onFillMarket returns the fill_market_order callback for ticker: the
// fill price is the trigger the order just activated at — the only price
// the core handed the callback anything concrete about.
func (v *Venue) onFillMarket(ticker string, assetType engine.AssetType) func(engine.Order) {
	return func(o engine.Order) {
		wo, ok := o.(*WorkingOrder)
		if !ok {
			v.reportUnexpectedOrderType(o)
			return
		}
		price := engine.Price{}
		if wo.triggeredAt != nil {
			price = *wo.triggeredAt
		}
		v.reportFill(ticker, assetType, wo, price)
	}
}

// onFillLimit returns the fill_limit_order callback for ticker: the fill
// price is the order's own limit price, the price it actually crossed at.
func (v *Venue) onFillLimit(ticker string, assetType engine.AssetType) func(engine.Order) {
	return func(o engine.Order) {
		wo, ok := o.(*WorkingOrder)
		if !ok {
			v.reportUnexpectedOrderType(o)
			return
		}
		price, _ := wo.Price()
		v.reportFill(ticker, assetType, wo, price)
	}
}

// reportUnexpectedOrderType handles the defensive branch of a type
// assertion that should never fail in practice: every order ever handed
// to AddOrder through this package's own PlaceOrder is a *WorkingOrder.
func (v *Venue) reportUnexpectedOrderType(o engine.Order) {
	if v.reportError != nil {
		v.reportError("", fmt.Errorf("venue: callback received non-WorkingOrder for %s", o.ClientOrderID()))
	}
}

func (v *Venue) reportFill(ticker string, assetType engine.AssetType, wo *WorkingOrder, price engine.Price) {
	wo.Close()

	trade := common.Trade{
		OrderID:       wo.ClientOrderID(),
		Owner:         wo.Owner,
		Counterparty:  "MARKET",
		AssetType:     assetType,
		Ticker:        ticker,
		Side:          wo.side,
		LiquiditySide: wo.LiquiditySide(),
		Price:         price,
		Quantity:      wo.Quantity,
		Timestamp:     time.Now(),
	}

	log.Info().
		Str("ticker", ticker).
		Str("orderID", wo.ClientOrderID()).
		Str("owner", wo.Owner).
		Str("liquidity", wo.LiquiditySide().String()).
		Str("price", price.String()).
		Uint64("qty", wo.Quantity).
		Msg("order filled")

	if v.reportTrade != nil {
		v.reportTrade(trade)
	}
}
