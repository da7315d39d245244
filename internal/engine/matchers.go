package engine

// matchLimitOrder handles LIMIT and MARKET_TO_LIMIT: a no-op unless the
// current market makes the order's own price marketable, in which case it
// fills as a maker (it was resting; the market moved to it).
func (c *MatchingCore) matchLimitOrder(o Order) {
	price, ok := o.Price()
	if !ok {
		return
	}
	if !c.IsLimitMatched(o.Side(), price) {
		return
	}
	o.SetLiquiditySide(Maker)
	c.fillLimitOrder(o)
}

// matchStopMarketOrder handles STOP_MARKET and TRAILING_STOP_MARKET: once
// triggered it is unconditionally a market fill, so there is no separate
// trigger callback — the fill sink is the sole observer.
func (c *MatchingCore) matchStopMarketOrder(o Order) {
	trigger, ok := o.TriggerPrice()
	if !ok {
		return
	}
	if !c.IsStopTriggered(o.Side(), trigger) {
		return
	}
	o.SetTriggeredPrice(trigger)
	c.fillMarketOrder(o)
}

// matchStopLimitOrder handles STOP_LIMIT and TRAILING_STOP_LIMIT. Once
// triggered the order behaves exactly like a limit order on every
// subsequent call. Until then, triggering it may itself make it
// immediately marketable: the market move that triggers the stop can
// simultaneously satisfy its own limit price, in which case the fill is a
// taker fill (the trigger took the order through its own limit) rather
// than the maker fill an already-resting limit would get.
func (c *MatchingCore) matchStopLimitOrder(o Order, initial bool) {
	if o.IsTriggered() {
		c.matchLimitOrder(o)
		return
	}
	trigger, ok := o.TriggerPrice()
	if !ok {
		return
	}
	if !c.IsStopTriggered(o.Side(), trigger) {
		return
	}
	o.SetTriggeredPrice(trigger)

	price, hasPrice := o.Price()
	if hasPrice {
		o.SetLiquiditySide(determineLiquiditySide(initial, o.Side(), price, trigger))
	}
	c.triggerStopOrder(o)

	if hasPrice && c.IsLimitMatched(o.Side(), price) {
		o.SetLiquiditySide(Taker)
		c.fillLimitOrder(o)
	}
}

// matchMarketIfTouchedOrder handles MARKET_IF_TOUCHED: once touched it is
// unconditionally a market fill, mirroring matchStopMarketOrder.
func (c *MatchingCore) matchMarketIfTouchedOrder(o Order) {
	trigger, ok := o.TriggerPrice()
	if !ok {
		return
	}
	if !c.IsTouchTriggered(o.Side(), trigger) {
		return
	}
	o.SetTriggeredPrice(trigger)
	c.fillMarketOrder(o)
}

// matchLimitIfTouchedOrder handles LIMIT_IF_TOUCHED. Structurally the
// mirror of matchStopLimitOrder, with one documented asymmetry: on the
// initial sweep (initial=true) the triggered price is deliberately left
// unset. The touch condition may already hold against pre-existing market
// state the instant the order is registered, and the caller reserves the
// right to fix the triggered price externally for that first observation;
// every subsequent call (initial=false) sets it normally.
func (c *MatchingCore) matchLimitIfTouchedOrder(o Order, initial bool) {
	if o.IsTriggered() {
		c.matchLimitOrder(o)
		return
	}
	trigger, ok := o.TriggerPrice()
	if !ok {
		return
	}
	if !c.IsTouchTriggered(o.Side(), trigger) {
		return
	}
	if !initial {
		o.SetTriggeredPrice(trigger)
	}

	price, hasPrice := o.Price()
	if hasPrice {
		o.SetLiquiditySide(determineLiquiditySide(initial, o.Side(), price, trigger))
	}
	c.triggerStopOrder(o)

	if hasPrice && c.IsLimitMatched(o.Side(), price) {
		o.SetLiquiditySide(Taker)
		c.fillLimitOrder(o)
	}
}

// MatchOrder dispatches on the order's type to the matcher that knows how
// to evaluate it. initial distinguishes the first observation of an order
// (right after AddOrder, against whatever market already exists) from
// every later call driven by Iterate. The STOP_LIMIT/TRAILING_STOP_LIMIT
// and LIMIT_IF_TOUCHED matchers pass it to the liquidity-side rule, and
// LIMIT_IF_TOUCHED also leaves the triggered price unset when it is true
// (see matchLimitIfTouchedOrder); the other matchers ignore it.
//
// A plain MARKET order, or any OrderType value outside the eight this
// core knows about, is a programming error at the caller: market orders
// never rest and should never be registered with AddOrder in the first
// place.
func (c *MatchingCore) MatchOrder(o Order, initial bool) error {
	switch o.OrderType() {
	case Limit, MarketToLimit:
		c.matchLimitOrder(o)
	case StopLimit, TrailingStopLimit:
		c.matchStopLimitOrder(o, initial)
	case StopMarket, TrailingStopMarket:
		c.matchStopMarketOrder(o)
	case LimitIfTouched:
		c.matchLimitIfTouchedOrder(o, initial)
	case MarketIfTouched:
		c.matchMarketIfTouchedOrder(o)
	default:
		return ErrInvalidOrderType
	}
	return nil
}
