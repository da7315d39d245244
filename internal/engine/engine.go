package engine

// MatchingCore is the per-instrument matching engine. It owns the working
// orders for one instrument's top-of-book and decides, on every price
// update or order admission, whether a resting order should trigger or
// fill. It knows nothing about venues, accounts, positions, or P&L: those
// effects are delegated entirely to the three callbacks supplied at
// construction.
//
// A MatchingCore is single-owner: it is driven synchronously by exactly
// one actor (an exchange simulator or live execution adapter) and is
// never entered re-entrantly from another goroutine. Two instances for
// different instruments share no state and can be driven in parallel by
// separate owners without synchronization.
type MatchingCore struct {
	instrument Instrument

	triggerStopOrder func(Order)
	fillMarketOrder  func(Order)
	fillLimitOrder   func(Order)

	bidRaw, askRaw, lastRaw                      int64
	bidInitialized, askInitialized, lastInitialized bool

	orders map[string]Order
	bid    *sideIndex
	ask    *sideIndex
}

// New constructs a MatchingCore for instrument. All three callbacks are
// required: triggerStopOrder fires when a conditional order activates
// (expected to set the order's triggered flag as a side effect),
// fillMarketOrder and fillLimitOrder effect market- and limit-style
// fills respectively. The core calls each synchronously and does not
// catch anything they raise.
func New(instrument Instrument, triggerStopOrder, fillMarketOrder, fillLimitOrder func(Order)) *MatchingCore {
	return &MatchingCore{
		instrument:       instrument,
		triggerStopOrder: triggerStopOrder,
		fillMarketOrder:  fillMarketOrder,
		fillLimitOrder:   fillLimitOrder,
		orders:           make(map[string]Order),
		bid:              newSideIndex(true),
		ask:              newSideIndex(false),
	}
}

// Instrument returns the instrument this core was constructed for.
func (c *MatchingCore) Instrument() Instrument {
	return c.instrument
}

// --- Price state -----------------------------------------------------------

// SetBidRaw stores the raw bid price and marks the bid side initialized.
// No validation of v is performed.
func (c *MatchingCore) SetBidRaw(v int64) {
	c.bidRaw = v
	c.bidInitialized = true
}

// SetAskRaw stores the raw ask price and marks the ask side initialized.
func (c *MatchingCore) SetAskRaw(v int64) {
	c.askRaw = v
	c.askInitialized = true
}

// SetLastRaw stores the raw last-traded price. Retained for callers and
// future predicates; no current matcher consults it.
func (c *MatchingCore) SetLastRaw(v int64) {
	c.lastRaw = v
	c.lastInitialized = true
}

// Bid returns the current bid price, or false if the bid side has never
// been published. A raw value of zero with initialized=false means "no
// market yet", distinct from a genuinely zero tradable price.
func (c *MatchingCore) Bid() (Price, bool) {
	if !c.bidInitialized {
		return Price{}, false
	}
	return Price{Raw: c.bidRaw, Precision: c.instrument.PricePrecision()}, true
}

// Ask returns the current ask price, or false if the ask side has never
// been published.
func (c *MatchingCore) Ask() (Price, bool) {
	if !c.askInitialized {
		return Price{}, false
	}
	return Price{Raw: c.askRaw, Precision: c.instrument.PricePrecision()}, true
}

// Last returns the most recent traded price, or false if none has ever
// been published.
func (c *MatchingCore) Last() (Price, bool) {
	if !c.lastInitialized {
		return Price{}, false
	}
	return Price{Raw: c.lastRaw, Precision: c.instrument.PricePrecision()}, true
}

// Reset zeroes all prices, clears all initialized flags, and empties both
// side indexes. The core returns to the state New produced it in, save
// for retaining its instrument and callbacks.
func (c *MatchingCore) Reset() {
	c.bidRaw, c.askRaw, c.lastRaw = 0, 0, 0
	c.bidInitialized, c.askInitialized, c.lastInitialized = false, false, false
	c.orders = make(map[string]Order)
	c.bid.reset()
	c.ask.reset()
}

// --- Order index & priority lists ------------------------------------------

// AddOrder registers a working order, placing it on the side list
// matching its Side and re-sorting that list by order_sort_key.
func (c *MatchingCore) AddOrder(o Order) error {
	switch o.Side() {
	case Buy:
		c.orders[o.ClientOrderID()] = o
		c.bid.add(o)
	case Sell:
		c.orders[o.ClientOrderID()] = o
		c.ask.add(o)
	default:
		return ErrInvalidSide
	}
	return nil
}

// DeleteOrder removes a working order from the index and its side list.
// Idempotent: a no-op if the order is not currently tracked.
func (c *MatchingCore) DeleteOrder(o Order) {
	id := o.ClientOrderID()
	delete(c.orders, id)
	c.bid.remove(id)
	c.ask.remove(id)
}

// GetOrder looks up a working order by client order id.
func (c *MatchingCore) GetOrder(id string) (Order, bool) {
	o, ok := c.orders[id]
	return o, ok
}

// OrderExists reports whether id is currently a tracked working order.
func (c *MatchingCore) OrderExists(id string) bool {
	_, ok := c.orders[id]
	return ok
}

// GetOrders returns the concatenation of the bid and ask side lists, bid
// first. It is not globally sorted across sides.
func (c *MatchingCore) GetOrders() []Order {
	bids := c.bid.items()
	asks := c.ask.items()
	out := make([]Order, 0, len(bids)+len(asks))
	out = append(out, bids...)
	out = append(out, asks...)
	return out
}

// GetOrdersBid returns the bid side list, sorted descending by
// order_sort_key.
func (c *MatchingCore) GetOrdersBid() []Order {
	return c.bid.items()
}

// GetOrdersAsk returns the ask side list, sorted ascending by
// order_sort_key.
func (c *MatchingCore) GetOrdersAsk() []Order {
	return c.ask.items()
}

// --- Iteration ---------------------------------------------------------

// Iterate sweeps every working order against the current market: bids
// first in descending priority order, then asks in ascending priority
// order. timestampNs is passed through for callback use only; the core
// itself never consults wall-clock time.
//
// The sweep operates on a snapshot taken at entry: copying both side
// lists into a local slice before calling a single callback means a
// callback that adds or deletes orders — even the very order being
// matched — cannot change which orders this pass walks or in what
// order. Orders closed before their turn in the
// snapshot are skipped; orders added mid-sweep are picked up by the next
// Iterate call, not this one.
func (c *MatchingCore) Iterate(timestampNs int64) error {
	_ = timestampNs
	snapshot := c.GetOrders()
	for _, o := range snapshot {
		if o.IsClosed() {
			continue
		}
		if err := c.MatchOrder(o, false); err != nil {
			return err
		}
	}
	return nil
}
