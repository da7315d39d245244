package engine

// Order is the external, mutable working order the core matches against.
// The core owns no Order value: it is handed a reference by AddOrder and
// only ever observes or mutates the fields documented here. Identity,
// quantity, account, and every other attribute belong to the venue that
// constructs the concrete type satisfying this interface.
type Order interface {
	// ClientOrderID uniquely identifies the order for the lifetime it is
	// known to this core.
	ClientOrderID() string

	// Side is immutable for the order's lifetime.
	Side() Side

	// OrderType is immutable for the order's lifetime.
	OrderType() OrderType

	// Price returns the limit price and whether one is set. Present for
	// every limit-bearing type (LIMIT, MARKET_TO_LIMIT, and the *_LIMIT
	// conditional types once triggered or on arrival).
	Price() (Price, bool)

	// TriggerPrice returns the activation threshold and whether one is
	// set. Present for every stop/touch type.
	TriggerPrice() (Price, bool)

	// IsTriggered reports a conditional order's activation flag. Always
	// false for LIMIT and MARKET_TO_LIMIT.
	IsTriggered() bool

	// SetTriggeredPrice records the price the order activated at. Callers
	// implementing trigger_stop_order are expected to also flip
	// IsTriggered to true as a side effect of handling the callback; the
	// core does not do this itself (see match_stop_limit_order /
	// match_limit_if_touched_order in matchers.go).
	SetTriggeredPrice(Price)

	// LiquiditySide reports the maker/taker classification the core last
	// assigned.
	LiquiditySide() LiquiditySide

	// SetLiquiditySide is called by the core immediately before a fill or
	// trigger callback that depends on the classification.
	SetLiquiditySide(LiquiditySide)

	// IsClosed reports whether the order is terminal (filled, cancelled,
	// rejected) and should be skipped by Iterate.
	IsClosed() bool
}
