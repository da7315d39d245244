package engine

// AssetType identifies the broad instrument class an order trades. The
// core itself is asset-agnostic; the tag exists for the venue layer that
// owns one MatchingCore per ticker.
type AssetType int

const (
	Equities AssetType = iota
)

// Side is the direction of an order or a quoted market price.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// OrderType enumerates every order family the core matches. MARKET is
// deliberately absent: a plain market order never rests on a side, it
// either fills on arrival or is rejected before it ever reaches the core.
type OrderType int

const (
	// Limit orders rest until the opposite touch trades through their
	// price.
	Limit OrderType = iota
	// MarketToLimit arrives as a marketable order but is represented
	// in the book as a limit once any unfilled remainder rests.
	MarketToLimit
	// StopMarket converts to a market order once the market trades
	// through its trigger price.
	StopMarket
	// StopLimit activates into a limit order once triggered.
	StopLimit
	// MarketIfTouched converts to a market order once the market
	// trades down (for a buy) or up (for a sell) to its trigger.
	MarketIfTouched
	// LimitIfTouched activates into a limit order once touched.
	LimitIfTouched
	// TrailingStopMarket behaves as StopMarket for matching purposes;
	// trigger-price trailing is an external concern.
	TrailingStopMarket
	// TrailingStopLimit behaves as StopLimit for matching purposes;
	// trigger-price trailing is an external concern.
	TrailingStopLimit
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "LIMIT"
	case MarketToLimit:
		return "MARKET_TO_LIMIT"
	case StopMarket:
		return "STOP_MARKET"
	case StopLimit:
		return "STOP_LIMIT"
	case MarketIfTouched:
		return "MARKET_IF_TOUCHED"
	case LimitIfTouched:
		return "LIMIT_IF_TOUCHED"
	case TrailingStopMarket:
		return "TRAILING_STOP_MARKET"
	case TrailingStopLimit:
		return "TRAILING_STOP_LIMIT"
	default:
		return "UNKNOWN"
	}
}

// LiquiditySide records whether a fill rested (MAKER) or crossed the book
// on arrival (TAKER).
type LiquiditySide int

const (
	NoLiquiditySide LiquiditySide = iota
	Maker
	Taker
)

func (l LiquiditySide) String() string {
	switch l {
	case Maker:
		return "MAKER"
	case Taker:
		return "TAKER"
	default:
		return "NONE"
	}
}
