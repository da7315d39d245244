package engine

// IsLimitMatched reports whether a resting limit at price would trade
// against the current top of book. A BUY matches when the ask has come
// down to or through the limit; a SELL matches when the bid has come up
// to or through it. Returns false whenever the relevant opposite side is
// uninitialized — a predicate never fires against a market that has not
// been observed yet.
func (c *MatchingCore) IsLimitMatched(side Side, price Price) bool {
	switch side {
	case Buy:
		if !c.askInitialized {
			return false
		}
		return c.askRaw <= price.Raw
	case Sell:
		if !c.bidInitialized {
			return false
		}
		return c.bidRaw >= price.Raw
	default:
		panic("matchcore: IsLimitMatched called with invalid side")
	}
}

// IsStopTriggered reports whether a stop at trigger has activated. A BUY
// stop fires when the market rises up into it (the ask lifts to or past
// the trigger); a SELL stop fires when the market falls down into it (the
// bid drops to or past the trigger).
func (c *MatchingCore) IsStopTriggered(side Side, trigger Price) bool {
	switch side {
	case Buy:
		if !c.askInitialized {
			return false
		}
		return c.askRaw >= trigger.Raw
	case Sell:
		if !c.bidInitialized {
			return false
		}
		return c.bidRaw <= trigger.Raw
	default:
		panic("matchcore: IsStopTriggered called with invalid side")
	}
}

// IsTouchTriggered reports whether an if-touched order has activated. It
// is the mirror of IsStopTriggered: a BUY if-touched fires when the
// market falls down to its trigger (the ask drops to or below it); a
// SELL if-touched fires when the market rises up to its trigger.
func (c *MatchingCore) IsTouchTriggered(side Side, trigger Price) bool {
	switch side {
	case Buy:
		if !c.askInitialized {
			return false
		}
		return c.askRaw <= trigger.Raw
	case Sell:
		if !c.bidInitialized {
			return false
		}
		return c.bidRaw >= trigger.Raw
	default:
		panic("matchcore: IsTouchTriggered called with invalid side")
	}
}

// determineLiquiditySide decides MAKER vs TAKER for a conditional order at
// the instant it triggers.
//
//   - initial=true: the order arrived already in range (e.g. re-submitted
//     against a market that already satisfies it) and crosses on arrival,
//     so it is always TAKER.
//   - otherwise, a BUY whose trigger sits above its limit price, or a
//     SELL whose trigger sits below its limit, rests passively through
//     the trigger and is MAKER.
//   - any other case is TAKER.
func determineLiquiditySide(initial bool, side Side, price, trigger Price) LiquiditySide {
	if initial {
		return Taker
	}
	switch side {
	case Buy:
		if trigger.Raw > price.Raw {
			return Maker
		}
	case Sell:
		if trigger.Raw < price.Raw {
			return Maker
		}
	default:
		panic("matchcore: determineLiquiditySide called with invalid side")
	}
	return Taker
}
