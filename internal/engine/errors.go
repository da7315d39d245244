package engine

import "errors"

// ErrInvalidEnum signals that an unreachable branch of an enum dispatch
// was taken: an unknown Side or OrderType. This is a programming-error
// class, not a runtime condition — the operation is abandoned before any
// state is mutated.
var ErrInvalidEnum = errors.New("matchcore: invalid enum value")

// ErrInvalidOrderType signals that MatchOrder was called with an order
// type the core has no matcher for: any OrderType value outside the eight
// the core defines.
var ErrInvalidOrderType = errors.New("matchcore: invalid order type for matching")

// ErrInvalidSide signals that AddOrder was called with an order whose
// Side is neither Buy nor Sell.
var ErrInvalidSide = errors.New("matchcore: invalid order side")
