package venue

import "errors"

var (
	// ErrUnknownTicker is returned for any operation naming a ticker the
	// venue has no MatchingCore registered for.
	ErrUnknownTicker = errors.New("venue: unknown ticker")
	// ErrUnknownOrder is returned when cancelling an order id the venue
	// is not currently tracking.
	ErrUnknownOrder = errors.New("venue: unknown order")
	// ErrAlreadyRegistered is returned by Register for a ticker that
	// already has a running instrument actor.
	ErrAlreadyRegistered = errors.New("venue: ticker already registered")
)
