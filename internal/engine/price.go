package engine

import "github.com/shopspring/decimal"

// Instrument is the immutable metadata the core needs about the market it
// matches. Everything else about an instrument (tick size, lot size,
// tradable hours, ...) lives with the venue, not the core.
type Instrument interface {
	PricePrecision() uint32
}

// Price is a fixed-point decimal: a raw scaled integer plus the precision
// it was scaled with. All matching comparisons are performed on Raw only;
// two prices of the same instrument are therefore comparable by plain
// integer compare, and no floating point participates in the hot path.
type Price struct {
	Raw       int64
	Precision uint32
}

// NewPrice scales a float64 by the instrument's precision. This is a
// convenience for callers building orders from decimal user input; the
// core never calls it.
func NewPrice(value float64, precision uint32) Price {
	scaled := decimal.NewFromFloat(value).Shift(int32(precision))
	return Price{Raw: scaled.Round(0).IntPart(), Precision: precision}
}

// Decimal renders the price as a human-readable decimal.Decimal. Display
// only; never consulted by a predicate or matcher.
func (p Price) Decimal() decimal.Decimal {
	return decimal.New(p.Raw, -int32(p.Precision))
}

func (p Price) String() string {
	return p.Decimal().String()
}
