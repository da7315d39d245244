package venue

import "matchcore/internal/engine"

// Instrument is the minimal engine.Instrument implementation: just the
// fixed-point precision prices are quoted at. Venues with richer
// reference data (tick size, lot size, trading calendar) can supply their
// own engine.Instrument implementation instead — the core only ever asks
// for PricePrecision.
type Instrument struct {
	Precision uint32
}

func (i Instrument) PricePrecision() uint32 { return i.Precision }

var _ engine.Instrument = Instrument{}
