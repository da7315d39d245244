package common

import (
	"fmt"
	"time"

	"matchcore/internal/engine"
)

// Trade reports one order's fill. The matching core never pairs two
// orders together itself, so a Trade here always names the filled order
// and, when the venue can identify one, the resting counterparty that
// crossed with it; otherwise Counterparty is the synthetic "MARKET"
// participant a fill against the quoted top-of-book is attributed to.
type Trade struct {
	OrderID      string
	Owner        string
	Counterparty string
	AssetType    engine.AssetType
	Ticker       string
	Side         engine.Side
	LiquiditySide engine.LiquiditySide
	Price        engine.Price
	Quantity     uint64
	Timestamp    time.Time
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{order=%s owner=%s counterparty=%s ticker=%s side=%s liquidity=%s price=%s qty=%d at=%s}",
		t.OrderID, t.Owner, t.Counterparty, t.Ticker, t.Side, t.LiquiditySide, t.Price,
		t.Quantity, t.Timestamp.Format(time.RFC3339),
	)
}
