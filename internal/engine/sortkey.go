package engine

// orderSortKey maps an order to the integer its side list is ordered by.
// Bid lists sort descending by this key (most aggressive, i.e. highest,
// first); ask lists sort ascending (most aggressive, i.e. lowest, first).
// Ties are broken by arrival sequence — see sideIndex.less in orderbook.go — so
// that ordering stays deterministic without requiring the caller to
// supply a stable sort.
func orderSortKey(o Order) int64 {
	switch o.OrderType() {
	case Limit, MarketToLimit:
		price, _ := o.Price()
		return price.Raw
	case StopMarket, MarketIfTouched, TrailingStopMarket:
		trigger, _ := o.TriggerPrice()
		return trigger.Raw
	case StopLimit, LimitIfTouched, TrailingStopLimit:
		if o.IsTriggered() {
			price, _ := o.Price()
			return price.Raw
		}
		trigger, _ := o.TriggerPrice()
		return trigger.Raw
	default:
		// Any OrderType outside the eight above is a programming error.
		// AddOrder does not check the type itself, so adding such an
		// order panics here when its side is re-sorted.
		panic("matchcore: orderSortKey called with unsupported order type")
	}
}
