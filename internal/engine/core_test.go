package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddOrder_RejectsInvalidSide(t *testing.T) {
	sinks := &recordingSinks{}
	core := newTestCore(sinks)
	order := &testOrder{id: "bad", side: Side(7), orderType: Limit, price: px(100)}
	err := core.AddOrder(order)
	assert.ErrorIs(t, err, ErrInvalidSide)
	assert.False(t, core.OrderExists("bad"))
}

func TestOrderExists_MatchesGetOrder(t *testing.T) {
	sinks := &recordingSinks{}
	core := newTestCore(sinks)
	order := &testOrder{id: "o1", side: Buy, orderType: Limit, price: px(100)}
	assert.NoError(t, core.AddOrder(order))

	assert.True(t, core.OrderExists("o1"))
	got, ok := core.GetOrder("o1")
	assert.True(t, ok)
	assert.Equal(t, order, got)

	assert.False(t, core.OrderExists("missing"))
	_, ok = core.GetOrder("missing")
	assert.False(t, ok)
}

func TestDeleteOrder_Idempotent(t *testing.T) {
	sinks := &recordingSinks{}
	core := newTestCore(sinks)
	order := &testOrder{id: "o1", side: Buy, orderType: Limit, price: px(100)}
	assert.NoError(t, core.AddOrder(order))

	core.DeleteOrder(order)
	assert.False(t, core.OrderExists("o1"))
	assert.Empty(t, core.GetOrdersBid())

	// Second delete is a no-op, not an error.
	core.DeleteOrder(order)
	assert.False(t, core.OrderExists("o1"))
}

func TestSideLists_PartitionAndSortOrder(t *testing.T) {
	sinks := &recordingSinks{}
	core := newTestCore(sinks)

	buys := []*testOrder{
		{id: "b1", side: Buy, orderType: Limit, price: px(100)},
		{id: "b2", side: Buy, orderType: Limit, price: px(300)},
		{id: "b3", side: Buy, orderType: Limit, price: px(200)},
	}
	sells := []*testOrder{
		{id: "s1", side: Sell, orderType: Limit, price: px(500)},
		{id: "s2", side: Sell, orderType: Limit, price: px(300)},
		{id: "s3", side: Sell, orderType: Limit, price: px(400)},
	}
	for _, o := range buys {
		assert.NoError(t, core.AddOrder(o))
	}
	for _, o := range sells {
		assert.NoError(t, core.AddOrder(o))
	}

	bidIDs := orderIDs(core.GetOrdersBid())
	assert.Equal(t, []string{"b2", "b3", "b1"}, bidIDs, "bids sorted descending by price")

	askIDs := orderIDs(core.GetOrdersAsk())
	assert.Equal(t, []string{"s2", "s3", "s1"}, askIDs, "asks sorted ascending by price")

	for _, o := range core.GetOrdersBid() {
		assert.Equal(t, Buy, o.Side())
	}
	for _, o := range core.GetOrdersAsk() {
		assert.Equal(t, Sell, o.Side())
	}

	all := core.GetOrders()
	assert.Len(t, all, 6)
	assert.Equal(t, bidIDs, orderIDs(all[:3]))
	assert.Equal(t, askIDs, orderIDs(all[3:]))
}

func TestSideList_ResortsWhenTriggeredFlagFlips(t *testing.T) {
	sinks := &recordingSinks{}
	core := newTestCore(sinks)

	// Before triggering, sort key is trigger_price (500); after, it's
	// price (100). Re-adding after the flag flips should move it.
	o := &testOrder{id: "sl1", side: Buy, orderType: StopLimit, triggerPrice: px(500), price: px(100)}
	other := &testOrder{id: "sl2", side: Buy, orderType: Limit, price: px(300)}
	assert.NoError(t, core.AddOrder(o))
	assert.NoError(t, core.AddOrder(other))

	assert.Equal(t, []string{"sl1", "sl2"}, orderIDs(core.GetOrdersBid()))

	o.isTriggered = true
	assert.NoError(t, core.AddOrder(o)) // re-add forces a re-sort with the new key

	assert.Equal(t, []string{"sl2", "sl1"}, orderIDs(core.GetOrdersBid()))
}

func TestReset_ClearsEverything(t *testing.T) {
	sinks := &recordingSinks{}
	core := newTestCore(sinks)
	core.SetBidRaw(100)
	core.SetAskRaw(200)
	core.SetLastRaw(150)
	assert.NoError(t, core.AddOrder(&testOrder{id: "o1", side: Buy, orderType: Limit, price: px(100)}))
	assert.NoError(t, core.AddOrder(&testOrder{id: "o2", side: Sell, orderType: Limit, price: px(200)}))

	core.Reset()

	_, ok := core.Bid()
	assert.False(t, ok)
	_, ok = core.Ask()
	assert.False(t, ok)
	_, ok = core.Last()
	assert.False(t, ok)
	assert.Empty(t, core.GetOrders())
	assert.Empty(t, core.GetOrdersBid())
	assert.Empty(t, core.GetOrdersAsk())
	assert.False(t, core.OrderExists("o1"))
}

func TestBidAskLast_UninitializedUntilSet(t *testing.T) {
	sinks := &recordingSinks{}
	core := newTestCore(sinks)

	_, ok := core.Bid()
	assert.False(t, ok)

	core.SetBidRaw(0) // zero is a valid tradable price, distinct from unset
	p, ok := core.Bid()
	assert.True(t, ok)
	assert.Equal(t, int64(0), p.Raw)
}

func orderIDs(orders []Order) []string {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ClientOrderID()
	}
	return ids
}
