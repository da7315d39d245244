package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderSortKey_Table(t *testing.T) {
	cases := []struct {
		name string
		o    *testOrder
		want int64
	}{
		{"limit uses price", &testOrder{orderType: Limit, price: px(150)}, 150},
		{"market_to_limit uses price", &testOrder{orderType: MarketToLimit, price: px(151)}, 151},
		{"stop_market uses trigger", &testOrder{orderType: StopMarket, triggerPrice: px(160)}, 160},
		{"market_if_touched uses trigger", &testOrder{orderType: MarketIfTouched, triggerPrice: px(161)}, 161},
		{"trailing_stop_market uses trigger", &testOrder{orderType: TrailingStopMarket, triggerPrice: px(162)}, 162},
		{"stop_limit untriggered uses trigger", &testOrder{orderType: StopLimit, triggerPrice: px(170), price: px(999)}, 170},
		{"stop_limit triggered uses price", &testOrder{orderType: StopLimit, isTriggered: true, triggerPrice: px(170), price: px(171)}, 171},
		{"limit_if_touched untriggered uses trigger", &testOrder{orderType: LimitIfTouched, triggerPrice: px(180), price: px(999)}, 180},
		{"limit_if_touched triggered uses price", &testOrder{orderType: LimitIfTouched, isTriggered: true, triggerPrice: px(180), price: px(181)}, 181},
		{"trailing_stop_limit untriggered uses trigger", &testOrder{orderType: TrailingStopLimit, triggerPrice: px(190), price: px(999)}, 190},
		{"trailing_stop_limit triggered uses price", &testOrder{orderType: TrailingStopLimit, isTriggered: true, triggerPrice: px(190), price: px(191)}, 191},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, orderSortKey(tc.o))
		})
	}
}

func TestOrderSortKey_UnsupportedTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		orderSortKey(&testOrder{orderType: OrderType(123)})
	})
}
