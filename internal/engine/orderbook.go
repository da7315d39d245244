package engine

import "github.com/tidwall/btree"

// indexEntry is what a sideIndex actually stores in its tree: the order
// plus the sort key it was given at the last rebuild and the sequence
// number it arrived in, used only to break ties deterministically.
type indexEntry struct {
	order Order
	key   int64
	seq   uint64
}

// sideIndex is one side (bid or ask) of a MatchingCore's working set,
// backed by a btree.BTreeG keyed on order_sort_key rather than plain
// price, generalized from "one entry per price level, orders appended
// underneath" to "one entry per order", because the priority table in
// sortkey.go depends on per-order fields (is_triggered) that a
// price-level aggregation would hide.
//
// A mutation re-sorts the whole side: since an order's sort key can
// change out from under it (a STOP_LIMIT's key switches from
// trigger_price to price the moment it triggers), the tree is rebuilt
// from the current order set on every add/remove rather than patched in
// place.
type sideIndex struct {
	desc    bool
	tree    *btree.BTreeG[*indexEntry]
	orders  map[string]Order
	seqOf   map[string]uint64
	seqNext uint64
}

func newSideIndex(desc bool) *sideIndex {
	s := &sideIndex{
		desc:   desc,
		orders: make(map[string]Order),
		seqOf:  make(map[string]uint64),
	}
	s.tree = btree.NewBTreeG(s.less)
	return s
}

func (s *sideIndex) less(a, b *indexEntry) bool {
	if a.key != b.key {
		if s.desc {
			return a.key > b.key
		}
		return a.key < b.key
	}
	return a.seq < b.seq
}

// add inserts or replaces the order and re-sorts the side.
func (s *sideIndex) add(o Order) {
	id := o.ClientOrderID()
	if _, exists := s.orders[id]; !exists {
		s.seqOf[id] = s.seqNext
		s.seqNext++
	}
	s.orders[id] = o
	s.rebuild()
}

// remove deletes the order if present and re-sorts the side. No-op if
// absent, so callers get idempotent delete for free.
func (s *sideIndex) remove(id string) {
	if _, ok := s.orders[id]; !ok {
		return
	}
	delete(s.orders, id)
	delete(s.seqOf, id)
	s.rebuild()
}

func (s *sideIndex) get(id string) (Order, bool) {
	o, ok := s.orders[id]
	return o, ok
}

func (s *sideIndex) len() int {
	return len(s.orders)
}

// items returns the side in priority order: descending by key for bids,
// ascending for asks, ties broken by arrival sequence.
func (s *sideIndex) items() []Order {
	out := make([]Order, 0, s.tree.Len())
	s.tree.Scan(func(e *indexEntry) bool {
		out = append(out, e.order)
		return true
	})
	return out
}

func (s *sideIndex) reset() {
	s.orders = make(map[string]Order)
	s.seqOf = make(map[string]uint64)
	s.seqNext = 0
	s.tree = btree.NewBTreeG(s.less)
}

func (s *sideIndex) rebuild() {
	tree := btree.NewBTreeG(s.less)
	for id, o := range s.orders {
		tree.Set(&indexEntry{order: o, key: orderSortKey(o), seq: s.seqOf[id]})
	}
	s.tree = tree
}
