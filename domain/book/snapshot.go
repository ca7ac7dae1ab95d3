package book

// LevelSnapshot is a read-only copy of one price level: its aggregate
// open quantity and the open size of each resting order in queue order.
type LevelSnapshot struct {
	Price   int64
	OpenQty int64
	Orders  []int64
}

// TopLevels returns up to n levels of the given side, best to worst.
// The result shares no state with the book; calling it twice without
// an intervening mutation yields identical results.
func (b *Book) TopLevels(side Side, n int) []LevelSnapshot {
	s := b.sideOf(side)
	out := make([]LevelSnapshot, 0, n)
	s.WalkBest(func(lvl *PriceLevel) bool {
		if len(out) == n {
			return false
		}
		out = append(out, LevelSnapshot{
			Price:   lvl.Price,
			OpenQty: lvl.OpenQty(),
			Orders:  lvl.OrderSizes(),
		})
		return true
	})
	return out
}

// Depth returns the number of populated price levels on side.
func (b *Book) Depth(side Side) int { return b.sideOf(side).Depth() }

// OpenQty returns the aggregate open quantity resting on side.
func (b *Book) OpenQty(side Side) int64 { return b.sideOf(side).TotalOpen() }

// SpreadBps returns the bid/ask spread in basis points,
// 100 * (bestAsk/bestBid - 1). A one-sided book fails with
// ErrEmptyBookSide; this is a reporting failure only.
func (b *Book) SpreadBps() (float64, error) {
	bestBid, err := b.bids.Best()
	if err != nil {
		return 0, err
	}
	bestAsk, err := b.asks.Best()
	if err != nil {
		return 0, err
	}
	return 100 * (float64(bestAsk.Price)/float64(bestBid.Price) - 1), nil
}
