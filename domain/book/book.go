package book

import "fmt"

// Fill is one partial execution step: qty units consumed at price.
type Fill struct {
	Qty   int64
	Price int64
}

// Report summarizes one matching operation. Fills carries the partial
// steps in the order they occurred, so a caller can print one line per
// fill exactly as it happened.
//
// AvgPrice is volume weighted. Market operations divide the notional
// by the requested quantity; limit operations divide by the crossed
// quantity only, so a partially resting limit reports the price of the
// liquidity it actually took. When nothing crossed, AvgPrice is zero.
type Report struct {
	Requested int64
	Filled    int64
	Notional  int64
	AvgPrice  float64
	Fills     []Fill
}

// HasFills reports whether any quantity executed.
func (r Report) HasFills() bool { return r.Filled > 0 }

// Rested returns the quantity left resting on the book by a limit
// instruction, zero for market instructions.
func (r Report) Rested() int64 { return r.Requested - r.Filled }

// averagePrice fails with ErrDivisionUndefined instead of dividing by
// zero, per the documented resolution for resting-only instructions.
func averagePrice(notional, qty int64) (float64, error) {
	if qty == 0 {
		return 0, ErrDivisionUndefined
	}
	return float64(notional) / float64(qty), nil
}

// Book owns exactly one bid side and one ask side and is the only
// mutation path into either. It is created empty, optionally seeded
// with limit instructions, and lives for the process lifetime.
type Book struct {
	bids *BookSide
	asks *BookSide
}

func New() *Book {
	return &Book{
		bids: NewBookSide(Bid),
		asks: NewBookSide(Ask),
	}
}

// MarketBuy consumes the ask side until qty is filled. On exhaustion it
// returns the partial report together with ErrInsufficientLiquidity;
// fills already applied stay on the book.
func (b *Book) MarketBuy(qty int64) (Report, error) {
	return b.market(Bid, qty)
}

// MarketSell consumes the bid side until qty is filled, with the same
// partial-failure behavior as MarketBuy.
func (b *Book) MarketSell(qty int64) (Report, error) {
	return b.market(Ask, qty)
}

// LimitBuy crosses the ask side while the best ask is at or below
// price, then rests any remainder as a new bid order at price. A limit
// instruction never fails; the returned error is always nil.
func (b *Book) LimitBuy(qty, price int64) (Report, error) {
	return b.limit(Bid, qty, price), nil
}

// LimitSell crosses the bid side while the best bid is at or above
// price, then rests any remainder as a new ask order at price.
func (b *Book) LimitSell(qty, price int64) (Report, error) {
	return b.limit(Ask, qty, price), nil
}

func (b *Book) sideOf(s Side) *BookSide {
	if s == Bid {
		return b.bids
	}
	return b.asks
}

func (b *Book) opposing(taker Side) *BookSide {
	if taker == Bid {
		return b.asks
	}
	return b.bids
}

// crosses reports whether a limit taker may trade against a resting
// level at restPrice.
func crosses(taker Side, restPrice, limitPrice int64) bool {
	if taker == Bid {
		return restPrice <= limitPrice
	}
	return restPrice >= limitPrice
}

func (b *Book) market(taker Side, qty int64) (Report, error) {
	rep := Report{Requested: qty}
	opp := b.opposing(taker)

	remaining := qty
	for remaining > 0 {
		lvl, err := opp.TakeBest()
		if err != nil {
			// Opposing side exhausted mid-fill. The book keeps the
			// fills applied so far; only the shortfall is reported.
			rep.AvgPrice, _ = averagePrice(rep.Notional, rep.Requested)
			return rep, fmt.Errorf("market %s for %d: %w", taker, qty, ErrInsufficientLiquidity)
		}
		remaining -= b.consume(&rep, opp, lvl, remaining)
	}

	avg, err := averagePrice(rep.Notional, rep.Requested)
	if err != nil {
		return rep, err
	}
	rep.AvgPrice = avg
	return rep, nil
}

func (b *Book) limit(taker Side, qty, price int64) Report {
	rep := Report{Requested: qty}
	opp := b.opposing(taker)

	remaining := qty
	for remaining > 0 {
		best, err := opp.Best()
		if err != nil || !crosses(taker, best.Price, price) {
			// Nothing left to cross. Rest the whole remainder as one
			// order at the limit price; remaining > 0 here by loop
			// construction, so this never rests a zero-size order.
			b.sideOf(taker).Add(price, remaining)
			break
		}
		lvl, _ := opp.TakeBest()
		remaining -= b.consume(&rep, opp, lvl, remaining)
	}

	// Average over the crossed quantity only. A fully resting
	// instruction reports zero filled and no average.
	if avg, err := averagePrice(rep.Notional, rep.Filled); err == nil {
		rep.AvgPrice = avg
	}
	return rep
}

// consume drains up to remaining units from the front of lvl, records
// the fill, and puts the level back unless it drained completely.
// Returns the quantity taken.
func (b *Book) consume(rep *Report, opp *BookSide, lvl *PriceLevel, remaining int64) int64 {
	take := lvl.OpenQty()
	if take > remaining {
		take = remaining
	}
	lvl.DrainFront(take)

	rep.Filled += take
	rep.Notional += take * lvl.Price
	rep.Fills = append(rep.Fills, Fill{Qty: take, Price: lvl.Price})

	if lvl.OpenQty() > 0 {
		opp.PutBack(lvl)
	}
	return take
}
