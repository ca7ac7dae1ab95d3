package book

import "errors"

// Error kinds surfaced by the matching core. They are ordinary result
// values; nothing in this package terminates the process on them.
var (
	// ErrEmptyBookSide reports a best-level or spread query against a
	// side with no resting levels.
	ErrEmptyBookSide = errors.New("book side has no resting levels")

	// ErrInsufficientLiquidity reports a market instruction whose
	// remainder could not be filled. Fills applied before exhaustion
	// remain in effect.
	ErrInsufficientLiquidity = errors.New("insufficient resting liquidity")

	// ErrDivisionUndefined reports an average price over zero quantity.
	ErrDivisionUndefined = errors.New("average price undefined for zero quantity")
)

// BookSide is the ordered collection of price levels for one half of
// the book. Bids treat the highest price as best, asks the lowest.
// Only levels with open quantity exist; a drained level is removed
// rather than kept at zero.
type BookSide struct {
	side Side
	tree *levelTree
}

func NewBookSide(side Side) *BookSide {
	return &BookSide{side: side, tree: newLevelTree()}
}

// Side returns which half of the book this is.
func (s *BookSide) Side() Side { return s.side }

// Depth returns the number of populated price levels.
func (s *BookSide) Depth() int { return s.tree.len() }

// Best peeks at the highest-priority level without removing it.
func (s *BookSide) Best() (*PriceLevel, error) {
	var lvl *PriceLevel
	if s.side == Bid {
		lvl = s.tree.max()
	} else {
		lvl = s.tree.min()
	}
	if lvl == nil {
		return nil, ErrEmptyBookSide
	}
	return lvl, nil
}

// TakeBest removes and returns the highest-priority level.
func (s *BookSide) TakeBest() (*PriceLevel, error) {
	var lvl *PriceLevel
	if s.side == Bid {
		lvl = s.tree.takeMax()
	} else {
		lvl = s.tree.takeMin()
	}
	if lvl == nil {
		return nil, ErrEmptyBookSide
	}
	return lvl, nil
}

// PutBack re-inserts a level removed by TakeBest after partial
// consumption. A drained level is dropped, never put back.
func (s *BookSide) PutBack(lvl *PriceLevel) {
	if lvl.OpenQty() == 0 {
		panic("book: put back of drained level")
	}
	s.tree.attach(lvl)
}

// AppendOrder pushes an order onto the tail of the queue at price,
// creating the level if absent.
func (s *BookSide) AppendOrder(price int64, o *Order) {
	s.tree.getOrCreate(price).enqueue(o)
}

// Add rests a new order of the given size at price. This is how a
// limit instruction's unmatched remainder enters the book.
func (s *BookSide) Add(price, qty int64) {
	s.AppendOrder(price, &Order{Side: s.side, Size: qty, Price: price})
}

// WalkBest visits levels best-to-worst until fn returns false.
func (s *BookSide) WalkBest(fn func(*PriceLevel) bool) {
	if s.side == Bid {
		s.tree.descend(fn)
	} else {
		s.tree.ascend(fn)
	}
}

// TotalOpen returns the side's aggregate open quantity across levels.
func (s *BookSide) TotalOpen() int64 {
	var total int64
	s.tree.ascend(func(lvl *PriceLevel) bool {
		total += lvl.OpenQty()
		return true
	})
	return total
}
