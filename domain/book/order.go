package book

// Side identifies the half of the book an order belongs to.
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// Opposite returns the side an incoming instruction matches against.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// Order is a resting limit order inside a price level's FIFO queue.
// Orders exist only for the unmatched remainder of limit instructions;
// market instructions and the crossed portion of limit instructions
// never materialize as orders.
//
// Invariant: 0 <= Filled <= Size. A fully filled order is unlinked
// from its queue immediately.
type Order struct {
	Side   Side
	Size   int64
	Filled int64
	Price  int64

	next *Order
	prev *Order
}

// Open returns the unfilled remainder of the order.
func (o *Order) Open() int64 { return o.Size - o.Filled }

// Next returns the order behind this one in its queue, nil at the tail.
func (o *Order) Next() *Order { return o.next }
