package book

// PriceLevel is one price's aggregate open quantity together with the
// FIFO queue of resting orders at that price. Queue order is arrival
// order; the head is matched first.
//
// Invariant: openQty == sum of Open() over the queue, and a level with
// openQty == 0 is never present in a BookSide.
type PriceLevel struct {
	Price   int64
	openQty int64
	head    *Order
	tail    *Order
	count   int
}

// OpenQty returns the aggregate unfilled quantity at this price.
func (l *PriceLevel) OpenQty() int64 { return l.openQty }

// Len returns the number of resting orders in the queue.
func (l *PriceLevel) Len() int { return l.count }

// Head returns the oldest resting order, nil when the queue is empty.
func (l *PriceLevel) Head() *Order { return l.head }

func (l *PriceLevel) enqueue(o *Order) {
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	l.openQty += o.Open()
	l.count++
}

func (l *PriceLevel) unlinkHead() {
	o := l.head
	l.head = o.next
	if l.head != nil {
		l.head.prev = nil
	} else {
		l.tail = nil
	}
	o.next = nil
	l.count--
}

// DrainFront consumes qty units from the front of the queue, marking
// orders filled in arrival order and unlinking the fully filled ones.
// qty must not exceed OpenQty.
func (l *PriceLevel) DrainFront(qty int64) {
	if qty > l.openQty {
		panic("book: drain exceeds level open quantity")
	}
	l.openQty -= qty
	for qty > 0 {
		o := l.head
		take := o.Open()
		if take > qty {
			take = qty
		}
		o.Filled += take
		qty -= take
		if o.Open() == 0 {
			l.unlinkHead()
		}
	}
}

// OrderSizes returns the open size of every resting order in queue
// order. The slice is a copy; mutating it does not touch the level.
func (l *PriceLevel) OrderSizes() []int64 {
	sizes := make([]int64, 0, l.count)
	for o := l.head; o != nil; o = o.next {
		sizes = append(sizes, o.Open())
	}
	return sizes
}
