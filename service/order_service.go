package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"matchbook/domain/book"
	"matchbook/infra/ring"
	"matchbook/infra/sequence"
)

// Validation errors raised before an instruction reaches the core.
var (
	ErrQuantityNotPositive = errors.New("quantity must be positive")
	ErrPriceNotPositive    = errors.New("price must be positive")
)

// Command is one matching instruction. Price zero means a market
// instruction; any positive price makes it a limit.
type Command struct {
	Side  book.Side
	Qty   int64
	Price int64
}

// Market reports whether the command carries no price constraint.
func (c Command) Market() bool { return c.Price == 0 }

// Result pairs the fill report with the sequence number assigned to
// the instruction.
type Result struct {
	Seq    uint64
	Report book.Report
}

/*
OrderService is the ONLY write entry point into the system.

It owns the book behind a single mutex: price-time priority is only
meaningful under a total order of instruction arrival, so every
transport funnels through Execute. Fill events go out through a
bounded ring drained by background publishers.
*/
type OrderService struct {
	mu    sync.Mutex
	book  *book.Book
	seq   *sequence.Sequencer
	fills *ring.Ring[FillEvent]
}

// New wires all dependencies. fills may be nil when no publisher runs.
func New(b *book.Book, fills *ring.Ring[FillEvent]) *OrderService {
	return &OrderService{
		book:  b,
		seq:   sequence.New(0),
		fills: fills,
	}
}

// Execute validates and applies one instruction. The returned report
// is always meaningful, even alongside ErrInsufficientLiquidity, where
// it carries the fills applied before the opposing side ran dry.
func (s *OrderService) Execute(cmd Command) (Result, error) {
	if cmd.Qty <= 0 {
		return Result{}, ErrQuantityNotPositive
	}
	if !cmd.Market() && cmd.Price <= 0 {
		return Result{}, ErrPriceNotPositive
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seq.Next()

	var rep book.Report
	var err error
	switch {
	case cmd.Market() && cmd.Side == book.Bid:
		rep, err = s.book.MarketBuy(cmd.Qty)
	case cmd.Market():
		rep, err = s.book.MarketSell(cmd.Qty)
	case cmd.Side == book.Bid:
		rep, err = s.book.LimitBuy(cmd.Qty, cmd.Price)
	default:
		rep, err = s.book.LimitSell(cmd.Qty, cmd.Price)
	}

	s.emitFills(seq, cmd.Side, rep.Fills)
	return Result{Seq: seq, Report: rep}, err
}

func (s *OrderService) emitFills(seq uint64, taker book.Side, fills []book.Fill) {
	if s.fills == nil {
		return
	}
	now := time.Now().UTC()
	for _, f := range fills {
		ev := FillEvent{
			EventID: uuid.NewString(),
			Seq:     seq,
			Taker:   taker.String(),
			Qty:     f.Qty,
			Price:   f.Price,
			Time:    now,
		}
		if !s.fills.Enqueue(ev) {
			log.Printf("[service] fill event ring full, dropping seq=%d", seq)
			return
		}
	}
}

// Depth returns up to n levels per side, best to worst.
func (s *OrderService) Depth(n int) (bids, asks []book.LevelSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.TopLevels(book.Bid, n), s.book.TopLevels(book.Ask, n)
}

// Spread returns the bid/ask spread in basis points, or
// book.ErrEmptyBookSide for a one-sided book.
func (s *OrderService) Spread() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.SpreadBps()
}

// Seq returns the sequence number of the last accepted instruction.
func (s *OrderService) Seq() uint64 {
	return s.seq.Current()
}
