package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/domain/book"
	"matchbook/infra/ring"
)

func newTestService() (*OrderService, *ring.Ring[FillEvent]) {
	fills := ring.New[FillEvent](64)
	return New(book.New(), fills), fills
}

func TestExecuteRejectsBadInput(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Execute(Command{Side: book.Bid, Qty: 0, Price: 5})
	assert.ErrorIs(t, err, ErrQuantityNotPositive)

	_, err = svc.Execute(Command{Side: book.Ask, Qty: -3})
	assert.ErrorIs(t, err, ErrQuantityNotPositive)

	_, err = svc.Execute(Command{Side: book.Bid, Qty: 1, Price: -2})
	assert.ErrorIs(t, err, ErrPriceNotPositive)

	// Rejected instructions consume no sequence numbers.
	assert.Equal(t, uint64(0), svc.Seq())
}

func TestExecuteAssignsMonotonicSequence(t *testing.T) {
	svc, _ := newTestService()

	r1, err := svc.Execute(Command{Side: book.Bid, Qty: 5, Price: 8})
	require.NoError(t, err)
	r2, err := svc.Execute(Command{Side: book.Ask, Qty: 2, Price: 12})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), r1.Seq)
	assert.Equal(t, uint64(2), r2.Seq)
	assert.Equal(t, uint64(2), svc.Seq())
}

func TestExecuteEmitsOneEventPerFill(t *testing.T) {
	svc, fills := newTestService()

	_, err := svc.Execute(Command{Side: book.Ask, Qty: 3, Price: 10})
	require.NoError(t, err)
	_, err = svc.Execute(Command{Side: book.Ask, Qty: 2, Price: 11})
	require.NoError(t, err)

	res, err := svc.Execute(Command{Side: book.Bid, Qty: 5})
	require.NoError(t, err)
	require.Len(t, res.Report.Fills, 2)

	ev1, ok := fills.Dequeue()
	require.True(t, ok)
	ev2, ok := fills.Dequeue()
	require.True(t, ok)
	_, ok = fills.Dequeue()
	assert.False(t, ok, "no extra events expected")

	assert.Equal(t, res.Seq, ev1.Seq)
	assert.Equal(t, "bid", ev1.Taker)
	assert.Equal(t, int64(3), ev1.Qty)
	assert.Equal(t, int64(10), ev1.Price)
	assert.Equal(t, int64(2), ev2.Qty)
	assert.Equal(t, int64(11), ev2.Price)
	assert.NotEmpty(t, ev1.EventID)
	assert.NotEqual(t, ev1.EventID, ev2.EventID)
}

func TestExecuteReturnsPartialReportWithLiquidityError(t *testing.T) {
	svc, fills := newTestService()

	_, err := svc.Execute(Command{Side: book.Ask, Qty: 3, Price: 10})
	require.NoError(t, err)

	res, err := svc.Execute(Command{Side: book.Bid, Qty: 5})
	assert.ErrorIs(t, err, book.ErrInsufficientLiquidity)
	assert.Equal(t, int64(3), res.Report.Filled)

	// The partial fill is still published.
	ev, ok := fills.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int64(3), ev.Qty)
}

func TestDepthAndSpreadQueries(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Execute(Command{Side: book.Bid, Qty: 5, Price: 10})
	require.NoError(t, err)
	_, err = svc.Execute(Command{Side: book.Ask, Qty: 4, Price: 12})
	require.NoError(t, err)

	bids, asks := svc.Depth(5)
	require.Len(t, bids, 1)
	require.Len(t, asks, 1)
	assert.Equal(t, int64(10), bids[0].Price)
	assert.Equal(t, int64(12), asks[0].Price)

	spread, err := svc.Spread()
	require.NoError(t, err)
	assert.InDelta(t, 20.0, spread, 1e-9)
}

func TestSpreadOneSided(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Execute(Command{Side: book.Bid, Qty: 1, Price: 10})
	require.NoError(t, err)

	_, err = svc.Spread()
	assert.ErrorIs(t, err, book.ErrEmptyBookSide)
}

func TestServiceWorksWithoutFillRing(t *testing.T) {
	svc := New(book.New(), nil)
	_, err := svc.Execute(Command{Side: book.Bid, Qty: 5, Price: 8})
	require.NoError(t, err)
	res, err := svc.Execute(Command{Side: book.Ask, Qty: 5, Price: 8})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Report.Filled)
}
