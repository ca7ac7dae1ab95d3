// Package depth implements a background job that publishes periodic
// top-of-book snapshots to a market data sink.
package depth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"matchbook/domain/book"
	"matchbook/service"
)

// Sink receives one encoded snapshot per interval. infra/kafka's
// Producer satisfies it.
type Sink interface {
	Send(ctx context.Context, key, value []byte) error
}

// Snapshot is the published depth message.
type Snapshot struct {
	Seq       uint64               `json:"seq"`
	Bids      []book.LevelSnapshot `json:"bids"`
	Asks      []book.LevelSnapshot `json:"asks"`
	SpreadBps *float64             `json:"spread_bps,omitempty"`
	OneSided  bool                 `json:"one_sided,omitempty"`
	Time      time.Time            `json:"time"`
}

type Publisher struct {
	svc      *service.OrderService
	sink     Sink
	levels   int
	interval time.Duration
}

func NewPublisher(svc *service.OrderService, sink Sink, levels int, interval time.Duration) *Publisher {
	return &Publisher{svc: svc, sink: sink, levels: levels, interval: interval}
}

// Start publishes on a ticker until ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	log.Println("[depth] started")

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.PublishOnce(ctx); err != nil {
					log.Printf("[depth] publish failed: %v", err)
				}
			}
		}
	}()
}

// PublishOnce sends the current top-of-book snapshot.
func (p *Publisher) PublishOnce(ctx context.Context) error {
	bids, asks := p.svc.Depth(p.levels)
	snap := Snapshot{
		Seq:  p.svc.Seq(),
		Bids: bids,
		Asks: asks,
		Time: time.Now().UTC(),
	}

	spread, err := p.svc.Spread()
	switch {
	case err == nil:
		snap.SpreadBps = &spread
	case errors.Is(err, book.ErrEmptyBookSide):
		snap.OneSided = true
	default:
		return err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.sink.Send(ctx, nil, payload)
}
