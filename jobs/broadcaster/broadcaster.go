// Package broadcaster implements a background job that drains fill
// events from the service ring and publishes them to Kafka.
package broadcaster

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"

	"matchbook/infra/ring"
	"matchbook/service"
)

type Broadcaster struct {
	fills    *ring.Ring[service.FillEvent]
	producer sarama.SyncProducer
	topic    string
	interval time.Duration

	// pending holds events that failed to publish. The ring is single
	// producer / single consumer, so unsent events stay on the
	// consumer side rather than going back in.
	pending []service.FillEvent

	ownsProducer bool
}

// New connects a synchronous producer to the given brokers. Events are
// acked by all in-sync replicas before the drain moves on.
func New(
	fills *ring.Ring[service.FillEvent],
	brokers []string,
	topic string,
	interval time.Duration,
) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	b := NewWithProducer(fills, producer, topic, interval)
	b.ownsProducer = true
	return b, nil
}

// NewWithProducer wires an existing producer, used by tests.
func NewWithProducer(
	fills *ring.Ring[service.FillEvent],
	producer sarama.SyncProducer,
	topic string,
	interval time.Duration,
) *Broadcaster {
	return &Broadcaster{
		fills:    fills,
		producer: producer,
		topic:    topic,
		interval: interval,
	}
}

// Start drains the ring on a ticker until ctx is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	log.Println("[broadcaster] started")

	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.DrainOnce()
			}
		}
	}()
}

// DrainOnce publishes held-back events first, then every buffered fill
// event. On a send failure the event is held back and the drain stops;
// the next tick retries.
func (b *Broadcaster) DrainOnce() {
	for len(b.pending) > 0 {
		if !b.publish(b.pending[0]) {
			return
		}
		b.pending = b.pending[1:]
	}

	for {
		ev, ok := b.fills.Dequeue()
		if !ok {
			return
		}
		if !b.publish(ev) {
			b.pending = append(b.pending, ev)
			return
		}
	}
}

func (b *Broadcaster) publish(ev service.FillEvent) bool {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[broadcaster] drop unencodable event seq=%d: %v", ev.Seq, err)
		return true
	}

	msg := &sarama.ProducerMessage{
		Topic: b.topic,
		Key:   sarama.StringEncoder(ev.EventID),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := b.producer.SendMessage(msg); err != nil {
		log.Printf("[broadcaster] publish failed, will retry: %v", err)
		return false
	}
	return true
}

func (b *Broadcaster) Close() error {
	if !b.ownsProducer {
		return nil
	}
	return b.producer.Close()
}
