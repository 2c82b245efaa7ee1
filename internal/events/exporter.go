// Package events exports Reservation Outcomes to Kafka as best-effort
// telemetry, generalizing the async buffered-inbox producer shape of
// internal/kafka in the teacher repo. Exporting a decision never blocks or
// fails the reservation that produced it: the inbox is buffered and full
// channels simply drop the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kelaslabs/vacancy-system/internal/inventory"
)

// ReservationDecided is the envelope published for every reservation
// decision made by the Inventory Service. It is export-only telemetry: it
// is never consumed to reconstruct or seed the Stock Cell's total.
type ReservationDecided struct {
	CorrelationID string    `json:"correlation_id"`
	Qty           int       `json:"qty"`
	Accepted      bool      `json:"accepted"`
	Remaining     int       `json:"remaining"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Exporter publishes ReservationDecided envelopes to a Kafka topic using a
// background flush goroutine fed by a buffered channel, mirroring
// internal/kafka/producer.go's Start/Publish/Close/WaitClosed shape.
type Exporter struct {
	w       *kafka.Writer
	inbox   chan ReservationDecided
	closeCh chan struct{}
	log     *zap.Logger
}

// NewExporter builds an Exporter writing to topic on brokers. Call Start
// before use and Close/WaitClosed during shutdown.
func NewExporter(brokers []string, topic string, buf int, log *zap.Logger) *Exporter {
	return &Exporter{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			Async:        true,
			BatchTimeout: 10 * time.Millisecond,
		},
		inbox:   make(chan ReservationDecided, buf),
		closeCh: make(chan struct{}),
		log:     log,
	}
}

// Start launches the background publish loop. It drains and flushes the
// inbox when ctx is canceled, then closes the underlying writer.
func (e *Exporter) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(e.inbox)
				for ev := range e.inbox {
					e.write(ev)
				}
				_ = e.w.Close()
				close(e.closeCh)
				return
			case ev, ok := <-e.inbox:
				if !ok {
					_ = e.w.Close()
					close(e.closeCh)
					return
				}
				e.write(ev)
			}
		}
	}()
}

func (e *Exporter) write(ev ReservationDecided) {
	payload, err := json.Marshal(ev)
	if err != nil {
		e.log.Warn("failed to marshal reservation event", zap.Error(err))
		return
	}
	msg := kafka.Message{Key: []byte(ev.CorrelationID), Value: payload, Time: ev.OccurredAt}
	if err := e.w.WriteMessages(context.Background(), msg); err != nil {
		e.log.Warn("failed to publish reservation event", zap.Error(err))
	}
}

// Export implements inventory.Exporter. It never blocks: if the inbox is
// full the event is dropped and logged, rather than slowing down a
// reservation decision.
func (e *Exporter) Export(correlationID string, qty int, outcome inventory.Outcome) {
	ev := ReservationDecided{
		CorrelationID: correlationID,
		Qty:           qty,
		Accepted:      outcome.Accepted,
		Remaining:     outcome.Remaining,
		OccurredAt:    time.Now().UTC(),
	}
	select {
	case e.inbox <- ev:
	default:
		e.log.Warn("reservation event dropped: exporter inbox full", zap.String("correlation_id", correlationID))
	}
}

// Close signals the publish loop to flush and exit.
func (e *Exporter) Close() { close(e.inbox) }

// WaitClosed blocks until the publish loop has fully drained and exited.
func (e *Exporter) WaitClosed() { <-e.closeCh }
