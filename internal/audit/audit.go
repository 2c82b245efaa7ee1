// Package audit appends a best-effort, out-of-band record of every
// Dispatcher purchase decision to Postgres, generalizing the connection
// pool construction in the teacher's internal/postgres/db.go and the
// async buffered-writer shape of internal/kafka/producer.go.
//
// This is explicitly not the system of record for inventory: the Stock
// Cell remains the sole authoritative, in-memory source of truth, and
// rows written here are never read back to answer an availability query
// or to seed initial_stock.
package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Entry is one purchase decision recorded for post-hoc analysis.
type Entry struct {
	OccurredAt    time.Time
	CorrelationID string
	Qty           int
	Accepted      bool
	Remaining     int
}

// Log is a best-effort, non-blocking writer of Entry rows.
type Log struct {
	pool    *pgxpool.Pool
	inbox   chan Entry
	closeCh chan struct{}
	log     *zap.Logger
}

// Connect opens a pool against dsn with the same bounded-pool posture as
// internal/postgres/db.go (small MaxConns, periodic health check).
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 4
	cfg.MinConns = 0
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewLog wraps an already-connected pool. Call Start before use.
func NewLog(pool *pgxpool.Pool, buf int, log *zap.Logger) *Log {
	return &Log{pool: pool, inbox: make(chan Entry, buf), closeCh: make(chan struct{}), log: log}
}

// Start launches the background writer loop.
func (l *Log) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				close(l.inbox)
				for e := range l.inbox {
					l.write(e)
				}
				l.pool.Close()
				close(l.closeCh)
				return
			case e, ok := <-l.inbox:
				if !ok {
					l.pool.Close()
					close(l.closeCh)
					return
				}
				l.write(e)
			}
		}
	}()
}

func (l *Log) write(e Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := l.pool.Exec(ctx, `
		INSERT INTO audit_events (occurred_at, correlation_id, qty, accepted, remaining)
		VALUES ($1, $2, $3, $4, $5)`,
		e.OccurredAt, e.CorrelationID, e.Qty, e.Accepted, e.Remaining,
	)
	if err != nil {
		l.log.Warn("audit write failed", zap.Error(err))
	}
}

// Record enqueues a purchase decision without blocking the caller; a full
// inbox drops the record. Its signature matches dispatch.AuditRecorder so a
// *Log can be passed directly to dispatch.NewWithAudit.
func (l *Log) Record(occurredAt time.Time, correlationID string, qty int, accepted bool, remaining int) {
	e := Entry{OccurredAt: occurredAt, CorrelationID: correlationID, Qty: qty, Accepted: accepted, Remaining: remaining}
	select {
	case l.inbox <- e:
	default:
		l.log.Warn("audit entry dropped: inbox full", zap.String("correlation_id", e.CorrelationID))
	}
}

// Close signals the writer loop to flush and exit.
func (l *Log) Close() { close(l.inbox) }

// WaitClosed blocks until the writer loop has fully drained and exited.
func (l *Log) WaitClosed() { <-l.closeCh }
