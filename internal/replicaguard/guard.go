// Package replicaguard resolves the open question in spec.md §9 about
// multiple Engine replicas: since the Stock Cell is a per-process counter
// with no cross-replica coordination, this package advisory-warns (never
// refuses to start) when it detects that another instance already holds
// the lease for this Engine's identity.
//
// It generalizes the namespaced-key-with-TTL pattern from the teacher's
// internal/redisx (KeyDedup, TTLDedup): a short-TTL lease key is renewed
// on an interval, and a conflicting owner is reported without ever being
// used to coordinate or reconstruct stock state.
package replicaguard

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyFmt = "engine_lease:%s"
const leaseTTL = 5 * time.Second
const renewEvery = 2 * time.Second

// Guard tracks whether this process currently believes it is the sole
// holder of its Engine identity's lease.
type Guard struct {
	rdb        *redis.Client
	identity   string
	instanceID string
	log        *zap.Logger

	conflict atomic.Bool
}

// New builds a Guard against a Redis instance at addr. identity names the
// Engine deployment (e.g. service name); instanceID must be unique per
// process (e.g. a generated UUID).
func New(addr, identity, instanceID string, log *zap.Logger) *Guard {
	return &Guard{
		rdb:        redis.NewClient(&redis.Options{Addr: addr}),
		identity:   identity,
		instanceID: instanceID,
		log:        log,
	}
}

// Run starts the lease acquire/renew loop. It returns once ctx is
// canceled. It never returns an error that should stop the Engine from
// serving traffic — a Redis outage degrades to "guard disabled", not to a
// startup failure.
func (g *Guard) Run(ctx context.Context) {
	g.tick(ctx)
	ticker := time.NewTicker(renewEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.tick(ctx)
		}
	}
}

func (g *Guard) tick(ctx context.Context) {
	key := keyLease(g.identity)

	ok, err := g.rdb.SetNX(ctx, key, g.instanceID, leaseTTL).Result()
	if err != nil {
		g.log.Warn("replica guard: redis unavailable, guard disabled for this tick", zap.Error(err))
		return
	}
	if ok {
		g.conflict.Store(false)
		return
	}

	owner, err := g.rdb.Get(ctx, key).Result()
	if err != nil {
		g.log.Warn("replica guard: failed to read lease owner", zap.Error(err))
		return
	}
	if owner == g.instanceID {
		// Renew our own lease.
		_ = g.rdb.Expire(ctx, key, leaseTTL).Err()
		g.conflict.Store(false)
		return
	}

	g.conflict.Store(true)
	g.log.Warn("multiple Engine replicas detected without a coordinator: "+
		"each replica owns an independent stock counter, so concurrent replicas will oversell",
		zap.String("identity", g.identity),
		zap.String("this_instance", g.instanceID),
		zap.String("lease_owner", owner),
	)
}

// Conflict reports whether another replica currently holds this Engine's
// lease. Surfaced on the health endpoint; never used to block a request.
func (g *Guard) Conflict() bool {
	return g.conflict.Load()
}

// Close releases the underlying Redis client.
func (g *Guard) Close() error {
	return g.rdb.Close()
}

func keyLease(identity string) string {
	return fmt.Sprintf(keyFmt, identity)
}
