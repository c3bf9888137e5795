package messagebox

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mathdee/quorum/internal/metrics"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// pollInterval is how often Run wakes up while no message is pending; the
// wake-up itself does no work. An Append call wakes Run immediately via
// the pending channel.
const pollInterval = 20 * time.Millisecond

// MessageBox holds a node's application-level message log: an append-only
// committed slice plus a FIFO of messages still waiting to be pushed out
// under the node's current DistributionStrategy. Distribution failures are
// dropped silently - there is no retry queue or persistence, matching the
// Non-Goals around durability.
type MessageBox struct {
	mu        sync.Mutex
	committed []types.Message
	pending   chan types.Message

	strategy atomic.Value // messagebox.Strategy
	metrics  atomic.Value // *metrics.Metrics, nil until SetMetrics is called
}

// New builds an empty MessageBox with the given initial distribution
// strategy (typically NoDistribution, since a node starts as a Subject).
func New(strategy Strategy) *MessageBox {
	b := &MessageBox{pending: make(chan types.Message, 4096)}
	b.SetStrategy(strategy)
	return b
}

// SetStrategy swaps the distribution strategy, called by Node.ChangeRole
// whenever the role (and therefore the distribution behaviour) changes.
func (b *MessageBox) SetStrategy(s Strategy) {
	b.strategy.Store(s)
}

func (b *MessageBox) currentStrategy() Strategy {
	s, _ := b.strategy.Load().(Strategy)
	if s == nil {
		return NoDistribution{}
	}
	return s
}

// SetMetrics attaches a recorder for commit and distribution-failure
// counts. Left unset, a MessageBox simply doesn't report them - tests
// that don't care about metrics never need to call this.
func (b *MessageBox) SetMetrics(m *metrics.Metrics) {
	b.metrics.Store(m)
}

func (b *MessageBox) currentMetrics() *metrics.Metrics {
	m, _ := b.metrics.Load().(*metrics.Metrics)
	return m
}

// Append enqueues a message for commit and eventual distribution. It
// returns immediately; commit happens asynchronously in Run.
func (b *MessageBox) Append(m types.Message) {
	b.pending <- m
}

// GetCommitted returns a defensive copy of every committed message, in
// commit order.
func (b *MessageBox) GetCommitted() []types.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.Message, len(b.committed))
	copy(out, b.committed)
	return out
}

func (b *MessageBox) commit(m types.Message) {
	b.mu.Lock()
	b.committed = append(b.committed, m)
	b.mu.Unlock()
	if rec := b.currentMetrics(); rec != nil {
		rec.MessagesCommitted.Inc()
	}
}

// Run drains pending messages against the current strategy until ctx is
// cancelled. peers is called fresh for every message so newly registered
// peers are picked up without restarting the loop. A message that fails
// distribution is dropped silently, not retried - retrying it later under
// a different (possibly weaker) strategy could commit a write that never
// actually reached a majority.
func (b *MessageBox) Run(ctx context.Context, peers func() types.PeerSet) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-b.pending:
			b.distributeOrDrop(ctx, m, peers())
		case <-ticker.C:
		}
	}
}

func (b *MessageBox) distributeOrDrop(ctx context.Context, m types.Message, peers types.PeerSet) {
	if err := b.currentStrategy().Distribute(ctx, m, peers); err != nil {
		if rec := b.currentMetrics(); rec != nil {
			rec.DistributionFailures.Inc()
		}
		return
	}
	b.commit(m)
}
