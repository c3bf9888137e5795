package messagebox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mathdee/quorum/internal/quorum/types"
)

// ErrDistributionFailed is returned by Strategy.Distribute when the leader
// plus the peers that acknowledged a message fall short of a majority of
// the cluster, either because the per-attempt deadline passed or because
// every peer has answered. It never reaches an external caller of the cluster API - the
// MessageBox drops the message silently rather than retrying it, since a
// retry under a later, weaker strategy could commit a write that never
// actually reached a majority.
var ErrDistributionFailed = errors.New("messagebox: distribution did not reach a majority in time")

// distributionDeadline bounds how long a single distribution attempt
// waits for peer acknowledgements, mirroring the 500ms wait_for timeout
// the original leader distribution strategy used around as_completed.
const distributionDeadline = 500 * time.Millisecond

// Strategy decides how (or whether) a pending message is pushed out to
// the rest of the cluster before it is committed. Every role exposes one
// via Role.DistributionStrategy; under a non-leader's NoDistribution a
// message is committed locally without being sent to any peer.
type Strategy interface {
	Distribute(ctx context.Context, m types.Message, peers types.PeerSet) error
}

// NoDistribution is the strategy non-leader roles hand back: messages are
// accepted locally but never pushed to peers.
type NoDistribution struct{}

// Distribute always succeeds without contacting anyone.
func (NoDistribution) Distribute(context.Context, types.Message, types.PeerSet) error {
	return nil
}

// LeaderDistribution fans a message out to every peer concurrently and
// declares success once a majority of the cluster (the leader plus enough
// peers) has acknowledged, or ErrDistributionFailed if the deadline passes
// first.
type LeaderDistribution struct{}

// Distribute implements Strategy.
func (LeaderDistribution) Distribute(ctx context.Context, m types.Message, peers types.PeerSet) error {
	clusterSize := len(peers) + 1 // peers plus the leader itself
	majority := clusterSize/2 + 1
	needed := majority - 1 // the leader's own vote is already banked
	if needed <= 0 {
		return nil
	}

	attempt, cancel := context.WithTimeout(ctx, distributionDeadline)
	defer cancel()

	acked := make(chan error, len(peers))
	var wg sync.WaitGroup
	for _, peer := range peers {
		wg.Add(1)
		go func(p types.Peer) {
			defer wg.Done()
			acked <- p.SendMessage(attempt, m)
		}(peer)
	}
	go func() {
		wg.Wait()
		close(acked)
	}()

	successes := 0
	for err := range acked {
		if err == nil {
			successes++
			if successes >= needed {
				return nil
			}
		}
	}
	return ErrDistributionFailed
}
