package role

import (
	"context"
	"time"

	"github.com/mathdee/quorum/internal/quorum/messagebox"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// Leader periodically broadcasts heartbeats to every peer to assert its
// authority and keep followers from timing out into candidates. It steps
// down to a fresh Subject the moment it observes another leader - either
// by receiving a heartbeat from one, or by granting a vote to a
// candidate.
type Leader struct {
	ctrl    Control
	stopped chan struct{}
}

// NewLeader builds a Leader bound to the given role-control capability.
func NewLeader(ctrl Control) *Leader {
	return &Leader{ctrl: ctrl, stopped: make(chan struct{})}
}

// Run waits out one heartbeat period, broadcasts a heartbeat to every
// peer, then returns - the node's run loop calls Run again for the next
// period. Returning between rounds (rather than looping internally) lets
// the node's pause gate actually take hold between heartbeats, so a
// paused or downed leader stops broadcasting promptly instead of only
// noticing the next time its own internal loop wakes up.
func (l *Leader) Run(ctx context.Context, peers types.PeerSet, cfg timing.ClusterConfiguration) {
	timer := time.NewTimer(cfg.HeartbeatPeriod)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-l.stopped:
		return
	case <-timer.C:
		broadcastHeartbeat(peers)
	}
}

func broadcastHeartbeat(peers types.PeerSet) {
	for _, p := range peers {
		go p.Heartbeat()
	}
}

// Heartbeat means another node believes itself to be leader too. The
// losing leader steps down to a fresh Subject rather than contest it -
// there is no term number to arbitrate the conflict (see DESIGN.md).
func (l *Leader) Heartbeat() types.HeartbeatResponse {
	l.ctrl.ChangeRole(NewSubject(l.ctrl))
	return types.HeartbeatResponse{Acknowledged: true}
}

// RequestVote always grants, then steps down: a leader that sees a
// candidate standing for election defers to the election in progress
// rather than trying to keep campaigning itself.
func (l *Leader) RequestVote() bool {
	l.ctrl.ChangeRole(NewSubject(l.ctrl))
	return true
}

// Stop makes any current or later Run return without broadcasting.
func (l *Leader) Stop() {
	select {
	case <-l.stopped:
	default:
		close(l.stopped)
	}
}

// DistributionStrategy returns LeaderDistribution: only a leader pushes
// committed messages out to the cluster.
func (l *Leader) DistributionStrategy() messagebox.Strategy {
	return messagebox.LeaderDistribution{}
}

func (l *Leader) String() string { return "Leader" }
