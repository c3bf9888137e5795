package role

import (
	"context"

	"github.com/mathdee/quorum/internal/quorum/messagebox"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// Candidate stands for election: it asks every peer for a vote
// concurrently and becomes Leader once a majority (including its own,
// implicit, vote) has been granted, or reverts to a fresh Subject once a
// majority has declined. A round in which neither side reaches a majority
// before the election timeout elapses (or before every peer has answered)
// simply ends without a role change, so the node's run loop calls Run
// again for a freshly-jittered round.
type Candidate struct {
	ctrl Control
}

// NewCandidate builds a Candidate bound to the given role-control
// capability.
func NewCandidate(ctrl Control) *Candidate {
	return &Candidate{ctrl: ctrl}
}

// Run asks every peer for a vote and, before the round's election timeout
// elapses, becomes Leader on a majority of ayes or Subject on a majority
// of nays.
func (c *Candidate) Run(ctx context.Context, peers types.PeerSet, cfg timing.ClusterConfiguration) {
	majority := (len(peers)+1)/2 + 1

	round, cancel := context.WithTimeout(ctx, cfg.ElectionTimeout.Duration())
	defer cancel()

	votes := 1 // a candidate implicitly votes for itself
	nays := 0
	if votes >= majority {
		c.ctrl.ChangeRole(NewLeader(c.ctrl))
		return
	}

	results := make(chan bool, len(peers))
	for _, peer := range peers {
		go func(p types.Peer) { results <- p.RequestVote() }(peer)
	}

	for i := 0; i < len(peers); i++ {
		select {
		case <-round.Done():
			return
		case granted := <-results:
			if granted {
				votes++
				if votes >= majority {
					c.ctrl.ChangeRole(NewLeader(c.ctrl))
					return
				}
			} else {
				nays++
				if nays >= majority {
					c.ctrl.ChangeRole(NewSubject(c.ctrl))
					return
				}
			}
		}
	}
}

// Heartbeat means another node is already leader; the candidate concedes
// and reverts to a fresh Subject.
func (c *Candidate) Heartbeat() types.HeartbeatResponse {
	c.ctrl.ChangeRole(NewSubject(c.ctrl))
	return types.HeartbeatResponse{Acknowledged: true}
}

// RequestVote always declines: a candidate only ever votes for itself.
func (c *Candidate) RequestVote() bool { return false }

// Stop is a no-op: the round's own context is what ends Run.
func (c *Candidate) Stop() {}

// DistributionStrategy returns NoDistribution: a candidate isn't leader
// yet, so it never pushes messages out.
func (c *Candidate) DistributionStrategy() messagebox.Strategy {
	return messagebox.NoDistribution{}
}

func (c *Candidate) String() string { return "Candidate" }
