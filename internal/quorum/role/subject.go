package role

import (
	"context"
	"sync"

	"github.com/mathdee/quorum/internal/quorum/messagebox"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// Subject is the follower role. It waits out a full election timeout and,
// only if nothing reset its beaten flag in the meantime, stands as a
// Candidate. A heartbeat received mid-wait doesn't cut the wait short; it
// just sets beaten so the Subject goes around again, matching the
// original implementation's behaviour of never truncating the timeout.
type Subject struct {
	ctrl Control

	mu     sync.Mutex
	beaten bool
	voted  bool
}

// NewSubject builds a Subject bound to the given role-control capability.
func NewSubject(ctrl Control) *Subject {
	return &Subject{ctrl: ctrl}
}

// Run waits out one election timeout, then either clears beaten and
// returns (the node's run loop calls Run again for another cycle) or, if
// unbeaten, stands for election.
func (s *Subject) Run(ctx context.Context, peers types.PeerSet, cfg timing.ClusterConfiguration) {
	timer := timing.ElectionTimer{Timeout: cfg.ElectionTimeout}
	if err := timer.Wait(ctx); err != nil {
		return
	}

	s.mu.Lock()
	beaten := s.beaten
	s.beaten = false
	s.mu.Unlock()

	if beaten {
		return
	}
	s.ctrl.ChangeRole(NewCandidate(s.ctrl))
}

// Heartbeat records that a leader is still alive and acknowledges it. It
// also clears voted, so a new heartbeat re-enables this Subject to grant
// a vote in the next election it hears about.
func (s *Subject) Heartbeat() types.HeartbeatResponse {
	s.mu.Lock()
	s.beaten = true
	s.voted = false
	s.mu.Unlock()
	return types.HeartbeatResponse{Acknowledged: true}
}

// RequestVote grants at most one vote between heartbeats: once it has
// voted, it declines until the next Heartbeat clears voted.
func (s *Subject) RequestVote() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.voted {
		return false
	}
	s.voted = true
	return true
}

// Stop is a no-op: a Subject holds no background resources of its own.
func (s *Subject) Stop() {}

// DistributionStrategy returns NoDistribution: a follower never pushes
// messages out; a message sent to it is committed to its own log only.
func (s *Subject) DistributionStrategy() messagebox.Strategy {
	return messagebox.NoDistribution{}
}

func (s *Subject) String() string { return "Subject" }
