// Package role implements the four-state role machine a node moves
// through: Subject (follower), Candidate, Leader and Down. Each role owns
// its own run loop and reacts to heartbeats and vote requests in whatever
// way that role requires; a Node just holds "the current role" and
// delegates to it.
package role

import (
	"context"

	"github.com/mathdee/quorum/internal/quorum/messagebox"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// Control is the narrow capability a role needs back from its owning node:
// the ability to swap itself out for another role, and to know its own
// id for logging and vote bookkeeping. Passing this instead of the whole
// Node avoids a role depending on the node package, which in turn depends
// on role.
type Control interface {
	ChangeRole(next Role)
	ID() types.ID
}

// Role is the behaviour contract every state (Leader, Subject, Candidate,
// Down) implements. Run performs one iteration of whatever that role does
// (waiting out one election timeout, sending one round of heartbeats,
// standing in one election) and returns, possibly after changing the role
// via Control.ChangeRole; the node's run loop then calls Run on whichever
// role is current. Down.Run is the exception: it blocks until ctx is
// cancelled. Heartbeat and RequestVote are
// called directly by a node's RPC handlers and may themselves trigger a
// role change (e.g. a Leader stepping down on hearing another leader).
type Role interface {
	Run(ctx context.Context, peers types.PeerSet, cfg timing.ClusterConfiguration)
	Heartbeat() types.HeartbeatResponse
	RequestVote() bool
	Stop()
	DistributionStrategy() messagebox.Strategy
	String() string
}
