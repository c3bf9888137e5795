package role

import (
	"context"

	"github.com/mathdee/quorum/internal/quorum/messagebox"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// Down is the inert role: it suspends indefinitely, acknowledges nothing,
// and carries the role it replaced so a caller can restore a node to
// exactly the state it was in before going down. In this implementation
// node-level failure injection goes through DownWrapper's pause gate
// instead (see internal/quorum/node), so Down exists as a directly
// constructible, independently testable role rather than something the
// run loop reaches on its own - see DESIGN.md.
type Down struct {
	previous Role
}

// NewDown wraps the role a node was in before going down.
func NewDown(previous Role) *Down {
	return &Down{previous: previous}
}

// Previous returns the role this Down replaced.
func (d *Down) Previous() Role { return d.previous }

// Run suspends until ctx is cancelled; a down node does nothing on its
// own.
func (d *Down) Run(ctx context.Context, _ types.PeerSet, _ timing.ClusterConfiguration) {
	<-ctx.Done()
}

// Heartbeat is inert: a down node doesn't acknowledge anything.
func (d *Down) Heartbeat() types.HeartbeatResponse {
	return types.HeartbeatResponse{Acknowledged: false}
}

// RequestVote is inert: a down node never grants a vote.
func (d *Down) RequestVote() bool { return false }

// Stop is a no-op.
func (d *Down) Stop() {}

// DistributionStrategy returns NoDistribution: a down node distributes
// nothing.
func (d *Down) DistributionStrategy() messagebox.Strategy {
	return messagebox.NoDistribution{}
}

func (d *Down) String() string { return "Down" }
