// Package node implements Node, the actor that owns a single cluster
// member's role state and message log, and DownWrapper, a composable
// failure-injection shim used to simulate a node going offline without
// tearing down its internal state.
package node

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mathdee/quorum/internal/metrics"
	"github.com/mathdee/quorum/internal/quorum/messagebox"
	"github.com/mathdee/quorum/internal/quorum/role"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// Node is a single cluster member. All mutation of its role and peer set
// goes through Node's own methods. Run drives role iterations on one
// goroutine behind a plain mutex pause gate, but Heartbeat and RequestVote
// reach the current role directly from the caller's goroutine, so a role
// guards its own mutable state.
type Node struct {
	id     types.ID
	logger *logrus.Entry

	roleMu sync.Mutex
	role   role.Role

	peersMu sync.RWMutex
	peers   types.PeerSet

	box *messagebox.MessageBox

	pauseGate sync.Mutex

	metrics atomic.Value // *metrics.Metrics, nil until SetMetrics is called
}

// New builds a Node that starts as a Subject - every node begins life as
// a follower and only becomes Candidate/Leader by timing out.
func New(logger *logrus.Entry) *Node {
	n := &Node{
		id:    uuid.New(),
		peers: types.PeerSet{},
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	n.logger = logger.WithField("node", n.id)
	n.role = role.NewSubject(n)
	n.box = messagebox.New(n.role.DistributionStrategy())
	return n
}

// ID satisfies both types.Peer and role.Control.
func (n *Node) ID() types.ID { return n.id }

// SetMetrics attaches a recorder for role transitions and granted votes,
// and passes it through to the node's message box for commit and
// distribution-failure counts. Left unset, a Node reports nothing - most
// tests never need to call this.
func (n *Node) SetMetrics(m *metrics.Metrics) {
	n.metrics.Store(m)
	n.box.SetMetrics(m)
}

func (n *Node) currentMetrics() *metrics.Metrics {
	m, _ := n.metrics.Load().(*metrics.Metrics)
	return m
}

// Role returns the node's current role. Exposed mainly for diagnostics and
// tests; production code should prefer the Peer-shaped operations below.
func (n *Node) Role() role.Role {
	n.roleMu.Lock()
	defer n.roleMu.Unlock()
	return n.role
}

// ChangeRole stops the outgoing role, installs next, and repoints the
// message box at next's distribution strategy. It implements
// role.Control so roles can swap themselves out directly.
func (n *Node) ChangeRole(next role.Role) {
	n.roleMu.Lock()
	old := n.role
	old.Stop()
	n.role = next
	n.roleMu.Unlock()

	n.box.SetStrategy(next.DistributionStrategy())
	n.logger.WithFields(logrus.Fields{"from": old.String(), "to": next.String()}).Info("role change")
	if m := n.currentMetrics(); m != nil {
		m.RoleTransitions.WithLabelValues(next.String()).Inc()
	}
}

// RegisterPeer adds a peer to this node's view of the cluster. It never
// registers the node's own id.
func (n *Node) RegisterPeer(p types.Peer) {
	if p.ID() == n.id {
		return
	}
	n.peersMu.Lock()
	n.peers[p.ID()] = p
	n.peersMu.Unlock()
}

// Peers returns a snapshot of the node's current peer set.
func (n *Node) Peers() types.PeerSet {
	n.peersMu.RLock()
	defer n.peersMu.RUnlock()
	snapshot := make(types.PeerSet, len(n.peers))
	for id, p := range n.peers {
		snapshot[id] = p
	}
	return snapshot
}

// Run drives the node forever: the message box distributes and commits
// pending writes in the background, while the role loop runs one role iteration
// at a time behind the pause gate, re-entering whichever role is current
// after every iteration (including after a role change).
func (n *Node) Run(ctx context.Context, cfg timing.ClusterConfiguration) {
	go n.box.Run(ctx, n.Peers)

	for ctx.Err() == nil {
		n.pauseGate.Lock()
		current := n.Role()
		current.Run(ctx, n.Peers(), cfg)
		n.pauseGate.Unlock()
	}
}

// Pause acquires the pause gate. While held, the role loop in Run blocks
// before starting its next iteration - the currently running iteration,
// if any, still completes first.
func (n *Node) Pause() { n.pauseGate.Lock() }

// Unpause releases the pause gate, letting the role loop resume.
func (n *Node) Unpause() { n.pauseGate.Unlock() }

// Heartbeat delegates to the current role.
func (n *Node) Heartbeat() types.HeartbeatResponse {
	return n.Role().Heartbeat()
}

// RequestVote delegates to the current role.
func (n *Node) RequestVote() bool {
	granted := n.Role().RequestVote()
	if granted {
		if m := n.currentMetrics(); m != nil {
			m.VotesGranted.Inc()
		}
	}
	return granted
}

// SendMessage appends m for eventual commit and distribution.
func (n *Node) SendMessage(_ context.Context, m types.Message) error {
	n.box.Append(m)
	return nil
}

// GetMessages returns every message this node has committed so far.
func (n *Node) GetMessages(_ context.Context) ([]types.Message, error) {
	return n.box.GetCommitted(), nil
}

// String renders the node as "Node(<id>, <role>)".
func (n *Node) String() string {
	return fmt.Sprintf("Node(%s, %s)", n.id, n.Role())
}

// RoleView satisfies node.Member, letting a Cluster ask an undownable
// Node and a DownWrapper the same question ("what role is this, as seen
// from the outside?") through one interface.
func (n *Node) RoleView() fmt.Stringer { return n.Role() }
