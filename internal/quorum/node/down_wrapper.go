package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mathdee/quorum/internal/quorum/types"
)

// downAbsorbDelay is how long a downed node's SendMessage sits on an
// incoming message before silently dropping it, simulating an unreachable
// peer rather than an instantly-failing one.
const downAbsorbDelay = time.Second

// NodeIsDown is the role DownWrapper reports while its underlying node is
// taken down. The node's real role is left untouched underneath - see
// Invariants below - this is purely what's visible from the outside.
type NodeIsDown struct{}

func (NodeIsDown) String() string { return "NodeIsDown" }

// DownWrapper composes a *Node to add failure injection without the node
// ever knowing it happened: while down, every RPC is intercepted at the
// wrapper boundary and never reaches the underlying role, and the node's
// run loop is paused via Node.Pause so it makes no forward progress
// either. On BringBackUp, the role resumes exactly where it left off -
// a Leader remains Leader, a Subject keeps its prior beaten/voted state -
// because nothing about the underlying node's state was ever touched.
type DownWrapper struct {
	node *Node

	mu   sync.Mutex
	down bool
}

// NewDownWrapper wraps an up node for failure-injection testing.
func NewDownWrapper(n *Node) *DownWrapper {
	return &DownWrapper{node: n}
}

// TakeDown marks the node unreachable and pauses its run loop.
func (w *DownWrapper) TakeDown() {
	w.mu.Lock()
	w.down = true
	w.mu.Unlock()
	w.node.Pause()
}

// BringBackUp clears the down flag and resumes the run loop.
func (w *DownWrapper) BringBackUp() {
	w.mu.Lock()
	w.down = false
	w.mu.Unlock()
	w.node.Unpause()
}

// IsDown reports whether the node is currently taken down.
func (w *DownWrapper) IsDown() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.down
}

// ID satisfies types.Peer, delegating to the underlying node regardless
// of down state - identity doesn't change just because a node is
// unreachable.
func (w *DownWrapper) ID() types.ID { return w.node.ID() }

// Heartbeat is acknowledged without being forwarded while down.
func (w *DownWrapper) Heartbeat() types.HeartbeatResponse {
	if w.IsDown() {
		return types.HeartbeatResponse{Acknowledged: true}
	}
	return w.node.Heartbeat()
}

// RequestVote is always declined while down.
func (w *DownWrapper) RequestVote() bool {
	if w.IsDown() {
		return false
	}
	return w.node.RequestVote()
}

// SendMessage absorbs the message after a delay while down, without ever
// reaching the underlying message box.
func (w *DownWrapper) SendMessage(ctx context.Context, m types.Message) error {
	if w.IsDown() {
		select {
		case <-time.After(downAbsorbDelay):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return w.node.SendMessage(ctx, m)
}

// GetMessages returns no messages while down.
func (w *DownWrapper) GetMessages(ctx context.Context) ([]types.Message, error) {
	if w.IsDown() {
		return []types.Message{}, nil
	}
	return w.node.GetMessages(ctx)
}

// RoleView reports NodeIsDown while down, or the underlying node's actual
// role otherwise.
func (w *DownWrapper) RoleView() fmt.Stringer {
	if w.IsDown() {
		return NodeIsDown{}
	}
	return w.node.Role()
}

// Unwrap returns the wrapped node, for callers (e.g. Cluster) that need
// to register it or drive its run loop directly.
func (w *DownWrapper) Unwrap() *Node { return w.node }
