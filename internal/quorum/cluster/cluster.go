// Package cluster wires a set of nodes into a full mesh and exposes the
// handful of cluster-wide operations a client cares about: finding the
// current leader, and sending or reading messages through it.
package cluster

import (
	"context"
	"errors"

	"github.com/mathdee/quorum/internal/quorum/node"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// ErrNoLeaderInCluster is returned when no member currently believes
// itself to be leader - typically because an election is still in
// progress, or because a majority of the cluster is down.
var ErrNoLeaderInCluster = errors.New("cluster: no leader in cluster")

// ErrTooManyLeaders is returned when more than one member believes
// itself to be leader at once. Under normal operation the quorum
// requirement for winning an election makes this impossible; seeing it
// indicates a bug in the election or vote-counting logic rather than a
// normal runtime condition.
var ErrTooManyLeaders = errors.New("cluster: more than one leader in cluster")

// Cluster wires a fixed set of members into a full mesh (every member
// learns about every other member) and drives each member's run loop.
// Membership changes after construction are a Non-Goal.
type Cluster struct {
	members []node.Member
	cfg     timing.ClusterConfiguration
}

// New builds a Cluster and registers every member as a peer of every
// other member.
func New(cfg timing.ClusterConfiguration, members ...node.Member) *Cluster {
	c := &Cluster{members: members, cfg: cfg}
	c.letMembersKnowOfEachOther()
	return c
}

func (c *Cluster) letMembersKnowOfEachOther() {
	for _, m := range c.members {
		target := node.Underlying(m)
		if target == nil {
			continue
		}
		for _, other := range c.members {
			if other == m {
				continue
			}
			target.RegisterPeer(other)
		}
	}
}

// Run starts every member's run loop and blocks until ctx is cancelled.
func (c *Cluster) Run(ctx context.Context) {
	done := make(chan struct{}, len(c.members))
	for _, m := range c.members {
		target := node.Underlying(m)
		if target == nil {
			continue
		}
		go func(n *node.Node) {
			n.Run(ctx, c.cfg)
			done <- struct{}{}
		}(target)
	}
	<-ctx.Done()
	for range c.members {
		<-done
	}
}

// TakeMeToALeader returns the cluster's current leader, or
// ErrNoLeaderInCluster / ErrTooManyLeaders if zero or more than one
// member currently believes itself to be leader.
func (c *Cluster) TakeMeToALeader() (types.Peer, error) {
	var leader node.Member
	count := 0
	for _, m := range c.members {
		if m.RoleView().String() == "Leader" {
			leader = m
			count++
		}
	}
	switch {
	case count == 0:
		return nil, ErrNoLeaderInCluster
	case count > 1:
		return nil, ErrTooManyLeaders
	default:
		return leader, nil
	}
}

// SendMessage routes m to the current leader. With no leader in the
// cluster the message is dropped silently and nil is returned;
// ErrTooManyLeaders is still returned.
func (c *Cluster) SendMessage(ctx context.Context, m types.Message) error {
	leader, err := c.TakeMeToALeader()
	if errors.Is(err, ErrNoLeaderInCluster) {
		return nil
	}
	if err != nil {
		return err
	}
	return leader.SendMessage(ctx, m)
}

// GetMessages reads the current leader's committed message log.
func (c *Cluster) GetMessages(ctx context.Context) ([]types.Message, error) {
	leader, err := c.TakeMeToALeader()
	if err != nil {
		return nil, err
	}
	return leader.GetMessages(ctx)
}

// Members returns the cluster's members, in construction order.
func (c *Cluster) Members() []node.Member {
	return append([]node.Member(nil), c.members...)
}
