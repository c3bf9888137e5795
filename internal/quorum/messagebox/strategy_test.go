package messagebox_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mathdee/quorum/internal/quorum/messagebox"
	"github.com/mathdee/quorum/internal/quorum/types"
)

type fakePeer struct {
	id      types.ID
	vote    bool
	sendErr error
}

func newFakePeer(sendErr error) *fakePeer {
	return &fakePeer{id: uuid.New(), sendErr: sendErr}
}

func (p *fakePeer) ID() types.ID                  { return p.id }
func (p *fakePeer) Heartbeat() types.HeartbeatResponse { return types.HeartbeatResponse{Acknowledged: true} }
func (p *fakePeer) RequestVote() bool             { return p.vote }
func (p *fakePeer) SendMessage(context.Context, types.Message) error { return p.sendErr }
func (p *fakePeer) GetMessages(context.Context) ([]types.Message, error) { return nil, nil }

func peerSet(peers ...*fakePeer) types.PeerSet {
	set := types.PeerSet{}
	for _, p := range peers {
		set[p.ID()] = p
	}
	return set
}

func TestNoDistributionAlwaysSucceeds(t *testing.T) {
	err := messagebox.NoDistribution{}.Distribute(context.Background(), "hello", peerSet(newFakePeer(errors.New("boom"))))
	assert.NoError(t, err)
}

func TestLeaderDistributionSucceedsOnMajority(t *testing.T) {
	// cluster size 4 (3 peers + leader): majority 3, leader's own vote
	// already banked, so 2 acking peers is enough.
	peers := peerSet(newFakePeer(nil), newFakePeer(nil), newFakePeer(errors.New("unreachable")))
	err := messagebox.LeaderDistribution{}.Distribute(context.Background(), "hello", peers)
	assert.NoError(t, err)
}

func TestLeaderDistributionFailsWithoutMajority(t *testing.T) {
	unreachable := errors.New("unreachable")
	peers := peerSet(newFakePeer(unreachable), newFakePeer(unreachable), newFakePeer(nil))
	err := messagebox.LeaderDistribution{}.Distribute(context.Background(), "hello", peers)
	assert.ErrorIs(t, err, messagebox.ErrDistributionFailed)
}

func TestLeaderDistributionTrivialWithNoPeers(t *testing.T) {
	err := messagebox.LeaderDistribution{}.Distribute(context.Background(), "hello", types.PeerSet{})
	assert.NoError(t, err)
}
