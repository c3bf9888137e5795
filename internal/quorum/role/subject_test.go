package role_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathdee/quorum/internal/quorum/role"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/quorum/types"
)

func fastConfig(t *testing.T) timing.ClusterConfiguration {
	t.Helper()
	cfg, err := timing.NewClusterConfiguration(
		timing.ElectionTimeout{Min: 5 * time.Millisecond, Max: 10 * time.Millisecond},
		time.Millisecond,
	)
	require.NoError(t, err)
	return cfg
}

func TestSubjectWhoFeelsNoHeartbeatBecomesCandidate(t *testing.T) {
	ctrl := newFakeControl()
	s := role.NewSubject(ctrl)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	s.Run(ctx, types.PeerSet{}, fastConfig(t))

	require.Equal(t, 1, ctrl.changeCount())
	_, isCandidate := ctrl.lastChange().(*role.Candidate)
	assert.True(t, isCandidate)
}

func TestSubjectWhoHearsHeartbeatStaysSubject(t *testing.T) {
	ctrl := newFakeControl()
	s := role.NewSubject(ctrl)
	s.Heartbeat()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	s.Run(ctx, types.PeerSet{}, fastConfig(t))

	assert.Equal(t, 0, ctrl.changeCount())
}

func TestSubjectGrantsAtMostOneVotePerCycle(t *testing.T) {
	s := role.NewSubject(newFakeControl())
	assert.True(t, s.RequestVote())
	assert.False(t, s.RequestVote())
}

func TestSubjectHeartbeatReenablesVoting(t *testing.T) {
	s := role.NewSubject(newFakeControl())
	assert.True(t, s.RequestVote())
	assert.False(t, s.RequestVote())

	s.Heartbeat()

	assert.True(t, s.RequestVote())
}
