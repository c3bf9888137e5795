package node_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathdee/quorum/internal/quorum/node"
	"github.com/mathdee/quorum/internal/quorum/timing"
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

func TestNodeStartsAsSubject(t *testing.T) {
	n := node.New(nil)
	assert.Equal(t, "Subject", n.Role().String())
}

func TestLoneNodeEventuallyBecomesLeader(t *testing.T) {
	n := node.New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx, fastConfig(t))

	assert.Eventually(t, func() bool {
		return n.Role().String() == "Leader"
	}, 2*time.Second, 2*time.Millisecond)
}

func TestSendMessageCommitsOnceLeader(t *testing.T) {
	n := node.New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx, fastConfig(t))

	require.Eventually(t, func() bool {
		return n.Role().String() == "Leader"
	}, 2*time.Second, 2*time.Millisecond)

	require.NoError(t, n.SendMessage(context.Background(), "hello"))

	assert.Eventually(t, func() bool {
		msgs, err := n.GetMessages(context.Background())
		return err == nil && len(msgs) == 1
	}, time.Second, 2*time.Millisecond)
}

func TestPauseBlocksRoleProgress(t *testing.T) {
	n := node.New(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n.Pause()
	go n.Run(ctx, fastConfig(t))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "Subject", n.Role().String())

	n.Unpause()
	assert.Eventually(t, func() bool {
		return n.Role().String() == "Leader"
	}, 2*time.Second, 2*time.Millisecond)
}
