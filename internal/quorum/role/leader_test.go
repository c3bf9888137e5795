package role_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mathdee/quorum/internal/quorum/role"
	"github.com/mathdee/quorum/internal/quorum/types"
)

func TestLeaderStepsDownOnHeartbeatFromAnotherLeader(t *testing.T) {
	ctrl := newFakeControl()
	l := role.NewLeader(ctrl)

	resp := l.Heartbeat()
	assert.True(t, resp.Acknowledged)
	_, isSubject := ctrl.lastChange().(*role.Subject)
	assert.True(t, isSubject)
}

func TestLeaderStepsDownOnGrantingAVote(t *testing.T) {
	ctrl := newFakeControl()
	l := role.NewLeader(ctrl)

	assert.True(t, l.RequestVote())
	_, isSubject := ctrl.lastChange().(*role.Subject)
	assert.True(t, isSubject)
}

func TestLeaderStopEndsRunLoop(t *testing.T) {
	ctrl := newFakeControl()
	l := role.NewLeader(ctrl)
	l.Stop()
	cfg := fastConfig(t)

	done := make(chan struct{})
	go func() {
		l.Run(context.Background(), types.PeerSet{}, cfg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
