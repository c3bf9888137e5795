package timing

import (
	"errors"
	"time"
)

// ErrHeartbeatTooSlow is returned by NewClusterConfiguration when the
// heartbeat period is not smaller than the minimum election timeout.
// A heartbeat period close to (or past) the minimum election timeout
// guarantees spurious elections: followers would give up before a leader
// ever gets a heartbeat out.
var ErrHeartbeatTooSlow = errors.New("timing: heartbeat period must be smaller than the minimum election timeout")

// ClusterConfiguration bundles the timing knobs every role needs: how long
// a follower waits before calling an election, and how often a leader
// sends heartbeats.
type ClusterConfiguration struct {
	ElectionTimeout ElectionTimeout
	HeartbeatPeriod time.Duration
}

// NewClusterConfiguration validates and builds a ClusterConfiguration.
func NewClusterConfiguration(timeout ElectionTimeout, heartbeatPeriod time.Duration) (ClusterConfiguration, error) {
	if heartbeatPeriod <= 0 || timeout.Min <= 0 || timeout.Max <= timeout.Min {
		return ClusterConfiguration{}, errors.New("timing: election timeout window and heartbeat period must be positive, with max > min")
	}
	if heartbeatPeriod >= timeout.Min {
		return ClusterConfiguration{}, ErrHeartbeatTooSlow
	}
	return ClusterConfiguration{ElectionTimeout: timeout, HeartbeatPeriod: heartbeatPeriod}, nil
}
