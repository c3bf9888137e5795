package config_test

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathdee/quorum/internal/config"
)

func newBoundViper(t *testing.T) *viper.Viper {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(fs)
	require.NoError(t, fs.Parse(nil))

	v := viper.New()
	require.NoError(t, v.BindPFlags(fs))
	return v
}

func TestLoadUsesDefaults(t *testing.T) {
	cfg, err := config.Load(newBoundViper(t))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 150*time.Millisecond, cfg.ElectionTimeoutMin)
	assert.Equal(t, 50*time.Millisecond, cfg.HeartbeatPeriod)
}

func TestLoadRejectsSlowHeartbeat(t *testing.T) {
	v := newBoundViper(t)
	v.Set("heartbeat-period", "500ms")
	v.Set("election-timeout-min", "150ms")

	_, err := config.Load(v)
	assert.Error(t, err)
}

func TestLoadPicksUpPeerFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--peer", "http://a", "--peer", "http://b"}))

	v := viper.New()
	require.NoError(t, v.BindPFlags(fs))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Peers)
}
