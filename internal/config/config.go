// Package config turns command-line flags, environment variables (prefix
// QUORUM_) and an optional YAML config file into a validated Config,
// using viper the way yishuiwang's tinykv pairs it with cobra.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mathdee/quorum/internal/quorum/timing"
)

// Config is everything a running quorumd instance needs.
type Config struct {
	ListenAddr         string
	Peers              []string
	ElectionTimeoutMin time.Duration
	ElectionTimeoutMax time.Duration
	HeartbeatPeriod    time.Duration
	Watch              bool
}

// BindFlags registers every Config flag on fs with its default value.
// cmd/quorumd calls this once on its root command's persistent flags.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("listen", ":8080", "address to listen on for peer and admin HTTP traffic")
	fs.StringSlice("peer", nil, "base URL of a peer (repeatable)")
	fs.Duration("election-timeout-min", 150*time.Millisecond, "minimum election timeout")
	fs.Duration("election-timeout-max", 300*time.Millisecond, "maximum election timeout")
	fs.Duration("heartbeat-period", 50*time.Millisecond, "leader heartbeat period")
	fs.Bool("watch", false, "log this node's role on a timer while running")
}

// Load reads every bound flag (and any matching QUORUM_* env var, or key
// in an optional config file already merged into v) into a Config, and
// validates the timing window.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		ListenAddr:         v.GetString("listen"),
		Peers:              v.GetStringSlice("peer"),
		ElectionTimeoutMin: v.GetDuration("election-timeout-min"),
		ElectionTimeoutMax: v.GetDuration("election-timeout-max"),
		HeartbeatPeriod:    v.GetDuration("heartbeat-period"),
		Watch:              v.GetBool("watch"),
	}

	if _, err := cfg.ClusterConfiguration(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ClusterConfiguration builds the timing.ClusterConfiguration this Config
// describes, validating the heartbeat-vs-timeout relationship.
func (c Config) ClusterConfiguration() (timing.ClusterConfiguration, error) {
	return timing.NewClusterConfiguration(timing.ElectionTimeout{
		Min: c.ElectionTimeoutMin,
		Max: c.ElectionTimeoutMax,
	}, c.HeartbeatPeriod)
}
