package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mathdee/quorum/internal/config"
	"github.com/mathdee/quorum/internal/metrics"
	"github.com/mathdee/quorum/internal/quorum/node"
	"github.com/mathdee/quorum/internal/transport/quorumhttp"
)

func newRunCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start this node and join the configured peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(cmd.Context(), v)
		},
	}
}

func runNode(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	clusterCfg, err := cfg.ClusterConfiguration()
	if err != nil {
		return err
	}

	logger := logrus.NewEntry(logrus.StandardLogger())

	n := node.New(logger)
	for _, peerURL := range cfg.Peers {
		n.RegisterPeer(quorumhttp.NewRemoteNode(peerURL))
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	n.SetMetrics(m)

	go n.Run(ctx, clusterCfg)
	go watchMetrics(ctx, n, m)

	if cfg.Watch {
		go watchRole(ctx, n, logger)
	}

	router := mux.NewRouter()
	quorumhttp.NewServer(node.NewDownWrapper(n), logger).Install(router)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	server := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	logger.WithFields(logrus.Fields{"addr": cfg.ListenAddr, "peers": cfg.Peers}).Info("quorumd listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// watchMetrics keeps the Prometheus gauges in sync with the node's
// current role - it's simpler to poll than to thread metric updates
// through every role transition.
func watchMetrics(ctx context.Context, n *node.Node, m *metrics.Metrics) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n.Role().String() == "Leader" {
				m.IsLeader.Set(1)
			} else {
				m.IsLeader.Set(0)
			}
		}
	}
}

// watchRole is the --watch flag's generalization of the original
// implementation's terminal-redraw loop: instead of repainting a
// terminal, it logs the node's role on a timer.
func watchRole(ctx context.Context, n *node.Node, logger *logrus.Entry) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.WithField("role", n.Role().String()).Info("watch")
		}
	}
}
