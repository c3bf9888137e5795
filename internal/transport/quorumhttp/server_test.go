package quorumhttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathdee/quorum/internal/quorum/node"
	"github.com/mathdee/quorum/internal/quorum/role"
	"github.com/mathdee/quorum/internal/quorum/timing"
	"github.com/mathdee/quorum/internal/transport/quorumhttp"
)

func fastConfig(t *testing.T) timing.ClusterConfiguration {
	t.Helper()
	cfg, err := timing.NewClusterConfiguration(
		timing.ElectionTimeout{Min: 20 * time.Millisecond, Max: 40 * time.Millisecond},
		2*time.Millisecond,
	)
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, member node.Member) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	quorumhttp.NewServer(member, nil).Install(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func makeLeader(n *node.Node) {
	n.ChangeRole(role.NewLeader(n))
}

func TestHeartbeatRoute(t *testing.T) {
	n := node.New(nil)
	srv := newTestServer(t, n)

	resp, err := http.Post(srv.URL+"/heartbeat", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Acknowledged bool `json:"acknowledged"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Acknowledged)
}

func TestSendAndGetMessagesRoute(t *testing.T) {
	n := node.New(nil)
	makeLeader(n)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go n.Run(ctx, fastConfig(t))

	srv := newTestServer(t, n)

	payload, _ := json.Marshal(map[string]string{"message": "hello"})
	resp, err := http.Post(srv.URL+"/send_message", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/get_messages")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var body struct {
			Messages []string `json:"messages"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return len(body.Messages) == 1 && body.Messages[0] == "hello"
	}, time.Second, 10*time.Millisecond)
}

func TestStatusRoute(t *testing.T) {
	n := node.New(nil)
	srv := newTestServer(t, n)

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Subject", body.Role)
	assert.Equal(t, n.ID().String(), body.ID)
}

func TestTakeDownAndBringBackUpRoutes(t *testing.T) {
	dw := node.NewDownWrapper(node.New(nil))
	srv := newTestServer(t, dw)

	resp, err := http.Post(srv.URL+"/take_down", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, dw.IsDown())

	resp, err = http.Post(srv.URL+"/bring_back_up", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, dw.IsDown())
}

func TestTakeDownRejectedForPlainNode(t *testing.T) {
	srv := newTestServer(t, node.New(nil))

	resp, err := http.Post(srv.URL+"/take_down", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
