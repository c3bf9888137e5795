package quorumhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mathdee/quorum/internal/quorum/types"
)

// rpcTimeout bounds the unary Heartbeat/RequestVote calls, which take no
// context in the Peer interface.
const rpcTimeout = 2 * time.Second

// RemoteNode implements types.Peer by calling another process's
// quorumhttp.Server over HTTP. Its identity is derived deterministically
// from its base URL (a SHA1-based UUID, the Go analogue of the original
// client's hash(self._url)) so two RemoteNode values pointed at the same
// peer always agree on its id without an extra round trip.
type RemoteNode struct {
	baseURL string
	id      types.ID
	client  *http.Client
}

// NewRemoteNode builds a RemoteNode for the peer reachable at baseURL
// (e.g. "http://10.0.0.2:8080").
func NewRemoteNode(baseURL string) *RemoteNode {
	trimmed := strings.TrimRight(baseURL, "/")
	return &RemoteNode{
		baseURL: trimmed,
		id:      uuid.NewSHA1(uuid.Nil, []byte(trimmed)),
		client:  &http.Client{Timeout: rpcTimeout},
	}
}

// ID returns the peer's derived identity.
func (n *RemoteNode) ID() types.ID { return n.id }

// Heartbeat POSTs /heartbeat. A transport failure is treated as an
// unacknowledged heartbeat rather than a panic - an unreachable peer
// looks exactly like one that's simply down.
func (n *RemoteNode) Heartbeat() types.HeartbeatResponse {
	resp, err := n.client.Post(n.baseURL+"/heartbeat", "application/json", nil)
	if err != nil {
		return types.HeartbeatResponse{}
	}
	defer resp.Body.Close()

	var body struct {
		Acknowledged bool `json:"acknowledged"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return types.HeartbeatResponse{Acknowledged: body.Acknowledged}
}

// RequestVote POSTs /request_vote. A transport failure counts as a
// declined vote.
func (n *RemoteNode) RequestVote() bool {
	resp, err := n.client.Post(n.baseURL+"/request_vote", "application/json", nil)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var body struct {
		Vote bool `json:"vote"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return body.Vote
}

// SendMessage POSTs /send_message, carrying ctx so the 500ms leader
// distribution deadline applies across the wire too.
func (n *RemoteNode) SendMessage(ctx context.Context, m types.Message) error {
	payload, err := json.Marshal(sendMessageRequest{Message: string(m)})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/send_message", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("quorumhttp: send_message to %s: %w", n.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quorumhttp: send_message to %s: unexpected status %d", n.baseURL, resp.StatusCode)
	}
	return nil
}

// GetMessages GETs /get_messages.
func (n *RemoteNode) GetMessages(ctx context.Context) ([]types.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/get_messages", nil)
	if err != nil {
		return nil, err
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quorumhttp: get_messages from %s: %w", n.baseURL, err)
	}
	defer resp.Body.Close()

	var body struct {
		Messages []string `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	out := make([]types.Message, len(body.Messages))
	for i, m := range body.Messages {
		out[i] = types.Message(m)
	}
	return out, nil
}
