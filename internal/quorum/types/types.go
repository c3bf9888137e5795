// Package types holds the small shared vocabulary that the quorum
// packages (role, messagebox, node, cluster) all need without
// importing each other: peer identity, the wire-level message type,
// and the narrow RPC surface a node exposes to its peers.
package types

import (
	"context"

	"github.com/google/uuid"
)

// ID identifies a node, in-process or remote, uniquely within a cluster.
type ID = uuid.UUID

// Message is a single unit of application data moved through a MessageBox.
type Message string

// HeartbeatResponse is returned by a Peer's Heartbeat call. It carries no
// term number (see DESIGN.md, Open Question: term numbers) and exists as
// a named type so the RPC surface can grow fields later without breaking
// callers.
type HeartbeatResponse struct {
	Acknowledged bool
}

// Peer is the RPC surface a node exposes to the rest of the cluster. Both
// the in-process Node and the HTTP RemoteNode client implement it, so
// role and cluster code never need to know whether a peer lives in this
// process or across the network.
type Peer interface {
	ID() ID
	Heartbeat() HeartbeatResponse
	RequestVote() bool
	SendMessage(ctx context.Context, m Message) error
	GetMessages(ctx context.Context) ([]Message, error)
}

// PeerSet is the view of the rest of the cluster a node or role operates
// against. It never includes the node's own entry.
type PeerSet map[ID]Peer

// IDs returns the set's keys, useful for logging and test assertions.
func (s PeerSet) IDs() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
