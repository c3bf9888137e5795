package node

import (
	"fmt"

	"github.com/mathdee/quorum/internal/quorum/types"
)

// Member is what a Cluster needs from a cluster element: the ordinary
// Peer RPC surface, plus enough to answer "are you the leader?" from the
// outside. Both *Node and *DownWrapper implement it.
type Member interface {
	types.Peer
	RoleView() fmt.Stringer
}

// Underlying returns the *Node driving m's run loop, unwrapping a
// DownWrapper if necessary. Used by Cluster to start run loops and wire
// up the full peer mesh.
func Underlying(m Member) *Node {
	switch v := m.(type) {
	case *Node:
		return v
	case *DownWrapper:
		return v.Unwrap()
	default:
		return nil
	}
}
