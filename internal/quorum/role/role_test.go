package role_test

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mathdee/quorum/internal/quorum/role"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// fakeControl is a minimal role.Control recording every role it's asked
// to change into, so tests can assert on the transition sequence without
// spinning up a real Node.
type fakeControl struct {
	id uuid.UUID

	mu      sync.Mutex
	current role.Role
	changes []role.Role
}

func newFakeControl() *fakeControl {
	return &fakeControl{id: uuid.New()}
}

func (c *fakeControl) ID() types.ID { return c.id }

func (c *fakeControl) ChangeRole(next role.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = next
	c.changes = append(c.changes, next)
}

func (c *fakeControl) lastChange() role.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.changes) == 0 {
		return nil
	}
	return c.changes[len(c.changes)-1]
}

func (c *fakeControl) changeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.changes)
}
