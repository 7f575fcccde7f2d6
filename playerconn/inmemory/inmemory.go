// Package inmemory provides a minimal PlayerConnections implementation
// backed by per-player message slices, useful for tests and for the demo
// command: no network, no serialisation, just a recorder a test can
// drain synchronously.
package inmemory

import (
	"sync"

	"parcelec-core/ids"
	"parcelec-core/playerconn"
)

// Connections records every message sent to each player and to the
// broadcast stream, guarded by a single mutex — this is a single-writer
// actor in spirit, just without its own goroutine, since tests read
// its state directly rather than through messages.
type Connections struct {
	mu        sync.Mutex
	perPlayer map[ids.PlayerId][]playerconn.PlayerMessage
	broadcast []playerconn.PlayerMessage
}

// New creates an empty recorder.
func New() *Connections {
	return &Connections{perPlayer: make(map[ids.PlayerId][]playerconn.PlayerMessage)}
}

func (c *Connections) SendToPlayer(_ ids.GameId, player ids.PlayerId, message playerconn.PlayerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perPlayer[player] = append(c.perPlayer[player], message)
}

func (c *Connections) SendToAllPlayers(_ ids.GameId, message playerconn.PlayerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broadcast = append(c.broadcast, message)
}

// MessagesFor returns a copy of every message sent directly to player.
func (c *Connections) MessagesFor(player ids.PlayerId) []playerconn.PlayerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]playerconn.PlayerMessage, len(c.perPlayer[player]))
	copy(out, c.perPlayer[player])
	return out
}

// Broadcasts returns a copy of every message sent to all players.
func (c *Connections) Broadcasts() []playerconn.PlayerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]playerconn.PlayerMessage, len(c.broadcast))
	copy(out, c.broadcast)
	return out
}
