// Package registry holds the in-memory state shared by all connections: which
// peers are online and which rooms they occupy. All state is volatile; a
// process restart starts from zero.
package registry

import (
	"errors"
	"sync"

	"github.com/peerhaven/signaling/internal/models"
)

var (
	ErrDuplicateConnection = errors.New("registry: connection id already registered")
	ErrUnknownConnection   = errors.New("registry: unknown connection")
)

// Sender is the delivery handle for a live connection. Deliver enqueues the
// message without blocking and reports false if the message had to be dropped.
type Sender interface {
	ID() string
	Deliver(msg models.ServerMessage) bool
}

type connection struct {
	sender Sender
	rooms  map[string]struct{}
}

// Connections tracks every live connection and the set of rooms it has joined.
type Connections struct {
	mu    sync.RWMutex
	conns map[string]*connection
}

func NewConnections() *Connections {
	return &Connections{conns: make(map[string]*connection)}
}

// Register adds a new connection with an empty room set.
func (c *Connections) Register(s Sender) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.conns[s.ID()]; ok {
		return ErrDuplicateConnection
	}
	c.conns[s.ID()] = &connection{
		sender: s,
		rooms:  make(map[string]struct{}),
	}
	return nil
}

// Unregister removes the connection and returns a snapshot of its room set so
// the caller can clean up room memberships.
func (c *Connections) Unregister(id string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, ok := c.conns[id]
	if !ok {
		return nil, ErrUnknownConnection
	}
	delete(c.conns, id)

	rooms := make([]string, 0, len(conn.rooms))
	for room := range conn.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// RoomsOf returns the connection's current room set.
func (c *Connections) RoomsOf(id string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conn, ok := c.conns[id]
	if !ok {
		return nil, ErrUnknownConnection
	}
	rooms := make([]string, 0, len(conn.rooms))
	for room := range conn.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// RecordJoin marks the connection as a member of roomID.
func (c *Connections) RecordJoin(id, roomID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, ok := c.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	conn.rooms[roomID] = struct{}{}
	return nil
}

// RecordLeave removes roomID from the connection's room set. Leaving a room
// that was never joined, or recording a leave for a connection that is already
// gone, is a no-op; cleanup paths call this unconditionally.
func (c *Connections) RecordLeave(id, roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if conn, ok := c.conns[id]; ok {
		delete(conn.rooms, roomID)
	}
}

// Sender returns the delivery handle for id.
func (c *Connections) Sender(id string) (Sender, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	conn, ok := c.conns[id]
	if !ok {
		return nil, false
	}
	return conn.sender, true
}

// Senders returns the delivery handles of every registered connection.
func (c *Connections) Senders() []Sender {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Sender, 0, len(c.conns))
	for _, conn := range c.conns {
		out = append(out, conn.sender)
	}
	return out
}
