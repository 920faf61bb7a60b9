// Package router resolves outbound envelopes to their destination connections.
//
// Three addressing modes are supported: direct to a single connection, a
// broadcast to a room, and a broadcast to every connection. Broadcasts never
// echo back to the sender. Delivery to any single destination preserves the
// sender's call order; the underlying per-connection queues are FIFO and Route
// is called synchronously from the sender's event loop.
package router

import (
	"errors"
	"log"

	"github.com/peerhaven/signaling/internal/models"
	"github.com/peerhaven/signaling/internal/registry"
)

// ErrTargetUnreachable reports a direct envelope whose target is not
// currently connected. It is recoverable; the caller is expected to notify
// the sender and carry on.
var ErrTargetUnreachable = errors.New("router: target connection not reachable")

type destKind int

const (
	destDirect destKind = iota
	destRoom
	destGlobal
)

// Destination describes where an envelope should be delivered.
type Destination struct {
	kind   destKind
	target string
}

// Direct addresses exactly one connection.
func Direct(connID string) Destination {
	return Destination{kind: destDirect, target: connID}
}

// Room addresses every member of a room except the sender.
func Room(roomID string) Destination {
	return Destination{kind: destRoom, target: roomID}
}

// Global addresses every registered connection except the sender.
func Global() Destination {
	return Destination{kind: destGlobal}
}

// Envelope pairs a prepared notification with its sender and destination.
type Envelope struct {
	From string
	Dest Destination
	Msg  models.ServerMessage
}

// Router delivers envelopes using the connection and room registries for
// destination lookup.
type Router struct {
	conns *registry.Connections
	rooms *registry.Rooms
}

func New(conns *registry.Connections, rooms *registry.Rooms) *Router {
	return &Router{conns: conns, rooms: rooms}
}

// Route delivers env to its destination. A direct envelope to an absent
// connection returns ErrTargetUnreachable; broadcasts to empty or unknown
// rooms are no-ops.
func (r *Router) Route(env Envelope) error {
	switch env.Dest.kind {
	case destDirect:
		sender, ok := r.conns.Sender(env.Dest.target)
		if !ok {
			return ErrTargetUnreachable
		}
		r.deliver(sender, env.Msg)
		return nil

	case destRoom:
		for _, member := range r.rooms.MembersOf(env.Dest.target) {
			if member == env.From {
				continue
			}
			if sender, ok := r.conns.Sender(member); ok {
				r.deliver(sender, env.Msg)
			}
		}
		return nil

	default:
		for _, sender := range r.conns.Senders() {
			if sender.ID() == env.From {
				continue
			}
			r.deliver(sender, env.Msg)
		}
		return nil
	}
}

func (r *Router) deliver(s registry.Sender, msg models.ServerMessage) {
	if !s.Deliver(msg) {
		log.Printf("Dropped %s message for peer %s, send queue full", msg.Type, s.ID())
	}
}
