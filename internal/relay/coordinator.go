// Package relay implements the signaling core: each inbound transport event is
// dispatched as a command to the Coordinator, which updates the connection and
// room registries and emits a bounded set of notifications through the router.
package relay

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/peerhaven/signaling/internal/models"
	"github.com/peerhaven/signaling/internal/registry"
	"github.com/peerhaven/signaling/internal/router"
)

// Coordinator handles the lifecycle of every signaling connection. Commands
// from a single connection are expected to arrive in order (the transport
// calls from one goroutine per connection); commands from different
// connections run concurrently and are serialized by the registries.
type Coordinator struct {
	conns  *registry.Connections
	rooms  *registry.Rooms
	router *router.Router
}

func NewCoordinator() *Coordinator {
	conns := registry.NewConnections()
	rooms := registry.NewRooms()
	return &Coordinator{
		conns:  conns,
		rooms:  rooms,
		router: router.New(conns, rooms),
	}
}

// Rooms exposes the room registry for read-only HTTP handlers.
func (c *Coordinator) Rooms() *registry.Rooms {
	return c.rooms
}

// Connect registers a new connection.
func (c *Coordinator) Connect(s registry.Sender) error {
	if err := c.conns.Register(s); err != nil {
		return err
	}
	log.Printf("Peer connected: %s", s.ID())
	return nil
}

// Disconnect tears down a connection after transport loss: every room the
// connection belonged to is notified that the peer left, then the memberships
// and the connection itself are discarded.
func (c *Coordinator) Disconnect(id string) {
	rooms, err := c.conns.Unregister(id)
	if err != nil {
		return
	}

	for _, roomID := range rooms {
		c.router.Route(router.Envelope{
			From: id,
			Dest: router.Room(roomID),
			Msg: models.ServerMessage{
				Type: models.ServerTypePeerLeft,
				Room: roomID,
				From: id,
			},
		})
		c.rooms.Leave(roomID, id)
	}
	log.Printf("Peer disconnected: %s", id)
}

// HandleCommand parses and dispatches one raw inbound message from id.
// Malformed commands produce an error notification to the sender only.
func (c *Coordinator) HandleCommand(id string, raw []byte) {
	var msg models.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError(id, "invalid message")
		return
	}

	switch msg.Type {
	case models.ClientTypeCreateOrJoin:
		if msg.Room == "" {
			c.sendError(id, "create-or-join requires a room")
			return
		}
		c.CreateOrJoin(id, msg.Room)
	case models.ClientTypeLeaveRoom:
		if msg.Room == "" {
			c.sendError(id, "leave-room requires a room")
			return
		}
		c.LeaveRoom(id, msg.Room)
	case models.ClientTypeKickout:
		if msg.Room == "" || msg.To == "" {
			c.sendError(id, "kickout requires a room and a target")
			return
		}
		c.Kickout(id, msg.Room, msg.To)
	case models.ClientTypeMessage:
		c.Message(id, msg.Payload, msg.To, msg.Room)
	default:
		c.sendError(id, "unknown message type")
	}
}

// CreateOrJoin places id in roomID, creating the room when it is the first
// joiner. The second joiner completes the pair and triggers a ready
// notification to every member; a third is rejected with room-full.
func (c *Coordinator) CreateOrJoin(id, roomID string) {
	res, alreadyMember, err := c.rooms.CreateOrJoin(roomID, id)
	if err != nil {
		// Room is full; the requester keeps whatever state it had.
		c.deliver(id, models.ServerMessage{
			Type: models.ServerTypeRoomFull,
			Room: roomID,
		})
		log.Printf("Room %s is full, %s could not join", roomID, id)
		return
	}

	if alreadyMember {
		// Repeat request from a current member: re-confirm the original
		// outcome without re-announcing ready to the room.
		typ := models.ServerTypeJoined
		if res == registry.Created {
			typ = models.ServerTypeCreated
		}
		c.deliver(id, models.ServerMessage{Type: typ, Room: roomID, From: id})
		return
	}

	if err := c.conns.RecordJoin(id, roomID); err != nil {
		// Connection vanished between the join and the record; undo.
		c.rooms.Leave(roomID, id)
		return
	}

	switch res {
	case registry.Created:
		c.deliver(id, models.ServerMessage{
			Type: models.ServerTypeCreated,
			Room: roomID,
			From: id,
		})
		log.Printf("Room %s created by %s", roomID, id)
	case registry.Joined:
		c.deliver(id, models.ServerMessage{
			Type: models.ServerTypeJoined,
			Room: roomID,
			From: id,
		})
		// Both memberships are recorded at this point, so ready cannot be
		// observed before membership. The joiner gets it too.
		ready := models.ServerMessage{
			Type: models.ServerTypeReady,
			Room: roomID,
			From: id,
		}
		c.router.Route(router.Envelope{From: id, Dest: router.Room(roomID), Msg: ready})
		c.deliver(id, ready)
		log.Printf("Peer %s joined room %s", id, roomID)
	}
}

// LeaveRoom removes id from roomID. Any member may leave; the departure is
// confirmed to the leaver and broadcast to the remaining members.
func (c *Coordinator) LeaveRoom(id, roomID string) {
	c.rooms.Leave(roomID, id)
	c.conns.RecordLeave(id, roomID)

	c.deliver(id, models.ServerMessage{
		Type: models.ServerTypeLeftRoom,
		Room: roomID,
	})
	c.router.Route(router.Envelope{
		From: id,
		Dest: router.Room(roomID),
		Msg: models.ServerMessage{
			Type: models.ServerTypePeerLeft,
			Room: roomID,
			From: id,
		},
	})
	log.Printf("Peer %s left room %s", id, roomID)
}

// Kickout evicts targetID from roomID on behalf of id. Only the room admin may
// kick; an unauthorized attempt is reported to the requester and nothing else.
func (c *Coordinator) Kickout(id, roomID, targetID string) {
	if err := c.rooms.Kick(roomID, id, targetID); err != nil {
		c.sendError(id, "only the room admin can kick peers")
		log.Printf("Kickout of %s from %s denied for %s", targetID, roomID, id)
		return
	}
	// Kick checks authorization and removes the target under one room lock.
	// The target hears about the eviction before its membership record goes.
	c.deliver(targetID, models.ServerMessage{
		Type: models.ServerTypeKickedOut,
		Room: roomID,
	})
	c.conns.RecordLeave(targetID, roomID)
	log.Printf("Peer %s was kicked out of room %s by %s", targetID, roomID, id)
}

// Message relays an application payload. A target id selects direct delivery,
// a room selects a room broadcast, and neither selects a global broadcast.
func (c *Coordinator) Message(id string, payload json.RawMessage, toID, roomID string) {
	msg := models.ServerMessage{
		Type:    models.ServerTypeMessage,
		From:    id,
		Payload: payload,
	}

	var dest router.Destination
	switch {
	case toID != "":
		dest = router.Direct(toID)
	case roomID != "":
		dest = router.Room(roomID)
	default:
		dest = router.Global()
	}

	if err := c.router.Route(router.Envelope{From: id, Dest: dest, Msg: msg}); err != nil {
		if errors.Is(err, router.ErrTargetUnreachable) {
			c.sendError(id, "target peer is not connected")
		}
	}
}

func (c *Coordinator) deliver(id string, msg models.ServerMessage) {
	c.router.Route(router.Envelope{Dest: router.Direct(id), Msg: msg})
}

func (c *Coordinator) sendError(id, reason string) {
	c.deliver(id, models.ServerMessage{
		Type:  models.ServerTypeError,
		Error: reason,
	})
}
