package models

import "encoding/json"

// ClientType identifies a command sent by a connected peer.
type ClientType string

const (
	ClientTypeCreateOrJoin ClientType = "create-or-join"
	ClientTypeLeaveRoom    ClientType = "leave-room"
	ClientTypeKickout      ClientType = "kickout"
	ClientTypeMessage      ClientType = "message"
)

// ClientMessage is an inbound command from a peer.
//
// Which fields are required depends on the type: create-or-join and leave-room
// need Room, kickout needs Room and To, and message uses To/Room to pick the
// addressing mode (direct, room broadcast, or global broadcast).
type ClientMessage struct {
	Type    ClientType      `json:"type"`
	Room    string          `json:"room,omitempty"`
	To      string          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerType identifies a notification sent to a connected peer.
type ServerType string

const (
	ServerTypeConnected ServerType = "connected"
	ServerTypeCreated   ServerType = "created"
	ServerTypeJoined    ServerType = "joined"
	ServerTypeReady     ServerType = "ready"
	ServerTypeRoomFull  ServerType = "room-full"
	ServerTypeLeftRoom  ServerType = "left-room"
	ServerTypeKickedOut ServerType = "kicked-out"
	ServerTypePeerLeft  ServerType = "peer-left"
	ServerTypeMessage   ServerType = "message"
	ServerTypeError     ServerType = "error"
)

// ServerMessage is an outbound notification to a peer.
type ServerMessage struct {
	Type    ServerType      `json:"type"`
	Room    string          `json:"room,omitempty"`
	From    string          `json:"from,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// RoomInfo is the occupancy snapshot returned by the room info endpoint.
type RoomInfo struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
	Admin   string   `json:"admin"`
	Full    bool     `json:"full"`
}
