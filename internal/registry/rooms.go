package registry

import (
	"errors"
	"sync"
)

// RoomCapacity is the fixed member limit per room; rooms pair exactly two
// peers for a one-to-one call.
const RoomCapacity = 2

var (
	ErrRoomFull      = errors.New("registry: room is full")
	ErrNotAuthorized = errors.New("registry: requester is not the room admin")
)

// JoinResult reports the outcome of a successful CreateOrJoin.
type JoinResult int

const (
	// Created means the room did not exist; the caller is now its sole
	// member and admin.
	Created JoinResult = iota
	// Joined means the caller was appended as a member of an existing room.
	Joined
)

type room struct {
	mu      sync.Mutex
	members []string
	admin   string
	// gone marks a room that has been deleted from the map while a
	// concurrent CreateOrJoin still holds a pointer to it.
	gone bool
}

func (r *room) indexOf(connID string) int {
	for i, m := range r.members {
		if m == connID {
			return i
		}
	}
	return -1
}

// Rooms tracks every live room, its members in insertion order, and its admin.
// The map is guarded by mu; member mutations are serialized per room by the
// room's own mutex, so unrelated rooms never block each other on the join path.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]*room)}
}

// CreateOrJoin adds connID to roomID, creating the room if it does not exist.
// The first joiner becomes admin. A repeated call from an existing member is
// idempotent: no second slot is consumed, the original outcome is returned,
// and alreadyMember reports true so callers can suppress join side effects.
// Returns ErrRoomFull, with no state change, if the room already has
// RoomCapacity members.
func (r *Rooms) CreateOrJoin(roomID, connID string) (res JoinResult, alreadyMember bool, err error) {
	for {
		r.mu.Lock()
		rm, ok := r.rooms[roomID]
		if !ok {
			rm = &room{}
			r.rooms[roomID] = rm
		}
		r.mu.Unlock()

		rm.mu.Lock()
		if rm.gone {
			// Deleted between the map lookup and taking the room lock.
			rm.mu.Unlock()
			continue
		}

		switch {
		case len(rm.members) == 0:
			rm.members = append(rm.members, connID)
			rm.admin = connID
			res = Created
		case rm.indexOf(connID) >= 0:
			alreadyMember = true
			if rm.admin == connID {
				res = Created
			} else {
				res = Joined
			}
		case len(rm.members) < RoomCapacity:
			rm.members = append(rm.members, connID)
			res = Joined
		default:
			err = ErrRoomFull
		}
		rm.mu.Unlock()
		return res, alreadyMember, err
	}
}

// Leave removes connID from roomID if present and reports whether it was a
// member. An empty room is deleted; if the departing member was admin and the
// room survives, the oldest remaining member is promoted.
func (r *Rooms) Leave(roomID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	return r.removeLocked(roomID, rm, connID)
}

// Kick removes targetID from roomID on behalf of requesterID. It fails with
// ErrNotAuthorized unless requesterID is the room's current admin; a kick
// against an unknown room fails the same way, since nobody administers it.
func (r *Rooms) Kick(roomID, requesterID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return ErrNotAuthorized
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.admin != requesterID || rm.indexOf(requesterID) < 0 {
		return ErrNotAuthorized
	}
	r.removeLocked(roomID, rm, targetID)
	return nil
}

// removeLocked removes connID from rm, deleting or re-electing as needed.
// Both r.mu (write) and rm.mu must be held.
func (r *Rooms) removeLocked(roomID string, rm *room, connID string) bool {
	i := rm.indexOf(connID)
	if i < 0 {
		return false
	}
	rm.members = append(rm.members[:i], rm.members[i+1:]...)

	if len(rm.members) == 0 {
		rm.gone = true
		delete(r.rooms, roomID)
		return true
	}
	if rm.admin == connID {
		rm.admin = rm.members[0]
	}
	return true
}

// MembersOf returns the room's members in insertion order, empty if the room
// does not exist.
func (r *Rooms) MembersOf(roomID string) []string {
	r.mu.RLock()
	rm, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	out := make([]string, len(rm.members))
	copy(out, rm.members)
	return out
}

// IsAdmin reports whether connID is a member of roomID and its admin.
func (r *Rooms) IsAdmin(roomID, connID string) bool {
	r.mu.RLock()
	rm, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.admin == connID && rm.indexOf(connID) >= 0
}

// Snapshot returns the members and admin of roomID, reporting false if the
// room does not exist.
func (r *Rooms) Snapshot(roomID string) (members []string, admin string, ok bool) {
	r.mu.RLock()
	rm, exists := r.rooms[roomID]
	r.mu.RUnlock()
	if !exists {
		return nil, "", false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.gone {
		return nil, "", false
	}
	members = make([]string, len(rm.members))
	copy(members, rm.members)
	return members, rm.admin, true
}
