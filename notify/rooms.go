package notify

import (
	"fmt"
	"sync"

	"github.com/fundwit/go-commons/types"
)

// entity types a room can be scoped to
const (
	RoomTypeUser    = "user"
	RoomTypeGroup   = "group"
	RoomTypeChannel = "channel"
	RoomTypeChat    = "chat"
	RoomTypeStatus  = "status"
)

// RoomKey identifies a fan-out scope: an entity conversation, a personal
// room, or a status watch room.
type RoomKey struct {
	EntityType string
	EntityID   types.ID
}

func (k RoomKey) String() string {
	return fmt.Sprintf("%s_%d", k.EntityType, k.EntityID)
}

func EntityRoom(entityType string, entityId types.ID) RoomKey {
	return RoomKey{EntityType: entityType, EntityID: entityId}
}

func PersonalRoom(userId types.ID) RoomKey {
	return RoomKey{EntityType: RoomTypeUser, EntityID: userId}
}

func StatusRoom(userId types.ID) RoomKey {
	return RoomKey{EntityType: RoomTypeStatus, EntityID: userId}
}

// RoomDirectory is the in-memory index of which connection is in which room.
// Both directions are kept under one mutex so they can never drift apart.
type RoomDirectory struct {
	mutex     sync.Mutex
	roomConns map[RoomKey]map[string]bool
	connRooms map[string]map[RoomKey]bool
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{
		roomConns: map[RoomKey]map[string]bool{},
		connRooms: map[string]map[RoomKey]bool{},
	}
}

// Join is idempotent, a second join of the same room is a no-op.
func (d *RoomDirectory) Join(connId string, room RoomKey) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	conns, found := d.roomConns[room]
	if !found {
		conns = map[string]bool{}
		d.roomConns[room] = conns
	}
	conns[connId] = true

	rooms, found := d.connRooms[connId]
	if !found {
		rooms = map[RoomKey]bool{}
		d.connRooms[connId] = rooms
	}
	rooms[room] = true
}

// Leave is idempotent, leaving a room the connection is not in is a no-op.
func (d *RoomDirectory) Leave(connId string, room RoomKey) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.leave(connId, room)
}

// DropConn removes the connection from every room it joined.
func (d *RoomDirectory) DropConn(connId string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for room := range d.connRooms[connId] {
		d.leave(connId, room)
	}
	delete(d.connRooms, connId)
}

// Receivers returns a snapshot of the connections in the room.
func (d *RoomDirectory) Receivers(room RoomKey) []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	conns := d.roomConns[room]
	receivers := make([]string, 0, len(conns))
	for connId := range conns {
		receivers = append(receivers, connId)
	}
	return receivers
}

// Rooms returns a snapshot of the rooms the connection is in.
func (d *RoomDirectory) Rooms(connId string) []RoomKey {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	rooms := make([]RoomKey, 0, len(d.connRooms[connId]))
	for room := range d.connRooms[connId] {
		rooms = append(rooms, room)
	}
	return rooms
}

// caller must hold d.mutex
func (d *RoomDirectory) leave(connId string, room RoomKey) {
	if conns, found := d.roomConns[room]; found {
		delete(conns, connId)
		if len(conns) == 0 {
			delete(d.roomConns, room)
		}
	}
	if rooms, found := d.connRooms[connId]; found {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(d.connRooms, connId)
		}
	}
}
