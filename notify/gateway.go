package notify

import (
	"sync"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

// PresenceGateway owns the lifecycle of realtime connections: registration,
// room subscriptions and presence broadcasting. It speaks to connections only
// through the fan-out's Emitter, the transport lives in the websocket
// endpoint.
type PresenceGateway struct {
	Directory *RoomDirectory
	Fanout    *EventFanout

	mutex     sync.Mutex
	connUsers map[string]types.ID
}

func NewPresenceGateway() *PresenceGateway {
	directory := NewRoomDirectory()
	return &PresenceGateway{
		Directory: directory,
		Fanout:    NewEventFanout(directory),
		connUsers: map[string]types.ID{},
	}
}

// Register attaches a new connection for the user and announces presence to
// the user's status watchers.
func (g *PresenceGateway) Register(connId string, userId types.ID, emitter Emitter) {
	g.mutex.Lock()
	g.connUsers[connId] = userId
	g.mutex.Unlock()

	g.Fanout.AttachEmitter(connId, emitter)
	g.Fanout.Publish(StatusRoom(userId), EventSetStatusOnline, StatusOnline{UserID: userId, Online: true})
	logrus.Info("connection registered: ", connId, " user ", userId)
}

// Unregister tears down every room subscription of the connection and
// announces the user going offline.
func (g *PresenceGateway) Unregister(connId string) {
	g.mutex.Lock()
	userId, found := g.connUsers[connId]
	delete(g.connUsers, connId)
	g.mutex.Unlock()

	g.Directory.DropConn(connId)
	g.Fanout.DetachEmitter(connId)
	if found {
		g.Fanout.Publish(StatusRoom(userId), EventSetStatusOnline, StatusOnline{UserID: userId, Online: false})
	}
	logrus.Info("connection unregistered: ", connId)
}

// ConnUser resolves the user a connection was registered for.
func (g *PresenceGateway) ConnUser(connId string) (types.ID, bool) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	userId, found := g.connUsers[connId]
	return userId, found
}

func (g *PresenceGateway) JoinRoom(connId string, entityType string, entityId types.ID) {
	g.Directory.Join(connId, EntityRoom(entityType, entityId))
}

func (g *PresenceGateway) LeaveRoom(connId string, entityType string, entityId types.ID) {
	g.Directory.Leave(connId, EntityRoom(entityType, entityId))
}

func (g *PresenceGateway) JoinPersonalRoom(connId string, userId types.ID) {
	g.Directory.Join(connId, PersonalRoom(userId))
}

func (g *PresenceGateway) LeavePersonalRoom(connId string, userId types.ID) {
	g.Directory.Leave(connId, PersonalRoom(userId))
}

func (g *PresenceGateway) SubscribeToStatus(connId string, userId types.ID) {
	g.Directory.Join(connId, StatusRoom(userId))
}

func (g *PresenceGateway) UnsubscribeFromStatus(connId string, userId types.ID) {
	g.Directory.Leave(connId, StatusRoom(userId))
}

// RelayTyping forwards a composing indicator into the entity room.
func (g *PresenceGateway) RelayTyping(userId types.ID, entityType string, entityId types.ID, stopped bool) {
	event := EventTyping
	if stopped {
		event = EventStopTyping
	}
	g.Fanout.Publish(EntityRoom(entityType, entityId), event, Typing{UserID: userId, SmthID: entityId, Type: entityType})
}

// NotifyChatUpdated publishes a content change into the entity room.
func (g *PresenceGateway) NotifyChatUpdated(entityType string, entityId types.ID, payload ChatUpdated) {
	g.Fanout.Publish(EntityRoom(entityType, entityId), EventChatUpdated, payload)
}

// NotifyUserChats publishes a chat-list change into the user's personal room.
func (g *PresenceGateway) NotifyUserChats(userId types.ID, payload UserChats) {
	g.Fanout.Publish(PersonalRoom(userId), EventUserChats, payload)
}

// NotifyUserEdited publishes a profile change of the user into every entity
// room the argument lists.
func (g *PresenceGateway) NotifyUserEdited(rooms []RoomKey, payload interface{}) {
	for _, room := range rooms {
		g.Fanout.Publish(room, EventEditUser, payload)
	}
}
