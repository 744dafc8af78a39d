package notify

import (
	"converse/session"
	"net/http"
	"sync"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var (
	PathSocket = "/v1/socket"

	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// client actions carried in the "action" field of inbound frames
const (
	ActionJoinRoom              = "join-room"
	ActionLeaveRoom             = "leave-room"
	ActionJoinPersonalRoom      = "joinPersonalRoom"
	ActionLeavePersonalRoom     = "leavePersonalRoom"
	ActionSubscribeToStatus     = "subscribeToStatus"
	ActionUnsubscribeFromStatus = "unsubscribeFromStatus"
	ActionTyping                = "typing"
	ActionStopTyping            = "stop-typing"
)

type inboundFrame struct {
	Action string   `json:"action"`
	Type   string   `json:"type,omitempty"`
	SmthID types.ID `json:"smthId,omitempty"`
	UserID types.ID `json:"userId,omitempty"`
}

type outboundFrame struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

func RegisterGatewayAPI(r *gin.Engine, gateway *PresenceGateway, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSocket, middleWares...)
	g.GET("", func(c *gin.Context) {
		serveConnection(c, gateway)
	})
}

func serveConnection(c *gin.Context, gateway *PresenceGateway) {
	s := session.ExtractSessionFromGinContext(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Warn("websocket upgrade failed: ", err)
		return
	}
	defer conn.Close()

	connId := uuid.New().String()

	// gorilla allows one concurrent writer only
	var writeMutex sync.Mutex
	emitter := func(event string, payload interface{}) error {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		return conn.WriteJSON(outboundFrame{Event: event, Payload: payload})
	}

	gateway.Register(connId, s.Identity.ID, emitter)
	defer gateway.Unregister(connId)

	for {
		frame := inboundFrame{}
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Warn("websocket read failed on connection ", connId, ": ", err)
			}
			return
		}
		dispatchFrame(gateway, connId, s.Identity.ID, frame)
	}
}

func dispatchFrame(gateway *PresenceGateway, connId string, userId types.ID, frame inboundFrame) {
	switch frame.Action {
	case ActionJoinRoom:
		gateway.JoinRoom(connId, frame.Type, frame.SmthID)
	case ActionLeaveRoom:
		gateway.LeaveRoom(connId, frame.Type, frame.SmthID)
	case ActionJoinPersonalRoom:
		gateway.JoinPersonalRoom(connId, userId)
	case ActionLeavePersonalRoom:
		gateway.LeavePersonalRoom(connId, userId)
	case ActionSubscribeToStatus:
		gateway.SubscribeToStatus(connId, frame.UserID)
	case ActionUnsubscribeFromStatus:
		gateway.UnsubscribeFromStatus(connId, frame.UserID)
	case ActionTyping:
		gateway.RelayTyping(userId, frame.Type, frame.SmthID, false)
	case ActionStopTyping:
		gateway.RelayTyping(userId, frame.Type, frame.SmthID, true)
	default:
		logrus.Debug("unknown action on connection ", connId, ": ", frame.Action)
	}
}
