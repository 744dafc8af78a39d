package notify

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Emitter delivers one event frame to one connection. The websocket endpoint
// provides it; the fan-out itself never touches a socket.
type Emitter func(event string, payload interface{}) error

// EventFanout delivers events to every connection of a room. Emitters are
// registered when a connection attaches and removed on disconnect.
type EventFanout struct {
	directory *RoomDirectory

	mutex    sync.Mutex
	emitters map[string]Emitter
}

func NewEventFanout(directory *RoomDirectory) *EventFanout {
	return &EventFanout{
		directory: directory,
		emitters:  map[string]Emitter{},
	}
}

func (f *EventFanout) AttachEmitter(connId string, emitter Emitter) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.emitters[connId] = emitter
}

func (f *EventFanout) DetachEmitter(connId string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	delete(f.emitters, connId)
}

// Publish sends the event to every connection currently in the room. The
// receiver set is snapshotted first and delivery runs outside any lock, one
// goroutine per connection, so one slow or broken connection never delays or
// poisons the others. Delivery failures are logged and otherwise dropped.
func (f *EventFanout) Publish(room RoomKey, event string, payload interface{}) {
	receivers := f.directory.Receivers(room)
	if len(receivers) == 0 {
		return
	}

	f.mutex.Lock()
	targets := make(map[string]Emitter, len(receivers))
	for _, connId := range receivers {
		if emitter, found := f.emitters[connId]; found {
			targets[connId] = emitter
		}
	}
	f.mutex.Unlock()

	for connId, emitter := range targets {
		go func(connId string, emitter Emitter) {
			if err := emitter(event, payload); err != nil {
				logrus.Warn("failed to emit event ", event, " to connection ", connId, ": ", err)
			}
		}(connId, emitter)
	}
}
