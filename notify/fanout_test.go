package notify_test

import (
	"converse/notify"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

type recorder struct {
	mutex  sync.Mutex
	events []string
}

func (r *recorder) emitter() notify.Emitter {
	return func(event string, payload interface{}) error {
		r.mutex.Lock()
		defer r.mutex.Unlock()
		r.events = append(r.events, event)
		return nil
	}
}

func (r *recorder) snapshot() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string{}, r.events...)
}

func TestEventFanout(t *testing.T) {
	RegisterTestingT(t)

	t.Run("publish should reach every connection of the room and nobody else", func(t *testing.T) {
		directory := notify.NewRoomDirectory()
		fanout := notify.NewEventFanout(directory)
		room := notify.EntityRoom(notify.RoomTypeGroup, 100)

		inRoom, alsoInRoom, outside := &recorder{}, &recorder{}, &recorder{}
		fanout.AttachEmitter("conn-1", inRoom.emitter())
		fanout.AttachEmitter("conn-2", alsoInRoom.emitter())
		fanout.AttachEmitter("conn-3", outside.emitter())
		directory.Join("conn-1", room)
		directory.Join("conn-2", room)
		directory.Join("conn-3", notify.EntityRoom(notify.RoomTypeGroup, 200))

		fanout.Publish(room, notify.EventChatUpdated, notify.ChatUpdated{Event: notify.ChangeAdd, SmthID: 100, Type: notify.RoomTypeGroup})

		Eventually(inRoom.snapshot).Should(Equal([]string{notify.EventChatUpdated}))
		Eventually(alsoInRoom.snapshot).Should(Equal([]string{notify.EventChatUpdated}))
		Consistently(outside.snapshot, 100*time.Millisecond).Should(BeEmpty())
	})

	t.Run("a failing connection never poisons the others", func(t *testing.T) {
		directory := notify.NewRoomDirectory()
		fanout := notify.NewEventFanout(directory)
		room := notify.EntityRoom(notify.RoomTypeGroup, 100)

		healthy := &recorder{}
		fanout.AttachEmitter("conn-bad", func(event string, payload interface{}) error {
			return errors.New("connection gone")
		})
		fanout.AttachEmitter("conn-good", healthy.emitter())
		directory.Join("conn-bad", room)
		directory.Join("conn-good", room)

		fanout.Publish(room, notify.EventUserChats, notify.UserChats{Event: notify.ChangeAdd, Type: notify.RoomTypeGroup, SmthID: 100})

		Eventually(healthy.snapshot).Should(Equal([]string{notify.EventUserChats}))
	})

	t.Run("a detached connection is skipped even while still in the room", func(t *testing.T) {
		directory := notify.NewRoomDirectory()
		fanout := notify.NewEventFanout(directory)
		room := notify.EntityRoom(notify.RoomTypeGroup, 100)

		r := &recorder{}
		fanout.AttachEmitter("conn-1", r.emitter())
		directory.Join("conn-1", room)
		fanout.DetachEmitter("conn-1")

		fanout.Publish(room, notify.EventChatUpdated, nil)
		Consistently(r.snapshot, 100*time.Millisecond).Should(BeEmpty())
	})
}
