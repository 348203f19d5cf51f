package live

import (
	"context"
	"log"
	"net/http"
	"time"

	"rallytimesbot/pkg/caster"
	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/pubsub"
	"rallytimesbot/pkg/queues"

	"github.com/gorilla/websocket"
)

const (
	backlogSize  = 20
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed streams record events to websocket clients. New clients first receive
// the most recent events.
type Feed struct {
	events  *pubsub.PubSub[model.RecordEvent]
	backlog *queues.Queue[model.RecordEvent]
	caster  caster.ChannelCaster[model.RecordEvent]
}

func NewFeed(events *pubsub.PubSub[model.RecordEvent]) *Feed {
	return &Feed{
		events:  events,
		backlog: queues.NewQueue[model.RecordEvent](backlogSize),
		caster:  caster.JSONChannelCaster[model.RecordEvent]{},
	}
}

// Start keeps the backlog up to date until ctx is done.
func (f *Feed) Start(ctx context.Context) {
	ch := f.events.Subscribe(pubsub.TopicRecords)
	go func() {
		defer f.events.Unsubscribe(pubsub.TopicRecords, ch)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				f.backlog.Push(ev)
			}
		}
	}()
}

func (f *Feed) Backlog() []model.RecordEvent {
	return f.backlog.Items()
}

func (f *Feed) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Print("upgrade:", err)
			return
		}
		defer c.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// the client never sends anything useful, reading only detects the close
		go func() {
			defer cancel()
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ch := f.events.Subscribe(pubsub.TopicRecords)
		defer f.events.Unsubscribe(pubsub.TopicRecords, ch)

		for _, ev := range f.backlog.Items() {
			if err := f.write(c, ev); err != nil {
				log.Println("write:", err)
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if err := f.write(c, ev); err != nil {
					log.Println("write:", err)
					return
				}
			}
		}
	}
}

func (f *Feed) write(c *websocket.Conn, ev model.RecordEvent) error {
	payload, err := f.caster.To(ev)
	if err != nil {
		return err
	}
	c.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.WriteMessage(websocket.TextMessage, []byte(payload))
}
