package live

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rallytimesbot/pkg/caster"
	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/pubsub"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEvent(t *testing.T, c *websocket.Conn) model.RecordEvent {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	ev, err := caster.JSONChannelCaster[model.RecordEvent]{}.From(string(data))
	require.NoError(t, err)
	return ev
}

func TestFeed_BacklogThenLive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := pubsub.NewPubSub[model.RecordEvent]()
	feed := NewFeed(events)
	feed.Start(ctx)

	events.Publish(pubsub.TopicRecords, model.RecordEvent{ID: "1", Type: model.EventInserted, Leader: "Colin McRae"})
	require.Eventually(t, func() bool { return len(feed.Backlog()) == 1 }, time.Second, 10*time.Millisecond)

	srv := httptest.NewServer(feed.Handler())
	defer srv.Close()

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer c.Close()

	first := readEvent(t, c)
	assert.Equal(t, "1", first.ID)

	events.Publish(pubsub.TopicRecords, model.RecordEvent{ID: "2", Type: model.EventReset})
	second := readEvent(t, c)
	assert.Equal(t, "2", second.ID)
	assert.Equal(t, model.EventReset, second.Type)
}

func TestFeed_BacklogIsBounded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := pubsub.NewPubSub[model.RecordEvent]()
	feed := NewFeed(events)
	feed.Start(ctx)

	for i := 0; i < backlogSize+5; i++ {
		events.Publish(pubsub.TopicRecords, model.RecordEvent{Type: model.EventInserted})
	}
	require.Eventually(t, func() bool { return len(feed.Backlog()) == backlogSize }, time.Second, 10*time.Millisecond)
}
