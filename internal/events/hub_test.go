package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublishedEvents(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(TopicFavorites)

	select {
	case ev := <-ch:
		assert.Equal(t, TopicFavorites, ev.Topic)
		assert.WithinDuration(t, time.Now(), ev.At, time.Second)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	cancel()

	// Channel is closed on cancel; publishing afterwards must not panic.
	hub.Publish(TopicTimeline)

	_, open := <-ch
	assert.False(t, open)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// More events than the subscriber buffer holds; nobody reads.
		for i := 0; i < 100; i++ {
			hub.Publish(TopicTimeline)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestConcurrentPublishesToOneConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterConn(7, conn)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.ConnCount() == 1 },
		time.Second, 5*time.Millisecond)

	// Handler goroutines and background detail fetches publish at the
	// same time; every event must reach the single connection intact.
	const publishers = 8
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(TopicTimeline)
		}()
	}
	wg.Wait()

	for i := 0; i < publishers; i++ {
		require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev Event
		require.NoError(t, client.ReadJSON(&ev))
		assert.Equal(t, TopicTimeline, ev.Topic)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	hub.Publish(TopicFavorites)

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			require.Equal(t, TopicFavorites, ev.Topic)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed event")
		}
	}
}
