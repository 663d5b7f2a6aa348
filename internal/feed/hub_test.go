package feed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/widget-assist/internal/domain"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Count() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d subscribers, have %d", want, h.Count())
}

func TestHubDeliversSubmissionOverWebSocket(t *testing.T) {
	hub := NewHub([]string{"*"}, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	waitForCount(t, hub, 1)

	hub.Publish(&domain.Submission{ID: "sub-1", WidgetName: "ContactForm", Channel: "email", Value: "a@b.com"})

	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageText, typ)

	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	require.Equal(t, "submission", event.Type)
	require.NotNil(t, event.Submission)
	require.Equal(t, "sub-1", event.Submission.ID)
	require.Equal(t, "ContactForm", event.Submission.WidgetName)
}

func TestHubUnsubscribesOnClientClose(t *testing.T) {
	hub := NewHub([]string{"*"}, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	waitForCount(t, hub, 1)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	waitForCount(t, hub, 0)
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub(nil, nil)
	sub, ok := hub.subscribe()
	require.True(t, ok)

	for i := 0; i <= DefaultBufferSize; i++ {
		hub.Publish(&domain.Submission{ID: "x"})
	}

	require.Equal(t, 0, hub.Count())
	require.Equal(t, websocket.StatusPolicyViolation, hub.closeReason(sub))

	// Buffered events are still drained before the closed channel reports !ok.
	drained := 0
	for range sub.ch {
		drained++
	}
	require.Equal(t, DefaultBufferSize, drained)
}

func TestHubCloseRejectsNewSubscribers(t *testing.T) {
	hub := NewHub(nil, nil)
	sub, ok := hub.subscribe()
	require.True(t, ok)

	hub.Close()

	_, open := <-sub.ch
	require.False(t, open)
	require.Equal(t, websocket.StatusGoingAway, hub.closeReason(sub))

	_, ok = hub.subscribe()
	require.False(t, ok)

	// Unsubscribing an already removed subscriber is a no-op.
	hub.unsubscribe(sub)
}
