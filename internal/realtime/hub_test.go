package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubBroadcastOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, ChannelSync)

	hub.Broadcast(SSEMessage{Channel: ChannelSync, Event: SSEEventSyncStarted, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: ChannelSync, Event: SSEEventSyncFinished, Data: map[string]any{"seq": 2}})

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if gotFirst.Event != SSEEventSyncStarted {
		t.Fatalf("first event: want=%s got=%s", SSEEventSyncStarted, gotFirst.Event)
	}
	if gotSecond.Event != SSEEventSyncFinished {
		t.Fatalf("second event: want=%s got=%s", SSEEventSyncFinished, gotSecond.Event)
	}

	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, ChannelSync)
	hub.Broadcast(SSEMessage{Channel: ChannelSync, Event: SSEEventSyncFailed, Data: map[string]any{"seq": 3}})
	gotReconnect := recvMessage(t, clientB.Outbound, time.Second)
	if gotReconnect.Event != SSEEventSyncFailed {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventSyncFailed, gotReconnect.Event)
	}
}

func TestSSEHubPublishWithoutBusBroadcastsLocally(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, ChannelSync)

	hub.Publish(ChannelSync, string(SSEEventSyncStarted), map[string]any{"days": 7})

	got := recvMessage(t, client.Outbound, time.Second)
	if got.Event != SSEEventSyncStarted {
		t.Fatalf("event: %s", got.Event)
	}
	data, ok := got.Data.(map[string]any)
	if !ok || data["days"] != 7 {
		t.Fatalf("payload: %#v", got.Data)
	}
}

func TestSSEHubBroadcastUnknownChannelDropsMessage(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, ChannelSync)

	hub.Broadcast(SSEMessage{Channel: "other", Event: SSEEventSyncStarted})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("unexpected message %v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
