package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/cardsort/internal/events"
)

// ============================================================================
// HELPERS
// ============================================================================

func setupTestDaemon(t *testing.T, opts Options) (*Server, string) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "cardsort.sock")

	server, err := NewServer(socketPath, opts)
	if err != nil {
		t.Fatalf("Failed to create test daemon: %v", err)
	}
	t.Cleanup(func() { _ = server.Shutdown() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() { _ = server.Start(ctx) }()

	return server, socketPath
}

func connectRawClient(t *testing.T, socketPath string) (*json.Encoder, *json.Decoder) {
	t.Helper()

	conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", socketPath)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return json.NewEncoder(conn), json.NewDecoder(conn)
}

func subscribe(t *testing.T, encoder *json.Encoder, ownerID string) {
	t.Helper()
	msg := events.Message{
		Version:   events.ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &events.SubscribeMessage{OwnerID: ownerID},
	}
	if err := encoder.Encode(msg); err != nil {
		t.Fatalf("Failed to send subscribe: %v", err)
	}
}

// readMessage decodes the next message or fails after timeout
func readMessage(t *testing.T, decoder *json.Decoder, timeout time.Duration) (events.Message, bool) {
	t.Helper()
	got := make(chan events.Message, 1)
	go func() {
		var msg events.Message
		if err := decoder.Decode(&msg); err == nil {
			got <- msg
		}
	}()
	select {
	case msg := <-got:
		return msg, true
	case <-time.After(timeout):
		return events.Message{}, false
	}
}

func waitForClients(t *testing.T, server *Server, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if server.Metrics().ConnectedClients.Load() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d connected clients, have %d", want, server.Metrics().ConnectedClients.Load())
}

// ============================================================================
// TESTS
// ============================================================================

func TestNewServer_ReplacesStaleSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "nested", "cardsort.sock")
	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(socketPath, nil, 0600); err != nil {
		t.Fatalf("Failed to create stale socket: %v", err)
	}

	server, err := NewServer(socketPath, Options{})
	if err != nil {
		t.Fatalf("Expected NewServer to succeed, got: %v", err)
	}

	if server.opts != DefaultOptions() {
		t.Errorf("Expected zero options to fall back to defaults, got %+v", server.opts)
	}

	if err := server.Shutdown(); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if _, err := os.Stat(socketPath); !os.IsNotExist(err) {
		t.Error("Expected socket file to be removed on shutdown")
	}
}

func TestBroadcast_FiltersByOwner(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{})

	aliceEnc, aliceDec := connectRawClient(t, socketPath)
	bobEnc, bobDec := connectRawClient(t, socketPath)
	allEnc, allDec := connectRawClient(t, socketPath)
	subscribe(t, aliceEnc, "alice")
	subscribe(t, bobEnc, "bob")
	subscribe(t, allEnc, "")
	waitForClients(t, server, 3)
	time.Sleep(50 * time.Millisecond) // let subscriptions land

	if err := server.Broadcast(events.BoardChanged("alice")); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	msg, ok := readMessage(t, aliceDec, time.Second)
	if !ok || msg.Event == nil || msg.Event.OwnerID != "alice" {
		t.Fatalf("Expected alice's subscriber to receive the event, got %+v", msg)
	}
	if msg.Event.SequenceID != 1 {
		t.Errorf("Expected sequence id 1, got %d", msg.Event.SequenceID)
	}

	if _, ok := readMessage(t, allDec, time.Second); !ok {
		t.Error("Expected the all-owners subscriber to receive the event")
	}
	if msg, ok := readMessage(t, bobDec, 200*time.Millisecond); ok {
		t.Errorf("Expected bob's subscriber to receive nothing, got %+v", msg)
	}
}

func TestClientEventsAreRebroadcast(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{})

	listenerEnc, listenerDec := connectRawClient(t, socketPath)
	subscribe(t, listenerEnc, "alice")

	client := events.NewClient(socketPath, events.WithDebounce(10*time.Millisecond))
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	waitForClients(t, server, 2)

	if err := client.SendEvent(events.BoardChanged("alice")); err != nil {
		t.Fatalf("SendEvent failed: %v", err)
	}

	msg, ok := readMessage(t, listenerDec, 2*time.Second)
	if !ok || msg.Event == nil {
		t.Fatal("Expected the listener to receive the rebroadcast event")
	}
	if msg.Event.Type != events.EventBoardChanged || msg.Event.OwnerID != "alice" {
		t.Errorf("Unexpected event: %+v", msg.Event)
	}
	if server.Metrics().EventsReceived.Load() != 1 {
		t.Errorf("Expected 1 received event, got %d", server.Metrics().EventsReceived.Load())
	}
}

func TestHealthMonitor_PingsAndDropsStaleClients(t *testing.T) {
	server, socketPath := setupTestDaemon(t, Options{
		PingInterval: 20 * time.Millisecond,
		StaleAfter:   100 * time.Millisecond,
	})

	encoder, decoder := connectRawClient(t, socketPath)
	subscribe(t, encoder, "")
	waitForClients(t, server, 1)

	msg, ok := readMessage(t, decoder, time.Second)
	if !ok || msg.Type != "ping" {
		t.Fatalf("Expected a ping, got %+v", msg)
	}

	// Never answer with pong
	waitForClients(t, server, 0)
}

func TestBroadcastAfterShutdown(t *testing.T) {
	server, _ := setupTestDaemon(t, Options{})

	if err := server.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := server.Shutdown(); err != nil {
		t.Errorf("Second Shutdown failed: %v", err)
	}

	if err := server.Broadcast(events.BoardChanged("alice")); !errors.Is(err, net.ErrClosed) {
		t.Errorf("Expected net.ErrClosed after shutdown, got %v", err)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncEventsSent()
	m.IncEventsSent()
	m.IncEventsReceived()
	m.IncEventsDropped()
	m.IncBroadcasts()
	m.SetConnectedClients(3)

	snap := m.Snapshot()
	if snap.EventsSent != 2 || snap.EventsReceived != 1 || snap.EventsDropped != 1 || snap.Broadcasts != 1 {
		t.Errorf("Unexpected counters: %+v", snap)
	}
	if snap.ConnectedClients != 3 {
		t.Errorf("Expected 3 connected clients, got %d", snap.ConnectedClients)
	}
	if snap.Uptime == "" {
		t.Error("Expected uptime to be set")
	}
}
