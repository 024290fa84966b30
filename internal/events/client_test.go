package events

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"
)

// fakeDaemon accepts one connection and exposes what the client sent
type fakeDaemon struct {
	listener net.Listener
	received chan Message
	conn     chan net.Conn
}

func startFakeDaemon(t *testing.T) (*fakeDaemon, string) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "d.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	d := &fakeDaemon{
		listener: listener,
		received: make(chan Message, 16),
		conn:     make(chan net.Conn, 1),
	}

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		d.conn <- conn
		decoder := json.NewDecoder(conn)
		for {
			var msg Message
			if err := decoder.Decode(&msg); err != nil {
				return
			}
			d.received <- msg
		}
	}()

	t.Cleanup(func() { _ = listener.Close() })
	return d, socketPath
}

func (d *fakeDaemon) next(t *testing.T) Message {
	t.Helper()
	select {
	case msg := <-d.received:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for client message")
		return Message{}
	}
}

func TestClientConnectSendsSubscription(t *testing.T) {
	d, socketPath := startFakeDaemon(t)

	client := NewClient(socketPath, WithDebounce(10*time.Millisecond))
	defer func() { _ = client.Close() }()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	msg := d.next(t)
	if msg.Type != "subscribe" || msg.Subscribe == nil {
		t.Fatalf("Expected subscribe message, got %+v", msg)
	}
	if msg.Version != ProtocolVersion {
		t.Errorf("Expected version %d, got %d", ProtocolVersion, msg.Version)
	}
	if msg.Subscribe.OwnerID != "" {
		t.Errorf("Expected subscription to all owners, got %q", msg.Subscribe.OwnerID)
	}
}

func TestClientBatchesEventsPerOwner(t *testing.T) {
	d, socketPath := startFakeDaemon(t)

	client := NewClient(socketPath, WithDebounce(50*time.Millisecond))
	defer func() { _ = client.Close() }()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	d.next(t) // subscription

	for i := 0; i < 5; i++ {
		if err := client.SendEvent(BoardChanged("alice")); err != nil {
			t.Fatalf("SendEvent failed: %v", err)
		}
	}
	if err := client.SendEvent(BoardChanged("bob")); err != nil {
		t.Fatalf("SendEvent failed: %v", err)
	}

	owners := map[string]int{}
	for i := 0; i < 2; i++ {
		msg := d.next(t)
		if msg.Type != "event" || msg.Event == nil {
			t.Fatalf("Expected event message, got %+v", msg)
		}
		owners[msg.Event.OwnerID]++
	}

	if owners["alice"] != 1 || owners["bob"] != 1 {
		t.Errorf("Expected one batched event per owner, got %v", owners)
	}
}

func TestClientListenDropsReplayedSequences(t *testing.T) {
	d, socketPath := startFakeDaemon(t)

	client := NewClient(socketPath)
	defer func() { _ = client.Close() }()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := client.Listen(ctx)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	var conn net.Conn
	select {
	case conn = <-d.conn:
	case <-time.After(2 * time.Second):
		t.Fatal("Daemon never accepted the connection")
	}

	encoder := json.NewEncoder(conn)
	for _, seq := range []int64{1, 1, 2} {
		event := Event{Type: EventBoardChanged, OwnerID: "alice", SequenceID: seq}
		if err := encoder.Encode(Message{Version: ProtocolVersion, Type: "event", Event: &event}); err != nil {
			t.Fatalf("Failed to write event: %v", err)
		}
	}

	var got []int64
	for len(got) < 2 {
		select {
		case event := <-ch:
			got = append(got, event.SequenceID)
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out, received %v", got)
		}
	}

	if got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected sequences [1 2], got %v", got)
	}
}

func TestClientRespondsToPing(t *testing.T) {
	d, socketPath := startFakeDaemon(t)

	client := NewClient(socketPath)
	defer func() { _ = client.Close() }()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	d.next(t) // subscription

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := client.Listen(ctx); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	conn := <-d.conn
	if err := json.NewEncoder(conn).Encode(Message{Version: ProtocolVersion, Type: "ping"}); err != nil {
		t.Fatalf("Failed to write ping: %v", err)
	}

	if msg := d.next(t); msg.Type != "pong" {
		t.Errorf("Expected pong, got %q", msg.Type)
	}
}

func TestClientWithoutConnection(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "missing.sock"))

	if _, err := client.Listen(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected from Listen, got %v", err)
	}
	if err := client.Subscribe("alice"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected from Subscribe, got %v", err)
	}
	if err := client.Connect(context.Background()); err == nil {
		t.Error("Expected Connect to fail for a missing socket")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
	if err := client.SendEvent(BoardChanged("alice")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected after Close, got %v", err)
	}
}

func TestClassifyDaemonError(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	defer func() { _ = client.Close() }()

	err := client.Connect(context.Background())
	if err == nil {
		t.Fatal("Expected Connect to fail")
	}

	classified := ClassifyDaemonError(err)
	if classified.Code != ErrSocketNotFound {
		t.Errorf("Expected ErrSocketNotFound, got %v (%s)", classified.Code, classified.Error())
	}
	if ClassifyDaemonError(nil) != nil {
		t.Error("Expected nil for nil error")
	}
}
