// Package daemon fans board_changed events out to every connected cardsort
// process over a unix domain socket.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/cardsort/internal/events"
)

// ErrBroadcastFull is returned when the broadcast queue cannot accept an event
var ErrBroadcastFull = errors.New("broadcast channel full")

// Options tunes buffer sizes and health checking
type Options struct {
	BroadcastBuffer int
	ClientBuffer    int
	PingInterval    time.Duration
	// StaleAfter drops clients that have not answered a ping for this long
	StaleAfter time.Duration
}

// DefaultOptions returns the production settings
func DefaultOptions() Options {
	return Options{
		BroadcastBuffer: 100,
		ClientBuffer:    10,
		PingInterval:    30 * time.Second,
		StaleAfter:      90 * time.Second,
	}
}

type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	mu           sync.Mutex // guards subscription and lastPong
	closeOnce    sync.Once
}

func (c *client) subscribedTo(event events.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return event.Matches(c.subscription.OwnerID)
}

// Server is the cardsort event daemon
type Server struct {
	socketPath   string
	listener     net.Listener
	opts         Options
	clients      map[*client]bool
	mu           sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc
	broadcast    chan events.Event
	metrics      *Metrics
	sequence     atomic.Int64
	shutdownOnce sync.Once
}

// NewServer listens on socketPath, replacing a stale socket file if present.
func NewServer(socketPath string, opts Options) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if err := os.Remove(socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	defaults := DefaultOptions()
	if opts.BroadcastBuffer <= 0 {
		opts.BroadcastBuffer = defaults.BroadcastBuffer
	}
	if opts.ClientBuffer <= 0 {
		opts.ClientBuffer = defaults.ClientBuffer
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaults.PingInterval
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = defaults.StaleAfter
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		opts:       opts,
		clients:    make(map[*client]bool),
		ctx:        ctx,
		cancel:     cancel,
		broadcast:  make(chan events.Event, opts.BroadcastBuffer),
		metrics:    NewMetrics(),
	}, nil
}

// Metrics returns the live counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the accept, broadcast and health loops until ctx is cancelled
// or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon listening", "socket_path", s.socketPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(runCtx)
	}()
	go s.broadcastLoop(runCtx)
	go s.monitorHealth(runCtx)

	select {
	case <-runCtx.Done():
		slog.Info("daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			slog.Error("accept loop failed", "error", err)
		}
	}

	return s.Shutdown()
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.opts.ClientBuffer),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		count := len(s.clients)
		s.mu.Unlock()
		s.metrics.SetConnectedClients(int32(count))

		slog.Debug("client connected", "clients", count)

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps each event with the next sequence id and queues it
// for every matching subscriber. Slow clients miss events rather than block.
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequence.Add(1)
			s.metrics.IncBroadcasts()

			msg := events.Message{
				Version: events.ProtocolVersion,
				Type:    "event",
				Event:   &event,
			}

			s.mu.RLock()
			for c := range s.clients {
				if !c.subscribedTo(event) {
					continue
				}
				if !s.sendToClient(c, msg) {
					s.metrics.IncEventsDropped()
					slog.Warn("client send queue full, event dropped", "owner_id", event.OwnerID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		slog.Debug("client disconnected", "clients", s.clientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			s.metrics.IncEventsReceived()
			if err := s.Broadcast(*msg.Event); err != nil {
				slog.Warn("dropping client event", "error", err)
			}

		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("client subscribed", "owner_id", msg.Subscribe.OwnerID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings every client and drops those that stopped answering
func (s *Server) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	ping := events.Message{Version: events.ProtocolVersion, Type: "ping"}

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-ticker.C:
			var stale []*client

			s.mu.RLock()
			for c := range s.clients {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()

				if now.Sub(lastPong) > s.opts.StaleAfter {
					stale = append(stale, c)
					continue
				}
				s.sendToClient(c, ping)
			}
			s.mu.RUnlock()

			// removeClient takes the write lock
			for _, c := range stale {
				slog.Info("removing stale client")
				s.removeClient(c)
			}
		}
	}
}

// Broadcast queues an event for delivery without blocking
func (s *Server) Broadcast(event events.Event) error {
	if s.ctx.Err() != nil {
		return net.ErrClosed
	}
	select {
	case s.broadcast <- event:
		return nil
	default:
		return ErrBroadcastFull
	}
}

// Shutdown closes the listener and every client, then removes the socket file.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cancel()

		if closeErr := s.listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			err = fmt.Errorf("failed to close listener: %w", closeErr)
		}

		s.mu.Lock()
		for c := range s.clients {
			_ = c.conn.Close()
			c.closeOnce.Do(func() { close(c.send) })
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()
		s.metrics.SetConnectedClients(0)

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
			slog.Warn("failed to remove socket file", "error", removeErr)
		}
	})
	return err
}

func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	_, present := s.clients[c]
	delete(s.clients, c)
	count := len(s.clients)
	s.mu.Unlock()

	if !present {
		return
	}

	_ = c.conn.Close()
	c.closeOnce.Do(func() { close(c.send) })
	s.metrics.SetConnectedClients(int32(count))
}

// sendToClient queues msg without blocking; false means the queue is full.
// Callers hold s.mu so c.send cannot be closed concurrently.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	select {
	case c.send <- msg:
		s.metrics.IncEventsSent()
		return true
	default:
		return false
	}
}
