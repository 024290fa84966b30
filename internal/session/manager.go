// Package session runs drag-and-drop reordering against one owner's board.
//
// A Manager owns the committed board and hands out at most one Session at a
// time. A Session renders a speculative preview while the pointer moves and,
// on drop, adopts it optimistically and commits it in the background. Failed
// commits discard the optimistic board by reloading from storage.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/cardsort/internal/board"
	"github.com/thenoetrevino/cardsort/internal/events"
	"github.com/thenoetrevino/cardsort/internal/models"
)

// DefaultCommitTimeout bounds one commit round trip
const DefaultCommitTimeout = 10 * time.Second

// Persister is the durable side of a board
type Persister interface {
	// Commit atomically applies the batch for the manager's owner
	Commit(ctx context.Context, items []models.ReorderItem) error
	// List returns every card of the owner in board order
	List(ctx context.Context) ([]models.Card, error)
}

// Notice describes a commit that failed and was recovered by a resync
type Notice struct {
	CardID  string
	Outcome Outcome
	Err     error
}

// Notifier surfaces failed commits to the user
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Option configures a Manager
type Option func(*Manager)

// WithNotifier sets the failure notifier
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithLogger sets the logger; defaults to slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithCommitTimeout bounds each commit and resync call
func WithCommitTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// Manager holds one owner's committed board and its active drag session
type Manager struct {
	ownerID   string
	persister Persister
	notifier  Notifier
	logger    *slog.Logger
	timeout   time.Duration

	mu        sync.Mutex
	committed *board.Board
	active    *Session
	// generation increments whenever committed is replaced, so a failed
	// resync only rolls back if nothing newer was adopted since
	generation uint64
	// resyncedAt is the generation installed by the latest Resync
	resyncedAt uint64

	inflight sync.WaitGroup
}

// NewManager creates a manager with an empty board. Call Resync to load it.
func NewManager(ownerID string, persister Persister, opts ...Option) *Manager {
	m := &Manager{
		ownerID:   ownerID,
		persister: persister,
		timeout:   DefaultCommitTimeout,
		committed: board.Empty(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.logger = m.logger.With("owner_id", ownerID)
	return m
}

// Board returns the committed board
func (m *Manager) Board() *board.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// Active returns the dragging session, or nil when idle
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// State reports Dragging while a session is live, Idle otherwise
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return Dragging
	}
	return Idle
}

// PickUp starts dragging cardID. Only one session may drag at a time; a
// commit from an earlier drop may still be in flight.
func (m *Manager) PickUp(cardID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, fmt.Errorf("%w: %s is being dragged", ErrDragInProgress, m.active.cardID)
	}

	card, ok := m.committed.Get(cardID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, cardID)
	}

	s := &Session{
		manager: m,
		cardID:  cardID,
		source:  card.Status,
		state:   Dragging,
	}
	m.active = s
	m.logger.Debug("drag started", "card_id", cardID, "status", card.Status)
	return s, nil
}

// Resync replaces the committed board with the persister's current state.
// An active session keeps its preview.
func (m *Manager) Resync(ctx context.Context) error {
	cards, err := m.persister.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload board: %w", err)
	}

	next := board.New(cards)
	m.mu.Lock()
	m.committed = next
	m.generation++
	m.resyncedAt = m.generation
	m.mu.Unlock()

	m.logger.Debug("board resynced", "cards", next.Len())
	return nil
}

// Follow resyncs whenever the event stream reports a change to this owner's
// board. It returns when ctx ends or the stream closes.
func (m *Manager) Follow(ctx context.Context, stream <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-stream:
			if !ok {
				return
			}
			if event.Type != events.EventBoardChanged || !event.Matches(m.ownerID) {
				continue
			}
			rctx, cancel := context.WithTimeout(ctx, m.timeout)
			if err := m.Resync(rctx); err != nil {
				m.logger.Warn("resync after remote change failed", "error", err)
			}
			cancel()
		}
	}
}

// Wait blocks until every in-flight commit has resolved
func (m *Manager) Wait() {
	m.inflight.Wait()
}

// adopt installs an optimistic board and returns its generation.
// Caller holds m.mu.
func (m *Manager) adopt(next *board.Board) uint64 {
	m.committed = next
	m.generation++
	return m.generation
}

// commit runs one persister call and, on failure, the recovery resync
func (m *Manager) commit(ctx context.Context, pending *PendingCommit, cardID string, previous *board.Board, gen uint64) {
	defer m.inflight.Done()

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.persister.Commit(cctx, pending.Items)
	cancel()

	outcome := Classify(err)
	if outcome == OutcomeOK {
		m.logger.Debug("reorder committed", "card_id", cardID, "items", len(pending.Items))
		// A resync since this drop was adopted may have loaded storage from
		// before this batch landed
		m.mu.Lock()
		stale := m.resyncedAt > gen
		m.mu.Unlock()
		if stale {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
			if err := m.Resync(rctx); err != nil {
				m.logger.Warn("resync after overtaken commit failed", "card_id", cardID, "error", err)
			}
			cancel()
		}
		pending.resolve(outcome, nil)
		return
	}

	if outcome == OutcomeInvalid {
		m.logger.Warn("reorder rejected as invalid", "card_id", cardID, "error", err)
	} else {
		m.logger.Info("reorder failed, resyncing", "card_id", cardID, "outcome", outcome, "error", err)
	}

	// The drop's own context may be gone; the resync must still run
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()
	if resyncErr := m.Resync(rctx); resyncErr != nil {
		m.logger.Error("resync failed", "error", resyncErr)
		m.mu.Lock()
		if m.generation == gen {
			m.committed = previous
			m.generation++
		}
		m.mu.Unlock()
	}

	if m.notifier != nil {
		m.notifier.Notify(Notice{CardID: cardID, Outcome: outcome, Err: err})
	}
	pending.resolve(outcome, err)
}
