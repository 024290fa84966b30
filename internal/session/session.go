package session

import (
	"context"

	"github.com/thenoetrevino/cardsort/internal/board"
	"github.com/thenoetrevino/cardsort/internal/collision"
	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/projector"
)

// Session is one drag of one card. All methods are safe to call from the
// goroutine delivering pointer events; they share the manager's lock.
type Session struct {
	manager *Manager
	cardID  string
	source  models.Status

	state   State
	preview *board.Board // nil until a tick changes the ordering
	target  projector.Target
}

// CardID returns the dragged card's id
func (s *Session) CardID() string {
	return s.cardID
}

// State returns the session's lifecycle state
func (s *Session) State() State {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()
	return s.state
}

// Preview returns the speculative board, or nil when the committed board
// should be rendered
func (s *Session) Preview() *board.Board {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()
	return s.preview
}

// Target returns the last resolved target
func (s *Session) Target() projector.Target {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()
	return s.target
}

// PointerTick resolves the frame to a target and updates the preview.
// It returns the board to render. Projection failures (a neighbor that
// vanished in a resync) abort the tick and keep the previous preview.
func (s *Session) PointerTick(frame collision.Frame) (*board.Board, error) {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()

	if s.state != Dragging {
		return nil, ErrSessionClosed
	}

	base := s.viewLocked()
	target, ok := collision.Resolve(frame, base, s.target)
	if !ok {
		return base, nil
	}
	return s.moveLocked(base, target), nil
}

// Hover moves the preview to an explicit target, bypassing collision
// detection. Used by keyboard and command-line moves.
func (s *Session) Hover(target projector.Target) (*board.Board, error) {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()

	if s.state != Dragging {
		return nil, ErrSessionClosed
	}
	return s.moveLocked(s.viewLocked(), target), nil
}

// Cancel ends the drag without persisting anything
func (s *Session) Cancel() error {
	s.manager.mu.Lock()
	defer s.manager.mu.Unlock()

	if s.state != Dragging {
		return ErrSessionClosed
	}
	s.closeLocked(Cancelled)
	s.manager.logger.Debug("drag cancelled", "card_id", s.cardID)
	return nil
}

// Drop ends the drag. When the ordering changed, the new board is adopted as
// committed immediately and persisted in the background; the returned
// PendingCommit reports how that went. ctx bounds the background commit.
func (s *Session) Drop(ctx context.Context) (*PendingCommit, error) {
	m := s.manager
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.state != Dragging {
		return nil, ErrSessionClosed
	}
	preview, target := s.preview, s.target
	s.closeLocked(Dropped)

	if target.IsZero() {
		m.logger.Debug("drop without target", "card_id", s.cardID)
		return skipped(), nil
	}

	working := preview
	if working == nil {
		next, err := projector.Project(m.committed, projector.Move{CardID: s.cardID, Target: target})
		if err != nil {
			m.logger.Debug("drop target no longer valid", "card_id", s.cardID, "error", err)
			return skipped(), nil
		}
		working = next
	}

	card, ok := working.Get(s.cardID)
	if !ok {
		return skipped(), nil
	}

	items := working.Triples(s.source, card.Status)
	if m.committed.Matches(items) {
		m.logger.Debug("drop left ordering unchanged", "card_id", s.cardID)
		return skipped(), nil
	}

	previous := m.committed
	gen := m.adopt(working)

	pending := newPendingCommit(items)
	m.inflight.Add(1)
	go m.commit(ctx, pending, s.cardID, previous, gen)

	return pending, nil
}

// viewLocked returns the board currently rendered for this drag
func (s *Session) viewLocked() *board.Board {
	if s.preview != nil {
		return s.preview
	}
	return s.manager.committed
}

func (s *Session) moveLocked(base *board.Board, target projector.Target) *board.Board {
	next, err := projector.Project(base, projector.Move{CardID: s.cardID, Target: target})
	if err != nil {
		s.manager.logger.Debug("pointer tick skipped", "card_id", s.cardID, "error", err)
		return base
	}

	s.target = target
	if next != base {
		s.preview = next
	}
	return s.viewLocked()
}

func (s *Session) closeLocked(state State) {
	s.state = state
	s.preview = nil
	s.target = projector.Target{}
	if s.manager.active == s {
		s.manager.active = nil
	}
}
