// Package reorder is the server side of board ordering: batch reorders plus
// the card create, edit and delete operations that keep columns dense.
package reorder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/thenoetrevino/cardsort/internal/database"
	"github.com/thenoetrevino/cardsort/internal/events"
	"github.com/thenoetrevino/cardsort/internal/models"
)

const maxTitleLength = 255

// Service defines all board operations for one or more owners
type Service interface {
	// Read operations
	ListCards(ctx context.Context, ownerID string) ([]models.Card, error)
	GetCard(ctx context.Context, ownerID, id string) (models.Card, error)

	// Write operations
	CreateCard(ctx context.Context, req CreateCardRequest) (models.Card, error)
	UpdateCard(ctx context.Context, req UpdateCardRequest) (models.Card, error)
	DeleteCard(ctx context.Context, ownerID, id string) error

	// Commit atomically applies a reorder batch. It returns an error
	// wrapping models.ErrInvalidReorder, models.ErrCardNotFound or
	// models.ErrConflict, or nil.
	Commit(ctx context.Context, ownerID string, items []models.ReorderItem) error
}

// CreateCardRequest encapsulates the data needed to create a card.
// An empty Status defaults to todo.
type CreateCardRequest struct {
	OwnerID     string
	Title       string
	Description string
	Status      models.Status
}

// UpdateCardRequest is a partial update; nil fields are left unchanged
type UpdateCardRequest struct {
	OwnerID string
	CardID  string
	models.CardPatch
}

type service struct {
	repo        database.DataStore
	eventClient events.EventPublisher
}

// NewService creates a new board service. eventClient may be nil.
func NewService(repo database.DataStore, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

func (s *service) ListCards(ctx context.Context, ownerID string) ([]models.Card, error) {
	if ownerID == "" {
		return nil, ErrInvalidOwnerID
	}
	return s.repo.ListCards(ctx, ownerID)
}

func (s *service) GetCard(ctx context.Context, ownerID, id string) (models.Card, error) {
	if ownerID == "" {
		return models.Card{}, ErrInvalidOwnerID
	}
	if id == "" {
		return models.Card{}, ErrInvalidCardID
	}
	return s.repo.GetCard(ctx, ownerID, id)
}

// CreateCard appends a new card at the end of its column
func (s *service) CreateCard(ctx context.Context, req CreateCardRequest) (models.Card, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Status == "" {
		req.Status = models.StatusTodo
	}
	if err := validateCreateCard(req); err != nil {
		return models.Card{}, err
	}

	card, err := s.repo.CreateCard(ctx, models.Card{
		ID:          uuid.NewString(),
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to create card: %w", err)
	}

	s.publishBoardChanged(req.OwnerID)
	return card, nil
}

// UpdateCard edits a card's fields and, optionally, its placement
func (s *service) UpdateCard(ctx context.Context, req UpdateCardRequest) (models.Card, error) {
	if req.OwnerID == "" {
		return models.Card{}, ErrInvalidOwnerID
	}
	if req.CardID == "" {
		return models.Card{}, ErrInvalidCardID
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if err := validateTitle(trimmed); err != nil {
			return models.Card{}, err
		}
		req.Title = &trimmed
	}
	if req.Status != nil && !req.Status.Valid() {
		return models.Card{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, *req.Status)
	}
	if req.Position != nil && *req.Position < 0 {
		return models.Card{}, models.ErrInvalidPosition
	}

	card, err := s.repo.UpdateCard(ctx, req.OwnerID, req.CardID, req.CardPatch)
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to update card: %w", err)
	}

	s.publishBoardChanged(req.OwnerID)
	return card, nil
}

// DeleteCard removes a card and compacts its column
func (s *service) DeleteCard(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return ErrInvalidOwnerID
	}
	if id == "" {
		return ErrInvalidCardID
	}

	if err := s.repo.DeleteCard(ctx, ownerID, id); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	s.publishBoardChanged(ownerID)
	return nil
}

// Commit validates and applies a reorder batch. Invalid batches are caller
// bugs and never reach storage.
func (s *service) Commit(ctx context.Context, ownerID string, items []models.ReorderItem) error {
	if ownerID == "" {
		return fmt.Errorf("%w: %w", models.ErrInvalidReorder, ErrInvalidOwnerID)
	}
	if err := models.ValidateReorder(items); err != nil {
		slog.Warn("rejecting invalid reorder", "owner_id", ownerID, "items", len(items), "error", err)
		return err
	}

	if err := s.repo.ApplyReorder(ctx, ownerID, items); err != nil {
		slog.Info("reorder not applied", "owner_id", ownerID, "items", len(items), "error", err)
		return err
	}

	s.publishBoardChanged(ownerID)
	return nil
}

func validateCreateCard(req CreateCardRequest) error {
	if req.OwnerID == "" {
		return ErrInvalidOwnerID
	}
	if err := validateTitle(req.Title); err != nil {
		return err
	}
	if !req.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, req.Status)
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// publishBoardChanged tells other processes to resync this owner's board
func (s *service) publishBoardChanged(ownerID string) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(s.eventClient, events.BoardChanged(ownerID), 3)
}
