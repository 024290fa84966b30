package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/thenoetrevino/cardsort/internal/cache"
	"github.com/thenoetrevino/cardsort/internal/client"
	"github.com/thenoetrevino/cardsort/internal/config"
	"github.com/thenoetrevino/cardsort/internal/database"
	"github.com/thenoetrevino/cardsort/internal/events"
	"github.com/thenoetrevino/cardsort/internal/models"
	"github.com/thenoetrevino/cardsort/internal/services/reorder"
	"github.com/thenoetrevino/cardsort/internal/session"
)

// App holds all application services and provides dependency injection.
type App struct {
	// Repository layer, possibly wrapped by the Redis cache
	repo database.DataStore

	// Event system for live updates; nil when no daemon is running
	eventClient events.EventPublisher

	// Service layer (business logic)
	Service reorder.Service

	sessionDefaults []session.Option
	closers         []io.Closer
}

// New creates an App over an already opened store.
func New(repo database.DataStore, opts ...Option) *App {
	o := buildOptions(opts)
	return &App{
		repo:            repo,
		eventClient:     o.publisher,
		Service:         reorder.NewService(repo, o.publisher),
		sessionDefaults: o.sessionOptions(),
	}
}

// Open builds an App from configuration: Postgres when a database URL is
// set, SQLite otherwise, an optional Redis snapshot cache, and a daemon
// connection when one is listening.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}

	var (
		db   *sql.DB
		repo database.DataStore
		err  error
	)
	if cfg.Storage.DatabaseURL != "" {
		db, err = database.OpenPostgres(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		repo = database.NewPostgresRepository(db)
	} else {
		db, err = database.InitDB(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repo = database.NewSQLiteRepository(db)
	}
	closers = append(closers, db)

	if cfg.Cache.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			closeAll()
			return nil, err
		}
		boardCache := cache.New(repo, rdb, cfg.Cache.TTL)
		closers = append(closers, boardCache)
		repo = boardCache
	}

	// configured timeout first so explicit options still win
	opts = append([]Option{WithCommitTimeout(cfg.Client.CommitTimeout)}, opts...)
	if buildOptions(opts).publisher == nil && cfg.Daemon.Socket != "" {
		// The daemon is optional
		ec := events.NewClient(cfg.Daemon.Socket)
		if err := ec.Connect(ctx); err == nil {
			opts = append(opts, WithEventPublisher(ec))
			closers = append(closers, ec)
		} else {
			slog.Debug("event daemon unavailable", "socket", cfg.Daemon.Socket, "error", err)
			_ = ec.Close()
		}
	}

	a := New(repo, opts...)
	a.closers = closers
	return a, nil
}

// Repo returns the underlying store
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Events returns the daemon connection, or nil when there is none
func (a *App) Events() events.EventPublisher {
	return a.eventClient
}

// Board returns ownerID's board backed by this App's service
func (a *App) Board(ownerID string) Board {
	return localBoard{OwnerPersister: reorder.OwnerPersister{Service: a.Service, OwnerID: ownerID}}
}

// NewManager creates a drag session manager for board and loads it
func (a *App) NewManager(ctx context.Context, ownerID string, board Board, opts ...session.Option) (*session.Manager, error) {
	opts = append(append([]session.Option(nil), a.sessionDefaults...), opts...)
	mgr := session.NewManager(ownerID, board, opts...)
	if err := mgr.Resync(ctx); err != nil {
		return nil, err
	}
	return mgr, nil
}

// Close releases the daemon connection, cache and database in reverse
// order of opening
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Board is one owner's board as the CLI sees it, either in process or over
// the HTTP API
type Board interface {
	session.Persister
	GetCard(ctx context.Context, id string) (models.Card, error)
	CreateCard(ctx context.Context, title, description string, status models.Status) (models.Card, error)
	UpdateCard(ctx context.Context, id string, patch models.CardPatch) (models.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

var (
	_ Board = localBoard{}
	_ Board = (*client.Client)(nil)
)

type localBoard struct {
	reorder.OwnerPersister
}

func (b localBoard) GetCard(ctx context.Context, id string) (models.Card, error) {
	return b.Service.GetCard(ctx, b.OwnerID, id)
}

func (b localBoard) CreateCard(ctx context.Context, title, description string, status models.Status) (models.Card, error) {
	return b.Service.CreateCard(ctx, reorder.CreateCardRequest{
		OwnerID:     b.OwnerID,
		Title:       title,
		Description: description,
		Status:      status,
	})
}

func (b localBoard) UpdateCard(ctx context.Context, id string, patch models.CardPatch) (models.Card, error) {
	return b.Service.UpdateCard(ctx, reorder.UpdateCardRequest{OwnerID: b.OwnerID, CardID: id, CardPatch: patch})
}

func (b localBoard) DeleteCard(ctx context.Context, id string) error {
	return b.Service.DeleteCard(ctx, b.OwnerID, id)
}
