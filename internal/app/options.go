package app

import (
	"log/slog"
	"time"

	"github.com/thenoetrevino/cardsort/internal/events"
	"github.com/thenoetrevino/cardsort/internal/session"
)

// Option configures an App
type Option func(*options)

type options struct {
	publisher     events.EventPublisher
	logger        *slog.Logger
	commitTimeout time.Duration
}

// WithEventPublisher announces board changes through p instead of dialing
// the configured daemon
func WithEventPublisher(p events.EventPublisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithLogger sets the logger handed to drag sessions
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCommitTimeout bounds the drop commits of managers built by NewManager.
// Zero keeps the session default.
func WithCommitTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.commitTimeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:        slog.Default(),
		commitTimeout: session.DefaultCommitTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// sessionOptions are applied before the caller's own in NewManager
func (o options) sessionOptions() []session.Option {
	return []session.Option{
		session.WithLogger(o.logger),
		session.WithCommitTimeout(o.commitTimeout),
	}
}
