package cli

import (
	"context"

	"github.com/thenoetrevino/cardsort/internal/app"
	"github.com/thenoetrevino/cardsort/internal/config"
)

type contextKey struct{}

type injected struct {
	app   *app.App
	owner string
}

// WithApp makes commands run against an existing App instead of opening
// the configured board. The caller keeps ownership of the App.
func WithApp(ctx context.Context, a *app.App, ownerID string) context.Context {
	return context.WithValue(ctx, contextKey{}, injected{app: a, owner: ownerID})
}

// GetCLIFromContext returns the CLI for a command: the injected App when
// there is one, the configured board otherwise
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	inj, ok := ctx.Value(contextKey{}).(injected)
	if !ok || inj.app == nil {
		return NewCLI(ctx)
	}

	return &CLI{
		Config: &config.Config{
			Owner:  inj.owner,
			Client: config.ClientConfig{CommitTimeout: config.DefaultCommitTimeout},
			Theme:  config.DefaultColorScheme(),
		},
		Owner: inj.owner,
		Board: inj.app.Board(inj.owner),
		App:   inj.app,
	}, nil
}
