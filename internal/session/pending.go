package session

import (
	"context"

	"github.com/thenoetrevino/cardsort/internal/models"
)

// PendingCommit is the eventual result of one drop
type PendingCommit struct {
	// Items is the batch sent to the persister; empty when skipped
	Items []models.ReorderItem

	done    chan struct{}
	outcome Outcome
	err     error
}

func newPendingCommit(items []models.ReorderItem) *PendingCommit {
	return &PendingCommit{Items: items, done: make(chan struct{})}
}

func skipped() *PendingCommit {
	p := newPendingCommit(nil)
	p.resolve(OutcomeSkipped, nil)
	return p
}

func (p *PendingCommit) resolve(outcome Outcome, err error) {
	p.outcome = outcome
	p.err = err
	close(p.done)
}

// Done is closed once the commit and any resync have finished
func (p *PendingCommit) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the commit resolves or ctx ends. The error is the
// persister's error for failed outcomes.
func (p *PendingCommit) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-p.done:
		return p.outcome, p.err
	case <-ctx.Done():
		return OutcomeTimeout, ctx.Err()
	}
}
